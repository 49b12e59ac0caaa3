package aproafa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

type insumoDTO struct {
	Nombre             string      `json:"nombre"`
	Descripcion        string      `json:"descripcion"`
	UnidadMedida       string      `json:"unidadMedida"`
	IDProveedor        *int64      `json:"idProveedor"`
	CantidadDisponible json.Number `json:"cantidadDisponible"`
	IDFinca            int64       `json:"idFinca"`
}

// GetInsumo GET /insumos/{id}.
func (c *Client) GetInsumo(ctx context.Context, id int64) (*entity.Insumo, error) {
	var out entity.Insumo
	if err := c.getJSON(ctx, idPath("/insumos/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInsumosByFinca GET /insumos/finca/{idFinca}.
func (c *Client) ListInsumosByFinca(ctx context.Context, idFinca int64) ([]entity.Insumo, error) {
	var out []entity.Insumo
	if err := c.getJSON(ctx, idPath("/insumos/finca/%d", idFinca), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateInsumo PUT /insumos/{id}. IDProveedor 0 se envía como null.
func (c *Client) UpdateInsumo(ctx context.Context, id int64, in entity.InsumoCambios) error {
	body := insumoDTO{
		Nombre:             in.Nombre,
		Descripcion:        in.Descripcion,
		UnidadMedida:       in.UnidadMedida,
		CantidadDisponible: num(in.CantidadDisponible),
		IDFinca:            in.IDFinca,
	}
	if in.IDProveedor != 0 {
		p := in.IDProveedor
		body.IDProveedor = &p
	}
	return c.sendJSON(ctx, http.MethodPut, idPath("/insumos/%d", id), body, nil)
}

// RegisterSupplyUsage POST /insumos/uso/{id}/{cantidad}. El servidor descuenta la cantidad.
func (c *Client) RegisterSupplyUsage(ctx context.Context, id int64, cantidad decimal.Decimal) error {
	return c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/insumos/uso/%d/%s", id, cantidad.String()), nil, nil)
}
