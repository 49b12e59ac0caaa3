package aproafa

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

type refInsumo struct {
	IDInsumo int64 `json:"idInsumo"`
}

type refProveedor struct {
	IDProveedor int64 `json:"idProveedor"`
}

type compraWire struct {
	Insumo         refInsumo     `json:"insumo"`
	Cantidad       json.Number   `json:"cantidad"`
	PrecioUnitario json.Number   `json:"precioUnitario"`
	FechaCompra    string        `json:"fechaCompra"`
	Proveedor      *refProveedor `json:"proveedor"`
}

// CreateCompra POST /api/compra-insumos. El servidor suma la cantidad al insumo.
func (c *Client) CreateCompra(ctx context.Context, in entity.NuevaCompra) (*entity.CompraInsumo, error) {
	body := compraWire{
		Insumo:         refInsumo{IDInsumo: in.IDInsumo},
		Cantidad:       num(in.Cantidad),
		PrecioUnitario: num(in.PrecioUnitario),
		FechaCompra:    in.FechaCompra.Day(),
	}
	if in.IDProveedor != 0 {
		body.Proveedor = &refProveedor{IDProveedor: in.IDProveedor}
	}
	resp, err := c.send(ctx, http.MethodPost, "/api/compra-insumos", body)
	if err != nil {
		return nil, err
	}
	var out entity.CompraInsumo
	_ = resp.DecodeJSON(&out)
	return &out, nil
}

// ListCompras GET /api/compra-insumos (todas las fincas; se filtran por proveedor).
func (c *Client) ListCompras(ctx context.Context) ([]entity.CompraInsumo, error) {
	var out []entity.CompraInsumo
	if err := c.getJSON(ctx, "/api/compra-insumos", &out); err != nil {
		return nil, err
	}
	return out, nil
}
