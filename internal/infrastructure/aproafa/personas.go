package aproafa

import (
	"context"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// ListClientesByFinca GET /api/clientes/finca/{idFinca}.
func (c *Client) ListClientesByFinca(ctx context.Context, idFinca int64) ([]entity.Cliente, error) {
	var out []entity.Cliente
	if err := c.getJSON(ctx, idPath("/api/clientes/finca/%d", idFinca), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProveedoresByFinca GET /api/proveedores/finca/{idFinca}.
func (c *Client) ListProveedoresByFinca(ctx context.Context, idFinca int64) ([]entity.Proveedor, error) {
	var out []entity.Proveedor
	if err := c.getJSON(ctx, idPath("/api/proveedores/finca/%d", idFinca), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActividadesByFinca GET /actividades/finca/{idFinca}.
func (c *Client) ListActividadesByFinca(ctx context.Context, idFinca int64) ([]entity.Actividad, error) {
	var out []entity.Actividad
	if err := c.getJSON(ctx, idPath("/actividades/finca/%d", idFinca), &out); err != nil {
		return nil, err
	}
	return out, nil
}
