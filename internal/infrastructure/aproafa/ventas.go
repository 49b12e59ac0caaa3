package aproafa

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

type ventaConDetalles struct {
	Venta    ventaHeader   `json:"venta"`
	Detalles []detalleWire `json:"detalles"`
}

type ventaHeader struct {
	IDCliente    int64       `json:"idCliente"`
	IDPersona    int64       `json:"idPersona"`
	MetodoPago   string      `json:"metodoPago"`
	IDMetodoPago int64       `json:"idMetodoPago"`
	Total        json.Number `json:"total"`
	IDFinca      int64       `json:"idFinca"`
}

type detalleWire struct {
	IDProduccion   int64       `json:"idProduccion"`
	Cantidad       json.Number `json:"cantidad"`
	PrecioUnitario json.Number `json:"precioUnitario"`
}

// CreateVenta POST /api/ventas/con-detalles. Devuelve la venta creada si el servidor la incluye.
func (c *Client) CreateVenta(ctx context.Context, in entity.NuevaVenta) (*entity.Venta, error) {
	body := ventaConDetalles{
		Venta: ventaHeader{
			IDCliente:    in.IDCliente,
			IDPersona:    in.IDPersona,
			MetodoPago:   in.MetodoPago,
			IDMetodoPago: in.IDMetodoPago,
			Total:        num(in.Total),
			IDFinca:      in.IDFinca,
		},
		Detalles: make([]detalleWire, 0, len(in.Detalles)),
	}
	for _, d := range in.Detalles {
		body.Detalles = append(body.Detalles, detalleWire{
			IDProduccion:   d.IDProduccion,
			Cantidad:       num(d.Cantidad),
			PrecioUnitario: num(d.PrecioUnitario),
		})
	}
	resp, err := c.send(ctx, http.MethodPost, "/api/ventas/con-detalles", body)
	if err != nil {
		return nil, err
	}
	// el cuerpo de éxito varía entre versiones del backend (JSON o texto)
	var out entity.Venta
	_ = resp.DecodeJSON(&out)
	return &out, nil
}

// ListVentasByFinca GET /api/ventas/finca/{idFinca}.
func (c *Client) ListVentasByFinca(ctx context.Context, idFinca int64) ([]entity.Venta, error) {
	var out []entity.Venta
	if err := c.getJSON(ctx, idPath("/api/ventas/finca/%d", idFinca), &out); err != nil {
		return nil, err
	}
	return out, nil
}
