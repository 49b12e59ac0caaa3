package aproafa

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// GetProduccion GET /produccion/{id}.
func (c *Client) GetProduccion(ctx context.Context, id int64) (*entity.Produccion, error) {
	var out entity.Produccion
	if err := c.getJSON(ctx, idPath("/produccion/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProduccionByFinca GET /produccion/finca/{idFinca}.
func (c *Client) ListProduccionByFinca(ctx context.Context, idFinca int64) ([]entity.Produccion, error) {
	var out []entity.Produccion
	if err := c.getJSON(ctx, idPath("/produccion/finca/%d", idFinca), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cosechar PUT /produccion/{id}/cosechar: fija la cantidad cosechada (valor absoluto, idempotente).
func (c *Client) Cosechar(ctx context.Context, id int64, cantidad decimal.Decimal, fecha string) error {
	q := url.Values{}
	q.Set("cantidadCosechada", cantidad.String())
	q.Set("fechaCosecha", fecha)
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/produccion/%d/cosechar?%s", id, q.Encode()), nil, nil)
}
