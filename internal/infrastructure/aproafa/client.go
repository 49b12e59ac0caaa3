package aproafa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Client API tipada del backend APROAFA sobre el Gateway.
// Toda respuesta no-2xx se devuelve como *domain.RemoteError.
type Client struct {
	gw *Gateway
}

// NewClient construye el cliente.
func NewClient(gw *Gateway) *Client {
	return &Client{gw: gw}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.DecodeJSON(out)
}

// send devuelve la respuesta solo si es 2xx.
func (c *Client) send(ctx context.Context, method, path string, body any) (*Response, error) {
	req, err := JSONRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.gw.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.RemoteError()
	}
	return resp, nil
}

// num serializa un decimal como número JSON (no como string).
func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
