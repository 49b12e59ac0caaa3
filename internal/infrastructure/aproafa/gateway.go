package aproafa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/metrics"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// LoginPath destino de navegación tras una sesión expirada.
const LoginPath = "/login"

// DefaultMaxBodyBytes tope del cuerpo de respuesta leído en memoria.
const DefaultMaxBodyBytes = 10 << 20

// ErrResponseTooLarge el cuerpo supera el tope configurado.
var ErrResponseTooLarge = errors.New("respuesta demasiado grande")

// SessionStore lo que el gateway necesita de la sesión.
type SessionStore interface {
	Token() (string, bool)
	Clear(ctx context.Context) error
}

// Navigator recibe las redirecciones forzadas (401 -> /login).
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapta una función a Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Request configuración genérica de una petición HTTP.
// URL puede ser absoluta o relativa a la URL base del backend.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// JSONRequest serializa body como JSON (nil = sin cuerpo).
func JSONRequest(method, url string, body any) (Request, error) {
	req := Request{Method: method, URL: url}
	if body == nil {
		return req, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Request{}, fmt.Errorf("serializar cuerpo: %w", err)
	}
	req.Body = b
	return req, nil
}

// Response respuesta cruda. El gateway no interpreta estados distintos de 401.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK estado 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON decodifica el cuerpo en v. Un cuerpo vacío no es error.
func (r *Response) DecodeJSON(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("respuesta %d no es JSON válido: %w", r.StatusCode, err)
	}
	return nil
}

// ErrorMessage extrae el mensaje de error del cuerpo: el backend responde a veces
// JSON {"error"} o {"message"}, a veces texto plano.
func (r *Response) ErrorMessage() string {
	body := bytes.TrimSpace(r.Body)
	if len(body) > 0 && gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.Type == gjson.String && parsed.String() != "" {
			return parsed.String()
		}
		for _, key := range []string{"error", "message", "mensaje"} {
			if v := parsed.Get(key); v.Exists() && strings.TrimSpace(v.String()) != "" {
				return strings.TrimSpace(v.String())
			}
		}
	}
	if len(body) > 0 && !gjson.ValidBytes(body) {
		return string(body)
	}
	return fmt.Sprintf("Error %d: %s", r.StatusCode, http.StatusText(r.StatusCode))
}

// RemoteError error tipado para una respuesta no-2xx.
func (r *Response) RemoteError() error {
	return &domain.RemoteError{Status: r.StatusCode, Message: r.ErrorMessage()}
}

// Gateway emite peticiones autenticadas contra el backend APROAFA.
type Gateway struct {
	baseURL string
	client  *http.Client
	session SessionStore
	nav     Navigator
	maxBody int64
	log     *logger.Logger
}

// GatewayConfig parámetros del gateway. Timeout 0 = sin timeout explícito.
type GatewayConfig struct {
	BaseURL      string
	Timeout      time.Duration
	Client       *http.Client // opcional (tests)
	MaxBodyBytes int64        // 0 = DefaultMaxBodyBytes
}

// NewGateway construye el gateway. nav puede ser nil.
func NewGateway(cfg GatewayConfig, session SessionStore, nav Navigator, log *logger.Logger) *Gateway {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		session: session,
		nav:     nav,
		maxBody: maxBody,
		log:     logger.OrNop(log).Named("gateway"),
	}
}

// Do emite la petición con el token de sesión.
//   - sin token: domain.ErrUnauthenticated, sin tocar la red.
//   - 401: limpia la sesión, navega a /login y devuelve domain.ErrSessionExpired,
//     aunque el cuerpo no se haya podido leer.
//   - otro estado: la respuesta cruda, sin error.
//   - fallo de transporte o de lectura del cuerpo: el error tal cual.
func (g *Gateway) Do(ctx context.Context, req Request) (*Response, error) {
	token, ok := g.session.Token()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Authorization", "Bearer "+token)
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}

	resp, err := g.send(ctx, req, header)
	if resp != nil && resp.StatusCode == http.StatusUnauthorized {
		metrics.RecordSessionExpired()
		if err := g.session.Clear(ctx); err != nil {
			g.log.Error().Err(err).Msg("no se pudo limpiar la sesión persistida tras 401")
		}
		g.log.Info().Str("method", req.Method).Str("url", req.URL).Msg("sesión expirada (401)")
		g.nav.Navigate(LoginPath)
		return nil, domain.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DoAnonymous emite la petición sin token ni tratamiento especial del 401 (login).
func (g *Gateway) DoAnonymous(ctx context.Context, req Request) (*Response, error) {
	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	resp, err := g.send(ctx, req, header)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// send devuelve nil si no hubo respuesta. Si la respuesta llegó pero su cuerpo no se
// pudo leer devuelve la respuesta (estado y cabeceras) junto con el error.

func (g *Gateway) send(ctx context.Context, req Request, header http.Header) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, g.resolve(req.URL), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header = header

	start := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		metrics.RecordGatewayRequest(method, 0, time.Since(start))
		g.log.Debug().Err(err).Str("method", method).Str("url", httpReq.URL.String()).Msg("fallo de transporte")
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := g.readBody(httpResp.Body)
	metrics.RecordGatewayRequest(method, httpResp.StatusCode, time.Since(start))
	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	if err != nil {
		g.log.Debug().Err(err).Str("method", method).Str("url", httpReq.URL.String()).Int("status", httpResp.StatusCode).Msg("cuerpo ilegible")
		return resp, err
	}
	g.log.Debug().Str("method", method).Str("url", httpReq.URL.String()).Int("status", httpResp.StatusCode).Msg("backend")
	return resp, nil
}

// readBody lee hasta maxBody bytes; un byte más es ErrResponseTooLarge.
func (g *Gateway) readBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, g.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}
	if int64(len(data)) > g.maxBody {
		return nil, fmt.Errorf("%w: más de %d bytes", ErrResponseTooLarge, g.maxBody)
	}
	return data, nil
}

// resolve une rutas relativas con la URL base.
func (g *Gateway) resolve(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return g.baseURL + "/" + strings.TrimLeft(target, "/")
}
