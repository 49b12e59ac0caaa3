package aproafa

import (
	"context"
	"net/http"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

type loginResponse struct {
	Token       string `json:"token"`
	IDPersona   int64  `json:"idPersona"`
	Nombre      string `json:"nombre"`
	Apellido    string `json:"apellido"`
	TipoUsuario string `json:"tipoUsuario"`
	IDFinca     int64  `json:"idFinca"`
}

type loginRequest struct {
	IDPersona int64  `json:"idPersona"`
	Password  string `json:"password"`
}

// Login no lleva token. Un rechazo devuelve *domain.RemoteError con el mensaje del servidor.
// El id del perfil es el idPersona de la respuesta.
func (c *Client) Login(ctx context.Context, idPersona int64, password string) (*entity.Credentials, error) {
	req, err := JSONRequest(http.MethodPost, "/usuarios/login", loginRequest{IDPersona: idPersona, Password: password})
	if err != nil {
		return nil, err
	}
	resp, err := c.gw.DoAnonymous(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		msg := resp.ErrorMessage()
		if len(resp.Body) == 0 {
			msg = "Error al iniciar sesión"
		}
		return nil, &domain.RemoteError{Status: resp.StatusCode, Message: msg}
	}
	var out loginResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, err
	}
	return &entity.Credentials{
		Token: out.Token,
		User: entity.SessionUser{
			ID:          out.IDPersona,
			Nombre:      out.Nombre,
			Apellido:    out.Apellido,
			TipoUsuario: out.TipoUsuario,
			IDFinca:     out.IDFinca,
		},
	}, nil
}
