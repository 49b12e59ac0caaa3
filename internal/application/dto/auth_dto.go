package dto

import (
	"time"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// LoginRequest credenciales de POST /login (mismo cuerpo que /usuarios/login del backend).
type LoginRequest struct {
	IDPersona int64  `json:"idPersona"`
	Password  string `json:"password"`
}

// SessionUserResponse usuario de la sesión activa.
type SessionUserResponse struct {
	ID          int64      `json:"id"`
	Nombre      string     `json:"nombre"`
	Apellido    string     `json:"apellido"`
	TipoUsuario string     `json:"tipoUsuario"`
	Rol         string     `json:"rol"` // ADMIN, USER o UNKNOWN
	IDFinca     int64      `json:"idFinca"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	// Expirado el exp del token ya pasó; el próximo llamado al backend dará 401.
	Expirado bool `json:"expirado,omitempty"`
}

// LoginResponse usuario autenticado y destino según su rol.
type LoginResponse struct {
	User     SessionUserResponse `json:"user"`
	Redirect string              `json:"redirect"`
}

// NewSessionUserResponse mapea el usuario de la sesión. expiresAt cero = sin exp.
func NewSessionUserResponse(u *entity.SessionUser, expiresAt time.Time) SessionUserResponse {
	out := SessionUserResponse{
		ID:          u.ID,
		Nombre:      u.Nombre,
		Apellido:    u.Apellido,
		TipoUsuario: u.TipoUsuario,
		Rol:         u.Role().String(),
		IDFinca:     u.IDFinca,
	}
	if !expiresAt.IsZero() {
		out.ExpiresAt = &expiresAt
	}
	return out
}
