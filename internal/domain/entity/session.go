package entity

import "strings"

// SessionUser perfil persistido junto al token (clave userData).
// TipoUsuario se guarda tal como llegó; el rol se deriva con Role().
type SessionUser struct {
	ID          int64  `json:"id"`
	Nombre      string `json:"nombre"`
	Apellido    string `json:"apellido"`
	TipoUsuario string `json:"tipoUsuario"`
	IDFinca     int64  `json:"idFinca"`
}

// Role rol normalizado del usuario.
func (u SessionUser) Role() Role {
	return ParseRole(u.TipoUsuario)
}

// FullName "Nombre Apellido" sin espacios sobrantes.
func (u SessionUser) FullName() string {
	return strings.TrimSpace(u.Nombre + " " + u.Apellido)
}

// Credentials resultado de un login exitoso.
type Credentials struct {
	Token string
	User  SessionUser
}
