package entity

import "strings"

// Role enumeración cerrada de roles de la consola.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// ParseRole normaliza el tipoUsuario que devuelve el login.
// El backend ha emitido "ADMIN" y "Administrador" según la versión.
func ParseRole(raw string) Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ADMIN", "ADMINISTRADOR":
		return RoleAdmin
	case "USER", "USUARIO", "EMPLEADO":
		return RoleUser
	default:
		return RoleUnknown
	}
}

// Satisfies indica si el rol cumple el requerido. RoleUnknown nunca cumple.
func (r Role) Satisfies(required Role) bool {
	if r == RoleUnknown {
		return false
	}
	return r == required
}
