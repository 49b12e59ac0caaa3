package access

import (
	"slices"

	"github.com/roca12/Proyecto-de-grado/internal/application/session"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// Destinos de redirección.
const (
	PathLogin        = "/login"
	PathUnauthorized = "/unauthorized"
)

// State resultado de evaluar un intento de navegación.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoRole
	AuthenticatedWrongRole
	Authorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedNoRole:
		return "authenticated_no_role"
	case AuthenticatedWrongRole:
		return "authenticated_wrong_role"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Route destino de navegación protegido.
// Roles vacío = basta con tener sesión. Public = accesible sin sesión.
type Route struct {
	Path   string
	Public bool
	Roles  []entity.Role
}

// Decision estado y, si no está autorizado, a dónde redirigir.
type Decision struct {
	State    State
	Redirect string
}

// Allowed el destino puede mostrarse.
func (d Decision) Allowed() bool { return d.State == Authorized }

// SessionReader lectura consistente de la sesión.
type SessionReader interface {
	Snapshot() session.Snapshot
}

// Gate decide la alcanzabilidad de un destino. No modifica la sesión.
type Gate struct {
	session SessionReader
}

// NewGate construye el gate.
func NewGate(s SessionReader) *Gate {
	return &Gate{session: s}
}

// Decide evalúa la ruta contra la sesión actual.
func (g *Gate) Decide(route Route) Decision {
	return Decide(g.session.Snapshot(), route)
}

// Decide función pura de (sesión, ruta).
func Decide(snap session.Snapshot, route Route) Decision {
	if route.Public {
		return Decision{State: Authorized}
	}
	if !snap.Authenticated() {
		return Decision{State: Unauthenticated, Redirect: PathLogin}
	}
	if len(route.Roles) == 0 {
		return Decision{State: Authorized}
	}
	role := snap.Role()
	if role == entity.RoleUnknown {
		return Decision{State: AuthenticatedNoRole, Redirect: PathUnauthorized}
	}
	if !slices.ContainsFunc(route.Roles, role.Satisfies) {
		return Decision{State: AuthenticatedWrongRole, Redirect: PathUnauthorized}
	}
	return Decision{State: Authorized}
}
