package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roca12/Proyecto-de-grado/internal/application/access"
	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/metrics"
)

// LocalDecision key de c.Locals con la access.Decision de la ruta.
const LocalDecision = "access_decision"

// RouteGate decide si la sesión actual alcanza un destino.
type RouteGate interface {
	Decide(route access.Route) access.Decision
}

// RequireRoute evalúa el destino contra la sesión antes de ejecutar el handler.
//
// Comportamiento:
//   - sin sesión → 401 y Location /login.
//   - sesión sin rol o con rol distinto → 403 y Location /unauthorized.
func RequireRoute(gate RouteGate, route access.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := gate.Decide(route)
		c.Locals(LocalDecision, d)
		if d.Allowed() {
			return c.Next()
		}
		c.Set(fiber.HeaderLocation, d.Redirect)
		if d.State == access.Unauthenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:     CodeUnauthenticated,
				Message:  "inicie sesión para continuar",
				Redirect: d.Redirect,
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:     CodeForbidden,
			Message:  "su rol no tiene acceso a " + route.Path,
			Redirect: d.Redirect,
		})
	}
}

// GetDecision devuelve la decisión guardada por RequireRoute.
func GetDecision(c *fiber.Ctx) (access.Decision, bool) {
	d, ok := c.Locals(LocalDecision).(access.Decision)
	return d, ok
}

// RequestMetrics cuenta las peticiones por plantilla de ruta y estado.
func RequestMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.RecordConsoleRequest(c.Method(), c.Route().Path, status)
		return err
	}
}
