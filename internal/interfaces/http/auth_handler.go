package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/roca12/Proyecto-de-grado/internal/application/access"
	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// Authenticator login y logout de la consola.
type Authenticator interface {
	Login(ctx context.Context, idPersona int64, password string) (*entity.SessionUser, string, error)
	Logout(ctx context.Context) error
}

// SessionView lectura de la sesión activa.
type SessionView interface {
	CurrentUser() (*entity.SessionUser, bool)
	ExpiresAt() (time.Time, bool)
}

// AuthHandler maneja login, logout y la sesión actual.
type AuthHandler struct {
	auth    Authenticator
	session SessionView
	gate    RouteGate
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(auth Authenticator, session SessionView, gate RouteGate) *AuthHandler {
	return &AuthHandler{auth: auth, session: session, gate: gate}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "idPersona, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, target, err := h.auth.Login(c.Context(), in.IDPersona, in.Password)
	if err != nil {
		return writeError(c, err)
	}
	exp, _ := h.session.ExpiresAt()
	return c.JSON(dto.LoginResponse{User: dto.NewSessionUserResponse(user, exp), Redirect: target})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context()); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderLocation, access.PathLogin)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionUserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := h.session.CurrentUser()
	if !ok {
		return loginRequired(c, CodeUnauthenticated, "no hay sesión activa")
	}
	exp, _ := h.session.ExpiresAt()
	return c.JSON(dto.NewSessionUserResponse(user, exp))
}

// Navigation godoc
// @Summary      Destinos disponibles
// @Description  Página de inicio (/menu o /admin-dashboard): lista los destinos que el rol puede abrir.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.NavigationResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /menu [get]
func (h *AuthHandler) Navigation(c *fiber.Ctx) error {
	user, ok := h.session.CurrentUser()
	if !ok {
		return loginRequired(c, CodeUnauthenticated, "no hay sesión activa")
	}
	exp, _ := h.session.ExpiresAt()
	out := dto.NavigationResponse{User: dto.NewSessionUserResponse(user, exp), Destinos: []string{}}
	for _, path := range access.Paths() {
		r := access.Routes[path]
		if r.Public {
			continue
		}
		if h.gate.Decide(r).Allowed() {
			out.Destinos = append(out.Destinos, path)
		}
	}
	return c.JSON(out)
}
