package auth

import (
	"context"
	"fmt"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// Destinos tras login/logout.
const (
	PathLogin          = "/login"
	PathMenu           = "/menu"
	PathAdminDashboard = "/admin-dashboard"
)

// Authenticator valida credenciales contra el backend.
type Authenticator interface {
	Login(ctx context.Context, idPersona int64, password string) (*entity.Credentials, error)
}

// SessionWriter mutadores de la sesión.
type SessionWriter interface {
	SetSession(ctx context.Context, token string, user *entity.SessionUser) error
	Clear(ctx context.Context) error
}

// Navigator destino de navegación.
type Navigator interface {
	Navigate(target string)
}

// LoginUseCase inicia y cierra sesión.
type LoginUseCase struct {
	auth    Authenticator
	session SessionWriter
	nav     Navigator
	log     *logger.Logger
}

// NewLoginUseCase construye el caso de uso. nav puede ser nil.
func NewLoginUseCase(auth Authenticator, session SessionWriter, nav Navigator, log *logger.Logger) *LoginUseCase {
	return &LoginUseCase{auth: auth, session: session, nav: nav, log: logger.OrNop(log).Named("auth")}
}

// Login valida credenciales, persiste la sesión y navega a la página de inicio del rol.
// Devuelve el usuario guardado y el destino.
func (uc *LoginUseCase) Login(ctx context.Context, idPersona int64, password string) (*entity.SessionUser, string, error) {
	if idPersona <= 0 || password == "" {
		return nil, "", &domain.ValidationError{Field: "credenciales", Reason: "idPersona y contraseña son obligatorios"}
	}
	creds, err := uc.auth.Login(ctx, idPersona, password)
	if err != nil {
		return nil, "", err
	}
	if creds == nil || creds.Token == "" {
		return nil, "", fmt.Errorf("%w: el servidor no devolvió token", domain.ErrInvalidInput)
	}

	user := creds.User
	if err := uc.session.SetSession(ctx, creds.Token, &user); err != nil {
		return nil, "", err
	}

	role := user.Role()
	if role == entity.RoleUnknown {
		uc.log.Warn().Str("tipo_usuario", user.TipoUsuario).Int64("id_persona", user.ID).Msg("tipoUsuario no reconocido; sin acceso a rutas con rol")
	}
	uc.log.Info().Int64("id_persona", user.ID).Str("rol", role.String()).Msg("sesión iniciada")

	target := LandingPath(role)
	uc.navigate(target)
	return &user, target, nil
}

// Logout limpia la sesión y navega a /login.
func (uc *LoginUseCase) Logout(ctx context.Context) error {
	err := uc.session.Clear(ctx)
	uc.navigate(PathLogin)
	return err
}

// LandingPath página de inicio según el rol.
func LandingPath(role entity.Role) string {
	if role == entity.RoleAdmin {
		return PathAdminDashboard
	}
	return PathMenu
}

func (uc *LoginUseCase) navigate(target string) {
	if uc.nav != nil {
		uc.nav.Navigate(target)
	}
}
