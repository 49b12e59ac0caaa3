package http

import (
	"context"
	"errors"
	"net"

	"github.com/gofiber/fiber/v2"

	"github.com/roca12/Proyecto-de-grado/internal/application/access"
	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
)

// Códigos de ErrorResponse.
const (
	CodeInvalidBody         = "INVALID_BODY"
	CodeValidation          = "VALIDATION"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeSessionExpired      = "SESSION_EXPIRED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeProviderLocked      = "PROVIDER_LOCKED"
	CodeStale               = "RECONCILIATION_STALE"
	CodeRemoteRejection     = "REMOTE_REJECTION"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

// writeError traduce un error de la capa de aplicación a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		verr   *domain.ValidationError
		remote *domain.RemoteError
		netErr net.Error
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    CodeValidation,
			Message: verr.Error(),
			Field:   verr.Field,
			Line:    verr.Line,
		})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: CodeValidation, Message: err.Error()})
	case errors.Is(err, domain.ErrSessionExpired):
		return loginRequired(c, CodeSessionExpired, domain.ErrSessionExpired.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return loginRequired(c, CodeUnauthenticated, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrProviderLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeProviderLocked, Message: err.Error(), Field: "idProveedor"})
	case errors.Is(err, domain.ErrReconciliationStale):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeStale, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()})
	case errors.As(err, &remote):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: CodeRemoteRejection, Message: remote.Message})
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: CodeUpstreamUnavailable, Message: "el servidor APROAFA no responde"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: err.Error()})
	}
}

// loginRequired 401 con destino /login.
func loginRequired(c *fiber.Ctx, code, msg string) error {
	c.Set(fiber.HeaderLocation, access.PathLogin)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg, Redirect: access.PathLogin})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
