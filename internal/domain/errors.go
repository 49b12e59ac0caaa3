package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthenticated     = errors.New("no hay sesión activa")
	ErrSessionExpired      = errors.New("sesión expirada. Por favor, inicie sesión nuevamente")
	ErrValidation          = errors.New("validación fallida")
	ErrRemoteRejection     = errors.New("el servidor rechazó la operación")
	ErrPartialConsistency  = errors.New("movimiento registrado con actualizaciones de inventario pendientes")
	ErrProviderLocked      = errors.New("el insumo ya tiene un proveedor asignado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrReconciliationStale = errors.New("el recurso cambió desde el movimiento; requiere revisión manual")
)

// ValidationError falla de precondición local: nunca llega a la red.
// Line es 1-based; 0 cuando el error no pertenece a una línea concreta.
type ValidationError struct {
	Line      int
	Field     string
	Available string // cantidad disponible formateada, vacía si no aplica
	Reason    string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "línea %d: ", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Reason)
	if e.Available != "" {
		fmt.Fprintf(&b, " (disponible: %s)", e.Available)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RemoteError respuesta no-2xx (distinta de 401) del backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remoto %d: %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error { return ErrRemoteRejection }

// PartialConsistencyError el movimiento quedó registrado pero al menos un ajuste de
// cantidad falló. Los ajustes fallidos quedan en el diario de reconciliación.
type PartialConsistencyError struct {
	SagaID string
	Failed []string // ids de los recursos cuyo ajuste falló
}

func (e *PartialConsistencyError) Error() string {
	return fmt.Sprintf("saga %s: %s: %s", e.SagaID, ErrPartialConsistency.Error(), strings.Join(e.Failed, ", "))
}

func (e *PartialConsistencyError) Unwrap() error { return ErrPartialConsistency }

// IsSessionError sin sesión o sesión expirada: el llamador debe volver al login.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrSessionExpired)
}
