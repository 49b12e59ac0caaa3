package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
)

func TestValidationError_NombraLineaYDisponible(t *testing.T) {
	err := &domain.ValidationError{Line: 2, Field: "cantidad", Available: "30", Reason: "supera la cantidad disponible"}

	assert.Equal(t, "línea 2: cantidad: supera la cantidad disponible (disponible: 30)", err.Error())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTiposDeError_EnvueltosSiguenSiendoIdentificables(t *testing.T) {
	remote := fmt.Errorf("registrar venta: %w", &domain.RemoteError{Status: 409, Message: "duplicado"})
	assert.ErrorIs(t, remote, domain.ErrRemoteRejection)

	var re *domain.RemoteError
	assert.True(t, errors.As(remote, &re))
	assert.Equal(t, 409, re.Status)

	partial := fmt.Errorf("venta: %w", &domain.PartialConsistencyError{SagaID: "s1", Failed: []string{"7"}})
	assert.ErrorIs(t, partial, domain.ErrPartialConsistency)
	assert.Contains(t, partial.Error(), "s1")
}
