package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	cases := map[string]entity.Role{
		"ADMIN":         entity.RoleAdmin,
		"Administrador": entity.RoleAdmin,
		" admin ":       entity.RoleAdmin,
		"USER":          entity.RoleUser,
		"Empleado":      entity.RoleUser,
		"usuario":       entity.RoleUser,
		"":              entity.RoleUnknown,
		"SUPERVISOR":    entity.RoleUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, entity.ParseRole(raw), "tipoUsuario=%q", raw)
	}
}

func TestRoleSatisfies_DesconocidoNuncaCumple(t *testing.T) {
	assert.True(t, entity.RoleAdmin.Satisfies(entity.RoleAdmin))
	assert.False(t, entity.RoleUser.Satisfies(entity.RoleAdmin))
	assert.False(t, entity.RoleAdmin.Satisfies(entity.RoleUser))
	assert.False(t, entity.RoleUnknown.Satisfies(entity.RoleUnknown))
}

func TestDate_FormatosDelBackend(t *testing.T) {
	var p entity.Produccion
	body := `{"idProduccion":4,"fechaSiembra":[2026,7,1],"fechaCosecha":"2026-10-02","cantidadCosechada":12.5}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "2026-07-01", p.FechaSiembra.Day())
	assert.Equal(t, "2026-10-02", p.FechaCosecha.Day())
	assert.Equal(t, "12.5", p.CantidadCosechada.String())

	var v entity.Venta
	require.NoError(t, json.Unmarshal([]byte(`{"fechaVenta":"2026-10-19T08:30:00","total":"1000"}`), &v))
	assert.Equal(t, 8, v.FechaVenta.Hour())
	assert.Equal(t, "2026-10-19", v.FechaVenta.Day())

	var sinFecha entity.Produccion
	require.NoError(t, json.Unmarshal([]byte(`{"fechaCosecha":null,"fechaSiembra":""}`), &sinFecha))
	assert.True(t, sinFecha.ReferenceDate().IsZero())
}

func TestDate_MarshalDiaONull(t *testing.T) {
	b, err := json.Marshal(struct {
		A entity.Date `json:"a"`
		B entity.Date `json:"b"`
	}{A: entity.NewDate(2026, time.October, 19)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2026-10-19","b":null}`, string(b))
}

func TestMetodoPagoNombre(t *testing.T) {
	assert.Equal(t, "Efectivo", entity.MetodoPagoNombre("EFECTIVO"))
	assert.Equal(t, "Transferencia", entity.MetodoPagoNombre("transferencia"))
	assert.Equal(t, "Otro", entity.MetodoPagoNombre("CHEQUE"))
}
