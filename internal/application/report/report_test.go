package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roca12/Proyecto-de-grado/internal/application/report"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

var now = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.Local)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSumByBucket_TresMeses(t *testing.T) {
	records := []report.DatedValue{
		{Date: time.Date(2026, time.October, 2, 0, 0, 0, 0, time.Local), Value: dec("100")},
		{Date: time.Date(2026, time.October, 18, 0, 0, 0, 0, time.Local), Value: dec("50.5")},
		{Date: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local), Value: dec("7")},
		{Date: time.Date(2026, time.July, 31, 0, 0, 0, 0, time.Local), Value: dec("999")}, // fuera del rango
		{Value: dec("1")}, // sin fecha
	}

	points := report.SumByBucket(records, report.LastThreeMonths, now)
	require.Len(t, points, 3)
	assert.Equal(t, "Agosto de 2026", points[0].Label)
	assert.Equal(t, "Septiembre de 2026", points[1].Label)
	assert.Equal(t, "Octubre de 2026", points[2].Label)
	assert.True(t, points[0].Value.Equal(dec("7")))
	assert.True(t, points[1].Value.IsZero())
	assert.True(t, points[2].Value.Equal(dec("150.5")))
}

func TestSumByBucket_TreintaDiasSinRegistros(t *testing.T) {
	points := report.SumByBucket(nil, report.LastThirtyDays, now)
	require.Len(t, points, 30)
	assert.Equal(t, "20/09", points[0].Label)
	assert.Equal(t, "19/10", points[29].Label)
	for _, p := range points {
		assert.True(t, p.Value.IsZero())
	}
}

func TestSumByBucket_TreintaDias(t *testing.T) {
	records := []report.DatedValue{
		{Date: time.Date(2026, time.October, 19, 8, 0, 0, 0, time.Local), Value: dec("3")},
		{Date: time.Date(2026, time.October, 19, 23, 0, 0, 0, time.Local), Value: dec("2")},
		{Date: time.Date(2026, time.September, 20, 0, 0, 0, 0, time.Local), Value: dec("1")},
		{Date: time.Date(2026, time.September, 19, 0, 0, 0, 0, time.Local), Value: dec("100")},
	}
	points := report.SumByBucket(records, report.LastThirtyDays, now)
	assert.True(t, points[29].Value.Equal(dec("5")))
	assert.True(t, points[0].Value.Equal(dec("1")))
}

func TestSumByBucket_CambioDeAnio(t *testing.T) {
	jan := time.Date(2027, time.January, 31, 12, 0, 0, 0, time.Local)
	points := report.SumByBucket(nil, report.LastThreeMonths, jan)
	assert.Equal(t, []string{"Noviembre de 2026", "Diciembre de 2026", "Enero de 2027"},
		[]string{points[0].Label, points[1].Label, points[2].Label})
}

func TestParseGranularity(t *testing.T) {
	g, err := report.ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, report.LastThreeMonths, g)
	g, err = report.ParseGranularity("30dias")
	require.NoError(t, err)
	assert.Equal(t, report.LastThirtyDays, g)
	assert.Equal(t, "30dias", g.String())
	_, err = report.ParseGranularity("semana")
	assert.Error(t, err)
}

func TestRankByFrequency_EmpatesPorPrimeraAparicion(t *testing.T) {
	refs := []report.EntityRef{
		{Key: "3", Label: "Carla"},
		{Key: "1", Label: "Ana"},
		{Key: "2", Label: "Beto"},
		{Key: "1", Label: "Ana"},
		{Key: "2", Label: "Beto"},
		{Key: "4", Label: "Dora"},
	}
	got := report.RankByFrequency(refs, 3)
	assert.Equal(t, []report.RankEntry{{Label: "Ana", Count: 2}, {Label: "Beto", Count: 2}, {Label: "Carla", Count: 1}}, got)
}

func TestRankByFrequency_LimitePorDefecto(t *testing.T) {
	var refs []report.EntityRef
	for _, l := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		refs = append(refs, report.EntityRef{Label: l})
	}
	assert.Len(t, report.RankByFrequency(refs, 0), report.DefaultRankLimit)
	assert.Empty(t, report.RankByFrequency(nil, 0))
}

func TestMostFrequent(t *testing.T) {
	assert.Equal(t, report.NoData, report.MostFrequent(nil))
	assert.Equal(t, "Ana", report.MostFrequent([]report.EntityRef{{Key: "1", Label: "Ana"}, {Key: "2", Label: "Beto"}}))
}

func TestClienteRefs_ReferenciaSinResolver(t *testing.T) {
	ventas := []entity.Venta{{IDCliente: 1}, {IDCliente: 9}, {IDCliente: 0}}
	clientes := []entity.Cliente{{IDCliente: 1, Nombre: "Ana", Apellido: "Ruiz"}}

	refs := report.ClienteRefs(ventas, clientes)
	require.Len(t, refs, 2)
	assert.Equal(t, "Ana Ruiz", refs[0].Label)
	assert.Equal(t, "Cliente 9", refs[1].Label)
}

func TestProveedorRefs(t *testing.T) {
	compras := []entity.CompraInsumo{
		{Proveedor: &entity.Proveedor{IDProveedor: 2}},
		{},
	}
	refs := report.ProveedorRefs(compras, []entity.Proveedor{{IDProveedor: 2, Nombre: "AgroSur"}})
	assert.Equal(t, "AgroSur", refs[0].Label)
	assert.Equal(t, "Sin proveedor", refs[1].Label)
}

func TestTotalsYMargen(t *testing.T) {
	ventas := report.Total([]decimal.Decimal{dec("100"), dec("20.5")})
	compras := report.Total([]decimal.Decimal{dec("30")})
	assert.True(t, ventas.Equal(dec("120.5")))
	assert.True(t, report.EstimatedMargin(ventas, compras).Equal(dec("90.5")))
	assert.True(t, report.Total(nil).IsZero())
}

func TestStockExtremes(t *testing.T) {
	mayor, menor := report.StockExtremes(nil)
	assert.Equal(t, report.NoData, mayor.Nombre)
	assert.True(t, menor.Cantidad.IsZero())

	insumos := []entity.Insumo{
		{Nombre: "Abono", CantidadDisponible: dec("5")},
		{Nombre: "Semilla", CantidadDisponible: dec("9")},
		{Nombre: "Cal", CantidadDisponible: dec("9")},
		{Nombre: "Urea", CantidadDisponible: dec("1")},
		{Nombre: "Potasio", CantidadDisponible: dec("1")},
	}
	mayor, menor = report.StockExtremes(insumos)
	assert.Equal(t, "Semilla", mayor.Nombre)
	assert.Equal(t, "Urea", menor.Nombre)

	top := report.TopStocked(insumos, 3)
	assert.Equal(t, []string{"Semilla", "Cal", "Abono"}, []string{top[0].Nombre, top[1].Nombre, top[2].Nombre})
}
