package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roca12/Proyecto-de-grado/internal/application/inventory"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/memory"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

var fixedNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.Local)

type saleFixture struct {
	be      *backend
	journal *memory.ReconciliationRepo
	nav     *navSpy
	obs     *observerSpy
	uc      *inventory.RegisterSaleUseCase
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{be: newBackend(), journal: memory.NewReconciliationRepo(), nav: &navSpy{}, obs: &observerSpy{}}
	f.uc = inventory.NewRegisterSaleUseCase(f.be, f.be, inventory.Deps{
		Session:   sessionStub{user: &entity.SessionUser{ID: 123, TipoUsuario: "USER", IDFinca: 7}},
		Journal:   f.journal,
		Navigator: f.nav,
		Observer:  f.obs,
		Log:       logger.Nop(),
		Now:       func() time.Time { return fixedNow },
	})
	return f
}

func TestRegisterSale_CantidadMayorQueDisponibleNoHaceLlamadas(t *testing.T) {
	f := newSaleFixture()
	lot := entity.Produccion{IDProduccion: 1, CantidadCosechada: dec("30")}

	res, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente: 9,
		Lines:     []inventory.SaleLine{{IDProduccion: 1, Cantidad: dec("50"), PrecioUnitario: dec("2")}},
		Loaded:    map[int64]entity.Produccion{1: lot},
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Line)
	assert.Equal(t, "30", verr.Available)
	assert.False(t, res.MovementCommitted)
	assert.Empty(t, f.be.Calls())
	assert.Empty(t, f.nav.targets)
	assert.Equal(t, []string{"venta:validation"}, f.obs.finished)
}

func TestRegisterSale_VentaExactaDejaLoteEnCero(t *testing.T) {
	f := newSaleFixture()
	f.be.produccion[1] = &entity.Produccion{IDProduccion: 1, CantidadCosechada: dec("30"), FechaCosecha: entity.NewDate(2026, time.September, 1)}

	res, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente:  9,
		MetodoPago: "EFECTIVO",
		Lines:      []inventory.SaleLine{{IDProduccion: 1, Cantidad: dec("30"), PrecioUnitario: dec("1500")}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET produccion/1",
		"POST ventas 45000",
		"PUT produccion/1/cosechar 0",
	}, f.be.Calls())
	assert.True(t, res.MovementCommitted)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, inventory.StepApplied, res.Steps[0].Status)
	assert.True(t, res.Steps[0].Target.IsZero())
	assert.Equal(t, "2026-09-01", f.be.cosechas[1])
	assert.Equal(t, "/ventas", res.Navigate)
	assert.Equal(t, []string{"/ventas"}, f.nav.targets)
	assert.Equal(t, []string{"venta:ok"}, f.obs.finished)

	require.Len(t, f.be.ventas, 1)
	v := f.be.ventas[0]
	assert.Equal(t, int64(123), v.IDPersona)
	assert.Equal(t, int64(7), v.IDFinca)
	assert.Equal(t, "Efectivo", v.MetodoPago)
	assert.True(t, v.Detalles[0].Cantidad.Equal(dec("30")))
}

func TestRegisterSale_FalloDelMovimientoNoTocaLotes(t *testing.T) {
	f := newSaleFixture()
	f.be.produccion[1] = &entity.Produccion{IDProduccion: 1, CantidadCosechada: dec("10")}
	f.be.failVenta = &domain.RemoteError{Status: 500, Message: "Error interno"}

	res, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente: 9,
		Lines:     []inventory.SaleLine{{IDProduccion: 1, Cantidad: dec("4"), PrecioUnitario: dec("1")}},
	})
	require.ErrorIs(t, err, domain.ErrRemoteRejection)
	assert.False(t, res.MovementCommitted)
	assert.Equal(t, []string{"GET produccion/1", "POST ventas 4"}, f.be.Calls())
	assert.Empty(t, f.nav.targets)
	assert.Equal(t, []string{"venta:rejected"}, f.obs.finished)
}

func TestRegisterSale_AgrupaLineasDelMismoLote(t *testing.T) {
	f := newSaleFixture()
	f.be.produccion[1] = &entity.Produccion{IDProduccion: 1, CantidadCosechada: dec("10")}
	f.be.produccion[2] = &entity.Produccion{IDProduccion: 2, CantidadCosechada: dec("5")}

	_, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente: 9,
		Lines: []inventory.SaleLine{
			{IDProduccion: 2, Cantidad: dec("1"), PrecioUnitario: dec("3")},
			{IDProduccion: 1, Cantidad: dec("4"), PrecioUnitario: dec("2")},
			{IDProduccion: 1, Cantidad: dec("6"), PrecioUnitario: dec("2")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"GET produccion/2",
		"GET produccion/1",
		"POST ventas 23",
		"PUT produccion/2/cosechar 4",
		"PUT produccion/1/cosechar 0",
	}, f.be.Calls())
	// sin fecha de cosecha se usa la de hoy
	assert.Equal(t, "2026-10-19", f.be.cosechas[1])
}

func TestRegisterSale_SumaDeLineasSuperaDisponible(t *testing.T) {
	f := newSaleFixture()
	lots := map[int64]entity.Produccion{1: {IDProduccion: 1, CantidadCosechada: dec("10")}}

	_, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente: 9,
		Lines: []inventory.SaleLine{
			{IDProduccion: 1, Cantidad: dec("6"), PrecioUnitario: dec("2")},
			{IDProduccion: 1, Cantidad: dec("6"), PrecioUnitario: dec("2")},
		},
		Loaded: lots,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Line)
	assert.Empty(t, f.be.Calls())
}

func TestRegisterSale_ValidacionesLocales(t *testing.T) {
	cases := map[string]inventory.SaleInput{
		"sin cliente": {Lines: []inventory.SaleLine{{IDProduccion: 1, Cantidad: dec("1"), PrecioUnitario: dec("1")}}},
		"sin lineas":  {IDCliente: 1},
		"cantidad 0":  {IDCliente: 1, Lines: []inventory.SaleLine{{IDProduccion: 1, Cantidad: dec("0"), PrecioUnitario: dec("1")}}},
		"precio 0":    {IDCliente: 1, Lines: []inventory.SaleLine{{IDProduccion: 1, Cantidad: dec("1"), PrecioUnitario: dec("0")}}},
		"sin lote":    {IDCliente: 1, Lines: []inventory.SaleLine{{Cantidad: dec("1"), PrecioUnitario: dec("1")}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newSaleFixture()
			_, err := f.uc.Execute(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.be.Calls())
		})
	}
}

func TestRegisterSale_AjusteFallidoQuedaEnDiario(t *testing.T) {
	f := newSaleFixture()
	f.be.produccion[1] = &entity.Produccion{IDProduccion: 1, CantidadCosechada: dec("10")}
	f.be.produccion[2] = &entity.Produccion{IDProduccion: 2, CantidadCosechada: dec("8")}
	f.be.failCosecha[1] = errors.New("connection reset")

	res, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente: 9,
		Lines: []inventory.SaleLine{
			{IDProduccion: 1, Cantidad: dec("3"), PrecioUnitario: dec("1")},
			{IDProduccion: 2, Cantidad: dec("2"), PrecioUnitario: dec("1")},
		},
	})

	var perr *domain.PartialConsistencyError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, res.SagaID, perr.SagaID)
	assert.Equal(t, []string{"1"}, perr.Failed)
	assert.True(t, res.MovementCommitted)
	// el segundo lote se ajusta igualmente
	assert.Contains(t, f.be.Calls(), "PUT produccion/2/cosechar 6")
	assert.Equal(t, "/ventas", res.Navigate)
	assert.Equal(t, 1, f.obs.compensations)
	assert.Equal(t, []string{"venta:partial"}, f.obs.finished)

	pending, err := f.journal.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	item := pending[0]
	assert.Equal(t, res.Failed()[0].ReconciliationID, item.ID)
	assert.Equal(t, entity.ResourceProduccion, item.ResourceType)
	assert.Equal(t, int64(1), item.ResourceID)
	assert.True(t, item.Previous.Equal(dec("10")))
	assert.True(t, item.Target.Equal(dec("7")))
	assert.Equal(t, "2026-10-19", item.RefDate)
	assert.Equal(t, "connection reset", item.LastError)
	assert.Equal(t, res.SagaID, item.SagaID)
}

func TestRegisterSale_SesionExpiradaEnAjusteNoOcultaElLogin(t *testing.T) {
	f := newSaleFixture()
	f.be.produccion[1] = &entity.Produccion{IDProduccion: 1, CantidadCosechada: dec("10")}
	f.be.produccion[2] = &entity.Produccion{IDProduccion: 2, CantidadCosechada: dec("8")}
	// el primer ajuste recibe el 401; el gateway ya limpió la sesión para el segundo
	f.be.failCosecha[1] = domain.ErrSessionExpired
	f.be.failCosecha[2] = domain.ErrUnauthenticated

	res, err := f.uc.Execute(context.Background(), inventory.SaleInput{
		IDCliente: 9,
		Lines: []inventory.SaleLine{
			{IDProduccion: 1, Cantidad: dec("3"), PrecioUnitario: dec("1")},
			{IDProduccion: 2, Cantidad: dec("2"), PrecioUnitario: dec("1")},
		},
	})

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.True(t, domain.IsSessionError(err))
	var perr *domain.PartialConsistencyError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"1", "2"}, perr.Failed)

	assert.True(t, res.MovementCommitted)
	assert.True(t, res.SessionLost())
	assert.Empty(t, res.Navigate)
	assert.Empty(t, f.nav.targets, "no reemplaza la redirección a /login")

	pending, err := f.journal.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRegisterSale_SinSesion(t *testing.T) {
	be := newBackend()
	uc := inventory.NewRegisterSaleUseCase(be, be, inventory.Deps{Session: sessionStub{}})

	_, err := uc.Execute(context.Background(), inventory.SaleInput{IDCliente: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, be.Calls())
}
