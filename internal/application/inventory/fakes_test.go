package inventory_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// backend simula los endpoints de producción, ventas, insumos y compras,
// registrando el orden de las llamadas.
type backend struct {
	mu          sync.Mutex
	calls       []string
	produccion  map[int64]*entity.Produccion
	insumos     map[int64]*entity.Insumo
	ventas      []entity.NuevaVenta
	compras     []entity.NuevaCompra
	cosechas    map[int64]string // fecha usada por lote
	failVenta   error
	failCompra  error
	failUpdate  error
	failCosecha map[int64]error
	failUso     error
}

func newBackend() *backend {
	return &backend{
		produccion:  map[int64]*entity.Produccion{},
		insumos:     map[int64]*entity.Insumo{},
		cosechas:    map[int64]string{},
		failCosecha: map[int64]error{},
	}
}

func (b *backend) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *backend) GetProduccion(_ context.Context, id int64) (*entity.Produccion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GET produccion/%d", id)
	p, ok := b.produccion[id]
	if !ok {
		return nil, &domain.RemoteError{Status: 404, Message: "Producción no encontrada"}
	}
	cp := *p
	return &cp, nil
}

func (b *backend) Cosechar(_ context.Context, id int64, cantidad decimal.Decimal, fecha string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("PUT produccion/%d/cosechar %s", id, cantidad)
	if err := b.failCosecha[id]; err != nil {
		return err
	}
	if p, ok := b.produccion[id]; ok {
		p.CantidadCosechada = cantidad
	}
	b.cosechas[id] = fecha
	return nil
}

func (b *backend) CreateVenta(_ context.Context, in entity.NuevaVenta) (*entity.Venta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("POST ventas %s", in.Total)
	if b.failVenta != nil {
		return nil, b.failVenta
	}
	b.ventas = append(b.ventas, in)
	return &entity.Venta{IDVenta: int64(len(b.ventas)), IDCliente: in.IDCliente, Total: in.Total}, nil
}

func (b *backend) GetInsumo(_ context.Context, id int64) (*entity.Insumo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GET insumos/%d", id)
	i, ok := b.insumos[id]
	if !ok {
		return nil, &domain.RemoteError{Status: 404, Message: "Insumo no encontrado"}
	}
	cp := *i
	if i.Proveedor != nil {
		pv := *i.Proveedor
		cp.Proveedor = &pv
	}
	return &cp, nil
}

func (b *backend) UpdateInsumo(_ context.Context, id int64, in entity.InsumoCambios) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("PUT insumos/%d proveedor=%d", id, in.IDProveedor)
	if b.failUpdate != nil {
		return b.failUpdate
	}
	i := b.insumos[id]
	i.CantidadDisponible = in.CantidadDisponible
	if in.IDProveedor != 0 {
		i.Proveedor = &entity.Proveedor{IDProveedor: in.IDProveedor}
	}
	return nil
}

func (b *backend) RegisterSupplyUsage(_ context.Context, id int64, cantidad decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("POST insumos/uso/%d/%s", id, cantidad)
	if b.failUso != nil {
		return b.failUso
	}
	i := b.insumos[id]
	i.CantidadDisponible = i.CantidadDisponible.Sub(cantidad)
	return nil
}

func (b *backend) CreateCompra(_ context.Context, in entity.NuevaCompra) (*entity.CompraInsumo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("POST compra-insumos insumo=%d proveedor=%d", in.IDInsumo, in.IDProveedor)
	if b.failCompra != nil {
		return nil, b.failCompra
	}
	b.compras = append(b.compras, in)
	if i, ok := b.insumos[in.IDInsumo]; ok {
		i.CantidadDisponible = i.CantidadDisponible.Add(in.Cantidad)
	}
	return &entity.CompraInsumo{IDCompra: int64(len(b.compras)), Cantidad: in.Cantidad, PrecioUnitario: in.PrecioUnitario}, nil
}

type sessionStub struct{ user *entity.SessionUser }

func (s sessionStub) CurrentUser() (*entity.SessionUser, bool) {
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

type navSpy struct{ targets []string }

func (n *navSpy) Navigate(target string) { n.targets = append(n.targets, target) }

type observerSpy struct {
	finished      []string
	compensations int
}

func (o *observerSpy) WorkflowFinished(workflow, outcome string) {
	o.finished = append(o.finished, workflow+":"+outcome)
}

func (o *observerSpy) CompensationFailed(string) { o.compensations++ }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
