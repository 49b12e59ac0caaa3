package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// Source listas de la finca en el backend.
type Source interface {
	ListProduccionByFinca(ctx context.Context, idFinca int64) ([]entity.Produccion, error)
	ListActividadesByFinca(ctx context.Context, idFinca int64) ([]entity.Actividad, error)
	ListCompras(ctx context.Context) ([]entity.CompraInsumo, error)
	ListVentasByFinca(ctx context.Context, idFinca int64) ([]entity.Venta, error)
	ListInsumosByFinca(ctx context.Context, idFinca int64) ([]entity.Insumo, error)
	ListClientesByFinca(ctx context.Context, idFinca int64) ([]entity.Cliente, error)
	ListProveedoresByFinca(ctx context.Context, idFinca int64) ([]entity.Proveedor, error)
}

// SessionReader usuario autenticado (finca del reporte).
type SessionReader interface {
	CurrentUser() (*entity.SessionUser, bool)
}

// BuildInput parámetros del reporte.
type BuildInput struct {
	Periodo Granularity
	TopN    int // ranking de clientes/proveedores; <= 0 usa DefaultRankLimit
}

// UseCase arma el reporte de la finca de la sesión.
//
// Las siete consultas se hacen en paralelo; una consulta fallida deja su lista
// vacía y se anota en ReportDTO.Incompleto. Solo un 401 aborta el reporte.
type UseCase struct {
	source  Source
	session SessionReader
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso. now nil = time.Now.
func NewUseCase(source Source, session SessionReader, log *logger.Logger, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{source: source, session: session, log: logger.OrNop(log), now: now}
}

type data struct {
	produccion  []entity.Produccion
	actividades []entity.Actividad
	compras     []entity.CompraInsumo
	ventas      []entity.Venta
	insumos     []entity.Insumo
	clientes    []entity.Cliente
	proveedores []entity.Proveedor
}

// Build consulta las fuentes y calcula el reporte.
func (uc *UseCase) Build(ctx context.Context, in BuildInput) (*dto.ReportDTO, error) {
	user, ok := uc.session.CurrentUser()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if user.IDFinca == 0 {
		return nil, &domain.ValidationError{Field: "idFinca", Reason: "el usuario no tiene finca asociada"}
	}

	d, failed, err := uc.fetch(ctx, user.IDFinca)
	if err != nil {
		return nil, err
	}
	d.compras = ofProviders(d.compras, d.proveedores)

	return uc.assemble(user.IDFinca, in, d, failed), nil
}

func (uc *UseCase) fetch(ctx context.Context, idFinca int64) (*data, []string, error) {
	var (
		d       data
		g       errgroup.Group
		results = make([]error, 7)
		names   = []string{"produccion", "actividades", "compras", "ventas", "insumos", "clientes", "proveedores"}
	)
	g.Go(collect(&d.produccion, &results[0], func() ([]entity.Produccion, error) { return uc.source.ListProduccionByFinca(ctx, idFinca) }))
	g.Go(collect(&d.actividades, &results[1], func() ([]entity.Actividad, error) { return uc.source.ListActividadesByFinca(ctx, idFinca) }))
	g.Go(collect(&d.compras, &results[2], func() ([]entity.CompraInsumo, error) { return uc.source.ListCompras(ctx) }))
	g.Go(collect(&d.ventas, &results[3], func() ([]entity.Venta, error) { return uc.source.ListVentasByFinca(ctx, idFinca) }))
	g.Go(collect(&d.insumos, &results[4], func() ([]entity.Insumo, error) { return uc.source.ListInsumosByFinca(ctx, idFinca) }))
	g.Go(collect(&d.clientes, &results[5], func() ([]entity.Cliente, error) { return uc.source.ListClientesByFinca(ctx, idFinca) }))
	g.Go(collect(&d.proveedores, &results[6], func() ([]entity.Proveedor, error) { return uc.source.ListProveedoresByFinca(ctx, idFinca) }))
	_ = g.Wait()

	var failed []string
	for i, err := range results {
		if err == nil {
			continue
		}
		// una sesión expirada invalida todo el reporte
		if domain.IsSessionError(err) {
			return nil, nil, err
		}
		uc.log.Warn().Err(err).Str("fuente", names[i]).Int64("id_finca", idFinca).Msg("reporte: fuente no disponible, se usa lista vacía")
		failed = append(failed, names[i])
	}
	return &d, failed, nil
}

// collect guarda el resultado de fn; con error la lista queda vacía.
func collect[T any](dst *[]T, errp *error, fn func() ([]T, error)) func() error {
	return func() error {
		list, err := fn()
		if err != nil {
			list = nil
		}
		*dst, *errp = list, err
		return nil
	}
}

// ofProviders compras cuyo proveedor pertenece a la finca.
func ofProviders(compras []entity.CompraInsumo, proveedores []entity.Proveedor) []entity.CompraInsumo {
	ids := make(map[int64]struct{}, len(proveedores))
	for _, p := range proveedores {
		ids[p.IDProveedor] = struct{}{}
	}
	out := make([]entity.CompraInsumo, 0, len(compras))
	for _, c := range compras {
		if _, ok := ids[c.ProveedorID()]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (uc *UseCase) assemble(idFinca int64, in BuildInput, d *data, failed []string) *dto.ReportDTO {
	now := uc.now()

	ventas := make([]DatedValue, 0, len(d.ventas))
	ventaTotals := make([]decimal.Decimal, 0, len(d.ventas))
	for _, v := range d.ventas {
		ventas = append(ventas, DatedValue{Date: v.FechaVenta.Time, Value: v.Total})
		ventaTotals = append(ventaTotals, v.Total)
	}
	compras := make([]DatedValue, 0, len(d.compras))
	compraTotals := make([]decimal.Decimal, 0, len(d.compras))
	for _, c := range d.compras {
		compras = append(compras, DatedValue{Date: c.FechaCompra.Time, Value: c.Monto()})
		compraTotals = append(compraTotals, c.Monto())
	}
	produccion := make([]DatedValue, 0, len(d.produccion))
	cosechado := make([]decimal.Decimal, 0, len(d.produccion))
	for _, p := range d.produccion {
		produccion = append(produccion, DatedValue{Date: p.ReferenceDate().Time, Value: p.CantidadCosechada})
		cosechado = append(cosechado, p.CantidadCosechada)
	}
	actividades := make([]DatedValue, 0, len(d.actividades))
	for _, a := range d.actividades {
		actividades = append(actividades, DatedValue{Date: a.FechaInicio.Time, Value: decimal.NewFromInt(1)})
	}

	clienteRefs := ClienteRefs(d.ventas, d.clientes)
	proveedorRefs := ProveedorRefs(d.compras, d.proveedores)
	totalVentas := Total(ventaTotals)
	totalCompras := Total(compraTotals)
	mayor, menor := StockExtremes(d.insumos)

	return &dto.ReportDTO{
		IDFinca:    idFinca,
		Periodo:    in.Periodo.String(),
		GeneradoEn: now,
		Resumen: dto.ReportSummaryDTO{
			TotalVentas:        totalVentas,
			VentasCount:        len(d.ventas),
			TotalCompras:       totalCompras,
			ComprasCount:       len(d.compras),
			TotalProduccion:    Total(cosechado),
			ProduccionCount:    len(d.produccion),
			TotalActividades:   len(d.actividades),
			GananciaEstimada:   EstimatedMargin(totalVentas, totalCompras),
			ClienteFrecuente:   MostFrequent(clienteRefs),
			ProveedorFrecuente: MostFrequent(proveedorRefs),
			MayorStock:         dto.StockDTO(mayor),
			MenorStock:         dto.StockDTO(menor),
		},
		Graficos: dto.ReportChartsDTO{
			Ventas:      points(SumByBucket(ventas, in.Periodo, now)),
			Compras:     points(SumByBucket(compras, in.Periodo, now)),
			Produccion:  points(SumByBucket(produccion, in.Periodo, now)),
			Actividades: points(SumByBucket(actividades, in.Periodo, now)),
		},
		Clientes:    ranks(RankByFrequency(clienteRefs, in.TopN)),
		Proveedores: ranks(RankByFrequency(proveedorRefs, in.TopN)),
		Insumos:     stocks(TopStocked(d.insumos, DefaultTopStocked)),
		Incompleto:  failed,
	}
}

func points(in []BucketPoint) []dto.PointDTO {
	out := make([]dto.PointDTO, len(in))
	for i, p := range in {
		out[i] = dto.PointDTO{Periodo: p.Label, Valor: p.Value}
	}
	return out
}

func ranks(in []RankEntry) []dto.RankDTO {
	out := make([]dto.RankDTO, len(in))
	for i, r := range in {
		out[i] = dto.RankDTO{Nombre: r.Label, Cantidad: r.Count}
	}
	return out
}

func stocks(in []StockPoint) []dto.StockDTO {
	out := make([]dto.StockDTO, len(in))
	for i, s := range in {
		out[i] = dto.StockDTO(s)
	}
	return out
}
