// Package bootstrap arma las dependencias de la consola a partir de la configuración.
// Lo comparten el servidor (cmd/api) y la CLI (cmd/aproafa).
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roca12/Proyecto-de-grado/internal/application/access"
	"github.com/roca12/Proyecto-de-grado/internal/application/auth"
	"github.com/roca12/Proyecto-de-grado/internal/application/inventory"
	"github.com/roca12/Proyecto-de-grado/internal/application/report"
	"github.com/roca12/Proyecto-de-grado/internal/application/session"
	"github.com/roca12/Proyecto-de-grado/internal/domain/repository"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/aproafa"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/memory"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/metrics"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/pdf"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/postgres"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/storage"
	apphttp "github.com/roca12/Proyecto-de-grado/internal/interfaces/http"
	"github.com/roca12/Proyecto-de-grado/pkg/config"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// Options ajustes que dependen de quién arma el contenedor.
type Options struct {
	// Migrate crea la tabla del diario al conectar (servidor).
	Migrate bool
	// Navigator recibe los destinos de navegación; nil = se registran en el log.
	Navigator aproafa.Navigator
}

// Container dependencias ya conectadas.
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	Session *session.Store
	Gateway *aproafa.Gateway
	Client  *aproafa.Client
	Gate    *access.Gate

	Journal   repository.ReconciliationRepository
	Postgres  *postgres.ReconciliationRepo // nil si el diario vive en archivo
	Login     *auth.LoginUseCase
	Sale      *inventory.RegisterSaleUseCase
	Purchase  *inventory.RegisterPurchaseUseCase
	Usage     *inventory.RegisterSupplyUsageUseCase
	Reconcile *inventory.ReconcileUseCase
	Reports   *report.UseCase
	ReportPDF *pdf.ReportPDFGenerator

	pool *pgxpool.Pool
}

// New lee la sesión persistida y conecta gateway, diario y casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Log: log}

	nav := opts.Navigator
	if nav == nil {
		navLog := log.Named("navigation")
		nav = aproafa.NavigatorFunc(func(target string) {
			navLog.Debug().Str("destino", target).Msg("navegar")
		})
	}

	c.Session = session.NewStore(storage.NewFileStorage(cfg.Session.File), log.Named("session"))
	if err := c.Session.Init(ctx); err != nil {
		// la sesión ya quedó vacía en memoria; el archivo se reescribe en el próximo login
		log.Warn().Err(err).Str("archivo", cfg.Session.File).Msg("no se pudo limpiar la sesión persistida")
	}

	c.Gateway = aproafa.NewGateway(aproafa.GatewayConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, c.Session, nav, log)
	c.Client = aproafa.NewClient(c.Gateway)
	c.Gate = access.NewGate(c.Session)

	if err := c.openJournal(ctx, opts.Migrate); err != nil {
		return nil, err
	}

	deps := inventory.Deps{
		Session:   c.Session,
		Journal:   c.Journal,
		Navigator: nav,
		Observer:  metrics.WorkflowObserver{},
		Log:       log.Named("inventory"),
	}
	c.Login = auth.NewLoginUseCase(c.Client, c.Session, nav, log)
	c.Sale = inventory.NewRegisterSaleUseCase(c.Client, c.Client, deps)
	c.Purchase = inventory.NewRegisterPurchaseUseCase(c.Client, c.Client, deps)
	c.Usage = inventory.NewRegisterSupplyUsageUseCase(c.Client, deps)
	c.Reconcile = inventory.NewReconcileUseCase(c.Journal, c.Client, c.Client, deps)
	c.Reports = report.NewUseCase(c.Client, c.Session, log.Named("report"), nil)
	c.ReportPDF = pdf.NewReportPDFGenerator()
	return c, nil
}

// JournalFile archivo del diario sin base de datos: junto a SESSION_FILE.
func JournalFile(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Session.File), "reconciliaciones.json")
}

func (c *Container) openJournal(ctx context.Context, migrate bool) error {
	if !c.Config.DB.Enabled() {
		path := JournalFile(c.Config)
		repo, err := memory.NewPersistentReconciliationRepo(ctx, storage.NewFileStorage(path))
		if err != nil {
			return err
		}
		c.Log.Info().Str("file", path).Msg("diario de reconciliación en archivo (sin DATABASE_URL ni DB_HOST)")
		c.Journal = repo
		return nil
	}
	pool, err := postgres.NewPool(ctx, c.Config.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	repo := postgres.NewReconciliationRepository(pool)
	if migrate {
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return err
		}
	}
	c.pool = pool
	c.Postgres = repo
	c.Journal = repo
	return nil
}

// Close libera el pool de PostgreSQL si se abrió.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// NewServer construye la app fiber de la consola con todas las rutas.
func (c *Container) NewServer() *fiber.App {
	cfg := c.Config
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsFile,
			Path:     "docs",
			Title:    "Consola APROAFA",
		}))
	} else {
		c.Log.Warn().Str("archivo", cfg.App.DocsFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: cfg.App.Name,
		Gate:        c.Gate,
		Auth:        c.Login,
		Session:     c.Session,
		Sale:        c.Sale,
		Purchase:    c.Purchase,
		Usage:       c.Usage,
		Reports:     c.Reports,
		ReportPDF:   c.ReportPDF,
		ReportTopN:  cfg.Report.TopN,
		Reconciler:  c.Reconcile,
	})
	return app
}

// Serve escucha hasta que ctx se cancela y luego apaga el servidor con un plazo de 10s.
func (c *Container) Serve(ctx context.Context) error {
	app := c.NewServer()
	addr := c.Config.HTTP.Addr()

	errCh := make(chan error, 1)
	go func() {
		c.Log.Info().Str("addr", addr).Str("api", c.Config.API.BaseURL).Msg("consola escuchando")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-ctx.Done():
	}

	c.Log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("apagado del servidor: %w", err)
	}
	c.Log.Info().Msg("consola detenida")
	return nil
}
