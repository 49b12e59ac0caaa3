package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/roca12/Proyecto-de-grado/internal/application/access"
	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	Gate        RouteGate
	Auth        Authenticator
	Session     SessionView
	Sale        SaleRegistrar
	Purchase    PurchaseRegistrar
	Usage       UsageRegistrar
	Reports     ReportBuilder
	ReportPDF   ReportRenderer
	ReportTopN  int
	Reconciler  Reconciler
}

// Router registra las rutas de la consola. Cada destino protegido pasa por el gate
// con la entrada de access.Routes que le corresponde.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestMetrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	gated := func(path string) fiber.Handler {
		return RequireRoute(deps.Gate, access.Lookup(path))
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth, deps.Session, deps.Gate)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)
	app.Get("/me", authHandler.Me)

	// Páginas de inicio por rol
	app.Get("/menu", gated("/menu"), authHandler.Navigation)
	app.Get("/admin-dashboard", gated("/admin-dashboard"), authHandler.Navigation)

	// Movimientos de inventario
	inventoryHandler := NewInventoryHandler(deps.Sale, deps.Purchase, deps.Usage)
	app.Post("/ventas", gated("/ventas"), inventoryHandler.RegisterSale)
	insumos := app.Group("/insumos", gated("/insumos"))
	insumos.Post("/:id/compras", inventoryHandler.RegisterPurchase)
	insumos.Post("/:id/usos", inventoryHandler.RegisterUsage)

	// Reportes
	reportHandler := NewReportHandler(deps.Reports, deps.ReportPDF, deps.ReportTopN)
	reportes := app.Group("/reportes", gated("/reportes"))
	reportes.Get("/", reportHandler.Get)
	reportes.Get("/pdf", reportHandler.PDF)

	// Reconciliación (solo administradores)
	reconciliationHandler := NewReconciliationHandler(deps.Reconciler)
	recon := app.Group("/reconciliaciones", gated("/reconciliaciones"))
	recon.Get("/", reconciliationHandler.List)
	recon.Post("/:id/reintentar", reconciliationHandler.Retry)
	recon.Delete("/:id", reconciliationHandler.Dismiss)
}
