package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/fichas-api/internal/application/analytics"
	"github.com/jhoicas/fichas-api/internal/application/auth"
	"github.com/jhoicas/fichas-api/internal/application/catalog"
	"github.com/jhoicas/fichas-api/internal/application/report"
	"github.com/jhoicas/fichas-api/internal/application/ticket"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *catalog.ProductUseCase
	TicketUC     *ticket.UseCase
	ReportUC     *report.UseCase
	DashboardUC  *appanalytics.DashboardUseCase
	LoginLimiter *IPRateLimiter // nil = sin límite
	Log          zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	login := []fiber.Handler{}
	if deps.LoginLimiter != nil {
		login = append(login, deps.LoginLimiter.Middleware())
	}
	api.Post("/auth/login", append(login, authHandler.Login)...)

	// Rutas protegidas (requieren Bearer Token)
	authn := AuthMiddleware(deps.AuthUC)
	adminOnly := RequireRole(entity.RoleAdmin)

	api.Get("/auth/validate", authn, authHandler.Validate)
	api.Post("/usuarios", authn, adminOnly, authHandler.Register)

	// Produtos: lectura para todos, escritura solo admin
	products := api.Group("/produtos", authn)
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/baixo-estoque", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Fichas. Las rutas fijas van antes de /:numero.
	fichas := api.Group("/fichas", authn)
	ticketHandler := NewTicketHandler(deps.TicketUC, deps.Log)
	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Log)
	fichas.Get("/dashboard", dashboardHandler.GetSummary)
	fichas.Get("/pendentes", ticketHandler.ListPending)
	fichas.Get("/relatorio", reportHandler.Generate)
	fichas.Get("/relatorio/exportar", reportHandler.Export)
	fichas.Post("/", ticketHandler.Create)
	fichas.Post("/:id/confirmar", ticketHandler.Confirm)
	fichas.Get("/:numero", ticketHandler.FindByNumber)
}
