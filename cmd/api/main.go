package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/fichas-api/internal/application/analytics"
	"github.com/jhoicas/fichas-api/internal/application/auth"
	"github.com/jhoicas/fichas-api/internal/application/catalog"
	"github.com/jhoicas/fichas-api/internal/application/report"
	"github.com/jhoicas/fichas-api/internal/application/ticket"
	infraexcel "github.com/jhoicas/fichas-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/fichas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fichas-api/internal/infrastructure/postgres"
	infraxml "github.com/jhoicas/fichas-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/fichas-api/internal/interfaces/http"
	"github.com/jhoicas/fichas-api/pkg/config"
	"github.com/jhoicas/fichas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	ledgerRepo := postgres.NewSalesLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := catalog.NewProductUseCase(txRunner, productRepo, cfg.Tickets.LowStockThreshold)
	ticketUC := ticket.NewUseCase(txRunner, ticketRepo, ticket.Config{
		RetainConfirmed: cfg.Tickets.RetainConfirmed,
	}, log.Zerolog())

	// Exportación del relatório: PDF (maroto), XLSX (excelize) y XML con digest c14n.
	reportUC := report.NewUseCase(ledgerRepo, loc, log.Component("reports"),
		infrapdf.NewReportRenderer(),
		infraexcel.NewReportRenderer(),
		infraxml.NewReportRenderer(),
	)
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, ledgerRepo, cfg.Tickets.LowStockThreshold, loc)

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(httpLog),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))
	app.Use(httpRouter.RequestLogger(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Fichas API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		TicketUC:     ticketUC,
		ReportUC:     reportUC,
		DashboardUC:  dashboardUC,
		LoginLimiter: httpRouter.NewIPRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
		Log:          httpLog,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
