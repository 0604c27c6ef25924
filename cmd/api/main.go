package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/Recaudo-api/internal/application/analytics"
	"github.com/jhoicas/Recaudo-api/internal/application/settlement"
	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	domainsettlement "github.com/jhoicas/Recaudo-api/internal/domain/settlement"
	infrmail "github.com/jhoicas/Recaudo-api/internal/infrastructure/mail"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Recaudo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/Recaudo-api/internal/interfaces/http"
	"github.com/jhoicas/Recaudo-api/pkg/config"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.App.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén")
	}
	defer st.Close()

	// Motor de pagos: validación → ejecución atómica; saldos por cuenta.
	recorder := metrics.NewRecorder()
	engineLog := log.Named("settlement")
	executor := settlement.NewExecutor(st.Obligations, st.TxRunner, domainsettlement.NewTimelinessEvaluator(loc), nil, engineLog)
	settlementUC := settlement.NewUseCase(
		st.Obligations,
		settlement.NewValidator(st.Obligations),
		executor,
		settlement.NewBalanceAggregator(st.Obligations),
		recorder,
		engineLog,
	)

	// Estados de cuenta: PDF siempre; correo solo si hay SMTP configurado.
	var notifier statement.Notifier
	if cfg.SMTP.Enabled() {
		notifier = infrmail.NewSMTPNotifier(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: envío de estados de cuenta deshabilitado")
	}
	renderer := infrapdf.NewStatementRenderer(cfg.SMTP.FromName, infrapdf.DefaultBankReferences)
	statementUC := statement.NewUseCase(st.Obligations, renderer, notifier, nil, log.Named("statement"))

	var dashboardUC *appanalytics.DashboardUseCase
	if st.Dashboard != nil {
		dashboardUC = appanalytics.NewDashboardUseCase(st.Dashboard, nil)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Recaudo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": st.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Settlement:  settlementUC,
		Statements:  statementUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Named("http"),
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
