package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Cafetrace-api/internal/application/auth"
	appledger "github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Cafetrace-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cafetrace-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cafetrace-api/internal/interfaces/http"
	"github.com/jhoicas/Cafetrace-api/pkg/config"
	"github.com/jhoicas/Cafetrace-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool para lecturas fuera de transacción; las escrituras
	// de ciclo de vida corren siempre dentro del TxRunner.
	userRepo := postgres.NewUserRepository(pool)
	centerRepo := postgres.NewCenterRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	centerUC := usecase.NewCenterUseCase(centerRepo, ledgerRepo)
	ledgerQueryUC := appledger.NewQueryUseCase(ledgerRepo)

	primaryArrivalUC := supplychain.NewPrimaryArrivalUseCase(txRunner)
	primaryProcessingUC := supplychain.NewPrimaryProcessingUseCase(txRunner, log)
	primaryDispatchUC := supplychain.NewPrimaryDispatchUseCase(txRunner)
	secondaryArrivalUC := supplychain.NewSecondaryArrivalUseCase(txRunner)
	secondaryProcessingUC := supplychain.NewSecondaryProcessingUseCase(txRunner, log)

	// PDF: guía de remisión de despachos enviados
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	dispatchNoteUC := supplychain.NewDispatchNoteUseCase(txRunner, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cafetrace API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:                authUC,
		CenterUC:              centerUC,
		LedgerQueryUC:         ledgerQueryUC,
		PrimaryArrivalUC:      primaryArrivalUC,
		PrimaryProcessingUC:   primaryProcessingUC,
		PrimaryDispatchUC:     primaryDispatchUC,
		DispatchNoteUC:        dispatchNoteUC,
		SecondaryArrivalUC:    secondaryArrivalUC,
		SecondaryProcessingUC: secondaryProcessingUC,
		JWTSecret:             cfg.JWT.Secret,
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
