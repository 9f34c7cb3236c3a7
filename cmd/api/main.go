package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/blockbyjamez/stockroom-api/internal/application/analytics"
	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/application/auth"
	"github.com/blockbyjamez/stockroom-api/internal/application/inventory"
	"github.com/blockbyjamez/stockroom-api/internal/application/usecase"
	"github.com/blockbyjamez/stockroom-api/internal/infrastructure/mail"
	"github.com/blockbyjamez/stockroom-api/internal/infrastructure/postgres"
	httpRouter "github.com/blockbyjamez/stockroom-api/internal/interfaces/http"
	"github.com/blockbyjamez/stockroom-api/pkg/config"
	"github.com/blockbyjamez/stockroom-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.InitSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("inicialización del esquema")
	}
	if err := postgres.SeedAdmin(ctx, pool, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
		log.Fatal().Err(err).Msg("siembra de cuenta admin")
	}

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	trail := audit.NewTrail(auditRepo, log)
	mailer := mail.NewGomailSender(cfg.SMTP)

	authUC := auth.NewUseCase(userRepo, mailer, trail,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.CodeConfig{
			RegisterTTL: time.Duration(cfg.Codes.RegisterTTLMinutes) * time.Minute,
			ResetTTL:    time.Duration(cfg.Codes.ResetTTLMinutes) * time.Minute,
			ResetToken:  time.Duration(cfg.Codes.ResetTokenMinutes) * time.Minute,
		},
	)
	productUC := usecase.NewProductUseCase(productRepo, trail)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo, trail)
	userUC := usecase.NewUserUseCase(userRepo, trail)
	dashboardUC := analytics.NewDashboardUseCase(dashboardRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		LedgerUC:    ledgerUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
		Trail:       trail,
		JWTSecret:   cfg.JWT.Secret,
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
