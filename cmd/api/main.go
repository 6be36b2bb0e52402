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

	"github.com/jhoicas/Retail-api/internal/application/returns"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/infrastructure/cache"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Retail-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Retail-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Retail-api/internal/interfaces/http"
	"github.com/jhoicas/Retail-api/pkg/config"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("tenancy_driver", cfg.Tenancy.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		directory tenancy.Directory
		opener    tenancy.StoreOpener
		bindings  tenancy.BindingCache
	)
	switch cfg.Tenancy.Driver {
	case config.DriverMemory:
		memDir := memory.NewDirectory()
		memOpener := memory.NewOpener()
		demo, err := memory.SeedDemo(ctx, memDir, memOpener, memory.DefaultDemoTenant())
		if err != nil {
			log.Fatal().Err(err).Msg("cargar empresa de demostración")
		}
		log.Info().
			Int64("company_id", demo.Company.ID).
			Str("admin", demo.Admin.Email).
			Str("user", demo.User.Email).
			Msg("almacén en memoria con datos de demostración")
		directory, opener = memDir, memOpener
		bindings = memory.NewBindingCache(cfg.Tenancy.CacheTTL)

	default:
		controlDSN := cfg.DB.ConnectionString()
		if cfg.Tenancy.AutoMigrate {
			if err := postgres.MigrateControl(controlDSN); err != nil {
				log.Fatal().Err(err).Msg("migraciones del plano de control")
			}
		}
		pool, err := postgres.NewPool(ctx, controlDSN, postgres.ControlPoolOptions)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL (plano de control)")
		}
		defer pool.Close()

		registry := postgres.NewStoreRegistry(cfg.Tenancy.SharedDSN, cfg.Tenancy.AutoMigrate, log)
		defer registry.Close()
		directory, opener = postgres.NewDirectory(pool), registry
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			// Sin Redis se sigue con la caché local; la resolución no depende de ella.
			log.Warn().Err(err).Msg("redis no disponible, usando caché en memoria")
		} else {
			defer rdb.Close()
			bindings = cache.NewRedisBindingCache(rdb, cfg.Tenancy.CacheTTL)
		}
	}
	if bindings == nil {
		bindings = memory.NewBindingCache(cfg.Tenancy.CacheTTL)
	}

	resolver := tenancy.NewResolver(directory, bindings, opener, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail Returns API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:   resolver,
		CompanyUC:  usecase.NewCompanyUseCase(),
		UserUC:     usecase.NewUserUseCase(resolver, log),
		ProductUC:  usecase.NewProductUseCase(log),
		LocationUC: usecase.NewLocationUseCase(),
		InstanceUC: usecase.NewInstanceUseCase(),
		LookupUC:   usecase.NewLookupUseCase(),
		OrderUC:    returns.NewOrderUseCase(infrapdf.NewMarotoSlipRenderer(), log),
		JWTSecret:  cfg.JWT.Secret,
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
