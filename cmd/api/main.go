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
	_ "github.com/jhoicas/Produccion-api/docs"
	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title                       Producción API
// @version                     1.0
// @description                 Inventario de materias primas, productos con lista de materiales y sugerencia de producción.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	var (
		materialRepo repository.RawMaterialRepository
		productRepo  repository.ProductRepository
		userRepo     repository.UserRepository
		snapshots    planning.SnapshotReader
	)

	ctx := context.Background()
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		materialRepo = store.RawMaterials()
		productRepo = store.Products()
		userRepo = store.Users()
		snapshots = store
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			version, err := postgres.Migrate(cfg.DB.ConnectionString())
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Uint("version", version).Msg("esquema actualizado")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		materialRepo = postgres.NewRawMaterialRepository(pool)
		productRepo = postgres.NewProductRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		snapshots = postgres.NewTxRunner(pool)
	}

	rawMaterialUC := usecase.NewRawMaterialUseCase(materialRepo)
	productUC := usecase.NewProductUseCase(productRepo, materialRepo)
	suggestionUC := planning.NewSuggestionUseCase(snapshots, infrapdf.NewPlanPDFGenerator(cfg.App.Name), log)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (swag init -g cmd/api/main.go)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Producción API",
		}))
	} else {
		log.Debug().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RawMaterialUC: rawMaterialUC,
		ProductUC:     productUC,
		SuggestionUC:  suggestionUC,
		AuthUC:        authUC,
		UserUC:        userUC,
		JWTSecret:     cfg.JWT.Secret,
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
