// seed administra la base de producción desde la línea de comandos:
// genera el script SQL del catálogo a partir de CSV, lo carga directo,
// aplica migraciones y crea usuarios admin.
//
// Uso: go run ./cmd/seed <comando> [flags]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/seed"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	// stdout queda libre para el script SQL
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: os.Stderr}).Component("seed")

	app := &cli.App{
		Name:  "seed",
		Usage: "carga de catálogo, migraciones y usuarios",
		Commands: []*cli.Command{
			sqlCommand(log),
			loadCommand(cfg, log),
			migrateCommand(cfg, log),
			adminCommand(cfg, log),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("seed")
		os.Exit(1)
	}
}

func csvFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "materials", Usage: "CSV name,stock_quantity", Required: true},
		&cli.StringFlag{Name: "products", Usage: "CSV name,value", Required: true},
		&cli.StringFlag{Name: "bom", Usage: "CSV product,raw_material,required_quantity"},
		&cli.StringFlag{Name: "encoding", Usage: "utf8 | latin1", Value: seed.EncodingUTF8},
	}
}

func sqlCommand(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "sql",
		Usage: "genera un script SQL idempotente con el catálogo",
		Flags: append(csvFlags(), &cli.StringFlag{Name: "out", Usage: "archivo de salida (por defecto stdout)"}),
		Action: func(c *cli.Context) error {
			ds, err := readDataset(c)
			if err != nil {
				return err
			}
			var w io.Writer = os.Stdout
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("crear %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}
			if err := seed.WriteSQL(w, ds); err != nil {
				return err
			}
			log.Info().
				Int("materials", len(ds.Materials)).
				Int("products", len(ds.Products)).
				Str("out", c.String("out")).
				Msg("script generado")
			return nil
		},
	}
}

func loadCommand(cfg *config.Config, log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "carga el catálogo directamente en PostgreSQL en una sola transacción",
		Flags: csvFlags(),
		Action: func(c *cli.Context) error {
			ds, err := readDataset(c)
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(c.Context, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			stats, err := seed.Load(c.Context, postgres.NewTxRunner(pool), ds)
			if err != nil {
				return err
			}
			log.Info().
				Int("materials", stats.Materials).
				Int("products", stats.Products).
				Int("bom_items", stats.BomItems).
				Msg("catálogo cargado")
			return nil
		},
	}
}

func migrateCommand(cfg *config.Config, log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "aplica las migraciones pendientes",
		Action: func(c *cli.Context) error {
			version, err := postgres.Migrate(cfg.DB.ConnectionString())
			if err != nil {
				return err
			}
			log.Info().Uint("version", version).Msg("esquema actualizado")
			return nil
		},
	}
}

func adminCommand(cfg *config.Config, log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "crea un usuario con rol admin",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SEED_ADMIN_PASSWORD"}},
			&cli.StringFlag{Name: "name"},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
			defer cancel()

			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			})
			user, err := uc.CreateUser(ctx, dto.CreateUserRequest{
				Email:    c.String("email"),
				Password: c.String("password"),
				Name:     c.String("name"),
				Role:     entity.RoleAdmin,
			})
			if err != nil {
				return err
			}
			log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("admin creado")
			return nil
		},
	}
}

func readDataset(c *cli.Context) (*seed.Dataset, error) {
	enc := c.String("encoding")

	var materials []seed.MaterialRow
	if err := readFile(c.String("materials"), enc, func(r io.Reader) (err error) {
		materials, err = seed.ReadMaterials(r)
		return err
	}); err != nil {
		return nil, err
	}
	var products []seed.ProductRow
	if err := readFile(c.String("products"), enc, func(r io.Reader) (err error) {
		products, err = seed.ReadProducts(r)
		return err
	}); err != nil {
		return nil, err
	}
	var bom []seed.BomRow
	if path := c.String("bom"); path != "" {
		if err := readFile(path, enc, func(r io.Reader) (err error) {
			bom, err = seed.ReadBom(r)
			return err
		}); err != nil {
			return nil, err
		}
	}
	return seed.Build(materials, products, bom, time.Now().UTC())
}

func readFile(path, encoding string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	r, err := seed.NewReader(f, encoding)
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
