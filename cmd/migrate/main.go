// migrate aplica las migraciones SQL embebidas y termina.
//
// Uso: go run ./cmd/migrate [-list]
// Lee la configuración de .env (si existe) y de las variables de entorno.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

func main() {
	list := flag.Bool("list", false, "solo listar las migraciones embebidas")
	flag.Parse()

	if *list {
		names, err := postgres.MigrationNames()
		if err != nil {
			fmt.Fprintf(os.Stderr, "listar migraciones: %v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Strs("applied", applied).Msg("migraciones")
	}
	if len(applied) == 0 {
		log.Info().Msg("esquema al día")
		return
	}
	log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
}
