package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/roca12/Proyecto-de-grado/internal/bootstrap"
	"github.com/roca12/Proyecto-de-grado/pkg/config"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

func main() {
	// configs/.env es opcional; las variables ya definidas tienen prioridad
	_ = godotenv.Load("configs/.env")

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
		Msg("iniciando consola")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{Migrate: true})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	if err := c.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("servidor finalizado")
	}
}
