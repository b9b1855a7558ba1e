package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/studentbudget/backend/internal/auth"
	"github.com/studentbudget/backend/internal/config"
	"github.com/studentbudget/backend/internal/controllers"
	"github.com/studentbudget/backend/internal/models"
	"github.com/studentbudget/backend/internal/router"
	"github.com/studentbudget/backend/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	// Log format can be either human readable or JSON
	if strings.EqualFold(cfg.LogFormat, "human") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	}

	gin.SetMode(cfg.GinMode)

	err = models.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	err = seed.Categories(models.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding default categories")
	}

	if cfg.Seed {
		err = seed.DemoUsers(models.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("seeding demo users")
		}
	}

	co := controllers.Controller{
		Issuer:           auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry),
		ResetTokenExpiry: cfg.ResetTokenExpiry,
	}

	r, err := router.Router(cfg, co)
	if err != nil {
		log.Fatal().Err(err).Msg("router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// Wait for a termination signal, then shut down gracefully with a
	// timeout so that in-flight requests can finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("shutdown")
	}
}
