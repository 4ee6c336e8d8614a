// Command spoome-mock serves the in-memory fake spoo.me instance on a real
// port, for trying the client or the CLI without touching the public service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rowjay/spoome-go/spoometest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if os.Getenv("SPOOME_APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	addr := pflag.String("addr", envOr("SPOOME_MOCK_ADDR", "127.0.0.1:8000"), "listen address")
	apiKey := pflag.String("api-key", os.Getenv("SPOOME_MOCK_API_KEY"), "require this API key")
	apiKeyHeader := pflag.String("api-key-header", "Authorization", "header carrying the API key")
	pflag.Parse()

	opts := []spoometest.Option{spoometest.WithLogger(log.Logger)}
	if *apiKey != "" {
		opts = append(opts, spoometest.WithAPIKey(*apiKeyHeader, *apiKey))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           spoometest.NewHandler(opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("addr", *addr).Msg("Starting fake spoo.me instance")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
