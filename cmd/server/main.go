// Package main provides the prayer times API HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go.ngs.io/salah-api/internal/adapter/cache"
	"go.ngs.io/salah-api/internal/adapter/store/csv"
	"go.ngs.io/salah-api/internal/config"
	httpHandler "go.ngs.io/salah-api/internal/http"
	"go.ngs.io/salah-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("salah-api version %s\n", version)
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration from environment.
	cfg := config.Load()

	log.Info().Str("version", version).Msg("starting prayer times API server")
	log.Info().Str("addr", cfg.ServerAddress).Msg("server address")
	log.Info().Str("path", cfg.PreferredMethodsPath).Msg("preferred methods table")

	// Initialize adapters.
	preferred := csv.Load(cfg.PreferredMethodsPath)
	responseCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	// Initialize use cases.
	prayerUC := usecase.NewPrayerTimesUseCase(preferred, responseCache)
	qiblaUC := usecase.NewQiblaUseCase(responseCache)

	// Setup router.
	handler := httpHandler.NewHandler(prayerUC, qiblaUC, preferred, responseCache)
	router := httpHandler.SetupRouter(handler)

	log.Info().Msg("API endpoints:")
	log.Info().Msg("  - POST /v1/prayer-times")
	log.Info().Msg("  - GET  /v1/qibla")
	log.Info().Msg("  - GET  /v1/qibla/detailed")
	log.Info().Msg("  - GET  /v1/methods")
	log.Info().Msg("  - GET  /health")

	if err := router.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Prayer Times API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  salah-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  SERVER_ADDRESS          Full listen address, overrides PORT (e.g. :3000)")
	fmt.Println("  REDIS_ADDR              Redis address for the response cache (optional)")
	fmt.Println("  REDIS_PASSWORD          Redis password (optional)")
	fmt.Println("  PREFERRED_METHODS_PATH  Country-to-method CSV (default: data/preferred_methods.csv)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_PRETTY              Human-readable log output when set")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  salah-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port with Redis caching")
	fmt.Println("  PORT=3000 REDIS_ADDR=localhost:6379 salah-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health               Health check")
	fmt.Println("  POST /v1/prayer-times      Calculate prayer times")
	fmt.Println("  GET  /v1/qibla             Qibla direction and distance")
	fmt.Println("  GET  /v1/qibla/detailed    Qibla with reverse bearing and validation")
	fmt.Println("  GET  /v1/methods           List named calculation methods")
	fmt.Println()
}
