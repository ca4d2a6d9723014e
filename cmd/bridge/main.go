package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/elys-network/liquidity-bridge/internal/bridge"
	"github.com/elys-network/liquidity-bridge/internal/config"
	"github.com/elys-network/liquidity-bridge/internal/logger"
	"github.com/elys-network/liquidity-bridge/internal/state"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/elys-network/liquidity-bridge/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// main is the entry point for the liquidity bridge.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Liquidity bridge starting...")

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize Database Connection (optional)
	var store web.RunStore
	if config.PersistenceEnabled() {
		dbCfg := state.DBConfig{
			Host: config.DBHost, Port: config.DBPort,
			User: config.DBUser, Password: config.DBPassword,
			DBName: config.DBName, SSLMode: config.DBSSLMode,
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
		store = state.Store{}
	} else {
		log.Warn().Msg("DB_HOST not set. Runs will not be persisted.")
	}

	// --- 2. Create Bridge Instance ---
	b, err := bridge.NewBridge(bridge.Config{
		Params:  config.Params,
		Pool:    config.Pool,
		Workers: config.Workers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bridge instance")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- 3. Run ---
	switch config.Mode {
	case config.ModeBatch:
		if err := runBatch(ctx, b, store, config.ScenarioFile); err != nil {
			log.Error().Err(err).Str("file", config.ScenarioFile).Msg("Batch run failed")
			state.CloseDB()
			os.Exit(1)
		}
	default:
		webServer := web.NewWebServer(config.WebPort, b, store)
		go func() {
			log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting bridge HTTP API")
			if err := webServer.Start(); err != nil {
				log.Error().Err(err).Msg("Web server stopped")
				stop()
			}
		}()
		<-ctx.Done()
		log.Info().Msg("Shutting down liquidity bridge")
	}
}

// runBatch evaluates the scenario paths in file once, stores the run if store is set,
// and writes the run as JSON to stdout.
func runBatch(ctx context.Context, b *bridge.Bridge, store web.RunStore, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var paths []types.ScenarioPath
	if err := json.Unmarshal(data, &paths); err != nil {
		return err
	}

	run, err := b.EvaluateBatch(ctx, paths)
	if err != nil {
		return err
	}

	if store != nil {
		id, err := store.SaveRun(ctx, run)
		if err != nil {
			return err
		}
		log.Info().Int64("id", id).Str("run_id", run.RunID).Msg("Run saved")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(run)
}
