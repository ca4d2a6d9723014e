package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/rs/zerolog/log"
)

const (
	// ModeServe starts the HTTP API.
	ModeServe = "serve"
	// ModeBatch evaluates ScenarioFile once and exits.
	ModeBatch = "batch"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// Mode is either ModeServe or ModeBatch.
	Mode string

	// Workers bounds the number of scenario paths evaluated in parallel.
	Workers int

	// ScenarioFile is the JSON file of scenario paths read in batch mode.
	ScenarioFile string

	// Pool is the validated pool configuration, read from BRIDGE_POOL_CONFIG as a JSON object.
	Pool types.PoolConfig

	// Params are the bridge tunables, DefaultBridgeParameters with environment overrides applied.
	Params types.BridgeParameters
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// BRIDGE_POOL_CONFIG is required; everything else falls back to a default.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	Mode = strings.ToLower(getEnvOrDefault("BRIDGE_MODE", ModeServe))
	if Mode != ModeServe && Mode != ModeBatch {
		return errors.New("environment variable BRIDGE_MODE must be 'serve' or 'batch', got: " + Mode)
	}

	Workers, err = getEnvAsIntOrDefault("BRIDGE_WORKERS", 4)
	if err != nil {
		return err
	}
	if Workers <= 0 {
		return errors.New("environment variable BRIDGE_WORKERS must be positive, got: " + strconv.Itoa(Workers))
	}

	ScenarioFile = getEnvOrDefault("BRIDGE_SCENARIO_FILE", "")
	if Mode == ModeBatch && ScenarioFile == "" {
		return errRequired("BRIDGE_SCENARIO_FILE")
	}

	rawPool, err := getEnv("BRIDGE_POOL_CONFIG")
	if err != nil {
		return err
	}
	Pool, err = ParsePoolConfig([]byte(rawPool))
	if err != nil {
		return err
	}

	Params, err = loadParameters(DefaultBridgeParameters)
	if err != nil {
		return err
	}

	// Load endpoint configuration
	if err := loadEndpointConfig(); err != nil {
		return err
	}

	log.Debug().
		Str("Mode", Mode).
		Int("Workers", Workers).
		Str("Token0", Pool.Token0).
		Str("Token1", Pool.Token1).
		Float64("FeeBps", Pool.FeeBps).
		Msg("Configuration loaded successfully.")

	return nil
}

// ParsePoolConfig decodes a JSON object and validates it as a pool configuration.
func ParsePoolConfig(data []byte) (types.PoolConfig, error) {
	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return types.PoolConfig{}, errors.New("pool configuration must be a JSON object: " + err.Error())
	}
	return ValidatePoolConfig(raw)
}

// loadParameters applies environment overrides on top of base and validates the result.
func loadParameters(base types.BridgeParameters) (types.BridgeParameters, error) {
	p := base
	var err error

	if p.ArbitrageThreshold, err = getEnvAsFloat64OrDefault("BRIDGE_ARB_THRESHOLD", p.ArbitrageThreshold); err != nil {
		return p, err
	}
	if p.FeedbackDecay, err = getEnvAsFloat64OrDefault("BRIDGE_FEEDBACK_DECAY", p.FeedbackDecay); err != nil {
		return p, err
	}
	if p.BaseWidthHint, err = getEnvAsFloat64OrDefault("BRIDGE_WIDTH_HINT", p.BaseWidthHint); err != nil {
		return p, err
	}
	if p.OptimizerRetries, err = getEnvAsIntOrDefault("BRIDGE_OPTIMIZER_RETRIES", p.OptimizerRetries); err != nil {
		return p, err
	}
	if p.OptimizerTimeout, err = getEnvAsDurationOrDefault("BRIDGE_OPTIMIZER_TIMEOUT", p.OptimizerTimeout); err != nil {
		return p, err
	}

	return p, ValidateParameters(p)
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errRequired(key)
}

func errRequired(key string) error {
	return errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable or the fallback when unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsIntOrDefault retrieves an environment variable as an int. Returns error if set but invalid.
func getEnvAsIntOrDefault(key string, fallback int) (int, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int, got: " + valueStr)
	}
	return value, nil
}

// getEnvAsFloat64OrDefault retrieves an environment variable as a float64. Returns error if set but invalid.
func getEnvAsFloat64OrDefault(key string, fallback float64) (float64, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid float64, got: " + valueStr)
	}
	return value, nil
}

// getEnvAsDurationOrDefault retrieves an environment variable as a time.Duration ("1500ms", "2s").
func getEnvAsDurationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid duration, got: " + valueStr)
	}
	return value, nil
}
