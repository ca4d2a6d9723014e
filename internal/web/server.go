package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/elys-network/liquidity-bridge/internal/logger"
	"github.com/elys-network/liquidity-bridge/internal/state"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const maxRequestBytes = 10 << 20

// Evaluator runs a batch of scenario paths.
type Evaluator interface {
	EvaluateBatch(ctx context.Context, paths []types.ScenarioPath) (types.BatchRun, error)
}

// RunStore persists evaluated batches.
type RunStore interface {
	SaveRun(ctx context.Context, run types.BatchRun) (int64, error)
	GetRunByID(ctx context.Context, runID string) (*types.BatchRun, error)
	GetRecentRuns(ctx context.Context, limit int) ([]types.BatchRun, error)
	Ping() error
}

// WebServer exposes the bridge over HTTP
type WebServer struct {
	router    *mux.Router
	port      string
	evaluator Evaluator
	store     RunStore // nil when persistence is disabled
	logger    zerolog.Logger
	startedAt time.Time
}

// NewWebServer creates a new web server instance. store may be nil.
func NewWebServer(port string, evaluator Evaluator, store RunStore) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:    mux.NewRouter(),
		port:      port,
		evaluator: evaluator,
		store:     store,
		logger:    logger.GetForComponent("web_server"),
		startedAt: time.Now(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET", "OPTIONS")

	// API endpoints, registered on the root router so a method mismatch answers 405
	ws.router.HandleFunc("/api/health", ws.handleHealth).Methods("GET", "OPTIONS")
	ws.router.HandleFunc("/api/evaluate", ws.handleEvaluate).Methods("POST", "OPTIONS")
	ws.router.HandleFunc("/api/runs", ws.handleGetRuns).Methods("GET", "OPTIONS")
	ws.router.HandleFunc("/api/runs/latest", ws.handleGetLatestRun).Methods("GET", "OPTIONS")
	ws.router.HandleFunc("/api/runs/{id}", ws.handleGetRun).Methods("GET", "OPTIONS")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Handler returns the routed handler, for embedding or tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start starts the web server
func (ws *WebServer) Start() error {
	ws.logger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	persistence := "disabled"
	overallStatus := "OK"
	statusCode := http.StatusOK
	if ws.store != nil {
		persistence = "healthy"
		if err := ws.store.Ping(); err != nil {
			ws.logger.Warn().Err(err).Msg("Run store health check failed")
			persistence = "unhealthy"
			overallStatus = "DEGRADED"
			statusCode = http.StatusServiceUnavailable
		}
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"gc_cycles":        memStats.NumGC,
			"uptime_seconds":   int64(time.Since(ws.startedAt).Seconds()),
		},
		"component": map[string]interface{}{
			"name":    "liquidity-bridge",
			"version": "1.0.0",
		},
		"persistence": persistence,
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleEvaluate evaluates a JSON array of scenario paths and stores the run when a store is configured
func (ws *WebServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var paths []types.ScenarioPath
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&paths); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid scenario batch: "+err.Error())
		return
	}

	run, err := ws.evaluator.EvaluateBatch(r.Context(), paths)
	if err != nil {
		status := http.StatusInternalServerError
		if isInputError(err) {
			status = http.StatusBadRequest
		}
		ws.logger.Error().Err(err).Int("paths", len(paths)).Msg("Scenario batch evaluation failed")
		ws.writeErrorResponse(w, status, err.Error())
		return
	}

	if ws.store != nil {
		if _, err := ws.store.SaveRun(r.Context(), run); err != nil {
			ws.logger.Error().Err(err).Str("run_id", run.RunID).Msg("Failed to save run")
			ws.writeErrorResponse(w, http.StatusInternalServerError, "Run evaluated but could not be saved")
			return
		}
	}

	ws.writeJSONResponse(w, http.StatusOK, run)
}

// handleGetRuns returns the most recent runs
func (ws *WebServer) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	runs, err := ws.store.GetRecentRuns(r.Context(), limit)
	if err != nil {
		ws.logger.Error().Err(err).Msg("Failed to get recent runs")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}

	response := map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
		"limit": limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetLatestRun returns the most recent run
func (ws *WebServer) handleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}

	runs, err := ws.store.GetRecentRuns(r.Context(), 1)
	if err != nil {
		ws.logger.Error().Err(err).Msg("Failed to get latest run")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}
	if len(runs) == 0 {
		ws.writeErrorResponse(w, http.StatusNotFound, "No runs found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, runs[0])
}

// handleGetRun returns a specific run by its id
func (ws *WebServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}

	id := mux.Vars(r)["id"]
	run, err := ws.store.GetRunByID(r.Context(), id)
	if errors.Is(err, state.ErrRunNotFound) {
		ws.writeErrorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		ws.logger.Error().Err(err).Str("runId", id).Msg("Failed to get run")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, run)
}

func (ws *WebServer) requireStore(w http.ResponseWriter) bool {
	if ws.store == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Persistence is disabled")
		return false
	}
	return true
}

// isInputError reports whether err was caused by the submitted data rather than the server.
func isInputError(err error) bool {
	return errors.Is(err, types.ErrValidation) ||
		errors.Is(err, types.ErrDimensionMismatch) ||
		errors.Is(err, types.ErrArithmeticDomain)
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		ws.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		ws.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
