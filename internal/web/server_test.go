package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elys-network/liquidity-bridge/internal/bridge"
	"github.com/elys-network/liquidity-bridge/internal/config"
	"github.com/elys-network/liquidity-bridge/internal/state"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvaluator struct {
	run   types.BatchRun
	err   error
	calls int
}

func (f *fakeEvaluator) EvaluateBatch(_ context.Context, paths []types.ScenarioPath) (types.BatchRun, error) {
	f.calls++
	if f.err != nil {
		return types.BatchRun{}, f.err
	}
	run := f.run
	for _, p := range paths {
		run.Results = append(run.Results, types.PathResult{PathID: p.ID})
	}
	return run, nil
}

type fakeStore struct {
	runs      []types.BatchRun
	saveErr   error
	readErr   error
	pingErr   error
	lastLimit int
}

func (s *fakeStore) SaveRun(_ context.Context, run types.BatchRun) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.runs = append([]types.BatchRun{run}, s.runs...)
	return int64(len(s.runs)), nil
}

func (s *fakeStore) GetRunByID(_ context.Context, runID string) (*types.BatchRun, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	for i := range s.runs {
		if s.runs[i].RunID == runID {
			return &s.runs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", state.ErrRunNotFound, runID)
}

func (s *fakeStore) GetRecentRuns(_ context.Context, limit int) ([]types.BatchRun, error) {
	s.lastLimit = limit
	if s.readErr != nil {
		return nil, s.readErr
	}
	if limit > len(s.runs) {
		limit = len(s.runs)
	}
	return s.runs[:limit], nil
}

func (s *fakeStore) Ping() error { return s.pingErr }

func do(t *testing.T, ws *WebServer, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	ws := NewWebServer("", &fakeEvaluator{}, nil)
	rec, body := do(t, ws, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "disabled", body["persistence"])

	rec, _ = do(t, ws, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_StoreDown(t *testing.T) {
	ws := NewWebServer("", &fakeEvaluator{}, &fakeStore{pingErr: errors.New("connection refused")})
	rec, body := do(t, ws, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "DEGRADED", body["status"])
	assert.Equal(t, "unhealthy", body["persistence"])
}

func TestEvaluate_SavesRun(t *testing.T) {
	eval := &fakeEvaluator{run: types.BatchRun{RunID: "run-1"}}
	store := &fakeStore{}
	ws := NewWebServer("", eval, store)

	rec, body := do(t, ws, http.MethodPost, "/api/evaluate", `[{"id":"a"},{"id":"b"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run-1", body["run_id"])
	assert.Len(t, body["results"], 2)

	require.Len(t, store.runs, 1)
	assert.Equal(t, []string{"a", "b"}, store.runs[0].PathIDs())
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		evalErr    error
		saveErr    error
		wantStatus int
		wantCalls  int
	}{
		{name: "malformed json", body: `{"id":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `[{"idx":"a"}]`, wantStatus: http.StatusBadRequest},
		{name: "validation", body: `[]`, evalErr: fmt.Errorf("%w: empty batch", types.ErrValidation), wantStatus: http.StatusBadRequest, wantCalls: 1},
		{name: "dimension mismatch", body: `[{"id":"a"}]`, evalErr: fmt.Errorf("path a: %w", types.ErrDimensionMismatch), wantStatus: http.StatusBadRequest, wantCalls: 1},
		{name: "arithmetic domain", body: `[{"id":"a"}]`, evalErr: types.ErrArithmeticDomain, wantStatus: http.StatusBadRequest, wantCalls: 1},
		{name: "internal", body: `[{"id":"a"}]`, evalErr: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError, wantCalls: 1},
		{name: "save failure", body: `[{"id":"a"}]`, saveErr: errors.New("disk full"), wantStatus: http.StatusInternalServerError, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := &fakeEvaluator{err: tt.evalErr}
			ws := NewWebServer("", eval, &fakeStore{saveErr: tt.saveErr})

			rec, body := do(t, ws, http.MethodPost, "/api/evaluate", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, true, body["error"])
			assert.Equal(t, tt.wantCalls, eval.calls)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ws := NewWebServer("", &fakeEvaluator{}, nil)
	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/evaluate"},
		{http.MethodPost, "/api/runs"},
		{http.MethodDelete, "/api/runs/r1"},
		{http.MethodPost, "/health"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rec := httptest.NewRecorder()
		ws.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.target)
	}
}

func TestRuns_PersistenceDisabled(t *testing.T) {
	ws := NewWebServer("", &fakeEvaluator{}, nil)
	for _, target := range []string{"/api/runs", "/api/runs/latest", "/api/runs/abc"} {
		rec, _ := do(t, ws, http.MethodGet, target, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestGetRuns_Limit(t *testing.T) {
	store := &fakeStore{runs: []types.BatchRun{{RunID: "r2"}, {RunID: "r1"}}}
	ws := NewWebServer("", &fakeEvaluator{}, store)

	tests := []struct {
		query     string
		wantLimit int
		wantCount int
	}{
		{query: "", wantLimit: 20, wantCount: 2},
		{query: "?limit=1", wantLimit: 1, wantCount: 1},
		{query: "?limit=500", wantLimit: 20, wantCount: 2},
		{query: "?limit=-3", wantLimit: 20, wantCount: 2},
		{query: "?limit=abc", wantLimit: 20, wantCount: 2},
	}

	for _, tt := range tests {
		rec, body := do(t, ws, http.MethodGet, "/api/runs"+tt.query, "")
		require.Equal(t, http.StatusOK, rec.Code, tt.query)
		assert.Equal(t, tt.wantLimit, store.lastLimit, tt.query)
		assert.Equal(t, float64(tt.wantCount), body["count"], tt.query)
	}
}

func TestGetRun(t *testing.T) {
	store := &fakeStore{runs: []types.BatchRun{{RunID: "r2"}, {RunID: "r1"}}}
	ws := NewWebServer("", &fakeEvaluator{}, store)

	rec, body := do(t, ws, http.MethodGet, "/api/runs/r1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r1", body["run_id"])

	rec, body = do(t, ws, http.MethodGet, "/api/runs/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r2", body["run_id"])

	rec, _ = do(t, ws, http.MethodGet, "/api/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRun_StoreFailure(t *testing.T) {
	store := &fakeStore{runs: []types.BatchRun{{RunID: "r1"}}, readErr: errors.New("connection reset")}
	ws := NewWebServer("", &fakeEvaluator{}, store)

	for _, target := range []string{"/api/runs/r1", "/api/runs/latest", "/api/runs"} {
		rec, body := do(t, ws, http.MethodGet, target, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.Equal(t, true, body["error"], target)
	}
}

func TestGetLatestRun_Empty(t *testing.T) {
	ws := NewWebServer("", &fakeEvaluator{}, &fakeStore{})
	rec, _ := do(t, ws, http.MethodGet, "/api/runs/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ws := NewWebServer("", &fakeEvaluator{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEvaluate_WithBridge(t *testing.T) {
	b, err := bridge.NewBridge(bridge.Config{
		Params: config.DefaultBridgeParameters,
		Pool: types.PoolConfig{
			Token0:          "uatom",
			Token1:          "uusdc",
			FeeBps:          30,
			InitialReserve0: 1000,
			InitialReserve1: 10000,
		},
		Workers: 2,
	})
	require.NoError(t, err)

	store := &fakeStore{}
	ws := NewWebServer("", b, store)

	payload := `[{"id":"p1","cfads":[100,200],"base_prices":[10,10],"shocks":[1.1,0.9]},
	             {"id":"p2","cfads":[50],"base_prices":[2],"shocks":[1.0]}]`
	rec, _ := do(t, ws, http.MethodPost, "/api/evaluate", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var run types.BatchRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.NotEmpty(t, run.RunID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
	assert.WithinDuration(t, time.Now(), run.FinishedAt, time.Minute)
	require.Len(t, run.Results, 2)
	assert.Equal(t, "p1", run.Results[0].PathID)
	assert.InDeltaSlice(t, []float64{11, 9}, run.Results[0].ShockedPrices, 1e-9)
	require.Len(t, store.runs, 1)

	rec, _ = do(t, ws, http.MethodPost, "/api/evaluate", `[{"id":"bad","cfads":[1,2],"base_prices":[1],"shocks":[1]}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
