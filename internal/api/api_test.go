package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"soltrader-go/internal/engine"
	"soltrader-go/internal/history"
	"soltrader-go/internal/price"
	sig "soltrader-go/internal/signal"
	"soltrader-go/internal/status"
)

type MockTicker struct {
	mock.Mock
}

func (m *MockTicker) Tick(ctx context.Context) (engine.TickResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(engine.TickResult), args.Error(1)
}

type MockPrices struct {
	mock.Mock
}

func (m *MockPrices) Spot(ctx context.Context) price.Reading {
	args := m.Called(ctx)
	return args.Get(0).(price.Reading)
}

type MockStatus struct {
	mock.Mock
}

func (m *MockStatus) Snapshot(ctx context.Context) status.Snapshot {
	args := m.Called(ctx)
	return args.Get(0).(status.Snapshot)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Load(ctx context.Context) (*history.Bounded[sig.PriceSample], error) {
	args := m.Called(ctx)
	buf, _ := args.Get(0).(*history.Bounded[sig.PriceSample])
	return buf, args.Error(1)
}

const secret = "s3cret"

func setupServer(deps Deps) *Server {
	if deps.CronSecret == "" {
		deps.CronSecret = secret
	}
	return NewServer(zerolog.Nop(), deps)
}

func do(t *testing.T, srv *Server, method, path, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)
	return w
}

func TestTradeRequiresBearer(t *testing.T) {
	ticker := new(MockTicker)
	srv := setupServer(Deps{Engine: ticker})

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong secret", "Bearer nope"},
		{"wrong scheme", "Basic " + secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/api/trade", tt.auth)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
		})
	}
	ticker.AssertNotCalled(t, "Tick", mock.Anything)
}

func TestTradeEmptySecretRejectsAll(t *testing.T) {
	ticker := new(MockTicker)
	srv := NewServer(zerolog.Nop(), Deps{Engine: ticker})

	w := do(t, srv, http.MethodGet, "/api/trade", "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	ticker.AssertNotCalled(t, "Tick", mock.Anything)
}

func TestTradeSuccess(t *testing.T) {
	px := 150.25
	ticker := new(MockTicker)
	ticker.On("Tick", mock.Anything).Return(engine.TickResult{
		Action:      sig.Buy,
		Reason:      "DCA buy #1 @ $150.25 [DRY RUN]",
		Price:       &px,
		DryRun:      true,
		TodayTrades: 1,
	}, nil)
	srv := setupServer(Deps{Engine: ticker})

	w := do(t, srv, http.MethodGet, "/api/trade", "Bearer "+secret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"action":"buy","reason":"DCA buy #1 @ $150.25 [DRY RUN]","price":150.25,"tx":null,"dryRun":true,"todayTrades":1}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeaderKey))
	ticker.AssertExpectations(t)
}

func TestTradeFailureReturns500(t *testing.T) {
	ticker := new(MockTicker)
	ticker.On("Tick", mock.Anything).Return(engine.TickResult{}, errors.New("price: no route"))
	srv := setupServer(Deps{Engine: ticker})

	w := do(t, srv, http.MethodGet, "/api/trade", "Bearer "+secret)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"price: no route"}`, w.Body.String())
}

func TestGetPriceNeverFails(t *testing.T) {
	prices := new(MockPrices)
	prices.On("Spot", mock.Anything).Return(price.Reading{Time: 1700000000000, Error: "Jupiter quote failed: 429"})
	srv := setupServer(Deps{Prices: prices})

	w := do(t, srv, http.MethodGet, "/api/price", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"price":null,"time":1700000000000,"error":"Jupiter quote failed: 429"}`, w.Body.String())
}

func TestGetStatus(t *testing.T) {
	st := new(MockStatus)
	st.On("Snapshot", mock.Anything).Return(status.Snapshot{
		Wallet: status.Wallet{Address: status.NotConfigured},
		Config: status.Settings{Strategy: "dca", TradeSize: "0.01 SOL", Slippage: "50 bps", MaxDaily: "20", DryRun: "YES"},
		Stats:  status.Stats{MaxDaily: 20},
	})
	srv := setupServer(Deps{Status: st})

	w := do(t, srv, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not configured", body["wallet"].(map[string]any)["address"])
	assert.Equal(t, "YES", body["config"].(map[string]any)["dry_run"])
	assert.Equal(t, float64(20), body["stats"].(map[string]any)["maxDaily"])
}

func TestGetHistory(t *testing.T) {
	hist := new(MockHistory)
	buf := history.New[sig.PriceSample](300)
	buf.Append(sig.PriceSample{Price: 100, Time: 1})
	hist.On("Load", mock.Anything).Return(buf, nil).Once()
	hist.On("Load", mock.Anything).Return(nil, errors.New("boom")).Once()
	srv := setupServer(Deps{History: hist})

	w := do(t, srv, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"price":100,"time":1}]`, w.Body.String())

	w = do(t, srv, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardAndHealth(t *testing.T) {
	srv := setupServer(Deps{})

	w := do(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/status")

	w = do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)

	w = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "soltrader_last_price_usd")
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, setupServer(Deps{}), http.MethodOptions, "/api/trade", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStreamBroadcastsTicks(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ts := httptest.NewServer(setupServer(Deps{Hub: hub}).Routes())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Broadcast(engine.TickResult{Action: sig.Hold, Reason: "Collecting data (3/20)"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got engine.TickResult
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sig.Hold, got.Action)
	assert.Equal(t, "Collecting data (3/20)", got.Reason)
}
