package traderhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"choonbot/internal/ledger"
)

type stubTrades struct {
	records []ledger.TradeRecord
	err     error
	limit   int
}

func (s *stubTrades) Latest(_ context.Context, limit int) ([]ledger.TradeRecord, error) {
	s.limit = limit
	return s.records, s.err
}

func serve(t *testing.T, trades TradeReader, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(":0", trades)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, &stubTrades{}, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", gjson.Get(rec.Body.String(), "status").String())
}

func TestTradesEndpoint(t *testing.T) {
	trades := &stubTrades{records: []ledger.TradeRecord{
		{Decision: "buy", Percentage: 30, Reason: "momentum"},
		{Decision: "hold", Percentage: 0, Reason: "wait"},
	}}

	rec := serve(t, trades, http.MethodGet, "/api/trades?limit=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "count").Int())
	assert.Equal(t, "buy", gjson.Get(body, "trades.0.decision").String())
	assert.Equal(t, 2, trades.limit)
}

func TestTradesEndpointDefaultLimit(t *testing.T) {
	trades := &stubTrades{}
	rec := serve(t, trades, http.MethodGet, "/api/trades")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, trades.limit)
}

func TestTradesEndpointStoreFailure(t *testing.T) {
	rec := serve(t, &stubTrades{err: errors.New("db locked")}, http.MethodGet, "/api/trades")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", &stubTrades{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down on context cancellation")
	}
}
