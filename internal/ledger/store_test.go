package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "trades.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(ts time.Time, action string, pct int) TradeRecord {
	return TradeRecord{
		Timestamp:      ts,
		Decision:       action,
		Percentage:     pct,
		Reason:         "test " + action,
		BTCBalance:     0.01,
		KRWBalance:     500_000,
		AvgBuyPrice:    95_000_000,
		ReferencePrice: 100_000_000,
		Reflection:     "kept discipline",
	}
}

func TestStoreAppendAndRecentTrades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	assert.NoError(t, store.Append(ctx, record(now.AddDate(0, 0, -10), "buy", 30)))
	assert.NoError(t, store.Append(ctx, record(now.AddDate(0, 0, -3), "hold", 0)))
	assert.NoError(t, store.Append(ctx, record(now.Add(-time.Hour), "sell", 20)))

	got, err := store.RecentTrades(ctx, 7)
	assert.NoError(t, err)
	// The 10-day-old record falls outside the 7-day window.
	assert.Len(t, got, 2)
	assert.Equal(t, "sell", got[0].Decision)
	assert.Equal(t, "hold", got[1].Decision)
}

func TestStoreRoundTripsAllColumns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ts := time.Now().UTC().Truncate(time.Second)

	want := record(ts, "buy", 42)
	assert.NoError(t, store.Append(ctx, want))

	got, err := store.RecentTrades(ctx, 7)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, got[0].Timestamp.Equal(ts))
	assert.Equal(t, want.Decision, got[0].Decision)
	assert.Equal(t, want.Percentage, got[0].Percentage)
	assert.Equal(t, want.Reason, got[0].Reason)
	assert.Equal(t, want.BTCBalance, got[0].BTCBalance)
	assert.Equal(t, want.KRWBalance, got[0].KRWBalance)
	assert.Equal(t, want.AvgBuyPrice, got[0].AvgBuyPrice)
	assert.Equal(t, want.ReferencePrice, got[0].ReferencePrice)
	assert.Equal(t, want.Reflection, got[0].Reflection)
}

func TestStoreLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		assert.NoError(t, store.Append(ctx, record(now.Add(time.Duration(-i)*time.Hour), "hold", 0)))
	}

	got, err := store.Latest(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.True(t, got[0].Timestamp.After(got[1].Timestamp))

	// Nonsense limits fall back to the default instead of failing.
	got, err = store.Latest(ctx, -1)
	assert.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestStoreWindowCutoffUsesInjectedClock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	frozen := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	store.nowFn = func() time.Time { return frozen }

	assert.NoError(t, store.Append(ctx, record(frozen.AddDate(0, 0, -8), "buy", 10)))
	assert.NoError(t, store.Append(ctx, record(frozen.AddDate(0, 0, -7), "sell", 10)))
	assert.NoError(t, store.Append(ctx, record(frozen.AddDate(0, 0, -6), "hold", 0)))

	got, err := store.RecentTrades(ctx, 7)
	assert.NoError(t, err)
	// The cutoff is exclusive: exactly-7-days-old sits on the boundary and
	// falls outside the window along with anything older.
	assert.Len(t, got, 1)
	assert.Equal(t, "hold", got[0].Decision)

	got, err = store.RecentTrades(ctx, 9)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestStoreEmptyWindow(t *testing.T) {
	store := newTestStore(t)

	got, err := store.RecentTrades(context.Background(), 7)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
