package trader

import (
	"context"

	"choonbot/internal/decision"
	"choonbot/internal/gateway/upbit"
	"choonbot/internal/ledger"
	"choonbot/internal/market"
	"choonbot/internal/oracle"
	"choonbot/internal/reflection"
)

// The cycle depends on interfaces so tests can substitute every collaborator.

// Exchange is the execution adapter contract consumed by one cycle.
type Exchange interface {
	GetBalances(ctx context.Context) ([]market.BalanceSnapshot, error)
	GetOrderBook(ctx context.Context, pair string) (market.OrderBookSnapshot, error)
	GetOHLCV(ctx context.Context, pair string, interval upbit.Interval, count int) ([]market.PriceBar, error)
	GetCurrentPrice(ctx context.Context, pair string) (float64, error)
	BuyMarket(ctx context.Context, pair, spend string) (*upbit.OrderReceipt, error)
	SellMarket(ctx context.Context, pair, volume string) (*upbit.OrderReceipt, error)
}

// Decider produces the validated decision for one cycle.
type Decider interface {
	Decide(ctx context.Context, input decision.Input) (decision.Decision, error)
}

// Reflector produces the retrospective narrative for one cycle.
type Reflector interface {
	Generate(ctx context.Context, records []ledger.TradeRecord, snapshot reflection.MarketSnapshot) (string, error)
}

// SentimentSource returns the sentiment reading, or nil when unavailable.
type SentimentSource interface {
	Fetch(ctx context.Context) *market.SentimentIndex
}

// ChartSource returns the optional chart image, or nil on any failure.
type ChartSource interface {
	Capture(ctx context.Context, pair string, rows []market.FeatureRow) *oracle.ImagePayload
}

// LedgerStore is the append-only trade history.
type LedgerStore interface {
	Append(ctx context.Context, rec ledger.TradeRecord) error
	RecentTrades(ctx context.Context, windowDays int) ([]ledger.TradeRecord, error)
}
