// Package reflection asks the oracle for a short retrospective on recent
// trades. The narrative is consumed verbatim as context for the next decision
// prompt and never parsed structurally.
package reflection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"choonbot/internal/ledger"
	"choonbot/internal/market"
	"choonbot/internal/oracle"
	"choonbot/internal/prompt"
)

// MarketSnapshot is the current-market context serialized into the
// retrospective request alongside the trade history.
type MarketSnapshot struct {
	Sentiment *market.SentimentIndex   `json:"fear_greed_index"`
	OrderBook market.OrderBookSnapshot `json:"orderbook"`
	Daily     []market.FeatureRow      `json:"daily_ohlcv"`
	Hourly    []market.FeatureRow      `json:"hourly_ohlcv"`
}

// Generator performs exactly one oracle call per cycle.
type Generator struct {
	provider   oracle.Provider
	prompts    *prompt.Registry
	windowDays int
}

func NewGenerator(provider oracle.Provider, prompts *prompt.Registry, windowDays int) *Generator {
	return &Generator{provider: provider, prompts: prompts, windowDays: windowDays}
}

// Generate returns the raw narrative text unmodified. Transport failures
// surface as oracle.ErrUnavailable; a zero-valuation basis in the history
// propagates as ledger.ErrZeroBasis. The caller decides whether either
// aborts the cycle or degrades to an empty reflection.
func (g *Generator) Generate(ctx context.Context, records []ledger.TradeRecord, snapshot MarketSnapshot) (string, error) {
	performance, err := ledger.Performance(records)
	if err != nil {
		return "", fmt.Errorf("computing window performance: %w", err)
	}
	history, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	current, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent trading data:\n%s\n\n", history)
	fmt.Fprintf(&b, "Current market data:\n%s\n\n", current)
	fmt.Fprintf(&b, "Overall performance in the last %d days: %.2f%%\n\n", g.windowDays, performance)
	b.WriteString(`Please analyze this data and provide:
1. A brief reflection on the recent trading decisions
2. Insights on what worked well and what didn't
3. Suggestions for improvement in future trading decisions
4. Any patterns or trends you notice in the market data

Limit your response to 250 words or less.`)

	text, err := g.provider.Complete(ctx, oracle.Request{
		System:  g.prompts.ReflectionSystem(),
		User:    b.String(),
		Purpose: "reflection",
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty reflection", oracle.ErrUnavailable)
	}
	return text, nil
}
