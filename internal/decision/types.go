// Package decision turns market context into one validated trading decision
// per cycle. Parsing the oracle reply is deliberately strict: a reply that
// does not conform exactly is rejected, never coerced into a default action.
package decision

import (
	"errors"

	"choonbot/internal/market"
	"choonbot/internal/oracle"
)

// ErrInvalid marks an oracle reply that failed schema or invariant
// validation. The cycle aborts without trading and the raw reply is kept in
// the wrapped error for diagnosis.
var ErrInvalid = errors.New("oracle reply failed decision validation")

// Action is the enumerated trade direction.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Decision is the validated outcome of one oracle call.
// Invariant: Action == hold iff Percentage == 0; buy/sell carry 1..100.
type Decision struct {
	Action     Action `json:"decision"`
	Percentage int    `json:"percentage"`
	Reason     string `json:"reason"`
}

// Input carries everything one decision call sees. All of it is owned by the
// current cycle and discarded afterwards.
type Input struct {
	Balances   []market.BalanceSnapshot
	OrderBook  market.OrderBookSnapshot
	Daily      []market.FeatureRow
	Hourly     []market.FeatureRow
	Sentiment  *market.SentimentIndex // nil when the feed was unavailable
	Reflection string
	Chart      *oracle.ImagePayload // nil when capture failed or is disabled
}
