// Package risk converts a validated decision into at most one order
// instruction. This is the only place money-sizing arithmetic happens.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"choonbot/internal/decision"
	"choonbot/internal/market"
)

// OutcomeKind enumerates the three terminal states of one cycle's gate pass.
type OutcomeKind string

const (
	OutcomeHold         OutcomeKind = "hold"
	OutcomeInsufficient OutcomeKind = "insufficient-notional"
	OutcomeSubmit       OutcomeKind = "submit"
)

// Side is the order direction for a Submit outcome.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Outcome is the gate's verdict. For Submit, Amount is the quote-currency
// spend on buys and the base-currency volume on sells.
type Outcome struct {
	Kind   OutcomeKind
	Side   Side
	Amount decimal.Decimal
	Reason string
}

// Submitted reports whether this outcome carries an order to place.
func (o Outcome) Submitted() bool { return o.Kind == OutcomeSubmit }

// Gate sizes orders and enforces minimum-notional and balance-sufficiency
// rules. Evaluate is a pure function of its inputs.
type Gate struct {
	feeRate       decimal.Decimal
	minOrder      decimal.Decimal // in quote currency
	baseCurrency  string
	quoteCurrency string
}

func NewGate(feeRate, minOrderQuote float64, baseCurrency, quoteCurrency string) *Gate {
	return &Gate{
		feeRate:       decimal.NewFromFloat(feeRate),
		minOrder:      decimal.NewFromFloat(minOrderQuote),
		baseCurrency:  baseCurrency,
		quoteCurrency: quoteCurrency,
	}
}

// Evaluate maps a decision onto one of three outcomes. A hold always NoOps
// regardless of the percentage the oracle returned; buys spend a fee-adjusted
// share of free quote balance; sells release a share of free base balance and
// are notional-checked against the best ask.
func (g *Gate) Evaluate(d decision.Decision, balances []market.BalanceSnapshot, book market.OrderBookSnapshot) Outcome {
	if err := decision.Validate(d); err != nil {
		// Defensive: invalid decisions must not reach the gate, but if one
		// does it is treated as a forced hold, never an order.
		return Outcome{Kind: OutcomeHold, Reason: fmt.Sprintf("invalid decision treated as hold: %v", err)}
	}

	switch d.Action {
	case decision.ActionHold:
		return Outcome{Kind: OutcomeHold, Reason: "hold"}
	case decision.ActionBuy:
		return g.evaluateBuy(d, balances)
	case decision.ActionSell:
		return g.evaluateSell(d, balances, book)
	}
	return Outcome{Kind: OutcomeHold, Reason: "unreachable action"}
}

func (g *Gate) evaluateBuy(d decision.Decision, balances []market.BalanceSnapshot) Outcome {
	freeQuote := freeBalance(balances, g.quoteCurrency)
	pct := decimal.NewFromInt(int64(d.Percentage)).Div(decimal.NewFromInt(100))
	spend := freeQuote.Mul(pct).Mul(decimal.NewFromInt(1).Sub(g.feeRate))
	if spend.GreaterThan(g.minOrder) {
		return Outcome{Kind: OutcomeSubmit, Side: SideBuy, Amount: spend, Reason: d.Reason}
	}
	return Outcome{
		Kind:   OutcomeInsufficient,
		Side:   SideBuy,
		Reason: fmt.Sprintf("insufficient %s balance: buy amount %s below minimum %s", g.quoteCurrency, spend, g.minOrder),
	}
}

func (g *Gate) evaluateSell(d decision.Decision, balances []market.BalanceSnapshot, book market.OrderBookSnapshot) Outcome {
	freeBase := freeBalance(balances, g.baseCurrency)
	pct := decimal.NewFromInt(int64(d.Percentage)).Div(decimal.NewFromInt(100))
	volume := freeBase.Mul(pct)
	bestAsk := decimal.NewFromFloat(book.BestAsk())
	notional := volume.Mul(bestAsk)
	if notional.GreaterThanOrEqual(g.minOrder) && bestAsk.IsPositive() {
		return Outcome{Kind: OutcomeSubmit, Side: SideSell, Amount: volume, Reason: d.Reason}
	}
	return Outcome{
		Kind:   OutcomeInsufficient,
		Side:   SideSell,
		Reason: fmt.Sprintf("insufficient %s balance: sell notional %s below minimum %s", g.baseCurrency, notional, g.minOrder),
	}
}

func freeBalance(balances []market.BalanceSnapshot, currency string) decimal.Decimal {
	for _, b := range balances {
		if b.Currency == currency {
			return decimal.NewFromFloat(b.Free)
		}
	}
	return decimal.Zero
}
