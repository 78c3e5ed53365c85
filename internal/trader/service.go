// Package trader runs one full decision-and-execution cycle: snapshots,
// features, sentiment, reflection, oracle decision, risk gate, at most one
// order, and exactly one ledger record.
package trader

import (
	"context"
	"fmt"
	"time"

	"choonbot/internal/config"
	"choonbot/internal/decision"
	"choonbot/internal/gateway/upbit"
	"choonbot/internal/ledger"
	"choonbot/internal/logger"
	"choonbot/internal/market"
	"choonbot/internal/reflection"
	"choonbot/internal/risk"
)

// Service owns no state across cycles besides its collaborators; every
// snapshot and feature table is scoped to the cycle that fetched it.
type Service struct {
	pair       string
	base       string
	quote      string
	dailyN     int
	hourlyN    int
	indicators config.IndicatorConfig
	windowDays int

	exchange  Exchange
	sentiment SentimentSource
	charts    ChartSource
	reflector Reflector
	decider   Decider
	gate      *risk.Gate
	store     LedgerStore

	nowFn   func() time.Time
	sleepFn func(context.Context, time.Duration)
}

type ServiceConfig struct {
	Market     config.MarketConfig
	Indicators config.IndicatorConfig
	WindowDays int

	Exchange  Exchange
	Sentiment SentimentSource
	Charts    ChartSource
	Reflector Reflector
	Decider   Decider
	Gate      *risk.Gate
	Store     LedgerStore
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		pair:       cfg.Market.Pair,
		base:       cfg.Market.Base(),
		quote:      cfg.Market.Quote(),
		dailyN:     cfg.Market.DailyCount,
		hourlyN:    cfg.Market.HourlyCount,
		indicators: cfg.Indicators,
		windowDays: cfg.WindowDays,
		exchange:   cfg.Exchange,
		sentiment:  cfg.Sentiment,
		charts:     cfg.Charts,
		reflector:  cfg.Reflector,
		decider:    cfg.Decider,
		gate:       cfg.Gate,
		store:      cfg.Store,
		nowFn:      time.Now,
		sleepFn:    sleepWithContext,
	}
}

// RunCycle executes one cycle to completion. Any returned error has already
// been logged with enough context for diagnosis; the scheduler's only job is
// to keep going.
func (s *Service) RunCycle(ctx context.Context) error {
	started := s.nowFn()
	logger.Infof("cycle start pair=%s", s.pair)

	// 1. Snapshots. All of these are required context: a cycle with stale or
	// partial data must not produce a decision.
	balances, err := s.fetchBalances(ctx)
	if err != nil {
		return logged("fetching balances", err)
	}
	book, err := s.exchange.GetOrderBook(ctx, s.pair)
	if err != nil {
		return logged("fetching orderbook", err)
	}
	daily, hourly, err := s.buildFeatures(ctx)
	if err != nil {
		return err
	}

	// 2. Optional context: sentiment and the chart image degrade to absence.
	sentiment := s.sentiment.Fetch(ctx)
	chartImg := s.charts.Capture(ctx, s.pair, daily)

	// 3. History and reflection. Reflection failure degrades to an empty
	// narrative; only the decision call itself aborts the cycle.
	records, err := s.store.RecentTrades(ctx, s.windowDays)
	if err != nil {
		return logged("reading trade history", err)
	}
	reflectionText := s.generateReflection(ctx, records, reflection.MarketSnapshot{
		Sentiment: sentiment,
		OrderBook: book,
		Daily:     daily,
		Hourly:    hourly,
	})

	// 4. The single decision call.
	d, err := s.decider.Decide(ctx, decision.Input{
		Balances:   balances,
		OrderBook:  book,
		Daily:      daily,
		Hourly:     hourly,
		Sentiment:  sentiment,
		Reflection: reflectionText,
		Chart:      chartImg,
	})
	if err != nil {
		return logged("oracle decision", err)
	}
	logger.Infof("cycle decision action=%s percentage=%d reason=%q", d.Action, d.Percentage, d.Reason)

	// 5. Risk gate and at most one order.
	outcome := s.gate.Evaluate(d, balances, book)
	executedPct := s.execute(ctx, d, outcome)

	// 6. Record what actually happened, order or not.
	if err := s.record(ctx, d, executedPct, reflectionText, balances, book); err != nil {
		return logged("recording cycle", err)
	}
	logger.Infof("cycle done in %s action=%s executed_percentage=%d",
		s.nowFn().Sub(started).Truncate(time.Millisecond), d.Action, executedPct)
	return nil
}

func (s *Service) fetchBalances(ctx context.Context) ([]market.BalanceSnapshot, error) {
	all, err := s.exchange.GetBalances(ctx)
	if err != nil {
		return nil, err
	}
	return filterBalances(all, s.base, s.quote), nil
}

// filterBalances keeps only the two currencies of the traded pair.
func filterBalances(all []market.BalanceSnapshot, base, quote string) []market.BalanceSnapshot {
	out := make([]market.BalanceSnapshot, 0, 2)
	for _, b := range all {
		if b.Currency == base || b.Currency == quote {
			out = append(out, b)
		}
	}
	return out
}

func (s *Service) buildFeatures(ctx context.Context) (daily, hourly []market.FeatureRow, err error) {
	dailyBars, err := s.exchange.GetOHLCV(ctx, s.pair, upbit.IntervalDay, s.dailyN)
	if err != nil {
		return nil, nil, logged("fetching daily candles", err)
	}
	hourlyBars, err := s.exchange.GetOHLCV(ctx, s.pair, upbit.IntervalHour60, s.hourlyN)
	if err != nil {
		return nil, nil, logged("fetching hourly candles", err)
	}
	daily = market.BuildFeatures(dailyBars, s.indicators)
	hourly = market.BuildFeatures(hourlyBars, s.indicators)
	if len(daily) == 0 {
		return nil, nil, logged("building daily features",
			fmt.Errorf("insufficient history: %d bars for configured windows", len(dailyBars)))
	}
	// Hourly series are usually shorter than the largest warmup; an empty
	// hourly table degrades the prompt but does not abort.
	if len(hourly) == 0 {
		logger.Warnf("hourly feature table empty (%d bars), proceeding with daily only", len(hourlyBars))
	}
	return daily, hourly, nil
}

// generateReflection implements the chosen absence policy: on any failure the
// cycle proceeds with an empty reflection rather than aborting.
func (s *Service) generateReflection(ctx context.Context, records []ledger.TradeRecord, snapshot reflection.MarketSnapshot) string {
	text, err := s.reflector.Generate(ctx, records, snapshot)
	if err != nil {
		logger.Warnf("reflection unavailable, proceeding without it: %v", err)
		return ""
	}
	return text
}

// execute submits the gated order, if any, and returns the percentage that
// actually happened: the decision's percentage on a successful submit, 0 in
// every other case including execution failure.
func (s *Service) execute(ctx context.Context, d decision.Decision, outcome risk.Outcome) int {
	switch outcome.Kind {
	case risk.OutcomeHold:
		logger.Infof("risk gate: hold, no order")
		return 0
	case risk.OutcomeInsufficient:
		logger.Warnf("risk gate: %s", outcome.Reason)
		return 0
	}

	amount := outcome.Amount.String()
	var receipt *upbit.OrderReceipt
	var err error
	switch outcome.Side {
	case risk.SideBuy:
		receipt, err = s.exchange.BuyMarket(ctx, s.pair, amount)
	case risk.SideSell:
		receipt, err = s.exchange.SellMarket(ctx, s.pair, amount)
	}
	if err != nil {
		logger.Errorf("order submission failed side=%s amount=%s: %v", outcome.Side, amount, err)
		return 0
	}
	logger.Infof("order submitted side=%s amount=%s uuid=%s state=%s",
		outcome.Side, amount, receipt.UUID, receipt.State)
	// Give the exchange a moment to settle before the post-trade read.
	s.sleepFn(ctx, time.Second)
	return d.Percentage
}

// record re-reads balances and the current price so the ledger reflects the
// post-trade account, then appends exactly one TradeRecord.
func (s *Service) record(ctx context.Context, d decision.Decision, executedPct int, reflectionText string, preBalances []market.BalanceSnapshot, book market.OrderBookSnapshot) error {
	balances := preBalances
	if fresh, err := s.fetchBalances(ctx); err != nil {
		logger.Warnf("post-trade balance read failed, recording pre-trade balances: %v", err)
	} else {
		balances = fresh
	}
	refPrice, err := s.exchange.GetCurrentPrice(ctx, s.pair)
	if err != nil {
		logger.Warnf("current price read failed, recording best bid instead: %v", err)
		refPrice = book.BestBid()
	}

	var baseFree, quoteFree, avgBuy float64
	for _, b := range balances {
		switch b.Currency {
		case s.base:
			baseFree = b.Free
			avgBuy = b.AvgBuyPrice
		case s.quote:
			quoteFree = b.Free
		}
	}
	return s.store.Append(ctx, ledger.TradeRecord{
		Timestamp:      s.nowFn().UTC(),
		Decision:       string(d.Action),
		Percentage:     executedPct,
		Reason:         d.Reason,
		BTCBalance:     baseFree,
		KRWBalance:     quoteFree,
		AvgBuyPrice:    avgBuy,
		ReferencePrice: refPrice,
		Reflection:     reflectionText,
	})
}

func logged(step string, err error) error {
	wrapped := fmt.Errorf("%s: %w", step, err)
	logger.Errorf("cycle aborted: %v", wrapped)
	return wrapped
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
