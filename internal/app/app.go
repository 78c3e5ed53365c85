// Package app assembles the components into the long-running process:
// scheduler-driven trading cycles plus the HTTP surface.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"choonbot/internal/chart"
	"choonbot/internal/config"
	"choonbot/internal/decision"
	"choonbot/internal/gateway/upbit"
	"choonbot/internal/ledger"
	"choonbot/internal/logger"
	"choonbot/internal/market"
	"choonbot/internal/oracle"
	"choonbot/internal/prompt"
	"choonbot/internal/reflection"
	"choonbot/internal/risk"
	"choonbot/internal/scheduler"
	"choonbot/internal/trader"
	traderhttp "choonbot/internal/transport/http"
)

type App struct {
	cfg     *config.Config
	store   *ledger.Store
	prompts *prompt.Registry
	service *trader.Service
	http    *traderhttp.Server
}

// New wires every component from explicit configuration. Nothing here reads
// globals; lifetime is the process, ownership is the App.
func New(cfg *config.Config) (*App, error) {
	store, err := ledger.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	prompts := prompt.NewRegistry(cfg.Prompt.Path)

	provider := &oracle.OpenAIClient{
		BaseURL:    cfg.Oracle.BaseURL,
		APIKey:     cfg.Oracle.APIKey,
		ModelName:  cfg.Oracle.Model,
		Timeout:    time.Duration(cfg.Oracle.TimeoutSec) * time.Second,
		MaxRetries: cfg.Oracle.MaxRetries,
	}

	exchange := upbit.New(upbit.Config{
		BaseURL:   cfg.Upbit.BaseURL,
		AccessKey: cfg.Upbit.AccessKey,
		SecretKey: cfg.Upbit.SecretKey,
		Timeout:   time.Duration(cfg.Upbit.TimeoutMS) * time.Millisecond,
	})

	service := trader.NewService(trader.ServiceConfig{
		Market:     cfg.Market,
		Indicators: cfg.Indicators,
		WindowDays: cfg.Ledger.WindowDays,
		Exchange:   exchange,
		Sentiment:  market.NewFearGreedClient(cfg.Sentiment.Endpoint, time.Duration(cfg.Sentiment.TimeoutSec)*time.Second),
		Charts:     chart.NewCapturer(cfg.Chart.Enabled, time.Duration(cfg.Chart.TimeoutSec)*time.Second),
		Reflector:  reflection.NewGenerator(provider, prompts, cfg.Ledger.WindowDays),
		Decider:    decision.NewEngine(provider, prompts, cfg.Oracle.MaxTokens),
		Gate:       risk.NewGate(cfg.Risk.FeeRate, cfg.Risk.MinOrderKRW, cfg.Market.Base(), cfg.Market.Quote()),
		Store:      store,
	})

	return &App{
		cfg:     cfg,
		store:   store,
		prompts: prompts,
		service: service,
		http:    traderhttp.NewServer(cfg.App.HTTPAddr, store),
	}, nil
}

// Run blocks until ctx is cancelled (or, with schedule.run_once, until the
// single cycle finishes). A failed cycle is logged and the loop continues;
// only process-level failures propagate.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if a.cfg.Schedule.RunOnce {
		logger.Infof("schedule.run_once=true, executing a single cycle")
		return a.service.RunCycle(ctx)
	}

	loc, err := time.LoadLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return err
	}
	times := make([]scheduler.TimeOfDay, 0, len(a.cfg.Schedule.Times))
	for _, raw := range a.cfg.Schedule.Times {
		hour, minute, err := config.ParseTimeOfDay(raw)
		if err != nil {
			return err
		}
		times = append(times, scheduler.TimeOfDay{Hour: hour, Minute: minute})
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.http.Run(groupCtx)
	})
	group.Go(func() error {
		sched := scheduler.NewDailyScheduler(groupCtx, times, loc)
		sched.Start(func() {
			// Cycle errors are already logged; the scheduler only serializes.
			_ = a.service.RunCycle(groupCtx)
		})
		return nil
	})
	return group.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if err := a.prompts.Close(); err != nil {
		logger.Warnf("closing prompt registry: %v", err)
	}
	if err := a.store.Close(); err != nil {
		logger.Warnf("closing ledger store: %v", err)
	}
}
