package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/agorasim/agora/params"
	"github.com/agorasim/agora/pkg/agent"
	"github.com/agorasim/agora/pkg/api"
	"github.com/agorasim/agora/pkg/market"
	"github.com/agorasim/agora/pkg/storage"
	"github.com/agorasim/agora/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLogger(cfg.Node.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Node.LogFile)

	capital := cfg.Market.CapitalAsset

	// ---- Demo agents ----
	// Every non-capital good held by any agent gets an order book at reset.
	roster := agent.NewRoster(
		agent.New("alice", map[string]int64{capital: 100, "apples": 10, "bananas": 5}),
		agent.New("bob", map[string]int64{capital: 100, "apples": 5, "bananas": 10}),
		agent.New("carol", map[string]int64{capital: 80, "apples": 12}),
		agent.New("dave", map[string]int64{capital: 120, "bananas": 8}),
	)

	// ---- Marketplace ----
	mp := market.NewMarketplace(capital, logger)
	mp.Reset(roster)
	sugar.Infow("marketplace_ready", "goods", mp.Goods())

	// ---- Analytics store ----
	store, err := storage.Open(filepath.Join(cfg.Node.DataDir, "market.db"))
	if err != nil {
		sugar.Fatalw("store_open_failed", "err", err)
	}
	defer store.Close()

	// ---- API server ----
	server := api.NewServer(mp, store, logger)
	go func() {
		if err := server.Start(cfg.Node.APIAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	// Persist and broadcast each settled trade. The hook runs while the
	// marketplace lock is held, so it must not call back into the
	// marketplace.
	mp.OnTrade = func(ev market.TradeEvent) {
		rec := market.TradeRecord{
			TxnID:    ev.TxnID,
			Price:    ev.Price,
			Quantity: ev.Quantity,
			Buyer:    ev.Buyer,
			Seller:   ev.Seller,
		}
		if err := store.SaveTrade(ev.Good, rec); err != nil {
			sugar.Errorw("trade_persist_failed", "good", ev.Good, "err", err)
		}
		server.BroadcastTrade(ev)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Driver loop ----
	// The driver is the single writer: it submits each agent's order in
	// turn, then advances the step and records the quote snapshots.
	feeder := NewFeeder(cfg.Market.FeederSeed, roster.Agents(), mp.Goods())

	ticker := time.NewTicker(cfg.Market.StepInterval)
	defer ticker.Stop()

	sugar.Infow("driver_starting",
		"agents", len(roster.Agents()),
		"goods", mp.Goods(),
		"step_interval_ms", cfg.Market.StepInterval.Milliseconds(),
		"seed", cfg.Market.FeederSeed,
	)

	for {
		select {
		case <-ctx.Done():
			if err := store.Flush(); err != nil {
				sugar.Errorw("store_flush_failed", "err", err)
			}
			sugar.Infow("driver_stopped", "steps", mp.StepCount())
			return
		case <-ticker.C:
			if err := feeder.SubmitOrders(mp); err != nil {
				sugar.Errorw("order_submit_failed", "err", err)
			}
			mp.Step()

			step := mp.StepCount() - 1
			for _, good := range mp.Goods() {
				view, err := mp.ViewBook(good)
				if err != nil {
					continue
				}
				if err := store.SaveQuotes(good, step, view.BestBid, view.BestAsk); err != nil {
					sugar.Errorw("quote_persist_failed", "good", good, "err", err)
				}
				server.BroadcastBook(good)
			}

			if step%20 == 0 {
				sugar.Infow("simulation_progress",
					"step", step,
					"events", len(mp.Events()),
				)
			}
		}
	}
}
