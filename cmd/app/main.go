package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"orderbook_go/internal/app"
	"orderbook_go/internal/book"
	"orderbook_go/internal/engine"
	"orderbook_go/internal/event"
	"orderbook_go/internal/infra/relayer"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bootstrap.Config

	// 4. Resolve the configured market into a trading pair
	pair, err := bootstrap.Catalog.Pair(cfg.Market.BaseTokenAddress, cfg.Market.QuoteTokenAddress)
	if err != nil {
		slog.Error("❌ Cannot resolve configured market", slog.Any("error", err))
		os.Exit(1)
	}

	// 5. Book Controller + Sequencer
	event.Warmup()
	ctrl := book.NewController(pair)
	seq := engine.NewSequencer(cfg.Feed.InboxSize, ctrl, func(c *book.Controller) {
		// slog.Info("Book changed", slog.String("mid", c.MidPriceString()))
	})

	// Start Sequencer in its own goroutine (The Hotpath Loop)
	go seq.Run(ctx)
	slog.InfoContext(ctx, "✅ Sequencer (Hotpath) started")

	// 6. Relayer Feed Worker
	nextSeq := uint64(0)
	worker := relayer.NewWorker(cfg.Feed.WSURL, seq.Inbox(), &nextSeq)
	if err := worker.Connect(ctx); err != nil {
		slog.Error("Failed to start relayer worker", slog.Any("error", err))
		os.Exit(1)
	}
	defer worker.Disconnect()

	if err := worker.Subscribe(pair.Base.Address, pair.Quote.Address, ctrl.Epoch()); err != nil {
		slog.Error("Failed to subscribe", slog.Any("error", err))
	}
	slog.InfoContext(ctx, "✅ Relayer worker started", slog.String("pair", pair.Symbol()))

	slog.InfoContext(ctx, "✨ Orderbook fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
