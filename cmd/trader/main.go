package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/connector"
	"main/internal/engine"
	"main/internal/model"
	"main/internal/ops"
	"main/internal/portfolio"
	"main/internal/replay"
	"main/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	barsPath := flag.String("bars", "", "Path to bar CSV feed")
	interval := flag.Duration("interval", 0, "Delay between bars (0=no pacing)")
	queueSize := flag.Int("queue-size", 1024, "Bar queue capacity")
	snapshotPath := flag.String("snapshot-path", "", "Position snapshot JSON output on shutdown (empty=skip)")
	flag.Parse()

	if *barsPath == "" {
		log.Fatalf("-bars is required")
	}

	loaded, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := engine.New(loaded.Engine)
	for _, s := range loaded.Strategies {
		e.AddStrategy(s)
	}
	if loaded.Equity {
		e.EnableEquityTracking()
	}

	var broker connector.Connector
	if loaded.Engine.Mode == engine.ModeLive {
		broker = newBroker(ctx, loaded)
		if err := broker.Connect(ctx); err != nil {
			log.Fatalf("broker connect failed: %v", err)
		}
		defer func() {
			_ = broker.Disconnect()
		}()
	}

	queue := bus.NewQueue(*queueSize)
	go feedBars(ctx, queue, *barsPath, *interval)

	e.Start()
	queue.Run(ctx, func(bar model.MarketBar) {
		handleBar(ctx, e, broker, bar)
	})
	e.Stop()

	summary := e.AccountSummary()
	logs.Infof("session done: equity %s, pnl %s, trades %d",
		summary.PortfolioValue, summary.TotalPnL, summary.TotalTrades)

	if *snapshotPath != "" {
		if err := portfolio.WriteSnapshot(*snapshotPath, e.PositionSnapshot()); err != nil {
			logs.Errorf("snapshot write failed: %v", err)
		}
	}
	if loaded.PostgresDSN != "" {
		if err := persistTrades(loaded.PostgresDSN, e); err != nil {
			logs.Errorf("trade persistence failed: %v", err)
		}
	}
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return ops.Resolve(ops.FileConfig{})
	}
	return ops.Load(path)
}

func newBroker(ctx context.Context, loaded ops.Loaded) connector.Connector {
	if loaded.ConnectorURL != "" {
		return connector.NewRemote(ctx, loaded.ConnectorURL)
	}
	return connector.NewPaper(loaded.Engine.InitialCapital)
}

// handleBar runs one bar through the engine, then places any risk-approved
// live orders through the broker. Broker calls stay out of the engine core.
func handleBar(ctx context.Context, e *engine.Engine, broker connector.Connector, bar model.MarketBar) {
	if paper, ok := broker.(*connector.Paper); ok {
		paper.UpdatePrice(bar.Symbol, bar.Close)
	}
	e.OnMarketBar(bar)
	if broker == nil {
		return
	}
	for _, order := range e.Outbox() {
		externalID, err := broker.PlaceOrder(ctx, order)
		if err != nil {
			logs.Errorf("order placement failed: %v", err)
			continue
		}
		logs.Infof("order placed: %s %s %d %s (external %s)",
			order.Side, order.Symbol, order.Quantity, order.Type, externalID)
		// The paper broker fills market orders at the last seen price.
		if _, ok := broker.(*connector.Paper); ok {
			if err := e.ApplyExternalFill(order.ID, order.RemainingQuantity(), bar.Close); err != nil {
				logs.Errorf("fill apply failed: %v", err)
			}
		}
	}
}

func feedBars(ctx context.Context, queue *bus.Queue, path string, interval time.Duration) {
	defer queue.Close()

	reader, err := replay.Open(path)
	if err != nil {
		logs.Errorf("bars open failed: %v", err)
		return
	}
	defer reader.Close()

	for ctx.Err() == nil {
		bar, err := reader.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			logs.Errorf("bars read failed: %v", err)
			return
		}
		if err := queue.TryPublish(bar); err != nil {
			logs.Warnf("bar dropped: %v", err)
		}
		if interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return
			}
		}
	}
}

func persistTrades(dsn string, e *engine.Engine) error {
	st, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveTrades(e.Trades())
}
