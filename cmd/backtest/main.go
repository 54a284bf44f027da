package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/grafana/pyroscope-go"

	"main/internal/backtest"
	"main/internal/engine"
	"main/internal/ops"
	"main/internal/portfolio"
	"main/internal/replay"
	"main/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	barsPath := flag.String("bars", "", "Path to bar CSV (symbol,timestamp,open,high,low,close,volume)")
	outPath := flag.String("out", "", "Backtest result JSON output (empty=skip)")
	snapshotPath := flag.String("snapshot-path", "", "Position snapshot JSON output (empty=skip)")
	pgDSN := flag.String("pg-dsn", "", "PostgreSQL DSN for persistence (overrides config)")
	profileAddr := flag.String("profile", "", "Pyroscope server address (empty=disable)")
	flag.Parse()

	if *barsPath == "" {
		log.Fatalf("-bars is required")
	}

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "trading/backtest",
			ServerAddress:   *profileAddr,
			Logger:          emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	// Backtests always execute against the simulator.
	loaded.Engine.Mode = engine.ModeSimulated

	bars, err := replay.ReadAll(*barsPath)
	if err != nil {
		log.Fatalf("bars load failed: %v", err)
	}
	if len(bars) == 0 {
		log.Fatalf("bars file is empty")
	}

	e := engine.New(loaded.Engine)
	for _, s := range loaded.Strategies {
		e.AddStrategy(s)
	}
	e.EnableEquityTracking()
	e.Start()
	for _, bar := range bars {
		e.OnMarketBar(bar)
	}
	e.Stop()

	result := e.BacktestResult()
	printSummary(result)

	if *outPath != "" {
		if err := result.WriteFile(*outPath); err != nil {
			log.Fatalf("result write failed: %v", err)
		}
		fmt.Printf("result written to %s\n", *outPath)
	}
	if *snapshotPath != "" {
		if err := portfolio.WriteSnapshot(*snapshotPath, e.PositionSnapshot()); err != nil {
			log.Fatalf("snapshot write failed: %v", err)
		}
		fmt.Printf("snapshot written to %s\n", *snapshotPath)
	}

	dsn := *pgDSN
	if dsn == "" {
		dsn = loaded.PostgresDSN
	}
	if dsn != "" {
		if err := persist(dsn, e, result); err != nil {
			log.Fatalf("persistence failed: %v", err)
		}
		fmt.Println("trades and summary persisted")
	}
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return ops.Resolve(ops.FileConfig{})
	}
	return ops.Load(path)
}

func persist(dsn string, e *engine.Engine, result backtest.Result) error {
	st, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveTrades(e.Trades()); err != nil {
		return err
	}
	return st.SaveBacktestRun(result)
}

func printSummary(r backtest.Result) {
	fmt.Println("==== backtest result ====")
	fmt.Printf("period:        %s -> %s (%d days)\n",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), r.DurationDays)
	fmt.Printf("capital:       %s -> %s\n", r.InitialCapital, r.FinalCapital)
	fmt.Printf("total pnl:     %s (%s%%)\n", r.TotalPnL, r.TotalReturn)
	fmt.Printf("trades:        %d (win %d / loss %d, win rate %s%%)\n",
		r.TotalTrades, r.WinningTrades, r.LosingTrades, r.WinRate)
	fmt.Printf("profit factor: %s\n", r.ProfitFactor)
	fmt.Printf("max drawdown:  %s (%s%%)\n", r.MaxDrawdown, r.MaxDrawdownPercent)
	fmt.Printf("sharpe:        %s  sortino: %s\n", r.SharpeRatio, r.SortinoRatio)
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
