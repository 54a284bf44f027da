package ops

import (
	"encoding/json"
	"os"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/engine"
	"main/internal/risk"
	"main/internal/strategy"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	InitialCapital decimal.Decimal  `json:"initialCapital"`
	Risk           RiskConfig       `json:"risk"`
	Strategies     []StrategyConfig `json:"strategies"`
	Execution      ExecutionConfig  `json:"execution"`
	Postgres       PostgresConfig   `json:"postgres"`
}

// RiskConfig overrides individual risk limits. Zero values fall back to the
// defaults.
type RiskConfig struct {
	MaxPositionSize int64           `json:"maxPositionSize"`
	MaxOrderValue   decimal.Decimal `json:"maxOrderValue"`
	MaxDailyLoss    decimal.Decimal `json:"maxDailyLoss"`
	MaxPositions    int             `json:"maxPositions"`
}

// StrategyConfig describes one strategy entry.
type StrategyConfig struct {
	Kind          string          `json:"kind"`
	Name          string          `json:"name"`
	ShortPeriod   int             `json:"shortPeriod"`
	LongPeriod    int             `json:"longPeriod"`
	Period        int             `json:"period"`
	StdMultiplier decimal.Decimal `json:"stdMultiplier"`
	Quantity      int64           `json:"quantity"`
	Disabled      bool            `json:"disabled"`
}

// ExecutionConfig selects the execution path.
type ExecutionConfig struct {
	Mode           string `json:"mode"`
	EquityTracking bool   `json:"equityTracking"`
	ConnectorURL   string `json:"connectorUrl"`
	MaxWindow      int    `json:"maxWindow"`
}

// PostgresConfig enables trade persistence when a DSN is present.
type PostgresConfig struct {
	DSN string `json:"dsn"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Engine       engine.Config
	Strategies   []strategy.Strategy
	Equity       bool
	ConnectorURL string
	PostgresDSN  string
}

// Load reads a JSON config file and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "read config")
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "parse config")
	}
	return Resolve(cfg)
}

// Resolve validates a file config and builds the runtime configuration.
func Resolve(cfg FileConfig) (Loaded, error) {
	capital := cfg.InitialCapital
	if capital.IsZero() {
		capital = decimal.NewFromInt(100000)
	}
	if capital.IsNegative() {
		return Loaded{}, errors.New("initialCapital must be > 0")
	}

	mode, err := resolveMode(cfg.Execution.Mode)
	if err != nil {
		return Loaded{}, err
	}
	if mode == engine.ModeLive && cfg.Execution.ConnectorURL == "" {
		return Loaded{}, errors.New("execution.connectorUrl is required in live mode")
	}

	strategies, err := resolveStrategies(cfg.Strategies)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Engine: engine.Config{
			InitialCapital: capital,
			Limits:         resolveLimits(cfg.Risk),
			Mode:           mode,
			MaxWindow:      cfg.Execution.MaxWindow,
		},
		Strategies:   strategies,
		Equity:       cfg.Execution.EquityTracking,
		ConnectorURL: cfg.Execution.ConnectorURL,
		PostgresDSN:  cfg.Postgres.DSN,
	}, nil
}

func resolveMode(mode string) (engine.ExecutionMode, error) {
	switch mode {
	case "", "sim":
		return engine.ModeSimulated, nil
	case "live":
		return engine.ModeLive, nil
	default:
		return engine.ModeSimulated, errors.Errorf("unknown execution mode: %s", mode)
	}
}

func resolveLimits(cfg RiskConfig) risk.Limits {
	limits := risk.DefaultLimits()
	if cfg.MaxPositionSize > 0 {
		limits.MaxPositionSize = cfg.MaxPositionSize
	}
	if cfg.MaxOrderValue.IsPositive() {
		limits.MaxOrderValue = cfg.MaxOrderValue
	}
	if cfg.MaxDailyLoss.IsPositive() {
		limits.MaxDailyLoss = cfg.MaxDailyLoss
	}
	if cfg.MaxPositions > 0 {
		limits.MaxPositions = cfg.MaxPositions
	}
	return limits
}

func resolveStrategies(specs []StrategyConfig) ([]strategy.Strategy, error) {
	out := make([]strategy.Strategy, 0, len(specs))
	for _, spec := range specs {
		if spec.Quantity <= 0 {
			return nil, errors.Errorf("strategy %s: quantity must be > 0", spec.Name)
		}
		var s strategy.Strategy
		switch spec.Kind {
		case "momentum":
			if spec.ShortPeriod <= 0 || spec.LongPeriod <= spec.ShortPeriod {
				return nil, errors.Errorf("strategy %s: need 0 < shortPeriod < longPeriod", spec.Name)
			}
			s = strategy.NewMomentum(spec.Name, spec.ShortPeriod, spec.LongPeriod, spec.Quantity)
		case "meanReversion":
			if spec.Period <= 1 {
				return nil, errors.Errorf("strategy %s: period must be > 1", spec.Name)
			}
			mult := spec.StdMultiplier
			if mult.IsZero() {
				mult = decimal.NewFromInt(2)
			}
			s = strategy.NewMeanReversion(spec.Name, spec.Period, mult, spec.Quantity)
		default:
			return nil, errors.Errorf("unknown strategy kind: %s", spec.Kind)
		}
		if spec.Disabled {
			s.SetEnabled(false)
		}
		out = append(out, s)
	}
	return out, nil
}
