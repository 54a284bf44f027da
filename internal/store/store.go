package store

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/backtest"
	"main/internal/model"
	"main/pkg/conn"
)

// TradeRecord is a persisted fill.
type TradeRecord struct {
	ID        string          `gorm:"primaryKey;size:64"`
	OrderID   string          `gorm:"size:64;index"`
	Symbol    string          `gorm:"size:32;index"`
	Side      string          `gorm:"size:8"`
	Quantity  int64           `gorm:""`
	Price     decimal.Decimal `gorm:"type:numeric"`
	Timestamp time.Time       `gorm:"index"`
}

func (TradeRecord) TableName() string { return "trades" }

// BacktestRunRecord is a persisted backtest summary.
type BacktestRunRecord struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	RanAt          time.Time       `gorm:"index"`
	InitialCapital decimal.Decimal `gorm:"type:numeric"`
	FinalCapital   decimal.Decimal `gorm:"type:numeric"`
	TotalPnL       decimal.Decimal `gorm:"type:numeric"`
	TotalReturn    decimal.Decimal `gorm:"type:numeric"`
	TotalTrades    int             `gorm:""`
	WinRate        decimal.Decimal `gorm:"type:numeric"`
	MaxDrawdown    decimal.Decimal `gorm:"type:numeric"`
	SharpeRatio    decimal.Decimal `gorm:"type:numeric"`
	SortinoRatio   decimal.Decimal `gorm:"type:numeric"`
}

func (BacktestRunRecord) TableName() string { return "backtest_runs" }

// Store persists trades and backtest summaries to PostgreSQL.
type Store struct {
	client *conn.Client
}

// Open connects to PostgreSQL with the given DSN and migrates the schema.
func Open(dsn string) (*Store, error) {
	client, err := conn.New(conn.Option{ConnString: dsn})
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if err := client.Migrate(&TradeRecord{}, &BacktestRunRecord{}); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "migrate schema")
	}
	return &Store{client: client}, nil
}

// SaveTrades upserts the given fills.
func (s *Store) SaveTrades(trades []model.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	records := make([]TradeRecord, 0, len(trades))
	for _, t := range trades {
		records = append(records, TradeRecord{
			ID:        t.ID,
			OrderID:   t.OrderID,
			Symbol:    t.Symbol,
			Side:      t.Side.String(),
			Quantity:  t.Quantity,
			Price:     t.Price,
			Timestamp: t.Timestamp,
		})
	}
	if err := s.client.DB().Save(&records).Error; err != nil {
		return errors.Wrap(err, "save trades")
	}
	return nil
}

// SaveBacktestRun records one backtest result summary.
func (s *Store) SaveBacktestRun(result backtest.Result) error {
	record := BacktestRunRecord{
		RanAt:          time.Now(),
		InitialCapital: result.InitialCapital,
		FinalCapital:   result.FinalCapital,
		TotalPnL:       result.TotalPnL,
		TotalReturn:    result.TotalReturn,
		TotalTrades:    result.TotalTrades,
		WinRate:        result.WinRate,
		MaxDrawdown:    result.MaxDrawdown,
		SharpeRatio:    result.SharpeRatio,
		SortinoRatio:   result.SortinoRatio,
	}
	if err := s.client.DB().Create(&record).Error; err != nil {
		return errors.Wrap(err, "save backtest run")
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
