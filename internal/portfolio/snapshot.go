package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// Snapshot captures cash and open positions at a point in time.
type Snapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Cash      decimal.Decimal `json:"cash"`
	Positions []PositionEntry `json:"positions"`
}

// PositionEntry is a single symbol position entry.
type PositionEntry struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
	RealizedPnL decimal.Decimal `json:"realizedPnl"`
}

// Snapshot builds a snapshot from the current book state, positions sorted by
// symbol.
func (b *Book) Snapshot() Snapshot {
	entries := make([]PositionEntry, 0, len(b.positions))
	for symbol, p := range b.positions {
		entries = append(entries, PositionEntry{
			Symbol:      symbol,
			Quantity:    p.Quantity,
			AverageCost: p.AverageCost,
			RealizedPnL: p.RealizedPnL,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})
	return Snapshot{
		Timestamp: time.Now().UTC(),
		Cash:      b.cash,
		Positions: entries,
	}
}

// WriteSnapshot writes a snapshot to disk as indented JSON.
func WriteSnapshot(path string, snapshot Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create snapshot dir")
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "read snapshot")
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, errors.Wrap(err, "unmarshal snapshot")
	}
	return snapshot, nil
}
