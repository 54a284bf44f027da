package strategy

import (
	"main/internal/model"
)

// Strategy turns a rolling per-symbol bar window into an order intent. A
// strategy may keep per-instance state between calls (e.g. its last emitted
// side) but never shares state across symbols beyond the window it is given.
type Strategy interface {
	// Name identifies the strategy instance.
	Name() string

	// Enabled reports whether the engine should evaluate the strategy.
	Enabled() bool

	// SetEnabled toggles evaluation.
	SetEnabled(enabled bool)

	// Evaluate consumes the rolling window, ordered oldest to newest, and
	// returns at most one signal for the newest bar.
	Evaluate(window []model.MarketBar) (model.Signal, bool)
}

// Base carries the name and enabled flag shared by every strategy.
type Base struct {
	name    string
	enabled bool
}

// NewBase creates an enabled base with the given name.
func NewBase(name string) Base {
	return Base{name: name, enabled: true}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Enabled() bool { return b.enabled }

func (b *Base) SetEnabled(enabled bool) { b.enabled = enabled }
