package connector

import (
	"context"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

// AccountInfo is the broker's view of the account.
type AccountInfo struct {
	Balance  decimal.Decimal `json:"balance"`
	Equity   decimal.Decimal `json:"equity"`
	Currency string          `json:"currency"`
}

// PlatformPosition is one position record as reported by the platform.
type PlatformPosition struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
}

// Connector is the broker capability set used when the engine runs in live
// execution mode instead of the built-in simulator. Implementations never
// retry on their own; retry policy belongs to the caller.
type Connector interface {
	// Connect establishes the platform session.
	Connect(ctx context.Context) error

	// Disconnect tears the session down.
	Disconnect() error

	// PlaceOrder submits an order and returns the platform's external id.
	PlaceOrder(ctx context.Context, order *model.Order) (string, error)

	// CancelOrder cancels a previously placed order by external id.
	CancelOrder(ctx context.Context, externalID string) error

	// AccountInfo fetches the current account balance and equity.
	AccountInfo(ctx context.Context) (AccountInfo, error)

	// Positions fetches the platform's position records.
	Positions(ctx context.Context) ([]PlatformPosition, error)
}
