package connector

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/pkg/ws"

	"main/internal/model"
)

// Remote speaks a JSON request/response protocol to a broker gateway over a
// websocket session. Failed calls surface as errors and are never retried
// here.
type Remote struct {
	wss    *ws.WebSocket
	nextID int64
}

// NewRemote creates a remote connector against the given gateway URL.
func NewRemote(ctx context.Context, url string) *Remote {
	return &Remote{
		wss: ws.New(ctx, url),
	}
}

type remoteRequest struct {
	Method     string          `json:"method"`
	ID         int64           `json:"id"`
	Symbol     string          `json:"symbol,omitempty"`
	Side       string          `json:"side,omitempty"`
	Type       string          `json:"type,omitempty"`
	Quantity   int64           `json:"quantity,omitempty"`
	Price      decimal.Decimal `json:"price,omitempty"`
	ExternalID string          `json:"externalId,omitempty"`
}

type remoteResponse struct {
	ID         int64              `json:"id"`
	Error      string             `json:"error"`
	ExternalID string             `json:"externalId"`
	Account    *AccountInfo       `json:"account"`
	Positions  []PlatformPosition `json:"positions"`
}

func (r *Remote) Connect(ctx context.Context) error {
	if err := r.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}
	return nil
}

func (r *Remote) Disconnect() error {
	r.wss.Close()
	return nil
}

func (r *Remote) PlaceOrder(ctx context.Context, order *model.Order) (string, error) {
	req := remoteRequest{
		Method:   "place_order",
		ID:       atomic.AddInt64(&r.nextID, 1),
		Symbol:   order.Symbol,
		Side:     order.Side.String(),
		Type:     order.Type.String(),
		Quantity: order.Quantity,
		Price:    order.Price,
	}

	resp, err := r.call(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "place order")
	}
	return resp.ExternalID, nil
}

func (r *Remote) CancelOrder(ctx context.Context, externalID string) error {
	req := remoteRequest{
		Method:     "cancel_order",
		ID:         atomic.AddInt64(&r.nextID, 1),
		ExternalID: externalID,
	}
	if _, err := r.call(ctx, req); err != nil {
		return errors.Wrap(err, "cancel order")
	}
	return nil
}

func (r *Remote) AccountInfo(ctx context.Context) (AccountInfo, error) {
	req := remoteRequest{Method: "get_account_info", ID: atomic.AddInt64(&r.nextID, 1)}
	resp, err := r.call(ctx, req)
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "get account info")
	}
	if resp.Account == nil {
		return AccountInfo{}, errors.New("gateway returned no account payload")
	}
	return *resp.Account, nil
}

func (r *Remote) Positions(ctx context.Context) ([]PlatformPosition, error) {
	req := remoteRequest{Method: "get_positions", ID: atomic.AddInt64(&r.nextID, 1)}
	resp, err := r.call(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "get positions")
	}
	return resp.Positions, nil
}

// call sends one request and waits for the response with the matching id.
func (r *Remote) call(ctx context.Context, req remoteRequest) (remoteResponse, error) {
	var out remoteResponse
	if err := r.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, client *ws.WebSocket) error {
			if err := client.WriteJSON(req); err != nil {
				return errors.Wrap(err, "write request").With("method", req.Method)
			}
			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			resp, ok := ws.ReadMessage[remoteResponse](m)
			if !ok || resp.ID != req.ID {
				return false, nil
			}
			if resp.Error != "" {
				return false, errors.Errorf("gateway error: %s", resp.Error)
			}
			out = resp
			return true, nil
		},
	}, false); err != nil {
		return remoteResponse{}, errors.Wrap(err, "send and wait")
	}
	return out, nil
}
