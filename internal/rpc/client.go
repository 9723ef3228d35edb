package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/search"
	"github.com/tbeier/position-history/internal/store"
)

// Client is the gRPC client for the PositionHistoryService. The REST
// webserver uses it as its only path to the query engine.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a Client against the provider address. The connection is
// established lazily; call failures surface per RPC.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("dial provider %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// NewClientFromConn wraps an existing connection; used by tests.
func NewClientFromConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// GetLocationHistory fetches the records between start and stop inclusive.
func (c *Client) GetLocationHistory(ctx context.Context, start, stop int64) ([]model.PositionRecord, error) {
	req := &HistoryRequest{StartTime: start, StopTime: stop}
	resp := new(HistoryResponse)
	if err := c.conn.Invoke(ctx, methodHistory, req, resp); err != nil {
		return nil, fromStatus(err)
	}

	records := make([]model.PositionRecord, len(resp.Records))
	for i, rec := range resp.Records {
		records[i] = rec.ToModel()
	}
	return records, nil
}

// GetClosestEntryByTimestamp fetches the record nearest to ts.
func (c *Client) GetClosestEntryByTimestamp(ctx context.Context, ts int64) (model.PositionRecord, error) {
	req := &ClosestRequest{Timestamp: ts}
	resp := new(LocationRecord)
	if err := c.conn.Invoke(ctx, methodClosest, req, resp); err != nil {
		return model.PositionRecord{}, fromStatus(err)
	}
	return resp.ToModel(), nil
}

// fromStatus maps gRPC status codes back onto the engine's typed errors
// so callers handle local and remote gateways uniformly.
func fromStatus(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", search.ErrNoRecordFound, err)
	case codes.Unavailable:
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	default:
		return err
	}
}
