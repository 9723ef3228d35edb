package rpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/search"
	"github.com/tbeier/position-history/internal/store"
)

const (
	serviceName   = "phs.v1.PositionHistoryService"
	methodHistory = "/" + serviceName + "/GetLocationHistory"
	methodClosest = "/" + serviceName + "/GetClosestEntryByTimestamp"
)

// Gateway is the query engine the server exposes.
type Gateway interface {
	GetHistory(ctx context.Context, start, stop int64) ([]model.PositionRecord, error)
	GetClosest(ctx context.Context, ts int64) (model.PositionRecord, error)
}

// PositionHistoryServer is the service contract, mirroring what a
// generated server interface would look like.
type PositionHistoryServer interface {
	GetLocationHistory(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error)
	GetClosestEntryByTimestamp(ctx context.Context, req *ClosestRequest) (*LocationRecord, error)
}

// Server serves the PositionHistoryService over a Gateway.
type Server struct {
	gw     Gateway
	logger *slog.Logger
}

// NewServer creates a Server.
func NewServer(gw Gateway, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{gw: gw, logger: logger}
}

// GetLocationHistory returns the records between start_time and
// stop_time inclusive. An empty window is a valid, empty response.
func (s *Server) GetLocationHistory(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error) {
	if req.StartTime < 0 || req.StopTime < 0 {
		return nil, status.Error(codes.InvalidArgument, "start_time and stop_time must be non-negative")
	}

	records, err := s.gw.GetHistory(ctx, req.StartTime, req.StopTime)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &HistoryResponse{Records: make([]LocationRecord, len(records))}
	for i, rec := range records {
		resp.Records[i] = RecordFromModel(rec)
	}
	return resp, nil
}

// GetClosestEntryByTimestamp returns the record nearest to the requested
// instant, or NotFound once the bounded search window is exhausted.
func (s *Server) GetClosestEntryByTimestamp(ctx context.Context, req *ClosestRequest) (*LocationRecord, error) {
	if req.Timestamp <= 0 {
		return nil, status.Error(codes.InvalidArgument, "timestamp must be positive")
	}

	rec, err := s.gw.GetClosest(ctx, req.Timestamp)
	if err != nil {
		return nil, toStatus(err)
	}

	out := RecordFromModel(rec)
	return &out, nil
}

// toStatus maps engine errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, search.ErrNoRecordFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor logs one line per unary call with a request ID.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		reqID := uuid.New().String()
		start := time.Now()

		resp, err := handler(ctx, req)

		logger.Info("rpc call",
			"request_id", reqID,
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// Register attaches the service to a grpc.Server.
func Register(gs *grpc.Server, srv PositionHistoryServer) {
	gs.RegisterService(&serviceDesc, srv)
}

// serviceDesc mirrors what protoc-gen-go-grpc would generate.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PositionHistoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLocationHistory",
			Handler:    _GetLocationHistory_Handler,
		},
		{
			MethodName: "GetClosestEntryByTimestamp",
			Handler:    _GetClosestEntryByTimestamp_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "phs/v1/position_history.proto",
}

func _GetLocationHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PositionHistoryServer).GetLocationHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodHistory}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PositionHistoryServer).GetLocationHistory(ctx, req.(*HistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GetClosestEntryByTimestamp_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClosestRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PositionHistoryServer).GetClosestEntryByTimestamp(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodClosest}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PositionHistoryServer).GetClosestEntryByTimestamp(ctx, req.(*ClosestRequest))
	}
	return interceptor(ctx, in, info, handler)
}
