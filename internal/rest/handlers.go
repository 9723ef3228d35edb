package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/search"
	"github.com/tbeier/position-history/internal/store"
)

// QueryClient is the path to the query engine. In production it is the
// provider's gRPC client; tests substitute a local fake.
type QueryClient interface {
	GetLocationHistory(ctx context.Context, start, stop int64) ([]model.PositionRecord, error)
	GetClosestEntryByTimestamp(ctx context.Context, ts int64) (model.PositionRecord, error)
}

// historyRequest is the body of POST /api/get_location_history. Pointer
// fields distinguish a missing field from a zero value.
type historyRequest struct {
	StartTime *int64 `json:"start_time" validate:"required,gte=0"`
	StopTime  *int64 `json:"stop_time" validate:"required,gte=0"`
}

// closestRequest is the body of POST /api/get_closest_entry_by_timestamp.
type closestRequest struct {
	Timestamp *int64 `json:"timestamp" validate:"required,gt=0"`
}

// recordJSON is the wire shape of one record, shared by both endpoints.
type recordJSON struct {
	Timestamp int64   `json:"timestamp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
}

func toRecordJSON(m model.PositionRecord) recordJSON {
	return recordJSON{
		Timestamp: m.Timestamp,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Source:    m.Source,
	}
}

// Handler serves the query endpoints.
type Handler struct {
	client   QueryClient
	validate *validator.Validate
	timeout  time.Duration
	logger   *slog.Logger
}

// NewHandler creates a Handler. timeout bounds each upstream RPC.
func NewHandler(client QueryClient, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		client:   client,
		validate: validator.New(),
		timeout:  timeout,
		logger:   logger,
	}
}

// HandleGetLocationHistory returns the records between start_time and
// stop_time as a JSON array.
func (h *Handler) HandleGetLocationHistory(c echo.Context) error {
	var req historyRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return NewValidationError(err)
	}
	// Stricter than the gRPC surface, which tolerates an inverted range.
	if *req.StopTime < *req.StartTime {
		return NewValidationError(errors.New("stop_time must not precede start_time"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	records, err := h.client.GetLocationHistory(ctx, *req.StartTime, *req.StopTime)
	if err != nil {
		return h.mapError(err, "history query failed")
	}

	out := make([]recordJSON, len(records))
	for i, rec := range records {
		out[i] = toRecordJSON(rec)
	}
	return c.JSON(http.StatusOK, out)
}

// HandleGetClosestEntryByTimestamp returns the single record nearest to
// the requested timestamp.
func (h *Handler) HandleGetClosestEntryByTimestamp(c echo.Context) error {
	var req closestRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return NewValidationError(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.client.GetClosestEntryByTimestamp(ctx, *req.Timestamp)
	if err != nil {
		return h.mapError(err, "closest query failed")
	}

	return c.JSON(http.StatusOK, toRecordJSON(rec))
}

// mapError translates engine errors into the API error envelope.
func (h *Handler) mapError(err error, msg string) error {
	switch {
	case errors.Is(err, search.ErrNoRecordFound):
		return NewNotFoundError("no record within the search window")
	case errors.Is(err, store.ErrUnavailable):
		return NewServiceUnavailableError("query engine unavailable")
	default:
		h.logger.Error(msg, "err", err)
		return NewInternalError(msg, err)
	}
}
