package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/tbeier/position-history/internal/model"
)

var (
	// ErrUnavailable indicates the feed could not be reached or answered
	// with a non-success status. The next poll cycle retries naturally.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrSchemaInvalid indicates a payload that does not conform to the
	// feed schema. The reading is dropped, never stored.
	ErrSchemaInvalid = errors.New("upstream payload schema invalid")
)

// payload mirrors the feed's JSON document. Pointer fields distinguish a
// missing field from a zero value during validation.
type payload struct {
	Timestamp *int64           `json:"timestamp" validate:"required"`
	Message   *string          `json:"message" validate:"required"`
	Position  *payloadPosition `json:"iss_position" validate:"required"`
}

type payloadPosition struct {
	Latitude  *string `json:"latitude" validate:"required,numeric"`
	Longitude *string `json:"longitude" validate:"required,numeric"`
}

// Client fetches position readings from the configured feed.
type Client struct {
	url        string
	source     string
	httpClient *http.Client
	logger     *slog.Logger
	breaker    *gobreaker.CircuitBreaker
	validate   *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a feed client. Records returned by FetchPosition carry
// the given source tag.
func NewClient(url, source string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		source: source,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:   slog.Default(),
		validate: validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Trip after repeated feed failures so a dead upstream costs one
	// rejected call per cycle instead of a full timeout.
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "upstream-feed",
		Timeout: 2 * time.Minute,
	})

	return c
}

// FetchPosition performs one GET against the feed and returns the
// validated, normalized reading.
func (c *Client) FetchPosition(ctx context.Context) (model.PositionRecord, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return model.PositionRecord{}, err
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.PositionRecord{}, fmt.Errorf("%w: decode json: %v", ErrSchemaInvalid, err)
	}

	if err := c.validate.Struct(p); err != nil {
		return model.PositionRecord{}, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	if *p.Message != "success" {
		return model.PositionRecord{}, fmt.Errorf("%w: message is %q, not \"success\"", ErrSchemaInvalid, *p.Message)
	}

	lat, err := strconv.ParseFloat(*p.Position.Latitude, 64)
	if err != nil {
		return model.PositionRecord{}, fmt.Errorf("%w: parse latitude: %v", ErrSchemaInvalid, err)
	}
	lon, err := strconv.ParseFloat(*p.Position.Longitude, 64)
	if err != nil {
		return model.PositionRecord{}, fmt.Errorf("%w: parse longitude: %v", ErrSchemaInvalid, err)
	}

	rec := model.PositionRecord{
		Timestamp: *p.Timestamp,
		Latitude:  lat,
		Longitude: lon,
		Source:    c.source,
	}

	c.logger.Debug("reading fetched",
		"ts", rec.Timestamp,
		"lat", rec.Latitude,
		"lon", rec.Longitude,
	)
	return rec, nil
}

// fetch performs the GET through the circuit breaker and returns the raw
// response body.
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result.([]byte), nil
}
