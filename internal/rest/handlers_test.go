package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/search"
	"github.com/tbeier/position-history/internal/store"
)

// fakeClient is a canned QueryClient standing in for the provider.
type fakeClient struct {
	historyFn func(ctx context.Context, start, stop int64) ([]model.PositionRecord, error)
	closestFn func(ctx context.Context, ts int64) (model.PositionRecord, error)
}

func (f *fakeClient) GetLocationHistory(ctx context.Context, start, stop int64) ([]model.PositionRecord, error) {
	return f.historyFn(ctx, start, stop)
}

func (f *fakeClient) GetClosestEntryByTimestamp(ctx context.Context, ts int64) (model.PositionRecord, error) {
	return f.closestFn(ctx, ts)
}

func newTestServer(client QueryClient) *echo.Echo {
	h := NewHandler(client, 5*time.Second, nil)
	return NewServer(h, NewFeedHub(nil), nil)
}

func doJSON(t *testing.T, e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetLocationHistory(t *testing.T) {
	client := &fakeClient{
		historyFn: func(_ context.Context, start, stop int64) ([]model.PositionRecord, error) {
			if start != 100 || stop != 300 {
				return nil, fmt.Errorf("unexpected window [%d, %d]", start, stop)
			}
			return []model.PositionRecord{
				{Timestamp: 100, Latitude: 1.5, Longitude: 2.5, Source: "open-notify"},
				{Timestamp: 160, Latitude: 3.5, Longitude: 4.5, Source: "open-notify"},
			}, nil
		},
	}
	e := newTestServer(client)

	rec := doJSON(t, e, "/api/get_location_history", `{"start_time": 100, "stop_time": 300}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got []recordJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Timestamp != 100 || got[0].Latitude != 1.5 || got[0].Source != "open-notify" {
		t.Errorf("records[0] = %+v", got[0])
	}
}

func TestGetLocationHistoryEmptyWindow(t *testing.T) {
	client := &fakeClient{
		historyFn: func(context.Context, int64, int64) ([]model.PositionRecord, error) {
			return nil, nil
		},
	}
	e := newTestServer(client)

	rec := doJSON(t, e, "/api/get_location_history", `{"start_time": 100, "stop_time": 300}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// Empty window still yields a JSON array, not null.
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %s, want []", rec.Body.String())
	}
}

func TestGetLocationHistoryBadRequests(t *testing.T) {
	client := &fakeClient{
		historyFn: func(context.Context, int64, int64) ([]model.PositionRecord, error) {
			t.Fatal("client must not be called for an invalid request")
			return nil, nil
		},
	}
	e := newTestServer(client)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "not json", body: `start=100`, wantCode: "BAD_REQUEST"},
		{name: "missing stop_time", body: `{"start_time": 100}`, wantCode: "VALIDATION_ERROR"},
		{name: "negative start_time", body: `{"start_time": -1, "stop_time": 100}`, wantCode: "VALIDATION_ERROR"},
		{name: "inverted window", body: `{"start_time": 300, "stop_time": 100}`, wantCode: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, "/api/get_location_history", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}

			var apiErr APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestGetClosestEntry(t *testing.T) {
	client := &fakeClient{
		closestFn: func(_ context.Context, ts int64) (model.PositionRecord, error) {
			if ts != 230 {
				return model.PositionRecord{}, fmt.Errorf("unexpected target %d", ts)
			}
			return model.PositionRecord{Timestamp: 160, Latitude: 1, Longitude: 2, Source: "open-notify"}, nil
		},
	}
	e := newTestServer(client)

	rec := doJSON(t, e, "/api/get_closest_entry_by_timestamp", `{"timestamp": 230}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got recordJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Timestamp != 160 {
		t.Errorf("timestamp = %d, want 160", got.Timestamp)
	}
}

func TestGetClosestEntryErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		clientErr  error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "zero timestamp rejected before rpc",
			body:       `{"timestamp": 0}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "missing timestamp",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "search exhausted",
			body:       `{"timestamp": 4000}`,
			clientErr:  search.ErrNoRecordFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "engine down",
			body:       `{"timestamp": 4000}`,
			clientErr:  store.ErrUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "unexpected failure",
			body:       `{"timestamp": 4000}`,
			clientErr:  fmt.Errorf("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{
				closestFn: func(context.Context, int64) (model.PositionRecord, error) {
					return model.PositionRecord{}, tt.clientErr
				},
			}
			e := newTestServer(client)

			rec := doJSON(t, e, "/api/get_closest_entry_by_timestamp", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var apiErr APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(&fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}
