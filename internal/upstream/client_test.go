package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const goodPayload = `{
	"timestamp": 1700000000,
	"message": "success",
	"iss_position": {"latitude": "48.1351", "longitude": "11.5820"}
}`

func newTestClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "open-notify")
}

func TestFetchPosition(t *testing.T) {
	c := newTestClient(t, http.StatusOK, goodPayload)

	rec, err := c.FetchPosition(context.Background())
	if err != nil {
		t.Fatalf("FetchPosition() error = %v", err)
	}

	if rec.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d, want 1700000000", rec.Timestamp)
	}
	if rec.Latitude != 48.1351 {
		t.Errorf("Latitude = %v, want 48.1351", rec.Latitude)
	}
	if rec.Longitude != 11.5820 {
		t.Errorf("Longitude = %v, want 11.5820", rec.Longitude)
	}
	if rec.Source != "open-notify" {
		t.Errorf("Source = %q, want open-notify", rec.Source)
	}
}

func TestFetchPositionSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "not json",
			body: `<html>maintenance</html>`,
		},
		{
			name: "missing timestamp",
			body: `{"message": "success", "iss_position": {"latitude": "1.0", "longitude": "2.0"}}`,
		},
		{
			name: "missing position block",
			body: `{"timestamp": 1700000000, "message": "success"}`,
		},
		{
			name: "missing latitude",
			body: `{"timestamp": 1700000000, "message": "success", "iss_position": {"longitude": "2.0"}}`,
		},
		{
			name: "non-numeric latitude",
			body: `{"timestamp": 1700000000, "message": "success", "iss_position": {"latitude": "north", "longitude": "2.0"}}`,
		},
		{
			name: "failure message",
			body: `{"timestamp": 1700000000, "message": "error", "iss_position": {"latitude": "1.0", "longitude": "2.0"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.StatusOK, tt.body)

			_, err := c.FetchPosition(context.Background())
			if !errors.Is(err, ErrSchemaInvalid) {
				t.Errorf("FetchPosition() error = %v, want ErrSchemaInvalid", err)
			}
		})
	}
}

func TestFetchPositionUpstreamDown(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		c := newTestClient(t, http.StatusInternalServerError, "boom")

		_, err := c.FetchPosition(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("FetchPosition() error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		c := NewClient(srv.URL, "open-notify")

		_, err := c.FetchPosition(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("FetchPosition() error = %v, want ErrUnavailable", err)
		}
	})
}

func TestFetchPositionBreakerOpens(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "open-notify")

	// Defaults trip the breaker after five consecutive failures; further
	// calls are rejected without touching the network.
	for i := 0; i < 8; i++ {
		_, err := c.FetchPosition(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("call %d: error = %v, want ErrUnavailable", i, err)
		}
	}
	if calls >= 8 {
		t.Errorf("upstream saw %d calls, want fewer than 8 once the breaker opens", calls)
	}
}
