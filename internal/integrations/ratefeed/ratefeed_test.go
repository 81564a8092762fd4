package ratefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/hypo-service/internal/config"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `<?xml version="1.0" encoding="utf-8"?>
<rates date="2025-06-01">
  <rate term="fix5">4,29</rate>
  <rate term="fix10">4,49</rate>
</rates>`

func newTestClient(t *testing.T, body string, status int, path string, margin float64) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	logger, _ := logtest.NewNullLogger()
	return NewClient(&config.Config{RateFeedURL: srv.URL, RateFeedPath: path, RateFeedMargin: margin}, logger)
}

func TestGetRate(t *testing.T) {
	c := newTestClient(t, feed, http.StatusOK, "//rate", 0.5)

	rate, err := c.GetRate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.0479, rate, 1e-9)
}

func TestGetRateAttributePath(t *testing.T) {
	c := newTestClient(t, feed, http.StatusOK, "//rate[@term='fix10']", 0)

	rate, err := c.GetRate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.0449, rate, 1e-9)
}

func TestGetRateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		path   string
		want   string
	}{
		{"bad status", feed, http.StatusBadGateway, "//rate", "unexpected status code"},
		{"not xml", "<<<", http.StatusOK, "//rate", "failed to parse XML"},
		{"missing element", feed, http.StatusOK, "//apr", "no rate found"},
		{"not a number", "<rates><rate>n/a</rate></rates>", http.StatusOK, "//rate", "failed to parse rate"},
		{"out of range", "<rates><rate>150</rate></rates>", http.StatusOK, "//rate", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.body, tt.status, tt.path, 0)
			_, err := c.GetRate(context.Background())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
