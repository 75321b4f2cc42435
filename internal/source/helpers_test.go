package source

import (
	"io"
	"log/slog"
	"time"
)

// Fixed reference time for all adapter tests.
var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClient disables retries so failure-path tests see one request per
// unit of work.
func testClient() *Client {
	c := NewClient(5*time.Second, 1000, 1000)
	c.maxRetries = 0
	return c
}

func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
