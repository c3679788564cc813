// Package blocklist reads domain lists in hosts or plain format so they can
// be blocked in bulk.
package blocklist

import "log/slog"

// Options control how a list is parsed.
type Options struct {
	// ListID names the list in log output.
	ListID string
	Logger *slog.Logger
	// ErrorLimit caps how many invalid entries are logged. Zero disables
	// logging of invalid entries, a negative value logs all of them.
	ErrorLimit int
}

// Stats summarises list parsing results.
type Stats struct {
	TotalLines int
	Domains    int
	Invalid    int
}

// List holds the unique domains of a parsed list in the order they appeared.
type List struct {
	Domains []string
	Stats   Stats
}
