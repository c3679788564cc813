package blocklist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultHTTPTimeout = 20 * time.Second

// Load reads the list at location, which is either an http(s) URL or a
// path on disk, and parses it.
func Load(ctx context.Context, location string, opts Options) (*List, error) {
	if opts.ListID == "" {
		opts.ListID = location
	}

	var (
		data []byte
		err  error
	)
	if isURL(location) {
		data, err = download(ctx, location)
	} else {
		data, err = os.ReadFile(location) // #nosec G304 -- location is provided by the user.
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", location, err)
	}

	return Parse(bytes.NewReader(data), opts)
}

func download(ctx context.Context, location string) ([]byte, error) {
	client := &http.Client{Timeout: defaultHTTPTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Default().Warn("failed to close blocklist response body", "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
