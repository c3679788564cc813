package blocklist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"siteblock/pkg/hostsedit"
)

type errorLimiter struct {
	limit int
	count int
}

// Parse reads a list where each line is either "<ip> <name>..." or a bare
// domain. Comments, blank lines and invalid entries are skipped.
func Parse(r io.Reader, opts Options) (*List, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	list := &List{}
	limiter := errorLimiter{limit: opts.ErrorLimit}
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(stripBOM(scanner.Text()))
		list.Stats.TotalLines++
		if line == "" || isComment(line) {
			continue
		}

		fields := strings.Fields(line)
		tokens := fields
		if ip := net.ParseIP(fields[0]); ip != nil {
			tokens = fields[1:]
		}

		for _, token := range tokens {
			if isComment(token) {
				break
			}
			name, err := parseToken(token)
			if err != nil {
				list.Stats.Invalid++
				limiter.log(logger, opts.ListID, lineNum, token, err)
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			list.Domains = append(list.Domains, name)
			list.Stats.Domains++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list: %w", err)
	}

	limiter.summary(logger, opts.ListID, list.Stats.Invalid)
	logger.Info("parsed blocklist", "list", opts.ListID, "domains", list.Stats.Domains, "invalid", list.Stats.Invalid)
	return list, nil
}

func parseToken(token string) (string, error) {
	if strings.Contains(token, "://") || strings.Contains(token, "/") || strings.Contains(token, ":") {
		return "", errors.New("invalid hostname")
	}
	if strings.HasPrefix(token, "*.") {
		return "", errors.New("wildcards cannot be expressed in a hosts file")
	}
	// Hosts lists usually carry these alongside the real entries.
	switch strings.ToLower(token) {
	case "localhost", "localhost.localdomain", "local", "broadcasthost", "ip6-localhost", "ip6-loopback":
		return "", errors.New("reserved name")
	}
	return hostsedit.Normalize(token)
}

func (l *errorLimiter) log(logger *slog.Logger, listID string, lineNum int, token string, err error) {
	if l.limit == 0 {
		return
	}
	if l.limit > 0 && l.count >= l.limit {
		l.count++
		return
	}
	l.count++
	logger.Warn("invalid blocklist entry", "list", listID, "line", lineNum, "entry", token, "error", err)
}

func (l *errorLimiter) summary(logger *slog.Logger, listID string, invalid int) {
	if l.limit <= 0 {
		return
	}
	if invalid > l.limit {
		logger.Warn("blocklist parsing errors suppressed", "list", listID, "errors", invalid, "logged", l.limit)
	}
}

func stripBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

func isComment(s string) bool {
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, ";")
}
