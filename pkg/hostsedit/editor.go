// Package hostsedit edits hosts file content held in memory. Every operation
// takes the current lines and returns the lines to persist; nothing here
// touches the filesystem.
package hostsedit

import (
	"fmt"
	"iter"
	"strings"
)

const (
	// DefaultTarget is the loopback address blocked domains resolve to.
	DefaultTarget = "127.0.0.1"
	// Marker tags lines owned by siteblock.
	Marker = "# website-blocker"
)

// Rule is a single managed hosts entry.
type Rule struct {
	Domain string
	Target string
}

// Line renders the rule as a hosts file line.
func (r Rule) Line() string {
	return r.Target + " " + r.Domain + " " + Marker
}

// Editor applies rule changes to hosts file lines.
type Editor struct {
	Target string
}

var defaultEditor = New(DefaultTarget)

// New returns an Editor redirecting blocked domains to target.
// An empty target falls back to DefaultTarget.
func New(target string) Editor {
	target = strings.TrimSpace(target)
	if target == "" {
		target = DefaultTarget
	}
	return Editor{Target: target}
}

// Block appends a rule for domain unless one is already present, in which
// case lines is returned as is.
func (e Editor) Block(lines []string, domain string) ([]string, error) {
	name, err := Normalize(domain)
	if err != nil {
		return lines, err
	}
	if contains(lines, name) {
		return lines, nil
	}

	out := make([]string, len(lines), len(lines)+1)
	copy(out, lines)
	return append(out, Rule{Domain: name, Target: e.Target}.Line()), nil
}

// Unblock drops every managed line for domain. Unmanaged lines are never
// touched. If nothing matched, lines is returned with an error wrapping
// ErrNotFound.
func (e Editor) Unblock(lines []string, domain string) ([]string, error) {
	name, err := Normalize(domain)
	if err != nil {
		return lines, err
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if d, ok := managedDomain(line); ok && d == name {
			continue
		}
		out = append(out, line)
	}
	if len(out) == len(lines) {
		return lines, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return out, nil
}

// Block adds domain using the default loopback target.
func Block(lines []string, domain string) ([]string, error) {
	return defaultEditor.Block(lines, domain)
}

// Unblock removes domain from lines.
func Unblock(lines []string, domain string) ([]string, error) {
	return defaultEditor.Unblock(lines, domain)
}

// ListBlocked yields the domain of every managed line in file order. The
// sequence reads lines lazily and may be ranged over more than once.
func ListBlocked(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			d, ok := managedDomain(line)
			if !ok {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// IsBlocked reports whether lines hold a managed rule for domain.
func IsBlocked(lines []string, domain string) (bool, error) {
	name, err := Normalize(domain)
	if err != nil {
		return false, err
	}
	return contains(lines, name), nil
}

func contains(lines []string, name string) bool {
	for d := range ListBlocked(lines) {
		if d == name {
			return true
		}
	}
	return false
}

// managedDomain extracts the domain of a line carrying the marker. Lines
// that are commented out as a whole do not count.
func managedDomain(line string) (string, bool) {
	if !hasMarker(line) {
		return "", false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
		return "", false
	}
	name := strings.TrimSuffix(strings.ToLower(fields[1]), ".")
	if name == "" {
		return "", false
	}
	return name, true
}

// hasMarker reports whether Marker occurs in line as a whole token, so
// "# website-blocker-legacy" is not mistaken for it.
func hasMarker(line string) bool {
	for rest := line; ; {
		i := strings.Index(rest, Marker)
		if i == -1 {
			return false
		}
		before, after := rest[:i], rest[i+len(Marker):]
		if (before == "" || isSpace(before[len(before)-1])) && (after == "" || isSpace(after[0])) {
			return true
		}
		rest = after
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}
