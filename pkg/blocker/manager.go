// Package blocker runs the read-modify-write cycle that applies domain
// rules to the hosts file.
package blocker

import (
	"errors"
	"log/slog"

	"siteblock/pkg/hostsedit"
	"siteblock/pkg/hostsfile"
)

// Manager blocks and unblocks domains in a hosts file store.
type Manager struct {
	store  hostsfile.Store
	editor hostsedit.Editor
	log    *slog.Logger
}

// New creates a Manager.
func New(store hostsfile.Store, editor hostsedit.Editor, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, editor: editor, log: log}
}

// Block adds rules for domains and returns how many were new. All domains
// are validated before the file is read; the file is only written when at
// least one rule was added.
func (m *Manager) Block(domains ...string) (int, error) {
	names, err := normalizeAll(domains)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	lines, err := m.store.Read()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, name := range names {
		before := len(lines)
		if lines, err = m.editor.Block(lines, name); err != nil {
			return 0, err
		}
		if len(lines) == before {
			m.log.Debug("domain already blocked", "domain", name)
			continue
		}
		added++
		m.log.Info("blocked domain", "domain", name, "target", m.editor.Target)
	}

	if added == 0 {
		return 0, nil
	}
	if err := m.store.Write(lines); err != nil {
		return 0, err
	}
	return added, nil
}

// Unblock removes the rules for domains and returns the number of lines
// removed. Domains without a rule are skipped.
func (m *Manager) Unblock(domains ...string) (int, error) {
	names, err := normalizeAll(domains)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	lines, err := m.store.Read()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		before := len(lines)
		lines, err = m.editor.Unblock(lines, name)
		if errors.Is(err, hostsedit.ErrNotFound) {
			m.log.Debug("domain not blocked", "domain", name)
			continue
		}
		if err != nil {
			return 0, err
		}
		removed += before - len(lines)
		m.log.Info("unblocked domain", "domain", name)
	}

	if removed == 0 {
		return 0, nil
	}
	if err := m.store.Write(lines); err != nil {
		return 0, err
	}
	return removed, nil
}

// List returns the blocked domains in file order without duplicates.
func (m *Manager) List() ([]string, error) {
	lines, err := m.store.Read()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	domains := []string{}
	for d := range hostsedit.ListBlocked(lines) {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
	}
	return domains, nil
}

// IsBlocked reports whether domain currently has a rule.
func (m *Manager) IsBlocked(domain string) (bool, error) {
	name, err := hostsedit.Normalize(domain)
	if err != nil {
		return false, err
	}
	lines, err := m.store.Read()
	if err != nil {
		return false, err
	}
	return hostsedit.IsBlocked(lines, name)
}

func normalizeAll(domains []string) ([]string, error) {
	names := make([]string, 0, len(domains))
	for _, d := range domains {
		name, err := hostsedit.Normalize(d)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
