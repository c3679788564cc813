package blocker

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"siteblock/pkg/hostsedit"
	"siteblock/pkg/hostsfile"
)

type memStore struct {
	lines  []string
	writes int
	err    error
}

func (s *memStore) Read() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.lines), nil
}

func (s *memStore) Write(lines []string) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	s.lines = slices.Clone(lines)
	return nil
}

func newManager(lines ...string) (*Manager, *memStore) {
	store := &memStore{lines: lines}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, hostsedit.New(hostsedit.DefaultTarget), logger), store
}

func TestBlockAndList(t *testing.T) {
	m, store := newManager("127.0.0.1 localhost", "::1 localhost")

	list, err := m.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %q", list)
	}

	added, err := m.Block("example.com", "www.test.org")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	list, _ = m.List()
	if want := []string{"example.com", "www.test.org"}; !slices.Equal(list, want) {
		t.Errorf("List = %q, want %q", list, want)
	}
	if store.lines[0] != "127.0.0.1 localhost" || store.lines[1] != "::1 localhost" {
		t.Errorf("unmanaged lines changed: %q", store.lines)
	}
}

func TestBlockIdempotentSkipsWrite(t *testing.T) {
	m, store := newManager("127.0.0.1 localhost")

	if _, err := m.Block("example.com"); err != nil {
		t.Fatal(err)
	}
	added, err := m.Block("example.com", "EXAMPLE.com")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
	if store.writes != 1 {
		t.Errorf("writes = %d, want 1", store.writes)
	}

	list, _ := m.List()
	if n := len(slices.DeleteFunc(list, func(d string) bool { return d != "example.com" })); n != 1 {
		t.Errorf("example.com listed %d times", n)
	}
}

func TestBlockInvalidAbortsBeforeIO(t *testing.T) {
	m, store := newManager("127.0.0.1 localhost")

	_, err := m.Block("good.com", "http://")
	var invalidErr *hostsedit.InvalidDomainError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Block error = %v, want InvalidDomainError", err)
	}
	if store.writes != 0 || len(store.lines) != 1 {
		t.Error("hosts file modified despite invalid input")
	}
}

func TestUnblock(t *testing.T) {
	m, store := newManager("127.0.0.1 localhost")

	if _, err := m.Block("example.com", "site.net"); err != nil {
		t.Fatal(err)
	}
	removed, err := m.Unblock("example.com", "missing.org")
	if err != nil {
		t.Fatalf("Unblock returned error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	list, _ := m.List()
	if !slices.Equal(list, []string{"site.net"}) {
		t.Errorf("List = %q, want [site.net]", list)
	}

	writes := store.writes
	removed, err = m.Unblock("missing.org")
	if err != nil || removed != 0 {
		t.Errorf("Unblock(missing) = %d, %v; want 0, nil", removed, err)
	}
	if store.writes != writes {
		t.Error("no-op unblock wrote the file")
	}
}

func TestListCollapsesDuplicates(t *testing.T) {
	m, _ := newManager(
		"127.0.0.1 b.com # website-blocker",
		"127.0.0.1 a.com # website-blocker",
		"0.0.0.0 b.com # website-blocker",
	)

	list, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"b.com", "a.com"}; !slices.Equal(list, want) {
		t.Errorf("List = %q, want %q", list, want)
	}

	removed, err := m.Unblock("b.com")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestIsBlocked(t *testing.T) {
	m, _ := newManager("127.0.0.1 a.com # website-blocker")

	if ok, err := m.IsBlocked("https://A.com/x"); err != nil || !ok {
		t.Errorf("IsBlocked(a.com) = %v, %v", ok, err)
	}
	if ok, err := m.IsBlocked("b.com"); err != nil || ok {
		t.Errorf("IsBlocked(b.com) = %v, %v", ok, err)
	}
}

func TestStoreErrorsSurface(t *testing.T) {
	m, store := newManager()
	store.err = hostsfile.ErrPermission

	if _, err := m.Block("a.com"); !errors.Is(err, hostsfile.ErrPermission) {
		t.Errorf("Block error = %v, want ErrPermission", err)
	}
	if _, err := m.List(); !errors.Is(err, hostsfile.ErrPermission) {
		t.Errorf("List error = %v, want ErrPermission", err)
	}
}
