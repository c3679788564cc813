package hostsedit

import (
	"errors"
	"slices"
	"testing"
)

func TestBlockAppendsRule(t *testing.T) {
	lines := []string{"127.0.0.1 localhost"}

	got, err := Block(lines, "ads.com")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}

	want := []string{"127.0.0.1 localhost", "127.0.0.1 ads.com # website-blocker"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(lines) != 1 {
		t.Error("Block modified its input")
	}
}

func TestBlockIsIdempotent(t *testing.T) {
	base := []string{"127.0.0.1 localhost", "::1 localhost"}

	once, err := Block(base, "example.com")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	twice, err := Block(once, "Example.COM")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if !slices.Equal(once, twice) {
		t.Errorf("second Block changed lines: %q -> %q", once, twice)
	}
}

func TestBlockInvalidDomain(t *testing.T) {
	for _, domain := range []string{"", "   ", "http://", "localhost", "not a domain", "10.0.0.1"} {
		t.Run(domain, func(t *testing.T) {
			lines := []string{"127.0.0.1 localhost"}
			got, err := Block(lines, domain)
			var invalidErr *InvalidDomainError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("Block(%q) error = %v, want InvalidDomainError", domain, err)
			}
			if !slices.Equal(got, lines) {
				t.Errorf("Block(%q) changed lines on error", domain)
			}
		})
	}
}

func TestEditorCustomTarget(t *testing.T) {
	got, err := New("0.0.0.0").Block(nil, "tracker.net")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if want := "0.0.0.0 tracker.net # website-blocker"; len(got) != 1 || got[0] != want {
		t.Errorf("got %q, want [%q]", got, want)
	}
	if New("").Target != DefaultTarget {
		t.Error("expected empty target to fall back to the default")
	}
}

func TestUnblockRemovesOnlyTarget(t *testing.T) {
	lines := []string{
		"# static entries",
		"127.0.0.1 localhost",
		"127.0.0.1 x.com # website-blocker",
		"10.0.0.5 nas.lan",
		"127.0.0.1 y.com # website-blocker",
		"127.0.0.1 X.com # website-blocker",
	}

	got, err := Unblock(lines, "https://x.com/path")
	if err != nil {
		t.Fatalf("Unblock returned error: %v", err)
	}
	want := []string{
		"# static entries",
		"127.0.0.1 localhost",
		"10.0.0.5 nas.lan",
		"127.0.0.1 y.com # website-blocker",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnblockMissingIsNoOp(t *testing.T) {
	lines := []string{"127.0.0.1 localhost", "127.0.0.1 y.com # website-blocker"}

	got, err := Unblock(lines, "x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Unblock error = %v, want ErrNotFound", err)
	}
	if !slices.Equal(got, lines) {
		t.Errorf("Unblock changed lines: %q", got)
	}
}

func TestUnblockLeavesUnmanagedEntries(t *testing.T) {
	lines := []string{"127.0.0.1 x.com"}

	got, err := Unblock(lines, "x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Unblock error = %v, want ErrNotFound", err)
	}
	if !slices.Equal(got, lines) {
		t.Errorf("unmanaged line was removed: %q", got)
	}
}

func TestListBlocked(t *testing.T) {
	lines := []string{
		"127.0.0.1 localhost",
		"127.0.0.1 b.com # website-blocker",
		"# 127.0.0.1 old.com # website-blocker",
		"127.0.0.1 a.com # website-blocker",
		"# website-blocker",
	}
	seq := ListBlocked(lines)

	want := []string{"b.com", "a.com"}
	if got := slices.Collect(seq); !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := slices.Collect(seq); !slices.Equal(got, want) {
		t.Errorf("second iteration got %q, want %q", got, want)
	}

	for d := range seq {
		if d != "b.com" {
			t.Errorf("expected b.com first, got %s", d)
		}
		break
	}
}

func TestRoundTrip(t *testing.T) {
	base := []string{"127.0.0.1 localhost", "", "# comment", "192.168.1.2 printer"}

	blocked, err := Block(base, "x.com")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if !slices.Contains(slices.Collect(ListBlocked(blocked)), "x.com") {
		t.Error("expected x.com to be listed after Block")
	}
	if ok, err := IsBlocked(blocked, "X.com."); err != nil || !ok {
		t.Errorf("IsBlocked = %v, %v; want true", ok, err)
	}

	unblocked, err := Unblock(blocked, "x.com")
	if err != nil {
		t.Fatalf("Unblock returned error: %v", err)
	}
	if slices.Contains(slices.Collect(ListBlocked(unblocked)), "x.com") {
		t.Error("x.com still listed after Unblock")
	}
	if !slices.Equal(unblocked, base) {
		t.Errorf("unmanaged lines changed: %q", unblocked)
	}
}

func TestMarkerMustBeWholeToken(t *testing.T) {
	lines := []string{
		"0.0.0.0 foo.com # website-blocker-legacy (hand maintained)",
		"0.0.0.0 bar.com #website-blocker",
		"127.0.0.1 baz.com # website-blocker\t",
	}

	if got := slices.Collect(ListBlocked(lines)); !slices.Equal(got, []string{"baz.com"}) {
		t.Errorf("ListBlocked = %q, want [baz.com]", got)
	}

	got, err := Unblock(lines, "foo.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Unblock error = %v, want ErrNotFound", err)
	}
	if !slices.Equal(got, lines) {
		t.Errorf("hand-written line removed: %q", got)
	}
}

func TestTrailingDotRuleCountsAsBlocked(t *testing.T) {
	lines := []string{"127.0.0.1 X.com. # website-blocker"}

	got, err := Block(lines, "x.com")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if !slices.Equal(got, lines) {
		t.Errorf("Block added a second rule: %q", got)
	}
	if listed := slices.Collect(ListBlocked(lines)); !slices.Equal(listed, []string{"x.com"}) {
		t.Errorf("ListBlocked = %q, want [x.com]", listed)
	}

	got, err = Unblock(lines, "x.com")
	if err != nil {
		t.Fatalf("Unblock returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Unblock left %q", got)
	}
}
