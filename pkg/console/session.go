package console

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"siteblock/pkg/hostsedit"
	"siteblock/pkg/hostsfile"
)

const helpText = `commands:
  block <domain>...    block domains or URLs
  unblock <domain>...  remove blocking rules
  list                 reload the blocked list
  help                 show this help
  quit                 leave`

// Kind classifies a view's status message.
type Kind int

const (
	KindInfo Kind = iota
	KindWarning
	KindError
)

// View is what the console shows after a command.
type View struct {
	Kind    Kind
	Message string
	// Blocked is the current list, only meaningful when ShowList is set.
	Blocked  []string
	ShowList bool
}

// Blocker is the set of operations the console drives.
type Blocker interface {
	Block(domains ...string) (int, error)
	Unblock(domains ...string) (int, error)
	List() ([]string, error)
}

// Session executes commands against a Blocker.
type Session struct {
	blocker Blocker
	log     *slog.Logger
}

// NewSession creates a Session.
func NewSession(blocker Blocker, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{blocker: blocker, log: log}
}

// Execute runs cmd and returns the resulting view.
func (s *Session) Execute(cmd Command) View {
	switch cmd.Action {
	case ActionBlock:
		before, err := s.blocker.List()
		if err != nil {
			return s.failure(err)
		}
		if _, err := s.blocker.Block(cmd.Domains...); err != nil {
			return s.failure(err)
		}
		present, absent := partition(cmd.Domains, before)
		return s.refresh(View{Message: status("Blocked: ", absent, "Already blocked: ", present)})
	case ActionUnblock:
		before, err := s.blocker.List()
		if err != nil {
			return s.failure(err)
		}
		if _, err := s.blocker.Unblock(cmd.Domains...); err != nil {
			return s.failure(err)
		}
		present, absent := partition(cmd.Domains, before)
		return s.refresh(View{Message: status("Unblocked: ", present, "Not found: ", absent)})
	case ActionList:
		return s.refresh(View{})
	case ActionHelp:
		return View{Message: helpText}
	}
	return View{Kind: KindWarning, Message: "nothing to do"}
}

// refresh reloads the blocked list into v. A load failure replaces the
// view with the error.
func (s *Session) refresh(v View) View {
	blocked, err := s.blocker.List()
	if err != nil {
		return s.failure(err)
	}
	v.Blocked = blocked
	v.ShowList = true
	if v.Message == "" {
		v.Message = fmt.Sprintf("Loaded %d blocked domains.", len(blocked))
	}
	return v
}

// partition splits domains by whether they were in blocked. Each domain
// keeps the spelling the user typed.
func partition(domains, blocked []string) (present, absent []string) {
	for _, d := range domains {
		name, err := hostsedit.Normalize(d)
		if err == nil && slices.Contains(blocked, name) {
			present = append(present, d)
			continue
		}
		absent = append(absent, d)
	}
	return present, absent
}

// status joins the labelled groups that are not empty.
func status(label string, domains []string, otherLabel string, others []string) string {
	var parts []string
	if len(domains) > 0 {
		parts = append(parts, label+strings.Join(domains, ", "))
	}
	if len(others) > 0 {
		parts = append(parts, otherLabel+strings.Join(others, ", "))
	}
	return strings.Join(parts, "; ")
}

func (s *Session) failure(err error) View {
	s.log.Debug("command failed", "error", err)

	var invalidErr *hostsedit.InvalidDomainError
	switch {
	case errors.As(err, &invalidErr):
		return View{Kind: KindWarning, Message: "Invalid domain: " + invalidErr.Error()}
	case errors.Is(err, hostsfile.ErrPermission):
		return View{Kind: KindError, Message: "Permission required: " + err.Error() + "\nTry running as administrator/root."}
	}
	return View{Kind: KindError, Message: "Hosts error: " + err.Error()}
}
