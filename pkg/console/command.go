// Package console is an interactive terminal front end for blocking and
// unblocking domains. Parsing input into commands, executing them and
// rendering the result are kept apart so each can be tested on its own.
package console

import (
	"errors"
	"fmt"
	"strings"
)

// Action identifies what a command does.
type Action int

const (
	ActionBlock Action = iota + 1
	ActionUnblock
	ActionList
	ActionHelp
	ActionQuit
)

// ErrEmpty is returned for blank input lines.
var ErrEmpty = errors.New("empty command")

// Command is a parsed line of user input.
type Command struct {
	Action  Action
	Domains []string
}

// ParseCommand parses one line of input.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "block", "b":
		if len(args) == 0 {
			return Command{}, errors.New("usage: block <domain>...")
		}
		return Command{Action: ActionBlock, Domains: args}, nil
	case "unblock", "u":
		if len(args) == 0 {
			return Command{}, errors.New("usage: unblock <domain>...")
		}
		return Command{Action: ActionUnblock, Domains: args}, nil
	case "list", "ls", "refresh", "r":
		return Command{Action: ActionList}, nil
	case "help", "h", "?":
		return Command{Action: ActionHelp}, nil
	case "quit", "exit", "q":
		return Command{Action: ActionQuit}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q, type help for a list of commands", fields[0])
}
