package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

const prompt = "> "

// Render writes v to w.
func Render(w io.Writer, v View) error {
	bw := bufio.NewWriter(w)
	if v.ShowList {
		fmt.Fprintln(bw, "Currently blocked domains:")
		if len(v.Blocked) == 0 {
			fmt.Fprintln(bw, "  (none)")
		}
		for _, d := range v.Blocked {
			fmt.Fprintf(bw, "  - %s\n", d)
		}
	}
	switch v.Kind {
	case KindWarning:
		fmt.Fprint(bw, "warning: ")
	case KindError:
		fmt.Fprint(bw, "error: ")
	}
	fmt.Fprintln(bw, v.Message)
	return bw.Flush()
}

// Run shows the blocked list, then reads commands from in until quit, end
// of input or ctx is cancelled. Cancellation is noticed while waiting for
// input, not only between lines.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := Render(out, s.Execute(Command{Action: ActionList})); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, scanErr := readLines(ctx, in)
	for {
		if _, err := fmt.Fprint(out, prompt); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case next, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-scanErr
			}
			line = next
		}

		cmd, err := ParseCommand(line)
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			if err := Render(out, View{Kind: KindWarning, Message: err.Error()}); err != nil {
				return err
			}
			continue
		}
		if cmd.Action == ActionQuit {
			return nil
		}

		if err := Render(out, s.Execute(cmd)); err != nil {
			return err
		}
	}
}

// readLines scans in on its own goroutine. The error channel receives
// exactly one value before lines is closed. A read blocked in the
// underlying reader outlives ctx until the reader returns.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	return lines, scanErr
}
