package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

var banner = strings.Join([]string{
	strings.Repeat("=", 60),
	"Nano Banana Pro - Interactive Image Generation",
	strings.Repeat("=", 60),
	"",
	"Commands:",
	"  save <filename>  - Save current image",
	"  reset            - Start fresh",
	"  quit/exit        - Exit",
	"",
	"Enter your prompt to begin:",
	"",
}, "\n")

// Run reads lines from in until quit, end of input or ctx is cancelled.
func Run(ctx context.Context, s *Session, in io.Reader) error {
	fmt.Fprintln(s.out, banner)

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.out, "> ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out, "\nGoodbye!")
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if s.Handle(ctx, line) {
				return nil
			}
		}
	}
}
