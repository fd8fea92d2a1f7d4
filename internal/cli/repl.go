package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

var ErrUnknownCommand = errors.New("unknown command")

const helpText = "Available commands: download [backend...], status [backend...], backends, version, exit"

// execIface is the command surface shared by the REPL and one-shot runs.
type execIface interface {
	Download(ctx context.Context, names []string) error
	Status(ctx context.Context, names []string) error
	Backends(ctx context.Context) error
	Version(ctx context.Context) error
}

// dispatch runs one command. quit is true when the user asked to leave.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) (quit bool, err error) {
	switch cmd {
	case "help":
		printlnFn(helpText)
	case "d", "download":
		err = a.Download(ctx, args)
	case "s", "status":
		err = a.Status(ctx, args)
	case "backends":
		err = a.Backends(ctx)
	case "version":
		err = a.Version(ctx)
	case "exit", "quit":
		return true, nil
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return false, err
}

// runREPL reads commands line by line until EOF, "exit" or "quit", or
// until ctx is done. Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for ctx.Err() == nil {
		printlnFn("billarchive> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		quit, err := dispatch(ctx, a, parts[0], parts[1:])
		if err != nil {
			printlnFn("Error:", err)
		}
		if quit {
			printlnFn("Bye!")
			return
		}
	}
}
