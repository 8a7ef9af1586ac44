package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Capture(ctx context.Context, path string) error
	List(ctx context.Context) error
	Seals(ctx context.Context) error
	Status(ctx context.Context) error
	Sync(ctx context.Context, id string) error
	Retry(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Pause()
	Resume()
}

// runREPL starts a simple read–eval–print loop for the CapSeal CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//   - help               — show available commands
//   - capture <path>     — queue a media file for sealing
//   - (l)ist             — list queued captures
//   - seals              — list sealed receipts
//   - status             — show the sync summary
//   - sync [id]          — sync everything, or a single capture
//   - retry <id>         — retry a failed capture
//   - delete <id>        — remove a capture from the queue
//   - clear              — remove every non-syncing capture
//   - login | logout     — store / drop the auth token
//   - pause | resume     — suspend / resume summary refreshes
//   - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("capseal %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: capture <path>, (l)ist, seals, status, sync [id], retry <id>, delete <id>, clear, login, logout, pause, resume, exit")

		case "capture":
			if len(args) == 0 {
				printlnFn("Usage: capture <path>")
				continue
			}
			_ = a.Capture(ctx, args[0])

		case "l", "list":
			_ = a.List(ctx)

		case "seals":
			_ = a.Seals(ctx)

		case "status":
			_ = a.Status(ctx)

		case "sync":
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			_ = a.Sync(ctx, id)

		case "retry":
			if len(args) == 0 {
				printlnFn("Usage: retry <id>")
				continue
			}
			_ = a.Retry(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "clear":
			_ = a.Clear(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "pause":
			a.Pause()

		case "resume":
			a.Resume()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
