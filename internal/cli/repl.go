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
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Day(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Summary(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	Checkout(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Reopen(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Swap(ctx context.Context, args []string) error
	Bikes(ctx context.Context, args []string) error
	Companion(ctx context.Context, args []string) error
	Overnight(ctx context.Context, args []string) error
	CancelOvernight(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL starts the console's read–eval–print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a', passing the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on scanner EOF or when the user types "exit" or "quit".
//
// Commands (logged out): help, login, exit.
//
// Commands (logged in):
//
//	day [yyyy-mm-dd]        — set the working date (no argument: today)
//	filter [text]           — set or clear the daily-view text filter
//	list                    — print the daily view for the working date
//	summary                 — print year/month/day entry counts
//	open <client> <bike> [category]
//	checkout <entry>        — register a normal exit
//	remove <entry>          — force-close (access removal), asks y/n
//	reopen <entry>          — revert a closure, asks y/n
//	edit <entry>            — interactive full edit
//	swap <entry> <bike>     — move an open entry to another of the client's bikes
//	bikes <client>          — list the client's bikes with no open entry
//	companion <entry> <bike>
//	overnight <entry>       — chain into the next day, asks y/n
//	cancelovernight <entry> — undo an overnight chain, asks y/n
//	export csv|report [s3]
//	logout, exit
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("reg> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: day, filter, (l)ist, summary, open, checkout, remove, reopen, edit, swap, bikes, companion, overnight, cancelovernight, export, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "day":
			_ = a.Day(ctx, args)

		case "filter":
			_ = a.Filter(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "summary":
			_ = a.Summary(ctx)

		case "open":
			_ = a.Open(ctx, args)

		case "checkout":
			_ = a.Checkout(ctx, args)

		case "remove":
			_ = a.Remove(ctx, args)

		case "reopen":
			_ = a.Reopen(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "swap":
			_ = a.Swap(ctx, args)

		case "bikes":
			_ = a.Bikes(ctx, args)

		case "companion":
			_ = a.Companion(ctx, args)

		case "overnight":
			_ = a.Overnight(ctx, args)

		case "cancelovernight":
			_ = a.CancelOvernight(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
