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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Status(ctx context.Context) error
	OpenCmd(ctx context.Context, path string) error
	Tabs(ctx context.Context) error
	Tab(ctx context.Context, id string) error
	Upload(ctx context.Context, path string) error
	RemoveTab(ctx context.Context, id string) error
	Health(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the tab client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Always:
//	  - help             show available commands
//	  - status           session state and credential expiry
//	  - open <path>      navigate to a route
//	  - tabs             list tabs (requires login)
//	  - tab <id>         download a tab (requires login)
//	  - health           probe the service
//	  - exit | quit      leave the program
//
//	Not logged in:
//	  - register, login
//
//	Logged in:
//	  - upload <file>, rmtab <id>, whoami, profile, logout
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tabs %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: tabs, tab <id>, upload <file>, rmtab <id>, open <path>, whoami, profile, status, health, logout, exit")
			} else {
				printlnFn("Available commands: register, login, tabs, tab <id>, open <path>, status, health, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "status":
			_ = a.Status(ctx)

		case "health":
			_ = a.Health(ctx)

		case "l", "tabs":
			_ = a.Tabs(ctx)

		case "open", "tab", "upload", "rmtab":
			if len(args) == 0 {
				printlnFn(usage[cmd])
				continue
			}
			switch cmd {
			case "open":
				_ = a.OpenCmd(ctx, args[0])
			case "tab":
				_ = a.Tab(ctx, args[0])
			case "upload":
				_ = a.Upload(ctx, strings.Join(args, " "))
			case "rmtab":
				_ = a.RemoveTab(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var usage = map[string]string{
	"open":   "Usage: open <path>",
	"tab":    "Usage: tab <id>",
	"upload": "Usage: upload <file>",
	"rmtab":  "Usage: rmtab <id>",
}
