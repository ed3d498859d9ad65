package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. App satisfies it;
// tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	RequestCode(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	PasswordLogin(ctx context.Context) error
	Signup(ctx context.Context) error

	Me(ctx context.Context) error
	Edit(ctx context.Context) error
	Logout(ctx context.Context) error

	Users(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	SetRole(ctx context.Context) error
	SetPassword(ctx context.Context) error
	DeleteUser(ctx context.Context) error
	Export(ctx context.Context) error
}

func help(a execIface) {
	switch {
	case a.isAdmin():
		printlnFn("Available commands: me, edit, users [page [size]], stats, setrole, setpass, deluser, export, logout, exit")
	case a.isLoggedIn():
		printlnFn("Available commands: me, edit, logout, exit")
	default:
		printlnFn("Available commands: code, verify, resend, login, signup, exit")
	}
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers log their
// own errors. That keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("memberctl (type 'help' for commands)")

	for {
		fmt.Printf("memberctl %s> ", statusFn())
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
			help(a)

		case "code":
			_ = a.RequestCode(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "login":
			_ = a.PasswordLogin(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "me":
			_ = a.Me(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "u", "users":
			_ = a.Users(ctx, args)

		case "stats":
			_ = a.Stats(ctx)

		case "setrole":
			_ = a.SetRole(ctx)

		case "setpass":
			_ = a.SetPassword(ctx)

		case "deluser":
			_ = a.DeleteUser(ctx)

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
