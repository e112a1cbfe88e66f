package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
// In tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Files(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Dashboard(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: files [page] (l), refresh, upload <path> [description], " +
		"delete <id>, download <id> [filename], dashboard, whoami, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the GophStorage CLI.
//
// It reads a line from lines, parses the first token as the command and
// dispatches to a. The loop exits on EOF or when the user types "exit" or
// "quit". Interactive prompts inside commands read from the same reader.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                          - show available commands
//	  - register                      - create an account
//	  - login                         - authenticate
//	  - exit | quit                   - leave the program
//
//	Logged in:
//	  - files [page] | l [page]       - show one page of the gallery
//	  - refresh                       - re-fetch files and dashboard
//	  - upload <path> [description]   - upload a local file
//	  - delete <id>                   - delete a file (asks for confirmation)
//	  - download <id> [filename]      - save a file locally
//	  - dashboard                     - storage usage overview
//	  - whoami                        - show the signed-in user
//	  - logout                        - log out
//
// Errors returned by command handlers are logged and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, lines *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("gs %s> ", statusFn()))
		line, err := lines.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "l", "files":
			cmdErr = a.Files(ctx, args)

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "upload":
			cmdErr = a.Upload(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "download":
			cmdErr = a.Download(ctx, args)

		case "dashboard":
			cmdErr = a.Dashboard(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			log.Printf("%s: %s", cmd, cmdErr)
		}
	}
}
