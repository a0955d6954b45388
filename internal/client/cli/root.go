package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

func (a *App) getStatus() string {
	if a.email != "" {
		return fmt.Sprintf("(%s)", a.email)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Time Capsule CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("capsule %s> ", a.getStatus())
		if !scanner.Scan() {
			break
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
			if a.isLoggedIn() {
				printlnFn("Available commands: create, (l)ist, show <id>, files <id>, get <id> <file-id>, reflect, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "create":
			a.create(ctx)
		case "l", "list":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "files":
			a.files(ctx, args)
		case "get":
			a.get(ctx, args)
		case "reflect":
			a.reflect(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
