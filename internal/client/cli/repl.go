package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Follow(ctx context.Context, target string) error
	Unfollow(ctx context.Context, target string) error
	Like(ctx context.Context, articleID string) error
	Inbox(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
}

// runREPL reads commands from scanner until EOF or "exit"/"quit".
//
//	Not logged in: help, register, login, exit
//	Logged in:     help, me, avatar <file>, follow <user>, unfollow <user>,
//	               like <article>, inbox, logout, exit
//
// Errors from command handlers are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tourgo %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withArg := func(usage string, fn func(string) error) {
			if len(args) == 0 {
				printlnFn("Usage:", usage)
				return
			}
			_ = fn(args[0])
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, avatar, follow, unfollow, like, inbox, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Profile(ctx)

		case "follow":
			withArg("follow <user>", func(s string) error { return a.Follow(ctx, s) })

		case "unfollow":
			withArg("unfollow <user>", func(s string) error { return a.Unfollow(ctx, s) })

		case "like":
			withArg("like <article id>", func(s string) error { return a.Like(ctx, s) })

		case "avatar":
			withArg("avatar <file>", func(s string) error { return a.Avatar(ctx, s) })

		case "inbox":
			_ = a.Inbox(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
