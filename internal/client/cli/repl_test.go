package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error    { f.loggedIn = true; return f.record("login") }
func (f *fakeExec) Logout(context.Context) error   { f.loggedIn = false; return f.record("logout") }
func (f *fakeExec) Profile(context.Context) error  { return f.record("me") }
func (f *fakeExec) Inbox(context.Context) error    { return f.record("inbox") }
func (f *fakeExec) Follow(_ context.Context, u string) error {
	return f.record("follow " + u)
}
func (f *fakeExec) Unfollow(_ context.Context, u string) error {
	return f.record("unfollow " + u)
}
func (f *fakeExec) Avatar(_ context.Context, p string) error {
	return f.record("avatar " + p)
}
func (f *fakeExec) Like(_ context.Context, id string) error {
	return f.record("like " + id)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}
	input := strings.Join([]string{
		"login",
		"",
		"follow bob",
		"unfollow bob",
		"like a1",
		"avatar me.png",
		"me",
		"inbox",
		"logout",
		"exit",
		"register",
	}, "\n")

	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "follow bob", "unfollow bob", "like a1", "avatar me.png", "me", "inbox", "logout"}, f.calls)
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "" },
		bufio.NewScanner(strings.NewReader("follow\nfrobnicate\nhelp\n")))

	assert.Empty(t, f.calls)
	assert.Contains(t, *out, "Usage:follow <user>")
	assert.Contains(t, *out, "Unknown command:frobnicate")
	assert.Contains(t, *out, "Available commands: register, login, exit")
}

func TestRunREPL_HelpWhenLoggedIn(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{loggedIn: true}

	runREPL(context.Background(), f, func() string { return "(alice)" },
		bufio.NewScanner(strings.NewReader("help")))

	assert.Contains(t, *out, "tourgo (alice)> ")
	assert.Contains(t, *out, "Available commands: me, avatar, follow, unfollow, like, inbox, logout, exit")
}
