package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/tourgo/internal/client/client"
	"github.com/dmitrijs2005/tourgo/internal/client/config"
	"github.com/dmitrijs2005/tourgo/internal/common"
)

type App struct {
	config   *config.Config
	api      client.Client
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) *App {
	api := client.NewHTTPClient(c.ServerURL, &http.Client{Timeout: c.RequestTimeout})
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to tourgo CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return "(" + a.userName + ")"
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) report(err error) error {
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
	return err
}

func (a *App) Register(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return a.report(err)
	}
	name, err := GetSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := GetSecret(a.out, "Enter password")
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	certify, err := GetSecret(a.out, "Enter recovery answer")
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(certify)

	if err := a.api.Register(ctx, userName, name, password, certify); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Registered", userName)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := GetSecret(a.out, "Enter password")
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, password); err != nil {
		return a.report(err)
	}
	a.userName = userName
	fmt.Fprintln(a.out, "Logged in as", userName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.api.Profile(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s (%s)\nfollowing: %d  followers: %d  likes: %d  collects: %d\n",
		p.UserName, p.Name, p.Follow, p.Follower, p.Like, p.Collect)
	return nil
}

func (a *App) Follow(ctx context.Context, target string) error {
	if err := a.api.Follow(ctx, target); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Following", target)
	return nil
}

func (a *App) Unfollow(ctx context.Context, target string) error {
	if err := a.api.Unfollow(ctx, target); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Unfollowed", target)
	return nil
}

func (a *App) Like(ctx context.Context, articleID string) error {
	if err := a.api.Like(ctx, articleID); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Liked", articleID)
	return nil
}

func (a *App) Inbox(ctx context.Context) error {
	in, err := a.api.Inbox(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "unread: %d (likes/collects %d, comments %d, fans %d, shares %d)\n",
		in.Count, in.TypeList.LikeCollects.Count, in.TypeList.Comments.Count,
		in.TypeList.Fans.Count, in.TypeList.Shares.Count)
	return nil
}

func (a *App) Avatar(ctx context.Context, path string) error {
	key, err := a.api.UploadAvatar(ctx, path)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Avatar updated:", key)
	return nil
}
