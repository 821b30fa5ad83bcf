package client

import (
	"context"
)

// Profile is the identity card returned by get-user-info.
type Profile struct {
	UserName  string `json:"user_name"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Follow    int64  `json:"follow"`
	Follower  int64  `json:"follower"`
	Like      int64  `json:"like"`
	Collect   int64  `json:"collect"`
}

// InboxSummary holds the unread counters of the notification channels.
type InboxSummary struct {
	Count    int `json:"count"`
	TypeList struct {
		LikeCollects struct {
			Count int `json:"count"`
		} `json:"likeCollects"`
		Comments struct {
			Count int `json:"count"`
		} `json:"comments"`
		Fans struct {
			Count int `json:"count"`
		} `json:"fans"`
		Shares struct {
			Count int `json:"count"`
		} `json:"shares"`
	} `json:"typeList"`
}

type Client interface {
	Register(ctx context.Context, username, name string, password, certify []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout()
	LoggedIn() bool
	Profile(ctx context.Context) (*Profile, error)
	Follow(ctx context.Context, username string) error
	Unfollow(ctx context.Context, username string) error
	Inbox(ctx context.Context) (*InboxSummary, error)
	Like(ctx context.Context, articleID string) error
	UploadAvatar(ctx context.Context, path string) (string, error)
}
