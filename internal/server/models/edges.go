package models

import "time"

type Follow struct {
	ID        string
	User      string
	Follow    string
	CreatedAt time.Time
}

// Engagement is a like or collect edge. Owner is filled on listing reads
// and holds the article author.
type Engagement struct {
	ID        string
	User      string
	ArticleID string
	Owner     string
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	User      string
	ArticleID string
	Text      string
	Score     int
	CreatedAt time.Time
}

type Share struct {
	ID        string
	User      string
	ArticleID string
	Recipient string
	CreatedAt time.Time
}
