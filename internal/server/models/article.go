package models

import "time"

type Article struct {
	ID        string
	User      string
	Title     string
	Content   string
	Labels    []string
	Cover     string
	Like      int64
	Collect   int64
	Comment   int64
	Share     int64
	CreatedAt time.Time
}
