// Package models holds the server-side records persisted in PostgreSQL.
package models

import "time"

// User is an identity with its denormalized counters. The digests never
// leave the service layer.
type User struct {
	UserName       string
	Name           string
	PasswordDigest string
	CertifyDigest  string
	Avatar         string
	Bio            string
	Follow         int64
	Follower       int64
	Like           int64
	Collect        int64
	Article        int64
	Plan           int64
	Draft          int64
	History        int64
	CreatedAt      time.Time
}
