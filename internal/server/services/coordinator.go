package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tourgo/internal/dbx"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/articles"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/comments"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/engagements"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/follows"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/messages"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/shares"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/users"
)

// unit gives a unit of work access to repositories bound to one handle,
// either the pool or the open transaction.
type unit struct {
	h  dbx.DBTX
	rm repomanager.RepositoryManager
}

func (u unit) users() users.Repository             { return u.rm.Users(u.h) }
func (u unit) follows() follows.Repository         { return u.rm.Follows(u.h) }
func (u unit) engagements() engagements.Repository { return u.rm.Engagements(u.h) }
func (u unit) comments() comments.Repository       { return u.rm.Comments(u.h) }
func (u unit) shares() shares.Repository           { return u.rm.Shares(u.h) }
func (u unit) articles() articles.Repository       { return u.rm.Articles(u.h) }
func (u unit) messages() messages.Repository       { return u.rm.Messages(u.h) }

// coordinator runs every social mutation as one transaction: edge change,
// counter adjustments and the notification insert commit together or not
// at all.
type coordinator struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func newCoordinator(db *sql.DB, rm repomanager.RepositoryManager) coordinator {
	return coordinator{db: db, rm: rm}
}

func (c coordinator) read() unit {
	return unit{h: c.db, rm: c.rm}
}

func (c coordinator) run(ctx context.Context, fn func(ctx context.Context, u unit) error) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, unit{h: tx, rm: c.rm})
	})
}
