package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tourgo/internal/dbx"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/articles"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/comments"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/engagements"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/follows"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/messages"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/shares"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code path
// runs against the pool for reads and against a *sql.Tx inside a unit of work.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Follows(db dbx.DBTX) follows.Repository
	Engagements(db dbx.DBTX) engagements.Repository
	Comments(db dbx.DBTX) comments.Repository
	Shares(db dbx.DBTX) shares.Repository
	Articles(db dbx.DBTX) articles.Repository
	Messages(db dbx.DBTX) messages.Repository
}
