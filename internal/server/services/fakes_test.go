package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/dbx"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/articles"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/comments"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/engagements"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/follows"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/messages"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/shares"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// --- helpers ---

// newTxDB returns an in-memory database used only to open and close
// transactions; the fakes below keep the actual state.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type edgeKey struct{ user, target string }

// memStore is an in-memory stand-in for the PostgreSQL schema shared by all
// fake repositories of one test.
type memStore struct {
	mu sync.Mutex

	clock    time.Time
	users    map[string]*models.User
	articles map[string]*models.Article
	follows  map[string]*models.Follow
	engaged  map[engagements.Kind]map[edgeKey]*models.Engagement
	comments map[string]*models.Comment
	shares   map[string]*models.Share
	messages map[string]*models.Message

	messageErr error
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		users:    map[string]*models.User{},
		articles: map[string]*models.Article{},
		follows:  map[string]*models.Follow{},
		engaged: map[engagements.Kind]map[edgeKey]*models.Engagement{
			engagements.KindLike:    {},
			engagements.KindCollect: {},
			engagements.KindHistory: {},
		},
		comments: map[string]*models.Comment{},
		shares:   map[string]*models.Share{},
		messages: map[string]*models.Message{},
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addUser(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.users[n] = &models.User{UserName: n, Name: n, CreatedAt: s.tick()}
	}
}

func (s *memStore) addArticle(id, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[id] = &models.Article{ID: id, User: owner, Title: id, CreatedAt: s.tick()}
}

func (s *memStore) user(name string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[name]
}

func (s *memStore) article(id string) models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.articles[id]
}

func (s *memStore) inbox(receiver string) []*models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Message
	for _, m := range s.messages {
		if m.Receiver == receiver {
			out = append(out, m)
		}
	}
	return out
}

type memManager struct {
	s *memStore
}

func (m memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m memManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.s} }
func (m memManager) Follows(dbx.DBTX) follows.Repository          { return memFollows{m.s} }
func (m memManager) Engagements(dbx.DBTX) engagements.Repository  { return memEngagements{m.s} }
func (m memManager) Comments(dbx.DBTX) comments.Repository        { return memComments{m.s} }
func (m memManager) Shares(dbx.DBTX) shares.Repository            { return memShares{m.s} }
func (m memManager) Articles(dbx.DBTX) articles.Repository        { return memArticles{m.s} }
func (m memManager) Messages(dbx.DBTX) messages.Repository        { return memMessages{m.s} }

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.UserName]; ok {
		return common.ErrConflict
	}
	cp := *u
	cp.CreatedAt = r.s.tick()
	r.s.users[u.UserName] = &cp
	return nil
}

func (r memUsers) GetByUserName(_ context.Context, name string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) Exists(_ context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[name]
	return ok, nil
}

func (r memUsers) GetDigest(ctx context.Context, name string, kind users.SecretKind) (string, error) {
	u, err := r.GetByUserName(ctx, name)
	if err != nil {
		return "", err
	}
	if kind == users.SecretCertify {
		return u.CertifyDigest, nil
	}
	return u.PasswordDigest, nil
}

func (r memUsers) UpdateDigest(_ context.Context, name string, kind users.SecretKind, digest string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[name]
	if !ok {
		return common.ErrNotFound
	}
	if kind == users.SecretCertify {
		u.CertifyDigest = digest
	} else {
		u.PasswordDigest = digest
	}
	return nil
}

func (r memUsers) SetAvatar(_ context.Context, name, avatar string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[name]
	if !ok {
		return common.ErrNotFound
	}
	u.Avatar = avatar
	return nil
}

func (r memUsers) AdjustCounter(_ context.Context, name string, c users.Counter, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[name]
	if !ok {
		return common.ErrNotFound
	}
	d := int64(delta)
	switch c {
	case users.CounterFollow:
		u.Follow += d
	case users.CounterFollower:
		u.Follower += d
	case users.CounterLike:
		u.Like += d
	case users.CounterCollect:
		u.Collect += d
	case users.CounterHistory:
		u.History += d
	default:
		return common.ErrValidation
	}
	return nil
}

// --- follows ---

type memFollows struct{ s *memStore }

func (r memFollows) find(user, follow string) *models.Follow {
	for _, f := range r.s.follows {
		if f.User == user && f.Follow == follow {
			return f
		}
	}
	return nil
}

func (r memFollows) Create(_ context.Context, f *models.Follow) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.find(f.User, f.Follow) != nil {
		return false, nil
	}
	cp := *f
	cp.CreatedAt = r.s.tick()
	r.s.follows[f.ID] = &cp
	return true, nil
}

func (r memFollows) Delete(_ context.Context, user, follow string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f := r.find(user, follow)
	if f == nil {
		return false, nil
	}
	delete(r.s.follows, f.ID)
	return true, nil
}

func (r memFollows) GetForUpdate(_ context.Context, id string) (*models.Follow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.follows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r memFollows) DeleteByID(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.follows[id]; !ok {
		return false, nil
	}
	delete(r.s.follows, id)
	return true, nil
}

func (r memFollows) Exists(_ context.Context, user, follow string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(user, follow) != nil, nil
}

func (r memFollows) list(match func(*models.Follow) bool) []*models.Follow {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Follow
	for _, f := range r.s.follows {
		if match(f) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memFollows) ListFollowing(_ context.Context, user string) ([]*models.Follow, error) {
	return r.list(func(f *models.Follow) bool { return f.User == user }), nil
}

func (r memFollows) ListFollowers(_ context.Context, user string) ([]*models.Follow, error) {
	return r.list(func(f *models.Follow) bool { return f.Follow == user }), nil
}

// --- engagements ---

type memEngagements struct{ s *memStore }

func (r memEngagements) Create(_ context.Context, kind engagements.Kind, e *models.Engagement) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := edgeKey{e.User, e.ArticleID}
	if _, ok := r.s.engaged[kind][k]; ok {
		return false, nil
	}
	cp := *e
	cp.CreatedAt = r.s.tick()
	r.s.engaged[kind][k] = &cp
	return true, nil
}

func (r memEngagements) Delete(_ context.Context, kind engagements.Kind, user, articleID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := edgeKey{user, articleID}
	if _, ok := r.s.engaged[kind][k]; !ok {
		return false, nil
	}
	delete(r.s.engaged[kind], k)
	return true, nil
}

func (r memEngagements) Exists(_ context.Context, kind engagements.Kind, user, articleID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.engaged[kind][edgeKey{user, articleID}]
	return ok, nil
}

func (r memEngagements) ListByUser(_ context.Context, kind engagements.Kind, user string) ([]*models.Engagement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Engagement
	for k, e := range r.s.engaged[kind] {
		if k.user != user {
			continue
		}
		cp := *e
		if a, ok := r.s.articles[e.ArticleID]; ok {
			cp.Owner = a.User
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- comments ---

type memComments struct{ s *memStore }

func (r memComments) Create(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.CreatedAt = r.s.tick()
	cp := *c
	r.s.comments[c.ID] = &cp
	return nil
}

func (r memComments) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memComments) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}

func (r memComments) UpdateScore(_ context.Context, id string, score int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return common.ErrNotFound
	}
	c.Score = score
	return nil
}

func (r memComments) ListByArticle(_ context.Context, articleID string) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Comment
	for _, c := range r.s.comments {
		if c.ArticleID == articleID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- shares ---

type memShares struct{ s *memStore }

func (r memShares) Create(_ context.Context, sh *models.Share) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh.CreatedAt = r.s.tick()
	cp := *sh
	r.s.shares[sh.ID] = &cp
	return nil
}

func (r memShares) GetByID(_ context.Context, id string) (*models.Share, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shares[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (r memShares) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shares[id]; !ok {
		return false, nil
	}
	delete(r.s.shares, id)
	return true, nil
}

func (r memShares) ListByUser(_ context.Context, user string) ([]*models.Share, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Share
	for _, sh := range r.s.shares {
		if sh.User == user {
			cp := *sh
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- articles ---

type memArticles struct{ s *memStore }

func (r memArticles) GetOwner(_ context.Context, id string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.articles[id]
	if !ok {
		return "", common.ErrNotFound
	}
	return a.User, nil
}

func (r memArticles) AdjustCounter(_ context.Context, id string, c articles.Counter, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.articles[id]
	if !ok {
		return common.ErrNotFound
	}
	d := int64(delta)
	switch c {
	case articles.CounterLike:
		a.Like += d
	case articles.CounterCollect:
		a.Collect += d
	case articles.CounterComment:
		a.Comment += d
	case articles.CounterShare:
		a.Share += d
	default:
		return common.ErrValidation
	}
	return nil
}

func (r memArticles) Get(_ context.Context, id string) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.articles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memArticles) all(match func(*models.Article) bool, limit int) []*models.Article {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Article
	for _, a := range r.s.articles {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r memArticles) ListRecent(_ context.Context, limit int) ([]*models.Article, error) {
	return r.all(func(*models.Article) bool { return true }, limit), nil
}

func (r memArticles) ListByLabel(_ context.Context, label string, limit int) ([]*models.Article, error) {
	return r.all(func(a *models.Article) bool {
		for _, l := range a.Labels {
			if l == label {
				return true
			}
		}
		return false
	}, limit), nil
}

func (r memArticles) ListFollowedBy(ctx context.Context, follower string, limit int) ([]*models.Article, error) {
	following, _ := memFollows{r.s}.ListFollowing(ctx, follower)
	set := map[string]bool{}
	for _, f := range following {
		set[f.Follow] = true
	}
	return r.all(func(a *models.Article) bool { return set[a.User] }, limit), nil
}

func (r memArticles) Search(_ context.Context, keyword string, limit int) ([]*models.Article, error) {
	return r.all(func(a *models.Article) bool { return a.Title == keyword }, limit), nil
}

// --- messages ---

type memMessages struct{ s *memStore }

var errMessageInsert = errors.New("message insert failed")

func (r memMessages) Create(_ context.Context, m *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.messageErr != nil {
		return r.s.messageErr
	}
	m.CreatedAt = r.s.tick()
	cp := *m
	r.s.messages[m.ID] = &cp
	return nil
}

func (r memMessages) ListByReceiver(ctx context.Context, receiver string) ([]*models.Message, error) {
	out := r.s.inbox(receiver)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	cps := make([]*models.Message, len(out))
	for i, m := range out {
		cp := *m
		cps[i] = &cp
	}
	return cps, nil
}

func (r memMessages) MarkRead(_ context.Context, id, receiver string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok || m.Receiver != receiver {
		return false, nil
	}
	m.Read = true
	return true, nil
}

func (r memMessages) MarkAllRead(_ context.Context, receiver string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.messages {
		if m.Receiver == receiver && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r memMessages) Delete(_ context.Context, id, receiver string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok || m.Receiver != receiver {
		return false, nil
	}
	delete(r.s.messages, id)
	return true, nil
}

func followEdge(id, user, follow string) *models.Follow {
	return &models.Follow{ID: id, User: user, Follow: follow}
}
