// Package httpapi exposes the tourgo services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tourgo/internal/labels"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/rate"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	PublicKey() string
	Register(ctx context.Context, username, name, passwordCT, certifyCT string) error
	Exists(ctx context.Context, username string) (bool, error)
	Login(ctx context.Context, username, passwordCT string) (*services.Session, error)
	VerifyRecovery(ctx context.Context, username, certifyCT string) (bool, error)
	ChangePassword(ctx context.Context, username, passwordCT, certifyCT string) error
	Profile(ctx context.Context, username string) (*models.User, error)
	SetAvatar(ctx context.Context, username, key string) error
}

type GraphService interface {
	Follow(ctx context.Context, actor, target string) error
	Unfollow(ctx context.Context, actor, target string) error
	UnfollowByID(ctx context.Context, actor, edgeID string) error
	ListFollowing(ctx context.Context, actor string) ([]*models.Follow, error)
	ListFollowers(ctx context.Context, actor string) ([]*models.Follow, error)
	IsFollowing(ctx context.Context, actor, target string) (bool, error)
}

type LedgerService interface {
	Like(ctx context.Context, actor, articleID string) error
	Unlike(ctx context.Context, actor, articleID string) error
	HasLike(ctx context.Context, actor, articleID string) (bool, error)
	ListLikes(ctx context.Context, actor string) ([]*models.Engagement, error)
	Collect(ctx context.Context, actor, articleID string) error
	Uncollect(ctx context.Context, actor, articleID string) error
	HasCollect(ctx context.Context, actor, articleID string) (bool, error)
	ListCollects(ctx context.Context, actor string) ([]*models.Engagement, error)
	AddComment(ctx context.Context, actor, articleID, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor, commentID string) error
	UpdateScore(ctx context.Context, actor, commentID string) (int, error)
	ListComments(ctx context.Context, articleID string) ([]*models.Comment, error)
	Share(ctx context.Context, actor, articleID, recipient string) (*models.Share, error)
	Unshare(ctx context.Context, actor, shareID string) error
	ListShares(ctx context.Context, actor string) ([]*models.Share, error)
	AddHistory(ctx context.Context, actor, articleID string) (bool, error)
	ListHistories(ctx context.Context, actor string) ([]*models.Engagement, error)
}

type NotificationService interface {
	ListUnread(ctx context.Context, recipient string) (*services.Inbox, error)
	MarkRead(ctx context.Context, recipient, messageID string) error
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
	Delete(ctx context.Context, recipient, messageID string) error
}

type MediaService interface {
	UploadURL(ctx context.Context, owner string, kind services.MediaKind) (string, string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

type ArticleService interface {
	Recommended(ctx context.Context) ([]*models.Article, error)
	Get(ctx context.Context, articleID string) (*models.Article, error)
	ByLabel(ctx context.Context, tag string) ([]*models.Article, error)
	FollowedBy(ctx context.Context, username string) ([]*models.Article, error)
	Search(ctx context.Context, keyword string) ([]*models.Article, error)
	GenerateImage(ctx context.Context, text string) (string, error)
}

// Services bundles everything the handlers call into.
type Services struct {
	Users         UserService
	Graph         GraphService
	Ledger        LedgerService
	Notifications NotificationService
	Media         MediaService
	Articles      ArticleService
}

// Options tune the transport. Zero values select the defaults.
type Options struct {
	Limiter            rate.Limiter
	RateLimitPerMinute int
	Location           *time.Location
}

type Server struct {
	address string
	svc     Services
	tokens  TokenVerifier
	limiter rate.Limiter
	limit   int
	loc     *time.Location
	logger  logging.Logger
	handler http.Handler
}

func NewServer(address string, svc Services, tokens TokenVerifier, opts Options, logger logging.Logger) *Server {
	s := &Server{
		address: address,
		svc:     svc,
		tokens:  tokens,
		limiter: opts.Limiter,
		limit:   opts.RateLimitPerMinute,
		loc:     opts.Location,
		logger:  logger.With("module", "http_server"),
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(s.gate)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, "ok")
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/public-key", s.handle(s.publicKey))
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/login", s.handle(s.login))
			r.Post("/register", s.handle(s.register))
			r.Post("/forget-password", s.handle(s.forgetPassword))
			r.Post("/change-password", s.handle(s.changePassword))
		})
		r.Post("/exists", s.handle(s.exists))
		r.Get("/get-user-info", s.handle(s.userInfo))
		r.Post("/set-avatar", s.handle(s.setAvatar))
	})

	r.Route("/api/follows", func(r chi.Router) {
		r.Post("/add-follow", s.handle(s.addFollow))
		r.Post("/remove-follow", s.handle(s.removeFollow))
		r.Post("/is-follow", s.handle(s.isFollow))
		r.Get("/get-follows", s.handle(s.getFollows))
		r.Get("/get-fans", s.handle(s.getFans))
	})

	r.Route("/api/likes", func(r chi.Router) {
		r.Post("/add-like", s.handle(s.addLike))
		r.Post("/delete-like", s.handle(s.deleteLike))
		r.Post("/has-like", s.handle(s.hasLike))
		r.Get("/get-likes", s.handle(s.getLikes))
	})

	r.Route("/api/collects", func(r chi.Router) {
		r.Post("/add-collect", s.handle(s.addCollect))
		r.Post("/delete-collect", s.handle(s.deleteCollect))
		r.Post("/has-collect", s.handle(s.hasCollect))
		r.Get("/get-collects", s.handle(s.getCollects))
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.Post("/add-comment", s.handle(s.addComment))
		r.Post("/delete-comment", s.handle(s.deleteComment))
		r.Post("/update-score", s.handle(s.updateScore))
		r.Post("/get-comments", s.handle(s.getComments))
	})

	r.Route("/api/shares", func(r chi.Router) {
		r.Post("/add-share", s.handle(s.addShare))
		r.Post("/delete-share", s.handle(s.deleteShare))
		r.Get("/get-shares", s.handle(s.getShares))
	})

	r.Route("/api/histories", func(r chi.Router) {
		r.Post("/add-history", s.handle(s.addHistory))
		r.Get("/get-histories", s.handle(s.getHistories))
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Get("/get-unread-messages", s.handle(s.unreadMessages))
		r.Get("/read-all", s.handle(s.readAll))
		r.Post("/mark-read", s.handle(s.markRead))
		r.Post("/delete-message", s.handle(s.deleteMessage))
	})

	r.Post("/api/media/upload-url", s.handle(s.uploadURL))

	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/get-recommand-articles", s.handle(s.recommended))
		r.Post("/get-article-info", s.handle(s.articleInfo))
		r.Post("/get-label-articles", s.handle(s.labelArticles))
		r.Post("/get-follow-articles", s.handle(s.followArticles))
		r.Post("/get-img", s.handle(s.generateImage))
	})

	r.Post("/api/searchs/search-articles", s.handle(s.searchArticles))
	r.Get("/api/labels/get-labels", s.handle(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return labels.All(), nil
	}))

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
