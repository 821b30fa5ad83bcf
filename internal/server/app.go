// Package server wires the tourgo components together and runs the HTTP
// server until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tourgo/internal/assistant"
	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/rate"
	"github.com/dmitrijs2005/tourgo/internal/server/auth"
	"github.com/dmitrijs2005/tourgo/internal/server/config"
	"github.com/dmitrijs2005/tourgo/internal/server/httpapi"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tourgo/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN, c.DBMaxOpenConns, c.DBMaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	keys, err := auth.NewKeyExchange(c.RSAKeyBits)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("key exchange init error: %w", err)
	}

	secret := c.SecretKey
	if secret == "" {
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Warn(ctx, "no signing secret configured, sessions will not survive a restart")
	}
	tokens := auth.NewTokenIssuer([]byte(secret), c.TokenValidityDuration)

	var limiter rate.Limiter = rate.NewMemory()
	if c.RedisAddr != "" {
		limiter = rate.NewRedis(rate.NewRedisClient(c.RedisAddr), logger)
	}

	var (
		rater     services.CommentRater
		generator services.ImageGenerator
	)
	if c.AssistantAPIKey != "" {
		ai := assistant.New(c.AssistantBaseURL, c.AssistantAPIKey, c.AssistantChatModel, c.AssistantImageModel, nil)
		rater, generator = ai, ai
	} else {
		logger.Warn(ctx, "assistant API key not set, comment scoring and image generation are disabled")
	}

	svc := httpapi.Services{
		Users:         services.NewUserService(db, rm, keys, auth.NewCredentialStore(c.BcryptCost), tokens, logger),
		Graph:         services.NewGraphService(db, rm, logger),
		Ledger:        services.NewLedgerService(db, rm, rater, logger),
		Notifications: services.NewNotificationService(db, rm, logger),
		Media:         services.NewMediaService(c),
		Articles:      services.NewArticleService(db, rm, generator, c.GenerationTimeout, logger),
	}

	srv := httpapi.NewServer(c.HTTPAddr, svc, tokens, httpapi.Options{
		Limiter:            limiter,
		RateLimitPerMinute: c.RateLimitPerMinute,
		Location:           loc,
	}, logger)

	return &App{config: c, logger: logger, db: db, http: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
