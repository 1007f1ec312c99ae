package app

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/auth-api/config"
	"bitwise74/auth-api/db"
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/internal/metrics"
	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/internal/store"
	"bitwise74/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// mailWorkers is how many queued verification mails are sent at once
const mailWorkers = 2

type App struct {
	Router *gin.Engine
	Deps   *internal.Deps

	queue  *service.QueueNotifier
	worker *service.MailWorker
}

// New sets up logging, the database and every service, and returns the
// ready to serve app.
func New(cfg *config.Config) (*App, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level, %w", err)
	}

	if err := makeLogger(level); err != nil {
		return nil, fmt.Errorf("failed to build logger, %w", err)
	}

	d := &internal.Deps{
		Config:  cfg,
		Metrics: metrics.New(),
	}

	d.DB, err = db.New(cfg.DB)
	if err != nil {
		return nil, err
	}

	d.Sessions, err = security.NewSessionSigner([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	hasher, err := security.NewHasher(cfg.Hasher, security.DefaultBcryptCost)
	if err != nil {
		return nil, err
	}

	a := &App{Deps: d}

	notifier, err := a.makeNotifier(cfg)
	if err != nil {
		return nil, err
	}

	d.Accounts, err = service.NewAccountService(&service.AccountOpts{
		Store:     store.New(d.DB),
		Hasher:    hasher,
		Sessions:  d.Sessions,
		Notifier:  notifier,
		Metrics:   d.Metrics,
		ClientURL: cfg.ClientURL,
	})
	if err != nil {
		return nil, err
	}

	a.Router = NewRouter(d)

	return a, nil
}

func (a *App) makeNotifier(cfg *config.Config) (service.Notifier, error) {
	switch cfg.Mail.Driver {
	case "log":
		zap.L().Warn("Verification mails are only logged, set mail.driver to smtp or queue to send them")
		return service.NewLogNotifier(zap.L()), nil
	case "smtp", "queue":
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Mail.Driver)
	}

	mailer, err := service.NewMailNotifier(service.MailConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.User,
		Password: cfg.Mail.Password,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Mail.Driver == "smtp" {
		return mailer, nil
	}

	a.worker = service.NewMailWorker(cfg.RedisAddr, mailWorkers, mailer)
	if err := a.worker.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mail worker, %w", err)
	}

	a.queue = service.NewQueueNotifier(cfg.RedisAddr)

	return a.queue, nil
}

// Shutdown waits for in flight verification mails and releases every
// resource. The HTTP server has to be stopped before calling it.
func (a *App) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.Deps.Accounts.Wait()
		close(done)
	}()

	var errs []error

	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("gave up waiting for verification mails, %w", ctx.Err()))
	}

	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.worker != nil {
		a.worker.Shutdown()
	}

	sqlDB, err := a.Deps.DB.DB()
	if err == nil {
		err = sqlDB.Close()
	}

	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
