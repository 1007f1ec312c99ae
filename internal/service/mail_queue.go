package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeVerificationMail is the asynq task type carrying a verification mail
const TypeVerificationMail = "mail:verification"

type verificationPayload struct {
	To   string `json:"to"`
	Link string `json:"link"`
}

// NewVerificationMailTask builds the queued form of a verification mail.
// Failed deliveries are not retried.
func NewVerificationMailTask(to, link string) (*asynq.Task, error) {
	b, err := json.Marshal(verificationPayload{To: to, Link: link})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeVerificationMail, b, asynq.MaxRetry(0)), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands verification mails to a redis backed queue, a
// MailWorker does the actual delivery.
type QueueNotifier struct {
	client enqueuer
	closer func() error
}

func NewQueueNotifier(redisAddr string) *QueueNotifier {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	return &QueueNotifier{client: c, closer: c.Close}
}

func (q *QueueNotifier) SendVerification(ctx context.Context, to, link string) error {
	task, err := NewVerificationMailTask(to, link)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue verification mail, %w", err)
	}

	zap.L().Debug("Verification mail queued", zap.String("taskID", info.ID), zap.String("queue", info.Queue))
	return nil
}

func (q *QueueNotifier) Close() error {
	if q.closer == nil {
		return nil
	}

	return q.closer()
}

// MailWorker consumes queued verification mails and delivers them with mailer
type MailWorker struct {
	server *asynq.Server
	mailer Notifier
}

func NewMailWorker(redisAddr string, concurrency int, mailer Notifier) *MailWorker {
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: concurrency,
		Logger:      zap.L().Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
			zap.L().Error("Verification mail task failed", zap.Error(err), zap.String("type", t.Type()))
		}),
	})

	return &MailWorker{server: srv, mailer: mailer}
}

func (w *MailWorker) HandleVerificationMail(ctx context.Context, t *asynq.Task) error {
	var p verificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("bad verification mail payload, %v: %w", err, asynq.SkipRetry)
	}

	if p.To == "" || p.Link == "" {
		return fmt.Errorf("incomplete verification mail payload: %w", asynq.SkipRetry)
	}

	if err := w.mailer.SendVerification(ctx, p.To, p.Link); err != nil {
		return errors.Join(ErrNotification, err)
	}

	return nil
}

// Start begins processing in the background
func (w *MailWorker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeVerificationMail, w.HandleVerificationMail)

	return w.server.Start(mux)
}

func (w *MailWorker) Shutdown() {
	w.server.Shutdown()
}
