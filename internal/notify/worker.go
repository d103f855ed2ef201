package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Worker drains a Queue into a Mailer. Failed deliveries are logged and
// dropped; there is no retry.
type Worker struct {
	queue   Queue
	mailer  Mailer
	log     *zap.Logger
	timeout time.Duration
}

func NewWorker(queue Queue, mailer Mailer, log *zap.Logger) *Worker {
	return &Worker{queue: queue, mailer: mailer, log: log, timeout: 30 * time.Second}
}

func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("mail worker started")
	defer w.log.Info("mail worker stopped")
	return w.queue.Consume(ctx, w.deliver)
}

func (w *Worker) deliver(ctx context.Context, e Email) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.mailer.Send(ctx, e); err != nil {
		w.log.Error("mail delivery failed",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err))
		return err
	}
	w.log.Info("mail sent",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.Duration("took", time.Since(start)))
	return nil
}
