package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/notifier"
)

// Job is a single customer notification ready for delivery.
type Job struct {
	Contact string
	Subject string
	Body    string
}

// NotificationWorker drains queued notification jobs so a slow or failing
// notifier never stalls ticket mutation latency. Jobs are enqueued only
// after the mutation that produced them committed.
type NotificationWorker struct {
	jobs   chan Job
	sink   notifier.Notifier
	logger *zap.Logger
}

// NewNotificationWorker creates a worker with the given queue capacity.
func NewNotificationWorker(queueSize int, sink notifier.Notifier, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &NotificationWorker{
		jobs:   make(chan Job, queueSize),
		sink:   sink,
		logger: logger,
	}
}

// Enqueue hands a job to the delivery loop without blocking. Returns false
// when the queue is full and the job was dropped.
func (w *NotificationWorker) Enqueue(job Job) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

// Run consumes the queue until ctx is cancelled. Delivery failures are
// logged and swallowed.
func (w *NotificationWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			if err := w.sink.Notify(ctx, job.Contact, job.Subject, job.Body); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("contact", job.Contact),
					zap.String("subject", job.Subject),
					zap.Error(err))
			}
		}
	}
}
