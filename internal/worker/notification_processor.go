// Package worker drains the notification queue and hands jobs to a
// mailer.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/queue"
)

// retryBackoff is the pause after a dequeue or processing error.
const retryBackoff = 2 * time.Second

// Mailer sends a notification email. Implementations decide transport;
// the processor only cares about success or failure.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer is the default Mailer: it logs instead of sending. Used
// when no SMTP provider is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message that would have been delivered.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("notification email",
		zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// NotificationProcessor turns queued jobs into emails.
type NotificationProcessor struct {
	queue  *queue.Queue
	mailer Mailer
	from   string
	logger *zap.Logger
}

// NewNotificationProcessor creates a notification processor.
func NewNotificationProcessor(q *queue.Queue, mailer Mailer, from string, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{queue: q, mailer: mailer, from: from, logger: logger}
}

// Process executes one notification job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeEnrollmentConfirmed, queue.JobTypeEnrollmentRemoved:
		var payload queue.EnrollmentPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		subject := fmt.Sprintf("Enrollment confirmed: %s", payload.FairName)
		body := fmt.Sprintf("%s is now enrolled in %s.", payload.CompanyName, payload.FairName)
		if job.Type == queue.JobTypeEnrollmentRemoved {
			subject = fmt.Sprintf("Enrollment removed: %s", payload.FairName)
			body = fmt.Sprintf("%s is no longer enrolled in %s.", payload.CompanyName, payload.FairName)
		}
		return p.mailer.Send(ctx, p.from, subject, body)
	case queue.JobTypeFairLive:
		var payload queue.FairLivePayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		subject := fmt.Sprintf("Fair is live: %s", payload.FairName)
		body := fmt.Sprintf("%s has opened its doors.", payload.FairName)
		return p.mailer.Send(ctx, p.from, subject, body)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("notification worker stopping")
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(retryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(retryBackoff)
			continue
		}
	}
}
