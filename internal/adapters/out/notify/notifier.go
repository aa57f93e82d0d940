// Package notify adapts the core's Notifier port. The slog notifier writes
// notifications to the structured log (the delivery channel of the reference
// deployment); the retrying decorator adds bounded exponential backoff for
// flaky downstream channels.
package notify

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

// SlogNotifier delivers notifications by writing them to the structured log.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a log-backed notifier.
func NewSlogNotifier(logger *slog.Logger) SlogNotifier {
	return SlogNotifier{logger: logger.With("component", "notifier")}
}

// Notify writes a per-account notification entry.
func (n SlogNotifier) Notify(ctx context.Context, accountID kernel.UUID, message string) error {
	n.logger.InfoContext(ctx, "notification",
		"account_id", accountID.String(),
		"message", message,
	)
	return nil
}

// Escalate writes a helpline escalation entry with the order context.
func (n SlogNotifier) Escalate(ctx context.Context, o *order.Order, details string) error {
	n.logger.WarnContext(ctx, "helpline escalation",
		"order_id", o.ID().String(),
		"status", o.Status().String(),
		"details", details,
	)
	return nil
}

// RetryingNotifier decorates a Notifier with exponential backoff. The
// escalation chain itself never retries; this is where retry policy lives.
type RetryingNotifier struct {
	inner       ports.Notifier
	maxInterval time.Duration
	maxElapsed  time.Duration
}

// NewRetryingNotifier wraps inner with bounded exponential backoff.
func NewRetryingNotifier(inner ports.Notifier, maxInterval, maxElapsed time.Duration) *RetryingNotifier {
	return &RetryingNotifier{
		inner:       inner,
		maxInterval: maxInterval,
		maxElapsed:  maxElapsed,
	}
}

// Notify retries the inner call until it succeeds or the backoff budget runs out.
func (n *RetryingNotifier) Notify(ctx context.Context, accountID kernel.UUID, message string) error {
	return backoff.Retry(func() error {
		return n.inner.Notify(ctx, accountID, message)
	}, n.newBackoff(ctx))
}

// Escalate retries the inner call until it succeeds or the backoff budget runs out.
func (n *RetryingNotifier) Escalate(ctx context.Context, o *order.Order, details string) error {
	return backoff.Retry(func() error {
		return n.inner.Escalate(ctx, o, details)
	}, n.newBackoff(ctx))
}

func (n *RetryingNotifier) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = n.maxInterval
	b.MaxElapsedTime = n.maxElapsed
	return backoff.WithContext(b, ctx)
}
