package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	address, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		address, 20, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), order.Pending)
	require.NoError(t, err)
	return o
}

func TestSlogNotifier(t *testing.T) {
	t.Run("should log notifications with the account id", func(t *testing.T) {
		var buf bytes.Buffer
		notifier := notify.NewSlogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
		accountID := kernel.NewUUID()

		err := notifier.Notify(t.Context(), accountID, "your order is delayed")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), accountID.String())
		assert.Contains(t, buf.String(), "your order is delayed")
	})

	t.Run("should log escalations with the order context", func(t *testing.T) {
		var buf bytes.Buffer
		notifier := notify.NewSlogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
		o := testOrder(t)

		err := notifier.Escalate(t.Context(), o, "customer cancelled mid-preparation")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), o.ID().String())
		assert.Contains(t, buf.String(), "customer cancelled mid-preparation")
	})
}

type flakyNotifier struct {
	failuresLeft int
	notifyCalls  int
	escalations  int
}

func (n *flakyNotifier) Notify(_ context.Context, _ kernel.UUID, _ string) error {
	n.notifyCalls++
	if n.failuresLeft > 0 {
		n.failuresLeft--
		return errors.New("channel unavailable")
	}
	return nil
}

func (n *flakyNotifier) Escalate(_ context.Context, _ *order.Order, _ string) error {
	n.escalations++
	if n.failuresLeft > 0 {
		n.failuresLeft--
		return errors.New("channel unavailable")
	}
	return nil
}

func TestRetryingNotifier(t *testing.T) {
	t.Run("should retry until the inner notifier succeeds", func(t *testing.T) {
		inner := &flakyNotifier{failuresLeft: 2}
		notifier := notify.NewRetryingNotifier(inner, 100*time.Millisecond, 5*time.Second)

		err := notifier.Notify(t.Context(), kernel.NewUUID(), "hello")

		require.NoError(t, err)
		assert.Equal(t, 3, inner.notifyCalls)
	})

	t.Run("should give up when the backoff budget is exhausted", func(t *testing.T) {
		inner := &flakyNotifier{failuresLeft: 1000}
		notifier := notify.NewRetryingNotifier(inner, 50*time.Millisecond, 200*time.Millisecond)

		err := notifier.Escalate(t.Context(), testOrder(t), "details")

		require.Error(t, err)
		assert.Greater(t, inner.escalations, 1)
	})
}
