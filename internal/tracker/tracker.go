// Package tracker polls the payment gateway for PIX confirmation. One
// tracker instance owns one payment's polling lifecycle: it is started when
// both a payment id and an order are known, and it is the only thing
// allowed to cancel its own timer.
package tracker

import (
	"context"
	"sync"
	"time"

	"checkout-api/internal/gateway"
	"checkout-api/internal/model"
	"checkout-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the tracker's lifecycle state.
type State string

const (
	StateIdle      State = "IDLE"
	StatePolling   State = "POLLING"
	StateConfirmed State = "CONFIRMED"
)

// DefaultInterval is the reference poll cadence.
const DefaultInterval = 10 * time.Second

// Tracker polls a single payment until it is confirmed or torn down. A
// failed individual check never stops polling; only a CONFIRMED result or
// Stop does.
type Tracker struct {
	client   gateway.Client
	orders   repository.OrderRepository
	interval time.Duration
	logger   zerolog.Logger

	// onConfirmed runs exactly once, on the first CONFIRMED result.
	onConfirmed func(orderID uuid.UUID)

	mu        sync.Mutex
	state     State
	status    model.PaymentStatus
	paymentID string
	orderID   uuid.UUID
	cancel    context.CancelFunc
	refreshCh chan struct{}
	done      chan struct{}
	stopped   bool
}

// New creates a tracker. interval <= 0 falls back to DefaultInterval.
// onConfirmed may be nil.
func New(
	client gateway.Client,
	orders repository.OrderRepository,
	interval time.Duration,
	onConfirmed func(orderID uuid.UUID),
	logger zerolog.Logger,
) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		client:      client,
		orders:      orders,
		interval:    interval,
		onConfirmed: onConfirmed,
		logger:      logger.With().Str("component", "pix-status-tracker").Logger(),
		state:       StateIdle,
		refreshCh:   make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Start begins polling. Missing payment id or order is a no-op, not an
// error: the tracker simply stays idle. Start is one-shot; a second call on
// a running tracker does nothing.
func (t *Tracker) Start(paymentID string, orderID uuid.UUID) {
	if paymentID == "" || orderID == uuid.Nil {
		t.logger.Debug().Msg("missing payment id or order, not polling")
		return
	}

	t.mu.Lock()
	if t.state != StateIdle || t.stopped {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.state = StatePolling
	t.paymentID = paymentID
	t.orderID = orderID
	t.cancel = cancel
	t.mu.Unlock()

	t.logger.Info().
		Str("payment_id", paymentID).
		Str("order_id", orderID.String()).
		Dur("interval", t.interval).
		Msg("starting payment status polling")

	go t.loop(ctx)
}

// loop is the single logical timer driving all checks. The timer is re-armed
// only after the previous check returns, so checks never overlap.
func (t *Tracker) loop(ctx context.Context) {
	defer close(t.done)

	// Initial check before the first interval elapses.
	if t.check(ctx) {
		return
	}

	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.refreshCh:
			// Out-of-band check; the interval schedule is untouched.
			if t.check(ctx) {
				return
			}
		case <-timer.C:
			if t.confirmed() {
				return
			}
			if t.check(ctx) {
				return
			}
			timer.Reset(t.interval)
		}
	}
}

// check performs one status check and reports whether polling should stop.
func (t *Tracker) check(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}

	t.mu.Lock()
	paymentID := t.paymentID
	orderID := t.orderID
	t.mu.Unlock()

	status, err := t.client.CheckStatus(ctx, paymentID)
	if err != nil {
		// Transient failures must not abort confirmation tracking; the next
		// tick retries.
		t.logger.Warn().
			Err(err).
			Str("payment_id", paymentID).
			Msg("status check failed, will retry on next tick")
		return false
	}

	t.mu.Lock()
	t.status = status
	isConfirmed := status.Terminal() && t.state != StateConfirmed
	if isConfirmed {
		t.state = StateConfirmed
	}
	t.mu.Unlock()

	t.logger.Debug().
		Str("payment_id", paymentID).
		Str("status", string(status)).
		Msg("payment status updated")

	if !isConfirmed {
		return false
	}

	t.logger.Info().
		Str("payment_id", paymentID).
		Str("order_id", orderID.String()).
		Msg("payment confirmed, stopping polling")

	// Persist the terminal status. A write failure is logged but does not
	// un-confirm the payment.
	if err := t.orders.UpdateStatus(ctx, orderID, model.StatusConfirmed); err != nil {
		t.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to persist confirmed status")
	}

	if t.onConfirmed != nil {
		t.onConfirmed(orderID)
	}

	return true
}

// Refresh requests one out-of-band status check. It never blocks; a refresh
// already pending or a tracker that is not polling makes it a no-op.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	polling := t.state == StatePolling
	t.mu.Unlock()
	if !polling {
		t.logger.Debug().Msg("refresh requested while not polling, ignoring")
		return
	}
	select {
	case t.refreshCh <- struct{}{}:
	default:
	}
}

// Stop tears the tracker down. After Stop returns, no further status check
// will fire and the tracker can never be started. Stop is idempotent and
// safe to call on a never-started tracker.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	cancel := t.cancel
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-t.done
	t.logger.Debug().Msg("payment status polling stopped")
}

// Status returns the last observed payment status, empty until the first
// successful check.
func (t *Tracker) Status() model.PaymentStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// State returns the tracker's lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) confirmed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateConfirmed
}
