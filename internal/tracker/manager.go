package tracker

import (
	"sync"
	"time"

	"checkout-api/internal/gateway"
	"checkout-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns at most one tracker per order. Registering a new payment id
// for an order tears the previous tracker down first, so a replaced payment
// reference can never keep polling.
type Manager struct {
	client   gateway.Client
	orders   repository.OrderRepository
	interval time.Duration
	logger   zerolog.Logger

	mu       sync.Mutex
	trackers map[uuid.UUID]*Tracker
	closed   bool
}

// NewManager creates a tracker manager.
func NewManager(client gateway.Client, orders repository.OrderRepository, interval time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		client:   client,
		orders:   orders,
		interval: interval,
		logger:   logger.With().Str("component", "tracker-manager").Logger(),
		trackers: make(map[uuid.UUID]*Tracker),
	}
}

// Track starts polling a payment for an order, replacing any tracker the
// order already had.
func (m *Manager) Track(paymentID string, orderID uuid.UUID) {
	if paymentID == "" || orderID == uuid.Nil {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	previous := m.trackers[orderID]
	var t *Tracker
	t = New(m.client, m.orders, m.interval, func(confirmedOrder uuid.UUID) {
		m.remove(confirmedOrder, t)
	}, m.logger)
	m.trackers[orderID] = t
	m.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}
	t.Start(paymentID, orderID)
}

// Refresh performs one out-of-band check for the order's tracker, if any.
func (m *Manager) Refresh(orderID uuid.UUID) {
	m.mu.Lock()
	t := m.trackers[orderID]
	m.mu.Unlock()
	if t != nil {
		t.Refresh()
	}
}

// remove drops a tracker whose payment confirmed. The identity check keeps a
// late confirmation from a replaced tracker from evicting its replacement.
func (m *Manager) remove(orderID uuid.UUID, t *Tracker) {
	m.mu.Lock()
	if m.trackers[orderID] == t {
		delete(m.trackers, orderID)
	}
	m.mu.Unlock()
}

// Close stops every tracker. No check fires after Close returns.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	trackers := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		trackers = append(trackers, t)
	}
	m.trackers = make(map[uuid.UUID]*Tracker)
	m.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}

	m.logger.Info().Int("count", len(trackers)).Msg("tracker manager closed")

	return nil
}
