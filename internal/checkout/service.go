// Package checkout orchestrates one checkout attempt: order creation or
// reuse, billing preparation, the payment-method branch, and the
// navigation-with-fallback hand-off. All error recovery lives here; no
// failure escapes to the caller as anything but a failure-screen outcome.
package checkout

import (
	"context"
	"sync"
	"time"

	"checkout-api/internal/analytics"
	"checkout-api/internal/model"
	"checkout-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// navigationDelay lets an in-flight user-facing acknowledgment render
// before the card-redirect route change.
const navigationDelay = 500 * time.Millisecond

// Service wires the collaborators a checkout attempt needs.
type Service struct {
	orders     repository.OrderRepository
	configRepo repository.ConfigRepository
	analytics  analytics.Tracker
	router     *Router
	logger     zerolog.Logger
}

// NewService creates the checkout service.
func NewService(
	orders repository.OrderRepository,
	configRepo repository.ConfigRepository,
	tracker analytics.Tracker,
	router *Router,
	logger zerolog.Logger,
) *Service {
	return &Service{
		orders:     orders,
		configRepo: configRepo,
		analytics:  tracker,
		router:     router,
		logger:     logger.With().Str("service", "checkout").Logger(),
	}
}

// Attempt is the state machine for a single checkout attempt. Each attempt
// owns its own instance; nothing is shared across concurrent attempts.
type Attempt struct {
	svc     *Service
	product *model.Product
	method  model.PaymentMethod

	mu         sync.Mutex
	customer   *model.CustomerData
	submitting bool

	sleep func(time.Duration)
}

// NewAttempt starts a checkout attempt for a product and payment method.
func (s *Service) NewAttempt(product *model.Product, method model.PaymentMethod) *Attempt {
	return &Attempt{
		svc:     s,
		product: product,
		method:  method,
		sleep:   time.Sleep,
	}
}

// SubmitCustomer stores the collected customer data. Nothing here blocks
// progress: incomplete or absent data is resolved by substitution at
// submission time.
func (a *Attempt) SubmitCustomer(data model.CustomerData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.customer = &data
	a.svc.logger.Debug().Str("customer_name", data.Name).Msg("customer data submitted")
}

// Submitting reports whether a submission is in flight.
func (a *Attempt) Submitting() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitting
}

// SubmitPayment runs the attempt to a terminal outcome. It always returns a
// navigation outcome: pix-pending, card-redirect, or failure. Errors are
// absorbed into the failure branch, never surfaced to the caller.
func (a *Attempt) SubmitPayment(ctx context.Context, card *model.CreditCardData, existingOrderID string) *model.NavigationOutcome {
	a.setSubmitting(true)
	defer a.setSubmitting(false)

	customer := a.effectiveCustomer()

	order, outcome, err := a.submit(ctx, customer, card, existingOrderID)
	if err != nil {
		a.svc.logger.Error().
			Err(err).
			Str("existing_order_id", existingOrderID).
			Msg("checkout attempt failed, routing to failure screen")
		return a.svc.router.Failure(order, customer)
	}

	return outcome
}

// effectiveCustomer returns the collected customer data, or the anonymous
// default when none was collected.
func (a *Attempt) effectiveCustomer() model.CustomerData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.customer == nil {
		a.svc.logger.Info().Msg("no customer data collected, using anonymous default")
		return model.AnonymousCustomer
	}
	return *a.customer
}

func (a *Attempt) setSubmitting(v bool) {
	a.mu.Lock()
	a.submitting = v
	a.mu.Unlock()
}

// submit performs steps 1-3 of the attempt. The returned order is whatever
// exists at failure time, so recovery can build the best projection.
func (a *Attempt) submit(ctx context.Context, customer model.CustomerData, card *model.CreditCardData, existingOrderID string) (*model.Order, *model.NavigationOutcome, error) {
	var (
		order   *model.Order
		billing model.BillingData
		err     error
	)

	if existingOrderID != "" {
		// Retry path: reuse the existing order, never create a second one.
		order, billing, err = a.reuseOrder(ctx, card, existingOrderID)
		if err != nil {
			return order, nil, err
		}
	} else {
		order, err = a.createOrder(ctx, customer, card)
		if err != nil {
			return order, nil, err
		}
		billing = PrepareBillingData(customer, a.product, order.ID.String())
	}

	a.svc.analytics.BeginCheckout(order.ProductID, order.ProductPrice)

	support := a.supportInfo(order)

	if a.method == model.PaymentMethodPix {
		// The PIX screen creates the gateway charge from this hand-off.
		return order, a.svc.router.PixPending(order, customer, billing, support), nil
	}

	remote, err := a.svc.configRepo.GetGatewayConfig(ctx)
	if err != nil {
		return order, nil, model.WrapDomainError(model.ErrCodeConfigFetch, model.ErrConfigFetch.Message, err)
	}

	outcome := a.svc.router.CardRedirect(remote.ManualCardRedirectPage, order, customer, billing, support)

	a.svc.analytics.Purchase(order.ID.String(), order.ProductPrice)

	// Give any in-flight acknowledgment time to render before the route
	// changes.
	a.sleep(navigationDelay)

	return order, outcome, nil
}

// reuseOrder fetches an existing order and optionally attaches fresh card
// data before rebuilding billing data from the order's own fields.
func (a *Attempt) reuseOrder(ctx context.Context, card *model.CreditCardData, existingOrderID string) (*model.Order, model.BillingData, error) {
	id, err := uuid.Parse(existingOrderID)
	if err != nil {
		return nil, model.BillingData{}, model.WrapDomainError(model.ErrCodeOrderFetch, model.ErrOrderFetch.Message, err)
	}

	order, err := a.svc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, model.BillingData{}, model.WrapDomainError(model.ErrCodeOrderFetch, model.ErrOrderFetch.Message, err)
	}
	if order == nil {
		return nil, model.BillingData{}, model.ErrOrderNotFound
	}

	if card != nil {
		if err := a.svc.orders.AttachCardData(ctx, id, card); err != nil {
			return order, model.BillingData{}, model.WrapDomainError(model.ErrCodeOrderFetch, model.ErrOrderFetch.Message, err)
		}
	}

	a.svc.logger.Info().
		Str("order_id", existingOrderID).
		Msg("reusing existing order for payment retry")

	return order, billingDataFromOrder(order), nil
}

// createOrder persists a new order snapshotting the product onto it.
func (a *Attempt) createOrder(ctx context.Context, customer model.CustomerData, card *model.CreditCardData) (*model.Order, error) {
	order := &model.Order{
		CustomerName:       customer.Name,
		CustomerEmail:      customer.Email,
		CustomerCpfCnpj:    customer.CpfCnpj,
		CustomerPhone:      customer.Phone,
		ProductID:          a.product.ID,
		ProductName:        a.product.Name,
		ProductPrice:       a.product.Price,
		ProductType:        a.product.Type,
		PaymentMethod:      a.method,
		Status:             model.StatusPending,
		HasWhatsappSupport: a.product.HasWhatsappSupport,
		WhatsappNumber:     a.product.WhatsappNumber,
	}

	created, err := a.svc.orders.Create(ctx, order)
	if err != nil {
		return nil, model.WrapDomainError(model.ErrCodeOrderFetch, model.ErrOrderFetch.Message, err)
	}

	if card != nil {
		if err := a.svc.orders.AttachCardData(ctx, created.ID, card); err != nil {
			return created, model.WrapDomainError(model.ErrCodeOrderFetch, model.ErrOrderFetch.Message, err)
		}
	}

	a.svc.logger.Info().
		Str("order_id", created.ID.String()).
		Str("payment_method", string(a.method)).
		Msg("order created")

	return created, nil
}

// supportInfo prefers the live product record; on the retry path, where no
// product is attached, it falls back to the snapshot on the order.
func (a *Attempt) supportInfo(order *model.Order) model.SupportInfo {
	if a.product != nil {
		return a.product.SupportInfo()
	}
	typ := order.ProductType
	if typ == "" {
		typ = model.ProductTypePhysical
	}
	return model.SupportInfo{
		HasWhatsappSupport: order.HasWhatsappSupport,
		WhatsappNumber:     order.WhatsappNumber,
		Type:               typ,
	}
}
