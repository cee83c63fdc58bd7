package checkout

import (
	"fmt"
	"time"

	"checkout-api/internal/model"

	"github.com/rs/zerolog"
)

// Router builds the terminal navigation outcome of a checkout attempt. It
// only ever emits safe order projections: plain, acyclic, primitive-valued
// snapshots that survive any serialization boundary.
type Router struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewRouter creates a navigation outcome router.
func NewRouter(logger zerolog.Logger) *Router {
	return &Router{
		logger: logger.With().Str("component", "navigation").Logger(),
		now:    time.Now,
	}
}

// PixPending routes to the PIX payment screen. The screen itself creates
// the gateway charge from the billing data carried here.
func (r *Router) PixPending(order *model.Order, customer model.CustomerData, billing model.BillingData, support model.SupportInfo) *model.NavigationOutcome {
	r.logger.Debug().Str("order_id", order.ID.String()).Msg("routing to pix payment screen")
	return &model.NavigationOutcome{
		Route:       model.RoutePixPayment,
		Order:       model.NewSafeOrder(order, customer),
		BillingData: &billing,
		Product:     &support,
	}
}

// CardRedirect routes to the configured manual card redirect page. An order
// without a gateway payment id gets a synthetic temporary one so the target
// screen always has an identifier to show and poll against.
func (r *Router) CardRedirect(redirectPage string, order *model.Order, customer model.CustomerData, billing model.BillingData, support model.SupportInfo) *model.NavigationOutcome {
	if redirectPage == "" {
		redirectPage = model.RouteSuccess
	}

	safe := model.NewSafeOrder(order, customer)
	if safe.AsaasPaymentID == "" {
		safe.AsaasPaymentID = fmt.Sprintf("temp_%d", r.now().UnixMilli())
	}

	r.logger.Debug().
		Str("order_id", safe.ID).
		Str("redirect_page", redirectPage).
		Msg("routing to card redirect page")

	return &model.NavigationOutcome{
		Route:       redirectPage,
		Order:       safe,
		BillingData: &billing,
		Product:     &support,
	}
}

// Failure routes to the failure screen with the most complete projection
// obtainable from whatever partial state exists. The order id doubles as a
// query parameter so the failure screen can recover the order even when
// navigation state is lost.
func (r *Router) Failure(order *model.Order, customer model.CustomerData) *model.NavigationOutcome {
	safe := model.NewSafeOrder(order, customer)
	if safe == nil {
		name := customer.Name
		if name == "" {
			name = model.AnonymousCustomer.Name
		}
		email := customer.Email
		if email == "" {
			email = model.AnonymousCustomer.Email
		}
		safe = &model.SafeOrder{
			CustomerName:  name,
			CustomerEmail: email,
		}
	}
	safe.Status = string(model.StatusFailed)

	outcome := &model.NavigationOutcome{
		Route: model.RouteFailed,
		Order: safe,
	}
	if safe.ID != "" {
		outcome.Query = map[string]string{"orderId": safe.ID}
	}

	r.logger.Debug().Str("order_id", safe.ID).Msg("routing to failure screen")

	return outcome
}
