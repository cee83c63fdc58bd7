package model

import "time"

// SafeOrder is a plain, acyclic snapshot of an order that is safe to hand
// across a serialization boundary. Every field is a primitive; timestamps
// are RFC 3339 strings. Downstream screens must only ever receive this
// shape, never an Order with live references behind it.
type SafeOrder struct {
	ID                 string  `json:"id"`
	CustomerName       string  `json:"customerName"`
	CustomerEmail      string  `json:"customerEmail"`
	CustomerCpfCnpj    string  `json:"customerCpfCnpj,omitempty"`
	CustomerPhone      string  `json:"customerPhone,omitempty"`
	ProductID          string  `json:"productId,omitempty"`
	ProductName        string  `json:"productName"`
	ProductPrice       float64 `json:"productPrice"`
	Status             string  `json:"status"`
	PaymentMethod      string  `json:"paymentMethod"`
	AsaasPaymentID     string  `json:"asaasPaymentId,omitempty"`
	HasWhatsappSupport bool    `json:"hasWhatsappSupport"`
	WhatsappNumber     string  `json:"whatsappNumber,omitempty"`
	CreatedAt          string  `json:"createdAt,omitempty"`
	UpdatedAt          string  `json:"updatedAt,omitempty"`
}

// NewSafeOrder flattens an order into its serializable projection. Customer
// fields missing on the order fall back to the separately collected
// customer data.
func NewSafeOrder(order *Order, customer CustomerData) *SafeOrder {
	if order == nil {
		return nil
	}
	safe := &SafeOrder{
		ID:                 order.ID.String(),
		CustomerName:       order.CustomerName,
		CustomerEmail:      order.CustomerEmail,
		CustomerCpfCnpj:    order.CustomerCpfCnpj,
		CustomerPhone:      order.CustomerPhone,
		ProductID:          order.ProductID,
		ProductName:        order.ProductName,
		ProductPrice:       order.ProductPrice,
		Status:             string(order.Status),
		PaymentMethod:      string(order.PaymentMethod),
		AsaasPaymentID:     order.AsaasPaymentID,
		HasWhatsappSupport: order.HasWhatsappSupport,
		WhatsappNumber:     order.WhatsappNumber,
	}
	if safe.CustomerName == "" {
		safe.CustomerName = customer.Name
	}
	if safe.CustomerEmail == "" {
		safe.CustomerEmail = customer.Email
	}
	if safe.CustomerCpfCnpj == "" {
		safe.CustomerCpfCnpj = customer.CpfCnpj
	}
	if safe.CustomerPhone == "" {
		safe.CustomerPhone = customer.Phone
	}
	if safe.Status == "" {
		safe.Status = string(StatusPending)
	}
	if safe.PaymentMethod == "" {
		safe.PaymentMethod = string(PaymentMethodCreditCard)
	}
	if !order.CreatedAt.IsZero() {
		safe.CreatedAt = order.CreatedAt.Format(time.RFC3339)
	}
	if !order.UpdatedAt.IsZero() {
		safe.UpdatedAt = order.UpdatedAt.Format(time.RFC3339)
	}
	return safe
}

// NavigationOutcome is the terminal result of a checkout attempt: the route
// the client should transition to, plus the serializable state it carries.
type NavigationOutcome struct {
	Route       string            `json:"route"`
	Query       map[string]string `json:"query,omitempty"`
	Order       *SafeOrder        `json:"order"`
	BillingData *BillingData      `json:"billingData,omitempty"`
	Product     *SupportInfo      `json:"product,omitempty"`
}

// Well-known navigation routes.
const (
	RoutePixPayment = "/payment"
	RouteSuccess    = "/success"
	RouteFailed     = "/failed"
)
