package repository

import (
	"context"

	"checkout-api/internal/model"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data access operations.
// It owns no business logic; every mutation is a discrete request/response
// round trip against the store.
type OrderRepository interface {
	// Create inserts a new order and returns it with repository-assigned
	// identity and timestamps.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)

	// GetByID retrieves an order by its ID. Returns (nil, nil) when the
	// order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// AttachCardData stores card payment data against an existing order.
	AttachCardData(ctx context.Context, id uuid.UUID, card *model.CreditCardData) error

	// UpdateStatus sets the payment status of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error

	// UpdateAsaasPaymentID records the gateway's payment identifier on an
	// order once one exists.
	UpdateAsaasPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil) when
	// the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetBySlug retrieves a single product by its checkout slug. Returns
	// (nil, nil) when the product does not exist.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
}

// ConfigRepository reads the remotely-managed gateway configuration record.
type ConfigRepository interface {
	// GetGatewayConfig returns the single gateway configuration row. A
	// missing row yields the zero-value config, not an error; a failed read
	// is an error.
	GetGatewayConfig(ctx context.Context) (*model.GatewayConfig, error)
}
