package repository

import (
	"context"
	"fmt"
	"time"

	"checkout-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `
	id, customer_name, customer_email, customer_cpf_cnpj, customer_phone,
	product_id, product_name, product_price, product_type,
	payment_method, status, asaas_payment_id,
	has_whatsapp_support, whatsapp_number, created_at, updated_at
`

// Create inserts a new order. Identity and timestamps are assigned here,
// never by the caller.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	now := time.Now()
	created := *order
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Status == "" {
		created.Status = model.StatusPending
	}

	_, err := r.pool.Exec(ctx, query,
		created.ID,
		created.CustomerName,
		created.CustomerEmail,
		created.CustomerCpfCnpj,
		created.CustomerPhone,
		created.ProductID,
		created.ProductName,
		created.ProductPrice,
		created.ProductType,
		created.PaymentMethod,
		created.Status,
		created.AsaasPaymentID,
		created.HasWhatsappSupport,
		created.WhatsappNumber,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", created.ProductID).
			Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", created.ID.String()).
		Msg("order created successfully")

	return &created, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerCpfCnpj,
		&o.CustomerPhone,
		&o.ProductID,
		&o.ProductName,
		&o.ProductPrice,
		&o.ProductType,
		&o.PaymentMethod,
		&o.Status,
		&o.AsaasPaymentID,
		&o.HasWhatsappSupport,
		&o.WhatsappNumber,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

// AttachCardData stores card payment data against an existing order.
func (r *orderRepository) AttachCardData(ctx context.Context, id uuid.UUID, card *model.CreditCardData) error {
	query := `
		UPDATE orders
		SET card_holder = $2, card_number = $3, card_expiry_month = $4,
		    card_expiry_year = $5, card_cvv = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id,
		card.Holder, card.Number, card.ExpiryMonth, card.ExpiryYear, card.CVV, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to attach card data")
		return fmt.Errorf("failed to attach card data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to attach card data: order %s not found", id)
	}

	r.logger.Debug().Str("order_id", id.String()).Msg("card data attached")

	return nil
}

// UpdateStatus sets the payment status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update order status: order %s not found", id)
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return nil
}

// UpdateAsaasPaymentID records the gateway's payment identifier.
func (r *orderRepository) UpdateAsaasPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error {
	query := `UPDATE orders SET asaas_payment_id = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, paymentID, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("payment_id", paymentID).
			Msg("failed to update asaas payment id")
		return fmt.Errorf("failed to update asaas payment id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update asaas payment id: order %s not found", id)
	}

	return nil
}
