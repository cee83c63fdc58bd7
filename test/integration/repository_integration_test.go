package integration

import (
	"context"
	"testing"

	"checkout-api/internal/model"
	"checkout-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("GetAll returns seeded products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})

	t.Run("GetAll with pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.GetAll(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("GetByID returns correct product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "P002")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "P002", product.ID)
		assert.Equal(t, "Curso Completo", product.Name)
		assert.Equal(t, 49.90, product.Price)
		assert.True(t, product.HasWhatsappSupport)
		assert.Equal(t, "5511999998888", product.WhatsappNumber)
	})

	t.Run("GetByID returns nil for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "P999")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("GetBySlug resolves checkout links", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		product, err := repo.GetBySlug(ctx, "mentoria")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "P003", product.ID)

		product, err = repo.GetBySlug(ctx, "nao-existe")
		require.NoError(t, err)
		assert.Nil(t, product)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create assigns identity and defaults", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		created, err := repo.Create(ctx, &model.Order{
			CustomerName:  "Maria Silva",
			CustomerEmail: "maria@example.com",
			ProductID:     "P002",
			ProductName:   "Curso Completo",
			ProductPrice:  49.90,
			ProductType:   model.ProductTypeDigital,
			PaymentMethod: model.PaymentMethodPix,
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, model.StatusPending, created.Status)
		assert.False(t, created.CreatedAt.IsZero())

		fetched, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "Maria Silva", fetched.CustomerName)
		assert.Equal(t, 49.90, fetched.ProductPrice)
	})

	t.Run("GetByID returns nil for unknown order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("AttachCardData stores card fields", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		orderID := SeedOrder(t, testDB.Pool, "PENDING")

		err := repo.AttachCardData(ctx, orderID, &model.CreditCardData{
			Holder:      "MARIA SILVA",
			Number:      "4111111111111111",
			ExpiryMonth: "12",
			ExpiryYear:  "2030",
			CVV:         "123",
		})
		require.NoError(t, err)

		var holder string
		err = testDB.Pool.QueryRow(ctx, "SELECT card_holder FROM orders WHERE id = $1", orderID).Scan(&holder)
		require.NoError(t, err)
		assert.Equal(t, "MARIA SILVA", holder)
	})

	t.Run("AttachCardData fails for unknown order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		err := repo.AttachCardData(ctx, uuid.New(), &model.CreditCardData{Holder: "X"})
		assert.Error(t, err)
	})

	t.Run("UpdateStatus transitions the order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		orderID := SeedOrder(t, testDB.Pool, "PENDING")

		err := repo.UpdateStatus(ctx, orderID, model.StatusConfirmed)
		require.NoError(t, err)

		order, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, model.StatusConfirmed, order.Status)
	})

	t.Run("UpdateAsaasPaymentID records the gateway reference", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		orderID := SeedOrder(t, testDB.Pool, "PENDING")

		err := repo.UpdateAsaasPaymentID(ctx, orderID, "pay_123")
		require.NoError(t, err)

		order, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "pay_123", order.AsaasPaymentID)
	})
}

func TestConfigRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewConfigRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("missing row yields defaults, not an error", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		cfg, err := repo.GetGatewayConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.False(t, cfg.UseNetlifyFunctions)
		assert.Empty(t, cfg.ManualCardRedirectPage)
	})

	t.Run("reads the configured row", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedGatewayConfig(t, testDB.Pool, true, "/custom-success")

		cfg, err := repo.GetGatewayConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.True(t, cfg.UseNetlifyFunctions)
		assert.Equal(t, "/custom-success", cfg.ManualCardRedirectPage)
	})
}
