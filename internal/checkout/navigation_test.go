package checkout

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"checkout-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *model.Order {
	return &model.Order{
		ID:            uuid.New(),
		CustomerName:  "Maria Silva",
		CustomerEmail: "maria@example.com",
		ProductID:     "P001",
		ProductName:   "Curso Completo",
		ProductPrice:  49.90,
		ProductType:   model.ProductTypeDigital,
		PaymentMethod: model.PaymentMethodCreditCard,
		Status:        model.StatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestRouter_CardRedirect_SynthesizesPaymentID(t *testing.T) {
	r := NewRouter(zerolog.Nop())
	order := testOrder()
	billing := billingDataFromOrder(order)

	outcome := r.CardRedirect("", order, model.CustomerData{}, billing, model.SupportInfo{Type: "digital"})

	require.NotNil(t, outcome)
	assert.Equal(t, model.RouteSuccess, outcome.Route)
	assert.Regexp(t, regexp.MustCompile(`^temp_\d+$`), outcome.Order.AsaasPaymentID)
}

func TestRouter_CardRedirect_ConfiguredPage(t *testing.T) {
	r := NewRouter(zerolog.Nop())
	order := testOrder()
	order.AsaasPaymentID = "pay_123"

	outcome := r.CardRedirect("/custom-success", order, model.CustomerData{}, billingDataFromOrder(order), model.SupportInfo{})

	assert.Equal(t, "/custom-success", outcome.Route)
	// An existing gateway payment id is never overwritten with a synthetic one.
	assert.Equal(t, "pay_123", outcome.Order.AsaasPaymentID)
}

func TestRouter_PixPending(t *testing.T) {
	r := NewRouter(zerolog.Nop())
	order := testOrder()
	order.PaymentMethod = model.PaymentMethodPix
	billing := billingDataFromOrder(order)
	support := model.SupportInfo{HasWhatsappSupport: true, WhatsappNumber: "5511999998888", Type: "digital"}

	outcome := r.PixPending(order, model.CustomerData{}, billing, support)

	assert.Equal(t, model.RoutePixPayment, outcome.Route)
	assert.Equal(t, string(model.PaymentMethodPix), outcome.Order.PaymentMethod)
	require.NotNil(t, outcome.BillingData)
	assert.Equal(t, 49.90, outcome.BillingData.Value)
	require.NotNil(t, outcome.Product)
	assert.True(t, outcome.Product.HasWhatsappSupport)
}

func TestRouter_Failure_WithOrder(t *testing.T) {
	r := NewRouter(zerolog.Nop())
	order := testOrder()

	outcome := r.Failure(order, model.CustomerData{})

	assert.Equal(t, model.RouteFailed, outcome.Route)
	assert.Equal(t, string(model.StatusFailed), outcome.Order.Status)
	require.NotNil(t, outcome.Query)
	assert.Equal(t, order.ID.String(), outcome.Query["orderId"])
}

func TestRouter_Failure_NoOrder(t *testing.T) {
	r := NewRouter(zerolog.Nop())

	tests := []struct {
		name          string
		customer      model.CustomerData
		expectedName  string
		expectedEmail string
	}{
		{
			name:          "customer data available",
			customer:      model.CustomerData{Name: "Maria", Email: "maria@example.com"},
			expectedName:  "Maria",
			expectedEmail: "maria@example.com",
		},
		{
			name:          "no customer data falls back to anonymous placeholders",
			customer:      model.CustomerData{},
			expectedName:  model.AnonymousCustomer.Name,
			expectedEmail: model.AnonymousCustomer.Email,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := r.Failure(nil, tt.customer)

			require.NotNil(t, outcome.Order)
			assert.Equal(t, tt.expectedName, outcome.Order.CustomerName)
			assert.Equal(t, tt.expectedEmail, outcome.Order.CustomerEmail)
			assert.Equal(t, string(model.StatusFailed), outcome.Order.Status)
			assert.Nil(t, outcome.Query)
		})
	}
}

// assertPrimitiveValues walks a decoded JSON value and fails on anything
// that is not a string, number, boolean, null, or a container of those.
func assertPrimitiveValues(t *testing.T, v interface{}) {
	t.Helper()
	switch val := v.(type) {
	case nil, string, float64, bool:
	case map[string]interface{}:
		for _, child := range val {
			assertPrimitiveValues(t, child)
		}
	case []interface{}:
		for _, child := range val {
			assertPrimitiveValues(t, child)
		}
	default:
		t.Fatalf("non-primitive value in navigation payload: %T", v)
	}
}

func TestNavigationOutcome_SerializationSafety(t *testing.T) {
	r := NewRouter(zerolog.Nop())
	order := testOrder()
	billing := billingDataFromOrder(order)

	outcomes := []*model.NavigationOutcome{
		r.PixPending(order, model.CustomerData{}, billing, model.SupportInfo{Type: "digital"}),
		r.CardRedirect("/custom-success", order, model.CustomerData{}, billing, model.SupportInfo{}),
		r.Failure(order, model.CustomerData{}),
		r.Failure(nil, model.CustomerData{}),
	}

	for _, outcome := range outcomes {
		encoded, err := json.Marshal(outcome)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assertPrimitiveValues(t, decoded)

		// Round-trip back into the typed shape must lose nothing.
		var roundTripped model.NavigationOutcome
		require.NoError(t, json.Unmarshal(encoded, &roundTripped))
		reEncoded, err := json.Marshal(&roundTripped)
		require.NoError(t, err)
		assert.JSONEq(t, string(encoded), string(reEncoded))
	}
}
