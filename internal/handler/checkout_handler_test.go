package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"checkout-api/internal/analytics"
	"checkout-api/internal/checkout"
	"checkout-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutFixtureProduct() *model.Product {
	return &model.Product{
		ID:    "P001",
		Slug:  "curso-completo",
		Name:  "Curso Completo",
		Price: 49.90,
		Type:  model.ProductTypeDigital,
	}
}

func newCheckoutHandler(orders *MockOrderRepository, configs *MockConfigRepository, products *MockProductRepository) *CheckoutHandler {
	logger := zerolog.Nop()
	service := checkout.NewService(orders, configs, analytics.NopTracker{}, checkout.NewRouter(logger), logger)
	return NewCheckoutHandler(service, products, logger)
}

func TestCheckoutHandler_Submit_PixOutcome(t *testing.T) {
	orders := new(MockOrderRepository)
	configs := new(MockConfigRepository)
	products := new(MockProductRepository)

	created := &model.Order{
		ID:            uuid.New(),
		CustomerName:  "Maria Silva",
		ProductID:     "P001",
		ProductName:   "Curso Completo",
		ProductPrice:  49.90,
		PaymentMethod: model.PaymentMethodPix,
		Status:        model.StatusPending,
	}
	products.On("GetByID", mock.Anything, "P001").Return(checkoutFixtureProduct(), nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(created, nil)

	h := newCheckoutHandler(orders, configs, products)

	body := `{
		"productId": "P001",
		"paymentMethod": "pix",
		"customer": {"name": "Maria Silva", "email": "maria@example.com"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var outcome model.NavigationOutcome
	require.NoError(t, json.NewDecoder(w.Body).Decode(&outcome))
	assert.Equal(t, model.RoutePixPayment, outcome.Route)
	require.NotNil(t, outcome.Order)
	assert.Equal(t, created.ID.String(), outcome.Order.ID)
	require.NotNil(t, outcome.BillingData)
	assert.Equal(t, 49.90, outcome.BillingData.Value)
}

func TestCheckoutHandler_Submit_SlugFallback(t *testing.T) {
	orders := new(MockOrderRepository)
	configs := new(MockConfigRepository)
	products := new(MockProductRepository)

	created := &model.Order{ID: uuid.New(), ProductID: "P001", ProductPrice: 49.90, PaymentMethod: model.PaymentMethodPix, Status: model.StatusPending}
	products.On("GetByID", mock.Anything, "curso-completo").Return(nil, nil)
	products.On("GetBySlug", mock.Anything, "curso-completo").Return(checkoutFixtureProduct(), nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(created, nil)

	h := newCheckoutHandler(orders, configs, products)

	body := `{"productId": "curso-completo", "paymentMethod": "pix"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

func TestCheckoutHandler_Submit_FailureIsARouteNotAnHTTPError(t *testing.T) {
	orders := new(MockOrderRepository)
	configs := new(MockConfigRepository)
	products := new(MockProductRepository)

	products.On("GetByID", mock.Anything, "P001").Return(checkoutFixtureProduct(), nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil, errors.New("store unreachable"))

	h := newCheckoutHandler(orders, configs, products)

	// Unrecognized method coerces onto the card path, which fails at order
	// creation here.
	body := `{"productId": "P001", "paymentMethod": "boleto"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var outcome model.NavigationOutcome
	require.NoError(t, json.NewDecoder(w.Body).Decode(&outcome))
	assert.Equal(t, model.RouteFailed, outcome.Route)
	require.NotNil(t, outcome.Order)
	assert.Equal(t, string(model.StatusFailed), outcome.Order.Status)
	assert.Equal(t, model.AnonymousCustomer.Name, outcome.Order.CustomerName)
}

func TestCheckoutHandler_Submit_BadRequests(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		body         string
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "invalid JSON",
			method:       http.MethodPost,
			body:         `{not json`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  model.ErrCodeInvalidJSON,
		},
		{
			name:         "missing product id",
			method:       http.MethodPost,
			body:         `{"paymentMethod": "pix"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  model.ErrCodeMissingField,
		},
		{
			name:         "method not allowed",
			method:       http.MethodGet,
			body:         ``,
			expectedCode: http.StatusMethodNotAllowed,
			expectedErr:  "METHOD_NOT_ALLOWED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCheckoutHandler(new(MockOrderRepository), new(MockConfigRepository), new(MockProductRepository))

			req := httptest.NewRequest(tt.method, "/api/checkout", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Submit(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.expectedErr, resp.Error)
		})
	}
}

func TestCheckoutHandler_Submit_UnknownProduct(t *testing.T) {
	orders := new(MockOrderRepository)
	configs := new(MockConfigRepository)
	products := new(MockProductRepository)

	products.On("GetByID", mock.Anything, "ghost").Return(nil, nil)
	products.On("GetBySlug", mock.Anything, "ghost").Return(nil, nil)

	h := newCheckoutHandler(orders, configs, products)

	body := `{"productId": "ghost", "paymentMethod": "pix"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeProductNotFound, resp.Error)
	orders.AssertNotCalled(t, "Create")
}

func TestCheckoutHandler_Submit_ExistingOrderSkipsProductLookup(t *testing.T) {
	orders := new(MockOrderRepository)
	configs := new(MockConfigRepository)
	products := new(MockProductRepository)

	orderID := uuid.New()
	existing := &model.Order{
		ID:            orderID,
		CustomerName:  "Maria",
		ProductID:     "P001",
		ProductPrice:  49.90,
		PaymentMethod: model.PaymentMethodPix,
		Status:        model.StatusPending,
	}
	orders.On("GetByID", mock.Anything, orderID).Return(existing, nil)

	h := newCheckoutHandler(orders, configs, products)

	body := `{"paymentMethod": "pix", "existingOrderId": "` + orderID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertNotCalled(t, "GetByID")
	orders.AssertNotCalled(t, "Create")
}
