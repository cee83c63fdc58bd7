package handler

import (
	"encoding/json"
	"net/http"

	"checkout-api/internal/checkout"
	"checkout-api/internal/model"
	"checkout-api/internal/repository"

	"github.com/rs/zerolog"
)

// CheckoutRequest is the submission payload for one checkout attempt.
type CheckoutRequest struct {
	ProductID       string                `json:"productId"`
	Customer        *model.CustomerData   `json:"customer,omitempty"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
	CardData        *model.CreditCardData `json:"cardData,omitempty"`
	ExistingOrderID string                `json:"existingOrderId,omitempty"`
}

// CheckoutHandler drives checkout attempts. Whatever happens inside the
// attempt, the response is a navigation outcome with status 200: failure is
// a route, not an HTTP error.
type CheckoutHandler struct {
	service  *checkout.Service
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service *checkout.Service, products repository.ProductRepository, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		products: products,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout requests.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", h.logger)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	method := req.PaymentMethod
	if method != model.PaymentMethodPix && method != model.PaymentMethodCreditCard {
		method = model.PaymentMethodCreditCard
	}

	var product *model.Product
	if req.ExistingOrderID == "" {
		// A fresh attempt needs the product; the retry path rebuilds
		// everything from the persisted order instead.
		if req.ProductID == "" {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "productId is required", h.logger)
			return
		}
		var err error
		product, err = h.products.GetByID(r.Context(), req.ProductID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve product", h.logger)
			return
		}
		if product == nil {
			product, err = h.products.GetBySlug(r.Context(), req.ProductID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve product", h.logger)
				return
			}
		}
		if product == nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeProductNotFound, "product not found", h.logger)
			return
		}
	}

	attempt := h.service.NewAttempt(product, method)
	if req.Customer != nil {
		attempt.SubmitCustomer(*req.Customer)
	}

	outcome := attempt.SubmitPayment(r.Context(), req.CardData, req.ExistingOrderID)

	writeJSON(w, http.StatusOK, outcome)
}
