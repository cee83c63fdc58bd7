package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"checkout-api/internal/gateway"
	"checkout-api/internal/model"
	"checkout-api/internal/repository"
	"checkout-api/internal/tracker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler exposes the gateway operations the PIX screen consumes:
// charge creation and status checks.
type PaymentHandler struct {
	client   gateway.Client
	orders   repository.OrderRepository
	trackers *tracker.Manager
	logger   zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(client gateway.Client, orders repository.OrderRepository, trackers *tracker.Manager, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		client:   client,
		orders:   orders,
		trackers: trackers,
		logger:   logger.With().Str("handler", "payment").Logger(),
	}
}

// CreatePix handles POST /api/payments/pix requests. On success the
// gateway payment id is recorded on the order and a server-side status
// tracker starts polling for confirmation.
func (h *PaymentHandler) CreatePix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", h.logger)
		return
	}

	var billing model.BillingData
	if err := json.NewDecoder(r.Body).Decode(&billing); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if billing.OrderID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "orderId is required", h.logger)
		return
	}

	payment, err := h.client.CreatePixPayment(r.Context(), &billing)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}

	if orderID, parseErr := uuid.Parse(billing.OrderID); parseErr == nil {
		if payment.PaymentID != gateway.PlaceholderPaymentID {
			if err := h.orders.UpdateAsaasPaymentID(r.Context(), orderID, payment.PaymentID); err != nil {
				h.logger.Error().
					Err(err).
					Str("order_id", billing.OrderID).
					Msg("failed to record gateway payment id")
			}
			h.trackers.Track(payment.PaymentID, orderID)
		}
	}

	writeJSON(w, http.StatusCreated, payment)
}

// CheckStatus handles GET /api/payments/{id}/status requests. An optional
// orderId query parameter also nudges that order's server-side tracker for
// an out-of-band check.
func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", h.logger)
		return
	}

	paymentID := strings.TrimPrefix(r.URL.Path, "/api/payments/")
	paymentID = strings.TrimSuffix(paymentID, "/status")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "payment ID is required", h.logger)
		return
	}

	if v := r.URL.Query().Get("orderId"); v != "" {
		if orderID, err := uuid.Parse(v); err == nil {
			h.trackers.Refresh(orderID)
		}
	}

	status, err := h.client.CheckStatus(r.Context(), paymentID)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// writeGatewayError maps a gateway domain error onto an HTTP status while
// keeping only the sanitized message user-visible.
func (h *PaymentHandler) writeGatewayError(w http.ResponseWriter, err error) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadGateway
		if domainErr.Code == model.ErrCodeConfigFetch {
			status = http.StatusInternalServerError
		}
		h.logger.Error().Err(domainErr.Cause).Str("code", domainErr.Code).Msg("gateway operation failed")
		writeError(w, status, domainErr.Code, domainErr.Message, h.logger)
		return
	}
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error", h.logger)
}
