package handler

import (
	"net/http"
	"strconv"
	"strings"

	"checkout-api/internal/repository"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products repository.ProductRepository, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", h.logger)
		return
	}

	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	products, err := h.products.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id-or-slug} requests. An identifier
// that does not match a product id is retried as a checkout slug, which is
// how storefront links reach the checkout.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", h.logger)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELD", "product identifier is required", h.logger)
		return
	}

	product, err := h.products.GetByID(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve product", h.logger)
		return
	}
	if product == nil {
		product, err = h.products.GetBySlug(r.Context(), key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve product", h.logger)
			return
		}
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
