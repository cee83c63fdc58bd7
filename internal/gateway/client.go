// Package gateway talks to the external Asaas payment provider. All
// heterogeneity in the provider's response shapes is normalized here, at the
// boundary; downstream code never branches on response shape again.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"checkout-api/internal/config"
	"checkout-api/internal/model"
	"checkout-api/internal/repository"

	"github.com/rs/zerolog"
)

// PlaceholderPaymentID is returned when the provider response carries no
// payment identifier at all. Downstream pending/retry flows must remain
// navigable, so creation never fails on a missing id alone.
const PlaceholderPaymentID = "unknown_payment_id"

// pixExpirationDefault is applied when the provider omits an expiration.
const pixExpirationDefault = 30 * time.Minute

// Client issues payment-creation and status-check requests against the
// payment provider.
type Client interface {
	// CreatePixPayment creates a PIX charge for the given billing data.
	CreatePixPayment(ctx context.Context, billing *model.BillingData) (*model.PixPaymentData, error)

	// CheckStatus returns the current status of a payment. It never returns
	// an empty status on success.
	CheckStatus(ctx context.Context, paymentID string) (model.PaymentStatus, error)
}

// asaasClient implements Client over HTTP. The endpoint pair (Netlify
// functions vs direct API) is chosen per call from the remotely-stored
// gateway configuration.
type asaasClient struct {
	httpClient *http.Client
	cfg        config.GatewayConfig
	configRepo repository.ConfigRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new Asaas gateway client.
func NewClient(cfg config.GatewayConfig, configRepo repository.ConfigRepository, logger zerolog.Logger) Client {
	return &asaasClient{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		cfg:        cfg,
		configRepo: configRepo,
		logger:     logger.With().Str("component", "asaas-client").Logger(),
		now:        time.Now,
	}
}

// pixCreateRequest is the payload both endpoints accept.
type pixCreateRequest struct {
	Name        string  `json:"name"`
	CpfCnpj     string  `json:"cpfCnpj"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	OrderID     string  `json:"orderId"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// pixCreateResponse covers both response shapes the provider has been
// observed to produce (mock endpoint vs Netlify function).
type pixCreateResponse struct {
	Payment *struct {
		ID string `json:"id"`
	} `json:"payment"`
	PaymentID      string `json:"paymentId"`
	QRCode         string `json:"qrCode"`
	QRCodeImage    string `json:"qrCodeImage"`
	QRCodeImageURL string `json:"qrCodeImageUrl"`
	CopyPasteKey   string `json:"copyPasteKey"`
	ExpirationDate string `json:"expirationDate"`
	Status         string `json:"status"`
	PixQRCode      *struct {
		EncodedImage   string `json:"encodedImage"`
		Payload        string `json:"payload"`
		ExpirationDate string `json:"expirationDate"`
	} `json:"pixQrCode"`
}

// CreatePixPayment creates a PIX charge. Transport failures, non-2xx
// responses and malformed bodies are distinguished only in logs; the caller
// sees a single payment-creation error kind.
func (c *asaasClient) CreatePixPayment(ctx context.Context, billing *model.BillingData) (*model.PixPaymentData, error) {
	remote, err := c.configRepo.GetGatewayConfig(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to fetch gateway config")
		return nil, model.WrapDomainError(model.ErrCodeConfigFetch, model.ErrConfigFetch.Message, err)
	}

	endpoint := c.cfg.APIBaseURL + "/mock-asaas-payment"
	if remote.UseNetlifyFunctions {
		endpoint = c.cfg.NetlifyBaseURL + "/create-asaas-customer"
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("order_id", billing.OrderID).
		Bool("use_netlify_functions", remote.UseNetlifyFunctions).
		Msg("creating pix payment")

	payload := pixCreateRequest{
		Name:        billing.Customer.Name,
		CpfCnpj:     billing.Customer.CpfCnpj,
		Email:       billing.Customer.Email,
		Phone:       billing.Customer.Phone,
		OrderID:     billing.OrderID,
		Value:       billing.Value,
		Description: billing.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, model.WrapDomainError(model.ErrCodePaymentCreation, model.ErrPaymentCreation.Message, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, model.WrapDomainError(model.ErrCodePaymentCreation, model.ErrPaymentCreation.Message, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("pix payment request failed")
		return nil, model.WrapDomainError(model.ErrCodePaymentCreation, model.ErrPaymentCreation.Message, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read pix payment response")
		return nil, model.WrapDomainError(model.ErrCodePaymentCreation, model.ErrPaymentCreation.Message, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("body", truncate(string(respBody), 200)).
			Msg("pix payment endpoint returned error")
		return nil, model.WrapDomainError(model.ErrCodePaymentCreation, model.ErrPaymentCreation.Message,
			fmt.Errorf("payment endpoint returned %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	var data pixCreateResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		c.logger.Error().Err(err).Str("body", truncate(string(respBody), 200)).Msg("pix payment response is not valid JSON")
		return nil, model.WrapDomainError(model.ErrCodePaymentCreation, model.ErrPaymentCreation.Message, err)
	}

	result := c.normalizePixResponse(&data, billing)

	c.logger.Info().
		Str("payment_id", result.PaymentID).
		Str("order_id", billing.OrderID).
		Str("status", string(result.Status)).
		Msg("pix payment created")

	return result, nil
}

// normalizePixResponse maps the provider's heterogeneous create response
// into the single PixPaymentData shape.
func (c *asaasClient) normalizePixResponse(data *pixCreateResponse, billing *model.BillingData) *model.PixPaymentData {
	paymentID := data.PaymentID
	if data.Payment != nil && data.Payment.ID != "" {
		paymentID = data.Payment.ID
	}
	if paymentID == "" {
		c.logger.Warn().Str("order_id", billing.OrderID).Msg("provider response carried no payment id")
		paymentID = PlaceholderPaymentID
	}

	qrCode := data.QRCode
	qrCodeImage := firstNonEmpty(data.QRCodeImage, data.QRCodeImageURL)
	expiration := data.ExpirationDate
	if data.PixQRCode != nil {
		qrCode = firstNonEmpty(qrCode, data.PixQRCode.Payload)
		qrCodeImage = firstNonEmpty(qrCodeImage, data.PixQRCode.EncodedImage)
		expiration = firstNonEmpty(expiration, data.PixQRCode.ExpirationDate)
	}

	// A bare base64 string becomes a data-URI so clients can render it
	// without caring where it came from.
	if qrCodeImage != "" && !strings.HasPrefix(qrCodeImage, "data:image") && !strings.HasPrefix(qrCodeImage, "http") {
		qrCodeImage = "data:image/png;base64," + qrCodeImage
	}

	if expiration == "" {
		expiration = c.now().Add(pixExpirationDefault).Format(time.RFC3339)
	}

	status := model.PaymentStatus(data.Status)
	if status == "" {
		status = model.StatusPending
	}

	return &model.PixPaymentData{
		PaymentID:      paymentID,
		QRCode:         qrCode,
		QRCodeImage:    qrCodeImage,
		CopyPasteKey:   firstNonEmpty(data.CopyPasteKey, qrCode),
		ExpirationDate: expiration,
		Status:         status,
		Value:          billing.Value,
		Description:    billing.Description,
	}
}

// CheckStatus issues a cache-busted GET for the payment's current status.
// The provider sometimes answers with a bare JSON string and sometimes with
// an object carrying a status field; both normalize here. A 2xx body with
// no status at all is a failure, never an empty success.
func (c *asaasClient) CheckStatus(ctx context.Context, paymentID string) (model.PaymentStatus, error) {
	remote, err := c.configRepo.GetGatewayConfig(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to fetch gateway config")
		return "", model.WrapDomainError(model.ErrCodeConfigFetch, model.ErrConfigFetch.Message, err)
	}

	base := c.cfg.APIBaseURL
	if remote.UseNetlifyFunctions {
		base = c.cfg.NetlifyBaseURL
	}
	query := url.Values{}
	query.Set("paymentId", paymentID)
	query.Set("cache_bust", strconv.FormatInt(c.now().UnixMilli(), 10))
	endpoint := base + "/check-payment-status?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", model.WrapDomainError(model.ErrCodeStatusCheck, model.ErrStatusCheck.Message, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("payment_id", paymentID).Msg("status check request failed")
		return "", model.WrapDomainError(model.ErrCodeStatusCheck, model.ErrStatusCheck.Message, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.WrapDomainError(model.ErrCodeStatusCheck, model.ErrStatusCheck.Message, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("payment_id", paymentID).
			Str("body", truncate(string(respBody), 200)).
			Msg("status endpoint returned error")
		return "", model.WrapDomainError(model.ErrCodeStatusCheck, model.ErrStatusCheck.Message,
			fmt.Errorf("status endpoint returned %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	status, err := parseStatusBody(respBody)
	if err != nil {
		c.logger.Error().Err(err).Str("payment_id", paymentID).Str("body", truncate(string(respBody), 200)).Msg("unparseable status response")
		return "", model.WrapDomainError(model.ErrCodeStatusCheck, model.ErrStatusCheck.Message, err)
	}

	c.logger.Debug().
		Str("payment_id", paymentID).
		Str("status", string(status)).
		Msg("payment status checked")

	return status, nil
}

// parseStatusBody accepts either `"CONFIRMED"` or `{"status": "CONFIRMED"}`.
func parseStatusBody(body []byte) (model.PaymentStatus, error) {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("empty status in response")
		}
		return model.PaymentStatus(s), nil
	}

	var obj struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("invalid status response: %w", err)
	}
	if obj.Status == "" {
		return "", fmt.Errorf("incomplete status data in response")
	}
	return model.PaymentStatus(obj.Status), nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate limits log payload size.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
