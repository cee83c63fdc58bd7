package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeConfigFetch     = "CONFIG_FETCH_FAILED"
	ErrCodeOrderFetch      = "ORDER_CREATE_OR_FETCH_FAILED"
	ErrCodePaymentCreation = "PAYMENT_CREATION_FAILED"
	ErrCodeStatusCheck     = "STATUS_CHECK_FAILED"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a business error with a stable code. The message is safe
// to show to an end user; the underlying cause is only ever logged.
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WrapDomainError attaches an underlying cause to a fresh domain error so
// operators see the real failure while users see the sanitized message.
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

// Common domain errors. Messages are user-facing and localized the way the
// storefront presents them.
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Produto não encontrado")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Pedido não encontrado")
	ErrConfigFetch     = NewDomainError(ErrCodeConfigFetch, "Falha ao carregar a configuração de pagamento")
	ErrOrderFetch      = NewDomainError(ErrCodeOrderFetch, "Falha ao processar o pedido")
	ErrPaymentCreation = NewDomainError(ErrCodePaymentCreation, "Falha ao gerar o pagamento PIX. Tente novamente.")
	ErrStatusCheck     = NewDomainError(ErrCodeStatusCheck, "Não foi possível verificar o status do pagamento.")
)
