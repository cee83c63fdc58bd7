package model

// BillingData is the payload the payment gateway expects for a charge.
// Derived and ephemeral: built fresh on every payment attempt, never
// persisted.
type BillingData struct {
	Customer    CustomerData `json:"customer"`
	Value       float64      `json:"value"`
	Description string       `json:"description"`
	OrderID     string       `json:"orderId"`
}

// PixPaymentData is the normalized result of a PIX charge creation. The
// gateway client guarantees PaymentID is never empty and QRCodeImage is
// either a data-URI or a remote URL.
type PixPaymentData struct {
	PaymentID      string        `json:"paymentId"`
	QRCode         string        `json:"qrCode"`
	QRCodeImage    string        `json:"qrCodeImage"`
	CopyPasteKey   string        `json:"copyPasteKey"`
	ExpirationDate string        `json:"expirationDate"`
	Status         PaymentStatus `json:"status"`
	Value          float64       `json:"value"`
	Description    string        `json:"description"`
}

// GatewayConfig is the remotely-managed configuration record read once per
// payment attempt.
type GatewayConfig struct {
	UseNetlifyFunctions    bool   `json:"use_netlify_functions" db:"use_netlify_functions"`
	ManualCardRedirectPage string `json:"manual_card_redirect_page" db:"manual_card_redirect_page"`
	Sandbox                bool   `json:"sandbox" db:"sandbox"`
}
