package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod identifies how the customer chose to pay.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "creditCard"
	PaymentMethodPix        PaymentMethod = "pix"
)

// PaymentStatus is an open enum: the gateway may return provider-defined
// values beyond the ones named here. StatusConfirmed is the only terminal
// value for polling purposes.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusConfirmed PaymentStatus = "CONFIRMED"
	StatusFailed    PaymentStatus = "FAILED"
)

// Terminal reports whether the status stops payment polling.
func (s PaymentStatus) Terminal() bool {
	return s == StatusConfirmed
}

// CustomerData holds the customer fields collected at checkout. All fields
// are optional at this level; defaults are substituted at submission time.
type CustomerData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CpfCnpj string `json:"cpfCnpj"`
	Phone   string `json:"phone"`
}

// AnonymousCustomer is substituted whenever no customer data was collected.
// Missing customer data must never block a checkout attempt.
var AnonymousCustomer = CustomerData{
	Name:  "Cliente Anônimo",
	Email: "anonimo@example.com",
}

// CreditCardData holds the card fields attached to an order for the manual
// card flow.
type CreditCardData struct {
	Holder      string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
}

// Order is the central checkout entity. Product fields are snapshotted onto
// the order at creation time so downstream screens never need to re-fetch
// the product record.
type Order struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	CustomerName       string        `json:"customerName" db:"customer_name"`
	CustomerEmail      string        `json:"customerEmail" db:"customer_email"`
	CustomerCpfCnpj    string        `json:"customerCpfCnpj" db:"customer_cpf_cnpj"`
	CustomerPhone      string        `json:"customerPhone" db:"customer_phone"`
	ProductID          string        `json:"productId" db:"product_id"`
	ProductName        string        `json:"productName" db:"product_name"`
	ProductPrice       float64       `json:"productPrice" db:"product_price"`
	ProductType        string        `json:"productType" db:"product_type"`
	PaymentMethod      PaymentMethod `json:"paymentMethod" db:"payment_method"`
	Status             PaymentStatus `json:"status" db:"status"`
	AsaasPaymentID     string        `json:"asaasPaymentId,omitempty" db:"asaas_payment_id"`
	HasWhatsappSupport bool          `json:"hasWhatsappSupport" db:"has_whatsapp_support"`
	WhatsappNumber     string        `json:"whatsappNumber,omitempty" db:"whatsapp_number"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at"`
}
