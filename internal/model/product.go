package model

import "time"

// Product types distinguish digital deliveries from shipped goods.
const (
	ProductTypeDigital  = "digital"
	ProductTypePhysical = "physical"
)

// Product represents an item sold through the checkout.
type Product struct {
	ID                 string    `json:"id" db:"id"`
	Slug               string    `json:"slug" db:"slug"`
	Name               string    `json:"name" db:"name"`
	Description        string    `json:"description" db:"description"`
	Price              float64   `json:"price" db:"price"`
	Type               string    `json:"type" db:"type"`
	HasWhatsappSupport bool      `json:"has_whatsapp_support" db:"has_whatsapp_support"`
	WhatsappNumber     string    `json:"whatsapp_number" db:"whatsapp_number"`
	Status             bool      `json:"status" db:"status"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// SupportInfo is the slice of product metadata the success and failure
// screens need independently of the product record.
type SupportInfo struct {
	HasWhatsappSupport bool   `json:"has_whatsapp_support"`
	WhatsappNumber     string `json:"whatsapp_number"`
	Type               string `json:"type"`
}

// SupportInfo extracts the support metadata carried alongside navigation
// payloads. WhatsApp visibility is strictly opt-in: the flag and number come
// from the product record alone.
func (p *Product) SupportInfo() SupportInfo {
	if p == nil {
		return SupportInfo{Type: ProductTypePhysical}
	}
	typ := p.Type
	if typ == "" {
		typ = ProductTypePhysical
	}
	return SupportInfo{
		HasWhatsappSupport: p.HasWhatsappSupport,
		WhatsappNumber:     p.WhatsappNumber,
		Type:               typ,
	}
}
