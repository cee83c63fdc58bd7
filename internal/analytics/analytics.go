// Package analytics forwards conversion events to third-party trackers.
// Tracking IDs are injected at construction; nothing here reads or writes
// process-wide state.
package analytics

import (
	"checkout-api/internal/config"

	"github.com/rs/zerolog"
)

// Tracker receives checkout conversion events.
type Tracker interface {
	// BeginCheckout records that a checkout attempt reached submission.
	BeginCheckout(productID string, value float64)

	// Purchase records a completed purchase.
	Purchase(orderID string, value float64)
}

// logTracker emits events to the structured log, tagged with the configured
// tracking IDs. It stands in for the pixel integrations the storefront
// fires client-side.
type logTracker struct {
	googleAdsID     string
	facebookPixelID string
	logger          zerolog.Logger
}

// New creates a tracker from configuration. When no tracking ID is
// configured, events are dropped entirely.
func New(cfg config.AnalyticsConfig, logger zerolog.Logger) Tracker {
	if cfg.GoogleAdsID == "" && cfg.FacebookPixelID == "" {
		return NopTracker{}
	}
	return &logTracker{
		googleAdsID:     cfg.GoogleAdsID,
		facebookPixelID: cfg.FacebookPixelID,
		logger:          logger.With().Str("component", "analytics").Logger(),
	}
}

func (t *logTracker) BeginCheckout(productID string, value float64) {
	t.logger.Info().
		Str("event", "begin_checkout").
		Str("product_id", productID).
		Float64("value", value).
		Str("google_ads_id", t.googleAdsID).
		Str("facebook_pixel_id", t.facebookPixelID).
		Msg("analytics event")
}

func (t *logTracker) Purchase(orderID string, value float64) {
	t.logger.Info().
		Str("event", "purchase").
		Str("order_id", orderID).
		Float64("value", value).
		Str("google_ads_id", t.googleAdsID).
		Str("facebook_pixel_id", t.facebookPixelID).
		Msg("analytics event")
}

// NopTracker drops all events.
type NopTracker struct{}

func (NopTracker) BeginCheckout(string, float64) {}
func (NopTracker) Purchase(string, float64)      {}
