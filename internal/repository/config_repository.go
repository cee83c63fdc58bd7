package repository

import (
	"context"
	"fmt"

	"checkout-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// configRepository reads the gateway configuration row from PostgreSQL.
type configRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewConfigRepository creates a new PostgreSQL-backed config repository.
func NewConfigRepository(pool *pgxpool.Pool, logger zerolog.Logger) ConfigRepository {
	return &configRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "config").Logger(),
	}
}

// GetGatewayConfig returns the single gateway configuration row. The table
// holds at most one row; absence means defaults (flags off, no redirect
// override), which is not an error.
func (r *configRepository) GetGatewayConfig(ctx context.Context) (*model.GatewayConfig, error) {
	query := `
		SELECT use_netlify_functions, manual_card_redirect_page, sandbox
		FROM gateway_config
		LIMIT 1
	`

	var cfg model.GatewayConfig
	err := r.pool.QueryRow(ctx, query).Scan(
		&cfg.UseNetlifyFunctions,
		&cfg.ManualCardRedirectPage,
		&cfg.Sandbox,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Msg("no gateway config row, using defaults")
			return &model.GatewayConfig{}, nil
		}
		r.logger.Error().Err(err).Msg("failed to query gateway config")
		return nil, fmt.Errorf("failed to query gateway config: %w", err)
	}

	return &cfg, nil
}
