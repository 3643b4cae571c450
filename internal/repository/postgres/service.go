package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/booking-api/internal/model"
)

const serviceColumns = `
	id, name, description, price_cents, duration_minutes,
	max_participants, category, is_active, created_at, updated_at`

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `SELECT` + serviceColumns + `
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	if err := sqlx.GetContext(ctx, r.db, &svc, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", notFound(err))
	}
	return &svc, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]*model.Service, error) {
	query := `SELECT` + serviceColumns + `
		FROM services
		WHERE is_active = true
		ORDER BY name ASC
	`
	var services []*model.Service
	if err := sqlx.SelectContext(ctx, r.db, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
