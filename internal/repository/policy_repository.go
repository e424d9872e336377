package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TravelPolicy, error) {
	var policy model.TravelPolicy
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, min_km, max_km, amount_krw, is_active, valid_from, valid_to, created_at
		FROM travel_policies
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&policy).Error; err != nil {
		return nil, err
	}
	if policy.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &policy, nil
}

func (r *PolicyRepository) Create(ctx context.Context, policy *model.TravelPolicy) (*model.TravelPolicy, error) {
	var saved model.TravelPolicy
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO travel_policies (min_km, max_km, amount_krw, is_active, valid_from, valid_to)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, min_km, max_km, amount_krw, is_active, valid_from, valid_to, created_at
	`,
		policy.MinKm,
		policy.MaxKm,
		policy.AmountKrw,
		policy.IsActive,
		policy.ValidFrom,
		policy.ValidTo,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *PolicyRepository) List(ctx context.Context, includeInactive bool) ([]model.TravelPolicy, error) {
	query := `
		SELECT id, min_km, max_km, amount_krw, is_active, valid_from, valid_to, created_at
		FROM travel_policies
	`
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY min_km ASC"

	var policies []model.TravelPolicy
	if err := r.db.WithContext(ctx).Raw(query).Scan(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// ListActiveForDate returns the active policies whose validity window
// covers the date. Band matching and the tie-break happen in the
// service layer.
func (r *PolicyRepository) ListActiveForDate(ctx context.Context, date time.Time) ([]model.TravelPolicy, error) {
	var policies []model.TravelPolicy
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, min_km, max_km, amount_krw, is_active, valid_from, valid_to, created_at
		FROM travel_policies
		WHERE is_active
			AND (valid_from IS NULL OR valid_from <= ?)
			AND (valid_to IS NULL OR valid_to >= ?)
		ORDER BY min_km ASC
	`, date, date).Scan(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *PolicyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE travel_policies SET is_active = ? WHERE id = ?
	`, active, id).Error
}
