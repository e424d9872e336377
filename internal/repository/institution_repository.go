package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type InstitutionRepository struct {
	db *gorm.DB
}

func NewInstitutionRepository(db *gorm.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

func (r *InstitutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Institution, error) {
	var institution model.Institution
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, address, latitude, longitude, phone, zone_id,
			is_active, created_at, updated_at
		FROM institutions
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&institution).Error; err != nil {
		return nil, err
	}
	if institution.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &institution, nil
}

func (r *InstitutionRepository) Create(ctx context.Context, institution *model.Institution) (*model.Institution, error) {
	var saved model.Institution
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO institutions (name, address, latitude, longitude, phone, zone_id, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, name, address, latitude, longitude, phone, zone_id,
			is_active, created_at, updated_at
	`,
		institution.Name,
		institution.Address,
		institution.Latitude,
		institution.Longitude,
		institution.Phone,
		institution.ZoneID,
		institution.IsActive,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *InstitutionRepository) List(ctx context.Context, zoneID *uuid.UUID) ([]model.Institution, error) {
	query := `
		SELECT id, name, address, latitude, longitude, phone, zone_id,
			is_active, created_at, updated_at
		FROM institutions
		WHERE is_active
	`
	args := []interface{}{}
	if zoneID != nil {
		query += " AND zone_id = ?"
		args = append(args, *zoneID)
	}
	query += " ORDER BY name ASC"

	var institutions []model.Institution
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&institutions).Error; err != nil {
		return nil, err
	}
	return institutions, nil
}
