package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type ZoneRepository struct {
	db *gorm.DB
}

func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

func (r *ZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name FROM zones WHERE id = ? LIMIT 1
	`, id).Scan(&zone).Error; err != nil {
		return nil, err
	}
	if zone.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &zone, nil
}

func (r *ZoneRepository) Create(ctx context.Context, zone *model.Zone) (*model.Zone, error) {
	var saved model.Zone
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO zones (code, name) VALUES (?, ?)
		RETURNING id, code, name
	`, zone.Code, zone.Name).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ZoneRepository) List(ctx context.Context) ([]model.Zone, error) {
	var zones []model.Zone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name FROM zones ORDER BY code ASC
	`).Scan(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
