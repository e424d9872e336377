package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type InstructorRepository struct {
	db *gorm.DB
}

func NewInstructorRepository(db *gorm.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

func (r *InstructorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Instructor, error) {
	var instructor model.Instructor
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, email, home_address, home_latitude, home_longitude,
			is_active, created_at, updated_at
		FROM instructors
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&instructor).Error; err != nil {
		return nil, err
	}
	if instructor.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &instructor, nil
}

func (r *InstructorRepository) Create(ctx context.Context, instructor *model.Instructor) (*model.Instructor, error) {
	var saved model.Instructor
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO instructors (name, phone, email, home_address, home_latitude, home_longitude, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, name, phone, email, home_address, home_latitude, home_longitude,
			is_active, created_at, updated_at
	`,
		instructor.Name,
		instructor.Phone,
		instructor.Email,
		instructor.HomeAddress,
		instructor.HomeLatitude,
		instructor.HomeLongitude,
		instructor.IsActive,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *InstructorRepository) List(ctx context.Context, includeInactive bool) ([]model.Instructor, error) {
	query := `
		SELECT id, name, phone, email, home_address, home_latitude, home_longitude,
			is_active, created_at, updated_at
		FROM instructors
	`
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY name ASC"

	var instructors []model.Instructor
	if err := r.db.WithContext(ctx).Raw(query).Scan(&instructors).Error; err != nil {
		return nil, err
	}
	return instructors, nil
}

func (r *InstructorRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE instructors SET is_active = ?, updated_at = NOW() WHERE id = ?
	`, active, id).Error
}
