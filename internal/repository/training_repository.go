package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Training, error) {
	var training model.Training
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, category_code, start_date, end_date, created_at
		FROM trainings
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&training).Error; err != nil {
		return nil, err
	}
	if training.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &training, nil
}

func (r *TrainingRepository) Create(ctx context.Context, training *model.Training) (*model.Training, error) {
	var saved model.Training
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO trainings (name, category_code, start_date, end_date)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, category_code, start_date, end_date, created_at
	`,
		training.Name,
		training.CategoryCode,
		training.StartDate,
		training.EndDate,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TrainingRepository) CreatePeriod(ctx context.Context, period *model.TrainingPeriod) (*model.TrainingPeriod, error) {
	var saved model.TrainingPeriod
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO training_periods (training_id, instructor_id, institution_id, period_date, start_at, end_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, training_id, instructor_id, institution_id, period_date, start_at, end_at
	`,
		period.TrainingID,
		period.InstructorID,
		period.InstitutionID,
		period.PeriodDate,
		period.StartAt,
		period.EndAt,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListForInstructorAndDate is the schedule source for travel
// recalculation. Rows come back in insertion order for equal start
// times; the route builder applies the stable start-time sort.
func (r *TrainingRepository) ListForInstructorAndDate(ctx context.Context, instructorID uuid.UUID, date time.Time) ([]model.TrainingPeriod, error) {
	var periods []model.TrainingPeriod
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, training_id, instructor_id, institution_id, period_date, start_at, end_at
		FROM training_periods
		WHERE instructor_id = ? AND period_date = ?
		ORDER BY id
	`, instructorID, date).Scan(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *TrainingRepository) ListPeriodsForInstructor(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]model.TrainingPeriod, error) {
	var periods []model.TrainingPeriod
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, training_id, instructor_id, institution_id, period_date, start_at, end_at
		FROM training_periods
		WHERE instructor_id = ? AND period_date >= ? AND period_date <= ?
		ORDER BY start_at ASC
	`, instructorID, from, to).Scan(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}
