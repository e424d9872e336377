package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type TravelRepository struct {
	db *gorm.DB
}

func NewTravelRepository(db *gorm.DB) *TravelRepository {
	return &TravelRepository{db: db}
}

const recordColumns = `
	id, instructor_id, travel_date, work_month, total_distance_km,
	travel_fee_amount_krw, snapshot_url, status, created_at, updated_at
`

func (r *TravelRepository) FindByInstructorAndDate(ctx context.Context, instructorID uuid.UUID, date time.Time) (*model.DailyTravelRecord, error) {
	var record model.DailyTravelRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+recordColumns+`
		FROM daily_travel_records
		WHERE instructor_id = ? AND travel_date = ?
		LIMIT 1
	`, instructorID, date).Scan(&record).Error; err != nil {
		return nil, err
	}
	if record.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	if err := r.loadWaypoints(ctx, r.db, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Save upserts by (instructor_id, travel_date). Scalar fields are
// overwritten and the waypoint list is cleared and rebuilt inside one
// transaction, so readers never observe a half-replaced route.
func (r *TravelRepository) Save(ctx context.Context, record *model.DailyTravelRecord) (*model.DailyTravelRecord, error) {
	var saved model.DailyTravelRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO daily_travel_records (
				instructor_id, travel_date, work_month, total_distance_km,
				travel_fee_amount_krw, snapshot_url, status
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (instructor_id, travel_date) DO UPDATE SET
				work_month = EXCLUDED.work_month,
				total_distance_km = EXCLUDED.total_distance_km,
				travel_fee_amount_krw = EXCLUDED.travel_fee_amount_krw,
				snapshot_url = EXCLUDED.snapshot_url,
				status = EXCLUDED.status,
				updated_at = NOW()
			RETURNING `+recordColumns+`
		`,
			record.InstructorID,
			record.TravelDate,
			record.WorkMonth,
			record.TotalDistanceKm,
			record.TravelFeeAmountKrw,
			record.SnapshotURL,
			record.Status,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`
			DELETE FROM travel_waypoints WHERE record_id = ?
		`, saved.ID).Error; err != nil {
			return err
		}

		for _, waypoint := range record.Waypoints {
			if err := tx.Exec(`
				INSERT INTO travel_waypoints (
					record_id, seq, name, address, latitude, longitude,
					institution_id, training_id, is_home
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				saved.ID,
				waypoint.Seq,
				waypoint.Name,
				waypoint.Address,
				waypoint.Latitude,
				waypoint.Longitude,
				waypoint.InstitutionID,
				waypoint.TrainingID,
				waypoint.IsHome,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadWaypoints(ctx, r.db, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TravelRepository) ListByInstructorAndDateRange(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]model.DailyTravelRecord, error) {
	var records []model.DailyTravelRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+recordColumns+`
		FROM daily_travel_records
		WHERE instructor_id = ? AND travel_date >= ? AND travel_date <= ?
		ORDER BY travel_date ASC
	`, instructorID, from, to).Scan(&records).Error; err != nil {
		return nil, err
	}
	if err := r.loadAllWaypoints(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *TravelRepository) ListByInstructorAndMonth(ctx context.Context, instructorID uuid.UUID, month string) ([]model.DailyTravelRecord, error) {
	var records []model.DailyTravelRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+recordColumns+`
		FROM daily_travel_records
		WHERE instructor_id = ? AND work_month = ?
		ORDER BY travel_date ASC
	`, instructorID, month).Scan(&records).Error; err != nil {
		return nil, err
	}
	if err := r.loadAllWaypoints(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// SumFinalFeesForMonth totals the payable expense: FINAL records
// only, DRAFT days contribute nothing.
func (r *TravelRepository) SumFinalFeesForMonth(ctx context.Context, instructorID uuid.UUID, month string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(travel_fee_amount_krw), 0)
		FROM daily_travel_records
		WHERE instructor_id = ? AND work_month = ? AND status = 'FINAL'
	`, instructorID, month).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TravelRepository) loadWaypoints(ctx context.Context, db *gorm.DB, record *model.DailyTravelRecord) error {
	var waypoints []model.TravelWaypoint
	if err := db.WithContext(ctx).Raw(`
		SELECT id, record_id, seq, name, address, latitude, longitude,
			institution_id, training_id, is_home
		FROM travel_waypoints
		WHERE record_id = ?
		ORDER BY seq ASC
	`, record.ID).Scan(&waypoints).Error; err != nil {
		return err
	}
	record.Waypoints = waypoints
	return nil
}

func (r *TravelRepository) loadAllWaypoints(ctx context.Context, records []model.DailyTravelRecord) error {
	for i := range records {
		if err := r.loadWaypoints(ctx, r.db, &records[i]); err != nil {
			return err
		}
	}
	return nil
}
