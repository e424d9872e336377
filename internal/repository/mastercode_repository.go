package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type MasterCodeRepository struct {
	db *gorm.DB
}

func NewMasterCodeRepository(db *gorm.DB) *MasterCodeRepository {
	return &MasterCodeRepository{db: db}
}

func (r *MasterCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MasterCode, error) {
	var code model.MasterCode
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name, parent_id, depth, sort_order, is_active, created_at
		FROM master_codes
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&code).Error; err != nil {
		return nil, err
	}
	if code.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &code, nil
}

func (r *MasterCodeRepository) Create(ctx context.Context, code *model.MasterCode) (*model.MasterCode, error) {
	var saved model.MasterCode
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO master_codes (code, name, parent_id, depth, sort_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, code, name, parent_id, depth, sort_order, is_active, created_at
	`,
		code.Code,
		code.Name,
		code.ParentID,
		code.Depth,
		code.SortOrder,
		code.IsActive,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListByParent returns root codes for a nil parent, otherwise the
// direct children of the parent node.
func (r *MasterCodeRepository) ListByParent(ctx context.Context, parentID *uuid.UUID) ([]model.MasterCode, error) {
	query := `
		SELECT id, code, name, parent_id, depth, sort_order, is_active, created_at
		FROM master_codes
		WHERE is_active
	`
	args := []interface{}{}
	if parentID == nil {
		query += " AND parent_id IS NULL"
	} else {
		query += " AND parent_id = ?"
		args = append(args, *parentID)
	}
	query += " ORDER BY sort_order ASC, code ASC"

	var codes []model.MasterCode
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *MasterCodeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE master_codes SET is_active = ? WHERE id = ?
	`, active, id).Error
}
