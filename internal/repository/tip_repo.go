package repository

import (
	"errors"

	"gorm.io/gorm"

	"tipfinity/internal/models"
	apperrors "tipfinity/pkg/errors"
)

type TipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

// Create appends one tip. The unique index on signature makes the insert
// idempotent under concurrent reports of the same transaction: exactly one
// caller gets nil, every other gets ErrDuplicateSignature.
func (r *TipRepository) Create(tip *models.Tip) error {
	err := r.db.Create(tip).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateSignature
	}
	return err
}

func (r *TipRepository) ListByCreator(creatorID uint) ([]models.Tip, error) {
	var tips []models.Tip
	err := r.db.Where("creator_id = ?", creatorID).
		Order("created_at DESC, id DESC").
		Find(&tips).Error
	return tips, err
}

func (r *TipRepository) Recent(limit int) ([]models.Tip, error) {
	var tips []models.Tip
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&tips).Error
	return tips, err
}

func (r *TipRepository) CountByCreator(creatorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Tip{}).Where("creator_id = ?", creatorID).Count(&count).Error
	return count, err
}
