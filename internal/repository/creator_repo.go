package repository

import (
	"errors"

	"gorm.io/gorm"

	"tipfinity/internal/models"
	apperrors "tipfinity/pkg/errors"
)

type CreatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

// Create inserts a new creator. The unique index on username is the source of
// truth for duplicates: a concurrent create that slips past any pre-check
// still comes back as ErrUsernameTaken here.
func (r *CreatorRepository) Create(creator *models.Creator) error {
	err := r.db.Create(creator).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrUsernameTaken
	}
	return err
}

func (r *CreatorRepository) GetByID(id uint) (*models.Creator, error) {
	var creator models.Creator
	err := r.db.First(&creator, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCreatorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

func (r *CreatorRepository) GetByWalletAddress(address string) (*models.Creator, error) {
	var creator models.Creator
	err := r.db.Where("wallet_address = ?", address).First(&creator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCreatorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

func (r *CreatorRepository) List() ([]models.Creator, error) {
	var creators []models.Creator
	err := r.db.Order("id ASC").Find(&creators).Error
	return creators, err
}

func (r *CreatorRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Creator{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateFields applies a partial update. Callers must never include
// wallet_address here; that column belongs to SetWalletAddress alone.
func (r *CreatorRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.Creator{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCreatorNotFound
	}
	return nil
}

// SetWalletAddress is the only writer of the wallet_address column.
func (r *CreatorRepository) SetWalletAddress(id uint, address string) error {
	res := r.db.Model(&models.Creator{}).Where("id = ?", id).Update("wallet_address", address)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCreatorNotFound
	}
	return nil
}

// Delete removes a creator. Tips keep a foreign key on creators, so the
// constraint blocks the delete when dependent rows exist, even if one landed
// after the handler's pre-check.
func (r *CreatorRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Creator{}, id)
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return apperrors.ErrCreatorHasTips
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCreatorNotFound
	}
	return nil
}
