package service

import (
	"tipfinity/config"
	"tipfinity/internal/models"
	"tipfinity/internal/repository"
	apperrors "tipfinity/pkg/errors"
)

// RecordTipInput is the single shape every tip report is reduced to before it
// reaches the ledger, whether it arrived from a client or a webhook.
type RecordTipInput struct {
	CreatorID    uint
	SenderWallet string
	Amount       float64
	Message      *string
	Signature    string
}

type TipService struct {
	tipRepo     *repository.TipRepository
	creatorRepo *repository.CreatorRepository
	cfg         config.TipsConfig
}

func NewTipService(tipRepo *repository.TipRepository, creatorRepo *repository.CreatorRepository, cfg config.TipsConfig) *TipService {
	return &TipService{tipRepo: tipRepo, creatorRepo: creatorRepo, cfg: cfg}
}

// RecordTip validates and appends one reported transfer. Repeated reports of
// the same transaction signature return ErrDuplicateSignature and leave the
// ledger untouched; the ledger ends with exactly one row per signature no
// matter how many reports race.
func (s *TipService) RecordTip(in RecordTipInput) (*models.Tip, error) {
	if in.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if in.Signature == "" {
		return nil, apperrors.InvalidArg("transaction signature is required")
	}
	if in.SenderWallet == "" {
		return nil, apperrors.InvalidArg("sender wallet is required")
	}
	if _, err := s.creatorRepo.GetByID(in.CreatorID); err != nil {
		return nil, err
	}
	tip := &models.Tip{
		CreatorID:    in.CreatorID,
		SenderWallet: in.SenderWallet,
		Amount:       in.Amount,
		Message:      in.Message,
		Signature:    in.Signature,
	}
	if err := s.tipRepo.Create(tip); err != nil {
		return nil, err
	}
	return tip, nil
}

func (s *TipService) TipsForCreator(creatorID uint) ([]models.Tip, error) {
	return s.tipRepo.ListByCreator(creatorID)
}

// RecentTips returns the newest tips across all creators. limit <= 0 falls
// back to the configured default; the configured maximum caps it.
func (s *TipService) RecentTips(limit int) ([]models.Tip, error) {
	if limit <= 0 {
		limit = s.cfg.RecentLimit
	}
	if limit > s.cfg.RecentLimitMax {
		limit = s.cfg.RecentLimitMax
	}
	return s.tipRepo.Recent(limit)
}
