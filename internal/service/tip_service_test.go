package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tipfinity/config"
	"tipfinity/internal/models"
	"tipfinity/internal/repository"
	apperrors "tipfinity/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// serialize writes; in-memory sqlite has no row-level concurrency
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Creator{}, &models.Tip{}))
	return db
}

func newTipService(t *testing.T, db *gorm.DB) (*TipService, *repository.CreatorRepository) {
	t.Helper()
	creatorRepo := repository.NewCreatorRepository(db)
	tipRepo := repository.NewTipRepository(db)
	svc := NewTipService(tipRepo, creatorRepo, config.TipsConfig{RecentLimit: 10, RecentLimitMax: 100})
	return svc, creatorRepo
}

func seedCreator(t *testing.T, repo *repository.CreatorRepository, username string) *models.Creator {
	t.Helper()
	creator := &models.Creator{Username: username, DisplayName: username, Email: username + "@example.com"}
	require.NoError(t, repo.Create(creator))
	return creator
}

func TestRecordTipHappyPathThenDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc, creatorRepo := newTipService(t, db)
	alice := seedCreator(t, creatorRepo, "alice")

	msg := "great stream!"
	tip, err := svc.RecordTip(RecordTipInput{
		CreatorID:    alice.ID,
		SenderWallet: "W1",
		Amount:       5.0,
		Message:      &msg,
		Signature:    "sig-abc",
	})
	require.NoError(t, err)
	assert.NotZero(t, tip.ID)
	assert.False(t, tip.CreatedAt.IsZero())

	// identical resubmission
	_, err = svc.RecordTip(RecordTipInput{
		CreatorID: alice.ID, SenderWallet: "W1", Amount: 5.0, Message: &msg, Signature: "sig-abc",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSignature)

	// same signature with different fields is still the same transaction
	_, err = svc.RecordTip(RecordTipInput{
		CreatorID: alice.ID, SenderWallet: "W9", Amount: 1.0, Signature: "sig-abc",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSignature)

	tips, err := svc.TipsForCreator(alice.ID)
	require.NoError(t, err)
	require.Len(t, tips, 1, "ledger must contain exactly one row per signature")
	assert.EqualValues(t, 5.0, tips[0].Amount)
}

func TestRecordTipInvalidAmount(t *testing.T) {
	db := setupTestDB(t)
	svc, creatorRepo := newTipService(t, db)
	alice := seedCreator(t, creatorRepo, "alice")

	for _, amount := range []float64{0, -0.5, -100} {
		_, err := svc.RecordTip(RecordTipInput{
			CreatorID: alice.ID, SenderWallet: "W1", Amount: amount, Signature: "sig-bad",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, "amount=%v", amount)
	}

	tips, err := svc.TipsForCreator(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tips, "rejected reports must write nothing")
}

func TestRecordTipCreatorNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTipService(t, db)

	_, err := svc.RecordTip(RecordTipInput{
		CreatorID: 42, SenderWallet: "W1", Amount: 3, Signature: "sig-orphan",
	})
	assert.ErrorIs(t, err, apperrors.ErrCreatorNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Tip{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordTipMissingFields(t *testing.T) {
	db := setupTestDB(t)
	svc, creatorRepo := newTipService(t, db)
	alice := seedCreator(t, creatorRepo, "alice")

	_, err := svc.RecordTip(RecordTipInput{CreatorID: alice.ID, SenderWallet: "W1", Amount: 1})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = svc.RecordTip(RecordTipInput{CreatorID: alice.ID, Amount: 1, Signature: "sig-x"})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

// Exactly-once acceptance per signature under concurrent reports: one caller
// observes accepted, every other observes duplicate, and the ledger ends with
// a single row.
func TestRecordTipConcurrentSameSignature(t *testing.T) {
	db := setupTestDB(t)
	svc, creatorRepo := newTipService(t, db)
	alice := seedCreator(t, creatorRepo, "alice")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordTip(RecordTipInput{
				CreatorID: alice.ID, SenderWallet: "W1", Amount: 2.5, Signature: "sig-race",
			})
		}(i)
	}
	wg.Wait()

	accepted, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		default:
			require.ErrorIs(t, err, apperrors.ErrDuplicateSignature)
			duplicates++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, n-1, duplicates)

	var count int64
	require.NoError(t, db.Model(&models.Tip{}).Where("signature = ?", "sig-race").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecentTipsLimits(t *testing.T) {
	db := setupTestDB(t)
	creatorRepo := repository.NewCreatorRepository(db)
	tipRepo := repository.NewTipRepository(db)
	svc := NewTipService(tipRepo, creatorRepo, config.TipsConfig{RecentLimit: 2, RecentLimitMax: 3})
	alice := seedCreator(t, creatorRepo, "alice")

	for i := 0; i < 5; i++ {
		_, err := svc.RecordTip(RecordTipInput{
			CreatorID: alice.ID, SenderWallet: "W1", Amount: float64(i + 1),
			Signature: fmt.Sprintf("sig-%d", i),
		})
		require.NoError(t, err)
	}

	tips, err := svc.RecentTips(0)
	require.NoError(t, err)
	assert.Len(t, tips, 2, "default limit")

	tips, err = svc.RecentTips(50)
	require.NoError(t, err)
	assert.Len(t, tips, 3, "capped at the maximum")

	tips, err = svc.RecentTips(1)
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.EqualValues(t, 5, tips[0].Amount)
}
