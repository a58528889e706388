package service

import (
	"tipfinity/internal/repository"
	apperrors "tipfinity/pkg/errors"
	"tipfinity/pkg/solana"
)

type WalletLinkResult struct {
	Verified      bool   `json:"verified"`
	WalletAddress string `json:"wallet_address"`
}

type WalletService struct {
	creatorRepo *repository.CreatorRepository
}

func NewWalletService(creatorRepo *repository.CreatorRepository) *WalletService {
	return &WalletService{creatorRepo: creatorRepo}
}

// LinkWallet binds a wallet address to a creator after the claimant proves
// control of the key by signing the supplied message. The creator row is
// written only on full success; every failure branch leaves it untouched.
func (s *WalletService) LinkWallet(creatorID uint, publicKeyB58, message, signatureB58 string) (*WalletLinkResult, error) {
	pk, err := solana.PublicKeyFromBase58(publicKeyB58)
	if err != nil {
		return nil, apperrors.ErrInvalidPublicKey
	}
	sig, err := solana.SignatureFromBase58(signatureB58)
	if err != nil {
		return nil, apperrors.ErrInvalidSignature
	}
	if !solana.Verify([]byte(message), pk, sig) {
		return nil, apperrors.ErrVerificationFailed
	}
	address := pk.String()
	if err := s.creatorRepo.SetWalletAddress(creatorID, address); err != nil {
		return nil, err
	}
	return &WalletLinkResult{Verified: true, WalletAddress: address}, nil
}
