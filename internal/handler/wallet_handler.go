package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tipfinity/internal/service"
	apperrors "tipfinity/pkg/errors"
	"tipfinity/pkg/response"
)

type WalletHandler struct {
	walletSvc *service.WalletService
}

func NewWalletHandler(walletSvc *service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

type walletLinkRequest struct {
	PublicKey string `json:"public_key" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	CreatorID uint   `json:"creator_id" binding:"required"`
}

// Link verifies the signed message and binds the wallet to the creator.
// A failed verification is logged apart from malformed input; it means
// someone claimed a key they could not sign for.
func (h *WalletHandler) Link(c *gin.Context) {
	var req walletLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.walletSvc.LinkWallet(req.CreatorID, req.PublicKey, req.Message, req.Signature)
	if err != nil {
		if errors.Is(err, apperrors.ErrVerificationFailed) {
			log.Printf("[Wallet] verification failed for creator %d (key %s)", req.CreatorID, req.PublicKey)
		}
		response.FromError(c, err)
		return
	}
	log.Printf("[Wallet] linked %s to creator %d", result.WalletAddress, req.CreatorID)
	response.Success(c, http.StatusOK, result)
}
