package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tipfinity/internal/service"
	"tipfinity/internal/ws"
	apperrors "tipfinity/pkg/errors"
	"tipfinity/pkg/response"
)

type TipHandler struct {
	tipSvc *service.TipService
	hub    *ws.Hub
}

func NewTipHandler(tipSvc *service.TipService, hub *ws.Hub) *TipHandler {
	return &TipHandler{tipSvc: tipSvc, hub: hub}
}

type createTipRequest struct {
	CreatorID    uint    `json:"creator_id" binding:"required"`
	SenderWallet string  `json:"sender_wallet" binding:"required"`
	Amount       float64 `json:"amount"`
	Message      *string `json:"message"`
	Signature    string  `json:"signature" binding:"required"`
}

// Create records a client-reported tip. A repeated signature is answered with
// the duplicate outcome, never a second row.
func (h *TipHandler) Create(c *gin.Context) {
	var req createTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	tip, err := h.tipSvc.RecordTip(service.RecordTipInput{
		CreatorID:    req.CreatorID,
		SenderWallet: req.SenderWallet,
		Amount:       req.Amount,
		Message:      req.Message,
		Signature:    req.Signature,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateSignature) {
			log.Printf("[Tips] duplicate signature %s for creator %d", req.Signature, req.CreatorID)
		}
		response.FromError(c, err)
		return
	}
	log.Printf("[Tips] recorded tip %d for creator %d (%.4f from %s)", tip.ID, tip.CreatorID, tip.Amount, tip.SenderWallet)
	h.hub.BroadcastTip(tip)
	response.Success(c, http.StatusCreated, gin.H{"id": tip.ID, "created_at": tip.CreatedAt})
}

func (h *TipHandler) ListForCreator(c *gin.Context) {
	creatorID, err := strconv.ParseUint(c.Param("creator_id"), 10, 64)
	if err != nil || creatorID == 0 {
		response.Error(c, http.StatusBadRequest, "invalid creator id")
		return
	}
	tips, err := h.tipSvc.TipsForCreator(uint(creatorID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list tips")
		return
	}
	response.Success(c, http.StatusOK, tips)
}

func (h *TipHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tips, err := h.tipSvc.RecentTips(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list tips")
		return
	}
	response.Success(c, http.StatusOK, tips)
}
