package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tipfinity/internal/models"
	"tipfinity/internal/repository"
	apperrors "tipfinity/pkg/errors"
	"tipfinity/pkg/response"
)

type CreatorHandler struct {
	creatorRepo *repository.CreatorRepository
	tipRepo     *repository.TipRepository
}

func NewCreatorHandler(creatorRepo *repository.CreatorRepository, tipRepo *repository.TipRepository) *CreatorHandler {
	return &CreatorHandler{creatorRepo: creatorRepo, tipRepo: tipRepo}
}

type createCreatorRequest struct {
	Username     string  `json:"username" binding:"required"`
	DisplayName  string  `json:"display_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	// wallet_address is accepted in the payload for compatibility but never
	// stored here; linking goes through the verified wallet flow only.
	WalletAddress *string `json:"wallet_address"`
}

// Create registers a new creator. The username pre-check and the unique
// constraint report the same ErrUsernameTaken, so a concurrent duplicate
// create loses cleanly either way.
func (h *CreatorHandler) Create(c *gin.Context) {
	var req createCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	taken, err := h.creatorRepo.UsernameExists(req.Username)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not check username")
		return
	}
	if taken {
		response.FromError(c, apperrors.ErrUsernameTaken)
		return
	}
	creator := &models.Creator{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	}
	if err := h.creatorRepo.Create(creator); err != nil {
		response.FromError(c, err)
		return
	}
	log.Printf("[Creators] created %q (id=%d)", creator.Username, creator.ID)
	response.Success(c, http.StatusCreated, creator)
}

func (h *CreatorHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	creator, err := h.creatorRepo.GetByID(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, creator)
}

func (h *CreatorHandler) List(c *gin.Context) {
	creators, err := h.creatorRepo.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list creators")
		return
	}
	response.Success(c, http.StatusOK, creators)
}

func (h *CreatorHandler) CheckUsername(c *gin.Context) {
	username := c.Param("username")
	taken, err := h.creatorRepo.UsernameExists(username)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not check username")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"available": !taken})
}

type updateCreatorRequest struct {
	DisplayName  *string `json:"display_name"`
	Email        *string `json:"email"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

// Update patches the provided fields only. wallet_address is deliberately
// absent: that column is owned by the wallet-link flow.
func (h *CreatorHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]interface{}{}
	if req.DisplayName != nil {
		fields["display_name"] = *req.DisplayName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.ProfileImage != nil {
		fields["profile_image"] = *req.ProfileImage
	}
	if len(fields) == 0 {
		response.Success(c, http.StatusOK, gin.H{"updated": false})
		return
	}
	if err := h.creatorRepo.UpdateFields(id, fields); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete removes a creator unless tips reference it. The ledger is
// append-only, so dependent tips block deletion instead of cascading.
func (h *CreatorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.tipRepo.CountByCreator(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not check dependent tips")
		return
	}
	if count > 0 {
		response.FromError(c, apperrors.ErrCreatorHasTips)
		return
	}
	if err := h.creatorRepo.Delete(id); err != nil {
		response.FromError(c, err)
		return
	}
	log.Printf("[Creators] deleted id=%d", id)
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
