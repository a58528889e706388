package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tipfinity/internal/repository"
	"tipfinity/pkg/cloudinary"
	"tipfinity/pkg/response"
)

type UploadHandler struct {
	cloud       cloudinary.Client
	creatorRepo *repository.CreatorRepository
}

func NewUploadHandler(cloud cloudinary.Client, creatorRepo *repository.CreatorRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, creatorRepo: creatorRepo}
}

// UploadAvatar stores a creator's profile image on Cloudinary and saves the
// delivered URL.
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.creatorRepo.GetByID(id); err != nil {
		response.FromError(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file required")
		return
	}
	folder := "Tipfinity/creators/" + strconv.FormatUint(uint64(id), 10)
	publicID := "avatar_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read file")
		return
	}
	defer f.Close()

	url, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		log.Printf("[Upload] avatar upload failed for creator %d: %v", id, err)
		response.Error(c, http.StatusInternalServerError, "upload failed")
		return
	}
	if err := h.creatorRepo.UpdateFields(id, map[string]interface{}{"profile_image": url}); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url})
}
