package uploads

import (
	"errors"
	"net/http"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/internal/uploads"
	"github.com/gin-gonic/gin"
)

// Handler presigned upload lifecycle endpoints
type Handler struct {
	service *uploads.Service
}

// NewHandler creates a new uploads handler
func NewHandler(service *uploads.Service) *Handler {
	return &Handler{service: service}
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	PostID      uint   `json:"postId"`
	GalleryID   uint   `json:"galleryId"`
}

type presignResponse struct {
	PresignedURL string `json:"presignedUrl"`
	PublicURL    string `json:"publicUrl"`
}

type confirmRequest struct {
	PublicURL   string `json:"publicUrl"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Context     string `json:"context"`
}

type deleteImagesRequest struct {
	ImageURLs []string `json:"imageUrls"`
}

// PresignHandler issues a short lived PUT URL for a direct browser upload.
// The object key is scoped to the gallery or post the image belongs to.
func (h *Handler) PresignHandler(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Missing filename or contentType")
		return
	}

	result, err := h.service.Presign(c.Request.Context(), req.Filename, req.ContentType, req.PostID, req.GalleryID)
	if err != nil {
		if errors.Is(err, uploads.ErrMissingFields) {
			common.RespondError(c, http.StatusBadRequest, "Missing filename or contentType")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	common.RespondSuccess(c, presignResponse{
		PresignedURL: result.PresignedURL,
		PublicURL:    result.PublicURL,
	})
}

// ConfirmHandler acknowledges a completed upload. The object already
// lives in the bucket at this point; this validates and echoes.
func (h *Handler) ConfirmHandler(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	result, err := h.service.Confirm(req.PublicURL, req.Filename, req.ContentType, req.Context)
	if err != nil {
		if errors.Is(err, uploads.ErrMissingFields) {
			common.RespondError(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		if errors.Is(err, uploads.ErrInvalidContext) {
			common.RespondError(c, http.StatusBadRequest, "Invalid upload context")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to confirm upload")
		return
	}

	common.RespondSuccess(c, result)
}

// DeleteImagesHandler removes objects by public URL, best effort per
// item. The response always reports 200 with per item outcomes.
func (h *Handler) DeleteImagesHandler(c *gin.Context) {
	var req deleteImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ImageURLs) == 0 {
		common.RespondError(c, http.StatusBadRequest, "Missing imageUrls")
		return
	}

	result := h.service.DeleteObjects(c.Request.Context(), req.ImageURLs)
	common.RespondSuccess(c, result)
}
