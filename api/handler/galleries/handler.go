package galleries

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/api/middleware"
	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/galleries"
	"github.com/gin-gonic/gin"
)

// Handler gallery and gallery image endpoints
type Handler struct {
	repo *galleries.Repository
}

// NewHandler creates a new galleries handler
func NewHandler(repo *galleries.Repository) *Handler {
	return &Handler{repo: repo}
}

type createGalleryData struct {
	Name      string `json:"name" binding:"required,max=100"`
	Continent string `json:"continent"`
	Place     string `json:"place"`
}

type createGalleryRequest struct {
	Data createGalleryData `json:"data" binding:"required"`
}

type createGalleryImageData struct {
	GalleryID uint   `json:"galleryId" binding:"required"`
	URL       string `json:"url" binding:"required,max=500"`
}

type createGalleryImageRequest struct {
	Data createGalleryImageData `json:"data" binding:"required"`
}

type updateGalleryData struct {
	Name      *string `json:"name"`
	Continent *string `json:"continent"`
	Place     *string `json:"place"`
	Active    *bool   `json:"active"`
}

type updateGalleryRequest struct {
	Data *updateGalleryData `json:"data" binding:"required"`
}

// CreateGalleryHandler creates a gallery owned by the authenticated admin.
// New galleries start inactive.
func (h *Handler) CreateGalleryHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req createGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gallery := models.Gallery{
		UserID:    userID,
		Name:      req.Data.Name,
		Continent: req.Data.Continent,
		Place:     req.Data.Place,
		Active:    false,
	}

	if err := h.repo.CreateGallery(&gallery); err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to create gallery")
		return
	}

	common.RespondCreated(c, gallery)
}

// CreateGalleryImageHandler attaches an uploaded image URL to a gallery
func (h *Handler) CreateGalleryImageHandler(c *gin.Context) {
	var req createGalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.repo.GetGalleryByID(req.Data.GalleryID); err != nil {
		if errors.Is(err, galleries.ErrGalleryNotFound) {
			common.RespondError(c, http.StatusNotFound, "Gallery not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to load gallery")
		return
	}

	image := models.GalleryImage{
		GalleryID: req.Data.GalleryID,
		ImageURL:  req.Data.URL,
	}

	if err := h.repo.CreateGalleryImage(&image); err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to create gallery image")
		return
	}

	common.RespondCreated(c, image)
}

// GetGalleryByIDHandler fetches one gallery
func (h *Handler) GetGalleryByIDHandler(c *gin.Context) {
	galleryID, ok := parseIDParam(c, "galleryId")
	if !ok {
		return
	}

	gallery, err := h.repo.GetGalleryByID(galleryID)
	if err != nil {
		if errors.Is(err, galleries.ErrGalleryNotFound) {
			common.RespondError(c, http.StatusNotFound, "Gallery not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to load gallery")
		return
	}

	common.RespondSuccess(c, gallery)
}

// GetAllGalleriesHandler lists every gallery, drafts included
func (h *Handler) GetAllGalleriesHandler(c *gin.Context) {
	allGalleries, err := h.repo.GetAllGalleries()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list galleries")
		return
	}
	common.RespondSuccess(c, allGalleries)
}

// GetActiveGalleriesHandler lists published galleries only
func (h *Handler) GetActiveGalleriesHandler(c *gin.Context) {
	activeGalleries, err := h.repo.GetActiveGalleries()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list galleries")
		return
	}
	common.RespondSuccess(c, activeGalleries)
}

// UpdateGalleryHandler applies a partial update to a gallery
func (h *Handler) UpdateGalleryHandler(c *gin.Context) {
	galleryID, ok := parseIDParam(c, "galleryId")
	if !ok {
		return
	}

	var req updateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Missing gallery data")
		return
	}

	gallery, err := h.repo.UpdateGallery(galleryID, galleries.GalleryUpdate{
		Name:      req.Data.Name,
		Continent: req.Data.Continent,
		Place:     req.Data.Place,
		Active:    req.Data.Active,
	})
	if err != nil {
		if errors.Is(err, galleries.ErrGalleryNotFound) {
			common.RespondError(c, http.StatusNotFound, "Gallery not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to update gallery")
		return
	}

	common.RespondSuccess(c, gallery)
}

// GetGalleryImagesHandler lists the image rows of a gallery
func (h *Handler) GetGalleryImagesHandler(c *gin.Context) {
	galleryID, ok := parseIDParam(c, "galleryId")
	if !ok {
		return
	}

	images, err := h.repo.GetImagesByGalleryID(galleryID)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list gallery images")
		return
	}
	common.RespondSuccess(c, images)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		common.RespondError(c, http.StatusBadRequest, "Missing or invalid "+name)
		return 0, false
	}
	return uint(id), true
}
