package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/api/middleware"
	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/posts"
	"github.com/fotonatura/portfolio-api/internal/uploads"
	"github.com/fotonatura/portfolio-api/utils"
	"github.com/gin-gonic/gin"
)

// Handler post CRUD endpoints
type Handler struct {
	repo          *posts.Repository
	uploadService *uploads.Service
}

// NewHandler creates a new posts handler
func NewHandler(repo *posts.Repository, uploadService *uploads.Service) *Handler {
	return &Handler{
		repo:          repo,
		uploadService: uploadService,
	}
}

type postData struct {
	Title         string `json:"title" binding:"required,max=255"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	FeaturedImage string `json:"featuredImage"`
	Slug          string `json:"slug"`
	Active        *bool  `json:"active"`
}

type createPostRequest struct {
	PostData postData `json:"postData" binding:"required"`
}

type updatePostRequest struct {
	PostData          postData `json:"postData" binding:"required"`
	ImageURLsToDelete []string `json:"imageUrlsToDelete"`
}

// CreatePostHandler creates a post owned by the authenticated admin
func (h *Handler) CreatePostHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post := models.Post{
		Title:         req.PostData.Title,
		Content:       req.PostData.Content,
		Category:      req.PostData.Category,
		FeaturedImage: req.PostData.FeaturedImage,
		Slug:          req.PostData.Slug,
		OwnerID:       userID,
	}

	if err := h.repo.CreatePost(&post); err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	common.RespondCreated(c, post)
}

// GetAllPostsHandler lists every post, drafts included
func (h *Handler) GetAllPostsHandler(c *gin.Context) {
	allPosts, err := h.repo.GetAllPosts()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}
	common.RespondSuccess(c, allPosts)
}

// GetActivePostsHandler lists published posts only
func (h *Handler) GetActivePostsHandler(c *gin.Context) {
	activePosts, err := h.repo.GetActivePosts()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}
	common.RespondSuccess(c, activePosts)
}

// GetPostByIDHandler fetches one full post
func (h *Handler) GetPostByIDHandler(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	post, err := h.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			common.RespondError(c, http.StatusNotFound, "Post not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to load post")
		return
	}

	common.RespondSuccess(c, post)
}

// UpdatePostHandler updates a post. Removed images are cleaned out of
// object storage in the background; the update never fails because
// cleanup did.
func (h *Handler) UpdatePostHandler(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			common.RespondError(c, http.StatusNotFound, "Post not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to load post")
		return
	}

	post.Title = req.PostData.Title
	post.Content = req.PostData.Content
	post.Category = req.PostData.Category
	post.FeaturedImage = req.PostData.FeaturedImage
	if req.PostData.Slug != "" {
		post.Slug = req.PostData.Slug
	}
	if req.PostData.Active != nil {
		post.Active = *req.PostData.Active
	}

	if err := h.repo.UpdatePost(post); err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to update post")
		return
	}

	if len(req.ImageURLsToDelete) > 0 {
		imageURLs := req.ImageURLsToDelete
		utils.SafeGo(func() {
			h.uploadService.DeleteObjects(context.Background(), imageURLs)
		})
	}

	common.RespondSuccess(c, post)
}

// parseIDParam parses a numeric path parameter, responding 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		common.RespondError(c, http.StatusBadRequest, "Missing or invalid "+name)
		return 0, false
	}
	return uint(id), true
}
