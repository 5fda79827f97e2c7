package comments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/comments"
	"github.com/fotonatura/portfolio-api/database/repo/posts"
	"github.com/fotonatura/portfolio-api/internal/mailer"
	"github.com/gin-gonic/gin"
)

// Handler comment creation and moderation endpoints
type Handler struct {
	repo          *comments.Repository
	postsRepo     *posts.Repository
	mailerService *mailer.Service
}

// NewHandler creates a new comments handler
func NewHandler(repo *comments.Repository, postsRepo *posts.Repository, mailerService *mailer.Service) *Handler {
	return &Handler{
		repo:          repo,
		postsRepo:     postsRepo,
		mailerService: mailerService,
	}
}

type createCommentData struct {
	Email   string `json:"email" binding:"required,email"`
	Comment string `json:"comment" binding:"required"`
}

type createCommentRequest struct {
	Data createCommentData `json:"data" binding:"required"`
}

type updateCommentRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// CreateCommentHandler creates a public comment on a post and notifies
// the admins in the background. Notification failure never reaches the
// caller; the comment exists by then.
func (h *Handler) CreateCommentHandler(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postsRepo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			common.RespondError(c, http.StatusNotFound, "Post not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to load post")
		return
	}

	comment := models.Comment{
		PostID:  postID,
		Email:   req.Data.Email,
		Content: req.Data.Comment,
	}

	if err := h.repo.CreateComment(&comment); err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	h.mailerService.NotifyNewComment(post.Title, comment.Email, comment.Content)

	common.RespondCreated(c, comment)
}

// GetCommentsByPostIDHandler lists every comment of a post, moderation view
func (h *Handler) GetCommentsByPostIDHandler(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	postComments, err := h.repo.GetCommentsByPostID(postID)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	common.RespondSuccess(c, postComments)
}

// GetAllCommentsHandler lists every comment with its post title
func (h *Handler) GetAllCommentsHandler(c *gin.Context) {
	allComments, err := h.repo.GetAllComments()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	common.RespondSuccess(c, allComments)
}

// GetApprovedCommentsByPostIDHandler lists approved comments, public view
func (h *Handler) GetApprovedCommentsByPostIDHandler(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	postComments, err := h.repo.GetApprovedCommentsByPostID(postID)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	common.RespondSuccess(c, postComments)
}

// UpdateCommentHandler flips the moderation flag of a comment
func (h *Handler) UpdateCommentHandler(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Missing approved field")
		return
	}

	comment, err := h.repo.SetApproved(commentID, *req.Approved)
	if err != nil {
		if errors.Is(err, comments.ErrCommentNotFound) {
			common.RespondError(c, http.StatusNotFound, "Comment not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	common.RespondSuccess(c, comment)
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
