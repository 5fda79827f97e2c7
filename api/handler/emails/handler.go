package emails

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/database/repo/posts"
	"github.com/fotonatura/portfolio-api/internal/mailer"
	"github.com/gin-gonic/gin"
)

// Handler subscription and campaign endpoints
type Handler struct {
	mailerService *mailer.Service
	postsRepo     *posts.Repository
}

// NewHandler creates a new emails handler
func NewHandler(mailerService *mailer.Service, postsRepo *posts.Repository) *Handler {
	return &Handler{
		mailerService: mailerService,
		postsRepo:     postsRepo,
	}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscribeHandler adds an email to the contact list through a double
// opt-in template. Subscribing twice is not an error.
func (h *Handler) SubscribeHandler(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Missing or invalid email")
		return
	}

	alreadySubscribed, err := h.mailerService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	if alreadySubscribed {
		common.RespondSuccess(c, gin.H{"message": "Email is already subscribed"})
		return
	}

	common.RespondCreated(c, gin.H{"email": req.Email})
}

// GetSubscribersHandler lists the contacts of the configured list
func (h *Handler) GetSubscribersHandler(c *gin.Context) {
	subscribers, err := h.mailerService.GetSubscribers(c.Request.Context())
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list subscribers")
		return
	}
	common.RespondSuccess(c, subscribers)
}

// SendPostCampaignHandler creates and immediately sends a campaign
// announcing a post to the contact list
func (h *Handler) SendPostCampaignHandler(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
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

	campaignID, err := h.mailerService.SendPostCampaign(c.Request.Context(), post.ID, post.Title)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to send campaign")
		return
	}

	common.RespondSuccess(c, gin.H{"campaignId": campaignID})
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
