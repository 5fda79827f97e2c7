package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/api/middleware"
	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/accounts"
	authSvc "github.com/fotonatura/portfolio-api/internal/auth"
	"github.com/gin-gonic/gin"
)

// Handler auth endpoints: register, login, logout, me
type Handler struct {
	loginService *authSvc.LoginService
	cookieSecure bool
}

// NewHandler creates a new auth handler
func NewHandler(loginService *authSvc.LoginService, cookieSecure bool) *Handler {
	return &Handler{
		loginService: loginService,
		cookieSecure: cookieSecure,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	LastName string `json:"lastName" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the public user projection. The password never appears
// here by construction, not by post-filtering.
type userResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// RegisterHandler creates a user account. Admin gated at the route; the
// created account is always a plain user.
func (h *Handler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.loginService.Register(req.Name, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authSvc.ErrEmailTaken) {
			common.RespondError(c, http.StatusConflict, "User already exists")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	common.RespondCreated(c, authResponse{
		User:  toUserResponse(result.User),
		Token: result.Token,
	})
}

// LoginHandler verifies credentials, sets the session cookie and returns
// the token. Unknown email and wrong password answer identically.
func (h *Handler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.loginService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authSvc.ErrInvalidCredentials) {
			common.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	maxAge := int(time.Until(result.TokenExpiry).Seconds())
	h.setSessionCookie(c, result.Token, maxAge)

	common.RespondSuccess(c, authResponse{
		User:  toUserResponse(result.User),
		Token: result.Token,
	})
}

// LogoutHandler clears the session cookie. The token itself stays valid
// until natural expiry; there is no revocation list.
func (h *Handler) LogoutHandler(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	common.RespondSuccess(c, gin.H{"message": "Logged out successfully"})
}

// MeHandler returns the authenticated user's profile
func (h *Handler) MeHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	user, err := h.loginService.CurrentUser(userID)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			common.RespondError(c, http.StatusNotFound, "User not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}

	common.RespondSuccess(c, toUserResponse(user))
}

// setSessionCookie writes the "token" cookie. MaxAge matches the token
// lifetime; a negative MaxAge deletes the cookie.
func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	cookie := http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(c.Writer, &cookie)
}
