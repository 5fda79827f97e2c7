package emails

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fotonatura/portfolio-api/config"
	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/posts"
	"github.com/fotonatura/portfolio-api/internal/mailer"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

// setupTestEnv wires the handler against an httptest stand-in for the
// upstream email API
func setupTestEnv(t *testing.T, upstream http.HandlerFunc) *testEnv {
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	client := mailer.NewBrevoClient("test-key")
	client.SetBaseURL(server.URL)

	cfg := &config.Config{
		BrevoSenderEmail:       "noreply@example.com",
		BrevoSenderName:        "Portfolio",
		BrevoContactListID:     3,
		BrevoConfirmTemplateID: 5,
		FrontendBaseURL:        "https://portfolio.example.com",
	}
	mailerService := mailer.NewService(client, cfg)

	handler := NewHandler(mailerService, posts.NewRepository(db))

	router := gin.New()
	router.POST("/api/emails/subscribe", handler.SubscribeHandler)
	router.GET("/api/emails/get-all-subscribers", handler.GetSubscribersHandler)
	router.POST("/api/emails/send-post-campaign/:postId", handler.SendPostCampaignHandler)

	return &testEnv{router: router, db: db}
}

func (e *testEnv) seedPost(t *testing.T, title string) *models.Post {
	user := &models.User{Name: "Ada", LastName: "L", Email: "ada@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, e.db.Create(user).Error)

	post := &models.Post{Title: title, Slug: title, OwnerID: user.ID, Active: true}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubscribeHandler(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	})

	w := postJSON(env.router, "/api/emails/subscribe", map[string]interface{}{
		"email": "new@example.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"new@example.com"`)
}

func TestSubscribeHandler_Duplicate(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"duplicate_parameter","message":"Contact already exist"}`))
	})

	w := postJSON(env.router, "/api/emails/subscribe", map[string]interface{}{
		"email": "repeat@example.com",
	})

	// duplicates are a soft success, not an error
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already subscribed")
}

func TestSubscribeHandler_InvalidEmail(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called for invalid input")
	})

	w := postJSON(env.router, "/api/emails/subscribe", map[string]interface{}{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(env.router, "/api/emails/subscribe", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSubscribersHandler(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/lists/3/contacts", r.URL.Path)
		w.Write([]byte(`{"contacts":[{"id":1,"email":"a@example.com"}],"count":1}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/emails/get-all-subscribers", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestSendPostCampaignHandler(t *testing.T) {
	var campaignSubject string
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/emailCampaigns" {
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			campaignSubject, _ = body["subject"].(string)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":42}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	post := env.seedPost(t, "Patagonia in winter")

	w := postJSON(env.router, fmt.Sprintf("/api/emails/send-post-campaign/%d", post.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"campaignId":42`)
	assert.Equal(t, "Patagonia in winter", campaignSubject)
}

func TestSendPostCampaignHandler_PostNotFound(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called for a missing post")
	})

	w := postJSON(env.router, "/api/emails/send-post-campaign/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
