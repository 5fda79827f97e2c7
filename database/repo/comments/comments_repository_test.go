package comments

import (
	"fmt"
	"testing"

	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{})
	require.NoError(t, err)

	return db
}

func seedPost(t *testing.T, db *gorm.DB, title string) *models.Post {
	user := &models.User{Name: "Ada", LastName: "L", Email: title + "@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(user).Error)

	post := &models.Post{Title: title, Slug: title, OwnerID: user.ID}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateComment_StartsUnapproved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	post := seedPost(t, db, "post-a")

	comment := &models.Comment{
		PostID:  post.ID,
		Email:   "visitor@example.com",
		Content: "Wonderful shot",
	}
	require.NoError(t, repo.CreateComment(comment))
	assert.NotZero(t, comment.ID)
	assert.False(t, comment.Approved)
}

func TestGetCommentsByPostID_ModerationSplit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	post := seedPost(t, db, "post-a")
	other := seedPost(t, db, "post-b")

	pending := &models.Comment{PostID: post.ID, Email: "a@example.com", Content: "pending"}
	require.NoError(t, repo.CreateComment(pending))

	approved := &models.Comment{PostID: post.ID, Email: "b@example.com", Content: "approved", Approved: true}
	require.NoError(t, repo.CreateComment(approved))

	elsewhere := &models.Comment{PostID: other.ID, Email: "c@example.com", Content: "other post"}
	require.NoError(t, repo.CreateComment(elsewhere))

	all, err := repo.GetCommentsByPostID(post.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	publicView, err := repo.GetApprovedCommentsByPostID(post.ID)
	require.NoError(t, err)
	require.Len(t, publicView, 1)
	assert.Equal(t, "approved", publicView[0].Content)
}

func TestGetAllComments_JoinsPostTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	post := seedPost(t, db, "post-a")

	first := &models.Comment{PostID: post.ID, Email: "a@example.com", Content: "first"}
	require.NoError(t, repo.CreateComment(first))
	second := &models.Comment{PostID: post.ID, Email: "b@example.com", Content: "second"}
	require.NoError(t, repo.CreateComment(second))

	rows, err := repo.GetAllComments()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first, each row carries the post title
	assert.Equal(t, "second", rows[0].Content)
	assert.Equal(t, "post-a", rows[0].PostTitle)
	assert.Equal(t, "first", rows[1].Content)
}

func TestSetApproved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	post := seedPost(t, db, "post-a")

	comment := &models.Comment{PostID: post.ID, Email: "a@example.com", Content: "hello"}
	require.NoError(t, repo.CreateComment(comment))

	updated, err := repo.SetApproved(comment.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Approved)

	reverted, err := repo.SetApproved(comment.ID, false)
	require.NoError(t, err)
	assert.False(t, reverted.Approved)

	_, err = repo.SetApproved(999, true)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
