package comments

import (
	"context"
	"errors"
	"time"

	"github.com/fotonatura/portfolio-api/database/models"
	"gorm.io/gorm"
)

// ErrCommentNotFound no comment row matched the query
var ErrCommentNotFound = errors.New("comment not found")

// Repository wraps all comment database operations
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new comments repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CommentWithPost is the moderation listing projection, joined with the
// parent post title.
type CommentWithPost struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"postId"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
	PostTitle string    `json:"postTitle"`
}

// CreateComment inserts a new comment
func (r *Repository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentsByPostID lists every comment of a post
func (r *Repository) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Find(&comments).Error
	return comments, err
}

// GetApprovedCommentsByPostID lists only approved comments of a post
func (r *Repository) GetApprovedCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ? AND approved = ?", postID, true).Find(&comments).Error
	return comments, err
}

// GetAllComments lists every comment joined with its post title, newest first
func (r *Repository) GetAllComments() ([]CommentWithPost, error) {
	var rows []CommentWithPost
	err := r.db.Model(&models.Comment{}).
		Select("comments.id, comments.post_id, comments.email, comments.content, comments.approved, comments.created_at, posts.title AS post_title").
		Joins("LEFT JOIN posts ON comments.post_id = posts.id").
		Order("comments.id desc").
		Scan(&rows).Error
	return rows, err
}

// SetApproved updates the moderation flag of a comment
func (r *Repository) SetApproved(commentID uint, approved bool) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment.Approved = approved
	if err := r.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// WithContext returns a context bound repository
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
