package posts

import (
	"context"
	"errors"
	"time"

	"github.com/fotonatura/portfolio-api/database/models"
	"gorm.io/gorm"
)

// ErrPostNotFound no post row matched the query
var ErrPostNotFound = errors.New("post not found")

// Repository wraps all post database operations
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new posts repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostSummary is the listing projection, content excluded
type PostSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Active        bool      `json:"active"`
	FeaturedImage string    `json:"featuredImage"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreatePost inserts a new post
func (r *Repository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID fetches a full post row
func (r *Repository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts lists every post, newest first
func (r *Repository) GetAllPosts() ([]PostSummary, error) {
	var summaries []PostSummary
	err := r.db.Model(&models.Post{}).
		Select("id, title, category, active, featured_image, created_at").
		Order("created_at desc").
		Scan(&summaries).Error
	return summaries, err
}

// GetActivePosts lists published posts, newest first
func (r *Repository) GetActivePosts() ([]PostSummary, error) {
	var summaries []PostSummary
	err := r.db.Model(&models.Post{}).
		Select("id, title, category, active, featured_image, created_at").
		Where("active = ?", true).
		Order("created_at desc").
		Scan(&summaries).Error
	return summaries, err
}

// UpdatePost saves post changes
func (r *Repository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// PostExists checks whether a post id is present
func (r *Repository) PostExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// WithContext returns a context bound repository
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
