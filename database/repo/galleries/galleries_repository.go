package galleries

import (
	"context"
	"errors"

	"github.com/fotonatura/portfolio-api/database/models"
	"gorm.io/gorm"
)

// ErrGalleryNotFound no gallery row matched the query
var ErrGalleryNotFound = errors.New("gallery not found")

// Repository wraps all gallery database operations
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new galleries repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GalleryUpdate carries partial gallery changes; nil fields are left as is
type GalleryUpdate struct {
	Name      *string
	Continent *string
	Place     *string
	Active    *bool
}

// CreateGallery inserts a new gallery
func (r *Repository) CreateGallery(gallery *models.Gallery) error {
	return r.db.Create(gallery).Error
}

// CreateGalleryImage inserts a new gallery image row
func (r *Repository) CreateGalleryImage(image *models.GalleryImage) error {
	return r.db.Create(image).Error
}

// GetGalleryByID fetches a gallery
func (r *Repository) GetGalleryByID(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.Where("id = ?", id).First(&gallery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &gallery, nil
}

// GetAllGalleries lists every gallery, newest first
func (r *Repository) GetAllGalleries() ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.db.Order("created_at desc").Find(&galleries).Error
	return galleries, err
}

// GetActiveGalleries lists published galleries, newest first
func (r *Repository) GetActiveGalleries() ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.db.Where("active = ?", true).Order("created_at desc").Find(&galleries).Error
	return galleries, err
}

// UpdateGallery applies a partial update and returns the new row
func (r *Repository) UpdateGallery(id uint, update GalleryUpdate) (*models.Gallery, error) {
	gallery, err := r.GetGalleryByID(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		gallery.Name = *update.Name
	}
	if update.Continent != nil {
		gallery.Continent = *update.Continent
	}
	if update.Place != nil {
		gallery.Place = *update.Place
	}
	if update.Active != nil {
		gallery.Active = *update.Active
	}

	if err := r.db.Save(gallery).Error; err != nil {
		return nil, err
	}
	return gallery, nil
}

// GetImagesByGalleryID lists the image rows of a gallery
func (r *Repository) GetImagesByGalleryID(galleryID uint) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.Where("gallery_id = ?", galleryID).Find(&images).Error
	return images, err
}

// WithContext returns a context bound repository
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
