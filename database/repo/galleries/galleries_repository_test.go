package galleries

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

	err = db.AutoMigrate(&models.User{}, &models.Gallery{}, &models.GalleryImage{})
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	user := &models.User{Name: "Ada", LastName: "L", Email: "ada@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateAndGetGallery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)

	gallery := &models.Gallery{
		UserID:    user.ID,
		Name:      "Torres del Paine",
		Continent: "South America",
		Place:     "Chile",
	}
	require.NoError(t, repo.CreateGallery(gallery))
	assert.NotZero(t, gallery.ID)

	loaded, err := repo.GetGalleryByID(gallery.ID)
	require.NoError(t, err)
	assert.Equal(t, "Torres del Paine", loaded.Name)
	assert.False(t, loaded.Active)

	_, err = repo.GetGalleryByID(999)
	assert.ErrorIs(t, err, ErrGalleryNotFound)
}

func TestListGalleries_ActiveFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)

	draft := &models.Gallery{UserID: user.ID, Name: "Draft"}
	require.NoError(t, repo.CreateGallery(draft))

	published := &models.Gallery{UserID: user.ID, Name: "Published", Active: true}
	require.NoError(t, repo.CreateGallery(published))

	all, err := repo.GetAllGalleries()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.GetActiveGalleries()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Published", active[0].Name)
}

func TestUpdateGallery_PartialFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)

	gallery := &models.Gallery{UserID: user.ID, Name: "Old name", Continent: "Europe", Place: "Iceland"}
	require.NoError(t, repo.CreateGallery(gallery))

	newName := "New name"
	active := true
	updated, err := repo.UpdateGallery(gallery.ID, GalleryUpdate{Name: &newName, Active: &active})
	require.NoError(t, err)

	assert.Equal(t, "New name", updated.Name)
	assert.True(t, updated.Active)
	// untouched fields survive
	assert.Equal(t, "Europe", updated.Continent)
	assert.Equal(t, "Iceland", updated.Place)

	_, err = repo.UpdateGallery(999, GalleryUpdate{Name: &newName})
	assert.ErrorIs(t, err, ErrGalleryNotFound)
}

func TestGalleryImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)

	gallery := &models.Gallery{UserID: user.ID, Name: "Iceland"}
	require.NoError(t, repo.CreateGallery(gallery))
	other := &models.Gallery{UserID: user.ID, Name: "Chile"}
	require.NoError(t, repo.CreateGallery(other))

	require.NoError(t, repo.CreateGalleryImage(&models.GalleryImage{
		GalleryID: gallery.ID,
		ImageURL:  "https://cdn.example.com/galleries/1/aa11-one.jpg",
	}))
	require.NoError(t, repo.CreateGalleryImage(&models.GalleryImage{
		GalleryID: other.ID,
		ImageURL:  "https://cdn.example.com/galleries/2/bb22-two.jpg",
	}))

	images, err := repo.GetImagesByGalleryID(gallery.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://cdn.example.com/galleries/1/aa11-one.jpg", images[0].ImageURL)

	empty, err := repo.GetImagesByGalleryID(999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
