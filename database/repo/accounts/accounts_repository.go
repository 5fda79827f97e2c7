package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/utils"
	cryptopackage "github.com/fotonatura/portfolio-api/utils/crypto"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound no user row matched the query
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken the email already belongs to another user
	ErrEmailTaken = errors.New("user already exists")
)

// Repository wraps all user account database operations
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database handle
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// GetUserByEmail fetches a user by email
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID fetches a user by id
func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user. Returns ErrEmailTaken when the email is
// already registered; the unique index backs the race window.
func (r *Repository) CreateUser(user *models.User) error {
	exists, err := r.EmailExists(user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// CreateDefaultAdminUser creates the initial admin account when no admin
// exists yet. Returns the generated password so the caller can print it
// once; empty string means an admin was already there.
func (r *Repository) CreateDefaultAdminUser(email string) (string, error) {
	exists, err := r.AdminExists()
	if err != nil {
		return "", fmt.Errorf("failed to check admin user existence: %w", err)
	}
	if exists {
		return "", nil
	}

	randomPassword, err := utils.GenerateRandomToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate random password: %w", err)
	}

	hashedPassword, err := cryptopackage.GenerateFromPassword(randomPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash default password: %w", err)
	}

	user := &models.User{
		Name:     "Admin",
		LastName: "User",
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}

	if err := r.db.Create(user).Error; err != nil {
		return "", fmt.Errorf("failed to create default admin user: %w", err)
	}

	return randomPassword, nil
}

// UpdateUser saves user changes
func (r *Repository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// EmailExists checks whether the email is already registered
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// AdminExists checks whether any admin user is present
func (r *Repository) AdminExists() (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	return count > 0, err
}

// WithContext returns a context bound repository
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
