package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/fotonatura/portfolio-api/database/repo/accounts"
	cryptopackage "github.com/fotonatura/portfolio-api/utils/crypto"
)

var (
	// ErrEmailTaken registration attempted with an email that is in use
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials unknown email or wrong password. The two cases
	// are collapsed into one message so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthResult user plus freshly issued session token
type AuthResult struct {
	User        *models.User
	Token       string
	TokenExpiry time.Time
}

// LoginService registration and credential verification
type LoginService struct {
	accountsRepo *accounts.Repository
	jwtService   *JWTService
}

// NewLoginService creates a new login service
func NewLoginService(accountsRepo *accounts.Repository, jwtService *JWTService) *LoginService {
	return &LoginService{
		accountsRepo: accountsRepo,
		jwtService:   jwtService,
	}
}

// Register creates a user and issues a token. The role is always "user";
// this path cannot mint admins.
func (s *LoginService) Register(name, lastName, email, password string) (*AuthResult, error) {
	hashedPassword, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		LastName: lastName,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}

	if err := s.accountsRepo.CreateUser(user); err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, expiry, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token, TokenExpiry: expiry}, nil
}

// Login verifies credentials and issues a token
func (s *LoginService) Login(email, password string) (*AuthResult, error) {
	user, err := s.accountsRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, expiry, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token, TokenExpiry: expiry}, nil
}

// CurrentUser fetches the profile for an authenticated user id
func (s *LoginService) CurrentUser(userID uint) (*models.User, error) {
	user, err := s.accountsRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, accounts.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
