package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims decoded session token payload
type TokenClaims struct {
	UserID uint
	Role   string
	Exp    int64
	Iat    int64
}

// TokenConfig holds the JWT signing configuration
type TokenConfig struct {
	Secret    []byte
	ExpiresIn time.Duration
}

// JWTService issues and validates the stateless session tokens. Validity is
// purely cryptographic and time bounded; there is no revocation list.
type JWTService struct {
	config TokenConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, expiresIn time.Duration) (*JWTService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long, got %d", len(secret))
	}
	if expiresIn <= 0 {
		return nil, errors.New("JWT expiry must be positive")
	}

	return &JWTService{
		config: TokenConfig{
			Secret:    []byte(secret),
			ExpiresIn: expiresIn,
		},
	}, nil
}

// ExpiresIn returns the configured token lifetime
func (s *JWTService) ExpiresIn() time.Duration {
	return s.config.ExpiresIn
}

// GenerateToken signs a token binding user id and role
func (s *JWTService) GenerateToken(userID uint, role string) (string, time.Time, error) {
	if len(s.config.Secret) == 0 {
		return "", time.Time{}, errors.New("JWT secret is not initialized")
	}

	expiry := time.Now().Add(s.config.ExpiresIn)
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     expiry.Unix(),
		"iat":     time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, expiry, nil
}

// ParseToken parses and validates a session token
func (s *JWTService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	if len(s.config.Secret) == 0 {
		return nil, errors.New("JWT secret is not initialized")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ExtractClaims parses a token into typed claims
func (s *JWTService) ExtractClaims(tokenString string) (*TokenClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("user_id not found in token claims")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = "user"
	}

	expFloat, _ := claims["exp"].(float64)
	iatFloat, _ := claims["iat"].(float64)

	return &TokenClaims{
		UserID: uint(userIDFloat),
		Role:   role,
		Exp:    int64(expFloat),
		Iat:    int64(iatFloat),
	}, nil
}
