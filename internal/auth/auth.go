package auth

import (
	"fmt"
	"time"

	"qr-table-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "qr-table-token"

const bcryptCost = 10

// Session is the resolved identity passed explicitly into core operations.
// The core never reads ambient request state.
type Session struct {
	UserID       string      `json:"user_id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	Role         models.Role `json:"role"`
	RestaurantID string      `json:"restaurant_id"`
}

// SignedDetails are the JWT claims backing a session.
type SignedDetails struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurant_id"`
	jwt.RegisteredClaims
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given HMAC secret and
// token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a session token binding {user id, role, tenant id}.
func (tm *TokenManager) Issue(s Session) (string, error) {
	now := time.Now()
	claims := &SignedDetails{
		UserID:       s.UserID,
		Username:     s.Username,
		FullName:     s.FullName,
		Role:         string(s.Role),
		RestaurantID: s.RestaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and reconstructs the session. Expired, tampered
// or incomplete tokens yield an error.
func (tm *TokenManager) Verify(tokenString string) (*Session, error) {
	claims := &SignedDetails{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.UserID == "" || claims.RestaurantID == "" || !models.Role(claims.Role).Valid() {
		return nil, fmt.Errorf("incomplete session claims")
	}

	return &Session{
		UserID:       claims.UserID,
		Username:     claims.Username,
		FullName:     claims.FullName,
		Role:         models.Role(claims.Role),
		RestaurantID: claims.RestaurantID,
	}, nil
}
