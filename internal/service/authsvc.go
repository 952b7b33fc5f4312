package service

import (
	"context"
	"errors"
	"fmt"

	"qr-table-service/internal/auth"
	"qr-table-service/internal/models"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"

	"go.uber.org/zap"
)

// ErrBadCredentials hides whether the username or the password was wrong.
var ErrBadCredentials = errors.New("invalid username or password")

// AuthService resolves credentials into signed sessions.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, tokens *auth.TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens, logger: util.GetLogger()}
}

// Login verifies the password against the stored bcrypt hash and issues a
// session token. Inactive accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, restaurantID, username, password string) (string, *auth.Session, error) {
	user, err := s.store.GetUserByUsername(ctx, restaurantID, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		s.logger.Warn("Login attempt on inactive account",
			zap.String("username", username))
		return "", nil, ErrBadCredentials
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrBadCredentials
	}

	session := auth.Session{
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
	}

	token, err := s.tokens.Issue(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return token, &session, nil
}
