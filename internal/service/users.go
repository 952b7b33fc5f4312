package service

import (
	"context"
	"fmt"
	"strings"

	"qr-table-service/internal/auth"
	"qr-table-service/internal/models"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"

	"go.uber.org/zap"
)

// UserService manages staff accounts.
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store *store.Store) *UserService {
	return &UserService{store: store, logger: util.GetLogger()}
}

// CreateUserRequest carries a new staff account with its plaintext password.
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Password string      `json:"password" binding:"required,min=6,max=100"`
	FullName string      `json:"full_name" binding:"required,min=3,max=100"`
	Role     models.Role `json:"role" binding:"required"`
	IsActive bool        `json:"is_active"`
}

// CreateUser hashes the password and inserts the account. Usernames must be
// unique within the tenant.
func (s *UserService) CreateUser(ctx context.Context, restaurantID string, req *CreateUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, req.Role)
	}

	if existing, err := s.store.GetUserByUsername(ctx, restaurantID, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %s already taken", models.ErrValidation, req.Username)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		RestaurantID: restaurantID,
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     req.IsActive,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return user, nil
}

// UpdateUserRequest carries account changes; an empty password keeps the
// stored hash.
type UpdateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Password string      `json:"password,omitempty"`
	FullName string      `json:"full_name" binding:"required,min=3,max=100"`
	Role     models.Role `json:"role" binding:"required"`
	IsActive bool        `json:"is_active"`
}

// UpdateUser applies account changes, re-hashing the password if one is set.
func (s *UserService) UpdateUser(ctx context.Context, restaurantID, userID string, req *UpdateUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, req.Role)
	}

	user, err := s.store.GetUserByID(ctx, restaurantID, userID)
	if err != nil {
		return nil, err
	}

	var hash string
	if strings.TrimSpace(req.Password) != "" {
		if len(req.Password) < 6 {
			return nil, fmt.Errorf("%w: password must have at least 6 characters", models.ErrValidation)
		}
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
	}

	user.Username = req.Username
	user.FullName = req.FullName
	user.Role = req.Role
	user.IsActive = req.IsActive
	user.PasswordHash = hash

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, restaurantID, userID)
}

// ListUsers retrieves all staff accounts of the tenant.
func (s *UserService) ListUsers(ctx context.Context, restaurantID string) ([]models.User, error) {
	return s.store.GetUsers(ctx, restaurantID)
}

// GetUser retrieves one account.
func (s *UserService) GetUser(ctx context.Context, restaurantID, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, restaurantID, userID)
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, restaurantID, userID string) error {
	return s.store.DeleteUser(ctx, restaurantID, userID)
}
