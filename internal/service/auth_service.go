package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so login responses do not reveal which one failed.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

// ErrEmailTaken is returned when signing up with an email that already has an
// account.
var ErrEmailTaken = fmt.Errorf("email already registered")

// AuthService handles signup and login for storefront customers
type AuthService struct {
	store    *store.Store
	logger   *zap.Logger
	secret   string
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		logger:   util.GetLogger(),
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// AuthResult carries the signed token and the user it authenticates
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup registers a new user and returns a signed token
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*AuthResult, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Signup")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New()
	user := &models.User{
		ID:           userID.String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(s.secret, userID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates an existing user and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored user id: %w", err)
	}

	token, err := auth.GenerateToken(s.secret, userID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

// User retrieves a user by ID
func (s *AuthService) User(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
