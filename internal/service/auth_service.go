package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prasad123-hub/bill-splitter/internal/auth"
	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

// AuthService handles user accounts and session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, email, firstName, lastName, password string) (*models.User, string, error) {
	if firstName == "" {
		return nil, "", fmt.Errorf("%w: first name is required", auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Register(ctx, email, firstName, lastName, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns them with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Profile returns the user's account details, looked up by the id carried
// in their session token.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// EditProfile updates the user's name fields.
func (s *AuthService) EditProfile(ctx context.Context, email, firstName, lastName string) error {
	if firstName == "" {
		return fmt.Errorf("%w: first name is required", auth.ErrInvalidCredentials)
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	user.FirstName = firstName
	user.LastName = lastName
	return s.store.UpdateUser(ctx, user)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if _, err := s.authenticator.Authenticate(ctx, email, oldPassword); err != nil {
		return err
	}
	if err := s.authenticator.ValidateCredential(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(ctx, email, hash); err != nil {
		return err
	}
	slog.Info("Password changed", "email", email)
	return nil
}

// DeleteAccount removes the user's account.
func (s *AuthService) DeleteAccount(ctx context.Context, email string) error {
	if err := s.store.DeleteUser(ctx, email); err != nil {
		return err
	}
	slog.Info("User deleted", "email", email)
	return nil
}

// EmailList returns every registered email, for member pickers.
func (s *AuthService) EmailList(ctx context.Context) ([]string, error) {
	return s.store.ListUserEmails(ctx)
}
