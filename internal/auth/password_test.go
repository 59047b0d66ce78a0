package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/prasad123-hub/bill-splitter/internal/models"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

// memoryUserStorage is an in-memory UserStorage for tests.
type memoryUserStorage struct {
	users map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{users: make(map[string]*models.User)}
}

func (m *memoryUserStorage) CreateUser(_ context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memoryUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid registration",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:     "missing at sign",
			email:    "alice.example.com",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "missing domain dot",
			email:    "alice@example",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "short password",
			email:    "alice@example.com",
			password: "short",
			wantErr:  ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewPasswordAuthenticator(newMemoryUserStorage())
			user, err := a.Register(context.Background(), tt.email, "Alice", "", tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if user.ID == "" {
				t.Error("Register() returned user without ID")
			}
			if user.PasswordHash == tt.password {
				t.Error("Register() stored the plaintext password")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := NewPasswordAuthenticator(newMemoryUserStorage())

	if _, err := a.Register(context.Background(), "alice@example.com", "Alice", "", "password123"); err != nil {
		t.Fatalf("First Register() error = %v", err)
	}
	_, err := a.Register(context.Background(), "alice@example.com", "Alice", "", "password123")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Second Register() error = %v, want %v", err, ErrEmailExists)
	}
}

func TestAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newMemoryUserStorage())
	if _, err := a.Register(context.Background(), "alice@example.com", "Alice", "", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "correct credentials",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "password456",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "bob@example.com",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := a.Authenticate(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if user.Email != tt.email {
				t.Errorf("Authenticate() email = %s, want %s", user.Email, tt.email)
			}
		})
	}
}
