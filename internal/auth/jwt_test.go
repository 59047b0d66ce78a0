package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prasad123-hub/bill-splitter/internal/models"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("Claims.Subject = %s, want %s", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Claims.Email = %s, want %s", claims.Email, user.Email)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	expired := NewJWTManager("test-secret", -time.Hour)
	expiredToken, err := expired.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	otherSecret := NewJWTManager("other-secret", time.Hour)
	wrongKeyToken, err := otherSecret.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Correct secret, but minted by someone else.
	foreignToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "some-other-service",
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: wrongKeyToken},
		{name: "wrong issuer", token: foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
