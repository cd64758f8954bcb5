package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tallyhq/tally/internal/models"
)

func testUser() *models.User {
	return models.NewUser("alice@example.com", "Alice", "hash")
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := testUser()

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("user_id: expected %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Errorf("email: expected %s, got %s", user.Email, claims.Email)
	}
	if claims.Subject != user.ID {
		t.Errorf("subject: expected %s, got %s", user.ID, claims.Subject)
	}
}

func TestJWTValidate_Rejections(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := testUser()

	signWith := func(method jwt.SigningMethod, claims *Claims, secret string) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("signing test token failed: %v", err)
		}
		return signed
	}
	baseClaims := func(iss string, expiresIn time.Duration) *Claims {
		now := time.Now()
		return &Claims{
			UserID: user.ID,
			Email:  user.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    iss,
				Subject:   user.ID,
				ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
			},
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage",
			token: "not.a.token",
		},
		{
			name:  "wrong secret",
			token: signWith(jwt.SigningMethodHS256, baseClaims(issuer, time.Hour), "other-secret"),
		},
		{
			name:  "expired",
			token: signWith(jwt.SigningMethodHS256, baseClaims(issuer, -time.Minute), "test-secret"),
		},
		{
			name:  "foreign issuer",
			token: signWith(jwt.SigningMethodHS256, baseClaims("someone-else", time.Hour), "test-secret"),
		},
		{
			name:  "wrong signing method",
			token: signWith(jwt.SigningMethodHS512, baseClaims(issuer, time.Hour), "test-secret"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Validate(tt.token)
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
