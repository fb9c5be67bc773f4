package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

func operatorHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(operatorHash(t, "hunter2"), "secret", time.Hour)

	token, err := svc.Login(context.Background(), "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != "operator" {
		t.Errorf("sub = %v, want operator", claims["sub"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("token must expire")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(operatorHash(t, "hunter2"), "secret", time.Hour)

	if _, err := svc.Login(context.Background(), "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyPassword(t *testing.T) {
	svc := NewAuthService(operatorHash(t, "hunter2"), "secret", time.Hour)

	if _, err := svc.Login(context.Background(), ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_NoHashConfigured(t *testing.T) {
	svc := NewAuthService("", "secret", time.Hour)

	if _, err := svc.Login(context.Background(), "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("login must be impossible without a configured hash, got %v", err)
	}
}
