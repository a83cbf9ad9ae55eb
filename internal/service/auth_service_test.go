package service

import (
	"errors"
	"testing"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "test-signing-key")
	return NewAuthService()
}

func TestLoginAndValidate(t *testing.T) {
	auth := newTestAuth(t)

	resp, err := auth.Login("admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.AdminID == "" {
		t.Fatalf("login response = %+v, want token and admin id", resp)
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AdminID != resp.AdminID {
		t.Errorf("claims.AdminID = %q, want %q", claims.AdminID, resp.AdminID)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.Login("admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, err := auth.Login("root", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong username = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken garbage = %v, want ErrInvalidToken", err)
	}

	// A token signed with a different secret must not validate.
	t.Setenv("JWT_SECRET", "another-key")
	other := NewAuthService()
	resp, err := other.Login("admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := auth.ValidateToken(resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken foreign token = %v, want ErrInvalidToken", err)
	}
}
