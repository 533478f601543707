package utils

import (
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	password := "secret"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Errorf("Expected password check to pass")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Errorf("Expected password check to fail")
	}
}

func TestJWT(t *testing.T) {
	secret := "supersecret"
	subject := TokenSubject{UserID: "123", Email: "lifter@example.com", Backend: "postgres"}

	token, err := GenerateToken(subject, secret, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.UserID != subject.UserID {
		t.Errorf("Expected UserID %s, got %s", subject.UserID, claims.UserID)
	}
	if claims.Email != subject.Email {
		t.Errorf("Expected Email %s, got %s", subject.Email, claims.Email)
	}
	if claims.Backend != subject.Backend {
		t.Errorf("Expected Backend %s, got %s", subject.Backend, claims.Backend)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken(TokenSubject{UserID: "1", Backend: "mongo"}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Errorf("Expected expired token to be rejected")
	}
}
