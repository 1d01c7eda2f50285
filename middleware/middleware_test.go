package middleware

import (
	"testing"
	"time"

	"worknest/globals"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   "u_test",
		Role:     []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestValidateJWT(t *testing.T) {
	token := signedToken(t)

	claims, err := ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("valid bearer token rejected: %v", err)
	}
	if claims.UserID != "u_test" {
		t.Fatalf("expected userID u_test, got %q", claims.UserID)
	}

	// a raw token must be rejected outright, not have its first seven
	// characters sliced off and fail downstream
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("token without Bearer prefix should be rejected")
	}
	if _, err := ValidateJWT(""); err == nil {
		t.Fatal("empty token should be rejected")
	}
	if _, err := ValidateJWT("Basic " + token); err == nil {
		t.Fatal("non-Bearer scheme should be rejected")
	}
}

func TestValidateRawJWT(t *testing.T) {
	token := signedToken(t)

	claims, err := ValidateRawJWT(token)
	if err != nil {
		t.Fatalf("valid raw token rejected: %v", err)
	}
	if claims.UserID != "u_test" {
		t.Fatalf("expected userID u_test, got %q", claims.UserID)
	}

	if _, err := ValidateRawJWT("not-a-token"); err == nil {
		t.Fatal("garbage token should be rejected")
	}
}
