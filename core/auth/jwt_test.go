package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken returned an empty token")
	}

	claims, err := v.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	v := NewVerifier("test-secret")

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := v.ParseToken(tok)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("ParseToken(%q) = %v, want ErrUnauthenticated", tok, err)
		}
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewVerifier("secret-one").GenerateToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = NewVerifier("secret-two").ParseToken(token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ParseToken with wrong secret = %v, want ErrUnauthenticated", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	v := NewVerifier("test-secret")

	claims := Claims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	_, err = v.ParseToken(expired)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ParseToken with expired token = %v, want ErrUnauthenticated", err)
	}
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	v := NewVerifier("test-secret")

	claims := Claims{UserID: 1, Username: "alice"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	_, err = v.ParseToken(unsigned)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ParseToken with alg=none = %v, want ErrUnauthenticated", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext password")
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("VerifyPassword rejected the correct password")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("VerifyPassword accepted a wrong password")
	}
}
