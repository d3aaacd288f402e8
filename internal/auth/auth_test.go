package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"legalhub/internal/config"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":           "5b0c7c1e-0000-4000-8000-000000000001",
		"email":         "Lan@Example.com",
		"aud":           "authenticated",
		"iss":           "https://auth.test",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{"full_name": "Trần Thị Lan"},
	}
}

func TestVerify(t *testing.T) {
	v := NewVerifier(&config.AuthConfig{JWTSecret: testSecret, Issuer: "https://auth.test", Audience: "authenticated"})

	claims, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "5b0c7c1e-0000-4000-8000-000000000001" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Email != "lan@example.com" {
		t.Errorf("email = %q, want lowercased", claims.Email)
	}
	if claims.Name != "Trần Thị Lan" {
		t.Errorf("name = %q", claims.Name)
	}
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier(&config.AuthConfig{JWTSecret: testSecret, Issuer: "https://auth.test", Audience: "authenticated"})

	tests := []struct {
		name   string
		token  func() string
		expect error
	}{
		{"wrong secret", func() string {
			return sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
		}, ErrInvalidToken},
		{"expired", func() string {
			c := validClaims()
			c["exp"] = time.Now().Add(-time.Hour).Unix()
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, ErrExpiredToken},
		{"no expiry", func() string {
			c := validClaims()
			delete(c, "exp")
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, ErrInvalidToken},
		{"wrong audience", func() string {
			c := validClaims()
			c["aud"] = "anon"
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, ErrInvalidToken},
		{"wrong issuer", func() string {
			c := validClaims()
			c["iss"] = "https://evil.test"
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, ErrInvalidToken},
		{"missing subject", func() string {
			c := validClaims()
			delete(c, "sub")
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, ErrInvalidToken},
		{"non-uuid subject", func() string {
			c := validClaims()
			c["sub"] = "user-42"
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, ErrInvalidToken},
		{"other algorithm", func() string {
			return sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())
		}, ErrInvalidToken},
		{"garbage", func() string { return "not.a.token" }, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token())
			if !errors.Is(err, tt.expect) {
				t.Errorf("Verify() error = %v, want %v", err, tt.expect)
			}
		})
	}
}

func TestVerify_OptionalIssuerAudience(t *testing.T) {
	v := NewVerifier(&config.AuthConfig{JWTSecret: testSecret})
	c := validClaims()
	c["aud"] = "anything"
	c["iss"] = "anyone"
	if _, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer  abc ", "abc", false},
		{"Basic abc", "", true},
		{"Bearer", "", true},
		{"Bearer   ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}
