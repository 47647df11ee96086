package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"genmock-studio/handlers/auth"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string) string {
	t.Helper()
	claims := auth.AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "github:42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Login: "tester",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}

func protected(t *testing.T) (http.Handler, *bool) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := r.Context().Value(ClaimsContextKey).(*auth.AppClaims)
		if !ok || claims.Login != "tester" {
			t.Errorf("claims not propagated: %v", claims)
		}
	})
	return AuthJWT(next), &called
}

func TestAuthJWTAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.InitAuth()

	handler, called := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called {
		t.Error("request did not reach the protected handler")
	}
}

func TestAuthJWTRejectsMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.InitAuth()

	handler, called := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if *called {
		t.Error("unauthenticated request reached the handler")
	}
}

func TestAuthJWTRejectsMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.InitAuth()

	handler, called := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || *called {
		t.Errorf("malformed header accepted: status=%d", rec.Code)
	}
}

func TestAuthJWTRejectsWrongSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.InitAuth()

	handler, called := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || *called {
		t.Errorf("forged token accepted: status=%d", rec.Code)
	}
}
