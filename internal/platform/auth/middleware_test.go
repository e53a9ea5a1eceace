package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims *Claims, key []byte) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func doRequest(mw echo.MiddlewareFunc, authz string) (*httptest.ResponseRecorder, string) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var principal string
	h := mw(func(c echo.Context) error {
		principal = PrincipalFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, principal
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	tok := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"admin"},
	}, testKey)

	rec, principal := doRequest(JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if principal != "user-1" {
		t.Errorf("expected principal user-1, got %q", principal)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	rec, _ := doRequest(JWTMiddleware(JWTConfig{SigningKey: testKey}), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	tok := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, []byte("other-key"))

	rec, _ := doRequest(JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	tok := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testKey)

	rec, _ := doRequest(JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_NoSubject(t *testing.T) {
	tok := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testKey)

	rec, _ := doRequest(JWTMiddleware(JWTConfig{SigningKey: testKey}), "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(roles []string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		inner := DevAuthMiddleware("user-1")(func(c echo.Context) error {
			return RequireRole("physician")(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)
		})
		_ = roles
		if err := inner(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	// DevAuthMiddleware grants admin only, so physician-only routes reject.
	if code := run(nil); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	rec, principal := doRequest(DevAuthMiddleware("dev-user"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if principal != "dev-user" {
		t.Errorf("expected principal dev-user, got %q", principal)
	}
}
