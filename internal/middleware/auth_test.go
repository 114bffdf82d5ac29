package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinepass/movie-booking/internal/auth"
)

const testSecret = "unit-test-secret"

// echoHandler returns the principal stored by JWTAuth so tests can inspect
// exactly what the verifier derived.
func echoHandler(c echo.Context) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no principal"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":    p.UserID,
		"email":     p.Email,
		"role":      p.Role,
		"theaterId": p.TheaterID,
	})
}

func doRequest(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/probe", echoHandler, JWTAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := auth.NewAccessToken(testSecret, 42, "owner@example.com", "OWNER", 3, 15)
	require.NoError(t, err)

	rec := doRequest(t, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"userId":42,"email":"owner@example.com","role":"OWNER","theaterId":3}`,
		rec.Body.String())
}

func TestJWTAuthRejections(t *testing.T) {
	valid, err := auth.NewAccessToken(testSecret, 1, "a@b.c", "CUSTOMER", 0, 15)
	require.NoError(t, err)
	wrongSecret, err := auth.NewAccessToken("another-secret", 1, "a@b.c", "CUSTOMER", 0, 15)
	require.NoError(t, err)
	expired, err := auth.NewAccessToken(testSecret, 1, "a@b.c", "CUSTOMER", 0, -5)
	require.NoError(t, err)

	// Signed correctly but with no exp claim at all.
	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "role": "CUSTOMER", "iat": time.Now().Unix(),
	})
	noExpSigned, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret.Token},
		{"expired", "Bearer " + expired.Token},
		{"no exp claim", "Bearer " + noExpSigned},
		{"bearer without token", "Bearer "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	// Sanity: the valid token still passes alongside the rejects.
	rec := doRequest(t, "Bearer "+valid.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	e := echo.New()
	e.GET("/owner-only", handler, JWTAuth(testSecret), RequireRole("OWNER"))

	owner, err := auth.NewAccessToken(testSecret, 2, "o@x.y", "OWNER", 1, 15)
	require.NoError(t, err)
	customer, err := auth.NewAccessToken(testSecret, 3, "c@x.y", "CUSTOMER", 0, 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+owner.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+customer.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
