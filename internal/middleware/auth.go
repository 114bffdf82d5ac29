// Package middleware contains reusable HTTP middleware: bearer-token
// verification, role enforcement, response caching and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cinepass/movie-booking/internal/auth"
)

// principalKey is the echo context key under which the verified Principal is
// stored for the remainder of the request.
const principalKey = "principal"

// JWTAuth returns middleware that turns an inbound bearer token into a
// trusted request principal before any handler runs. The pipeline is:
// extract the Authorization header, verify signature and expiry against the
// configured secret, map claims onto an auth.Principal, attach it to the
// context. Missing, malformed, badly signed or expired tokens are rejected
// with 401; the middleware keeps no state between requests.
func JWTAuth(secret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(), // tokens without exp are rejected outright
	)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			p := auth.PrincipalFromClaims(claims)
			c.Set(principalKey, p)
			// role and user_id are mirrored as plain values for middleware
			// that does not care about the full principal (limiter keys).
			c.Set("role", p.Role)
			c.Set("user_id", p.UserID)
			return next(c)
		}
	}
}

// GetPrincipal returns the Principal stored by JWTAuth, if any.
func GetPrincipal(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

// RequireRole enforces that the authenticated principal holds one of the
// given roles. It assumes JWTAuth ran earlier in the chain; requests with a
// missing or disallowed role are aborted with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
