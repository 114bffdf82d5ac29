// Package auth covers request identity: the Principal derived from a verified
// access token, token issuance and password hashing.
package auth

import "github.com/golang-jwt/jwt/v5"

// Principal is the authenticated identity attached to a request after its
// bearer token has been verified. Fields are copied verbatim from token
// claims; downstream authorization decides what they are allowed to do.
// TheaterID is 0 for users with no theater affiliation.
type Principal struct {
	UserID    uint64
	Email     string
	Role      string
	TheaterID uint64
}

// PrincipalFromClaims maps verified token claims onto a Principal. Missing
// claims yield zero values; no validation beyond the signature/expiry check
// already performed by the verifier is applied here.
func PrincipalFromClaims(claims jwt.MapClaims) Principal {
	p := Principal{
		UserID:    claimUint64(claims, "sub"),
		TheaterID: claimUint64(claims, "theaterId"),
	}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		p.Role = v
	}
	return p
}

// claimUint64 reads a numeric claim. JSON numbers arrive as float64 after
// parsing, but issued tokens may also carry native integers.
func claimUint64(claims jwt.MapClaims, key string) uint64 {
	switch t := claims[key].(type) {
	case float64:
		return uint64(t)
	case uint64:
		return t
	case int64:
		return uint64(t)
	case int:
		return uint64(t)
	}
	return 0
}
