package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry peeks at the expiry claim of a JWT bearer token without
// verifying its signature — the backend is the authority on validity,
// this is only used to warn staff before a doomed request. Returns
// false for opaque (non-JWT) tokens or tokens without an exp claim.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an expiry claim that has
// already passed. Opaque tokens are never reported as expired.
func Expired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && exp.Before(now)
}
