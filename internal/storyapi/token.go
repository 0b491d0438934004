package storyapi

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenInfo describes what can be learned from a bearer token locally. The
// signature is never verified; the upstream owns authentication.
type TokenInfo struct {
	Format    string
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	Expired   bool
}

// InspectToken reads registered claims from a JWT bearer token. Opaque
// tokens report Format "opaque"; an empty token reports "none".
func InspectToken(token string, now time.Time) TokenInfo {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return TokenInfo{Format: "none"}
	}
	if strings.Count(token, ".") != 2 {
		return TokenInfo{Format: "opaque"}
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{Format: "opaque"}
	}

	info := TokenInfo{Format: "jwt", Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
		info.Expired = !now.Before(claims.ExpiresAt.Time)
	}
	return info
}
