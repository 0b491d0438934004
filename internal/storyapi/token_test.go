package storyapi

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestInspectToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expired := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	})
	valid := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-2",
		Issuer:    "chatstory",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	cases := []struct {
		name        string
		token       string
		wantFormat  string
		wantExpired bool
		wantSubject string
	}{
		{name: "empty", token: "", wantFormat: "none"},
		{name: "opaque", token: "sk_live_abcdef", wantFormat: "opaque"},
		{name: "dotted garbage", token: "a.b.c", wantFormat: "opaque"},
		{name: "expired jwt", token: expired, wantFormat: "jwt", wantExpired: true, wantSubject: "user-1"},
		{name: "valid jwt with prefix", token: "Bearer " + valid, wantFormat: "jwt", wantSubject: "user-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := InspectToken(tc.token, now)
			if info.Format != tc.wantFormat {
				t.Fatalf("Format = %q, want %q", info.Format, tc.wantFormat)
			}
			if info.Expired != tc.wantExpired {
				t.Errorf("Expired = %v, want %v", info.Expired, tc.wantExpired)
			}
			if info.Subject != tc.wantSubject {
				t.Errorf("Subject = %q, want %q", info.Subject, tc.wantSubject)
			}
		})
	}
}
