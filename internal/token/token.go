// Package token treats the bearer token as an opaque, locally decoded blob
// used only for UI-level role and expiry hints. Nothing here verifies a
// signature; the backend is the actual authority.
package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Decode parses the token payload without verifying the signature. A decode
// failure yields nil claims, never an error: an unreadable token simply
// means "unauthenticated".
func Decode(raw string) jwt.MapClaims {
	if raw == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}

// NormalizeRoles extracts roles from any of the claim shapes backends use
// (`authorities`, `roles`, `role`, `authority`; entries as strings or
// {"authority": ...} objects) and returns them as a canonical uppercase set.
// All downstream role checks operate on this set only.
func NormalizeRoles(claims jwt.MapClaims) []string {
	if claims == nil {
		return nil
	}
	var raw []any
	for _, key := range []string{"authorities", "roles", "role", "authority"} {
		v, ok := claims[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case []any:
			raw = append(raw, t...)
		case string:
			raw = append(raw, t)
		}
	}

	seen := make(map[string]struct{}, len(raw))
	var roles []string
	for _, r := range raw {
		name := roleName(r)
		if name == "" {
			continue
		}
		name = strings.ToUpper(name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		roles = append(roles, name)
	}
	return roles
}

func roleName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["authority"].(string); ok {
			return s
		}
		if s, ok := t["role"].(string); ok {
			return s
		}
	}
	return ""
}

// IsAdmin reports whether the normalized role set grants admin access.
func IsAdmin(roles []string) bool {
	for _, r := range roles {
		if r == "ADMIN" || r == "ROLE_ADMIN" {
			return true
		}
	}
	return false
}
