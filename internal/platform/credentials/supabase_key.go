// Package credentials inspects Supabase API keys.
package credentials

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supabase key roles.
const (
	RoleAnon        = "anon"
	RoleServiceRole = "service_role"
	RoleUnknown     = "unknown"
)

// SupabaseClaims are the claims carried by a legacy Supabase API key.
type SupabaseClaims struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
	jwt.RegisteredClaims
}

// KeyInfo describes an API key without exposing it.
type KeyInfo struct {
	Role      string
	Project   string
	ExpiresAt time.Time
}

// BypassesRLS reports whether writes with this key skip row-level security policies.
func (k KeyInfo) BypassesRLS() bool {
	return k.Role == RoleServiceRole
}

// Expired reports whether the key has an expiry in the past.
func (k KeyInfo) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && now.After(k.ExpiresAt)
}

// InspectKey decodes the claims of a Supabase API key without verifying its signature.
// Opaque keys (sb_publishable_..., sb_secret_...) are classified by prefix.
func InspectKey(key string) (KeyInfo, error) {
	switch {
	case strings.HasPrefix(key, "sb_secret_"):
		return KeyInfo{Role: RoleServiceRole}, nil
	case strings.HasPrefix(key, "sb_publishable_"):
		return KeyInfo{Role: RoleAnon}, nil
	}

	claims := &SupabaseClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{Role: RoleUnknown}, fmt.Errorf("failed to decode supabase key: %w", err)
	}
	info := KeyInfo{Role: claims.Role, Project: claims.Ref}
	if info.Role == "" {
		info.Role = RoleUnknown
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
