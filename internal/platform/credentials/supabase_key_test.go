package credentials_test

import (
	"testing"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/platform/credentials"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signKey(t *testing.T, role string, expires time.Time) string {
	t.Helper()
	claims := credentials.SupabaseClaims{
		Role: role,
		Ref:  "abcdefghij",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "supabase",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-project-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectKey(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name        string
		key         string
		wantRole    string
		bypassesRLS bool
		wantErr     bool
	}{
		{name: "anon jwt", key: signKey(t, "anon", future), wantRole: credentials.RoleAnon},
		{name: "service role jwt", key: signKey(t, "service_role", future), wantRole: credentials.RoleServiceRole, bypassesRLS: true},
		{name: "publishable key", key: "sb_publishable_123", wantRole: credentials.RoleAnon},
		{name: "secret key", key: "sb_secret_123", wantRole: credentials.RoleServiceRole, bypassesRLS: true},
		{name: "garbage", key: "not-a-key", wantRole: credentials.RoleUnknown, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := credentials.InspectKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRole, info.Role)
			assert.Equal(t, tt.bypassesRLS, info.BypassesRLS())
		})
	}
}

func TestInspectKey_Expiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	info, err := credentials.InspectKey(signKey(t, "anon", past))
	require.NoError(t, err)
	assert.Equal(t, "abcdefghij", info.Project)
	assert.True(t, info.Expired(time.Now()))
	assert.False(t, credentials.KeyInfo{}.Expired(time.Now()))
}
