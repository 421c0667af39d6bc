package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPasswordConfig(t *testing.T) *PasswordConfig {
	t.Helper()
	// Minimum cost keeps the bcrypt work cheap in tests.
	return &PasswordConfig{BcryptCost: 10}
}

func TestNewPasswordConfig_Defaults(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.Pepper)
}

func TestNewPasswordConfig_CostBounds(t *testing.T) {
	t.Setenv("PASSWORD_PEPPER", "")

	for _, bad := range []string{"9", "15", "abc"} {
		t.Setenv("BCRYPT_COST", bad)
		_, err := NewPasswordConfig()
		assert.Error(t, err, "cost %q should be rejected", bad)
	}

	t.Setenv("BCRYPT_COST", "10")
	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := newTestPasswordConfig(t)

	hash, err := cfg.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, cfg.VerifyPassword("s3cret-pass", hash))
	assert.False(t, cfg.VerifyPassword("wrong-pass", hash))
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	cfg := newTestPasswordConfig(t)

	first, err := cfg.HashPassword("same-password")
	require.NoError(t, err)
	second, err := cfg.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, cfg.VerifyPassword("same-password", first))
	assert.True(t, cfg.VerifyPassword("same-password", second))
}

func TestVerifyPassword_PepperMismatch(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-a"}
	hash, err := peppered.HashPassword("pass")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("pass", hash))

	other := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-b"}
	assert.False(t, other.VerifyPassword("pass", hash))

	unpeppered := newTestPasswordConfig(t)
	assert.False(t, unpeppered.VerifyPassword("pass", hash))
}
