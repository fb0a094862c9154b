package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/config"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Sandbox: &config.SandboxConfig{BcryptCost: bcrypt.MinCost}})

	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, hasher.Check("admin123", hash))
	assert.False(t, hasher.Check("admin124", hash))
	assert.False(t, hasher.Check("admin123", "not-a-hash"))
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want int
	}{
		{name: "no sandbox section", cfg: &config.Config{}, want: bcrypt.DefaultCost},
		{name: "cost too low", cfg: &config.Config{Sandbox: &config.SandboxConfig{BcryptCost: 1}}, want: bcrypt.DefaultCost},
		{name: "configured", cfg: &config.Config{Sandbox: &config.SandboxConfig{BcryptCost: 5}}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := NewBcryptHasher(tt.cfg).(*bcryptHasher)
			require.True(t, ok)
			assert.Equal(t, tt.want, h.cost)
		})
	}
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Sandbox: &config.SandboxConfig{BcryptCost: bcrypt.MinCost}})

	_, err := hasher.Hash(string(make([]byte, 100)))
	assert.Error(t, err)
}
