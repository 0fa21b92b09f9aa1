package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	assert.NoError(t, h.Compare(ctx, hash, "pw123456"))
	assert.ErrorIs(t, h.Compare(ctx, hash, "wrong"), ErrPasswordMismatch)
}

func TestPasswordHasherRejectsOverlongInput(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()
	password := strings.Repeat("a", MaxPasswordBytes)

	hash, err := h.Hash(ctx, password)
	require.NoError(t, err)

	assert.NoError(t, h.Compare(ctx, hash, password))
	assert.ErrorIs(t, h.Compare(ctx, hash, password+"WRONG-SUFFIX"), ErrPasswordMismatch)
}

func TestPasswordHasherDefaultCost(t *testing.T) {
	h := NewPasswordHasher(0, 0)
	hash, err := h.Hash(context.Background(), "pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestPasswordHasherHonoursCancelledContext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()
	require.NoError(t, h.sem.Acquire(ctx, 1))
	defer h.sem.Release(1)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := h.Hash(cancelled, "pw")
	assert.ErrorIs(t, err, context.Canceled)
}
