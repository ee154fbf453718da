package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
    hash, err := HashPassword("s3cret", bcrypt.MinCost)
    require.NoError(t, err)
    assert.NotEqual(t, "s3cret", hash)

    assert.True(t, VerifyPassword(hash, "s3cret"))
    assert.False(t, VerifyPassword(hash, "wrong"))
    assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
    // A cost far outside bcrypt's range must not fail, it falls back
    // to the default cost.
    hash, err := HashPassword("s3cret", 9999)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "s3cret"))

    cost, err := bcrypt.Cost([]byte(hash))
    require.NoError(t, err)
    assert.Equal(t, bcrypt.DefaultCost, cost)
}
