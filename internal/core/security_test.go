// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordIsSaltedArgon2id(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "$argon2id$"))
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "secret1")
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	check, err := CheckPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, check.Match)
	assert.Empty(t, check.Upgrade)

	check, err = CheckPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, check.Match)
}

func TestCheckPasswordRejectsUnreadableHash(t *testing.T) {
	for _, stored := range []string{"plaintext", "", "$argon2id$v=1$m=1,t=1,p=1$x$y", "$2b$garbage"} {
		_, err := CheckPassword("secret1", stored)
		assert.ErrorIs(t, err, ErrUnreadableHash, stored)
	}
}

func TestCheckPasswordUpgradesBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	check, err := CheckPassword("secret1", string(legacy))
	require.NoError(t, err)
	assert.True(t, check.Match)
	assert.True(t, strings.HasPrefix(check.Upgrade, "$argon2id$"))

	check, err = CheckPassword("wrong", string(legacy))
	require.NoError(t, err)
	assert.False(t, check.Match)
	assert.Empty(t, check.Upgrade)
}

func TestCheckPasswordUpgradesWeakerArgon2(t *testing.T) {
	weak := DefaultArgon2Params
	weak.Memory = 8 * 1024

	hash, err := weak.Hash("secret1")
	require.NoError(t, err)

	check, err := CheckPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, check.Match)
	assert.Contains(t, check.Upgrade, "m=65536")
}

func TestBurnPasswordCheckDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { BurnPasswordCheck("anything") })
}

func TestOpaqueTokenHashing(t *testing.T) {
	token, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)

	other, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	hash := HashToken(token)
	assert.NotEqual(t, token, hash)
	assert.True(t, TokenHashMatches(token, hash))
	assert.False(t, TokenHashMatches(other, hash))
}
