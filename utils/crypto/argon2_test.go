package cryptopackage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFromPassword(t *testing.T) {
	password := "mysecretpassword123"

	hash, err := GenerateFromPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "mysecretpassword123"

	hash, err := GenerateFromPassword(password)
	assert.NoError(t, err)

	ok, err := ComparePasswordAndHash(password, hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswordAndHash("wrongpassword", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePasswordAndHash_SamePasswordDifferentHashes(t *testing.T) {
	password := "samepassword"

	hash1, err := GenerateFromPassword(password)
	assert.NoError(t, err)
	hash2, err := GenerateFromPassword(password)
	assert.NoError(t, err)

	// Different salts must produce different encodings
	assert.NotEqual(t, hash1, hash2)

	ok, err := ComparePasswordAndHash(password, hash1)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = ComparePasswordAndHash(password, hash2)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestComparePasswordAndHash_MalformedHash(t *testing.T) {
	_, err := ComparePasswordAndHash("password", "not-a-valid-hash")
	assert.Error(t, err)

	_, err = ComparePasswordAndHash("password", "$bcrypt$v=19$m=65536,t=2,p=4$c2FsdA$aGFzaA")
	assert.Error(t, err)
}
