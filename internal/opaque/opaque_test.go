package opaque

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(DefaultTokenBytes)
	require.NoError(t, err)
	b, err := RandomToken(DefaultTokenBytes)
	require.NoError(t, err)

	assert.Len(t, a, 2*DefaultTokenBytes)
	assert.Regexp(t, `^[0-9a-f]+$`, a)
	assert.NotEqual(t, a, b)
}

func TestRandomOTP(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		code, err := RandomOTP()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestBackupCode(t *testing.T) {
	code, err := BackupCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{4}-[0-9a-f]{4}$`, code)
}

func TestHash(t *testing.T) {
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		Hash("hello"))
	assert.NotEqual(t, Hash("123456"), Hash("123457"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Hash("a"), Hash("a")))
	assert.False(t, Equal(Hash("a"), Hash("b")))
	assert.False(t, Equal("", Hash("a")))
}
