package dpapi

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	c := New()

	if runtime.GOOS != "windows" {
		assert.False(t, c.Available())
		_, err := c.Protect([]byte("x"))
		assert.ErrorIs(t, err, ErrUnavailable)
		_, err = c.Unprotect([]byte("x"))
		assert.ErrorIs(t, err, ErrUnavailable)
		return
	}

	require.True(t, c.Available())
	protected, err := c.Protect([]byte("hello"))
	require.NoError(t, err)

	plain, err := c.Unprotect(protected)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plain)

	_, err = c.Unprotect([]byte("not a dpapi blob"))
	assert.Error(t, err)
}
