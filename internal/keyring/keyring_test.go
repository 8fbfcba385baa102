package keyring

import (
	"testing"

	"github.com/illarion/adbtool/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSerialRoundTrip(t *testing.T) {
	keyring.MockInit()

	path := "/usr/local/crashplan/conf/adb"
	assert.False(t, HasSerial(path))

	serial := identity.Serial{Platform: identity.PlatformMac, Value: "C02XK1ABJG5J"}
	require.NoError(t, SaveSerial(path, serial))
	assert.True(t, HasSerial(path))

	got, err := GetSerial(path)
	require.NoError(t, err)
	assert.Equal(t, serial, got)

	require.NoError(t, DeleteSerial(path))
	assert.False(t, HasSerial(path))

	_, err = GetSerial(path)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestMalformedEntry(t *testing.T) {
	keyring.MockInit()

	path := "/tmp/adb"
	require.NoError(t, keyring.Set(serviceName, account(path), "garbage"))
	_, err := GetSerial(path)
	assert.Error(t, err)
	assert.False(t, HasSerial(path))
}
