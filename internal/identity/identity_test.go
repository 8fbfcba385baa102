package identity

import (
	"encoding/hex"
	"errors"
	"os"
	"testing"

	"github.com/illarion/adbtool/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMacSerial(t *testing.T) {
	id := FromMacSerial("C02XK1ABJG5J")

	want := "C02XK1ABJG5JC02XK1ABJG5JC02XK1ABJG5JC02XK1ABJG5J\n"
	assert.Equal(t, want, string(id.Passphrase))
	assert.Equal(t, want[:32], string(id.Salt))
	assert.True(t, id.CanDeriveKey())
	assert.False(t, id.Native)
}

func TestMacSerialDerivedKey(t *testing.T) {
	id := FromMacSerial("C02XK1ABJG5J")

	key := crypto.DeriveKey(id.Passphrase, id.Salt)

	assert.Equal(t, "bed7369d4f3a13959a72eebf924fa43a768ae2bfb3d2e38370f5253fdd665bf5", hex.EncodeToString(key))
}

func TestFromLinuxSerial(t *testing.T) {
	serial := "0123456789abcdef0123456789abcdef\n"
	id := FromLinuxSerial(serial)

	assert.Equal(t, serial, string(id.Passphrase))
	assert.Equal(t, serial[:32], string(id.Salt))
	assert.True(t, id.CanDeriveKey())
}

func TestShortIdentityCannotDerive(t *testing.T) {
	id := FromLinuxSerial("short")
	assert.Equal(t, "short", string(id.Salt))
	assert.False(t, id.CanDeriveKey())

	assert.False(t, FromLinuxSerial("").CanDeriveKey())

	native, err := Native{}.Identity()
	require.NoError(t, err)
	assert.True(t, native.Native)
	assert.False(t, native.CanDeriveKey())
}

func TestSerialProviderMatchesDetection(t *testing.T) {
	detected := &MacHardware{Query: func() ([]byte, error) {
		return []byte(`    "IOPlatformSerialNumber" = "C02XK1ABJG5J"`), nil
	}}
	a, err := detected.Identity()
	require.NoError(t, err)

	b, err := Serial{Platform: PlatformMac, Value: "C02XK1ABJG5J"}.Identity()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSerialUnknownPlatform(t *testing.T) {
	_, err := Serial{Platform: "amiga", Value: "x"}.Identity()
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestParseSerial(t *testing.T) {
	s, err := ParseSerial("linux:abc:def")
	require.NoError(t, err)
	assert.Equal(t, Serial{Platform: PlatformLinux, Value: "abc:def"}, s)
	assert.Equal(t, "linux:abc:def", s.String())

	_, err = ParseSerial("nocolon")
	assert.Error(t, err)

	_, err = ParseSerial("bsd:123")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestLinuxMachineID(t *testing.T) {
	files := map[string]string{
		"/var/lib/dbus/machine-id": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\n",
		"/etc/machine-id":          "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\n",
	}
	provider := &LinuxMachineID{
		Paths: DefaultMachineIDPaths,
		ReadFile: func(name string) ([]byte, error) {
			if v, ok := files[name]; ok {
				return []byte(v), nil
			}
			return nil, os.ErrNotExist
		},
	}

	id, err := provider.Identity()
	require.NoError(t, err)
	assert.Equal(t, files["/var/lib/dbus/machine-id"]+files["/etc/machine-id"], string(id.Passphrase))
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", string(id.Salt))

	// A missing file is treated as empty
	delete(files, "/var/lib/dbus/machine-id")
	id, err = provider.Identity()
	require.NoError(t, err)
	assert.Equal(t, files["/etc/machine-id"], string(id.Passphrase))

	// Both missing yields an identity too short to derive from
	delete(files, "/etc/machine-id")
	id, err = provider.Identity()
	require.NoError(t, err)
	assert.False(t, id.CanDeriveKey())
}

func TestMacHardwareErrors(t *testing.T) {
	failing := &MacHardware{Query: func() ([]byte, error) {
		return nil, errors.New("ioreg: not found")
	}}
	_, err := failing.Identity()
	assert.Error(t, err)

	empty := &MacHardware{Query: func() ([]byte, error) {
		return []byte(`"IOPlatformUUID" = "1234"`), nil
	}}
	_, err = empty.Identity()
	assert.ErrorIs(t, err, ErrSerialNotFound)
}

func TestSelect(t *testing.T) {
	assert.Equal(t, Serial{Platform: PlatformMac, Value: "M"},
		Select("linux", Overrides{MacSerial: "M", LinuxSerial: "L"}))
	assert.Equal(t, Serial{Platform: PlatformLinux, Value: "L"},
		Select("darwin", Overrides{LinuxSerial: "L"}))

	assert.IsType(t, &MacHardware{}, Select("darwin", Overrides{}))
	assert.IsType(t, Native{}, Select("windows", Overrides{}))
	assert.IsType(t, &LinuxMachineID{}, Select("linux", Overrides{}))
	assert.IsType(t, &LinuxMachineID{}, Select("freebsd", Overrides{}))
}
