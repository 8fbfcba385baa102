package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	passphrase := []byte("C02ABCDEFGHJC02ABCDEFGHJC02ABCDEFGHJC02ABCDEFGHJ\n")
	salt := passphrase[:32]

	a := DeriveKey(passphrase, salt)
	b := DeriveKey(passphrase, salt)

	assert.Len(t, a, KeySize)
	assert.Equal(t, a, b)
}

func TestDeriveKeyDependsOnInputs(t *testing.T) {
	base := DeriveKey([]byte("passphrase-one-that-is-long-enough"), []byte("salt"))

	assert.NotEqual(t, base, DeriveKey([]byte("passphrase-two-that-is-long-enough"), []byte("salt")))
	assert.NotEqual(t, base, DeriveKey([]byte("passphrase-one-that-is-long-enough"), []byte("pepper")))
	assert.Len(t, DeriveKey(nil, nil), KeySize)
}

func TestDeriveKeyKnownAnswer(t *testing.T) {
	// PBKDF2-HMAC-SHA512, 10000 rounds, salt = first 32 bytes
	passphrase := []byte("C02XK1ABJG5JC02XK1ABJG5JC02XK1ABJG5JC02XK1ABJG5J\n")

	key := DeriveKey(passphrase, passphrase[:32])

	assert.Equal(t, "bed7369d4f3a13959a72eebf924fa43a768ae2bfb3d2e38370f5253fdd665bf5", hex.EncodeToString(key))
}
