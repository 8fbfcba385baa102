package crypto

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

// KDFIterations is the PBKDF2 round count used by the agent for machine keys
const KDFIterations = 10000

// DeriveKey derives a 32-byte obfuscation key from a platform passphrase and salt
func DeriveKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, KDFIterations, KeySize, sha512.New)
}
