// Package crypto provides the value codec and key derivation used by
// agent databases.
//
// Values are encrypted with AES-256-CBC:
//   - 16-byte random IV stored in front of the ciphertext
//   - PKCS#7 padding, validated on decrypt
//   - no authentication tag, so a wrong key is only detected by the
//     padding check (roughly 255 times out of 256)
//
// Machine-specific keys use PBKDF2-HMAC-SHA512 with:
//   - passphrase and salt built from the platform identity
//   - 10,000 iterations
//   - 32-byte output
//
// Memory safety:
//   - Use ClearBytes() to zero key material after use
package crypto
