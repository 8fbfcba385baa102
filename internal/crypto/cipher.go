package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
)

const (
	KeySize   = 32            // AES-256 key size
	BlockSize = aes.BlockSize // CBC block and IV size
)

var (
	ErrBadPadding = errors.New("bad padding")
	ErrInvalidKey = errors.New("invalid key size")
)

// Cipher encrypts and decrypts single store values under a caller-supplied key.
type Cipher interface {
	Encrypt(plaintext, key []byte) ([]byte, error)
	Decrypt(ciphertext, key []byte) ([]byte, error)
}

// AES256RandomIV is the agent's value format: IV || AES-256-CBC(PKCS#7(plaintext)).
type AES256RandomIV struct {
	rand io.Reader
}

// NewAES256RandomIV creates a codec drawing IVs from crypto/rand
func NewAES256RandomIV() *AES256RandomIV {
	return &AES256RandomIV{rand: rand.Reader}
}

// NewAES256RandomIVWithReader creates a codec drawing IVs from r
func NewAES256RandomIVWithReader(r io.Reader) *AES256RandomIV {
	return &AES256RandomIV{rand: r}
}

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, nil
}

// Decrypt decrypts a value whose first block is the IV and verifies its padding.
// Returns ErrBadPadding if the input has the wrong size or the padding is invalid.
func (c *AES256RandomIV) Decrypt(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) < 2*BlockSize || len(ciphertext)%BlockSize != 0 {
		return nil, ErrBadPadding
	}

	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:BlockSize]
	body := ciphertext[BlockSize:]

	buf := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(buf, body)

	plaintext, err := unpad(buf)
	if err != nil {
		ClearBytes(buf)
		return nil, err
	}
	return plaintext, nil
}

// Encrypt pads and encrypts plaintext under a fresh random IV
func (c *AES256RandomIV) Encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext)
	defer ClearBytes(padded)

	result := make([]byte, BlockSize+len(padded))
	iv := result[:BlockSize]
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(result[BlockSize:], padded)
	return result, nil
}

// pad appends 1..BlockSize bytes, each holding the pad length
func pad(b []byte) []byte {
	n := BlockSize - len(b)%BlockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n < 1 || n > BlockSize {
		return nil, ErrBadPadding
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, ErrBadPadding
		}
	}
	return b[:len(b)-n], nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
