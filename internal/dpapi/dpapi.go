package dpapi

import "errors"

var ErrUnavailable = errors.New("DPAPI is not available on this platform")

// Codec protects and unprotects values for the current Windows account
type Codec struct{}

// New returns the platform codec
func New() *Codec {
	return &Codec{}
}

// Available reports whether DPAPI can be used on this platform
func (c *Codec) Available() bool {
	return available
}

// Protect encrypts b with DPAPI
func (c *Codec) Protect(b []byte) ([]byte, error) {
	return protect(b)
}

// Unprotect decrypts a DPAPI blob
func (c *Codec) Unprotect(b []byte) ([]byte, error) {
	return unprotect(b)
}
