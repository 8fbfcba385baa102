//go:build !windows

package dpapi

const available = false

func protect([]byte) ([]byte, error) {
	return nil, ErrUnavailable
}

func unprotect([]byte) ([]byte, error) {
	return nil, ErrUnavailable
}
