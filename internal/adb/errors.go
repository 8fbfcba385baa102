package adb

import (
	"errors"
	"fmt"

	"github.com/illarion/adbtool/internal/storage"
)

var (
	ErrNotFound         = fmt.Errorf("adb: %w", storage.ErrNotFound)
	ErrClosed           = errors.New("database is not open")
	ErrNoObfuscationKey = errors.New("no obfuscation key available")
	ErrMissingPrefix    = errors.New("key does not start with the database key prefix")
)

// OpenError reports that the storage engine could not be opened
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open database %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// IOError reports an engine failure other than a missing key
type IOError struct {
	Op  string // "fetch", "write", "delete", "iterate" or "export"
	Key []byte
	Err error
}

func (e *IOError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("failed to %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DecryptError reports a value that did not decrypt under the resolved key
type DecryptError struct {
	Key []byte
	Err error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("failed to deobfuscate %q, bad serial number? %v", e.Key, e.Err)
}

func (e *DecryptError) Unwrap() error {
	return e.Err
}
