package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("key not found")

// Engine is the raw sorted storage under an agent database
type Engine interface {
	// Get returns a copy of the value stored at key, or ErrNotFound
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// Delete removes key; deleting a missing key is not an error
	Delete(key []byte) error
	// ForEach visits every record in the engine's key order and stops at
	// the first error returned by fn
	ForEach(fn func(key, value []byte) error) error
	// Close flushes pending writes and releases the engine's lock
	Close() error
}

// Copy writes every record of src into dst in src's iteration order and
// returns the number of records copied
func Copy(dst, src Engine) (int, error) {
	count := 0
	err := src.ForEach(func(k, v []byte) error {
		if err := dst.Put(k, v); err != nil {
			return fmt.Errorf("failed to copy record %q: %w", k, err)
		}
		count++
		return nil
	})
	return count, err
}
