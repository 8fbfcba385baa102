package adb

import "fmt"

// KeyPrefix starts every key the agent stores
const KeyPrefix byte = 0x01

// Defaults for the agent's reserved values
const (
	DefaultStaticKey   = "HWANToDk3L6hcXryaU95X6fasmufN8Ok"
	DefaultSentinelKey = "\x01ACCESSIBLE_KEY"
)

// PrefixKey converts a display name to a stored key
func PrefixKey(name string) []byte {
	key := make([]byte, 0, len(name)+1)
	key = append(key, KeyPrefix)
	return append(key, name...)
}

// TrimKeyPrefix converts a stored key to its display name
func TrimKeyPrefix(key []byte) (string, error) {
	if len(key) == 0 || key[0] != KeyPrefix {
		return "", fmt.Errorf("%w: %q", ErrMissingPrefix, key)
	}
	return string(key[1:]), nil
}
