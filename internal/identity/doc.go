// Package identity turns machine identifiers into the passphrase and salt
// the agent feeds to its key derivation.
//
// One Provider exists per platform:
//   - macOS: the hardware serial number, repeated four times plus a newline
//   - Linux: the D-Bus and systemd machine-id files concatenated
//   - Windows: no passphrase, values are protected by DPAPI instead
//
// An operator-supplied serial overrides detection and follows the same rule
// as the platform it names.
package identity
