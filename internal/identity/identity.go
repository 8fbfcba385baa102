package identity

import (
	"errors"
	"fmt"
	"strings"
)

// SaltSize is how many leading passphrase bytes form the salt
const SaltSize = 32

// Platform names the derivation rule applied to a serial
type Platform string

const (
	PlatformMac   Platform = "mac"
	PlatformLinux Platform = "linux"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Identity is the key derivation input for one machine
type Identity struct {
	Passphrase []byte
	Salt       []byte
	// Native is set on platforms where the OS protects values itself
	Native bool
}

// CanDeriveKey reports whether the passphrase is long enough to derive a
// machine key. Shorter identities only get the static fallback key.
func (id Identity) CanDeriveKey() bool {
	return !id.Native && len(id.Passphrase) >= SaltSize
}

// Provider produces the identity of the machine a database belongs to
type Provider interface {
	Identity() (Identity, error)
}

func fromPassphrase(passphrase string) Identity {
	p := []byte(passphrase)
	n := min(len(p), SaltSize)
	return Identity{
		Passphrase: p,
		Salt:       append([]byte(nil), p[:n]...),
	}
}

// FromMacSerial builds the identity for a Mac hardware serial
func FromMacSerial(serial string) Identity {
	return fromPassphrase(strings.Repeat(serial, 4) + "\n")
}

// FromLinuxSerial builds the identity for a Linux machine ID string
func FromLinuxSerial(serial string) Identity {
	return fromPassphrase(serial)
}

// Serial is an explicitly supplied serial for a given platform
type Serial struct {
	Platform Platform
	Value    string
}

// Identity applies the platform's derivation rule to the serial
func (s Serial) Identity() (Identity, error) {
	switch s.Platform {
	case PlatformMac:
		return FromMacSerial(s.Value), nil
	case PlatformLinux:
		return FromLinuxSerial(s.Value), nil
	default:
		return Identity{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, s.Platform)
	}
}

// String encodes the serial as "platform:value"
func (s Serial) String() string {
	return string(s.Platform) + ":" + s.Value
}

// ParseSerial decodes a serial encoded by Serial.String
func ParseSerial(s string) (Serial, error) {
	platform, value, ok := strings.Cut(s, ":")
	if !ok {
		return Serial{}, fmt.Errorf("malformed serial %q", s)
	}
	switch Platform(platform) {
	case PlatformMac, PlatformLinux:
		return Serial{Platform: Platform(platform), Value: value}, nil
	default:
		return Serial{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
}

// Native is the provider for platforms using OS secure storage
type Native struct{}

// Identity returns an identity with no passphrase
func (Native) Identity() (Identity, error) {
	return Identity{Native: true}, nil
}

// Overrides are serials supplied by the operator instead of detection
type Overrides struct {
	MacSerial   string
	LinuxSerial string
}

// Select picks the provider for goos, preferring explicit serials
func Select(goos string, o Overrides) Provider {
	switch {
	case o.MacSerial != "":
		return Serial{Platform: PlatformMac, Value: o.MacSerial}
	case o.LinuxSerial != "":
		return Serial{Platform: PlatformLinux, Value: o.LinuxSerial}
	}

	switch goos {
	case "darwin":
		return NewMacHardware()
	case "windows":
		return Native{}
	default:
		return NewLinuxMachineID()
	}
}
