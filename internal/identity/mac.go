package identity

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
)

var ErrSerialNotFound = errors.New("platform serial number not found")

var ioregSerial = regexp.MustCompile(`"IOPlatformSerialNumber"\s*=\s*"([^"]*)"`)

// MacHardware reads the hardware serial from the IO registry
type MacHardware struct {
	// Query returns the IOPlatformExpertDevice registry dump
	Query func() ([]byte, error)
}

// NewMacHardware queries the registry through ioreg
func NewMacHardware() *MacHardware {
	return &MacHardware{
		Query: func() ([]byte, error) {
			return exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
		},
	}
}

// Identity returns the identity for this Mac's serial number
func (m *MacHardware) Identity() (Identity, error) {
	out, err := m.Query()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to query IO registry: %w", err)
	}

	serial, err := parseIORegSerial(out)
	if err != nil {
		return Identity{}, err
	}
	return FromMacSerial(serial), nil
}

func parseIORegSerial(out []byte) (string, error) {
	m := ioregSerial.FindSubmatch(out)
	if m == nil || len(m[1]) == 0 {
		return "", ErrSerialNotFound
	}
	return string(m[1]), nil
}
