package identity

import "os"

// DefaultMachineIDPaths are read in order and concatenated
var DefaultMachineIDPaths = []string{"/var/lib/dbus/machine-id", "/etc/machine-id"}

// LinuxMachineID derives the identity from machine-id files
type LinuxMachineID struct {
	Paths    []string
	ReadFile func(name string) ([]byte, error)
}

// NewLinuxMachineID reads the standard machine-id locations
func NewLinuxMachineID() *LinuxMachineID {
	return &LinuxMachineID{
		Paths:    DefaultMachineIDPaths,
		ReadFile: os.ReadFile,
	}
}

// Identity concatenates every readable file; unreadable files count as empty
func (l *LinuxMachineID) Identity() (Identity, error) {
	var serial []byte
	for _, path := range l.Paths {
		data, err := l.ReadFile(path)
		if err != nil {
			continue
		}
		serial = append(serial, data...)
	}
	return FromLinuxSerial(string(serial)), nil
}
