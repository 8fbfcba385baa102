package keyring

import (
	"path/filepath"

	"github.com/illarion/adbtool/internal/identity"
	"github.com/zalando/go-keyring"
)

const serviceName = "adbtool"

// account keys entries by absolute database path
func account(dbPath string) string {
	if abs, err := filepath.Abs(dbPath); err == nil {
		return abs
	}
	return dbPath
}

// SaveSerial remembers the serial that unlocks the database at dbPath
func SaveSerial(dbPath string, serial identity.Serial) error {
	return keyring.Set(serviceName, account(dbPath), serial.String())
}

// GetSerial retrieves the remembered serial for dbPath
func GetSerial(dbPath string) (identity.Serial, error) {
	value, err := keyring.Get(serviceName, account(dbPath))
	if err != nil {
		return identity.Serial{}, err
	}
	return identity.ParseSerial(value)
}

// DeleteSerial forgets the serial for dbPath
func DeleteSerial(dbPath string) error {
	return keyring.Delete(serviceName, account(dbPath))
}

// HasSerial checks if a serial is remembered for dbPath
func HasSerial(dbPath string) bool {
	_, err := GetSerial(dbPath)
	return err == nil
}
