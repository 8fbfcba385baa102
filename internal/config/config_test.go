package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/adbtool/internal/valuefmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(m map[string]string) Env {
	return func(key string) string { return m[key] }
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, DatabaseADB, cfg.Database)
	assert.Equal(t, EngineLevelDB, cfg.Engine)
	assert.Equal(t, valuefmt.Raw, cfg.Format)
	assert.Equal(t, "leveldb.BytewiseComparator", cfg.ComparatorName)
	assert.False(t, cfg.Verbose)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "adbtool.yaml"), []byte(
		"database: udb\nformat: hex\nmac_serial: C02XK1ABJG5J\n"), 0600))
	t.Setenv("ADBTOOL_LINUX_SERIAL", "machine-id")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, DatabaseUDB, cfg.Database)
	assert.Equal(t, valuefmt.Hex, cfg.Format)
	assert.Equal(t, "C02XK1ABJG5J", cfg.MacSerial)
	assert.Equal(t, "machine-id", cfg.LinuxSerial)
}

func TestValidate(t *testing.T) {
	good := Config{Database: DatabaseADB, Engine: EngineBolt, Format: valuefmt.Hex}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Database = "xdb"
	assert.Error(t, bad.Validate())

	bad = good
	bad.Engine = "rocksdb"
	assert.Error(t, bad.Validate())

	bad = good
	bad.Format = "base64"
	assert.Error(t, bad.Validate())
}

func TestDatabasePaths(t *testing.T) {
	env := mapEnv(map[string]string{
		"HOME":         "/Users/op",
		"LOCALAPPDATA": `C:\Users\op\AppData\Local`,
		"ProgramData":  `C:\ProgramData`,
	})

	mac := DatabasePaths("darwin", env, "adb")
	assert.Equal(t, []string{
		filepath.Join("/Users/op", "Library", "Application Support", "CrashPlan", "conf", "adb"),
		filepath.Join("/Library", "Application Support", "CrashPlan", "conf", "adb"),
	}, mac)

	assert.Len(t, DatabasePaths("windows", env, "udb"), 2)
	assert.Empty(t, DatabasePaths("windows", mapEnv(nil), "udb"))

	assert.Equal(t, []string{filepath.Join("/usr/local/crashplan/conf", "udb")},
		DatabasePaths("linux", env, "udb"))
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "adb")
	require.NoError(t, os.Mkdir(existing, 0700))
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	got, err := Locate([]string{filepath.Join(dir, "missing"), file, existing})
	require.NoError(t, err)
	assert.Equal(t, existing, got)

	_, err = Locate([]string{filepath.Join(dir, "missing")})
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestResolvePath(t *testing.T) {
	cfg := Config{Path: "/explicit/adb", Database: DatabaseADB}
	got, err := cfg.ResolvePath("linux", mapEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "/explicit/adb", got)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
