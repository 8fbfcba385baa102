package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLevelDB(t *testing.T) (*LevelDB, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "adb")
	db, err := OpenLevelDB(dir, LevelDBOptions{Create: true})
	require.NoError(t, err)
	return db, dir
}

func TestOpenLevelDBMissing(t *testing.T) {
	_, err := OpenLevelDB(filepath.Join(t.TempDir(), "missing"), LevelDBOptions{})
	assert.Error(t, err)
}

func TestLevelDBOperations(t *testing.T) {
	db, _ := newLevelDB(t)
	defer db.Close()

	require.NoError(t, db.Put([]byte("\x01a"), []byte("one")))

	value, err := db.Get([]byte("\x01a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)

	_, err = db.Get([]byte("\x01missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Delete([]byte("\x01a")))
	_, err = db.Get([]byte("\x01a"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine
	assert.NoError(t, db.Delete([]byte("\x01a")))
}

func TestLevelDBIterationOrder(t *testing.T) {
	db, _ := newLevelDB(t)
	defer db.Close()

	for _, k := range []string{"\x01K3", "\x01K1", "\x01K2"} {
		require.NoError(t, db.Put([]byte(k), []byte("v")))
	}

	var keys []string
	require.NoError(t, db.ForEach(func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	}))
	assert.Equal(t, []string{"\x01K1", "\x01K2", "\x01K3"}, keys)
}

func TestLevelDBPersistence(t *testing.T) {
	db, dir := newLevelDB(t)
	require.NoError(t, db.Put([]byte("\x01key"), []byte("value")))
	require.NoError(t, db.Close())

	db2, err := OpenLevelDB(dir, LevelDBOptions{})
	require.NoError(t, err)
	defer db2.Close()

	value, err := db2.Get([]byte("\x01key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestLevelDBComparerNameMismatch(t *testing.T) {
	db, dir := newLevelDB(t)
	require.NoError(t, db.Put([]byte("\x01key"), []byte("value")))
	require.NoError(t, db.Close())

	_, err := OpenLevelDB(dir, LevelDBOptions{ComparerName: "some.OtherComparator"})
	assert.Error(t, err)
}
