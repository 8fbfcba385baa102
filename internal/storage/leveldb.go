package storage

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// DefaultComparerName is the name LevelDB records for plain bytewise ordering
const DefaultComparerName = "leveldb.BytewiseComparator"

// LevelDBOptions configures OpenLevelDB
type LevelDBOptions struct {
	// Create allows a missing database to be created (tests and fixtures)
	Create bool
	// ComparerName is the comparator name checked against the database
	// manifest. Ordering is always bytewise.
	ComparerName string
}

// LevelDB is an Engine backed by a LevelDB directory
type LevelDB struct {
	db *leveldb.DB
}

// namedComparer orders keys bytewise but reports a configurable name, so a
// database written under another comparator name can still be opened
type namedComparer struct {
	comparer.Comparer
	name string
}

func (c namedComparer) Name() string {
	return c.name
}

// OpenLevelDB opens the LevelDB database in dir. It fails if another
// process (usually the backup agent) holds the database lock.
func OpenLevelDB(dir string, o LevelDBOptions) (*LevelDB, error) {
	name := o.ComparerName
	if name == "" {
		name = DefaultComparerName
	}

	db, err := leveldb.OpenFile(dir, &opt.Options{
		ErrorIfMissing: !o.Create,
		Compression:    opt.NoCompression,
		Comparer:       namedComparer{Comparer: comparer.DefaultComparer, name: name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb %s: %w", dir, err)
	}

	return &LevelDB{db: db}, nil
}

// Get retrieves the value stored at key
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value at key
func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

// Delete removes key
func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// ForEach iterates the whole database in comparator order
func (l *LevelDB) ForEach(fn func(key, value []byte) error) error {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Close flushes and closes the database
func (l *LevelDB) Close() error {
	return l.db.Close()
}
