package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	RecordsBucket = []byte("records") // Raw agent records, values still encrypted
	MetaBucket    = []byte("meta")    // Snapshot metadata - unencrypted
)

// Meta keys
var (
	MetaVersion  = []byte("version")
	MetaSnapshot = []byte("snapshot")
)

const lockTimeout = time.Second

// BoltOptions configures OpenBolt
type BoltOptions struct {
	// Create allows a missing snapshot file to be created
	Create bool
}

// Bolt is an Engine backed by a single BBolt file
type Bolt struct {
	db *bolt.DB
}

// SnapshotMeta describes where a snapshot came from
type SnapshotMeta struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Source  string    `json:"source"`
	Records int       `json:"records"`
}

// OpenBolt opens a snapshot file, creating its buckets if needed
func OpenBolt(path string, o BoltOptions) (*Bolt, error) {
	if !o.Create {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{RecordsBucket, MetaBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		meta := tx.Bucket(MetaBucket)
		if meta.Get(MetaVersion) == nil {
			return meta.Put(MetaVersion, []byte("1"))
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Get retrieves a copy of the value stored at key
func (b *Bolt) Get(key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(RecordsBucket).Get(key)
		if data == nil {
			return ErrNotFound
		}
		// Make a copy since the slice is only valid during the transaction
		value = append([]byte(nil), data...)
		return nil
	})
	return value, err
}

// Put stores value at key
func (b *Bolt) Put(key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(RecordsBucket).Put(key, value)
	})
}

// Delete removes key
func (b *Bolt) Delete(key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(RecordsBucket).Delete(key)
	})
}

// ForEach iterates records in bytewise key order
func (b *Bolt) ForEach(fn func(key, value []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(RecordsBucket).ForEach(fn)
	})
}

// SetSnapshotMeta records where the snapshot's records came from
func (b *Bolt) SetSnapshotMeta(meta SnapshotMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(MetaBucket).Put(MetaSnapshot, data)
	})
}

// ErrNoSnapshotMeta is returned for bolt files that were never written by a snapshot
var ErrNoSnapshotMeta = errors.New("snapshot metadata not found")

// GetSnapshotMeta retrieves the snapshot metadata
func (b *Bolt) GetSnapshotMeta() (*SnapshotMeta, error) {
	var meta *SnapshotMeta
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(MetaBucket).Get(MetaSnapshot)
		if data == nil {
			return ErrNoSnapshotMeta
		}
		meta = &SnapshotMeta{}
		return json.Unmarshal(data, meta)
	})
	return meta, err
}

// Path returns the snapshot file path
func (b *Bolt) Path() string {
	return b.db.Path()
}

// Close closes the snapshot file
func (b *Bolt) Close() error {
	return b.db.Close()
}
