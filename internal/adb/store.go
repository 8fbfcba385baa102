package adb

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/illarion/adbtool/internal/crypto"
	"github.com/illarion/adbtool/internal/discovery"
	"github.com/illarion/adbtool/internal/dpapi"
	"github.com/illarion/adbtool/internal/identity"
	"github.com/illarion/adbtool/internal/storage"
)

// State is the lifecycle position of a Store
type State int

const (
	StateClosed State = iota
	StateOpening
	StateKeyDiscovery
	StateReady
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateKeyDiscovery:
		return "key-discovery"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// EngineOpener opens the raw engine for a database path
type EngineOpener func(path string) (storage.Engine, error)

// LevelDBOpener opens agent databases in LevelDB format
func LevelDBOpener(o storage.LevelDBOptions) EngineOpener {
	return func(path string) (storage.Engine, error) {
		db, err := storage.OpenLevelDB(path, o)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// BoltOpener opens existing BBolt snapshots
func BoltOpener() EngineOpener {
	return func(path string) (storage.Engine, error) {
		db, err := storage.OpenBolt(path, storage.BoltOptions{})
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// NativeCodec is OS secure storage used instead of an obfuscation key
type NativeCodec interface {
	Available() bool
	Protect(b []byte) ([]byte, error)
	Unprotect(b []byte) ([]byte, error)
}

// Options configures Open. Zero values select the agent's defaults.
type Options struct {
	// Provider overrides identity selection entirely
	Provider identity.Provider
	// Overrides are operator-supplied serials used when Provider is nil
	Overrides identity.Overrides
	Engine    EngineOpener
	Cipher    crypto.Cipher
	Native    NativeCodec
	// StaticKey is the fallback key tried after the machine key
	StaticKey []byte
	// SentinelKey is the reserved record used to confirm a key quickly
	SentinelKey []byte
	Logger      *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Provider == nil {
		o.Provider = identity.Select(runtime.GOOS, o.Overrides)
	}
	if o.Engine == nil {
		o.Engine = LevelDBOpener(storage.LevelDBOptions{})
	}
	if o.Cipher == nil {
		o.Cipher = crypto.NewAES256RandomIV()
	}
	if o.Native == nil {
		o.Native = dpapi.New()
	}
	if o.StaticKey == nil {
		o.StaticKey = []byte(DefaultStaticKey)
	}
	if o.SentinelKey == nil {
		o.SentinelKey = []byte(DefaultSentinelKey)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Store is an open agent database with a resolved obfuscation key
type Store struct {
	path   string
	state  State
	engine storage.Engine
	cipher crypto.Cipher
	native NativeCodec
	result *discovery.Result
	key    []byte
	log    *slog.Logger
}

// Entry is a decrypted record
type Entry struct {
	Key   []byte
	Value []byte
}

// Open opens the database at path and resolves its obfuscation key.
// Engine failures are returned as *OpenError; when no key works the
// error is discovery.ErrKeyDiscovery.
func Open(path string, opts Options) (*Store, error) {
	opts.setDefaults()

	s := &Store{
		path:   path,
		state:  StateOpening,
		cipher: opts.Cipher,
		native: opts.Native,
		log:    opts.Logger.With("path", path),
	}

	engine, err := opts.Engine(path)
	if err != nil {
		s.state = StateClosed
		return nil, &OpenError{Path: path, Err: err}
	}
	s.engine = engine
	s.state = StateKeyDiscovery

	id, err := opts.Provider.Identity()
	if err != nil {
		s.log.Warn("failed to detect platform identity, trying static key only", "error", err)
		id = identity.Identity{}
	}

	d := &discovery.Discoverer{
		Cipher:      opts.Cipher,
		SentinelKey: opts.SentinelKey,
		Logger:      s.log,
	}
	if opts.Native.Available() {
		d.Native = opts.Native
	}

	result, err := d.Discover(engine, discovery.Candidates(id, opts.StaticKey))
	if err != nil {
		if cerr := engine.Close(); cerr != nil {
			s.log.Warn("failed to close database", "error", cerr)
		}
		s.state = StateClosed
		return nil, err
	}

	s.result = result
	if result.Key != nil {
		s.key = append([]byte(nil), result.Key...)
	}
	s.state = StateReady
	s.log.Debug("database opened", "method", result.Method, "candidate", result.Candidate)

	return s, nil
}

// With opens the database, runs fn and always closes the database again
func With(path string, opts Options, fn func(*Store) error) (err error) {
	s, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Close flushes and releases the database
func (s *Store) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	crypto.ClearBytes(s.key)
	s.key = nil
	return s.engine.Close()
}

// Path returns the database path
func (s *Store) Path() string {
	return s.path
}

// State returns the lifecycle state
func (s *Store) State() State {
	return s.state
}

// Method returns how the obfuscation key was confirmed
func (s *Store) Method() discovery.Method {
	return s.result.Method
}

// Candidate returns the name of the confirmed candidate key
func (s *Store) Candidate() string {
	return s.result.Candidate
}

// Native reports whether values are protected by OS secure storage
func (s *Store) Native() bool {
	return s.result != nil && s.result.Native()
}

func (s *Store) ready() error {
	if s.state != StateReady {
		return ErrClosed
	}
	return nil
}

func (s *Store) deobfuscate(key, value []byte) ([]byte, error) {
	var (
		plaintext []byte
		err       error
	)
	if s.Native() {
		plaintext, err = s.native.Unprotect(value)
	} else {
		plaintext, err = s.cipher.Decrypt(value, s.key)
	}
	if err != nil {
		return nil, &DecryptError{Key: append([]byte(nil), key...), Err: err}
	}
	return plaintext, nil
}

func (s *Store) obfuscate(value []byte) ([]byte, error) {
	if s.key == nil {
		// Only permitted when the OS encrypts values for us
		if !s.Native() {
			return nil, ErrNoObfuscationKey
		}
		protected, err := s.native.Protect(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoObfuscationKey, err)
		}
		return protected, nil
	}
	return s.cipher.Encrypt(value, s.key)
}

// ReadKey returns the decrypted value stored at key. A value that does not
// decrypt is a *DecryptError.
func (s *Store) ReadKey(key []byte) ([]byte, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	value, err := s.engine.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, &IOError{Op: "fetch", Key: key, Err: err}
	}

	return s.deobfuscate(key, value)
}

// WriteKey encrypts value and stores it at key
func (s *Store) WriteKey(key, value []byte) error {
	if err := s.ready(); err != nil {
		return err
	}

	encrypted, err := s.obfuscate(value)
	if err != nil {
		return err
	}

	if err := s.engine.Put(key, encrypted); err != nil {
		return &IOError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// DeleteKey removes key
func (s *Store) DeleteKey(key []byte) error {
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.engine.Delete(key); err != nil {
		return &IOError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ListKeys returns every key in engine order
func (s *Store) ListKeys() ([][]byte, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var keys [][]byte
	err := s.engine.ForEach(func(k, _ []byte) error {
		keys = append(keys, append([]byte(nil), k...))
		return nil
	})
	if err != nil {
		return nil, &IOError{Op: "iterate", Err: err}
	}
	return keys, nil
}

// ListEntries returns every record decrypted, in engine order. Values come
// from the iteration itself rather than point lookups, so records that
// ReadKey cannot find because of a comparator mismatch still show up.
func (s *Store) ListEntries() ([]Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var entries []Entry
	err := s.engine.ForEach(func(k, v []byte) error {
		plaintext, err := s.deobfuscate(k, v)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Key: append([]byte(nil), k...), Value: plaintext})
		return nil
	})

	var decryptErr *DecryptError
	switch {
	case errors.As(err, &decryptErr):
		return nil, err
	case err != nil:
		return nil, &IOError{Op: "iterate", Err: err}
	}
	return entries, nil
}

// Export copies every raw record, still encrypted, into dst
func (s *Store) Export(dst storage.Engine) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	n, err := storage.Copy(dst, s.engine)
	if err != nil {
		return n, &IOError{Op: "export", Err: err}
	}
	return n, nil
}
