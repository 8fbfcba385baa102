package discovery

import (
	"errors"
	"io"
	"log/slog"

	"github.com/illarion/adbtool/internal/crypto"
	"github.com/illarion/adbtool/internal/identity"
	"github.com/illarion/adbtool/internal/storage"
)

var ErrKeyDiscovery = errors.New("failed to determine a working obfuscation key for the database, make sure your serial numbers are correct")

// Candidate names
const (
	CandidateDerived = "derived"
	CandidateStatic  = "static"
)

// SentinelPlaintext is what the sentinel record decrypts to under the right key
var SentinelPlaintext = make([]byte, crypto.BlockSize)

// Candidate is a key considered during discovery
type Candidate struct {
	Name string
	Key  []byte
}

// Candidates builds the ordered candidate list: the machine key when the
// identity is long enough to derive one, then the static fallback key
func Candidates(id identity.Identity, static []byte) []Candidate {
	var candidates []Candidate
	if id.CanDeriveKey() {
		candidates = append(candidates, Candidate{
			Name: CandidateDerived,
			Key:  crypto.DeriveKey(id.Passphrase, id.Salt),
		})
	}
	if len(static) > 0 {
		candidates = append(candidates, Candidate{Name: CandidateStatic, Key: static})
	}
	return candidates
}

// Method records how a key was confirmed
type Method int

const (
	MethodNative Method = iota
	MethodSentinel
	MethodScan
)

func (m Method) String() string {
	switch m {
	case MethodNative:
		return "native"
	case MethodSentinel:
		return "sentinel"
	case MethodScan:
		return "scan"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful discovery
type Result struct {
	// Key is nil when values are protected by the OS instead
	Key       []byte
	Candidate string
	Method    Method
}

// Native reports whether the database is protected by OS secure storage
func (r *Result) Native() bool {
	return r.Method == MethodNative
}

// Reader is the read access discovery needs from the raw engine
type Reader interface {
	Get(key []byte) ([]byte, error)
	ForEach(fn func(key, value []byte) error) error
}

// Unprotector decrypts values protected by OS secure storage
type Unprotector interface {
	Unprotect(b []byte) ([]byte, error)
}

// Discoverer runs key discovery against a database
type Discoverer struct {
	Cipher      crypto.Cipher
	SentinelKey []byte
	// Native is nil on platforms without OS secure storage
	Native Unprotector
	Logger *slog.Logger
}

var errStop = errors.New("stop")

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}

// Discover returns the first candidate that unlocks the database, or
// ErrKeyDiscovery. Decryption failures only move on to the next candidate.
func (d *Discoverer) Discover(r Reader, candidates []Candidate) (*Result, error) {
	log := d.logger()

	sentinel, err := r.Get(d.SentinelKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		sentinel = nil
		log.Debug("sentinel record not present")
	case err != nil:
		sentinel = nil
		log.Warn("failed to read sentinel record", "error", err)
	}

	if d.Native != nil && d.probeNative(r, sentinel) {
		log.Debug("values are protected by OS secure storage")
		return &Result{Method: MethodNative}, nil
	}

	if sentinel != nil {
		for _, c := range candidates {
			if d.checkSentinel(sentinel, c) {
				log.Debug("candidate key confirmed by sentinel", "candidate", c.Name)
				return &Result{Key: c.Key, Candidate: c.Name, Method: MethodSentinel}, nil
			}
			log.Debug("candidate key rejected by sentinel", "candidate", c.Name)
		}
	}

	for _, c := range candidates {
		records, err := d.scan(r, c)
		if err == nil {
			log.Debug("candidate key decrypts every record", "candidate", c.Name, "records", records)
			return &Result{Key: c.Key, Candidate: c.Name, Method: MethodScan}, nil
		}
		if errors.Is(err, crypto.ErrBadPadding) {
			log.Debug("candidate key rejected by scan", "candidate", c.Name, "after", records)
		} else {
			log.Warn("scan failed", "candidate", c.Name, "error", err)
		}
	}

	return nil, ErrKeyDiscovery
}

func (d *Discoverer) checkSentinel(sentinel []byte, c Candidate) bool {
	plaintext, err := d.Cipher.Decrypt(sentinel, c.Key)
	if err != nil {
		return false
	}
	defer crypto.ClearBytes(plaintext)
	return crypto.ConstantTimeCompare(plaintext, SentinelPlaintext)
}

// probeNative tries OS secure storage on the sentinel, or on the first
// record when there is no sentinel
func (d *Discoverer) probeNative(r Reader, sentinel []byte) bool {
	probe := sentinel
	if probe == nil {
		err := r.ForEach(func(_, v []byte) error {
			probe = append([]byte(nil), v...)
			return errStop
		})
		if err != nil && !errors.Is(err, errStop) {
			return false
		}
	}
	if probe == nil {
		return false
	}
	_, err := d.Native.Unprotect(probe)
	return err == nil
}

// scan decrypts every value with the candidate and returns how many
// records passed before the first failure
func (d *Discoverer) scan(r Reader, c Candidate) (int, error) {
	records := 0
	err := r.ForEach(func(_, v []byte) error {
		plaintext, err := d.Cipher.Decrypt(v, c.Key)
		if err != nil {
			return err
		}
		crypto.ClearBytes(plaintext)
		records++
		return nil
	})
	return records, err
}
