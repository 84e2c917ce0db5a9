package state

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleKV is the on-disk KV driver backed by a pebble LSM-tree, the
// concrete "e.g. an LSM-tree" store the external interface calls for.
// Keys and values are the raw 32-byte big-endian encodings the rest of
// the package works with; a zero value is deleted rather than stored,
// keeping "absent" and "explicitly zero" indistinguishable on disk the
// same way MemoryKV keeps them indistinguishable in a map.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebbleKV opens (creating if necessary) a pebble database at dir.
func OpenPebbleKV(dir string) (*PebbleKV, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleKV{db: db}, nil
}

// Close flushes and closes the underlying database.
func (p *PebbleKV) Close() error {
	return p.db.Close()
}

// Get returns the value at key, or the zero word if key was never set
// or was last set to zero. The KV interface is infallible from the
// interpreter's perspective, so any error other than a plain miss is an
// implementation-internal failure (disk, corruption) and panics rather
// than being reported as an ordinary absent read.
func (p *PebbleKV) Get(key [32]byte) [32]byte {
	var out [32]byte
	v, closer, err := p.db.Get(key[:])
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return out
		}
		panic(err)
	}
	copy(out[:], v)
	closer.Close()
	return out
}

// Set stores value at key, deleting the entry instead when value is the
// zero word. Panics on a failed write for the same reason Get panics on
// anything but a miss.
func (p *PebbleKV) Set(key [32]byte, value [32]byte) {
	var zero [32]byte
	if value == zero {
		if err := p.db.Delete(key[:], pebble.Sync); err != nil {
			panic(err)
		}
		return
	}
	if err := p.db.Set(key[:], value[:], pebble.Sync); err != nil {
		panic(err)
	}
}
