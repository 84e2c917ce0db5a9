package state

import "github.com/holiman/uint256"

// State wraps a KV with a pending overlay of writes made during the
// current invocation. SSTORE writes land in the overlay, never the
// backing KV directly; Commit drains the overlay into the KV, Rollback
// discards it. This mirrors the teacher's journal/overlay pattern,
// reduced from full account/balance/nonce journaling to a single
// 256-bit to 256-bit mapping.
type State struct {
	kv      KV
	pending map[[32]byte]*uint256.Int
}

// New wraps kv in a fresh State with an empty overlay.
func New(kv KV) *State {
	return &State{kv: kv, pending: make(map[[32]byte]*uint256.Int)}
}

// Load reads key, preferring an uncommitted pending write over the
// backing KV.
func (s *State) Load(key [32]byte) [32]byte {
	if v, ok := s.pending[key]; ok {
		return v.Bytes32()
	}
	return s.kv.Get(key)
}

// Store records a write in the pending overlay. It is not visible to
// the backing KV until Commit.
func (s *State) Store(key [32]byte, value [32]byte) {
	s.pending[key] = new(uint256.Int).SetBytes32(value[:])
}

// Commit drains every pending write into the backing KV and clears the
// overlay.
func (s *State) Commit() {
	for k, v := range s.pending {
		s.kv.Set(k, v.Bytes32())
	}
	s.pending = make(map[[32]byte]*uint256.Int)
}

// Rollback discards the pending overlay without touching the backing KV.
func (s *State) Rollback() {
	s.pending = make(map[[32]byte]*uint256.Int)
}
