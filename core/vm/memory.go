package vm

import "github.com/holiman/uint256"

// MaxMemorySize bounds the interpreter's byte-addressable memory. Unlike
// the teacher's original gas-metered memory, growth isn't paid for word
// by word; it's simply capped so a single invocation cannot allocate an
// unbounded buffer.
const MaxMemorySize = 65536

// Memory is the interpreter's byte-addressable, auto-growing scratch
// space. It expands in 32-byte words up to MaxMemorySize and returns an
// error instead of panicking once a request would exceed that bound.
type Memory struct {
	store []byte
}

// NewMemory returns a new empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// ensure grows the backing store, word-aligned, so that [offset, offset+size)
// is addressable. size == 0 is always satisfiable without growth.
func (m *Memory) ensure(offset, size int) error {
	if size == 0 {
		return nil
	}
	if offset < 0 || size < 0 {
		return ErrMemoryOutOfBound
	}
	end := offset + size
	if end < offset {
		return ErrMemoryOverflow
	}
	if end > MaxMemorySize {
		return ErrMemoryOverflow
	}
	if end <= len(m.store) {
		return nil
	}
	words := (end + 31) / 32
	newLen := words * 32
	grown := make([]byte, newLen)
	copy(grown, m.store)
	m.store = grown
	return nil
}

// MStore writes a 32-byte word at offset, growing memory as needed.
func (m *Memory) MStore(offset int, val *uint256.Int) error {
	if err := m.ensure(offset, 32); err != nil {
		return err
	}
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
	return nil
}

// MLoad reads a 32-byte word starting at offset, growing memory as needed.
func (m *Memory) MLoad(offset int) (*uint256.Int, error) {
	if err := m.ensure(offset, 32); err != nil {
		return nil, err
	}
	var b [32]byte
	copy(b[:], m.store[offset:offset+32])
	return new(uint256.Int).SetBytes32(b[:]), nil
}

// Set copies value into memory at [offset, offset+len(value)), growing
// memory as needed.
func (m *Memory) Set(offset int, value []byte) error {
	if err := m.ensure(offset, len(value)); err != nil {
		return err
	}
	copy(m.store[offset:offset+len(value)], value)
	return nil
}

// View returns a copy of the memory contents at [offset, offset+size),
// growing memory as needed. size == 0 returns nil without touching
// offset, matching the spec's "zero-length reads never grow memory" edge
// case. Unlike the growing write paths, a range exceeding MaxMemorySize
// fails MemoryOutOfBound rather than MemoryOverflow.
func (m *Memory) View(offset, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	end := offset + size
	if end < offset || end > MaxMemorySize {
		return nil, ErrMemoryOutOfBound
	}
	if err := m.ensure(offset, size); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out, nil
}

// Len returns the current length of memory in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte {
	return m.store
}
