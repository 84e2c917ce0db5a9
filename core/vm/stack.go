package vm

import (
	"math"

	"github.com/holiman/uint256"
)

// stackLimit is the maximum number of words the stack may hold at once.
const stackLimit = 1024

// Stack is the interpreter's operand stack: up to 1024 256-bit words.
type Stack struct {
	data []*uint256.Int
}

// NewStack returns a new empty stack.
func NewStack() *Stack {
	return &Stack{data: make([]*uint256.Int, 0, 16)}
}

// Push pushes a word onto the stack.
func (st *Stack) Push(val *uint256.Int) error {
	if len(st.data) >= stackLimit {
		return ErrStackOverflow
	}
	st.data = append(st.data, val)
	return nil
}

// Pop removes and returns the top word. Popping an empty stack fails
// with ErrStackUnderflow; inside the interpreter the jump table's
// stack-depth validation runs before any handler touches the stack.
func (st *Stack) Pop() (*uint256.Int, error) {
	if len(st.data) == 0 {
		return nil, ErrStackUnderflow
	}
	n := len(st.data) - 1
	ret := st.data[n]
	st.data = st.data[:n]
	return ret, nil
}

// PushUint64 is a convenience wrapper for pushing small constants.
func (st *Stack) PushUint64(v uint64) error {
	return st.Push(new(uint256.Int).SetUint64(v))
}

// PopUsize pops a word and converts it to a platform int, failing with
// ErrStackValueOutOfRange if the value doesn't fit (used for memory
// offsets/lengths and jump destinations).
func (st *Stack) PopUsize() (int, error) {
	v, err := st.Pop()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > math.MaxInt {
		return 0, ErrStackValueOutOfRange
	}
	return int(v.Uint64()), nil
}

// Peek returns the top word without removing it.
func (st *Stack) Peek() *uint256.Int {
	return st.data[len(st.data)-1]
}

// Back returns the nth word from the top (0-indexed: 0 = top) without
// removing it.
func (st *Stack) Back(n int) *uint256.Int {
	return st.data[len(st.data)-1-n]
}

// Swap exchanges the top word with the nth word below it (SWAP1..SWAP16
// pass n = 1..16).
func (st *Stack) Swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

// Dup duplicates the nth word from the top (DUP1..DUP16 pass n = 1..16)
// and pushes the copy.
func (st *Stack) Dup(n int) error {
	if len(st.data) >= stackLimit {
		return ErrStackOverflow
	}
	val := new(uint256.Int).Set(st.data[len(st.data)-n])
	st.data = append(st.data, val)
	return nil
}

// Len returns the number of words currently on the stack.
func (st *Stack) Len() int {
	return len(st.data)
}

// Data returns the underlying stack slice, bottom to top.
func (st *Stack) Data() []*uint256.Int {
	return st.data
}
