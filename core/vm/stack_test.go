package vm

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestStackPushPop(t *testing.T) {
	st := NewStack()
	if err := st.Push(uint256.NewInt(1)); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := st.Push(uint256.NewInt(2)); err != nil {
		t.Fatalf("push: %v", err)
	}
	v, err := st.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v.Uint64() != 2 {
		t.Fatalf("got %d, want 2", v.Uint64())
	}
	if st.Len() != 1 {
		t.Fatalf("len got %d, want 1", st.Len())
	}
}

func TestStackUnderflow(t *testing.T) {
	st := NewStack()
	if _, err := st.Pop(); !errors.Is(err, ErrStackUnderflow) {
		t.Fatalf("got %v, want ErrStackUnderflow", err)
	}
}

func TestStackOverflow(t *testing.T) {
	st := NewStack()
	for i := 0; i < stackLimit; i++ {
		if err := st.Push(uint256.NewInt(uint64(i))); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := st.Push(uint256.NewInt(0)); !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("got %v, want ErrStackOverflow", err)
	}
}

func TestStackDupSwap(t *testing.T) {
	st := NewStack()
	st.Push(uint256.NewInt(1))
	st.Push(uint256.NewInt(2))
	st.Push(uint256.NewInt(3))
	if err := st.Dup(2); err != nil { // DUP2: duplicate the 2nd from top (value 2)
		t.Fatalf("dup: %v", err)
	}
	if st.Peek().Uint64() != 2 {
		t.Fatalf("dup2 got %d, want 2", st.Peek().Uint64())
	}
	st.Swap(1) // swap top (2) with the one below it (3)
	if st.Peek().Uint64() != 3 {
		t.Fatalf("swap1 got %d, want 3", st.Peek().Uint64())
	}
}

func TestStackPopUsize(t *testing.T) {
	st := NewStack()
	st.Push(uint256.NewInt(64))
	n, err := st.PopUsize()
	if err != nil {
		t.Fatalf("popusize: %v", err)
	}
	if n != 64 {
		t.Fatalf("got %d, want 64", n)
	}
}

func TestStackPopUsizeOutOfRange(t *testing.T) {
	st := NewStack()
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	st.Push(huge)
	if _, err := st.PopUsize(); !errors.Is(err, ErrStackValueOutOfRange) {
		t.Fatalf("got %v, want ErrStackValueOutOfRange", err)
	}
}

func TestStackBack(t *testing.T) {
	st := NewStack()
	st.Push(uint256.NewInt(10))
	st.Push(uint256.NewInt(20))
	if st.Back(0).Uint64() != 20 {
		t.Fatalf("back(0) got %d, want 20", st.Back(0).Uint64())
	}
	if st.Back(1).Uint64() != 10 {
		t.Fatalf("back(1) got %d, want 10", st.Back(1).Uint64())
	}
}
