package vm

import (
	"errors"
	"testing"

	"github.com/eth2030/eth2030/core/state"
)

func newTestContext(code []byte) *Context {
	st := state.New(state.NewMemoryKV())
	return NewContext(code, st, Env{}, 0)
}

func TestAddAndReturn(t *testing.T) {
	// PUSH1 3 PUSH1 4 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{
		0x60, 0x03,
		0x60, 0x04,
		0x01,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 32 || out[31] != 7 {
		t.Fatalf("got %x, want 32 bytes ending in 7", out)
	}
}

func TestStopHalts(t *testing.T) {
	ctx := newTestContext([]byte{0x00})
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil output from STOP, got %x", out)
	}
}

func TestRevertReturnsData(t *testing.T) {
	// PUSH1 0 PUSH1 0 REVERT
	code := []byte{0x60, 0x00, 0x60, 0x00, 0xfd}
	ctx := newTestContext(code)
	_, err := ctx.Run()
	var rerr *RevertError
	if !errors.As(err, &rerr) {
		t.Fatalf("got %v, want *RevertError", err)
	}
}

func TestSStoreSLoadRoundTrip(t *testing.T) {
	// PUSH1 5 PUSH1 1 SSTORE PUSH1 1 SLOAD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{
		0x60, 0x05,
		0x60, 0x01,
		0x55,
		0x60, 0x01,
		0x54,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out[31] != 5 {
		t.Fatalf("got %x, want last byte 5", out)
	}
}

func TestInvalidOpcode(t *testing.T) {
	ctx := newTestContext([]byte{0xfe})
	_, err := ctx.Run()
	var ierr *InvalidOpcodeError
	if !errors.As(err, &ierr) {
		t.Fatalf("got %v, want *InvalidOpcodeError", err)
	}
}

func TestJumpToNonJumpdest(t *testing.T) {
	// PUSH1 5 JUMP, then three STOP bytes (pc 5 lands on a STOP, not JUMPDEST)
	code := []byte{0x60, 0x05, 0x56, 0x00, 0x00, 0x00}
	ctx := newTestContext(code)
	_, err := ctx.Run()
	if !errors.Is(err, ErrInvalidJump) {
		t.Fatalf("got %v, want ErrInvalidJump", err)
	}
}

func TestJumpToValidJumpdest(t *testing.T) {
	// PUSH1 4 JUMP STOP JUMPDEST PUSH1 9 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{
		0x60, 0x04,
		0x56,
		0x00,
		0x5b,
		0x60, 0x09,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out[31] != 9 {
		t.Fatalf("got %x, want last byte 9", out)
	}
}

func TestJumpIntoPushImmediateRejected(t *testing.T) {
	// PUSH2 0x5b00 PUSH1 1 JUMP: the 0x5b immediate byte at pc 1 looks like
	// JUMPDEST but is push data, not a real instruction boundary.
	code := []byte{0x61, 0x5b, 0x00, 0x60, 0x01, 0x56}
	ctx := newTestContext(code)
	_, err := ctx.Run()
	if !errors.Is(err, ErrInvalidJump) {
		t.Fatalf("got %v, want ErrInvalidJump", err)
	}
}

func TestMulModIsMultiplyNotAdd(t *testing.T) {
	// PUSH1 7 PUSH1 6 PUSH1 5 MULMOD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	// (3*5) mod 7 == 1, whereas (3+5) mod 7 would be 1 too by coincidence,
	// so use operands where the two formulas diverge: 4*6=24 mod 7 = 3,
	// 4+6=10 mod 7 = 3 as well; pick 5*6=30 mod 7=2, 5+6=11 mod 7=4.
	code := []byte{
		0x60, 0x07,
		0x60, 0x06,
		0x60, 0x05,
		0x09,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out[31] != 2 {
		t.Fatalf("got %d, want 2 (multiplicative MULMOD)", out[31])
	}
}

func TestSltIsSigned(t *testing.T) {
	// PUSH32 -1 (all 0xff) PUSH1 0 SLT: the stack order for SLT is
	// (a, b) -> a<b with a on top after the pops; push order here makes
	// a=0, b=-1. Unsigned, 0 < 2^256-1 would be true; signed, SLT tests
	// whether 0 < -1, which is false.
	code := []byte{0x7f}
	for i := 0; i < 32; i++ {
		code = append(code, 0xff)
	}
	code = append(code, 0x60, 0x00, 0x12, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3)
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out[31] != 0 {
		t.Fatalf("got %d, want 0 (0 is not signed-less-than -1)", out[31])
	}
}

func TestCodeRunningOffEndFailsCodeOutOfBound(t *testing.T) {
	// PUSH1 1 POP, with no STOP/RETURN/REVERT after: pc runs off the end.
	code := []byte{0x60, 0x01, 0x50}
	ctx := newTestContext(code)
	_, err := ctx.Run()
	if !errors.Is(err, ErrCodeOutOfBound) {
		t.Fatalf("got %v, want ErrCodeOutOfBound", err)
	}
}

func TestTruncatedPushFailsCodeOutOfBound(t *testing.T) {
	// PUSH4 with only two immediate bytes following.
	code := []byte{0x63, 0x01, 0x02}
	ctx := newTestContext(code)
	_, err := ctx.Run()
	if !errors.Is(err, ErrCodeOutOfBound) {
		t.Fatalf("got %v, want ErrCodeOutOfBound", err)
	}
}

func TestCallValueAlwaysZero(t *testing.T) {
	// CALLVALUE PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{0x34, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, b := range out {
		if b != 0 {
			t.Fatalf("got %x, want all-zero word", out)
		}
	}
}

func TestShiftBy256OrMoreYieldsZero(t *testing.T) {
	// PUSH1 1 PUSH2 256 SHL PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN.
	// Value (1) is pushed first so it ends up below the shift amount
	// (256), which SHL pops first, matching the opcode's stack order.
	code := []byte{
		0x60, 0x01, // PUSH1 1 (value)
		0x61, 0x01, 0x00, // PUSH2 256 (shift)
		0x1b, // SHL
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	ctx := newTestContext(code)
	out, err := ctx.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out[31] != 0 {
		t.Fatalf("got %d, want 0 (shift of 256 zeroes the value)", out[31])
	}
}
