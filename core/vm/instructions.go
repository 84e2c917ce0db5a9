package vm

import (
	"github.com/eth2030/eth2030/core/types"
	"github.com/eth2030/eth2030/crypto"
	"github.com/holiman/uint256"
)

// Each handler assumes the dispatch loop has already checked minStack/
// maxStack for its opcode, so every Pop below is infallible in practice;
// the error is still threaded through for the rare case (PopUsize) where
// a value that doesn't fit a platform int turns into ErrStackValueOutOfRange.

func opStop(ctx *Context) ([]byte, error) {
	return nil, nil
}

func binOp(ctx *Context, f func(z, x, y *uint256.Int) *uint256.Int) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	z := f(new(uint256.Int), x, y)
	return nil, ctx.Stack.Push(z)
}

func opAdd(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).Add) }
func opMul(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).Mul) }
func opSub(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).Sub) }
func opDiv(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).Div) }
func opMod(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).Mod) }

func opAddMod(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	m, _ := ctx.Stack.Pop()
	z := new(uint256.Int).AddMod(x, y, m)
	return nil, ctx.Stack.Push(z)
}

// opMulMod computes (x*y) mod m over a widened intermediate, never the
// (x+y) mod m confusion some bytecode-interpreter ports fall into.
func opMulMod(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	m, _ := ctx.Stack.Pop()
	z := new(uint256.Int).MulMod(x, y, m)
	return nil, ctx.Stack.Push(z)
}

func opExp(ctx *Context) ([]byte, error) {
	base, _ := ctx.Stack.Pop()
	exponent, _ := ctx.Stack.Pop()
	z := new(uint256.Int).Exp(base, exponent)
	return nil, ctx.Stack.Push(z)
}

func boolWord(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return uint256.NewInt(0)
}

func opLt(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	return nil, ctx.Stack.Push(boolWord(x.Lt(y)))
}

func opGt(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	return nil, ctx.Stack.Push(boolWord(x.Gt(y)))
}

// opSlt implements SLT as a signed, two's-complement comparison: the
// only signed-arithmetic opcode this interpreter recognises.
func opSlt(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	return nil, ctx.Stack.Push(boolWord(x.Slt(y)))
}

func opEq(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	y, _ := ctx.Stack.Pop()
	return nil, ctx.Stack.Push(boolWord(x.Eq(y)))
}

func opIsZero(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	return nil, ctx.Stack.Push(boolWord(x.IsZero()))
}

func opAnd(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).And) }
func opOr(ctx *Context) ([]byte, error)  { return binOp(ctx, (*uint256.Int).Or) }
func opXor(ctx *Context) ([]byte, error) { return binOp(ctx, (*uint256.Int).Xor) }

func opNot(ctx *Context) ([]byte, error) {
	x, _ := ctx.Stack.Pop()
	return nil, ctx.Stack.Push(new(uint256.Int).Not(x))
}

// opShl and opShr implement SHL/SHR with a shift amount of 256 or more
// always yielding zero, resolving the ambiguity left open between the
// diverging reference implementations.
func opShl(ctx *Context) ([]byte, error) {
	shift, _ := ctx.Stack.Pop()
	value, _ := ctx.Stack.Pop()
	if !shift.IsUint64() || shift.Uint64() > 255 {
		return nil, ctx.Stack.Push(uint256.NewInt(0))
	}
	z := new(uint256.Int).Lsh(value, uint(shift.Uint64()))
	return nil, ctx.Stack.Push(z)
}

func opShr(ctx *Context) ([]byte, error) {
	shift, _ := ctx.Stack.Pop()
	value, _ := ctx.Stack.Pop()
	if !shift.IsUint64() || shift.Uint64() > 255 {
		return nil, ctx.Stack.Push(uint256.NewInt(0))
	}
	z := new(uint256.Int).Rsh(value, uint(shift.Uint64()))
	return nil, ctx.Stack.Push(z)
}

func opKeccak256(ctx *Context) ([]byte, error) {
	offset, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	size, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	data, err := ctx.Mem.View(offset, size)
	if err != nil {
		return nil, err
	}
	return nil, ctx.Stack.Push(new(uint256.Int).SetBytes(crypto.Keccak256(data)))
}

func addressWord(a types.Address) *uint256.Int {
	var b [32]byte
	copy(b[32-types.AddressLength:], a[:])
	return new(uint256.Int).SetBytes32(b[:])
}

func opCaller(ctx *Context) ([]byte, error) {
	return nil, ctx.Stack.Push(addressWord(ctx.Env.Caller))
}

// opCallValue always pushes zero: no value transfer is modelled.
func opCallValue(ctx *Context) ([]byte, error) {
	return nil, ctx.Stack.Push(uint256.NewInt(0))
}

func opCallDataLoad(ctx *Context) ([]byte, error) {
	offset, _ := ctx.Stack.Pop()
	var b [32]byte
	if offset.IsUint64() {
		start := offset.Uint64()
		if start < uint64(len(ctx.Env.CallData)) {
			copy(b[:], ctx.Env.CallData[start:])
		}
	}
	return nil, ctx.Stack.Push(new(uint256.Int).SetBytes32(b[:]))
}

func opCallDataSize(ctx *Context) ([]byte, error) {
	return nil, ctx.Stack.Push(new(uint256.Int).SetUint64(uint64(len(ctx.Env.CallData))))
}

func opTimestamp(ctx *Context) ([]byte, error) {
	return nil, ctx.Stack.Push(new(uint256.Int).SetUint64(ctx.Env.Timestamp))
}

func opNumber(ctx *Context) ([]byte, error) {
	return nil, ctx.Stack.Push(new(uint256.Int).SetUint64(ctx.Env.Number))
}

func opChainID(ctx *Context) ([]byte, error) {
	return nil, ctx.Stack.Push(new(uint256.Int).SetUint64(ctx.Env.ChainID))
}

func opPop(ctx *Context) ([]byte, error) {
	_, _ = ctx.Stack.Pop()
	return nil, nil
}

func opMload(ctx *Context) ([]byte, error) {
	offset, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	w, err := ctx.Mem.MLoad(offset)
	if err != nil {
		return nil, err
	}
	return nil, ctx.Stack.Push(w)
}

func opMstore(ctx *Context) ([]byte, error) {
	offset, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	val, _ := ctx.Stack.Pop()
	return nil, ctx.Mem.MStore(offset, val)
}

func opSload(ctx *Context) ([]byte, error) {
	key, _ := ctx.Stack.Pop()
	v := ctx.State.Load(key.Bytes32())
	return nil, ctx.Stack.Push(new(uint256.Int).SetBytes32(v[:]))
}

func opSstore(ctx *Context) ([]byte, error) {
	key, _ := ctx.Stack.Pop()
	val, _ := ctx.Stack.Pop()
	ctx.State.Store(key.Bytes32(), val.Bytes32())
	return nil, nil
}

func opJump(ctx *Context) ([]byte, error) {
	dest, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	if _, ok := ctx.jumpdests[uint64(dest)]; !ok {
		return nil, ErrInvalidJump
	}
	ctx.pc = uint64(dest)
	return nil, nil
}

func opJumpi(ctx *Context) ([]byte, error) {
	dest, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	cond, _ := ctx.Stack.Pop()
	if cond.IsZero() {
		ctx.pc++
		return nil, nil
	}
	if _, ok := ctx.jumpdests[uint64(dest)]; !ok {
		return nil, ErrInvalidJump
	}
	ctx.pc = uint64(dest)
	return nil, nil
}

func opJumpdest(ctx *Context) ([]byte, error) {
	return nil, nil
}

// makePush returns a handler that reads n immediate bytes following the
// opcode and pushes them as a left-padded word. Fewer than n bytes
// remaining in code fails CodeOutOfBound rather than reading as zero.
func makePush(n int) executionFunc {
	return func(ctx *Context) ([]byte, error) {
		start := ctx.pc + 1
		if start+uint64(n) > uint64(len(ctx.code)) {
			return nil, ErrCodeOutOfBound
		}
		var b [32]byte
		copy(b[32-n:], ctx.code[start:start+uint64(n)])
		return nil, ctx.Stack.Push(new(uint256.Int).SetBytes32(b[:]))
	}
}

// makeDup returns a handler for DUPn.
func makeDup(n int) executionFunc {
	return func(ctx *Context) ([]byte, error) {
		return nil, ctx.Stack.Dup(n)
	}
}

// makeSwap returns a handler for SWAPn.
func makeSwap(n int) executionFunc {
	return func(ctx *Context) ([]byte, error) {
		ctx.Stack.Swap(n)
		return nil, nil
	}
}

// makeLog returns a handler for LOGn: pops offset, size, then n topics
// (in stack order), and appends the resulting event to ctx.Logs.
func makeLog(n int) executionFunc {
	return func(ctx *Context) ([]byte, error) {
		offset, err := ctx.Stack.PopUsize()
		if err != nil {
			return nil, err
		}
		size, err := ctx.Stack.PopUsize()
		if err != nil {
			return nil, err
		}
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t, _ := ctx.Stack.Pop()
			b := t.Bytes32()
			topics[i] = types.BytesToHash(b[:])
		}
		data, err := ctx.Mem.View(offset, size)
		if err != nil {
			return nil, err
		}
		ctx.Logs = append(ctx.Logs, types.Log{Topics: topics, Data: data})
		return nil, nil
	}
}

func opReturn(ctx *Context) ([]byte, error) {
	offset, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	size, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	return ctx.Mem.View(offset, size)
}

func opRevert(ctx *Context) ([]byte, error) {
	offset, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	size, err := ctx.Stack.PopUsize()
	if err != nil {
		return nil, err
	}
	data, err := ctx.Mem.View(offset, size)
	if err != nil {
		return nil, err
	}
	return nil, &RevertError{Data: data}
}
