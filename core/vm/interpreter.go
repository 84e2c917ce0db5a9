package vm

import (
	"github.com/eth2030/eth2030/core/state"
	"github.com/eth2030/eth2030/core/types"
)

// Env carries the small set of call-context values the recognised
// opcodes can read (CALLER, CALLDATA*, TIMESTAMP, NUMBER, CHAINID).
// It deliberately has no call value: no value transfer is modelled, so
// CALLVALUE always pushes zero rather than reading from Env. It also
// has no block header, no gas price, no origin: those belong to
// opcodes outside this interpreter's scope.
type Env struct {
	Caller    types.Address
	CallData  []byte
	Timestamp uint64
	Number    uint64
	ChainID   uint64
}

// executionFunc is the handler signature for one opcode. It operates on
// the shared Context, returning output bytes only for RETURN; every other
// opcode returns a nil slice. REVERT carries its data in the
// *RevertError it returns.
type executionFunc func(ctx *Context) ([]byte, error)

// Context is the mutable state threaded through a single interpreter
// run: the code under execution, its program counter, the operand stack
// and memory, the backing contract state, the call environment, and the
// log events accumulated so far.
type Context struct {
	code      []byte
	jumpdests map[uint64]struct{}
	pc        uint64

	Stack *Stack
	Mem   *Memory
	State *state.State
	Env   Env
	Logs  []types.Log

	jt *JumpTable

	steps    uint64
	maxSteps uint64
}

// NewContext builds a fresh interpreter context over code, ready to run
// from pc 0. maxSteps of 0 means unbounded (spec §5's default).
func NewContext(code []byte, st *state.State, env Env, maxSteps uint64) *Context {
	return &Context{
		code:      code,
		jumpdests: validJumpdests(code),
		Stack:     NewStack(),
		Mem:       NewMemory(),
		State:     st,
		Env:       env,
		jt:        defaultJumpTable,
		maxSteps:  maxSteps,
	}
}

// defaultJumpTable is the single fixed dispatch table; built once since
// this interpreter has no fork history to select between.
var defaultJumpTable = newJumpTable()

// validJumpdests performs the forward scan spec §4.4 recommends: walk
// the code once, skipping PUSH immediates, recording every JUMPDEST byte
// that is a genuine instruction boundary rather than data embedded
// inside a PUSH argument.
func validJumpdests(code []byte) map[uint64]struct{} {
	dests := make(map[uint64]struct{})
	for i := uint64(0); i < uint64(len(code)); {
		op := OpCode(code[i])
		if op == JUMPDEST {
			dests[i] = struct{}{}
		}
		if op.IsPush() {
			i += uint64(op.PushSize()) + 1
			continue
		}
		i++
	}
	return dests
}

// codeByte returns the opcode at pc. Reaching pc >= len(code) fails
// CodeOutOfBound: every program must terminate explicitly via STOP,
// RETURN, or REVERT rather than falling off the end of its code.
func (ctx *Context) codeByte(pc uint64) (OpCode, error) {
	if pc >= uint64(len(ctx.code)) {
		return 0, ErrCodeOutOfBound
	}
	return OpCode(ctx.code[pc]), nil
}

// Run drives the fetch/decode/execute loop to completion, returning the
// output bytes of a RETURN/REVERT, or nil for a plain STOP. Any error
// other than *RevertError indicates abnormal termination (ErrStackOverflow,
// *InvalidOpcodeError, ErrInvalidJump, ...); RevertError is also returned
// as err so callers can tell REVERT apart from a deliberately empty
// return.
func (ctx *Context) Run() ([]byte, error) {
	for {
		if ctx.maxSteps != 0 && ctx.steps >= ctx.maxSteps {
			return nil, ErrStepLimitExceeded
		}
		ctx.steps++

		op, err := ctx.codeByte(ctx.pc)
		if err != nil {
			return nil, err
		}
		oper := ctx.jt[op]
		if oper == nil {
			return nil, &InvalidOpcodeError{Op: byte(op)}
		}
		if ctx.Stack.Len() < oper.minStack {
			return nil, ErrStackUnderflow
		}
		if ctx.Stack.Len() > oper.maxStack {
			return nil, ErrStackOverflow
		}

		out, err := oper.execute(ctx)
		if err != nil {
			if rerr, ok := err.(*RevertError); ok {
				return rerr.Data, rerr
			}
			return nil, err
		}
		if oper.halts {
			return out, nil
		}
		if !oper.jumps {
			ctx.pc = ctx.advance(op, ctx.pc)
		}
	}
}

// advance computes the next pc for an opcode that doesn't set pc itself:
// PUSHn consumes n immediate bytes, everything else is a single byte.
func (ctx *Context) advance(op OpCode, pc uint64) uint64 {
	if op.IsPush() {
		return pc + uint64(op.PushSize()) + 1
	}
	return pc + 1
}
