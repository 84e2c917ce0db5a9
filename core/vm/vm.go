package vm

import (
	"github.com/eth2030/eth2030/core/state"
	"github.com/eth2030/eth2030/core/types"
)

// VM is the envelope around a single interpreter invocation: it owns the
// State being read and written and decides, on the way out, whether the
// overlay written during execution is kept or thrown away.
type VM struct {
	State    *state.State
	MaxSteps uint64
}

// New returns a VM over st. MaxSteps of 0 leaves the interpreter
// unbounded, matching the interpreter's default.
func New(st *state.State) *VM {
	return &VM{State: st}
}

// CodeSource supplies the program a host runs, fixed for the session.
type CodeSource interface {
	GetCode() []byte
}

// EnvSource supplies successive call environments in order; the bool is
// false once none remain.
type EnvSource interface {
	GetNextEnv() (Env, bool)
}

// Result is the outcome of one Run or Call: the output bytes (from
// RETURN or REVERT), the log events accumulated before termination, and
// the error describing how execution ended (nil on a plain STOP/RETURN,
// *RevertError on REVERT, or one of the abnormal-termination errors).
type Result struct {
	Output []byte
	Logs   []types.Log
	Err    error
}

// Run executes code against env, committing the pending state overlay
// if execution reached a normal halt (STOP or RETURN) and rolling it
// back on any other outcome, including REVERT.
func (vm *VM) Run(code []byte, env Env) Result {
	ctx := NewContext(code, vm.State, env, vm.MaxSteps)
	out, err := ctx.Run()
	if err == nil {
		vm.State.Commit()
	} else {
		vm.State.Rollback()
	}
	return Result{Output: out, Logs: ctx.Logs, Err: err}
}

// Call executes code against env for read-only exploration: the pending
// overlay is always rolled back, regardless of how execution ends.
func (vm *VM) Call(code []byte, env Env) Result {
	ctx := NewContext(code, vm.State, env, vm.MaxSteps)
	out, err := ctx.Run()
	vm.State.Rollback()
	return Result{Output: out, Logs: ctx.Logs, Err: err}
}
