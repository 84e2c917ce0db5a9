package vm

// operation is a single opcode's execution metadata: its handler plus
// the stack bounds the dispatch loop checks before calling it. There is
// no gas model here, unlike the fork-by-fork jump tables this package
// is descended from; every opcode the interpreter recognises is always
// available, at a single fixed cost of one step.
type operation struct {
	execute  executionFunc
	minStack int  // stack items the handler requires to run
	maxStack int  // stack depth must stay at or below this after a push
	halts    bool // opcode ends execution (STOP, RETURN, REVERT)
	jumps    bool // opcode sets pc itself (JUMP, JUMPI)
}

// JumpTable maps every opcode byte to its operation, nil where the byte
// is not part of the recognised set.
type JumpTable [256]*operation

// minSwapStack/minDupStack mirror stack depth needed for the nth family
// member: SWAPn needs n+1 items, DUPn needs n items.
func minSwapStack(n int) int { return n + 1 }
func minDupStack(n int) int  { return n }

// maxStackFor returns stackLimit minus the net items an operation pushes,
// so the dispatch loop can reject an operation that would overflow the
// stack before ever calling its handler.
func maxStackFor(netPush int) int {
	return stackLimit - netPush
}

// newJumpTable builds the fixed opcode dispatch table for this
// interpreter. Unlike the teacher's NewFrontierJumpTable through
// NewPragueJumpTable progression, there is exactly one table: the spec
// defines a single opcode set with no fork history.
func newJumpTable() *JumpTable {
	tbl := &JumpTable{}

	tbl[STOP] = &operation{execute: opStop, minStack: 0, maxStack: maxStackFor(0), halts: true}

	tbl[ADD] = &operation{execute: opAdd, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[MUL] = &operation{execute: opMul, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[SUB] = &operation{execute: opSub, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[DIV] = &operation{execute: opDiv, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[MOD] = &operation{execute: opMod, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[ADDMOD] = &operation{execute: opAddMod, minStack: 3, maxStack: maxStackFor(-2)}
	tbl[MULMOD] = &operation{execute: opMulMod, minStack: 3, maxStack: maxStackFor(-2)}
	tbl[EXP] = &operation{execute: opExp, minStack: 2, maxStack: maxStackFor(-1)}

	tbl[LT] = &operation{execute: opLt, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[GT] = &operation{execute: opGt, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[SLT] = &operation{execute: opSlt, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[EQ] = &operation{execute: opEq, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[ISZERO] = &operation{execute: opIsZero, minStack: 1, maxStack: maxStackFor(0)}
	tbl[AND] = &operation{execute: opAnd, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[OR] = &operation{execute: opOr, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[XOR] = &operation{execute: opXor, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[NOT] = &operation{execute: opNot, minStack: 1, maxStack: maxStackFor(0)}
	tbl[SHL] = &operation{execute: opShl, minStack: 2, maxStack: maxStackFor(-1)}
	tbl[SHR] = &operation{execute: opShr, minStack: 2, maxStack: maxStackFor(-1)}

	tbl[KECCAK256] = &operation{execute: opKeccak256, minStack: 2, maxStack: maxStackFor(-1)}

	tbl[CALLER] = &operation{execute: opCaller, minStack: 0, maxStack: maxStackFor(1)}
	tbl[CALLVALUE] = &operation{execute: opCallValue, minStack: 0, maxStack: maxStackFor(1)}
	tbl[CALLDATALOAD] = &operation{execute: opCallDataLoad, minStack: 1, maxStack: maxStackFor(0)}
	tbl[CALLDATASIZE] = &operation{execute: opCallDataSize, minStack: 0, maxStack: maxStackFor(1)}

	tbl[TIMESTAMP] = &operation{execute: opTimestamp, minStack: 0, maxStack: maxStackFor(1)}
	tbl[NUMBER] = &operation{execute: opNumber, minStack: 0, maxStack: maxStackFor(1)}
	tbl[CHAINID] = &operation{execute: opChainID, minStack: 0, maxStack: maxStackFor(1)}

	tbl[POP] = &operation{execute: opPop, minStack: 1, maxStack: maxStackFor(-1)}
	tbl[MLOAD] = &operation{execute: opMload, minStack: 1, maxStack: maxStackFor(0)}
	tbl[MSTORE] = &operation{execute: opMstore, minStack: 2, maxStack: maxStackFor(-2)}
	tbl[SLOAD] = &operation{execute: opSload, minStack: 1, maxStack: maxStackFor(0)}
	tbl[SSTORE] = &operation{execute: opSstore, minStack: 2, maxStack: maxStackFor(-2)}
	tbl[JUMP] = &operation{execute: opJump, minStack: 1, maxStack: maxStackFor(-1), jumps: true}
	tbl[JUMPI] = &operation{execute: opJumpi, minStack: 2, maxStack: maxStackFor(-2), jumps: true}
	tbl[JUMPDEST] = &operation{execute: opJumpdest, minStack: 0, maxStack: maxStackFor(0)}

	for i := 0; i < 32; i++ {
		tbl[PUSH1+OpCode(i)] = &operation{execute: makePush(i + 1), minStack: 0, maxStack: maxStackFor(1)}
	}
	for i := 1; i <= 16; i++ {
		tbl[DUP1+OpCode(i-1)] = &operation{execute: makeDup(i), minStack: minDupStack(i), maxStack: maxStackFor(1)}
		tbl[SWAP1+OpCode(i-1)] = &operation{execute: makeSwap(i), minStack: minSwapStack(i), maxStack: maxStackFor(0)}
	}

	for i := 0; i <= 4; i++ {
		tbl[LOG0+OpCode(i)] = &operation{execute: makeLog(i), minStack: 2 + i, maxStack: maxStackFor(-(2 + i))}
	}

	tbl[RETURN] = &operation{execute: opReturn, minStack: 2, maxStack: maxStackFor(-2), halts: true}
	tbl[REVERT] = &operation{execute: opRevert, minStack: 2, maxStack: maxStackFor(-2), halts: true}

	return tbl
}
