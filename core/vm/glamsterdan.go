package vm

import (
	"encoding/binary"

	"github.com/ethcoreengine/ethcoreengine/core/types"
)

// Glamsterdan is a speculative future fork: EIP-7904 reprices a handful of
// arithmetic/hashing opcodes and precompiles, while EIP-7939 (CLZ), EIP-7843
// (SLOTNUM), and EIP-8024 (DUPN/SWAPN/EXCHANGE) add new opcodes. Everything
// else is inherited unchanged from Prague.

// --- Repriced precompiles ---

type bn256AddGlamsterdan struct{ bn256Add }

func (c *bn256AddGlamsterdan) RequiredGas(input []byte) uint64 {
	return GasECADDGlamsterdan
}

type bn256PairingGlamsterdan struct{ bn256Pairing }

func (c *bn256PairingGlamsterdan) RequiredGas(input []byte) uint64 {
	k := uint64(len(input)) / 192
	return GasECPairingConstGlamsterdan + k*GasECPairingPerPairGlamsterdan
}

type blake2FGlamsterdan struct{ blake2F }

func (c *blake2FGlamsterdan) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return 0
	}
	rounds := uint64(binary.BigEndian.Uint32(input[:4]))
	return GasBlake2fConstGlamsterdan + rounds*GasBlake2fPerRoundGlamsterdan
}

type kzgPointEvaluationGlamsterdan struct{ kzgPointEvaluation }

func (c *kzgPointEvaluationGlamsterdan) RequiredGas(input []byte) uint64 {
	return GasPointEvalGlamsterdan
}

// PrecompiledContractsGlamsterdan is the Cancun precompile set with the
// EIP-7904 gas repricing applied; the underlying Run implementations are
// unchanged.
var PrecompiledContractsGlamsterdan = map[types.Address]PrecompiledContract{
	types.BytesToAddress([]byte{1}):    &ecrecover{},
	types.BytesToAddress([]byte{2}):    &sha256hash{},
	types.BytesToAddress([]byte{3}):    &ripemd160hash{},
	types.BytesToAddress([]byte{4}):    &dataCopy{},
	types.BytesToAddress([]byte{5}):    &bigModExp{},
	types.BytesToAddress([]byte{6}):    &bn256AddGlamsterdan{},
	types.BytesToAddress([]byte{7}):    &bn256ScalarMul{},
	types.BytesToAddress([]byte{8}):    &bn256PairingGlamsterdan{},
	types.BytesToAddress([]byte{9}):    &blake2FGlamsterdan{},
	types.BytesToAddress([]byte{0x0a}): &kzgPointEvaluationGlamsterdan{},
}

// NewGlamsterdanJumpTable returns the Glamsterdan fork jump table: Prague's
// table with EIP-7904 gas repricing applied to DIV, SDIV, MOD, MULMOD, and
// KECCAK256. No opcodes are added or removed.
func NewGlamsterdanJumpTable() JumpTable {
	tbl := NewPragueJumpTable()

	reprice := func(op OpCode, gas uint64) {
		cloned := *tbl[op]
		cloned.constantGas = gas
		tbl[op] = &cloned
	}

	reprice(DIV, GasDivGlamsterdan)
	reprice(SDIV, GasSdivGlamsterdan)
	reprice(MOD, GasModGlamsterdan)
	reprice(MULMOD, GasMulmodGlamsterdan)
	reprice(KECCAK256, GasKeccak256Glamsterdan)

	tbl[CLZ] = &operation{execute: opCLZ, constantGas: GasFastStep, minStack: 1, maxStack: 1024}
	tbl[SLOTNUM] = &operation{execute: opSlotnum, constantGas: GasBase, minStack: 0, maxStack: 1023}
	tbl[DUPN] = &operation{execute: opDupN, constantGas: GasVerylow, minStack: 1, maxStack: 1023}
	tbl[SWAPN] = &operation{execute: opSwapN, constantGas: GasVerylow, minStack: 2, maxStack: 1024}
	tbl[EXCHANGE] = &operation{execute: opExchange, constantGas: GasVerylow, minStack: 3, maxStack: 1024}

	return tbl
}
