// eip8024.go implements the Glamsterdan-era opcode handlers for CLZ
// (EIP-7939), SLOTNUM (EIP-7843), and the extended-depth DUPN/SWAPN/EXCHANGE
// trio (EIP-8024). None of these touch any fork before Glamsterdan; see
// NewGlamsterdanJumpTable in glamsterdan.go.
package vm

import "math/big"

func opCLZ(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Peek()
	x.SetUint64(uint64(256 - x.BitLen()))
	return nil, nil
}

func opSlotnum(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.Push(new(big.Int).SetUint64(evm.Context.SlotNumber))
	return nil, nil
}

// decodeSingle maps a DUPN/SWAPN immediate byte to a 1-indexed stack depth.
// Bytes 0-90 cover depths 17-107; bytes 91-127 are reserved (rejected by the
// caller); bytes 128-255 continue the same depth run at 108-235.
func decodeSingle(x byte) int {
	if x <= 90 {
		return int(x) + 17
	}
	return int(x) - 20
}

// decodePair maps an EXCHANGE immediate byte to the pair of 1-indexed stack
// depths it exchanges. Valid bytes are 0-79; the byte indexes a triangular
// enumeration of (q, r) offsets within row k, where k is the largest row
// whose triangular base does not exceed x.
func decodePair(x byte) (n, m int) {
	xi := int(x)
	k := 0
	for (k+1)*(k+2)/2 <= xi {
		k++
	}
	base := k * (k + 1) / 2
	q := xi - base
	r := k - q

	n = q + 1
	if q >= r {
		m = 29 - r
	} else {
		m = r + 1
	}
	return n, m
}

func opDupN(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var imm byte
	if *pc+1 < uint64(len(contract.Code)) {
		imm = contract.Code[*pc+1]
	}
	*pc++

	if imm >= 91 && imm <= 127 {
		return nil, ErrInvalidOpCode
	}
	n := decodeSingle(imm)
	if stack.Len() < n {
		return nil, ErrStackUnderflow
	}
	stack.Dup(n)
	return nil, nil
}

func opSwapN(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var imm byte
	if *pc+1 < uint64(len(contract.Code)) {
		imm = contract.Code[*pc+1]
	}
	*pc++

	if imm >= 91 && imm <= 127 {
		return nil, ErrInvalidOpCode
	}
	n := decodeSingle(imm)
	if stack.Len() < n+1 {
		return nil, ErrStackUnderflow
	}
	stack.Swap(n)
	return nil, nil
}

func opExchange(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var imm byte
	if *pc+1 < uint64(len(contract.Code)) {
		imm = contract.Code[*pc+1]
	}
	*pc++

	if imm >= 80 {
		return nil, ErrInvalidOpCode
	}
	n, m := decodePair(imm)
	depth := n
	if m > depth {
		depth = m
	}
	if stack.Len() < depth+1 {
		return nil, ErrStackUnderflow
	}

	top := stack.Len() - 1
	stack.Data()[top-n], stack.Data()[top-m] = stack.Data()[top-m], stack.Data()[top-n]
	return nil, nil
}
