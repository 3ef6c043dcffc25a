// Package bal implements EIP-7928 Block Access Lists: a per-block record of
// which accounts and storage slots were touched by which transaction, and how
// their balances, nonces, code, and storage changed.
package bal

import (
	"math/big"

	"github.com/ethcoreengine/ethcoreengine/core/types"
)

// StorageAccess records a storage slot read.
type StorageAccess struct {
	Slot  types.Hash
	Value types.Hash
}

// StorageChange records a storage slot write.
type StorageChange struct {
	Slot     types.Hash
	OldValue types.Hash
	NewValue types.Hash
}

// BalanceChange records a balance modification.
type BalanceChange struct {
	OldValue *big.Int
	NewValue *big.Int
}

// NonceChange records a nonce modification.
type NonceChange struct {
	OldValue uint64
	NewValue uint64
}

// CodeChange records a code modification (contract creation or SELFDESTRUCT).
type CodeChange struct {
	OldCode []byte
	NewCode []byte
}

// AccessEntry records everything a single transaction did to one account.
type AccessEntry struct {
	Address        types.Address
	AccessIndex    uint64 // 1-based transaction index within the block
	StorageReads   []StorageAccess
	StorageChanges []StorageChange
	BalanceChange  *BalanceChange
	NonceChange    *NonceChange
	CodeChange     *CodeChange
}

// BlockAccessList is the ordered set of access entries for an entire block.
type BlockAccessList struct {
	Entries []AccessEntry
}

// NewBlockAccessList creates an empty BlockAccessList.
func NewBlockAccessList() *BlockAccessList {
	return &BlockAccessList{}
}

// AddEntry appends an access entry to the list.
func (b *BlockAccessList) AddEntry(e AccessEntry) {
	b.Entries = append(b.Entries, e)
}

// Len returns the number of entries recorded.
func (b *BlockAccessList) Len() int {
	return len(b.Entries)
}
