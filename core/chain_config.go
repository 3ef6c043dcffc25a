package core

import "math/big"

// ChainConfig holds chain-level configuration for fork scheduling. Early
// forks activate at a block number; post-merge forks activate at a block
// timestamp.
type ChainConfig struct {
	ChainID *big.Int

	HomesteadBlock      *big.Int
	EIP150Block         *big.Int
	EIP155Block         *big.Int
	EIP158Block         *big.Int
	ByzantiumBlock      *big.Int
	ConstantinopleBlock *big.Int
	PetersburgBlock     *big.Int
	IstanbulBlock       *big.Int
	MuirGlacierBlock    *big.Int
	BerlinBlock         *big.Int
	LondonBlock         *big.Int

	// TerminalTotalDifficulty being non-nil marks the chain as having
	// transitioned to proof-of-stake (The Merge).
	TerminalTotalDifficulty *big.Int

	ShanghaiTime    *uint64
	CancunTime      *uint64
	PragueTime      *uint64
	AmsterdamTime   *uint64
	GlamsterdanTime *uint64
	HogotaTime      *uint64
	BPO1Time        *uint64
	BPO2Time        *uint64
}

func isBlockForked(forkBlock, num *big.Int) bool {
	if forkBlock == nil || num == nil {
		return false
	}
	return forkBlock.Cmp(num) <= 0
}

func isTimestampForked(forkTime *uint64, blockTime uint64) bool {
	if forkTime == nil {
		return false
	}
	return *forkTime <= blockTime
}

func (c *ChainConfig) IsHomestead(num *big.Int) bool { return isBlockForked(c.HomesteadBlock, num) }
func (c *ChainConfig) IsEIP150(num *big.Int) bool    { return isBlockForked(c.EIP150Block, num) }
func (c *ChainConfig) IsEIP155(num *big.Int) bool    { return isBlockForked(c.EIP155Block, num) }
func (c *ChainConfig) IsEIP158(num *big.Int) bool    { return isBlockForked(c.EIP158Block, num) }
func (c *ChainConfig) IsByzantium(num *big.Int) bool { return isBlockForked(c.ByzantiumBlock, num) }
func (c *ChainConfig) IsConstantinople(num *big.Int) bool {
	return isBlockForked(c.ConstantinopleBlock, num)
}

// IsPetersburg reports whether Petersburg is active. A nil PetersburgBlock
// falls back to ConstantinopleBlock, since Petersburg only patched
// Constantinople's EIP-1283 reintroduction and chains that never
// distinguished the two can express that with a single block.
func (c *ChainConfig) IsPetersburg(num *big.Int) bool {
	if c.PetersburgBlock != nil {
		return isBlockForked(c.PetersburgBlock, num)
	}
	return isBlockForked(c.ConstantinopleBlock, num)
}

func (c *ChainConfig) IsIstanbul(num *big.Int) bool    { return isBlockForked(c.IstanbulBlock, num) }
func (c *ChainConfig) IsMuirGlacier(num *big.Int) bool { return isBlockForked(c.MuirGlacierBlock, num) }
func (c *ChainConfig) IsBerlin(num *big.Int) bool      { return isBlockForked(c.BerlinBlock, num) }
func (c *ChainConfig) IsLondon(num *big.Int) bool      { return isBlockForked(c.LondonBlock, num) }

// IsMerge reports whether the chain has a terminal total difficulty set,
// i.e. has transitioned (or will transition) to proof-of-stake.
func (c *ChainConfig) IsMerge() bool { return c.TerminalTotalDifficulty != nil }

func (c *ChainConfig) IsShanghai(time uint64) bool    { return isTimestampForked(c.ShanghaiTime, time) }
func (c *ChainConfig) IsCancun(time uint64) bool      { return isTimestampForked(c.CancunTime, time) }
func (c *ChainConfig) IsPrague(time uint64) bool      { return isTimestampForked(c.PragueTime, time) }
func (c *ChainConfig) IsAmsterdam(time uint64) bool   { return isTimestampForked(c.AmsterdamTime, time) }
func (c *ChainConfig) IsGlamsterdan(time uint64) bool { return isTimestampForked(c.GlamsterdanTime, time) }
func (c *ChainConfig) IsHogota(time uint64) bool      { return isTimestampForked(c.HogotaTime, time) }
func (c *ChainConfig) IsBPO1(time uint64) bool        { return isTimestampForked(c.BPO1Time, time) }
func (c *ChainConfig) IsBPO2(time uint64) bool        { return isTimestampForked(c.BPO2Time, time) }

// EIP-named aliases kept alongside the fork-named checks above: callers that
// key off the EIP rather than the fork name (e.g. gas-schedule lookups) can
// use these directly instead of re-deriving the mapping.
func (c *ChainConfig) IsEIP1559(num *big.Int) bool { return c.IsLondon(num) }
func (c *ChainConfig) IsEIP2929(num *big.Int) bool { return c.IsBerlin(num) }
func (c *ChainConfig) IsEIP3529(num *big.Int) bool { return c.IsLondon(num) }
func (c *ChainConfig) IsEIP4844(time uint64) bool  { return c.IsCancun(time) }
func (c *ChainConfig) IsEIP7702(time uint64) bool  { return c.IsPrague(time) }

// Rules is an immutable snapshot of which consensus rules are active at a
// particular (block number, merge status, timestamp) point. Unlike the
// ChainConfig IsXxx methods, later timestamp forks can never be active
// without their prerequisites: the merge requires London, and every
// post-merge timestamp fork requires the merge.
type Rules struct {
	ChainID *big.Int

	IsHomestead      bool
	IsEIP150         bool
	IsEIP155         bool
	IsEIP158         bool
	IsByzantium      bool
	IsConstantinople bool
	IsPetersburg     bool
	IsIstanbul       bool
	IsMuirGlacier    bool
	IsBerlin         bool
	IsEIP2929        bool
	IsLondon         bool
	IsEIP1559        bool
	IsEIP3529        bool
	IsVerkle         bool

	IsMerge bool

	IsShanghai  bool
	IsCancun    bool
	IsEIP4844   bool
	IsPrague    bool
	IsEIP7702   bool
	IsAmsterdam bool

	IsGlamsterdan bool
	IsEIP7904     bool // EIP-7904: gas-cost repricing
	IsEIP7706     bool // EIP-7706: multidimensional gas
	IsEIP7778     bool // EIP-7778: removes SSTORE gas refunds
	IsEIP2780     bool // EIP-2780: reduced base transaction cost

	IsHogota  bool
	IsEIP7999 bool

	// EIP-7708/EIP-7954 track proposals exercised elsewhere in the VM's
	// fork-rules plumbing; they ride on the Glamsterdan/Hogota activation
	// points until they are assigned forks of their own.
	IsEIP7708 bool
	IsEIP7954 bool
}

// Rules derives the consensus rules active at the given block number and
// timestamp. isMerge is supplied by the caller (typically from a header's
// difficulty or IsMerge()) rather than always read off TerminalTotalDifficulty,
// so that callers validating blocks around the transition can force either
// side of it. The merge can only be active once London is; every fork from
// Shanghai onward can only be active once the merge is.
func (c *ChainConfig) Rules(num *big.Int, isMerge bool, time uint64) Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}

	merge := isMerge && c.IsLondon(num)

	r := Rules{
		ChainID: chainID,

		IsHomestead:      c.IsHomestead(num),
		IsEIP150:         c.IsEIP150(num),
		IsEIP155:         c.IsEIP155(num),
		IsEIP158:         c.IsEIP158(num),
		IsByzantium:      c.IsByzantium(num),
		IsConstantinople: c.IsConstantinople(num),
		IsPetersburg:     c.IsPetersburg(num),
		IsIstanbul:       c.IsIstanbul(num),
		IsMuirGlacier:    c.IsMuirGlacier(num),
		IsBerlin:         c.IsBerlin(num),
		IsEIP2929:        c.IsBerlin(num),
		IsLondon:         c.IsLondon(num),
		IsEIP1559:        c.IsLondon(num),
		IsEIP3529:        c.IsLondon(num),

		IsMerge: merge,
	}

	if merge {
		r.IsShanghai = c.IsShanghai(time)
		r.IsCancun = c.IsCancun(time)
		r.IsEIP4844 = r.IsCancun
		r.IsPrague = c.IsPrague(time)
		r.IsEIP7702 = r.IsPrague
		r.IsAmsterdam = c.IsAmsterdam(time)
		r.IsGlamsterdan = c.IsGlamsterdan(time)
		r.IsEIP7904 = r.IsGlamsterdan
		r.IsEIP7706 = r.IsGlamsterdan
		r.IsEIP7778 = r.IsGlamsterdan
		r.IsEIP2780 = r.IsGlamsterdan
		r.IsEIP7708 = r.IsGlamsterdan
		r.IsHogota = c.IsHogota(time)
		r.IsEIP7999 = r.IsHogota
		r.IsEIP7954 = r.IsHogota
	}

	return r
}

func newUint64(v uint64) *uint64 { return &v }

// MainnetTerminalTotalDifficulty is the TTD mainnet transitioned to
// proof-of-stake at.
var MainnetTerminalTotalDifficulty = new(big.Int).SetUint64(58750000000000000000000)

// MainnetConfig is the chain config for Ethereum mainnet.
var MainnetConfig = &ChainConfig{
	ChainID:                 big.NewInt(1),
	HomesteadBlock:          big.NewInt(1_150_000),
	EIP150Block:             big.NewInt(2_463_000),
	EIP155Block:             big.NewInt(2_675_000),
	EIP158Block:             big.NewInt(2_675_000),
	ByzantiumBlock:          big.NewInt(4_370_000),
	ConstantinopleBlock:     big.NewInt(7_280_000),
	PetersburgBlock:         big.NewInt(7_280_000),
	IstanbulBlock:           big.NewInt(9_069_000),
	MuirGlacierBlock:        big.NewInt(9_200_000),
	BerlinBlock:             big.NewInt(12_244_000),
	LondonBlock:             big.NewInt(12_965_000),
	TerminalTotalDifficulty: new(big.Int).Set(MainnetTerminalTotalDifficulty),
	ShanghaiTime:            newUint64(1681338455),
	CancunTime:              newUint64(1710338135),
	PragueTime:              nil, // not yet scheduled
	AmsterdamTime:           nil, // not yet scheduled
}

// SepoliaConfig is the Sepolia testnet configuration: all legacy block forks
// activated at genesis, with the same post-merge timestamp schedule shape
// as mainnet.
var SepoliaConfig = &ChainConfig{
	ChainID:                 big.NewInt(11155111),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(17_000_000_000_000_000),
	ShanghaiTime:            newUint64(1677557088),
	CancunTime:              newUint64(1706655072),
}

// HoleskyConfig is the Holesky testnet configuration.
var HoleskyConfig = &ChainConfig{
	ChainID:                 big.NewInt(17000),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(1696000704),
	CancunTime:              newUint64(1707305664),
}

// TestConfig activates every block-number fork plus Shanghai through
// Amsterdam at genesis, but leaves Glamsterdan/Hogota/BPO1/BPO2 unscheduled.
// Tests that need the later forks active should use TestConfigGlamsterdan,
// TestConfigHogota, or TestConfigBPO2 instead.
var TestConfig = &ChainConfig{
	ChainID:                 big.NewInt(1337),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              newUint64(0),
	PragueTime:              newUint64(0),
	AmsterdamTime:           newUint64(0),
}

// TestConfigGlamsterdan additionally activates Glamsterdan at genesis.
var TestConfigGlamsterdan = &ChainConfig{
	ChainID:                 big.NewInt(1337),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              newUint64(0),
	PragueTime:              newUint64(0),
	AmsterdamTime:           newUint64(0),
	GlamsterdanTime:         newUint64(0),
}

// TestConfigHogota additionally activates Hogota at genesis.
var TestConfigHogota = &ChainConfig{
	ChainID:                 big.NewInt(1337),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              newUint64(0),
	PragueTime:              newUint64(0),
	AmsterdamTime:           newUint64(0),
	GlamsterdanTime:         newUint64(0),
	HogotaTime:              newUint64(0),
}

// TestConfigBPO2 additionally activates BPO1 and BPO2 at genesis.
var TestConfigBPO2 = &ChainConfig{
	ChainID:                 big.NewInt(1337),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              newUint64(0),
	PragueTime:              newUint64(0),
	AmsterdamTime:           newUint64(0),
	GlamsterdanTime:         newUint64(0),
	HogotaTime:              newUint64(0),
	BPO1Time:                newUint64(0),
	BPO2Time:                newUint64(0),
}
