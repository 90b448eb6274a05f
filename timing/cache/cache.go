// Package cache provides a decoded-instruction cache built on Akita cache
// components.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/c8sim/insts"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size is the number of code bytes the cache covers.
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes. Each byte offset holds one decoded entry, so odd
	// program counters are cached too.
	BlockSize int
}

// DefaultConfig returns a cache covering 512 bytes of code: 64 sets of
// four 2-byte blocks.
func DefaultConfig() Config {
	return Config{
		Size:          512,
		Associativity: 4,
		BlockSize:     2,
	}
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Stale     uint64 // hits on a block whose word changed since decode
	Evictions uint64
}

type entry struct {
	valid bool
	word  uint16
	inst  *insts.Instruction
}

// DecodeCache remembers the decoded instruction at each address. An entry
// is reused only while the word in memory still matches, so programs that
// rewrite their own code are decoded afresh.
type DecodeCache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	entries   []entry
	decoder   *insts.Decoder
	stats     Statistics
}

// New creates a new decode cache with the given configuration.
func New(config Config) *DecodeCache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	return &DecodeCache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]entry, totalBlocks*config.BlockSize),
		decoder: insts.NewDecoder(),
	}
}

// Config returns the cache configuration.
func (c *DecodeCache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *DecodeCache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *DecodeCache) ResetStats() {
	c.stats = Statistics{}
}

func (c *DecodeCache) slot(block *akitacache.Block, addr uint64) *entry {
	blockIndex := block.SetID*c.config.Associativity + block.WayID
	offset := int(addr % uint64(c.config.BlockSize))
	return &c.entries[blockIndex*c.config.BlockSize+offset]
}

func (c *DecodeCache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

// Decode returns the instruction for word fetched at addr, decoding it
// only when the cache has no matching entry.
func (c *DecodeCache) Decode(addr, word uint16) *insts.Instruction {
	c.stats.Lookups++

	a := uint64(addr)
	blockAddr := c.blockAddr(a)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.directory.Visit(block) // Update LRU

		e := c.slot(block, a)
		if e.valid && e.word == word {
			c.stats.Hits++
			return e.inst
		}
		if e.valid {
			c.stats.Stale++
		}
		c.stats.Misses++
		return c.fill(e, word)
	}

	c.stats.Misses++

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return c.decoder.Decode(word)
	}
	if victim.IsValid {
		c.stats.Evictions++
	}
	c.clearBlock(victim)

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return c.fill(c.slot(victim, a), word)
}

func (c *DecodeCache) fill(e *entry, word uint16) *insts.Instruction {
	inst := c.decoder.Decode(word)
	*e = entry{valid: true, word: word, inst: inst}
	return inst
}

func (c *DecodeCache) clearBlock(block *akitacache.Block) {
	for off := 0; off < c.config.BlockSize; off++ {
		*c.slot(block, uint64(off)) = entry{}
	}
}

// Invalidate drops the block holding addr.
func (c *DecodeCache) Invalidate(addr uint16) {
	block := c.directory.Lookup(0, c.blockAddr(uint64(addr)))
	if block != nil && block.IsValid {
		c.clearBlock(block)
		block.IsValid = false
	}
}

// Flush invalidates every block.
func (c *DecodeCache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				c.clearBlock(block)
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all blocks and clears statistics.
func (c *DecodeCache) Reset() {
	c.directory.Reset()
	for i := range c.entries {
		c.entries[i] = entry{}
	}
	c.stats = Statistics{}
}
