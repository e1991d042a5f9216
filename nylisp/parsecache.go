package nylisp

import (
	"encoding/binary"

	"github.com/glycerine/blake2b"
)

// parseCache remembers the parsed form of recently run inputs, keyed
// by a BLAKE2b hash of the text. Eviction is first in, first out.
// Entries are cloned on the way out so evaluation can never mutate a
// cached tree.
type parseCache struct {
	max     int
	entries map[uint64]*parseEntry
	order   []uint64

	Hits   int
	Misses int
}

type parseEntry struct {
	text string
	xs   []Sexp
}

// ParseCacheStats reports cache hits and misses since the interpreter
// was made.
type ParseCacheStats struct {
	Size   int
	Hits   int
	Misses int
}

// a max of 0 disables the cache.
func newParseCache(max int) *parseCache {
	return &parseCache{
		max:     max,
		entries: make(map[uint64]*parseEntry),
	}
}

func (c *parseCache) get(text string) ([]Sexp, bool) {
	if c.max == 0 {
		return nil, false
	}
	e, ok := c.entries[Blake2bUint64([]byte(text))]
	// a hash collision must not hand back someone else's program.
	if !ok || e.text != text {
		c.Misses++
		return nil, false
	}
	c.Hits++
	return cloneAll(e.xs), true
}

func (c *parseCache) put(text string, xs []Sexp) {
	if c.max == 0 {
		return
	}
	key := Blake2bUint64([]byte(text))
	if _, already := c.entries[key]; !already {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &parseEntry{text: text, xs: cloneAll(xs)}
}

func (c *parseCache) stats() ParseCacheStats {
	return ParseCacheStats{Size: len(c.order), Hits: c.Hits, Misses: c.Misses}
}

func cloneAll(xs []Sexp) []Sexp {
	out := make([]Sexp, len(xs))
	for i, x := range xs {
		out[i] = Clone(x)
	}
	return out
}

func (env *Nylisp) ParseCacheStats() ParseCacheStats {
	return env.cache.stats()
}

// Blake2bUint64 returns the first 8 bytes of the BLAKE2b digest of raw,
// little-endian.
//
// reference: https://tools.ietf.org/html/rfc7693
func Blake2bUint64(raw []byte) uint64 {
	h, err := blake2b.New(&blake2b.Config{Size: 8})
	panicOn(err)
	h.Write(raw)
	return binary.LittleEndian.Uint64(h.Sum(nil)[:8])
}
