package value

import (
	"github.com/emirpasic/gods/utils"
)

// Entry is one key/value pair of a Codex.
type Entry struct {
	Key   Value
	Value Value
}

// Codex is the map variant, keyed by arbitrary values. Keys are grouped
// into buckets by Hash and told apart with IsEqual.
type Codex struct {
	buckets map[uint64][]Entry
	n       int
}

func NewCodex() *Codex {
	return &Codex{buckets: make(map[uint64][]Entry)}
}

// CodexOf builds a codex from entries; later entries win on collision.
func CodexOf(entries ...Entry) *Codex {
	c := NewCodex()
	for _, e := range entries {
		c.Insert(e.Key, e.Value)
	}
	return c
}

func (c *Codex) Len() int { return c.n }

func (c *Codex) find(key Value) (uint64, int) {
	h := Hash(key)
	for i, e := range c.buckets[h] {
		if e.Key.IsEqual(key) {
			return h, i
		}
	}
	return h, -1
}

func (c *Codex) Get(key Value) (Value, bool) {
	h, i := c.find(key)
	if i < 0 {
		return Ni, false
	}
	return c.buckets[h][i].Value, true
}

func (c *Codex) ContainsKey(key Value) bool {
	_, i := c.find(key)
	return i >= 0
}

// Insert stores val under key and returns the value it replaced, if any.
// Book and codex keys are copied so later mutation of the caller's
// container cannot move an entry to the wrong bucket.
func (c *Codex) Insert(key, val Value) (Value, bool) {
	h, i := c.find(key)
	if i >= 0 {
		old := c.buckets[h][i].Value
		c.buckets[h][i].Value = val
		return old, true
	}
	c.buckets[h] = append(c.buckets[h], Entry{Key: freeze(key, 0), Value: val})
	c.n++
	return Ni, false
}

func (c *Codex) Remove(key Value) (Value, bool) {
	h, i := c.find(key)
	if i < 0 {
		return Ni, false
	}
	bucket := c.buckets[h]
	old := bucket[i].Value
	bucket = append(bucket[:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(c.buckets, h)
	} else {
		c.buckets[h] = bucket
	}
	c.n--
	return old, true
}

// Clone copies the entry table; keys and values are shared.
func (c *Codex) Clone() *Codex {
	out := &Codex{buckets: make(map[uint64][]Entry, len(c.buckets)), n: c.n}
	for h, bucket := range c.buckets {
		out.buckets[h] = append([]Entry(nil), bucket...)
	}
	return out
}

// Entries returns every entry ordered by key. Container keys are
// copies; changing one does not affect c.
func (c *Codex) Entries() []Entry {
	entries := c.entries()
	for i, e := range entries {
		entries[i].Key = freeze(e.Key, 0)
	}
	return entries
}

// entries is Entries without copying keys.
func (c *Codex) entries() []Entry {
	raw := make([]interface{}, 0, c.n)
	for _, bucket := range c.buckets {
		for _, e := range bucket {
			raw = append(raw, e)
		}
	}
	utils.Sort(raw, func(a, b interface{}) int {
		return order(a.(Entry).Key, b.(Entry).Key, 0)
	})

	entries := make([]Entry, len(raw))
	for i, e := range raw {
		entries[i] = e.(Entry)
	}
	return entries
}

// Union returns a new codex holding c's entries overridden by pairs.
func (c *Codex) Union(pairs []Entry) *Codex {
	out := c.Clone()
	for _, p := range pairs {
		out.Insert(p.Key, p.Value)
	}
	return out
}

// Difference returns a new codex without any of keys.
func (c *Codex) Difference(keys []Value) *Codex {
	out := c.Clone()
	for _, k := range keys {
		out.Remove(k)
	}
	return out
}

func freeze(v Value, depth int) Value {
	if depth > maxDepth {
		return v
	}
	switch v.Type {
	case TypeBook:
		b := v.Book().Clone()
		for i, p := range b.pages {
			b.pages[i] = freeze(p, depth+1)
		}
		return FromBook(b)
	case TypeCodex:
		src := v.Codex()
		c := &Codex{buckets: make(map[uint64][]Entry, len(src.buckets)), n: src.n}
		for h, bucket := range src.buckets {
			cp := make([]Entry, len(bucket))
			for i, e := range bucket {
				cp[i] = Entry{Key: e.Key, Value: freeze(e.Value, depth+1)}
			}
			c.buckets[h] = cp
		}
		return FromCodex(c)
	}
	return v
}
