package value

import (
	"cmp"
	"encoding/binary"
	"hash"
	"hash/fnv"
	"strings"
)

// maxDepth bounds recursion into nested books and codices when dumping,
// hashing and copying keys.
const maxDepth = 16

// Hash returns a hash consistent with IsEqual: equal values hash alike.
// Journeys hash by name only, so distinct journeys sharing a name collide.
func Hash(v Value) uint64 {
	h := fnv.New64a()
	writeHash(h, v, 0)
	return h.Sum64()
}

func writeHash(h hash.Hash64, v Value, depth int) {
	var buf [8]byte
	h.Write([]byte{byte(v.Type)})
	if depth > maxDepth {
		return
	}

	switch v.Type {
	case TypeBoolean, TypeNumeral:
		binary.LittleEndian.PutUint64(buf[:], v.Data)
		h.Write(buf[:])
	case TypeText:
		h.Write([]byte(v.Str()))
	case TypeBook:
		for _, p := range v.Book().pages {
			writeHash(h, p, depth+1)
		}
	case TypeCodex:
		// Order independent: bucket iteration order is random.
		var sum uint64
		for _, bucket := range v.Codex().buckets {
			for _, e := range bucket {
				kh := fnv.New64a()
				writeHash(kh, e.Key, depth+1)
				vh := fnv.New64a()
				writeHash(vh, e.Value, depth+1)
				sum += kh.Sum64()*31 ^ vh.Sum64()
			}
		}
		binary.LittleEndian.PutUint64(buf[:], sum)
		h.Write(buf[:])
	case TypeJourney:
		h.Write([]byte(v.Journey().name))
	}
}

// order is a total order over all values, used to list codex entries
// deterministically. Values of different types order by type tag.
func order(a, b Value, depth int) int {
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}
	if depth > maxDepth {
		return 0
	}

	switch a.Type {
	case TypeBoolean:
		return cmp.Compare(a.Data, b.Data)
	case TypeNumeral:
		return cmp.Compare(a.Int(), b.Int())
	case TypeText:
		return strings.Compare(a.Str(), b.Str())
	case TypeBook:
		ap, bp := a.Book().pages, b.Book().pages
		for i := 0; i < len(ap) && i < len(bp); i++ {
			if c := order(ap[i], bp[i], depth+1); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(ap), len(bp))
	case TypeCodex:
		ae, be := a.Codex().entries(), b.Codex().entries()
		for i := 0; i < len(ae) && i < len(be); i++ {
			if c := order(ae[i].Key, be[i].Key, depth+1); c != 0 {
				return c
			}
			if c := order(ae[i].Value, be[i].Value, depth+1); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(ae), len(be))
	case TypeJourney:
		aj, bj := a.Journey(), b.Journey()
		if c := strings.Compare(aj.name, bj.name); c != 0 {
			return c
		}
		return cmp.Compare(aj.id, bj.id)
	}
	return 0
}
