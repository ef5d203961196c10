package highlight

import (
	"encoding/binary"
	"hash/fnv"
)

// ShadowTracker counts shadow generations of local binding names during one
// traversal. The table approximates lexical scoping at function
// granularity: it is cleared whenever the walk enters a function
// definition.
type ShadowTracker struct {
	counts map[string]uint32
}

func NewShadowTracker() *ShadowTracker {
	return &ShadowTracker{counts: make(map[string]uint32)}
}

// Advance increments and returns the generation for name. The first
// definition of a name gets generation 1.
func (t *ShadowTracker) Advance(name string) uint32 {
	t.counts[name]++
	return t.counts[name]
}

// Current returns the generation most recently assigned to name. The
// second result is false when the name has never been defined; the
// returned zero generation still yields a stable hash for such references.
func (t *ShadowTracker) Current(name string) (uint32, bool) {
	gen, ok := t.counts[name]
	return gen, ok
}

// Clear empties the table. Invoked on function-definition entry.
func (t *ShadowTracker) Clear() {
	clear(t.counts)
}

// BindingHash combines a binding name and its shadow generation into a
// per-pass identity. Occurrences sharing (name, generation) hash equal;
// distinct generations of one name hash apart. The hash has no meaning
// outside one highlighting pass. The result is never zero, so zero can
// mark "no binding" in HighlightedRange.
func BindingHash(name string, generation uint32) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	var gen [4]byte
	binary.LittleEndian.PutUint32(gen[:], generation)
	h.Write(gen[:])
	sum := h.Sum64()
	if sum == 0 {
		return 1
	}
	return sum
}
