package value

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// HashMap is a Value -> Value mapping. It is backed by github.com/dolthub/swiss:
// open-addressing beats a plain Go map on the interpreter's hot lookup paths.
//
// Float keys are rejected at insert time.
type HashMap struct {
	m *swiss.Map[Value, Value]
}

func (*HashMap) Type() string { return "hash-map" }
func (*HashMap) sealed()      {}

// NewHashMap returns a hash map with initial capacity for at least size
// entries.
func NewHashMap(size int) *HashMap {
	if size < 0 {
		size = 0
	}
	return &HashMap{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (h *HashMap) String() string {
	s := fmt.Sprintf("hash-map(%d)", h.m.Count())
	return s
}

func (h *HashMap) Len() int { return h.m.Count() }

// Get returns the value for k and whether it was found.
func (h *HashMap) Get(k Value) (Value, bool) {
	return h.m.Get(k)
}

// Set inserts or overwrites k -> v. Returns an error if k is a float, per
// the invariant that forbids float keys.
func (h *HashMap) Set(k, v Value) error {
	if IsFloat(k) {
		return fmt.Errorf("hash-map keys may not be float values")
	}
	h.m.Put(k, v)
	return nil
}

// Delete removes k, reporting whether it was present.
func (h *HashMap) Delete(k Value) bool {
	return h.m.Delete(k)
}

// Each calls fn for every entry, stopping early if fn returns false.
func (h *HashMap) Each(fn func(k, v Value) bool) {
	h.m.Iter(func(k, v Value) (stop bool) {
		return !fn(k, v)
	})
}

func (h *HashMap) equal(other *HashMap) bool {
	if h.Len() != other.Len() {
		return false
	}
	equal := true
	h.Each(func(k, v Value) bool {
		ov, ok := other.Get(k)
		if !ok || !Equal(v, ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func (h *HashMap) deepClone() *HashMap {
	out := NewHashMap(h.Len())
	h.Each(func(k, v Value) bool {
		// k is never a float (enforced at insert time on the original), so
		// cloning it is safe to re-insert without re-validating.
		out.m.Put(DeepClone(k), DeepClone(v))
		return true
	})
	return out
}
