package value

import (
	"fmt"
	"strings"
)

// Vector is an ordered, resizable sequence of Values. It is always
// handled by reference: two Values pointing at the same *Vector alias each
// other's mutations.
type Vector struct {
	items []Value
}

func (*Vector) Type() string { return "vector" }
func (*Vector) sealed()      {}

// NewVector returns an empty vector with the given initial capacity hint.
func NewVector(capHint int) *Vector {
	return &Vector{items: make([]Value, 0, capHint)}
}

// NewVectorFrom returns a vector that takes ownership of items (no copy).
func NewVectorFrom(items []Value) *Vector {
	return &Vector{items: items}
}

func (v *Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range v.items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (v *Vector) Len() int { return len(v.items) }

func (v *Vector) At(i int) (Value, error) {
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("vector index %d out of bounds (len %d)", i, len(v.items))
	}
	return v.items[i], nil
}

func (v *Vector) Set(i int, val Value) error {
	if i < 0 || i >= len(v.items) {
		return fmt.Errorf("vector index %d out of bounds (len %d)", i, len(v.items))
	}
	v.items[i] = val
	return nil
}

// Resize grows or shrinks the vector to newSize, padding with NoneValue
// when growing.
func (v *Vector) Resize(newSize int) {
	switch {
	case newSize <= len(v.items):
		v.items = v.items[:newSize]
	default:
		for len(v.items) < newSize {
			v.items = append(v.items, NoneValue{})
		}
	}
}

func (v *Vector) PushBack(val Value)  { v.items = append(v.items, val) }
func (v *Vector) PushFront(val Value) { v.items = append([]Value{val}, v.items...) }

func (v *Vector) PopBack() (Value, error) {
	if len(v.items) == 0 {
		return nil, fmt.Errorf("pop from empty vector")
	}
	val := v.items[len(v.items)-1]
	v.items = v.items[:len(v.items)-1]
	return val, nil
}

func (v *Vector) PopFront() (Value, error) {
	if len(v.items) == 0 {
		return nil, fmt.Errorf("pop from empty vector")
	}
	val := v.items[0]
	v.items = v.items[1:]
	return val, nil
}

// Insert inserts val at absolute index i, shifting later elements right.
// i == Len() appends.
func (v *Vector) Insert(i int, val Value) error {
	if i < 0 || i > len(v.items) {
		return fmt.Errorf("vector index %d out of bounds (len %d)", i, len(v.items))
	}
	v.items = append(v.items, nil)
	copy(v.items[i+1:], v.items[i:])
	v.items[i] = val
	return nil
}

// Remove deletes and returns the item at absolute index i.
func (v *Vector) Remove(i int) (Value, error) {
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("vector index %d out of bounds (len %d)", i, len(v.items))
	}
	val := v.items[i]
	v.items = append(v.items[:i], v.items[i+1:]...)
	return val, nil
}

func (v *Vector) equal(other *Vector) bool {
	if len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if !Equal(v.items[i], other.items[i]) {
			return false
		}
	}
	return true
}

func (v *Vector) compare(other *Vector) (int, error) {
	n := len(v.items)
	if len(other.items) < n {
		n = len(other.items)
	}
	for i := 0; i < n; i++ {
		c, err := Compare(v.items[i], other.items[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(v.items) < len(other.items):
		return -1, nil
	case len(v.items) > len(other.items):
		return 1, nil
	default:
		return 0, nil
	}
}

func (v *Vector) deepClone() *Vector {
	out := make([]Value, len(v.items))
	for i, item := range v.items {
		out[i] = DeepClone(item)
	}
	return &Vector{items: out}
}
