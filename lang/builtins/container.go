package builtins

import (
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerContainerWords wires the Vector (`[].*`) and HashMap (`{}.*`)
// native words. Grounded directly on array_words.rs and hash_table_words.rs:
// same word spellings, same stack signatures, same bounds-checking and
// empty-container error behavior.
func registerContainerWords(m *interp.Machine) {
	registerVectorWords(m)
	registerHashMapWords(m)
}

func popVector(m *interp.Machine) (*value.Vector, error) {
	v, err := m.Pop()
	if err != nil {
		return nil, err
	}
	vec, ok := v.(*value.Vector)
	if !ok {
		return nil, scriptError(m, "expected a vector, got %s", v.Type())
	}
	return vec, nil
}

func popIndex(m *interp.Machine) (int, error) {
	n, err := m.PopInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, scriptError(m, "index %d can not be negative", n)
	}
	return int(n), nil
}

func registerVectorWords(m *interp.Machine) {
	def(m, "[].new", func(m *interp.Machine) error {
		size, err := popIndex(m)
		if err != nil {
			return err
		}
		return m.Push(value.NewVector(size))
	}, "Create a new array with the given default size.", "size -- array")

	def(m, "[].size@", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(vec.Len()))
	}, "Read the size of the array object.", "array -- size")

	def(m, "[].size!", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		size, err := popIndex(m)
		if err != nil {
			return err
		}
		vec.Resize(size)
		return nil
	}, "Grow or shrink the array to the new size.", "new-size array -- ")

	def(m, "[]!", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		index, err := popIndex(m)
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return vec.Set(index, v)
	}, "Write to a value in the array.", "value index array -- ")

	def(m, "[]@", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		index, err := popIndex(m)
		if err != nil {
			return err
		}
		v, err := vec.At(index)
		if err != nil {
			return err
		}
		return m.Push(v)
	}, "Read a value from the array.", "index array -- value")

	def(m, "[].insert", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		index, err := popIndex(m)
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return vec.Insert(index, v)
	}, "Grow an array by inserting a value at the given location.", "value index array -- ")

	def(m, "[].delete", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		index, err := popIndex(m)
		if err != nil {
			return err
		}
		_, err = vec.Remove(index)
		return err
	}, "Shrink an array by removing the value at the given location.", "index array -- ")

	def(m, "[].+", func(m *interp.Machine) error {
		source, err := popVector(m)
		if err != nil {
			return err
		}
		dest, err := popVector(m)
		if err != nil {
			return err
		}
		for i := 0; i < source.Len(); i++ {
			v, err := source.At(i)
			if err != nil {
				return err
			}
			dest.PushBack(value.DeepClone(v))
		}
		return m.Push(dest)
	}, "Take two arrays and deep copy the contents from the second into the first.", "dest source -- dest")

	def(m, "[].=", func(m *interp.Machine) error {
		b, err := popVector(m)
		if err != nil {
			return err
		}
		a, err := popVector(m)
		if err != nil {
			return err
		}
		return m.Push(value.BoolValue(value.Equal(a, b)))
	}, "Take two arrays and compare the contents to each other.", "a b -- are-equal")

	def(m, "[].push_front!", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		vec.PushFront(v)
		return nil
	}, "Push a value to the front of an array.", "value array -- ")

	def(m, "[].push_back!", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		vec.PushBack(v)
		return nil
	}, "Push a value to the end of an array.", "value array -- ")

	def(m, "[].pop_front!", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		v, err := vec.PopFront()
		if err != nil {
			return scriptError(m, "[].pop_front from an empty array")
		}
		return m.Push(v)
	}, "Pop a value from the front of an array.", "array -- value")

	def(m, "[].pop_back!", func(m *interp.Machine) error {
		vec, err := popVector(m)
		if err != nil {
			return err
		}
		v, err := vec.PopBack()
		if err != nil {
			return scriptError(m, "[].pop_back from an empty array")
		}
		return m.Push(v)
	}, "Pop a value from the back of an array.", "array -- value")
}

func popHashMap(m *interp.Machine) (*value.HashMap, error) {
	v, err := m.Pop()
	if err != nil {
		return nil, err
	}
	h, ok := v.(*value.HashMap)
	if !ok {
		return nil, scriptError(m, "expected a hash table, got %s", v.Type())
	}
	return h, nil
}

func registerHashMapWords(m *interp.Machine) {
	def(m, "{}.new", func(m *interp.Machine) error {
		return m.Push(value.NewHashMap(0))
	}, "Create a new hash table.", " -- new-hash-table")

	def(m, "{}!", func(m *interp.Machine) error {
		h, err := popHashMap(m)
		if err != nil {
			return err
		}
		key, err := m.Pop()
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return h.Set(key, v)
	}, "Write a value to a given key in the table.", "value key table -- ")

	def(m, "{}@", func(m *interp.Machine) error {
		h, err := popHashMap(m)
		if err != nil {
			return err
		}
		key, err := m.Pop()
		if err != nil {
			return err
		}
		v, ok := h.Get(key)
		if !ok {
			return scriptError(m, "key %s not found in hash table", key)
		}
		return m.Push(v)
	}, "Read a value from a given key in the table.", "key table -- value")

	def(m, "{}?", func(m *interp.Machine) error {
		h, err := popHashMap(m)
		if err != nil {
			return err
		}
		key, err := m.Pop()
		if err != nil {
			return err
		}
		_, ok := h.Get(key)
		return m.Push(value.BoolValue(ok))
	}, "Check if a given key exists in the table.", "key table -- bool")

	def(m, "{}.+", func(m *interp.Machine) error {
		source, err := popHashMap(m)
		if err != nil {
			return err
		}
		dest, err := popHashMap(m)
		if err != nil {
			return err
		}
		var setErr error
		source.Each(func(k, v value.Value) bool {
			if err := dest.Set(value.DeepClone(k), value.DeepClone(v)); err != nil {
				setErr = err
				return false
			}
			return true
		})
		if setErr != nil {
			return setErr
		}
		return m.Push(dest)
	}, "Take two hashes and deep copy the contents from the second into the first.", "dest source -- dest")

	def(m, "{}.=", func(m *interp.Machine) error {
		b, err := popHashMap(m)
		if err != nil {
			return err
		}
		a, err := popHashMap(m)
		if err != nil {
			return err
		}
		return m.Push(value.BoolValue(value.Equal(a, b)))
	}, "Take two hashes and compare their contents.", "a b -- was-match")

	def(m, "{}.size@", func(m *interp.Machine) error {
		h, err := popHashMap(m)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(h.Len()))
	}, "Get the size of the hash table.", "table -- size")

	def(m, "{}.iterate", func(m *interp.Machine) error {
		h, err := popHashMap(m)
		if err != nil {
			return err
		}
		wordIndex, err := popIndex(m)
		if err != nil {
			return err
		}
		var iterErr error
		h.Each(func(k, v value.Value) bool {
			if err := m.Push(k); err != nil {
				iterErr = err
				return false
			}
			if err := m.Push(v); err != nil {
				iterErr = err
				return false
			}
			if err := m.ExecuteWordIndex(token.Location{}, wordIndex); err != nil {
				iterErr = err
				return false
			}
			return true
		})
		return iterErr
	}, "Iterate through a hash table and call a word for each item.", "word-index hash-table -- ")
}
