package builtins

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

func popString(m *interp.Machine) (string, error) {
	v, err := m.Pop()
	if err != nil {
		return "", err
	}
	return value.ToStringVal(v)
}

// registerStringWords wires string manipulation and general stringification
// words, grounded on string_words.rs. Indices here are logical character
// (rune) offsets, not byte offsets, matching the Rust original's char-boundary
// bookkeeping.
func registerStringWords(m *interp.Machine) {
	def(m, "string.size@", func(m *interp.Machine) error {
		s, err := popString(m)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(len([]rune(s))))
	}, "Get the length of a given string.", "string -- size")

	def(m, "string.[]!", func(m *interp.Machine) error {
		s, err := popString(m)
		if err != nil {
			return err
		}
		index, err := m.PopInt()
		if err != nil {
			return err
		}
		sub, err := popString(m)
		if err != nil {
			return err
		}
		runes := []rune(s)
		if index < 0 || int(index) > len(runes) {
			index = int64(len(runes)) - 1
		}
		if index < 0 {
			index = 0
		}
		updated := string(runes[:index]) + sub + string(runes[index:])
		return m.Push(value.StringValue(updated))
	}, "Insert a string into another string.", "sub-string index string -- updated-string")

	def(m, "string.remove", func(m *interp.Machine) error {
		s, err := popString(m)
		if err != nil {
			return err
		}
		position, err := m.PopInt()
		if err != nil {
			return err
		}
		count, err := m.PopInt()
		if err != nil {
			return err
		}
		runes := []rune(s)
		charCount := int64(len(runes))
		if position >= charCount || position < 0 {
			return scriptError(m, "position %d is out of range for string of length %d", position, charCount)
		}
		if count < 0 || position+count >= charCount {
			count = charCount - position - 1
		}
		updated := string(runes[:position]) + string(runes[position+count+1:])
		return m.Push(value.StringValue(updated))
	}, "Remove some characters from a string.", "count position string -- updated-string")

	def(m, "string.find", func(m *interp.Machine) error {
		s, err := popString(m)
		if err != nil {
			return err
		}
		search, err := popString(m)
		if err != nil {
			return err
		}
		byteIndex := strings.Index(s, search)
		if byteIndex < 0 {
			return m.Push(value.IntValue(-1))
		}
		charIndex := len([]rune(s[:byteIndex]))
		return m.Push(value.IntValue(charIndex))
	}, "Find the first instance of a string within another. Index if found, npos if not.", "search-string string -- result")

	def(m, "string.[]@", func(m *interp.Machine) error {
		s, err := popString(m)
		if err != nil {
			return err
		}
		charIndex, err := m.PopInt()
		if err != nil {
			return err
		}
		runes := []rune(s)
		if charIndex < 0 || int(charIndex) >= len(runes) {
			return scriptError(m, "character index %d is out of range for string %q", charIndex, s)
		}
		return m.Push(value.StringValue(string(runes[charIndex])))
	}, "Read a character from the given string.", "index string -- character")

	def(m, "string.to_number", func(m *interp.Machine) error {
		s, err := popString(m)
		if err != nil {
			return err
		}
		if strings.Contains(s, ".") {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return scriptError(m, "could not convert string %q to number: %s", s, err)
			}
			return m.Push(value.FloatValue(f))
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return scriptError(m, "could not convert string %q to number: %s", s, err)
		}
		return m.Push(value.IntValue(n))
	}, "Convert a string into a number.", "string -- number")

	def(m, "to_string", func(m *interp.Machine) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return m.Push(value.StringValue(v.String()))
	}, "Convert a value to a string.", "value -- string")

	def(m, "hex", func(m *interp.Machine) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		var n int64
		switch {
		case value.IsFloat(v):
			f, err := value.ToFloat(v)
			if err != nil {
				return err
			}
			n = int64(f)
		case value.IsString(v):
			s, _ := v.(value.StringValue)
			runes := []rune(string(s))
			if len(runes) == 1 {
				n = int64(runes[0])
			}
		default:
			i, err := value.ToInt(v)
			if err != nil {
				return scriptError(m, "value %s is not a number", v)
			}
			n = i
		}
		return m.Push(value.StringValue(fmt.Sprintf("%x", n)))
	}, "Convert a number into a hex string.", "number -- hex-string")

	var uniqueIndex uint64
	def(m, "unique_str", func(m *interp.Machine) error {
		index := atomic.AddUint64(&uniqueIndex, 1) - 1
		return m.Push(value.StringValue(fmt.Sprintf("unique-str-%08x", index)))
	}, "Generate a unique string and push it onto the data stack.", " -- string")

	def(m, "string.npos", func(m *interp.Machine) error {
		return m.Push(value.IntValue(-1))
	}, "Constant value that indicates a search has failed.", " -- npos")
}
