package builtins

import (
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerByteBufferWords wires the `buffer.*` family, grounded directly on
// byte_buffer_words.rs: same word spellings, same stack orderings, same
// valid-byte-size checks for ints (1, 2, 4, 8) and floats (4, 8). Both
// value.ByteBuffer and value.SubBuffer satisfy value.Buffer, so every word
// here operates through that interface and works on either.
func registerByteBufferWords(m *interp.Machine) {
	def(m, "buffer.new", func(m *interp.Machine) error {
		size, err := popIndex(m)
		if err != nil {
			return err
		}
		return m.Push(value.NewByteBuffer(size))
	}, "Create a new byte buffer.", "size -- buffer")

	def(m, "buffer.size@", func(m *interp.Machine) error {
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(buf.Len()))
	}, "Get the size of a byte buffer.", "buffer -- size")

	def(m, "buffer.size!", func(m *interp.Machine) error {
		size, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		buf.Resize(size)
		return nil
	}, "Resize an existing byte buffer.", "buffer size -- ")

	def(m, "buffer.int!", func(m *interp.Machine) error {
		byteSize, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		v, err := m.PopInt()
		if err != nil {
			return err
		}
		return buf.WriteInt(byteSize, v)
	}, "Write an integer of a given size to the buffer.", "value buffer byte-size -- ")

	def(m, "buffer.int@", func(m *interp.Machine) error {
		isSigned, err := m.PopBool()
		if err != nil {
			return err
		}
		byteSize, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		v, err := buf.ReadInt(byteSize, isSigned)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(v))
	}, "Read an integer of a given size from the buffer.", "buffer byte-size is-signed -- value")

	def(m, "buffer.float!", func(m *interp.Machine) error {
		byteSize, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		f, err := value.ToFloat(v)
		if err != nil {
			return err
		}
		return buf.WriteFloat(byteSize, f)
	}, "Write a float of a given size to the buffer.", "value buffer byte-size -- ")

	def(m, "buffer.float@", func(m *interp.Machine) error {
		byteSize, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		v, err := buf.ReadFloat(byteSize)
		if err != nil {
			return err
		}
		return m.Push(value.FloatValue(v))
	}, "Read a float of a given size from the buffer.", "buffer byte-size -- value")

	def(m, "buffer.string!", func(m *interp.Machine) error {
		byteSize, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		s, err := value.ToStringVal(v)
		if err != nil {
			return err
		}
		return buf.WriteString(byteSize, s)
	}, "Write a string of a given size to the buffer. Padded with 0s if needed.", "value buffer size -- ")

	def(m, "buffer.string@", func(m *interp.Machine) error {
		byteSize, err := popIndex(m)
		if err != nil {
			return err
		}
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		s, err := buf.ReadString(byteSize)
		if err != nil {
			return err
		}
		return m.Push(value.StringValue(s))
	}, "Read a string of a given max size from the buffer.", "buffer byte-size -- value")

	def(m, "buffer.position!", func(m *interp.Machine) error {
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		position, err := popIndex(m)
		if err != nil {
			return err
		}
		return buf.SetPosition(position)
	}, "Set the position of the buffer pointer.", "position buffer -- ")

	def(m, "buffer.position@", func(m *interp.Machine) error {
		buf, err := popBuffer(m)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(buf.Position()))
	}, "Get the position of the buffer pointer.", "buffer -- position")
}

func popBuffer(m *interp.Machine) (value.Buffer, error) {
	v, err := m.Pop()
	if err != nil {
		return nil, err
	}
	buf, ok := v.(value.Buffer)
	if !ok {
		return nil, scriptError(m, "expected a byte buffer, got %s", v.Type())
	}
	return buf, nil
}
