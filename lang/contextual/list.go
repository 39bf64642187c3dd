// Package contextual implements the stack-of-frames container used
// throughout the VM to give variables, words and structure definitions
// scoped lifetimes.
package contextual

import "fmt"

// List is a generic contextual container: a sequence of items partitioned
// into frames. MarkContext opens a new frame; ReleaseContext drops the top
// frame and every item added to it. Indexing and iteration see the whole
// list regardless of frame boundaries.
//
// Items carry no notion of their own frame; frames carry a start index and
// their own items: absolute index i belongs to the newest frame whose start
// index is <= i.
//
// A List always has at least one frame (the root frame, pushed by New).
// Releasing it is a programmer error and panics.
type List[T any] struct {
	frames []frame[T]
}

type frame[T any] struct {
	items      []T
	startIndex int
}

// New returns a List with a single root frame. The root frame must never be
// released.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.MarkContext()
	return l
}

// MarkContext pushes a new frame starting at the list's current length.
func (l *List[T]) MarkContext() {
	start := 0
	if len(l.frames) > 0 {
		top := &l.frames[len(l.frames)-1]
		start = top.startIndex + len(top.items)
	}
	l.frames = append(l.frames, frame[T]{startIndex: start})
}

// ReleaseContext pops the top frame and discards everything added to it.
// Panics if there is no frame to release
// or if it would release the root frame.
func (l *List[T]) ReleaseContext() {
	if len(l.frames) == 0 {
		panic("contextual.List: releasing an empty context")
	}
	if len(l.frames) == 1 {
		panic("contextual.List: releasing the root context")
	}
	l.frames = l.frames[:len(l.frames)-1]
}

// Depth returns the number of currently open frames, root included.
func (l *List[T]) Depth() int { return len(l.frames) }

// Len returns the total number of items across every open frame.
func (l *List[T]) Len() int {
	if len(l.frames) == 0 {
		return 0
	}
	top := &l.frames[len(l.frames)-1]
	return top.startIndex + len(top.items)
}

// Insert appends value to the current (top) frame and returns its new
// absolute index.
func (l *List[T]) Insert(value T) int {
	top := l.topMut()
	top.items = append(top.items, value)
	return l.Len() - 1
}

// Get returns the item at absolute index i, regardless of which frame holds
// it. Panics if i is out of the list's
// total bounds.
func (l *List[T]) Get(i int) T {
	return *l.locate(i)
}

// Set overwrites the item at absolute index i.
func (l *List[T]) Set(i int, value T) {
	*l.locate(i) = value
}

func (l *List[T]) locate(i int) *T {
	if i < 0 || i >= l.Len() {
		panic(indexOutOfBoundsMsg(i, l.Len()))
	}
	for fi := len(l.frames) - 1; fi >= 0; fi-- {
		fr := &l.frames[fi]
		if i >= fr.startIndex {
			return &fr.items[i-fr.startIndex]
		}
	}
	panic(indexOutOfBoundsMsg(i, l.Len()))
}

func indexOutOfBoundsMsg(i, n int) string {
	return fmt.Sprintf("contextual.List: index %d out of bounds (len %d)", i, n)
}

// All iterates every item in the list, oldest frame first, in insertion
// order within each frame.
func (l *List[T]) All(yield func(index int, value T) bool) {
	idx := 0
	for fi := range l.frames {
		for _, v := range l.frames[fi].items {
			if !yield(idx, v) {
				return
			}
			idx++
		}
	}
}

func (l *List[T]) topMut() *frame[T] {
	if len(l.frames) == 0 {
		panic("contextual.List: no open context")
	}
	return &l.frames[len(l.frames)-1]
}
