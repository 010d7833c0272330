// Package history walks class histories and loads them from external sources.
package history

import (
	"iter"

	"github.com/huangsam/proneness/schema"
)

// Forest is a collection of top-level class histories.
type Forest []*schema.ClassHistory

// Iterator returns a fresh depth-first iterator over every method history.
func (f Forest) Iterator() *MethodIterator {
	it := &MethodIterator{stack: make([]*schema.ClassHistory, 0, len(f))}
	it.stack = append(it.stack, f...)
	it.loadNext()
	return it
}

// Methods yields the method histories in iterator order.
func (f Forest) Methods() iter.Seq[*schema.MethodHistory] {
	return func(yield func(*schema.MethodHistory) bool) {
		it := f.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// CountMethods returns the number of method histories in the forest.
func (f Forest) CountMethods() int {
	n := 0
	for range f.Methods() {
		n++
	}
	return n
}

// MethodIterator walks a forest with an explicit stack. Popping a class pushes
// its inner classes, so they are visited before siblings already on the stack.
// The next element is always preloaded. Not safe for concurrent use.
type MethodIterator struct {
	stack   []*schema.ClassHistory
	methods []*schema.MethodHistory
	next    *schema.MethodHistory
}

// HasNext reports whether another method history is available.
func (it *MethodIterator) HasNext() bool {
	return it.next != nil
}

// Next returns the preloaded method history and loads the following one.
// It returns nil once the iterator is exhausted.
func (it *MethodIterator) Next() *schema.MethodHistory {
	current := it.next
	if current != nil {
		it.loadNext()
	}
	return current
}

func (it *MethodIterator) loadNext() {
	for len(it.methods) == 0 {
		if len(it.stack) == 0 {
			it.next = nil
			return
		}
		top := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		it.stack = append(it.stack, top.Inner...)
		it.methods = top.Methods
	}
	it.next = it.methods[0]
	it.methods = it.methods[1:]
}
