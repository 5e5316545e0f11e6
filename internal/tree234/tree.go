// Package tree234 is a counted 2-3-4 tree: a sorted container that also
// answers "what is the i-th element" and "at which position is e" in
// logarithmic time.
package tree234

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type CompareFunc[T any] func(x, y *T) int

type Tree[T any] struct {
	root *node[T]
	cmp  CompareFunc[T]
}

func New[T any](cmp CompareFunc[T]) *Tree[T] {
	return &Tree[T]{cmp: cmp}
}

func (t *Tree[T]) Len() int {
	return t.root.count()
}

// At returns the element at position i in sort order, or nil when i is out
// of range.
func (t *Tree[T]) At(i int) *T {
	if i < 0 || i >= t.root.count() {
		return nil
	}
	n := t.root
	for n != nil {
		if i < n.counts[0] {
			n = n.kids[0]
		} else if i -= n.counts[0] + 1; i < 0 {
			return n.elems[0]
		} else if i < n.counts[1] {
			n = n.kids[1]
		} else if i -= n.counts[1] + 1; i < 0 {
			return n.elems[1]
		} else if i < n.counts[2] {
			n = n.kids[2]
		} else if i -= n.counts[2] + 1; i < 0 {
			return n.elems[2]
		} else {
			n = n.kids[3]
		}
	}
	Log.WithField("index", i).Error("counted tree walked off its leaves")
	return nil
}

// Slice returns up to limit elements starting at position from.
func (t *Tree[T]) Slice(from, limit int) []*T {
	out := make([]*T, 0, max(0, min(limit, t.Len()-from)))
	for i := from; i < t.Len() && len(out) < limit; i++ {
		out = append(out, t.At(i))
	}
	return out
}
