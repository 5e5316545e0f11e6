package tree234

import "github.com/sirupsen/logrus"

// insert puts left, e, right in place of kid ki of n, splitting full nodes
// on the way up.
func (t *Tree[T]) insert(left *node[T], e *T, right *node[T], n *node[T], ki int) {
	for n != nil {
		size := n.size()

		elems := make([]*T, 0, 4)
		elems = append(elems, n.elems[:ki]...)
		elems = append(elems, e)
		elems = append(elems, n.elems[ki:size]...)

		kids := make([]*node[T], 0, 5)
		kids = append(kids, n.kids[:ki]...)
		kids = append(kids, left, right)
		kids = append(kids, n.kids[ki+1:size+1]...)

		counts := make([]int, 0, 5)
		counts = append(counts, n.counts[:ki]...)
		counts = append(counts, left.count(), right.count())
		counts = append(counts, n.counts[ki+1:size+1]...)

		if len(elems) <= 3 {
			n.fill(elems, kids, counts)
			for n.parent != nil {
				n.parent.counts[n.childIndex()] = n.count()
				n = n.parent
			}
			return
		}

		// four elements do not fit: keep a 3-node on the left, a 2-node on
		// the right and push the third element up
		parent, pos := n.parent, n.childIndex()
		m := &node[T]{parent: parent}
		m.fill(elems[:2], kids[:3], counts[:3])
		n.fill(elems[3:], kids[3:], counts[3:])

		Log.WithFields(logrus.Fields{
			"promoted": e, "left": m.count(), "right": n.count(),
		}).Debug("split node")

		left, e, right = m, elems[2], n
		n, ki = parent, pos
	}

	t.root = &node[T]{
		kids:   [4]*node[T]{left, right},
		counts: [4]int{left.count(), right.count()},
		elems:  [3]*T{e},
	}
	t.root.adopt(2)
}

// Add inserts e and returns it. If an element comparing equal is already
// present, that element is returned and the tree is unchanged.
func (t *Tree[T]) Add(e *T) *T {
	if t.root == nil {
		t.root = &node[T]{elems: [3]*T{e}}
		return e
	}
	n := t.root
	for {
		ki := 0
		for ; ki < 3 && n.elems[ki] != nil; ki++ {
			c := t.cmp(e, n.elems[ki])
			if c == 0 {
				return n.elems[ki]
			}
			if c < 0 {
				break
			}
		}
		if n.kids[ki] == nil {
			t.insert(nil, e, nil, n, ki)
			return e
		}
		n = n.kids[ki]
	}
}
