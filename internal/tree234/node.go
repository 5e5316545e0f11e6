package tree234

// node is a 2-, 3- or 4-node. counts[i] is the number of elements in the
// subtree under kids[i].
type node[T any] struct {
	parent *node[T]
	kids   [4]*node[T]
	counts [4]int
	elems  [3]*T
}

func (n *node[T]) count() (c int) {
	if n == nil {
		return
	}
	for _, count := range n.counts {
		c += count
	}
	for _, elem := range n.elems {
		if elem != nil {
			c++
		}
	}
	return
}

func (n *node[T]) childIndex() int {
	if n != nil && n.parent != nil {
		for i, kid := range n.parent.kids {
			if n == kid {
				return i
			}
		}
	}
	return -1
}

func (n *node[T]) adopt(kids int) {
	for i := range kids {
		if n.kids[i] != nil {
			n.kids[i].parent = n
		}
	}
}

// fill overwrites n with the given elements, kids and subtree counts.
func (n *node[T]) fill(elems []*T, kids []*node[T], counts []int) {
	n.elems = [3]*T{}
	n.kids = [4]*node[T]{}
	n.counts = [4]int{}
	copy(n.elems[:], elems)
	copy(n.kids[:], kids)
	copy(n.counts[:], counts)
	n.adopt(len(kids))
}

func (n *node[T]) size() (s int) {
	for s < 3 && n.elems[s] != nil {
		s++
	}
	return
}
