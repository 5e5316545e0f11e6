package tree234

type Relation uint8

const (
	Eq Relation = iota
	Lt
	Le
	Gt
	Ge
)

// position counts the elements sorting before e and returns the element
// equal to e, if any.
func (t *Tree[T]) position(e *T) (idx int, found *T) {
	n := t.root
	for n != nil {
		ki := 0
		for ; ki < 3 && n.elems[ki] != nil; ki++ {
			c := t.cmp(e, n.elems[ki])
			if c < 0 {
				break
			}
			idx += n.counts[ki]
			if c == 0 {
				return idx, n.elems[ki]
			}
			idx++
		}
		n = n.kids[ki]
	}
	return idx, nil
}

// Find returns the element standing in relation rel to e, with its
// position. It returns nil and -1 when there is none.
func (t *Tree[T]) Find(e *T, rel Relation) (*T, int) {
	idx, found := t.position(e)
	switch rel {
	case Eq:
		if found == nil {
			return nil, -1
		}
		return found, idx
	case Le:
		if found != nil {
			return found, idx
		}
		idx--
	case Lt:
		idx--
	case Ge:
		if found != nil {
			return found, idx
		}
	case Gt:
		if found != nil {
			idx++
		}
	}
	if el := t.At(idx); el != nil {
		return el, idx
	}
	return nil, -1
}
