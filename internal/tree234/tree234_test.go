package tree234_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/roguesweeper/internal/tree234"
)

type Item struct {
	Value int
}

func cmp(a, b *Item) int {
	if a.Value < b.Value {
		return -1
	}
	if a.Value > b.Value {
		return 1
	}
	return 0
}

func TestAdd(t *testing.T) {
	tree := tree234.New(cmp)
	for i := 1; i < 10; i++ {
		tree.Add(&Item{i})
	}
	assert.Equal(t, 9, tree.Len())

	dup := &Item{5}
	assert.NotSame(t, dup, tree.Add(dup))
	assert.Equal(t, 9, tree.Len())
}

func TestAt(t *testing.T) {
	var (
		empty *Item
		items []*Item
		tree  = tree234.New(cmp)
	)
	for i := 1; i < 10; i++ {
		item := &Item{i}
		items = append(items, item)
		tree.Add(item)
	}

	for i := range 15 {
		if i < len(items) {
			assert.Equal(t, items[i], tree.At(i))
		} else {
			assert.Equal(t, empty, tree.At(i))
		}
	}
	assert.Equal(t, empty, tree.At(-1))
}

func TestRandomOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	tree := tree234.New(cmp)
	values := r.Perm(1000)
	for _, v := range values {
		tree.Add(&Item{v})
	}
	require.Equal(t, 1000, tree.Len())

	slices.Sort(values)
	for i, v := range values {
		require.Equal(t, v, tree.At(i).Value, "index %d", i)
		_, index := tree.Find(&Item{v}, tree234.Eq)
		require.Equal(t, i, index)
	}

	top := tree.Slice(0, 3)
	assert.Equal(t, []*Item{{0}, {1}, {2}}, top)
	assert.Len(t, tree.Slice(998, 10), 2)
	assert.Empty(t, tree.Slice(2000, 10))
}

func TestFind(t *testing.T) {
	tree := tree234.New(cmp)
	for i := 0; i < 20; i += 2 {
		tree.Add(&Item{i})
	}

	tests := []struct {
		name  string
		value int
		rel   tree234.Relation
		want  int
		index int
	}{
		{"eq present", 4, tree234.Eq, 4, 2},
		{"eq missing", 5, tree234.Eq, -1, -1},
		{"lt present", 4, tree234.Lt, 2, 1},
		{"lt missing", 5, tree234.Lt, 4, 2},
		{"le present", 4, tree234.Le, 4, 2},
		{"le missing", 5, tree234.Le, 4, 2},
		{"gt present", 4, tree234.Gt, 6, 3},
		{"gt missing", 5, tree234.Gt, 6, 3},
		{"ge missing", 5, tree234.Ge, 6, 3},
		{"lt first", 0, tree234.Lt, -1, -1},
		{"gt last", 18, tree234.Gt, -1, -1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			el, index := tree.Find(&Item{test.value}, test.rel)
			assert.Equal(t, test.index, index)
			if test.want < 0 {
				assert.Nil(t, el)
			} else {
				require.NotNil(t, el)
				assert.Equal(t, test.want, el.Value)
			}
		})
	}
}
