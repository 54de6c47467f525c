package collection

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

type item struct {
	id   int64
	flag bool
}

func (i *item) GetID() int64 { return i.id }

func build(ids []int64) []*item {
	out := make([]*item, len(ids))
	for i, id := range ids {
		out[i] = &item{id: id}
	}
	return out
}

func setFlag(i *item) *item {
	cp := *i
	cp.flag = true
	return &cp
}

func TestReplaceByID(t *testing.T) {
	items := build([]int64{3, 9})

	out, found := ReplaceByID(items, int64(3), setFlag)

	assert.True(t, found)
	assert.True(t, out[0].flag)
	assert.False(t, items[0].flag, "input must not change")
	assert.Same(t, items[1], out[1])
	assert.NotSame(t, items[0], out[0])

	_, found = ReplaceByID(items, int64(42), setFlag)
	assert.False(t, found)
}

func TestRemoveAndPrepend(t *testing.T) {
	items := build([]int64{1, 2, 3})

	out, found := RemoveByID(items, int64(2))
	assert.True(t, found)
	assert.Len(t, out, 2)
	assert.Len(t, items, 3)

	out = Prepend(items, &item{id: 3, flag: true})
	assert.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].id)
	assert.True(t, out[0].flag)

	got, ok := FindByID(items, int64(1))
	assert.True(t, ok)
	assert.Same(t, items[0], got)

	assert.NotNil(t, Clone[int](nil))
}

func TestReplaceByID_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	ids := gen.SliceOf(gen.Int64Range(0, 10))
	target := gen.Int64Range(0, 10)

	properties.Property("non-matching entries keep identity", prop.ForAll(
		func(raw []int64, id int64) bool {
			items := build(raw)
			out, _ := ReplaceByID(items, id, setFlag)
			if len(out) != len(items) {
				return false
			}
			for i := range items {
				if items[i].id != id && out[i] != items[i] {
					return false
				}
			}
			return true
		},
		ids, target,
	))

	properties.Property("matching entries are replaced and flagged", prop.ForAll(
		func(raw []int64, id int64) bool {
			items := build(raw)
			out, found := ReplaceByID(items, id, setFlag)
			matched := false
			for i := range items {
				if items[i].id == id {
					matched = true
					if !out[i].flag || items[i].flag {
						return false
					}
				}
			}
			return matched == found
		},
		ids, target,
	))

	properties.TestingRun(t)
}
