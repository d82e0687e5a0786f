package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	free := NewRect(0, 0, 10, 10)
	placed := NewRect(2, 3, 4, 5)

	got := split(free, placed, 0, nil)
	assert.Equal(t, []Rect{
		NewRect(0, 0, 10, 3), // above
		NewRect(0, 8, 10, 2), // below
		NewRect(0, 0, 2, 10), // left
		NewRect(6, 0, 4, 10), // right
	}, got)

	got = split(free, placed, 3, nil)
	assert.Equal(t, []Rect{NewRect(0, 0, 10, 3), NewRect(6, 0, 4, 10)}, got)
}

func TestSplitPartialOverlap(t *testing.T) {
	// placed hangs off the top left corner of free.
	free := NewRect(4, 4, 6, 6)
	placed := NewRect(0, 0, 6, 6)

	got := split(free, placed, 0, nil)
	assert.Equal(t, []Rect{NewRect(4, 6, 6, 4), NewRect(6, 4, 4, 6)}, got)
}

func TestSplitDisjointPanics(t *testing.T) {
	assert.Panics(t, func() {
		split(NewRect(0, 0, 4, 4), NewRect(4, 0, 4, 4), 0, nil)
	})
}

func TestCommit(t *testing.T) {
	f := newFreeList(10, 10)
	f.commit(NewRect(0, 0, 4, 4), 0)
	assert.ElementsMatch(t, []Rect{NewRect(0, 4, 10, 6), NewRect(4, 0, 6, 10)}, f.rects)

	f.commit(NewRect(4, 0, 6, 3), 0)
	assertFreeList(t, f, 10, 10, 0, []Rect{NewRect(0, 0, 4, 4), NewRect(4, 0, 6, 3)})
	assert.ElementsMatch(t, []Rect{NewRect(0, 4, 10, 6), NewRect(4, 3, 6, 7)}, f.rects)
}

func TestCommitMinDim(t *testing.T) {
	f := newFreeList(10, 10)
	f.commit(NewRect(0, 0, 10, 8), 4)
	assert.Empty(t, f.rects, "2px strip is narrower than any remaining rect")
}

func TestPrune(t *testing.T) {
	f := &freeList{rects: []Rect{
		NewRect(0, 0, 10, 10),
		NewRect(2, 2, 3, 3),
		NewRect(0, 0, 10, 10),
		NewRect(0, 0, 1, 10),
	}}
	f.prune(2)
	assert.Equal(t, []Rect{NewRect(0, 0, 10, 10)}, f.rects)
}

func TestPruneContainedFirst(t *testing.T) {
	// The contained region comes first, so the swapped in region must
	// still be compared against the rest.
	f := &freeList{rects: []Rect{
		NewRect(1, 1, 2, 2),
		NewRect(0, 0, 10, 10),
		NewRect(20, 0, 5, 5),
		NewRect(21, 1, 1, 1),
	}}
	f.prune(0)
	assert.ElementsMatch(t, []Rect{NewRect(0, 0, 10, 10), NewRect(20, 0, 5, 5)}, f.rects)
}

// assertFreeList checks that the free regions stay inside the bin, miss every
// placed rect, respect minDim and are maximal.
func assertFreeList(t *testing.T, f *freeList, width, height, minDim int, placed []Rect) {
	t.Helper()
	bin := NewRect(0, 0, width, height)
	for i, r := range f.rects {
		assert.True(t, bin.ContainsRect(r), "%v outside bin", r)
		assert.GreaterOrEqual(t, r.Width, minDim, "%v narrower than %d", r, minDim)
		assert.GreaterOrEqual(t, r.Height, minDim, "%v shorter than %d", r, minDim)
		for _, p := range placed {
			assert.False(t, r.Intersects(p), "%v overlaps placed %v", r, p)
		}
		for j, o := range f.rects {
			if i != j {
				assert.False(t, o.ContainsRect(r), "%v contained in %v", r, o)
			}
		}
	}
}
