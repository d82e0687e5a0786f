package rectpack

// freeList is the set of maximal free regions of a bin. Regions may overlap;
// no region is contained in another and none is narrower or shorter than the
// minimum dimension given to the last commit.
type freeList struct {
	rects []Rect
	side  []Rect
}

func newFreeList(width, height int) *freeList {
	return &freeList{rects: []Rect{NewRect(0, 0, width, height)}}
}

// split appends to out the strips of free left uncovered by placed. Each
// strip spans the whole of free on its side. Strips with a dimension below
// minDim are dropped. free and placed must intersect.
func split(free, placed Rect, minDim int, out []Rect) []Rect {
	if !free.Intersects(placed) {
		panic("rectpack: split of a free region that does not intersect " + placed.String())
	}
	emit := func(r Rect) {
		if r.Width >= minDim && r.Height >= minDim {
			out = append(out, r)
		}
	}
	if placed.Y > free.Y {
		emit(NewRect(free.X, free.Y, free.Width, placed.Y-free.Y))
	}
	if placed.Bottom() < free.Bottom() {
		emit(NewRect(free.X, placed.Bottom(), free.Width, free.Bottom()-placed.Bottom()))
	}
	if placed.X > free.X {
		emit(NewRect(free.X, free.Y, placed.X-free.X, free.Height))
	}
	if placed.Right() < free.Right() {
		emit(NewRect(placed.Right(), free.Y, free.Right()-placed.Right(), free.Height))
	}
	return out
}

// commit removes placed from the free space.
func (f *freeList) commit(placed Rect, minDim int) {
	f.side = f.side[:0]
	for i := 0; i < len(f.rects); {
		if f.rects[i].Intersects(placed) {
			f.side = split(f.rects[i], placed, minDim, f.side)
			f.removeAt(i)
		} else {
			i++
		}
	}
	f.rects = append(f.rects, f.side...)
	f.prune(minDim)
}

// prune drops regions below minDim and regions contained in another region.
func (f *freeList) prune(minDim int) {
	for i := 0; i < len(f.rects); {
		if f.rects[i].Width < minDim || f.rects[i].Height < minDim {
			f.removeAt(i)
		} else {
			i++
		}
	}
	for i := 0; i < len(f.rects); i++ {
		for j := i + 1; j < len(f.rects); {
			if f.rects[i].ContainsRect(f.rects[j]) {
				f.removeAt(j)
				continue
			}
			if f.rects[j].ContainsRect(f.rects[i]) {
				// The element swapped into i has not been compared yet.
				f.removeAt(i)
				i--
				break
			}
			j++
		}
	}
}

// removeAt swaps the last region into i and truncates.
func (f *freeList) removeAt(i int) {
	last := len(f.rects) - 1
	f.rects[i] = f.rects[last]
	f.rects = f.rects[:last]
}
