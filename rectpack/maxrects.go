package rectpack

import "math"

// Pack places every rectangle of rects into a binWidth x binHeight bin.
//
// Only Width and Height of each rectangle are read. On success X and Y are
// set, and rotated rectangles have Width and Height swapped with Rotated
// set. Every round searches all free regions against all unplaced
// rectangles and commits the single best placement, so the result does not
// depend on a per-rectangle greedy order.
//
// Pack returns false without touching rects when the total area exceeds the
// bin, when a size is not positive, or when h is unknown. It also returns
// false when some round finds no fit; placements committed before that round
// are left in place and must be treated as invalid.
func Pack(binWidth, binHeight int, allowRotation bool, h Heuristic, rects []Rect) bool {
	if !h.Valid() || !fitsArea(binWidth, binHeight, rects) {
		return false
	}
	return newRun(binWidth, binHeight, allowRotation, h, rects).pack()
}

// fitsArea reports whether all sizes are positive and their total area does
// not exceed the bin.
func fitsArea(binWidth, binHeight int, rects []Rect) bool {
	if binWidth <= 0 || binHeight <= 0 {
		return false
	}
	area := 0
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			return false
		}
		area += r.Width * r.Height
	}
	return area <= binWidth*binHeight
}

// run is the state of one packing call.
type run struct {
	free        *freeList
	rects       []Rect
	remaining   []int // indices into rects not placed yet
	allowRotate bool
	heuristic   Heuristic
}

func newRun(binWidth, binHeight int, allowRotate bool, h Heuristic, rects []Rect) *run {
	remaining := make([]int, len(rects))
	for i := range remaining {
		remaining[i] = i
	}
	return &run{
		free:        newFreeList(binWidth, binHeight),
		rects:       rects,
		remaining:   remaining,
		allowRotate: allowRotate,
		heuristic:   h,
	}
}

func (r *run) pack() bool {
	for len(r.remaining) > 0 {
		if !r.step() {
			return false
		}
	}
	return true
}

type candidate struct {
	region   int
	slot     int // index into remaining
	rotated  bool
	primary  int
	tiebreak int
}

func (c *candidate) offer(primary, tiebreak int) bool {
	return primary < c.primary || (primary == c.primary && tiebreak < c.tiebreak)
}

// best scores every free region against every unplaced rectangle in both
// orientations. Ties keep the first candidate seen.
func (r *run) best() (candidate, bool) {
	best := candidate{region: -1, primary: math.MaxInt, tiebreak: math.MaxInt}
	for i, free := range r.free.rects {
		for slot, idx := range r.remaining {
			w, h := r.rects[idx].Width, r.rects[idx].Height
			if w <= free.Width && h <= free.Height {
				if s1, s2 := r.heuristic.score(free, w, h); best.offer(s1, s2) {
					best = candidate{region: i, slot: slot, primary: s1, tiebreak: s2}
				}
			}
			if r.allowRotate && h <= free.Width && w <= free.Height {
				if s1, s2 := r.heuristic.score(free, h, w); best.offer(s1, s2) {
					best = candidate{region: i, slot: slot, rotated: true, primary: s1, tiebreak: s2}
				}
			}
		}
	}
	return best, best.region >= 0
}

// step commits the best placement of this round. It returns false when no
// unplaced rectangle fits any free region.
func (r *run) step() bool {
	c, ok := r.best()
	if !ok {
		return false
	}
	idx := r.remaining[c.slot]
	rect := &r.rects[idx]
	origin := r.free.rects[c.region].Point
	rect.X, rect.Y = origin.X, origin.Y
	rect.Rotated = c.rotated
	if c.rotated {
		rect.Width, rect.Height = rect.Height, rect.Width
	}

	last := len(r.remaining) - 1
	r.remaining[c.slot] = r.remaining[last]
	r.remaining = r.remaining[:last]

	r.free.commit(*rect, r.minDim())
	return true
}

// minDim is the smallest side among unplaced rectangles, or 0 when none are
// left.
func (r *run) minDim() int {
	if len(r.remaining) == 0 {
		return 0
	}
	m := math.MaxInt
	for _, idx := range r.remaining {
		m = min(m, r.rects[idx].MinSide())
	}
	return m
}
