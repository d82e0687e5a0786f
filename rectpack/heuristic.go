package rectpack

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Heuristic selects how a candidate placement is scored. It packs a primary
// metric, an optional tiebreak metric and the square-footprint flag into one
// value.
type Heuristic uint16

const (
	fitArea  = 0x1
	fitShort = 0x2
	fitLong  = 0x3

	primaryMask  = 0x000F
	tiebreakMask = 0x00F0
	squareFlag   = 0x0100

	// squareWeight scales the square-footprint penalty.
	squareWeight = 5.0
)

const (
	BestAreaFit      Heuristic = fitArea
	BestShortSideFit Heuristic = fitShort
	BestLongSideFit  Heuristic = fitLong

	BestAreaFitLongSideTiebreak      Heuristic = fitArea | fitLong<<4
	BestAreaFitShortSideTiebreak     Heuristic = fitArea | fitShort<<4
	BestShortSideFitAreaTiebreak     Heuristic = fitShort | fitArea<<4
	BestLongSideFitAreaTiebreak      Heuristic = fitLong | fitArea<<4
	BestShortSideFitLongSideTiebreak Heuristic = fitShort | fitLong<<4
	BestLongSideFitShortSideTiebreak Heuristic = fitLong | fitShort<<4

	BestShortSideFitSquare                 = BestShortSideFit | squareFlag
	BestLongSideFitSquare                  = BestLongSideFit | squareFlag
	BestShortSideFitAreaTiebreakSquare     = BestShortSideFitAreaTiebreak | squareFlag
	BestLongSideFitAreaTiebreakSquare      = BestLongSideFitAreaTiebreak | squareFlag
	BestShortSideFitLongSideTiebreakSquare = BestShortSideFitLongSideTiebreak | squareFlag
	BestLongSideFitShortSideTiebreakSquare = BestLongSideFitShortSideTiebreak | squareFlag
)

var heuristics = [...]struct {
	h     Heuristic
	short string
	long  string
}{
	{BestAreaFit, "BAF", "BestAreaFit"},
	{BestShortSideFit, "BSSF", "BestShortSideFit"},
	{BestLongSideFit, "BLSF", "BestLongSideFit"},
	{BestAreaFitLongSideTiebreak, "BAF_BLSF", "BestAreaFitLongSideTiebreak"},
	{BestAreaFitShortSideTiebreak, "BAF_BSSF", "BestAreaFitShortSideTiebreak"},
	{BestShortSideFitAreaTiebreak, "BSSF_BAF", "BestShortSideFitAreaTiebreak"},
	{BestLongSideFitAreaTiebreak, "BLSF_BAF", "BestLongSideFitAreaTiebreak"},
	{BestShortSideFitLongSideTiebreak, "BSSF_BLSF", "BestShortSideFitLongSideTiebreak"},
	{BestLongSideFitShortSideTiebreak, "BLSF_BSSF", "BestLongSideFitShortSideTiebreak"},
	{BestShortSideFitSquare, "BSSF_SQR", "BestShortSideFitSquare"},
	{BestLongSideFitSquare, "BLSF_SQR", "BestLongSideFitSquare"},
	{BestShortSideFitAreaTiebreakSquare, "BSSF_BAF_SQR", "BestShortSideFitAreaTiebreakSquare"},
	{BestLongSideFitAreaTiebreakSquare, "BLSF_BAF_SQR", "BestLongSideFitAreaTiebreakSquare"},
	{BestShortSideFitLongSideTiebreakSquare, "BSSF_BLSF_SQR", "BestShortSideFitLongSideTiebreakSquare"},
	{BestLongSideFitShortSideTiebreakSquare, "BLSF_BSSF_SQR", "BestLongSideFitShortSideTiebreakSquare"},
}

// ErrInvalidHeuristic is returned when a heuristic name or value is unknown.
var ErrInvalidHeuristic = errors.New("invalid heuristic")

// Heuristics returns every supported heuristic.
func Heuristics() []Heuristic {
	all := make([]Heuristic, len(heuristics))
	for i, e := range heuristics {
		all[i] = e.h
	}
	return all
}

// Valid reports whether h is one of the supported heuristics.
func (h Heuristic) Valid() bool {
	for _, e := range heuristics {
		if e.h == h {
			return true
		}
	}
	return false
}

// Square reports whether the square-footprint penalty applies.
func (h Heuristic) Square() bool {
	return h&squareFlag != 0
}

// String returns the short name, e.g. "BSSF_BAF_SQR".
func (h Heuristic) String() string {
	for _, e := range heuristics {
		if e.h == h {
			return e.short
		}
	}
	return "Heuristic(" + strconv.Itoa(int(h)) + ")"
}

// ParseHeuristic resolves a short name ("BAF_BSSF") or a constant name
// ("BestAreaFitShortSideTiebreak"), ignoring case.
func ParseHeuristic(name string) (Heuristic, error) {
	for _, e := range heuristics {
		if strings.EqualFold(name, e.short) || strings.EqualFold(name, e.long) {
			return e.h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidHeuristic, name)
}

// score rates placing a width x height rectangle at the origin of free.
// Lower is better, compared as (primary, tiebreak). The rectangle must fit.
func (h Heuristic) score(free Rect, width, height int) (primary, tiebreak int) {
	leftoverHoriz := abs(free.Width - width)
	leftoverVert := abs(free.Height - height)
	metric := func(m Heuristic) int {
		switch m {
		case fitArea:
			return free.Width*free.Height - width*height
		case fitShort:
			return min(leftoverHoriz, leftoverVert)
		case fitLong:
			return max(leftoverHoriz, leftoverVert)
		}
		return 0
	}
	primary = metric(h & primaryMask)
	tiebreak = metric((h & tiebreakMask) >> 4)
	if h.Square() {
		primary += int(math.Round(float64(max(free.X, free.Y)) * squareWeight))
	}
	return primary, tiebreak
}
