package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	// 10x8 region at the origin, 6x5 candidate: leftover 4 horizontally,
	// 3 vertically and 50 in area.
	free := NewRect(0, 0, 10, 8)
	tests := []struct {
		h        Heuristic
		primary  int
		tiebreak int
	}{
		{BestAreaFit, 50, 0},
		{BestShortSideFit, 3, 0},
		{BestLongSideFit, 4, 0},
		{BestAreaFitLongSideTiebreak, 50, 4},
		{BestAreaFitShortSideTiebreak, 50, 3},
		{BestShortSideFitAreaTiebreak, 3, 50},
		{BestLongSideFitAreaTiebreak, 4, 50},
		{BestShortSideFitLongSideTiebreak, 3, 4},
		{BestLongSideFitShortSideTiebreak, 4, 3},
		{BestShortSideFitSquare, 3, 0},
		{BestLongSideFitSquare, 4, 0},
		{BestShortSideFitAreaTiebreakSquare, 3, 50},
		{BestLongSideFitAreaTiebreakSquare, 4, 50},
		{BestShortSideFitLongSideTiebreakSquare, 3, 4},
		{BestLongSideFitShortSideTiebreakSquare, 4, 3},
	}
	require.Len(t, tests, len(Heuristics()))
	for _, tt := range tests {
		t.Run(tt.h.String(), func(t *testing.T) {
			primary, tiebreak := tt.h.score(free, 6, 5)
			assert.Equal(t, tt.primary, primary, "primary")
			assert.Equal(t, tt.tiebreak, tiebreak, "tiebreak")
		})
	}
}

func TestScoreSquarePenalty(t *testing.T) {
	free := NewRect(3, 7, 10, 8)

	primary, tiebreak := BestShortSideFitSquare.score(free, 6, 5)
	assert.Equal(t, 3+35, primary)
	assert.Equal(t, 0, tiebreak)

	primary, tiebreak = BestLongSideFitAreaTiebreakSquare.score(free, 6, 5)
	assert.Equal(t, 4+35, primary)
	assert.Equal(t, 50, tiebreak, "penalty only applies to the primary metric")

	primary, _ = BestShortSideFit.score(free, 6, 5)
	assert.Equal(t, 3, primary, "position does not matter without the flag")
}

func TestScoreLongSide(t *testing.T) {
	// Short and long side metrics must disagree here.
	free := NewRect(0, 0, 20, 10)
	short, _ := BestShortSideFit.score(free, 9, 9)
	long, _ := BestLongSideFit.score(free, 9, 9)
	assert.Equal(t, 1, short)
	assert.Equal(t, 11, long)
}

func TestHeuristicNames(t *testing.T) {
	all := Heuristics()
	assert.Len(t, all, 15)

	seen := make(map[Heuristic]bool)
	for _, h := range all {
		assert.True(t, h.Valid())
		assert.False(t, seen[h], "duplicate %v", h)
		seen[h] = true

		parsed, err := ParseHeuristic(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	}

	h, err := ParseHeuristic("bestareafitshortsidetiebreak")
	require.NoError(t, err)
	assert.Equal(t, BestAreaFitShortSideTiebreak, h)

	h, err = ParseHeuristic("blsf_bssf_sqr")
	require.NoError(t, err)
	assert.Equal(t, BestLongSideFitShortSideTiebreakSquare, h)
	assert.True(t, h.Square())
	assert.False(t, BestLongSideFitShortSideTiebreak.Square())
}

func TestHeuristicInvalid(t *testing.T) {
	_, err := ParseHeuristic("ContactPoint")
	assert.ErrorIs(t, err, ErrInvalidHeuristic)

	assert.False(t, Heuristic(0).Valid())
	assert.False(t, Heuristic(squareFlag).Valid())
	assert.False(t, (BestAreaFit | squareFlag).Valid())
	assert.Equal(t, "Heuristic(0)", Heuristic(0).String())
}

func TestParseSortFunc(t *testing.T) {
	for _, name := range SortNames() {
		fn, err := ParseSortFunc(name)
		require.NoError(t, err, name)
		if name == "none" {
			assert.Nil(t, fn)
		} else {
			assert.NotNil(t, fn)
		}
	}

	fn, err := ParseSortFunc("MaxSide")
	require.NoError(t, err)
	assert.Equal(t, -1, fn(NewSize(10, 2), NewSize(4, 4)), "larger side sorts first")

	_, err = ParseSortFunc("random")
	assert.ErrorIs(t, err, ErrInvalidSort)
}
