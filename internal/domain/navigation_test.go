package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRandom returns queued values in order, then repeats the last one.
type fixedRandom struct {
	values []int
	calls  []int
}

func (f *fixedRandom) IntN(n int) int {
	f.calls = append(f.calls, n)
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[0]
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v % n
}

func TestNextIndex_Sequential(t *testing.T) {
	for length := 2; length <= 6; length++ {
		for i := 0; i < length-1; i++ {
			for _, repeat := range []RepeatMode{RepeatOff, RepeatAll, RepeatOne} {
				for _, byEnd := range []bool{false, true} {
					got, ok := NextIndex(NextRequest{Current: i, Length: length, Repeat: repeat, TriggeredByEnd: byEnd}, nil)
					require.True(t, ok)
					assert.Equal(t, i+1, got)
				}
			}
		}
	}
}

func TestNextIndex_LastTrack(t *testing.T) {
	tests := []struct {
		name   string
		repeat RepeatMode
		byEnd  bool
		want   int
		wantOK bool
	}{
		{"manual skip with repeat off wraps", RepeatOff, false, 0, true},
		{"manual skip with repeat one wraps", RepeatOne, false, 0, true},
		{"manual skip with repeat all wraps", RepeatAll, false, 0, true},
		{"natural end with repeat all wraps", RepeatAll, true, 0, true},
		{"natural end with repeat off stops", RepeatOff, true, NoIndex, false},
		{"natural end with repeat one stops", RepeatOne, true, NoIndex, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextIndex(NextRequest{Current: 2, Length: 3, Repeat: tt.repeat, TriggeredByEnd: tt.byEnd}, nil)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextIndex_EmptyList(t *testing.T) {
	got, ok := NextIndex(NextRequest{Current: 0, Length: 0, Shuffle: true, Repeat: RepeatAll}, &fixedRandom{})
	assert.False(t, ok)
	assert.Equal(t, NoIndex, got)
}

func TestNextIndex_Shuffle(t *testing.T) {
	rnd := &fixedRandom{values: []int{1}}

	got, ok := NextIndex(NextRequest{Current: 0, Length: 4, Shuffle: true, TriggeredByEnd: true}, rnd)
	require.True(t, ok)
	assert.Equal(t, 2, got) // slot 1 of the remaining [1 2 3] -> skips the excluded 0
	assert.Equal(t, []int{3}, rnd.calls)
}

func TestNextIndex_ShuffleSingleTrack(t *testing.T) {
	got, ok := NextIndex(NextRequest{Current: 0, Length: 1, Shuffle: true}, &fixedRandom{})
	require.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestPreviousIndex(t *testing.T) {
	tests := []struct {
		name    string
		current int
		length  int
		want    int
		wantOK  bool
	}{
		{"wraps at start", 0, 5, 4, true},
		{"steps back", 3, 5, 2, true},
		{"last to second last", 4, 5, 3, true},
		{"single track unchanged", 0, 1, 0, true},
		{"empty list unchanged", 0, 0, 0, false},
		{"empty list keeps no index", NoIndex, 0, NoIndex, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PreviousIndex(tt.current, tt.length, false, nil)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreviousIndex_Shuffle(t *testing.T) {
	rnd := &fixedRandom{values: []int{0}}

	got, ok := PreviousIndex(0, 3, true, rnd)
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestPickRandomExcluding_NeverReturnsExcluded(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))

	for length := 2; length <= 8; length++ {
		for exclude := 0; exclude < length; exclude++ {
			seen := make(map[int]bool)
			for i := 0; i < 200; i++ {
				got := PickRandomExcluding(rnd, length, exclude)
				require.NotEqual(t, exclude, got)
				require.GreaterOrEqual(t, got, 0)
				require.Less(t, got, length)
				seen[got] = true
			}
			assert.Len(t, seen, length-1, "every other index should be reachable")
		}
	}
}

func TestPickRandomExcluding_Deterministic(t *testing.T) {
	// Each raw draw from [0, length-1) maps onto the indexes around the excluded one.
	for draw, want := range []int{0, 1, 3, 4} {
		rnd := &fixedRandom{values: []int{draw}}
		assert.Equal(t, want, PickRandomExcluding(rnd, 5, 2))
	}
}

func TestPickRandomExcluding_EdgeCases(t *testing.T) {
	assert.Equal(t, 0, PickRandomExcluding(&fixedRandom{}, 1, 0))
	assert.Equal(t, NoIndex, PickRandomExcluding(&fixedRandom{}, 0, NoIndex))

	// An unset current index may land anywhere.
	rnd := &fixedRandom{values: []int{2}}
	assert.Equal(t, 2, PickRandomExcluding(rnd, 3, NoIndex))
	assert.Equal(t, []int{3}, rnd.calls)
}
