package domain

// RandomSource yields uniformly distributed integers in [0, n).
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// NextRequest holds the inputs of NextIndex.
type NextRequest struct {
	Current        int
	Length         int
	Shuffle        bool
	Repeat         RepeatMode
	TriggeredByEnd bool
}

// NextIndex computes the index to move to after the current track.
// The boolean is false when playback cannot continue.
//
// A manual skip past the last track always wraps. A natural end on the last
// track wraps only under RepeatAll.
func NextIndex(req NextRequest, rnd RandomSource) (int, bool) {
	if req.Length <= 0 {
		return NoIndex, false
	}
	if req.Shuffle {
		return PickRandomExcluding(rnd, req.Length, req.Current), true
	}

	if req.Current < req.Length-1 {
		return req.Current + 1, true
	}

	if req.TriggeredByEnd {
		if req.Repeat == RepeatAll {
			return 0, true
		}
		return NoIndex, false
	}

	return 0, true
}

// PreviousIndex computes the index to move to before the current track.
// Index 0 wraps to the last track.
func PreviousIndex(current, length int, shuffle bool, rnd RandomSource) (int, bool) {
	if length <= 0 {
		return current, false
	}
	if shuffle {
		return PickRandomExcluding(rnd, length, current), true
	}
	if length == 1 {
		return current, true
	}
	if current <= 0 {
		return length - 1, true
	}
	return current - 1, true
}

// PickRandomExcluding picks a uniform index in [0, length) other than exclude.
// With a single track it returns exclude itself.
func PickRandomExcluding(rnd RandomSource, length, exclude int) int {
	if length <= 1 {
		return exclude
	}
	if exclude < 0 || exclude >= length {
		return rnd.IntN(length)
	}

	// Draw from the length-1 remaining slots and skip over the excluded one.
	n := rnd.IntN(length - 1)
	if n >= exclude {
		n++
	}
	return n
}
