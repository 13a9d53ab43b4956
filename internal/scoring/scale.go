// Package scoring turns a sparse answer set into normalized per-program
// percentage scores with severity bands. All functions are pure: the same
// answer set always produces the same result.
package scoring

import "wellscreen/internal/model"

// DetectScale infers whether raw values were collected on the 0-5 or 1-6
// ordinal scale. A value of 0 can only occur on the 0-5 scale and a 6 only
// on the 1-6 scale; when both signals are present the 6 wins, and a set with
// neither (all mid-range values) defaults to 1-6.
//
// The heuristic is evaluated fresh over the whole current answer set on every
// computation, never fixed per session.
func DetectScale(values []int) model.Scale {
	sawZero := false
	for _, v := range values {
		switch {
		case v == 6:
			return model.ScaleOneToSix
		case v == 0:
			sawZero = true
		}
	}
	if sawZero {
		return model.ScaleZeroToFive
	}
	return model.ScaleOneToSix
}
