package model

import (
	"strconv"
	"time"
)

// Scale is the ordinal range raw answers were recorded on.
type Scale string

const (
	ScaleZeroToFive Scale = "0-5"
	ScaleOneToSix   Scale = "1-6"
)

// Band is the severity label assigned to a normalized percentage.
type Band string

const (
	BandLow      Band = "low"
	BandMedium   Band = "medium"
	BandElevated Band = "elevated"
	BandHigh     Band = "high"
)

// ProgramScore is the computed outcome for one program (scored category).
type ProgramScore struct {
	Score         float64 `json:"score" bson:"score"`
	RawSum        int     `json:"rawScore" bson:"rawScore"`
	AnsweredCount int     `json:"answeredCount" bson:"answeredCount"`
	Band          Band    `json:"category" bson:"category"`
}

// ComputedResult is the normalized outcome of scoring one answer set.
// Scale carries the detected answer scale so consumers can assert on it
// instead of re-deriving the heuristic.
type ComputedResult struct {
	Scale      Scale                   `json:"scale" bson:"scale"`
	Programs   map[string]ProgramScore `json:"programs" bson:"programs"`
	ComputedAt time.Time               `json:"computedAt" bson:"computedAt"`
}

// Program returns the score entry for a program id.
func (r *ComputedResult) Program(programID int) (ProgramScore, bool) {
	ps, ok := r.Programs[strconv.Itoa(programID)]
	return ps, ok
}
