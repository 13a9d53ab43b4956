package model

import (
	"strconv"
	"time"
)

// AnswerSet maps question ids to raw ordinal answer values. Keys are the
// decimal question id (Mongo map keys must be strings). The set is sparse
// and grows monotonically while a session is in progress.
type AnswerSet map[string]int

// Get returns the raw value recorded for a question id.
func (a AnswerSet) Get(questionID int) (int, bool) {
	v, ok := a[strconv.Itoa(questionID)]
	return v, ok
}

// Has reports whether a question id has a recorded answer.
func (a AnswerSet) Has(questionID int) bool {
	_, ok := a[strconv.Itoa(questionID)]
	return ok
}

// Set records a raw value for a question id, overwriting any previous value.
func (a AnswerSet) Set(questionID, value int) {
	a[strconv.Itoa(questionID)] = value
}

// Values returns the raw values in the set, in no particular order.
func (a AnswerSet) Values() []int {
	values := make([]int, 0, len(a))
	for _, v := range a {
		values = append(values, v)
	}
	return values
}

// Session is one respondent's attempt at the questionnaire.
type Session struct {
	ID string `json:"id" bson:"_id,omitempty"`

	// QuestionOrder is a permutation of all question ids, generated once on
	// the first answer and immutable afterwards.
	QuestionOrder []int `json:"questionOrder" bson:"questionOrder"`

	// CurrentIndex points into QuestionOrder; -1 until the first answer.
	// The stored value is a hint: the resume position is reconciled against
	// the answer set on every read.
	CurrentIndex int `json:"currentIndex" bson:"currentIndex"`

	Answers          AnswerSet       `json:"answers" bson:"answers"`
	CalculatedResult *ComputedResult `json:"calculatedResult,omitempty" bson:"calculatedResult,omitempty"`
	IsSyntheticRun   bool            `json:"isSyntheticRun" bson:"isSyntheticRun"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
