// Package progress implements the session progress machine: question-order
// generation, resume-position reconciliation, idempotent advancement and the
// derived completion status used by dashboards.
package progress

import (
	"math/rand"
	"time"

	"wellscreen/internal/model"
)

// AbandonAfter is how long an incomplete session counts as in progress.
const AbandonAfter = 2 * time.Hour

// Status is the three-way completion label. It is recomputed on every read
// and never stored.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusInProgress Status = "in_progress"
	StatusIncomplete Status = "incomplete"
)

// NewOrder returns an unbiased random permutation of the given question ids.
// The input slice is not modified. The order is generated once per session
// and immutable once persisted.
func NewOrder(questionIDs []int) []int {
	order := make([]int, len(questionIDs))
	copy(order, questionIDs)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// FirstUnanswered returns the index of the first question in order without a
// recorded answer, or len(order) when every question is answered.
func FirstUnanswered(order []int, answers model.AnswerSet) int {
	for i, qid := range order {
		if !answers.Has(qid) {
			return i
		}
	}
	return len(order)
}

// Reconcile derives the effective current index from the stored index and the
// answer set. The stored index is a hint: the answer map and the index are
// written separately, so after a lost index write it can lag or run ahead.
// An index past the first unanswered question is pulled back to it; an index
// behind it (explicit back-navigation) is kept so the prior answer can be
// overwritten. Returns -1 for a session with no order yet.
func Reconcile(order []int, storedIndex int, answers model.AnswerSet) int {
	if len(order) == 0 {
		return -1
	}

	first := FirstUnanswered(order, answers)

	idx := storedIndex
	if idx < 0 {
		if len(answers) == 0 {
			return -1
		}
		idx = first
	}
	if first < idx {
		idx = first
	}
	if idx > len(order)-1 {
		idx = len(order) - 1
	}
	return idx
}

// ShouldAdvance reports whether answering questionID moves the index forward.
// Advancement is a function of "is this the currently-pointed-to question",
// not "was an answer received", which makes re-submitting the same answer
// idempotent. The last question never advances; completion takes over there.
func ShouldAdvance(order []int, currentIndex, questionID int) bool {
	if currentIndex < 0 || currentIndex >= len(order)-1 {
		return false
	}
	return order[currentIndex] == questionID
}

// IsComplete reports whether the session satisfies the completion predicate:
// an explicit completion timestamp, or an answer for every question in the
// persisted order.
func IsComplete(sess *model.Session) bool {
	if sess.CompletedAt != nil {
		return true
	}
	if len(sess.QuestionOrder) == 0 {
		return false
	}
	for _, qid := range sess.QuestionOrder {
		if !sess.Answers.Has(qid) {
			return false
		}
	}
	return true
}

// ClassifyStatus computes the three-way label for dashboards. A session is in
// progress while it has at least one answer and is younger than AbandonAfter;
// past that it counts as abandoned/incomplete.
func ClassifyStatus(sess *model.Session, now time.Time) Status {
	if IsComplete(sess) {
		return StatusComplete
	}
	if len(sess.Answers) > 0 && now.Sub(sess.CreatedAt) < AbandonAfter {
		return StatusInProgress
	}
	return StatusIncomplete
}
