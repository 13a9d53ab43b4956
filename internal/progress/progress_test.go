package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellscreen/internal/model"
)

func sequentialIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

func TestNewOrder_Permutation(t *testing.T) {
	ids := sequentialIDs(90)
	order := NewOrder(ids)

	require.Len(t, order, 90)
	seen := make(map[int]bool, len(order))
	for _, qid := range order {
		assert.False(t, seen[qid], "duplicate id %d", qid)
		seen[qid] = true
	}
	// Input untouched.
	assert.Equal(t, sequentialIDs(90), ids)
}

func TestNewOrder_Randomizes(t *testing.T) {
	ids := sequentialIDs(90)

	// Statistically almost certain to differ at least once across runs.
	first := NewOrder(ids)
	foundDifferent := false
	for i := 0; i < 10; i++ {
		next := NewOrder(ids)
		if !assert.ObjectsAreEqual(first, next) {
			foundDifferent = true
			break
		}
	}
	assert.True(t, foundDifferent, "expected orders to differ across generations")
}

func TestFirstUnanswered(t *testing.T) {
	order := []int{4, 2, 7, 1}

	answers := model.AnswerSet{}
	assert.Equal(t, 0, FirstUnanswered(order, answers))

	answers.Set(4, 3)
	answers.Set(2, 1)
	assert.Equal(t, 2, FirstUnanswered(order, answers))

	answers.Set(7, 5)
	answers.Set(1, 2)
	assert.Equal(t, 4, FirstUnanswered(order, answers))
}

func TestReconcile(t *testing.T) {
	order := []int{4, 2, 7, 1}

	answers := model.AnswerSet{}
	answers.Set(4, 3)

	// Stored index ran ahead of the answers: pulled back.
	assert.Equal(t, 1, Reconcile(order, 3, answers))

	// Stored index behind (back-navigation): kept.
	assert.Equal(t, 0, Reconcile(order, 0, answers))

	// Consistent index passes through.
	assert.Equal(t, 1, Reconcile(order, 1, answers))

	// Unset index with answers resumes at the first unanswered question.
	assert.Equal(t, 1, Reconcile(order, -1, answers))

	// No order yet.
	assert.Equal(t, -1, Reconcile(nil, 0, answers))

	// Unset index, no answers.
	assert.Equal(t, -1, Reconcile(order, -1, model.AnswerSet{}))

	// Everything answered: clamped to the last index.
	for _, qid := range order {
		answers.Set(qid, 1)
	}
	assert.Equal(t, 3, Reconcile(order, 10, answers))
}

func TestShouldAdvance(t *testing.T) {
	order := []int{4, 2, 7, 1}

	assert.True(t, ShouldAdvance(order, 0, 4))
	assert.False(t, ShouldAdvance(order, 0, 2), "answer for a non-current question must not advance")
	assert.False(t, ShouldAdvance(order, 1, 4), "re-submitted prior answer must not advance")
	assert.False(t, ShouldAdvance(order, 3, 1), "last question never advances")
	assert.False(t, ShouldAdvance(order, -1, 4))
}

func TestIsComplete(t *testing.T) {
	order := sequentialIDs(90)
	sess := &model.Session{
		QuestionOrder: order,
		CurrentIndex:  89,
		Answers:       model.AnswerSet{},
	}

	assert.False(t, IsComplete(sess))

	for _, qid := range order {
		sess.Answers.Set(qid, 3)
	}
	assert.True(t, IsComplete(sess))

	// Explicit completion timestamp suffices on its own.
	now := time.Now()
	assert.True(t, IsComplete(&model.Session{CompletedAt: &now, Answers: model.AnswerSet{}}))

	// No order yet can never be complete.
	assert.False(t, IsComplete(&model.Session{Answers: model.AnswerSet{}}))
}

func TestClassifyStatus_Complete(t *testing.T) {
	order := sequentialIDs(90)
	sess := &model.Session{
		QuestionOrder: order,
		CurrentIndex:  89,
		Answers:       model.AnswerSet{},
		CreatedAt:     time.Now().Add(-10 * time.Minute),
	}
	for _, qid := range order {
		sess.Answers.Set(qid, 2)
	}

	assert.Equal(t, StatusComplete, ClassifyStatus(sess, time.Now()))
}

func TestClassifyStatus_ThresholdFlip(t *testing.T) {
	created := time.Now()
	sess := &model.Session{
		QuestionOrder: sequentialIDs(90),
		CurrentIndex:  2,
		Answers:       model.AnswerSet{},
		CreatedAt:     created,
	}
	sess.Answers.Set(1, 1)
	sess.Answers.Set(2, 2)
	sess.Answers.Set(3, 3)

	assert.Equal(t, StatusInProgress, ClassifyStatus(sess, created.Add(10*time.Minute)))
	assert.Equal(t, StatusIncomplete, ClassifyStatus(sess, created.Add(AbandonAfter+time.Minute)))
}

func TestClassifyStatus_NoAnswers(t *testing.T) {
	sess := &model.Session{
		Answers:   model.AnswerSet{},
		CreatedAt: time.Now(),
	}
	assert.Equal(t, StatusIncomplete, ClassifyStatus(sess, time.Now()))
}
