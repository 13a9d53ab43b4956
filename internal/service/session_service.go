package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"wellscreen/internal/catalog"
	"wellscreen/internal/model"
	"wellscreen/internal/progress"
	"wellscreen/internal/repository"
	"wellscreen/internal/scoring"
)

// SessionService owns the questionnaire-taking flow: session creation,
// answer recording with idempotent advancement, back-navigation, and the
// completion trigger.
type SessionService struct {
	repo       repository.SessionRepo
	catalog    *catalog.Catalog
	calculator *scoring.Calculator
	notifier   Notifier
}

// NewSessionService creates a new session service.
func NewSessionService(repo repository.SessionRepo, cat *catalog.Catalog) *SessionService {
	return &SessionService{
		repo:       repo,
		catalog:    cat,
		calculator: scoring.NewCalculator(cat),
	}
}

// SetNotifier sets the notifier for dashboard events.
func (s *SessionService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start creates a new session. The question order is not generated here; it
// appears with the first answer.
func (s *SessionService) Start(ctx context.Context, synthetic bool) (*model.Session, error) {
	sess := &model.Session{
		ID:             uuid.NewString(),
		CurrentIndex:   -1,
		Answers:        model.AnswerSet{},
		IsSyntheticRun: synthetic,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session with its current index reconciled against the answer
// set. A stale stored index is healed in the returned value and repaired in
// the store best-effort.
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.heal(ctx, sess)
	return sess, nil
}

// RecordAnswer records a raw answer value for a question and advances the
// session. Re-submitting an answer for a question other than the one at the
// current position overwrites the value without moving the index.
func (s *SessionService) RecordAnswer(ctx context.Context, id string, questionID, value int) (*model.Session, error) {
	if !s.catalog.HasQuestion(questionID) {
		return nil, fmt.Errorf("%w: unknown question id %d", model.ErrInvalidInput, questionID)
	}

	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// First answer: generate and persist the order, index 0. Never
	// regenerated afterwards; doing so would invalidate index semantics.
	if len(sess.QuestionOrder) == 0 {
		order := progress.NewOrder(s.catalog.QuestionIDs())
		if err := s.repo.SetOrder(ctx, id, order); err != nil {
			return nil, err
		}
		sess.QuestionOrder = order
		sess.CurrentIndex = 0
	}

	current := progress.Reconcile(sess.QuestionOrder, sess.CurrentIndex, sess.Answers)
	if current < 0 {
		current = 0
	}

	if err := s.repo.AppendAnswer(ctx, id, questionID, value); err != nil {
		return nil, err
	}
	sess.Answers.Set(questionID, value)

	if progress.ShouldAdvance(sess.QuestionOrder, current, questionID) {
		next := current + 1
		if err := s.repo.SetCurrentIndex(ctx, id, next); err != nil {
			// Tolerated: the resume position is recomputed from the
			// answer set on the next read.
			log.Printf("session %s: index update failed after answer: %v", id, err)
		} else {
			current = next
		}
	}
	sess.CurrentIndex = current

	s.notify(sess, "session_progress", map[string]interface{}{
		"sessionId":    sess.ID,
		"answered":     len(sess.Answers),
		"currentIndex": sess.CurrentIndex,
	})

	if sess.CompletedAt == nil && progress.IsComplete(sess) {
		if err := s.finalize(ctx, sess); err != nil {
			return nil, err
		}
	}

	return sess, nil
}

// ImportAnswers merges a loosely-shaped legacy answer payload (map or array)
// into the session. Values are coerced leniently; a wrong-shaped payload is
// rejected as a whole. Keys that are not catalog question ids are skipped.
func (s *SessionService) ImportAnswers(ctx context.Context, id string, raw interface{}) (*model.Session, error) {
	parsed, err := scoring.ParseAnswerSet(raw)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(sess.QuestionOrder) == 0 && len(parsed) > 0 {
		order := progress.NewOrder(s.catalog.QuestionIDs())
		if err := s.repo.SetOrder(ctx, id, order); err != nil {
			return nil, err
		}
		sess.QuestionOrder = order
		sess.CurrentIndex = 0
	}

	for key, value := range parsed {
		qid, err := strconv.Atoi(key)
		if err != nil || !s.catalog.HasQuestion(qid) {
			log.Printf("session %s: skipping imported answer for unknown question %q", id, key)
			continue
		}
		if err := s.repo.AppendAnswer(ctx, id, qid, value); err != nil {
			return nil, err
		}
		sess.Answers.Set(qid, value)
	}

	// Resume at the first unanswered question after the merge.
	reconciled := progress.Reconcile(sess.QuestionOrder, -1, sess.Answers)
	if reconciled >= 0 && reconciled != sess.CurrentIndex {
		if err := s.repo.SetCurrentIndex(ctx, id, reconciled); err != nil {
			log.Printf("session %s: index update failed after import: %v", id, err)
		} else {
			sess.CurrentIndex = reconciled
		}
	}

	if sess.CompletedAt == nil && progress.IsComplete(sess) {
		if err := s.finalize(ctx, sess); err != nil {
			return nil, err
		}
	}

	return sess, nil
}

// Previous moves the session back one question so the prior answer can be
// revisited and overwritten. The answer set is never mutated here. The index
// floors at 0.
func (s *SessionService) Previous(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current := progress.Reconcile(sess.QuestionOrder, sess.CurrentIndex, sess.Answers)
	if current <= 0 {
		sess.CurrentIndex = current
		return sess, nil
	}

	current--
	if err := s.repo.SetCurrentIndex(ctx, id, current); err != nil {
		return nil, err
	}
	sess.CurrentIndex = current
	return sess, nil
}

// Finish is the explicit completion signal. It refuses unless every question
// is answered, except for synthetic runs, which may finish at any point and
// score whatever is present.
func (s *SessionService) Finish(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.CompletedAt != nil {
		return sess, nil
	}
	if !progress.IsComplete(sess) && !sess.IsSyntheticRun {
		return nil, fmt.Errorf("%w: session %s has unanswered questions", model.ErrInvalidInput, id)
	}

	if err := s.finalize(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Status computes the three-way completion label. Recomputed on every call,
// never stored.
func (s *SessionService) Status(ctx context.Context, id string) (progress.Status, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return progress.ClassifyStatus(sess, time.Now()), nil
}

// finalize computes the result and persists it with the completion timestamp.
func (s *SessionService) finalize(ctx context.Context, sess *model.Session) error {
	result := s.calculator.Compute(sess.Answers)
	completedAt := time.Now().UTC()
	result.ComputedAt = completedAt

	if err := s.repo.SetComputedResult(ctx, sess.ID, result, completedAt); err != nil {
		return err
	}
	sess.CalculatedResult = result
	sess.CompletedAt = &completedAt

	s.notify(sess, "session_completed", map[string]interface{}{
		"sessionId":   sess.ID,
		"completedAt": completedAt,
		"scale":       result.Scale,
	})
	return nil
}

func (s *SessionService) heal(ctx context.Context, sess *model.Session) {
	reconciled := progress.Reconcile(sess.QuestionOrder, sess.CurrentIndex, sess.Answers)
	if reconciled == sess.CurrentIndex {
		return
	}
	log.Printf("session %s: stale index %d, resuming at %d", sess.ID, sess.CurrentIndex, reconciled)
	sess.CurrentIndex = reconciled
	if reconciled >= 0 {
		if err := s.repo.SetCurrentIndex(ctx, sess.ID, reconciled); err != nil {
			log.Printf("session %s: index repair failed: %v", sess.ID, err)
		}
	}
}

func (s *SessionService) notify(sess *model.Session, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyDashboard(event, payload)
	s.notifier.NotifySession(sess.ID, event, payload)
}
