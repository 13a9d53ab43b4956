package service

import (
	"context"
	"log"
	"time"

	"wellscreen/internal/cache"
	"wellscreen/internal/catalog"
	"wellscreen/internal/model"
	"wellscreen/internal/repository"
	"wellscreen/internal/scoring"
)

// ResultService serves computed results to downstream consumers (dashboards,
// document generators, notification senders). Reads go through the Redis
// cache; the persisted session record stays authoritative, and results that
// fail the validity check are recomputed rather than trusted.
type ResultService struct {
	repo       repository.SessionRepo
	cache      cache.ResultCache
	catalog    *catalog.Catalog
	calculator *scoring.Calculator
	notifier   Notifier
}

// NewResultService creates a new result service.
func NewResultService(repo repository.SessionRepo, resultCache cache.ResultCache, cat *catalog.Catalog) *ResultService {
	return &ResultService{
		repo:       repo,
		cache:      resultCache,
		catalog:    cat,
		calculator: scoring.NewCalculator(cat),
	}
}

// SetNotifier sets the notifier for dashboard events.
func (s *ResultService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Get returns the computed result for a session, computing and caching it on
// first read or when the stored copy fails the validity check.
func (s *ResultService) Get(ctx context.Context, sessionID string) (*model.ComputedResult, error) {
	if cached, err := s.cache.Get(ctx, sessionID); err != nil {
		log.Printf("session %s: result cache read failed: %v", sessionID, err)
	} else if cached != nil && !scoring.ShouldRecompute(cached, s.catalog) {
		return cached, nil
	}

	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !scoring.ShouldRecompute(sess.CalculatedResult, s.catalog) {
		s.cacheResult(ctx, sessionID, sess.CalculatedResult)
		return sess.CalculatedResult, nil
	}

	return s.recompute(ctx, sess)
}

// Recalculate forces recomputation regardless of cache state. Administrative
// repair operation for sessions carrying legacy or garbled results.
func (s *ResultService) Recalculate(ctx context.Context, sessionID string) (*model.ComputedResult, error) {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.recompute(ctx, sess)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyDashboard("result_recalculated", map[string]interface{}{
			"sessionId": sessionID,
			"scale":     result.Scale,
		})
	}
	return result, nil
}

// recompute scores the current answer set, persists it, and refreshes the
// cache. The session's completion state is never touched here; only answering
// the final question or an explicit finish completes a session.
func (s *ResultService) recompute(ctx context.Context, sess *model.Session) (*model.ComputedResult, error) {
	result := s.calculator.Compute(sess.Answers)
	result.ComputedAt = time.Now().UTC()

	if err := s.repo.SetComputedResult(ctx, sess.ID, result, time.Time{}); err != nil {
		return nil, err
	}

	s.cacheResult(ctx, sess.ID, result)
	return result, nil
}

func (s *ResultService) cacheResult(ctx context.Context, sessionID string, result *model.ComputedResult) {
	if err := s.cache.Set(ctx, sessionID, result); err != nil {
		log.Printf("session %s: result cache write failed: %v", sessionID, err)
	}
}
