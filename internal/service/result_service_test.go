package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellscreen/internal/model"
	"wellscreen/internal/progress"
)

// memCache is an in-memory ResultCache.
type memCache struct {
	results map[string]*model.ComputedResult
	sets    int
}

func newMemCache() *memCache {
	return &memCache{results: make(map[string]*model.ComputedResult)}
}

func (c *memCache) Set(_ context.Context, sessionID string, result *model.ComputedResult) error {
	c.sets++
	c.results[sessionID] = result
	return nil
}

func (c *memCache) Get(_ context.Context, sessionID string) (*model.ComputedResult, error) {
	return c.results[sessionID], nil
}

func (c *memCache) Delete(_ context.Context, sessionID string) error {
	delete(c.results, sessionID)
	return nil
}

func newTestResultService(t *testing.T) (*ResultService, *memRepo, *memCache) {
	t.Helper()
	repo := newMemRepo()
	resultCache := newMemCache()
	return NewResultService(repo, resultCache, smallCatalog(t)), repo, resultCache
}

func seedCompletedSession(t *testing.T, repo *memRepo) *model.Session {
	t.Helper()
	now := time.Now().UTC()
	created := now.Add(-time.Hour)
	answers := model.AnswerSet{}
	order := make([]int, 0, 10)
	for qid := 1; qid <= 10; qid++ {
		answers.Set(qid, 1+qid%5)
		order = append(order, qid)
	}
	sess := &model.Session{
		ID:            "sess-1",
		QuestionOrder: order,
		CurrentIndex:  9,
		Answers:       answers,
		CreatedAt:     created,
		CompletedAt:   &now,
	}
	require.NoError(t, repo.Create(context.Background(), sess))
	return sess
}

func TestResultGet_ComputesAndCachesLazily(t *testing.T) {
	svc, repo, resultCache := newTestResultService(t)
	ctx := context.Background()
	sess := seedCompletedSession(t, repo)

	result, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Programs, 2)
	assert.Equal(t, 1, repo.setResultCalls)
	assert.Equal(t, 1, resultCache.sets)

	// Persisted back onto the session with the completion timestamp kept.
	stored, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CalculatedResult)
	assert.Equal(t, sess.CompletedAt.Unix(), stored.CompletedAt.Unix())
}

func TestResultGet_CacheHitSkipsStore(t *testing.T) {
	svc, repo, _ := newTestResultService(t)
	ctx := context.Background()
	sess := seedCompletedSession(t, repo)

	first, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)

	// A second read is served from the cache: no new persistence.
	second, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Programs, second.Programs)
	assert.Equal(t, 1, repo.setResultCalls)
}

func TestResultGet_TrustsValidStoredResult(t *testing.T) {
	svc, repo, resultCache := newTestResultService(t)
	ctx := context.Background()
	sess := seedCompletedSession(t, repo)

	// Stored result is valid: no recomputation, only a cache refresh.
	valid := &model.ComputedResult{
		Scale: model.ScaleOneToSix,
		Programs: map[string]model.ProgramScore{
			"1": {Score: 40, Band: model.BandMedium},
			"2": {Score: 10, Band: model.BandLow},
		},
		ComputedAt: time.Now().UTC(),
	}
	repo.sessions[sess.ID].CalculatedResult = valid

	result, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, valid.Programs, result.Programs)
	assert.Equal(t, 0, repo.setResultCalls)
	assert.Equal(t, 1, resultCache.sets)
}

func TestResultGet_RecomputesGarbledResult(t *testing.T) {
	svc, repo, _ := newTestResultService(t)
	ctx := context.Background()
	sess := seedCompletedSession(t, repo)

	// Negative score: the signature of the historical calculation bug.
	repo.sessions[sess.ID].CalculatedResult = &model.ComputedResult{
		Scale: model.ScaleOneToSix,
		Programs: map[string]model.ProgramScore{
			"1": {Score: -35, Band: model.BandLow},
			"2": {Score: 10, Band: model.BandLow},
		},
	}

	result, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	for pid, ps := range result.Programs {
		assert.GreaterOrEqual(t, ps.Score, 0.0, "program %s", pid)
	}
	assert.Equal(t, 1, repo.setResultCalls)
}

func TestResultGet_DoesNotCompleteInProgressSession(t *testing.T) {
	svc, repo, _ := newTestResultService(t)
	ctx := context.Background()

	answers := model.AnswerSet{}
	order := make([]int, 0, 10)
	for qid := 1; qid <= 10; qid++ {
		if qid <= 3 {
			answers.Set(qid, 2)
		}
		order = append(order, qid)
	}
	sess := &model.Session{
		ID:            "inflight",
		QuestionOrder: order,
		CurrentIndex:  3,
		Answers:       answers,
		CreatedAt:     time.Now().UTC().Add(-10 * time.Minute),
	}
	require.NoError(t, repo.Create(ctx, sess))

	result, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	stored, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt, "a result read must not complete the session")
	assert.Equal(t, progress.StatusInProgress, progress.ClassifyStatus(stored, time.Now()))

	// Once abandoned, the session still reports incomplete even though its
	// result was read while in flight.
	repo.sessions[sess.ID].CreatedAt = time.Now().Add(-progress.AbandonAfter - time.Minute)
	aged, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusIncomplete, progress.ClassifyStatus(aged, time.Now()))
}

func TestResultGet_NotFound(t *testing.T) {
	svc, _, _ := newTestResultService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRecalculate_ForcesRecomputation(t *testing.T) {
	svc, repo, _ := newTestResultService(t)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	ctx := context.Background()
	sess := seedCompletedSession(t, repo)

	first, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.setResultCalls)

	// Valid cached and stored copies exist; recalculate ignores both.
	result, err := svc.Recalculate(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Programs, result.Programs)
	assert.Equal(t, 2, repo.setResultCalls)
	assert.Contains(t, notifier.events, "result_recalculated")
}

func TestResultGet_EmptySyntheticSession(t *testing.T) {
	svc, repo, _ := newTestResultService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	sess := &model.Session{
		ID:             "synthetic",
		CurrentIndex:   -1,
		Answers:        model.AnswerSet{},
		IsSyntheticRun: true,
		CreatedAt:      now.Add(-time.Minute),
		CompletedAt:    &now,
	}
	require.NoError(t, repo.Create(ctx, sess))

	result, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	for pid := 1; pid <= 2; pid++ {
		ps, ok := result.Programs[strconv.Itoa(pid)]
		require.True(t, ok)
		assert.Equal(t, 0.0, ps.Score)
		assert.Equal(t, model.BandLow, ps.Band)
	}

	// The trivial result is valid: the next read does not recompute.
	_, err = svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.setResultCalls)
}
