package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsych/ophtheon/internal/config"
	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/tts"
)

type memExamCache struct {
	mu    sync.Mutex
	exams map[string]*model.ExamSession
}

func newMemExamCache() *memExamCache {
	return &memExamCache{exams: make(map[string]*model.ExamSession)}
}

func (c *memExamCache) Set(ctx context.Context, exam *model.ExamSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := *exam
	c.exams[exam.ID] = &stored
	return nil
}

func (c *memExamCache) Get(ctx context.Context, id string) (*model.ExamSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exam, ok := c.exams[id]
	if !ok {
		return nil, nil
	}
	found := *exam
	return &found, nil
}

func (c *memExamCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.exams, id)
	return nil
}

type memExamRepo struct {
	mu    sync.Mutex
	exams map[string]*model.ExamSession
}

func newMemExamRepo() *memExamRepo {
	return &memExamRepo{exams: make(map[string]*model.ExamSession)}
}

func (r *memExamRepo) Save(ctx context.Context, exam *model.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *exam
	r.exams[exam.ID] = &stored
	return nil
}

func (r *memExamRepo) GetByID(ctx context.Context, id string) (*model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[id]
	if !ok {
		return nil, nil
	}
	found := *exam
	return &found, nil
}

func (r *memExamRepo) ListRecent(ctx context.Context, limit int64) ([]*model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exams := make([]*model.ExamSession, 0, len(r.exams))
	for _, exam := range r.exams {
		found := *exam
		exams = append(exams, &found)
	}
	return exams, nil
}

func (r *memExamRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exams, id)
	return nil
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	messages     []string
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToExam(examID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msgType)
}

func (b *recordingBroadcaster) DisconnectExam(examID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, examID)
}

func (b *recordingBroadcaster) disconnectedExams() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.disconnected...)
}

func newExamServiceForTest() (*ExamService, *memExamCache, *memExamRepo, *recordingBroadcaster) {
	examCache := newMemExamCache()
	examRepo := newMemExamRepo()
	broadcaster := &recordingBroadcaster{}
	synth := tts.NewClient(&config.TTSConfig{TimeoutMS: 1000}, nil)

	svc := NewExamService(examCache, examRepo, synth, config.Protocol{
		Baseline: 30 * time.Second,
		Gap:      15 * time.Second,
	}, zap.NewNop())
	svc.SetBroadcaster(broadcaster)
	return svc, examCache, examRepo, broadcaster
}

func finishedExam(id string) *model.ExamSession {
	now := time.Now()
	return &model.ExamSession{
		ID:         id,
		Status:     model.ExamFinished,
		CreatedAt:  now,
		FinishedAt: &now,
	}
}

func TestDeleteRemovesArchivedRun(t *testing.T) {
	svc, examCache, examRepo, broadcaster := newExamServiceForTest()
	ctx := context.Background()

	exam := finishedExam("exam-1")
	require.NoError(t, examCache.Set(ctx, exam))
	require.NoError(t, examRepo.Save(ctx, exam))

	require.NoError(t, svc.Delete(ctx, "exam-1"))

	_, err := svc.Get(ctx, "exam-1")
	assert.ErrorIs(t, err, ErrExamNotFound)
	assert.Contains(t, broadcaster.disconnectedExams(), "exam-1")
}

func TestDeleteReachesArchiveAfterCacheExpiry(t *testing.T) {
	svc, _, examRepo, _ := newExamServiceForTest()
	ctx := context.Background()

	// Only the archive still holds the run
	require.NoError(t, examRepo.Save(ctx, finishedExam("exam-2")))

	require.NoError(t, svc.Delete(ctx, "exam-2"))

	_, err := svc.Get(ctx, "exam-2")
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestDeleteRunningExamBlocked(t *testing.T) {
	svc, examCache, _, _ := newExamServiceForTest()
	ctx := context.Background()

	require.NoError(t, examCache.Set(ctx, &model.ExamSession{
		ID:        "exam-3",
		Status:    model.ExamRunning,
		CreatedAt: time.Now(),
	}))

	assert.ErrorIs(t, svc.Delete(ctx, "exam-3"), ErrExamAlreadyRunning)

	exam, err := svc.Get(ctx, "exam-3")
	require.NoError(t, err)
	assert.Equal(t, model.ExamRunning, exam.Status)
}

func TestStopDistinguishesIdleFromMissing(t *testing.T) {
	svc, examCache, _, _ := newExamServiceForTest()
	ctx := context.Background()

	require.NoError(t, examCache.Set(ctx, &model.ExamSession{
		ID:        "exam-4",
		Status:    model.ExamReady,
		CreatedAt: time.Now(),
	}))

	assert.ErrorIs(t, svc.Stop(ctx, "exam-4"), ErrExamNotRunning)
	assert.ErrorIs(t, svc.Stop(ctx, "missing"), ErrExamNotFound)
}
