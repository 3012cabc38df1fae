package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsych/ophtheon/internal/cache"
	"github.com/opsych/ophtheon/internal/config"
	"github.com/opsych/ophtheon/internal/exam"
	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/question"
	"github.com/opsych/ophtheon/internal/repository"
	"github.com/opsych/ophtheon/internal/tts"
)

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrExamNotReady       = errors.New("exam narration not prepared")
	ErrExamNotRunning     = errors.New("exam not running")
	ErrExamAlreadyRunning = errors.New("exam already running")
)

// ExamService imports finalized question sets, prepares their narration
// timeline and drives timed runs. Cue delivery during a run goes through the
// broadcaster; the exam session itself lives in the cache and is archived
// when the run finishes.
type ExamService struct {
	examCache   cache.ExamCache
	examRepo    repository.ExamRepo
	synth       *tts.Client
	broadcaster Broadcaster
	cfg         config.Protocol
	logger      *zap.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewExamService creates a new exam service
func NewExamService(
	examCache cache.ExamCache,
	examRepo repository.ExamRepo,
	synth *tts.Client,
	cfg config.Protocol,
	logger *zap.Logger,
) *ExamService {
	return &ExamService{
		examCache: examCache,
		examRepo:  examRepo,
		synth:     synth,
		cfg:       cfg,
		logger:    logger,
		running:   make(map[string]context.CancelFunc),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ExamService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Import parses an interchange-format question set and stores the exam in
// preview state. Slots the text could not fill carry visible placeholders,
// so a defective import is still inspectable.
func (s *ExamService) Import(ctx context.Context, text string) (*model.ExamSession, error) {
	coreClaim, questions := question.Parse(text)

	examSession := &model.ExamSession{
		ID:        uuid.New().String(),
		Status:    model.ExamPreview,
		CoreClaim: coreClaim,
		Sequence:  exam.BuildSequence(questions),
		CreatedAt: time.Now(),
	}

	if err := s.examCache.Set(ctx, examSession); err != nil {
		return nil, fmt.Errorf("failed to store exam: %w", err)
	}
	s.logger.Info("exam imported",
		zap.String("examId", examSession.ID),
		zap.Int("items", len(examSession.Sequence)))
	return examSession, nil
}

// Get loads an exam session, falling back to the archive for finished runs
// whose cache entry has expired.
func (s *ExamService) Get(ctx context.Context, id string) (*model.ExamSession, error) {
	examSession, err := s.examCache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if examSession == nil {
		examSession, err = s.examRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	if examSession == nil {
		return nil, ErrExamNotFound
	}
	return examSession, nil
}

// ListRecent returns the most recently archived exam runs
func (s *ExamService) ListRecent(ctx context.Context, limit int64) ([]*model.ExamSession, error) {
	return s.examRepo.ListRecent(ctx, limit)
}

// Delete discards an exam from cache and archive. A running exam must be
// stopped first; any consoles still attached to the exam are disconnected.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	examSession, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if examSession.Status == model.ExamRunning {
		return ErrExamAlreadyRunning
	}
	if err := s.examCache.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.DisconnectExam(id)
	}
	s.logger.Info("exam deleted", zap.String("examId", id))
	return nil
}

// PrepareNarration synthesizes every utterance of the exam and lays them out
// on the timeline. A synthesis failure leaves the exam in preview state, so
// the call is retryable.
func (s *ExamService) PrepareNarration(ctx context.Context, id string) (*model.ExamSession, error) {
	examSession, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if examSession.Status == model.ExamRunning {
		return nil, ErrExamAlreadyRunning
	}

	opening, err := s.synthClip(ctx, exam.OpeningText(s.cfg.Baseline, s.cfg.Gap))
	if err != nil {
		return nil, err
	}
	closing, err := s.synthClip(ctx, exam.ClosingText())
	if err != nil {
		return nil, err
	}

	clips := make([]exam.Clip, 0, len(examSession.Sequence))
	for _, item := range examSession.Sequence {
		clip, err := s.synthClip(ctx, item.Text)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}

	examSession.Cues = exam.BuildSchedule(examSession.Sequence, clips, opening, closing, s.cfg.Baseline, s.cfg.Gap)
	examSession.Status = model.ExamReady

	if err := s.examCache.Set(ctx, examSession); err != nil {
		return nil, fmt.Errorf("failed to store exam: %w", err)
	}
	s.logger.Info("exam narration prepared",
		zap.String("examId", examSession.ID),
		zap.Int("cues", len(examSession.Cues)))
	return examSession, nil
}

func (s *ExamService) synthClip(ctx context.Context, text string) (exam.Clip, error) {
	clip, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return exam.Clip{}, fmt.Errorf("narration synthesis failed: %w", err)
	}
	return exam.Clip{Text: clip.Text, Duration: clip.Duration, AudioRef: clip.AudioB64}, nil
}

// Start launches the timed run. Cues are pushed over the websocket at their
// scheduled offsets; the call returns as soon as the run is underway.
func (s *ExamService) Start(ctx context.Context, id string) (*model.ExamSession, error) {
	examSession, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch examSession.Status {
	case model.ExamReady:
	case model.ExamRunning:
		return nil, ErrExamAlreadyRunning
	default:
		return nil, ErrExamNotReady
	}

	now := time.Now()
	examSession.Status = model.ExamRunning
	examSession.StartedAt = &now
	if err := s.examCache.Set(ctx, examSession); err != nil {
		return nil, fmt.Errorf("failed to store exam: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.running[examSession.ID] = cancel
	s.mu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToExam(examSession.ID, "exam_started", examSession)
	}
	go s.run(runCtx, *examSession)

	return examSession, nil
}

// Stop aborts a running exam before its schedule completes
func (s *ExamService) Stop(ctx context.Context, id string) error {
	s.mu.Lock()
	cancel, ok := s.running[id]
	s.mu.Unlock()
	if !ok {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return ErrExamNotRunning
	}
	cancel()
	return nil
}

// Shutdown cancels every in-flight run
func (s *ExamService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.running {
		cancel()
	}
}

// run walks the cue schedule in real time. It owns its own copy of the exam
// session; the cache is only written again when the run ends.
func (s *ExamService) run(ctx context.Context, examSession model.ExamSession) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("exam run panicked",
				zap.String("examId", examSession.ID), zap.Any("panic", r))
		}
		s.mu.Lock()
		delete(s.running, examSession.ID)
		s.mu.Unlock()
	}()

	start := time.Now()
	aborted := false

	for _, cue := range examSession.Cues {
		wait := time.Duration(cue.OffsetMS)*time.Millisecond - time.Since(start)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				aborted = true
			case <-timer.C:
			}
		}
		if aborted {
			break
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToExam(examSession.ID, "narration_cue", cue)
		}
	}

	if !aborted && len(examSession.Cues) > 0 {
		last := examSession.Cues[len(examSession.Cues)-1]
		tail := time.Duration(last.OffsetMS+last.DurationMS)*time.Millisecond - time.Since(start)
		if tail > 0 {
			timer := time.NewTimer(tail)
			select {
			case <-ctx.Done():
				timer.Stop()
				aborted = true
			case <-timer.C:
			}
		}
	}

	s.finish(&examSession, aborted)
}

func (s *ExamService) finish(examSession *model.ExamSession, aborted bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	examSession.Status = model.ExamFinished
	examSession.FinishedAt = &now

	if err := s.examCache.Set(ctx, examSession); err != nil {
		s.logger.Error("failed to store finished exam",
			zap.String("examId", examSession.ID), zap.Error(err))
	}
	if err := s.examRepo.Save(ctx, examSession); err != nil {
		s.logger.Error("failed to archive finished exam",
			zap.String("examId", examSession.ID), zap.Error(err))
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToExam(examSession.ID, "exam_finished", examSession)
	}
	s.logger.Info("exam finished",
		zap.String("examId", examSession.ID), zap.Bool("aborted", aborted))
}
