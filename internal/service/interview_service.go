package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsych/ophtheon/internal/cache"
	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/protocol"
	"github.com/opsych/ophtheon/internal/repository"
)

var ErrSessionNotFound = errors.New("session not found")

// InterviewService drives interview sessions through the protocol. Live
// sessions sit in the cache; a session that reaches completion is archived
// to MongoDB as well.
type InterviewService struct {
	machine       *protocol.Machine
	sessionCache  cache.SessionCache
	interviewRepo repository.InterviewRepo
	logger        *zap.Logger
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	machine *protocol.Machine,
	sessionCache cache.SessionCache,
	interviewRepo repository.InterviewRepo,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		machine:       machine,
		sessionCache:  sessionCache,
		interviewRepo: interviewRepo,
		logger:        logger,
	}
}

// Create starts a fresh session positioned at intake
func (s *InterviewService) Create(ctx context.Context) (*model.InterviewSession, error) {
	session := protocol.NewSession(uuid.New().String())
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.Info("interview created", zap.String("sessionId", session.ID))
	return session, nil
}

// Get loads a live session, falling back to the archive for completed
// interviews whose cache entry has expired.
func (s *InterviewService) Get(ctx context.Context, id string) (*model.InterviewSession, error) {
	session, err := s.sessionCache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session, err = s.interviewRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ListRecent returns the most recently archived interviews
func (s *InterviewService) ListRecent(ctx context.Context, limit int64) ([]*model.InterviewSession, error) {
	return s.interviewRepo.ListRecent(ctx, limit)
}

// Delete discards a session from both the cache and the archive
func (s *InterviewService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.sessionCache.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.interviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("interview deleted", zap.String("sessionId", id))
	return nil
}

// Advance applies the stage input and moves the session forward. A
// *protocol.ValidationError leaves the session untouched and is returned
// for the caller to surface; other errors are infrastructure failures.
func (s *InterviewService) Advance(ctx context.Context, id string, in *protocol.AdvanceInput) (*model.InterviewSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.machine.Advance(session, in); err != nil {
		return nil, err
	}

	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	if session.Stage == model.StageComplete {
		if err := s.interviewRepo.Save(ctx, session); err != nil {
			// The cache copy is authoritative for the live interview;
			// losing the archive write is logged, not fatal.
			s.logger.Error("failed to archive completed interview",
				zap.String("sessionId", session.ID), zap.Error(err))
		} else {
			s.logger.Info("interview complete", zap.String("sessionId", session.ID))
		}
	}
	return session, nil
}

// Back moves the session one stage backward
func (s *InterviewService) Back(ctx context.Context, id string) (*model.InterviewSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.machine.Back(session); err != nil {
		return nil, err
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Reset discards all progress and returns the session to intake under the
// same ID.
func (s *InterviewService) Reset(ctx context.Context, id string) (*model.InterviewSession, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	session := protocol.NewSession(id)
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.Info("interview reset", zap.String("sessionId", id))
	return session, nil
}

// Export serializes the finalized question set of a complete session
func (s *InterviewService) Export(ctx context.Context, id string) (string, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.machine.Export(session)
}
