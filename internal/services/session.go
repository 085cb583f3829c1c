package services

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/kairoslabs/kairos-backend/internal/clients/agent"
	"github.com/kairoslabs/kairos-backend/internal/identity"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// SessionService guarantees at most one live agent session per user.
// Repeated calls for the same platform id return the cached session;
// concurrent first calls collapse into a single create.
type SessionService interface {
	Ensure(ctx context.Context, platformID int64) (sessionID string, userID uuid.UUID, err error)

	// Invalidate drops the cached session so the next Ensure re-creates it.
	Invalidate(platformID int64)
}

type sessionService struct {
	agent agent.Client
	log   *logger.Logger

	mu       sync.RWMutex
	sessions map[int64]string
	group    singleflight.Group
}

func NewSessionService(agentClient agent.Client, log *logger.Logger) SessionService {
	return &sessionService{
		agent:    agentClient,
		log:      log.With("service", "SessionService"),
		sessions: make(map[int64]string),
	}
}

func (s *sessionService) Ensure(ctx context.Context, platformID int64) (string, uuid.UUID, error) {
	userID := identity.Resolve(platformID)

	s.mu.RLock()
	cached, ok := s.sessions[platformID]
	s.mu.RUnlock()
	if ok {
		return cached, userID, nil
	}

	key := strconv.FormatInt(platformID, 10)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		s.mu.RLock()
		existing, ok := s.sessions[platformID]
		s.mu.RUnlock()
		if ok {
			return existing, nil
		}

		sessionID, err := s.agent.EnsureSession(ctx, userID, platformID)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.sessions[platformID] = sessionID
		s.mu.Unlock()
		s.log.Debug("created agent session", "fid", platformID, "session_id", sessionID)
		return sessionID, nil
	})
	if err != nil {
		return "", userID, err
	}
	return result.(string), userID, nil
}

func (s *sessionService) Invalidate(platformID int64) {
	s.mu.Lock()
	delete(s.sessions, platformID)
	s.mu.Unlock()
}
