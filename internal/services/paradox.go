package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/kairoslabs/kairos-backend/internal/consciousness"
	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/envutil"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

const (
	minParadoxRunes = 10
	maxParadoxRunes = 500

	impactFloor = 0.02
	impactSpan  = 0.05
)

// SubmitInput is one user paradox submission.
type SubmitInput struct {
	PlatformID int64
	Username   string
	Paradox    string
}

// SubmitResult is the outcome of an accepted submission.
type SubmitResult struct {
	Accepted          bool               `json:"accepted"`
	Impact            float64            `json:"impact"`
	ObservedConfusion float64            `json:"observedConfusion"`
	Zone              consciousness.Zone `json:"zone"`
	Response          string             `json:"response,omitempty"`
	Achievements      []string           `json:"achievements,omitempty"`
}

// ParadoxService runs the submission pipeline: validate, dispatch to
// the agent, then fold the submission into stats and the leaderboard.
// Stats and leaderboard are only touched after a successful dispatch.
type ParadoxService interface {
	Submit(ctx context.Context, in SubmitInput) (SubmitResult, error)
}

type paradoxService struct {
	sessions    SessionService
	engagement  EngagementService
	leaderboard LeaderboardService
	state       StateService
	agent       agentDispatcher
	log         *logger.Logger

	randFloat func() float64
	now       func() time.Time
	replyWait time.Duration
	replyScan int
}

// agentDispatcher is the slice of the agent client the pipeline needs.
type agentDispatcher interface {
	PostMessage(ctx context.Context, sessionID, content string, metadata map[string]string) error
	LatestAgentReply(ctx context.Context, sessionID string, limit int) (string, bool, error)
}

type ParadoxOption func(*paradoxService)

// WithImpactSource overrides the uniform random source behind impact
// estimates.
func WithImpactSource(fn func() float64) ParadoxOption {
	return func(s *paradoxService) { s.randFloat = fn }
}

// WithParadoxClock overrides the pipeline's time source.
func WithParadoxClock(now func() time.Time) ParadoxOption {
	return func(s *paradoxService) { s.now = now }
}

// WithReplyWait overrides how long the pipeline waits before its single
// reply poll. Zero disables polling.
func WithReplyWait(d time.Duration) ParadoxOption {
	return func(s *paradoxService) { s.replyWait = d }
}

func NewParadoxService(
	sessions SessionService,
	engagementSvc EngagementService,
	leaderboardSvc LeaderboardService,
	stateSvc StateService,
	dispatcher agentDispatcher,
	log *logger.Logger,
	opts ...ParadoxOption,
) ParadoxService {
	s := &paradoxService{
		sessions:    sessions,
		engagement:  engagementSvc,
		leaderboard: leaderboardSvc,
		state:       stateSvc,
		agent:       dispatcher,
		log:         log.With("service", "ParadoxService"),
		randFloat:   rand.Float64,
		now:         time.Now,
		replyWait:   envutil.Duration("AGENT_REPLY_WAIT", 0),
		replyScan:   envutil.Int("AGENT_REPLY_SCAN", 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *paradoxService) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	if err := validateSubmission(in); err != nil {
		return SubmitResult{}, err
	}

	sessionID, _, err := s.sessions.Ensure(ctx, in.PlatformID)
	if err != nil {
		if apierr.Is(err, apierr.CodeAgentRejected) {
			return SubmitResult{}, err
		}
		return SubmitResult{}, apierr.New(http.StatusBadGateway, apierr.CodeDispatchFailed,
			fmt.Errorf("session unavailable: %w", err))
	}

	impact := impactFloor + s.randFloat()*impactSpan
	submittedAt := s.now().UTC()

	metadata := map[string]string{
		"fid":       fmt.Sprintf("%d", in.PlatformID),
		"type":      "paradox",
		"source":    "engagement-engine",
		"timestamp": submittedAt.Format(time.RFC3339),
	}
	if err := s.agent.PostMessage(ctx, sessionID, in.Paradox, metadata); err != nil {
		if apierr.Is(err, apierr.CodeAgentRejected) {
			return SubmitResult{}, err
		}
		s.sessions.Invalidate(in.PlatformID)
		return SubmitResult{}, apierr.New(http.StatusBadGateway, apierr.CodeDispatchFailed,
			fmt.Errorf("dispatch failed: %w", err))
	}

	snap := s.state.Current(ctx)
	observed := snap.Confusion + impact
	if observed > 1 {
		observed = 1
	}

	_, granted, err := s.engagement.Record(ctx, RecordInput{
		PlatformID:        in.PlatformID,
		Username:          in.Username,
		Impact:            impact,
		ObservedConfusion: observed,
		Now:               submittedAt,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("record engagement: %w", err)
	}
	if err := s.leaderboard.Upsert(ctx, in.PlatformID, in.Username, impact); err != nil {
		return SubmitResult{}, fmt.Errorf("update leaderboard: %w", err)
	}

	result := SubmitResult{
		Accepted:          true,
		Impact:            impact,
		ObservedConfusion: observed,
		Zone:              consciousness.ClassifyConfusion(observed),
		Achievements:      granted,
	}

	if s.replyWait > 0 {
		result.Response = s.pollReply(ctx, sessionID)
	}
	return result, nil
}

// pollReply waits once and asks for the most recent agent turn. Missing
// replies and poll errors are not submission failures.
func (s *paradoxService) pollReply(ctx context.Context, sessionID string) string {
	select {
	case <-ctx.Done():
		return ""
	case <-time.After(s.replyWait):
	}
	reply, ok, err := s.agent.LatestAgentReply(ctx, sessionID, s.replyScan)
	if err != nil {
		s.log.Debug("reply poll failed", "session_id", sessionID, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return reply
}

func validateSubmission(in SubmitInput) error {
	if in.PlatformID <= 0 {
		return apierr.New(http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("fid must be a positive integer"))
	}
	if in.Username == "" {
		return apierr.New(http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("username is required"))
	}
	length := utf8.RuneCountInString(in.Paradox)
	if length < minParadoxRunes {
		return apierr.New(http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("paradox too short: %d characters, minimum is %d", length, minParadoxRunes))
	}
	if length > maxParadoxRunes {
		return apierr.New(http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("paradox too long: %d characters, maximum is %d", length, maxParadoxRunes))
	}
	return nil
}
