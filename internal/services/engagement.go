package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kairoslabs/kairos-backend/internal/data/repos/engagement"
	types "github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/identity"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// streakWindow is the maximum gap between submissions that continues a
// streak. Anything longer resets the streak to one.
const streakWindow = 24 * time.Hour

// nearMeltdownThreshold is the highest-confusion level that earns the
// meltdown badge.
const nearMeltdownThreshold = 0.95

// RecordInput is one successfully dispatched submission to fold into a
// user's stats.
type RecordInput struct {
	PlatformID        int64
	Username          string
	Impact            float64
	ObservedConfusion float64
	Now               time.Time
}

// StatsView is the read model served to clients. Users who never
// submitted get the zero view rather than an error.
type StatsView struct {
	PlatformID         int64                 `json:"fid"`
	Username           string                `json:"username"`
	ParadoxesSubmitted int64                 `json:"paradoxesSubmitted"`
	TotalImpact        float64               `json:"totalImpact"`
	HighestConfusion   float64               `json:"highestConfusion"`
	CurrentStreak      int                   `json:"currentStreak"`
	LastSubmissionAt   *time.Time            `json:"lastSubmissionAt,omitempty"`
	Achievements       []types.AchievementID `json:"achievements"`
}

// EngagementService owns the streak and achievement state machine.
type EngagementService interface {
	// Record applies one dispatched submission, returning the updated
	// record and any badges granted by it.
	Record(ctx context.Context, in RecordInput) (*types.UserStats, []types.AchievementID, error)

	// Stats returns the read model for a platform id.
	Stats(ctx context.Context, platformID int64) (StatsView, error)
}

type engagementService struct {
	db            *gorm.DB
	repo          engagement.StatsRepo
	log           *logger.Logger
	onAchievement func(types.AchievementID)
}

type EngagementOption func(*engagementService)

// WithAchievementHook registers a callback fired once per badge grant.
func WithAchievementHook(fn func(types.AchievementID)) EngagementOption {
	return func(s *engagementService) { s.onAchievement = fn }
}

func NewEngagementService(db *gorm.DB, repo engagement.StatsRepo, log *logger.Logger, opts ...EngagementOption) EngagementService {
	s := &engagementService{
		db:   db,
		repo: repo,
		log:  log.With("service", "EngagementService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *engagementService) Record(ctx context.Context, in RecordInput) (*types.UserStats, []types.AchievementID, error) {
	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}

	var (
		updated *types.UserStats
		granted []types.AchievementID
	)
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		stats, err := s.repo.GetForUpdate(ctx, tx, in.PlatformID)
		if err != nil {
			return err
		}
		if stats == nil {
			stats = &types.UserStats{
				PlatformID: in.PlatformID,
				InternalID: identity.Resolve(in.PlatformID),
				CreatedAt:  in.Now,
			}
		}

		granted = applySubmission(stats, in)
		if err := s.repo.Save(ctx, tx, stats); err != nil {
			return err
		}
		updated = stats
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, id := range granted {
		s.log.Info("achievement granted", "fid", in.PlatformID, "achievement", id)
		if s.onAchievement != nil {
			s.onAchievement(id)
		}
	}
	return updated, granted, nil
}

func (s *engagementService) Stats(ctx context.Context, platformID int64) (StatsView, error) {
	stats, err := s.repo.Get(ctx, nil, platformID)
	if err != nil {
		return StatsView{}, err
	}
	if stats == nil {
		return StatsView{PlatformID: platformID, Achievements: []types.AchievementID{}}, nil
	}
	achievements := stats.AchievementList()
	if achievements == nil {
		achievements = []types.AchievementID{}
	}
	return StatsView{
		PlatformID:         stats.PlatformID,
		Username:           stats.Username,
		ParadoxesSubmitted: stats.ParadoxesSubmitted,
		TotalImpact:        stats.TotalImpact,
		HighestConfusion:   stats.HighestConfusion,
		CurrentStreak:      stats.CurrentStreak,
		LastSubmissionAt:   stats.LastSubmissionAt,
		Achievements:       achievements,
	}, nil
}

func (s *engagementService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// applySubmission folds one submission into the record and returns the
// badges it newly earned, in grant order.
func applySubmission(stats *types.UserStats, in RecordInput) []types.AchievementID {
	if stats.LastSubmissionAt != nil && in.Now.Sub(*stats.LastSubmissionAt) <= streakWindow {
		stats.CurrentStreak++
	} else {
		stats.CurrentStreak = 1
	}

	stats.ParadoxesSubmitted++
	stats.TotalImpact += in.Impact
	if in.ObservedConfusion > stats.HighestConfusion {
		stats.HighestConfusion = in.ObservedConfusion
	}
	stats.Username = in.Username
	now := in.Now
	stats.LastSubmissionAt = &now
	stats.UpdatedAt = in.Now

	var granted []types.AchievementID
	grant := func(id types.AchievementID, earned bool) {
		if earned && !stats.HasAchievement(id) {
			current := stats.AchievementList()
			stats.SetAchievements(append(current, id))
			granted = append(granted, id)
		}
	}
	grant(types.AchievementFirstParadox, stats.ParadoxesSubmitted == 1)
	grant(types.AchievementTenParadoxes, stats.ParadoxesSubmitted == 10)
	grant(types.AchievementCentury, stats.ParadoxesSubmitted == 100)
	grant(types.AchievementWeekStreak, stats.CurrentStreak == 7)
	grant(types.AchievementNearMeltdown, stats.HighestConfusion >= nearMeltdownThreshold)
	return granted
}
