package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AchievementID identifies a one-time badge a user can earn. The values
// are the badges themselves as rendered by clients.
type AchievementID = string

const (
	AchievementFirstParadox AchievementID = "🎯"
	AchievementTenParadoxes AchievementID = "🏆"
	AchievementCentury      AchievementID = "💎"
	AchievementWeekStreak   AchievementID = "🔥"
	AchievementNearMeltdown AchievementID = "🚨"
)

// UserStats is the persistent per-user engagement record, keyed by the
// numeric platform id.
type UserStats struct {
	PlatformID         int64          `gorm:"column:platform_id;primaryKey" json:"fid"`
	InternalID         uuid.UUID      `gorm:"column:internal_id;type:uuid" json:"-"`
	Username           string         `gorm:"column:username" json:"username"`
	ParadoxesSubmitted int64          `gorm:"column:paradoxes_submitted" json:"paradoxesSubmitted"`
	TotalImpact        float64        `gorm:"column:total_impact" json:"totalImpact"`
	HighestConfusion   float64        `gorm:"column:highest_confusion" json:"highestConfusion"`
	CurrentStreak      int            `gorm:"column:current_streak" json:"currentStreak"`
	LastSubmissionAt   *time.Time     `gorm:"column:last_submission_at" json:"lastSubmissionAt,omitempty"`
	Achievements       datatypes.JSON `gorm:"column:achievements" json:"-"`
	CreatedAt          time.Time      `gorm:"column:created_at" json:"-"`
	UpdatedAt          time.Time      `gorm:"column:updated_at" json:"-"`
}

func (UserStats) TableName() string { return "user_stats" }

// AchievementList decodes the stored badge set, preserving grant order.
func (u *UserStats) AchievementList() []AchievementID {
	if len(u.Achievements) == 0 {
		return nil
	}
	var out []AchievementID
	if err := json.Unmarshal(u.Achievements, &out); err != nil {
		return nil
	}
	return out
}

// SetAchievements replaces the stored badge set.
func (u *UserStats) SetAchievements(ids []AchievementID) {
	if len(ids) == 0 {
		u.Achievements = nil
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	u.Achievements = datatypes.JSON(raw)
}

// HasAchievement reports whether the badge was already granted.
func (u *UserStats) HasAchievement(id AchievementID) bool {
	for _, got := range u.AchievementList() {
		if got == id {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one ranked row of the global leaderboard.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	PlatformID     int64   `json:"fid"`
	Username       string  `json:"username"`
	ParadoxCount   int64   `json:"paradoxCount"`
	TotalConfusion float64 `json:"totalConfusion"`
}
