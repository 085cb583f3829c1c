package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/kairoslabs/kairos-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.UserStats{},
	)
}

func EnsureEngagementIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_stats_total_impact
		ON user_stats (total_impact DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_stats_total_impact: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_stats_last_submission_at
		ON user_stats (last_submission_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_stats_last_submission_at: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureEngagementIndexes(s.db); err != nil {
		s.log.Error("Engagement index migration failed", "error", err)
		return err
	}
	return nil
}
