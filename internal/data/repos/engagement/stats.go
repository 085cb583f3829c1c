package engagement

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// StatsRepo persists per-user engagement records.
type StatsRepo interface {
	// Get loads the record for a platform id, returning (nil, nil) when
	// the user has never submitted.
	Get(ctx context.Context, tx *gorm.DB, platformID int64) (*types.UserStats, error)

	// GetForUpdate loads the record under a row lock inside tx.
	GetForUpdate(ctx context.Context, tx *gorm.DB, platformID int64) (*types.UserStats, error)

	// Save upserts the record keyed on platform_id.
	Save(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error
}

type statsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatsRepo(db *gorm.DB, log *logger.Logger) StatsRepo {
	return &statsRepo{db: db, log: log.With("repo", "EngagementStatsRepo")}
}

func (r *statsRepo) Get(ctx context.Context, tx *gorm.DB, platformID int64) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stats types.UserStats
	err := transaction.WithContext(ctx).
		Where("platform_id = ?", platformID).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, platformID int64) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stats types.UserStats
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("platform_id = ?", platformID).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats for update: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) Save(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform_id"}},
			UpdateAll: true,
		}).
		Create(stats).Error
	if err != nil {
		return fmt.Errorf("save user stats: %w", err)
	}
	return nil
}
