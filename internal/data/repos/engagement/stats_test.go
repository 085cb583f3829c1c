package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/kairoslabs/kairos-backend/internal/data/repos/testutil"
	types "github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/identity"
)

func TestStatsRepoRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewStatsRepo(db, testutil.Logger(t))
	ctx := context.Background()

	got, err := repo.Get(ctx, tx, 4242)
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown user, got %+v", got)
	}

	now := time.Now().UTC().Truncate(time.Second)
	stats := &types.UserStats{
		PlatformID:         4242,
		InternalID:         identity.Resolve(4242),
		Username:           "alice",
		ParadoxesSubmitted: 1,
		TotalImpact:        0.05,
		HighestConfusion:   0.72,
		CurrentStreak:      1,
		LastSubmissionAt:   &now,
	}
	stats.SetAchievements([]types.AchievementID{types.AchievementFirstParadox})
	if err := repo.Save(ctx, tx, stats); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = repo.Get(ctx, tx, 4242)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected saved record")
	}
	if got.Username != "alice" || got.ParadoxesSubmitted != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.HasAchievement(types.AchievementFirstParadox) {
		t.Fatal("achievement not persisted")
	}
}

func TestStatsRepoUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewStatsRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first := &types.UserStats{PlatformID: 99, Username: "old-name", ParadoxesSubmitted: 1}
	if err := repo.Save(ctx, tx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}

	second := &types.UserStats{PlatformID: 99, Username: "new-name", ParadoxesSubmitted: 2}
	if err := repo.Save(ctx, tx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := repo.GetForUpdate(ctx, tx, 99)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if got == nil || got.Username != "new-name" || got.ParadoxesSubmitted != 2 {
		t.Fatalf("upsert did not overwrite: %+v", got)
	}
}
