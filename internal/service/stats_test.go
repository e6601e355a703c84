package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"brawl-tracker/internal/config"
	"brawl-tracker/internal/database"
	"brawl-tracker/internal/domain"
	"brawl-tracker/internal/repository"

	"github.com/rs/zerolog"
)

func newTestStatsService(t *testing.T) (*StatsService, *sql.DB) {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "battles.db")}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.NewBattleRepository(db, zerolog.Nop())
	return NewStatsService(repo, zerolog.Nop()), db
}

func insertShowdown(t *testing.T, db *sql.DB, tag string, at time.Time, brawlerID, rank, trophyChange int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO battle_logs (
		player_tag, battle_time, brawler_id, battle_mode, trophy_change, "rank"
	) VALUES (?, ?, ?, 'duoShowdown', ?, ?)`,
		tag, at.UTC(), brawlerID, trophyChange, rank)
	if err != nil {
		t.Fatalf("failed to insert showdown battle: %v", err)
	}
}

// Two duo showdown battles on one day: rank 1 (+20) and rank 4 (-10).
func seedShowdownDay(t *testing.T, db *sql.DB) {
	at := time.Date(2023, 5, 6, 15, 30, 0, 0, time.UTC)
	insertShowdown(t, db, "#P1", at, 1, 1, 20)
	insertShowdown(t, db, "#P1", at.Add(time.Hour), 2, 4, -10)
}

func TestOverallStatisticsShowdownDay(t *testing.T) {
	svc, db := newTestStatsService(t)
	seedShowdownDay(t, db)

	stats, err := svc.OverallStatistics(context.Background(), repository.BattleFilter{})
	if err != nil {
		t.Fatalf("OverallStatistics failed: %v", err)
	}

	if stats.TotalBattles != 2 {
		t.Errorf("TotalBattles = %d, want 2", stats.TotalBattles)
	}
	if stats.Victories != 1 {
		t.Errorf("Victories = %d, want 1", stats.Victories)
	}
	if stats.WinRate != 50 {
		t.Errorf("WinRate = %v, want 50", stats.WinRate)
	}
	if stats.DaysDiff != 1 {
		t.Errorf("DaysDiff = %d, want 1 for a single day", stats.DaysDiff)
	}
	if stats.AvgTrophiesPerDay != 10 {
		t.Errorf("AvgTrophiesPerDay = %v, want 10", stats.AvgTrophiesPerDay)
	}
	if stats.AvgBattlesPerDay != 2 {
		t.Errorf("AvgBattlesPerDay = %v, want 2", stats.AvgBattlesPerDay)
	}
}

func TestTrophyProgressShowdownDay(t *testing.T) {
	svc, db := newTestStatsService(t)
	seedShowdownDay(t, db)

	progress, err := svc.TrophyProgress(context.Background(), repository.BattleFilter{})
	if err != nil {
		t.Fatalf("TrophyProgress failed: %v", err)
	}

	if len(progress.Days) != 1 {
		t.Fatalf("expected 1 day group, got %d", len(progress.Days))
	}
	day := progress.Days[0]
	if day.Date != "2023-05-06" {
		t.Errorf("Date = %q, want 2023-05-06", day.Date)
	}
	if day.TrophyChange != 10 || day.Battles != 2 || day.Victories != 1 {
		t.Errorf("unexpected day group: %+v", day)
	}
	if day.WinRate != 50 {
		t.Errorf("day WinRate = %v, want 50", day.WinRate)
	}
	if progress.StartDate != progress.EndDate {
		t.Errorf("single-day range mismatch: [%s, %s]", progress.StartDate, progress.EndDate)
	}
	if progress.TotalTrophyChange != 10 || progress.TotalBattles != 2 {
		t.Errorf("unexpected totals: %+v", progress)
	}
}

func TestBrawlerStatisticsConsistency(t *testing.T) {
	svc, db := newTestStatsService(t)
	seedShowdownDay(t, db)

	stats, err := svc.BrawlerStatistics(context.Background(), repository.BattleFilter{})
	if err != nil {
		t.Fatalf("BrawlerStatistics failed: %v", err)
	}

	sum := 0
	for _, b := range stats.Brawlers {
		sum += b.Battles
		if b.WinRate < 0 || b.WinRate > 100 {
			t.Errorf("brawler %q win rate %v out of [0, 100]", b.Name, b.WinRate)
		}
	}
	if sum != stats.TotalBattles {
		t.Errorf("sum of group battles %d != TotalBattles %d", sum, stats.TotalBattles)
	}
	if stats.FirstBattle.After(stats.LastBattle) {
		t.Errorf("range inverted: [%v, %v]", stats.FirstBattle, stats.LastBattle)
	}
}

func TestGameModeStatisticsConsistency(t *testing.T) {
	svc, db := newTestStatsService(t)
	seedShowdownDay(t, db)

	stats, err := svc.GameModeStatistics(context.Background(), repository.BattleFilter{})
	if err != nil {
		t.Fatalf("GameModeStatistics failed: %v", err)
	}

	if len(stats.Modes) != 1 {
		t.Fatalf("expected 1 mode group, got %d", len(stats.Modes))
	}
	mode := stats.Modes[0]
	if mode.Mode != "duoShowdown" {
		t.Errorf("Mode = %q, want duoShowdown", mode.Mode)
	}
	if mode.AvgTrophiesPerBattle != 5 {
		t.Errorf("AvgTrophiesPerBattle = %v, want 5", mode.AvgTrophiesPerBattle)
	}
	if mode.SecondsPerTrophy != nil {
		t.Errorf("SecondsPerTrophy = %v, want nil without durations", mode.SecondsPerTrophy)
	}
	if stats.TotalBattles != 2 {
		t.Errorf("TotalBattles = %d, want 2", stats.TotalBattles)
	}
}

func TestStatisticsEmptyFilterNotFound(t *testing.T) {
	svc, db := newTestStatsService(t)
	seedShowdownDay(t, db)

	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := repository.BattleFilter{StartDate: &after}
	ctx := context.Background()

	if _, err := svc.OverallStatistics(ctx, filter); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("OverallStatistics: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.TrophyProgress(ctx, filter); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("TrophyProgress: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.BrawlerStatistics(ctx, filter); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("BrawlerStatistics: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GameModeStatistics(ctx, filter); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GameModeStatistics: expected ErrNotFound, got %v", err)
	}
}
