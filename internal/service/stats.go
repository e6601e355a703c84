package service

import (
	"context"

	"brawl-tracker/internal/constants"
	"brawl-tracker/internal/domain"
	"brawl-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type StatsService struct {
	repo   *repository.BattleRepository
	logger zerolog.Logger
}

func NewStatsService(repo *repository.BattleRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{repo: repo, logger: logger}
}

// OverallStatistics aggregates the whole filtered set in one round-trip and
// derives the per-day and win-rate metrics.
func (s *StatsService) OverallStatistics(ctx context.Context, filter repository.BattleFilter) (*domain.BattleStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	row, err := s.repo.Overall(ctx, filter)
	if err != nil {
		s.logger.Debug().Err(err).Str("player_tag", filter.PlayerTag).Msg("overall statistics query failed")
		return nil, err
	}

	stats := buildBattleStatistics(row)
	s.logger.Info().
		Str("player_tag", filter.PlayerTag).
		Int("total_battles", stats.TotalBattles).
		Float64("win_rate", stats.WinRate).
		Msg("computed overall statistics")
	return stats, nil
}

// TrophyProgress aggregates trophy movement per UTC calendar day.
func (s *StatsService) TrophyProgress(ctx context.Context, filter repository.BattleFilter) (*domain.TrophyProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := s.repo.DailyProgress(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("player_tag", filter.PlayerTag).Msg("daily progress query failed")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	progress := buildTrophyProgress(rows)
	s.logger.Info().
		Str("player_tag", filter.PlayerTag).
		Int("days", len(progress.Days)).
		Int("total_trophy_change", progress.TotalTrophyChange).
		Msg("computed trophy progress")
	return progress, nil
}

// BrawlerStatistics runs the grouped query and the ungrouped time-range query
// concurrently over the identical filter. The two round-trips share no
// snapshot; see repository.TimeRange.
func (s *StatsService) BrawlerStatistics(ctx context.Context, filter repository.BattleFilter) (*domain.BrawlerStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var (
		rows      []repository.BrawlerRow
		timeRange *repository.TimeRange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.BrawlerGroups(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		timeRange, err = s.repo.TimeRange(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Debug().Err(err).Str("player_tag", filter.PlayerTag).Msg("brawler statistics query failed")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	stats := buildBrawlerStatistics(rows, timeRange)
	s.logger.Info().
		Str("player_tag", filter.PlayerTag).
		Int("brawlers", len(stats.Brawlers)).
		Int("total_battles", stats.TotalBattles).
		Msg("computed brawler statistics")
	return stats, nil
}

// GameModeStatistics mirrors BrawlerStatistics with battle_mode grouping and
// the duration-derived metrics.
func (s *StatsService) GameModeStatistics(ctx context.Context, filter repository.BattleFilter) (*domain.GameModeStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var (
		rows      []repository.GameModeRow
		timeRange *repository.TimeRange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.GameModeGroups(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		timeRange, err = s.repo.TimeRange(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Debug().Err(err).Str("player_tag", filter.PlayerTag).Msg("game mode statistics query failed")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	stats := buildGameModeStatistics(rows, timeRange)
	s.logger.Info().
		Str("player_tag", filter.PlayerTag).
		Int("modes", len(stats.Modes)).
		Int("total_battles", stats.TotalBattles).
		Msg("computed game mode statistics")
	return stats, nil
}
