package service

import (
	"context"
	"time"

	"brawl-tracker/internal/constants"
	"brawl-tracker/internal/domain"
	"brawl-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type BattleService struct {
	repo   *repository.BattleRepository
	logger zerolog.Logger
}

func NewBattleService(repo *repository.BattleRepository, logger zerolog.Logger) *BattleService {
	return &BattleService{repo: repo, logger: logger}
}

func (s *BattleService) ListAll(ctx context.Context) ([]domain.BattleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	records, err := s.repo.List(ctx, repository.BattleFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list battle logs")
		return nil, err
	}

	s.logger.Debug().Int("count", len(records)).Msg("listed battle logs")
	return records, nil
}

// ListByPlayer returns every record for one player tag, domain.ErrNotFound
// when the player has none.
func (s *BattleService) ListByPlayer(ctx context.Context, playerTag string) ([]domain.BattleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	records, err := s.repo.List(ctx, repository.BattleFilter{PlayerTag: playerTag})
	if err != nil {
		s.logger.Error().Err(err).Str("player_tag", playerTag).Msg("failed to list player battle logs")
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}

	s.logger.Debug().Str("player_tag", playerTag).Int("count", len(records)).Msg("listed player battle logs")
	return records, nil
}

func (s *BattleService) Get(ctx context.Context, playerTag string, battleTime time.Time, brawlerID int) (*domain.BattleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	record, err := s.repo.GetByKey(ctx, playerTag, battleTime, brawlerID)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("player_tag", playerTag).
			Time("battle_time", battleTime).
			Int("brawler_id", brawlerID).
			Msg("battle log entry lookup failed")
		return nil, err
	}
	return record, nil
}
