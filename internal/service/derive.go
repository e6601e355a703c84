package service

import (
	"math"
	"time"

	"brawl-tracker/internal/domain"
	"brawl-tracker/internal/repository"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func winRate(victories, battles int) float64 {
	if battles == 0 {
		return 0
	}
	return round2(float64(victories) / float64(battles) * 100)
}

// daySpan is the inclusive calendar-day distance between two UTC timestamps,
// never less than 1.
func daySpan(first, last time.Time) int {
	first = first.UTC()
	last = last.UTC()
	firstDay := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)

	days := int(lastDay.Sub(firstDay).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func buildBattleStatistics(row *repository.OverallRow) *domain.BattleStatistics {
	days := daySpan(row.FirstBattle, row.LastBattle)

	return &domain.BattleStatistics{
		FirstBattle:        row.FirstBattle,
		LastBattle:         row.LastBattle,
		TotalBattles:       row.TotalBattles,
		TotalPlayers:       row.TotalPlayers,
		Victories:          row.Victories,
		DaysDiff:           days,
		AvgBattlesPerDay:   round2(float64(row.TotalBattles) / float64(days)),
		AvgTrophiesPerDay:  round2(float64(row.TrophyChange) / float64(days)),
		AvgVictoriesPerDay: round2(float64(row.Victories) / float64(days)),
		WinRate:            winRate(row.Victories, row.TotalBattles),
	}
}

func buildTrophyProgress(rows []repository.DailyRow) *domain.TrophyProgress {
	progress := &domain.TrophyProgress{
		StartDate: rows[0].Day,
		EndDate:   rows[len(rows)-1].Day,
		Days:      make([]domain.DailyProgress, len(rows)),
	}

	var totalVictories int
	for i, row := range rows {
		progress.Days[i] = domain.DailyProgress{
			Date:         row.Day,
			TrophyChange: row.TrophyChange,
			Battles:      row.Battles,
			Victories:    row.Victories,
			WinRate:      winRate(row.Victories, row.Battles),
		}
		progress.TotalTrophyChange += row.TrophyChange
		progress.TotalBattles += row.Battles
		totalVictories += row.Victories
	}
	progress.OverallWinRate = winRate(totalVictories, progress.TotalBattles)
	return progress
}

func buildBrawlerStatistics(rows []repository.BrawlerRow, timeRange *repository.TimeRange) *domain.BrawlerStatistics {
	stats := &domain.BrawlerStatistics{
		FirstBattle: timeRange.First,
		LastBattle:  timeRange.Last,
		Brawlers:    make([]domain.BrawlerStats, len(rows)),
	}

	var totalVictories int
	for i, row := range rows {
		stats.Brawlers[i] = domain.BrawlerStats{
			Name:         row.Name,
			Battles:      row.Battles,
			Victories:    row.Victories,
			TrophyChange: row.TrophyChange,
			WinRate:      winRate(row.Victories, row.Battles),
		}
		stats.TotalBattles += row.Battles
		stats.TotalTrophyChange += row.TrophyChange
		totalVictories += row.Victories
	}
	stats.OverallWinRate = winRate(totalVictories, stats.TotalBattles)
	return stats
}

func buildGameModeStatistics(rows []repository.GameModeRow, timeRange *repository.TimeRange) *domain.GameModeStatistics {
	stats := &domain.GameModeStatistics{
		FirstBattle: timeRange.First,
		LastBattle:  timeRange.Last,
		Modes:       make([]domain.GameModeStats, len(rows)),
	}

	var totalVictories int
	for i, row := range rows {
		mode := domain.GameModeStats{
			Mode:                 row.Mode,
			Battles:              row.Battles,
			Victories:            row.Victories,
			TrophyChange:         row.TrophyChange,
			AvgDuration:          row.AvgDuration,
			AvgTrophiesPerBattle: round2(float64(row.TrophyChange) / float64(row.Battles)),
			WinRate:              winRate(row.Victories, row.Battles),
		}
		// Seconds per trophy gained is undefined for a non-positive net
		// trophy change, regardless of known durations.
		if row.AvgDuration != nil && row.TrophyChange > 0 {
			v := round2(*row.AvgDuration * float64(row.Battles) / float64(row.TrophyChange))
			mode.SecondsPerTrophy = &v
		}
		stats.Modes[i] = mode
		stats.TotalBattles += row.Battles
		stats.TotalTrophyChange += row.TrophyChange
		totalVictories += row.Victories
	}
	stats.OverallWinRate = winRate(totalVictories, stats.TotalBattles)
	return stats
}
