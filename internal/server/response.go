package server

import (
	"time"

	"brawl-tracker/internal/domain"
)

type battleRecordResponse struct {
	PlayerTag  string    `json:"player_tag"`
	BattleTime time.Time `json:"battle_time"`
	BrawlerID  int       `json:"brawler_id"`

	BrawlerName         *string `json:"brawler_name"`
	BrawlerPower        *int    `json:"brawler_power"`
	BrawlerTrophies     *int    `json:"brawler_trophies"`
	BrawlerTrophyChange *int    `json:"brawler_trophy_change"`
	PlayerName          *string `json:"player_name"`
	EventID             *int    `json:"event_id"`
	EventMode           *string `json:"event_mode"`
	EventMap            *string `json:"event_map"`
	BattleMode          *string `json:"battle_mode"`
	BattleType          *string `json:"battle_type"`
	BattleResult        *string `json:"battle_result"`
	BattleDuration      *int    `json:"battle_duration"`
	TrophyChange        *int    `json:"trophy_change"`
	Rank                *int    `json:"rank"`
	IsStarPlayer        *bool   `json:"is_star_player"`
}

type battleStatisticsResponse struct {
	FirstBattle        time.Time `json:"first_battle"`
	LastBattle         time.Time `json:"last_battle"`
	TotalBattles       int       `json:"total_battles"`
	TotalPlayers       int       `json:"total_players"`
	Victories          int       `json:"victories"`
	DaysDiff           int       `json:"days_diff"`
	AvgBattlesPerDay   float64   `json:"avg_battles_per_day"`
	AvgTrophiesPerDay  float64   `json:"avg_trophies_per_day"`
	AvgVictoriesPerDay float64   `json:"avg_victories_per_day"`
	WinRate            float64   `json:"win_rate"`
}

type dailyProgressResponse struct {
	Date         string  `json:"date"`
	TrophyChange int     `json:"trophy_change"`
	Battles      int     `json:"battles"`
	Victories    int     `json:"victories"`
	WinRate      float64 `json:"win_rate"`
}

type trophyProgressResponse struct {
	StartDate         string                  `json:"start_date"`
	EndDate           string                  `json:"end_date"`
	TotalTrophyChange int                     `json:"total_trophy_change"`
	TotalBattles      int                     `json:"total_battles"`
	OverallWinRate    float64                 `json:"overall_win_rate"`
	Progress          []dailyProgressResponse `json:"progress"`
}

type brawlerStatsResponse struct {
	BrawlerName  string  `json:"brawler_name"`
	Battles      int     `json:"battles"`
	Victories    int     `json:"victories"`
	TrophyChange int     `json:"trophy_change"`
	WinRate      float64 `json:"win_rate"`
}

type brawlerStatisticsResponse struct {
	TotalBattles      int                    `json:"total_battles"`
	TotalTrophyChange int                    `json:"total_trophy_change"`
	OverallWinRate    float64                `json:"overall_win_rate"`
	FirstBattle       time.Time              `json:"first_battle"`
	LastBattle        time.Time              `json:"last_battle"`
	Brawlers          []brawlerStatsResponse `json:"brawlers"`
}

type gameModeStatsResponse struct {
	BattleMode           string   `json:"battle_mode"`
	Battles              int      `json:"battles"`
	Victories            int      `json:"victories"`
	TrophyChange         int      `json:"trophy_change"`
	AvgDuration          *float64 `json:"avg_duration"`
	AvgTrophiesPerBattle float64  `json:"avg_trophies_per_battle"`
	SecondsPerTrophy     *float64 `json:"seconds_per_trophy"`
	WinRate              float64  `json:"win_rate"`
}

type gameModeStatisticsResponse struct {
	TotalBattles      int                     `json:"total_battles"`
	TotalTrophyChange int                     `json:"total_trophy_change"`
	OverallWinRate    float64                 `json:"overall_win_rate"`
	FirstBattle       time.Time               `json:"first_battle"`
	LastBattle        time.Time               `json:"last_battle"`
	GameModes         []gameModeStatsResponse `json:"game_modes"`
}

func toBattleRecordResponse(r domain.BattleRecord) battleRecordResponse {
	return battleRecordResponse{
		PlayerTag:           r.PlayerTag,
		BattleTime:          r.BattleTime,
		BrawlerID:           r.BrawlerID,
		BrawlerName:         r.BrawlerName,
		BrawlerPower:        r.BrawlerPower,
		BrawlerTrophies:     r.BrawlerTrophies,
		BrawlerTrophyChange: r.BrawlerTrophyChange,
		PlayerName:          r.PlayerName,
		EventID:             r.EventID,
		EventMode:           r.EventMode,
		EventMap:            r.EventMap,
		BattleMode:          r.BattleMode,
		BattleType:          r.BattleType,
		BattleResult:        r.BattleResult,
		BattleDuration:      r.BattleDuration,
		TrophyChange:        r.TrophyChange,
		Rank:                r.Rank,
		IsStarPlayer:        r.IsStarPlayer,
	}
}

func toBattleRecordList(records []domain.BattleRecord) []battleRecordResponse {
	out := make([]battleRecordResponse, len(records))
	for i, r := range records {
		out[i] = toBattleRecordResponse(r)
	}
	return out
}

func toBattleStatisticsResponse(s *domain.BattleStatistics) battleStatisticsResponse {
	return battleStatisticsResponse{
		FirstBattle:        s.FirstBattle,
		LastBattle:         s.LastBattle,
		TotalBattles:       s.TotalBattles,
		TotalPlayers:       s.TotalPlayers,
		Victories:          s.Victories,
		DaysDiff:           s.DaysDiff,
		AvgBattlesPerDay:   s.AvgBattlesPerDay,
		AvgTrophiesPerDay:  s.AvgTrophiesPerDay,
		AvgVictoriesPerDay: s.AvgVictoriesPerDay,
		WinRate:            s.WinRate,
	}
}

func toTrophyProgressResponse(p *domain.TrophyProgress) trophyProgressResponse {
	days := make([]dailyProgressResponse, len(p.Days))
	for i, d := range p.Days {
		days[i] = dailyProgressResponse{
			Date:         d.Date,
			TrophyChange: d.TrophyChange,
			Battles:      d.Battles,
			Victories:    d.Victories,
			WinRate:      d.WinRate,
		}
	}
	return trophyProgressResponse{
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		TotalTrophyChange: p.TotalTrophyChange,
		TotalBattles:      p.TotalBattles,
		OverallWinRate:    p.OverallWinRate,
		Progress:          days,
	}
}

func toBrawlerStatisticsResponse(s *domain.BrawlerStatistics) brawlerStatisticsResponse {
	brawlers := make([]brawlerStatsResponse, len(s.Brawlers))
	for i, b := range s.Brawlers {
		brawlers[i] = brawlerStatsResponse{
			BrawlerName:  b.Name,
			Battles:      b.Battles,
			Victories:    b.Victories,
			TrophyChange: b.TrophyChange,
			WinRate:      b.WinRate,
		}
	}
	return brawlerStatisticsResponse{
		TotalBattles:      s.TotalBattles,
		TotalTrophyChange: s.TotalTrophyChange,
		OverallWinRate:    s.OverallWinRate,
		FirstBattle:       s.FirstBattle,
		LastBattle:        s.LastBattle,
		Brawlers:          brawlers,
	}
}

func toGameModeStatisticsResponse(s *domain.GameModeStatistics) gameModeStatisticsResponse {
	modes := make([]gameModeStatsResponse, len(s.Modes))
	for i, m := range s.Modes {
		modes[i] = gameModeStatsResponse{
			BattleMode:           m.Mode,
			Battles:              m.Battles,
			Victories:            m.Victories,
			TrophyChange:         m.TrophyChange,
			AvgDuration:          m.AvgDuration,
			AvgTrophiesPerBattle: m.AvgTrophiesPerBattle,
			SecondsPerTrophy:     m.SecondsPerTrophy,
			WinRate:              m.WinRate,
		}
	}
	return gameModeStatisticsResponse{
		TotalBattles:      s.TotalBattles,
		TotalTrophyChange: s.TotalTrophyChange,
		OverallWinRate:    s.OverallWinRate,
		FirstBattle:       s.FirstBattle,
		LastBattle:        s.LastBattle,
		GameModes:         modes,
	}
}
