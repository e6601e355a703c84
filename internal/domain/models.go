package domain

import (
	"time"
)

// BattleRecord is one brawler's participation outcome in one match.
// Identity is the composite (PlayerTag, BattleTime, BrawlerID) key; every
// other column is nullable in the battle log and therefore a pointer here.
type BattleRecord struct {
	PlayerTag  string
	BattleTime time.Time
	BrawlerID  int

	BrawlerName         *string
	BrawlerPower        *int
	BrawlerTrophies     *int
	BrawlerTrophyChange *int
	PlayerName          *string
	EventID             *int
	EventMode           *string
	EventMap            *string
	BattleMode          *string
	BattleType          *string
	BattleResult        *string
	BattleDuration      *int
	TrophyChange        *int
	Rank                *int
	IsStarPlayer        *bool
}

// BattleStatistics is the overall aggregate over a filtered record set.
type BattleStatistics struct {
	FirstBattle        time.Time
	LastBattle         time.Time
	TotalBattles       int
	TotalPlayers       int
	Victories          int
	DaysDiff           int
	AvgBattlesPerDay   float64
	AvgTrophiesPerDay  float64
	AvgVictoriesPerDay float64
	WinRate            float64
}

// DailyProgress is one calendar day's trophy movement. Date is "2006-01-02"
// in UTC, matching the store's grouping convention.
type DailyProgress struct {
	Date         string
	TrophyChange int
	Battles      int
	Victories    int
	WinRate      float64
}

type TrophyProgress struct {
	StartDate         string
	EndDate           string
	TotalTrophyChange int
	TotalBattles      int
	OverallWinRate    float64
	Days              []DailyProgress
}

type BrawlerStats struct {
	Name         string
	Battles      int
	Victories    int
	TrophyChange int
	WinRate      float64
}

type BrawlerStatistics struct {
	TotalBattles      int
	TotalTrophyChange int
	OverallWinRate    float64
	FirstBattle       time.Time
	LastBattle        time.Time
	Brawlers          []BrawlerStats
}

type GameModeStats struct {
	Mode         string
	Battles      int
	Victories    int
	TrophyChange int

	// AvgDuration is nil when no record in the mode carries a duration.
	AvgDuration          *float64
	AvgTrophiesPerBattle float64

	// SecondsPerTrophy is nil unless AvgDuration is known and the mode's
	// net trophy change is positive.
	SecondsPerTrophy *float64
	WinRate          float64
}

type GameModeStatistics struct {
	TotalBattles      int
	TotalTrophyChange int
	OverallWinRate    float64
	FirstBattle       time.Time
	LastBattle        time.Time
	Modes             []GameModeStats
}
