package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brawl-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// victoryExpr classifies one record as a win (1) or loss (0). Showdown modes
// rank participants instead of reporting a result, so victory is inferred
// from the placement threshold; every other mode reports it directly. A NULL
// rank or result never counts as a win.
const victoryExpr = `CASE
	WHEN battle_mode = 'duoShowdown' THEN CASE WHEN "rank" <= 2 THEN 1 ELSE 0 END
	WHEN battle_mode = 'soloShowdown' THEN CASE WHEN "rank" <= 4 THEN 1 ELSE 0 END
	WHEN battle_result = 'victory' THEN 1
	ELSE 0
END`

// trophySumExpr sums trophy_change with NULLs contributing 0, so an all-NULL
// group yields 0 rather than NULL.
const trophySumExpr = `CAST(COALESCE(SUM(COALESCE(trophy_change, 0)), 0) AS INTEGER)`

const battleColumns = `player_tag, battle_time, brawler_id, brawler_name, brawler_power,
	brawler_trophies, brawler_trophy_change, player_name, event_id, event_mode, event_map,
	battle_mode, battle_type, battle_result, battle_duration, trophy_change, "rank", is_star_player`

// OverallRow is the single-row overall aggregate as read from the store.
type OverallRow struct {
	FirstBattle  time.Time
	LastBattle   time.Time
	TotalBattles int
	TotalPlayers int
	Victories    int
	TrophyChange int
}

type DailyRow struct {
	Day          string
	TrophyChange int
	Battles      int
	Victories    int
}

type BrawlerRow struct {
	Name         string
	Battles      int
	Victories    int
	TrophyChange int
}

type GameModeRow struct {
	Mode         string
	Battles      int
	Victories    int
	TrophyChange int
	AvgDuration  *float64
}

type TimeRange struct {
	First time.Time
	Last  time.Time
}

type BattleRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBattleRepository(sqlDB *sql.DB, logger zerolog.Logger) *BattleRepository {
	return &BattleRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// List returns the filtered records ordered by battle time, then key.
func (r *BattleRepository) List(ctx context.Context, filter BattleFilter) ([]domain.BattleRecord, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`SELECT %s FROM battle_logs%s ORDER BY datetime(battle_time) ASC, player_tag ASC, brawler_id ASC`,
		battleColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query battle logs: %w", err)
	}
	defer rows.Close()

	records := []domain.BattleRecord{}
	for rows.Next() {
		record, err := scanBattleRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan battle log row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetByKey looks up one record by its composite primary key.
func (r *BattleRepository) GetByKey(ctx context.Context, playerTag string, battleTime time.Time, brawlerID int) (*domain.BattleRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM battle_logs
		WHERE player_tag = ? AND datetime(battle_time) = datetime(?) AND brawler_id = ?`,
		battleColumns)

	row := r.db.QueryRowContext(ctx, query, playerTag, battleTime.UTC(), brawlerID)
	record, err := scanBattleRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battle log entry: %w", err)
	}
	return &record, nil
}

// Overall computes the ungrouped aggregate over the filtered set in one
// round-trip. Returns domain.ErrNotFound when the set is empty.
func (r *BattleRepository) Overall(ctx context.Context, filter BattleFilter) (*OverallRow, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`SELECT
		MIN(datetime(battle_time)),
		MAX(datetime(battle_time)),
		COUNT(*),
		COUNT(DISTINCT player_tag),
		COALESCE(SUM(%s), 0),
		%s
	FROM battle_logs%s`, victoryExpr, trophySumExpr, where)

	var first, last sql.NullString
	var row OverallRow
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&first, &last, &row.TotalBattles, &row.TotalPlayers, &row.Victories, &row.TrophyChange,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall statistics: %w", err)
	}
	if row.TotalBattles == 0 {
		return nil, domain.ErrNotFound
	}

	if row.FirstBattle, err = parseStoredTime(first.String); err != nil {
		return nil, fmt.Errorf("failed to parse first battle time: %w", err)
	}
	if row.LastBattle, err = parseStoredTime(last.String); err != nil {
		return nil, fmt.Errorf("failed to parse last battle time: %w", err)
	}
	return &row, nil
}

// DailyProgress groups the filtered set by UTC calendar date, ascending.
func (r *BattleRepository) DailyProgress(ctx context.Context, filter BattleFilter) ([]DailyRow, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`SELECT
		date(battle_time) AS day,
		%s,
		COUNT(*),
		COALESCE(SUM(%s), 0)
	FROM battle_logs%s
	GROUP BY date(battle_time)
	ORDER BY day ASC`, trophySumExpr, victoryExpr, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily progress: %w", err)
	}
	defer rows.Close()

	var result []DailyRow
	for rows.Next() {
		var d DailyRow
		if err := rows.Scan(&d.Day, &d.TrophyChange, &d.Battles, &d.Victories); err != nil {
			return nil, fmt.Errorf("failed to scan daily progress row: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// BrawlerGroups groups the filtered set by brawler name, busiest brawler
// first. Equal battle counts break ascending by name; records without a
// brawler name group under the empty string.
func (r *BattleRepository) BrawlerGroups(ctx context.Context, filter BattleFilter) ([]BrawlerRow, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`SELECT
		COALESCE(brawler_name, '') AS name,
		COUNT(*) AS battles,
		COALESCE(SUM(%s), 0),
		%s
	FROM battle_logs%s
	GROUP BY COALESCE(brawler_name, '')
	ORDER BY battles DESC, name ASC`, victoryExpr, trophySumExpr, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query brawler statistics: %w", err)
	}
	defer rows.Close()

	var result []BrawlerRow
	for rows.Next() {
		var b BrawlerRow
		if err := rows.Scan(&b.Name, &b.Battles, &b.Victories, &b.TrophyChange); err != nil {
			return nil, fmt.Errorf("failed to scan brawler row: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// GameModeGroups groups the filtered set by battle mode, busiest mode first,
// with the same name tie-break as BrawlerGroups. The average duration only
// covers records that carry one and is nil when none do.
func (r *BattleRepository) GameModeGroups(ctx context.Context, filter BattleFilter) ([]GameModeRow, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`SELECT
		COALESCE(battle_mode, '') AS mode,
		COUNT(*) AS battles,
		COALESCE(SUM(%s), 0),
		%s,
		AVG(battle_duration)
	FROM battle_logs%s
	GROUP BY COALESCE(battle_mode, '')
	ORDER BY battles DESC, mode ASC`, victoryExpr, trophySumExpr, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game mode statistics: %w", err)
	}
	defer rows.Close()

	var result []GameModeRow
	for rows.Next() {
		var g GameModeRow
		var avg sql.NullFloat64
		if err := rows.Scan(&g.Mode, &g.Battles, &g.Victories, &g.TrophyChange, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan game mode row: %w", err)
		}
		if avg.Valid {
			g.AvgDuration = &avg.Float64
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// TimeRange reads the min/max battle time over the full filtered set,
// independent of any grouping. Returns domain.ErrNotFound when the set is
// empty. Callers pairing this with a grouped query get no snapshot guarantee
// across the two round-trips; records are immutable once written, so the only
// possible skew is a concurrent append of future-dated records.
func (r *BattleRepository) TimeRange(ctx context.Context, filter BattleFilter) (*TimeRange, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`SELECT MIN(datetime(battle_time)), MAX(datetime(battle_time)), COUNT(*) FROM battle_logs%s`, where)

	var first, last sql.NullString
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&first, &last, &count); err != nil {
		return nil, fmt.Errorf("failed to query time range: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNotFound
	}

	var tr TimeRange
	var err error
	if tr.First, err = parseStoredTime(first.String); err != nil {
		return nil, fmt.Errorf("failed to parse range start: %w", err)
	}
	if tr.Last, err = parseStoredTime(last.String); err != nil {
		return nil, fmt.Errorf("failed to parse range end: %w", err)
	}
	return &tr, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBattleRecord(row rowScanner) (domain.BattleRecord, error) {
	var record domain.BattleRecord
	var (
		brawlerName         sql.NullString
		brawlerPower        sql.NullInt64
		brawlerTrophies     sql.NullInt64
		brawlerTrophyChange sql.NullInt64
		playerName          sql.NullString
		eventID             sql.NullInt64
		eventMode           sql.NullString
		eventMap            sql.NullString
		battleMode          sql.NullString
		battleType          sql.NullString
		battleResult        sql.NullString
		battleDuration      sql.NullInt64
		trophyChange        sql.NullInt64
		rank                sql.NullInt64
		isStarPlayer        sql.NullBool
	)

	err := row.Scan(
		&record.PlayerTag, &record.BattleTime, &record.BrawlerID,
		&brawlerName, &brawlerPower, &brawlerTrophies, &brawlerTrophyChange,
		&playerName, &eventID, &eventMode, &eventMap,
		&battleMode, &battleType, &battleResult,
		&battleDuration, &trophyChange, &rank, &isStarPlayer,
	)
	if err != nil {
		return domain.BattleRecord{}, err
	}

	record.BattleTime = record.BattleTime.UTC()
	record.BrawlerName = nullString(brawlerName)
	record.BrawlerPower = nullInt(brawlerPower)
	record.BrawlerTrophies = nullInt(brawlerTrophies)
	record.BrawlerTrophyChange = nullInt(brawlerTrophyChange)
	record.PlayerName = nullString(playerName)
	record.EventID = nullInt(eventID)
	record.EventMode = nullString(eventMode)
	record.EventMap = nullString(eventMap)
	record.BattleMode = nullString(battleMode)
	record.BattleType = nullString(battleType)
	record.BattleResult = nullString(battleResult)
	record.BattleDuration = nullInt(battleDuration)
	record.TrophyChange = nullInt(trophyChange)
	record.Rank = nullInt(rank)
	record.IsStarPlayer = nullBool(isStarPlayer)
	return record, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

// storedTimeFormats covers the driver's timestamp serialization plus the
// normalized form datetime() emits. Aggregate expressions lose the column's
// declared type, so MIN/MAX come back as text and are parsed here, as UTC.
var storedTimeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

func parseStoredTime(s string) (time.Time, error) {
	for _, format := range storedTimeFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized stored timestamp %q", s)
}
