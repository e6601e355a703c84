package repository

import (
	"strings"
	"time"
)

// BattleFilter narrows every battle-log query to one player and/or an
// inclusive time window. Zero-value fields impose no constraint, and the
// clauses always combine as a conjunction. An inverted window (start after
// end) is legitimate and simply matches nothing.
type BattleFilter struct {
	PlayerTag string
	StartDate *time.Time
	EndDate   *time.Time
}

// where renders the filter as a WHERE clause plus bind args. The datetime()
// wrapping normalizes both sides to UTC wall-clock text so the comparison is
// independent of the driver's timestamp serialization.
func (f BattleFilter) where() (string, []any) {
	var clauses []string
	var args []any

	if f.PlayerTag != "" {
		clauses = append(clauses, "player_tag = ?")
		args = append(args, f.PlayerTag)
	}
	if f.StartDate != nil {
		clauses = append(clauses, "datetime(battle_time) >= datetime(?)")
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		clauses = append(clauses, "datetime(battle_time) <= datetime(?)")
		args = append(args, f.EndDate.UTC())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
