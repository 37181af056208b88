package stats

import (
	"log/slog"

	"ncaablines/internal/model"
)

// LogSummary logs a season summary as structured JSON.
func LogSummary(s model.TeamSeasonSummary) {
	slog.Info("=== TEAM SUMMARY ===",
		"team", s.Team,
		"season", s.Season,
		"games", s.Games,
		"record", s.Record(),
		"points_for", s.PointsFor,
		"points_against", s.PointsAgainst,
		"rebounds", s.Rebounds,
		"assists", s.Assists,
		"turnovers", s.Turnovers,
		"fg_pct", s.FieldGoalPct,
		"three_pct", s.ThreePointPct,
		"ft_pct", s.FreeThrowPct,
	)
}
