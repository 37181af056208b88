package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ncaablines/internal/model"
)

// Summarize aggregates rows in one pass. Unparseable numbers count as zero
// and any average or percentage with a zero denominator is zero.
func Summarize(team, season string, rows []model.TeamGameRow) model.TeamSeasonSummary {
	s := model.TeamSeasonSummary{
		Team:   team,
		Season: season,
		Games:  len(rows),
		Rows:   rows,
	}

	var (
		pointsFor, pointsAgainst     float64
		rebounds, assists, turnovers float64
		fg, fga, threeP, threePA     float64
		ft, fta                      float64
	)
	for _, r := range rows {
		switch {
		case strings.Contains(model.Text(r.Result), "W"):
			s.Wins++
		case strings.Contains(model.Text(r.Result), "L"):
			s.Losses++
		}

		pointsFor += num(r.Points)
		pointsAgainst += num(r.PointsAllowed)
		rebounds += num(r.TRB)
		assists += num(r.AST)
		turnovers += num(r.TOV)
		fg += num(r.FG)
		fga += num(r.FGA)
		threeP += num(r.ThreeP)
		threePA += num(r.ThreePA)
		ft += num(r.FT)
		fta += num(r.FTA)
	}

	games := float64(len(rows))
	s.PointsFor = ratio(pointsFor, games, 1)
	s.PointsAgainst = ratio(pointsAgainst, games, 1)
	s.Rebounds = ratio(rebounds, games, 1)
	s.Assists = ratio(assists, games, 1)
	s.Turnovers = ratio(turnovers, games, 1)
	s.FieldGoalPct = ratio(fg, fga, 100)
	s.ThreePointPct = ratio(threeP, threePA, 100)
	s.FreeThrowPct = ratio(ft, fta, 100)
	return s
}

// Recent returns the last n rows, in order.
func Recent(rows []model.TeamGameRow, n int) ([]model.TeamGameRow, error) {
	if n <= 0 {
		return nil, &model.ValidationError{Field: "last", Message: "must be a positive number of games"}
	}
	if len(rows) < n {
		return nil, &model.ValidationError{Field: "last", Message: fmt.Sprintf("only %d games played, need %d", len(rows), n)}
	}
	return rows[len(rows)-n:], nil
}

func num(p *string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(model.Text(p)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ratio returns n/d*scale rounded to one decimal, or 0 when d is 0.
func ratio(n, d, scale float64) float64 {
	if d == 0 {
		return 0
	}
	return math.Round(n/d*scale*10) / 10
}
