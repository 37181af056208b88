package model

import "fmt"

// TeamGameRow is one played game's box-score line for a team. Numeric
// columns are kept as the text the upstream published and parsed only when
// aggregated. A column the page did not publish for a row is nil and
// serializes as null.
type TeamGameRow struct {
	Game     *string `json:"game"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
	Opponent *string `json:"opponent"`
	Result   *string `json:"result"`

	Points        *string `json:"points"`
	PointsAllowed *string `json:"points_allowed"`

	FG       *string `json:"fg"`
	FGA      *string `json:"fga"`
	FGPct    *string `json:"fg_pct"`
	ThreeP   *string `json:"three_p"`
	ThreePA  *string `json:"three_pa"`
	ThreePct *string `json:"three_pct"`
	FT       *string `json:"ft"`
	FTA      *string `json:"fta"`
	FTPct    *string `json:"ft_pct"`
	ORB      *string `json:"orb"`
	TRB      *string `json:"trb"`
	AST      *string `json:"ast"`
	STL      *string `json:"stl"`
	BLK      *string `json:"blk"`
	TOV      *string `json:"tov"`
	PF       *string `json:"pf"`

	OppFG       *string `json:"opp_fg"`
	OppFGA      *string `json:"opp_fga"`
	OppFGPct    *string `json:"opp_fg_pct"`
	OppThreeP   *string `json:"opp_three_p"`
	OppThreePA  *string `json:"opp_three_pa"`
	OppThreePct *string `json:"opp_three_pct"`
	OppFT       *string `json:"opp_ft"`
	OppFTA      *string `json:"opp_fta"`
	OppFTPct    *string `json:"opp_ft_pct"`
	OppORB      *string `json:"opp_orb"`
	OppTRB      *string `json:"opp_trb"`
	OppAST      *string `json:"opp_ast"`
	OppSTL      *string `json:"opp_stl"`
	OppBLK      *string `json:"opp_blk"`
	OppTOV      *string `json:"opp_tov"`
	OppPF       *string `json:"opp_pf"`
}

// TeamSeasonSummary is derived from a team's stored rows on every read.
type TeamSeasonSummary struct {
	Team   string `json:"team"`
	Season string `json:"season"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`

	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	Rebounds      float64 `json:"rebounds"`
	Assists       float64 `json:"assists"`
	Turnovers     float64 `json:"turnovers"`

	FieldGoalPct  float64 `json:"field_goal_percentage"`
	ThreePointPct float64 `json:"three_point_percentage"`
	FreeThrowPct  float64 `json:"free_throw_percentage"`

	Rows []TeamGameRow `json:"games_played"`
}

// Record formats the win-loss record as "W-L".
func (s TeamSeasonSummary) Record() string {
	return fmt.Sprintf("%d-%d", s.Wins, s.Losses)
}

// Text returns the value of an optional column, or "" when it is absent.
func Text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
