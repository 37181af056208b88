package stats

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ncaablines/internal/model"
)

// gamelogSource names the stats site in parse errors.
const gamelogSource model.Source = "sports_reference"

// gamelogColumns is the game log's data-cell order. A layout change upstream
// only needs this list updated.
var gamelogColumns = []string{
	"game", "date", "location", "opponent", "result", "points", "points_allowed",
	"fg", "fga", "fg_pct", "three_p", "three_pa", "three_pct",
	"ft", "fta", "ft_pct", "orb", "trb", "ast", "stl", "blk", "tov", "pf",
	"opp_fg", "opp_fga", "opp_fg_pct", "opp_three_p", "opp_three_pa", "opp_three_pct",
	"opp_ft", "opp_fta", "opp_ft_pct", "opp_orb", "opp_trb", "opp_ast", "opp_stl", "opp_blk", "opp_tov", "opp_pf",
}

// rowFields binds each column name to its TeamGameRow field.
var rowFields = map[string]func(r *model.TeamGameRow) **string{
	"game":           func(r *model.TeamGameRow) **string { return &r.Game },
	"date":           func(r *model.TeamGameRow) **string { return &r.Date },
	"location":       func(r *model.TeamGameRow) **string { return &r.Location },
	"opponent":       func(r *model.TeamGameRow) **string { return &r.Opponent },
	"result":         func(r *model.TeamGameRow) **string { return &r.Result },
	"points":         func(r *model.TeamGameRow) **string { return &r.Points },
	"points_allowed": func(r *model.TeamGameRow) **string { return &r.PointsAllowed },
	"fg":             func(r *model.TeamGameRow) **string { return &r.FG },
	"fga":            func(r *model.TeamGameRow) **string { return &r.FGA },
	"fg_pct":         func(r *model.TeamGameRow) **string { return &r.FGPct },
	"three_p":        func(r *model.TeamGameRow) **string { return &r.ThreeP },
	"three_pa":       func(r *model.TeamGameRow) **string { return &r.ThreePA },
	"three_pct":      func(r *model.TeamGameRow) **string { return &r.ThreePct },
	"ft":             func(r *model.TeamGameRow) **string { return &r.FT },
	"fta":            func(r *model.TeamGameRow) **string { return &r.FTA },
	"ft_pct":         func(r *model.TeamGameRow) **string { return &r.FTPct },
	"orb":            func(r *model.TeamGameRow) **string { return &r.ORB },
	"trb":            func(r *model.TeamGameRow) **string { return &r.TRB },
	"ast":            func(r *model.TeamGameRow) **string { return &r.AST },
	"stl":            func(r *model.TeamGameRow) **string { return &r.STL },
	"blk":            func(r *model.TeamGameRow) **string { return &r.BLK },
	"tov":            func(r *model.TeamGameRow) **string { return &r.TOV },
	"pf":             func(r *model.TeamGameRow) **string { return &r.PF },
	"opp_fg":         func(r *model.TeamGameRow) **string { return &r.OppFG },
	"opp_fga":        func(r *model.TeamGameRow) **string { return &r.OppFGA },
	"opp_fg_pct":     func(r *model.TeamGameRow) **string { return &r.OppFGPct },
	"opp_three_p":    func(r *model.TeamGameRow) **string { return &r.OppThreeP },
	"opp_three_pa":   func(r *model.TeamGameRow) **string { return &r.OppThreePA },
	"opp_three_pct":  func(r *model.TeamGameRow) **string { return &r.OppThreePct },
	"opp_ft":         func(r *model.TeamGameRow) **string { return &r.OppFT },
	"opp_fta":        func(r *model.TeamGameRow) **string { return &r.OppFTA },
	"opp_ft_pct":     func(r *model.TeamGameRow) **string { return &r.OppFTPct },
	"opp_orb":        func(r *model.TeamGameRow) **string { return &r.OppORB },
	"opp_trb":        func(r *model.TeamGameRow) **string { return &r.OppTRB },
	"opp_ast":        func(r *model.TeamGameRow) **string { return &r.OppAST },
	"opp_stl":        func(r *model.TeamGameRow) **string { return &r.OppSTL },
	"opp_blk":        func(r *model.TeamGameRow) **string { return &r.OppBLK },
	"opp_tov":        func(r *model.TeamGameRow) **string { return &r.OppTOV },
	"opp_pf":         func(r *model.TeamGameRow) **string { return &r.OppPF },
}

// ParseGamelog reads every data row of the first tbody in raw. Rows with no
// td cells, such as repeated header rows, are skipped. Short rows leave the
// missing trailing fields nil.
func ParseGamelog(raw []byte) ([]model.TeamGameRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &model.ParseError{Source: gamelogSource, What: "reading html", Err: err}
	}

	body := doc.Find("tbody").First()
	if body.Length() == 0 {
		return nil, &model.ParseError{Source: gamelogSource, What: "no game log table on page"}
	}

	rows := []model.TeamGameRow{}
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}
		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})

		decoded := Columns(cells, len(cells), gamelogColumns)
		rows = append(rows, toRow(decoded[0]))
	})
	return rows, nil
}

func toRow(m map[string]string) model.TeamGameRow {
	var r model.TeamGameRow
	for name, v := range m {
		if field, ok := rowFields[name]; ok {
			*field(&r) = model.StringPtr(v)
		}
	}
	return r
}
