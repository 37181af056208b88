package source

import (
	"bytes"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ncaablines/internal/model"
	"ncaablines/internal/normalize"
)

// Sportsbook odds tables lead with four header cells, then list each game
// as eight cells: home, home spread+odds, over+odds, home moneyline, away,
// away spread+odds, under+odds, away moneyline.
const (
	oddsHeaderCells = 4
	oddsGroupCells  = 8
)

// OddsRow is one game cut from a sportsbook odds table. Values are raw text.
type OddsRow struct {
	Home           string
	Away           string
	HomeML         string
	AwayML         string
	HomeSpread     string
	AwaySpread     string
	HomeSpreadOdds string
	AwaySpreadOdds string
	Over           string
	Under          string
	OverOdds       string
	UnderOdds      string
}

// ParseOddsTable reads the first table in raw. A page with no table is a
// ParseError; a table too short for one full game yields no rows.
func ParseOddsTable(id model.Source, raw []byte) ([]OddsRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &model.ParseError{Source: id, What: "reading html", Err: err}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &model.ParseError{Source: id, What: "no odds table on page"}
	}

	var cells []string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tr.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
	})

	if len(cells) <= oddsHeaderCells {
		return nil, nil
	}
	cells = cells[oddsHeaderCells:]

	rows := make([]OddsRow, 0, len(cells)/oddsGroupCells)
	for i := 0; i+oddsGroupCells <= len(cells); i += oddsGroupCells {
		rows = append(rows, oddsRow(cells[i:i+oddsGroupCells]))
	}
	return rows, nil
}

func oddsRow(g []string) OddsRow {
	homeSpread, homeSpreadOdds := normalize.SplitOdds(g[1])
	awaySpread, awaySpreadOdds := normalize.SplitOdds(g[5])
	over, overOdds := normalize.SplitOdds(g[2])
	under, underOdds := normalize.SplitOdds(g[6])
	return OddsRow{
		Home:           g[0],
		Away:           g[4],
		HomeML:         g[3],
		AwayML:         g[7],
		HomeSpread:     homeSpread,
		AwaySpread:     awaySpread,
		HomeSpreadOdds: homeSpreadOdds,
		AwaySpreadOdds: awaySpreadOdds,
		Over:           normalize.Clean(over),
		Under:          normalize.Clean(under),
		OverOdds:       overOdds,
		UnderOdds:      underOdds,
	}
}

// NormalizeOddsRow builds a gameline for day from a parsed row. Signed spread
// text is trusted as reported; unsigned magnitudes are signed from the
// moneylines.
func NormalizeOddsRow(id model.Source, row OddsRow, day string) model.Gameline {
	g := model.Gameline{
		Source:         id,
		Home:           strings.TrimSpace(row.Home),
		Away:           strings.TrimSpace(row.Away),
		GameDay:        day,
		StartTime:      model.TimeTBD,
		HomeML:         normalize.ParseAmerican(row.HomeML),
		AwayML:         normalize.ParseAmerican(row.AwayML),
		HomeSpreadOdds: normalize.ParseAmerican(row.HomeSpreadOdds),
		AwaySpreadOdds: normalize.ParseAmerican(row.AwaySpreadOdds),
		OverOdds:       normalize.ParseAmerican(row.OverOdds),
		UnderOdds:      normalize.ParseAmerican(row.UnderOdds),
	}

	home := normalize.ParseLine(row.HomeSpread)
	away := normalize.ParseLine(row.AwaySpread)
	switch {
	case home != nil && normalize.IsSigned(row.HomeSpread):
		g.HomeSpread = home
		if away == nil {
			away = model.FloatPtr(-*home)
		}
		g.AwaySpread = away
		g.SpreadBasis = model.SpreadReported
	case home != nil:
		normalize.ApplySpread(&g, home)
	case away != nil:
		normalize.ApplySpread(&g, away)
	}

	g.OverUnder = normalize.ParseLine(row.Over)
	if g.OverUnder == nil {
		g.OverUnder = normalize.ParseLine(row.Under)
	}
	return g
}

// OddsTable is a sportsbook whose page lists games in one HTML table.
type OddsTable struct {
	id  model.Source
	url string
	loc *time.Location
}

func NewOddsTable(id model.Source, url string, loc *time.Location) *OddsTable {
	if loc == nil {
		loc = time.UTC
	}
	return &OddsTable{id: id, url: url, loc: loc}
}

func (o *OddsTable) ID() model.Source { return o.id }
func (o *OddsTable) URL() string      { return o.url }

// Extract dates every game to now's calendar day in the configured zone;
// these tables carry no dates of their own.
func (o *OddsTable) Extract(raw []byte, now time.Time) ([]model.Gameline, error) {
	rows, err := ParseOddsTable(o.id, raw)
	if err != nil {
		return nil, err
	}

	day := model.Day(now, o.loc)
	lines := make([]model.Gameline, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, NormalizeOddsRow(o.id, row, day))
	}
	return keepValid(o.id, lines), nil
}
