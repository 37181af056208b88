package source

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ncaablines/internal/model"
	"ncaablines/internal/normalize"
)

// ESPNTime accepts both RFC3339 timestamps and the shorter
// "2006-01-02T15:04Z" form the scoreboard uses.
type ESPNTime struct {
	time.Time
}

func (t *ESPNTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	var parseErr error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		parseErr = err
	}
	return parseErr
}

type scoreboard struct {
	// Events is a pointer so a missing key can be told apart from an empty slate.
	Events *[]scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string                  `json:"id"`
	Date         ESPNTime                `json:"date"`
	Name         string                  `json:"name"`
	ShortName    string                  `json:"shortName"`
	Competitions []scoreboardCompetition `json:"competitions"`
}

type scoreboardCompetition struct {
	ID   string           `json:"id"`
	Odds []scoreboardOdds `json:"odds"`
}

type scoreboardOdds struct {
	Provider struct {
		Name string `json:"name"`
	} `json:"provider"`
	Details      string              `json:"details"`
	OverUnder    *float64            `json:"overUnder"`
	Spread       *float64            `json:"spread"`
	HomeTeamOdds *scoreboardTeamOdds `json:"homeTeamOdds"`
	AwayTeamOdds *scoreboardTeamOdds `json:"awayTeamOdds"`
}

type scoreboardTeamOdds struct {
	MoneyLine *int `json:"moneyLine"`
}

// ScoreboardLine is one odds provider's line for one event.
type ScoreboardLine struct {
	GameID    string
	Name      string
	ShortName string
	GameDay   string
	StartTime string
	Provider  string
	OverUnder *float64
	Spread    *float64
	HomeML    *int
	AwayML    *int
}

// ParseScoreboard flattens a scoreboard payload into one line per event and
// odds provider. Events without competitions or odds contribute nothing.
func ParseScoreboard(id model.Source, raw []byte) ([]ScoreboardLine, error) {
	var sb scoreboard
	if err := json.Unmarshal(raw, &sb); err != nil {
		return nil, &model.ParseError{Source: id, What: "decoding scoreboard", Err: err}
	}
	if sb.Events == nil {
		return nil, &model.ParseError{Source: id, What: "no events key in scoreboard"}
	}

	var lines []ScoreboardLine
	for _, ev := range *sb.Events {
		var day, clock string
		if !ev.Date.IsZero() {
			utc := ev.Date.UTC()
			day = utc.Format(model.DayLayout)
			clock = utc.Format("15:04Z")
		}
		for _, comp := range ev.Competitions {
			for _, o := range comp.Odds {
				line := ScoreboardLine{
					GameID:    comp.ID,
					Name:      ev.Name,
					ShortName: ev.ShortName,
					GameDay:   day,
					StartTime: clock,
					Provider:  o.Provider.Name,
					OverUnder: o.OverUnder,
					Spread:    o.Spread,
				}
				if o.HomeTeamOdds != nil {
					line.HomeML = o.HomeTeamOdds.MoneyLine
				}
				if o.AwayTeamOdds != nil {
					line.AwayML = o.AwayTeamOdds.MoneyLine
				}
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

// NormalizeScoreboardLine maps a scoreboard line onto a gameline. Team names
// come from the "AWAY @ HOME" short name. The scoreboard publishes no spread
// or total prices, so those default to the standard vig.
func NormalizeScoreboardLine(id model.Source, l ScoreboardLine) (model.Gameline, error) {
	away, home, ok := strings.Cut(l.ShortName, "@")
	if !ok {
		return model.Gameline{}, &model.ParseError{Source: id, What: fmt.Sprintf("short name %q is not AWAY @ HOME", l.ShortName)}
	}

	g := model.Gameline{
		Source:         id,
		Home:           strings.TrimSpace(home),
		Away:           strings.TrimSpace(away),
		GameDay:        l.GameDay,
		StartTime:      l.StartTime,
		HomeML:         l.HomeML,
		AwayML:         l.AwayML,
		HomeSpreadOdds: normalize.VigOr(nil),
		AwaySpreadOdds: normalize.VigOr(nil),
		OverUnder:      l.OverUnder,
		OverOdds:       normalize.VigOr(nil),
		UnderOdds:      normalize.VigOr(nil),
	}
	if g.StartTime == "" {
		g.StartTime = model.TimeTBD
	}
	normalize.ApplySpread(&g, l.Spread)
	return g, nil
}

// ScoresAPI is a JSON scoreboard that embeds odds in each event.
type ScoresAPI struct {
	id  model.Source
	url string
}

func NewScoresAPI(id model.Source, url string) *ScoresAPI {
	return &ScoresAPI{id: id, url: url}
}

func (s *ScoresAPI) ID() model.Source { return s.id }
func (s *ScoresAPI) URL() string      { return s.url }

func (s *ScoresAPI) Extract(raw []byte, _ time.Time) ([]model.Gameline, error) {
	parsed, err := ParseScoreboard(s.id, raw)
	if err != nil {
		return nil, err
	}

	lines := make([]model.Gameline, 0, len(parsed))
	for _, l := range parsed {
		g, err := NormalizeScoreboardLine(s.id, l)
		if err != nil {
			slog.Warn("skipping scoreboard line", "source", s.id, "game_id", l.GameID, "error", err)
			continue
		}
		lines = append(lines, g)
	}
	if len(lines) == 0 {
		slog.Info("no odds on scoreboard", "source", s.id, "events", len(parsed))
	}
	return keepValid(s.id, lines), nil
}
