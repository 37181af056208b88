package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Source identifies where a gameline came from.
type Source string

const (
	SourceManual     Source = "manual"
	SourceDraftKings Source = "draftkings"
	SourceFanDuel    Source = "fanduel"
	SourceESPNBets   Source = "espn_bets"
)

// Sources lists every known source in a stable order.
var Sources = []Source{SourceManual, SourceDraftKings, SourceFanDuel, SourceESPNBets}

// ParseSource maps a user-supplied name onto the closed source set.
func ParseSource(name string) (Source, error) {
	n := Source(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range Sources {
		if s == n {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "source", Message: fmt.Sprintf("unknown source %q", name)}
}

// SpreadBasis records how the sign of a gameline's spreads was established.
type SpreadBasis string

const (
	// SpreadReported means the upstream published signed spreads.
	SpreadReported SpreadBasis = "reported"
	// SpreadHomeFavorite and SpreadAwayFavorite mean the sign was inferred from moneylines.
	SpreadHomeFavorite SpreadBasis = "home_favorite"
	SpreadAwayFavorite SpreadBasis = "away_favorite"
	// SpreadUndetermined means both moneylines were equal; magnitudes are left unsigned.
	SpreadUndetermined SpreadBasis = "undetermined"
	// SpreadUnsigned means a moneyline was missing and the spread passed through as-is.
	SpreadUnsigned SpreadBasis = "unsigned"
)

const (
	DayLayout = "2006-01-02"
	// TimeTBD is used when a source gives no tip-off time.
	TimeTBD = "TBD"
)

// Gameline is one betting-market snapshot for a single matchup.
// Optional markets are nil when the source did not report them and are
// serialized as null, never omitted.
type Gameline struct {
	Source         Source      `json:"source"`
	Home           string      `json:"home"`
	Away           string      `json:"away"`
	GameDay        string      `json:"game_day"`
	StartTime      string      `json:"start_time"`
	HomeML         *int        `json:"home_ml"`
	AwayML         *int        `json:"away_ml"`
	HomeSpread     *float64    `json:"home_spread"`
	AwaySpread     *float64    `json:"away_spread"`
	HomeSpreadOdds *int        `json:"home_spread_odds"`
	AwaySpreadOdds *int        `json:"away_spread_odds"`
	OverUnder      *float64    `json:"over_under"`
	OverOdds       *int        `json:"over_odds"`
	UnderOdds      *int        `json:"under_odds"`
	SpreadBasis    SpreadBasis `json:"spread_basis"`
}

// Key is the identity tuple of a stored gameline.
type Key struct {
	Source  Source
	Home    string
	Away    string
	GameDay string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.Source, k.Home, k.Away, k.GameDay)
}

func (g Gameline) Key() Key {
	return Key{Source: g.Source, Home: g.Home, Away: g.Away, GameDay: g.GameDay}
}

// Validate checks the identity fields and the shape of the date/time fields.
func (g Gameline) Validate() error {
	if _, err := ParseSource(string(g.Source)); err != nil {
		return err
	}
	if strings.TrimSpace(g.Home) == "" {
		return &ValidationError{Field: "home", Message: "home team is required"}
	}
	if strings.TrimSpace(g.Away) == "" {
		return &ValidationError{Field: "away", Message: "away team is required"}
	}
	if _, err := time.Parse(DayLayout, g.GameDay); err != nil {
		return &ValidationError{Field: "game_day", Message: fmt.Sprintf("game_day %q is not YYYY-MM-DD", g.GameDay)}
	}
	if g.StartTime != "" && g.StartTime != TimeTBD && !validClock(g.StartTime) {
		return &ValidationError{Field: "start_time", Message: fmt.Sprintf("start_time %q is neither HH:MM[Z] nor %s", g.StartTime, TimeTBD)}
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"home_spread", g.HomeSpread},
		{"away_spread", g.AwaySpread},
		{"over_under", g.OverUnder},
	} {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return &ValidationError{Field: f.name, Message: fmt.Sprintf("%s %v is not a finite number", f.name, *f.v)}
		}
	}
	switch g.SpreadBasis {
	case "", SpreadReported, SpreadHomeFavorite, SpreadAwayFavorite, SpreadUndetermined, SpreadUnsigned:
	default:
		return &ValidationError{Field: "spread_basis", Message: fmt.Sprintf("unknown spread basis %q", g.SpreadBasis)}
	}
	return nil
}

func validClock(s string) bool {
	s = strings.TrimSuffix(s, "Z")
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Day formats t as a game day in loc.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// IntPtr and FloatPtr are small helpers for building optional fields.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

func StringPtr(v string) *string { return &v }
