package source

import (
	"strings"

	"ncaablines/internal/model"
)

// Manual accepts gamelines typed in by a person. Submitted spreads are
// taken as signed.
type Manual struct{}

// Accept forces the manual source onto g, fills the mirrored spread and
// validates the result.
func (Manual) Accept(g model.Gameline) (model.Gameline, error) {
	g.Source = model.SourceManual
	g.Home = strings.TrimSpace(g.Home)
	g.Away = strings.TrimSpace(g.Away)
	if g.StartTime == "" {
		g.StartTime = model.TimeTBD
	}

	switch {
	case g.HomeSpread != nil && g.AwaySpread == nil:
		g.AwaySpread = model.FloatPtr(-*g.HomeSpread)
	case g.AwaySpread != nil && g.HomeSpread == nil:
		g.HomeSpread = model.FloatPtr(-*g.AwaySpread)
	}
	if g.HomeSpread != nil && g.SpreadBasis == "" {
		g.SpreadBasis = model.SpreadReported
	}

	if err := g.Validate(); err != nil {
		return model.Gameline{}, err
	}
	return g, nil
}
