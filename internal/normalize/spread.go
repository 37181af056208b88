// Package normalize holds the field-level rules that turn loosely formatted
// sportsbook text into canonical gameline values.
package normalize

import (
	"math"

	"ncaablines/internal/model"
)

// DeriveSpread signs an unsigned spread magnitude from the two moneylines.
// The lower moneyline is the favorite and gives points. Equal moneylines
// leave both sides unsigned, and a missing moneyline passes spread through
// untouched.
func DeriveSpread(homeML, awayML *int, spread float64) (home, away float64, basis model.SpreadBasis) {
	if homeML == nil || awayML == nil {
		return spread, spread, model.SpreadUnsigned
	}

	mag := math.Abs(spread)
	switch {
	case *homeML < *awayML:
		return negate(mag), mag, model.SpreadHomeFavorite
	case *homeML > *awayML:
		return mag, negate(mag), model.SpreadAwayFavorite
	default:
		return mag, mag, model.SpreadUndetermined
	}
}

// negate gives the favorite's side of a magnitude. A pick'em stays 0, not -0.
func negate(mag float64) float64 {
	if mag == 0 {
		return 0
	}
	return -mag
}

// ApplySpread fills the spread fields of g from a single magnitude.
// A nil spread leaves both sides nil and the basis empty.
func ApplySpread(g *model.Gameline, spread *float64) {
	if spread == nil {
		g.HomeSpread, g.AwaySpread = nil, nil
		return
	}
	h, a, basis := DeriveSpread(g.HomeML, g.AwayML, *spread)
	g.HomeSpread = model.FloatPtr(h)
	g.AwaySpread = model.FloatPtr(a)
	g.SpreadBasis = basis
}
