package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ncaablines/internal/model"
)

func TestDeriveSpread(t *testing.T) {
	tests := []struct {
		name      string
		homeML    *int
		awayML    *int
		spread    float64
		wantHome  float64
		wantAway  float64
		wantBasis model.SpreadBasis
	}{
		{"home favorite", model.IntPtr(-180), model.IntPtr(160), 4.5, -4.5, 4.5, model.SpreadHomeFavorite},
		{"away favorite", model.IntPtr(160), model.IntPtr(-180), 4.5, 4.5, -4.5, model.SpreadAwayFavorite},
		{"negative magnitude input", model.IntPtr(-300), model.IntPtr(250), -7, -7, 7, model.SpreadHomeFavorite},
		{"equal moneylines", model.IntPtr(-110), model.IntPtr(-110), 1.5, 1.5, 1.5, model.SpreadUndetermined},
		{"missing home moneyline", nil, model.IntPtr(-110), 3, 3, 3, model.SpreadUnsigned},
		{"missing away moneyline", model.IntPtr(-110), nil, -2.5, -2.5, -2.5, model.SpreadUnsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away, basis := DeriveSpread(tt.homeML, tt.awayML, tt.spread)
			assert.Equal(t, tt.wantHome, home)
			assert.Equal(t, tt.wantAway, away)
			assert.Equal(t, tt.wantBasis, basis)
		})
	}
}

func TestDeriveSpread_PickEm(t *testing.T) {
	home, away, basis := DeriveSpread(model.IntPtr(-120), model.IntPtr(100), 0)
	assert.False(t, math.Signbit(home))
	assert.False(t, math.Signbit(away))
	assert.Equal(t, model.SpreadHomeFavorite, basis)

	home, away, _ = DeriveSpread(model.IntPtr(100), model.IntPtr(-120), 0)
	assert.False(t, math.Signbit(home))
	assert.False(t, math.Signbit(away))

	data, err := json.Marshal(home)
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))
}

func TestApplySpread(t *testing.T) {
	g := model.Gameline{HomeML: model.IntPtr(-180), AwayML: model.IntPtr(160)}
	ApplySpread(&g, model.FloatPtr(4.5))
	require.NotNil(t, g.HomeSpread)
	require.NotNil(t, g.AwaySpread)
	assert.Equal(t, -4.5, *g.HomeSpread)
	assert.Equal(t, 4.5, *g.AwaySpread)
	assert.Equal(t, model.SpreadHomeFavorite, g.SpreadBasis)

	g = model.Gameline{HomeML: model.IntPtr(-180), AwayML: model.IntPtr(160)}
	ApplySpread(&g, nil)
	assert.Nil(t, g.HomeSpread)
	assert.Nil(t, g.AwaySpread)
	assert.Empty(t, g.SpreadBasis)
}

func TestParseAmerican(t *testing.T) {
	tests := map[string]*int{
		"-110":        model.IntPtr(-110),
		"+150":        model.IntPtr(150),
		"150":         model.IntPtr(150),
		"\u2212180":   model.IntPtr(-180),
		" \u00a0-105": model.IntPtr(-105),
		"EVEN":        model.IntPtr(100),
		"ev":          model.IntPtr(100),
		"":            nil,
		"N/A":         nil,
		"OFF":         nil,
		"abc":         nil,
	}
	for in, want := range tests {
		got := ParseAmerican(in)
		if want == nil {
			assert.Nil(t, got, "input %q", in)
			continue
		}
		if assert.NotNil(t, got, "input %q", in) {
			assert.Equal(t, *want, *got, "input %q", in)
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := map[string]*float64{
		"+4.5":          model.FloatPtr(4.5),
		"-4.5":          model.FloatPtr(-4.5),
		"\u22124.5":     model.FloatPtr(-4.5),
		"4\u00bd":       model.FloatPtr(4.5),
		"-\u00bd":       model.FloatPtr(-0.5),
		"O 145.5":       model.FloatPtr(145.5),
		"O\u00a0145.5":  model.FloatPtr(145.5),
		"U145":          model.FloatPtr(145),
		"pk":            model.FloatPtr(0),
		"PICK":          model.FloatPtr(0),
		"OFF":           nil,
		"":              nil,
		"N/A":           nil,
		"Over the moon": nil,
		"nan":           nil,
		"O nan":         nil,
		"inf":           nil,
		"-Infinity":     nil,
		"Infinity":      nil,
	}
	for in, want := range tests {
		got := ParseLine(in)
		if want == nil {
			assert.Nil(t, got, "input %q", in)
			continue
		}
		if assert.NotNil(t, got, "input %q", in) {
			assert.Equal(t, *want, *got, "input %q", in)
		}
	}
}

func TestParseLine_DropsNegativeZero(t *testing.T) {
	got := ParseLine("-0")
	require.NotNil(t, got)
	assert.False(t, math.Signbit(*got))
}

func TestIsSigned(t *testing.T) {
	assert.True(t, IsSigned("+4.5"))
	assert.True(t, IsSigned("\u22124.5"))
	assert.True(t, IsSigned(" -1"))
	assert.False(t, IsSigned("4.5"))
	assert.False(t, IsSigned("O 145.5"))
}

func TestSplitOdds(t *testing.T) {
	tests := []struct {
		in        string
		wantValue string
		wantOdds  string
	}{
		{"+1.5\u2212110", "+1.5", "\u2212110"},
		{"-11.5+100", "-11.5", "+100"},
		{"O\u00a0145.5-115", "O\u00a0145.5", "-115"},
		{"-110", "", "-110"},
		{"", "", ""},
	}
	for _, tt := range tests {
		value, odds := SplitOdds(tt.in)
		assert.Equal(t, tt.wantValue, value, "input %q", tt.in)
		assert.Equal(t, tt.wantOdds, odds, "input %q", tt.in)
	}
}

func TestVigOr(t *testing.T) {
	assert.Equal(t, DefaultVig, *VigOr(nil))
	assert.Equal(t, -120, *VigOr(model.IntPtr(-120)))
}
