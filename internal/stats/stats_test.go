package stats

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ncaablines/internal/db"
	"ncaablines/internal/model"
)

var sp = model.StringPtr

func TestColumns(t *testing.T) {
	tokens := []string{"a1", "b1", "c1", "a2", "b2", "c2", "a3"}

	rows := Columns(tokens, 3, []string{"a", "b", "c"})
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"a": "a1", "b": "b1", "c": "c1"}, rows[0])
	assert.Equal(t, map[string]string{"a": "a2", "b": "b2", "c": "c2"}, rows[1])

	// Fewer names than the stride drops the trailing tokens.
	rows = Columns(tokens, 3, []string{"a", "b"})
	assert.Equal(t, map[string]string{"a": "a2", "b": "b2"}, rows[1])

	// More names than the stride leaves the extras absent.
	rows = Columns(tokens[:3], 3, []string{"a", "b", "c", "d"})
	require.Len(t, rows, 1)
	_, ok := rows[0]["d"]
	assert.False(t, ok)

	assert.Empty(t, Columns(tokens, 0, []string{"a"}))
	assert.Empty(t, Columns(nil, 3, []string{"a"}))
}

// gamelogRow builds the td cells of one game log row.
func gamelogRow(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<tr><th scope="row">x</th>`)
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func fullRow(game, date, opp, result, pts, ptsAllowed, fg, fga, threeP, threePA, ft, fta, trb, ast, tov string) string {
	return gamelogRow(game, date, "@", opp, result, pts, ptsAllowed,
		fg, fga, "", threeP, threePA, "", ft, fta, "", "10", trb, ast, "5", "3", tov, "18",
		"25", "60", ".417", "6", "20", ".300", "10", "14", ".714", "8", "30", "11", "6", "2", "13", "19")
}

var gamelogPage = `<html><body>
<table id="sgl-basic">
<thead><tr><th>G</th><th>Date</th></tr></thead>
<tbody>
` + fullRow("1", "2023-11-06", "Kentucky", "W", "74", "65", "28", "60", "7", "20", "11", "15", "40", "15", "10") + `
<tr class="thead"><th>G</th><th>Date</th></tr>
` + fullRow("2", "2023-11-10", "Duke", "L (OT)", "70", "80", "26", "64", "5", "22", "13", "18", "35", "12", "14") + `
` + gamelogRow("3", "2023-11-14", "", "Purdue", "W", "81") + `
</tbody>
</table>
</body></html>`

func TestParseGamelog(t *testing.T) {
	rows, err := ParseGamelog([]byte(gamelogPage))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, sp("1"), first.Game)
	assert.Equal(t, sp("2023-11-06"), first.Date)
	assert.Equal(t, sp("@"), first.Location)
	assert.Equal(t, sp("Kentucky"), first.Opponent)
	assert.Equal(t, sp("W"), first.Result)
	assert.Equal(t, sp("74"), first.Points)
	assert.Equal(t, sp("65"), first.PointsAllowed)
	assert.Equal(t, sp("28"), first.FG)
	assert.Equal(t, sp("60"), first.FGA)
	assert.Equal(t, sp("40"), first.TRB)
	assert.Equal(t, sp("10"), first.TOV)
	assert.Equal(t, sp("18"), first.PF)
	assert.Equal(t, sp("25"), first.OppFG)
	assert.Equal(t, sp("19"), first.OppPF)

	// A short row keeps what it has, empty cells included, and leaves the
	// columns it never reached nil.
	short := rows[2]
	assert.Equal(t, sp("Purdue"), short.Opponent)
	assert.Equal(t, sp(""), short.Location)
	assert.Equal(t, sp("81"), short.Points)
	assert.Nil(t, short.PointsAllowed)
	assert.Nil(t, short.OppPF)

	data, err := json.Marshal(short)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"location":""`)
	assert.Contains(t, string(data), `"points_allowed":null`)
}

func TestParseGamelog_NoTable(t *testing.T) {
	_, err := ParseGamelog([]byte(`<html><body><p>Page not found</p></body></html>`))
	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestSummarize(t *testing.T) {
	rows, err := ParseGamelog([]byte(gamelogPage))
	require.NoError(t, err)

	s := Summarize("michigan-state", "2024", rows)
	assert.Equal(t, 3, s.Games)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, "2-1", s.Record())
	assert.Equal(t, 75.0, s.PointsFor)     // (74+70+81)/3
	assert.Equal(t, 48.3, s.PointsAgainst) // (65+80)/3
	assert.Equal(t, 25.0, s.Rebounds)      // (40+35)/3
	assert.Equal(t, 9.0, s.Assists)        // (15+12)/3
	assert.Equal(t, 43.5, s.FieldGoalPct)  // 54/124
	assert.Equal(t, 28.6, s.ThreePointPct) // 12/42
	assert.Equal(t, 72.7, s.FreeThrowPct)  // 24/33
	assert.Len(t, s.Rows, 3)
}

func TestSummarize_ZeroAttempts(t *testing.T) {
	rows := []model.TeamGameRow{{Result: sp("W"), Points: sp("50"), FG: sp("0"), FGA: sp("0"), ThreePA: sp(""), FTA: sp("n/a")}}
	s := Summarize("t", "2024", rows)
	assert.Equal(t, 0.0, s.FieldGoalPct)
	assert.Equal(t, 0.0, s.ThreePointPct)
	assert.Equal(t, 0.0, s.FreeThrowPct)
	assert.Equal(t, 50.0, s.PointsFor)

	empty := Summarize("t", "2024", nil)
	assert.Zero(t, empty.Games)
	assert.Zero(t, empty.PointsFor)
	assert.Zero(t, empty.FieldGoalPct)
}

func TestRecent(t *testing.T) {
	rows := []model.TeamGameRow{{Game: sp("1")}, {Game: sp("2")}, {Game: sp("3")}, {Game: sp("4")}}

	last2, err := Recent(rows, 2)
	require.NoError(t, err)
	assert.Equal(t, []model.TeamGameRow{{Game: sp("3")}, {Game: sp("4")}}, last2)

	var ve *model.ValidationError
	_, err = Recent(rows, 8)
	assert.ErrorAs(t, err, &ve)
	_, err = Recent(rows, 0)
	assert.ErrorAs(t, err, &ve)
}

func newStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database))
	return NewStore(database)
}

func TestStore_ReplaceAndRows(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Rows(ctx, "duke", "2024")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)

	first := []model.TeamGameRow{{Game: sp("1"), Result: sp("W")}, {Game: sp("2"), Result: sp("L")}, {Game: sp("3"), Result: sp("W")}}
	require.NoError(t, s.Replace(ctx, "duke", "2024", first))
	got, err := s.Rows(ctx, "duke", "2024")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// A re-scrape replaces the whole set rather than appending.
	second := []model.TeamGameRow{{Game: sp("1"), Result: sp("W")}}
	require.NoError(t, s.Replace(ctx, "duke", "2024", second))
	got, err = s.Rows(ctx, "duke", "2024")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	// Other seasons are untouched.
	_, err = s.Rows(ctx, "duke", "2023")
	require.ErrorAs(t, err, &nf)
}

type fakeFetcher struct {
	body []byte
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.body, f.err
}

func TestService(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{body: []byte(gamelogPage)}
	svc := NewService(f, newStore(t), "https://stats.test/cbb/schools/%s/%s-gamelogs.html")

	_, err := svc.ReadStats(ctx, "michigan-state", "2024", 0)
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)

	ok, err := svc.ScrapeAndStore(ctx, " Michigan-State ", "2024")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"https://stats.test/cbb/schools/michigan-state/2024-gamelogs.html"}, f.urls)

	s, err := svc.ReadStats(ctx, "michigan-state", "2024", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Games)
	assert.Equal(t, "michigan-state", s.Team)

	s, err = svc.ReadStats(ctx, "michigan-state", "2024", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Games)
	assert.Equal(t, sp("2"), s.Rows[0].Game)

	_, err = svc.ReadStats(ctx, "michigan-state", "2024", 4)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestService_Failures(t *testing.T) {
	ctx := context.Background()
	var ve *model.ValidationError

	svc := NewService(&fakeFetcher{}, newStore(t), "https://stats.test/%s/%s")
	_, err := svc.ScrapeAndStore(ctx, "", "2024")
	require.ErrorAs(t, err, &ve)
	_, err = svc.ScrapeAndStore(ctx, "duke", "last")
	require.ErrorAs(t, err, &ve)

	fetchErr := &model.FetchError{URL: "https://stats.test/duke/2024", Kind: model.FetchHTTPStatus, Status: 429}
	svc = NewService(&fakeFetcher{err: fetchErr}, newStore(t), "https://stats.test/%s/%s")
	ok, err := svc.ScrapeAndStore(ctx, "duke", "2024")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, fetchErr))

	svc = NewService(&fakeFetcher{body: []byte(`<table><tbody></tbody></table>`)}, newStore(t), "https://stats.test/%s/%s")
	ok, err = svc.ScrapeAndStore(ctx, "duke", "2024")
	require.NoError(t, err)
	assert.False(t, ok)
}
