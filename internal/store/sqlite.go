package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ncaablines/internal/model"
)

// SQLite keeps gamelines in the gamelines table created by db.Migrate.
type SQLite struct {
	db    *sql.DB
	locks keyLock
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

const gamelineColumns = `source, home, away, game_day, start_time,
	home_ml, away_ml, home_spread, away_spread, home_spread_odds, away_spread_odds,
	over_under, over_odds, under_odds, spread_basis`

func (s *SQLite) Upsert(ctx context.Context, g model.Gameline) error {
	if err := g.Validate(); err != nil {
		return err
	}

	unlock := s.locks.lock(g.Key())
	defer unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gamelines (`+gamelineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, home, away, game_day) DO UPDATE SET
			start_time = excluded.start_time,
			home_ml = excluded.home_ml,
			away_ml = excluded.away_ml,
			home_spread = excluded.home_spread,
			away_spread = excluded.away_spread,
			home_spread_odds = excluded.home_spread_odds,
			away_spread_odds = excluded.away_spread_odds,
			over_under = excluded.over_under,
			over_odds = excluded.over_odds,
			under_odds = excluded.under_odds,
			spread_basis = excluded.spread_basis,
			updated_at = datetime('now')`,
		string(g.Source), g.Home, g.Away, g.GameDay, g.StartTime,
		nullInt(g.HomeML), nullInt(g.AwayML), nullFloat(g.HomeSpread), nullFloat(g.AwaySpread),
		nullInt(g.HomeSpreadOdds), nullInt(g.AwaySpreadOdds),
		nullFloat(g.OverUnder), nullInt(g.OverOdds), nullInt(g.UnderOdds), string(g.SpreadBasis),
	)
	if err != nil {
		return fmt.Errorf("upserting gameline %s: %w", g.Key(), err)
	}
	return nil
}

func (s *SQLite) All(ctx context.Context) ([]model.Gameline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+gamelineColumns+`
		FROM gamelines
		ORDER BY game_day, source, home, away`)
	if err != nil {
		return nil, fmt.Errorf("querying gamelines: %w", err)
	}
	defer rows.Close()

	lines := []model.Gameline{}
	for rows.Next() {
		g, err := scanGameline(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, g)
	}
	return lines, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, key model.Key) (model.Gameline, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+gamelineColumns+`
		FROM gamelines
		WHERE source = ? AND home = ? AND away = ? AND game_day = ?`,
		string(key.Source), key.Home, key.Away, key.GameDay)

	g, err := scanGameline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Gameline{}, notFound(key)
	}
	return g, err
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gamelines`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting gamelines: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGameline(sc scanner) (model.Gameline, error) {
	var (
		g                              model.Gameline
		homeML, awayML                 sql.NullInt64
		homeSpread, awaySpread         sql.NullFloat64
		homeSpreadOdds, awaySpreadOdds sql.NullInt64
		overUnder                      sql.NullFloat64
		overOdds, underOdds            sql.NullInt64
	)
	err := sc.Scan(&g.Source, &g.Home, &g.Away, &g.GameDay, &g.StartTime,
		&homeML, &awayML, &homeSpread, &awaySpread, &homeSpreadOdds, &awaySpreadOdds,
		&overUnder, &overOdds, &underOdds, &g.SpreadBasis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return g, err
		}
		return g, fmt.Errorf("scanning gameline: %w", err)
	}

	g.HomeML, g.AwayML = intOrNil(homeML), intOrNil(awayML)
	g.HomeSpread, g.AwaySpread = floatOrNil(homeSpread), floatOrNil(awaySpread)
	g.HomeSpreadOdds, g.AwaySpreadOdds = intOrNil(homeSpreadOdds), intOrNil(awaySpreadOdds)
	g.OverUnder = floatOrNil(overUnder)
	g.OverOdds, g.UnderOdds = intOrNil(overOdds), intOrNil(underOdds)
	return g, nil
}

func intOrNil(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatOrNil(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
