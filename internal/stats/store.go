package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ncaablines/internal/model"
)

// Store keeps each team's scraped rows for a season in the team_games table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Replace swaps the stored rows for (team, season) for rows in one
// transaction.
func (s *Store) Replace(ctx context.Context, team, season string, rows []model.TeamGameRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_games WHERE team = ? AND season = ?`, team, season); err != nil {
		return fmt.Errorf("clearing %s %s: %w", team, season, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO team_games (team, season, seq, game_date, opponent, result, row_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, team, season, i, model.Text(r.Date), model.Text(r.Opponent), model.Text(r.Result), string(data)); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s %s: %w", team, season, err)
	}
	return nil
}

// Rows returns the stored rows in game order, or a *model.NotFoundError when
// the team and season were never scraped.
func (s *Store) Rows(ctx context.Context, team, season string) ([]model.TeamGameRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_json FROM team_games
		WHERE team = ? AND season = ?
		ORDER BY seq`, team, season)
	if err != nil {
		return nil, fmt.Errorf("querying team games: %w", err)
	}
	defer rows.Close()

	var result []model.TeamGameRow
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning team game: %w", err)
		}
		var r model.TeamGameRow
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshaling team game: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, &model.NotFoundError{What: "team stats", Key: team + "/" + season}
	}
	return result, nil
}
