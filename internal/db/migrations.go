package db

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS gamelines (
    source TEXT NOT NULL,
    home TEXT NOT NULL,
    away TEXT NOT NULL,
    game_day TEXT NOT NULL,
    start_time TEXT NOT NULL DEFAULT '',
    home_ml INTEGER,
    away_ml INTEGER,
    home_spread REAL,
    away_spread REAL,
    home_spread_odds INTEGER,
    away_spread_odds INTEGER,
    over_under REAL,
    over_odds INTEGER,
    under_odds INTEGER,
    spread_basis TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (source, home, away, game_day)
);
CREATE INDEX IF NOT EXISTS idx_gamelines_day ON gamelines(game_day);

CREATE TABLE IF NOT EXISTS team_games (
    team TEXT NOT NULL,
    season TEXT NOT NULL,
    seq INTEGER NOT NULL,
    game_date TEXT NOT NULL DEFAULT '',
    opponent TEXT NOT NULL DEFAULT '',
    result TEXT NOT NULL DEFAULT '',
    row_json TEXT NOT NULL,
    scraped_at TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (team, season, seq)
);
`
