package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLite is the Store implementation backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// Open creates or opens a SQLite database at the given path. It creates the
// parent directories if needed, runs migrations and seeds the game type
// table on first use.
func Open(dbPath string) (*SQLite, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLite{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	if err := store.seedGameTypes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: seeding failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			joined DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS game_types (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			players INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_uid TEXT NOT NULL UNIQUE,
			game_type_id INTEGER NOT NULL REFERENCES game_types(id),
			winner_id INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_matches_game_type ON matches(game_type_id);

		CREATE TABLE IF NOT EXISTS match_participants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id INTEGER NOT NULL REFERENCES matches(id),
			player_id INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			disconnected INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_participants_match ON match_participants(match_id);
		CREATE INDEX IF NOT EXISTS idx_participants_player ON match_participants(player_id);
		CREATE INDEX IF NOT EXISTS idx_participants_score ON match_participants(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// seedGameTypes inserts the default game catalogue when the table is empty.
func (s *SQLite) seedGameTypes() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM game_types").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []GameType{
		{ID: 1, Name: "Pac Man 2P", Players: 2},
		{ID: 2, Name: "Pac Man 4P", Players: 4},
		{ID: 3, Name: "Pac Man 6P", Players: 6},
		{ID: 4, Name: "Pac Man 8P", Players: 8},
	}
	for _, g := range defaults {
		if _, err := s.db.Exec(
			"INSERT INTO game_types (id, name, players) VALUES (?, ?, ?)",
			g.ID, g.Name, g.Players,
		); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// FindPlayer returns the player with the given username, or nil.
func (s *SQLite) FindPlayer(username string) (*PlayerRecord, error) {
	rec, _, err := s.findPlayerWithHash(username)
	return rec, err
}

func (s *SQLite) findPlayerWithHash(username string) (*PlayerRecord, string, error) {
	var rec PlayerRecord
	var hash string
	var joined any

	err := s.db.QueryRow(
		"SELECT id, username, password_hash, joined FROM players WHERE username = ?",
		username,
	).Scan(&rec.ID, &rec.Username, &hash, &joined)

	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("storage: cannot query player: %w", err)
	}

	rec.Joined = parseDBTime(joined)
	return &rec, hash, nil
}

// Authenticate checks credentials against the stored bcrypt hash.
func (s *SQLite) Authenticate(username, password string) (*PlayerRecord, error) {
	rec, hash, err := s.findPlayerWithHash(username)
	if err != nil || rec == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, nil
	}
	return rec, nil
}

// RegisterPlayer creates a new player with a bcrypt password hash.
// Returns nil if the username is already taken.
func (s *SQLite) RegisterPlayer(username, password string) (*PlayerRecord, error) {
	existing, err := s.FindPlayer(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot hash password: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO players (username, password_hash, joined) VALUES (?, ?, ?)",
		username, string(hash), now,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot create player: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return &PlayerRecord{ID: id, Username: username, Joined: now}, nil
}

// GameTypes lists every available game type.
func (s *SQLite) GameTypes() ([]GameType, error) {
	rows, err := s.db.Query("SELECT id, name, players FROM game_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game types: %w", err)
	}
	defer rows.Close()

	var games []GameType
	for rows.Next() {
		var g GameType
		if err := rows.Scan(&g.ID, &g.Name, &g.Players); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return games, nil
}

// GameTypeByID returns the game type with the given id, or nil.
func (s *SQLite) GameTypeByID(id int) (*GameType, error) {
	var g GameType
	err := s.db.QueryRow(
		"SELECT id, name, players FROM game_types WHERE id = ?", id,
	).Scan(&g.ID, &g.Name, &g.Players)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game type: %w", err)
	}
	return &g, nil
}

// HighScores returns the ten best scores for a game type.
func (s *SQLite) HighScores(gameTypeID int) ([]HighScore, error) {
	rows, err := s.db.Query(
		`SELECT mp.score, p.username
		 FROM match_participants mp
		 JOIN matches m ON m.id = mp.match_id
		 JOIN players p ON p.id = mp.player_id
		 WHERE m.game_type_id = ?
		 ORDER BY mp.score DESC
		 LIMIT 10`,
		gameTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query high scores: %w", err)
	}
	defer rows.Close()

	var scores []HighScore
	for rows.Next() {
		var hs HighScore
		if err := rows.Scan(&hs.Score, &hs.Username); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		scores = append(scores, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return scores, nil
}

// GameStats returns aggregate statistics for a game type.
func (s *SQLite) GameStats(gameTypeID int) (*GameStats, error) {
	stats := &GameStats{GameTypeID: gameTypeID}

	var totalMs int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(duration_ms), 0), COUNT(*)
		 FROM matches WHERE game_type_id = ?`,
		gameTypeID,
	).Scan(&totalMs, &stats.TimesPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game stats: %w", err)
	}

	stats.TotalDuration = time.Duration(totalMs) * time.Millisecond
	return stats, nil
}

// PlayerStats returns aggregate statistics for a player, or nil if the
// player is unknown.
func (s *SQLite) PlayerStats(username string) (*PlayerStats, error) {
	rec, err := s.FindPlayer(username)
	if err != nil || rec == nil {
		return nil, err
	}

	stats := &PlayerStats{Username: rec.Username}

	var totalMs int64
	err = s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(mp.disconnected), 0),
		        COALESCE(SUM(m.duration_ms), 0)
		 FROM match_participants mp
		 JOIN matches m ON m.id = mp.match_id
		 WHERE mp.player_id = ?`,
		rec.ID,
	).Scan(&stats.GamesPlayed, &stats.Disconnects, &totalMs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player history: %w", err)
	}
	stats.TotalTime = time.Duration(totalMs) * time.Millisecond

	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM matches WHERE winner_id = ?", rec.ID,
	).Scan(&stats.GamesWon)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query wins: %w", err)
	}

	// Favourite game: the type this player has participated in most often.
	var favourite sql.NullString
	err = s.db.QueryRow(
		`SELECT gt.name
		 FROM match_participants mp
		 JOIN matches m ON m.id = mp.match_id
		 JOIN game_types gt ON gt.id = m.game_type_id
		 WHERE mp.player_id = ?
		 GROUP BY gt.id
		 ORDER BY COUNT(*) DESC
		 LIMIT 1`,
		rec.ID,
	).Scan(&favourite)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot query favourite game: %w", err)
	}
	if favourite.Valid {
		stats.FavouriteGame = favourite.String
	}

	// Most recent game and its date.
	var lastGame sql.NullString
	var lastDate any
	err = s.db.QueryRow(
		`SELECT gt.name, m.started_at
		 FROM match_participants mp
		 JOIN matches m ON m.id = mp.match_id
		 JOIN game_types gt ON gt.id = m.game_type_id
		 WHERE mp.player_id = ?
		 ORDER BY m.started_at DESC
		 LIMIT 1`,
		rec.ID,
	).Scan(&lastGame, &lastDate)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot query last game: %w", err)
	}
	if lastGame.Valid {
		stats.LastGame = lastGame.String
		stats.LastGameDate = parseDBTime(lastDate)
	}

	stats.Rank = RankName(stats.GamesPlayed)
	return stats, nil
}

// SaveMatchResult records the reconciled outcome of a finished match along
// with one participant row per reconciled result.
func (s *SQLite) SaveMatchResult(gameTypeID int, winnerID int64, start time.Time, duration time.Duration, results []Participant) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO matches (match_uid, game_type_id, winner_id, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), gameTypeID, winnerID, start.UTC(), duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save match: %w", err)
	}

	matchID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, p := range results {
		disconnected := 0
		if p.Disconnected {
			disconnected = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO match_participants (match_id, player_id, score, disconnected)
			 VALUES (?, ?, ?, ?)`,
			matchID, p.PlayerID, p.Score, disconnected,
		); err != nil {
			return fmt.Errorf("storage: cannot save participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return nil
}

// parseDBTime handles the driver returning either time.Time or a string.
func parseDBTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
