// Package storage provides persistence for players, game types and match
// outcomes. The session core only sees the Store interface; implementations
// are a SQLite store (modernc.org/sqlite, pure Go) and an in-memory stub with
// canned values for tests and throwaway servers.
package storage

import "time"

// PlayerRecord is a registered player. Passwords are never part of the
// record; they live only as hashes inside implementations.
type PlayerRecord struct {
	ID       int64
	Username string
	Joined   time.Time
}

// GameType describes one kind of game the server can host.
type GameType struct {
	ID      int
	Name    string
	Players int // connections required for a session to start
}

// HighScore is one row of a game type's score table.
type HighScore struct {
	Score    int
	Username string
}

// GameStats aggregates play history for one game type.
type GameStats struct {
	GameTypeID    int
	TotalDuration time.Duration
	TimesPlayed   int
}

// PlayerStats aggregates one player's history across all game types.
type PlayerStats struct {
	Username      string
	FavouriteGame string
	LastGame      string
	LastGameDate  time.Time
	GamesPlayed   int
	GamesWon      int
	Disconnects   int
	TotalTime     time.Duration
	Rank          string
}

// Participant is one player's reconciled outcome within a saved match.
type Participant struct {
	PlayerID     int64
	Score        int
	Disconnected bool
}

// Store is the persistence boundary required by the session core. Absent
// lookups return (nil, nil); errors are reserved for the store itself
// failing. Calls may be slow and must not be made from inside a session
// loop's per-connection work.
type Store interface {
	// FindPlayer returns the player with the given username, or nil.
	FindPlayer(username string) (*PlayerRecord, error)

	// Authenticate checks credentials and returns the player on success,
	// nil on unknown username or wrong password.
	Authenticate(username, password string) (*PlayerRecord, error)

	// RegisterPlayer creates a new player. Returns nil if the username is
	// already taken.
	RegisterPlayer(username, password string) (*PlayerRecord, error)

	// GameTypes lists every available game type.
	GameTypes() ([]GameType, error)

	// GameTypeByID returns the game type with the given id, or nil.
	GameTypeByID(id int) (*GameType, error)

	// HighScores returns the top scores for a game type, best first.
	HighScores(gameTypeID int) ([]HighScore, error)

	// GameStats returns aggregate statistics for a game type.
	GameStats(gameTypeID int) (*GameStats, error)

	// PlayerStats returns aggregate statistics for a player, or nil if the
	// player is unknown.
	PlayerStats(username string) (*PlayerStats, error)

	// SaveMatchResult records the reconciled outcome of a finished match.
	SaveMatchResult(gameTypeID int, winnerID int64, start time.Time, duration time.Duration, results []Participant) error

	// Close releases the store's resources.
	Close() error
}
