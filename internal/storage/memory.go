package storage

import (
	"sync"
	"time"
)

// Memory is an in-memory Store with canned values, matching the behavior the
// server shipped with before the SQLite store existed: a fixed game
// catalogue, a fixture score table, and players materialized on first lookup
// with their username doubling as the password. Used by tests and by
// `pacnet serve --store memory`.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	players  map[string]memoryPlayer
	games    []GameType
	saved    []SavedMatch
}

type memoryPlayer struct {
	rec      PlayerRecord
	password string
}

// SavedMatch is one recorded SaveMatchResult call, kept for inspection.
type SavedMatch struct {
	GameTypeID int
	WinnerID   int64
	Start      time.Time
	Duration   time.Duration
	Results    []Participant
}

var _ Store = (*Memory)(nil)

// NewMemory creates the canned-value store.
func NewMemory() *Memory {
	return &Memory{
		nextID:  1,
		players: make(map[string]memoryPlayer),
		games: []GameType{
			{ID: 1, Name: "Pac Man 2P", Players: 2},
			{ID: 2, Name: "Pac Man 4P", Players: 4},
			{ID: 3, Name: "Pac Man 6P", Players: 6},
			{ID: 4, Name: "Pac Man 8P", Players: 8},
		},
	}
}

// FindPlayer returns the stored player, creating one on first lookup with
// the username as its password.
func (m *Memory) FindPlayer(username string) (*PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.player(username)
	rec := p.rec
	return &rec, nil
}

// player returns the stored entry for username, materializing it if absent.
// Callers must hold mu.
func (m *Memory) player(username string) memoryPlayer {
	if p, ok := m.players[username]; ok {
		return p
	}
	p := memoryPlayer{
		rec:      PlayerRecord{ID: m.nextID, Username: username, Joined: time.Now()},
		password: username,
	}
	m.nextID++
	m.players[username] = p
	return p
}

// Authenticate succeeds when the password matches the stored one.
func (m *Memory) Authenticate(username, password string) (*PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.player(username)
	if p.password != password {
		return nil, nil
	}
	rec := p.rec
	return &rec, nil
}

// RegisterPlayer stores a new player, or returns nil if the name is taken.
func (m *Memory) RegisterPlayer(username, password string) (*PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[username]; ok {
		return nil, nil
	}
	p := memoryPlayer{
		rec:      PlayerRecord{ID: m.nextID, Username: username, Joined: time.Now()},
		password: password,
	}
	m.nextID++
	m.players[username] = p
	rec := p.rec
	return &rec, nil
}

// GameTypes returns the fixed game catalogue.
func (m *Memory) GameTypes() ([]GameType, error) {
	games := make([]GameType, len(m.games))
	copy(games, m.games)
	return games, nil
}

// GameTypeByID returns the matching game type, or nil.
func (m *Memory) GameTypeByID(id int) (*GameType, error) {
	for _, g := range m.games {
		if g.ID == id {
			game := g
			return &game, nil
		}
	}
	return nil, nil
}

// HighScores returns the fixture score table regardless of game type.
func (m *Memory) HighScores(gameTypeID int) ([]HighScore, error) {
	return []HighScore{
		{750, "Bob"}, {740, "Tom"}, {700, "Bill"}, {650, "Dave"}, {625, "Harry"},
		{600, "Larry"}, {575, "Barry"}, {550, "Gary"}, {500, "Terry"}, {450, "Jerry"},
	}, nil
}

// GameStats returns zeroed statistics for the game type.
func (m *Memory) GameStats(gameTypeID int) (*GameStats, error) {
	return &GameStats{GameTypeID: gameTypeID}, nil
}

// PlayerStats returns fixture statistics for the player.
func (m *Memory) PlayerStats(username string) (*PlayerStats, error) {
	return &PlayerStats{
		Username:      username,
		FavouriteGame: "Pac Man",
		LastGame:      "Pac Man",
		LastGameDate:  time.Date(2008, 8, 10, 0, 0, 0, 0, time.UTC),
		GamesPlayed:   12,
		GamesWon:      2,
		Disconnects:   3,
		TotalTime:     16 * time.Second,
		Rank:          RankName(12),
	}, nil
}

// SaveMatchResult records the call for later inspection.
func (m *Memory) SaveMatchResult(gameTypeID int, winnerID int64, start time.Time, duration time.Duration, results []Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := SavedMatch{
		GameTypeID: gameTypeID,
		WinnerID:   winnerID,
		Start:      start,
		Duration:   duration,
		Results:    append([]Participant(nil), results...),
	}
	m.saved = append(m.saved, saved)
	return nil
}

// Matches returns a copy of every saved match.
func (m *Memory) Matches() []SavedMatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SavedMatch(nil), m.saved...)
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
