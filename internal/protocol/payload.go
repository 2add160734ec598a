package protocol

import (
	"strconv"
	"strings"
	"time"
)

// Payload grammars. Each server message type owns the format of its payload;
// the helpers here are the single source of truth for those formats. Parse
// helpers report ok=false for malformed payloads so callers can drop the
// request without disturbing the session.

// joinedDateLayout is the on-wire format of a player's join date.
const joinedDateLayout = "2006-01-02"

// ResultEntry is one "connId,score" pair from a game-end report.
type ResultEntry struct {
	ConnID int
	Score  int
}

// GameInfo describes one game type in a game-list payload.
type GameInfo struct {
	ID      int
	Name    string
	Players int
}

// ScoreEntry is one row of a high-scores payload.
type ScoreEntry struct {
	Score    int
	Username string
}

// PlayerStatsInfo carries the fields of a player-stats payload.
type PlayerStatsInfo struct {
	Username      string
	FavouriteGame string
	LastGame      string
	LastGameDate  string
	GamesPlayed   int
	GamesWon      int
	Disconnects   int
	TotalTime     int64
	Rank          string
}

// ParseCredentials splits a "username,password" payload.
func ParseCredentials(payload string) (username, password string, ok bool) {
	username, password, ok = strings.Cut(payload, ",")
	if !ok || username == "" {
		return "", "", false
	}
	return username, password, true
}

// ParseGameTypeID reads a payload consisting of a single game type id.
func ParseGameTypeID(payload string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseResults decodes a game-end report: "connId,score;connId,score;...".
// The whole report is rejected if any entry is malformed.
func ParseResults(payload string) ([]ResultEntry, bool) {
	if payload == "" {
		return nil, false
	}

	parts := strings.Split(payload, ";")
	entries := make([]ResultEntry, 0, len(parts))

	for _, part := range parts {
		idField, scoreField, found := strings.Cut(part, ",")
		if !found {
			return nil, false
		}
		connID, err := strconv.Atoi(idField)
		if err != nil {
			return nil, false
		}
		score, err := strconv.Atoi(scoreField)
		if err != nil {
			return nil, false
		}
		entries = append(entries, ResultEntry{ConnID: connID, Score: score})
	}

	return entries, true
}

// FormatPlayer serializes a player record as "id,username,,joinedDate".
// The third field held the password in early protocol revisions; it is kept
// so existing clients keep parsing, but is always empty.
func FormatPlayer(id int64, username string, joined time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(id, 10))
	b.WriteByte(',')
	b.WriteString(username)
	b.WriteString(",,")
	b.WriteString(joined.Format(joinedDateLayout))
	return b.String()
}

// FormatGameList serializes game types as "id,name,players;id,name,players;...".
func FormatGameList(games []GameInfo) string {
	var b strings.Builder
	for i, g := range games {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(g.ID))
		b.WriteByte(',')
		b.WriteString(g.Name)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(g.Players))
	}
	return b.String()
}

// FormatHighScores serializes a score table as "score,username,score,username,...".
func FormatHighScores(scores []ScoreEntry) string {
	var b strings.Builder
	for i, s := range scores {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s.Score))
		b.WriteByte(',')
		b.WriteString(s.Username)
	}
	return b.String()
}

// FormatGameStats serializes game statistics as
// "gameTypeId,totalDurationMillis,timesPlayed".
func FormatGameStats(gameTypeID int, totalDuration time.Duration, timesPlayed int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(gameTypeID))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(totalDuration.Milliseconds(), 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(timesPlayed))
	return b.String()
}

// FormatPlayerStats serializes player statistics as nine comma-separated
// fields: username, favourite game, last game, last game date, games played,
// disconnects, games won, total time, rank name.
func FormatPlayerStats(st PlayerStatsInfo) string {
	fields := []string{
		st.Username,
		st.FavouriteGame,
		st.LastGame,
		st.LastGameDate,
		strconv.Itoa(st.GamesPlayed),
		strconv.Itoa(st.Disconnects),
		strconv.Itoa(st.GamesWon),
		strconv.FormatInt(st.TotalTime, 10),
		st.Rank,
	}
	return strings.Join(fields, ",")
}
