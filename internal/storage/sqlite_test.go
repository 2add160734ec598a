package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGameTypesSeeded(t *testing.T) {
	store := openTestStore(t)

	games, err := store.GameTypes()
	if err != nil {
		t.Fatalf("GameTypes() failed: %v", err)
	}
	if len(games) != 4 {
		t.Fatalf("expected 4 seeded game types, got %d", len(games))
	}
	if games[0].Name != "Pac Man 2P" || games[0].Players != 2 {
		t.Errorf("unexpected first game type: %+v", games[0])
	}

	g, err := store.GameTypeByID(2)
	if err != nil {
		t.Fatalf("GameTypeByID() failed: %v", err)
	}
	if g == nil || g.Players != 4 {
		t.Errorf("GameTypeByID(2) = %+v, want 4-player type", g)
	}

	missing, err := store.GameTypeByID(99)
	if err != nil {
		t.Fatalf("GameTypeByID(99) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown game type, got %+v", missing)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.RegisterPlayer("alice", "hunter2")
	if err != nil {
		t.Fatalf("RegisterPlayer() failed: %v", err)
	}
	if rec == nil || rec.Username != "alice" || rec.ID == 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Duplicate registration is refused.
	dup, err := store.RegisterPlayer("alice", "other")
	if err != nil {
		t.Fatalf("duplicate RegisterPlayer() errored: %v", err)
	}
	if dup != nil {
		t.Errorf("duplicate registration returned %+v, want nil", dup)
	}

	// Correct password authenticates.
	auth, err := store.Authenticate("alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if auth == nil || auth.ID != rec.ID {
		t.Errorf("Authenticate() = %+v, want id %d", auth, rec.ID)
	}

	// Wrong password and unknown user do not.
	if bad, _ := store.Authenticate("alice", "wrong"); bad != nil {
		t.Error("wrong password authenticated")
	}
	if bad, _ := store.Authenticate("nobody", "hunter2"); bad != nil {
		t.Error("unknown user authenticated")
	}

	found, err := store.FindPlayer("alice")
	if err != nil {
		t.Fatalf("FindPlayer() failed: %v", err)
	}
	if found == nil || found.ID != rec.ID {
		t.Errorf("FindPlayer() = %+v, want id %d", found, rec.ID)
	}
	if absent, _ := store.FindPlayer("nobody"); absent != nil {
		t.Errorf("FindPlayer(nobody) = %+v, want nil", absent)
	}
}

func TestSaveMatchResultAndQueries(t *testing.T) {
	store := openTestStore(t)

	alice, err := store.RegisterPlayer("alice", "pw")
	if err != nil || alice == nil {
		t.Fatalf("register alice: %v %v", alice, err)
	}
	bob, err := store.RegisterPlayer("bob", "pw")
	if err != nil || bob == nil {
		t.Fatalf("register bob: %v %v", bob, err)
	}

	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	err = store.SaveMatchResult(1, alice.ID, start, 90*time.Second, []Participant{
		{PlayerID: alice.ID, Score: 100},
		{PlayerID: bob.ID, Score: 80, Disconnected: true},
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	scores, err := store.HighScores(1)
	if err != nil {
		t.Fatalf("HighScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 high scores, got %d", len(scores))
	}
	if scores[0].Score != 100 || scores[0].Username != "alice" {
		t.Errorf("top score = %+v, want 100/alice", scores[0])
	}

	stats, err := store.GameStats(1)
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.TimesPlayed != 1 {
		t.Errorf("TimesPlayed = %d, want 1", stats.TimesPlayed)
	}
	if stats.TotalDuration != 90*time.Second {
		t.Errorf("TotalDuration = %v, want 90s", stats.TotalDuration)
	}

	// A game type with no history has empty stats rather than an error.
	empty, err := store.GameStats(3)
	if err != nil {
		t.Fatalf("GameStats(3) failed: %v", err)
	}
	if empty.TimesPlayed != 0 || empty.TotalDuration != 0 {
		t.Errorf("expected empty stats, got %+v", empty)
	}
}

func TestPlayerStats(t *testing.T) {
	store := openTestStore(t)

	alice, _ := store.RegisterPlayer("alice", "pw")
	bob, _ := store.RegisterPlayer("bob", "pw")

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.SaveMatchResult(1, alice.ID, start.Add(time.Duration(i)*time.Hour), time.Minute, []Participant{
			{PlayerID: alice.ID, Score: 50},
			{PlayerID: bob.ID, Score: 40, Disconnected: i == 0},
		})
		if err != nil {
			t.Fatalf("SaveMatchResult() failed: %v", err)
		}
	}

	stats, err := store.PlayerStats("bob")
	if err != nil {
		t.Fatalf("PlayerStats() failed: %v", err)
	}
	if stats == nil {
		t.Fatal("PlayerStats() returned nil for known player")
	}
	if stats.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3", stats.GamesPlayed)
	}
	if stats.GamesWon != 0 {
		t.Errorf("GamesWon = %d, want 0", stats.GamesWon)
	}
	if stats.Disconnects != 1 {
		t.Errorf("Disconnects = %d, want 1", stats.Disconnects)
	}
	if stats.TotalTime != 3*time.Minute {
		t.Errorf("TotalTime = %v, want 3m", stats.TotalTime)
	}
	if stats.FavouriteGame != "Pac Man 2P" {
		t.Errorf("FavouriteGame = %q, want Pac Man 2P", stats.FavouriteGame)
	}
	if stats.Rank != "Newbie" {
		t.Errorf("Rank = %q, want Newbie", stats.Rank)
	}

	winner, err := store.PlayerStats("alice")
	if err != nil {
		t.Fatalf("PlayerStats(alice) failed: %v", err)
	}
	if winner.GamesWon != 3 {
		t.Errorf("alice GamesWon = %d, want 3", winner.GamesWon)
	}

	if unknown, _ := store.PlayerStats("nobody"); unknown != nil {
		t.Errorf("PlayerStats(nobody) = %+v, want nil", unknown)
	}
}

func TestRankName(t *testing.T) {
	tests := []struct {
		played int
		want   string
	}{
		{0, "Newbie"},
		{9, "Newbie"},
		{10, "Beginner"},
		{25, "Amateur"},
		{35, "Professional"},
		{45, "Expert"},
		{55, "Junkie"},
		{60, "Nutter"},
		{999, "Nutter"},
	}
	for _, tt := range tests {
		if got := RankName(tt.played); got != tt.want {
			t.Errorf("RankName(%d) = %q, want %q", tt.played, got, tt.want)
		}
	}
}
