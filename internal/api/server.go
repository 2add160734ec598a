// Package api exposes a small read-only HTTP surface over the store: the
// game catalogue, score tables and statistics. Game clients use the line
// protocol; this surface exists for dashboards and scripting.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/pacnet/internal/storage"
)

// Server serves the HTTP API.
type Server struct {
	store  storage.Store
	logger *log.Logger
	http   *http.Server
}

// New creates an API server bound to addr.
func New(addr string, store storage.Store, logger *log.Logger) *Server {
	s := &Server{store: store, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/games", s.handleGames).Methods(http.MethodGet)
	r.HandleFunc("/api/games/{id:[0-9]+}/highscores", s.handleHighScores).Methods(http.MethodGet)
	r.HandleFunc("/api/games/{id:[0-9]+}/stats", s.handleGameStats).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{username}/stats", s.handlePlayerStats).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving the API until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("api listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

type gameJSON struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

type highScoreJSON struct {
	Score    int    `json:"score"`
	Username string `json:"username"`
}

type gameStatsJSON struct {
	GameTypeID      int   `json:"game_type_id"`
	TotalDurationMS int64 `json:"total_duration_ms"`
	TimesPlayed     int   `json:"times_played"`
}

type playerStatsJSON struct {
	Username      string `json:"username"`
	FavouriteGame string `json:"favourite_game"`
	LastGame      string `json:"last_game"`
	LastGameDate  string `json:"last_game_date"`
	GamesPlayed   int    `json:"games_played"`
	GamesWon      int    `json:"games_won"`
	Disconnects   int    `json:"disconnects"`
	TotalTimeMS   int64  `json:"total_time_ms"`
	Rank          string `json:"rank"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	games, err := s.store.GameTypes()
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]gameJSON, len(games))
	for i, g := range games {
		out[i] = gameJSON{ID: g.ID, Name: g.Name, Players: g.Players}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	scores, err := s.store.HighScores(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]highScoreJSON, len(scores))
	for i, hs := range scores {
		out[i] = highScoreJSON{Score: hs.Score, Username: hs.Username}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGameStats(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	st, err := s.store.GameStats(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if st == nil {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, gameStatsJSON{
		GameTypeID:      st.GameTypeID,
		TotalDurationMS: st.TotalDuration.Milliseconds(),
		TimesPlayed:     st.TimesPlayed,
	})
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	st, err := s.store.PlayerStats(username)
	if err != nil {
		s.fail(w, err)
		return
	}
	if st == nil {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, playerStatsJSON{
		Username:      st.Username,
		FavouriteGame: st.FavouriteGame,
		LastGame:      st.LastGame,
		LastGameDate:  st.LastGameDate.Format("2006-01-02"),
		GamesPlayed:   st.GamesPlayed,
		GamesWon:      st.GamesWon,
		Disconnects:   st.Disconnects,
		TotalTimeMS:   st.TotalTime.Milliseconds(),
		Rank:          st.Rank,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("store query failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
