package session

import (
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacnet/internal/protocol"
	"github.com/vovakirdan/pacnet/internal/storage"
)

// reportSink receives end-of-game reports. Game sessions implement it; the
// lobby router carries a nil sink and drops such reports.
type reportSink interface {
	recordReport(reporterID int, report []PlayerScore)
}

// Router dispatches the lines drained from one session's inbox. Messages
// addressed to clients are relayed verbatim; messages addressed to the
// server trigger handlers that consult the store and reply to the sender.
// Malformed or undeliverable lines are dropped without disturbing anything.
type Router struct {
	registry *Registry
	store    storage.Store
	lobby    *Lobby     // nil outside the lobby; gates join-game
	reports  reportSink // nil outside game sessions; gates game-end
	logger   *log.Logger
}

func newRouter(registry *Registry, store storage.Store, lobby *Lobby, reports reportSink, logger *log.Logger) *Router {
	return &Router{
		registry: registry,
		store:    store,
		lobby:    lobby,
		reports:  reports,
		logger:   logger,
	}
}

// Route delivers one raw line.
func (r *Router) Route(line string) {
	msg, ok := protocol.Parse(line)
	if !ok {
		r.logger.Debug("dropping malformed message", "line", line)
		return
	}

	switch {
	case msg.To == protocol.AddressAllClients:
		for _, c := range r.registry.Snapshot() {
			if c.ID() != msg.From {
				c.Send(line)
			}
		}
	case msg.To == protocol.AddressServer:
		r.dispatch(msg)
	default:
		target := r.registry.ByID(msg.To)
		if target == nil {
			r.logger.Debug("dropping message for absent connection", "to", msg.To)
			return
		}
		target.Send(line)
	}
}

func (r *Router) dispatch(msg protocol.Message) {
	sender := r.registry.ByID(msg.From)
	if sender == nil {
		r.logger.Warn("server message from unknown connection", "from", msg.From)
		return
	}

	switch msg.Type {
	case protocol.TypeLogin:
		username, password, ok := protocol.ParseCredentials(msg.Payload)
		if !ok {
			sender.Reply(protocol.TypeLogin, "")
			return
		}
		sender.Authenticate(r.store, username, password)
	case protocol.TypeRegister:
		username, password, ok := protocol.ParseCredentials(msg.Payload)
		if !ok {
			sender.Reply(protocol.TypeRegister, "")
			return
		}
		sender.Register(r.store, username, password)
	case protocol.TypeLogout:
		sender.Logout()
	case protocol.TypePeerList:
		sender.Reply(protocol.TypePeerList, r.registry.Roster())
	case protocol.TypePlayerData:
		r.handlePlayerData(sender, msg.Payload)
	case protocol.TypeJoinGame:
		r.handleJoinGame(sender, msg.Payload)
	case protocol.TypeGameList:
		r.handleGameList(sender)
	case protocol.TypePlayerStats:
		r.handlePlayerStats(sender)
	case protocol.TypeGameEnd:
		r.handleGameEnd(sender, msg.Payload)
	case protocol.TypeHighScores:
		r.handleHighScores(sender, msg.Payload)
	case protocol.TypeGameStats:
		r.handleGameStats(sender, msg.Payload)
	case protocol.TypePing:
		r.logger.Debug("ping", "conn", sender.ID())
	default:
		r.logger.Debug("unhandled server message", "type", int(msg.Type), "from", msg.From)
	}
}

func (r *Router) handlePlayerData(sender *Connection, username string) {
	rec, err := r.store.FindPlayer(username)
	if err != nil {
		r.logger.Error("player lookup failed", "username", username, "err", err)
	}
	if rec == nil {
		sender.Reply(protocol.TypePlayerData, "")
		return
	}
	sender.Reply(protocol.TypePlayerData, protocol.FormatPlayer(rec.ID, rec.Username, rec.Joined))
}

func (r *Router) handleJoinGame(sender *Connection, payload string) {
	if r.lobby == nil {
		r.logger.Warn("join request inside a running game", "conn", sender.ID())
		return
	}
	id, ok := protocol.ParseGameTypeID(payload)
	if !ok {
		sender.Reply(protocol.TypeJoinGame, "")
		return
	}
	gt, err := r.store.GameTypeByID(id)
	if err != nil {
		r.logger.Error("game type lookup failed", "id", id, "err", err)
	}
	if gt == nil {
		sender.Reply(protocol.TypeJoinGame, "")
		return
	}
	sessionID := r.lobby.JoinGame(*gt, sender)
	sender.Reply(protocol.TypeJoinGame, strconv.Itoa(sessionID))
}

func (r *Router) handleGameList(sender *Connection) {
	games, err := r.store.GameTypes()
	if err != nil {
		r.logger.Error("game list lookup failed", "err", err)
		sender.Reply(protocol.TypeGameList, "")
		return
	}
	infos := make([]protocol.GameInfo, len(games))
	for i, g := range games {
		infos[i] = protocol.GameInfo{ID: g.ID, Name: g.Name, Players: g.Players}
	}
	sender.Reply(protocol.TypeGameList, protocol.FormatGameList(infos))
}

func (r *Router) handlePlayerStats(sender *Connection) {
	st, err := r.store.PlayerStats(sender.Username())
	if err != nil {
		r.logger.Error("player stats lookup failed", "username", sender.Username(), "err", err)
	}
	if st == nil {
		sender.Reply(protocol.TypePlayerStats, "")
		return
	}
	sender.Reply(protocol.TypePlayerStats, protocol.FormatPlayerStats(protocol.PlayerStatsInfo{
		Username:      st.Username,
		FavouriteGame: st.FavouriteGame,
		LastGame:      st.LastGame,
		LastGameDate:  st.LastGameDate.Format("2006-01-02"),
		GamesPlayed:   st.GamesPlayed,
		GamesWon:      st.GamesWon,
		Disconnects:   st.Disconnects,
		TotalTime:     st.TotalTime.Milliseconds(),
		Rank:          st.Rank,
	}))
}

// handleGameEnd converts the sender's "connId,score" report into player ids
// and hands it to the session. Entries naming connections that are not
// members are skipped; a connection that never authenticated reports as
// player zero.
func (r *Router) handleGameEnd(sender *Connection, payload string) {
	if r.reports == nil {
		r.logger.Warn("game-end report outside a game", "conn", sender.ID())
		return
	}
	entries, ok := protocol.ParseResults(payload)
	if !ok {
		r.logger.Debug("dropping malformed game-end report", "conn", sender.ID(), "payload", payload)
		return
	}
	report := make([]PlayerScore, 0, len(entries))
	for _, e := range entries {
		member := r.registry.ByID(e.ConnID)
		if member == nil {
			r.logger.Warn("report names absent connection", "reporter", sender.ID(), "conn", e.ConnID)
			continue
		}
		report = append(report, PlayerScore{PlayerID: member.PlayerID(), Score: e.Score})
	}
	r.reports.recordReport(sender.ID(), report)
}

func (r *Router) handleHighScores(sender *Connection, payload string) {
	id, ok := protocol.ParseGameTypeID(payload)
	if !ok {
		sender.Reply(protocol.TypeHighScores, "")
		return
	}
	scores, err := r.store.HighScores(id)
	if err != nil {
		r.logger.Error("high scores lookup failed", "game", id, "err", err)
		sender.Reply(protocol.TypeHighScores, "")
		return
	}
	entries := make([]protocol.ScoreEntry, len(scores))
	for i, s := range scores {
		entries[i] = protocol.ScoreEntry{Score: s.Score, Username: s.Username}
	}
	sender.Reply(protocol.TypeHighScores, protocol.FormatHighScores(entries))
}

func (r *Router) handleGameStats(sender *Connection, payload string) {
	id, ok := protocol.ParseGameTypeID(payload)
	if !ok {
		sender.Reply(protocol.TypeGameStats, "")
		return
	}
	st, err := r.store.GameStats(id)
	if err != nil {
		r.logger.Error("game stats lookup failed", "game", id, "err", err)
	}
	if st == nil {
		sender.Reply(protocol.TypeGameStats, "")
		return
	}
	sender.Reply(protocol.TypeGameStats, protocol.FormatGameStats(st.GameTypeID, st.TotalDuration, st.TimesPlayed))
}
