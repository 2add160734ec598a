package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacnet/internal/protocol"
	"github.com/vovakirdan/pacnet/internal/storage"
)

// GameSession hosts one match. It fills up to the game type's player count,
// announces the full roster exactly once, then relays gameplay traffic until
// every surviving member has filed an end-of-game report. Dead members are
// remembered so the match record can carry their disconnection.
type GameSession struct {
	sessionID int
	gameType  storage.GameType
	lobby     *Lobby
	store     storage.Store
	cfg       Config
	logger    *log.Logger

	live   *Registry
	failed *Registry
	inbox  *Inbox
	router *Router

	mu      sync.Mutex
	full    bool
	closed  bool
	started time.Time
	reports map[int][]PlayerScore
}

func newGameSession(sessionID int, gt storage.GameType, lobby *Lobby, store storage.Store, cfg Config, logger *log.Logger) *GameSession {
	g := &GameSession{
		sessionID: sessionID,
		gameType:  gt,
		lobby:     lobby,
		store:     store,
		cfg:       cfg,
		logger:    logger.With("session", sessionID, "game", gt.Name),
		live:      NewRegistry(),
		failed:    NewRegistry(),
		inbox:     NewInbox(),
		started:   time.Now(),
		reports:   make(map[int][]PlayerScore),
	}
	g.router = newRouter(g.live, store, nil, g, g.logger)
	return g
}

// ID returns the session id.
func (g *GameSession) ID() int { return g.sessionID }

// GameTypeID returns the id of the hosted game type.
func (g *GameSession) GameTypeID() int { return g.gameType.ID }

// Waiting reports whether the session still accepts joiners.
func (g *GameSession) Waiting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.full && !g.closed
}

// AddClient admits a connection. When the member count reaches the game
// type's player count the session closes to joiners and every member is
// sent the roster; this happens exactly once per session. Returns false if
// the session was already full or has settled.
func (g *GameSession) AddClient(c *Connection) bool {
	g.mu.Lock()
	if g.full || g.closed {
		g.mu.Unlock()
		return false
	}
	c.SetInbox(g.inbox)
	g.live.Add(c)
	filled := g.live.Len() >= g.gameType.Players
	if filled {
		g.full = true
	}
	g.mu.Unlock()

	if filled {
		roster := g.live.Roster()
		for _, m := range g.live.Snapshot() {
			m.Reply(protocol.TypePeerList, roster)
		}
		g.logger.Info("session full, starting", "players", g.live.Len())
	}
	return true
}

// Run drives the session loop until the match is over, then tells the lobby
// to forget the session.
func (g *GameSession) Run() {
	ticker := time.NewTicker(g.cfg.TickInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		g.step(now)
		if g.finishIfOver(now) {
			g.lobby.removeSession(g)
			return
		}
	}
}

// step runs one pass of the session loop. Unlike the lobby, reaping here
// notifies every surviving member of each newly dead one, exactly once.
func (g *GameSession) step(now time.Time) {
	for _, c := range g.live.Snapshot() {
		c.Poll(now)
		c.Tick(now)
	}
	for {
		line, ok := g.inbox.Next()
		if !ok {
			break
		}
		g.router.Route(line)
	}

	var newlyDead []*Connection
	for _, c := range g.live.Snapshot() {
		if c.Dead() {
			g.live.Remove(c.ID())
			c.SetInbox(nil)
			g.failed.Add(c)
			newlyDead = append(newlyDead, c)
		}
	}
	for _, d := range newlyDead {
		g.logger.Warn("player dropped from game", "conn", d.ID(), "username", d.Username())
		for _, c := range g.live.Snapshot() {
			c.Reply(protocol.TypeClientFailed, strconv.Itoa(d.ID()))
		}
	}
}

// recordReport files one member's end-of-game report. A second report from
// the same member is ignored.
func (g *GameSession) recordReport(reporterID int, report []PlayerScore) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.reports[reporterID]; dup {
		g.logger.Warn("duplicate game-end report ignored", "conn", reporterID)
		return
	}
	g.reports[reporterID] = report
	g.logger.Debug("game-end report filed", "conn", reporterID, "entries", len(report))
}

// overLocked reports whether the match has ended: every surviving member
// has filed a report, or no members survive at all. Callers must hold mu.
func (g *GameSession) overLocked() bool {
	for _, c := range g.live.Snapshot() {
		if _, ok := g.reports[c.ID()]; !ok {
			return false
		}
	}
	return true
}

// finishIfOver settles a finished match: reconcile the reports, record the
// outcome with every dropped member marked disconnected at score zero, and
// return the survivors to the lobby. Settling also closes the session, so a
// joiner racing the lobby hand-off is refused rather than stranded in a
// loop that has already returned. Returns true when the session is done.
func (g *GameSession) finishIfOver(now time.Time) bool {
	g.mu.Lock()
	if !g.overLocked() {
		g.mu.Unlock()
		return false
	}
	g.closed = true
	ordered := make([][]PlayerScore, 0, len(g.reports))
	for _, c := range g.live.Snapshot() {
		if report, ok := g.reports[c.ID()]; ok {
			ordered = append(ordered, report)
		}
	}
	duration := now.Sub(g.started)
	started := g.started
	g.reports = make(map[int][]PlayerScore)
	g.mu.Unlock()

	results, discrepancies := reconcile(ordered)
	if discrepancies > 0 {
		g.logger.Warn("score reports disagreed", "players", discrepancies)
	}
	winner := winnerOf(results)

	participants := make([]storage.Participant, 0, len(results)+g.failed.Len())
	for _, res := range results {
		participants = append(participants, storage.Participant{PlayerID: res.PlayerID, Score: res.Score})
	}
	for _, d := range g.failed.Snapshot() {
		participants = append(participants, storage.Participant{PlayerID: d.PlayerID(), Disconnected: true})
	}

	if err := g.store.SaveMatchResult(g.gameType.ID, winner, started, duration, participants); err != nil {
		g.logger.Error("failed to record match result", "err", err)
	}
	g.logger.Info("session over", "winner", winner, "duration", duration)

	for _, c := range g.live.Snapshot() {
		g.live.Remove(c.ID())
		g.lobby.returnClient(c)
	}
	return true
}
