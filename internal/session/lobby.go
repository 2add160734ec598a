package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacnet/internal/storage"
	"github.com/vovakirdan/pacnet/internal/transport"
)

// Lobby is the session every connection starts in and returns to between
// games. Its loop polls members, routes their traffic, and reaps the dead;
// join requests move members into game sessions, which the lobby tracks so
// joiners can be matched with sessions still waiting for players.
type Lobby struct {
	cfg    Config
	store  storage.Store
	logger *log.Logger

	live   *Registry
	inbox  *Inbox
	router *Router

	mu            sync.Mutex
	nextConnID    int
	nextSessionID int
	games         []*GameSession

	done     chan struct{}
	doneOnce sync.Once
}

// NewLobby creates a lobby over the given store. Call Run to start its loop.
func NewLobby(store storage.Store, cfg Config, logger *log.Logger) *Lobby {
	l := &Lobby{
		cfg:           cfg,
		store:         store,
		logger:        logger,
		live:          NewRegistry(),
		inbox:         NewInbox(),
		nextConnID:    1,
		nextSessionID: 1,
		done:          make(chan struct{}),
	}
	l.router = newRouter(l.live, store, l, nil, logger)
	return l
}

// Accept admits a freshly established transport link: it assigns the next
// connection id, adds the connection to the lobby, and sends the handshake.
// Safe to call from transport accept goroutines.
func (l *Lobby) Accept(t transport.Conn) *Connection {
	l.mu.Lock()
	id := l.nextConnID
	l.nextConnID++
	l.mu.Unlock()

	c := NewConnection(id, t, l.inbox, l.cfg, l.logger)
	l.live.Add(c)
	c.Handshake()
	l.logger.Info("client connected", "conn", id, "remote", t.RemoteAddr())
	return c
}

// Run drives the lobby loop until Close is called.
func (l *Lobby) Run() {
	ticker := time.NewTicker(l.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.step(now)
		}
	}
}

// Close stops the lobby loop.
func (l *Lobby) Close() {
	l.doneOnce.Do(func() { close(l.done) })
}

// step runs one pass of the lobby loop: poll and tick every member, drain
// the inbox through the router, then discard members that died. The lobby
// keeps no record of its dead; only game sessions do.
func (l *Lobby) step(now time.Time) {
	for _, c := range l.live.Snapshot() {
		c.Poll(now)
		c.Tick(now)
	}
	for {
		line, ok := l.inbox.Next()
		if !ok {
			break
		}
		l.router.Route(line)
	}
	for _, c := range l.live.Snapshot() {
		if c.Dead() {
			l.live.Remove(c.ID())
			c.SetInbox(nil)
			l.logger.Info("client left lobby", "conn", c.ID())
		}
	}
}

// JoinGame moves a lobby member into a session for the given game type,
// matching an existing session still waiting for players or creating a new
// one. The hand-off runs on the lobby loop, so the connection is not being
// polled while it moves. A scanned session can settle between the scan and
// the hand-off; its AddClient then refuses and the scan runs again, which
// at worst creates a fresh session. Returns the session id.
func (l *Lobby) JoinGame(gt storage.GameType, c *Connection) int {
	l.live.Remove(c.ID())
	for {
		l.mu.Lock()
		var g *GameSession
		for _, s := range l.games {
			if s.GameTypeID() == gt.ID && s.Waiting() {
				g = s
				break
			}
		}
		created := g == nil
		if created {
			id := l.nextSessionID
			l.nextSessionID++
			g = newGameSession(id, gt, l, l.store, l.cfg, l.logger)
			l.games = append(l.games, g)
		}
		l.mu.Unlock()

		if !g.AddClient(c) {
			continue
		}
		if created {
			go g.Run()
		}
		l.logger.Info("client joined game", "conn", c.ID(), "session", g.ID(), "game", gt.Name)
		return g.ID()
	}
}

// returnClient readmits a game session member to the lobby.
func (l *Lobby) returnClient(c *Connection) {
	c.SetInbox(l.inbox)
	l.live.Add(c)
	l.logger.Info("client returned to lobby", "conn", c.ID())
}

// removeSession forgets a finished game session.
func (l *Lobby) removeSession(g *GameSession) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.games {
		if s == g {
			l.games = append(l.games[:i], l.games[i+1:]...)
			return
		}
	}
}

// sessionCount reports how many game sessions the lobby is tracking.
func (l *Lobby) sessionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.games)
}
