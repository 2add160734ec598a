package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacnet/internal/protocol"
	"github.com/vovakirdan/pacnet/internal/storage"
	"github.com/vovakirdan/pacnet/internal/transport"
)

// DefaultUsername is carried by every connection until it logs in.
const DefaultUsername = "Not Authenticated"

// Connection wraps a transport link with the server-side state of one
// client: its identity, its authentication, which inbox its traffic feeds,
// and the liveness clock. A connection is owned by exactly one session loop
// at a time; Poll and Tick are only ever called from that loop.
type Connection struct {
	id     int
	conn   transport.Conn
	logger *log.Logger

	deadTimeout  time.Duration
	pingInterval time.Duration

	mu          sync.Mutex
	inbox       *Inbox
	username    string
	playerID    int64
	authed      bool
	dead        bool
	lastMessage time.Time
	lastPing    time.Time
}

// NewConnection wraps a transport link. The connection feeds inbox until a
// session hand-off redirects it with SetInbox.
func NewConnection(id int, conn transport.Conn, inbox *Inbox, cfg Config, logger *log.Logger) *Connection {
	return &Connection{
		id:           id,
		conn:         conn,
		logger:       logger.With("conn", id),
		deadTimeout:  cfg.DeadTimeout,
		pingInterval: cfg.PingInterval,
		inbox:        inbox,
		username:     DefaultUsername,
	}
}

// ID returns the server-assigned connection id.
func (c *Connection) ID() int { return c.id }

// Username returns the logged-in username, or DefaultUsername.
func (c *Connection) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// PlayerID returns the storage id of the logged-in player, or zero.
func (c *Connection) PlayerID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Authenticated reports whether the connection has logged in.
func (c *Connection) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authed
}

// Dead reports whether the connection has been declared dead.
func (c *Connection) Dead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dead
}

// SetInbox redirects inbound traffic to a different session's inbox. A nil
// inbox parks the connection; lines read while parked are discarded.
func (c *Connection) SetInbox(inbox *Inbox) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbox = inbox
}

// Poll drains every line the transport has buffered into the current inbox.
// Any traffic at all counts as proof of life.
func (c *Connection) Poll(now time.Time) {
	for {
		line, ok := c.conn.ReadLine()
		if !ok {
			return
		}
		c.mu.Lock()
		c.lastMessage = now
		inbox := c.inbox
		c.mu.Unlock()
		if inbox != nil {
			inbox.Add(line)
		}
	}
}

// Tick advances the liveness clock. A connection silent past the dead
// timeout is closed and marked dead exactly once; the peer is pinged on a
// fixed cadence regardless of inbound traffic, at most once per interval.
func (c *Connection) Tick(now time.Time) {
	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return
	}
	if c.lastMessage.IsZero() {
		c.lastMessage = now
		c.lastPing = now
	}
	silent := now.Sub(c.lastMessage)
	if silent >= c.deadTimeout {
		c.dead = true
		c.mu.Unlock()
		c.conn.Close()
		c.logger.Warn("connection timed out", "silent", silent)
		return
	}
	ping := now.Sub(c.lastPing) >= c.pingInterval
	if ping {
		c.lastPing = now
	}
	c.mu.Unlock()
	if ping {
		c.Reply(protocol.TypePing, "")
	}
}

// Send writes a raw protocol line to the client. Write failures mark the
// connection dead; the owning loop reaps it on its next pass.
func (c *Connection) Send(line string) {
	if err := c.conn.WriteLine(line); err != nil {
		c.mu.Lock()
		already := c.dead
		c.dead = true
		c.mu.Unlock()
		if !already {
			c.conn.Close()
			c.logger.Warn("write failed, dropping connection", "err", err)
		}
	}
}

// Reply sends a server-originated message of the given type to this client.
func (c *Connection) Reply(t protocol.MsgType, payload string) {
	c.Send(protocol.Message{
		From:    protocol.AddressServer,
		To:      c.id,
		Type:    t,
		Payload: payload,
	}.Encode())
}

// Handshake tells the client which connection id it was assigned.
func (c *Connection) Handshake() {
	c.Reply(protocol.TypeHandshake, strconv.Itoa(c.id))
}

// Authenticate checks the credentials against the store. Success binds the
// player identity to the connection and echoes the player record back;
// failure replies with an empty payload.
func (c *Connection) Authenticate(store storage.Store, username, password string) {
	rec, err := store.Authenticate(username, password)
	if err != nil {
		c.logger.Error("authentication lookup failed", "username", username, "err", err)
		rec = nil
	}
	if rec == nil {
		c.Reply(protocol.TypeLogin, "")
		return
	}
	c.bind(rec)
	c.logger.Info("client logged in", "username", rec.Username, "player", rec.ID)
	c.Reply(protocol.TypeLogin, protocol.FormatPlayer(rec.ID, rec.Username, rec.Joined))
}

// Register creates a new player account and logs the connection in as it.
// A taken username or a storage failure replies with an empty payload.
func (c *Connection) Register(store storage.Store, username, password string) {
	rec, err := store.RegisterPlayer(username, password)
	if err != nil {
		c.logger.Error("registration failed", "username", username, "err", err)
		rec = nil
	}
	if rec == nil {
		c.Reply(protocol.TypeRegister, "")
		return
	}
	c.bind(rec)
	c.logger.Info("player registered", "username", rec.Username, "player", rec.ID)
	c.Reply(protocol.TypeRegister, protocol.FormatPlayer(rec.ID, rec.Username, rec.Joined))
}

// Logout closes the transport and marks the connection dead; the owning
// session reaps it on its next pass just like a timed-out peer. The player
// identity is kept so a logout mid-match still records who disconnected.
func (c *Connection) Logout() {
	c.mu.Lock()
	already := c.dead
	c.dead = true
	c.mu.Unlock()
	if already {
		return
	}
	c.conn.Close()
	c.logger.Info("client logged out")
}

func (c *Connection) bind(rec *storage.PlayerRecord) {
	c.mu.Lock()
	c.username = rec.Username
	c.playerID = rec.ID
	c.authed = true
	c.mu.Unlock()
}
