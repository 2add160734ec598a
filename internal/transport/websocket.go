package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// WSConn adapts a WebSocket client to the Conn interface: one text frame
// carries exactly one protocol line. Browser-based clients speak the same
// protocol as TCP ones; the lobby cannot tell them apart.
type WSConn struct {
	ws        *websocket.Conn
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once

	writeMu sync.Mutex
}

var _ Conn = (*WSConn)(nil)

// NewWSConn wraps an upgraded WebSocket connection.
func NewWSConn(ws *websocket.Conn) *WSConn {
	c := &WSConn{
		ws:    ws,
		lines: make(chan string, readBuffer),
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *WSConn) readLoop() {
	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		select {
		case c.lines <- string(data):
		case <-c.done:
			return
		}
	}
}

// ReadLine returns the next buffered frame without blocking.
func (c *WSConn) ReadLine() (string, bool) {
	select {
	case line := <-c.lines:
		return line, true
	default:
		return "", false
	}
}

// WriteLine sends one line as a single text frame.
func (c *WSConn) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return fmt.Errorf("transport: write frame: %w", err)
	}
	return nil
}

// Close shuts the WebSocket down.
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// RemoteAddr reports the peer's address.
func (c *WSConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// WSServer serves the WebSocket gateway: clients connect to /ws and are
// handed to the accept callback wrapped as Conns.
type WSServer struct {
	srv    *http.Server
	logger *log.Logger
	accept func(Conn)

	upgrader websocket.Upgrader
}

// NewWSServer creates the gateway listening on addr.
func NewWSServer(addr string, logger *log.Logger, accept func(Conn)) *WSServer {
	s := &WSServer{
		logger: logger,
		accept: accept,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The line protocol carries its own authentication; any
			// origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *WSServer) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.accept(NewWSConn(ws))
}

// Serve blocks until the server is closed.
func (s *WSServer) Serve() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops accepting new WebSocket clients.
func (s *WSServer) Close() error {
	return s.srv.Close()
}
