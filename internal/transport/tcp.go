package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// writeTimeout bounds a single line write; a peer that cannot accept a small
// control message within this window will be caught by the liveness timeout
// anyway.
const writeTimeout = 5 * time.Second

// TCPConn adapts a TCP socket to the Conn interface. A reader goroutine
// feeds inbound lines into a buffered channel so ReadLine never blocks.
type TCPConn struct {
	conn      net.Conn
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once

	writeMu sync.Mutex
}

var _ Conn = (*TCPConn)(nil)

// NewTCPConn wraps an accepted socket. TCP_NODELAY is enabled so small
// control messages are not batched.
func NewTCPConn(conn net.Conn) *TCPConn {
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}

	c := &TCPConn{
		conn:  conn,
		lines: make(chan string, readBuffer),
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *TCPConn) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
	// Read error or EOF: stop feeding lines. The owning session declares
	// the connection dead once the liveness timeout passes.
}

// ReadLine returns the next buffered line without blocking.
func (c *TCPConn) ReadLine() (string, bool) {
	select {
	case line := <-c.lines:
		return line, true
	default:
		return "", false
	}
}

// WriteLine sends one line, bounded by the write deadline.
func (c *TCPConn) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if _, err := c.conn.Write(append([]byte(line), '\n')); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Close shuts the socket down and releases the reader goroutine.
func (c *TCPConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// RemoteAddr reports the peer's address.
func (c *TCPConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// TCPServer accepts game clients on a TCP listener and hands each wrapped
// connection to the accept callback.
type TCPServer struct {
	ln     net.Listener
	logger *log.Logger
	accept func(Conn)

	closeOnce sync.Once
}

// NewTCPServer starts listening on addr. The accept callback runs on the
// accept goroutine and must not block.
func NewTCPServer(addr string, logger *log.Logger, accept func(Conn)) (*TCPServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: cannot listen on %s: %w", addr, err)
	}
	return &TCPServer{ln: ln, logger: logger, accept: accept}, nil
}

// Addr reports the listener's address.
func (s *TCPServer) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until the listener is closed.
func (s *TCPServer) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}
		s.accept(NewTCPConn(conn))
	}
}

// Close stops the listener; in-flight connections stay open.
func (s *TCPServer) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ln.Close()
	})
	return err
}
