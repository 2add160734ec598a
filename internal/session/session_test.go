package session

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacnet/internal/protocol"
)

// fakeConn is a scripted transport link. Tests push inbound lines and
// inspect what the session wrote back; there are no goroutines, so every
// test drives the loops by calling step directly with a synthetic clock.
type fakeConn struct {
	mu       sync.Mutex
	inbound  []string
	sent     []string
	closed   bool
	writeErr error
}

type fakeAddr struct{}

func (fakeAddr) Network() string { return "fake" }
func (fakeAddr) String() string  { return "fake" }

func (f *fakeConn) push(lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbound = append(f.inbound, lines...)
}

func (f *fakeConn) ReadLine() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inbound) == 0 {
		return "", false
	}
	line := f.inbound[0]
	f.inbound = f.inbound[1:]
	return line, true
}

func (f *fakeConn) WriteLine(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.sent = append(f.sent, line)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) RemoteAddr() net.Addr { return fakeAddr{} }

func (f *fakeConn) sentLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// sentOfType returns the payloads of every sent message of the given type.
func (f *fakeConn) sentOfType(t protocol.MsgType) []string {
	var out []string
	for _, line := range f.sentLines() {
		msg, ok := protocol.Parse(line)
		if ok && msg.Type == t && msg.From == protocol.AddressServer {
			out = append(out, msg.Payload)
		}
	}
	return out
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// testConfig uses an hour-long tick so that any spawned session loop never
// fires during a test; steps are driven manually.
func testConfig() Config {
	return Config{
		TickInterval: time.Hour,
		DeadTimeout:  30 * time.Second,
		PingInterval: 5 * time.Second,
	}
}

var errWriteRefused = errors.New("write refused")
