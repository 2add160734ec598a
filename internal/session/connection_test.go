package session

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/pacnet/internal/protocol"
	"github.com/vovakirdan/pacnet/internal/storage"
)

func TestConnectionPollFeedsInbox(t *testing.T) {
	fc := &fakeConn{}
	inbox := NewInbox()
	c := NewConnection(3, fc, inbox, testConfig(), testLogger())

	fc.push("3,0,-12:", "3,-1,7:hello")
	c.Poll(time.Now())

	if got := inbox.Len(); got != 2 {
		t.Fatalf("inbox holds %d lines, want 2", got)
	}
	line, _ := inbox.Next()
	if line != "3,0,-12:" {
		t.Fatalf("first line = %q", line)
	}
}

func TestConnectionPingCadence(t *testing.T) {
	fc := &fakeConn{}
	c := NewConnection(1, fc, NewInbox(), testConfig(), testLogger())

	base := time.Now()
	c.Tick(base)
	c.Tick(base.Add(3 * time.Second))
	if pings := fc.sentOfType(protocol.TypePing); len(pings) != 0 {
		t.Fatalf("pinged %d times before the interval elapsed", len(pings))
	}

	c.Tick(base.Add(6 * time.Second))
	c.Tick(base.Add(7 * time.Second))
	if pings := fc.sentOfType(protocol.TypePing); len(pings) != 1 {
		t.Fatalf("pinged %d times within one interval, want 1", len(pings))
	}

	c.Tick(base.Add(12 * time.Second))
	if pings := fc.sentOfType(protocol.TypePing); len(pings) != 2 {
		t.Fatalf("pinged %d times across two intervals, want 2", len(pings))
	}
}

func TestConnectionPingsChattyClient(t *testing.T) {
	fc := &fakeConn{}
	c := NewConnection(1, fc, NewInbox(), testConfig(), testLogger())

	// inbound traffic every tick keeps the peer live but must not
	// suppress the ping cadence
	base := time.Now()
	c.Tick(base)
	for i := 1; i <= 6; i++ {
		now := base.Add(time.Duration(i) * time.Second)
		fc.push("1,0,-4:")
		c.Poll(now)
		c.Tick(now)
	}
	if pings := fc.sentOfType(protocol.TypePing); len(pings) != 1 {
		t.Fatalf("pinged a chatty client %d times over one interval, want 1", len(pings))
	}
}

func TestConnectionTrafficResetsLiveness(t *testing.T) {
	fc := &fakeConn{}
	c := NewConnection(1, fc, NewInbox(), testConfig(), testLogger())

	base := time.Now()
	c.Tick(base)
	fc.push("1,0,-12:")
	c.Poll(base.Add(29 * time.Second))
	c.Tick(base.Add(31 * time.Second))
	if c.Dead() {
		t.Fatal("connection declared dead despite recent traffic")
	}
}

func TestConnectionDeadOnce(t *testing.T) {
	fc := &fakeConn{}
	c := NewConnection(1, fc, NewInbox(), testConfig(), testLogger())

	base := time.Now()
	c.Tick(base)
	c.Tick(base.Add(31 * time.Second))
	if !c.Dead() {
		t.Fatal("connection not declared dead after the timeout")
	}
	if !fc.closed {
		t.Fatal("dead connection's transport was not closed")
	}

	sent := len(fc.sentLines())
	c.Tick(base.Add(60 * time.Second))
	if got := len(fc.sentLines()); got != sent {
		t.Fatal("ticking a dead connection produced traffic")
	}
}

func TestConnectionWriteFailureKills(t *testing.T) {
	fc := &fakeConn{writeErr: errWriteRefused}
	c := NewConnection(1, fc, NewInbox(), testConfig(), testLogger())

	c.Send("0,1,-12:")
	if !c.Dead() {
		t.Fatal("failed write did not mark the connection dead")
	}
	if !fc.closed {
		t.Fatal("failed write did not close the transport")
	}
}

func TestConnectionAuthenticate(t *testing.T) {
	store := storage.NewMemory()
	fc := &fakeConn{}
	c := NewConnection(2, fc, NewInbox(), testConfig(), testLogger())

	c.Authenticate(store, "alice", "wrong")
	if replies := fc.sentOfType(protocol.TypeLogin); len(replies) != 1 || replies[0] != "" {
		t.Fatalf("failed login replies = %v, want one empty payload", replies)
	}
	if c.Authenticated() || c.Username() != DefaultUsername {
		t.Fatal("failed login changed the connection's identity")
	}

	c.Authenticate(store, "alice", "alice")
	replies := fc.sentOfType(protocol.TypeLogin)
	if len(replies) != 2 {
		t.Fatalf("got %d login replies, want 2", len(replies))
	}
	if !strings.HasPrefix(replies[1], "1,alice,,") {
		t.Fatalf("login reply payload = %q", replies[1])
	}
	if !c.Authenticated() || c.Username() != "alice" || c.PlayerID() != 1 {
		t.Fatalf("identity after login: %q player %d", c.Username(), c.PlayerID())
	}

	c.Logout()
	if !c.Dead() {
		t.Fatal("logout did not mark the connection dead")
	}
	if !fc.closed {
		t.Fatal("logout left the transport open")
	}
	if c.PlayerID() != 1 {
		t.Fatal("logout discarded the player identity before the reap")
	}
}
