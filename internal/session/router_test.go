package session

import (
	"testing"

	"github.com/vovakirdan/pacnet/internal/protocol"
	"github.com/vovakirdan/pacnet/internal/storage"
)

func routerFixture(t *testing.T, n int) (*Router, []*fakeConn) {
	t.Helper()
	reg := NewRegistry()
	conns := make([]*fakeConn, n)
	for i := 0; i < n; i++ {
		conns[i] = &fakeConn{}
		reg.Add(NewConnection(i+1, conns[i], NewInbox(), testConfig(), testLogger()))
	}
	return newRouter(reg, storage.NewMemory(), nil, nil, testLogger()), conns
}

func TestRouteBroadcastExcludesSender(t *testing.T) {
	r, conns := routerFixture(t, 3)

	r.Route("2,-1,7:payload")
	if got := len(conns[1].sentLines()); got != 0 {
		t.Fatalf("broadcast echoed %d lines to the sender", got)
	}
	for _, i := range []int{0, 2} {
		lines := conns[i].sentLines()
		if len(lines) != 1 || lines[0] != "2,-1,7:payload" {
			t.Fatalf("conn %d received %v, want the verbatim line", i+1, lines)
		}
	}
}

func TestRouteUnicast(t *testing.T) {
	r, conns := routerFixture(t, 3)

	r.Route("1,3,9:x:y")
	if lines := conns[2].sentLines(); len(lines) != 1 || lines[0] != "1,3,9:x:y" {
		t.Fatalf("conn 3 received %v", lines)
	}
	if len(conns[0].sentLines())+len(conns[1].sentLines()) != 0 {
		t.Fatal("unicast leaked to other connections")
	}

	// absent target: dropped without a trace
	r.Route("1,99,9:gone")
	if lines := conns[0].sentLines(); len(lines) != 0 {
		t.Fatalf("sender received %v for an undeliverable line", lines)
	}
}

func TestRouteDropsMalformed(t *testing.T) {
	r, conns := routerFixture(t, 2)

	r.Route("not a message")
	r.Route("1,2:short header")
	r.Route("a,b,c:bad ints")
	for i, fc := range conns {
		if got := len(fc.sentLines()); got != 0 {
			t.Fatalf("conn %d received %d lines from malformed input", i+1, got)
		}
	}
}

func TestRoutePeerList(t *testing.T) {
	r, conns := routerFixture(t, 2)

	r.Route("1,0,-4:")
	replies := conns[0].sentOfType(protocol.TypePeerList)
	want := "1,Not Authenticated,2,Not Authenticated"
	if len(replies) != 1 || replies[0] != want {
		t.Fatalf("peer list replies = %v, want %q", replies, want)
	}
}

func TestRouteGameList(t *testing.T) {
	r, conns := routerFixture(t, 1)

	r.Route("1,0,-7:")
	replies := conns[0].sentOfType(protocol.TypeGameList)
	want := "1,Pac Man 2P,2;2,Pac Man 4P,4;3,Pac Man 6P,6;4,Pac Man 8P,8"
	if len(replies) != 1 || replies[0] != want {
		t.Fatalf("game list replies = %v, want %q", replies, want)
	}
}

func TestRouteHighScores(t *testing.T) {
	r, conns := routerFixture(t, 1)

	r.Route("1,0,-11:1")
	replies := conns[0].sentOfType(protocol.TypeHighScores)
	if len(replies) != 1 {
		t.Fatalf("got %d high score replies", len(replies))
	}
	if replies[0][:8] != "750,Bob," {
		t.Fatalf("high scores payload starts %q", replies[0][:8])
	}

	// unparsable game type id
	r.Route("1,0,-11:abc")
	replies = conns[0].sentOfType(protocol.TypeHighScores)
	if len(replies) != 2 || replies[1] != "" {
		t.Fatalf("bad id replies = %v, want a trailing empty payload", replies)
	}
}

func TestRouteJoinOutsideLobbyIgnored(t *testing.T) {
	r, conns := routerFixture(t, 1)

	r.Route("1,0,-6:1")
	if replies := conns[0].sentOfType(protocol.TypeJoinGame); len(replies) != 0 {
		t.Fatalf("join handled without a lobby: %v", replies)
	}
}

func TestRouteGameEndOutsideGameIgnored(t *testing.T) {
	r, conns := routerFixture(t, 1)

	r.Route("1,0,-10:1,50")
	if got := len(conns[0].sentLines()); got != 0 {
		t.Fatalf("game-end outside a game produced %d lines", got)
	}
}

func TestRouteUnknownSenderIgnored(t *testing.T) {
	r, conns := routerFixture(t, 1)

	r.Route("42,0,-7:")
	if got := len(conns[0].sentLines()); got != 0 {
		t.Fatal("request from unknown sender reached a member")
	}
}
