// Package session implements the server's session core: connections, the
// lobby, per-match game sessions, message routing and result reconciliation.
// The lobby and every running game session each drive a polling loop in
// their own goroutine; connections migrate between them, never belonging to
// more than one at a time.
package session

import "sync"

// Inbox is a FIFO of raw inbound lines awaiting dispatch. One inbox belongs
// to each session; every member connection posts the lines it reads into its
// session's inbox, and the session loop drains it through the router.
// Safe for concurrent enqueue and dequeue.
type Inbox struct {
	mu    sync.Mutex
	lines []string
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Add appends a line to the tail of the queue.
func (q *Inbox) Add(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(q.lines, line)
}

// Next removes and returns the head of the queue; ok is false when the
// queue is empty.
func (q *Inbox) Next() (line string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.lines) == 0 {
		return "", false
	}
	line = q.lines[0]
	q.lines = q.lines[1:]
	return line, true
}

// Len reports the number of queued lines.
func (q *Inbox) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}
