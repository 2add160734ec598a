package session

import "time"

// Config controls the timing of a session's polling loop.
type Config struct {
	// TickInterval is how often the loop polls connections and drains the
	// inbox.
	TickInterval time.Duration
	// DeadTimeout is how long a connection may stay silent before it is
	// declared dead and closed.
	DeadTimeout time.Duration
	// PingInterval is the minimum gap between server pings to a silent
	// connection.
	PingInterval time.Duration
}

// DefaultConfig returns the timing used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		TickInterval: 20 * time.Millisecond,
		DeadTimeout:  30 * time.Second,
		PingInterval: 5 * time.Second,
	}
}
