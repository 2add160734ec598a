// Package protocol implements the line-oriented wire protocol spoken between
// the server and game clients. Every message is a single line of the form
// "from,to,type:payload"; the payload grammar is owned by the message type.
package protocol

// MsgType identifies the kind of a message. Server-reserved types are negative
// and count down from -1. Positive types are game-specific peer messages that
// the server relays without interpreting.
type MsgType int

const (
	// TypeHandshake carries the connection id assigned by the lobby.
	TypeHandshake MsgType = -1

	// TypeLogout is sent by a client that is disconnecting.
	TypeLogout MsgType = -2

	// TypeLogin carries credentials; the reply carries the player record on
	// success and an empty payload on failure.
	TypeLogin MsgType = -3

	// TypePeerList requests (or carries) the session roster.
	TypePeerList MsgType = -4

	// TypePlayerData requests a player record by username.
	TypePlayerData MsgType = -5

	// TypeJoinGame requests entry into a game of the given type; the reply
	// carries the assigned session id.
	TypeJoinGame MsgType = -6

	// TypeGameList requests the list of available game types.
	TypeGameList MsgType = -7

	// TypeRegister creates a new player; reply semantics match TypeLogin.
	TypeRegister MsgType = -8

	// TypePlayerStats requests the sender's player statistics.
	TypePlayerStats MsgType = -9

	// TypeGameEnd carries a client's final score report for its match.
	TypeGameEnd MsgType = -10

	// TypeHighScores requests the high score table for a game type.
	TypeHighScores MsgType = -11

	// TypePing checks that the peer is still alive.
	TypePing MsgType = -12

	// TypeClientFailed notifies session members that a peer has died.
	TypeClientFailed MsgType = -13

	// TypeGameStats requests aggregate statistics for a game type.
	TypeGameStats MsgType = -14
)

// Addresses used in the from/to header fields. Values greater than zero
// address a specific connection id.
const (
	// AddressServer marks a message handled by the server itself.
	AddressServer = 0

	// AddressAllClients fans a message out to every session member except
	// its sender.
	AddressAllClients = -1
)

// String returns a short name for the message type, for logs.
func (t MsgType) String() string {
	switch t {
	case TypeHandshake:
		return "handshake"
	case TypeLogout:
		return "logout"
	case TypeLogin:
		return "login"
	case TypePeerList:
		return "peer-list"
	case TypePlayerData:
		return "player-data"
	case TypeJoinGame:
		return "join-game"
	case TypeGameList:
		return "game-list"
	case TypeRegister:
		return "register"
	case TypePlayerStats:
		return "player-stats"
	case TypeGameEnd:
		return "game-end"
	case TypeHighScores:
		return "high-scores"
	case TypePing:
		return "ping"
	case TypeClientFailed:
		return "client-failed"
	case TypeGameStats:
		return "game-stats"
	default:
		return "game-message"
	}
}
