package protocol

import (
	"strconv"
	"strings"
)

// Message is the atomic unit of communication: an immutable
// {from, to, type, payload} tuple.
//
// From and To are connection addresses: 0 for the server, -1 for every session
// member except the sender, >0 for a specific connection id. Payload is an
// opaque string whose grammar is owned by the message type; it may be empty
// and may itself contain colons.
type Message struct {
	From    int
	To      int
	Type    MsgType
	Payload string
}

// Encode serializes the message as a single protocol line (no trailing
// newline): "from,to,type:payload".
func (m Message) Encode() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(m.From))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(m.To))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(m.Type)))
	b.WriteByte(':')
	b.WriteString(m.Payload)
	return b.String()
}

// Parse decodes a single protocol line. The header is everything before the
// first colon and must be exactly three comma-separated base-10 integers;
// anything else is malformed and reported with ok=false so the caller can
// drop the line. The payload is the remainder after the first colon and is
// not split further.
func Parse(line string) (Message, bool) {
	header, payload, _ := strings.Cut(line, ":")

	fields := strings.Split(header, ",")
	if len(fields) != 3 {
		return Message{}, false
	}

	from, err := strconv.Atoi(fields[0])
	if err != nil {
		return Message{}, false
	}
	to, err := strconv.Atoi(fields[1])
	if err != nil {
		return Message{}, false
	}
	msgType, err := strconv.Atoi(fields[2])
	if err != nil {
		return Message{}, false
	}

	return Message{
		From:    from,
		To:      to,
		Type:    MsgType(msgType),
		Payload: payload,
	}, true
}
