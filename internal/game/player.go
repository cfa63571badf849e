package game

import (
	"fmt"
	"strconv"
	"strings"
)

// simulatedPrefix marks the wire form of a simulated player id.
const simulatedPrefix = "npc:"

// PlayerKind distinguishes real users from simulated players.
type PlayerKind uint8

const (
	KindNone PlayerKind = iota
	KindReal
	KindSimulated
)

// PlayerID identifies a player within a session. It is comparable and safe to
// use as a map key. The zero value means "no player".
type PlayerID struct {
	kind    PlayerKind
	user    string
	channel string
	seq     int
}

// Real returns the id of a human player as supplied by the gateway.
func Real(id string) PlayerID {
	return PlayerID{kind: KindReal, user: id}
}

// Simulated returns the id of the seq-th simulated player in channel.
func Simulated(channel string, seq int) PlayerID {
	return PlayerID{kind: KindSimulated, channel: channel, seq: seq}
}

// Kind reports whether the id is real or simulated.
func (p PlayerID) Kind() PlayerKind { return p.kind }

// IsZero reports whether p is the empty id.
func (p PlayerID) IsZero() bool { return p.kind == KindNone }

// IsSimulated reports whether p is a simulated player.
func (p PlayerID) IsSimulated() bool { return p.kind == KindSimulated }

// Seq returns the sequence number of a simulated player, 0 otherwise.
func (p PlayerID) Seq() int { return p.seq }

// String returns the wire form: the user id for real players and
// npc:<channel>:<n> for simulated ones.
func (p PlayerID) String() string {
	switch p.kind {
	case KindReal:
		return p.user
	case KindSimulated:
		return fmt.Sprintf("%s%s:%d", simulatedPrefix, p.channel, p.seq)
	default:
		return ""
	}
}

// DisplayName returns a human readable label.
func (p PlayerID) DisplayName() string {
	switch p.kind {
	case KindSimulated:
		return fmt.Sprintf("NPC %d", p.seq)
	case KindReal:
		return p.user
	default:
		return "nobody"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PlayerID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PlayerID) UnmarshalText(b []byte) error {
	id, err := ParsePlayerID(string(b))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// ParsePlayerID converts the wire form back into a PlayerID. Only the gateway
// deals in strings; the engine works on PlayerID values.
func ParsePlayerID(s string) (PlayerID, error) {
	if s == "" {
		return PlayerID{}, nil
	}
	if !strings.HasPrefix(s, simulatedPrefix) {
		return Real(s), nil
	}

	rest := strings.TrimPrefix(s, simulatedPrefix)
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return PlayerID{}, fmt.Errorf("malformed simulated player id %q", s)
	}
	seq, err := strconv.Atoi(rest[i+1:])
	if err != nil || seq < 1 {
		return PlayerID{}, fmt.Errorf("malformed simulated player id %q", s)
	}
	return Simulated(rest[:i], seq), nil
}

// IsReservedID reports whether a user supplied id collides with the
// simulated player namespace.
func IsReservedID(s string) bool {
	return strings.HasPrefix(s, simulatedPrefix)
}
