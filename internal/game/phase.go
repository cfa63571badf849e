package game

import "fmt"

// Phase is the round state of a session.
type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseCollecting
	PhaseJudging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseCollecting:
		return "collecting"
	case PhaseJudging:
		return "judging"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "lobby":
		*p = PhaseLobby
	case "collecting":
		*p = PhaseCollecting
	case "judging":
		*p = PhaseJudging
	default:
		return fmt.Errorf("unknown phase %q", string(b))
	}
	return nil
}
