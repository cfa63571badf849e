package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeAuth       MessageType = "auth"
	MessageTypeReset      MessageType = "reset"
	MessageTypeSetSolo    MessageType = "set_solo"
	MessageTypeJoin       MessageType = "join"
	MessageTypeLeave      MessageType = "leave"
	MessageTypeGetHand    MessageType = "get_hand"
	MessageTypeStartRound MessageType = "start_round"
	MessageTypeSubmit     MessageType = "submit"
	MessageTypeJudgePick  MessageType = "judge_pick"
	MessageTypeGetScores  MessageType = "get_scores"

	// Server to client messages, private to the caller
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeError        MessageType = "error"
	MessageTypeSoloMode     MessageType = "solo_mode"
	MessageTypeHand         MessageType = "hand"
	MessageTypeLeft         MessageType = "left"
	MessageTypeSubmitted    MessageType = "submitted"
	MessageTypeScores       MessageType = "scores"

	// Server to channel broadcasts
	MessageTypeSessionReset  MessageType = "session_reset"
	MessageTypeRoundStarted  MessageType = "round_started"
	MessageTypeRoundComplete MessageType = "round_complete"
	MessageTypeRoundResolved MessageType = "round_resolved"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
