package server

import (
	"encoding/json"
	"time"

	"github.com/lox/fillblanks/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server Messages

type AuthData struct {
	PlayerID string `json:"playerId"`
}

// ChannelData is the payload of reset, join, leave, get_hand, start_round
// and get_scores.
type ChannelData struct {
	Channel string `json:"channel"`
}

type SetSoloData struct {
	Channel string `json:"channel"`
	On      bool   `json:"on"`
}

type SubmitData struct {
	Channel string `json:"channel"`
	RoundID string `json:"roundId,omitempty"`
	Indices []int  `json:"indices"`
}

type JudgePickData struct {
	Channel string `json:"channel"`
	RoundID string `json:"roundId,omitempty"`
	Winner  string `json:"winner"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ScoreEntry struct {
	Player string `json:"player"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type SessionData struct {
	Channel       string       `json:"channel"`
	Judge         string       `json:"judge,omitempty"`
	Players       []PlayerInfo `json:"players"`
	Phase         game.Phase   `json:"phase"`
	Round         int          `json:"round"`
	SoloMode      bool         `json:"soloMode"`
	Prompt        string       `json:"prompt,omitempty"`
	RequiredPicks int          `json:"requiredPicks"`
	Scores        []ScoreEntry `json:"scores"`
}

type SoloModeData struct {
	Channel string `json:"channel"`
	On      bool   `json:"on"`
}

type HandData struct {
	Channel string   `json:"channel"`
	Cards   []string `json:"cards"`
}

type LeftData struct {
	Channel string `json:"channel"`
}

type SubmittedData struct {
	Channel  string   `json:"channel"`
	Round    int      `json:"round"`
	Filled   string   `json:"filled"`
	Complete bool     `json:"complete"`
	Hand     []string `json:"hand"`
}

type ScoresData struct {
	Channel string       `json:"channel"`
	Scores  []ScoreEntry `json:"scores"`
}

type RoundStartedData struct {
	Channel       string `json:"channel"`
	Round         int    `json:"round"`
	RoundID       string `json:"roundId"`
	Prompt        string `json:"prompt"`
	RequiredPicks int    `json:"requiredPicks"`
	PlayerCount   int    `json:"playerCount"`
	SoloMode      bool   `json:"soloMode"`
}

type SubmissionEntry struct {
	Label  string `json:"label"`
	Player string `json:"player"`
	Filled string `json:"filled"`
}

type RoundCompleteData struct {
	Channel string            `json:"channel"`
	Round   int               `json:"round"`
	RoundID string            `json:"roundId"`
	Prompt  string            `json:"prompt"`
	Judge   string            `json:"judge"`
	Entries []SubmissionEntry `json:"entries"`
}

type RoundResolvedData struct {
	Channel    string       `json:"channel"`
	Round      int          `json:"round"`
	RoundID    string       `json:"roundId"`
	Winner     string       `json:"winner"`
	WinnerName string       `json:"winnerName"`
	Filled     string       `json:"filled"`
	Scores     []ScoreEntry `json:"scores"`
	SoloMode   bool         `json:"soloMode"`
}

// Helper functions to convert between engine types and message types

func ScoresFromGame(scores []game.Score) []ScoreEntry {
	out := make([]ScoreEntry, len(scores))
	for i, sc := range scores {
		out[i] = ScoreEntry{
			Player: sc.Player.String(),
			Name:   sc.Player.DisplayName(),
			Points: sc.Points,
		}
	}
	return out
}

func SessionFromGame(sum game.Summary) SessionData {
	players := make([]PlayerInfo, len(sum.Players))
	for i, p := range sum.Players {
		players[i] = PlayerInfo{ID: p.String(), Name: p.DisplayName()}
	}

	return SessionData{
		Channel:       sum.Channel,
		Judge:         sum.Judge.String(),
		Players:       players,
		Phase:         sum.Phase,
		Round:         sum.Round,
		SoloMode:      sum.SoloMode,
		Prompt:        sum.Prompt,
		RequiredPicks: sum.RequiredPicks,
		Scores:        ScoresFromGame(sum.Scores),
	}
}

func RoundStartedFromGame(channel string, rs game.RoundStart) RoundStartedData {
	return RoundStartedData{
		Channel:       channel,
		Round:         rs.Round,
		RoundID:       rs.RoundID,
		Prompt:        rs.Prompt,
		RequiredPicks: rs.RequiredPicks,
		PlayerCount:   rs.PlayerCount,
		SoloMode:      rs.SoloMode,
	}
}

func RoundCompleteFromGame(r game.Reveal) RoundCompleteData {
	entries := make([]SubmissionEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = SubmissionEntry{
			Label:  e.Label,
			Player: e.Player.String(),
			Filled: e.Filled,
		}
	}

	return RoundCompleteData{
		Channel: r.Channel,
		Round:   r.Round,
		RoundID: r.RoundID,
		Prompt:  r.Prompt,
		Judge:   r.Judge.String(),
		Entries: entries,
	}
}

func RoundResolvedFromGame(res game.Resolution) RoundResolvedData {
	return RoundResolvedData{
		Channel:    res.Channel,
		Round:      res.Round,
		RoundID:    res.RoundID,
		Winner:     res.Winner.String(),
		WinnerName: res.Winner.DisplayName(),
		Filled:     res.Filled,
		Scores:     ScoresFromGame(res.Scores),
		SoloMode:   res.SoloMode,
	}
}
