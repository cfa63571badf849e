package server

import (
	"errors"
	"fmt"

	"github.com/lox/fillblanks/internal/game"
)

var (
	errInvalidMessage = errors.New("invalid message")
	errUnknownType    = errors.New("unknown message type")
)

// errorCode maps an action error onto the code sent to clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, errInvalidMessage), errors.Is(err, errUnknownType):
		return "invalid_message"
	default:
		return game.ErrorCode(err)
	}
}

// dispatch executes one authenticated action and returns the private reply,
// if any. Actions whose outcome is broadcast to the channel return nil.
func (s *Server) dispatch(player game.PlayerID, msg *Message) (*Message, error) {
	switch msg.Type {
	case MessageTypeReset:
		return s.handleReset(player, msg)
	case MessageTypeSetSolo:
		return s.handleSetSolo(player, msg)
	case MessageTypeJoin:
		return s.handleJoin(player, msg)
	case MessageTypeLeave:
		return s.handleLeave(player, msg)
	case MessageTypeGetHand:
		return s.handleGetHand(player, msg)
	case MessageTypeStartRound:
		return s.handleStartRound(player, msg)
	case MessageTypeSubmit:
		return s.handleSubmit(player, msg)
	case MessageTypeJudgePick:
		return s.handleJudgePick(player, msg)
	case MessageTypeGetScores:
		return s.handleGetScores(msg)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownType, msg.Type)
	}
}

func decodeChannel(msg *Message) (string, error) {
	var data ChannelData
	if err := msg.Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidMessage, err)
	}
	if data.Channel == "" {
		return "", fmt.Errorf("%w: channel is required", errInvalidMessage)
	}
	return data.Channel, nil
}

// existing resolves the session of an action that makes no sense in a channel
// that has never been used.
func (s *Server) existing(channel string) (*game.Session, error) {
	sess, ok := s.registry.Lookup(channel)
	if !ok {
		return nil, fmt.Errorf("%w: no game in channel %s", game.ErrNotFound, channel)
	}
	return sess, nil
}

func (s *Server) handleReset(player game.PlayerID, msg *Message) (*Message, error) {
	channel, err := decodeChannel(msg)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Ensure(channel).Reset(player); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleSetSolo(player game.PlayerID, msg *Message) (*Message, error) {
	var data SetSoloData
	if err := msg.Decode(&data); err != nil || data.Channel == "" {
		return nil, fmt.Errorf("%w: set_solo needs a channel", errInvalidMessage)
	}

	sess, err := s.existing(data.Channel)
	if err != nil {
		return nil, err
	}
	on, err := sess.SetSoloMode(player, data.On)
	if err != nil {
		return nil, err
	}
	return NewMessage(MessageTypeSoloMode, SoloModeData{Channel: data.Channel, On: on}, s.clock.Now())
}

func (s *Server) handleJoin(player game.PlayerID, msg *Message) (*Message, error) {
	channel, err := decodeChannel(msg)
	if err != nil {
		return nil, err
	}
	hand, err := s.registry.Ensure(channel).Join(player)
	if err != nil {
		return nil, err
	}
	return NewMessage(MessageTypeHand, HandData{Channel: channel, Cards: hand}, s.clock.Now())
}

func (s *Server) handleLeave(player game.PlayerID, msg *Message) (*Message, error) {
	channel, err := decodeChannel(msg)
	if err != nil {
		return nil, err
	}
	if sess, ok := s.registry.Lookup(channel); ok {
		if err := sess.Leave(player); err != nil {
			return nil, err
		}
	}
	return NewMessage(MessageTypeLeft, LeftData{Channel: channel}, s.clock.Now())
}

func (s *Server) handleGetHand(player game.PlayerID, msg *Message) (*Message, error) {
	channel, err := decodeChannel(msg)
	if err != nil {
		return nil, err
	}
	sess, err := s.existing(channel)
	if err != nil {
		return nil, err
	}
	hand, err := sess.Hand(player)
	if err != nil {
		return nil, err
	}
	return NewMessage(MessageTypeHand, HandData{Channel: channel, Cards: hand}, s.clock.Now())
}

func (s *Server) handleStartRound(player game.PlayerID, msg *Message) (*Message, error) {
	channel, err := decodeChannel(msg)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Ensure(channel).StartRound(player); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleSubmit(player game.PlayerID, msg *Message) (*Message, error) {
	var data SubmitData
	if err := msg.Decode(&data); err != nil || data.Channel == "" {
		return nil, fmt.Errorf("%w: submit needs a channel and card indices", errInvalidMessage)
	}
	sess, err := s.existing(data.Channel)
	if err != nil {
		return nil, err
	}

	res, err := sess.Submit(player, data.RoundID, data.Indices)
	if err != nil {
		return nil, err
	}
	return NewMessage(MessageTypeSubmitted, SubmittedData{
		Channel:  data.Channel,
		Round:    res.Round,
		Filled:   res.Filled,
		Complete: res.Complete,
		Hand:     res.Hand,
	}, s.clock.Now())
}

func (s *Server) handleJudgePick(player game.PlayerID, msg *Message) (*Message, error) {
	var data JudgePickData
	if err := msg.Decode(&data); err != nil || data.Channel == "" || data.Winner == "" {
		return nil, fmt.Errorf("%w: judge_pick needs a channel and a winner", errInvalidMessage)
	}
	winner, err := game.ParsePlayerID(data.Winner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidMessage, err)
	}
	sess, err := s.existing(data.Channel)
	if err != nil {
		return nil, err
	}

	if _, err := sess.JudgePick(player, data.RoundID, winner); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleGetScores(msg *Message) (*Message, error) {
	channel, err := decodeChannel(msg)
	if err != nil {
		return nil, err
	}

	scores := []ScoreEntry{}
	if sess, ok := s.registry.Lookup(channel); ok {
		scores = ScoresFromGame(sess.Scores())
	}
	return NewMessage(MessageTypeScores, ScoresData{Channel: channel, Scores: scores}, s.clock.Now())
}
