package render

import (
	"fmt"
	"strings"

	"github.com/lox/fillblanks/internal/server"
)

// Message formats any message received from the gateway. Unknown types
// render as an empty string.
func (r *Renderer) Message(msg *server.Message) string {
	switch msg.Type {
	case server.MessageTypeSessionReset:
		return decodeAnd(msg, r.SessionReset)
	case server.MessageTypeRoundStarted:
		return decodeAnd(msg, r.RoundStarted)
	case server.MessageTypeRoundComplete:
		return decodeAnd(msg, r.RoundComplete)
	case server.MessageTypeRoundResolved:
		return decodeAnd(msg, r.RoundResolved)
	case server.MessageTypeHand:
		return decodeAnd(msg, func(d server.HandData) string { return r.Hand(d.Cards) })
	case server.MessageTypeSubmitted:
		return decodeAnd(msg, r.Submitted)
	case server.MessageTypeScores:
		return decodeAnd(msg, func(d server.ScoresData) string { return r.Scores(d.Scores) })
	case server.MessageTypeSoloMode:
		return decodeAnd(msg, r.SoloMode)
	case server.MessageTypeLeft:
		return decodeAnd(msg, func(d server.LeftData) string {
			return r.styles.Info.Render("You left " + d.Channel + ".")
		})
	case server.MessageTypeError:
		return decodeAnd(msg, func(d server.ErrorData) string { return r.Error(d.Code, d.Message) })
	default:
		return ""
	}
}

func decodeAnd[T any](msg *server.Message, format func(T) string) string {
	var data T
	if err := msg.Decode(&data); err != nil {
		return fmt.Sprintf("unreadable %s message: %v", msg.Type, err)
	}
	return format(data)
}

// Hand lists cards numbered from 1.
func (r *Renderer) Hand(cards []string) string {
	if len(cards) == 0 {
		return r.styles.Info.Render("Your hand is empty.")
	}

	var b strings.Builder
	b.WriteString(r.styles.Header.Render(" Your hand "))
	for i, card := range cards {
		fmt.Fprintf(&b, "\n%s %s", r.styles.Label.Render(fmt.Sprintf("%2d.", i+1)), r.styles.Answer.Render(card))
	}
	return b.String()
}

func (r *Renderer) SessionReset(d server.SessionData) string {
	return fmt.Sprintf("%s %s is judging in %s.",
		r.styles.Header.Render(" New game "),
		r.styles.Player.Render(d.Judge),
		d.Channel)
}

func (r *Renderer) RoundStarted(d server.RoundStartedData) string {
	picks := "Pick 1 card."
	if d.RequiredPicks > 1 {
		picks = fmt.Sprintf("Pick %d cards.", d.RequiredPicks)
	}
	mode := ""
	if d.SoloMode {
		mode = " " + r.styles.Info.Render("(solo)")
	}
	return fmt.Sprintf("%s%s\n%s\n%s",
		r.styles.Header.Render(fmt.Sprintf(" Round %d ", d.Round)),
		mode,
		r.styles.Prompt.Render(d.Prompt),
		r.styles.Info.Render(picks))
}

func (r *Renderer) RoundComplete(d server.RoundCompleteData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n%s",
		r.styles.Header.Render(fmt.Sprintf(" Round %d answers ", d.Round)),
		r.styles.Info.Render(d.Judge+" picks the winner"),
		r.styles.Prompt.Render(d.Prompt))
	for _, e := range d.Entries {
		fmt.Fprintf(&b, "\n%s %s", r.styles.Label.Render(e.Label+")"), r.styles.Answer.Render(e.Filled))
	}
	return b.String()
}

func (r *Renderer) RoundResolved(d server.RoundResolvedData) string {
	return fmt.Sprintf("%s %s\n%s\n%s",
		r.styles.Winner.Render(d.WinnerName),
		r.styles.Success.Render(fmt.Sprintf("wins round %d!", d.Round)),
		r.styles.Answer.Render(d.Filled),
		r.Scores(d.Scores))
}

func (r *Renderer) Submitted(d server.SubmittedData) string {
	out := r.styles.Success.Render("Submitted: ") + r.styles.Answer.Render(d.Filled)
	if d.Complete {
		out += "\n" + r.styles.Info.Render("All answers are in.")
	}
	return out
}

func (r *Renderer) SoloMode(d server.SoloModeData) string {
	if d.On {
		return r.styles.Success.Render("Solo mode on in " + d.Channel + ".")
	}
	return r.styles.Info.Render("Solo mode off in " + d.Channel + ".")
}

// Scores renders the score table with the leader first.
func (r *Renderer) Scores(scores []server.ScoreEntry) string {
	if len(scores) == 0 {
		return r.styles.Info.Render("No scores yet.")
	}

	width := 0
	for _, sc := range scores {
		width = max(width, len(sc.Name))
	}

	var b strings.Builder
	b.WriteString(r.styles.Header.Render(" Scores "))
	for _, sc := range scores {
		fmt.Fprintf(&b, "\n%s %d", r.styles.Player.Render(fmt.Sprintf("%-*s", width, sc.Name)), sc.Points)
	}
	return b.String()
}

func (r *Renderer) Error(code, message string) string {
	return r.styles.Error.Render(fmt.Sprintf("Error (%s): %s", code, message))
}
