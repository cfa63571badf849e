package game

import "strings"

// DefaultBlankMarker is the token a prompt uses for each blank.
const DefaultBlankMarker = "{blank}"

// CountBlanks returns the number of blank markers in prompt.
func CountBlanks(prompt, marker string) int {
	if marker == "" {
		return 0
	}
	return strings.Count(prompt, marker)
}

// RequiredPicks returns how many answer cards a prompt asks for: its blank
// count, at least 1 and at most maxPicks.
func RequiredPicks(prompt, marker string, maxPicks int) int {
	return clamp(CountBlanks(prompt, marker), 1, max(1, maxPicks))
}

// Fill substitutes cards into the blanks of prompt in order. Blanks without a
// card are left as markers. Cards beyond the last blank are joined with
// spaces directly after the last filled blank, or after the prompt when it
// has no blanks at all.
func Fill(prompt, marker string, cards []string) string {
	if len(cards) == 0 {
		return prompt
	}
	if CountBlanks(prompt, marker) == 0 {
		return prompt + " " + strings.Join(cards, " ")
	}

	parts := strings.Split(prompt, marker)
	blanks := len(parts) - 1

	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i == blanks {
			break
		}
		if i >= len(cards) {
			b.WriteString(marker)
			continue
		}
		b.WriteString(cards[i])
		if i == blanks-1 && len(cards) > blanks {
			b.WriteString(" ")
			b.WriteString(strings.Join(cards[blanks:], " "))
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}
