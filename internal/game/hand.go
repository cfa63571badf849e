package game

import (
	"fmt"

	"github.com/lox/fillblanks/internal/deck"
)

// replenish draws from pile one card at a time until hand holds target
// cards. An empty pile is reshuffled from its source; the loop only stops
// short when the source itself is empty.
func replenish(hand []string, pile *deck.Pile, target int) []string {
	for len(hand) < target {
		drawn := pile.Draw(1)
		if len(drawn) == 0 {
			pile.Reshuffle()
			drawn = pile.Draw(1)
			if len(drawn) == 0 {
				break
			}
		}
		hand = append(hand, drawn[0])
	}
	return hand
}

// takeCards removes the cards at indices from hand. Chosen cards come back in
// the order the indices were given; the rest keep their original order.
func takeCards(hand []string, indices []int) (chosen, rest []string, err error) {
	if err := checkPicks(len(hand), indices); err != nil {
		return nil, nil, err
	}
	picked := make(map[int]bool, len(indices))
	chosen = make([]string, 0, len(indices))
	for _, idx := range indices {
		picked[idx] = true
		chosen = append(chosen, hand[idx])
	}

	rest = make([]string, 0, len(hand)-len(chosen))
	for i, card := range hand {
		if !picked[i] {
			rest = append(rest, card)
		}
	}
	return chosen, rest, nil
}

// checkPicks validates indices against a hand of size cards: each must be in
// range and none may repeat.
func checkPicks(size int, indices []int) error {
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= size {
			return fmt.Errorf("%w: card %d is not in your hand", ErrPreconditionFailed, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: card %d chosen twice", ErrPreconditionFailed, idx)
		}
		seen[idx] = true
	}
	return nil
}
