package deck

import (
	rand "math/rand/v2"
)

// Pile is an ordered stack of card texts drawn from its tail. A pile keeps
// the full source list it was built from so it can be reshuffled in place
// once exhausted.
type Pile struct {
	cards  []string
	source []string
	rng    *rand.Rand
}

// Shuffle returns a copy of source in uniformly random order (Fisher-Yates).
func Shuffle(rng *rand.Rand, source []string) []string {
	out := make([]string, len(source))
	copy(out, source)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NewPile creates a shuffled pile over source.
func NewPile(source []string, rng *rand.Rand) *Pile {
	src := make([]string, len(source))
	copy(src, source)
	return &Pile{
		cards:  Shuffle(rng, src),
		source: src,
		rng:    rng,
	}
}

// Draw removes up to n cards from the end of the pile. It never reshuffles;
// callers that need a full draw call Reshuffle when fewer than n come back.
func (p *Pile) Draw(n int) []string {
	if n > len(p.cards) {
		n = len(p.cards)
	}
	if n <= 0 {
		return nil
	}

	out := make([]string, 0, n)
	for range n {
		last := len(p.cards) - 1
		out = append(out, p.cards[last])
		p.cards = p.cards[:last]
	}
	return out
}

// Reshuffle replaces the remaining cards with a fresh shuffle of the source.
func (p *Pile) Reshuffle() {
	p.cards = Shuffle(p.rng, p.source)
}

// Len returns the number of cards left in the pile.
func (p *Pile) Len() int {
	return len(p.cards)
}

// SourceLen returns the size of the source deck the pile refills from.
func (p *Pile) SourceLen() int {
	return len(p.source)
}

// IsEmpty returns true if the pile has no cards left
func (p *Pile) IsEmpty() bool {
	return len(p.cards) == 0
}
