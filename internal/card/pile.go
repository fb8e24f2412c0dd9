package card

import "math/rand"

// Pile is an ordered stack of instances. The back of the slice is the top.
type Pile struct {
	cards []*Instance
}

// Len returns the number of cards in the pile.
func (p *Pile) Len() int { return len(p.cards) }

// IsEmpty returns true if the pile holds no cards.
func (p *Pile) IsEmpty() bool { return len(p.cards) == 0 }

// At returns the card at index i. It panics when i is out of range.
func (p *Pile) At(i int) *Instance { return p.cards[i] }

// Push appends cards to the back of the pile.
func (p *Pile) Push(cards ...*Instance) {
	p.cards = append(p.cards, cards...)
}

// PopBack removes and returns the card at the back, or nil if the pile is empty.
func (p *Pile) PopBack() *Instance {
	if len(p.cards) == 0 {
		return nil
	}
	last := len(p.cards) - 1
	c := p.cards[last]
	p.cards[last] = nil
	p.cards = p.cards[:last]
	return c
}

// RemoveAt removes and returns the card at index i, shifting later cards down.
// It returns nil if i is out of range.
func (p *Pile) RemoveAt(i int) *Instance {
	if i < 0 || i >= len(p.cards) {
		return nil
	}
	c := p.cards[i]
	copy(p.cards[i:], p.cards[i+1:])
	p.cards[len(p.cards)-1] = nil
	p.cards = p.cards[:len(p.cards)-1]
	return c
}

// Drain empties the pile and returns its cards in order.
func (p *Pile) Drain() []*Instance {
	cards := p.cards
	p.cards = nil
	return cards
}

// Shuffle permutes the pile uniformly using rng.
func (p *Pile) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.cards), func(i, j int) {
		p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
	})
}

// Snapshot returns read-only copies of the pile's cards in order.
func (p *Pile) Snapshot() []Snapshot {
	out := make([]Snapshot, len(p.cards))
	for i, c := range p.cards {
		out[i] = c.Snapshot()
	}
	return out
}
