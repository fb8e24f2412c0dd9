package combat

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cardline/internal/card"
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/ids"
)

// DeckEntry is one card slot of a starting deck.
type DeckEntry struct {
	Def   *gamedata.CardDef
	Owner ids.EntityID
}

// InitializeDeck throws away every card in the deck, hand and discard pile,
// builds one instance per entry in order and shuffles them into the deck.
// Definitions must be non-nil with no negative cost, damage or range.
// Owners are not checked here; a card whose owner is gone fails at play time.
func (f *Field) InitializeDeck(ctx context.Context, entries []DeckEntry) error {
	_, span := f.tracer.Start(ctx, "battle.deck.init")
	defer span.End()
	span.SetAttributes(f.battleAttr(), attribute.Int("deck.size", len(entries)))

	for i, e := range entries {
		if e.Def == nil {
			return fail(span, fmt.Errorf("deck slot %d: %w", i, ErrInvalidCard))
		}
		if e.Def.Cost < 0 || e.Def.Damage < 0 || e.Def.Range < 0 {
			return fail(span, fmt.Errorf("deck slot %d (%s): cost %d, damage %d, range %d: %w",
				i, e.Def.Name, e.Def.Cost, e.Def.Damage, e.Def.Range, ErrInvalidCard))
		}
	}

	handHadCards := !f.hand.IsEmpty()
	f.deck.Drain()
	f.hand.Drain()
	f.discard.Drain()

	for _, e := range entries {
		f.deck.Push(card.FromDefinition(e.Def, e.Owner))
	}
	f.ShuffleDeck()

	f.log.WithField("cards", len(entries)).Debug("deck initialized")
	if handHadCards {
		f.bus.Publish(event.Event{Kind: event.HandUpdated})
	}
	return nil
}

// ShuffleDeck puts the deck in a uniformly random order.
func (f *Field) ShuffleDeck() {
	f.deck.Shuffle(f.rng)
}

// DrawCard moves the top card of the deck into the hand and reports whether
// a card was drawn. An empty deck is first refilled from the discard pile;
// with both empty nothing happens.
func (f *Field) DrawCard(ctx context.Context) bool {
	_, span := f.tracer.Start(ctx, "battle.draw")
	defer span.End()
	span.SetAttributes(f.battleAttr())

	if f.deck.IsEmpty() {
		if f.discard.IsEmpty() {
			f.log.Debug("no cards left to draw")
			span.SetAttributes(attribute.Bool("drawn", false))
			return false
		}
		f.recycle()
		span.SetAttributes(attribute.Bool("recycled", true))
	}

	c := f.deck.PopBack()
	if c == nil {
		span.SetAttributes(attribute.Bool("drawn", false))
		return false
	}
	f.hand.Push(c)
	span.SetAttributes(
		attribute.Bool("drawn", true),
		attribute.String("card", c.Name()),
		attribute.Int("hand.size", f.hand.Len()),
	)

	f.bus.Publish(event.Event{Kind: event.HandUpdated})
	return true
}

// DrawCards draws up to n cards and returns how many were drawn.
func (f *Field) DrawCards(ctx context.Context, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if !f.DrawCard(ctx) {
			break
		}
		drawn++
	}
	return drawn
}

// recycle shuffles the whole discard pile back into the deck.
func (f *Field) recycle() {
	recycled := f.discard.Drain()
	f.deck.Push(recycled...)
	f.ShuffleDeck()

	f.log.WithField("cards", len(recycled)).Debug("discard pile recycled into deck")
	f.bus.Publish(event.Event{Kind: event.DeckRecycled})
}

// Hand returns snapshots of the hand in order.
func (f *Field) Hand() []card.Snapshot {
	return f.hand.Snapshot()
}

// DiscardPile returns snapshots of the discard pile in order, oldest first.
func (f *Field) DiscardPile() []card.Snapshot {
	return f.discard.Snapshot()
}

// DeckSize returns the number of cards left to draw.
func (f *Field) DeckSize() int { return f.deck.Len() }

// HandSize returns the number of cards in hand.
func (f *Field) HandSize() int { return f.hand.Len() }

// DiscardSize returns the number of cards in the discard pile.
func (f *Field) DiscardSize() int { return f.discard.Len() }

// CardCount returns the number of card instances across all piles.
func (f *Field) CardCount() int {
	return f.deck.Len() + f.hand.Len() + f.discard.Len()
}
