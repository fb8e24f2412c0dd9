package combat

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cardline/internal/card"
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/ids"
)

// PlayResult describes a successful play.
type PlayResult struct {
	Card    card.Snapshot   // The card that was played
	Owner   ids.EntityID    // Unit that played it
	Target  ids.EntityID    // Unit it was played on
	Damage  int             // Damage dealt (0 for cards without damage)
	Killed  bool            // True if the target died from this play
	Burned  []card.Snapshot // Cards discarded to pay the cost, in removal order
	Message string          // Human-readable description
}

// BurnIndices returns the hand indices that would be discarded to pay for
// the card at playIndex: the highest indices first, never playIndex itself.
// It may return fewer than the card's cost; an out-of-range playIndex yields none.
func (f *Field) BurnIndices(playIndex int) []int {
	if playIndex < 0 || playIndex >= f.hand.Len() {
		return []int{}
	}

	cost := max(f.hand.At(playIndex).Cost(), 0)
	burn := make([]int, 0, min(cost, f.hand.Len()))
	for i := f.hand.Len() - 1; i >= 0 && len(burn) < cost; i-- {
		if i == playIndex {
			continue
		}
		burn = append(burn, i)
	}
	return burn
}

// PlayCard plays the hand card at playIndex against target.
//
// Validation happens before anything changes: index, burn fuel, owner,
// target, then range. Once validated the target takes the card's damage
// (which may kill and remove it), the played card and its burned cards move
// to the discard pile, and HandUpdated fires once.
func (f *Field) PlayCard(ctx context.Context, playIndex int, target ids.EntityID) (PlayResult, error) {
	_, span := f.tracer.Start(ctx, "battle.play")
	defer span.End()
	span.SetAttributes(
		f.battleAttr(),
		attribute.Int("hand.index", playIndex),
		attribute.Int("hand.size", f.hand.Len()),
		attribute.Int64("target.id", int64(target)),
	)

	if playIndex < 0 || playIndex >= f.hand.Len() {
		return PlayResult{}, fail(span, fmt.Errorf("play %d of %d: %w", playIndex, f.hand.Len(), ErrInvalidIndex))
	}

	played := f.hand.At(playIndex)
	log := f.log.WithFields(logrus.Fields{"card": played.Name(), "hand_index": playIndex})
	span.SetAttributes(
		attribute.String("card", played.Name()),
		attribute.Int("card.cost", played.Cost()),
	)

	burn := f.BurnIndices(playIndex)
	if len(burn) < played.Cost() {
		log.WithFields(logrus.Fields{"need": played.Cost(), "have": len(burn)}).Debug("not enough cards to burn")
		return PlayResult{}, fail(span, fmt.Errorf("play %s: need %d, have %d: %w",
			played.Name(), played.Cost(), len(burn), ErrInsufficientBurnFuel))
	}

	owner, ok := f.units[played.Owner()]
	if !ok {
		return PlayResult{}, fail(span, fmt.Errorf("play %s: owner %d: %w", played.Name(), played.Owner(), ErrOwnerNotFound))
	}

	victim, ok := f.units[target]
	if !ok {
		return PlayResult{}, fail(span, fmt.Errorf("play %s: target %d: %w", played.Name(), target, ErrTargetNotFound))
	}

	dist := ids.Distance(owner.Index(), victim.Index())
	span.SetAttributes(attribute.Int64("distance", dist))
	if !played.Reaches(dist) {
		log.WithFields(logrus.Fields{"distance": dist, "range": played.Range()}).Debug("target too far")
		return PlayResult{}, fail(span, fmt.Errorf("play %s: distance %d, range %d: %w",
			played.Name(), dist, played.Range(), ErrOutOfRange))
	}

	// Validated; nothing below can fail.
	result := PlayResult{
		Card:   played.Snapshot(),
		Owner:  owner.ID(),
		Target: victim.ID(),
	}

	if played.Damage() > 0 {
		result.Damage = victim.TakeDamage(played.Damage())
		result.Killed = !victim.IsAlive()
	}

	result.Burned = f.commitBurn(playIndex, burn)
	result.Message = describePlay(owner.Name, played.Name(), victim.Name, result)

	span.SetAttributes(
		attribute.Int("damage", result.Damage),
		attribute.Bool("killed", result.Killed),
		attribute.Int("burned", len(result.Burned)),
	)
	log.WithFields(logrus.Fields{
		"owner":  owner.ID(),
		"target": victim.ID(),
		"damage": result.Damage,
		"burned": len(result.Burned),
	}).Info(result.Message)

	f.bus.Publish(event.Event{Kind: event.HandUpdated})
	return result, nil
}

// commitBurn moves the played card and its fuel from hand to discard.
// Indices are removed highest first so earlier removals don't shift later ones.
func (f *Field) commitBurn(playIndex int, burn []int) []card.Snapshot {
	indices := append(slices.Clone(burn), playIndex)
	slices.Sort(indices)
	slices.Reverse(indices)

	burned := make([]card.Snapshot, 0, len(burn))
	for _, idx := range indices {
		c := f.hand.RemoveAt(idx)
		f.discard.Push(c)
		if idx != playIndex {
			burned = append(burned, c.Snapshot())
		}
	}
	return burned
}

func describePlay(owner, played, target string, r PlayResult) string {
	msg := owner + " plays " + played + " on " + target
	switch {
	case r.Killed:
		msg += " for " + strconv.Itoa(r.Damage) + " damage, defeating it"
	case r.Damage > 0:
		msg += " for " + strconv.Itoa(r.Damage) + " damage"
	}
	return msg + "."
}
