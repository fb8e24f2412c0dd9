// Package event carries state-change notifications from the battle core to its host.
package event

import "github.com/samdwyer/cardline/internal/ids"

// Kind identifies what changed.
type Kind int

const (
	// HPChanged fires whenever a unit's hit points change.
	HPChanged Kind = iota
	// Died fires once when a unit's HP drops to zero or below.
	Died
	// PositionChanged fires after a unit moved to a new grid index.
	PositionChanged
	// HandUpdated fires after a card entered or left the hand.
	HandUpdated
	// UnitSpawned fires after a unit was placed on the field.
	UnitSpawned
	// UnitRemoved fires after a unit left the field for any reason.
	UnitRemoved
	// DeckRecycled fires when the discard pile was shuffled back into the deck.
	DeckRecycled
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case HPChanged:
		return "hp_changed"
	case Died:
		return "died"
	case PositionChanged:
		return "position_changed"
	case HandUpdated:
		return "hand_updated"
	case UnitSpawned:
		return "unit_spawned"
	case UnitRemoved:
		return "unit_removed"
	case DeckRecycled:
		return "deck_recycled"
	default:
		return "unknown"
	}
}

// Event is a single notification. Fields that don't apply to a kind are zero.
type Event struct {
	Kind  Kind
	Unit  ids.EntityID  // Unit the event is about (null for hand/deck events)
	HP    int           // HPChanged: new hit points
	MaxHP int           // HPChanged: maximum hit points
	Index ids.GridIndex // PositionChanged, UnitSpawned: grid index
}

// Handler receives notifications.
type Handler func(Event)
