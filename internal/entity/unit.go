package entity

import (
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/ids"
)

// Unit is a combatant on the battle line.
//
// A unit never removes itself from anything. When its HP crosses zero it
// reports Died through its notifier and whoever owns it cleans up.
type Unit struct {
	Def          *gamedata.UnitDef // Template the unit was built from (nil for ad-hoc units)
	Name         string            // Display name
	ActionPoints int               // Actions per turn, carried for the host

	id      ids.EntityID
	hp      int
	maxHP   int
	faction Faction
	index   ids.GridIndex
	dead    bool
	notify  event.Handler
}

// Spawn creates a unit at full health.
func Spawn(id ids.EntityID, maxHP int, faction Faction, index ids.GridIndex) *Unit {
	return &Unit{
		Name:    faction.String(),
		id:      id,
		hp:      maxHP,
		maxHP:   maxHP,
		faction: faction,
		index:   index,
	}
}

// NewUnitFromDef creates a unit from a data-driven template.
func NewUnitFromDef(def *gamedata.UnitDef, id ids.EntityID, index ids.GridIndex) (*Unit, error) {
	faction, err := ParseFaction(def.Faction)
	if err != nil {
		return nil, err
	}
	u := Spawn(id, def.HP, faction, index)
	u.Def = def
	u.Name = def.Name
	u.ActionPoints = def.ActionPoints
	return u, nil
}

// SetNotifier routes the unit's notifications to h.
func (u *Unit) SetNotifier(h event.Handler) {
	u.notify = h
}

func (u *Unit) emit(e event.Event) {
	if u.notify != nil {
		u.notify(e)
	}
}

// ID returns the unit's entity id.
func (u *Unit) ID() ids.EntityID { return u.id }

// HP returns current hit points. It may be negative after a lethal hit.
func (u *Unit) HP() int { return u.hp }

// MaxHP returns maximum hit points.
func (u *Unit) MaxHP() int { return u.maxHP }

// Faction returns the unit's side.
func (u *Unit) Faction() Faction { return u.faction }

// Index returns the unit's grid index.
func (u *Unit) Index() ids.GridIndex { return u.index }

// IsAlive returns true if the unit has HP remaining.
func (u *Unit) IsAlive() bool { return u.hp > 0 }

// TakeDamage subtracts amount from HP without a floor and returns the amount applied.
// HPChanged is always reported; Died is reported the first time HP reaches zero or below.
func (u *Unit) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	u.hp -= amount

	u.emit(event.Event{Kind: event.HPChanged, Unit: u.id, HP: u.hp, MaxHP: u.maxHP})

	if u.hp <= 0 && !u.dead {
		u.dead = true
		u.emit(event.Event{Kind: event.Died, Unit: u.id})
	}
	return amount
}

// SetFaction changes the unit's side.
func (u *Unit) SetFaction(f Faction) {
	u.faction = f
}

// MoveTo records a new grid index and reports PositionChanged.
// The caller keeps any occupancy index in step before calling it.
func (u *Unit) MoveTo(index ids.GridIndex) {
	u.index = index
	u.emit(event.Event{Kind: event.PositionChanged, Unit: u.id, Index: index})
}

// AnnounceHP reports the current HP without changing it, so a host can
// initialise its display right after a spawn.
func (u *Unit) AnnounceHP() {
	u.emit(event.Event{Kind: event.HPChanged, Unit: u.id, HP: u.hp, MaxHP: u.maxHP})
}

// Snapshot is a read-only copy of a unit's state.
type Snapshot struct {
	ID           ids.EntityID
	Name         string
	HP           int
	MaxHP        int
	ActionPoints int
	Faction      Faction
	Index        ids.GridIndex
}

// Snapshot copies the unit's current state.
func (u *Unit) Snapshot() Snapshot {
	return Snapshot{
		ID:           u.id,
		Name:         u.Name,
		HP:           u.hp,
		MaxHP:        u.maxHP,
		ActionPoints: u.ActionPoints,
		Faction:      u.faction,
		Index:        u.index,
	}
}
