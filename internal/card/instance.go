// Package card holds per-battle card instances and the piles that own them.
package card

import (
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/ids"
)

// Instance is one physical card in a battle. Its gameplay values are copied
// from the definition when the instance is built; Def is kept for display.
type Instance struct {
	def    *gamedata.CardDef
	owner  ids.EntityID
	name   string
	cost   int
	damage int
	rng    int
}

// FromDefinition snapshots def for a card owned by owner.
func FromDefinition(def *gamedata.CardDef, owner ids.EntityID) *Instance {
	return &Instance{
		def:    def,
		owner:  owner,
		name:   def.Name,
		cost:   def.Cost,
		damage: def.Damage,
		rng:    def.Range,
	}
}

// Def returns the definition the instance was built from.
func (c *Instance) Def() *gamedata.CardDef { return c.def }

// Owner returns the unit that plays this card.
func (c *Instance) Owner() ids.EntityID { return c.owner }

// Name returns the snapshotted name.
func (c *Instance) Name() string { return c.name }

// Cost returns how many other hand cards must be burned to play it.
func (c *Instance) Cost() int { return c.cost }

// Damage returns the damage dealt to the target; 0 means none.
func (c *Instance) Damage() int { return c.damage }

// Range returns the maximum distance to the target; 0 means unlimited.
func (c *Instance) Range() int { return c.rng }

// Reaches reports whether a target at distance is within range.
func (c *Instance) Reaches(distance int64) bool {
	return c.rng == 0 || distance <= int64(c.rng)
}

// Snapshot is a read-only view of an instance for hosts.
type Snapshot struct {
	ID     string // Definition id
	Name   string
	Owner  ids.EntityID
	Cost   int
	Damage int
	Range  int
}

// Snapshot copies the instance's values.
func (c *Instance) Snapshot() Snapshot {
	s := Snapshot{
		Name:   c.name,
		Owner:  c.owner,
		Cost:   c.cost,
		Damage: c.damage,
		Range:  c.rng,
	}
	if c.def != nil {
		s.ID = c.def.ID
	}
	return s
}
