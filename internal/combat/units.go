package combat

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cardline/internal/entity"
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/ids"
)

// SpawnUnit places a new unit at index and returns its id.
// On failure the returned id is null and nothing changes.
func (f *Field) SpawnUnit(ctx context.Context, maxHP int, faction entity.Faction, index ids.GridIndex) (ids.EntityID, error) {
	_, span := f.tracer.Start(ctx, "battle.spawn")
	defer span.End()
	span.SetAttributes(
		f.battleAttr(),
		attribute.Int("unit.max_hp", maxHP),
		attribute.String("unit.faction", faction.String()),
		attribute.Int64("grid.index", int64(index)),
	)

	if maxHP <= 0 {
		return ids.Null(), fail(span, fmt.Errorf("spawn at %d: %w (got %d)", index, ErrInvalidHP, maxHP))
	}
	if err := f.checkFree(index); err != nil {
		return ids.Null(), fail(span, fmt.Errorf("spawn: %w", err))
	}

	unit := entity.Spawn(ids.New(), maxHP, faction, index)
	f.place(unit)
	span.SetAttributes(attribute.Int64("unit.id", int64(unit.ID())))
	return unit.ID(), nil
}

// SpawnFromDef places a unit built from a content template.
func (f *Field) SpawnFromDef(ctx context.Context, def *gamedata.UnitDef, index ids.GridIndex) (ids.EntityID, error) {
	_, span := f.tracer.Start(ctx, "battle.spawn")
	defer span.End()

	if def == nil {
		span.SetAttributes(f.battleAttr())
		return ids.Null(), fail(span, fmt.Errorf("spawn at %d: nil template: %w", index, ErrInvalidUnit))
	}
	span.SetAttributes(
		f.battleAttr(),
		attribute.String("unit.def", def.ID),
		attribute.Int64("grid.index", int64(index)),
	)

	if def.HP <= 0 {
		return ids.Null(), fail(span, fmt.Errorf("spawn %s: %w (got %d)", def.ID, ErrInvalidHP, def.HP))
	}
	if err := f.checkFree(index); err != nil {
		return ids.Null(), fail(span, fmt.Errorf("spawn %s: %w", def.ID, err))
	}

	unit, err := entity.NewUnitFromDef(def, ids.New(), index)
	if err != nil {
		return ids.Null(), fail(span, fmt.Errorf("spawn %s: %w", def.ID, err))
	}
	f.place(unit)
	span.SetAttributes(attribute.Int64("unit.id", int64(unit.ID())))
	return unit.ID(), nil
}

func (f *Field) checkFree(index ids.GridIndex) error {
	if occupant, taken := f.grid[index]; taken {
		return fmt.Errorf("index %d held by unit %d: %w", index, occupant, ErrAlreadyOccupied)
	}
	return nil
}

// place registers a unit in both indices and announces it.
func (f *Field) place(unit *entity.Unit) {
	unit.SetNotifier(f.handleUnitEvent)
	f.units[unit.ID()] = unit
	f.grid[unit.Index()] = unit.ID()

	f.log.WithFields(logrus.Fields{
		"unit":    unit.ID(),
		"name":    unit.Name,
		"faction": unit.Faction(),
		"index":   unit.Index(),
	}).Debug("unit spawned")

	f.bus.Publish(event.Event{Kind: event.UnitSpawned, Unit: unit.ID(), Index: unit.Index()})
	unit.AnnounceHP()
}

// MoveUnit moves a live unit to a free cell.
// Moving a unit onto the cell it already holds succeeds without a notification.
func (f *Field) MoveUnit(ctx context.Context, id ids.EntityID, to ids.GridIndex) error {
	_, span := f.tracer.Start(ctx, "battle.move")
	defer span.End()
	span.SetAttributes(
		f.battleAttr(),
		attribute.Int64("unit.id", int64(id)),
		attribute.Int64("grid.to", int64(to)),
	)

	unit, ok := f.units[id]
	if !ok {
		return fail(span, fmt.Errorf("move unit %d: %w", id, ErrNotFound))
	}

	from := unit.Index()
	span.SetAttributes(attribute.Int64("grid.from", int64(from)))
	if from == to {
		return nil
	}
	if err := f.checkFree(to); err != nil {
		return fail(span, fmt.Errorf("move unit %d: %w", id, err))
	}

	delete(f.grid, from)
	f.grid[to] = id
	unit.MoveTo(to)
	return nil
}

// SetFaction changes a live unit's side.
func (f *Field) SetFaction(id ids.EntityID, faction entity.Faction) error {
	unit, ok := f.units[id]
	if !ok {
		return fmt.Errorf("set faction of unit %d: %w", id, ErrNotFound)
	}
	unit.SetFaction(faction)
	return nil
}

// RemoveUnit takes a unit off the field. Removing an absent unit is a no-op.
func (f *Field) RemoveUnit(id ids.EntityID) {
	unit, ok := f.detach(id)
	if !ok {
		return
	}
	f.log.WithField("unit", id).Debug("unit removed")
	f.bus.Publish(event.Event{Kind: event.UnitRemoved, Unit: id, Index: unit.Index()})
}

// Clear removes every unit, in grid order.
func (f *Field) Clear() {
	for _, idx := range f.occupiedIndices() {
		f.RemoveUnit(f.grid[idx])
	}
}

// detach drops a unit from both indices without publishing anything.
func (f *Field) detach(id ids.EntityID) (*entity.Unit, bool) {
	unit, ok := f.units[id]
	if !ok {
		return nil, false
	}
	delete(f.units, id)
	if f.grid[unit.Index()] == id {
		delete(f.grid, unit.Index())
	}
	unit.SetNotifier(nil)
	return unit, true
}

func (f *Field) occupiedIndices() []ids.GridIndex {
	indices := make([]ids.GridIndex, 0, len(f.grid))
	for idx := range f.grid {
		indices = append(indices, idx)
	}
	slices.Sort(indices)
	return indices
}

// Unit returns a snapshot of a live unit.
func (f *Field) Unit(id ids.EntityID) (entity.Snapshot, bool) {
	unit, ok := f.units[id]
	if !ok {
		return entity.Snapshot{}, false
	}
	return unit.Snapshot(), true
}

// UnitAt returns a snapshot of the unit standing at index.
func (f *Field) UnitAt(index ids.GridIndex) (entity.Snapshot, bool) {
	id, ok := f.grid[index]
	if !ok {
		return entity.Snapshot{}, false
	}
	return f.units[id].Snapshot(), true
}

// Units returns snapshots of every live unit ordered by grid index.
func (f *Field) Units() []entity.Snapshot {
	out := make([]entity.Snapshot, 0, len(f.units))
	for _, idx := range f.occupiedIndices() {
		out = append(out, f.units[f.grid[idx]].Snapshot())
	}
	return out
}

// UnitCount returns the number of live units.
func (f *Field) UnitCount() int {
	return len(f.units)
}
