// Package entity provides the units that stand on the battle line.
package entity

import "fmt"

// Faction is the side a unit fights for.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// String returns the faction name as used in content files.
func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// ParseFaction converts a content-file faction name.
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "player":
		return FactionPlayer, nil
	case "enemy":
		return FactionEnemy, nil
	default:
		return FactionPlayer, fmt.Errorf("unknown faction %q", s)
	}
}

// Opposes returns true if f and other are on different sides.
func (f Faction) Opposes(other Faction) bool {
	return f != other
}
