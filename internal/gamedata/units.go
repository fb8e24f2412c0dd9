package gamedata

import "fmt"

// UnitDef defines a unit template loaded from content files.
type UnitDef struct {
	ID           string `json:"id" yaml:"id"`                           // Unique identifier (e.g., "squire")
	Name         string `json:"name" yaml:"name"`                       // Display name (e.g., "Squire")
	HP           int    `json:"hp" yaml:"hp"`                           // Maximum hit points
	ActionPoints int    `json:"actionPoints" yaml:"actionPoints"`       // Actions available per turn
	Faction      string `json:"faction" yaml:"faction"`                 // "player" or "enemy"
	Glyph        string `json:"glyph,omitempty" yaml:"glyph,omitempty"` // Single character for the host's display
	Color        string `json:"color,omitempty" yaml:"color,omitempty"` // Hex colour for the host's display
}

// Validate reports the first invariant the definition breaks.
func (u *UnitDef) Validate() error {
	switch {
	case u.ID == "":
		return fmt.Errorf("unit %q: missing id", u.Name)
	case u.HP <= 0:
		return fmt.Errorf("unit %q: hp must be positive, got %d", u.ID, u.HP)
	case u.ActionPoints < 0:
		return fmt.Errorf("unit %q: negative action points %d", u.ID, u.ActionPoints)
	case u.Faction != "player" && u.Faction != "enemy":
		return fmt.Errorf("unit %q: unknown faction %q", u.ID, u.Faction)
	}
	if u.Color != "" {
		if _, err := ParseHexColor(u.Color); err != nil {
			return fmt.Errorf("unit %q: %w", u.ID, err)
		}
	}
	return nil
}

// GlyphRune returns the glyph as a rune for display.
func (u *UnitDef) GlyphRune() rune {
	if len(u.Glyph) == 0 {
		return '?'
	}
	return rune(u.Glyph[0])
}

// UnitsFile represents the structure of units.json.
type UnitsFile struct {
	Units []UnitDef `json:"units" yaml:"units"`
}

// LoadUnits loads unit definitions from the embedded units.json file.
func LoadUnits() ([]UnitDef, error) {
	file, err := Load[UnitsFile]("units.json")
	if err != nil {
		return nil, err
	}
	return file.Units, nil
}
