package gamedata

import "fmt"

// DefaultCardName is used for cards authored without a name.
const DefaultCardName = "New Card"

// CardDef defines a card template loaded from content files.
// Definitions are shared by every instance built from them and are never
// mutated once the catalog is loaded.
type CardDef struct {
	ID          string `json:"id" yaml:"id"`                                       // Unique identifier (e.g., "spark")
	Name        string `json:"name" yaml:"name"`                                   // Display name (e.g., "Spark")
	Description string `json:"description,omitempty" yaml:"description,omitempty"` // Flavour text for the host
	Cost        int    `json:"cost" yaml:"cost"`                                   // Other hand cards burned to play it
	Damage      int    `json:"damage" yaml:"damage"`                               // 0 means no direct damage
	Range       int    `json:"range" yaml:"range"`                                 // 0 means unlimited reach
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`             // Hex colour for presentation
}

// ApplyDefaults fills in a missing name. Cost and range stay as written
// since a decoded 0 is indistinguishable from an absent field.
func (c *CardDef) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultCardName
	}
}

// Validate reports the first invariant the definition breaks.
func (c *CardDef) Validate() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("card %q: missing id", c.Name)
	case c.Cost < 0:
		return fmt.Errorf("card %q: negative cost %d", c.ID, c.Cost)
	case c.Damage < 0:
		return fmt.Errorf("card %q: negative damage %d", c.ID, c.Damage)
	case c.Range < 0:
		return fmt.Errorf("card %q: negative range %d", c.ID, c.Range)
	}
	if c.Color != "" {
		if _, err := ParseHexColor(c.Color); err != nil {
			return fmt.Errorf("card %q: %w", c.ID, err)
		}
	}
	return nil
}

// IsGlobal returns true if the card can reach any target.
func (c *CardDef) IsGlobal() bool {
	return c.Range == 0
}

// CardsFile represents the structure of cards.json.
type CardsFile struct {
	Cards []CardDef `json:"cards" yaml:"cards"`
}

// LoadCards loads card definitions from the embedded cards.json file.
func LoadCards() ([]CardDef, error) {
	file, err := Load[CardsFile]("cards.json")
	if err != nil {
		return nil, err
	}
	return file.Cards, nil
}
