package gamedata

import (
	"errors"
	"fmt"
)

// CardRegistry holds loaded card definitions and provides lookup utilities.
type CardRegistry struct {
	cards map[string]*CardDef
	all   []CardDef
}

// NewCardRegistry creates a registry from loaded card definitions.
// Defaults are applied and every definition is validated.
func NewCardRegistry(cards []CardDef) (*CardRegistry, error) {
	registry := &CardRegistry{
		cards: make(map[string]*CardDef, len(cards)),
		all:   cards,
	}
	for i := range cards {
		cards[i].ApplyDefaults()
		if err := cards[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := registry.cards[cards[i].ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", cards[i].ID)
		}
		registry.cards[cards[i].ID] = &cards[i]
	}
	return registry, nil
}

// LoadCardRegistry loads and creates a registry from the embedded cards.json.
func LoadCardRegistry() (*CardRegistry, error) {
	cards, err := LoadCards()
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, errors.New("no cards loaded from cards.json")
	}
	return NewCardRegistry(cards)
}

// GetByID returns the card definition with the given ID, or nil if not found.
func (r *CardRegistry) GetByID(id string) *CardDef {
	return r.cards[id]
}

// All returns all card definitions.
func (r *CardRegistry) All() []CardDef {
	return r.all
}

// Count returns the number of cards in the registry.
func (r *CardRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// UnitRegistry
// =============================================================================

// UnitRegistry holds loaded unit templates.
type UnitRegistry struct {
	units map[string]*UnitDef
	all   []UnitDef
}

// NewUnitRegistry creates a registry from loaded unit definitions.
func NewUnitRegistry(units []UnitDef) (*UnitRegistry, error) {
	registry := &UnitRegistry{
		units: make(map[string]*UnitDef, len(units)),
		all:   units,
	}
	for i := range units {
		if err := units[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := registry.units[units[i].ID]; dup {
			return nil, fmt.Errorf("duplicate unit id %q", units[i].ID)
		}
		registry.units[units[i].ID] = &units[i]
	}
	return registry, nil
}

// LoadUnitRegistry loads and creates a registry from the embedded units.json.
func LoadUnitRegistry() (*UnitRegistry, error) {
	units, err := LoadUnits()
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, errors.New("no units loaded from units.json")
	}
	return NewUnitRegistry(units)
}

// GetByID returns the unit definition with the given ID, or nil if not found.
func (r *UnitRegistry) GetByID(id string) *UnitDef {
	return r.units[id]
}

// All returns all unit definitions.
func (r *UnitRegistry) All() []UnitDef {
	return r.all
}

// Count returns the number of unit templates in the registry.
func (r *UnitRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// Catalog
// =============================================================================

// CatalogFile is the on-disk shape of a host-supplied catalog.
// Any section left empty falls back to the embedded data.
type CatalogFile struct {
	Cards     []CardDef     `json:"cards" yaml:"cards"`
	Units     []UnitDef     `json:"units" yaml:"units"`
	Scenarios []ScenarioDef `json:"scenarios" yaml:"scenarios"`
}

// Catalog bundles every content registry a battle needs.
type Catalog struct {
	Cards     *CardRegistry
	Units     *UnitRegistry
	scenarios map[string]*ScenarioDef
	order     []string
}

// NewCatalog validates the content and links scenarios against cards and units.
func NewCatalog(cards []CardDef, units []UnitDef, scenarios []ScenarioDef) (*Catalog, error) {
	cardRegistry, err := NewCardRegistry(cards)
	if err != nil {
		return nil, fmt.Errorf("cards: %w", err)
	}
	unitRegistry, err := NewUnitRegistry(units)
	if err != nil {
		return nil, fmt.Errorf("units: %w", err)
	}

	c := &Catalog{
		Cards:     cardRegistry,
		Units:     unitRegistry,
		scenarios: make(map[string]*ScenarioDef, len(scenarios)),
	}
	for i := range scenarios {
		s := &scenarios[i]
		if err := s.Validate(cardRegistry, unitRegistry); err != nil {
			return nil, err
		}
		if _, dup := c.scenarios[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		c.scenarios[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	return c, nil
}

// LoadCatalog builds a catalog from the embedded content.
func LoadCatalog() (*Catalog, error) {
	return LoadCatalogWith(CatalogFile{})
}

// LoadCatalogWith builds a catalog where the non-empty sections of override
// replace the embedded ones.
func LoadCatalogWith(override CatalogFile) (*Catalog, error) {
	cards := override.Cards
	if len(cards) == 0 {
		var err error
		if cards, err = LoadCards(); err != nil {
			return nil, err
		}
	}
	units := override.Units
	if len(units) == 0 {
		var err error
		if units, err = LoadUnits(); err != nil {
			return nil, err
		}
	}
	scenarios := override.Scenarios
	if len(scenarios) == 0 {
		var err error
		if scenarios, err = LoadScenarios(); err != nil {
			return nil, err
		}
	}
	return NewCatalog(cards, units, scenarios)
}

// LoadCatalogFile reads a YAML or JSON catalog from disk and merges it over the embedded content.
func LoadCatalogFile(path string) (*Catalog, error) {
	file, err := LoadFile[CatalogFile](path)
	if err != nil {
		return nil, err
	}
	return LoadCatalogWith(file)
}

// MustLoadCatalog loads the embedded catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Scenario returns the scenario with the given ID, or nil if not found.
func (c *Catalog) Scenario(id string) *ScenarioDef {
	return c.scenarios[id]
}

// ScenarioIDs returns scenario ids in load order.
func (c *Catalog) ScenarioIDs() []string {
	return c.order
}
