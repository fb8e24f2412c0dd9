package gamedata

import "fmt"

// StepAction names one scripted command in a scenario.
type StepAction string

const (
	StepDraw    StepAction = "draw"
	StepPlay    StepAction = "play"
	StepMove    StepAction = "move"
	StepRemove  StepAction = "remove"
	StepShuffle StepAction = "shuffle"
)

// ScenarioUnit places a unit template on the battle line.
type ScenarioUnit struct {
	Label   string `json:"label" yaml:"label"`                         // Name steps use to refer to the unit
	Unit    string `json:"unit" yaml:"unit"`                           // UnitDef id
	Index   int64  `json:"index" yaml:"index"`                         // Starting grid index
	Faction string `json:"faction,omitempty" yaml:"faction,omitempty"` // Overrides the template's faction
}

// DeckSlot adds Count copies of a card owned by a placed unit.
type DeckSlot struct {
	Card  string `json:"card" yaml:"card"`   // CardDef id
	Owner string `json:"owner" yaml:"owner"` // ScenarioUnit label
	Count int    `json:"count" yaml:"count"` // Copies; 0 means 1
}

// Copies returns how many instances the slot contributes.
func (d DeckSlot) Copies() int {
	if d.Count <= 0 {
		return 1
	}
	return d.Count
}

// StepDef is one scripted command.
type StepDef struct {
	Action StepAction `json:"action" yaml:"action"`
	Unit   string     `json:"unit,omitempty" yaml:"unit,omitempty"`     // move, remove
	Target string     `json:"target,omitempty" yaml:"target,omitempty"` // play
	Hand   int        `json:"hand,omitempty" yaml:"hand,omitempty"`     // play: hand index
	Index  int64      `json:"index,omitempty" yaml:"index,omitempty"`   // move: destination
	Count  int        `json:"count,omitempty" yaml:"count,omitempty"`   // draw: cards; 0 means 1
}

// ScenarioDef is a scripted skirmish: a starting layout, a deck and a list of commands.
type ScenarioDef struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Units       []ScenarioUnit `json:"units" yaml:"units"`
	Deck        []DeckSlot     `json:"deck" yaml:"deck"`
	Steps       []StepDef      `json:"steps" yaml:"steps"`
}

// Validate checks that every reference in the scenario resolves.
func (s *ScenarioDef) Validate(cards *CardRegistry, units *UnitRegistry) error {
	if s.ID == "" {
		return fmt.Errorf("scenario %q: missing id", s.Name)
	}

	labels := make(map[string]bool, len(s.Units))
	for _, u := range s.Units {
		if u.Label == "" {
			return fmt.Errorf("scenario %q: unit without label", s.ID)
		}
		if labels[u.Label] {
			return fmt.Errorf("scenario %q: duplicate unit label %q", s.ID, u.Label)
		}
		labels[u.Label] = true
		if units.GetByID(u.Unit) == nil {
			return fmt.Errorf("scenario %q: unit %q uses unknown template %q", s.ID, u.Label, u.Unit)
		}
		if u.Faction != "" && u.Faction != "player" && u.Faction != "enemy" {
			return fmt.Errorf("scenario %q: unit %q has unknown faction %q", s.ID, u.Label, u.Faction)
		}
	}

	for _, d := range s.Deck {
		if cards.GetByID(d.Card) == nil {
			return fmt.Errorf("scenario %q: deck references unknown card %q", s.ID, d.Card)
		}
		if !labels[d.Owner] {
			return fmt.Errorf("scenario %q: card %q owned by unknown unit %q", s.ID, d.Card, d.Owner)
		}
	}

	for i, step := range s.Steps {
		switch step.Action {
		case StepDraw, StepShuffle:
		case StepPlay:
			if !labels[step.Target] {
				return fmt.Errorf("scenario %q: step %d targets unknown unit %q", s.ID, i, step.Target)
			}
		case StepMove, StepRemove:
			if !labels[step.Unit] {
				return fmt.Errorf("scenario %q: step %d references unknown unit %q", s.ID, i, step.Unit)
			}
		default:
			return fmt.Errorf("scenario %q: step %d has unknown action %q", s.ID, i, step.Action)
		}
	}

	return nil
}

// ScenariosFile represents the structure of scenarios.json.
type ScenariosFile struct {
	Scenarios []ScenarioDef `json:"scenarios" yaml:"scenarios"`
}

// LoadScenarios loads scenario definitions from the embedded scenarios.json file.
func LoadScenarios() ([]ScenarioDef, error) {
	file, err := Load[ScenariosFile]("scenarios.json")
	if err != nil {
		return nil, err
	}
	return file.Scenarios, nil
}
