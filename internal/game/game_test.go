package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/samdwyer/cardline/internal/combat"
	"github.com/samdwyer/cardline/internal/entity"
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/logging"
	"github.com/samdwyer/cardline/internal/telemetry"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateSetup, "setup"},
		{StateRunning, "running"},
		{StateVictory, "victory"},
		{StateDefeat, "defeat"},
		{StateUnresolved, "unresolved"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestStateDone(t *testing.T) {
	for _, s := range []State{StateSetup, StateRunning} {
		if s.Done() {
			t.Errorf("%s.Done() = true, want false", s)
		}
	}
	for _, s := range []State{StateVictory, StateDefeat, StateUnresolved} {
		if !s.Done() {
			t.Errorf("%s.Done() = false, want true", s)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CARDLINE_SEED", "42")
	t.Setenv("CARDLINE_SCENARIO", "duel")
	t.Setenv("CARDLINE_LOG_LEVEL", "debug")
	t.Setenv("CARDLINE_LOG_FORMAT", "json")
	t.Setenv("CARDLINE_TELEMETRY", "true")
	t.Setenv("HONEYCOMB_CARDLINE_DATASET", "cards-dev")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.Scenario != "duel" {
		t.Errorf("Scenario = %q, want %q", cfg.Scenario, "duel")
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log config = %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.Telemetry {
		t.Error("Telemetry = false, want true")
	}
	if cfg.HoneycombDataset != "cards-dev" {
		t.Errorf("HoneycombDataset = %q, want %q", cfg.HoneycombDataset, "cards-dev")
	}
}

func TestLoadConfigRejectsBadSeed(t *testing.T) {
	t.Setenv("CARDLINE_SEED", "not-a-number")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail on a non-numeric seed")
	}
}

// duelCatalog is a small deterministic catalog: every card in a deck is the
// same, so the shuffle order never changes the outcome.
func duelCatalog(t *testing.T, steps []gamedata.StepDef) *gamedata.Catalog {
	t.Helper()

	cards := []gamedata.CardDef{
		{ID: "strike", Name: "Strike", Damage: 3, Range: 1},
	}
	units := []gamedata.UnitDef{
		{ID: "knight", Name: "Knight", HP: 10, Faction: "player"},
		{ID: "goblin", Name: "Goblin", HP: 8, Faction: "enemy"},
	}
	scenarios := []gamedata.ScenarioDef{{
		ID:   "test",
		Name: "Test",
		Units: []gamedata.ScenarioUnit{
			{Label: "hero", Unit: "knight", Index: 0},
			{Label: "foe", Unit: "goblin", Index: 1},
		},
		Deck:  []gamedata.DeckSlot{{Card: "strike", Owner: "hero", Count: 3}},
		Steps: steps,
	}}

	catalog, err := gamedata.NewCatalog(cards, units, scenarios)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog
}

func newTestSession(catalog *gamedata.Catalog, scenario *gamedata.ScenarioDef) *Session {
	return NewSession(catalog, scenario,
		WithSeed(7),
		WithLogger(logging.Discard()),
		WithTracer(telemetry.NoopTracer()),
	)
}

func play(target string) gamedata.StepDef {
	return gamedata.StepDef{Action: gamedata.StepPlay, Hand: 0, Target: target}
}

func TestSessionRunVictory(t *testing.T) {
	catalog := duelCatalog(t, []gamedata.StepDef{
		{Action: gamedata.StepDraw, Count: 3},
		play("foe"),
		play("foe"),
		play("foe"),
		{Action: gamedata.StepDraw},
		play("foe"),
	})
	s := newTestSession(catalog, catalog.Scenario("test"))

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.State != StateVictory {
		t.Errorf("State = %s, want victory", report.State)
	}
	if report.Steps != 4 {
		t.Errorf("Steps = %d, want 4 (the run stops once the foe falls)", report.Steps)
	}
	if report.Rejected != 0 {
		t.Errorf("Rejected = %d, want 0", report.Rejected)
	}
	if len(report.Plays) != 3 {
		t.Fatalf("Plays = %d, want 3", len(report.Plays))
	}
	if !report.Plays[2].Killed {
		t.Error("third strike should kill the goblin")
	}
	if got := report.Plays[2].Message; got != "Knight plays Strike on Goblin for 3 damage, defeating it." {
		t.Errorf("Message = %q", got)
	}
	if report.Events[event.Died] != 1 || report.Events[event.UnitRemoved] != 1 {
		t.Errorf("Events = %v, want one death and one removal", report.Events)
	}
	if len(report.Survivors) != 1 || report.Survivors[0].Name != "Knight" {
		t.Errorf("Survivors = %+v, want only the knight", report.Survivors)
	}
	if s.State() != StateVictory {
		t.Errorf("State() = %s, want victory", s.State())
	}
	if got := s.Field().CardCount(); got != 3 {
		t.Errorf("CardCount() = %d, want 3", got)
	}
}

func TestSessionRunDefeat(t *testing.T) {
	cards := []gamedata.CardDef{{ID: "bolt", Name: "Bolt", Damage: 20}}
	units := []gamedata.UnitDef{
		{ID: "knight", Name: "Knight", HP: 10, Faction: "player"},
		{ID: "witch", Name: "Witch", HP: 5, Faction: "enemy"},
	}
	scenarios := []gamedata.ScenarioDef{{
		ID: "ambush",
		Units: []gamedata.ScenarioUnit{
			{Label: "hero", Unit: "knight", Index: 0},
			{Label: "witch", Unit: "witch", Index: 9},
		},
		Deck:  []gamedata.DeckSlot{{Card: "bolt", Owner: "witch"}},
		Steps: []gamedata.StepDef{{Action: gamedata.StepDraw}, play("hero")},
	}}
	catalog, err := gamedata.NewCatalog(cards, units, scenarios)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	report, err := newTestSession(catalog, catalog.Scenario("ambush")).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.State != StateDefeat {
		t.Errorf("State = %s, want defeat", report.State)
	}
}

func TestSessionRunUnresolved(t *testing.T) {
	catalog := duelCatalog(t, []gamedata.StepDef{
		{Action: gamedata.StepDraw},
		play("foe"),
		{Action: gamedata.StepShuffle},
	})

	report, err := newTestSession(catalog, catalog.Scenario("test")).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.State != StateUnresolved {
		t.Errorf("State = %s, want unresolved", report.State)
	}
	if report.Steps != 3 {
		t.Errorf("Steps = %d, want 3", report.Steps)
	}
	if len(report.Survivors) != 2 {
		t.Errorf("Survivors = %d, want 2", len(report.Survivors))
	}
}

func TestSessionCountsRejectedSteps(t *testing.T) {
	catalog := duelCatalog(t, []gamedata.StepDef{
		{Action: gamedata.StepMove, Unit: "foe", Index: 5},  // ok
		{Action: gamedata.StepDraw},                         // ok
		play("foe"),                                         // out of range
		{Action: gamedata.StepMove, Unit: "hero", Index: 5}, // occupied
		{Action: gamedata.StepPlay, Hand: 3, Target: "foe"}, // bad hand index
		{Action: gamedata.StepMove, Unit: "hero", Index: 4}, // ok
		play("foe"),                                         // ok
		{Action: gamedata.StepRemove, Unit: "foe"},          // ok, wins
	})

	report, err := newTestSession(catalog, catalog.Scenario("test")).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Rejected != 3 {
		t.Errorf("Rejected = %d, want 3", report.Rejected)
	}
	if len(report.Plays) != 1 {
		t.Errorf("Plays = %d, want 1", len(report.Plays))
	}
	if report.State != StateVictory {
		t.Errorf("State = %s, want victory after the foe is removed", report.State)
	}
	if report.Events[event.Died] != 0 {
		t.Errorf("removal is not a death, got %d Died events", report.Events[event.Died])
	}
}

func TestSessionRunTwice(t *testing.T) {
	catalog := duelCatalog(t, []gamedata.StepDef{{Action: gamedata.StepDraw}})
	s := newTestSession(catalog, catalog.Scenario("test"))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, err := s.Run(context.Background()); err == nil {
		t.Error("second Run() should fail")
	}
}

func TestSessionSetupFailsOnSharedIndex(t *testing.T) {
	catalog := duelCatalog(t, nil)
	scenario := *catalog.Scenario("test")
	scenario.Units = []gamedata.ScenarioUnit{
		{Label: "hero", Unit: "knight", Index: 2},
		{Label: "foe", Unit: "goblin", Index: 2},
	}

	_, err := newTestSession(catalog, &scenario).Run(context.Background())
	if !errors.Is(err, combat.ErrAlreadyOccupied) {
		t.Errorf("Run() error = %v, want ErrAlreadyOccupied", err)
	}
}

func TestSessionFactionOverride(t *testing.T) {
	catalog := duelCatalog(t, nil)
	scenario := *catalog.Scenario("test")
	scenario.Units = []gamedata.ScenarioUnit{
		{Label: "hero", Unit: "knight", Index: 0},
		{Label: "traitor", Unit: "knight", Index: 3, Faction: "enemy"},
	}
	scenario.Deck = nil
	scenario.Steps = []gamedata.StepDef{{Action: gamedata.StepShuffle}}

	s := newTestSession(catalog, &scenario)
	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	id, ok := s.Unit("traitor")
	if !ok {
		t.Fatal("traitor label not registered")
	}
	snap, _ := s.Field().Unit(id)
	if snap.Faction != entity.FactionEnemy {
		t.Errorf("traitor faction = %s, want enemy", snap.Faction)
	}
	if report.State != StateUnresolved {
		t.Errorf("State = %s, want unresolved", report.State)
	}
}

func TestSessionLogsPlacementAndDeck(t *testing.T) {
	cards := []gamedata.CardDef{
		{ID: "strike", Name: "Strike", Damage: 3, Range: 1},
		{ID: "spark", Name: "Spark", Damage: 1},
	}
	units := []gamedata.UnitDef{
		{ID: "knight", Name: "Knight", HP: 10, Faction: "player", Glyph: "K", Color: "1e90ff"},
		{ID: "goblin", Name: "Goblin", HP: 8, Faction: "enemy"},
	}
	scenarios := []gamedata.ScenarioDef{{
		ID:   "logs",
		Name: "Logs",
		Units: []gamedata.ScenarioUnit{
			{Label: "hero", Unit: "knight", Index: 0},
			{Label: "foe", Unit: "goblin", Index: 1},
		},
		Deck: []gamedata.DeckSlot{
			{Card: "strike", Owner: "hero"},
			{Card: "spark", Owner: "hero", Count: 2},
		},
	}}
	catalog, err := gamedata.NewCatalog(cards, units, scenarios)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := NewSession(catalog, catalog.Scenario("logs"),
		WithSeed(7),
		WithLogger(logger),
		WithTracer(telemetry.NoopTracer()),
	)
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	placed := map[string]logrus.Fields{}
	global := map[string]bool{}
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "unit placed":
			placed[e.Data["unit"].(string)] = e.Data
		case "deck slot":
			global[e.Data["card"].(string)] = e.Data["global"].(bool)
		}
	}

	if got := placed["hero"]["glyph"]; got != "K" {
		t.Errorf("hero glyph = %v, want K", got)
	}
	if got := placed["hero"]["color"]; got != "#1E90FF" {
		t.Errorf("hero color = %v, want #1E90FF", got)
	}
	if got := placed["foe"]["glyph"]; got != "?" {
		t.Errorf("foe glyph = %v, want ?", got)
	}
	if _, ok := placed["foe"]["color"]; ok {
		t.Error("foe has no colour but one was logged")
	}
	if global["strike"] || !global["spark"] {
		t.Errorf("global flags = %v, want spark only", global)
	}
}

func TestSessionOutcomeCountsSides(t *testing.T) {
	catalog := duelCatalog(t, nil)
	scenario := *catalog.Scenario("test")
	scenario.Units = []gamedata.ScenarioUnit{
		{Label: "hero", Unit: "knight", Index: 0},
		{Label: "turncoat", Unit: "goblin", Index: 1, Faction: "player"},
	}
	scenario.Deck = nil
	scenario.Steps = []gamedata.StepDef{{Action: gamedata.StepShuffle}}

	s := newTestSession(catalog, &scenario)
	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.State != StateVictory {
		t.Errorf("State = %s, want victory with no enemies left", report.State)
	}
	if report.Steps != 1 {
		t.Errorf("Steps = %d, want 1", report.Steps)
	}
}

func TestEmbeddedScenariosRun(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()

	for _, id := range catalog.ScenarioIDs() {
		t.Run(id, func(t *testing.T) {
			scenario := catalog.Scenario(id)
			s := newTestSession(catalog, scenario)

			report, err := s.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !report.State.Done() {
				t.Errorf("State = %s, want a finished state", report.State)
			}

			want := 0
			for _, slot := range scenario.Deck {
				want += slot.Copies()
			}
			if got := s.Field().CardCount(); got != want {
				t.Errorf("CardCount() = %d, want %d", got, want)
			}
		})
	}
}

func TestSessionSeedIsReproducible(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()
	messages := func() []string {
		report, err := newTestSession(catalog, catalog.Scenario("skirmish")).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var out []string
		for _, p := range report.Plays {
			out = append(out, p.Message)
		}
		return out
	}

	first, second := messages(), messages()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("play %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestResolveScenario(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()

	def, err := ResolveScenario(Config{Scenario: "duel"}, catalog)
	if err != nil {
		t.Fatalf("ResolveScenario(duel) error = %v", err)
	}
	if def.ID != "duel" {
		t.Errorf("ID = %q, want duel", def.ID)
	}

	if _, err := ResolveScenario(Config{Scenario: "nope"}, catalog); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("ResolveScenario(nope) error = %v, want ErrUnknownScenario", err)
	}
}

func TestResolveScenarioFromFile(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()
	dir := t.TempDir()

	good := filepath.Join(dir, "bridge.yaml")
	content := `id: bridge
name: Hold the Bridge
units:
  - {label: hero, unit: squire, index: 0}
  - {label: brute, unit: ogre, index: 2}
deck:
  - {card: strike, owner: hero, count: 2}
steps:
  - {action: draw, count: 2}
  - {action: move, unit: hero, index: 1}
  - {action: play, hand: 0, target: brute}
`
	if err := os.WriteFile(good, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := ResolveScenario(Config{Scenario: "duel", ScenarioFile: good}, catalog)
	if err != nil {
		t.Fatalf("ResolveScenario(file) error = %v", err)
	}
	if def.ID != "bridge" || len(def.Steps) != 3 {
		t.Errorf("loaded %q with %d steps, want bridge with 3", def.ID, len(def.Steps))
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("id: bad\nunits:\n  - {label: x, unit: dragon}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveScenario(Config{ScenarioFile: bad}, catalog); err == nil {
		t.Error("scenario with an unknown unit template should be rejected")
	}
}
