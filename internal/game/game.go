package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/cardline/internal/combat"
	"github.com/samdwyer/cardline/internal/entity"
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/gamedata"
	"github.com/samdwyer/cardline/internal/ids"
	"github.com/samdwyer/cardline/internal/telemetry"
)

// ErrUnknownScenario is returned when a scenario id is not in the catalog.
var ErrUnknownScenario = errors.New("unknown scenario")

// Session replays one scenario on a fresh battle field.
type Session struct {
	catalog  *gamedata.Catalog
	scenario *gamedata.ScenarioDef
	field    *combat.Field
	labels   map[string]ids.EntityID
	state    State
	seed     int64

	events map[event.Kind]int
	log    logrus.FieldLogger
	tracer trace.Tracer
}

// Report summarises a finished run.
type Report struct {
	Scenario  string
	Battle    string
	Seed      int64
	State     State
	Steps     int                 // Steps applied
	Rejected  int                 // Steps the field refused
	Plays     []combat.PlayResult // Successful plays in order
	Events    map[event.Kind]int  // Notifications seen, by kind
	Survivors []entity.Snapshot   // Units left on the field, by index
}

// Option configures a Session.
type Option func(*Session)

// WithSeed fixes the deck RNG seed. 0 picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithLogger sets the logger for the session and its field.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithTracer sets the tracer for the session and its field.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewSession prepares scenario for a run. The scenario must already be
// valid against catalog.
func NewSession(catalog *gamedata.Catalog, scenario *gamedata.ScenarioDef, opts ...Option) *Session {
	s := &Session{
		catalog:  catalog,
		scenario: scenario,
		labels:   make(map[string]ids.EntityID),
		state:    StateSetup,
		events:   make(map[event.Kind]int),
		log:      logrus.StandardLogger(),
		tracer:   telemetry.Tracer("game"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}

	s.field = combat.New(
		combat.WithRand(rand.New(rand.NewSource(s.seed))),
		combat.WithLogger(s.log),
		combat.WithTracer(s.tracer),
	)
	s.log = s.log.WithFields(logrus.Fields{
		"scenario": scenario.ID,
		"battle":   s.field.BattleID().String(),
	})
	s.field.Subscribe(s.observe)
	return s
}

// ResolveScenario picks the scenario cfg asks for: the file in
// cfg.ScenarioFile if set, otherwise cfg.Scenario from the catalog.
func ResolveScenario(cfg Config, catalog *gamedata.Catalog) (*gamedata.ScenarioDef, error) {
	if cfg.ScenarioFile != "" {
		def, err := gamedata.LoadFile[gamedata.ScenarioDef](cfg.ScenarioFile)
		if err != nil {
			return nil, err
		}
		if err := def.Validate(catalog.Cards, catalog.Units); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.ScenarioFile, err)
		}
		return &def, nil
	}

	def := catalog.Scenario(cfg.Scenario)
	if def == nil {
		return nil, fmt.Errorf("%q (have %v): %w", cfg.Scenario, catalog.ScenarioIDs(), ErrUnknownScenario)
	}
	return def, nil
}

// Field exposes the battle field for inspection.
func (s *Session) Field() *combat.Field { return s.field }

// State returns the session state.
func (s *Session) State() State { return s.state }

// Unit returns the id a scenario label was spawned as.
func (s *Session) Unit(label string) (ids.EntityID, bool) {
	id, ok := s.labels[label]
	return id, ok
}

// Run places the scenario's units and deck, then applies its steps in order
// until the script ends or one side is wiped out. Steps the field rejects
// are logged and counted; only setup failures abort the run.
func (s *Session) Run(ctx context.Context) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "scenario.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("scenario", s.scenario.ID),
		attribute.String("battle.id", s.field.BattleID().String()),
		attribute.Int64("seed", s.seed),
	)

	report := Report{
		Scenario: s.scenario.ID,
		Battle:   s.field.BattleID().String(),
		Seed:     s.seed,
		Events:   s.events,
	}

	if s.state != StateSetup {
		return report, fail(span, fmt.Errorf("session already %s", s.state))
	}

	if err := s.setup(ctx); err != nil {
		return report, fail(span, err)
	}

	s.state = StateRunning
	s.log.WithField("steps", len(s.scenario.Steps)).Info(s.scenario.Name)

	for i, step := range s.scenario.Steps {
		if s.state.Done() {
			break
		}
		report.Steps++

		result, err := s.apply(ctx, step)
		if err != nil {
			report.Rejected++
			s.log.WithFields(logrus.Fields{"step": i, "action": step.Action}).WithError(err).Warn("step rejected")
		} else if result != nil {
			report.Plays = append(report.Plays, *result)
		}
		s.state = s.outcome()
	}
	if !s.state.Done() {
		s.state = StateUnresolved
	}

	report.State = s.state
	report.Survivors = s.field.Units()

	span.SetAttributes(
		attribute.String("outcome", s.state.String()),
		attribute.Int("steps", report.Steps),
		attribute.Int("rejected", report.Rejected),
	)
	s.log.WithFields(logrus.Fields{
		"steps":     report.Steps,
		"rejected":  report.Rejected,
		"survivors": len(report.Survivors),
	}).Infof("scenario finished: %s", s.state)

	return report, nil
}

// setup spawns every scenario unit and builds the deck.
func (s *Session) setup(ctx context.Context) error {
	for _, su := range s.scenario.Units {
		def := s.catalog.Units.GetByID(su.Unit)
		if def == nil {
			return fmt.Errorf("unit %q: unknown template %q", su.Label, su.Unit)
		}

		id, err := s.field.SpawnFromDef(ctx, def, ids.GridIndex(su.Index))
		if err != nil {
			return fmt.Errorf("unit %q: %w", su.Label, err)
		}
		s.labels[su.Label] = id

		fields := logrus.Fields{"unit": su.Label, "id": id, "index": su.Index, "glyph": string(def.GlyphRune())}
		if c, err := gamedata.ParseHexColor(def.Color); err == nil {
			fields["color"] = c.Hex()
		}
		s.log.WithFields(fields).Debug("unit placed")

		if su.Faction != "" {
			faction, err := entity.ParseFaction(su.Faction)
			if err != nil {
				return fmt.Errorf("unit %q: %w", su.Label, err)
			}
			if err := s.field.SetFaction(id, faction); err != nil {
				return fmt.Errorf("unit %q: %w", su.Label, err)
			}
		}
	}

	var entries []combat.DeckEntry
	for _, slot := range s.scenario.Deck {
		def := s.catalog.Cards.GetByID(slot.Card)
		if def == nil {
			return fmt.Errorf("deck: unknown card %q", slot.Card)
		}
		owner, ok := s.labels[slot.Owner]
		if !ok {
			return fmt.Errorf("deck: card %q owned by unknown unit %q", slot.Card, slot.Owner)
		}
		s.log.WithFields(logrus.Fields{
			"card":   def.ID,
			"owner":  slot.Owner,
			"copies": slot.Copies(),
			"global": def.IsGlobal(),
		}).Debug("deck slot")
		for n := slot.Copies(); n > 0; n-- {
			entries = append(entries, combat.DeckEntry{Def: def, Owner: owner})
		}
	}

	return s.field.InitializeDeck(ctx, entries)
}

// apply runs one step. A play step returns its result.
func (s *Session) apply(ctx context.Context, step gamedata.StepDef) (*combat.PlayResult, error) {
	switch step.Action {
	case gamedata.StepDraw:
		n := max(step.Count, 1)
		drawn := s.field.DrawCards(ctx, n)
		s.log.WithFields(logrus.Fields{"asked": n, "drawn": drawn}).Debug("draw")
		return nil, nil

	case gamedata.StepPlay:
		result, err := s.field.PlayCard(ctx, step.Hand, s.labels[step.Target])
		if err != nil {
			return nil, err
		}
		return &result, nil

	case gamedata.StepMove:
		return nil, s.field.MoveUnit(ctx, s.labels[step.Unit], ids.GridIndex(step.Index))

	case gamedata.StepRemove:
		s.field.RemoveUnit(s.labels[step.Unit])
		return nil, nil

	case gamedata.StepShuffle:
		s.field.ShuffleDeck()
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown action %q", step.Action)
	}
}

// outcome checks whether either side has been wiped out.
func (s *Session) outcome() State {
	players, enemies := 0, 0
	for _, u := range s.field.Units() {
		if u.Faction.Opposes(entity.FactionPlayer) {
			enemies++
		} else {
			players++
		}
	}

	switch {
	case enemies == 0:
		return StateVictory
	case players == 0:
		return StateDefeat
	default:
		return StateRunning
	}
}

// observe logs every field notification and tallies it.
func (s *Session) observe(e event.Event) {
	s.events[e.Kind]++

	fields := logrus.Fields{"event": e.Kind.String()}
	if !e.Unit.IsNull() {
		fields["unit"] = e.Unit
	}
	switch e.Kind {
	case event.HPChanged:
		fields["hp"] = e.HP
		fields["max_hp"] = e.MaxHP
	case event.PositionChanged, event.UnitSpawned:
		fields["index"] = e.Index
	}

	s.log.WithFields(fields).Debug("field event")
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("failed", true))
	return err
}
