// Package combat is the battle core: units on the grid, the deck/hand/discard
// pipeline and card-play resolution.
package combat

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/cardline/internal/card"
	"github.com/samdwyer/cardline/internal/entity"
	"github.com/samdwyer/cardline/internal/event"
	"github.com/samdwyer/cardline/internal/ids"
	"github.com/samdwyer/cardline/internal/telemetry"
)

// Field owns every unit and card of one battle.
//
// units and grid always describe the same set of occupied cells, and every
// card instance sits in exactly one of deck, hand and discard. Field is not
// safe for concurrent use; the host serialises calls.
type Field struct {
	id ulid.ULID

	units map[ids.EntityID]*entity.Unit
	grid  map[ids.GridIndex]ids.EntityID

	deck    card.Pile
	hand    card.Pile
	discard card.Pile

	bus    event.Bus
	rng    *rand.Rand
	log    logrus.FieldLogger
	tracer trace.Tracer
}

// Option configures a Field.
type Option func(*Field)

// WithRand sets the RNG used for shuffling. Pass a seeded source for reproducible battles.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) {
		if rng != nil {
			f.rng = rng
		}
	}
}

// WithLogger sets the logger. Entries carry a "battle" field.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Field) {
		if logger != nil {
			f.log = logger
		}
	}
}

// WithTracer sets the tracer used for battle spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(f *Field) {
		if tracer != nil {
			f.tracer = tracer
		}
	}
}

// New creates an empty battle field.
func New(opts ...Option) *Field {
	f := &Field{
		id:     ulid.Make(),
		units:  make(map[ids.EntityID]*entity.Unit),
		grid:   make(map[ids.GridIndex]ids.EntityID),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logrus.StandardLogger(),
		tracer: telemetry.Tracer("battle"),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithField("battle", f.id.String())
	return f
}

// BattleID identifies this battle in logs and traces.
func (f *Field) BattleID() ulid.ULID {
	return f.id
}

// Subscribe registers h for every notification the field emits and
// returns a function that unregisters it.
//
// Handlers run synchronously inside the call that caused the change, after
// the field's own bookkeeping, so they always observe consistent state.
// They must not call back into the field.
func (f *Field) Subscribe(h event.Handler) (unsubscribe func()) {
	return f.bus.Subscribe(h)
}

// handleUnitEvent is every unit's notifier. Deaths are processed here
// before the host hears about them.
func (f *Field) handleUnitEvent(e event.Event) {
	if e.Kind != event.Died {
		f.bus.Publish(e)
		return
	}

	unit, ok := f.detach(e.Unit)
	if ok {
		f.log.WithFields(logrus.Fields{
			"unit":  unit.ID(),
			"name":  unit.Name,
			"index": unit.Index(),
		}).Info("unit died")
	}
	f.bus.Publish(e)
	if ok {
		f.bus.Publish(event.Event{Kind: event.UnitRemoved, Unit: unit.ID(), Index: unit.Index()})
	}
}

func (f *Field) battleAttr() attribute.KeyValue {
	return attribute.String("battle.id", f.id.String())
}

// fail marks span as failed in the same shape the rest of the game uses.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("failed", true))
	return err
}
