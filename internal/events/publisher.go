package events

import (
	"github.com/charmbracelet/log"
)

// Publisher is the capability set the engine emits through. The engine
// invokes these after the corresponding state mutation is in place; a failing
// or slow publisher must never abort a tournament, which Guard enforces.
type Publisher interface {
	PublishMatchCompleted(ev MatchCompleted) error
	PublishStandingsUpdated(ev StandingsUpdated) error
	PublishRoundStarted(ev RoundStarted) error
	PublishEventStarted(ev EventStarted) error
	PublishEventCompleted(ev EventCompleted) error
	PublishEventStepCompleted(ev EventStepCompleted) error
	PublishTournamentStarted(ev TournamentStarted) error
	PublishTournamentProgressUpdated(ev TournamentProgress) error
	PublishTournamentCompleted(ev TournamentCompleted) error
	UpdateCurrentState(state StateSnapshot) error
}

// NoOp discards all events. It is the default publisher.
type NoOp struct{}

func NewNoOp() *NoOp { return &NoOp{} }

func (*NoOp) PublishMatchCompleted(MatchCompleted) error                { return nil }
func (*NoOp) PublishStandingsUpdated(StandingsUpdated) error            { return nil }
func (*NoOp) PublishRoundStarted(RoundStarted) error                    { return nil }
func (*NoOp) PublishEventStarted(EventStarted) error                    { return nil }
func (*NoOp) PublishEventCompleted(EventCompleted) error                { return nil }
func (*NoOp) PublishEventStepCompleted(EventStepCompleted) error        { return nil }
func (*NoOp) PublishTournamentStarted(TournamentStarted) error          { return nil }
func (*NoOp) PublishTournamentProgressUpdated(TournamentProgress) error { return nil }
func (*NoOp) PublishTournamentCompleted(TournamentCompleted) error      { return nil }
func (*NoOp) UpdateCurrentState(StateSnapshot) error                    { return nil }

// Guard wraps a publisher so faults are logged and swallowed: errors are
// reported at warn level and panics recovered. The engine always talks to a
// guarded publisher.
type Guard struct {
	pub    Publisher
	logger *log.Logger
}

// NewGuard wraps pub. A nil pub behaves like NoOp.
func NewGuard(pub Publisher, logger *log.Logger) *Guard {
	if pub == nil {
		pub = NewNoOp()
	}
	return &Guard{pub: pub, logger: logger.WithPrefix("publisher")}
}

func (g *Guard) publish(name string, fn func() error) error {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("publisher panic", "event", name, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		g.logger.Warn("publisher fault", "event", name, "error", err)
	}
	return nil
}

func (g *Guard) PublishMatchCompleted(ev MatchCompleted) error {
	return g.publish("match_completed", func() error { return g.pub.PublishMatchCompleted(ev) })
}

func (g *Guard) PublishStandingsUpdated(ev StandingsUpdated) error {
	return g.publish("standings_updated", func() error { return g.pub.PublishStandingsUpdated(ev) })
}

func (g *Guard) PublishRoundStarted(ev RoundStarted) error {
	return g.publish("round_started", func() error { return g.pub.PublishRoundStarted(ev) })
}

func (g *Guard) PublishEventStarted(ev EventStarted) error {
	return g.publish("event_started", func() error { return g.pub.PublishEventStarted(ev) })
}

func (g *Guard) PublishEventCompleted(ev EventCompleted) error {
	return g.publish("event_completed", func() error { return g.pub.PublishEventCompleted(ev) })
}

func (g *Guard) PublishEventStepCompleted(ev EventStepCompleted) error {
	return g.publish("event_step_completed", func() error { return g.pub.PublishEventStepCompleted(ev) })
}

func (g *Guard) PublishTournamentStarted(ev TournamentStarted) error {
	return g.publish("tournament_started", func() error { return g.pub.PublishTournamentStarted(ev) })
}

func (g *Guard) PublishTournamentProgressUpdated(ev TournamentProgress) error {
	return g.publish("tournament_progress", func() error { return g.pub.PublishTournamentProgressUpdated(ev) })
}

func (g *Guard) PublishTournamentCompleted(ev TournamentCompleted) error {
	return g.publish("tournament_completed", func() error { return g.pub.PublishTournamentCompleted(ev) })
}

func (g *Guard) UpdateCurrentState(state StateSnapshot) error {
	return g.publish("state", func() error { return g.pub.UpdateCurrentState(state) })
}

// Multi fans events out to several publishers in order. The first error is
// returned after all publishers have been invoked.
type Multi struct {
	pubs []Publisher
}

func NewMulti(pubs ...Publisher) *Multi { return &Multi{pubs: pubs} }

func (m *Multi) each(fn func(Publisher) error) error {
	var first error
	for _, p := range m.pubs {
		if err := fn(p); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) PublishMatchCompleted(ev MatchCompleted) error {
	return m.each(func(p Publisher) error { return p.PublishMatchCompleted(ev) })
}

func (m *Multi) PublishStandingsUpdated(ev StandingsUpdated) error {
	return m.each(func(p Publisher) error { return p.PublishStandingsUpdated(ev) })
}

func (m *Multi) PublishRoundStarted(ev RoundStarted) error {
	return m.each(func(p Publisher) error { return p.PublishRoundStarted(ev) })
}

func (m *Multi) PublishEventStarted(ev EventStarted) error {
	return m.each(func(p Publisher) error { return p.PublishEventStarted(ev) })
}

func (m *Multi) PublishEventCompleted(ev EventCompleted) error {
	return m.each(func(p Publisher) error { return p.PublishEventCompleted(ev) })
}

func (m *Multi) PublishEventStepCompleted(ev EventStepCompleted) error {
	return m.each(func(p Publisher) error { return p.PublishEventStepCompleted(ev) })
}

func (m *Multi) PublishTournamentStarted(ev TournamentStarted) error {
	return m.each(func(p Publisher) error { return p.PublishTournamentStarted(ev) })
}

func (m *Multi) PublishTournamentProgressUpdated(ev TournamentProgress) error {
	return m.each(func(p Publisher) error { return p.PublishTournamentProgressUpdated(ev) })
}

func (m *Multi) PublishTournamentCompleted(ev TournamentCompleted) error {
	return m.each(func(p Publisher) error { return p.PublishTournamentCompleted(ev) })
}

func (m *Multi) UpdateCurrentState(state StateSnapshot) error {
	return m.each(func(p Publisher) error { return p.UpdateCurrentState(state) })
}
