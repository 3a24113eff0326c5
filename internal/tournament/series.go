package tournament

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/events"
	"github.com/botarena/botarena/internal/match"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// progressInterval is the cadence of scheduled-start countdown events.
const progressInterval = time.Second

// Step statuses as published in the series snapshot.
const (
	StepPending   = "pending"
	StepRunning   = "running"
	StepCompleted = "completed"
	StepAborted   = "aborted"
)

// EventStep is one tournament in the series, one per game type. Index is
// 1-based, matching the published step numbering.
type EventStep struct {
	Index    int
	GameType arena.GameType
	Status   string
	Manager  *Manager
}

// Series chains one tournament per configured game type over a shared
// roster, carrying standings forward as an additive cumulative score. It is
// the root of the cancellation hierarchy: stopping the series cancels the
// running tournament and every in-flight match under it.
type Series struct {
	name     string
	cfg      arena.TournamentConfig
	settings *Settings
	bots     []arena.Bot
	runner   *match.Runner
	pub      events.Publisher
	clock    quartz.Clock
	logger   *log.Logger

	mu          sync.Mutex
	state       State
	steps       []*EventStep
	currentStep int
	seriesScore map[string]int
	gate        *pauseGate
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewSeries builds a series with one step per configured game. The publisher
// is wrapped in a fault guard, so callers may pass any implementation.
func NewSeries(name string, bots []arena.Bot, cfg arena.TournamentConfig, settings *Settings, runner *match.Runner, pub events.Publisher, clock quartz.Clock, logger *log.Logger) *Series {
	s := &Series{
		name:     name,
		cfg:      cfg,
		settings: settings,
		bots:     bots,
		runner:   runner,
		pub:      events.NewGuard(pub, logger),
		clock:    clock,
		logger:   logger.WithPrefix("series").With("name", name),
	}
	s.reset()
	return s
}

func (s *Series) reset() {
	s.state = StateNotStarted
	s.steps = make([]*EventStep, len(s.cfg.Games))
	for i, game := range s.cfg.Games {
		s.steps[i] = &EventStep{Index: i + 1, GameType: game, Status: StepPending}
	}
	s.currentStep = -1
	s.seriesScore = make(map[string]int)
	s.gate = newPauseGate()
	s.cancel = nil
	s.done = nil
}

// Start launches the series in the background. It honors the scheduled start
// time before dispatching the first step.
func (s *Series) Start(ctx context.Context) CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return rejected("cannot start series in state %s", s.state)
	}
	if len(s.bots) < 2 {
		return rejected("insufficient bots: need at least 2, have %d", len(s.bots))
	}
	if len(s.steps) == 0 {
		return rejected("no games configured")
	}

	s.state = StateRunning
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx)
	return accepted("series %s started", s.name)
}

func (s *Series) run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		switch s.state {
		case StateRunning, StatePaused, StateStopping:
			if ctx.Err() != nil || s.state == StateStopping {
				s.state = StateAborted
			} else {
				s.state = StateCompleted
			}
		}
		s.mu.Unlock()
		s.publishSnapshot()
		close(s.done)
	}()

	if err := s.awaitScheduledStart(ctx); err != nil {
		return
	}

	for i := range s.steps {
		if err := s.gate.wait(ctx); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if !s.runStep(ctx, i) {
			s.mu.Lock()
			if s.state == StateRunning || s.state == StatePaused {
				s.state = StateAborted
			}
			s.mu.Unlock()
			return
		}
	}
}

// awaitScheduledStart blocks until the configured start time, publishing a
// countdown once per second. A zero or past start time returns immediately.
func (s *Series) awaitScheduledStart(ctx context.Context) error {
	start := s.settings.ScheduledStartTime
	if start.IsZero() || !s.clock.Now().Before(start) {
		return nil
	}
	s.logger.Info("waiting for scheduled start", "at", start)

	ticker := s.clock.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		remaining := start.Sub(s.clock.Now())
		if remaining <= 0 {
			return nil
		}
		s.pub.PublishTournamentProgressUpdated(events.TournamentProgress{
			SeriesName: s.name,
			StartsIn:   remaining,
			Message:    "waiting for scheduled start",
		})
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runStep plays one tournament to completion and folds its standings into
// the series score. It reports whether the series should continue.
func (s *Series) runStep(ctx context.Context, idx int) bool {
	step := s.steps[idx]

	mgr := NewManager(step.GameType, s.bots, s.cfg, s.settings, s.runner, s.pub, s.clock, s.logger)

	s.mu.Lock()
	s.currentStep = idx
	step.Status = StepRunning
	step.Manager = mgr
	s.mu.Unlock()

	s.pub.PublishEventStarted(events.EventStarted{
		SeriesName: s.name,
		StepIndex:  step.Index,
		GameType:   step.GameType,
	})
	s.publishSnapshot()

	res := mgr.Start(ctx)
	if !res.Success {
		s.logger.Error("failed to start tournament", "game", step.GameType, "reason", res.Message)
		s.setStepStatus(step, StepAborted)
		return false
	}
	mgr.Wait()

	rankings := mgr.Rankings()
	status := StepCompleted
	if mgr.State() != StateCompleted {
		status = StepAborted
	}

	s.mu.Lock()
	for _, st := range rankings {
		s.seriesScore[st.TeamName] += st.TotalScore
	}
	step.Status = status
	s.mu.Unlock()

	s.pub.PublishEventCompleted(events.EventCompleted{
		SeriesName: s.name,
		StepIndex:  step.Index,
		GameType:   step.GameType,
		Rankings:   rankings,
	})
	s.pub.PublishEventStepCompleted(events.EventStepCompleted{
		SeriesName: s.name,
		StepIndex:  step.Index,
		GameType:   step.GameType,
		Status:     status,
	})
	s.publishSnapshot()
	return status == StepCompleted
}

func (s *Series) setStepStatus(step *EventStep, status string) {
	s.mu.Lock()
	step.Status = status
	s.mu.Unlock()
	s.pub.PublishEventStepCompleted(events.EventStepCompleted{
		SeriesName: s.name,
		StepIndex:  step.Index,
		GameType:   step.GameType,
		Status:     status,
	})
}

// Pause pauses the running tournament and blocks the next step from
// starting.
func (s *Series) Pause() CommandResult {
	s.mu.Lock()
	if s.state != StateRunning {
		state := s.state
		s.mu.Unlock()
		return rejected("cannot pause series in state %s", state)
	}
	s.state = StatePaused
	s.gate.pause()
	mgr := s.currentManagerLocked()
	s.mu.Unlock()

	if mgr != nil {
		mgr.Pause()
	}
	s.publishSnapshot()
	return accepted("series paused")
}

// Resume resumes a paused series and its current tournament.
func (s *Series) Resume() CommandResult {
	s.mu.Lock()
	if s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return rejected("cannot resume series in state %s", state)
	}
	s.state = StateRunning
	s.gate.resume()
	mgr := s.currentManagerLocked()
	s.mu.Unlock()

	if mgr != nil {
		mgr.Resume()
	}
	s.publishSnapshot()
	return accepted("series resumed")
}

// Stop cancels the series: the running tournament aborts with partial
// results preserved, and no further steps start.
func (s *Series) Stop() CommandResult {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return rejected("cannot stop series in state %s", state)
	}
	s.state = StateStopping
	s.gate.resume()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	s.logger.Info("series stopping")
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return accepted("series stopped")
}

// Rerun resets a finished series to its initial configuration: same roster,
// same step list, all standings cleared.
func (s *Series) Rerun() CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCompleted && s.state != StateAborted {
		return rejected("cannot rerun series in state %s", s.state)
	}
	s.reset()
	s.logger.Info("series reset for rerun")
	return accepted("series reset")
}

// Clear resets the series from any non-active state: step statuses and the
// cumulative score go back to their initial values.
func (s *Series) Clear() CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning || s.state == StatePaused || s.state == StateStopping {
		return rejected("cannot clear series in state %s", s.state)
	}
	s.reset()
	return accepted("series cleared")
}

// Wait blocks until the series run finishes.
func (s *Series) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// State returns the series lifecycle state.
func (s *Series) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentManager returns the manager of the step in progress, if any.
func (s *Series) CurrentManager() *Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentManagerLocked()
}

func (s *Series) currentManagerLocked() *Manager {
	if s.currentStep < 0 || s.currentStep >= len(s.steps) {
		return nil
	}
	return s.steps[s.currentStep].Manager
}

// Steps returns a snapshot of the step list. Manager pointers are shared;
// managers expose only copy-out accessors.
func (s *Series) Steps() []EventStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventStep, len(s.steps))
	for i, step := range s.steps {
		out[i] = *step
	}
	return out
}

// Standings returns the cumulative series score, ranked.
func (s *Series) Standings() []events.SeriesStanding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standingsLocked()
}

func (s *Series) standingsLocked() []events.SeriesStanding {
	out := make([]events.SeriesStanding, 0, len(s.seriesScore))
	for team, score := range s.seriesScore {
		out = append(out, events.SeriesStanding{TeamName: team, CumulativeScore: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CumulativeScore != out[j].CumulativeScore {
			return out[i].CumulativeScore > out[j].CumulativeScore
		}
		return out[i].TeamName < out[j].TeamName
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// publishSnapshot pushes the full series state to observers.
func (s *Series) publishSnapshot() {
	s.mu.Lock()
	// currentStep is a slice position; published indexes are 1-based, 0
	// meaning no step has started.
	snap := events.StateSnapshot{
		SeriesName:       s.name,
		CurrentStepIndex: s.currentStep + 1,
		SeriesStandings:  s.standingsLocked(),
	}
	for _, step := range s.steps {
		snap.Steps = append(snap.Steps, events.StepState{
			Index:    step.Index,
			GameType: step.GameType,
			Status:   step.Status,
		})
	}
	mgr := s.currentManagerLocked()
	s.mu.Unlock()

	if mgr != nil {
		info := mgr.Info()
		snap.Tournament = &events.TournamentView{
			TournamentID: info.TournamentID,
			GameType:     info.GameType,
			State:        string(info.State),
			Bots:         info.Bots,
			MatchCount:   len(info.MatchResults),
			TotalRounds:  info.TotalRounds,
			StartTime:    info.StartTime,
			EndTime:      info.EndTime,
		}
	}
	s.pub.UpdateCurrentState(snap)
}
