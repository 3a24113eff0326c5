package tournament

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/events"
	"github.com/botarena/botarena/internal/match"
	"github.com/botarena/botarena/internal/scoring"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// State is the lifecycle state of one tournament.
type State string

const (
	StateNotStarted   State = "not_started"
	StateInitializing State = "initializing"
	StateRunning      State = "running"
	StatePaused       State = "paused"
	StateStopping     State = "stopping"
	StateCompleted    State = "completed"
	StateAborted      State = "aborted"
)

// TournamentInfo is the manager-owned record of one tournament. MatchResults
// is append-only; snapshots handed out are copies.
type TournamentInfo struct {
	TournamentID string
	GameType     arena.GameType
	State        State
	Bots         []string
	MatchResults []arena.MatchResult
	TotalRounds  int
	StartTime    time.Time
	EndTime      *time.Time
}

// CommandResult reports the outcome of an operator command. A rejected
// command leaves the tournament state unchanged.
type CommandResult struct {
	Success bool
	Message string
}

func rejected(format string, args ...any) CommandResult {
	return CommandResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

func accepted(format string, args ...any) CommandResult {
	return CommandResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Settings are the operator-tunable knobs shared between the series manager
// and its tournaments. The series manager owns the value; everyone else
// holds the same pointer and reads it.
type Settings struct {
	FastMatchThreshold time.Duration
	PacingDelay        time.Duration // optional per-match delay, 0 disables
	ScheduledStartTime time.Time     // zero means start immediately
}

// SettingsFromConfig seeds settings from the tournament config.
func SettingsFromConfig(cfg arena.TournamentConfig) *Settings {
	return &Settings{
		FastMatchThreshold: cfg.FastMatchThreshold,
		ScheduledStartTime: cfg.ScheduledStartTime,
	}
}

// Manager drives one tournament through its lifecycle: it owns the
// TournamentInfo, the standings table, the parallelism semaphore, and the
// pause gate. All shared-state mutation happens inside its critical section;
// match execution happens outside it.
type Manager struct {
	mu       sync.Mutex
	cfg      arena.TournamentConfig
	settings *Settings
	runner   *match.Runner
	pub      events.Publisher
	logger   *log.Logger
	clock    quartz.Clock

	gameType arena.GameType
	bots     map[string]arena.Bot

	info   TournamentInfo
	table  *scoring.Table
	engine *Engine

	sem    *semaphore.Weighted
	gate   *pauseGate
	cancel context.CancelFunc
	done   chan struct{}

	matchesTotal     int
	matchesCompleted int
}

// NewManager creates a manager for one tournament of the given game type.
func NewManager(gameType arena.GameType, bots []arena.Bot, cfg arena.TournamentConfig, settings *Settings, runner *match.Runner, pub events.Publisher, clock quartz.Clock, logger *log.Logger) *Manager {
	byName := make(map[string]arena.Bot, len(bots))
	names := make([]string, 0, len(bots))
	for _, b := range bots {
		byName[b.TeamName()] = b
		names = append(names, b.TeamName())
	}

	m := &Manager{
		cfg:      cfg,
		settings: settings,
		runner:   runner,
		pub:      pub,
		logger:   logger.WithPrefix("tournament").With("game", gameType),
		clock:    clock,
		gameType: gameType,
		bots:     byName,
	}
	m.reset(names)
	return m
}

// reset re-initializes all per-run state. Callers hold the lock or have
// exclusive access.
func (m *Manager) reset(names []string) {
	m.info = TournamentInfo{
		TournamentID: uuid.NewString(),
		GameType:     m.gameType,
		State:        StateNotStarted,
		Bots:         append([]string(nil), names...),
	}
	m.table = scoring.NewTable()
	for _, name := range names {
		m.table.Ensure(name)
	}
	m.sem = semaphore.NewWeighted(int64(m.cfg.MaxParallelMatches))
	m.gate = newPauseGate()
	m.engine = nil
	m.cancel = nil
	m.done = nil
	m.matchesTotal = 0
	m.matchesCompleted = 0
}

// Start validates the roster, builds the schedule, and launches the engine.
func (m *Manager) Start(ctx context.Context) CommandResult {
	m.mu.Lock()
	if m.info.State != StateNotStarted {
		m.mu.Unlock()
		return rejected("cannot start tournament in state %s", m.info.State)
	}
	if len(m.bots) < 2 {
		m.mu.Unlock()
		return rejected("insufficient bots: need at least 2, have %d", len(m.bots))
	}

	m.info.State = StateInitializing
	m.engine = newEngine(m, m.gameType, m.info.Bots, m.cfg, m.logger)
	m.info.TotalRounds = m.engine.totalRounds()
	m.matchesTotal = m.engine.totalMatches()
	m.info.StartTime = time.Now()
	m.info.State = StateRunning

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	info := m.snapshotLocked()
	m.mu.Unlock()

	m.pub.PublishTournamentStarted(events.TournamentStarted{
		TournamentID: info.TournamentID,
		GameType:     info.GameType,
		Bots:         info.Bots,
		TotalRounds:  info.TotalRounds,
	})
	m.logger.Info("tournament started", "id", info.TournamentID, "bots", len(info.Bots), "rounds", info.TotalRounds)

	go m.run(runCtx)
	return accepted("tournament %s started", info.TournamentID)
}

// run drives the engine to completion and settles the terminal state.
func (m *Manager) run(ctx context.Context) {
	err := m.engine.Run(ctx)

	m.mu.Lock()
	now := time.Now()
	m.info.EndTime = &now
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		m.info.State = StateAborted
	case err != nil:
		m.logger.Error("engine failed", "error", err)
		m.info.State = StateAborted
	case m.info.State == StateStopping:
		m.info.State = StateAborted
	default:
		m.info.State = StateCompleted
	}
	info := m.snapshotLocked()
	rankings := m.table.Rankings()
	m.mu.Unlock()

	var end time.Time
	if info.EndTime != nil {
		end = *info.EndTime
	}
	stats := scoring.CalculateStatistics(info.MatchResults, info.StartTime, end, info.TotalRounds, m.table)

	m.pub.PublishTournamentCompleted(events.TournamentCompleted{
		TournamentID: info.TournamentID,
		GameType:     info.GameType,
		State:        string(info.State),
		Rankings:     rankings,
		Statistics:   stats,
	})
	m.logger.Info("tournament finished", "state", info.State, "matches", len(info.MatchResults))
	close(m.done)
}

// Pause stops the dispatcher from accepting new matches. In-flight matches
// run to completion and are recorded.
func (m *Manager) Pause() CommandResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info.State != StateRunning {
		return rejected("cannot pause tournament in state %s", m.info.State)
	}
	m.info.State = StatePaused
	m.gate.pause()
	m.logger.Info("tournament paused")
	return accepted("tournament paused")
}

// Resume restarts dispatch after a pause.
func (m *Manager) Resume() CommandResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info.State != StatePaused {
		return rejected("cannot resume tournament in state %s", m.info.State)
	}
	m.info.State = StateRunning
	m.gate.resume()
	m.logger.Info("tournament resumed")
	return accepted("tournament resumed")
}

// Stop cancels every in-flight match, drains the engine, and marks the
// tournament Aborted with partial results preserved.
func (m *Manager) Stop() CommandResult {
	m.mu.Lock()
	if m.info.State != StateRunning && m.info.State != StatePaused {
		state := m.info.State
		m.mu.Unlock()
		return rejected("cannot stop tournament in state %s", state)
	}
	m.info.State = StateStopping
	m.gate.resume() // unblock dispatchers so they observe cancellation
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	m.logger.Info("tournament stopping")
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return accepted("tournament aborted")
}

// Rerun resets a finished tournament back to NotStarted.
func (m *Manager) Rerun() CommandResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info.State != StateCompleted && m.info.State != StateAborted {
		return rejected("cannot rerun tournament in state %s", m.info.State)
	}
	m.reset(m.info.Bots)
	m.logger.Info("tournament reset for rerun")
	return accepted("tournament reset")
}

// Clear resets the tournament from any non-active state.
func (m *Manager) Clear() CommandResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info.State == StateRunning || m.info.State == StatePaused || m.info.State == StateStopping {
		return rejected("cannot clear tournament in state %s", m.info.State)
	}
	m.reset(m.info.Bots)
	return accepted("tournament cleared")
}

// Wait blocks until the current run finishes. It returns immediately when no
// run was started.
func (m *Manager) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info.State
}

// Info returns a snapshot of the tournament record.
func (m *Manager) Info() TournamentInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Rankings returns the current standings ordered by the ranking key.
func (m *Manager) Rankings() []scoring.Standing {
	return m.table.Rankings()
}

// Groups returns the group assignments with their current rankings.
func (m *Manager) Groups() []Group {
	m.mu.Lock()
	engine := m.engine
	m.mu.Unlock()
	if engine == nil {
		return nil
	}
	return engine.groupSnapshot()
}

func (m *Manager) snapshotLocked() TournamentInfo {
	info := m.info
	info.Bots = append([]string(nil), m.info.Bots...)
	info.MatchResults = append([]arena.MatchResult(nil), m.info.MatchResults...)
	if m.info.EndTime != nil {
		end := *m.info.EndTime
		info.EndTime = &end
	}
	return info
}

// bot resolves a roster entry; the engine schedules by team name only.
func (m *Manager) bot(name string) arena.Bot {
	return m.bots[name]
}

// dispatch runs one match under the parallelism semaphore. Pause is observed
// here, at the point of slot acquisition: a paused tournament blocks new
// dispatches while in-flight matches finish.
func (m *Manager) dispatch(ctx context.Context, play func(ctx context.Context) arena.MatchResult) (arena.MatchResult, error) {
	for {
		if err := m.gate.wait(ctx); err != nil {
			return arena.MatchResult{}, err
		}
		if err := m.sem.Acquire(ctx, 1); err != nil {
			return arena.MatchResult{}, err
		}
		if m.gate.isOpen() {
			break
		}
		// Paused while queued on the semaphore; give the slot back.
		m.sem.Release(1)
	}
	defer m.sem.Release(1)

	result := play(ctx)
	m.pace(ctx, result.Duration)
	return result, nil
}

// pace inserts the optional per-match delay. Matches faster than the
// fast-match threshold are never delayed, and the delay is capped by the
// threshold so the core cannot slow a tournament by more than that.
func (m *Manager) pace(ctx context.Context, matchDuration time.Duration) {
	if m.settings == nil || m.settings.PacingDelay <= 0 {
		return
	}
	threshold := m.settings.FastMatchThreshold
	if matchDuration < threshold {
		return
	}
	delay := m.settings.PacingDelay
	if delay > threshold {
		delay = threshold
	}

	timer := m.clock.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// recordMatch appends a result and applies scoring inside the critical
// section, then publishes the corresponding events.
func (m *Manager) recordMatch(round int, groupLabel string, res arena.MatchResult) {
	m.mu.Lock()
	m.info.MatchResults = append(m.info.MatchResults, res)
	m.matchesCompleted++
	completed, total := m.matchesCompleted, m.matchesTotal
	if res.Outcome != arena.Unknown {
		if err := m.table.Apply(res); err != nil {
			m.logger.Error("failed to score match", "match", res.MatchID, "error", err)
		}
	}
	info := m.info
	m.mu.Unlock()

	m.pub.PublishMatchCompleted(events.MatchCompleted{
		TournamentID: info.TournamentID,
		GameType:     info.GameType,
		GroupLabel:   groupLabel,
		Round:        round,
		Result:       res,
	})
	m.pub.PublishStandingsUpdated(events.StandingsUpdated{
		TournamentID: info.TournamentID,
		GameType:     info.GameType,
		GroupLabel:   groupLabel,
		Rankings:     m.table.Rankings(),
	})
	m.pub.PublishTournamentProgressUpdated(events.TournamentProgress{
		TournamentID:     info.TournamentID,
		MatchesCompleted: completed,
		MatchesTotal:     total,
	})
}

// pauseGate blocks dispatchers while the tournament is paused.
type pauseGate struct {
	mu   sync.Mutex
	open chan struct{}
}

func newPauseGate() *pauseGate {
	g := &pauseGate{open: make(chan struct{})}
	close(g.open)
	return g
}

func (g *pauseGate) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
	default:
		// already paused
	}
}

func (g *pauseGate) resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		// already open
	default:
		close(g.open)
	}
}

func (g *pauseGate) isOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		return true
	default:
		return false
	}
}

// wait blocks until the gate is open or the context is cancelled.
func (g *pauseGate) wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		open := g.open
		g.mu.Unlock()
		select {
		case <-open:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
