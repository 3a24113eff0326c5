// Package sink persists tournament output. The engine never talks to a sink
// directly; a Recorder adapts one onto the event stream.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/events"
	"github.com/botarena/botarena/internal/fileutil"
	"github.com/botarena/botarena/internal/scoring"
)

// Sink stores match results and per-tournament summaries.
type Sink interface {
	SaveMatch(res arena.MatchResult) error
	SaveSummary(sum TournamentSummary) error
	Close() error
}

// TournamentSummary is the terminal record of one tournament.
type TournamentSummary struct {
	TournamentID string             `json:"tournament_id"`
	GameType     arena.GameType     `json:"game_type"`
	State        string             `json:"state"`
	Rankings     []scoring.Standing `json:"rankings"`
	Statistics   scoring.Statistics `json:"statistics"`
	SavedAt      time.Time          `json:"saved_at"`
}

// NoOp discards everything.
type NoOp struct{}

func (NoOp) SaveMatch(arena.MatchResult) error   { return nil }
func (NoOp) SaveSummary(TournamentSummary) error { return nil }
func (NoOp) Close() error                        { return nil }

// FileSink appends match results to matches.jsonl under dir and writes one
// summary file per tournament. Summaries are written atomically so a crashed
// run never leaves a torn file.
type FileSink struct {
	dir string

	mu      sync.Mutex
	matches *os.File
}

// NewFileSink creates dir if needed and opens the match log for append.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sink dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "matches.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open match log: %w", err)
	}
	return &FileSink{dir: dir, matches: f}, nil
}

func (s *FileSink) SaveMatch(res arena.MatchResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal match result: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.matches.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append match result: %w", err)
	}
	return nil
}

func (s *FileSink) SaveSummary(sum TournamentSummary) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	name := fmt.Sprintf("summary-%s-%s.json", sum.GameType, sum.TournamentID)
	return fileutil.WriteFileAtomic(filepath.Join(s.dir, name), data, 0o644)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches.Close()
}

// Recorder adapts a Sink onto the publisher capability set: match and
// tournament completions are persisted, everything else is ignored.
type Recorder struct {
	*events.NoOp
	sink Sink
}

func NewRecorder(sink Sink) *Recorder {
	return &Recorder{NoOp: events.NewNoOp(), sink: sink}
}

func (r *Recorder) PublishMatchCompleted(ev events.MatchCompleted) error {
	return r.sink.SaveMatch(ev.Result)
}

func (r *Recorder) PublishTournamentCompleted(ev events.TournamentCompleted) error {
	return r.sink.SaveSummary(TournamentSummary{
		TournamentID: ev.TournamentID,
		GameType:     ev.GameType,
		State:        ev.State,
		Rankings:     ev.Rankings,
		Statistics:   ev.Statistics,
		SavedAt:      time.Now(),
	})
}
