package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBot plays from fixed reply functions; nil functions block until the
// call context is done.
type stubBot struct {
	name   string
	rpsls  func(state arena.GameState) (string, error)
	blotto func(state arena.GameState) ([]int, error)
	kick   func(state arena.GameState) (string, error)
	target func(state arena.GameState) (string, error)
}

func (b *stubBot) TeamName() string { return b.name }

func (b *stubBot) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	if b.rpsls == nil {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return b.rpsls(state)
}

func (b *stubBot) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	if b.blotto == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return b.blotto(state)
}

func (b *stubBot) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	if b.kick == nil {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return b.kick(state)
}

func (b *stubBot) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	if b.target == nil {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return b.target(state)
}

func constRPSLS(name, move string) *stubBot {
	return &stubBot{name: name, rpsls: func(arena.GameState) (string, error) { return move, nil }}
}

func testConfig() arena.TournamentConfig {
	cfg := arena.DefaultConfig()
	cfg.MoveTimeout = 100 * time.Millisecond
	cfg.MaxRoundsRPSLS = 5
	return cfg
}

func TestRPSLSDecidedMatch(t *testing.T) {
	res := NewRPSLS().Execute(context.Background(), constRPSLS("rocky", "rock"), constRPSLS("pepper", "paper"), testConfig())

	assert.Equal(t, arena.Player2Wins, res.Outcome)
	assert.Equal(t, "pepper", res.WinnerName)
	assert.Equal(t, 0, res.Bot1Score)
	assert.Equal(t, 5, res.Bot2Score)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.MatchID)
	assert.NotEmpty(t, res.MatchLog)
}

func TestRPSLSDraw(t *testing.T) {
	res := NewRPSLS().Execute(context.Background(), constRPSLS("a", "spock"), constRPSLS("b", "spock"), testConfig())

	assert.Equal(t, arena.Draw, res.Outcome)
	assert.Empty(t, res.WinnerName)
}

func TestRPSLSNormalizesMoves(t *testing.T) {
	res := NewRPSLS().Execute(context.Background(), constRPSLS("a", "  ROCK "), constRPSLS("b", "scissors"), testConfig())

	assert.Equal(t, arena.Player1Wins, res.Outcome)
}

func TestRPSLSInvalidMove(t *testing.T) {
	res := NewRPSLS().Execute(context.Background(), constRPSLS("a", "dynamite"), constRPSLS("b", "rock"), testConfig())

	assert.Equal(t, arena.Player1Error, res.Outcome)
	assert.Equal(t, "b", res.WinnerName)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "invalid move")
}

func TestRPSLSTimeout(t *testing.T) {
	stall := &stubBot{name: "sleepy"}
	res := NewRPSLS().Execute(context.Background(), stall, constRPSLS("b", "rock"), testConfig())

	assert.Equal(t, arena.Player1Error, res.Outcome)
	assert.Equal(t, "b", res.WinnerName)
	assert.Contains(t, res.Errors, arena.TokenTimeout)
	assert.True(t, res.HasTimeout())
}

func TestRPSLSBothError(t *testing.T) {
	boom := func(arena.GameState) (string, error) { return "", errors.New("boom") }
	res := NewRPSLS().Execute(context.Background(),
		&stubBot{name: "a", rpsls: boom},
		&stubBot{name: "b", rpsls: boom},
		testConfig())

	assert.Equal(t, arena.BothError, res.Outcome)
	assert.Empty(t, res.WinnerName)
	assert.Len(t, res.Errors, 2)
}

func TestRPSLSPanicIsMoveError(t *testing.T) {
	res := NewRPSLS().Execute(context.Background(),
		&stubBot{name: "a", rpsls: func(arena.GameState) (string, error) { panic("kaboom") }},
		constRPSLS("b", "rock"),
		testConfig())

	assert.Equal(t, arena.Player1Error, res.Outcome)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "bot panic")
}

func TestRPSLSCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewRPSLS().Execute(ctx, constRPSLS("a", "rock"), constRPSLS("b", "rock"), testConfig())

	assert.Equal(t, arena.Unknown, res.Outcome)
	assert.Contains(t, res.Errors, arena.TokenCancelled)
}

func TestRPSLSHistoryVisibleToBots(t *testing.T) {
	var seen arena.GameState
	recorder := &stubBot{name: "a", rpsls: func(state arena.GameState) (string, error) {
		seen = state
		return "rock", nil
	}}
	NewRPSLS().Execute(context.Background(), recorder, constRPSLS("b", "paper"), testConfig())

	assert.Equal(t, 4, len(seen.MyMoveHistory))
	assert.Equal(t, 4, len(seen.OpponentMoveHistory))
	assert.Equal(t, 8, len(seen.MoveHistory))
	assert.Equal(t, "paper", seen.OpponentMoveHistory[3])
	assert.Equal(t, 5, seen.CurrentRound)
	assert.Equal(t, 5, seen.MaxRounds)
}

func TestBlottoMajorityScoring(t *testing.T) {
	strong := &stubBot{name: "strong", blotto: func(arena.GameState) ([]int, error) {
		return []int{30, 30, 30, 5, 5}, nil
	}}
	even := &stubBot{name: "even", blotto: func(arena.GameState) ([]int, error) {
		return []int{20, 20, 20, 20, 20}, nil
	}}

	res := NewColonelBlotto().Execute(context.Background(), strong, even, testConfig())

	// strong takes three battlefields every round.
	assert.Equal(t, arena.Player1Wins, res.Outcome)
	assert.Equal(t, 10, res.Bot1Score)
	assert.Equal(t, 0, res.Bot2Score)
}

func TestBlottoInvalidAllocation(t *testing.T) {
	tests := []struct {
		name  string
		alloc []int
	}{
		{"wrong length", []int{50, 50}},
		{"wrong sum", []int{10, 10, 10, 10, 10}},
		{"negative", []int{120, -20, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := &stubBot{name: "bad", blotto: func(arena.GameState) ([]int, error) {
				return tt.alloc, nil
			}}
			good := &stubBot{name: "good", blotto: func(arena.GameState) ([]int, error) {
				return []int{20, 20, 20, 20, 20}, nil
			}}
			res := NewColonelBlotto().Execute(context.Background(), bad, good, testConfig())

			assert.Equal(t, arena.Player1Error, res.Outcome)
			assert.Equal(t, "good", res.WinnerName)
			require.NotEmpty(t, res.Errors)
			assert.Contains(t, res.Errors[0], "invalid move")
		})
	}
}

func TestPenaltyKicksRoles(t *testing.T) {
	// reader always kicks left but guards right; wall always plays left.
	// reader's shots are saved, wall's shots always score.
	reader := &stubBot{name: "reader", kick: func(state arena.GameState) (string, error) {
		if state.State["role"] == RoleShooter {
			return "left", nil
		}
		return "right", nil
	}}
	wall := &stubBot{name: "wall", kick: func(arena.GameState) (string, error) {
		return "left", nil
	}}

	res := NewPenaltyKicks().Execute(context.Background(), reader, wall, testConfig())

	assert.Equal(t, arena.Player2Wins, res.Outcome)
	assert.Equal(t, 0, res.Bot1Score)
	assert.Equal(t, 5, res.Bot2Score)
}

func TestSecurityGameRoles(t *testing.T) {
	// mirror defends the exact target stubborn attacks, so stubborn never
	// breaches; on offense mirror picks a different target every time.
	stubborn := &stubBot{name: "stubborn", target: func(arena.GameState) (string, error) {
		return "server", nil
	}}
	mirror := &stubBot{name: "mirror", target: func(state arena.GameState) (string, error) {
		if state.State["role"] == RoleDefender {
			return "server", nil
		}
		return "vault", nil
	}}

	res := NewSecurityGame().Execute(context.Background(), stubborn, mirror, testConfig())

	assert.Equal(t, arena.Player2Wins, res.Outcome)
	assert.Equal(t, 0, res.Bot1Score)
	assert.Equal(t, 5, res.Bot2Score)
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	games := reg.Games()
	assert.Len(t, games, 4)

	for _, gt := range arena.AllGames() {
		exec, ok := reg.Lookup(gt)
		require.True(t, ok, "missing executor for %s", gt)
		assert.Equal(t, gt, exec.GameType())
	}

	_, ok := reg.Lookup(arena.GameType("chess"))
	assert.False(t, ok)
}
