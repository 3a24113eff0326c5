package match

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/bots"
	"github.com/botarena/botarena/internal/games"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := arena.DefaultConfig()
	cfg.MoveTimeout = 100 * time.Millisecond
	cfg.MaxRoundsRPSLS = 5
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewRunner(games.DefaultRegistry(), cfg, logger)
}

func TestExecuteProducesResult(t *testing.T) {
	r := testRunner(t)
	bot1 := bots.NewFixed("rocky")
	bot2 := bots.NewRandom("chaos", 42)

	res := r.Execute(context.Background(), bot1, bot2, arena.GameRPSLS)

	assert.Equal(t, "rocky", res.Bot1Name)
	assert.Equal(t, "chaos", res.Bot2Name)
	assert.Equal(t, arena.GameRPSLS, res.GameType)
	assert.NotEqual(t, arena.Unknown, res.Outcome)
	assert.NotEmpty(t, res.MatchID)
}

func TestExecuteUnknownGame(t *testing.T) {
	r := testRunner(t)

	res := r.Execute(context.Background(), bots.NewFixed("a"), bots.NewFixed("b"), arena.GameType("chess"))

	assert.Equal(t, arena.Unknown, res.Outcome)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "no executor")
}

func TestExecutePreCancelled(t *testing.T) {
	r := testRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Execute(ctx, bots.NewFixed("a"), bots.NewFixed("b"), arena.GameRPSLS)

	assert.Equal(t, arena.Unknown, res.Outcome)
	assert.Contains(t, res.Errors, arena.TokenCancelled)
}

func TestExecutePanickingBot(t *testing.T) {
	r := testRunner(t)

	res := r.Execute(context.Background(), bots.NewPanicking("grenade"), bots.NewFixed("b"), arena.GameRPSLS)

	// A panicking bot loses; the runner and executor must survive.
	assert.Equal(t, arena.Player1Error, res.Outcome)
	assert.Equal(t, "b", res.WinnerName)
}

func TestExecuteStallingBotTimesOut(t *testing.T) {
	r := testRunner(t)

	res := r.Execute(context.Background(), bots.NewFixed("a"), bots.NewStalling("snail"), arena.GameRPSLS)

	assert.Equal(t, arena.Player2Error, res.Outcome)
	assert.Equal(t, "a", res.WinnerName)
	assert.True(t, res.HasTimeout())
}
