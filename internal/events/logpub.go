package events

import (
	"github.com/charmbracelet/log"
)

// LogPublisher writes a line per event. It is the default transport for the
// CLI when no websocket listener is configured.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.WithPrefix("events")}
}

func (p *LogPublisher) PublishMatchCompleted(ev MatchCompleted) error {
	p.logger.Info("match completed",
		"game", ev.GameType,
		"group", ev.GroupLabel,
		"round", ev.Round,
		"bot1", ev.Result.Bot1Name,
		"bot2", ev.Result.Bot2Name,
		"outcome", ev.Result.Outcome,
		"winner", ev.Result.WinnerName)
	return nil
}

func (p *LogPublisher) PublishStandingsUpdated(ev StandingsUpdated) error {
	if len(ev.Rankings) > 0 {
		leader := ev.Rankings[0]
		p.logger.Debug("standings updated",
			"game", ev.GameType,
			"group", ev.GroupLabel,
			"leader", leader.TeamName,
			"score", leader.TotalScore)
	}
	return nil
}

func (p *LogPublisher) PublishRoundStarted(ev RoundStarted) error {
	p.logger.Info("round started",
		"game", ev.GameType,
		"round", ev.Round,
		"of", ev.TotalRounds,
		"matches", ev.Matches)
	return nil
}

func (p *LogPublisher) PublishEventStarted(ev EventStarted) error {
	p.logger.Info("event started", "series", ev.SeriesName, "step", ev.StepIndex, "game", ev.GameType)
	return nil
}

func (p *LogPublisher) PublishEventCompleted(ev EventCompleted) error {
	p.logger.Info("event completed", "series", ev.SeriesName, "step", ev.StepIndex, "game", ev.GameType)
	return nil
}

func (p *LogPublisher) PublishEventStepCompleted(ev EventStepCompleted) error {
	p.logger.Info("event step completed",
		"series", ev.SeriesName,
		"step", ev.StepIndex,
		"game", ev.GameType,
		"status", ev.Status)
	return nil
}

func (p *LogPublisher) PublishTournamentStarted(ev TournamentStarted) error {
	p.logger.Info("tournament started",
		"tournament", ev.TournamentID,
		"game", ev.GameType,
		"bots", len(ev.Bots),
		"rounds", ev.TotalRounds)
	return nil
}

func (p *LogPublisher) PublishTournamentProgressUpdated(ev TournamentProgress) error {
	if ev.Message != "" {
		p.logger.Info(ev.Message, "starts_in", ev.StartsIn)
		return nil
	}
	p.logger.Debug("tournament progress", "completed", ev.MatchesCompleted, "total", ev.MatchesTotal)
	return nil
}

func (p *LogPublisher) PublishTournamentCompleted(ev TournamentCompleted) error {
	p.logger.Info("tournament completed",
		"tournament", ev.TournamentID,
		"game", ev.GameType,
		"state", ev.State,
		"matches", ev.Statistics.TotalMatches)
	return nil
}

func (p *LogPublisher) UpdateCurrentState(state StateSnapshot) error {
	p.logger.Debug("state updated", "series", state.SeriesName, "step", state.CurrentStepIndex)
	return nil
}
