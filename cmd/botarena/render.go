package main

import (
	"fmt"
	"strings"

	"github.com/botarena/botarena/internal/scoring"
	"github.com/botarena/botarena/internal/tournament"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#626262"))
	winnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// printReport renders per-step standings and the cumulative series score
// after the series has finished.
func printReport(s *tournament.Series) {
	for _, mgr := range stepManagers(s) {
		info := mgr.Info()
		fmt.Println()
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s)", info.GameType, info.State)))
		fmt.Print(renderStandings(mgr.Rankings()))
	}

	standings := s.Standings()
	if len(standings) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render("Series standings"))
	fmt.Println(headerStyle.Render(fmt.Sprintf("%-4s %-24s %s", "#", "Team", "Score")))
	for _, st := range standings {
		line := fmt.Sprintf("%-4d %-24s %d", st.Rank, st.TeamName, st.CumulativeScore)
		if st.Rank == 1 {
			line = winnerStyle.Render(line)
		}
		fmt.Println(line)
	}
}

func renderStandings(rankings []scoring.Standing) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-24s %-6s %-4s %-4s %-4s %-8s %s",
		"#", "Team", "Score", "W", "L", "D", "OppPts", "Errors")))
	b.WriteString("\n")
	for _, st := range rankings {
		line := fmt.Sprintf("%-4d %-24s %-6d %-4d %-4d %-4d %-8d %d",
			st.FinalPlacement, st.TeamName, st.TotalScore,
			st.Wins, st.Losses, st.Draws, st.TotalOpponentScore, st.ErrorCount)
		switch {
		case st.FinalPlacement == 1:
			line = winnerStyle.Render(line)
		case st.ErrorCount > 0:
			line = dimStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func stepManagers(s *tournament.Series) []*tournament.Manager {
	var out []*tournament.Manager
	for _, step := range s.Steps() {
		if step.Manager != nil {
			out = append(out, step.Manager)
		}
	}
	return out
}
