package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/output"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	liveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	title := titleStyle.Render("WatchParty")
	if m.loading {
		title += " " + m.spinner.View()
	}
	b.WriteString(title + "\n\n")

	data := m.dash.Data()
	if m.err != nil {
		b.WriteString(errStyle.Render("Error: "+m.err.Error()) + "\n")
		if data.HasData {
			b.WriteString(mutedStyle.Render("Showing the last loaded data.") + "\n")
		}
		b.WriteString("\n")
	}

	if !data.HasData {
		if !m.loading && m.err == nil {
			b.WriteString(mutedStyle.Render("Nothing to show yet.") + "\n")
		}
		b.WriteString("\n" + m.help.View(m.keys))
		return b.String()
	}

	d := data.Data
	if d.ShowWelcome {
		b.WriteString(fmt.Sprintf("Welcome, %s! Press r after creating your first party.\n\n", d.User.DisplayName()))
	}

	left := section("Overview", formatter.Dashboard(d.User, d.Stats))
	right := ""
	if live := m.dash.Live(); live.HasData {
		right = section(liveStyle.Render("● Live"), formatter.Realtime(live.Data))
	}
	if right != "" {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), " ", panelStyle.Render(right)))
	} else {
		b.WriteString(panelStyle.Render(left))
	}
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Recent parties") + "\n")
	if len(d.RecentParties) == 0 {
		b.WriteString(mutedStyle.Render("  No recent parties.") + "\n")
	}
	for _, p := range d.RecentParties {
		b.WriteString(fmt.Sprintf("  %-10s %-32s %3d watching\n",
			p.Status, formatter.Truncate(p.Title, 32), p.ParticipantCount))
	}

	if !m.lastUpdated.IsZero() {
		b.WriteString("\n" + mutedStyle.Render("Updated "+m.lastUpdated.Format("15:04:05")))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func section(title string, fields []output.Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Key))
	}
	lines := []string{headerStyle.Render(title)}
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s  %v", keyStyle.Render(fmt.Sprintf("%-*s", width, f.Key)), f.Value))
	}
	return strings.Join(lines, "\n")
}
