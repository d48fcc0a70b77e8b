package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E23636")).
			Padding(1, 2)

	finishedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#00AA55")).
			Padding(1, 2)

	progressBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#00FF00"))

	// noteColors keys one color per natural note name.
	noteColors = map[byte]string{
		'C': "#E8D6B0",
		'D': "#A020F0",
		'E': "#FFFF00",
		'F': "#FFA500",
		'G': "#00FF00",
		'A': "#FF0000",
		'B': "#0000FF",
	}
)

// noteBoxStyle picks the target-note box color from its natural letter,
// falling back to a neutral color once the song is between notes.
func noteBoxStyle(note string) lipgloss.Style {
	base := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(1, 3).
		MarginBottom(1)

	if note == "" {
		return base.Background(lipgloss.Color("#333333"))
	}
	color, ok := noteColors[note[0]]
	if !ok {
		color = "#333333"
	}
	return base.Background(lipgloss.Color(color))
}
