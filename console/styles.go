package console

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	warning  lipgloss.Style
	camera   lipgloss.Style
	offline  lipgloss.Style
	gameOver lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warning:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		camera:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		offline:  r.NewStyle().Foreground(lipgloss.Color("8")),
		gameOver: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		failure:  r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
