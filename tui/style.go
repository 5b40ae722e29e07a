package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	styleClash = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleStagger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Bold(true)

	styleOutcome = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleDetail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	stylePanelTitle = lipgloss.NewStyle().Bold(true)

	styleHPBar      = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	styleStaggerBar = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindTurn
	kindClash
	kindDamage
	kindStagger
	kindOutcome
	kindSystem
	kindError
	kindDetail
)

// classifyLine determines what kind of combat log line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "  "):
		return kindDetail
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Turn "):
		return kindTurn
	case strings.Contains(line, " wins after "),
		strings.HasPrefix(line, "Both units fell"),
		strings.HasPrefix(line, "No winner"):
		return kindOutcome
	case strings.HasPrefix(line, "Can't do that"),
		strings.HasPrefix(line, "Not now"),
		strings.HasPrefix(line, "I don't know"),
		strings.HasPrefix(line, "No turn in progress"):
		return kindError
	case strings.HasSuffix(line, "is staggered"),
		strings.HasSuffix(line, "has fallen"):
		return kindStagger
	case strings.Contains(line, " damage"):
		return kindDamage
	case strings.Contains(line, "clashes with"),
		strings.Contains(line, "wins the clash"),
		strings.HasPrefix(line, "draw at"):
		return kindClash
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindClash:
		return styleClash.Render(line)
	case kindDamage:
		return styleDamage.Render(line)
	case kindStagger:
		return styleStagger.Render(line)
	case kindOutcome:
		return styleOutcome.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindDetail:
		return styleDetail.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

// gauge draws a fixed-width bar for cur out of max.
func gauge(cur, max, width int) string {
	if width < 1 {
		return ""
	}
	filled := 0
	if max > 0 && cur > 0 {
		filled = cur * width / max
		if filled == 0 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
