package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/clashcore/cli"
	"github.com/nathoo/clashcore/engine"
	"github.com/nathoo/clashcore/types"
)

// panelHeight is the rendered height of the unit panels, borders included.
const panelHeight = 7

// renderStatusBar produces a full-width inverted status line showing the
// matchup, turn and phase.
func (m Model) renderStatusBar() string {
	c := m.session.Combat

	left := fmt.Sprintf(" %s vs %s", c.Left.Name, c.Right.Name)
	phase := string(c.Phase)
	if c.Phase == engine.PhaseActions {
		phase = fmt.Sprintf("actions %d/%d", c.Next, len(c.Actions))
	}
	right := fmt.Sprintf("%s | T:%d ", phase, c.Turn)
	if m.session.Trace {
		right = "trace | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderPanels draws both units side by side.
func (m Model) renderPanels() string {
	c := m.session.Combat
	w := m.width/2 - 2 // border and padding eat into each half
	if w < 20 {
		w = 20
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderPanel(c.Left, w),
		renderPanel(c.Right, w))
}

// renderPanel shows one unit's resources, statuses and slots.
func renderPanel(u *types.Unit, width int) string {
	inner := width - 2
	barWidth := inner - 20
	if barWidth < 4 {
		barWidth = 4
	}

	lines := []string{
		stylePanelTitle.Render(truncate(u.Name, inner)),
		fmt.Sprintf("HP  %s %d/%d", styleHPBar.Render(gauge(u.HP, u.MaxHP, barWidth)), u.HP, u.MaxHP),
		fmt.Sprintf("STG %s %d/%d", styleStaggerBar.Render(gauge(u.Stagger, u.MaxStagger, barWidth)), u.Stagger, u.MaxStagger),
		truncate(fmt.Sprintf("SP %d/%d  %s", u.SP, u.MaxSP, cli.StatusSummary(u)), inner),
		truncate(slotSummary(u), inner),
	}
	return stylePanel.Width(width).Render(strings.Join(lines, "\n"))
}

// slotSummary lists the unit's speed slots for the current turn.
func slotSummary(u *types.Unit) string {
	if len(u.Slots) == 0 {
		return "Slots: -"
	}
	parts := make([]string, 0, len(u.Slots))
	for _, s := range u.Slots {
		switch {
		case s.Stunned:
			parts = append(parts, "X")
		case s.Card == nil:
			parts = append(parts, fmt.Sprintf("%d:-", s.Speed))
		default:
			parts = append(parts, fmt.Sprintf("%d:%s>%d", s.Speed, s.Card.Name, s.Target))
		}
	}
	return "Slots: " + strings.Join(parts, " ")
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		r = r[:width]
	}
	return string(r)
}
