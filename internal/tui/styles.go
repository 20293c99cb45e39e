package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintracker/fintrack/pkg/domain"
)

// Shimmer animation for the FINTRACK logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "F I N T R A C K" as a slow wave running from
// deep teal (#134e4a) to mint (#5eead4).
func renderShimmerLogo(frame int) string {
	const text = "FINTRACK"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.08 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = b*0.8 + 0.15
		if b > 1.0 {
			b = 1.0
		}

		r := clampByte(19 + b*(94-19))
		g := clampByte(78 + b*(234-78))
		bl := clampByte(74 + b*(212-74))
		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		out.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#14b8a6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#14b8a6")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	adminBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24")).
			Bold(true)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Markdown
	mdHeadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf")).
			Bold(true)

	mdCodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8a84c"))

	mdLinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0")).
			Underline(true)

	categoryColors = map[domain.Category]lipgloss.Color{
		domain.CategoryBudgeting:       lipgloss.Color("#60a0e0"),
		domain.CategorySaving:          lipgloss.Color("#4ade80"),
		domain.CategoryInvestment:      lipgloss.Color("#c084e0"),
		domain.CategoryDebtManagement:  lipgloss.Color("#f0944a"),
		domain.CategoryExpenseTracking: lipgloss.Color("#3ecce4"),
	}
)

// CategoryStyle returns a bold style colored for the given category.
func CategoryStyle(c domain.Category) lipgloss.Style {
	if col, ok := categoryColors[c]; ok {
		return lipgloss.NewStyle().Foreground(col).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// StatusStyle colors an inquiry status.
func StatusStyle(s domain.ContactStatus) lipgloss.Style {
	if s == domain.StatusResolved {
		return successStyle
	}
	return warnStyle
}

func noticeStyle(kind noticeKind) lipgloss.Style {
	switch kind {
	case noticeSuccess:
		return successStyle
	case noticeError:
		return errorStyle
	default:
		return dimStyle
	}
}

// cardBorder renders the top or bottom border of a finance card.
// pos: "top" or "bottom". label: optional header text (top only).
func cardBorder(pos, label string, color lipgloss.Color, width int) string {
	w := width - 4
	if w < 10 {
		w = 10
	}
	style := lipgloss.NewStyle().Foreground(color)

	if pos == "bottom" {
		return style.Render(" └" + strings.Repeat("─", w))
	}
	if label == "" {
		return style.Render(" ┌" + strings.Repeat("─", w))
	}
	header := " ┌ " + label + " "
	remaining := w - lipgloss.Width(header) + 2 // +2 for " ┌"
	if remaining < 1 {
		remaining = 1
	}
	return style.Render(" ┌ ") + CategoryStyle(domain.Category(label)).Render(label) + " " + style.Render(strings.Repeat("─", remaining))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpView renders the help overlay: commands and page keys.
func helpView() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("F I N T R A C K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Practical methods for budgeting, saving and investing.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"fintrack", "Open the interactive client"},
		{"fintrack login", "Log in with email and password"},
		{"fintrack register", "Create an account"},
		{"fintrack logout", "Forget the stored session"},
		{"fintrack whoami", "Show the logged-in profile"},
		{"fintrack version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-5", "switch page"},
		{"j/k", "move"},
		{"enter", "open"},
		{"/", "search methods"},
		{"t", "cycle category"},
		{"n e d", "new, edit, delete (admin)"},
		{"c", "copy"},
		{"o", "open image in browser"},
		{"esc", "back"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)
	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
