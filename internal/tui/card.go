package tui

import (
	"strings"

	"github.com/fintracker/fintrack/pkg/domain"
)

// maxCardBenefits caps the benefits listed on a compact card.
const maxCardBenefits = 3

// renderFinanceCard renders the compact card for a finance method. Admin
// controls are only listed when admin is true.
func renderFinanceCard(m domain.FinanceMethod, selected, admin bool, width int) string {
	var b strings.Builder
	color := categoryColors[m.Category]
	if color == "" {
		color = "#505868"
	}
	if selected {
		color = "#2dd4bf"
	}

	b.WriteString(cardBorder("top", string(m.Category), color, width) + "\n")

	titleStyle := normalStyle.Bold(true)
	if selected {
		titleStyle = selectedStyle
	}
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	b.WriteString(" │ " + titleStyle.Render(truncStr(oneLine(m.Title), inner)) + "\n")
	if m.Description != "" {
		b.WriteString(" │ " + dimStyle.Render(truncStr(oneLine(m.Description), inner)) + "\n")
	}
	for i, benefit := range m.Benefits {
		if i == maxCardBenefits {
			b.WriteString(" │ " + metaStyle.Render("…") + "\n")
			break
		}
		b.WriteString(" │ " + successStyle.Render("✓ ") + normalStyle.Render(truncStr(benefit, inner-2)) + "\n")
	}
	if admin {
		b.WriteString(" │ " + adminBadgeStyle.Render("admin") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "\n")
	}
	b.WriteString(cardBorder("bottom", "", color, width) + "\n")
	return b.String()
}
