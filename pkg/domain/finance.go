package domain

import (
	"strings"
	"time"
)

// Category groups finance methods.
type Category string

const (
	CategoryBudgeting       Category = "Budgeting"
	CategorySaving          Category = "Saving"
	CategoryInvestment      Category = "Investment"
	CategoryDebtManagement  Category = "Debt Management"
	CategoryExpenseTracking Category = "Expense Tracking"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBudgeting,
	CategorySaving,
	CategoryInvestment,
	CategoryDebtManagement,
	CategoryExpenseTracking,
}

// ValidCategory returns true if c is a known category.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// FinanceMethod is a published personal-finance technique.
type FinanceMethod struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Methodology string    `json:"methodology"`
	Benefits    []string  `json:"benefits,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FinanceMethodInput is the editable shape sent on create and update.
type FinanceMethodInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Methodology string   `json:"methodology"`
	Benefits    []string `json:"benefits"`
	ImageURL    string   `json:"imageUrl"`
}

// ParseBenefits splits newline-delimited text into trimmed, non-empty
// benefit lines, preserving order.
func ParseBenefits(text string) []string {
	benefits := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			benefits = append(benefits, line)
		}
	}
	return benefits
}

// FormatBenefits is the inverse of ParseBenefits, used to seed an edit form.
func FormatBenefits(benefits []string) string {
	return strings.Join(benefits, "\n")
}
