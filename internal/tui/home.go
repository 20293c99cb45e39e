package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintracker/fintrack/internal/logging"
	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

// featuredCount is how many methods the Home page features.
const featuredCount = 3

type featuredLoadedMsg struct {
	methods []domain.FinanceMethod
	err     error
}

type homeSection struct {
	title string
	items [][2]string
}

var homeSections = []homeSection{
	{"Why Financial Management Matters", [][2]string{
		{"Track Your Spending", "Monitor where your money goes and identify areas for improvement"},
		{"Build Wealth", "Create sustainable savings habits and grow your financial portfolio"},
		{"Achieve Goals", "Set financial goals and track progress with actionable insights"},
		{"Secure Future", "Plan for retirement and emergencies with confidence"},
	}},
	{"Benefits of Financial Planning", [][2]string{
		{"Financial Freedom", "Gain independence and reduce financial stress through proper planning and budgeting"},
		{"Smart Investments", "Make informed decisions about where to invest your hard-earned money"},
		{"Risk Management", "Protect yourself and your family from unexpected financial challenges"},
		{"Better Decisions", "Develop skills to make confident financial choices in any situation"},
	}},
	{"Essential Tips for Budgeting & Saving", [][2]string{
		{"Create a Budget", "Track income and expenses to understand your financial situation"},
		{"Emergency Fund", "Save 3-6 months of expenses for unexpected situations"},
		{"Pay Yourself First", "Automate savings before spending on discretionary items"},
		{"Reduce Debt", "Prioritize high-interest debt and create a payoff plan"},
		{"Track Spending", "Review expenses regularly to stay within your budget"},
		{"Invest Wisely", "Start investing early to benefit from compound growth"},
	}},
}

type homeModel struct {
	api      API
	log      logging.Logger
	featured []domain.FinanceMethod
	cursor   int
	offset   int // scroll position in lines
	width    int
	height   int
}

func newHomeModel(api API, log logging.Logger) homeModel {
	return homeModel{api: api, log: log}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		methods, err := api.ListFinanceMethods(context.Background(), client.MethodFilter{})
		return featuredLoadedMsg{methods: methods, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case featuredLoadedMsg:
		if msg.err != nil {
			// The featured section is optional; the page renders without it.
			m.log.Warn(context.Background(), "fetch featured methods", "err", msg.err)
			m.featured = nil
			return m, nil
		}
		m.featured = msg.methods
		if len(m.featured) > featuredCount {
			m.featured = m.featured[:featuredCount]
		}
		if m.cursor >= len(m.featured) {
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.offset++
		case "k", "up":
			if m.offset > 0 {
				m.offset--
			}
		case "l", "right", "tab":
			if len(m.featured) > 0 {
				m.cursor = (m.cursor + 1) % len(m.featured)
			}
		case "h", "left", "shift+tab":
			if len(m.featured) > 0 {
				m.cursor = (m.cursor - 1 + len(m.featured)) % len(m.featured)
			}
		case "enter":
			if m.cursor < len(m.featured) {
				method := m.featured[m.cursor]
				return m, func() tea.Msg { return showMethodMsg{method: method} }
			}
		case "m":
			return m, navigate(viewMethods)
		case "c":
			return m, navigate(viewContact)
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	width := max(m.width-4, 40)
	var b strings.Builder

	center := func(s string) string {
		pad := max((m.width-lipgloss.Width(s))/2, 0)
		return strings.Repeat(" ", pad) + s
	}
	b.WriteString("\n" + center(selectedStyle.Render("Welcome to Finance Tracker")) + "\n")
	b.WriteString(center(dimStyle.Render("Take control of your finances with proven methods and expert guidance")) + "\n")
	b.WriteString(center(helpEntry("m", "explore finance methods")) + "\n\n")

	if len(m.featured) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("FEATURED FINANCE METHODS") + "  " + helpEntry("←/→", "select") + "  " + helpEntry("enter", "open") + "\n")
		for i, fm := range m.featured {
			b.WriteString(renderFinanceCard(fm, i == m.cursor, false, m.width))
		}
		b.WriteString("\n")
	}

	for _, sec := range homeSections {
		b.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(sec.title)) + "\n")
		for _, item := range sec.items {
			line := accentStyle.Render("• ") + normalStyle.Bold(true).Render(item[0]) + dimStyle.Render(" - "+item[1])
			b.WriteString(indentLines(wrap(line, width), " ", "   ") + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(" " + selectedStyle.Render("Ready to Take Control of Your Finances?") + "\n")
	b.WriteString(" " + dimStyle.Render("Start your journey to financial freedom today.") + "  " + helpEntry("c", "get in touch") + "\n")

	lines := strings.Split(b.String(), "\n")
	offset := min(m.offset, max(len(lines)-1, 0))
	return truncateToHeight(strings.Join(lines[offset:], "\n"), m.height)
}

func (m homeModel) helpKeys() string {
	return helpLine("1-5", "pages", "j/k", "scroll", "←/→", "featured", "enter", "open", "?", "help", "q", "quit")
}
