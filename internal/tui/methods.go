package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

// methodsLoadedMsg carries one list fetch. seq identifies the fetch so
// superseded responses can be dropped.
type methodsLoadedMsg struct {
	seq     uint64
	methods []domain.FinanceMethod
	err     error
}

type methodDeletedMsg struct {
	owner view
	id    string
	err   error
}

// methodsModel is the Methods page: filterable list, detail view and the
// admin create/edit/delete flow.
type methodsModel struct {
	api     API
	sess    Session
	methods []domain.FinanceMethod
	cursor  int
	catIdx  int // 0 = all, otherwise 1 + index into domain.Categories
	search  string
	editing bool // typing in search

	seq     uint64
	cancel  context.CancelFunc
	loading bool
	err     error

	detail       *domain.FinanceMethod
	formOpen     bool
	form         methodFormModel
	formSeq      int
	confirmID    string
	confirmTitle string

	width  int
	height int
}

func newMethodsModel(api API, sess Session) methodsModel {
	return methodsModel{api: api, sess: sess}
}

func (m methodsModel) filter() client.MethodFilter {
	f := client.MethodFilter{Search: strings.TrimSpace(m.search)}
	if m.catIdx > 0 {
		f.Category = domain.Categories[m.catIdx-1]
	}
	return f
}

func (m methodsModel) isAdmin() bool {
	return m.sess != nil && m.sess.IsAdmin()
}

// refresh starts a list fetch for the current filter, cancelling any fetch
// still in flight. Only the response to the latest fetch is applied.
func (m methodsModel) refresh() (methodsModel, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true

	api, seq, filter := m.api, m.seq, m.filter()
	return m, func() tea.Msg {
		defer cancel()
		methods, err := api.ListFinanceMethods(ctx, filter)
		return methodsLoadedMsg{seq: seq, methods: methods, err: err}
	}
}

func (m methodsModel) Update(msg tea.Msg) (methodsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case methodsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.cancel = nil
		if msg.err != nil {
			m.err = msg.err
			return m, notify(noticeError, errorText(msg.err, "Failed to fetch finance methods"))
		}
		m.err = nil
		m.methods = msg.methods
		if m.cursor >= len(m.methods) {
			m.cursor = 0
		}
		if m.detail != nil {
			for _, fm := range m.methods {
				if fm.ID == m.detail.ID {
					fresh := fm
					m.detail = &fresh
					break
				}
			}
		}

	case methodSavedMsg:
		current := m.formOpen && msg.formID == m.form.id
		if msg.err != nil {
			if !current {
				return m, notify(noticeError, errorText(msg.err, "Operation failed"))
			}
			m.form, _ = m.form.Update(msg)
			return m, notify(noticeError, m.form.statusMsg)
		}
		// A form closed while saving no longer owns the modal, but the
		// list still changed.
		if current {
			m.formOpen = false
		}
		text := "Finance method updated successfully"
		if msg.created {
			text = "Finance method created successfully"
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, notify(noticeSuccess, text))

	case methodDeletedMsg:
		if msg.err != nil {
			return m, notify(noticeError, errorText(msg.err, "Failed to delete finance method"))
		}
		if m.detail != nil && m.detail.ID == msg.id {
			m.detail = nil
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, notify(noticeSuccess, "Finance method deleted successfully"))

	case tea.KeyMsg:
		switch {
		case m.formOpen:
			if msg.String() == "esc" {
				m.formOpen = false
				return m, nil
			}
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		case m.confirmID != "":
			return m.updateConfirm(msg)
		case m.editing:
			return m.updateSearch(msg)
		case m.detail != nil:
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m methodsModel) updateSearch(msg tea.KeyMsg) (methodsModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
	case "esc":
		m.editing = false
		if m.search != "" {
			m.search = ""
			m.cursor = 0
			return m.refresh()
		}
	default:
		next := editKey(m.search, msg)
		if next != m.search {
			m.search = next
			m.cursor = 0
			return m.refresh()
		}
	}
	return m, nil
}

func (m methodsModel) updateList(msg tea.KeyMsg) (methodsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.methods)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if sel, ok := m.selected(); ok {
			m.detail = &sel
		}
	case "/":
		m.editing = true
	case "t":
		m.catIdx = (m.catIdx + 1) % (len(domain.Categories) + 1)
		m.cursor = 0
		return m.refresh()
	case "r":
		return m.refresh()
	case "c":
		if sel, ok := m.selected(); ok {
			return m, copyCmd("method", methodClipboardText(sel))
		}
	case "o":
		if sel, ok := m.selected(); ok && sel.ImageURL != "" {
			return m, openCmd(sel.ImageURL)
		}
	default:
		if sel, ok := m.selected(); ok {
			return m.adminKey(msg.String(), &sel)
		}
		return m.adminKey(msg.String(), nil)
	}
	return m, nil
}

func (m methodsModel) updateDetail(msg tea.KeyMsg) (methodsModel, tea.Cmd) {
	sel := *m.detail
	switch msg.String() {
	case "esc", "backspace":
		m.detail = nil
	case "c":
		return m, copyCmd("method", methodClipboardText(sel))
	case "o":
		if sel.ImageURL != "" {
			return m, openCmd(sel.ImageURL)
		}
	default:
		return m.adminKey(msg.String(), &sel)
	}
	return m, nil
}

// adminKey handles n/e/d. They are ignored unless the session is an admin.
func (m methodsModel) adminKey(key string, target *domain.FinanceMethod) (methodsModel, tea.Cmd) {
	if !m.isAdmin() {
		return m, nil
	}
	switch key {
	case "n":
		m = m.openForm(newMethodForm(m.api, viewMethods))
	case "e":
		if target != nil {
			m = m.openForm(editMethodForm(m.api, viewMethods, *target))
		}
	case "d":
		if target != nil {
			m.confirmID = target.ID
			m.confirmTitle = target.Title
		}
	}
	return m, nil
}

// openForm shows f as a new form instance. Save results from earlier
// instances are not applied to it.
func (m methodsModel) openForm(f methodFormModel) methodsModel {
	m.formSeq++
	f.id = m.formSeq
	m.form = f
	m.formOpen = true
	return m
}

func (m methodsModel) updateConfirm(msg tea.KeyMsg) (methodsModel, tea.Cmd) {
	id := m.confirmID
	m.confirmID = ""
	m.confirmTitle = ""
	if msg.String() != "y" {
		return m, nil
	}
	api := m.api
	return m, func() tea.Msg {
		err := api.DeleteFinanceMethod(context.Background(), id)
		return methodDeletedMsg{owner: viewMethods, id: id, err: err}
	}
}

func (m methodsModel) selected() (domain.FinanceMethod, bool) {
	if m.cursor < 0 || m.cursor >= len(m.methods) {
		return domain.FinanceMethod{}, false
	}
	return m.methods[m.cursor], true
}

func (m methodsModel) isEditing() bool {
	return m.editing || m.formOpen || m.confirmID != ""
}

// methodClipboardText is what c copies: the title and the methodology.
func methodClipboardText(fm domain.FinanceMethod) string {
	return fm.Title + "\n\n" + fm.Methodology
}

func (m methodsModel) View() string {
	if m.formOpen {
		return m.form.View()
	}
	if m.detail != nil {
		return m.viewDetail(*m.detail)
	}

	var b strings.Builder
	if m.width >= 60 {
		b.WriteString(" " + sectionHeaderStyle.Render("FINANCE MANAGEMENT METHODS") + "  " + dimStyle.Render("Explore proven strategies for managing your finances.") + "\n")
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render("FINANCE MANAGEMENT METHODS") + "\n")
	}

	switch {
	case m.editing:
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	case m.search != "":
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	default:
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	b.WriteString("\n")

	// Category bar
	b.WriteString(" ")
	labels := append([]string{"All"}, categoryNames()...)
	for i, label := range labels {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == m.catIdx {
			if i == 0 {
				b.WriteString(searchStyle.Render(label))
			} else {
				b.WriteString(CategoryStyle(domain.Category(label)).Underline(true).Render(label))
			}
		} else {
			b.WriteString(dimStyle.Render(label))
		}
	}
	b.WriteString("  " + helpKeyStyle.Render("t") + "\n")

	sepW := max(m.width-2, 4)
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.confirmID != "" {
		b.WriteString(" " + warnStyle.Render(fmt.Sprintf("Delete %q? y to confirm, any other key to cancel", m.confirmTitle)) + "\n")
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("error: "+errorText(m.err, "Failed to fetch finance methods")) + "\n")
	}
	if m.loading && len(m.methods) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if len(m.methods) == 0 {
		empty := "No finance methods found."
		if m.isAdmin() {
			empty += " Press n to add one."
		}
		b.WriteString(" " + dimStyle.Render(empty) + "\n")
		return b.String()
	}

	const cardLines = 6
	maxVisible := max((m.height-6)/cardLines, 1)
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	admin := m.isAdmin()
	for i := start; i < len(m.methods) && i < start+maxVisible; i++ {
		b.WriteString(renderFinanceCard(m.methods[i], i == m.cursor, admin && i == m.cursor, m.width))
	}
	if len(m.methods) > maxVisible {
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%d of %d", m.cursor+1, len(m.methods))) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

func (m methodsModel) viewDetail(fm domain.FinanceMethod) string {
	var b strings.Builder
	width := max(m.width-4, 40)

	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")
	b.WriteString(" " + selectedStyle.Render(fm.Title) + "\n")
	meta := " " + CategoryStyle(fm.Category).Render(string(fm.Category))
	if when := formatTime(fm.CreatedAt); when != "" {
		meta += metaStyle.Render(" · " + when)
	}
	b.WriteString(meta + "\n\n")

	if fm.Description != "" {
		b.WriteString(indentLines(normalStyle.Render(wrap(fm.Description, width)), " ", " ") + "\n\n")
	}
	if fm.ImageURL != "" {
		b.WriteString(" " + metaStyle.Render("image: "+fm.ImageURL) + "  " + helpEntry("o", "open") + "\n\n")
	}

	b.WriteString(" " + sectionHeaderStyle.Render("METHODOLOGY") + "\n")
	b.WriteString(indentLines(renderMarkdown(fm.Methodology, width), " ", " ") + "\n")

	if len(fm.Benefits) > 0 {
		b.WriteString("\n " + sectionHeaderStyle.Render("BENEFITS") + "\n")
		for _, benefit := range fm.Benefits {
			b.WriteString(" " + successStyle.Render("✓ ") + normalStyle.Render(benefit) + "\n")
		}
	}

	if m.confirmID != "" {
		b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("Delete %q? y to confirm, any other key to cancel", m.confirmTitle)) + "\n")
	}
	return b.String()
}

func (m methodsModel) helpKeys() string {
	switch {
	case m.formOpen:
		return m.form.helpKeys()
	case m.editing:
		return helpLine("enter", "done", "esc", "clear")
	case m.detail != nil:
		if m.isAdmin() {
			return helpLine("c", "copy", "o", "image", "e", "edit", "d", "delete", "esc", "back")
		}
		return helpLine("c", "copy", "o", "image", "esc", "back")
	}
	if m.isAdmin() {
		return helpLine("1-5", "pages", "j/k", "nav", "/", "search", "t", "category", "n", "new", "e", "edit", "d", "delete", "?", "help", "q", "quit")
	}
	return helpLine("1-5", "pages", "j/k", "nav", "enter", "open", "/", "search", "t", "category", "c", "copy", "?", "help", "q", "quit")
}

func categoryNames() []string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return names
}
