package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

type adminTab int

const (
	adminContacts adminTab = iota
	adminMethods
)

type adminLoadedMsg struct {
	seq      uint64
	tab      adminTab
	contacts []domain.Contact
	methods  []domain.FinanceMethod
	err      error
}

type contactStatusMsg struct {
	id  string
	err error
}

type contactDeletedMsg struct {
	id  string
	err error
}

type adminStats struct {
	totalContacts   int
	pendingContacts int
	totalMethods    int
}

type adminConfirm struct {
	tab   adminTab
	id    string
	label string
}

// adminModel is the admin dashboard: contact inquiries and finance methods.
// Stats are updated from whichever tab was fetched last.
type adminModel struct {
	api      API
	sess     Session
	tab      adminTab
	contacts []domain.Contact
	methods  []domain.FinanceMethod
	stats    adminStats
	cursor   int
	confirm  *adminConfirm

	seq     uint64
	cancel  context.CancelFunc
	loading bool
	err     error

	width  int
	height int
}

func newAdminModel(api API, sess Session) adminModel {
	return adminModel{api: api, sess: sess}
}

func (m adminModel) isAdmin() bool {
	return m.sess != nil && m.sess.IsAdmin()
}

// refresh fetches the active tab. A fetch still in flight is cancelled and
// its response ignored.
func (m adminModel) refresh() (adminModel, tea.Cmd) {
	if !m.isAdmin() {
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true

	api, seq, tab := m.api, m.seq, m.tab
	return m, func() tea.Msg {
		defer cancel()
		if tab == adminContacts {
			contacts, err := api.ListContacts(ctx)
			return adminLoadedMsg{seq: seq, tab: tab, contacts: contacts, err: err}
		}
		methods, err := api.ListFinanceMethods(ctx, client.MethodFilter{})
		return adminLoadedMsg{seq: seq, tab: tab, methods: methods, err: err}
	}
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case adminLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.cancel = nil
		if msg.err != nil {
			m.err = msg.err
			return m, notify(noticeError, errorText(msg.err, "Failed to fetch data"))
		}
		m.err = nil
		if msg.tab == adminContacts {
			m.contacts = msg.contacts
			m.stats.totalContacts = len(msg.contacts)
			m.stats.pendingContacts = domain.CountPending(msg.contacts)
		} else {
			m.methods = msg.methods
			m.stats.totalMethods = len(msg.methods)
		}
		if m.cursor >= m.listLen() {
			m.cursor = 0
		}

	case contactStatusMsg:
		if msg.err != nil {
			return m, notify(noticeError, errorText(msg.err, "Failed to update status"))
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, notify(noticeSuccess, "Contact status updated"))

	case contactDeletedMsg:
		if msg.err != nil {
			return m, notify(noticeError, errorText(msg.err, "Failed to delete inquiry"))
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, notify(noticeSuccess, "Inquiry deleted"))

	case methodDeletedMsg:
		if msg.err != nil {
			return m, notify(noticeError, errorText(msg.err, "Failed to delete method"))
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, notify(noticeSuccess, "Finance method deleted"))

	case tea.KeyMsg:
		if !m.isAdmin() {
			return m, nil
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		if m.tab == adminContacts {
			m.tab = adminMethods
		} else {
			m.tab = adminContacts
		}
		m.cursor = 0
		return m.refresh()
	case "j", "down":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "R":
		return m.refresh()
	case "r":
		if c, ok := m.selectedContact(); ok && c.Status == domain.StatusPending {
			api, id := m.api, c.ID
			return m, func() tea.Msg {
				_, err := api.UpdateContactStatus(context.Background(), id, domain.StatusResolved)
				return contactStatusMsg{id: id, err: err}
			}
		}
	case "c":
		if c, ok := m.selectedContact(); ok {
			return m, copyCmd("email", c.Email)
		}
	case "d":
		if c, ok := m.selectedContact(); ok {
			m.confirm = &adminConfirm{tab: adminContacts, id: c.ID, label: "this inquiry from " + c.Name}
		} else if fm, ok := m.selectedMethod(); ok {
			m.confirm = &adminConfirm{tab: adminMethods, id: fm.ID, label: fmt.Sprintf("%q", fm.Title)}
		}
	}
	return m, nil
}

func (m adminModel) updateConfirm(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	c := *m.confirm
	m.confirm = nil
	if msg.String() != "y" {
		return m, nil
	}
	api := m.api
	if c.tab == adminContacts {
		return m, func() tea.Msg {
			return contactDeletedMsg{id: c.id, err: api.DeleteContact(context.Background(), c.id)}
		}
	}
	return m, func() tea.Msg {
		return methodDeletedMsg{owner: viewAdmin, id: c.id, err: api.DeleteFinanceMethod(context.Background(), c.id)}
	}
}

func (m adminModel) listLen() int {
	if m.tab == adminContacts {
		return len(m.contacts)
	}
	return len(m.methods)
}

func (m adminModel) selectedContact() (domain.Contact, bool) {
	if m.tab != adminContacts || m.cursor >= len(m.contacts) {
		return domain.Contact{}, false
	}
	return m.contacts[m.cursor], true
}

func (m adminModel) selectedMethod() (domain.FinanceMethod, bool) {
	if m.tab != adminMethods || m.cursor >= len(m.methods) {
		return domain.FinanceMethod{}, false
	}
	return m.methods[m.cursor], true
}

func (m adminModel) isEditing() bool {
	return m.confirm != nil
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("ADMIN DASHBOARD") + "  " + dimStyle.Render("Manage contacts and finance methods") + "\n")

	if !m.isAdmin() {
		b.WriteString("\n " + warnStyle.Render("Admin access required.") + " " + dimStyle.Render("Log in with an admin account on the Login page (4).") + "\n")
		return b.String()
	}

	stat := func(n int, label string) string {
		return selectedStyle.Render(fmt.Sprintf("%d", n)) + " " + dimStyle.Render(label)
	}
	b.WriteString(" " + stat(m.stats.totalContacts, "total inquiries") + "   " +
		stat(m.stats.pendingContacts, "pending") + "   " +
		stat(m.stats.totalMethods, "finance methods") + "\n\n")

	tabs := []struct {
		t     adminTab
		label string
	}{{adminContacts, "Contact Inquiries"}, {adminMethods, "Finance Methods"}}
	b.WriteString(" ")
	for i, t := range tabs {
		if i > 0 {
			b.WriteString("   ")
		}
		if t.t == m.tab {
			b.WriteString(searchStyle.Underline(true).Render(t.label))
		} else {
			b.WriteString(dimStyle.Render(t.label))
		}
	}
	b.WriteString("  " + helpKeyStyle.Render("tab") + "\n")
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", max(m.width-2, 4))) + "\n")

	if m.confirm != nil {
		b.WriteString(" " + warnStyle.Render("Delete "+m.confirm.label+"? y to confirm, any other key to cancel") + "\n")
	}
	if m.loading && m.listLen() == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("error: "+errorText(m.err, "Failed to fetch data")) + "\n")
	}

	if m.tab == adminContacts {
		b.WriteString(m.viewContacts())
	} else {
		b.WriteString(m.viewMethods())
	}
	return truncateToHeight(b.String(), m.height)
}

func (m adminModel) viewContacts() string {
	if len(m.contacts) == 0 {
		return " " + dimStyle.Render("No contact inquiries yet") + "\n"
	}
	var b strings.Builder
	for i, c := range m.contacts {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s  %s  %s  %s\n", cursor,
			nameStyle.Render(c.Name),
			dimStyle.Render(c.Email),
			StatusStyle(c.Status).Render(string(c.Status)),
			metaStyle.Render(formatTime(c.CreatedAt)))
		if i == m.cursor {
			width := max(m.width-6, 30)
			b.WriteString("    " + metaStyle.Render("type: ") + normalStyle.Render(string(c.InquiryType)) + "\n")
			b.WriteString("    " + metaStyle.Render("subject: ") + normalStyle.Render(c.Subject) + "\n")
			b.WriteString(indentLines(normalStyle.Render(wrap(c.Message, width)), "    ", "    ") + "\n")
		}
	}
	return b.String()
}

func (m adminModel) viewMethods() string {
	if len(m.methods) == 0 {
		return " " + dimStyle.Render("No finance methods yet") + "\n"
	}
	var b strings.Builder
	titleW := max(m.width-40, 16)
	for i, fm := range m.methods {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			style = selectedStyle
		}
		title := fmt.Sprintf("%-*s", titleW, truncStr(oneLine(fm.Title), titleW))
		category := fmt.Sprintf("%-17s", fm.Category)
		line := cursor + style.Render(title) + " " + CategoryStyle(fm.Category).Render(category) + " " + metaStyle.Render(formatTime(fm.CreatedAt))
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(line) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m adminModel) helpKeys() string {
	if !m.isAdmin() {
		return helpLine("1-5", "pages", "?", "help", "q", "quit")
	}
	if m.confirm != nil {
		return helpLine("y", "confirm", "any", "cancel")
	}
	if m.tab == adminContacts {
		return helpLine("tab", "methods", "j/k", "nav", "r", "resolve", "d", "delete", "c", "copy email", "R", "reload", "q", "quit")
	}
	return helpLine("tab", "contacts", "j/k", "nav", "d", "delete", "R", "reload", "q", "quit")
}
