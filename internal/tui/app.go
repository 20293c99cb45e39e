package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintracker/fintrack/internal/logging"
	"github.com/fintracker/fintrack/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewMethods
	viewContact
	viewLogin
	viewAdmin
)

// noticeTTL is how long a notice stays under the page.
const noticeTTL = 4 * time.Second

// chromeLines is header(2) + tabs(1) + notice(1) + help(1) + footer(1).
const chromeLines = 6

// App is the root Bubbletea model.
type App struct {
	api      API
	sess     Session
	log      logging.Logger
	view     view
	home     homeModel
	methods  methodsModel
	contact  contactModel
	login    loginModel
	admin    adminModel
	helpOpen bool
	notice   noticeMsg
	noticeID int
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates the TUI application.
func NewApp(api API, sess Session, log logging.Logger) App {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "tui")
	return App{
		api:     api,
		sess:    sess,
		log:     log,
		home:    newHomeModel(api, log),
		methods: newMethodsModel(api, sess),
		contact: newContactModel(api),
		login:   newLoginModel(sess),
		admin:   newAdminModel(api, sess),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), shimmerTickCmd())
}

func (a App) isAdmin() bool {
	return a.sess != nil && a.sess.IsAdmin()
}

func (a App) authenticated() bool {
	if a.sess == nil {
		return false
	}
	_, ok := a.sess.Current()
	return ok
}

// switchTo changes page and refetches the page's data, like remounting it.
// The admin page is gated: anonymous users are sent to Login, other
// non-admins stay where they are.
func (a App) switchTo(v view) (App, tea.Cmd) {
	if v == viewAdmin && !a.isAdmin() {
		if !a.authenticated() {
			a.view = viewLogin
			return a, notify(noticeError, "Please log in to continue")
		}
		return a, notify(noticeError, "Admin access required")
	}
	if v == a.view {
		return a, nil
	}
	a.view = v

	var cmd tea.Cmd
	switch v {
	case viewHome:
		cmd = a.home.Init()
	case viewMethods:
		a.methods, cmd = a.methods.refresh()
	case viewAdmin:
		a.admin, cmd = a.admin.refresh()
	}
	return a, cmd
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - chromeLines}
		a.home, _ = a.home.Update(bodyMsg)
		a.methods, _ = a.methods.Update(bodyMsg)
		a.contact, _ = a.contact.Update(bodyMsg)
		a.login, _ = a.login.Update(bodyMsg)
		a.admin, _ = a.admin.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case noticeMsg:
		a.notice = msg
		a.noticeID++
		id := a.noticeID
		return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })

	case noticeExpiredMsg:
		if msg.id == a.noticeID {
			a.notice = noticeMsg{}
		}
		return a, nil

	case navigateMsg:
		return a.switchTo(msg.to)

	case showMethodMsg:
		method := msg.method
		a.methods.detail = &method
		if a.view != viewMethods {
			a.view = viewMethods
			a.methods, cmd = a.methods.refresh()
		}
		return a, cmd

	case authChangedMsg:
		cur, ok := a.currentSession()
		a.log.Info(context.Background(), "session changed", "authenticated", ok, "user", cur.Email)
		if !a.isAdmin() {
			a.methods.formOpen = false
			a.methods.confirmID = ""
			if a.view == viewAdmin {
				return a.switchTo(viewHome)
			}
		}
		return a, nil

	case copyResultMsg:
		if msg.err != nil {
			a.log.Warn(context.Background(), "clipboard write", "err", msg.err)
			return a, notify(noticeError, "Copy failed: "+msg.err.Error())
		}
		return a, notify(noticeSuccess, "Copied "+msg.what+" to clipboard")

	case openResultMsg:
		if msg.err != nil {
			return a, notify(noticeError, "Could not open browser: "+msg.err.Error())
		}
		return a, nil

	// Async results go to the page that asked for them, whatever is showing.
	case featuredLoadedMsg:
		a.home, cmd = a.home.Update(msg)
		return a, cmd
	case methodsLoadedMsg:
		a.methods, cmd = a.methods.Update(msg)
		return a, cmd
	case adminLoadedMsg, contactStatusMsg, contactDeletedMsg:
		a.admin, cmd = a.admin.Update(msg)
		return a, cmd
	case methodSavedMsg:
		a.methods, cmd = a.methods.Update(msg)
		return a, cmd
	case methodDeletedMsg:
		if msg.owner == viewAdmin {
			a.admin, cmd = a.admin.Update(msg)
		} else {
			a.methods, cmd = a.methods.Update(msg)
		}
		return a, cmd
	case contactSubmittedMsg:
		a.contact, cmd = a.contact.Update(msg)
		return a, cmd
	case authResultMsg, logoutResultMsg:
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewHome)
			case "2":
				return a.switchTo(viewMethods)
			case "3":
				return a.switchTo(viewContact)
			case "4":
				return a.switchTo(viewLogin)
			case "5":
				return a.switchTo(viewAdmin)
			}
		} else if msg.String() == "esc" && (a.view == viewContact || a.view == viewLogin) {
			return a.switchTo(viewHome)
		}
	}

	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewMethods:
		a.methods, cmd = a.methods.Update(msg)
	case viewContact:
		a.contact, cmd = a.contact.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewMethods:
		return a.methods.isEditing()
	case viewContact:
		return true
	case viewLogin:
		return a.login.isEditing()
	case viewAdmin:
		return a.admin.isEditing()
	}
	return false
}

func (a App) View() string {
	header := a.viewHeader()
	tabs := a.viewTabs()

	var body, help string
	switch a.view {
	case viewHome:
		body, help = a.home.View(), a.home.helpKeys()
	case viewMethods:
		body, help = a.methods.View(), a.methods.helpKeys()
	case viewContact:
		body, help = a.contact.View(), a.contact.helpKeys()
	case viewLogin:
		body, help = a.login.View(), a.login.helpKeys()
	case viewAdmin:
		body, help = a.admin.View(), a.admin.helpKeys()
	}
	if a.helpOpen {
		body = helpView()
		help = helpLine("?", "close", "q", "quit")
	}
	body = strings.TrimRight(truncateToHeight(body, a.height-chromeLines), "\n")

	notice := ""
	if a.notice.text != "" {
		notice = " " + noticeStyle(a.notice.kind).Render(a.notice.text)
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s", header, tabs, body, notice, help, viewFooter(a.width))
}

// viewHeader is the navbar: centered logo with the session identity below.
func (a App) viewHeader() string {
	logo := renderShimmerLogo(a.frame)
	pad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", pad) + logo

	var who string
	if cur, ok := a.currentSession(); ok {
		who = selectedStyle.Render(cur.DisplayName())
		if a.isAdmin() {
			who += " " + adminBadgeStyle.Render("admin")
		}
	} else {
		who = dimStyle.Render("guest") + metaStyle.Render(" · 4 to log in")
	}
	whoPad := max((a.width-lipgloss.Width(who))/2, 0)
	return header + "\n" + strings.Repeat(" ", whoPad) + who
}

func (a App) viewTabs() string {
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	loginName := "Login"
	if a.authenticated() {
		loginName = "Account"
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Methods", viewMethods},
		{"3", "Contact", viewContact},
		{"4", loginName, viewLogin},
	}
	if a.isAdmin() {
		tabs = append(tabs, tabEntry{"5", "Admin", viewAdmin})
	}

	colWidth := a.width / len(tabs)
	var bar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		w := lipgloss.Width(label)
		left := max((colWidth-w)/2, 0)
		right := max(colWidth-w-left, 0)
		bar.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}
	return bar.String()
}

func (a App) currentSession() (domain.Session, bool) {
	if a.sess == nil {
		return domain.Session{}, false
	}
	return a.sess.Current()
}

func viewFooter(width int) string {
	text := fmt.Sprintf("© %d Finance Tracker · support@financetracker.com · +1 (555) 123-4567", time.Now().Year())
	pad := max((width-lipgloss.Width(text))/2, 0)
	return strings.Repeat(" ", pad) + metaStyle.Render(text)
}
