package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/internal/session"
	"github.com/fintracker/fintrack/pkg/domain"
)

type loginField int

const (
	loginName loginField = iota
	loginEmail
	loginPassword
	loginConfirm
	numLoginFields
)

var loginFieldLabels = [numLoginFields]string{"name", "email", "password", "confirm password"}

type authResultMsg struct {
	register bool
	session  domain.Session
	err      error
}

type logoutResultMsg struct{ err error }

// loginModel is the Login page. In register mode it also asks for a name
// and a password confirmation.
type loginModel struct {
	sess      Session
	register  bool
	fields    [numLoginFields]string
	focus     loginField
	submitted bool
	statusMsg string
	width     int
	height    int
}

func newLoginModel(sess Session) loginModel {
	return loginModel{sess: sess, focus: loginEmail}
}

// visible lists the fields shown in the current mode, in tab order.
func (m loginModel) visible() []loginField {
	if m.register {
		return []loginField{loginName, loginEmail, loginPassword, loginConfirm}
	}
	return []loginField{loginEmail, loginPassword}
}

func (m loginModel) authenticated() bool {
	if m.sess == nil {
		return false
	}
	_, ok := m.sess.Current()
	return ok
}

func (m loginModel) move(delta int) loginModel {
	fields := m.visible()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.focus = fields[idx]
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case authResultMsg:
		m.submitted = false
		if msg.err != nil {
			m.fields[loginPassword] = ""
			m.fields[loginConfirm] = ""
			m.statusMsg = authErrorText(msg.err, msg.register)
			return m, notify(noticeError, m.statusMsg)
		}
		m.fields = [numLoginFields]string{}
		m.statusMsg = ""
		text := "Login successful!"
		if msg.register {
			text = "Registration successful! Welcome!"
		}
		return m, tea.Batch(
			notify(noticeSuccess, text),
			func() tea.Msg { return authChangedMsg{} },
			navigate(viewHome),
		)

	case logoutResultMsg:
		if msg.err != nil {
			return m, notify(noticeError, "Logout failed: "+msg.err.Error())
		}
		return m, tea.Batch(notify(noticeInfo, "Logged out"), func() tea.Msg { return authChangedMsg{} })

	case tea.KeyMsg:
		if m.authenticated() {
			if msg.String() == "x" {
				sess := m.sess
				return m, func() tea.Msg {
					return logoutResultMsg{err: sess.Logout(context.Background())}
				}
			}
			return m, nil
		}
		if m.submitted {
			return m, nil
		}
		m.statusMsg = ""
		switch msg.String() {
		case "ctrl+r":
			m.register = !m.register
			m.fields[loginConfirm] = ""
			if m.register {
				m.focus = loginName
			} else {
				m.focus = loginEmail
			}
		case "ctrl+s":
			return m.submit()
		case "tab", "down":
			m = m.move(1)
		case "shift+tab", "up":
			m = m.move(-1)
		case "enter":
			fields := m.visible()
			if m.focus == fields[len(fields)-1] {
				return m.submit()
			}
			m = m.move(1)
		default:
			m.fields[m.focus] = editKey(m.fields[m.focus], msg)
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	sess := m.sess
	email := strings.TrimSpace(m.fields[loginEmail])

	if !m.register {
		if email == "" || m.fields[loginPassword] == "" {
			m.statusMsg = "Email and password are required"
			return m, nil
		}
		creds := session.Credentials{Email: email, Password: m.fields[loginPassword]}
		m.submitted = true
		return m, func() tea.Msg {
			s, err := sess.Login(context.Background(), creds)
			return authResultMsg{session: s, err: err}
		}
	}

	profile := session.Profile{
		Name:     strings.TrimSpace(m.fields[loginName]),
		Email:    email,
		Password: m.fields[loginPassword],
		Confirm:  m.fields[loginConfirm],
	}
	if err := session.ValidateProfile(profile); err != nil {
		m.statusMsg = err.Error()
		return m, notify(noticeError, m.statusMsg)
	}
	m.submitted = true
	return m, func() tea.Msg {
		s, err := sess.Register(context.Background(), profile)
		return authResultMsg{register: true, session: s, err: err}
	}
}

func authErrorText(err error, register bool) string {
	var vErr *session.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var aErr *session.AuthError
	if errors.As(err, &aErr) {
		return aErr.Message
	}
	if register {
		return "Registration failed"
	}
	return "Login failed"
}

func (m loginModel) View() string {
	var b strings.Builder

	if cur, ok := m.currentSession(); ok {
		b.WriteString(" " + sectionHeaderStyle.Render("ACCOUNT") + "\n\n")
		b.WriteString(" " + selectedStyle.Render(cur.DisplayName()) + "  " + dimStyle.Render(cur.Email) + "\n")
		role := cur.Role
		if role == "" {
			role = domain.RoleUser
		}
		if role == domain.RoleAdmin {
			b.WriteString(" " + adminBadgeStyle.Render("admin") + "\n")
		} else {
			b.WriteString(" " + metaStyle.Render(role) + "\n")
		}
		b.WriteString("\n " + helpEntry("x", "log out") + "\n")
		return b.String()
	}

	title, sub := "Welcome Back", "Sign in to your account"
	if m.register {
		title, sub = "Create Account", "Sign up to get started"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(title)) + "  " + dimStyle.Render(sub) + "\n\n")

	for _, f := range m.visible() {
		secret := f == loginPassword || f == loginConfirm
		b.WriteString(renderField(loginFieldLabels[f], m.fields[f], f == m.focus, secret))
	}

	b.WriteString("\n")
	if m.register {
		b.WriteString(" " + dimStyle.Render("Already have an account?") + " " + helpEntry("ctrl+r", "sign in") + "\n")
	} else {
		b.WriteString(" " + dimStyle.Render("Don't have an account?") + " " + helpEntry("ctrl+r", "sign up") + "\n")
	}
	if m.submitted {
		b.WriteString("\n " + dimStyle.Render("please wait..."))
	} else if m.statusMsg != "" {
		b.WriteString("\n " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m loginModel) currentSession() (domain.Session, bool) {
	if m.sess == nil {
		return domain.Session{}, false
	}
	return m.sess.Current()
}

func (m loginModel) isEditing() bool {
	return !m.authenticated()
}

func (m loginModel) helpKeys() string {
	if m.authenticated() {
		return helpLine("1-5", "pages", "x", "log out", "?", "help", "q", "quit")
	}
	return helpLine("tab", "next", "enter", "submit", "ctrl+r", "toggle sign up", "esc", "home")
}
