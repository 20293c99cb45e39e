package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/internal/session"
	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

// API is the subset of the Finance Tracker client the pages call.
// *client.Client satisfies it.
type API interface {
	ListFinanceMethods(ctx context.Context, f client.MethodFilter) ([]domain.FinanceMethod, error)
	CreateFinanceMethod(ctx context.Context, in domain.FinanceMethodInput) (*domain.FinanceMethod, error)
	UpdateFinanceMethod(ctx context.Context, id string, in domain.FinanceMethodInput) (*domain.FinanceMethod, error)
	DeleteFinanceMethod(ctx context.Context, id string) error

	SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.Contact, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

// Session is the view of the session store the pages need.
// *session.Store satisfies it.
type Session interface {
	Current() (domain.Session, bool)
	IsAdmin() bool
	Login(ctx context.Context, c session.Credentials) (domain.Session, error)
	Register(ctx context.Context, p session.Profile) (domain.Session, error)
	Logout(ctx context.Context) error
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// noticeMsg asks the App to show a transient notice under the active page.
type noticeMsg struct {
	text string
	kind noticeKind
}

type noticeExpiredMsg struct{ id int }

func notify(kind noticeKind, text string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: text, kind: kind}
	}
}

// navigateMsg switches the active page.
type navigateMsg struct{ to view }

func navigate(to view) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// showMethodMsg opens a finance method in the Methods page detail view.
type showMethodMsg struct{ method domain.FinanceMethod }

// authChangedMsg is emitted after login, registration or logout.
type authChangedMsg struct{}

type copyResultMsg struct {
	what string
	err  error
}

type openResultMsg struct{ err error }

// errorText is the user-facing message for a failed API call. Rejected
// credentials get a hint, there is no silent re-authentication.
func errorText(err error, fallback string) string {
	msg := client.Message(err, fallback)
	if client.IsUnauthorized(err) {
		msg += " (log in as an admin on the Login tab)"
	}
	return msg
}
