package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/internal/session"
	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

// fakeAPI is an in-memory API that records every call.
type fakeAPI struct {
	mu       sync.Mutex
	methods  []domain.FinanceMethod
	contacts []domain.Contact

	listErr     error
	saveErr     error
	deleteErr   error
	submitErr   error
	contactsErr error

	calls     []string
	filters   []client.MethodFilter
	ctxs      []context.Context
	saved     []domain.FinanceMethodInput
	submitted []domain.ContactInput
	statuses  map[string]domain.ContactStatus
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListFinanceMethods(ctx context.Context, filter client.MethodFilter) ([]domain.FinanceMethod, error) {
	f.record("ListFinanceMethods")
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.ctxs = append(f.ctxs, ctx)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.FinanceMethod
	for _, m := range f.methods {
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeAPI) CreateFinanceMethod(_ context.Context, in domain.FinanceMethodInput) (*domain.FinanceMethod, error) {
	f.record("CreateFinanceMethod")
	f.saved = append(f.saved, in)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	m := domain.FinanceMethod{ID: "new", Title: in.Title, Category: in.Category, Description: in.Description,
		Methodology: in.Methodology, Benefits: in.Benefits, ImageURL: in.ImageURL}
	f.methods = append(f.methods, m)
	return &m, nil
}

func (f *fakeAPI) UpdateFinanceMethod(_ context.Context, id string, in domain.FinanceMethodInput) (*domain.FinanceMethod, error) {
	f.record("UpdateFinanceMethod:" + id)
	f.saved = append(f.saved, in)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for i := range f.methods {
		if f.methods[i].ID == id {
			f.methods[i].Title = in.Title
			f.methods[i].Description = in.Description
			f.methods[i].Methodology = in.Methodology
			f.methods[i].Category = in.Category
			f.methods[i].Benefits = in.Benefits
			m := f.methods[i]
			return &m, nil
		}
	}
	return nil, &client.HTTPError{StatusCode: 404, Message: "Finance method not found"}
}

func (f *fakeAPI) DeleteFinanceMethod(_ context.Context, id string) error {
	f.record("DeleteFinanceMethod:" + id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.methods {
		if f.methods[i].ID == id {
			f.methods = append(f.methods[:i], f.methods[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAPI) SubmitContact(_ context.Context, in domain.ContactInput) (*domain.Contact, error) {
	f.record("SubmitContact")
	f.submitted = append(f.submitted, in)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	c := domain.Contact{ID: "c-new", Name: in.Name, Email: in.Email, Subject: in.Subject,
		Message: in.Message, InquiryType: in.InquiryType, Status: domain.StatusPending}
	f.contacts = append(f.contacts, c)
	return &c, nil
}

func (f *fakeAPI) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	f.record("ListContacts")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.contactsErr != nil {
		return nil, f.contactsErr
	}
	return append([]domain.Contact(nil), f.contacts...), nil
}

func (f *fakeAPI) UpdateContactStatus(_ context.Context, id string, status domain.ContactStatus) (*domain.Contact, error) {
	f.record("UpdateContactStatus:" + id)
	if f.statuses == nil {
		f.statuses = make(map[string]domain.ContactStatus)
	}
	f.statuses[id] = status
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			f.contacts[i].Status = status
			c := f.contacts[i]
			return &c, nil
		}
	}
	return nil, &client.HTTPError{StatusCode: 404, Message: "Contact not found"}
}

func (f *fakeAPI) DeleteContact(_ context.Context, id string) error {
	f.record("DeleteContact:" + id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeSession is a Session with a settable identity.
type fakeSession struct {
	current   *domain.Session
	loginErr  error
	logins    int
	registers int
	logouts   int
}

func anonymous() *fakeSession { return &fakeSession{} }

func loggedIn(role string) *fakeSession {
	return &fakeSession{current: &domain.Session{
		User:  domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: role},
		Token: "tok",
	}}
}

func (s *fakeSession) Current() (domain.Session, bool) {
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

func (s *fakeSession) IsAdmin() bool { return domain.HasRole(s.current, domain.RoleAdmin) }

func (s *fakeSession) Login(_ context.Context, c session.Credentials) (domain.Session, error) {
	s.logins++
	if s.loginErr != nil {
		return domain.Session{}, s.loginErr
	}
	s.current = &domain.Session{User: domain.User{Name: "Ada", Email: c.Email, Role: domain.RoleUser}, Token: "tok"}
	return *s.current, nil
}

func (s *fakeSession) Register(_ context.Context, p session.Profile) (domain.Session, error) {
	s.registers++
	if s.loginErr != nil {
		return domain.Session{}, s.loginErr
	}
	s.current = &domain.Session{User: domain.User{Name: p.Name, Email: p.Email, Role: domain.RoleUser}, Token: "tok"}
	return *s.current, nil
}

func (s *fakeSession) Logout(context.Context) error {
	s.logouts++
	s.current = nil
	return nil
}

var errBoom = errors.New("boom")

// key builds a KeyMsg the way bubbletea delivers it.
func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and every command batched inside it, returning the messages.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T.
func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func sampleMethods() []domain.FinanceMethod {
	return []domain.FinanceMethod{
		{ID: "m1", Title: "50/30/20 Rule", Category: domain.CategoryBudgeting, Description: "Split income three ways",
			Methodology: "## Steps\n\n1. Needs\n2. Wants", Benefits: []string{"Simple", "Flexible"}},
		{ID: "m2", Title: "Debt Snowball", Category: domain.CategoryDebtManagement, Description: "Smallest balance first",
			Methodology: "Pay the **smallest** debt first."},
		{ID: "m3", Title: "Emergency Fund", Category: domain.CategorySaving, Description: "Three to six months",
			Methodology: "Save monthly.", ImageURL: "https://example.com/fund.png"},
		{ID: "m4", Title: "Index Investing", Category: domain.CategoryInvestment, Description: "Buy the market",
			Methodology: "Buy low-cost funds."},
	}
}
