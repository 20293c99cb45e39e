package tui

import (
	"strings"
	"testing"

	"github.com/fintracker/fintrack/internal/session"
	"github.com/fintracker/fintrack/pkg/domain"
)

func TestLoginWrongCredentialsStaysOnPage(t *testing.T) {
	sess := anonymous()
	sess.loginErr = &session.AuthError{Message: "Invalid email or password"}
	m := newLoginModel(sess)

	m, _ = m.Update(key("a@b.c"))
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("wrong"))
	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a login command on enter from the last field")
	}
	m, cmd = m.Update(cmd())
	msgs := drain(t, cmd)

	if sess.logins != 1 {
		t.Errorf("expected one login call, got %d", sess.logins)
	}
	if m.statusMsg != "Invalid email or password" {
		t.Errorf("unexpected status %q", m.statusMsg)
	}
	if m.fields[loginPassword] != "" {
		t.Error("expected the password to be cleared")
	}
	if m.fields[loginEmail] != "a@b.c" {
		t.Error("expected the email to be kept")
	}
	if _, ok := findMsg[navigateMsg](msgs); ok {
		t.Error("failed login must not navigate")
	}
	if _, ok := findMsg[authChangedMsg](msgs); ok {
		t.Error("failed login must not change auth state")
	}
}

func TestLoginSuccessNavigatesHome(t *testing.T) {
	sess := anonymous()
	m := newLoginModel(sess)
	m.fields[loginEmail] = "a@b.c"
	m.fields[loginPassword] = "secret1"

	m, cmd := m.Update(key("ctrl+s"))
	m, cmd = m.Update(cmd())
	msgs := drain(t, cmd)

	nav, ok := findMsg[navigateMsg](msgs)
	if !ok || nav.to != viewHome {
		t.Errorf("expected navigation home, got %+v", msgs)
	}
	if _, ok := findMsg[authChangedMsg](msgs); !ok {
		t.Error("expected authChangedMsg")
	}
	if notice, _ := findMsg[noticeMsg](msgs); notice.text != "Login successful!" {
		t.Errorf("unexpected notice %q", notice.text)
	}
	if m.fields[loginPassword] != "" {
		t.Error("expected fields cleared")
	}
	if !strings.Contains(m.View(), "ACCOUNT") {
		t.Error("expected the account view once logged in")
	}
}

func TestLoginRequiresFields(t *testing.T) {
	sess := anonymous()
	m := newLoginModel(sess)
	m, cmd := m.Update(key("ctrl+s"))
	if cmd != nil {
		t.Fatal("expected no command")
	}
	if m.statusMsg != "Email and password are required" {
		t.Errorf("unexpected status %q", m.statusMsg)
	}
	if sess.logins != 0 {
		t.Error("expected no login call")
	}
}

func TestRegisterValidatesLocally(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     string
	}{
		{"mismatch", "secret1", "secret2", "Passwords do not match"},
		{"too short", "abc", "abc", "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := anonymous()
			m := newLoginModel(sess)
			m, _ = m.Update(key("ctrl+r"))
			if !m.register || m.focus != loginName {
				t.Fatal("expected register mode with focus on name")
			}
			m.fields[loginName] = "Jane"
			m.fields[loginEmail] = "jane@x.io"
			m.fields[loginPassword] = tt.password
			m.fields[loginConfirm] = tt.confirm

			m, cmd := m.Update(key("ctrl+s"))
			if m.statusMsg != tt.want {
				t.Errorf("status = %q, want %q", m.statusMsg, tt.want)
			}
			for _, msg := range drain(t, cmd) {
				if _, ok := msg.(authResultMsg); ok {
					t.Error("expected no register call")
				}
			}
			if sess.registers != 0 {
				t.Errorf("expected no register call, got %d", sess.registers)
			}
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	sess := anonymous()
	m := newLoginModel(sess)
	m, _ = m.Update(key("ctrl+r"))
	m.fields[loginName] = "Jane"
	m.fields[loginEmail] = "jane@x.io"
	m.fields[loginPassword] = "secret1"
	m.fields[loginConfirm] = "secret1"

	m, cmd := m.Update(key("ctrl+s"))
	m, cmd = m.Update(cmd())
	msgs := drain(t, cmd)
	if sess.registers != 1 {
		t.Fatalf("expected one register call, got %d", sess.registers)
	}
	if notice, _ := findMsg[noticeMsg](msgs); notice.text != "Registration successful! Welcome!" {
		t.Errorf("unexpected notice %q", notice.text)
	}
	if cur, ok := sess.Current(); !ok || cur.Name != "Jane" {
		t.Errorf("expected Jane to be logged in, got %+v", cur)
	}
}

func TestLoginToggleShowsFields(t *testing.T) {
	m := newLoginModel(anonymous())
	if v := m.View(); strings.Contains(v, "confirm password") {
		t.Error("login mode should not show the confirmation field")
	}
	m, _ = m.Update(key("ctrl+r"))
	if v := m.View(); !strings.Contains(v, "confirm password") || !strings.Contains(v, "CREATE ACCOUNT") {
		t.Errorf("register mode view missing fields:\n%s", v)
	}
	m, _ = m.Update(key("ctrl+r"))
	if m.register || m.focus != loginEmail {
		t.Error("expected toggle back to login with focus on email")
	}
}

func TestLoginPasswordMasked(t *testing.T) {
	m := newLoginModel(anonymous())
	m.fields[loginEmail] = "a@b.c"
	m.fields[loginPassword] = "hunter22"
	if strings.Contains(m.View(), "hunter22") {
		t.Error("password must be masked")
	}
}

func TestLogoutFromAccountView(t *testing.T) {
	sess := loggedIn(domain.RoleUser)
	m := newLoginModel(sess)
	if m.isEditing() {
		t.Error("account view should not capture global keys")
	}

	m, cmd := m.Update(key("x"))
	if cmd == nil {
		t.Fatal("expected a logout command")
	}
	m, cmd = m.Update(cmd())
	msgs := drain(t, cmd)

	if sess.logouts != 1 {
		t.Errorf("expected one logout, got %d", sess.logouts)
	}
	if _, ok := findMsg[authChangedMsg](msgs); !ok {
		t.Error("expected authChangedMsg after logout")
	}
	if !m.isEditing() {
		t.Error("expected the login form after logout")
	}
}
