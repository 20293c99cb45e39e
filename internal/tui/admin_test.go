package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

func sampleContacts() []domain.Contact {
	return []domain.Contact{
		{ID: "c1", Name: "Jane", Email: "jane@x.io", Subject: "Hi", Message: "Hello", InquiryType: domain.InquiryGeneral, Status: domain.StatusPending},
		{ID: "c2", Name: "Bob", Email: "bob@x.io", Subject: "Bug", Message: "Broken", InquiryType: domain.InquirySupport, Status: domain.StatusResolved},
	}
}

// applyLoads feeds every adminLoadedMsg in msgs back into m.
func applyLoads(m adminModel, msgs []tea.Msg) adminModel {
	for _, msg := range msgs {
		if loaded, ok := msg.(adminLoadedMsg); ok {
			m, _ = m.Update(loaded)
		}
	}
	return m
}

func loadedAdmin(t *testing.T, api *fakeAPI) adminModel {
	t.Helper()
	m := newAdminModel(api, loggedIn(domain.RoleAdmin))
	m, cmd := m.refresh()
	m, _ = m.Update(cmd())
	return m
}

func TestAdminNonAdminSeesNothing(t *testing.T) {
	for _, sess := range []*fakeSession{anonymous(), loggedIn(domain.RoleUser)} {
		api := &fakeAPI{contacts: sampleContacts()}
		m := newAdminModel(api, sess)
		m, cmd := m.refresh()
		if cmd != nil {
			t.Error("expected no fetch for non-admins")
		}
		if _, cmd = m.Update(key("d")); cmd != nil || m.confirm != nil {
			t.Error("expected keys to be ignored for non-admins")
		}
		if !strings.Contains(m.View(), "Admin access required") {
			t.Error("expected the access notice")
		}
		if len(api.calls) != 0 {
			t.Errorf("expected no API calls, got %v", api.calls)
		}
	}
}

func TestAdminStats(t *testing.T) {
	api := &fakeAPI{contacts: sampleContacts(), methods: sampleMethods()}
	m := loadedAdmin(t, api)

	if m.stats.totalContacts != 2 || m.stats.pendingContacts != 1 {
		t.Errorf("unexpected contact stats %+v", m.stats)
	}
	// The methods count only updates once that tab is fetched.
	if m.stats.totalMethods != 0 {
		t.Errorf("expected methods not yet fetched, got %d", m.stats.totalMethods)
	}

	m, cmd := m.Update(key("tab"))
	if m.tab != adminMethods || cmd == nil {
		t.Fatal("expected tab switch to refetch methods")
	}
	m, _ = m.Update(cmd())
	if m.stats.totalMethods != 4 || len(m.methods) != 4 {
		t.Errorf("unexpected methods stats %+v", m.stats)
	}
	if m.stats.totalContacts != 2 {
		t.Error("contact stats should survive a methods fetch")
	}
	if api.count("ListContacts") != 1 || api.count("ListFinanceMethods") != 1 {
		t.Errorf("expected one fetch per tab, calls=%v", api.calls)
	}
}

func TestAdminDeleteContactScenario(t *testing.T) {
	api := &fakeAPI{contacts: sampleContacts()}
	m := loadedAdmin(t, api)

	m, cmd := m.Update(key("d"))
	if cmd != nil || m.confirm == nil || m.confirm.id != "c1" {
		t.Fatalf("expected a confirm prompt for c1, got %+v", m.confirm)
	}
	if !m.isEditing() {
		t.Error("expected the confirm prompt to capture keys")
	}
	m, cmd = m.Update(key("y"))
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	m, cmd = m.Update(cmd())
	if api.count("DeleteContact:c1") != 1 {
		t.Fatalf("expected DELETE c1 once, calls=%v", api.calls)
	}

	before := api.count("ListContacts")
	msgs := drain(t, cmd)
	m = applyLoads(m, msgs)

	if n := api.count("ListContacts") - before; n != 1 {
		t.Errorf("expected exactly one refetch, got %d", n)
	}
	if len(m.contacts) != 1 || m.contacts[0].ID != "c2" {
		t.Errorf("expected only c2 left, got %+v", m.contacts)
	}
	if m.stats.totalContacts != 1 || m.stats.pendingContacts != 0 {
		t.Errorf("unexpected stats %+v", m.stats)
	}
	if notice, _ := findMsg[noticeMsg](msgs); notice.text != "Inquiry deleted" {
		t.Errorf("unexpected notice %q", notice.text)
	}
}

func TestAdminDeleteCancelled(t *testing.T) {
	api := &fakeAPI{contacts: sampleContacts()}
	m := loadedAdmin(t, api)

	m, _ = m.Update(key("d"))
	m, cmd := m.Update(key("esc"))
	if cmd != nil || m.confirm != nil {
		t.Fatal("expected cancel")
	}
	if api.count("DeleteContact:c1") != 0 {
		t.Error("expected no delete call")
	}
}

func TestAdminDeleteMethod(t *testing.T) {
	api := &fakeAPI{methods: sampleMethods()}
	m := loadedAdmin(t, api)
	m, cmd := m.Update(key("tab"))
	m, _ = m.Update(cmd())

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("d"))
	if m.confirm == nil || m.confirm.id != "m2" {
		t.Fatalf("expected confirm for m2, got %+v", m.confirm)
	}
	m, cmd = m.Update(key("y"))
	msg := cmd()
	deleted, ok := msg.(methodDeletedMsg)
	if !ok || deleted.owner != viewAdmin {
		t.Fatalf("expected an admin-owned delete result, got %#v", msg)
	}
	m, cmd = m.Update(deleted)
	m = applyLoads(m, drain(t, cmd))
	if len(m.methods) != 3 || m.stats.totalMethods != 3 {
		t.Errorf("expected 3 methods after delete, got %d", len(m.methods))
	}
}

func TestAdminResolveContact(t *testing.T) {
	api := &fakeAPI{contacts: sampleContacts()}
	m := loadedAdmin(t, api)

	m, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected a status update for a pending contact")
	}
	m, cmd = m.Update(cmd())
	if api.statuses["c1"] != domain.StatusResolved {
		t.Errorf("expected c1 resolved, got %q", api.statuses["c1"])
	}
	m = applyLoads(m, drain(t, cmd))
	if m.stats.pendingContacts != 0 {
		t.Errorf("expected no pending contacts, got %d", m.stats.pendingContacts)
	}

	// Already resolved contacts are left alone.
	m, _ = m.Update(key("j"))
	if _, cmd := m.Update(key("r")); cmd != nil {
		t.Error("expected no call for a resolved contact")
	}
}

func TestAdminFetchFailureNotifies(t *testing.T) {
	api := &fakeAPI{contactsErr: &client.HTTPError{StatusCode: 403, Message: "Not authorized as admin"}}
	m := newAdminModel(api, loggedIn(domain.RoleAdmin))
	m, cmd := m.refresh()
	m, cmd = m.Update(cmd())

	notice, _ := findMsg[noticeMsg](drain(t, cmd))
	if notice.kind != noticeError || !strings.Contains(notice.text, "Not authorized as admin") {
		t.Errorf("unexpected notice %+v", notice)
	}
	if m.err == nil {
		t.Error("expected err to be recorded")
	}
}

func TestAdminStaleResponseDiscarded(t *testing.T) {
	api := &fakeAPI{contacts: sampleContacts(), methods: sampleMethods()}
	m := newAdminModel(api, loggedIn(domain.RoleAdmin))

	m, first := m.refresh()
	m, _ = m.Update(key("tab"))
	m, second := m.refresh()

	m, _ = m.Update(second())
	m, _ = m.Update(first())
	if len(m.contacts) != 0 {
		t.Errorf("stale contacts response applied: %+v", m.contacts)
	}
	if len(m.methods) != 4 {
		t.Errorf("expected methods from the latest fetch, got %d", len(m.methods))
	}
}

func TestAdminCopyEmail(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	m := loadedAdmin(t, &fakeAPI{contacts: sampleContacts()})
	_, cmd := m.Update(key("c"))
	res, ok := cmd().(copyResultMsg)
	if !ok || res.what != "email" {
		t.Fatalf("unexpected result %#v", res)
	}
	if copied != "jane@x.io" {
		t.Errorf("copied %q", copied)
	}
}
