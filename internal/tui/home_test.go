package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fintracker/fintrack/internal/config"
	"github.com/fintracker/fintrack/internal/logging"
	"github.com/fintracker/fintrack/pkg/client"
)

func TestHomeFeaturesFirstThree(t *testing.T) {
	api := &fakeAPI{methods: sampleMethods()}
	m := newHomeModel(api, logging.Nop())
	m, _ = m.Update(m.Init()())

	if len(m.featured) != featuredCount {
		t.Fatalf("expected %d featured, got %d", featuredCount, len(m.featured))
	}
	if m.featured[2].ID != "m3" {
		t.Errorf("expected the first three in list order, got %+v", m.featured)
	}
	if f := api.filters[0]; f.Category != "" || f.Search != "" {
		t.Errorf("expected an unfiltered fetch, got %+v", f)
	}
	if !strings.Contains(m.View(), "FEATURED FINANCE METHODS") {
		t.Error("expected the featured section")
	}
}

func TestHomeFetchFailureDegrades(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(logging.New(config.LogConfig{Level: "debug"}, &buf))
	api := &fakeAPI{listErr: &client.HTTPError{StatusCode: 500, Message: "down"}}

	m := newHomeModel(api, log)
	m.featured = sampleMethods()[:1]
	m, cmd := m.Update(m.Init()())

	if cmd != nil {
		t.Error("expected no notice for a featured failure")
	}
	if len(m.featured) != 0 {
		t.Error("expected no featured methods")
	}
	view := m.View()
	if strings.Contains(view, "FEATURED") {
		t.Error("expected the featured section to be hidden")
	}
	if !strings.Contains(view, "WHY FINANCIAL MANAGEMENT MATTERS") {
		t.Error("expected the static sections to render")
	}
	if !strings.Contains(buf.String(), "fetch featured methods") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
}

func TestHomeKeys(t *testing.T) {
	m := newHomeModel(&fakeAPI{methods: sampleMethods()}, logging.Nop())
	m, _ = m.Update(m.Init()())

	m, _ = m.Update(key("left"))
	if m.cursor != 2 {
		t.Errorf("expected cursor to wrap to 2, got %d", m.cursor)
	}
	_, cmd := m.Update(key("enter"))
	show, ok := cmd().(showMethodMsg)
	if !ok || show.method.ID != "m3" {
		t.Errorf("expected showMethodMsg for m3, got %#v", show)
	}

	_, cmd = m.Update(key("m"))
	if nav, ok := cmd().(navigateMsg); !ok || nav.to != viewMethods {
		t.Error("expected m to open Methods")
	}
	_, cmd = m.Update(key("c"))
	if nav, ok := cmd().(navigateMsg); !ok || nav.to != viewContact {
		t.Error("expected c to open Contact")
	}

	m, _ = m.Update(key("k"))
	if m.offset != 0 {
		t.Error("offset should not go negative")
	}
}

func TestHomeCardsHaveNoAdminActions(t *testing.T) {
	m := newHomeModel(&fakeAPI{methods: sampleMethods()}, logging.Nop())
	m, _ = m.Update(m.Init()())

	view := m.View()
	if strings.Contains(view, "e edit") || strings.Contains(view, "d delete") {
		t.Errorf("home cards must not offer admin actions:\n%s", view)
	}
}
