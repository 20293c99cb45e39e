package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/pkg/domain"
)

type methodField int

const (
	methodTitle methodField = iota
	methodCategory
	methodDescription
	methodMethodology
	methodBenefits
	methodImageURL
	numMethodFields
)

var methodFieldLabels = [numMethodFields]string{
	"title", "category", "description", "methodology", "benefits (one per line)", "image url",
}

// methodSavedMsg reports a create or update. owner is the page that opened
// the form and formID the form instance that submitted it.
type methodSavedMsg struct {
	owner   view
	formID  int
	created bool
	method  *domain.FinanceMethod
	err     error
}

// methodFormModel is the create/edit draft for a finance method. It never
// mutates the method it was seeded from.
type methodFormModel struct {
	api       API
	owner     view
	id        int
	editID    string // "" when creating
	fields    [numMethodFields]string
	category  int  // index into domain.Categories
	badCat    bool // seeded category is not one of domain.Categories
	origCat   domain.Category
	focus     methodField
	submitted bool
	statusMsg string
}

func newMethodForm(api API, owner view) methodFormModel {
	return methodFormModel{api: api, owner: owner}
}

func editMethodForm(api API, owner view, m domain.FinanceMethod) methodFormModel {
	f := newMethodForm(api, owner)
	f.editID = m.ID
	f.fields[methodTitle] = m.Title
	f.fields[methodDescription] = m.Description
	f.fields[methodMethodology] = m.Methodology
	f.fields[methodBenefits] = domain.FormatBenefits(m.Benefits)
	f.fields[methodImageURL] = m.ImageURL
	f.badCat = true
	for i, c := range domain.Categories {
		if c == m.Category {
			f.category = i
			f.badCat = false
		}
	}
	if f.badCat {
		f.origCat = m.Category
		f.statusMsg = fmt.Sprintf("unknown category %q, pick one with ←/→", m.Category)
	}
	return f
}

func (f methodFormModel) multiline(field methodField) bool {
	return field == methodDescription || field == methodMethodology || field == methodBenefits
}

// input builds the request payload from the draft.
func (f methodFormModel) input() domain.FinanceMethodInput {
	return domain.FinanceMethodInput{
		Title:       strings.TrimSpace(f.fields[methodTitle]),
		Category:    domain.Categories[f.category],
		Description: strings.TrimSpace(f.fields[methodDescription]),
		Methodology: strings.TrimSpace(f.fields[methodMethodology]),
		Benefits:    domain.ParseBenefits(f.fields[methodBenefits]),
		ImageURL:    strings.TrimSpace(f.fields[methodImageURL]),
	}
}

// Update handles keys while the form is open. A failed save keeps the draft.
func (f methodFormModel) Update(msg tea.Msg) (methodFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case methodSavedMsg:
		f.submitted = false
		if msg.err != nil {
			f.statusMsg = errorText(msg.err, "Operation failed")
		}
		return f, nil

	case tea.KeyMsg:
		if f.submitted {
			return f, nil
		}
		f.statusMsg = ""
		switch msg.String() {
		case "ctrl+s":
			return f.submit()
		case "tab", "down":
			f.focus = (f.focus + 1) % numMethodFields
		case "shift+tab", "up":
			f.focus = (f.focus - 1 + numMethodFields) % numMethodFields
		case "enter":
			if f.multiline(f.focus) {
				f.fields[f.focus] = editRune(f.fields[f.focus], "\n")
			} else {
				f.focus = (f.focus + 1) % numMethodFields
			}
		case "left", "right":
			if f.focus == methodCategory {
				n := len(domain.Categories)
				switch {
				case f.badCat:
					f.badCat = false
				case msg.String() == "right":
					f.category = (f.category + 1) % n
				default:
					f.category = (f.category - 1 + n) % n
				}
			}
		default:
			if f.focus != methodCategory {
				f.fields[f.focus] = editKey(f.fields[f.focus], msg)
			}
		}
	}
	return f, nil
}

func (f methodFormModel) submit() (methodFormModel, tea.Cmd) {
	in := f.input()
	switch {
	case in.Title == "":
		f.statusMsg = "title is required"
		return f, nil
	case in.Description == "":
		f.statusMsg = "description is required"
		return f, nil
	case in.Methodology == "":
		f.statusMsg = "methodology is required"
		return f, nil
	case f.badCat, !domain.ValidCategory(in.Category):
		f.statusMsg = "invalid category"
		return f, nil
	}

	f.submitted = true
	api, owner, formID, id := f.api, f.owner, f.id, f.editID
	return f, func() tea.Msg {
		if id == "" {
			m, err := api.CreateFinanceMethod(context.Background(), in)
			return methodSavedMsg{owner: owner, formID: formID, created: true, method: m, err: err}
		}
		m, err := api.UpdateFinanceMethod(context.Background(), id, in)
		return methodSavedMsg{owner: owner, formID: formID, method: m, err: err}
	}
}

func (f methodFormModel) View() string {
	var b strings.Builder
	title := "New finance method"
	if f.editID != "" {
		title = "Edit finance method"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(title)) + "\n\n")

	for i := methodField(0); i < numMethodFields; i++ {
		if i == methodCategory {
			label := string(domain.Categories[f.category])
			if f.badCat {
				label = fmt.Sprintf("%s (unknown)", f.origCat)
			}
			b.WriteString(renderChoice(methodFieldLabels[i], label, i == f.focus))
			continue
		}
		b.WriteString(renderField(methodFieldLabels[i], f.fields[i], i == f.focus, false))
	}

	b.WriteString("\n")
	if f.submitted {
		b.WriteString(" " + dimStyle.Render("saving..."))
	} else if f.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(f.statusMsg))
	}
	return b.String()
}

func (f methodFormModel) helpKeys() string {
	return helpLine("tab", "next", "←/→", "category", "ctrl+s", "save", "esc", "cancel")
}
