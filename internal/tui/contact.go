package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/pkg/domain"
)

type contactField int

const (
	contactName contactField = iota
	contactEmail
	contactInquiry
	contactSubject
	contactMessage
	numContactFields
)

var contactFieldLabels = [numContactFields]string{"name", "email", "inquiry type", "subject", "message"}

type contactSubmittedMsg struct {
	contact *domain.Contact
	err     error
}

// contactModel is the Contact page: an anonymous inquiry form.
type contactModel struct {
	api       API
	fields    [numContactFields]string
	inquiry   int // index into domain.InquiryTypes
	focus     contactField
	submitted bool
	statusMsg string
	width     int
	height    int
}

func newContactModel(api API) contactModel {
	return contactModel{api: api}
}

// reset clears the draft back to blanks with the default inquiry type.
func (m *contactModel) reset() {
	m.fields = [numContactFields]string{}
	m.inquiry = 0
	m.focus = contactName
}

func (m contactModel) input() domain.ContactInput {
	return domain.ContactInput{
		Name:        strings.TrimSpace(m.fields[contactName]),
		Email:       strings.TrimSpace(m.fields[contactEmail]),
		Subject:     strings.TrimSpace(m.fields[contactSubject]),
		Message:     strings.TrimSpace(m.fields[contactMessage]),
		InquiryType: domain.InquiryTypes[m.inquiry],
	}
}

func (m contactModel) Update(msg tea.Msg) (contactModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case contactSubmittedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = errorText(msg.err, "Failed to submit inquiry")
			return m, notify(noticeError, m.statusMsg)
		}
		m.reset()
		m.statusMsg = ""
		return m, notify(noticeSuccess, "Your inquiry has been submitted successfully!")

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		m.statusMsg = ""
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "tab", "down":
			m.focus = (m.focus + 1) % numContactFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + numContactFields) % numContactFields
		case "enter":
			switch m.focus {
			case contactMessage:
				m.fields[contactMessage] = editRune(m.fields[contactMessage], "\n")
			default:
				m.focus++
			}
		case "left", "right":
			if m.focus == contactInquiry {
				n := len(domain.InquiryTypes)
				if msg.String() == "right" {
					m.inquiry = (m.inquiry + 1) % n
				} else {
					m.inquiry = (m.inquiry - 1 + n) % n
				}
			}
		default:
			if m.focus != contactInquiry {
				m.fields[m.focus] = editKey(m.fields[m.focus], msg)
			}
		}
	}
	return m, nil
}

func (m contactModel) submit() (contactModel, tea.Cmd) {
	in := m.input()
	if in.Name == "" || in.Email == "" || in.Subject == "" || in.Message == "" {
		m.statusMsg = "Please fill in all fields"
		return m, nil
	}
	m.submitted = true
	api := m.api
	return m, func() tea.Msg {
		c, err := api.SubmitContact(context.Background(), in)
		return contactSubmittedMsg{contact: c, err: err}
	}
}

func (m contactModel) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("CONTACT US") + "  " + dimStyle.Render("Have questions? We'd love to hear from you.") + "\n")
	b.WriteString(" " + metaStyle.Render("Our team will get back to you within 24 hours. Mon-Fri 9AM-6PM.") + "\n\n")

	for i := contactField(0); i < numContactFields; i++ {
		if i == contactInquiry {
			b.WriteString(renderChoice(contactFieldLabels[i], string(domain.InquiryTypes[m.inquiry]), i == m.focus))
			continue
		}
		b.WriteString(renderField(contactFieldLabels[i], m.fields[i], i == m.focus, false))
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("sending..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	}
	return truncateToHeight(b.String(), m.height)
}

func (m contactModel) helpKeys() string {
	return helpLine("tab", "next", "←/→", "type", "ctrl+s", "send", "esc", "home")
}
