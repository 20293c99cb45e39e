package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/internal/browser"
)

// Side effects outside the terminal. Tests replace these.
var (
	writeClipboard = clipboard.WriteAll
	openURL        = browser.Open
)

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{what: what, err: writeClipboard(text)}
	}
}

func openCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return openResultMsg{err: openURL(url)}
	}
}
