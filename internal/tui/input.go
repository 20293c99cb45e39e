package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 5000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// insertText appends typed or pasted text, clamped to maxInputLen runes.
func insertText(text, s string) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	runes := []rune(s)
	if len(runes) > room {
		runes = runes[:room]
	}
	return text + string(runes)
}

// editKey applies a key press to a text field. Pasted text arrives as a
// single KeyRunes message.
func editKey(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		return editRune(text, "backspace")
	case tea.KeySpace:
		return insertText(text, " ")
	case tea.KeyRunes:
		return insertText(text, string(msg.Runes))
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderField renders one labelled form input. Multi-line values are shown
// below the label; secret values are masked.
func renderField(label, value string, focused, secret bool) string {
	cursor := " "
	style := metaStyle
	if focused {
		cursor = accentStyle.Render(">")
		style = selectedStyle
	}

	shown := value
	if secret {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	if focused {
		shown += accentStyle.Render("█")
	} else if value == "" {
		shown = inputPlaceholderStyle.Render("-")
	}

	if strings.Contains(shown, "\n") {
		return fmt.Sprintf("%s %s:\n%s\n", cursor, style.Render(label), indentLines(normalStyle.Render(shown), "    ", "    "))
	}
	return fmt.Sprintf("%s %s: %s\n", cursor, style.Render(label), shown)
}

// renderChoice renders a cycling selector field.
func renderChoice(label, value string, focused bool) string {
	cursor := " "
	style := metaStyle
	if focused {
		cursor = accentStyle.Render(">")
		style = selectedStyle
	}
	hint := ""
	if focused {
		hint = "  " + dimStyle.Render("(←/→ to cycle)")
	}
	return fmt.Sprintf("%s %s: %s%s\n", cursor, style.Render(label), searchStyle.Render(value), hint)
}
