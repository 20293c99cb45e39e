package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New().Parser()

// renderMarkdown renders methodology markdown as styled terminal text
// wrapped to width columns.
func renderMarkdown(src string, width int) string {
	source := []byte(src)
	doc := markdownParser.Parse(text.NewReader(source))
	r := mdRenderer{src: source}
	return strings.Join(r.blocks(doc, width), "\n\n")
}

type mdRenderer struct {
	src []byte
}

func (r mdRenderer) blocks(parent ast.Node, width int) []string {
	var out []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r mdRenderer) block(n ast.Node, width int) string {
	switch n := n.(type) {
	case *ast.Heading:
		title := r.inline(n)
		if n.Level == 1 {
			title = strings.ToUpper(title)
		}
		return mdHeadingStyle.Render(title)

	case *ast.Paragraph, *ast.TextBlock:
		return wrap(r.inline(n), width)

	case *ast.List:
		items := make([]string, 0, n.ChildCount())
		num := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if n.IsOrdered() {
				marker = fmt.Sprintf("%d. ", num)
				num++
			}
			pad := strings.Repeat(" ", utf8.RuneCountInString(marker))
			sep := "\n"
			if !n.IsTight {
				sep = "\n\n"
			}
			body := strings.Join(r.blocks(item, width-len(pad)), sep)
			items = append(items, indentLines(body, accentStyle.Render(marker), pad))
		}
		return strings.Join(items, "\n")

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(r.src)), "\n")
			b.WriteString("    " + mdCodeStyle.Render(line))
			if i < lines.Len()-1 {
				b.WriteString("\n")
			}
		}
		return b.String()

	case *ast.Blockquote:
		body := strings.Join(r.blocks(n, width-2), "\n")
		return indentLines(dimStyle.Render(body), "│ ", "│ ")

	case *ast.ThematicBreak:
		return metaStyle.Render(strings.Repeat("─", min(max(width, 3), 24)))

	default:
		return strings.Join(r.blocks(n, width), "\n\n")
	}
}

func (r mdRenderer) inline(parent ast.Node) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(r.src))
			switch {
			case c.HardLineBreak():
				b.WriteString("\n")
			case c.SoftLineBreak():
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.Emphasis:
			inner := r.inline(c)
			if c.Level >= 2 {
				b.WriteString(selectedStyle.Render(inner))
			} else {
				b.WriteString(normalStyle.Italic(true).Render(inner))
			}
		case *ast.CodeSpan:
			b.WriteString(mdCodeStyle.Render(r.inline(c)))
		case *ast.Link:
			label := r.inline(c)
			dest := string(c.Destination)
			if dest != "" && dest != label {
				label += " (" + dest + ")"
			}
			b.WriteString(mdLinkStyle.Render(label))
		case *ast.AutoLink:
			b.WriteString(mdLinkStyle.Render(string(c.URL(r.src))))
		case *ast.Image:
			b.WriteString(dimStyle.Render("[image: " + r.inline(c) + "]"))
		default:
			b.WriteString(r.inline(c))
		}
	}
	return b.String()
}
