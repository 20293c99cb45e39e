package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter asks the user for input on the terminal.
type prompter interface {
	Line(prompt string) (string, error)
	Secret(prompt string) (string, error)
}

// linePrompter reads answers line by line. When fd is a terminal, secrets
// are read without echo.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func newTerminalPrompter(in *os.File, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out, fd: int(in.Fd())}
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out, fd: -1}
}

func (p *linePrompter) Line(prompt string) (string, error) {
	return p.readLine(prompt, strings.TrimSpace)
}

// readLine prompts and reads one line. Secrets only lose the line ending.
func (p *linePrompter) readLine(prompt string, clean func(string) string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return clean(line), nil
}

func (p *linePrompter) Secret(prompt string) (string, error) {
	if p.fd < 0 || !term.IsTerminal(p.fd) {
		return p.readLine(prompt, func(s string) string { return strings.TrimRight(s, "\r\n") })
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
