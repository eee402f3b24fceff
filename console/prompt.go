package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

func (f ConfirmFunc) Confirm(question string) bool { return f(question) }

// AlwaysConfirm approves everything (--yes).
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// Prompter reads answers from a line-oriented input.
type Prompter struct {
	sc  *bufio.Scanner
	in  *os.File
	out io.Writer
}

// NewPrompter reads from in. When in is a terminal, passwords are read
// without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{sc: bufio.NewScanner(in), out: out}
	if f, isFile := in.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		p.in = f
	}
	return p
}

// Line prints prompt and returns the trimmed answer. ok is false at end of
// input.
func (p *Prompter) Line(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.sc.Text()), true
}

// Password reads a secret, masking it on a terminal.
func (p *Prompter) Password(prompt string) (string, error) {
	if p.in == nil {
		s, _ := p.Line(prompt)
		return s, p.sc.Err()
	}
	fmt.Fprint(p.out, prompt)
	raw, err := term.ReadPassword(int(p.in.Fd()))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprintln(p.out)
	return strings.TrimSpace(string(raw)), nil
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func (p *Prompter) Confirm(question string) bool {
	answer, ok := p.Line(question + " [y/N]: ")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
