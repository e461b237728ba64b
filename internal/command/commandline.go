package command

import (
	"runtime"
	"strings"
)

// CommandLine is an immutable, ordered list of argument tokens. Every
// method that adds tokens returns a new CommandLine and leaves the
// receiver untouched.
type CommandLine struct {
	tokens []string
}

// New returns a CommandLine made of the given tokens.
func New(tokens ...string) CommandLine {
	return CommandLine{tokens: append([]string(nil), tokens...)}
}

// With returns a copy of c with tokens appended.
func (c CommandLine) With(tokens ...string) CommandLine {
	out := make([]string, 0, len(c.tokens)+len(tokens))
	out = append(out, c.tokens...)
	out = append(out, tokens...)
	return CommandLine{tokens: out}
}

// Tokens returns a copy of the argument tokens.
func (c CommandLine) Tokens() []string {
	return append([]string(nil), c.tokens...)
}

// IsEmpty reports whether the command has no tokens.
func (c CommandLine) IsEmpty() bool {
	return len(c.tokens) == 0
}

// String renders the command for the current platform's shell.
func (c CommandLine) String() string {
	return c.Render(runtime.GOOS)
}

// Render joins the tokens with single spaces, quoting tokens that
// contain characters outside the shell-safe set for goos.
func (c CommandLine) Render(goos string) string {
	parts := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		parts[i] = quote(t, goos)
	}
	return strings.Join(parts, " ")
}

// ShellInvocation returns the program and arguments that run c through
// the platform shell: "cmd /C <line>" on Windows, "sh -c <line>" elsewhere.
func (c CommandLine) ShellInvocation(goos string) (string, []string) {
	line := c.Render(goos)
	if goos == "windows" {
		return "cmd", []string{"/C", line}
	}
	return "sh", []string{"-c", line}
}

// quote returns t unchanged when every rune is shell-safe, otherwise it
// wraps t in the quoting style of the target shell.
func quote(t string, goos string) string {
	if t != "" && strings.IndexFunc(t, unsafeRune) < 0 {
		return t
	}
	if goos == "windows" {
		return `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return "'" + strings.ReplaceAll(t, "'", `'\''`) + "'"
}

func unsafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_=.,/:@+%", r):
		return false
	}
	return true
}
