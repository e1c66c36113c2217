// Package hooks implements the hook registry and dispatcher that sit
// between the terminal front end and the shell. Interceptor hooks run
// before a command executes and can allow, block, or rewrite it; callback
// hooks run afterwards with the command's exit code and output.
package hooks

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// InterceptorFunc is the action attached to an interceptor hook. It
// receives the current command string and returns a Result deciding
// whether execution continues, is blocked, or proceeds with a rewritten
// command.
type InterceptorFunc func(command string) (Result, error)

// CallbackFunc is the action attached to a callback hook. It runs after
// the command has executed and receives the original command together
// with the exit code and any captured output.
type CallbackFunc func(command string, exitCode int, stdout, stderr string) error

// Hook is a registered callable bound to an optional command prefix.
type Hook struct {
	// Name identifies the hook in logs and error messages.
	Name string

	// Prefix restricts the hook to commands starting with this word.
	// Empty means the hook applies to every command.
	Prefix string

	// Order is the registration sequence number. Hooks run in ascending
	// order regardless of whether they are global or prefix-scoped.
	Order int

	interceptor InterceptorFunc
	callback    CallbackFunc
}

// Kind reports whether the hook is an interceptor or a callback.
func (h *Hook) Kind() string {
	if h.interceptor != nil {
		return "interceptor"
	}
	return "callback"
}

// Matches reports whether the hook applies to the given command.
func (h *Hook) Matches(command string) bool {
	return matchesPrefix(h.Prefix, command)
}

// matchesPrefix implements word-boundary prefix matching: a non-empty
// prefix matches when the command equals the prefix or starts with the
// prefix followed by whitespace. "git" matches "git status" and "git"
// but not "github". An empty prefix matches every command.
func matchesPrefix(prefix, command string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(command, prefix) {
		return false
	}
	rest := command[len(prefix):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}
