package hooks

// resultKind enumerates the decisions an interceptor can make.
type resultKind int

const (
	kindContinue resultKind = iota
	kindBlock
	kindRewrite
)

// Result represents the decision returned by an interceptor: let the
// command through unchanged, block it, or replace it with another command.
type Result struct {
	kind    resultKind
	command string
}

// Continue creates a result that lets the command proceed unchanged.
func Continue() Result {
	return Result{kind: kindContinue}
}

// Block creates a result that stops the command from executing.
func Block() Result {
	return Result{kind: kindBlock}
}

// Rewrite creates a result that replaces the command with the given
// string. Rewriting to an empty string is treated as Continue.
func Rewrite(command string) Result {
	if command == "" {
		return Continue()
	}
	return Result{kind: kindRewrite, command: command}
}
