package session

import (
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/peterh/liner"
)

// builtins are the session's own commands, offered through tab
// completion. Everything else goes to the dispatcher.
var builtins = []string{"exit", "quit"}

// LineReader abstracts the interactive prompt so tests can drive the
// session with scripted input.
type LineReader interface {
	// Prompt displays prompt and returns one line of input. It returns
	// io.EOF when input is exhausted and liner.ErrPromptAborted when the
	// user cancels the line.
	Prompt(prompt string) (string, error)

	// AppendHistory records a line in the history.
	AppendHistory(line string)

	// Close releases the terminal and persists the history.
	Close() error
}

// linerReader is the liner-backed LineReader used by the real session.
type linerReader struct {
	line        *liner.State
	historyFile string
}

// NewLineReader creates a liner-backed reader. History is loaded from and
// persisted to historyFile; an empty path disables persistence.
func NewLineReader(historyFile string) LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		var matches []string
		for _, builtin := range builtins {
			if strings.HasPrefix(builtin, line) {
				matches = append(matches, builtin)
			}
		}
		return matches
	})

	r := &linerReader{line: line, historyFile: historyFile}
	r.loadHistory()
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.line.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	r.line.AppendHistory(line)
}

func (r *linerReader) Close() error {
	r.saveHistory()
	return r.line.Close()
}

// loadHistory and saveHistory guard the history file with a file lock so
// concurrent sessions do not interleave writes.
func (r *linerReader) loadHistory() {
	if r.historyFile == "" {
		return
	}

	lock := flock.New(r.historyFile + ".lock")
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	}

	f, err := os.Open(r.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.ReadHistory(f)
}

func (r *linerReader) saveHistory() {
	if r.historyFile == "" {
		return
	}

	lock := flock.New(r.historyFile + ".lock")
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	}

	f, err := os.Create(r.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}
