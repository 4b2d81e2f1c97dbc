package parser

import (
	"fmt"
	"strings"
)

// Error is a structured parse failure: where it happened, what went wrong
// and, when a correction could be computed, a help block showing it. Every
// failure path of the parsing layer produces an *Error; no failure is raised
// without a context.
type Error struct {
	Context Context
	Message string
	Help    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: error: %s", e.Context.Source, e.Context.StartLine, e.Message)
}

// Report renders the complete diagnostic block: position and message, the
// implicated source lines and the help text when present.
func (e *Error) Report() string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteByte('\n')
	for _, line := range e.Context.Code {
		b.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	if e.Help != "" {
		b.WriteString(e.Help)
		if !strings.HasSuffix(e.Help, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
