package parser

import "fmt"

// Context pins a diagnostic to a place in the source: the source name, the
// 1-based line range, the 0-based column and the implicated source lines.
// Code lines normally carry "N:" line-number prefixes; the end-of-input
// degradation path keeps the raw line. A context is a snapshot and stays
// valid after the scanner has moved on.
type Context struct {
	Source    string
	StartLine int
	EndLine   int
	Column    int
	Code      []string
}

func (c Context) String() string {
	return fmt.Sprintf("%s:%d:%d", c.Source, c.StartLine, c.Column)
}
