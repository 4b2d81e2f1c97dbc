package parser

import (
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestionDistance bounds how far (in edit distance) a term may be from
// a known word to still be proposed as a correction.
const maxSuggestionDistance = 2

// proposeTerms returns the possible terms within the edit distance bound of
// content, in vocabulary order.
func proposeTerms(content string, possible []string) []string {
	var proposed []string
	for _, term := range possible {
		if fuzzy.LevenshteinDistance(content, term) <= maxSuggestionDistance {
			proposed = append(proposed, term)
		}
	}
	return proposed
}

// HelpMessage builds the help block for a failure at ctx. An empty content
// means a term is missing entirely and the possible terms are listed. A
// content with a near match among the possible terms produces a corrected
// copy of the offending line with a caret under the replaced term; without a
// near match the possible terms are listed instead.
//
// The substituted line is ctx.Code[0], whose "N:" number prefix is accounted
// for when placing the correction and the caret. If a caller-computed column
// points outside the retained line the substitution is skipped rather than
// sliced out of range.
func HelpMessage(ctx Context, content string, possible []string) string {
	if content == "" {
		return "You are missing a keyword. Possible inputs are:\n" + strings.Join(possible, ", ")
	}
	proposed := proposeTerms(content, possible)
	if len(proposed) == 0 {
		return "The term did not match possible terms. Possible inputs are:\n" + strings.Join(possible, ", ")
	}

	var b strings.Builder
	b.WriteString("Your term is similar to what would be valid input: ")
	b.WriteString(strings.Join(proposed, ", "))
	b.WriteString(". Perhaps you meant:\n")
	columnSpace := ctx.Column + len(strconv.Itoa(ctx.StartLine)+":")
	if len(ctx.Code) > 0 && columnSpace >= 0 && columnSpace+len(content) <= len(ctx.Code[0]) {
		line := ctx.Code[0]
		b.WriteString(line[:columnSpace])
		b.WriteString(proposed[0])
		b.WriteString(line[columnSpace+len(content):])
		if !strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", columnSpace))
		b.WriteByte('^')
	}
	return b.String()
}

// HelpMessageWithScope builds the help block for a scope-aware failure,
// drawing the vocabulary from the scope's keyword registry. The corrected
// line is located among the context lines by its line number prefix, so the
// correction lands on the right line of a multi-line scope excerpt. A present
// term with no near match yields no help text at all.
func HelpMessageWithScope(ctx Context, content string, scope string) string {
	var b strings.Builder
	possible := KeywordsForScope(scope)
	if content == "" {
		b.WriteString("A term is missing. Possible inputs are:\n")
		for _, term := range possible {
			b.WriteString(term)
			b.WriteByte('\n')
		}
		return b.String()
	}

	proposed := proposeTerms(content, possible)
	if len(proposed) == 0 {
		return ""
	}
	b.WriteString("\nYour term is similar to what would be valid input: ")
	b.WriteString(strings.Join(proposed, ", "))
	b.WriteString(". Perhaps you meant:\n")
	numberSpaces := ctx.Column + len(":"+strconv.Itoa(ctx.StartLine))
	if numberSpaces < 0 {
		numberSpaces = 0
	}
	marker := strconv.Itoa(ctx.EndLine) + ":"
	for _, line := range ctx.Code {
		if strings.Contains(line, marker) && numberSpaces+len(content) <= len(line) {
			b.WriteString(line[:numberSpaces])
			b.WriteString(proposed[0])
			b.WriteString(line[numberSpaces+len(content):])
		} else {
			b.WriteString(line)
		}
		if !strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(strings.Repeat(" ", numberSpaces))
	b.WriteByte('^')
	return b.String()
}
