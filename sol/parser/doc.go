// Package parser implements the lexical and syntactic front end of the Sol
// language: a finite-state scanner and the parsing support layer that
// grammar productions are written against.
//
// # Overview
//
// The package splits the front end into two halves. The Scanner turns a
// source buffer into tokens while keeping the line accounting that
// diagnostics need. The Parser wraps one Scanner and gives productions a
// richer cursor: FIFO token injection, transactional backup and rewind, and
// failure paths that produce positioned, suggestion-bearing errors.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌──────────────┐
//	│   Source    │────▶│   Scanner   │────▶│    Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (cursor)   │
//	└─────────────┘     └─────────────┘     └──────────────┘
//	                           │                    │
//	                           ▼                    ▼
//	                    ┌─────────────┐     ┌──────────────┐
//	                    │ Line store  │     │ Queue/backup │
//	                    │ and columns │     │ and failures │
//	                    └─────────────┘     └──────────────┘
//
// # Scanning
//
// The Scanner is a hand-written finite-state machine over bytes. Tokens are
// immutable and positionless; position lives in the Scanner, which records
// for the current token its line range and starting column, and retains the
// raw text of every line it has seen. Line feeds surface as Newline tokens,
// one per line feed, so the layer above can track statement boundaries; the
// Parser consumes them transparently and exposes the crossing as MetNewline.
//
// Comments never surface as tokens: the machine consumes them and recurses
// for the next real token, advancing the line counter silently. Scan-level
// recovery is line-based; after an error, ReadLineAfterError completes the
// offending line so it can be shown in full and scanning can resume on the
// next line.
//
// # The token cursor
//
// Productions advance the cursor with NextToken and friends and consume
// expected input through the combinators (Eat, AssertToken, EatIdentifier,
// EatKeyword, MaybeEat). Two mechanisms support lookahead beyond one token:
//
//   - Injection: AddToken and PrependToken queue tokens that NextToken
//     serves, in order, before reading from the scanner again. A production
//     that has read too far can push tokens back, or synthesize tokens the
//     grammar expects.
//
//   - Backup: StartBackup opens a session that records the current token and
//     every token advanced to. RecoverBackup rewinds the cursor to where the
//     session began by replaying the recording through the queue;
//     DiscardBackup commits the speculation. At most one session exists at a
//     time, and every failure path discards an active session before the
//     error escapes.
//
// # Diagnostics
//
// Failures are values: Fail and FailWithScope build an *Error carrying a
// Context (source name, 1-based line range, 0-based column, implicated code
// lines) and, where a close term exists, a help block. Suggestions compare
// the offending term against the vocabulary of the enclosing scope with
// Levenshtein distance at most 2; a near miss renders the corrected line
// with a caret under the replacement, a far miss lists the vocabulary.
//
// FailWithScope additionally applies per-scope placement rules (locating the
// brace of an unterminated port or service, or the misspelled word of an
// import line) so the caret lands where the fix goes rather than where the
// parse stopped. All placement arithmetic degrades to the generic report
// when the source does not have the expected shape; diagnostics never panic.
//
// # Lifecycle
//
// A Scanner and its Parser are built per source unit and are not safe for
// concurrent use:
//
//	s := parser.NewScanner(src, "main.sol")
//	p := parser.NewParser(s)
//	if err := p.NextToken(); err != nil { ... }
//	for !p.Token().IsEOF() {
//	    ...
//	}
package parser
