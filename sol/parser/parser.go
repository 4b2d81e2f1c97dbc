package parser

import (
	"io"
	"strings"
)

// Parser is the token cursor productions work against. It wraps exactly one
// Scanner and layers three things over the raw token stream: a FIFO queue of
// injected lookahead tokens, an optional backup buffer for transactional
// speculation, and the failure paths that turn a mismatch into a positioned
// *Error.
//
// A Parser is single-threaded and non-reentrant. Its failure methods drive
// the shared scanner to complete the offending line, so a failure must be
// reported by the production that hit it, not stored and replayed later.
type Parser struct {
	scanner *Scanner
	token   Token
	queue   []Token

	backupActive bool
	backupTokens []Token

	metNewline bool
	primed     bool
}

// NewParser returns a parser reading from s. The cursor holds the zero Token
// until the first NextToken call.
func NewParser(s *Scanner) *Parser {
	return &Parser{scanner: s}
}

// Token returns the token under the cursor.
func (p *Parser) Token() Token { return p.token }

// Scanner returns the scanner this parser reads from.
func (p *Parser) Scanner() *Scanner { return p.scanner }

// MetNewline reports whether the latest advance crossed at least one line
// boundary.
func (p *Parser) MetNewline() bool { return p.metNewline }

// AddToken appends a token to the lookahead queue. Queued tokens are served
// by NextToken before anything further is read from the scanner.
func (p *Parser) AddToken(tok Token) {
	p.queue = append(p.queue, tok)
}

// AddTokens appends a sequence of tokens to the lookahead queue.
func (p *Parser) AddTokens(toks []Token) {
	p.queue = append(p.queue, toks...)
}

// PrependToken queues prefix followed by the current token: after the next
// advance the cursor holds prefix, and the advance after that restores the
// token that was current.
func (p *Parser) PrependToken(prefix Token) {
	p.AddToken(prefix)
	p.AddToken(p.token)
}

// readToken moves the cursor one raw token forward, draining the lookahead
// queue before pulling from the scanner.
func (p *Parser) readToken() error {
	if len(p.queue) > 0 {
		p.token = p.queue[0]
		p.queue = p.queue[1:]
		p.primed = true
		return nil
	}
	tok, err := p.scanner.GetToken()
	if err != nil {
		return err
	}
	p.token = tok
	p.primed = true
	return nil
}

// NextToken advances the cursor to the next significant token. Newline
// tokens are consumed here and folded into the met-newline flag. While a
// backup session is active, the token the cursor lands on is recorded for
// replay. A scanner failure comes back as a positioned *Error.
func (p *Parser) NextToken() error {
	p.metNewline = false
	for {
		if err := p.readToken(); err != nil {
			return p.scanError(err)
		}
		if p.token.IsNot(TokenNewline) {
			break
		}
		p.metNewline = true
	}
	if p.backupActive {
		p.backupTokens = append(p.backupTokens, p.token)
	}
	return nil
}

// NextTokenNotEOF advances like NextToken and returns io.ErrUnexpectedEOF if
// the cursor lands on end of input, for productions that must not run off the
// end of a construct.
func (p *Parser) NextTokenNotEOF() error {
	if err := p.NextToken(); err != nil {
		return err
	}
	if p.token.IsEOF() {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// StartBackup opens a backup session: the current token and every token
// advanced to from now on are retained so RecoverBackup can rewind to this
// point. Sessions do not nest; opening a second one is a programming error
// and panics.
func (p *Parser) StartBackup() {
	if p.backupActive {
		panic("parser: backup session already active")
	}
	if p.primed {
		p.backupTokens = append(p.backupTokens, p.token)
	}
	p.backupActive = true
}

// RecoverBackup closes the session and rewinds: the retained tokens are
// queued for replay and the cursor advanced once, so it again holds the token
// that was current when the session started.
func (p *Parser) RecoverBackup() error {
	p.backupActive = false
	if len(p.backupTokens) > 0 {
		p.AddTokens(p.backupTokens)
		p.backupTokens = nil
		return p.NextToken()
	}
	return nil
}

// DiscardBackup closes the session and drops the retained tokens, keeping the
// cursor where it is.
func (p *Parser) DiscardBackup() {
	p.backupActive = false
	p.backupTokens = nil
}

// Context returns the parsing context of the current token.
func (p *Parser) Context() Context {
	return Context{
		Source:    p.scanner.Source(),
		StartLine: p.scanner.StartLine(),
		EndLine:   p.scanner.EndLine(),
		Column:    p.scanner.ErrorColumn(),
		Code:      p.scanner.CodeLines(),
	}
}

// ContextDuringError completes the offending source line and rebuilds the
// context so the excerpt shows the whole line, not just the part scanned
// before the failure. At end of input the context degrades to the last
// retained line with the column just past its end.
func (p *Parser) ContextDuringError() Context {
	linenr := p.scanner.Line()
	p.scanner.ReadLineAfterError()
	if linenr < p.scanner.Line() {
		return p.Context()
	}
	if p.scanner.ErrorColumn() < 0 {
		last := len(p.scanner.lines)
		if last == 0 {
			return Context{Source: p.scanner.Source(), StartLine: linenr, EndLine: linenr}
		}
		line := p.scanner.lines[last-1] + "\n"
		return Context{
			Source:    p.scanner.Source(),
			StartLine: last,
			EndLine:   last,
			Column:    len(line),
			Code:      []string{line},
		}
	}
	return p.Context()
}

// Line returns the scanner's current 1-based line.
func (p *Parser) Line() int { return p.scanner.Line() }

// StartLine returns the first line of the current construct range.
func (p *Parser) StartLine() int { return p.scanner.StartLine() }

// EndLine returns the last line of the current construct range.
func (p *Parser) EndLine() int { return p.scanner.EndLine() }

// SetStartLine widens the construct range reported by scoped failures.
func (p *Parser) SetStartLine(n int) { p.scanner.SetStartLine(n) }

// SetEndLine widens the construct range reported by scoped failures.
func (p *Parser) SetEndLine(n int) { p.scanner.SetEndLine(n) }

// Eat asserts the type of the current token and advances past it.
func (p *Parser) Eat(typ TokenType, msg string) error {
	if err := p.AssertToken(typ, msg); err != nil {
		return err
	}
	return p.NextToken()
}

// EatWithScope is Eat with scope-aware failure reporting.
func (p *Parser) EatWithScope(typ TokenType, msg, scopeName, scope string) error {
	if err := p.AssertTokenWithScope(typ, msg, scopeName, scope); err != nil {
		return err
	}
	return p.NextToken()
}

// AssertToken fails with msg unless the current token has the given type.
func (p *Parser) AssertToken(typ TokenType, msg string) error {
	if p.token.IsNot(typ) {
		return p.Fail(msg)
	}
	return nil
}

// AssertTokenWithScope fails like AssertToken, reporting through the
// scope-aware path.
func (p *Parser) AssertTokenWithScope(typ TokenType, msg, scopeName, scope string) error {
	if p.token.IsNot(typ) {
		return p.FailWithScope(msg, scopeName, scope)
	}
	return nil
}

// EatKeyword asserts that the current token is the identifier word and
// advances past it. Grammar words that are not reserved scan as plain
// identifiers and are matched here by content.
func (p *Parser) EatKeyword(word, msg string) error {
	if err := p.AssertToken(TokenIdent, msg); err != nil {
		return err
	}
	if p.token.Content != word {
		return p.Fail(msg)
	}
	return p.NextToken()
}

// AssertIdentifier fails with msg unless the current token can stand as an
// identifier: a plain identifier or an unreserved keyword.
func (p *Parser) AssertIdentifier(msg string) error {
	if !p.token.IsIdentifier() {
		return p.Fail(msg)
	}
	return nil
}

// EatIdentifier asserts an identifier position and advances past it.
func (p *Parser) EatIdentifier(msg string) error {
	if err := p.AssertIdentifier(msg); err != nil {
		return err
	}
	return p.NextToken()
}

// MaybeEat advances past the current token if it has one of the given types,
// and otherwise does nothing.
func (p *Parser) MaybeEat(types ...TokenType) error {
	for _, typ := range types {
		if p.token.Is(typ) {
			return p.NextToken()
		}
	}
	return nil
}

// scanError converts a scanner failure into a positioned *Error. The context
// is taken as-is: the scanner stopped mid-token, and consumers complete the
// line themselves when they resynchronize.
func (p *Parser) scanError(err error) error {
	p.DiscardBackup()
	return &Error{Context: p.Context(), Message: err.Error()}
}

// Fail reports a parse failure at the current token and returns the
// positioned *Error. Content-bearing tokens are named in the message and get
// a generic help block. For content-free tokens the column is moved one left,
// so the caret points at the offending character rather than past it. Any
// active backup session is discarded first.
func (p *Parser) Fail(msg string) error {
	p.DiscardBackup()
	ctx := p.ContextDuringError()
	if p.token.Content != "" {
		if msg != "" {
			msg += ": " + p.token.Content
		} else {
			msg += ". Found term: " + p.token.Content
		}
		help := HelpMessage(ctx, p.token.Content, nil)
		return &Error{Context: ctx, Message: msg, Help: help}
	}
	ctx.Column--
	return &Error{Context: ctx, Message: msg}
}

// FailWithScope reports a parse failure using the scope's vocabulary and
// column placement rules, for failures inside a named construct. Scoped
// reports usually cover the whole construct; callers widen the line range
// with SetStartLine before failing. Any active backup session is discarded
// first.
func (p *Parser) FailWithScope(msg, scopeName, scope string) error {
	p.DiscardBackup()
	ctx := p.ContextDuringError()
	if p.token.Content != "" {
		msg += ". Found term: " + p.token.Content
	}
	var help string
	switch scope {
	case ScopeInputPort:
		// Point at the closing brace of the port when there is one.
		if scopeLines := p.scanner.CodeLines(); len(scopeLines) > 0 {
			ctx.Code = scopeLines
			last := scopeLines[len(scopeLines)-1]
			if idx := strings.Index(last, "}"); idx >= 0 {
				prefix := strings.SplitN(last, ":", 2)[0]
				if col := idx - len(prefix) - 1; col >= 0 {
					ctx.Column = col
				}
			}
		}
		help = HelpMessageWithScope(ctx, p.token.Content, scope)

	case ScopeExecution:
		if scopeLines := p.scanner.CodeLines(); len(scopeLines) > 0 {
			ctx.Code = scopeLines
		}
		help = HelpMessage(ctx, p.token.Content, KeywordsForScope(scope))

	case ScopeService:
		// A service that hits end of input without content is missing its
		// closing brace; point at the brace that opened it.
		if strings.Contains(msg, "unexpected term found inside service") && p.token.Content == "" {
			if scopeLines := p.scanner.CodeLines(); len(scopeLines) > 0 {
				head := scopeLines[0]
				prefix := strings.SplitN(head, ":", 2)[0]
				if idx := strings.LastIndex(head, "{"); idx >= 0 && idx-len(prefix)-1 >= 0 {
					ctx.Column = idx - len(prefix) - 1
				}
				ctx.Code = []string{head}
				help = HelpMessageWithScope(ctx, p.token.Content, scope)
				msg = "Service " + scopeName + " is empty and does not have an ending }"
				return &Error{Context: ctx, Message: msg, Help: help}
			}
		}
		help = HelpMessage(ctx, p.token.Content, KeywordsForScope(scope))

	case ScopeImport:
		// The import line reads "from <module> <word> ...": the caret goes
		// after the first two fields and the suggestion is computed for the
		// third.
		if scopeLines := p.scanner.CodeLines(); len(scopeLines) > 0 {
			head := scopeLines[0]
			parts := strings.Split(head, " ")
			if len(parts) >= 3 {
				ctx.Column = len(parts[0]) + len(parts[1])
				ctx.Code = scopeLines
				help = HelpMessage(ctx, parts[2], KeywordsForScope(scope))
				break
			}
		}
		help = HelpMessage(ctx, p.token.Content, KeywordsForScope(scope))

	case ScopeOuter, ScopeInterface:
		help = HelpMessage(ctx, p.token.Content, KeywordsForScope(scope))

	default:
		help = HelpMessage(ctx, p.token.Content, nil)
	}
	return &Error{Context: ctx, Message: msg, Help: help}
}
