package parser

import (
	"fmt"
	"strconv"
)

// scanState names a state of the token recognition machine. stateInitial
// dispatches on the first character of a token; every other state is entered
// with part of the token consumed and decides on the next character whether
// to keep consuming, switch state or emit.
type scanState int

const (
	stateInitial scanState = iota
	stateID
	stateInt
	stateString
	statePlusOrChoice
	stateAssignOrEqual
	stateLessOrLE
	stateGreaterOrGE
	stateNotOrNE
	stateDivideOrComment
	stateBlockComment
	stateMinusOrInt
	stateLineComment
)

// Scanner turns a source buffer into a stream of tokens. Alongside the token
// stream it keeps the line accounting needed for diagnostics: the 1-based
// line counter, the line range and column of the current token, and the raw
// text of every line seen so far.
type Scanner struct {
	src    []byte
	source string
	pos    int

	line   int // 1-based line of the next unread byte
	column int // 0-based column of the next unread byte

	startLine   int // first line of the current token
	endLine     int // last line of the current token
	errorColumn int // column of the current token, -1 at EOF

	cur   []byte   // in-progress source line
	lines []string // completed source lines, without the newline
}

// NewScanner returns a scanner over src. The source name is used verbatim in
// parsing contexts and error messages.
func NewScanner(src []byte, source string) *Scanner {
	return &Scanner{
		src:       src,
		source:    source,
		line:      1,
		startLine: 1,
		endLine:   1,
	}
}

// Source returns the name of the scanned source unit.
func (s *Scanner) Source() string { return s.source }

// Line returns the 1-based line number of the scanning position.
func (s *Scanner) Line() int { return s.line }

// StartLine returns the first line of the current token.
func (s *Scanner) StartLine() int { return s.startLine }

// EndLine returns the last line of the current token.
func (s *Scanner) EndLine() int { return s.endLine }

// SetStartLine widens the reported token range. Consumers use it to make a
// diagnostic span a whole multi-line construct.
func (s *Scanner) SetStartLine(n int) { s.startLine = n }

// SetEndLine widens the reported token range.
func (s *Scanner) SetEndLine(n int) { s.endLine = n }

// ErrorColumn returns the 0-based column where the current token starts, or
// -1 once the scanner has reached end of input.
func (s *Scanner) ErrorColumn() int { return s.errorColumn }

func (s *Scanner) atEOF() bool { return s.pos >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// advance consumes one byte, maintaining the line counter, the column and the
// retained line text.
func (s *Scanner) advance() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	ch := s.src[s.pos]
	s.pos++
	if ch == '\n' {
		s.lines = append(s.lines, string(s.cur))
		s.cur = s.cur[:0]
		s.line++
		s.column = 0
	} else {
		s.cur = append(s.cur, ch)
		s.column++
	}
	return ch
}

// singleCharTokens maps the characters that form a complete token on their
// own.
var singleCharTokens = map[byte]TokenType{
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLSquare,
	']': TokenRSquare,
	'{': TokenLCurly,
	'}': TokenRCurly,
	'*': TokenAsterisk,
	'@': TokenAt,
	':': TokenColon,
	',': TokenComma,
	';': TokenSequence,
	'|': TokenParallel,
}

func (s *Scanner) token(typ TokenType) Token {
	s.endLine = s.line
	return Token{Type: typ}
}

func (s *Scanner) contentToken(typ TokenType, content string) Token {
	s.endLine = s.line
	return Token{Type: typ, Content: content}
}

func (s *Scanner) identToken(name string) Token {
	s.endLine = s.line
	return Token{
		Type:         LookupKeyword(name),
		Content:      name,
		IsUnreserved: unreservedKeywords[name],
	}
}

// GetToken scans and returns the next token. Consuming a line feed while
// skipping separators yields one Newline token per line feed. The returned
// error is non-nil only for a malformed string escape; every other
// irregularity surfaces as an Error token.
func (s *Scanner) GetToken() (Token, error) {
	for !s.atEOF() && isSeparator(s.peek()) {
		if s.advance() == '\n' {
			return Token{Type: TokenNewline}, nil
		}
	}
	if s.atEOF() {
		s.errorColumn = -1
		return Token{Type: TokenEOF}, nil
	}

	s.startLine = s.line
	s.endLine = s.line
	s.errorColumn = s.column

	state := stateInitial
	first := s.peek()
	switch {
	case isLetter(first):
		state = stateID
	case isDigit(first):
		state = stateInt
	case first == '"':
		s.advance()
		state = stateString
	case first == '+':
		s.advance()
		state = statePlusOrChoice
	case first == '=':
		s.advance()
		state = stateAssignOrEqual
	case first == '<':
		s.advance()
		state = stateLessOrLE
	case first == '>':
		s.advance()
		state = stateGreaterOrGE
	case first == '!':
		s.advance()
		state = stateNotOrNE
	case first == '/':
		s.advance()
		state = stateDivideOrComment
	case first == '-':
		s.advance()
		state = stateMinusOrInt
	default:
		s.advance()
		if typ, ok := singleCharTokens[first]; ok {
			return s.token(typ), nil
		}
		return s.token(TokenError), nil
	}

	var str []byte
	if state == stateMinusOrInt {
		str = append(str, '-')
	}

	for {
		switch state {
		case stateID:
			if !s.atEOF() && isIdentChar(s.peek()) {
				str = append(str, s.advance())
				continue
			}
			return s.identToken(string(str)), nil

		case stateInt:
			if !s.atEOF() && isDigit(s.peek()) {
				str = append(str, s.advance())
				continue
			}
			return s.contentToken(TokenIntLiteral, string(str)), nil

		case stateString:
			if s.atEOF() {
				// unterminated string
				return s.token(TokenError), nil
			}
			switch ch := s.advance(); ch {
			case '"':
				return s.contentToken(TokenStringLiteral, string(str)), nil
			case '\\':
				if s.atEOF() {
					return Token{}, fmt.Errorf("malformed string: bad \\ usage")
				}
				switch esc := s.advance(); esc {
				case '\\':
					str = append(str, '\\')
				case 'n':
					str = append(str, '\n')
				case 't':
					str = append(str, '\t')
				case '"':
					str = append(str, '"')
				default:
					return Token{}, fmt.Errorf("malformed string: bad \\ usage")
				}
			default:
				str = append(str, ch)
			}

		case statePlusOrChoice:
			if !s.atEOF() && s.peek() == '+' {
				s.advance()
				return s.token(TokenChoice), nil
			}
			return s.token(TokenPlus), nil

		case stateAssignOrEqual:
			if !s.atEOF() && s.peek() == '=' {
				s.advance()
				return s.token(TokenEqual), nil
			}
			return s.token(TokenAssign), nil

		case stateLessOrLE:
			if !s.atEOF() && s.peek() == '=' {
				s.advance()
				return s.token(TokenLessEqual), nil
			}
			return s.token(TokenLAngle), nil

		case stateGreaterOrGE:
			if !s.atEOF() && s.peek() == '=' {
				s.advance()
				return s.token(TokenGreaterEqual), nil
			}
			return s.token(TokenRAngle), nil

		case stateNotOrNE:
			if !s.atEOF() && s.peek() == '=' {
				s.advance()
				return s.token(TokenNotEqual), nil
			}
			return s.token(TokenNot), nil

		case stateDivideOrComment:
			if !s.atEOF() && s.peek() == '*' {
				s.advance()
				state = stateBlockComment
				continue
			}
			if !s.atEOF() && s.peek() == '/' {
				s.advance()
				state = stateLineComment
				continue
			}
			return s.token(TokenDivide), nil

		case stateBlockComment:
			if s.atEOF() {
				// unterminated comment
				return s.token(TokenError), nil
			}
			if s.advance() == '*' && !s.atEOF() && s.peek() == '/' {
				s.advance()
				return s.GetToken()
			}

		case stateMinusOrInt:
			if !s.atEOF() && isDigit(s.peek()) {
				state = stateInt
				continue
			}
			return s.token(TokenMinus), nil

		case stateLineComment:
			if s.atEOF() || s.advance() == '\n' {
				return s.GetToken()
			}
		}
	}
}

// ReadLineAfterError consumes input to the end of the current line, so that
// the whole offending line is retained for error rendering and the next token
// starts on a fresh line.
func (s *Scanner) ReadLineAfterError() {
	for !s.atEOF() {
		if s.advance() == '\n' {
			return
		}
	}
	if len(s.cur) > 0 {
		s.lines = append(s.lines, string(s.cur))
		s.cur = s.cur[:0]
	}
}

// AllLines returns every source line seen so far, including the in-progress
// one, without newline characters.
func (s *Scanner) AllLines() []string {
	all := make([]string, len(s.lines), len(s.lines)+1)
	copy(all, s.lines)
	if len(s.cur) > 0 {
		all = append(all, string(s.cur))
	}
	return all
}

// lineAt returns the 1-based line n, falling back to the in-progress line
// when n is the line currently being scanned.
func (s *Scanner) lineAt(n int) (string, bool) {
	if n >= 1 && n <= len(s.lines) {
		return s.lines[n-1], true
	}
	if n == len(s.lines)+1 && len(s.cur) > 0 {
		return string(s.cur), true
	}
	return "", false
}

// CodeLines returns the lines of the current token range, each prefixed with
// its line number. Lines that are not retained are skipped, so callers get a
// best-effort excerpt rather than a failure.
func (s *Scanner) CodeLines() []string {
	var code []string
	for i := s.startLine; i <= s.endLine; i++ {
		if line, ok := s.lineAt(i); ok {
			code = append(code, strconv.Itoa(i)+":"+line)
		}
	}
	return code
}

func isSeparator(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter accepts ASCII letters. Bytes beyond ASCII are treated as letters
// so identifiers may carry multibyte characters.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}
