package parser

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func testParser(input string) *Parser {
	return NewParser(NewScanner([]byte(input), "test.sol"))
}

func advance(t *testing.T, p *Parser) Token {
	t.Helper()
	if err := p.NextToken(); err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	return p.Token()
}

func TestParserNextToken(t *testing.T) {
	p := testParser("a b")
	if tok := advance(t, p); tok.Content != "a" {
		t.Errorf("Content = %q, want %q", tok.Content, "a")
	}
	if tok := advance(t, p); tok.Content != "b" {
		t.Errorf("Content = %q, want %q", tok.Content, "b")
	}
	if tok := advance(t, p); !tok.IsEOF() {
		t.Errorf("Type = %v, want EOF", tok.Type)
	}
}

func TestParserMetNewline(t *testing.T) {
	p := testParser("a\n\nb c")
	advance(t, p)
	if p.MetNewline() {
		t.Error("MetNewline() = true after first token")
	}
	advance(t, p)
	if !p.MetNewline() {
		t.Error("MetNewline() = false after crossing line boundary")
	}
	advance(t, p)
	if p.MetNewline() {
		t.Error("MetNewline() = true within one line")
	}
}

func TestParserAddToken(t *testing.T) {
	p := testParser("x y")
	advance(t, p)
	p.AddToken(Token{Type: TokenIdent, Content: "injected"})
	if tok := advance(t, p); tok.Content != "injected" {
		t.Errorf("Content = %q, want %q", tok.Content, "injected")
	}
	if tok := advance(t, p); tok.Content != "y" {
		t.Errorf("Content = %q, want %q", tok.Content, "y")
	}
}

func TestParserAddTokenOrder(t *testing.T) {
	p := testParser("z")
	p.AddToken(Token{Type: TokenIdent, Content: "first"})
	p.AddToken(Token{Type: TokenIdent, Content: "second"})
	want := []string{"first", "second", "z"}
	for i, content := range want {
		if tok := advance(t, p); tok.Content != content {
			t.Errorf("Token %d: Content = %q, want %q", i, tok.Content, content)
		}
	}
}

func TestParserPrependToken(t *testing.T) {
	p := testParser("x y")
	advance(t, p)
	p.PrependToken(Token{Type: TokenColon})
	if tok := advance(t, p); tok.Type != TokenColon {
		t.Errorf("Type = %v, want %v", tok.Type, TokenColon)
	}
	if tok := advance(t, p); tok.Content != "x" {
		t.Errorf("Content = %q, want %q (current token restored)", tok.Content, "x")
	}
	if tok := advance(t, p); tok.Content != "y" {
		t.Errorf("Content = %q, want %q", tok.Content, "y")
	}
}

func TestParserBackupRecover(t *testing.T) {
	p := testParser("a b c d")
	advance(t, p)
	p.StartBackup()
	advance(t, p)
	advance(t, p)
	if p.Token().Content != "c" {
		t.Fatalf("Content = %q, want %q", p.Token().Content, "c")
	}
	if err := p.RecoverBackup(); err != nil {
		t.Fatalf("RecoverBackup: %v", err)
	}
	if p.Token().Content != "a" {
		t.Errorf("after recover: Content = %q, want %q", p.Token().Content, "a")
	}
	// the rewound region replays identically
	for _, want := range []string{"b", "c", "d"} {
		if tok := advance(t, p); tok.Content != want {
			t.Errorf("Content = %q, want %q", tok.Content, want)
		}
	}
	if tok := advance(t, p); !tok.IsEOF() {
		t.Errorf("Type = %v, want EOF", tok.Type)
	}
}

func TestParserBackupDiscard(t *testing.T) {
	p := testParser("a b c")
	advance(t, p)
	p.StartBackup()
	advance(t, p)
	p.DiscardBackup()
	if tok := advance(t, p); tok.Content != "c" {
		t.Errorf("Content = %q, want %q (no replay after discard)", tok.Content, "c")
	}
}

func TestParserBackupReplaysInjected(t *testing.T) {
	p := testParser("a b")
	advance(t, p)
	p.StartBackup()
	p.AddToken(Token{Type: TokenIdent, Content: "inj"})
	advance(t, p) // inj, recorded by the session
	advance(t, p) // b
	if err := p.RecoverBackup(); err != nil {
		t.Fatalf("RecoverBackup: %v", err)
	}
	want := []string{"inj", "b"}
	if p.Token().Content != "a" {
		t.Fatalf("after recover: Content = %q, want %q", p.Token().Content, "a")
	}
	for _, content := range want {
		if tok := advance(t, p); tok.Content != content {
			t.Errorf("Content = %q, want %q", tok.Content, content)
		}
	}
}

func TestParserBackupNestedPanics(t *testing.T) {
	p := testParser("a b")
	advance(t, p)
	p.StartBackup()
	defer func() {
		if recover() == nil {
			t.Error("second StartBackup did not panic")
		}
	}()
	p.StartBackup()
}

func TestParserBackupSequentialSessions(t *testing.T) {
	p := testParser("a b c")
	advance(t, p)
	p.StartBackup()
	advance(t, p)
	p.DiscardBackup()
	p.StartBackup() // a closed session may be followed by a new one
	advance(t, p)
	if err := p.RecoverBackup(); err != nil {
		t.Fatalf("RecoverBackup: %v", err)
	}
	if p.Token().Content != "b" {
		t.Errorf("Content = %q, want %q", p.Token().Content, "b")
	}
}

func TestParserNextTokenNotEOF(t *testing.T) {
	p := testParser("a")
	advance(t, p)
	err := p.NextTokenNotEOF()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("NextTokenNotEOF() = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestParserEat(t *testing.T) {
	p := testParser("( x")
	advance(t, p)
	if err := p.Eat(TokenLParen, "expected ("); err != nil {
		t.Fatalf("Eat: %v", err)
	}
	if p.Token().Content != "x" {
		t.Errorf("Content = %q, want %q", p.Token().Content, "x")
	}
}

func TestParserEatMismatchContentless(t *testing.T) {
	p := testParser(") x")
	advance(t, p)
	err := p.Eat(TokenLParen, "expected (")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Eat() = %v, want *Error", err)
	}
	if perr.Message != "expected (" {
		t.Errorf("Message = %q, want %q", perr.Message, "expected (")
	}
	if perr.Help != "" {
		t.Errorf("Help = %q, want empty for contentless token", perr.Help)
	}
	// the column backs off one position from the token start
	if perr.Context.Column != -1 {
		t.Errorf("Column = %d, want -1", perr.Context.Column)
	}
}

func TestParserEatMismatchWithContent(t *testing.T) {
	p := testParser("foo")
	advance(t, p)
	err := p.Eat(TokenLParen, "expected (")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Eat() = %v, want *Error", err)
	}
	if perr.Message != "expected (: foo" {
		t.Errorf("Message = %q, want %q", perr.Message, "expected (: foo")
	}
	if !strings.HasPrefix(perr.Help, "The term did not match possible terms.") {
		t.Errorf("Help = %q, want generic listing", perr.Help)
	}
}

func TestParserFailEmptyMessage(t *testing.T) {
	p := testParser("foo")
	advance(t, p)
	err := p.Fail("")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Fail() = %v, want *Error", err)
	}
	if perr.Message != ". Found term: foo" {
		t.Errorf("Message = %q, want %q", perr.Message, ". Found term: foo")
	}
}

func TestParserEatIdentifier(t *testing.T) {
	p := testParser("in x")
	advance(t, p)
	// unreserved keywords stand as identifiers
	if err := p.EatIdentifier("expected name"); err != nil {
		t.Fatalf("EatIdentifier: %v", err)
	}
	if p.Token().Content != "x" {
		t.Errorf("Content = %q, want %q", p.Token().Content, "x")
	}

	p = testParser("while")
	advance(t, p)
	err := p.EatIdentifier("expected name")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("EatIdentifier() = %v, want *Error", err)
	}
	if perr.Message != "expected name: while" {
		t.Errorf("Message = %q, want %q", perr.Message, "expected name: while")
	}
}

func TestParserEatKeyword(t *testing.T) {
	p := testParser("from console")
	advance(t, p)
	if err := p.EatKeyword("from", "expected from"); err != nil {
		t.Fatalf("EatKeyword: %v", err)
	}
	if p.Token().Content != "console" {
		t.Errorf("Content = %q, want %q", p.Token().Content, "console")
	}

	p = testParser("form console")
	advance(t, p)
	if err := p.EatKeyword("from", "expected from"); err == nil {
		t.Error("EatKeyword accepted the wrong word")
	}
}

func TestParserMaybeEat(t *testing.T) {
	p := testParser("; x")
	advance(t, p)
	if err := p.MaybeEat(TokenSequence, TokenParallel); err != nil {
		t.Fatalf("MaybeEat: %v", err)
	}
	if p.Token().Content != "x" {
		t.Errorf("Content = %q, want %q", p.Token().Content, "x")
	}
	// no match leaves the cursor alone
	if err := p.MaybeEat(TokenSequence); err != nil {
		t.Fatalf("MaybeEat: %v", err)
	}
	if p.Token().Content != "x" {
		t.Errorf("Content = %q, want %q", p.Token().Content, "x")
	}
}

func TestParserFailContext(t *testing.T) {
	p := testParser("foo bar baz\nnext")
	advance(t, p)
	advance(t, p)
	err := p.Fail("unexpected term")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Fail() = %v, want *Error", err)
	}
	if perr.Message != "unexpected term: bar" {
		t.Errorf("Message = %q, want %q", perr.Message, "unexpected term: bar")
	}
	ctx := perr.Context
	if ctx.StartLine != 1 || ctx.EndLine != 1 {
		t.Errorf("lines = %d..%d, want 1..1", ctx.StartLine, ctx.EndLine)
	}
	if ctx.Column != 4 {
		t.Errorf("Column = %d, want 4", ctx.Column)
	}
	// the whole offending line is reconstructed, not just the scanned part
	if len(ctx.Code) != 1 || ctx.Code[0] != "1:foo bar baz" {
		t.Errorf("Code = %v, want [\"1:foo bar baz\"]", ctx.Code)
	}
	if got, want := perr.Error(), "test.sol:1: error: unexpected term: bar"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParserFailAtEOF(t *testing.T) {
	p := testParser("foo")
	advance(t, p)
	advance(t, p) // EOF
	err := p.Fail("missing }")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Fail() = %v, want *Error", err)
	}
	ctx := perr.Context
	if ctx.StartLine != 1 || ctx.EndLine != 1 {
		t.Errorf("lines = %d..%d, want 1..1", ctx.StartLine, ctx.EndLine)
	}
	if len(ctx.Code) != 1 || ctx.Code[0] != "foo\n" {
		t.Errorf("Code = %v, want [\"foo\\n\"]", ctx.Code)
	}
	// column past the end of the line, backed off one for the missing term
	if ctx.Column != 3 {
		t.Errorf("Column = %d, want 3", ctx.Column)
	}
}

func TestParserFailOnEmptyInput(t *testing.T) {
	p := testParser("")
	advance(t, p)
	err := p.Fail("empty module")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Fail() = %v, want *Error", err)
	}
	if perr.Message != "empty module" {
		t.Errorf("Message = %q, want %q", perr.Message, "empty module")
	}
	if len(perr.Context.Code) != 0 {
		t.Errorf("Code = %v, want empty", perr.Context.Code)
	}
}

func TestParserScanErrorWrapped(t *testing.T) {
	p := testParser("x \"a\\qb\" y")
	advance(t, p)
	p.StartBackup()
	err := p.NextToken()
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("NextToken() = %v, want *Error", err)
	}
	if got, want := perr.Message, `malformed string: bad \ usage`; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	if perr.Context.Source != "test.sol" {
		t.Errorf("Source = %q, want %q", perr.Context.Source, "test.sol")
	}
	// the failure closed the backup session
	p.StartBackup()
	p.DiscardBackup()
}

func TestParserFailDiscardsBackup(t *testing.T) {
	p := testParser("a b c")
	advance(t, p)
	p.StartBackup()
	advance(t, p)
	if err := p.Fail("boom"); err == nil {
		t.Fatal("Fail() = nil")
	}
	// no session left behind
	p.StartBackup()
	p.DiscardBackup()
}

func TestParserDiagnosticDeterminism(t *testing.T) {
	const src = "alpha beta gamma"

	plain := testParser(src)
	advance(t, plain)
	advance(t, plain)

	speculated := testParser(src)
	advance(t, speculated)
	speculated.StartBackup()
	advance(t, speculated)
	if err := speculated.RecoverBackup(); err != nil {
		t.Fatalf("RecoverBackup: %v", err)
	}
	advance(t, speculated)

	if plain.Token() != speculated.Token() {
		t.Fatalf("cursors diverged: %v vs %v", plain.Token(), speculated.Token())
	}
	errPlain := plain.Fail("unexpected term")
	errSpeculated := speculated.Fail("unexpected term")
	var a, b *Error
	if !errors.As(errPlain, &a) || !errors.As(errSpeculated, &b) {
		t.Fatalf("expected *Error values, got %v and %v", errPlain, errSpeculated)
	}
	if a.Report() != b.Report() {
		t.Errorf("diagnostics diverged after backup session:\n%q\nvs\n%q", a.Report(), b.Report())
	}
}

func TestParserFailWithScopeImport(t *testing.T) {
	p := testParser("from console imprt Console")
	advance(t, p)
	advance(t, p)
	advance(t, p) // cursor on "imprt"
	err := p.FailWithScope("expected import keyword", "", ScopeImport)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if got, want := perr.Message, "expected import keyword. Found term: imprt"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	// caret column derives from the widths of the first two fields
	if perr.Context.Column != len("1:from")+len("console") {
		t.Errorf("Column = %d, want %d", perr.Context.Column, len("1:from")+len("console"))
	}
	if !strings.Contains(perr.Help, "1:from console import Console") {
		t.Errorf("Help = %q, want corrected import line", perr.Help)
	}
	lines := strings.Split(perr.Help, "\n")
	caret := lines[len(lines)-1]
	if strings.Index(caret, "^") != 15 {
		t.Errorf("caret at %d, want 15 in %q", strings.Index(caret, "^"), caret)
	}
}

func TestParserFailWithScopeEmptyService(t *testing.T) {
	p := testParser("service Foo {")
	advance(t, p)
	advance(t, p)
	advance(t, p)
	advance(t, p) // EOF
	err := p.FailWithScope("unexpected term found inside service Foo", "Foo", ScopeService)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if got, want := perr.Message, "Service Foo is empty and does not have an ending }"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	// caret under the brace that opened the service
	if perr.Context.Column != 12 {
		t.Errorf("Column = %d, want 12", perr.Context.Column)
	}
	if len(perr.Context.Code) != 1 || perr.Context.Code[0] != "1:service Foo {" {
		t.Errorf("Code = %v, want [\"1:service Foo {\"]", perr.Context.Code)
	}
	if !strings.HasPrefix(perr.Help, "A term is missing. Possible inputs are:\n") {
		t.Errorf("Help = %q, want missing-term listing", perr.Help)
	}
	if !strings.Contains(perr.Help, "inputPort\n") {
		t.Errorf("Help = %q, want service vocabulary", perr.Help)
	}
}

func TestParserFailWithScopeServiceSuggestion(t *testing.T) {
	p := testParser("service Foo {\n\texecutoin\n}")
	for i := 0; i < 4; i++ {
		advance(t, p) // cursor on "executoin"
	}
	err := p.FailWithScope("unexpected term found inside service Foo", "Foo", ScopeService)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if got, want := perr.Message, "unexpected term found inside service Foo. Found term: executoin"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	if !strings.HasPrefix(perr.Help, "Your term is similar to what would be valid input: execution.") {
		t.Errorf("Help = %q, want execution suggestion", perr.Help)
	}
}

func TestParserFailWithScopeInputPort(t *testing.T) {
	p := testParser("inputPort In {\nlocation: \"l\"\nprotcol: http\n}")
	for i := 0; i < 7; i++ {
		advance(t, p) // cursor on "protcol"
	}
	p.SetStartLine(1)
	err := p.FailWithScope("expected inputPort field", "In", ScopeInputPort)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if got, want := perr.Message, "expected inputPort field. Found term: protcol"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	// the context covers the whole port scope
	wantCode := []string{"1:inputPort In {", "2:location: \"l\"", "3:protcol: http"}
	if len(perr.Context.Code) != len(wantCode) {
		t.Fatalf("Code = %v, want %v", perr.Context.Code, wantCode)
	}
	for i := range wantCode {
		if perr.Context.Code[i] != wantCode[i] {
			t.Errorf("Code[%d] = %q, want %q", i, perr.Context.Code[i], wantCode[i])
		}
	}
	if !strings.Contains(perr.Help, "3:protocol: http") {
		t.Errorf("Help = %q, want corrected field line", perr.Help)
	}
}

func TestParserFailWithScopeInputPortBraceColumn(t *testing.T) {
	p := testParser("inputPort In { xyz }")
	for i := 0; i < 4; i++ {
		advance(t, p) // cursor on "xyz"
	}
	err := p.FailWithScope("expected inputPort field", "In", ScopeInputPort)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	// column points at the closing brace of the port line
	if perr.Context.Column != 19 {
		t.Errorf("Column = %d, want 19", perr.Context.Column)
	}
	// a term with no near match in the scope vocabulary produces no help
	if perr.Help != "" {
		t.Errorf("Help = %q, want empty", perr.Help)
	}
}

func TestParserFailWithScopeExecution(t *testing.T) {
	p := testParser("execution { sngle }")
	advance(t, p)
	advance(t, p)
	advance(t, p) // cursor on "sngle"
	err := p.FailWithScope("expected execution modality", "", ScopeExecution)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if !strings.Contains(perr.Help, "1:execution { single }") {
		t.Errorf("Help = %q, want corrected modality line", perr.Help)
	}
}

func TestParserFailWithScopeOuter(t *testing.T) {
	p := testParser("servce Foo {")
	advance(t, p)
	err := p.FailWithScope("unexpected term at top level", "", ScopeOuter)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if !strings.Contains(perr.Help, "1:service Foo {") {
		t.Errorf("Help = %q, want corrected top-level line", perr.Help)
	}
}

func TestParserFailWithScopeUnknownScope(t *testing.T) {
	p := testParser("what")
	advance(t, p)
	err := p.FailWithScope("no idea", "", "nowhere")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	if !strings.HasPrefix(perr.Help, "The term did not match possible terms.") {
		t.Errorf("Help = %q, want generic listing", perr.Help)
	}
}

func TestErrorReport(t *testing.T) {
	p := testParser("servce Foo {")
	advance(t, p)
	err := p.FailWithScope("unexpected term at top level", "", ScopeOuter)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("FailWithScope() = %v, want *Error", err)
	}
	report := perr.Report()
	wantParts := []string{
		"test.sol:1: error: unexpected term at top level. Found term: servce",
		"1:servce Foo {",
		"Your term is similar to what would be valid input: service.",
	}
	for _, part := range wantParts {
		if !strings.Contains(report, part) {
			t.Errorf("Report() missing %q:\n%s", part, report)
		}
	}
}
