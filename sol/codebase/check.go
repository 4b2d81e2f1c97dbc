package codebase

import (
	"errors"

	"github.com/dhamidi/sol/sol/parser"
)

// maxDiagnostics caps how many problems Check reports for one file. Past a
// handful of errors the recovery heuristics produce more noise than signal.
const maxDiagnostics = 20

// Check validates the structural outline of a Sol source file: import lines,
// execution declarations, interface and service headers, port definitions and
// the top-level blocks of the older flat style. It builds no tree; the output
// is the list of diagnostics in source order, at most maxDiagnostics long.
//
// Check never fails. Malformed input produces diagnostics, not errors, and an
// unreadable region is skipped up to the next plausible construct.
func Check(src []byte, source string) []*parser.Error {
	c := &checker{p: parser.NewParser(parser.NewScanner(src, source))}
	c.run()
	return c.diags
}

type checker struct {
	p     *parser.Parser
	diags []*parser.Error
}

// topLevelWords are the unreserved words that can open a top-level construct.
// Reserved construct keywords (main, define, execution and the flat-style
// block keywords) are matched by token type instead.
var topLevelWords = map[string]bool{
	"from":      true,
	"import":    true,
	"include":   true,
	"service":   true,
	"interface": true,
	"type":      true,
	"constants": true,
}

func (c *checker) run() {
	for {
		if err := c.p.NextToken(); err != nil {
			c.report(err)
			if len(c.diags) >= maxDiagnostics {
				return
			}
			c.p.Scanner().ReadLineAfterError()
			continue
		}
		break
	}
	for !c.p.Token().IsEOF() && len(c.diags) < maxDiagnostics {
		if err := c.topLevel(); err != nil {
			c.report(err)
			if len(c.diags) >= maxDiagnostics {
				return
			}
			c.resync()
		}
	}
}

func (c *checker) report(err error) {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		perr = &parser.Error{Context: c.p.Context(), Message: err.Error()}
	}
	c.diags = append(c.diags, perr)
}

// resync skips ahead to the next token that looks like the start of a
// top-level construct, so one mistake does not swallow the rest of the file.
// Reporting already consumed the remainder of the failing line, which puts
// the first token seen here at a line start even though no newline token was
// observed for it.
func (c *checker) resync() {
	atLineStart := true
	for {
		if err := c.p.NextToken(); err != nil {
			c.p.Scanner().ReadLineAfterError()
			atLineStart = true
			continue
		}
		tok := c.p.Token()
		if tok.IsEOF() {
			return
		}
		if (atLineStart || c.p.MetNewline()) && c.atTopLevelStart() {
			return
		}
		atLineStart = false
	}
}

func (c *checker) atTopLevelStart() bool {
	tok := c.p.Token()
	switch tok.Type {
	case parser.TokenExecution, parser.TokenMain, parser.TokenDefine, parser.TokenCset,
		parser.TokenLocations, parser.TokenOperations, parser.TokenVariables, parser.TokenLinks:
		return true
	case parser.TokenIdent:
		return topLevelWords[tok.Content]
	}
	return false
}

func (c *checker) topLevel() error {
	tok := c.p.Token()
	switch {
	case tok.Is(parser.TokenError):
		return c.p.Fail("invalid token encountered")
	case tok.Is(parser.TokenIdent) && tok.Content == "from":
		return c.importDirective()
	case tok.Is(parser.TokenIdent) && tok.Content == "include":
		return c.includeDirective()
	case tok.Is(parser.TokenIdent) && tok.Content == "interface":
		return c.interfaceDecl()
	case tok.Is(parser.TokenIdent) && tok.Content == "service":
		return c.serviceDecl()
	case tok.Is(parser.TokenIdent) && tok.Content == "type":
		return c.typeDecl()
	case tok.Is(parser.TokenIdent) && tok.Content == "constants":
		return c.keywordBlock("constants")
	case tok.Is(parser.TokenExecution):
		return c.executionDecl()
	case tok.Is(parser.TokenMain):
		return c.reservedBlock(parser.TokenMain, "main")
	case tok.Is(parser.TokenDefine):
		return c.defineDecl()
	case tok.Is(parser.TokenCset):
		return c.reservedBlock(parser.TokenCset, "cset")
	case tok.Is(parser.TokenLocations):
		return c.reservedBlock(parser.TokenLocations, "locations")
	case tok.Is(parser.TokenOperations):
		return c.reservedBlock(parser.TokenOperations, "operations")
	case tok.Is(parser.TokenVariables):
		return c.reservedBlock(parser.TokenVariables, "variables")
	case tok.Is(parser.TokenLinks):
		return c.reservedBlock(parser.TokenLinks, "links")
	default:
		return c.p.FailWithScope("unexpected term at top level", "", parser.ScopeOuter)
	}
}

// importDirective parses `from <module> import <name> {, <name>}`. The module
// part is an identifier or a string literal naming a file.
func (c *checker) importDirective() error {
	start := c.p.Line()
	if err := c.p.EatKeyword("from", "expected from"); err != nil {
		return err
	}
	if c.p.Token().Is(parser.TokenStringLiteral) {
		if err := c.p.NextToken(); err != nil {
			return err
		}
	} else if err := c.p.EatIdentifier("expected module name after from"); err != nil {
		return err
	}
	if !c.p.Token().Is(parser.TokenIdent) || c.p.Token().Content != "import" {
		c.p.SetStartLine(start)
		return c.p.FailWithScope("expected import keyword", "", parser.ScopeImport)
	}
	if err := c.p.NextToken(); err != nil {
		return err
	}
	return c.identList("expected imported name")
}

func (c *checker) includeDirective() error {
	if err := c.p.EatKeyword("include", "expected include"); err != nil {
		return err
	}
	return c.p.Eat(parser.TokenStringLiteral, "expected file name string after include")
}

// executionDecl accepts both execution styles:
//
//	execution { concurrent }
//	execution: concurrent
//
// The block style is speculated first. When the token after the keyword turns
// out not to be a brace, the speculation is rolled back and the colon style
// parses the same tokens again.
func (c *checker) executionDecl() error {
	start := c.p.Line()
	c.p.StartBackup()
	if err := c.p.NextToken(); err != nil {
		return err
	}
	if c.p.Token().Is(parser.TokenLCurly) {
		c.p.DiscardBackup()
		if err := c.p.NextToken(); err != nil {
			return err
		}
		if err := c.modality(start); err != nil {
			return err
		}
		return c.p.Eat(parser.TokenRCurly, "expected } after execution modality")
	}
	if err := c.p.RecoverBackup(); err != nil {
		return err
	}
	if err := c.p.Eat(parser.TokenExecution, "expected execution"); err != nil {
		return err
	}
	if err := c.p.Eat(parser.TokenColon, "expected { or : after execution"); err != nil {
		return err
	}
	return c.modality(start)
}

func (c *checker) modality(start int) error {
	tok := c.p.Token()
	if tok.Is(parser.TokenConcurrent) || tok.Is(parser.TokenSequential) {
		return c.p.NextToken()
	}
	if tok.Is(parser.TokenIdent) && tok.Content == "single" {
		return c.p.NextToken()
	}
	c.p.SetStartLine(start)
	return c.p.FailWithScope("expected execution modality", "", parser.ScopeExecution)
}

func (c *checker) interfaceDecl() error {
	start := c.p.Line()
	if err := c.p.EatKeyword("interface", "expected interface"); err != nil {
		return err
	}
	name := c.p.Token().Content
	if err := c.p.EatIdentifier("expected interface name"); err != nil {
		return err
	}
	if err := c.p.EatWithScope(parser.TokenLCurly, "expected { after interface name", name, parser.ScopeInterface); err != nil {
		return err
	}
	return c.skipBalanced(start, name, parser.ScopeInterface)
}

func (c *checker) serviceDecl() error {
	start := c.p.Line()
	if err := c.p.EatKeyword("service", "expected service"); err != nil {
		return err
	}
	name := c.p.Token().Content
	if err := c.p.EatIdentifier("expected service name"); err != nil {
		return err
	}
	if c.p.Token().Is(parser.TokenLParen) {
		if err := c.skipParens(name); err != nil {
			return err
		}
	}
	if err := c.p.Eat(parser.TokenLCurly, "expected { after service name"); err != nil {
		return err
	}
	for {
		tok := c.p.Token()
		switch {
		case tok.Is(parser.TokenRCurly):
			return c.p.NextToken()
		case tok.Is(parser.TokenError):
			return c.p.Fail("invalid token encountered")
		case tok.Is(parser.TokenExecution):
			if err := c.executionDecl(); err != nil {
				return err
			}
		case tok.Is(parser.TokenMain):
			if err := c.reservedBlock(parser.TokenMain, "main"); err != nil {
				return err
			}
		case tok.Is(parser.TokenDefine):
			if err := c.defineDecl(); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "init":
			if err := c.keywordBlock("init"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "inputPort":
			if err := c.portDecl("inputPort"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "outputPort":
			if err := c.portDecl("outputPort"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "embed":
			if err := c.embedDecl(); err != nil {
				return err
			}
		default:
			c.p.SetStartLine(start)
			return c.p.FailWithScope("unexpected term found inside service "+name, name, parser.ScopeService)
		}
	}
}

// portDecl parses an inputPort or outputPort body. Only the three common
// fields are understood; anything else is reported against the port scope.
func (c *checker) portDecl(kind string) error {
	start := c.p.Line()
	if err := c.p.EatKeyword(kind, "expected "+kind); err != nil {
		return err
	}
	name := c.p.Token().Content
	if err := c.p.EatIdentifier("expected " + kind + " name"); err != nil {
		return err
	}
	if err := c.p.Eat(parser.TokenLCurly, "expected { after "+kind+" name"); err != nil {
		return err
	}
	for {
		tok := c.p.Token()
		switch {
		case tok.Is(parser.TokenRCurly):
			return c.p.NextToken()
		case tok.Is(parser.TokenError):
			return c.p.Fail("invalid token encountered")
		case tok.Is(parser.TokenIdent) && tok.Content == "location":
			if err := c.p.NextToken(); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenColon, "expected : after location"); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenStringLiteral, "expected location string"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "protocol":
			if err := c.p.NextToken(); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenColon, "expected : after protocol"); err != nil {
				return err
			}
			if err := c.p.EatIdentifier("expected protocol name"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "interfaces":
			if err := c.p.NextToken(); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenColon, "expected : after interfaces"); err != nil {
				return err
			}
			if err := c.identList("expected interface name"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "aggregates":
			if err := c.p.NextToken(); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenColon, "expected : after aggregates"); err != nil {
				return err
			}
			if err := c.identList("expected aggregated port name"); err != nil {
				return err
			}
		case tok.Is(parser.TokenIdent) && tok.Content == "redirects":
			if err := c.p.NextToken(); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenColon, "expected : after redirects"); err != nil {
				return err
			}
			if err := c.redirectList(); err != nil {
				return err
			}
		case tok.Is(parser.TokenOneWay), tok.Is(parser.TokenRequestResponse):
			opKind := tok.Text()
			if err := c.p.NextToken(); err != nil {
				return err
			}
			if err := c.p.Eat(parser.TokenColon, "expected : after "+opKind); err != nil {
				return err
			}
			if err := c.identList("expected operation name"); err != nil {
				return err
			}
		default:
			c.p.SetStartLine(start)
			return c.p.FailWithScope("unexpected term found inside "+kind+" "+name, name, parser.ScopeInputPort)
		}
	}
}

func (c *checker) embedDecl() error {
	if err := c.p.EatKeyword("embed", "expected embed"); err != nil {
		return err
	}
	if err := c.p.EatIdentifier("expected embedded service name"); err != nil {
		return err
	}
	if c.p.Token().Is(parser.TokenIdent) && c.p.Token().Content == "as" {
		if err := c.p.NextToken(); err != nil {
			return err
		}
		return c.p.EatIdentifier("expected embedding alias")
	}
	return nil
}

func (c *checker) defineDecl() error {
	start := c.p.Line()
	if err := c.p.Eat(parser.TokenDefine, "expected define"); err != nil {
		return err
	}
	name := c.p.Token().Content
	if err := c.p.EatIdentifier("expected procedure name after define"); err != nil {
		return err
	}
	if err := c.p.Eat(parser.TokenLCurly, "expected { after procedure name"); err != nil {
		return err
	}
	return c.skipBalanced(start, name, "define")
}

// typeDecl skims over `type <name> [: <basic>] [{ ... }]`.
func (c *checker) typeDecl() error {
	if err := c.p.EatKeyword("type", "expected type"); err != nil {
		return err
	}
	if err := c.p.EatIdentifier("expected type name"); err != nil {
		return err
	}
	if c.p.Token().Is(parser.TokenColon) {
		if err := c.p.NextToken(); err != nil {
			return err
		}
		if err := c.p.EatIdentifier("expected basic type name"); err != nil {
			return err
		}
	}
	if c.p.Token().Is(parser.TokenLCurly) {
		start := c.p.Line()
		if err := c.p.NextToken(); err != nil {
			return err
		}
		return c.skipBalanced(start, "", "type")
	}
	return nil
}

// reservedBlock handles the flat-style blocks opened by a reserved keyword:
// main, cset, locations, operations, variables and links.
func (c *checker) reservedBlock(typ parser.TokenType, word string) error {
	start := c.p.Line()
	if err := c.p.Eat(typ, "expected "+word); err != nil {
		return err
	}
	if err := c.p.Eat(parser.TokenLCurly, "expected { after "+word); err != nil {
		return err
	}
	return c.skipBalanced(start, "", word)
}

// keywordBlock is reservedBlock for block openers that scan as identifiers.
func (c *checker) keywordBlock(word string) error {
	start := c.p.Line()
	if err := c.p.EatKeyword(word, "expected "+word); err != nil {
		return err
	}
	if err := c.p.Eat(parser.TokenLCurly, "expected { after "+word); err != nil {
		return err
	}
	return c.skipBalanced(start, "", word)
}

// identList consumes a comma separated list of identifiers.
func (c *checker) identList(msg string) error {
	for {
		if err := c.p.EatIdentifier(msg); err != nil {
			return err
		}
		if !c.p.Token().Is(parser.TokenComma) {
			return nil
		}
		if err := c.p.NextToken(); err != nil {
			return err
		}
	}
}

// redirectList consumes `name => port {, name => port}`. The arrow scans as
// an assignment token followed by a greater-than token.
func (c *checker) redirectList() error {
	for {
		if err := c.p.EatIdentifier("expected redirected resource name"); err != nil {
			return err
		}
		if err := c.p.Eat(parser.TokenAssign, "expected => after resource name"); err != nil {
			return err
		}
		if err := c.p.Eat(parser.TokenRAngle, "expected => after resource name"); err != nil {
			return err
		}
		if err := c.p.EatIdentifier("expected target port name"); err != nil {
			return err
		}
		if !c.p.Token().Is(parser.TokenComma) {
			return nil
		}
		if err := c.p.NextToken(); err != nil {
			return err
		}
	}
}

// skipBalanced consumes tokens up to and past the brace closing the current
// construct. It is called just after the opening brace was eaten.
func (c *checker) skipBalanced(start int, name, scope string) error {
	depth := 1
	for {
		tok := c.p.Token()
		switch {
		case tok.IsEOF():
			c.p.SetStartLine(start)
			msg := "unexpected end of input inside " + scope
			if name != "" {
				msg += " " + name
			}
			return c.p.FailWithScope(msg, name, scope)
		case tok.Is(parser.TokenLCurly):
			depth++
		case tok.Is(parser.TokenRCurly):
			depth--
			if depth == 0 {
				return c.p.NextToken()
			}
		}
		if err := c.p.NextToken(); err != nil {
			return err
		}
	}
}

// skipParens consumes a parenthesized service parameter list.
func (c *checker) skipParens(name string) error {
	depth := 0
	for {
		tok := c.p.Token()
		switch {
		case tok.IsEOF():
			return c.p.Fail("unexpected end of input in parameters of service " + name)
		case tok.Is(parser.TokenLParen):
			depth++
		case tok.Is(parser.TokenRParen):
			depth--
			if depth == 0 {
				return c.p.NextToken()
			}
		}
		if err := c.p.NextToken(); err != nil {
			return err
		}
	}
}
