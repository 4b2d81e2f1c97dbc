package parser

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline

	// Tokens with variable content
	TokenIdent
	TokenIntLiteral
	TokenStringLiteral

	// Keywords
	TokenOneWay
	TokenRequestResponse
	TokenNotification
	TokenSolicitResponse
	TokenLinkIn
	TokenLinkOut
	TokenIf
	TokenElse
	TokenIn
	TokenOut
	TokenAnd
	TokenOr
	TokenLocations
	TokenOperations
	TokenVariables
	TokenMain
	TokenDefine
	TokenLinks
	TokenNullProcess
	TokenWhile
	TokenSleep
	TokenInt
	TokenString
	TokenVariant
	TokenCset
	TokenPersistent
	TokenNotPersistent
	TokenConcurrent
	TokenSequential
	TokenState
	TokenExecution
	TokenInstallFH
	TokenInstallComp
	TokenThrow
	TokenScope
	TokenComp

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLSquare
	TokenRSquare
	TokenLCurly
	TokenRCurly
	TokenComma
	TokenSequence
	TokenParallel
	TokenChoice
	TokenAsterisk
	TokenDivide
	TokenAssign
	TokenPlus
	TokenMinus
	TokenLAngle
	TokenRAngle
	TokenLessEqual
	TokenGreaterEqual
	TokenEqual
	TokenNotEqual
	TokenNot
	TokenColon
	TokenAt
)

// tokenTypeNames maps token types to their display names. Operators and
// keywords map to their exact lexeme so a token stream can be rendered back
// into source text.
var tokenTypeNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenError:   "Error",
	TokenNewline: "Newline",

	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenStringLiteral: "StringLiteral",

	TokenOneWay:          "OneWay",
	TokenRequestResponse: "RequestResponse",
	TokenNotification:    "Notification",
	TokenSolicitResponse: "SolicitResponse",
	TokenLinkIn:          "linkIn",
	TokenLinkOut:         "linkOut",
	TokenIf:              "if",
	TokenElse:            "else",
	TokenIn:              "in",
	TokenOut:             "out",
	TokenAnd:             "and",
	TokenOr:              "or",
	TokenLocations:       "locations",
	TokenOperations:      "operations",
	TokenVariables:       "variables",
	TokenMain:            "main",
	TokenDefine:          "define",
	TokenLinks:           "links",
	TokenNullProcess:     "nullProcess",
	TokenWhile:           "while",
	TokenSleep:           "sleep",
	TokenInt:             "int",
	TokenString:          "string",
	TokenVariant:         "variant",
	TokenCset:            "cset",
	TokenPersistent:      "persistent",
	TokenNotPersistent:   "not_persistent",
	TokenConcurrent:      "concurrent",
	TokenSequential:      "sequential",
	TokenState:           "state",
	TokenExecution:       "execution",
	TokenInstallFH:       "installFH",
	TokenInstallComp:     "installComp",
	TokenThrow:           "throw",
	TokenScope:           "scope",
	TokenComp:            "comp",

	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLSquare:      "[",
	TokenRSquare:      "]",
	TokenLCurly:       "{",
	TokenRCurly:       "}",
	TokenComma:        ",",
	TokenSequence:     ";",
	TokenParallel:     "|",
	TokenChoice:       "++",
	TokenAsterisk:     "*",
	TokenDivide:       "/",
	TokenAssign:       "=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenLAngle:       "<",
	TokenRAngle:       ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenNot:          "!",
	TokenColon:        ":",
	TokenAt:           "@",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// keywords maps keyword lexemes to their token types. Lookup happens on the
// complete identifier, so an identifier like "persistent1" never matches.
var keywords = map[string]TokenType{
	"OneWay":          TokenOneWay,
	"RequestResponse": TokenRequestResponse,
	"Notification":    TokenNotification,
	"SolicitResponse": TokenSolicitResponse,
	"linkIn":          TokenLinkIn,
	"linkOut":         TokenLinkOut,
	"if":              TokenIf,
	"else":            TokenElse,
	"in":              TokenIn,
	"out":             TokenOut,
	"and":             TokenAnd,
	"or":              TokenOr,
	"locations":       TokenLocations,
	"operations":      TokenOperations,
	"variables":       TokenVariables,
	"main":            TokenMain,
	"define":          TokenDefine,
	"links":           TokenLinks,
	"nullProcess":     TokenNullProcess,
	"while":           TokenWhile,
	"sleep":           TokenSleep,
	"int":             TokenInt,
	"string":          TokenString,
	"variant":         TokenVariant,
	"cset":            TokenCset,
	"persistent":      TokenPersistent,
	"not_persistent":  TokenNotPersistent,
	"concurrent":      TokenConcurrent,
	"sequential":      TokenSequential,
	"state":           TokenState,
	"execution":       TokenExecution,
	"installFH":       TokenInstallFH,
	"installComp":     TokenInstallComp,
	"throw":           TokenThrow,
	"scope":           TokenScope,
	"comp":            TokenComp,
}

// unreservedKeywords marks the keywords that may also appear where an
// identifier is expected: operation kinds, directions, basic types and the
// resource nouns. Control-flow keywords stay reserved.
var unreservedKeywords = map[string]bool{
	"OneWay":          true,
	"RequestResponse": true,
	"Notification":    true,
	"SolicitResponse": true,
	"in":              true,
	"out":             true,
	"int":             true,
	"string":          true,
	"variant":         true,
	"locations":       true,
	"operations":      true,
	"variables":       true,
	"links":           true,
	"state":           true,
}

// LookupKeyword returns the keyword type for s, or TokenIdent if s is not a
// keyword.
func LookupKeyword(s string) TokenType {
	if typ, ok := keywords[s]; ok {
		return typ
	}
	return TokenIdent
}

// Token is a single lexical unit. Tokens are immutable and carry no position;
// the scanner that produced a token reports its line range and column.
//
// Content holds the lexeme for identifiers, literals and keywords. Operator,
// punctuation, EOF, Newline and Error tokens have empty content.
type Token struct {
	Type         TokenType
	Content      string
	IsUnreserved bool
}

// Is reports whether the token has the given type.
func (t Token) Is(typ TokenType) bool { return t.Type == typ }

// IsNot reports whether the token does not have the given type.
func (t Token) IsNot(typ TokenType) bool { return t.Type != typ }

// IsEOF reports whether the token marks the end of input.
func (t Token) IsEOF() bool { return t.Type == TokenEOF }

// IsIdentifier reports whether the token can stand where an identifier is
// expected: a plain identifier or an unreserved keyword.
func (t Token) IsIdentifier() bool { return t.Type == TokenIdent || t.IsUnreserved }

// Text returns the source spelling of the token: the content for tokens that
// carry one, otherwise the fixed lexeme for the type. String literals are
// returned in their unquoted, escape-processed form.
func (t Token) Text() string {
	if t.Content != "" {
		return t.Content
	}
	switch t.Type {
	case TokenEOF, TokenError, TokenNewline:
		return ""
	}
	return tokenTypeNames[t.Type]
}
