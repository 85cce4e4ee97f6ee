// lexer.go — scanner for Zekken source text.
//
// The lexer turns a source string into a flat []Token terminated by EOF.
// Every consumed byte updates the line/column counters, including newlines
// inside strings and block comments; diagnostics depend on those positions
// being exact. Comments are consumed but not emitted as tokens.
//
// Block comments do not nest: the first `*/` closes the comment. This is a
// deliberate, documented policy.
//
// Failure modes are unterminated strings, unterminated block comments, and
// bytes outside the language's alphabet; each produces a *LexError carrying
// the 1-based line and column of the offending position.
package zekken

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACE   // "{"
	RBRACE   // "}"
	LBRACKET // "["
	RBRACKET // "]"
	COLON    // ":"
	SEMI     // ";"
	COMMA    // ","
	DOT      // "."
	PIPE     // "|"

	// Operators
	PLUS    // "+"
	MINUS   // "-"
	STAR    // "*"
	SLASH   // "/"
	PERCENT // "%"

	ASSIGN         // "="
	PLUS_ASSIGN    // "+="
	MINUS_ASSIGN   // "-="
	STAR_ASSIGN    // "*="
	SLASH_ASSIGN   // "/="
	PERCENT_ASSIGN // "%="

	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="
	AND        // "&&"
	OR         // "||"
	BANG       // "!"

	ARROW     // "->" introduces a lambda body
	CALLARROW // "=>" introduces a pipe-delimited argument list

	// Literals & identifiers
	IDENT // also "@"-prefixed builtin names such as @println
	INT
	FLOAT
	STRING

	// Keywords
	LET
	CONST
	FUNC
	OBJ
	IF
	ELSE
	FOR
	WHILE
	IN
	FROM
	USE
	INCLUDE
	EXPORT
	RETURN
	BREAK
	CONTINUE
	TRY
	CATCH
	TRUE
	FALSE
	NULL

	// Type annotations: int, float, string, bool, array, object
	TYPE
)

var tokenNames = map[TokenType]string{
	EOF: "end of file", LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COLON: ":", SEMI: ";", COMMA: ",", DOT: ".",
	PIPE: "|", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=", EQ: "==", NEQ: "!=", LESS: "<",
	LESS_EQ: "<=", GREATER: ">", GREATER_EQ: ">=", AND: "&&", OR: "||",
	BANG: "!", ARROW: "->", CALLARROW: "=>", IDENT: "identifier",
	INT: "integer literal", FLOAT: "float literal", STRING: "string literal",
	LET: "let", CONST: "const", FUNC: "func", OBJ: "obj", IF: "if", ELSE: "else",
	FOR: "for", WHILE: "while", IN: "in", FROM: "from", USE: "use",
	INCLUDE: "include", EXPORT: "export", RETURN: "return", BREAK: "break",
	CONTINUE: "continue", TRY: "try", CATCH: "catch", TRUE: "true",
	FALSE: "false", NULL: "null", TYPE: "type name",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Token is a lexical token with optional literal value. Tokens are never
// mutated after the lexer emits them.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice (decoded content for STRING)
	Literal interface{} // parsed value for INT/FLOAT/STRING
	Line    int         // 1-based
	Col     int         // 1-based
}

var keywords = map[string]TokenType{
	"let":      LET,
	"const":    CONST,
	"func":     FUNC,
	"obj":      OBJ,
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"while":    WHILE,
	"in":       IN,
	"from":     FROM,
	"use":      USE,
	"include":  INCLUDE,
	"export":   EXPORT,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"try":      TRY,
	"catch":    CATCH,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,

	"int":    TYPE,
	"float":  TYPE,
	"string": TYPE,
	"bool":   TYPE,
	"array":  TYPE,
	"object": TYPE,
}

// LexError reports a malformed token with its 1-based source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans a Zekken source string into tokens.
type Lexer struct {
	src    string
	cur    int
	line   int // 1-based
	col    int // 1-based column of the byte at cur
	tokens []Token

	// position of the first byte of the token being scanned
	tokLine int
	tokCol  int
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole source. The returned slice always ends with an
// EOF token when err is nil.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanks()
		if l.isAtEnd() {
			break
		}
		l.tokLine, l.tokCol = l.line, l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens, nil
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekNext() byte {
	if l.cur+1 >= len(l.src) {
		return 0
	}
	return l.src[l.cur+1]
}

// advance consumes one byte, maintaining the line/column counters.
func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// match consumes the next byte when it equals want.
func (l *Lexer) match(want byte) bool {
	if l.isAtEnd() || l.src[l.cur] != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) add(tt TokenType, lexeme string, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type: tt, Lexeme: lexeme, Literal: lit,
		Line: l.tokLine, Col: l.tokCol,
	})
}

func (l *Lexer) errAt(line, col int, format string, args ...interface{}) error {
	return &LexError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanToken() error {
	ch := l.advance()
	switch ch {
	case '(':
		l.add(LPAREN, "(", nil)
	case ')':
		l.add(RPAREN, ")", nil)
	case '{':
		l.add(LBRACE, "{", nil)
	case '}':
		l.add(RBRACE, "}", nil)
	case '[':
		l.add(LBRACKET, "[", nil)
	case ']':
		l.add(RBRACKET, "]", nil)
	case ':':
		l.add(COLON, ":", nil)
	case ';':
		l.add(SEMI, ";", nil)
	case ',':
		l.add(COMMA, ",", nil)
	case '.':
		l.add(DOT, ".", nil)
	case '+':
		if l.match('=') {
			l.add(PLUS_ASSIGN, "+=", nil)
		} else {
			l.add(PLUS, "+", nil)
		}
	case '-':
		if l.match('>') {
			l.add(ARROW, "->", nil)
		} else if l.match('=') {
			l.add(MINUS_ASSIGN, "-=", nil)
		} else {
			l.add(MINUS, "-", nil)
		}
	case '*':
		if l.match('=') {
			l.add(STAR_ASSIGN, "*=", nil)
		} else {
			l.add(STAR, "*", nil)
		}
	case '%':
		if l.match('=') {
			l.add(PERCENT_ASSIGN, "%=", nil)
		} else {
			l.add(PERCENT, "%", nil)
		}
	case '/':
		if l.match('/') {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		} else if l.match('*') {
			return l.blockComment()
		} else if l.match('=') {
			l.add(SLASH_ASSIGN, "/=", nil)
		} else {
			l.add(SLASH, "/", nil)
		}
	case '=':
		if l.match('>') {
			l.add(CALLARROW, "=>", nil)
		} else if l.match('=') {
			l.add(EQ, "==", nil)
		} else {
			l.add(ASSIGN, "=", nil)
		}
	case '!':
		if l.match('=') {
			l.add(NEQ, "!=", nil)
		} else {
			l.add(BANG, "!", nil)
		}
	case '<':
		if l.match('=') {
			l.add(LESS_EQ, "<=", nil)
		} else {
			l.add(LESS, "<", nil)
		}
	case '>':
		if l.match('=') {
			l.add(GREATER_EQ, ">=", nil)
		} else {
			l.add(GREATER, ">", nil)
		}
	case '&':
		if l.match('&') {
			l.add(AND, "&&", nil)
		} else {
			return l.errAt(l.tokLine, l.tokCol, "unexpected character '&' (did you mean '&&'?)")
		}
	case '|':
		if l.match('|') {
			l.add(OR, "||", nil)
		} else {
			l.add(PIPE, "|", nil)
		}
	case '"', '\'':
		return l.scanString(ch)
	case '@':
		if !isAlpha(l.peek()) {
			return l.errAt(l.tokLine, l.tokCol, "expected builtin name after '@'")
		}
		start := l.cur
		for isAlphaNum(l.peek()) {
			l.advance()
		}
		l.add(IDENT, "@"+l.src[start:l.cur], nil)
	default:
		switch {
		case isDigit(ch):
			return l.scanNumber()
		case isAlpha(ch):
			l.scanIdent()
		default:
			return l.errAt(l.tokLine, l.tokCol, "unrecognized character %q", string(rune(ch)))
		}
	}
	return nil
}

// blockComment consumes a `/* ... */` comment. The opening delimiter has
// already been consumed. Non-nesting: the first `*/` terminates.
func (l *Lexer) blockComment() error {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return l.errAt(l.tokLine, l.tokCol, "unterminated block comment")
}

// scanString consumes a quoted string. The opening quote has already been
// consumed; quote is the delimiter to match. Backslash escapes are decoded;
// unknown escapes keep the escaped character verbatim.
func (l *Lexer) scanString(quote byte) error {
	var out []byte
	for {
		if l.isAtEnd() {
			return l.errAt(l.tokLine, l.tokCol, "unterminated string")
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch == '\\' {
			if l.isAtEnd() {
				return l.errAt(l.tokLine, l.tokCol, "unterminated string")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			default:
				// \", \', \\ and anything else: keep the character itself
				out = append(out, esc)
			}
			continue
		}
		out = append(out, ch)
	}
	s := string(out)
	l.add(STRING, s, s)
	return nil
}

func (l *Lexer) scanNumber() error {
	start := l.cur - 1
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := l.src[start:l.cur]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.errAt(l.tokLine, l.tokCol, "malformed float literal %q", text)
		}
		l.add(FLOAT, text, f)
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return l.errAt(l.tokLine, l.tokCol, "integer literal %q out of range", text)
	}
	l.add(INT, text, n)
	return nil
}

func (l *Lexer) scanIdent() {
	start := l.cur - 1
	for isAlphaNum(l.peek()) {
		l.advance()
	}
	word := l.src[start:l.cur]
	if tt, ok := keywords[word]; ok {
		l.add(tt, word, nil)
		return
	}
	l.add(IDENT, word, nil)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}
