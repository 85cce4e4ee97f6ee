// parser.go — recursive-descent parser for Zekken.
//
// The parser consumes the token stream produced by the lexer and builds the
// AST defined in ast.go. Expressions use precedence climbing with a fixed
// table (assignment right-associative, everything else left-associative).
//
// Unlike a fail-fast parser, it collects every syntax error in a single
// pass: on an unexpected token it records a *SyntaxError and resynchronizes
// at the next statement boundary — a consumed ';', a closing '}', or one of
// a fixed set of statement-start keywords — then keeps parsing. Evaluation
// never runs on a program with outstanding syntax errors, so partially
// parsed statements in the result are harmless.
package zekken

import "fmt"

// SyntaxError is one recoverable grammar error. Line/Col are 1-based and
// point at the offending token. Expected carries a short hint of what the
// parser was looking for.
type SyntaxError struct {
	Line     int
	Col      int
	Msg      string
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser holds the token cursor and the collected errors.
type Parser struct {
	toks []Token
	cur  int
	errs []*SyntaxError
}

// NewParser creates a parser over a token stream (must end with EOF).
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// Parse builds the Program and returns it together with every syntax error
// found. The AST is structurally deterministic for identical input.
func (p *Parser) Parse() (*Program, []*SyntaxError) {
	prog := &Program{Pos: p.at().pos()}
	for !p.check(EOF) {
		before := p.cur
		s, ok := p.parseStmt()
		if !ok {
			p.synchronize()
			if p.cur == before {
				// The failed statement consumed nothing and synchronize
				// stopped on the same token (a stray '}' does this). Drop
				// the token so recovery always moves forward.
				p.advance()
			}
			continue
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, p.errs
}

// statement-start keywords used as recovery synchronization points
var stmtStart = map[TokenType]bool{
	LET: true, CONST: true, FUNC: true, OBJ: true, IF: true, FOR: true,
	WHILE: true, USE: true, INCLUDE: true, EXPORT: true, RETURN: true,
	BREAK: true, CONTINUE: true, TRY: true,
}

// synchronize skips forward to the next statement boundary so one error
// does not cascade into bogus follow-on errors.
func (p *Parser) synchronize() {
	for !p.check(EOF) {
		if p.accept(SEMI) {
			return
		}
		t := p.at().Type
		if t == RBRACE || stmtStart[t] {
			return
		}
		p.advance()
	}
}

// ---- cursor helpers ----

func (p *Parser) at() Token { return p.toks[p.cur] }

func (p *Parser) peekNext() Token {
	if p.cur+1 < len(p.toks) {
		return p.toks[p.cur+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() Token {
	t := p.toks[p.cur]
	if t.Type != EOF {
		p.cur++
	}
	return t
}

func (p *Parser) check(tt TokenType) bool { return p.at().Type == tt }

func (p *Parser) accept(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (t Token) pos() Pos { return Pos{Line: t.Line, Col: t.Col} }

func (t Token) describe() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case IDENT, INT, FLOAT, TYPE:
		return fmt.Sprintf("'%s'", t.Lexeme)
	case STRING:
		return "string literal"
	default:
		return fmt.Sprintf("'%s'", t.Type)
	}
}

// errorf records a SyntaxError at tok.
func (p *Parser) errorf(tok Token, expected string, format string, args ...interface{}) {
	p.errs = append(p.errs, &SyntaxError{
		Line:     tok.Line,
		Col:      tok.Col,
		Msg:      fmt.Sprintf(format, args...),
		Expected: expected,
	})
}

// expect consumes a token of type tt or records an error and reports !ok.
func (p *Parser) expect(tt TokenType, what string) (Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorf(p.at(), what, "expected %s, found %s", what, p.at().describe())
	return p.at(), false
}

// ---- statements ----

func (p *Parser) parseStmt() (Stmt, bool) {
	switch p.at().Type {
	case LET, CONST:
		return p.parseVarDecl()
	case FUNC:
		// `func name |...|` declares; `func |...|` is a lambda expression.
		if p.peekNext().Type == IDENT {
			return p.parseFuncDecl()
		}
		return p.parseExprStmt()
	case OBJ:
		return p.parseObjectDecl()
	case IF:
		return p.parseIfChain()
	case FOR:
		return p.parseForIn()
	case WHILE:
		return p.parseWhile()
	case TRY:
		return p.parseTryCatch()
	case USE:
		return p.parseUse()
	case INCLUDE:
		return p.parseInclude()
	case EXPORT:
		return p.parseExport()
	case RETURN:
		return p.parseReturn()
	case BREAK:
		t := p.advance()
		p.accept(SEMI)
		return &Break{Pos: t.pos()}, true
	case CONTINUE:
		t := p.advance()
		p.accept(SEMI)
		return &Continue{Pos: t.pos()}, true
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExprStmt() (Stmt, bool) {
	pos := p.at().pos()
	x, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	p.accept(SEMI)
	return &ExprStmt{Pos: pos, X: x}, true
}

// parseVarDecl handles `let`/`const` declarations, including the lambda
// form `let f -> |params| { ... }` and the required-annotation rule.
func (p *Parser) parseVarDecl() (Stmt, bool) {
	kw := p.advance() // let | const
	mutable := kw.Type == LET
	name, ok := p.expect(IDENT, "variable name")
	if !ok {
		return nil, false
	}

	// Lambda declaration sugar: no annotation, the value is a function.
	if p.check(ARROW) {
		arrowPos := p.advance().pos()
		params, ok := p.parseParamList("'|' after '->'")
		if !ok {
			return nil, false
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return &VarDecl{
			Pos:     kw.pos(),
			Mutable: mutable,
			Name:    name.Lexeme,
			Type:    TFunction,
			Init:    &LambdaExpr{Pos: arrowPos, Params: params, Body: body},
		}, true
	}

	declared := TAny
	annotated := false
	if p.accept(COLON) {
		tt, ok := p.expect(TYPE, "type name (int, float, string, bool, array, object)")
		if !ok {
			return nil, false
		}
		declared = typeNames[tt.Lexeme]
		annotated = true
	}

	if _, ok := p.expect(ASSIGN, "'=' after declaration"); !ok {
		return nil, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	p.expect(SEMI, "';' after declaration")

	if !annotated {
		implied := impliedTypeName(init)
		p.errorf(name, ": "+implied,
			"%s declaration of '%s' is missing a type annotation; the initializer implies ': %s'",
			kw.Lexeme, name.Lexeme, implied)
		// Keep parsing; evaluation will not run with syntax errors pending.
	}

	return &VarDecl{
		Pos:     kw.pos(),
		Mutable: mutable,
		Name:    name.Lexeme,
		Type:    declared,
		Init:    init,
	}, true
}

// impliedTypeName names the annotation a declaration initializer implies,
// for the missing-annotation error message.
func impliedTypeName(e Expr) string {
	switch x := e.(type) {
	case *IntLit:
		return "int"
	case *FloatLit:
		return "float"
	case *StringLit:
		return "string"
	case *BoolLit:
		return "bool"
	case *ArrayLit:
		return "array"
	case *ObjectLit:
		return "object"
	case *LambdaExpr:
		return "function"
	case *Unary:
		return impliedTypeName(x.X)
	case *Binary:
		switch x.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return "bool"
		}
		return impliedTypeName(x.L)
	default:
		return "int"
	}
}

func (p *Parser) parseFuncDecl() (Stmt, bool) {
	kw := p.advance() // func
	name, ok := p.expect(IDENT, "function name")
	if !ok {
		return nil, false
	}
	params, ok := p.parseParamList("'|' after function name")
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &FuncDecl{Pos: kw.pos(), Name: name.Lexeme, Params: params, Body: body}, true
}

// parseParamList parses `|a: int, b: string|`. An empty list may appear as
// `| |` or as the single `||` token (the lexer cannot tell it from logical
// or without context).
func (p *Parser) parseParamList(what string) ([]Param, bool) {
	if p.accept(OR) {
		return nil, true
	}
	if _, ok := p.expect(PIPE, what); !ok {
		return nil, false
	}
	var params []Param
	for !p.check(PIPE) {
		name, ok := p.expect(IDENT, "parameter name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(COLON, "':' after parameter name"); !ok {
			return nil, false
		}
		tt, ok := p.expect(TYPE, "parameter type")
		if !ok {
			return nil, false
		}
		params = append(params, Param{Pos: name.pos(), Name: name.Lexeme, Type: typeNames[tt.Lexeme]})
		if !p.accept(COMMA) {
			break
		}
	}
	if _, ok := p.expect(PIPE, "closing '|' of parameter list"); !ok {
		return nil, false
	}
	return params, true
}

// parseBlock parses `{ stmt* }` with per-statement recovery, so several
// errors inside one block are all reported.
func (p *Parser) parseBlock() ([]Stmt, bool) {
	if _, ok := p.expect(LBRACE, "'{'"); !ok {
		return nil, false
	}
	var body []Stmt
	for !p.check(RBRACE) && !p.check(EOF) {
		before := p.cur
		s, ok := p.parseStmt()
		if !ok {
			p.synchronize()
			if p.cur == before {
				p.advance()
			}
			continue
		}
		body = append(body, s)
	}
	if _, ok := p.expect(RBRACE, "'}'"); !ok {
		return body, false
	}
	return body, true
}

func (p *Parser) parseObjectDecl() (Stmt, bool) {
	kw := p.advance() // obj
	name, ok := p.expect(IDENT, "object name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(LBRACE, "'{' after object name"); !ok {
		return nil, false
	}
	pairs, ok := p.parseObjectPairs()
	if !ok {
		return nil, false
	}
	return &ObjectDecl{Pos: kw.pos(), Name: name.Lexeme, Pairs: pairs}, true
}

// parseObjectPairs parses `key: expr, ...}` including the closing brace.
func (p *Parser) parseObjectPairs() ([]ObjectPair, bool) {
	var pairs []ObjectPair
	for !p.check(RBRACE) {
		var key Token
		switch p.at().Type {
		case IDENT, STRING:
			key = p.advance()
		default:
			p.errorf(p.at(), "property key", "expected property key, found %s", p.at().describe())
			return nil, false
		}
		if _, ok := p.expect(COLON, "':' after property key"); !ok {
			return nil, false
		}
		val, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		pairs = append(pairs, ObjectPair{Pos: key.pos(), Key: key.Lexeme, Value: val})
		if !p.accept(COMMA) {
			break
		}
	}
	if _, ok := p.expect(RBRACE, "'}' to close object"); !ok {
		return nil, false
	}
	return pairs, true
}

func (p *Parser) parseIfChain() (Stmt, bool) {
	kw := p.advance() // if
	chain := &IfChain{Pos: kw.pos()}
	for {
		cond, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		chain.Clauses = append(chain.Clauses, IfClause{Cond: cond, Body: body})
		if !p.accept(ELSE) {
			return chain, true
		}
		if p.accept(IF) {
			continue
		}
		els, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		chain.Else = els
		return chain, true
	}
}

func (p *Parser) parseForIn() (Stmt, bool) {
	kw := p.advance() // for
	if _, ok := p.expect(PIPE, "'|' after 'for'"); !ok {
		return nil, false
	}
	first, ok := p.expect(IDENT, "loop binder name")
	if !ok {
		return nil, false
	}
	second := ""
	if p.accept(COMMA) {
		name, ok := p.expect(IDENT, "second loop binder name")
		if !ok {
			return nil, false
		}
		second = name.Lexeme
	}
	if _, ok := p.expect(PIPE, "closing '|' of loop binder"); !ok {
		return nil, false
	}
	if _, ok := p.expect(IN, "'in'"); !ok {
		return nil, false
	}
	iter, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ForIn{Pos: kw.pos(), First: first.Lexeme, Second: second, Iter: iter, Body: body}, true
}

func (p *Parser) parseWhile() (Stmt, bool) {
	kw := p.advance() // while
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &While{Pos: kw.pos(), Cond: cond, Body: body}, true
}

func (p *Parser) parseTryCatch() (Stmt, bool) {
	kw := p.advance() // try
	try, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(CATCH, "'catch' after try block"); !ok {
		return nil, false
	}
	if _, ok := p.expect(PIPE, "'|' after 'catch'"); !ok {
		return nil, false
	}
	name, ok := p.expect(IDENT, "catch parameter name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(PIPE, "closing '|' after catch parameter"); !ok {
		return nil, false
	}
	catch, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &TryCatch{Pos: kw.pos(), Try: try, CatchName: name.Lexeme, Catch: catch}, true
}

func (p *Parser) parseUse() (Stmt, bool) {
	kw := p.advance() // use
	if p.accept(LBRACE) {
		names, ok := p.parseNameList()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(FROM, "'from' after import list"); !ok {
			return nil, false
		}
		mod, ok := p.expect(IDENT, "module name")
		if !ok {
			return nil, false
		}
		p.expect(SEMI, "';' after use statement")
		return &Use{Pos: kw.pos(), Names: names, Module: mod.Lexeme}, true
	}
	mod, ok := p.expect(IDENT, "module name")
	if !ok {
		return nil, false
	}
	p.expect(SEMI, "';' after use statement")
	return &Use{Pos: kw.pos(), Module: mod.Lexeme}, true
}

func (p *Parser) parseInclude() (Stmt, bool) {
	kw := p.advance() // include
	if p.accept(LBRACE) {
		names, ok := p.parseNameList()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(FROM, "'from' after import list"); !ok {
			return nil, false
		}
		path, ok := p.expect(STRING, "file path string")
		if !ok {
			return nil, false
		}
		p.expect(SEMI, "';' after include statement")
		return &Include{Pos: kw.pos(), Names: names, Path: path.Lexeme}, true
	}
	path, ok := p.expect(STRING, "file path string")
	if !ok {
		return nil, false
	}
	p.expect(SEMI, "';' after include statement")
	return &Include{Pos: kw.pos(), Path: path.Lexeme}, true
}

// parseNameList parses `name, name, ... }` including the closing brace.
func (p *Parser) parseNameList() ([]string, bool) {
	var names []string
	for {
		name, ok := p.expect(IDENT, "name")
		if !ok {
			return nil, false
		}
		names = append(names, name.Lexeme)
		if !p.accept(COMMA) {
			break
		}
	}
	if _, ok := p.expect(RBRACE, "'}' to close import list"); !ok {
		return nil, false
	}
	return names, true
}

func (p *Parser) parseExport() (Stmt, bool) {
	kw := p.advance() // export
	var names []string
	for {
		name, ok := p.expect(IDENT, "exported name")
		if !ok {
			return nil, false
		}
		names = append(names, name.Lexeme)
		if !p.accept(COMMA) {
			break
		}
	}
	p.expect(SEMI, "';' after export statement")
	return &Export{Pos: kw.pos(), Names: names}, true
}

func (p *Parser) parseReturn() (Stmt, bool) {
	kw := p.advance() // return
	if p.accept(SEMI) {
		return &Return{Pos: kw.pos()}, true
	}
	if p.check(RBRACE) {
		return &Return{Pos: kw.pos()}, true
	}
	val, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	p.accept(SEMI)
	return &Return{Pos: kw.pos(), Value: val}, true
}

// ---- expressions ----

func (p *Parser) parseExpr() (Expr, bool) {
	return p.parseAssign()
}

var assignOps = map[TokenType]string{
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=",
	STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=",
}

// parseAssign is right-associative: `a = b = c` parses as `a = (b = c)`.
func (p *Parser) parseAssign() (Expr, bool) {
	left, ok := p.parseBinary(0)
	if !ok {
		return nil, false
	}
	op, isAssign := assignOps[p.at().Type]
	if !isAssign {
		return left, true
	}
	opTok := p.advance()
	switch left.(type) {
	case *Identifier, *Member, *Index:
	default:
		p.errorf(opTok, "assignable target", "invalid assignment target")
		return nil, false
	}
	right, ok := p.parseAssign()
	if !ok {
		return nil, false
	}
	return &Assign{Pos: opTok.pos(), Op: op, Target: left, Value: right}, true
}

// binary operator precedence, low to high
var binPrec = []map[TokenType]string{
	{OR: "||"},
	{AND: "&&"},
	{EQ: "==", NEQ: "!="},
	{LESS: "<", LESS_EQ: "<=", GREATER: ">", GREATER_EQ: ">="},
	{PLUS: "+", MINUS: "-"},
	{STAR: "*", SLASH: "/", PERCENT: "%"},
}

func (p *Parser) parseBinary(level int) (Expr, bool) {
	if level >= len(binPrec) {
		return p.parseUnary()
	}
	left, ok := p.parseBinary(level + 1)
	if !ok {
		return nil, false
	}
	for {
		op, here := binPrec[level][p.at().Type]
		if !here {
			return left, true
		}
		opTok := p.advance()
		right, ok := p.parseBinary(level + 1)
		if !ok {
			return nil, false
		}
		left = &Binary{Pos: opTok.pos(), Op: op, L: left, R: right}
	}
}

func (p *Parser) parseUnary() (Expr, bool) {
	switch p.at().Type {
	case BANG:
		t := p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &Unary{Pos: t.pos(), Op: "!", X: x}, true
	case MINUS:
		t := p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &Unary{Pos: t.pos(), Op: "-", X: x}, true
	}
	return p.parsePostfix()
}

// parsePostfix chains member reads, index reads, and arrow calls:
// `obj.method => |a, b|[0].x`.
func (p *Parser) parsePostfix() (Expr, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.at().Type {
		case DOT:
			t := p.advance()
			name, ok := p.expect(IDENT, "member name after '.'")
			if !ok {
				return nil, false
			}
			x = &Member{Pos: t.pos(), Obj: x, Name: name.Lexeme}
		case LBRACKET:
			t := p.advance()
			key, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(RBRACKET, "']' after index"); !ok {
				return nil, false
			}
			x = &Index{Pos: t.pos(), Obj: x, Key: key}
		case CALLARROW:
			t := p.advance()
			args, ok := p.parseCallArgs()
			if !ok {
				return nil, false
			}
			x = &Call{Pos: t.pos(), Callee: x, Args: args}
		default:
			return x, true
		}
	}
}

// parseCallArgs parses the pipe-delimited argument list of an arrow call.
// `=> ||` (empty, single token) and `=> | |` are both valid empty lists.
func (p *Parser) parseCallArgs() ([]Expr, bool) {
	if p.accept(OR) {
		return nil, true
	}
	if _, ok := p.expect(PIPE, "'|' after '=>'"); !ok {
		return nil, false
	}
	var args []Expr
	for !p.check(PIPE) {
		a, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, a)
		if !p.accept(COMMA) {
			break
		}
	}
	if _, ok := p.expect(PIPE, "closing '|' of argument list"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() (Expr, bool) {
	t := p.at()
	switch t.Type {
	case INT:
		p.advance()
		return &IntLit{Pos: t.pos(), Value: t.Literal.(int64)}, true
	case FLOAT:
		p.advance()
		return &FloatLit{Pos: t.pos(), Value: t.Literal.(float64)}, true
	case STRING:
		p.advance()
		return &StringLit{Pos: t.pos(), Value: t.Literal.(string)}, true
	case TRUE:
		p.advance()
		return &BoolLit{Pos: t.pos(), Value: true}, true
	case FALSE:
		p.advance()
		return &BoolLit{Pos: t.pos(), Value: false}, true
	case NULL:
		p.advance()
		return &NullLit{Pos: t.pos()}, true
	case IDENT:
		p.advance()
		return &Identifier{Pos: t.pos(), Name: t.Lexeme}, true
	case LPAREN:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(RPAREN, "')' after expression"); !ok {
			return nil, false
		}
		return x, true
	case LBRACKET:
		p.advance()
		var elems []Expr
		for !p.check(RBRACKET) {
			e, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			elems = append(elems, e)
			if !p.accept(COMMA) {
				break
			}
		}
		if _, ok := p.expect(RBRACKET, "']' to close array"); !ok {
			return nil, false
		}
		return &ArrayLit{Pos: t.pos(), Elems: elems}, true
	case LBRACE:
		p.advance()
		pairs, ok := p.parseObjectPairs()
		if !ok {
			return nil, false
		}
		return &ObjectLit{Pos: t.pos(), Pairs: pairs}, true
	case FUNC:
		p.advance()
		params, ok := p.parseParamList("'|' after 'func'")
		if !ok {
			return nil, false
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return &LambdaExpr{Pos: t.pos(), Params: params, Body: body}, true
	default:
		p.errorf(t, "expression", "unexpected %s", t.describe())
		return nil, false
	}
}
