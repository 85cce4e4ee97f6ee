// ast.go — syntax tree node definitions.
//
// Every node embeds Pos, the source position of its leading token, so the
// evaluator and the diagnostics engine can point at the right place.
package zekken

// Pos is the 1-based source position of a node's leading token.
type Pos struct {
	Line int
	Col  int
}

// Node is implemented by every statement and expression.
type Node interface {
	At() Pos
}

func (p Pos) At() Pos { return p }

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// TypeName is a declared type annotation. TAny marks bindings introduced
// without an annotation (parameters of catch clauses, loop binders); those
// are never re-checked on assignment.
type TypeName int

const (
	TAny TypeName = iota
	TInt
	TFloat
	TString
	TBool
	TArray
	TObject
	TFunction // produced by lambda declarations; not writable as an annotation
	TNull     // used by native signatures only
	TNumber   // native signatures: Int or Float
)

func (t TypeName) String() string {
	switch t {
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TString:
		return "string"
	case TBool:
		return "bool"
	case TArray:
		return "array"
	case TObject:
		return "object"
	case TFunction:
		return "function"
	case TNull:
		return "null"
	case TNumber:
		return "number"
	default:
		return "any"
	}
}

var typeNames = map[string]TypeName{
	"int": TInt, "float": TFloat, "string": TString,
	"bool": TBool, "array": TArray, "object": TObject,
}

// Param is a `name: type` pair shared by function declarations and lambdas.
type Param struct {
	Pos
	Name string
	Type TypeName
}

// Program is the root node.
type Program struct {
	Pos
	Stmts []Stmt
}

// VarDecl is `let name: type = init;` or `const name: type = init;`.
// Lambda declarations (`let f -> |params| { ... }`) desugar to a VarDecl
// whose Init is a *LambdaExpr and whose Type is TFunction.
type VarDecl struct {
	Pos
	Mutable bool
	Name    string
	Type    TypeName
	Init    Expr
}

// FuncDecl is `func name |params| { body }`.
type FuncDecl struct {
	Pos
	Name   string
	Params []Param
	Body   []Stmt
}

// ObjectDecl is `obj name { key: expr, ... }`, a named object literal.
type ObjectDecl struct {
	Pos
	Name  string
	Pairs []ObjectPair
}

// IfClause is one condition/branch pair of an if/else-if chain.
type IfClause struct {
	Cond Expr
	Body []Stmt
}

// IfChain is `if c { } else if c2 { } else { }` flattened into clauses.
type IfChain struct {
	Pos
	Clauses []IfClause
	Else    []Stmt
}

// ForIn is `for |v| in xs { }` (Second empty: value-only binding) or
// `for |k, v| in xs { }` (key/value for objects, index/value for arrays).
type ForIn struct {
	Pos
	First  string
	Second string
	Iter   Expr
	Body   []Stmt
}

// While is `while cond { body }`.
type While struct {
	Pos
	Cond Expr
	Body []Stmt
}

// TryCatch is `try { } catch |name| { }`. The catch parameter is bound to
// the stringified error message in a fresh child scope.
type TryCatch struct {
	Pos
	Try       []Stmt
	CatchName string
	Catch     []Stmt
}

// Return is `return expr?;`.
type Return struct {
	Pos
	Value Expr // nil for a bare return
}

// Break is `break;`.
type Break struct{ Pos }

// Continue is `continue;`.
type Continue struct{ Pos }

// Use imports a native capability module: `use math;` binds the module
// object, `use { pow, dot } from math;` binds members directly.
type Use struct {
	Pos
	Names  []string // nil: whole-module import
	Module string
}

// Include imports exported names from another source file:
// `include "lib.zk";` or `include { f, g } from "lib.zk";`.
type Include struct {
	Pos
	Names []string // nil: all exported names
	Path  string
}

// Export marks names visible to includers: `export a, b;`.
type Export struct {
	Pos
	Names []string
}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Pos
	X Expr
}

func (*VarDecl) stmtNode()    {}
func (*FuncDecl) stmtNode()   {}
func (*ObjectDecl) stmtNode() {}
func (*IfChain) stmtNode()    {}
func (*ForIn) stmtNode()      {}
func (*While) stmtNode()      {}
func (*TryCatch) stmtNode()   {}
func (*Return) stmtNode()     {}
func (*Break) stmtNode()      {}
func (*Continue) stmtNode()   {}
func (*Use) stmtNode()        {}
func (*Include) stmtNode()    {}
func (*Export) stmtNode()     {}
func (*ExprStmt) stmtNode()   {}

// ---- expressions ----

// Identifier names a binding; "@"-prefixed names resolve to standalone
// builtins of the native registry.
type Identifier struct {
	Pos
	Name string
}

type IntLit struct {
	Pos
	Value int64
}

type FloatLit struct {
	Pos
	Value float64
}

type StringLit struct {
	Pos
	Value string
}

type BoolLit struct {
	Pos
	Value bool
}

type NullLit struct{ Pos }

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Pos
	Elems []Expr
}

// ObjectPair is one `key: value` entry; order is preserved end to end.
type ObjectPair struct {
	Pos
	Key   string
	Value Expr
}

// ObjectLit is `{k: v, ...}` with insertion-ordered pairs.
type ObjectLit struct {
	Pos
	Pairs []ObjectPair
}

// LambdaExpr is `func |params| { body }` in expression position.
type LambdaExpr struct {
	Pos
	Params []Param
	Body   []Stmt
}

// Call is `callee => |a, b|`. The argument list may be empty: `f => ||`.
type Call struct {
	Pos
	Callee Expr
	Args   []Expr
}

// Member is `object.name`: object property read or built-in method lookup.
type Member struct {
	Pos
	Obj  Expr
	Name string
}

// Index is `object[key]`.
type Index struct {
	Pos
	Obj Expr
	Key Expr
}

// Assign is `target op value` where op is "=", "+=", "-=", "*=", "/=", "%=".
// Right-associative.
type Assign struct {
	Pos
	Op     string
	Target Expr
	Value  Expr
}

// Binary is a left-associative binary operation.
type Binary struct {
	Pos
	Op string
	L  Expr
	R  Expr
}

// Unary is prefix `!x` or `-x`.
type Unary struct {
	Pos
	Op string
	X  Expr
}

func (*Identifier) exprNode() {}
func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*ArrayLit) exprNode()   {}
func (*ObjectLit) exprNode()  {}
func (*LambdaExpr) exprNode() {}
func (*Call) exprNode()       {}
func (*Member) exprNode()     {}
func (*Index) exprNode()      {}
func (*Assign) exprNode()     {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
