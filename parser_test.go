// parser_test.go
package zekken

import (
	"reflect"
	"strings"
	"testing"
)

func parseSrc(t *testing.T, src string) (*Program, []*SyntaxError) {
	t.Helper()
	ts := toks(t, src)
	return NewParser(ts).Parse()
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, errs := parseSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected syntax errors: %v\nsource:\n%s", errs, src)
	}
	return prog
}

func Test_Parser_VarDecl_WithAnnotation(t *testing.T) {
	prog := mustParse(t, `let x: int = 5;`)
	if len(prog.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Stmts))
	}
	d, ok := prog.Stmts[0].(*VarDecl)
	if !ok {
		t.Fatalf("want *VarDecl, got %T", prog.Stmts[0])
	}
	if d.Name != "x" || d.Type != TInt || !d.Mutable {
		t.Fatalf("bad decl: %+v", d)
	}
	if _, ok := d.Init.(*IntLit); !ok {
		t.Fatalf("want IntLit initializer, got %T", d.Init)
	}
}

func Test_Parser_MissingAnnotation_NamesImpliedType(t *testing.T) {
	_, errs := parseSrc(t, `let s = "hi";`)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Msg, "missing a type annotation") ||
		!strings.Contains(errs[0].Msg, "': string'") {
		t.Fatalf("message should name the implied type: %q", errs[0].Msg)
	}
	if errs[0].Expected != ": string" {
		t.Fatalf("want expected-hint %q, got %q", ": string", errs[0].Expected)
	}
}

func Test_Parser_ExpectedHint_IsPopulated(t *testing.T) {
	_, errs := parseSrc(t, `let x: int 5;`)
	if len(errs) == 0 {
		t.Fatalf("want an error")
	}
	if errs[0].Expected == "" {
		t.Fatalf("expected-hint missing on %q", errs[0].Msg)
	}
}

func Test_Parser_ConstDecl(t *testing.T) {
	prog := mustParse(t, `const a: int = 1;`)
	d := prog.Stmts[0].(*VarDecl)
	if d.Mutable {
		t.Fatalf("const declaration parsed as mutable")
	}
}

func Test_Parser_ArrowCall_Chains(t *testing.T) {
	prog := mustParse(t, `obj.method => |1, 2|;`)
	call := prog.Stmts[0].(*ExprStmt).X.(*Call)
	if len(call.Args) != 2 {
		t.Fatalf("want 2 args, got %d", len(call.Args))
	}
	m, ok := call.Callee.(*Member)
	if !ok || m.Name != "method" {
		t.Fatalf("want member callee 'method', got %#v", call.Callee)
	}
}

func Test_Parser_ArrowCall_EmptyLists(t *testing.T) {
	for _, src := range []string{`f => ||;`, `f => | |;`} {
		prog := mustParse(t, src)
		call := prog.Stmts[0].(*ExprStmt).X.(*Call)
		if len(call.Args) != 0 {
			t.Fatalf("%s: want empty args, got %d", src, len(call.Args))
		}
	}
}

func Test_Parser_ForIn_Binders(t *testing.T) {
	one := mustParse(t, `for |v| in xs { }`).Stmts[0].(*ForIn)
	if one.First != "v" || one.Second != "" {
		t.Fatalf("one-binder parse wrong: %+v", one)
	}
	two := mustParse(t, `for |k, v| in xs { }`).Stmts[0].(*ForIn)
	if two.First != "k" || two.Second != "v" {
		t.Fatalf("two-binder parse wrong: %+v", two)
	}
}

func Test_Parser_UseAndInclude_Forms(t *testing.T) {
	u := mustParse(t, `use math;`).Stmts[0].(*Use)
	if u.Module != "math" || u.Names != nil {
		t.Fatalf("whole-module use parse wrong: %+v", u)
	}
	u = mustParse(t, `use { pow, dot } from math;`).Stmts[0].(*Use)
	if u.Module != "math" || !reflect.DeepEqual(u.Names, []string{"pow", "dot"}) {
		t.Fatalf("destructured use parse wrong: %+v", u)
	}
	inc := mustParse(t, `include { f } from "lib.zk";`).Stmts[0].(*Include)
	if inc.Path != "lib.zk" || !reflect.DeepEqual(inc.Names, []string{"f"}) {
		t.Fatalf("include parse wrong: %+v", inc)
	}
	exp := mustParse(t, `export a, b;`).Stmts[0].(*Export)
	if !reflect.DeepEqual(exp.Names, []string{"a", "b"}) {
		t.Fatalf("export parse wrong: %+v", exp)
	}
}

func Test_Parser_TryCatch(t *testing.T) {
	tc := mustParse(t, `try { f => ||; } catch |e| { g => ||; }`).Stmts[0].(*TryCatch)
	if tc.CatchName != "e" || len(tc.Try) != 1 || len(tc.Catch) != 1 {
		t.Fatalf("try/catch parse wrong: %+v", tc)
	}
}

func Test_Parser_Precedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	b := mustParse(t, `1 + 2 * 3;`).Stmts[0].(*ExprStmt).X.(*Binary)
	if b.Op != "+" {
		t.Fatalf("want '+' at root, got %q", b.Op)
	}
	if inner := b.R.(*Binary); inner.Op != "*" {
		t.Fatalf("want '*' on the right, got %q", inner.Op)
	}

	// comparison binds looser than arithmetic
	c := mustParse(t, `a + 1 < b * 2;`).Stmts[0].(*ExprStmt).X.(*Binary)
	if c.Op != "<" {
		t.Fatalf("want '<' at root, got %q", c.Op)
	}
}

func Test_Parser_Assignment_RightAssociative(t *testing.T) {
	a := mustParse(t, `a = b = 1;`).Stmts[0].(*ExprStmt).X.(*Assign)
	if _, ok := a.Value.(*Assign); !ok {
		t.Fatalf("want nested assignment on the right, got %T", a.Value)
	}
}

func Test_Parser_CollectsAllErrors_WithPositions(t *testing.T) {
	src := "let = 1;\nlet b: int = 2;\nconst = 3;\nlet c: int = ;\n"
	_, errs := parseSrc(t, src)
	if len(errs) != 3 {
		t.Fatalf("want 3 errors, got %d: %v", len(errs), errs)
	}
	wantLines := []int{1, 3, 4}
	for i, e := range errs {
		if e.Line != wantLines[i] {
			t.Fatalf("error %d: want line %d, got %d (%s)", i, wantLines[i], e.Line, e.Msg)
		}
	}
}

func Test_Parser_Recovery_InsideBlock(t *testing.T) {
	// both errors inside one function body are reported
	src := "func f || {\n  let = 1;\n  let = 2;\n}"
	_, errs := parseSrc(t, src)
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 2 || errs[1].Line != 3 {
		t.Fatalf("want errors on lines 2 and 3, got %d and %d", errs[0].Line, errs[1].Line)
	}
}

func Test_Parser_StrayCloseBrace_Terminates(t *testing.T) {
	prog, errs := parseSrc(t, "let x: int = 1;\n}")
	if len(prog.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Stmts))
	}
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 2 || !strings.Contains(errs[0].Msg, "unexpected '}'") {
		t.Fatalf("want unexpected-'}' at line 2, got %d: %q", errs[0].Line, errs[0].Msg)
	}
}

func Test_Parser_StrayCloseBraces_ReportEachOnce(t *testing.T) {
	_, errs := parseSrc(t, "}}}")
	if len(errs) != 3 {
		t.Fatalf("want 3 errors, got %d: %v", len(errs), errs)
	}
}

func Test_Parser_ObjectKeyError_RecoversPastLiteral(t *testing.T) {
	src := "let o: object = { 1: 2 };\nlet y: int = 3;"
	prog, errs := parseSrc(t, src)
	if len(errs) == 0 {
		t.Fatalf("want errors")
	}
	if !strings.Contains(errs[0].Msg, "expected property key") {
		t.Fatalf("want property-key error first, got %q", errs[0].Msg)
	}
	if len(prog.Stmts) == 0 {
		t.Fatalf("declaration after the bad literal should survive")
	}
	d, ok := prog.Stmts[len(prog.Stmts)-1].(*VarDecl)
	if !ok || d.Name != "y" {
		t.Fatalf("want trailing declaration of 'y', got %T", prog.Stmts[len(prog.Stmts)-1])
	}
}

func Test_Parser_ErrorAfterMultilineComment_HasRightPosition(t *testing.T) {
	src := "/* one\ntwo */ let = 1;"
	_, errs := parseSrc(t, src)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 2 || errs[0].Col != 12 {
		t.Fatalf("want error at 2:12, got %d:%d", errs[0].Line, errs[0].Col)
	}
}

func Test_Parser_Deterministic(t *testing.T) {
	src := `
func fib |n: int| {
  if n < 2 { return n; }
  return fib => |n - 1| + fib => |n - 2|;
}
let xs: array = [1, 2, 3];
for |i, v| in xs { @println => |i + ":" + v|; }
`
	a := mustParse(t, src)
	b := mustParse(t, src)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical source parsed to different trees")
	}
}

func Test_Parser_LambdaDeclSugar(t *testing.T) {
	d := mustParse(t, `let add -> |a: int, b: int| { return a + b; }`).Stmts[0].(*VarDecl)
	if d.Type != TFunction {
		t.Fatalf("lambda declaration should carry function type, got %v", d.Type)
	}
	if _, ok := d.Init.(*LambdaExpr); !ok {
		t.Fatalf("want LambdaExpr initializer, got %T", d.Init)
	}
}
