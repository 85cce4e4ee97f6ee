// interp_test.go
package zekken

import (
	"reflect"
	"strings"
	"testing"
)

func runSrc(t *testing.T, src string) *Result {
	t.Helper()
	return NewRuntime(testCaps()).Run(src)
}

func wantOutput(t *testing.T, src string, want ...string) {
	t.Helper()
	res := runSrc(t, src)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v\nsource:\n%s", res.Diagnostics, src)
	}
	if !reflect.DeepEqual(res.Output, want) {
		t.Fatalf("\nsource:\n%s\nwant output: %q\ngot output:  %q", src, want, res.Output)
	}
}

func wantDiag(t *testing.T, src string, kind DiagKind, substr string) Diagnostic {
	t.Helper()
	res := runSrc(t, src)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("want exactly 1 diagnostic, got %d: %v\nsource:\n%s", len(res.Diagnostics), res.Diagnostics, src)
	}
	d := res.Diagnostics[0]
	if d.Kind != kind {
		t.Fatalf("want %v, got %v (%s)", kind, d.Kind, d.Msg)
	}
	if !strings.Contains(d.Msg, substr) {
		t.Fatalf("want message containing %q, got %q", substr, d.Msg)
	}
	return d
}

func Test_Eval_LetArithmetic_Println(t *testing.T) {
	wantOutput(t, `let x: int = 5; let y: int = x + 3; @println => |y|`, "8")
}

func Test_Eval_ConstReassignment_IsTypeError(t *testing.T) {
	d := wantDiag(t, "const a: int = 1;\na = 2;", DiagType, "cannot reassign constant 'a'")
	if d.Line != 2 {
		t.Fatalf("want diagnostic on line 2, got line %d", d.Line)
	}
}

func Test_Eval_DeclaredType_CheckedAtDeclaration(t *testing.T) {
	wantDiag(t, `let x: int = "nope";`, DiagType, "cannot initialize 'x: int'")
}

func Test_Eval_DeclaredType_CheckedAtAssignment(t *testing.T) {
	wantDiag(t, `let x: int = 1; x = "nope";`, DiagType, "cannot assign string to 'x: int'")
}

func Test_Eval_ForIn_ObjectOrder(t *testing.T) {
	wantOutput(t,
		`for |k, v| in {a: 1, b: 2} { @println => |k + ":" + v| }`,
		"a:1", "b:2")
}

func Test_Eval_ForIn_ObjectOrder_Permutation(t *testing.T) {
	wantOutput(t,
		`for |k, v| in {b: 2, a: 1, c: 3} { @println => |k| }`,
		"b", "a", "c")
}

func Test_Eval_ForIn_ArrayIndexValue(t *testing.T) {
	wantOutput(t,
		`for |i, v| in [10, 20] { @println => |i + "=" + v| }`,
		"0=10", "1=20")
}

func Test_Eval_ForIn_OneBinder_IsValueOnly(t *testing.T) {
	wantOutput(t, `for |v| in [10, 20] { @println => |v| }`, "10", "20")
}

func Test_Eval_TryCatch_InterceptsReferenceError(t *testing.T) {
	res := runSrc(t, `try { undefinedFn => | | } catch |e| { @println => |"Error: " + e| }`)
	if res.Failed() {
		t.Fatalf("caught error must not produce a diagnostic: %v", res.Diagnostics)
	}
	if len(res.Output) != 1 || !strings.HasPrefix(res.Output[0], "Error:") {
		t.Fatalf("want one line starting with 'Error:', got %q", res.Output)
	}
}

func Test_Eval_TryCatch_InterceptsNestedErrors(t *testing.T) {
	wantOutput(t, `
func boom || { let z: array = [1]; z[5]; }
try { boom => || } catch |e| { @println => |"caught"| }
`, "caught")
}

func Test_Eval_TryCatch_ResultIsBranchResult(t *testing.T) {
	sess := NewSession(testCaps())
	v, _, diags := sess.Eval(`try { 1 } catch |e| { 2 }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if v.Tag != VInt || v.Data.(int64) != 1 {
		t.Fatalf("want try result 1, got %#v", v)
	}
	v, _, diags = sess.Eval(`try { nope => || } catch |e| { 2 }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if v.Tag != VInt || v.Data.(int64) != 2 {
		t.Fatalf("want catch result 2, got %#v", v)
	}
}

func Test_Eval_Functions_ClosuresAndReturn(t *testing.T) {
	wantOutput(t, `
func makeCounter || {
  let n: int = 0;
  return func || { n = n + 1; return n; };
}
let c -> || { return 0; }
c = makeCounter => ||;
@println => |c => |||;
@println => |c => |||;
`, "1", "2")
}

func Test_Eval_Closures_LookupUsesDefiningScope(t *testing.T) {
	// the closure reads x from its defining scope, not the caller's
	wantOutput(t, `
let x: int = 1;
func get || { return x; }
func caller || {
  let x: int = 99;
  return get => ||;
}
@println => |caller => |||;
`, "1")
}

func Test_Eval_ForIn_PerIterationCapture(t *testing.T) {
	wantOutput(t, `
let fns: array = [];
for |v| in [1, 2, 3] {
  fns.push => |func || { return v; }|;
}
@println => |fns[0] => |||;
@println => |fns[2] => |||;
`, "1", "3")
}

func Test_Eval_ArityMismatch_IsRuntimeError(t *testing.T) {
	wantDiag(t, `
func two |a: int, b: int| { return a; }
two => |1|;
`, DiagRuntime, "'two' expects 2 argument(s), got 1")
}

func Test_Eval_ParamTypeMismatch_IsTypeError(t *testing.T) {
	wantDiag(t, `
func f |a: int| { return a; }
f => |"str"|;
`, DiagType, "parameter 'a' of 'f' must be int")
}

func Test_Eval_UndefinedName_IsReferenceError(t *testing.T) {
	wantDiag(t, `nope;`, DiagReference, "'nope' is not defined")
}

func Test_Eval_NonBoolCondition_IsTypeError(t *testing.T) {
	wantDiag(t, `if 1 { }`, DiagType, "if condition must be bool")
	wantDiag(t, `while "x" { }`, DiagType, "while condition must be bool")
}

func Test_Eval_IfChain_FirstMatchOnly(t *testing.T) {
	wantOutput(t, `
let n: int = 5;
if n < 3 { @println => |"small"| }
else if n < 10 { @println => |"medium"| }
else { @println => |"large"| }
`, "medium")
}

func Test_Eval_While_BreakContinue(t *testing.T) {
	wantOutput(t, `
let i: int = 0;
while true {
  i = i + 1;
  if i == 2 { continue; }
  if i > 4 { break; }
  @println => |i|;
}
`, "1", "3", "4")
}

func Test_Eval_BreakOutsideLoop_IsRuntimeError(t *testing.T) {
	wantDiag(t, `break;`, DiagRuntime, "'break' outside of a loop")
}

func Test_Eval_ReturnOutsideFunction_IsRuntimeError(t *testing.T) {
	wantDiag(t, `return 1;`, DiagRuntime, "'return' outside of a function")
}

func Test_Eval_IndexOutOfRange_IsRuntimeError(t *testing.T) {
	wantDiag(t, `let a: array = [1, 2]; a[5];`, DiagRuntime, "index 5 out of range")
}

func Test_Eval_MissingObjectKey_IsRuntimeError(t *testing.T) {
	wantDiag(t, `let o: object = {a: 1}; o["b"];`, DiagRuntime, "no key 'b'")
}

func Test_Eval_StringConcat_StringifiesOtherSide(t *testing.T) {
	wantOutput(t, `@println => |"n=" + 42|`, "n=42")
}

func Test_Eval_DivisionByZero_IsRuntimeError(t *testing.T) {
	wantDiag(t, `1 / 0;`, DiagRuntime, "division by zero")
}

func Test_Eval_CompoundAssignment(t *testing.T) {
	wantOutput(t, `let n: int = 10; n += 5; n *= 2; @println => |n|`, "30")
}

func Test_Eval_ObjectDecl_And_MemberAccess(t *testing.T) {
	wantOutput(t, `
obj config { host: "localhost", port: 8080 }
@println => |config.host|;
@println => |config.port|;
`, "localhost", "8080")
}

func Test_Eval_SyntaxErrors_BlockEvaluation(t *testing.T) {
	res := runSrc(t, "let = 1;\n@println => |\"never\"|;")
	if len(res.Output) != 0 {
		t.Fatalf("evaluation must not run with syntax errors pending, got output %q", res.Output)
	}
	if len(res.Diagnostics) == 0 || res.Diagnostics[0].Kind != DiagSyntax {
		t.Fatalf("want syntax diagnostics, got %v", res.Diagnostics)
	}
}

func Test_Eval_UncaughtError_AbortsWholeRun(t *testing.T) {
	res := runSrc(t, `
@println => |"before"|;
nope => ||;
@println => |"after"|;
`)
	if !reflect.DeepEqual(res.Output, []string{"before"}) {
		t.Fatalf("run must abort at the failing statement, got output %q", res.Output)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != DiagReference {
		t.Fatalf("want single reference diagnostic, got %v", res.Diagnostics)
	}
}

func Test_Eval_Session_PersistsBindings(t *testing.T) {
	sess := NewSession(testCaps())
	if _, _, diags := sess.Eval(`let n: int = 41;`); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	v, _, diags := sess.Eval(`n + 1`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if v.Tag != VInt || v.Data.(int64) != 42 {
		t.Fatalf("want 42, got %#v", v)
	}
}
