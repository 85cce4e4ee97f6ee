// runtime_test.go
package zekken

import (
	"reflect"
	"strings"
	"testing"
)

func Test_Runtime_RunContract_StructuredOutput(t *testing.T) {
	res := runSrc(t, `@println => |"one"|; @println => |"two"|;`)
	if res.Failed() || res.ExitCode != 0 {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if !reflect.DeepEqual(res.Output, []string{"one", "two"}) {
		t.Fatalf("got %q", res.Output)
	}
}

func Test_Runtime_RunFile_ResolvesIncludesRelativeToFile(t *testing.T) {
	caps := testCaps()
	fs := caps.FS.(*fakeFS)
	fs.files["/proj/main.zk"] = "include \"util.zk\";\n@println => |twice => |4||;\n"
	fs.files["/proj/util.zk"] = "func twice |n: int| { return n * 2; }\nexport twice;\n"
	res := NewRuntime(caps).RunFile("/proj/main.zk")
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if !reflect.DeepEqual(res.Output, []string{"8"}) {
		t.Fatalf("got %q", res.Output)
	}
}

func Test_Runtime_RunFile_Missing(t *testing.T) {
	res := NewRuntime(testCaps()).RunFile("/ghost.zk")
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != DiagRuntime || res.ExitCode != 1 {
		t.Fatalf("got %+v", res)
	}
}

func Test_Runtime_LexError_BecomesSyntaxDiagnostic(t *testing.T) {
	res := runSrc(t, "let s: string = \"open")
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != DiagSyntax {
		t.Fatalf("got %v", res.Diagnostics)
	}
	if !strings.Contains(res.Diagnostics[0].Msg, "unterminated string") {
		t.Fatalf("got %q", res.Diagnostics[0].Msg)
	}
}

// panicStmt trips the evaluator from inside a statement walk.
type panicStmt struct{ Pos }

func (*panicStmt) stmtNode() {}

func Test_Runtime_EvaluatorPanic_IsInternalDiagnostic_NotACrash(t *testing.T) {
	rt := NewRuntime(testCaps())
	in := NewInterp(rt.reg)
	prog := &Program{Stmts: []Stmt{&ExprStmt{X: nil}}} // nil expression panics the walk
	err := rt.evalRecovered(in, prog)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != ErrInternal {
		t.Fatalf("want recovered InternalError, got %v", err)
	}
}

func Test_Runtime_UnknownStatementNode_IsInternalError(t *testing.T) {
	in := NewInterp(NewRegistry(testCaps()))
	_, _, err := in.execStmt(&panicStmt{}, NewEnv(nil))
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != ErrInternal {
		t.Fatalf("want InternalError for unknown node, got %v", err)
	}
}

func Test_Runtime_Version_NonEmpty(t *testing.T) {
	if Version == "" {
		t.Fatalf("version must be set")
	}
}
