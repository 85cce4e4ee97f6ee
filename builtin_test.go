// builtin_test.go
package zekken

import (
	"reflect"
	"strings"
	"testing"
)

func evalValue(t *testing.T, src string) Value {
	t.Helper()
	sess := NewSession(testCaps())
	v, _, diags := sess.Eval(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v\nsource:\n%s", diags, src)
	}
	return v
}

func wantFloat(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VFloat {
		t.Fatalf("want float %g, got %#v", f, v)
	}
	if got := v.Data.(float64); got != f {
		t.Fatalf("want float %g, got %g", f, got)
	}
}

func Test_Math_Pow(t *testing.T) {
	wantFloat(t, evalValue(t, `use math; math.pow => |2.0, 8.0|`), 256.0)
}

func Test_Math_Dot(t *testing.T) {
	wantFloat(t, evalValue(t, `use math; math.dot => |[1, 2, 3], [4, 5, 6]|`), 32.0)
}

func Test_Math_Dot_LengthMismatch(t *testing.T) {
	wantDiag(t, `use math; math.dot => |[1], [1, 2]|;`, DiagRuntime, "vector lengths differ")
}

func Test_Math_Matmul(t *testing.T) {
	v := evalValue(t, `use math; math.matmul => |[[1, 2], [3, 4]], [[5, 6], [7, 8]]|`)
	if v.Display() != "[[19.0, 22.0], [43.0, 50.0]]" {
		t.Fatalf("matmul result wrong: %s", v.Display())
	}
}

func Test_Math_Constants(t *testing.T) {
	v := evalValue(t, `use math; math.PI`)
	if v.Tag != VFloat || v.Data.(float64) < 3.14 || v.Data.(float64) > 3.15 {
		t.Fatalf("math.PI wrong: %#v", v)
	}
	i := evalValue(t, `use math; math.I`)
	if i.Display() != "{re: 0.0, im: 1.0}" {
		t.Fatalf("math.I wrong: %s", i.Display())
	}
}

func Test_Use_Destructured(t *testing.T) {
	wantFloat(t, evalValue(t, `use { pow } from math; pow => |3.0, 2.0|`), 9.0)
}

func Test_Use_UnknownModule_IsReferenceError(t *testing.T) {
	wantDiag(t, `use nonsense;`, DiagReference, "unknown native module 'nonsense'")
}

func Test_Use_UnknownMember_IsReferenceError(t *testing.T) {
	wantDiag(t, `use { nope } from math;`, DiagReference, "no member 'nope'")
}

func Test_Native_ArgTypeMismatch_IsTypeError(t *testing.T) {
	wantDiag(t, `use math; math.sqrt => |"four"|;`, DiagType, "argument 1 to 'math.sqrt' must be number")
}

func Test_Native_ArityMismatch_IsRuntimeError(t *testing.T) {
	wantDiag(t, `use math; math.pow => |2.0|;`, DiagRuntime, "'math.pow' expects 2 argument(s), got 1")
}

func Test_Fs_RoundTrip_ThroughFakeCapability(t *testing.T) {
	caps := testCaps()
	rt := NewRuntime(caps)
	res := rt.Run(`
use fs;
fs.write => |"/tmp/x.txt", "hello"|;
@println => |fs.read => |"/tmp/x.txt"||;
@println => |fs.exists => |"/tmp/x.txt"||;
`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if !reflect.DeepEqual(res.Output, []string{"hello", "true"}) {
		t.Fatalf("want [hello true], got %q", res.Output)
	}
	if got := caps.FS.(*fakeFS).files["/tmp/x.txt"]; got != "hello" {
		t.Fatalf("write did not reach the capability: %q", got)
	}
}

func Test_Fs_MissingFile_IsRuntimeError(t *testing.T) {
	wantDiag(t, `use fs; fs.read => |"/nope"|;`, DiagRuntime, "fs.read")
}

func Test_Fs_List_IsOrdered(t *testing.T) {
	caps := testCaps()
	fs := caps.FS.(*fakeFS)
	fs.dirs["/d"] = true
	fs.files["/d/b.zk"] = ""
	fs.files["/d/a.zk"] = ""
	res := NewRuntime(caps).Run(`use fs; @println => |fs.list => |"/d"||;`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.Output[0] != `["a.zk", "b.zk"]` {
		t.Fatalf("want ordered listing, got %q", res.Output[0])
	}
}

func Test_Os_Capabilities(t *testing.T) {
	caps := testCaps()
	res := NewRuntime(caps).Run(`
use os;
@println => |os.platform => |||;
@println => |os.cwd => |||;
os.setEnv => |"K", "V"|;
@println => |os.getEnv => |"K"||;
os.removeEnv => |"K"|;
@println => |os.getEnv => |"K"||;
@println => |os.pid => |||;
`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	want := []string{"testos", "/work", "V", "", "4242"}
	if !reflect.DeepEqual(res.Output, want) {
		t.Fatalf("want %q, got %q", want, res.Output)
	}
}

func Test_Os_Exit_SetsExitCode_AndStopsRun(t *testing.T) {
	res := runSrc(t, `
use os;
@println => |"before"|;
os.exit => |3|;
@println => |"after"|;
`)
	if res.ExitCode != 3 {
		t.Fatalf("want exit code 3, got %d", res.ExitCode)
	}
	if res.Failed() {
		t.Fatalf("exit is not a diagnostic: %v", res.Diagnostics)
	}
	if !reflect.DeepEqual(res.Output, []string{"before"}) {
		t.Fatalf("want output up to exit only, got %q", res.Output)
	}
}

func Test_Os_Exit_NotCatchable(t *testing.T) {
	res := runSrc(t, `
use os;
try { os.exit => |7| } catch |e| { @println => |"caught"| }
`)
	if res.ExitCode != 7 {
		t.Fatalf("exit must pass through try/catch, got code %d", res.ExitCode)
	}
	if len(res.Output) != 0 {
		t.Fatalf("catch body must not run for exit, got %q", res.Output)
	}
}

func Test_Builtin_Typeof_And_Len(t *testing.T) {
	wantOutput(t, `
@println => |@typeof => |1||;
@println => |@typeof => |1.5||;
@println => |@typeof => |"s"||;
@println => |@len => |"abc"||;
@println => |@len => |[1, 2]||;
@println => |@len => |{a: 1}||;
`, "int", "float", "string", "3", "2", "1")
}

func Test_Builtin_Input_ReadsFromCapability(t *testing.T) {
	caps := testCaps()
	caps.Stdin = strings.NewReader("Ada\n")
	res := NewRuntime(caps).Run(`@println => |"hi " + @input => |"name? "||;`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if !reflect.DeepEqual(res.Output, []string{"name? hi Ada"}) {
		t.Fatalf("got %q", res.Output)
	}
}

func Test_Builtin_Print_JoinsLine(t *testing.T) {
	wantOutput(t, `@print => |"a"|; @print => |"b"|; @println => |"c"|;`, "abc")
}

func Test_Builtin_Print_EmptyStringStillOpensLine(t *testing.T) {
	wantOutput(t, `@print => |""|;`, "")
}
