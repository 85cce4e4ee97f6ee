// runtime.go — the embedding contract.
//
// Any front end (CLI, REPL, browser binding) drives the core through this
// surface: hand in source text, get back ordered output lines and ordered
// diagnostics. The core never writes to a terminal itself.
//
// Phase policy: lex and syntax errors abort the parse phase and are
// reported together; evaluation never runs on a program with outstanding
// syntax errors. An uncaught evaluation error aborts the whole run at that
// statement and becomes the single runtime diagnostic. Evaluator panics are
// recovered here and reported as internal diagnostics, never as a crash.
package zekken

import "path/filepath"

// Version is the language core version, reported by front ends.
const Version = "0.3.0"

// Result is the outcome of one run.
type Result struct {
	Output      []string
	Diagnostics []Diagnostic
	ExitCode    int
}

// Failed reports whether the run produced any diagnostic.
func (r *Result) Failed() bool { return len(r.Diagnostics) > 0 }

// Runtime owns a capability registry and runs programs against it.
type Runtime struct {
	reg *Registry
}

// NewRuntime builds a runtime over the given capabilities. Tests pass fake
// capabilities; front ends usually pass DefaultCaps().
func NewRuntime(caps Caps) *Runtime {
	return &Runtime{reg: NewRegistry(caps)}
}

// Run executes source text with the default OS-backed capabilities.
func Run(source string) *Result {
	return NewRuntime(DefaultCaps()).Run(source)
}

// Run executes one program in a fresh environment.
func (rt *Runtime) Run(source string) *Result {
	return rt.run(source, "")
}

// RunFile executes a program read through the filesystem capability; its
// includes resolve relative to the file's own directory first.
func (rt *Runtime) RunFile(path string) *Result {
	src, err := rt.reg.caps.FS.ReadFile(path)
	if err != nil {
		return &Result{
			Diagnostics: []Diagnostic{{Kind: DiagRuntime, Msg: "cannot read " + path + ": " + err.Error(), Line: 1, Col: 1}},
			ExitCode:    1,
		}
	}
	return rt.run(src, path)
}

func (rt *Runtime) run(source, path string) *Result {
	res := &Result{}

	toks, lerr := NewLexer(source).Scan()
	if lerr != nil {
		le := lerr.(*LexError)
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: DiagSyntax, Msg: le.Msg, Line: le.Line, Col: le.Col})
		res.ExitCode = 1
		return res
	}

	prog, serrs := NewParser(toks).Parse()
	if len(serrs) > 0 {
		for _, se := range serrs {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: DiagSyntax, Msg: se.Msg, Line: se.Line, Col: se.Col})
		}
		res.ExitCode = 1
		return res
	}

	in := NewInterp(rt.reg)
	if path != "" {
		in.curDir = filepath.Dir(path)
		in.loading = []string{path}
	}
	err := rt.evalRecovered(in, prog)
	res.Output = in.Output()

	switch e := err.(type) {
	case nil:
	case *exitSignal:
		res.ExitCode = e.Code
	case *EvalError:
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: diagKindOf(e.Kind), Msg: e.Msg, Line: e.Line, Col: e.Col})
		res.ExitCode = 1
	default:
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: DiagInternal, Msg: e.Error(), Line: 1, Col: 1})
		res.ExitCode = 1
	}
	return res
}

// evalRecovered shields the embedder from evaluator defects: a panic
// surfaces as an InternalError diagnostic instead of crossing the API.
func (rt *Runtime) evalRecovered(in *Interp, prog *Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EvalError{Kind: ErrInternal, Msg: panicMessage(r), Line: 1, Col: 1}
		}
	}()
	_, err = in.ExecProgram(prog, NewEnv(nil))
	return err
}

func panicMessage(r interface{}) string {
	if e, ok := r.(error); ok {
		return "evaluator panic: " + e.Error()
	}
	return "evaluator panic"
}

// Session is a persistent evaluation context for interactive front ends:
// bindings survive across Eval calls, output is returned per call.
type Session struct {
	in  *Interp
	env *Env

	// Exited is set when the program called os.exit; the front end decides
	// whether to terminate.
	Exited   bool
	ExitCode int
}

// NewSession creates a REPL-style session over the given capabilities.
func NewSession(caps Caps) *Session {
	return &Session{in: NewInterp(NewRegistry(caps)), env: NewEnv(nil)}
}

// Eval runs one input line (or block) in the session's environment and
// returns its value along with the lines it printed and any diagnostics.
func (s *Session) Eval(source string) (Value, []string, []Diagnostic) {
	toks, lerr := NewLexer(source).Scan()
	if lerr != nil {
		le := lerr.(*LexError)
		return Null, nil, []Diagnostic{{Kind: DiagSyntax, Msg: le.Msg, Line: le.Line, Col: le.Col}}
	}
	prog, serrs := NewParser(toks).Parse()
	if len(serrs) > 0 {
		diags := make([]Diagnostic, len(serrs))
		for i, se := range serrs {
			diags[i] = Diagnostic{Kind: DiagSyntax, Msg: se.Msg, Line: se.Line, Col: se.Col}
		}
		return Null, nil, diags
	}

	s.in.out = nil
	var v Value
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &EvalError{Kind: ErrInternal, Msg: panicMessage(r), Line: 1, Col: 1}
			}
		}()
		v, err = s.in.ExecProgram(prog, s.env)
	}()
	out := s.in.Output()

	switch e := err.(type) {
	case nil:
		return v, out, nil
	case *exitSignal:
		s.Exited = true
		s.ExitCode = e.Code
		return Null, out, nil
	case *EvalError:
		return Null, out, []Diagnostic{{Kind: diagKindOf(e.Kind), Msg: e.Msg, Line: e.Line, Col: e.Col}}
	default:
		return Null, out, []Diagnostic{{Kind: DiagInternal, Msg: e.Error(), Line: 1, Col: 1}}
	}
}
