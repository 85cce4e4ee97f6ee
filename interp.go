// interp.go — the tree-walking evaluator: statements and control flow.
//
// Evaluation is a synchronous depth-first walk. Non-local transfers
// (return/break/continue) are an explicit signal threaded through every
// statement call rather than panic-based unwinding: execStmts returns
// (value, ctrl, error), and each boundary — function call, loop, top level —
// consumes exactly the signals addressed to it. Raised errors travel the
// error return path until a try/catch or the top-level runner.
package zekken

import "bufio"

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// ctrl is the non-local control signal. pos is the signal's source site,
// used when a signal escapes every legal boundary.
type ctrl struct {
	kind ctrlKind
	pos  Pos
}

var ctrlNothing = ctrl{kind: ctrlNone}

// Interp evaluates an AST against an environment and a registry. One Interp
// accumulates the printed output of one run (or one REPL session).
type Interp struct {
	reg      *Registry
	out      []string
	pending  string // text from @print awaiting its line's @println
	lineOpen bool   // an @print has started the current line

	stdin *bufio.Reader

	// include machinery
	exports map[string]bool
	curDir  string
	loading []string
}

// NewInterp creates an evaluator bound to a registry.
func NewInterp(reg *Registry) *Interp {
	return &Interp{reg: reg, exports: map[string]bool{}}
}

// Output returns the lines printed so far, flushing any trailing @print
// text as a final line.
func (in *Interp) Output() []string {
	if in.lineOpen {
		in.out = append(in.out, in.pending)
		in.pending = ""
		in.lineOpen = false
	}
	return in.out
}

func (in *Interp) print(s string) {
	in.pending += s
	in.lineOpen = true
}

func (in *Interp) println(s string) {
	in.out = append(in.out, in.pending+s)
	in.pending = ""
	in.lineOpen = false
}

// ExecProgram runs a parsed program in env. A return/break/continue that
// escapes the top level is a RuntimeError at its source site.
func (in *Interp) ExecProgram(prog *Program, env *Env) (Value, error) {
	v, c, err := in.execStmts(prog.Stmts, env)
	if err != nil {
		return Value{}, err
	}
	if c.kind != ctrlNone {
		return Value{}, rtErr(c.pos, "'%s' outside of %s", ctrlName(c.kind), ctrlHome(c.kind))
	}
	return v, nil
}

func ctrlName(k ctrlKind) string {
	switch k {
	case ctrlReturn:
		return "return"
	case ctrlBreak:
		return "break"
	default:
		return "continue"
	}
}

func ctrlHome(k ctrlKind) string {
	if k == ctrlReturn {
		return "a function"
	}
	return "a loop"
}

// execStmts runs a statement list, yielding the value of the last
// expression statement (Null when there is none). The first non-none signal
// or error stops the walk.
func (in *Interp) execStmts(stmts []Stmt, env *Env) (Value, ctrl, error) {
	last := Null
	for _, s := range stmts {
		v, c, err := in.execStmt(s, env)
		if err != nil {
			return Value{}, ctrlNothing, err
		}
		if c.kind != ctrlNone {
			return v, c, nil
		}
		last = v
	}
	return last, ctrlNothing, nil
}

func (in *Interp) execStmt(s Stmt, env *Env) (Value, ctrl, error) {
	switch st := s.(type) {
	case *VarDecl:
		return Null, ctrlNothing, in.execVarDecl(st, env)

	case *FuncDecl:
		fn := &Fun{Name: st.Name, Params: st.Params, Body: st.Body, Env: env}
		env.Define(st.Name, FunVal(fn), false, TFunction)
		return Null, ctrlNothing, nil

	case *ObjectDecl:
		obj, err := in.evalObjectPairs(st.Pairs, env)
		if err != nil {
			return Null, ctrlNothing, err
		}
		env.Define(st.Name, obj, false, TObject)
		return Null, ctrlNothing, nil

	case *IfChain:
		return in.execIfChain(st, env)

	case *While:
		return in.execWhile(st, env)

	case *ForIn:
		return in.execForIn(st, env)

	case *TryCatch:
		return in.execTryCatch(st, env)

	case *Return:
		val := Null
		if st.Value != nil {
			v, err := in.eval(st.Value, env)
			if err != nil {
				return Null, ctrlNothing, err
			}
			val = v
		}
		return val, ctrl{kind: ctrlReturn, pos: st.Pos}, nil

	case *Break:
		return Null, ctrl{kind: ctrlBreak, pos: st.Pos}, nil

	case *Continue:
		return Null, ctrl{kind: ctrlContinue, pos: st.Pos}, nil

	case *Use:
		return Null, ctrlNothing, in.execUse(st, env)

	case *Include:
		return Null, ctrlNothing, in.execInclude(st, env)

	case *Export:
		for _, n := range st.Names {
			if _, ok := env.Get(n); !ok {
				return Null, ctrlNothing, refErr(st.Pos, "cannot export undeclared name '%s'", n)
			}
			in.exports[n] = true
		}
		return Null, ctrlNothing, nil

	case *ExprStmt:
		v, err := in.eval(st.X, env)
		if err != nil {
			return Null, ctrlNothing, err
		}
		return v, ctrlNothing, nil

	default:
		return Null, ctrlNothing, &EvalError{
			Kind: ErrInternal, Msg: "unhandled statement node",
			Line: s.At().Line, Col: s.At().Col,
		}
	}
}

func (in *Interp) execVarDecl(st *VarDecl, env *Env) error {
	v, err := in.eval(st.Init, env)
	if err != nil {
		return err
	}
	if !typeMatches(st.Type, v) {
		return typeErr(st.Pos, "cannot initialize '%s: %s' with %s value", st.Name, st.Type, typeOf(v))
	}
	env.Define(st.Name, v, st.Mutable, st.Type)
	return nil
}

func (in *Interp) execIfChain(st *IfChain, env *Env) (Value, ctrl, error) {
	for _, cl := range st.Clauses {
		cond, err := in.eval(cl.Cond, env)
		if err != nil {
			return Null, ctrlNothing, err
		}
		if cond.Tag != VBool {
			return Null, ctrlNothing, typeErr(cl.Cond.At(), "if condition must be bool, got %s", typeOf(cond))
		}
		if cond.Data.(bool) {
			return in.execStmts(cl.Body, NewEnv(env))
		}
	}
	if st.Else != nil {
		return in.execStmts(st.Else, NewEnv(env))
	}
	return Null, ctrlNothing, nil
}

func (in *Interp) execWhile(st *While, env *Env) (Value, ctrl, error) {
	for {
		cond, err := in.eval(st.Cond, env)
		if err != nil {
			return Null, ctrlNothing, err
		}
		if cond.Tag != VBool {
			return Null, ctrlNothing, typeErr(st.Cond.At(), "while condition must be bool, got %s", typeOf(cond))
		}
		if !cond.Data.(bool) {
			return Null, ctrlNothing, nil
		}
		_, c, err := in.execStmts(st.Body, NewEnv(env))
		if err != nil {
			return Null, ctrlNothing, err
		}
		switch c.kind {
		case ctrlBreak:
			return Null, ctrlNothing, nil
		case ctrlReturn:
			return Null, c, nil
		}
		// ctrlContinue and ctrlNone both proceed to the next test
	}
}

// execForIn iterates arrays (index/value), objects (key/value, insertion
// order), and strings (index/byte). Each iteration gets a fresh frame so
// closures created in the body capture that iteration's bindings.
func (in *Interp) execForIn(st *ForIn, env *Env) (Value, ctrl, error) {
	iter, err := in.eval(st.Iter, env)
	if err != nil {
		return Null, ctrlNothing, err
	}

	run := func(first, second Value) (ctrl, error) {
		frame := NewEnv(env)
		if st.Second == "" {
			frame.Define(st.First, second, true, TAny)
		} else {
			frame.Define(st.First, first, true, TAny)
			frame.Define(st.Second, second, true, TAny)
		}
		_, c, err := in.execStmts(st.Body, frame)
		return c, err
	}

	step := func(first, second Value) (bool, ctrl, error) {
		c, err := run(first, second)
		if err != nil {
			return false, ctrlNothing, err
		}
		switch c.kind {
		case ctrlBreak:
			return false, ctrlNothing, nil
		case ctrlReturn:
			return false, c, nil
		}
		return true, ctrlNothing, nil
	}

	switch iter.Tag {
	case VArr:
		for i, e := range iter.Data.(*ArrayValue).Elems {
			more, c, err := step(IntVal(int64(i)), e)
			if err != nil || c.kind != ctrlNone || !more {
				return Null, c, err
			}
		}
	case VObj:
		obj := iter.Data.(*ObjectValue)
		for _, k := range obj.Keys {
			more, c, err := step(StrVal(k), obj.Entries[k])
			if err != nil || c.kind != ctrlNone || !more {
				return Null, c, err
			}
		}
	case VStr:
		s := iter.Data.(string)
		for i := 0; i < len(s); i++ {
			more, c, err := step(IntVal(int64(i)), StrVal(s[i:i+1]))
			if err != nil || c.kind != ctrlNone || !more {
				return Null, c, err
			}
		}
	default:
		return Null, ctrlNothing, typeErr(st.Iter.At(), "cannot iterate over %s", typeOf(iter))
	}
	return Null, ctrlNothing, nil
}

// execTryCatch intercepts Reference/Type/Runtime errors raised anywhere in
// the try body — including nested calls — and binds their message to the
// catch parameter in a fresh child frame. Internal errors and exit signals
// pass through uncaught.
func (in *Interp) execTryCatch(st *TryCatch, env *Env) (Value, ctrl, error) {
	v, c, err := in.execStmts(st.Try, NewEnv(env))
	if err == nil {
		return v, c, nil
	}
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind == ErrInternal {
		return Null, ctrlNothing, err
	}
	frame := NewEnv(env)
	frame.Define(st.CatchName, StrVal(ee.Error()), false, TString)
	return in.execStmts(st.Catch, frame)
}

func (in *Interp) execUse(st *Use, env *Env) error {
	if st.Names == nil {
		mod, ok := in.reg.Module(st.Module)
		if !ok {
			return refErr(st.Pos, "unknown native module '%s'", st.Module)
		}
		env.Define(st.Module, mod, false, TObject)
		return nil
	}
	if _, ok := in.reg.Module(st.Module); !ok {
		return refErr(st.Pos, "unknown native module '%s'", st.Module)
	}
	for _, n := range st.Names {
		v, ok := in.reg.Member(st.Module, n)
		if !ok {
			return refErr(st.Pos, "module '%s' has no member '%s'", st.Module, n)
		}
		env.Define(n, v, false, TAny)
	}
	return nil
}
