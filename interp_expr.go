// interp_expr.go — expression evaluation: lookups, calls, operators.
package zekken

import (
	"math"
	"strings"
)

func (in *Interp) eval(e Expr, env *Env) (Value, error) {
	switch x := e.(type) {
	case *IntLit:
		return IntVal(x.Value), nil
	case *FloatLit:
		return FloatVal(x.Value), nil
	case *StringLit:
		return StrVal(x.Value), nil
	case *BoolLit:
		return BoolVal(x.Value), nil
	case *NullLit:
		return Null, nil

	case *Identifier:
		if strings.HasPrefix(x.Name, "@") {
			v, ok := in.reg.Builtin(x.Name)
			if !ok {
				return Value{}, refErr(x.Pos, "unknown builtin '%s'", x.Name)
			}
			return v, nil
		}
		v, ok := env.Get(x.Name)
		if !ok {
			return Value{}, refErr(x.Pos, "'%s' is not defined", x.Name)
		}
		return v, nil

	case *ArrayLit:
		elems := make([]Value, len(x.Elems))
		for i, el := range x.Elems {
			v, err := in.eval(el, env)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return ArrVal(elems), nil

	case *ObjectLit:
		return in.evalObjectPairs(x.Pairs, env)

	case *LambdaExpr:
		return FunVal(&Fun{Params: x.Params, Body: x.Body, Env: env}), nil

	case *Member:
		return in.evalMember(x, env)

	case *Index:
		return in.evalIndex(x, env)

	case *Call:
		return in.evalCall(x, env)

	case *Assign:
		return in.evalAssign(x, env)

	case *Binary:
		return in.evalBinary(x, env)

	case *Unary:
		return in.evalUnary(x, env)

	default:
		return Value{}, &EvalError{
			Kind: ErrInternal, Msg: "unhandled expression node",
			Line: e.At().Line, Col: e.At().Col,
		}
	}
}

func (in *Interp) evalObjectPairs(pairs []ObjectPair, env *Env) (Value, error) {
	obj := NewObject()
	for _, pr := range pairs {
		v, err := in.eval(pr.Value, env)
		if err != nil {
			return Value{}, err
		}
		obj.Set(pr.Key, v)
	}
	return ObjVal(obj), nil
}

// evalMember resolves `obj.name`: an object property when present, else a
// built-in method of the receiver's tag wrapped as a bound method.
func (in *Interp) evalMember(x *Member, env *Env) (Value, error) {
	recv, err := in.eval(x.Obj, env)
	if err != nil {
		return Value{}, err
	}
	if recv.Tag == VObj {
		if v, ok := recv.Data.(*ObjectValue).Get(x.Name); ok {
			return v, nil
		}
	}
	if _, ok := lookupMethod(recv.Tag, x.Name); ok {
		return Value{Tag: VMethod, Data: &BoundMethod{Recv: recv, Name: x.Name}}, nil
	}
	if recv.Tag == VObj {
		return Value{}, refErr(x.Pos, "object has no property or method '%s'", x.Name)
	}
	return Value{}, refErr(x.Pos, "%s has no method '%s'", typeOf(recv), x.Name)
}

func (in *Interp) evalIndex(x *Index, env *Env) (Value, error) {
	recv, err := in.eval(x.Obj, env)
	if err != nil {
		return Value{}, err
	}
	key, err := in.eval(x.Key, env)
	if err != nil {
		return Value{}, err
	}
	switch recv.Tag {
	case VArr:
		elems := recv.Data.(*ArrayValue).Elems
		i, err := indexInto(x.Pos, key, len(elems))
		if err != nil {
			return Value{}, err
		}
		return elems[i], nil
	case VStr:
		s := recv.Data.(string)
		i, err := indexInto(x.Pos, key, len(s))
		if err != nil {
			return Value{}, err
		}
		return StrVal(s[i : i+1]), nil
	case VObj:
		if key.Tag != VStr {
			return Value{}, typeErr(x.Pos, "object key must be string, got %s", typeOf(key))
		}
		v, ok := recv.Data.(*ObjectValue).Get(key.Data.(string))
		if !ok {
			return Value{}, rtErr(x.Pos, "object has no key '%s'", key.Data.(string))
		}
		return v, nil
	default:
		return Value{}, typeErr(x.Pos, "%s is not indexable", typeOf(recv))
	}
}

func indexInto(p Pos, key Value, length int) (int, error) {
	if key.Tag != VInt {
		return 0, typeErr(p, "index must be int, got %s", typeOf(key))
	}
	i := key.Data.(int64)
	if i < 0 || i >= int64(length) {
		return 0, rtErr(p, "index %d out of range (length %d)", i, length)
	}
	return int(i), nil
}

// evalCall dispatches `callee => |args|` over user closures, native
// registry entries, and bound built-in methods.
func (in *Interp) evalCall(x *Call, env *Env) (Value, error) {
	callee, err := in.eval(x.Callee, env)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, len(x.Args))
	for i, a := range x.Args {
		v, err := in.eval(a, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	switch callee.Tag {
	case VFun:
		return in.callFunction(x.Pos, callee.Data.(*Fun), args)
	case VNative:
		return in.reg.Call(in, x.Pos, callee.Data.(string), args)
	case VMethod:
		bm := callee.Data.(*BoundMethod)
		return callMethod(x.Pos, bm.Recv, bm.Name, args)
	default:
		return Value{}, typeErr(x.Pos, "%s is not callable", typeOf(callee))
	}
}

// callFunction applies a user closure: exact positional arity, parameter
// annotations checked, body run in a frame parented at the *captured*
// environment. A return signal stops exactly here.
func (in *Interp) callFunction(p Pos, fn *Fun, args []Value) (Value, error) {
	name := fn.Name
	if name == "" {
		name = "function"
	}
	if len(args) != len(fn.Params) {
		return Value{}, rtErr(p, "'%s' expects %d argument(s), got %d", name, len(fn.Params), len(args))
	}
	frame := NewEnv(fn.Env)
	for i, par := range fn.Params {
		if !typeMatches(par.Type, args[i]) {
			return Value{}, typeErr(p, "parameter '%s' of '%s' must be %s, got %s",
				par.Name, name, par.Type, typeOf(args[i]))
		}
		frame.Define(par.Name, args[i], true, par.Type)
	}
	v, c, err := in.execStmts(fn.Body, frame)
	if err != nil {
		return Value{}, err
	}
	switch c.kind {
	case ctrlReturn:
		return v, nil
	case ctrlBreak, ctrlContinue:
		// a loop signal may not cross a call boundary
		return Value{}, rtErr(c.pos, "'%s' outside of a loop", ctrlName(c.kind))
	}
	return Null, nil
}

func (in *Interp) evalAssign(x *Assign, env *Env) (Value, error) {
	val, err := in.eval(x.Value, env)
	if err != nil {
		return Value{}, err
	}

	// compound assignment reads the target, applies the operator, and falls
	// through to the plain store
	if x.Op != "=" {
		cur, err := in.eval(x.Target, env)
		if err != nil {
			return Value{}, err
		}
		val, err = applyBinary(x.Pos, strings.TrimSuffix(x.Op, "="), cur, val)
		if err != nil {
			return Value{}, err
		}
	}

	switch t := x.Target.(type) {
	case *Identifier:
		switch env.Assign(t.Name, val) {
		case nil:
			return val, nil
		case errUndefined:
			return Value{}, refErr(x.Pos, "cannot assign to undeclared name '%s'", t.Name)
		case errConst:
			return Value{}, typeErr(x.Pos, "cannot reassign constant '%s'", t.Name)
		default:
			return Value{}, typeErr(x.Pos, "cannot assign %s to '%s: %s'",
				typeOf(val), t.Name, env.DeclaredType(t.Name))
		}

	case *Member:
		recv, err := in.eval(t.Obj, env)
		if err != nil {
			return Value{}, err
		}
		if recv.Tag != VObj {
			return Value{}, typeErr(x.Pos, "cannot set property '%s' on %s", t.Name, typeOf(recv))
		}
		recv.Data.(*ObjectValue).Set(t.Name, val)
		return val, nil

	case *Index:
		recv, err := in.eval(t.Obj, env)
		if err != nil {
			return Value{}, err
		}
		key, err := in.eval(t.Key, env)
		if err != nil {
			return Value{}, err
		}
		switch recv.Tag {
		case VArr:
			elems := recv.Data.(*ArrayValue).Elems
			i, err := indexInto(x.Pos, key, len(elems))
			if err != nil {
				return Value{}, err
			}
			elems[i] = val
			return val, nil
		case VObj:
			if key.Tag != VStr {
				return Value{}, typeErr(x.Pos, "object key must be string, got %s", typeOf(key))
			}
			recv.Data.(*ObjectValue).Set(key.Data.(string), val)
			return val, nil
		default:
			return Value{}, typeErr(x.Pos, "%s is not indexable", typeOf(recv))
		}

	default:
		return Value{}, &EvalError{
			Kind: ErrInternal, Msg: "invalid assignment target survived parsing",
			Line: x.Pos.Line, Col: x.Pos.Col,
		}
	}
}

// evalBinary short-circuits && and ||; everything else evaluates both sides
// and delegates to applyBinary.
func (in *Interp) evalBinary(x *Binary, env *Env) (Value, error) {
	if x.Op == "&&" || x.Op == "||" {
		l, err := in.eval(x.L, env)
		if err != nil {
			return Value{}, err
		}
		if l.Tag != VBool {
			return Value{}, typeErr(x.L.At(), "left operand of '%s' must be bool, got %s", x.Op, typeOf(l))
		}
		if x.Op == "&&" && !l.Data.(bool) {
			return BoolVal(false), nil
		}
		if x.Op == "||" && l.Data.(bool) {
			return BoolVal(true), nil
		}
		r, err := in.eval(x.R, env)
		if err != nil {
			return Value{}, err
		}
		if r.Tag != VBool {
			return Value{}, typeErr(x.R.At(), "right operand of '%s' must be bool, got %s", x.Op, typeOf(r))
		}
		return r, nil
	}

	l, err := in.eval(x.L, env)
	if err != nil {
		return Value{}, err
	}
	r, err := in.eval(x.R, env)
	if err != nil {
		return Value{}, err
	}
	return applyBinary(x.Pos, x.Op, l, r)
}

func applyBinary(p Pos, op string, l, r Value) (Value, error) {
	switch op {
	case "==":
		return BoolVal(equal(l, r)), nil
	case "!=":
		return BoolVal(!equal(l, r)), nil
	}

	// `+` with a string operand is concatenation; the other side renders
	// the way @println would print it.
	if op == "+" && (l.Tag == VStr || r.Tag == VStr) {
		return StrVal(l.Display() + r.Display()), nil
	}
	if op == "+" && l.Tag == VArr && r.Tag == VArr {
		a := l.Data.(*ArrayValue).Elems
		b := r.Data.(*ArrayValue).Elems
		out := make([]Value, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return ArrVal(out), nil
	}

	if op == "<" || op == "<=" || op == ">" || op == ">=" {
		if l.Tag == VStr && r.Tag == VStr {
			return compareOrdered(op, strings.Compare(l.Data.(string), r.Data.(string))), nil
		}
		if isNum(l) && isNum(r) {
			a, b := numOf(l), numOf(r)
			switch {
			case a < b:
				return compareOrdered(op, -1), nil
			case a > b:
				return compareOrdered(op, 1), nil
			default:
				return compareOrdered(op, 0), nil
			}
		}
		return Value{}, typeErr(p, "cannot compare %s and %s with '%s'", typeOf(l), typeOf(r), op)
	}

	// arithmetic
	if !isNum(l) || !isNum(r) {
		return Value{}, typeErr(p, "operator '%s' needs numeric operands, got %s and %s", op, typeOf(l), typeOf(r))
	}
	if l.Tag == VInt && r.Tag == VInt {
		a, b := l.Data.(int64), r.Data.(int64)
		switch op {
		case "+":
			return IntVal(a + b), nil
		case "-":
			return IntVal(a - b), nil
		case "*":
			return IntVal(a * b), nil
		case "/":
			if b == 0 {
				return Value{}, rtErr(p, "division by zero")
			}
			return IntVal(a / b), nil
		case "%":
			if b == 0 {
				return Value{}, rtErr(p, "division by zero")
			}
			return IntVal(a % b), nil
		}
	}
	a, b := numOf(l), numOf(r)
	switch op {
	case "+":
		return FloatVal(a + b), nil
	case "-":
		return FloatVal(a - b), nil
	case "*":
		return FloatVal(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, rtErr(p, "division by zero")
		}
		return FloatVal(a / b), nil
	case "%":
		if b == 0 {
			return Value{}, rtErr(p, "division by zero")
		}
		return FloatVal(math.Mod(a, b)), nil
	}
	return Value{}, &EvalError{Kind: ErrInternal, Msg: "unknown binary operator " + op, Line: p.Line, Col: p.Col}
}

func isNum(v Value) bool { return v.Tag == VInt || v.Tag == VFloat }

func compareOrdered(op string, cmp int) Value {
	switch op {
	case "<":
		return BoolVal(cmp < 0)
	case "<=":
		return BoolVal(cmp <= 0)
	case ">":
		return BoolVal(cmp > 0)
	default:
		return BoolVal(cmp >= 0)
	}
}

func (in *Interp) evalUnary(x *Unary, env *Env) (Value, error) {
	v, err := in.eval(x.X, env)
	if err != nil {
		return Value{}, err
	}
	switch x.Op {
	case "!":
		if v.Tag != VBool {
			return Value{}, typeErr(x.Pos, "operand of '!' must be bool, got %s", typeOf(v))
		}
		return BoolVal(!v.Data.(bool)), nil
	case "-":
		switch v.Tag {
		case VInt:
			return IntVal(-v.Data.(int64)), nil
		case VFloat:
			return FloatVal(-v.Data.(float64)), nil
		}
		return Value{}, typeErr(x.Pos, "operand of unary '-' must be numeric, got %s", typeOf(v))
	}
	return Value{}, &EvalError{Kind: ErrInternal, Msg: "unknown unary operator " + x.Op, Line: x.Pos.Line, Col: x.Pos.Col}
}
