// registry.go — the native capability registry.
//
// A Registry is built once per run by NewRegistry(caps) and passed by
// reference into every evaluation; there is no mutable global. It maps
// module-qualified names ("math.pow", "fs.read") and standalone builtins
// ("@println", "@typeof") to host implementations. Every entry declares a
// fixed arity and a parameter signature; the boundary check converts any
// mismatch into a TypeError before the host implementation runs. After
// construction the registry is read-only.
package zekken

import "fmt"

// nativeImpl is one host implementation. It receives the interpreter (for
// output and capability access) and pre-checked arguments.
type nativeImpl func(in *Interp, p Pos, args []Value) (Value, error)

type nativeEntry struct {
	params []TypeName
	ret    TypeName
	impl   nativeImpl
}

// moduleMember is one ordered entry of a native module's export surface:
// either a constant value or a function (a NativeFunction value).
type moduleMember struct {
	name  string
	value Value
}

type moduleDef struct {
	members []moduleMember
}

// Registry resolves native modules and builtins and enforces their call
// contracts.
type Registry struct {
	caps    Caps
	entries map[string]*nativeEntry
	modules map[string]*moduleDef
}

// NewRegistry builds the full native surface against the given capabilities.
func NewRegistry(caps Caps) *Registry {
	r := &Registry{
		caps:    caps,
		entries: map[string]*nativeEntry{},
		modules: map[string]*moduleDef{},
	}
	registerCoreBuiltins(r)
	registerMathModule(r)
	registerFsModule(r)
	registerOsModule(r)
	registerJsonModule(r)
	return r
}

func (r *Registry) module(name string) *moduleDef {
	m, ok := r.modules[name]
	if !ok {
		m = &moduleDef{}
		r.modules[name] = m
	}
	return m
}

// registerFn adds a module function. The registry key is "module.name".
func (r *Registry) registerFn(module, name string, params []TypeName, ret TypeName, impl nativeImpl) {
	key := module + "." + name
	r.entries[key] = &nativeEntry{params: params, ret: ret, impl: impl}
	m := r.module(module)
	m.members = append(m.members, moduleMember{name: name, value: NativeVal(key)})
}

// registerConst adds a module constant.
func (r *Registry) registerConst(module, name string, v Value) {
	m := r.module(module)
	m.members = append(m.members, moduleMember{name: name, value: v})
}

// registerBuiltin adds a standalone "@"-prefixed builtin.
func (r *Registry) registerBuiltin(name string, params []TypeName, ret TypeName, impl nativeImpl) {
	key := "@" + name
	r.entries[key] = &nativeEntry{params: params, ret: ret, impl: impl}
}

// Builtin resolves a standalone builtin by its "@name" spelling.
func (r *Registry) Builtin(key string) (Value, bool) {
	if _, ok := r.entries[key]; !ok {
		return Value{}, false
	}
	return NativeVal(key), true
}

// Module materializes a module's export surface as an insertion-ordered
// object value: constants and functions in registration order.
func (r *Registry) Module(name string) (Value, bool) {
	m, ok := r.modules[name]
	if !ok {
		return Value{}, false
	}
	obj := NewObject()
	for _, mem := range m.members {
		obj.Set(mem.name, mem.value)
	}
	return ObjVal(obj), true
}

// Member resolves one member of a module.
func (r *Registry) Member(module, name string) (Value, bool) {
	m, ok := r.modules[module]
	if !ok {
		return Value{}, false
	}
	for _, mem := range m.members {
		if mem.name == name {
			return mem.value, true
		}
	}
	return Value{}, false
}

// Call invokes the entry behind key, enforcing its arity and parameter
// signature first. A mismatch becomes a TypeError carrying the call site.
func (r *Registry) Call(in *Interp, p Pos, key string, args []Value) (Value, error) {
	e, ok := r.entries[key]
	if !ok {
		return Value{}, refErr(p, "undefined native function '%s'", key)
	}
	if len(args) != len(e.params) {
		return Value{}, rtErr(p, "'%s' expects %d argument(s), got %d", key, len(e.params), len(args))
	}
	for i, want := range e.params {
		if !typeMatches(want, args[i]) {
			return Value{}, typeErr(p, "argument %d to '%s' must be %s, got %s",
				i+1, key, want, typeOf(args[i]))
		}
	}
	v, err := e.impl(in, p, args)
	if err != nil {
		return Value{}, err
	}
	if !typeMatches(e.ret, v) {
		return Value{}, &EvalError{
			Kind: ErrInternal,
			Msg:  fmt.Sprintf("'%s' returned %s, declared %s", key, typeOf(v), e.ret),
			Line: p.Line, Col: p.Col,
		}
	}
	return v, nil
}
