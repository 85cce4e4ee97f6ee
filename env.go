// env.go — lexical environments.
//
// An Env is one scope frame: a name→binding table plus a parent link.
// Closures hold a pointer to their defining frame, and frames point only
// parent-ward, so no reference cycle exists and plain garbage collection
// reclaims frames once the last closure referencing them dies.
package zekken

import "fmt"

type binding struct {
	value   Value
	mutable bool
	typ     TypeName // declared annotation; TAny bindings are unchecked
}

// Env is a lexical environment frame. Lookups walk parent-ward;
// declarations always land in the current frame.
type Env struct {
	parent *Env
	table  map[string]*binding
}

// NewEnv creates a frame with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: map[string]*binding{}}
}

// Define binds name in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value, mutable bool, typ TypeName) {
	e.table[name] = &binding{value: v, mutable: mutable, typ: typ}
}

// assignment failure kinds, converted to positioned errors by the evaluator
var (
	errUndefined = fmt.Errorf("undefined")
	errConst     = fmt.Errorf("const")
	errDeclType  = fmt.Errorf("type")
)

// Assign updates the nearest existing binding. It reports errUndefined when
// no frame binds name, errConst for an immutable binding, and errDeclType
// when the new value disagrees with the declared annotation.
func (e *Env) Assign(name string, v Value) error {
	for f := e; f != nil; f = f.parent {
		b, ok := f.table[name]
		if !ok {
			continue
		}
		if !b.mutable {
			return errConst
		}
		if !typeMatches(b.typ, v) {
			return errDeclType
		}
		b.value = v
		return nil
	}
	return errUndefined
}

// Get returns the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.table[name]; ok {
			return b.value, true
		}
	}
	return Value{}, false
}

// DeclaredType returns the annotation of the nearest binding, for error
// messages about declared-type mismatches.
func (e *Env) DeclaredType(name string) TypeName {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.table[name]; ok {
			return b.typ
		}
	}
	return TAny
}
