// value.go — the runtime value model.
//
// Value is a tagged sum: the Tag field says which Go payload Data holds.
// Objects preserve insertion order (the order is observable language
// behavior, not an implementation detail), and arrays are boxed so element
// mutation and push/pop are visible through every reference to the value.
package zekken

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VNull   ValueTag = iota // null (no payload)
	VBool                   // bool
	VInt                    // int64
	VFloat                  // float64
	VStr                    // string
	VArr                    // *ArrayValue
	VObj                    // *ObjectValue (insertion-ordered)
	VFun                    // *Fun (user closure)
	VNative                 // string registry key ("math.pow", "@println")
	VMethod                 // *BoundMethod (receiver + built-in method name)
)

// Value is the universal runtime carrier.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the singleton null value.
var Null = Value{Tag: VNull}

func BoolVal(b bool) Value     { return Value{Tag: VBool, Data: b} }
func IntVal(n int64) Value     { return Value{Tag: VInt, Data: n} }
func FloatVal(f float64) Value { return Value{Tag: VFloat, Data: f} }
func StrVal(s string) Value    { return Value{Tag: VStr, Data: s} }

// ArrayValue boxes the element slice so mutation is shared across copies
// of the wrapping Value.
type ArrayValue struct {
	Elems []Value
}

func ArrVal(elems []Value) Value { return Value{Tag: VArr, Data: &ArrayValue{Elems: elems}} }

// ObjectValue is an insertion-ordered string→Value mapping. Keys records
// the order; Entries is the storage. Iteration must always use Keys.
type ObjectValue struct {
	Entries map[string]Value
	Keys    []string
}

func NewObject() *ObjectValue {
	return &ObjectValue{Entries: map[string]Value{}}
}

// Set inserts or updates; a new key is appended to the order.
func (o *ObjectValue) Set(key string, v Value) {
	if _, ok := o.Entries[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Entries[key] = v
}

// Get returns the value for key and a presence flag.
func (o *ObjectValue) Get(key string) (Value, bool) {
	v, ok := o.Entries[key]
	return v, ok
}

func ObjVal(o *ObjectValue) Value { return Value{Tag: VObj, Data: o} }

// Fun is a user-defined function: a closure over the environment that was
// active at its definition site. The captured frame is shared by pointer;
// Go's garbage collector keeps it alive as long as any closure refers to it.
type Fun struct {
	Name   string // "" for lambdas
	Params []Param
	Body   []Stmt
	Env    *Env
}

func FunVal(f *Fun) Value { return Value{Tag: VFun, Data: f} }

// NativeVal wraps a registry key into a callable value.
func NativeVal(key string) Value { return Value{Tag: VNative, Data: key} }

// BoundMethod pairs a receiver with a built-in method name from the
// per-tag dispatch table (methods.go). Produced by member access on
// non-object receivers and by method names shadowing no object key.
type BoundMethod struct {
	Recv Value
	Name string
}

// typeOf maps a runtime value to the annotation type it satisfies.
func typeOf(v Value) TypeName {
	switch v.Tag {
	case VInt:
		return TInt
	case VFloat:
		return TFloat
	case VStr:
		return TString
	case VBool:
		return TBool
	case VArr:
		return TArray
	case VObj:
		return TObject
	case VFun, VNative, VMethod:
		return TFunction
	case VNull:
		return TNull
	default:
		return TAny
	}
}

// typeMatches reports whether a runtime value satisfies a declared
// annotation. TAny and TFunction bindings accept what they say; TNumber
// appears only in native signatures.
func typeMatches(want TypeName, v Value) bool {
	switch want {
	case TAny:
		return true
	case TNumber:
		return v.Tag == VInt || v.Tag == VFloat
	case TNull:
		return v.Tag == VNull
	default:
		return typeOf(v) == want
	}
}

// Display renders a value the way @println prints it. Strings render raw
// (no quotes); nested strings inside arrays/objects are quoted.
func (v Value) Display() string {
	return v.render(false)
}

func (v Value) render(quoted bool) string {
	switch v.Tag {
	case VNull:
		return "null"
	case VBool:
		return strconv.FormatBool(v.Data.(bool))
	case VInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VFloat:
		s := strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case VStr:
		s := v.Data.(string)
		if quoted {
			return strconv.Quote(s)
		}
		return s
	case VArr:
		arr := v.Data.(*ArrayValue)
		parts := make([]string, len(arr.Elems))
		for i, e := range arr.Elems {
			parts[i] = e.render(true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VObj:
		obj := v.Data.(*ObjectValue)
		parts := make([]string, 0, len(obj.Keys))
		for _, k := range obj.Keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, obj.Entries[k].render(true)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VFun:
		f := v.Data.(*Fun)
		if f.Name != "" {
			return "<function " + f.Name + ">"
		}
		return "<function>"
	case VNative:
		return "<native " + v.Data.(string) + ">"
	case VMethod:
		return "<method " + v.Data.(*BoundMethod).Name + ">"
	default:
		return "<unknown>"
	}
}

// equal implements the language's `==`. Scalars compare by value (ints and
// floats compare numerically across tags); arrays and objects compare by
// identity, not structure.
func equal(a, b Value) bool {
	if (a.Tag == VInt || a.Tag == VFloat) && (b.Tag == VInt || b.Tag == VFloat) {
		return numOf(a) == numOf(b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VNull:
		return true
	case VBool:
		return a.Data.(bool) == b.Data.(bool)
	case VStr:
		return a.Data.(string) == b.Data.(string)
	case VArr, VObj, VFun:
		return a.Data == b.Data
	case VNative:
		return a.Data.(string) == b.Data.(string)
	default:
		return false
	}
}

// numOf widens any numeric value to float64. Callers check the tag first.
func numOf(v Value) float64 {
	if v.Tag == VInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}
