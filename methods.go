// methods.go — built-in methods on runtime values.
//
// Dispatch is a fixed table keyed by (value tag, method name): each variant
// carries exactly the capability set listed here, checked at dispatch time.
// An unknown method name for the receiver's tag is a ReferenceError; a
// wrong argument count or type is a TypeError.
package zekken

import (
	"math"
	"strings"
)

type methodImpl func(p Pos, recv Value, args []Value) (Value, error)

type methodEntry struct {
	params []TypeName
	impl   methodImpl
}

var methodTable = map[ValueTag]map[string]*methodEntry{
	VStr: {
		"length": nullary(func(_ Pos, recv Value) (Value, error) {
			return IntVal(int64(len(recv.Data.(string)))), nil
		}),
		"toUpper": nullary(func(_ Pos, recv Value) (Value, error) {
			return StrVal(strings.ToUpper(recv.Data.(string))), nil
		}),
		"toLower": nullary(func(_ Pos, recv Value) (Value, error) {
			return StrVal(strings.ToLower(recv.Data.(string))), nil
		}),
		"trim": nullary(func(_ Pos, recv Value) (Value, error) {
			return StrVal(strings.TrimSpace(recv.Data.(string))), nil
		}),
		"split": {
			params: []TypeName{TString},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				parts := strings.Split(recv.Data.(string), args[0].Data.(string))
				elems := make([]Value, len(parts))
				for i, s := range parts {
					elems[i] = StrVal(s)
				}
				return ArrVal(elems), nil
			},
		},
		"contains": {
			params: []TypeName{TString},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				return BoolVal(strings.Contains(recv.Data.(string), args[0].Data.(string))), nil
			},
		},
		"replace": {
			params: []TypeName{TString, TString},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				return StrVal(strings.ReplaceAll(recv.Data.(string), args[0].Data.(string), args[1].Data.(string))), nil
			},
		},
	},

	VArr: {
		"length": nullary(func(_ Pos, recv Value) (Value, error) {
			return IntVal(int64(len(recv.Data.(*ArrayValue).Elems))), nil
		}),
		// push mutates in place and returns the new length.
		"push": {
			params: []TypeName{TAny},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				arr := recv.Data.(*ArrayValue)
				arr.Elems = append(arr.Elems, args[0])
				return IntVal(int64(len(arr.Elems))), nil
			},
		},
		"pop": nullary(func(p Pos, recv Value) (Value, error) {
			arr := recv.Data.(*ArrayValue)
			if len(arr.Elems) == 0 {
				return Value{}, rtErr(p, "pop on empty array")
			}
			last := arr.Elems[len(arr.Elems)-1]
			arr.Elems = arr.Elems[:len(arr.Elems)-1]
			return last, nil
		}),
		"join": {
			params: []TypeName{TString},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				elems := recv.Data.(*ArrayValue).Elems
				parts := make([]string, len(elems))
				for i, e := range elems {
					parts[i] = e.Display()
				}
				return StrVal(strings.Join(parts, args[0].Data.(string))), nil
			},
		},
		"first": nullary(func(p Pos, recv Value) (Value, error) {
			elems := recv.Data.(*ArrayValue).Elems
			if len(elems) == 0 {
				return Value{}, rtErr(p, "first on empty array")
			}
			return elems[0], nil
		}),
		"last": nullary(func(p Pos, recv Value) (Value, error) {
			elems := recv.Data.(*ArrayValue).Elems
			if len(elems) == 0 {
				return Value{}, rtErr(p, "last on empty array")
			}
			return elems[len(elems)-1], nil
		}),
		"contains": {
			params: []TypeName{TAny},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				for _, e := range recv.Data.(*ArrayValue).Elems {
					if equal(e, args[0]) {
						return BoolVal(true), nil
					}
				}
				return BoolVal(false), nil
			},
		},
	},

	VObj: {
		"keys": nullary(func(_ Pos, recv Value) (Value, error) {
			obj := recv.Data.(*ObjectValue)
			elems := make([]Value, len(obj.Keys))
			for i, k := range obj.Keys {
				elems[i] = StrVal(k)
			}
			return ArrVal(elems), nil
		}),
		"values": nullary(func(_ Pos, recv Value) (Value, error) {
			obj := recv.Data.(*ObjectValue)
			elems := make([]Value, len(obj.Keys))
			for i, k := range obj.Keys {
				elems[i] = obj.Entries[k]
			}
			return ArrVal(elems), nil
		}),
		// entries yields [key, value] pairs in insertion order.
		"entries": nullary(func(_ Pos, recv Value) (Value, error) {
			obj := recv.Data.(*ObjectValue)
			elems := make([]Value, len(obj.Keys))
			for i, k := range obj.Keys {
				elems[i] = ArrVal([]Value{StrVal(k), obj.Entries[k]})
			}
			return ArrVal(elems), nil
		}),
		"has": {
			params: []TypeName{TString},
			impl: func(_ Pos, recv Value, args []Value) (Value, error) {
				_, ok := recv.Data.(*ObjectValue).Get(args[0].Data.(string))
				return BoolVal(ok), nil
			},
		},
		"length": nullary(func(_ Pos, recv Value) (Value, error) {
			return IntVal(int64(len(recv.Data.(*ObjectValue).Keys))), nil
		}),
	},

	VInt: {
		"isEven": nullary(func(_ Pos, recv Value) (Value, error) {
			return BoolVal(recv.Data.(int64)%2 == 0), nil
		}),
		"isOdd": nullary(func(_ Pos, recv Value) (Value, error) {
			return BoolVal(recv.Data.(int64)%2 != 0), nil
		}),
		"abs": nullary(func(_ Pos, recv Value) (Value, error) {
			n := recv.Data.(int64)
			if n < 0 {
				n = -n
			}
			return IntVal(n), nil
		}),
		"toFloat": nullary(func(_ Pos, recv Value) (Value, error) {
			return FloatVal(float64(recv.Data.(int64))), nil
		}),
	},

	VFloat: {
		"round": nullary(func(_ Pos, recv Value) (Value, error) {
			return FloatVal(math.Round(recv.Data.(float64))), nil
		}),
		"floor": nullary(func(_ Pos, recv Value) (Value, error) {
			return FloatVal(math.Floor(recv.Data.(float64))), nil
		}),
		"ceil": nullary(func(_ Pos, recv Value) (Value, error) {
			return FloatVal(math.Ceil(recv.Data.(float64))), nil
		}),
		"abs": nullary(func(_ Pos, recv Value) (Value, error) {
			return FloatVal(math.Abs(recv.Data.(float64))), nil
		}),
		"toInt": nullary(func(_ Pos, recv Value) (Value, error) {
			return IntVal(int64(recv.Data.(float64))), nil
		}),
	},
}

func nullary(fn func(p Pos, recv Value) (Value, error)) *methodEntry {
	return &methodEntry{impl: func(p Pos, recv Value, _ []Value) (Value, error) {
		return fn(p, recv)
	}}
}

// lookupMethod finds a built-in method for a receiver tag.
func lookupMethod(tag ValueTag, name string) (*methodEntry, bool) {
	tbl, ok := methodTable[tag]
	if !ok {
		return nil, false
	}
	e, ok := tbl[name]
	return e, ok
}

// callMethod checks the entry's signature against args and runs it.
func callMethod(p Pos, recv Value, name string, args []Value) (Value, error) {
	e, ok := lookupMethod(recv.Tag, name)
	if !ok {
		return Value{}, refErr(p, "%s has no method '%s'", typeOf(recv), name)
	}
	if len(args) != len(e.params) {
		return Value{}, typeErr(p, "'%s' expects %d argument(s), got %d", name, len(e.params), len(args))
	}
	for i, want := range e.params {
		if !typeMatches(want, args[i]) {
			return Value{}, typeErr(p, "argument %d to '%s' must be %s, got %s", i+1, name, want, typeOf(args[i]))
		}
	}
	return e.impl(p, recv, args)
}
