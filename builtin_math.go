// builtin_math.go — the `math` native module.
//
// Elementary functions accept Int or Float and return Float. Vector and
// matrix operations work over ordinary Array values; matmul uses the
// standard row-by-column accumulation. The imaginary unit I is exposed as
// the object {re: 0.0, im: 1.0} since the value model has no complex tag.
package zekken

import "math"

func registerMathModule(r *Registry) {
	i := NewObject()
	i.Set("re", FloatVal(0))
	i.Set("im", FloatVal(1))
	r.registerConst("math", "PI", FloatVal(math.Pi))
	r.registerConst("math", "E", FloatVal(math.E))
	r.registerConst("math", "I", ObjVal(i))

	unary := func(name string, fn func(float64) float64) {
		r.registerFn("math", name,
			[]TypeName{TNumber}, TFloat,
			func(_ *Interp, _ Pos, args []Value) (Value, error) {
				return FloatVal(fn(numOf(args[0]))), nil
			})
	}
	unary("sqrt", math.Sqrt)
	unary("abs", math.Abs)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("log", math.Log)
	unary("exp", math.Exp)

	binary := func(name string, fn func(a, b float64) float64) {
		r.registerFn("math", name,
			[]TypeName{TNumber, TNumber}, TFloat,
			func(_ *Interp, _ Pos, args []Value) (Value, error) {
				return FloatVal(fn(numOf(args[0]), numOf(args[1]))), nil
			})
	}
	binary("pow", math.Pow)
	binary("min", math.Min)
	binary("max", math.Max)

	// dot(a: array, b: array) -> float
	r.registerFn("math", "dot",
		[]TypeName{TArray, TArray}, TFloat,
		func(_ *Interp, p Pos, args []Value) (Value, error) {
			a := args[0].Data.(*ArrayValue).Elems
			b := args[1].Data.(*ArrayValue).Elems
			if len(a) != len(b) {
				return Value{}, rtErr(p, "math.dot: vector lengths differ (%d vs %d)", len(a), len(b))
			}
			sum := 0.0
			for i := range a {
				x, err := numericAt(p, "math.dot", a[i])
				if err != nil {
					return Value{}, err
				}
				y, err := numericAt(p, "math.dot", b[i])
				if err != nil {
					return Value{}, err
				}
				sum += x * y
			}
			return FloatVal(sum), nil
		})

	// matmul(a: array, b: array) -> array — rows of a times columns of b.
	r.registerFn("math", "matmul",
		[]TypeName{TArray, TArray}, TArray,
		func(_ *Interp, p Pos, args []Value) (Value, error) {
			a, err := matrixOf(p, "math.matmul", args[0])
			if err != nil {
				return Value{}, err
			}
			b, err := matrixOf(p, "math.matmul", args[1])
			if err != nil {
				return Value{}, err
			}
			if len(a) == 0 || len(b) == 0 {
				return Value{}, rtErr(p, "math.matmul: empty matrix")
			}
			inner := len(a[0])
			if inner != len(b) {
				return Value{}, rtErr(p, "math.matmul: inner dimensions differ (%d vs %d)", inner, len(b))
			}
			cols := len(b[0])
			out := make([]Value, len(a))
			for i := range a {
				row := make([]Value, cols)
				for j := 0; j < cols; j++ {
					sum := 0.0
					for k := 0; k < inner; k++ {
						sum += a[i][k] * b[k][j]
					}
					row[j] = FloatVal(sum)
				}
				out[i] = ArrVal(row)
			}
			return ArrVal(out), nil
		})
}

func numericAt(p Pos, fn string, v Value) (float64, error) {
	if v.Tag != VInt && v.Tag != VFloat {
		return 0, typeErr(p, "%s: element must be a number, got %s", fn, typeOf(v))
	}
	return numOf(v), nil
}

// matrixOf converts an array-of-arrays value into a rectangular float
// matrix, rejecting ragged rows and non-numeric elements.
func matrixOf(p Pos, fn string, v Value) ([][]float64, error) {
	rows := v.Data.(*ArrayValue).Elems
	out := make([][]float64, len(rows))
	width := -1
	for i, rv := range rows {
		if rv.Tag != VArr {
			return nil, typeErr(p, "%s: row %d is %s, want array", fn, i, typeOf(rv))
		}
		elems := rv.Data.(*ArrayValue).Elems
		if width == -1 {
			width = len(elems)
		} else if len(elems) != width {
			return nil, rtErr(p, "%s: ragged matrix (row %d has %d columns, want %d)", fn, i, len(elems), width)
		}
		row := make([]float64, len(elems))
		for j, e := range elems {
			f, err := numericAt(p, fn, e)
			if err != nil {
				return nil, err
			}
			row[j] = f
		}
		out[i] = row
	}
	return out, nil
}
