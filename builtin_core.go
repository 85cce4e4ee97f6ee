// builtin_core.go — standalone "@"-prefixed builtins.
package zekken

import "bufio"

func registerCoreBuiltins(r *Registry) {
	// @println(value: any) -> null
	r.registerBuiltin("println",
		[]TypeName{TAny}, TNull,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			in.println(args[0].Display())
			return Null, nil
		})

	// @print(value: any) -> null — appends to the current output line.
	r.registerBuiltin("print",
		[]TypeName{TAny}, TNull,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			in.print(args[0].Display())
			return Null, nil
		})

	// @input(prompt: string) -> string — one line from the host's stdin,
	// without the trailing newline.
	r.registerBuiltin("input",
		[]TypeName{TString}, TString,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			in.print(args[0].Data.(string))
			if in.reg.caps.Stdin == nil {
				return Value{}, rtErr(p, "no input source available")
			}
			if in.stdin == nil {
				in.stdin = bufio.NewReader(in.reg.caps.Stdin)
			}
			line, err := in.stdin.ReadString('\n')
			if err != nil && line == "" {
				return Value{}, rtErr(p, "input failed: %v", err)
			}
			for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
				line = line[:len(line)-1]
			}
			return StrVal(line), nil
		})

	// @typeof(value: any) -> string
	r.registerBuiltin("typeof",
		[]TypeName{TAny}, TString,
		func(_ *Interp, _ Pos, args []Value) (Value, error) {
			return StrVal(typeOf(args[0]).String()), nil
		})

	// @len(value: any) -> int — string bytes, array elements, or object keys.
	r.registerBuiltin("len",
		[]TypeName{TAny}, TInt,
		func(_ *Interp, p Pos, args []Value) (Value, error) {
			switch args[0].Tag {
			case VStr:
				return IntVal(int64(len(args[0].Data.(string)))), nil
			case VArr:
				return IntVal(int64(len(args[0].Data.(*ArrayValue).Elems))), nil
			case VObj:
				return IntVal(int64(len(args[0].Data.(*ObjectValue).Keys))), nil
			default:
				return Value{}, typeErr(p, "@len expects string, array or object, got %s", typeOf(args[0]))
			}
		})
}
