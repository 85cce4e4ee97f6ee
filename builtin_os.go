// builtin_os.go — the `os` native module.
//
// Backed by the Host capability from Caps. exit raises an exitSignal, which
// rides the error path past every try/catch straight to the top-level
// runner; programs cannot intercept it.
package zekken

func registerOsModule(r *Registry) {
	// cwd() -> string
	r.registerFn("os", "cwd",
		nil, TString,
		func(in *Interp, p Pos, _ []Value) (Value, error) {
			dir, err := in.reg.caps.OS.Workdir()
			if err != nil {
				return Value{}, rtErr(p, "os.cwd: %v", err)
			}
			return StrVal(dir), nil
		})

	// platform() -> string
	r.registerFn("os", "platform",
		nil, TString,
		func(in *Interp, _ Pos, _ []Value) (Value, error) {
			return StrVal(in.reg.caps.OS.Platform()), nil
		})

	// getEnv(name: string) -> string — empty string when unset
	r.registerFn("os", "getEnv",
		[]TypeName{TString}, TString,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			return StrVal(in.reg.caps.OS.Getenv(args[0].Data.(string))), nil
		})

	// setEnv(name: string, value: string) -> null
	r.registerFn("os", "setEnv",
		[]TypeName{TString, TString}, TNull,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			if err := in.reg.caps.OS.Setenv(args[0].Data.(string), args[1].Data.(string)); err != nil {
				return Value{}, rtErr(p, "os.setEnv: %v", err)
			}
			return Null, nil
		})

	// removeEnv(name: string) -> null
	r.registerFn("os", "removeEnv",
		[]TypeName{TString}, TNull,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			if err := in.reg.caps.OS.Unsetenv(args[0].Data.(string)); err != nil {
				return Value{}, rtErr(p, "os.removeEnv: %v", err)
			}
			return Null, nil
		})

	// pid() -> int
	r.registerFn("os", "pid",
		nil, TInt,
		func(in *Interp, _ Pos, _ []Value) (Value, error) {
			return IntVal(int64(in.reg.caps.OS.Pid())), nil
		})

	// sleep(ms: int) -> null
	r.registerFn("os", "sleep",
		[]TypeName{TInt}, TNull,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			in.reg.caps.OS.Sleep(args[0].Data.(int64))
			return Null, nil
		})

	// exit(code: int) -> never returns
	r.registerFn("os", "exit",
		[]TypeName{TInt}, TNull,
		func(_ *Interp, _ Pos, args []Value) (Value, error) {
			return Value{}, &exitSignal{Code: int(args[0].Data.(int64))}
		})
}
