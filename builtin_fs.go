// builtin_fs.go — the `fs` native module.
//
// Every function goes through the FileSystem capability from Caps, never
// the os package directly, so tests can substitute an in-memory fake.
// Host failures surface as RuntimeError.
package zekken

func registerFsModule(r *Registry) {
	// read(path: string) -> string
	r.registerFn("fs", "read",
		[]TypeName{TString}, TString,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			text, err := in.reg.caps.FS.ReadFile(args[0].Data.(string))
			if err != nil {
				return Value{}, rtErr(p, "fs.read: %v", err)
			}
			return StrVal(text), nil
		})

	// write(path: string, text: string) -> null
	r.registerFn("fs", "write",
		[]TypeName{TString, TString}, TNull,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			if err := in.reg.caps.FS.WriteFile(args[0].Data.(string), args[1].Data.(string)); err != nil {
				return Value{}, rtErr(p, "fs.write: %v", err)
			}
			return Null, nil
		})

	// list(dir: string) -> array of names, in directory order
	r.registerFn("fs", "list",
		[]TypeName{TString}, TArray,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			names, err := in.reg.caps.FS.ReadDir(args[0].Data.(string))
			if err != nil {
				return Value{}, rtErr(p, "fs.list: %v", err)
			}
			elems := make([]Value, len(names))
			for i, n := range names {
				elems[i] = StrVal(n)
			}
			return ArrVal(elems), nil
		})

	// exists(path: string) -> bool
	r.registerFn("fs", "exists",
		[]TypeName{TString}, TBool,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			return BoolVal(in.reg.caps.FS.Exists(args[0].Data.(string))), nil
		})

	// createDir(path: string) -> null
	r.registerFn("fs", "createDir",
		[]TypeName{TString}, TNull,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			if err := in.reg.caps.FS.MakeDir(args[0].Data.(string)); err != nil {
				return Value{}, rtErr(p, "fs.createDir: %v", err)
			}
			return Null, nil
		})

	// removeDir(path: string) -> null
	r.registerFn("fs", "removeDir",
		[]TypeName{TString}, TNull,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			if err := in.reg.caps.FS.RemoveDir(args[0].Data.(string)); err != nil {
				return Value{}, rtErr(p, "fs.removeDir: %v", err)
			}
			return Null, nil
		})

	// removeFile(path: string) -> null
	r.registerFn("fs", "removeFile",
		[]TypeName{TString}, TNull,
		func(in *Interp, p Pos, args []Value) (Value, error) {
			if err := in.reg.caps.FS.RemoveFile(args[0].Data.(string)); err != nil {
				return Value{}, rtErr(p, "fs.removeFile: %v", err)
			}
			return Null, nil
		})

	// isFile(path: string) -> bool
	r.registerFn("fs", "isFile",
		[]TypeName{TString}, TBool,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			return BoolVal(in.reg.caps.FS.IsFile(args[0].Data.(string))), nil
		})

	// isDir(path: string) -> bool
	r.registerFn("fs", "isDir",
		[]TypeName{TString}, TBool,
		func(in *Interp, _ Pos, args []Value) (Value, error) {
			return BoolVal(in.reg.caps.FS.IsDir(args[0].Data.(string))), nil
		})
}
