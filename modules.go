// modules.go — `include` resolution: loading other .zk source files.
//
// An included file is parsed and evaluated in its own isolated root
// environment; only the names it marks with `export` become visible to the
// includer. Paths resolve relative to the including file's directory first,
// then the working directory, and a missing ".zk" extension is appended.
// A per-load stack detects cyclic inclusion and fails with a RuntimeError
// spelling out the chain instead of recursing until the stack blows.
package zekken

import (
	"path/filepath"
	"strings"
)

const sourceExt = ".zk"

func (in *Interp) execInclude(st *Include, env *Env) error {
	path, err := in.resolveIncludePath(st)
	if err != nil {
		return err
	}

	for _, loading := range in.loading {
		if loading == path {
			chain := append(append([]string{}, in.loading...), path)
			return rtErr(st.Pos, "cyclic include: %s", strings.Join(chain, " -> "))
		}
	}

	src, rerr := in.reg.caps.FS.ReadFile(path)
	if rerr != nil {
		return rtErr(st.Pos, "cannot read include %q: %v", path, rerr)
	}

	toks, lerr := NewLexer(src).Scan()
	if lerr != nil {
		return rtErr(st.Pos, "include %q: %v", path, lerr)
	}
	prog, serrs := NewParser(toks).Parse()
	if len(serrs) > 0 {
		return rtErr(st.Pos, "include %q has %d syntax error(s); first: %v", path, len(serrs), serrs[0])
	}

	// evaluate in isolation, with this file as the new include anchor
	savedExports, savedDir := in.exports, in.curDir
	in.exports = map[string]bool{}
	in.curDir = filepath.Dir(path)
	in.loading = append(in.loading, path)

	root := NewEnv(nil)
	_, perr := in.ExecProgram(prog, root)

	exported := in.exports
	in.exports, in.curDir = savedExports, savedDir
	in.loading = in.loading[:len(in.loading)-1]

	if perr != nil {
		if ee, ok := perr.(*EvalError); ok {
			return rtErr(st.Pos, "include %q: %v", path, ee)
		}
		return perr // exit signal passes through untouched
	}

	// snapshot the export surface into the includer's scope
	if st.Names == nil {
		for name := range exported {
			v, ok := root.Get(name)
			if !ok {
				continue
			}
			env.Define(name, v, false, TAny)
		}
		return nil
	}
	for _, name := range st.Names {
		if !exported[name] {
			return refErr(st.Pos, "'%s' is not exported by %q", name, path)
		}
		v, ok := root.Get(name)
		if !ok {
			return refErr(st.Pos, "'%s' is not exported by %q", name, path)
		}
		env.Define(name, v, false, TAny)
	}
	return nil
}

// resolveIncludePath turns the written path into the path handed to the
// filesystem capability: extension appended when missing, then tried
// against the including file's directory before the working directory.
func (in *Interp) resolveIncludePath(st *Include) (string, error) {
	path := st.Path
	if filepath.Ext(path) == "" {
		path += sourceExt
	}
	if filepath.IsAbs(path) || in.curDir == "" {
		return path, nil
	}
	local := filepath.Join(in.curDir, path)
	if in.reg.caps.FS.Exists(local) {
		return local, nil
	}
	return path, nil
}
