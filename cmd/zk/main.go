// cmd/zk — the Zekken command-line front end.
//
// File mode: `zk program.zk` runs a file, printing the program's output to
// stdout and rendered diagnostics to stderr, and exits with the program's
// exit code (1 when diagnostics were produced).
//
// REPL mode: `zk` with no file starts a liner-backed interactive session
// with history and a persistent environment.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	zekken "github.com/zekken-lang/zekken"
)

const (
	historyFile = ".zekken_history"
	promptMain  = "zk> "
	promptCont  = "... "
)

func main() {
	// diagnostics stay plain when stdout is not a terminal or NO_COLOR is set
	if !isatty.IsTerminal(os.Stdout.Fd()) || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			usage()
			return
		case "-v", "--version", "version":
			fmt.Println("zekken " + zekken.Version)
			return
		}
		os.Exit(runFile(args[0]))
	}
	os.Exit(repl())
}

func usage() {
	fmt.Fprintf(os.Stderr, `zekken %s

Usage:
  zk <file.zk>   run a program
  zk             start the interactive shell
  zk version     print the version
`, zekken.Version)
}

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zk: %v\n", err)
		return 1
	}
	rt := zekken.NewRuntime(zekken.DefaultCaps())
	res := rt.RunFile(path)
	for _, line := range res.Output {
		fmt.Println(line)
	}
	if res.Failed() {
		fmt.Fprint(os.Stderr, zekken.Render(string(src), res.Diagnostics))
		if res.ExitCode == 0 {
			return 1
		}
	}
	return res.ExitCode
}

func repl() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("Zekken %s\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", zekken.Version)

	sess := zekken.NewSession(zekken.DefaultCaps())
	var buf []string
	for {
		prompt := promptMain
		if len(buf) > 0 {
			prompt = promptCont
		}
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			buf = nil
			continue
		}
		if err != nil { // io.EOF on Ctrl+D
			fmt.Println()
			return 0
		}
		if len(buf) == 0 && strings.TrimSpace(input) == ":quit" {
			return 0
		}
		buf = append(buf, input)
		src := strings.Join(buf, "\n")
		if openBraces(src) > 0 {
			continue // wait for the rest of the block
		}
		buf = nil
		if strings.TrimSpace(src) == "" {
			continue
		}
		line.AppendHistory(src)

		v, out, diags := sess.Eval(src)
		for _, l := range out {
			fmt.Println(l)
		}
		if sess.Exited {
			return sess.ExitCode
		}
		if len(diags) > 0 {
			fmt.Fprint(os.Stderr, zekken.Render(src, diags))
			continue
		}
		if v.Tag != zekken.VNull {
			fmt.Println(v.Display())
		}
	}
}

// openBraces counts unbalanced braces outside strings and comments, so the
// REPL keeps reading a multi-line block before evaluating it.
func openBraces(src string) int {
	depth := 0
	inStr := byte(0)
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr != 0 {
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			} else if i+1 < len(src) && src[i+1] == '*' {
				i += 2
				for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
					i++
				}
				i++ // land on the closing '/' (or past the end)
			}
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
