// caps.go — host capability interfaces.
//
// Caps is the explicit configuration object handed to NewRegistry: it owns
// the filesystem, OS, and stdin collaborators the native modules reach
// through. Tests substitute fakes; production code uses DefaultCaps.
package zekken

import (
	"io"
	"os"
	"runtime"
	"time"
)

// FileSystem is the capability surface behind the `fs` module and behind
// include resolution.
type FileSystem interface {
	ReadFile(path string) (string, error)
	WriteFile(path, text string) error
	ReadDir(dir string) ([]string, error)
	Exists(path string) bool
	MakeDir(path string) error
	RemoveDir(path string) error
	RemoveFile(path string) error
	IsFile(path string) bool
	IsDir(path string) bool
}

// Host is the capability surface behind the `os` module.
type Host interface {
	Workdir() (string, error)
	Platform() string
	Getenv(name string) string
	Setenv(name, value string) error
	Unsetenv(name string) error
	Pid() int
	Sleep(ms int64)
}

// Caps bundles the host collaborators for one runtime.
type Caps struct {
	FS    FileSystem
	OS    Host
	Stdin io.Reader
}

// DefaultCaps returns capabilities backed by the real operating system.
func DefaultCaps() Caps {
	return Caps{FS: osFS{}, OS: osHost{}, Stdin: os.Stdin}
}

type osFS struct{}

func (osFS) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (osFS) WriteFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

func (osFS) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) MakeDir(path string) error   { return os.MkdirAll(path, 0o755) }
func (osFS) RemoveDir(path string) error { return os.RemoveAll(path) }

func (osFS) RemoveFile(path string) error { return os.Remove(path) }

func (osFS) IsFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (osFS) IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

type osHost struct{}

func (osHost) Workdir() (string, error)       { return os.Getwd() }
func (osHost) Platform() string               { return runtime.GOOS }
func (osHost) Getenv(name string) string      { return os.Getenv(name) }
func (osHost) Setenv(name, val string) error  { return os.Setenv(name, val) }
func (osHost) Unsetenv(name string) error     { return os.Unsetenv(name) }
func (osHost) Pid() int                       { return os.Getpid() }
func (osHost) Sleep(ms int64)                 { time.Sleep(time.Duration(ms) * time.Millisecond) }
