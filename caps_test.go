// caps_test.go
package zekken

import (
	"fmt"
	"sort"
	"strings"
)

// fakeFS is an in-memory FileSystem for tests: path -> contents.
type fakeFS struct {
	files map[string]string
	dirs  map[string]bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string]string{}, dirs: map[string]bool{}}
}

func (f *fakeFS) ReadFile(path string) (string, error) {
	text, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file %q", path)
	}
	return text, nil
}

func (f *fakeFS) WriteFile(path, text string) error {
	f.files[path] = text
	return nil
}

func (f *fakeFS) ReadDir(dir string) ([]string, error) {
	if !f.dirs[dir] {
		return nil, fmt.Errorf("no such directory %q", dir)
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	var names []string
	for p := range f.files {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
			names = append(names, p[len(prefix):])
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok || f.dirs[path]
}

func (f *fakeFS) MakeDir(path string) error {
	f.dirs[path] = true
	return nil
}

func (f *fakeFS) RemoveDir(path string) error {
	delete(f.dirs, path)
	return nil
}

func (f *fakeFS) RemoveFile(path string) error {
	if _, ok := f.files[path]; !ok {
		return fmt.Errorf("no such file %q", path)
	}
	delete(f.files, path)
	return nil
}

func (f *fakeFS) IsFile(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) IsDir(path string) bool { return f.dirs[path] }

// fakeHost is a Host with a fixed platform and an in-memory env table.
type fakeHost struct {
	env   map[string]string
	slept int64
}

func newFakeHost() *fakeHost { return &fakeHost{env: map[string]string{}} }

func (h *fakeHost) Workdir() (string, error) { return "/work", nil }
func (h *fakeHost) Platform() string         { return "testos" }
func (h *fakeHost) Getenv(name string) string {
	return h.env[name]
}
func (h *fakeHost) Setenv(name, value string) error {
	h.env[name] = value
	return nil
}
func (h *fakeHost) Unsetenv(name string) error {
	delete(h.env, name)
	return nil
}
func (h *fakeHost) Pid() int       { return 4242 }
func (h *fakeHost) Sleep(ms int64) { h.slept += ms }

func testCaps() Caps {
	return Caps{FS: newFakeFS(), OS: newFakeHost(), Stdin: strings.NewReader("")}
}
