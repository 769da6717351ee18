// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// Project is a temporary jsbundle project tree.
type Project struct {
	Root       string
	EntryPoint string
}

// NewProject creates an empty project under t.TempDir(). An empty entryPoint
// selects "scripts".
func NewProject(t testing.TB, entryPoint string) *Project {
	t.Helper()
	if entryPoint == "" {
		entryPoint = "scripts"
	}
	root := t.TempDir()
	MustMkdirAll(t, filepath.Join(root, entryPoint), 0o755)
	return &Project{Root: root, EntryPoint: entryPoint}
}

// WriteFiles writes every name -> content pair relative to root.
func WriteFiles(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
}

// Sources creates an empty <module>.js file under the entry point for each
// module name and returns their absolute paths in the same order.
func (p *Project) Sources(t testing.TB, modules ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(modules))
	for _, m := range modules {
		path := p.Source(m)
		MustWriteFile(t, path, "// "+m+"\n")
		paths = append(paths, path)
	}
	return paths
}

// Source returns the absolute path of a module's source file.
func (p *Project) Source(module string) string {
	return filepath.Join(p.Root, p.EntryPoint, filepath.FromSlash(module)+".js")
}

// Document writes a config document relative to the project root and returns
// its absolute path.
func (p *Project) Document(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(p.Root, filepath.FromSlash(name))
	MustWriteFile(t, path, content)
	return path
}
