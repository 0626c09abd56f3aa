// Package discover finds JSON-with-comments files in a project tree.
package discover

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrUnknownFormat indicates a file that is not a recognised JSONC file.
	ErrUnknownFormat = errors.New("unknown jsonc file format")
	// ErrNotDirectory is returned when FindFiles is given a file path.
	ErrNotDirectory = errors.New("path is not a directory")
)

// Kind identifies the tool a JSONC file belongs to.
type Kind string

const (
	KindJSONC        Kind = "jsonc"
	KindTSConfig     Kind = "tsconfig"
	KindJSConfig     Kind = "jsconfig"
	KindVSCode       Kind = "vscode"
	KindDevcontainer Kind = "devcontainer"
	KindESLint       Kind = "eslint"
	KindBabel        Kind = "babel"
	KindBun          Kind = "bun"
	KindDeno         Kind = "deno"
)

// configDirs are dot-directories that hold commented JSON and are not skipped.
var configDirs = []string{".vscode", ".devcontainer"}

// Detect classifies a file by its name.
func Detect(path string) (Kind, error) {
	name := filepath.Base(path)
	parent := filepath.Base(filepath.Dir(path))

	switch {
	case name == "deno.json" || name == "deno.jsonc":
		return KindDeno, nil
	case name == "bun.lock":
		return KindBun, nil
	case name == "tsconfig.json" || (strings.HasPrefix(name, "tsconfig.") && strings.HasSuffix(name, ".json")):
		return KindTSConfig, nil
	case name == "jsconfig.json":
		return KindJSConfig, nil
	case name == "devcontainer.json" || name == ".devcontainer.json":
		return KindDevcontainer, nil
	case name == ".eslintrc.json":
		return KindESLint, nil
	case name == ".babelrc" || name == "babel.config.json":
		return KindBabel, nil
	case parent == ".vscode" && strings.HasSuffix(name, ".json"), strings.HasSuffix(name, ".code-workspace"):
		return KindVSCode, nil
	case strings.HasSuffix(name, ".jsonc"):
		return KindJSONC, nil
	default:
		return "", ErrUnknownFormat
	}
}

// shouldSkipDir determines if a directory should be skipped during the walk.
func shouldSkipDir(name, path, rootDir string, recursive bool, exclude []string) bool {
	if path == rootDir {
		return false
	}
	if name == "node_modules" || slices.Contains(exclude, name) {
		return true
	}
	if slices.Contains(configDirs, name) {
		// Config dirs directly under the root are always visited.
		return !recursive && filepath.Dir(path) != rootDir
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return !recursive
}

// FindFiles searches a directory for JSONC files.
// If recursive is true, it searches subdirectories as well. Directory names
// in exclude are skipped in addition to node_modules and dot-directories.
func FindFiles(dir string, recursive bool, exclude []string) ([]string, error) {
	// Validate the directory exists first
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	root := filepath.Clean(dir)
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip inaccessible paths within the directory
		}

		if info.IsDir() {
			if shouldSkipDir(info.Name(), path, root, recursive, exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if _, err := Detect(path); err == nil {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.Walk(root, walkFn); err != nil {
		return nil, err
	}

	return files, nil
}
