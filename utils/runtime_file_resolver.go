package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ReplaceExtension swaps the extension of file for newExt. An empty
// newExt strips the extension. Files without an extension are returned
// unchanged.
func ReplaceExtension(file, newExt string) string {
	ext := filepath.Ext(file)
	if len(ext) == 0 {
		return file
	}
	return strings.TrimSuffix(file, ext) + newExt
}

// FindPairedFile probes the siblings of file obtained by replacing its
// extension with each candidate in turn. The first existing regular file
// wins.
func FindPairedFile(file string, extensions []string) (string, error) {
	for _, ext := range extensions {
		candidate := ReplaceExtension(file, ext)
		if candidate == file {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("Failed to locate corresponding data file for %s, looked for: %v", file, extensions)
}

// RuntimeFileResolver finds templates and other runtime assets under
// an ordered list of directories. Resolved names are cached.
type RuntimeFileResolver struct {
	Dirs  []string
	cache sync.Map
}

// NewRuntimeFileResolver builds a resolver from a colon separated search
// path. The working directory and the directory of the executable are
// always searched last.
func NewRuntimeFileResolver(searchPath string) *RuntimeFileResolver {
	r := &RuntimeFileResolver{}
	for _, dir := range filepath.SplitList(searchPath) {
		if dir = strings.TrimSpace(dir); len(dir) > 0 {
			r.Dirs = append(r.Dirs, dir)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		r.Dirs = append(r.Dirs, cwd)
	} else {
		log.Printf("Failed to get CWD: %v", err)
	}
	r.Dirs = append(r.Dirs, filepath.Dir(os.Args[0]))
	return r
}

// Resolve returns the first existing file named name. Absolute names
// are only checked for existence.
func (r *RuntimeFileResolver) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, existingFile(name)
	}

	for _, dir := range r.Dirs {
		candidate := filepath.Join(dir, name)
		if existingFile(candidate) == nil {
			return candidate, nil
		}
	}
	return name, fmt.Errorf("Failed to resolve %s in %v", name, r.Dirs)
}

// Lookup is Resolve with the result remembered for later calls.
func (r *RuntimeFileResolver) Lookup(name string) (string, error) {
	if found, ok := r.cache.Load(name); ok {
		return found.(string), nil
	}

	resolved, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	r.cache.Store(name, resolved)
	return resolved, nil
}

func existingFile(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", name)
	}
	return nil
}
