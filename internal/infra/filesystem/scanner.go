package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Options struct {
	Recursive bool
	Excludes  []string
}

// Enumerate flattens a mix of file and directory paths into absolute file
// paths. Directories contribute their immediate files, or all nested files
// when Recursive is set. Unreadable entries are skipped; the returned error
// joins what was skipped and never invalidates the returned paths. The same
// file reached twice is listed once.
func Enumerate(paths []string, opts Options) ([]string, error) {
	var (
		out  = make([]string, 0, len(paths))
		errs []error
		seen = make(map[fileID]struct{})
	)

	add := func(path string, info os.FileInfo) {
		id := identityOf(path, info)
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, path)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if shouldSkip(abs, opts.Excludes) {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				add(abs, info)
			}
			continue
		}
		if opts.Recursive {
			errs = append(errs, walkTree(abs, opts.Excludes, add)...)
			continue
		}
		errs = append(errs, listDir(abs, opts.Excludes, add)...)
	}

	return out, errors.Join(errs...)
}

func listDir(dir string, excludes []string, add func(string, os.FileInfo)) []error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []error{fmt.Errorf("skip %s: %w", dir, err)}
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if shouldSkip(path, excludes) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("skip %s: %w", path, err))
			continue
		}
		if info.Mode().IsRegular() {
			add(path, info)
		}
	}
	return errs
}

func walkTree(root string, excludes []string, add func(string, os.FileInfo)) []error {
	var errs []error
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			errs = append(errs, fmt.Errorf("skip %s: %w", path, walkErr))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldSkip(path, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("skip %s: %w", path, err))
			return nil
		}
		if info.Mode().IsRegular() {
			add(path, info)
		}
		return nil
	})
	return errs
}

// fileID keys a file for dedup. Hard links and the same file reached through
// two arguments share a device/inode pair; without one the path is used.
type fileID struct {
	dev, ino uint64
	path     string
}

func shouldSkip(path string, excludes []string) bool {
	for _, ex := range excludes {
		if ex == "" {
			continue
		}
		if path == ex || strings.HasPrefix(path, ex+"/") {
			return true
		}
	}
	return false
}
