package safety

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrTargetExists = errors.New("TARGET_EXISTS")
	ErrNameInvalid  = errors.New("NAME_INVALID")
)

const maxNameBytes = 255

var blockedPaths = []string{
	"/",
	"/boot",
	"/bin",
	"/sbin",
	"/lib",
	"/lib64",
	"/usr",
	"/etc",
	"/proc",
	"/sys",
	"/dev",
	"/run",
	"/var",
}

// ValidatePath checks that a file may be renamed in place. Files inside
// system directories are refused unless whitelisted.
func ValidatePath(path string, allowedRoots []string, whitelist []string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("PATH_INVALID: empty path")
	}
	if strings.ContainsRune(path, rune(0)) {
		return errors.New("PATH_INVALID: null byte")
	}
	for _, r := range path {
		if r < 32 {
			return errors.New("PATH_INVALID: control character")
		}
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("PATH_INVALID: %w", err)
	}
	dir := filepath.Dir(abs)

	if isBlocked(dir) && !isWhitelisted(abs, whitelist) {
		return fmt.Errorf("PATH_BLOCKED: %s", abs)
	}

	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		if isBlocked(resolved) && !isWhitelisted(filepath.Join(resolved, filepath.Base(abs)), whitelist) {
			return fmt.Errorf("SYMLINK_ESCAPE: %s", resolved)
		}
		if !inAllowedRoots(resolved, allowedRoots) {
			return fmt.Errorf("SYMLINK_ESCAPE: %s", resolved)
		}
	}

	if !inAllowedRoots(abs, allowedRoots) && !isWhitelisted(abs, whitelist) {
		return fmt.Errorf("PATH_BLOCKED: outside allowed roots %s", abs)
	}
	return nil
}

// ValidateName checks that name is a single path component usable as a new
// file name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrNameInvalid)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrNameInvalid, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: path separator in %q", ErrNameInvalid, name)
	case len(name) > maxNameBytes:
		return fmt.Errorf("%w: name longer than %d bytes", ErrNameInvalid, maxNameBytes)
	}
	for _, r := range name {
		if r < 32 {
			return fmt.Errorf("%w: control character in %q", ErrNameInvalid, name)
		}
	}
	return nil
}

// Move renames src to dst without ever replacing an existing dst.
func Move(src, dst string) error {
	if err := ValidateName(filepath.Base(dst)); err != nil {
		return err
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		_, err := os.Lstat(src)
		return err
	}
	return moveNoReplace(src, dst)
}

var lstat = os.Lstat

func moveChecked(src, dst string) error {
	if info, err := lstat(dst); err == nil {
		if !caseOnlyRename(src, dst, info) {
			return fmt.Errorf("%w: %s", ErrTargetExists, dst)
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.Rename(src, dst)
}

// caseOnlyRename reports whether dst differs from src only in letter case and
// resolves to src itself, as it does on case-insensitive filesystems.
func caseOnlyRename(src, dst string, dstInfo os.FileInfo) bool {
	if filepath.Dir(src) != filepath.Dir(dst) || !strings.EqualFold(filepath.Base(src), filepath.Base(dst)) {
		return false
	}
	srcInfo, err := lstat(src)
	return err == nil && os.SameFile(srcInfo, dstInfo)
}

func isBlocked(path string) bool {
	for _, p := range blockedPaths {
		if path == p || (p != "/" && strings.HasPrefix(path, p+"/")) {
			return true
		}
	}
	return false
}

func inAllowedRoots(path string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		if path == abs || strings.HasPrefix(path, abs+"/") {
			return true
		}
	}
	return false
}

func isWhitelisted(path string, whitelist []string) bool {
	for _, w := range whitelist {
		if path == w || strings.HasPrefix(path, w+"/") {
			return true
		}
		if ok, _ := filepath.Match(w, path); ok {
			return true
		}
	}
	return false
}
