package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePathRejectsBlockedPath(t *testing.T) {
	if err := ValidatePath("/etc/hosts", nil, nil); err == nil {
		t.Fatal("expected blocked path error")
	}
	if err := ValidatePath("/etc", nil, nil); err == nil {
		t.Fatal("expected blocked path error for top-level directory")
	}
}

func TestValidatePathAllowsPathWithinRoot(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "photo.jpg")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidatePath(p, []string{root}, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidatePathRejectsOutsideAllowedRoot(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(t.TempDir(), "a.txt")

	if err := ValidatePath(other, []string{root}, nil); err == nil {
		t.Fatal("expected outside root error")
	}
}

func TestValidatePathRejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatal(err)
	}

	if err := ValidatePath(filepath.Join(link, "a.txt"), []string{root}, nil); err == nil {
		t.Fatal("expected symlink escape error")
	}
}

func TestValidatePathAllowsWhitelistedGlob(t *testing.T) {
	if err := ValidatePath("/etc/renamer/a.conf", nil, []string{"/etc/renamer/*"}); err != nil {
		t.Fatalf("expected glob-whitelisted path to pass, got %v", err)
	}
	if err := ValidatePath("/etc/other/a.conf", nil, []string{"/etc/renamer/*"}); err == nil {
		t.Fatal("expected non-matching path to stay blocked")
	}
}

func TestValidatePathRejectsControlCharacters(t *testing.T) {
	for _, p := range []string{"", "   ", "/tmp/a\x00b", "/tmp/a\nb"} {
		if err := ValidatePath(p, nil, nil); err == nil {
			t.Fatalf("expected %q to be rejected", p)
		}
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: "IMG_001.jpg", ok: true},
		{name: ".hidden", ok: true},
		{name: "", ok: false},
		{name: ".", ok: false},
		{name: "..", ok: false},
		{name: "a/b.txt", ok: false},
		{name: "tab\tname", ok: false},
		{name: strings.Repeat("x", 256), ok: false},
	}
	for _, tc := range tests {
		err := ValidateName(tc.name)
		if tc.ok && err != nil {
			t.Fatalf("expected %q to be valid: %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrNameInvalid) {
			t.Fatalf("expected %q to be rejected, got %v", tc.name, err)
		}
	}
}

func TestMoveRenamesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Move(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source to be gone, got %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "a" {
		t.Fatalf("expected moved content, got %q, %v", b, err)
	}
}

func TestMoveNeverReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Move(src, dst)
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected target exists error, got %v", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "b" {
		t.Fatalf("target must be untouched, got %q", b)
	}
}

func TestMoveFallbackChecksTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := moveChecked(src, dst); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected target exists error, got %v", err)
	}
}

func TestMoveCheckedAllowsCaseOnlyRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "A.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Case-insensitive filesystem: the new spelling resolves to the file itself.
	old := lstat
	lstat = func(name string) (os.FileInfo, error) {
		if name == dst {
			return os.Lstat(src)
		}
		return os.Lstat(name)
	}
	t.Cleanup(func() { lstat = old })

	if err := moveChecked(src, dst); err != nil {
		t.Fatalf("expected case-only rename to succeed, got %v", err)
	}
	if b, err := os.ReadFile(dst); err != nil || string(b) != "a" {
		t.Fatalf("expected file under new spelling, got %q, %v", b, err)
	}
}

func TestMoveCheckedRefusesOtherNamesForSameFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	link := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Link(src, link); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}
	if err := moveChecked(src, link); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected hard link target to be refused, got %v", err)
	}

	upper := filepath.Join(dir, "A.txt")
	if err := os.WriteFile(upper, []byte("other"), 0o644); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(src); string(b) == "other" {
		t.Skip("case-insensitive filesystem")
	}
	if err := moveChecked(src, upper); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected distinct file differing in case to be refused, got %v", err)
	}
}

func TestMoveSamePathIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Move(src, src); err != nil {
		t.Fatalf("expected same-path move to succeed, got %v", err)
	}
	if err := Move(filepath.Join(dir, "gone.txt"), filepath.Join(dir, "gone.txt")); err == nil {
		t.Fatal("expected missing source to fail")
	}
}

func TestMoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := Move(filepath.Join(dir, "missing"), filepath.Join(dir, "x")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
