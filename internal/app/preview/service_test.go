package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"renamer/internal/app/common"
	"renamer/internal/domain/rules"
	"renamer/internal/infra/logging"
)

func TestRunDoesNotTouchFiles(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.jpg", "a.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	rs, err := rules.ParseAll([]string{"const:photo-", "num:len=2", "ext"})
	if err != nil {
		t.Fatal(err)
	}

	app := &common.AppContext{Logger: logging.NewNoopLogger()}
	res, err := NewService().Run(context.Background(), app, Options{Paths: []string{dir}, Rules: rs})
	if err != nil {
		t.Fatal(err)
	}

	if res.Command != "preview" || !res.DryRun || res.Summary.ItemsNamed != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Items[0].OriginalName != "a.jpg" || res.Items[0].CandidateName != "photo-01.jpg" {
		t.Fatalf("unexpected first item %+v", res.Items[0])
	}
	if res.Items[1].CandidateName != "photo-02.jpg" {
		t.Fatalf("unexpected second item %+v", res.Items[1])
	}
	for _, n := range []string{"a.jpg", "b.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Fatalf("preview must not rename %s: %v", n, err)
		}
	}
}

func TestRunRequiresRules(t *testing.T) {
	app := &common.AppContext{Logger: logging.NewNoopLogger()}
	if _, err := NewService().Run(context.Background(), app, Options{Paths: []string{t.TempDir()}}); err == nil {
		t.Fatal("expected error without rules")
	}
}

func TestRunCountsSkippedInputs(t *testing.T) {
	rs, err := rules.ParseAll([]string{"name"})
	if err != nil {
		t.Fatal(err)
	}
	app := &common.AppContext{Logger: logging.NewNoopLogger()}
	res, err := NewService().Run(context.Background(), app, Options{Paths: []string{filepath.Join(t.TempDir(), "missing")}, Rules: rs})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Errors != 1 || res.Summary.ItemsTotal != 0 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
}
