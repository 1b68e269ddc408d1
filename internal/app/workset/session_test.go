package workset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"renamer/internal/app/transaction"
	"renamer/internal/domain/model"
	"renamer/internal/domain/rules"
)

func mustRules(t *testing.T, specs ...string) []model.NamingRule {
	t.Helper()
	rs, err := rules.ParseAll(specs)
	if err != nil {
		t.Fatal(err)
	}
	return rs
}

func writeFiles(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return dir, paths
}

func TestPreviewAssignsSequenceByPosition(t *testing.T) {
	_, paths := writeFiles(t, "x.jpg", "y.jpg", "z.jpg")
	s := New(nil, mustRules(t, "const:IMG_", "num:start=1,len=3", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	s.InsertDummy(1)

	rep, err := s.Preview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Named != 3 || rep.Errors != 0 {
		t.Fatalf("unexpected preview report %+v", rep)
	}
	want := []string{"IMG_001.jpg", "", "IMG_003.jpg", "IMG_004.jpg"}
	for i, w := range want {
		if got := s.Entries[i].CandidateName; got != w {
			t.Fatalf("entry %d: got %q want %q", i, got, w)
		}
	}
	if ResultOf(s.Entries[1]) != "placeholder" {
		t.Fatalf("expected placeholder row")
	}
}

func TestPreviewFlagsExhaustedEntries(t *testing.T) {
	_, paths := writeFiles(t, "a.txt", "b.txt", "c.txt")
	s := New(nil, mustRules(t, "num:start=1,end=2", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}

	rep, err := s.Preview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Named != 2 || rep.Exhausted != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	last := s.Entries[2]
	if last.CandidateName != "" || !last.Exhausted || ResultOf(last) != "exhausted" {
		t.Fatalf("expected last entry exhausted, got %+v", last)
	}
}

func TestPreviewContinuesAfterPerFileFailure(t *testing.T) {
	_, paths := writeFiles(t, "a.txt", "b.txt")
	s := New(nil, mustRules(t, "name", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}

	old := synthesize
	synthesize = func(ctx context.Context, rs []model.NamingRule, e *model.FileRenameEntry, i int) (string, error) {
		if i == 0 {
			return "", rules.ErrIO
		}
		return old(ctx, rs, e, i)
	}
	t.Cleanup(func() { synthesize = old })

	rep, err := s.Preview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Errors != 1 || rep.Named != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if s.Entries[0].Error == "" || s.Entries[1].CandidateName != "b.txt" {
		t.Fatalf("unexpected entries %+v %+v", s.Entries[0], s.Entries[1])
	}
}

func TestPreviewRejectsInvalidNames(t *testing.T) {
	_, paths := writeFiles(t, "a.txt")
	s := New(nil, mustRules(t, "const:sub/dir", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	rep, err := s.Preview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Errors != 1 || s.Entries[0].CandidateName != "" {
		t.Fatalf("expected name with separator to be rejected, got %+v", s.Entries[0])
	}
}

func TestPreviewReportsConflicts(t *testing.T) {
	_, paths := writeFiles(t, "a.txt", "b.txt")
	s := New(nil, mustRules(t, "const:same", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	rep, err := s.Preview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Conflicts != 1 {
		t.Fatalf("expected one conflict, got %+v", rep)
	}
}

func TestApplyAndRollbackRoundTrip(t *testing.T) {
	dir, paths := writeFiles(t, "a.txt", "b.txt")
	s := New(transaction.NewEngine(), mustRules(t, "const:new-", "num", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Preview(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.CanApply() || s.CanRollback() {
		t.Fatalf("expected apply available before rename")
	}

	rep, err := s.Apply(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Outcome != model.OutcomeSuccess || s.Renamed() != 2 {
		t.Fatalf("unexpected apply report %+v", rep)
	}
	for _, n := range []string{"new-1.txt", "new-2.txt"} {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Fatalf("expected %s: %v", n, err)
		}
	}

	if _, err := s.Preview(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Entries[0].CandidateName != "new-1.txt" {
		t.Fatalf("renamed entries must keep their candidate name")
	}

	rep, err = s.Rollback(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Outcome != model.OutcomeSuccess || s.Renamed() != 0 {
		t.Fatalf("unexpected rollback report %+v", rep)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected original %s restored: %v", p, err)
		}
	}
}

func TestAddPathsKeepsValidFiles(t *testing.T) {
	dir, paths := writeFiles(t, "a.txt")
	s := New(nil, nil, nil)

	err := s.AddPaths(append(paths, filepath.Join(dir, "missing.txt"), "/etc/hostname"))
	if err == nil {
		t.Fatal("expected joined error for rejected paths")
	}
	if len(s.Entries) != 1 {
		t.Fatalf("expected valid file to be added, got %d entries", len(s.Entries))
	}
}

func TestEntryListEditing(t *testing.T) {
	_, paths := writeFiles(t, "a.txt", "b.txt")
	s := New(nil, nil, nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}

	s.InsertDummy(-5)
	if !s.Entries[0].Dummy {
		t.Fatalf("expected placeholder at the front")
	}
	s.InsertDummy(99)
	if !s.Entries[len(s.Entries)-1].Dummy || len(s.Entries) != 4 {
		t.Fatalf("expected placeholder at the end")
	}
	if err := s.Toggle(1); err != nil || s.Entries[1].Selected {
		t.Fatalf("expected toggle to deselect")
	}
	if err := s.Remove(0); err != nil || len(s.Entries) != 3 {
		t.Fatalf("expected removal")
	}
	if err := s.Remove(10); err == nil {
		t.Fatalf("expected out of range error")
	}
	if err := s.Toggle(-1); err == nil {
		t.Fatalf("expected out of range error")
	}
	s.Clear()
	if len(s.Entries) != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestPreviewHonorsCancellation(t *testing.T) {
	_, paths := writeFiles(t, "a.txt")
	s := New(nil, mustRules(t, "name"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Preview(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestSummaryAndItems(t *testing.T) {
	_, paths := writeFiles(t, "a.txt", "b.txt")
	s := New(nil, mustRules(t, "name", "const:_x", "ext"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	s.InsertDummy(2)
	if err := s.Toggle(1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Preview(context.Background()); err != nil {
		t.Fatal(err)
	}

	sum := s.Summary()
	if sum.ItemsTotal != 3 || sum.ItemsSelected != 1 || sum.ItemsNamed != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	items := s.Items()
	if items[0].CandidateName != "a_x.txt" || items[0].Result != "planned" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Result != "skipped" || items[2].Result != "placeholder" {
		t.Fatalf("unexpected results %s %s", items[1].Result, items[2].Result)
	}
}

func TestRemoveAndClearKeepRenamedEntries(t *testing.T) {
	dir, paths := writeFiles(t, "a.txt", "c.txt")
	s := New(transaction.NewEngine(), mustRules(t, "const:b", "ext"), nil)
	if err := s.AddPaths(paths[:1]); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Preview(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Apply(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.AddPaths(paths[1:]); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(0); !errors.Is(err, ErrEntryRenamed) {
		t.Fatalf("expected renamed entry to be kept, got %v", err)
	}
	s.Clear()
	if len(s.Entries) != 1 || !s.Entries[0].Renamed {
		t.Fatalf("expected only the renamed entry to survive Clear, got %d entries", len(s.Entries))
	}
	if j, ok := s.Journal(); !ok || len(j.Entries) != 1 {
		t.Fatalf("renamed entry must stay in the journal")
	}

	if _, err := s.Rollback(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("expected a.txt restored: %v", err)
	}
	if err := s.Remove(0); err != nil {
		t.Fatalf("restored entry should be removable: %v", err)
	}
}

func TestPreviewStopsWhenCancelledMidEntry(t *testing.T) {
	_, paths := writeFiles(t, "a.txt", "b.txt")
	s := New(nil, mustRules(t, "name"), nil)
	if err := s.AddPaths(paths); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	old := synthesize
	synthesize = func(ctx context.Context, _ []model.NamingRule, _ *model.FileRenameEntry, _ int) (string, error) {
		cancel()
		return "", ctx.Err()
	}
	t.Cleanup(func() { synthesize = old })

	if _, err := s.Preview(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if s.Entries[0].Error != "" {
		t.Fatalf("cancellation must not be recorded as a file error")
	}
}
