// Package workset holds the ordered list of files under rename together with
// the naming rules applied to them. A Session is driven by one controller at
// a time.
package workset

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"renamer/internal/app/transaction"
	"renamer/internal/domain/model"
	"renamer/internal/domain/naming"
	"renamer/internal/domain/safety"
)

var synthesize = naming.Synthesize

var ErrEntryRenamed = errors.New("ENTRY_RENAMED")

type PreviewReport struct {
	Named     int `json:"named"`
	Exhausted int `json:"exhausted"`
	Errors    int `json:"errors"`
	Conflicts int `json:"conflicts"`
}

type Session struct {
	Rules     []model.NamingRule
	Entries   []*model.FileRenameEntry
	Whitelist []string

	engine *transaction.Engine
}

func New(engine *transaction.Engine, ruleSet []model.NamingRule, whitelist []string) *Session {
	if engine == nil {
		engine = transaction.NewEngine()
	}
	return &Session{Rules: ruleSet, Whitelist: whitelist, engine: engine}
}

func (s *Session) PlanID() string { return s.engine.PlanID() }

// AddPaths appends one entry per file. Files that fail validation are left
// out and reported in the joined error; the rest are still added.
func (s *Session) AddPaths(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := safety.ValidatePath(p, nil, s.Whitelist); err != nil {
			errs = append(errs, err)
			continue
		}
		e, err := model.NewFileRenameEntry(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.Entries = append(s.Entries, e)
	}
	return errors.Join(errs...)
}

// InsertDummy places a placeholder at position at, shifting later entries
// one sequence index up.
func (s *Session) InsertDummy(at int) {
	if at < 0 {
		at = 0
	}
	if at > len(s.Entries) {
		at = len(s.Entries)
	}
	s.Entries = append(s.Entries, nil)
	copy(s.Entries[at+1:], s.Entries[at:])
	s.Entries[at] = model.NewDummyEntry()
}

// Remove drops the entry at position i. A renamed entry is refused until it
// is rolled back, so its original name is never lost.
func (s *Session) Remove(i int) error {
	if i < 0 || i >= len(s.Entries) {
		return fmt.Errorf("no entry at position %d", i)
	}
	if s.Entries[i].Renamed {
		return fmt.Errorf("%w: entry %d; roll back first", ErrEntryRenamed, i+1)
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return nil
}

func (s *Session) Toggle(i int) error {
	if i < 0 || i >= len(s.Entries) {
		return fmt.Errorf("no entry at position %d", i)
	}
	s.Entries[i].Selected = !s.Entries[i].Selected
	return nil
}

// Clear drops every entry except renamed ones, which stay for rollback.
func (s *Session) Clear() {
	kept := s.Entries[:0]
	for _, e := range s.Entries {
		if e.Renamed {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.Entries); i++ {
		s.Entries[i] = nil
	}
	s.Entries = kept
}

// Preview recomputes candidate names. Sequence indexes are list positions,
// placeholders included. A failure is recorded on its entry and the next
// entry is processed. Entries currently renamed keep their name so they can
// still be rolled back.
func (s *Session) Preview(ctx context.Context) (PreviewReport, error) {
	var rep PreviewReport
	for i, entry := range s.Entries {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if entry.Dummy || entry.Renamed {
			continue
		}

		entry.Exhausted = false
		entry.Error = ""
		name, err := synthesize(ctx, s.Rules, entry, i)
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			return rep, cerr
		}
		if err == nil {
			err = safety.ValidateName(name)
		}
		switch {
		case err == nil:
			entry.CandidateName = name
			rep.Named++
		case naming.IsExhausted(err):
			entry.CandidateName = ""
			entry.Exhausted = true
			rep.Exhausted++
		default:
			entry.CandidateName = ""
			entry.Error = err.Error()
			rep.Errors++
		}
	}
	rep.Conflicts = len(s.Conflicts())
	return rep, nil
}

// Conflicts lists target paths claimed by more than one selected entry.
func (s *Session) Conflicts() []string {
	owners := make(map[string]int)
	var out []string
	for _, e := range s.Entries {
		if !e.CanDoRename() && !e.CanUndoRename() {
			continue
		}
		target := e.TargetPath()
		owners[target]++
		if owners[target] == 2 {
			out = append(out, target)
		}
	}
	return out
}

func (s *Session) Apply(ctx context.Context) (transaction.Report, error) {
	return s.engine.Apply(ctx, s.Entries)
}

func (s *Session) Rollback(ctx context.Context) (transaction.Report, error) {
	return s.engine.Rollback(ctx, s.Entries)
}

func (s *Session) CanApply() bool {
	for _, e := range s.Entries {
		if e.CanDoRename() {
			return true
		}
	}
	return false
}

func (s *Session) CanRollback() bool {
	for _, e := range s.Entries {
		if e.CanUndoRename() {
			return true
		}
	}
	return false
}

func (s *Session) Renamed() int {
	n := 0
	for _, e := range s.Entries {
		if e.Renamed {
			n++
		}
	}
	return n
}

func (s *Session) Items() []model.RenameItem {
	items := make([]model.RenameItem, 0, len(s.Entries))
	for i, e := range s.Entries {
		items = append(items, model.RenameItem{
			ID:            "file-" + strconv.Itoa(i+1),
			Path:          e.OriginalPath,
			OriginalName:  e.OriginalName,
			CandidateName: e.CandidateName,
			SizeBytes:     e.SizeBytes,
			LastModified:  e.LastModified,
			Selected:      e.Selected,
			Dummy:         e.Dummy,
			Renamed:       e.Renamed,
			Result:        ResultOf(e),
			Error:         e.Error,
		})
	}
	return items
}

func (s *Session) Summary() model.Summary {
	sum := model.Summary{ItemsTotal: len(s.Entries)}
	for _, e := range s.Entries {
		if e.Dummy {
			continue
		}
		if e.Selected {
			sum.ItemsSelected++
		}
		if e.CandidateName != "" {
			sum.ItemsNamed++
		}
		if e.Renamed {
			sum.ItemsRenamed++
		}
		if e.Error != "" {
			sum.Errors++
		}
	}
	return sum
}

func ResultOf(e *model.FileRenameEntry) string {
	switch {
	case e.Dummy:
		return "placeholder"
	case e.Renamed:
		return "renamed"
	case !e.Selected:
		return "skipped"
	case e.Exhausted:
		return "exhausted"
	case e.Error != "" && e.CandidateName != "":
		return "pending"
	case e.Error != "":
		return "error"
	case e.CandidateName == "":
		return "unnamed"
	}
	return "planned"
}
