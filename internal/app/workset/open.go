package workset

import (
	"errors"

	"renamer/internal/app/transaction"
	"renamer/internal/domain/model"
	"renamer/internal/infra/config"
	"renamer/internal/infra/filesystem"
)

// Source names the inputs of a working set: files and directories plus the
// rules applied to them.
type Source struct {
	Paths     []string
	Recursive bool
	Excludes  []string
	Rules     []model.NamingRule
}

// Open enumerates src.Paths into a new Session. Inputs that could not be read
// or added are reported in the returned error next to a usable Session.
func Open(src Source, engine *transaction.Engine, whitelist []string) (*Session, error) {
	s := New(engine, src.Rules, whitelist)
	files, enumErr := filesystem.Enumerate(src.Paths, filesystem.Options{
		Recursive: src.Recursive,
		Excludes:  src.Excludes,
	})
	addErr := s.AddPaths(files)
	return s, errors.Join(enumErr, addErr)
}

// FromEntries rebuilds a Session around entries recorded by an earlier run.
func FromEntries(entries []*model.FileRenameEntry, engine *transaction.Engine) *Session {
	s := New(engine, nil, nil)
	s.Entries = entries
	return s
}

func SkippedCount(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range joined.Unwrap() {
			n += SkippedCount(e)
		}
		return n
	}
	return 1
}

// Journal captures the renamed entries for a later rollback. ok is false when
// nothing is renamed.
func (s *Session) Journal() (j config.Journal, ok bool) {
	for _, e := range s.Entries {
		if e.Renamed {
			j.Entries = append(j.Entries, e)
		}
	}
	if len(j.Entries) == 0 {
		return config.Journal{}, false
	}
	j.PlanID = s.PlanID()
	return j, true
}
