package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type RuleKind string

const (
	RuleConstantString RuleKind = "const"
	RuleOrderedNumber  RuleKind = "number"
	RuleFileHash       RuleKind = "hash"
	RuleFileNamePart   RuleKind = "name"
	RuleExtension      RuleKind = "ext"
)

type HashKind string

const (
	HashMD5    HashKind = "md5"
	HashSHA1   HashKind = "sha1"
	HashSHA256 HashKind = "sha256"
	HashSHA384 HashKind = "sha384"
	HashSHA512 HashKind = "sha512"
	HashCRC32  HashKind = "crc32"
)

func HashKinds() []HashKind {
	return []HashKind{HashMD5, HashSHA1, HashSHA256, HashSHA384, HashSHA512, HashCRC32}
}

// NamingRule is one segment of a generated file name. Only the fields that
// belong to Kind are read when the rule is rendered.
type NamingRule struct {
	Kind RuleKind `json:"kind"`

	ConstantText string `json:"constant_text,omitempty"`

	NumberLength int    `json:"number_length,omitempty"`
	StartNumber  int64  `json:"start_number,omitempty"`
	EndNumber    *int64 `json:"end_number,omitempty"`

	HashKind HashKind `json:"hash_kind,omitempty"`

	StartIndex int `json:"start_index,omitempty"`
	EndIndex   int `json:"end_index,omitempty"`

	IsCustomExtension bool   `json:"is_custom_extension,omitempty"`
	CustomExtension   string `json:"custom_extension,omitempty"`
}

func NewNamingRule(kind RuleKind) NamingRule {
	return NamingRule{
		Kind:         kind,
		HashKind:     HashMD5,
		NumberLength: 0,
		StartNumber:  1,
		StartIndex:   0,
		EndIndex:     -1,
	}
}

// FileRenameEntry is one row of the working set. The file attributes are read
// once when the entry is created and never refreshed afterwards.
type FileRenameEntry struct {
	OriginalPath string    `json:"original_path"`
	OriginalName string    `json:"original_name"`
	Extension    string    `json:"extension"`
	Directory    string    `json:"directory"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`

	Selected      bool   `json:"selected"`
	CandidateName string `json:"candidate_name"`
	Renamed       bool   `json:"renamed"`
	Dummy         bool   `json:"dummy"`
	Exhausted     bool   `json:"exhausted,omitempty"`
	Error         string `json:"error,omitempty"`
}

func NewFileRenameEntry(path string) (*FileRenameEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("not a regular file: %s", abs)
	}
	name := filepath.Base(abs)
	return &FileRenameEntry{
		OriginalPath: abs,
		OriginalName: name,
		Extension:    filepath.Ext(name),
		Directory:    filepath.Dir(abs),
		SizeBytes:    st.Size(),
		LastModified: st.ModTime().UTC(),
		Selected:     true,
	}, nil
}

// NewDummyEntry returns a placeholder row. It takes a sequence index but is
// never renamed.
func NewDummyEntry() *FileRenameEntry {
	return &FileRenameEntry{Dummy: true}
}

func (e *FileRenameEntry) NameWithoutExtension() string {
	return strings.TrimSuffix(e.OriginalName, e.Extension)
}

func (e *FileRenameEntry) TargetPath() string {
	return filepath.Join(e.Directory, e.CandidateName)
}

func (e *FileRenameEntry) CanDoRename() bool {
	return e.Selected && !e.Dummy && e.CandidateName != "" && !e.Renamed
}

func (e *FileRenameEntry) CanUndoRename() bool {
	return e.Selected && !e.Dummy && e.Renamed
}

func (e *FileRenameEntry) Size() string {
	return FormatSize(e.SizeBytes)
}

func FormatSize(n int64) string {
	const unit = 1024.0
	v := float64(n)
	switch {
	case v < unit*unit:
		return fmt.Sprintf("%.2f KB", v/unit)
	case v < unit*unit*unit:
		return fmt.Sprintf("%.2f MB", v/(unit*unit))
	case v < unit*unit*unit*unit:
		return fmt.Sprintf("%.2f GB", v/(unit*unit*unit))
	default:
		return fmt.Sprintf("%.2f TB", v/(unit*unit*unit*unit))
	}
}

type RenameItem struct {
	ID            string    `json:"id"`
	Path          string    `json:"path"`
	OriginalName  string    `json:"original_name"`
	CandidateName string    `json:"candidate_name"`
	SizeBytes     int64     `json:"size_bytes"`
	LastModified  time.Time `json:"last_modified"`
	Selected      bool      `json:"selected"`
	Dummy         bool      `json:"dummy,omitempty"`
	Renamed       bool      `json:"renamed"`
	Result        string    `json:"result"`
	Error         string    `json:"error,omitempty"`
}

type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailure Outcome = "failure"
)

type Summary struct {
	ItemsTotal    int     `json:"items_total"`
	ItemsSelected int     `json:"items_selected"`
	ItemsNamed    int     `json:"items_named"`
	ItemsRenamed  int     `json:"items_renamed"`
	Passes        int     `json:"passes,omitempty"`
	Outcome       Outcome `json:"outcome,omitempty"`
	Errors        int     `json:"errors"`
}

type CommandResult struct {
	SchemaVersion string       `json:"schema_version"`
	Command       string       `json:"command"`
	PlanID        string       `json:"plan_id,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
	DurationMS    int64        `json:"duration_ms"`
	DryRun        bool         `json:"dry_run,omitempty"`
	Summary       Summary      `json:"summary,omitempty"`
	Items         []RenameItem `json:"items,omitempty"`
	Digests       any          `json:"digests,omitempty"`
}

type OperationLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	PlanID     string    `json:"plan_id"`
	Command    string    `json:"command"`
	Action     string    `json:"action"`
	Path       string    `json:"path"`
	Target     string    `json:"target"`
	Pass       int       `json:"pass"`
	Result     string    `json:"result"`
	Error      string    `json:"error"`
	DurationMS int64     `json:"duration_ms"`
	DryRun     bool      `json:"dry_run"`
	UserID     int       `json:"user_id"`
}
