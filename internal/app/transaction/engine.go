// Package transaction moves selected entries to their candidate names and
// back, repeating full passes until a pass changes nothing.
package transaction

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"renamer/internal/domain/model"
	"renamer/internal/domain/safety"
	"renamer/internal/infra/logging"
)

var ErrBusy = errors.New("TRANSACTION_BUSY: a rename or rollback is already running")

type Direction string

const (
	Forward Direction = "rename"
	Inverse Direction = "rollback"
)

type MoveFunc func(src, dst string) error

type Failure struct {
	Path   string `json:"path"`
	Target string `json:"target"`
	Error  string `json:"error"`
}

type Report struct {
	Direction Direction     `json:"direction"`
	Outcome   model.Outcome `json:"outcome"`
	Eligible  int           `json:"eligible"`
	Changed   int           `json:"changed"`
	Pending   int           `json:"pending"`
	Passes    int           `json:"passes"`
	LogErrors int           `json:"log_errors,omitempty"`
	Failures  []Failure     `json:"failures,omitempty"`
}

type Engine struct {
	move    MoveFunc
	logger  logging.Logger
	command string
	planID  string
	busy    atomic.Bool
}

type Option func(*Engine)

func WithMover(m MoveFunc) Option { return func(e *Engine) { e.move = m } }

func WithLogger(l logging.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithPlanID(id string) Option { return func(e *Engine) { e.planID = id } }

func WithCommand(cmd string) Option { return func(e *Engine) { e.command = cmd } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		move:    safety.Move,
		logger:  logging.NewNoopLogger(),
		command: "apply",
	}
	for _, o := range opts {
		o(e)
	}
	if e.planID == "" {
		e.planID = NewPlanID()
	}
	return e
}

func NewPlanID() string { return "plan-" + uuid.NewString() }

func (e *Engine) PlanID() string { return e.planID }

// Apply renames every eligible entry. Per-file failures leave the entry
// pending and are retried on the next pass.
func (e *Engine) Apply(ctx context.Context, entries []*model.FileRenameEntry) (Report, error) {
	return e.run(ctx, entries, Forward)
}

// Rollback moves every renamed entry back to its original path.
func (e *Engine) Rollback(ctx context.Context, entries []*model.FileRenameEntry) (Report, error) {
	return e.run(ctx, entries, Inverse)
}

func eligible(entry *model.FileRenameEntry, dir Direction) bool {
	if dir == Forward {
		return entry.CanDoRename()
	}
	return entry.CanUndoRename()
}

func paths(entry *model.FileRenameEntry, dir Direction) (string, string) {
	if dir == Forward {
		return entry.OriginalPath, entry.TargetPath()
	}
	return entry.TargetPath(), entry.OriginalPath
}

func (e *Engine) run(ctx context.Context, entries []*model.FileRenameEntry, dir Direction) (Report, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer e.busy.Store(false)

	rep := Report{Direction: dir}
	for _, entry := range entries {
		if eligible(entry, dir) {
			rep.Eligible++
		}
	}

	var runErr error
	for runErr == nil {
		rep.Passes++
		changed, err := e.pass(ctx, entries, dir, rep.Passes, &rep)
		rep.Changed += changed
		runErr = err
		if changed == 0 {
			break
		}
	}

	e.finish(&rep, entries, dir)
	return rep, runErr
}

func (e *Engine) pass(ctx context.Context, entries []*model.FileRenameEntry, dir Direction, pass int, rep *Report) (int, error) {
	changed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		if !eligible(entry, dir) {
			continue
		}

		src, dst := paths(entry, dir)
		start := time.Now()
		err := e.move(src, dst)

		result := "renamed"
		if dir == Inverse {
			result = "restored"
		}
		if err != nil {
			result = "error"
			entry.Error = err.Error()
		} else {
			entry.Renamed = dir == Forward
			entry.Error = ""
			changed++
		}

		logEntry := model.OperationLogEntry{
			Timestamp:  time.Now().UTC(),
			PlanID:     e.planID,
			Command:    e.command,
			Action:     string(dir),
			Path:       src,
			Target:     dst,
			Pass:       pass,
			Result:     result,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			logEntry.Error = err.Error()
		}
		if err := e.logger.Log(ctx, logEntry); err != nil {
			rep.LogErrors++
		}
	}
	return changed, nil
}

func (e *Engine) finish(rep *Report, entries []*model.FileRenameEntry, dir Direction) {
	rep.Pending = rep.Eligible - rep.Changed
	for _, entry := range entries {
		if !eligible(entry, dir) {
			continue
		}
		src, dst := paths(entry, dir)
		rep.Failures = append(rep.Failures, Failure{Path: src, Target: dst, Error: entry.Error})
	}

	switch {
	case rep.Eligible == 0:
		rep.Outcome = model.OutcomeNone
	case rep.Changed == rep.Eligible:
		rep.Outcome = model.OutcomeSuccess
	case rep.Changed == 0:
		rep.Outcome = model.OutcomeFailure
	default:
		rep.Outcome = model.OutcomePartial
	}
}
