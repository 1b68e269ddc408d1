package rollback

import (
	"context"
	"time"

	"renamer/internal/app/common"
	"renamer/internal/app/transaction"
	"renamer/internal/app/workset"
	"renamer/internal/domain/model"
	"renamer/internal/domain/safety"
	"renamer/internal/infra/config"
)

type Service struct{}

func NewService() Service { return Service{} }

// Run reverts the rename recorded in the journal by the last apply.
func (Service) Run(ctx context.Context, app *common.AppContext) (model.CommandResult, error) {
	start := time.Now()
	if err := common.RequireConfirmationOrDryRun(app.Options, "rollback"); err != nil {
		return model.CommandResult{}, err
	}

	j, err := app.Store.LoadJournal(ctx)
	if err != nil {
		return model.CommandResult{}, err
	}

	errCount := 0
	for _, e := range j.Entries {
		if err := safety.ValidatePath(e.OriginalPath, nil, app.Whitelist); err != nil {
			e.Selected = false
			e.Error = err.Error()
			errCount++
		}
	}

	engine := transaction.NewEngine(
		transaction.WithLogger(app.Logger),
		transaction.WithCommand("rollback"),
		transaction.WithPlanID(j.PlanID),
	)
	sess := workset.FromEntries(j.Entries, engine)

	result := model.CommandResult{
		SchemaVersion: "1.0",
		Command:       "rollback",
		PlanID:        j.PlanID,
		DryRun:        app.Options.DryRun,
	}

	if !app.Options.DryRun {
		rep, runErr := sess.Rollback(ctx)
		errCount += rep.LogErrors
		result.Summary.Passes = rep.Passes
		result.Summary.Outcome = rep.Outcome

		if err := syncJournal(ctx, app.Store, sess); err != nil {
			errCount++
		}
		if runErr != nil {
			return model.CommandResult{}, runErr
		}
	}

	summary := sess.Summary()
	summary.Passes = result.Summary.Passes
	summary.Outcome = result.Summary.Outcome
	summary.Errors += errCount
	result.Summary = summary
	result.Items = sess.Items()
	result.Timestamp = time.Now().UTC()
	result.DurationMS = time.Since(start).Milliseconds()
	return result, nil
}

// syncJournal keeps entries that are still renamed and drops the journal
// once everything is restored.
func syncJournal(ctx context.Context, store config.Store, sess *workset.Session) error {
	if j, ok := sess.Journal(); ok {
		return store.SaveJournal(ctx, j)
	}
	return store.ClearJournal(ctx)
}
