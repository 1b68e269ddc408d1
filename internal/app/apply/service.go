package apply

import (
	"context"
	"time"

	"renamer/internal/app/common"
	"renamer/internal/app/transaction"
	"renamer/internal/app/workset"
	"renamer/internal/domain/model"
)

type Options struct {
	Paths             []string
	Recursive         bool
	Rules             []model.NamingRule
	RollbackOnFailure bool
}

type Service struct{}

func NewService() Service { return Service{} }

func (Service) Run(ctx context.Context, app *common.AppContext, opts Options) (model.CommandResult, error) {
	start := time.Now()
	if err := common.RequireRules(opts.Rules); err != nil {
		return model.CommandResult{}, err
	}
	if err := common.RequireConfirmationOrDryRun(app.Options, "rename"); err != nil {
		return model.CommandResult{}, err
	}

	engine := transaction.NewEngine(transaction.WithLogger(app.Logger), transaction.WithCommand("apply"))
	sess, openErr := workset.Open(workset.Source{
		Paths:     opts.Paths,
		Recursive: opts.Recursive,
		Rules:     opts.Rules,
	}, engine, app.Whitelist)
	errCount := workset.SkippedCount(openErr)

	if _, err := sess.Preview(ctx); err != nil {
		return model.CommandResult{}, err
	}

	result := model.CommandResult{
		SchemaVersion: "1.0",
		Command:       "apply",
		PlanID:        sess.PlanID(),
		DryRun:        app.Options.DryRun,
	}

	if !app.Options.DryRun {
		for _, e := range sess.Entries {
			if e.Dummy || e.CanDoRename() {
				continue
			}
			if err := common.LogSkip(ctx, app.Logger, sess.PlanID(), "apply", workset.ResultOf(e), e); err != nil {
				errCount++
			}
		}

		rep, runErr := sess.Apply(ctx)
		errCount += rep.LogErrors
		result.Summary.Passes = rep.Passes
		result.Summary.Outcome = rep.Outcome

		if runErr == nil && opts.RollbackOnFailure && (rep.Outcome == model.OutcomePartial || rep.Outcome == model.OutcomeFailure) {
			rb, err := sess.Rollback(ctx)
			errCount += rb.LogErrors
			result.Summary.Passes += rb.Passes
			runErr = err
		}

		if j, ok := sess.Journal(); ok {
			if err := app.Store.SaveJournal(ctx, j); err != nil {
				errCount++
			}
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
