package preview

import (
	"context"
	"time"

	"renamer/internal/app/common"
	"renamer/internal/app/workset"
	"renamer/internal/domain/model"
)

type Options struct {
	Paths     []string
	Recursive bool
	Rules     []model.NamingRule
}

type Service struct{}

func NewService() Service { return Service{} }

func (Service) Run(ctx context.Context, app *common.AppContext, opts Options) (model.CommandResult, error) {
	start := time.Now()
	if err := common.RequireRules(opts.Rules); err != nil {
		return model.CommandResult{}, err
	}

	sess, openErr := workset.Open(workset.Source{
		Paths:     opts.Paths,
		Recursive: opts.Recursive,
		Rules:     opts.Rules,
	}, nil, app.Whitelist)

	if _, err := sess.Preview(ctx); err != nil {
		return model.CommandResult{}, err
	}

	summary := sess.Summary()
	summary.Errors += workset.SkippedCount(openErr)

	return model.CommandResult{
		SchemaVersion: "1.0",
		Command:       "preview",
		Timestamp:     time.Now().UTC(),
		DurationMS:    time.Since(start).Milliseconds(),
		DryRun:        true,
		Summary:       summary,
		Items:         sess.Items(),
	}, nil
}
