package common

import (
	"errors"
	"fmt"

	"renamer/internal/domain/model"
)

func RequireConfirmationOrDryRun(opts GlobalOptions, action string) error {
	if opts.DryRun || opts.Yes {
		return nil
	}
	return fmt.Errorf("confirmation required for %s: use --yes or --dry-run", action)
}

func RequireRules(ruleSet []model.NamingRule) error {
	if len(ruleSet) == 0 {
		return errors.New("at least one --rule is required")
	}
	return nil
}
