package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"renamer/internal/app/apply"
	"renamer/internal/app/common"
	"renamer/internal/domain/model"
)

var applyFlags ruleFlags
var applyRollbackOnFailure bool

var applyCmd = &cobra.Command{
	Use:   "apply <path>...",
	Short: "Rename files according to the rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		ruleSet, err := applyFlags.rules()
		if err != nil {
			return err
		}

		svc := apply.NewService()
		result, err := svc.Run(cmd.Context(), app, apply.Options{
			Paths:             args,
			Recursive:         applyFlags.recursive,
			Rules:             ruleSet,
			RollbackOnFailure: applyRollbackOnFailure,
		})
		if err != nil {
			return err
		}
		if err := printResult(result); err != nil {
			return err
		}
		return outcomeError(result)
	},
}

func init() {
	applyFlags.bind(applyCmd)
	applyCmd.Flags().BoolVar(&applyRollbackOnFailure, "rollback-on-failure", false, "Undo every rename when some files could not be renamed")
}

// outcomeError turns an incomplete transaction into a non-zero exit.
func outcomeError(result model.CommandResult) error {
	switch result.Summary.Outcome {
	case model.OutcomePartial, model.OutcomeFailure:
		return fmt.Errorf("%s finished with outcome %s", result.Command, result.Summary.Outcome)
	}
	return nil
}
