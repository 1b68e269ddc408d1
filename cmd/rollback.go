package cmd

import (
	"github.com/spf13/cobra"

	"renamer/internal/app/common"
	"renamer/internal/app/rollback"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the original names of the last rename",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}

		svc := rollback.NewService()
		result, err := svc.Run(cmd.Context(), app)
		if err != nil {
			return err
		}
		if err := printResult(result); err != nil {
			return err
		}
		return outcomeError(result)
	},
}
