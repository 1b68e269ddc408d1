package cmd

import (
	"github.com/spf13/cobra"

	"renamer/internal/app/common"
	"renamer/internal/app/preview"
)

var previewFlags ruleFlags

var previewCmd = &cobra.Command{
	Use:   "preview <path>...",
	Short: "Show the names the rules would produce without renaming",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		ruleSet, err := previewFlags.rules()
		if err != nil {
			return err
		}

		svc := preview.NewService()
		result, err := svc.Run(cmd.Context(), app, preview.Options{
			Paths:     args,
			Recursive: previewFlags.recursive,
			Rules:     ruleSet,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	previewFlags.bind(previewCmd)
}
