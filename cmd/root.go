package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"renamer/internal/app/common"
	"renamer/internal/domain/model"
	"renamer/internal/infra/config"
	"renamer/internal/infra/logging"
)

var opts common.GlobalOptions

var rootCmd = &cobra.Command{
	Use:   "renamer",
	Short: "Renamer is a rule-based batch file renaming CLI",
	Long:  "Renamer builds new file names from an ordered list of rules, previews them, renames in place and rolls the last rename back.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !onTerminal() {
			return cmd.Help()
		}
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		return runLauncher(cmd.Context(), app.Store)
	},
}

func Execute() error {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		appCtx, err := buildAppContext(ctx)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(ctx, common.ContextKeyApp, appCtx))
		return nil
	}

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Preview actions without modifying files")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Echo operation log entries to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.Yes, "yes", false, "Auto-confirm actions in non-interactive mode")
	rootCmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.NoOpLog, "no-oplog", false, "Disable operation log")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(sessionCmd)
}

func printResult(v any) error {
	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if res, ok := v.(model.CommandResult); ok {
		fmt.Println(renderResult(res))
		return nil
	}

	if line, ok := v.(fmt.Stringer); ok {
		fmt.Println(line.String())
		return nil
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func buildAppContext(ctx context.Context) (*common.AppContext, error) {
	store := config.NewStore()
	whitelist, err := store.LoadWhitelist(ctx)
	if err != nil {
		return nil, err
	}

	oplogDisabled := opts.NoOpLog || os.Getenv("RENAMER_NO_OPLOG") == "1"
	oplog, err := logging.NewOperationLogger(ctx, oplogDisabled)
	if err != nil {
		oplog = logging.NewNoopLogger()
	}
	if opts.Debug {
		oplog = logging.WithDebug(oplog, os.Stderr)
	}

	return &common.AppContext{
		Options:   opts,
		Whitelist: whitelist,
		Logger:    oplog,
		Store:     store,
	}, nil
}

func onTerminal() bool {
	stdin, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	stdout, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return shouldUseInteractive(stdin.Mode(), stdout.Mode(), os.Getenv("TERM"))
}

func isCharDevice(mode os.FileMode) bool {
	return mode&os.ModeCharDevice != 0
}

func isDumbTerm(term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	return t == "" || t == "dumb"
}

func shouldUseInteractive(stdin, stdout os.FileMode, term string) bool {
	return isCharDevice(stdin) && isCharDevice(stdout) && !isDumbTerm(term)
}

func runSelf(args ...string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	c := exec.Command(exe, args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
