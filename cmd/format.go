package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/check"
)

var formatFix bool

var formatCmd = &cobra.Command{
	Use:   "format [paths...]",
	Short: "Check formatting with prettier",
	Long: `Check that files match prettier's formatting.

Each unformatted file is reported as one error. Use --fix to rewrite files
in place instead of reporting.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		req := &check.Request{Checks: []string{"format"}, Fix: formatFix}
		if err := runChecks(cmd, args, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().BoolVar(&formatFix, "fix", false, "Rewrite files with prettier --write")
}
