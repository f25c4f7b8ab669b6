package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/check"
)

var lintFix bool

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint with eslint",
	Long: `Run eslint and report each finding with its rule id and location.

Use --fix to apply eslint's automatic fixes in place.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		req := &check.Request{Checks: []string{"lint"}, Fix: lintFix}
		if err := runChecks(cmd, args, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintFix, "fix", false, "Apply eslint --fix")
}
