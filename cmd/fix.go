package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/check"
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Apply prettier and eslint fixes",
	Long: `Rewrite files with prettier --write and eslint --fix, then report
remaining type and stub issues. Fixers run one at a time so they never
rewrite the same file concurrently.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		req := &check.Request{Fix: true}
		if err := runChecks(cmd, args, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
