package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/check"
)

var stubsCmd = &cobra.Command{
	Use:   "stubs [paths...]",
	Short: "Scan for placeholder code",
	Long: `Scan source files for incomplete-implementation markers: TODO and
FIXME comments, @ts-ignore, bare @ts-expect-error, "not implemented" throws,
and "as any" casts. An @ts-expect-error with a trailing explanation is
considered legitimate and not reported.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		req := &check.Request{Checks: []string{"stubs"}}
		if err := runChecks(cmd, args, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(stubsCmd)
}
