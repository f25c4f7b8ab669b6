package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/check"
)

var typesCmd = &cobra.Command{
	Use:   "types [paths...]",
	Short: "Type-check with tsc",
	Long: `Run the TypeScript compiler in --noEmit mode and report each
diagnostic with its TS code. tsc always checks the whole project defined by
tsconfig.json; path arguments only anchor root detection.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		req := &check.Request{Checks: []string{"types"}}
		if err := runChecks(cmd, args, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
