package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tscheck/internal/discovery"
	"github.com/dotcommander/tscheck/internal/project"
	"github.com/dotcommander/tscheck/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the project environment",
	Long: `Report what tscheck sees in this project: the detected root, project
markers, resolved checker binaries with install hints for anything missing,
the effective configuration, and the source file count.

Exits 1 when any checker tool is missing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDoctor(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command) error {
	root, err := resolveRoot(nil)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	cfg := loadConfig(cmd, root)

	info, err := project.Detect(root)
	if err != nil {
		return fmt.Errorf("detecting project: %w", err)
	}

	fmt.Printf("Project root: %s\n", root)
	fmt.Printf("  package.json:  %s\n", yesNo(info.HasPackageJSON))
	fmt.Printf("  tsconfig.json: %s\n", yesNo(info.HasTSConfig))
	fmt.Printf("  git:           %s\n", yesNo(info.HasGit))
	fmt.Printf("  node_modules:  %s\n", yesNo(info.HasNodeModules))
	fmt.Println()

	fmt.Println("Tools:")
	missing := false
	for _, avail := range toolchain.NewLocator(root).ResolveAll() {
		if avail.Found {
			fmt.Printf("  ✓ %-8s %s\n", avail.Tool, avail.Path)
		} else {
			missing = true
			fmt.Printf("  ✗ %-8s not found. %s\n", avail.Tool, avail.InstallHint)
		}
	}
	fmt.Println()

	fmt.Println("Configuration:")
	fmt.Printf("  checks:   %s\n", strings.Join(cfg.EnabledChecks(), ", "))
	fmt.Printf("  excludes: %s\n", strings.Join(cfg.ExcludePatterns, ", "))
	fmt.Printf("  timeout:  %ds\n", cfg.TimeoutSeconds)
	fmt.Printf("  parallel: %s\n", yesNo(cfg.Concurrency))
	fmt.Println()

	fd := discovery.NewFileDiscovery(root, cfg.ExcludePatterns)
	fmt.Printf("Source files: %d\n", fd.CountSources([]string{root}))

	if missing {
		exitFunc(1)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
