package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/urunc-dev/urunc-workflows/pkg/cli"
	"github.com/urunc-dev/urunc-workflows/pkg/console"
	"github.com/urunc-dev/urunc-workflows/pkg/constants"
)

// Build-time variables set by the build
var version = "dev"

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.CLIName,
		Short: "Summarize or export the GitHub Actions workflows of a repository",
		Long: `Query the GitHub Actions API for the workflows of a repository and group
them by name.

Without --export a summary of each workflow category is printed. With
--export the complete, categorized workflow list is written to a file.

Flags can also be set through URUNC_WORKFLOWS_* environment variables
(e.g. URUNC_WORKFLOWS_OWNER) or a .urunc-workflows.yaml file in the
current directory.

Examples:
  ` + constants.CLIName + `                                  # Summary for urunc-dev/urunc
  ` + constants.CLIName + ` --owner myorg --repo myrepo       # Summary for another repository
  ` + constants.CLIName + ` --export workflows.json           # Export a JSON snapshot
  ` + constants.CLIName + ` --export workflows.yaml --format yaml
  ` + constants.CLIName + ` --group-by kind                   # Group by CI / Build / Quality kind`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       cli.FormatVersion(version),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := cli.LoadReportConfig(cmd)
			if err != nil {
				return err
			}
			return cli.RunWorkflowReport(cmd.Context(), config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cli.AddReportFlags(rootCmd)

	rootCmd.AddCommand(
		cli.NewHealthCommand(),
		cli.NewValidateCommand(),
		cli.NewVersionCommand(),
	)

	return rootCmd
}

func main() {
	cli.SetVersionInfo(version)

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
