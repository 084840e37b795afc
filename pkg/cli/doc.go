// Package cli implements the urunc-workflows commands.
//
// The root command reads the workflow definitions of a repository from the
// GitHub Actions API, groups them into categories and either prints a summary
// or exports a JSON (or YAML) snapshot:
//
//	workflows, err := client.FetchWorkflows(ctx, "urunc-dev", "urunc")
//	categories := cli.CategorizeWorkflows(workflows)
//	cli.RenderWorkflowSummary(os.Stdout, "urunc-dev", "urunc", len(workflows), categories)
//
// # Commands
//
// (root) - summary on stdout, or --export FILE for the snapshot
//
// health - success rate and trend of the recent runs of each workflow, and
// with --jobs the pass rate of every job
//
// validate - check an exported snapshot against the export schema
//
// version - print the build version
//
// # Error Handling
//
// A failed workflow list request is returned as a *FetchError; the process
// reports it on stderr and exits non-zero without writing any output.
// Commands return wrapped errors and never print them themselves.
//
// # Related Packages
//
// pkg/console - Output formatting utilities
//
// pkg/logger - Debug logging controlled by the DEBUG environment variable
package cli
