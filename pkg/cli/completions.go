package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
)

var completionsLog = logger.New("cli:completions")

// exportFileExtensions are the file extensions offered for export files.
var exportFileExtensions = []string{"json", "yaml", "yml"}

// completeValues returns the values with the given prefix, each with its
// tab-separated description for Cobra's CompletionWithDesc support.
func completeValues(values [][2]string, toComplete string) []string {
	var filtered []string
	for _, v := range values {
		if toComplete == "" || strings.HasPrefix(v[0], toComplete) {
			filtered = append(filtered, v[0]+"\t"+v[1])
		}
	}
	return filtered
}

// CompleteGroupByValues provides shell completion for the --group-by flag
func CompleteGroupByValues(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completionsLog.Printf("Completing group-by values with prefix: %s", toComplete)
	return completeValues([][2]string{
		{string(GroupByName), "one category per workflow name"},
		{string(GroupByKind), "CI, build, code quality and other workflows"},
	}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// CompleteExportFormats provides shell completion for the --format flag
func CompleteExportFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completionsLog.Printf("Completing export formats with prefix: %s", toComplete)
	return completeValues([][2]string{
		{string(ExportFormatJSON), "indented JSON"},
		{string(ExportFormatYAML), "YAML"},
	}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// CompleteExportFiles restricts file completion to export documents
func CompleteExportFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return exportFileExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// RegisterReportFlagCompletions registers completion for the report flags on a command
func RegisterReportFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("group-by", CompleteGroupByValues)
	_ = cmd.RegisterFlagCompletionFunc("format", CompleteExportFormats)
	_ = cmd.RegisterFlagCompletionFunc("export", CompleteExportFiles)
}
