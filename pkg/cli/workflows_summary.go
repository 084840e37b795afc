package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urunc-dev/urunc-workflows/pkg/console"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
	"github.com/urunc-dev/urunc-workflows/pkg/stringutil"
)

var summaryLog = logger.New("cli:workflows_summary")

// RunWorkflowSummary fetches the workflows of the configured repository and
// prints one entry per category to out. Progress lines go to errOut.
func RunWorkflowSummary(ctx context.Context, fetcher WorkflowFetcher, config ReportConfig, out, errOut io.Writer) error {
	fmt.Fprintln(errOut, console.FormatInfoMessage(fmt.Sprintf("Fetching workflows for %s/%s...", config.Owner, config.Repo)))

	workflows, err := fetcher.FetchWorkflows(ctx, config.Owner, config.Repo)
	if err != nil {
		return err
	}

	if len(workflows) == 0 {
		summaryLog.Print("No workflows returned")
		fmt.Fprintln(out, "No workflows found.")
		return nil
	}

	categories := CategorizeWorkflowsBy(workflows, config.GroupBy)
	RenderWorkflowSummary(out, config.Owner, config.Repo, len(workflows), categories)
	return nil
}

// RenderWorkflowSummary writes the summary of categories to w.
//
// Categories are listed alphabetically and only the first workflow of each
// category is shown; the export document carries all of them.
func RenderWorkflowSummary(w io.Writer, owner, repo string, total int, categories *CategoryMap) {
	summaryLog.Printf("Rendering summary: workflows=%d, categories=%d", total, categories.Len())

	fmt.Fprintf(w, "Found %d workflow(s) in %d categor(ies):\n\n", total, categories.Len())

	for _, name := range categories.SortedNames() {
		latest := categories.Workflows(name)[0]

		fmt.Fprintf(w, "  📋 %s\n", console.FormatSectionHeader(name))
		fmt.Fprintf(w, "     Path: %s\n", stringutil.ValueOr(latest.Path, missingValue))
		fmt.Fprintf(w, "     State: %s\n", stringutil.ValueOr(latest.State, missingValue))
		fmt.Fprintf(w, "     ID: %s\n", latest.displayID())
		fmt.Fprintf(w, "     URL: %s\n", WorkflowURL(owner, repo, latest.Path))
		fmt.Fprintln(w)
	}
}
