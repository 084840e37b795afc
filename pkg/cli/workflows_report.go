package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urunc-dev/urunc-workflows/pkg/console"
)

// WorkflowFetcher lists the workflows of a repository.
type WorkflowFetcher interface {
	FetchWorkflows(ctx context.Context, owner, repo string) ([]WorkflowRecord, error)
}

// RunWorkflowReport runs the export when config.Export is set and the console
// summary otherwise.
func RunWorkflowReport(ctx context.Context, config ReportConfig, out, errOut io.Writer) error {
	client, err := NewWorkflowsClient(config.clientOptions())
	if err != nil {
		return err
	}
	console.LogVerbose(errOut, config.Verbose, fmt.Sprintf("Using GitHub API at %s", config.APIURL))

	if config.Export != "" {
		return RunWorkflowExport(ctx, client, config, out, errOut)
	}
	return RunWorkflowSummary(ctx, client, config, out, errOut)
}
