package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/urunc-dev/urunc-workflows/pkg/logger"
)

var workflowRunsLog = logger.New("cli:workflow_runs")

// WorkflowRun is a single run of a workflow.
type WorkflowRun struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RunNumber    int       `json:"run_number"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	HTMLURL      string    `json:"html_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RunStartedAt time.Time `json:"run_started_at"`

	// Duration is derived from the timestamps once the run has completed.
	Duration time.Duration `json:"-"`
}

type workflowRunsResponse struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// FetchWorkflowRuns returns up to count of the most recent runs of a workflow,
// newest first.
func (c *WorkflowsClient) FetchWorkflowRuns(ctx context.Context, owner, repo string, workflowID int64, count int) ([]WorkflowRun, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%d/runs?per_page=%d",
		c.apiURL, url.PathEscape(owner), url.PathEscape(repo), workflowID, count)
	workflowRunsLog.Printf("GET %s", endpoint)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp workflowRunsResponse
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch runs of workflow %d: %w", workflowID, err)
	}

	runs := resp.WorkflowRuns
	if len(runs) > count {
		runs = runs[:count]
	}
	for i := range runs {
		runs[i].Duration = runDuration(runs[i])
	}
	workflowRunsLog.Printf("Fetched %d runs for workflow %d", len(runs), workflowID)
	return runs, nil
}

// runDuration is the time from start to last update of a completed run.
func runDuration(run WorkflowRun) time.Duration {
	if run.Status != "completed" || run.UpdatedAt.IsZero() {
		return 0
	}
	start := run.RunStartedAt
	if start.IsZero() {
		start = run.CreatedAt
	}
	if start.IsZero() || run.UpdatedAt.Before(start) {
		return 0
	}
	return run.UpdatedAt.Sub(start)
}
