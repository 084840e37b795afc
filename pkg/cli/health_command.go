package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/urunc-dev/urunc-workflows/pkg/console"
	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
	"github.com/urunc-dev/urunc-workflows/pkg/sliceutil"
	"github.com/urunc-dev/urunc-workflows/pkg/stringutil"
)

var healthCommandLog = logger.New("cli:health_command")

// HealthConfig configures the health report.
type HealthConfig struct {
	RepositoryConfig
	// Runs is the number of recent runs analyzed per workflow.
	Runs int
	// Threshold is the success rate, in percent, below which a workflow is flagged.
	Threshold float64
	JSON      bool
	Jobs      bool
}

// WorkflowRunsFetcher lists workflows and their recent runs.
type WorkflowRunsFetcher interface {
	WorkflowFetcher
	FetchWorkflowRuns(ctx context.Context, owner, repo string, workflowID int64, count int) ([]WorkflowRun, error)
	FetchRunJobs(ctx context.Context, owner, repo string, runID int64) ([]WorkflowJob, error)
}

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the success rate and trend of each workflow's recent runs",
		Long: `Analyze the most recent runs of every workflow in the repository.

For each workflow the report shows the success rate, the trend between the
newer and the older half of the runs, the average duration and the
conclusion of the latest run. Workflows GitHub generates on the fly
(paths under dynamic/) and workflows without runs are skipped.

With --jobs the jobs of every completed run are fetched as well and a
per-job pass rate table follows the report. Runs still in progress
contribute no job data.

Examples:
  ` + constants.CLIName + ` health
  ` + constants.CLIName + ` health --runs 20 --threshold 90
  ` + constants.CLIName + ` health --owner myorg --repo myrepo --json
  ` + constants.CLIName + ` health --jobs --runs 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadHealthConfig(cmd)
			if err != nil {
				return err
			}
			client, err := NewWorkflowsClient(config.clientOptions())
			if err != nil {
				return err
			}
			return RunHealth(cmd.Context(), client, config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	AddRepositoryFlags(cmd)
	cmd.Flags().Int("runs", constants.DefaultHealthRuns, "Number of recent runs to analyze per workflow")
	cmd.Flags().Float64("threshold", constants.DefaultHealthThreshold, "Success rate (percent) below which a workflow is flagged")
	cmd.Flags().BoolP("json", "j", false, "Output the report as JSON")
	cmd.Flags().Bool("jobs", false, "Include per-job pass rates (one extra request per run)")

	return cmd
}

func loadHealthConfig(cmd *cobra.Command) (HealthConfig, error) {
	v, err := newConfigViper(cmd)
	if err != nil {
		return HealthConfig{}, err
	}

	config := HealthConfig{
		RepositoryConfig: loadRepositoryConfig(v),
		Runs:             v.GetInt("runs"),
		Threshold:        v.GetFloat64("threshold"),
		JSON:             v.GetBool("json"),
		Jobs:             v.GetBool("jobs"),
	}
	if config.Runs < 1 || config.Runs > 100 {
		return HealthConfig{}, fmt.Errorf("--runs must be between 1 and 100, got %d", config.Runs)
	}
	if config.Threshold < 0 || config.Threshold > 100 {
		return HealthConfig{}, fmt.Errorf("--threshold must be between 0 and 100, got %g", config.Threshold)
	}
	return config, nil
}

// RunHealth fetches the workflows of the repository, then the recent runs of
// each workflow concurrently, and writes the health report to out. Progress
// lines and warnings go to errOut.
//
// Failing to list workflows aborts the report. Failing to fetch the runs or
// jobs of a single workflow only drops that workflow, with a warning.
func RunHealth(ctx context.Context, fetcher WorkflowRunsFetcher, config HealthConfig, out, errOut io.Writer) error {
	healthCommandLog.Printf("Running health report: repository=%s, runs=%d, threshold=%.1f, jobs=%v", config.Slug(), config.Runs, config.Threshold, config.Jobs)
	fmt.Fprintln(errOut, console.FormatInfoMessage(fmt.Sprintf("Fetching workflows for %s...", config.Slug())))

	workflows, err := fetcher.FetchWorkflows(ctx, config.Owner, config.Repo)
	if err != nil {
		return err
	}

	candidates := sliceutil.Filter(workflows, isAnalyzableWorkflow)
	healthCommandLog.Printf("Analyzing %d of %d workflows", len(candidates), len(workflows))
	if len(candidates) > 0 {
		fmt.Fprintln(errOut, console.FormatProgressMessage(fmt.Sprintf("Fetching the last %d runs of %d workflow(s)...", config.Runs, len(candidates))))
	}

	var warnMu sync.Mutex
	warn := func(workflow WorkflowRecord, err error) {
		warnMu.Lock()
		defer warnMu.Unlock()
		fmt.Fprintln(errOut, console.FormatWarningMessage(fmt.Sprintf("Skipping %s: %v", nameCategory(workflow), err)))
	}

	p := pool.NewWithResults[*WorkflowHealth]().WithMaxGoroutines(constants.MaxConcurrentRunRequests)
	for _, workflow := range candidates {
		p.Go(func() *WorkflowHealth {
			runs, err := fetcher.FetchWorkflowRuns(ctx, config.Owner, config.Repo, *workflow.ID, config.Runs)
			if err != nil {
				warn(workflow, err)
				return nil
			}
			if len(runs) == 0 {
				healthCommandLog.Printf("No runs for workflow %s", nameCategory(workflow))
				return nil
			}
			health := CalculateWorkflowHealth(workflow, runs, config.Threshold)
			if config.Jobs {
				runJobs, err := fetchJobsOfRuns(ctx, fetcher, config.RepositoryConfig, runs)
				if err != nil {
					warn(workflow, err)
					return nil
				}
				health.Jobs = CalculateJobStats(runJobs)
			}
			return &health
		})
	}

	healths := make([]WorkflowHealth, 0, len(candidates))
	for _, health := range p.Wait() {
		if health != nil {
			healths = append(healths, *health)
		}
	}
	sort.Slice(healths, func(i, j int) bool {
		if healths[i].WorkflowName != healths[j].WorkflowName {
			return healths[i].WorkflowName < healths[j].WorkflowName
		}
		return healths[i].Path < healths[j].Path
	})

	period := fmt.Sprintf("last %d runs", config.Runs)
	summary := CalculateHealthSummary(config.Slug(), healths, period, config.Threshold)

	if config.JSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	renderHealthSummary(out, summary)
	if config.Jobs {
		renderJobTables(out, summary.Workflows)
	}
	return nil
}

// fetchJobsOfRuns lists the jobs of every completed run. Runs that are queued
// or in progress are returned without jobs.
func fetchJobsOfRuns(ctx context.Context, fetcher WorkflowRunsFetcher, config RepositoryConfig, runs []WorkflowRun) ([]RunJobs, error) {
	result := make([]RunJobs, 0, len(runs))
	for _, run := range runs {
		entry := RunJobs{Run: run}
		if run.Status == "completed" {
			jobs, err := fetcher.FetchRunJobs(ctx, config.Owner, config.Repo, run.ID)
			if err != nil {
				return nil, err
			}
			entry.Jobs = jobs
		}
		result = append(result, entry)
	}
	return result, nil
}

// isAnalyzableWorkflow excludes workflows without an ID and the dynamic
// workflows GitHub manages itself.
func isAnalyzableWorkflow(w WorkflowRecord) bool {
	if w.ID == nil {
		return false
	}
	return !strings.HasPrefix(stringutil.ValueOr(w.Path, ""), constants.DynamicWorkflowPrefix)
}

func renderHealthSummary(out io.Writer, summary HealthSummary) {
	if len(summary.Workflows) == 0 {
		fmt.Fprintln(out, "No workflow runs found.")
		return
	}

	rows := make([][]string, 0, len(summary.Workflows))
	for _, wh := range summary.Workflows {
		name := stringutil.Truncate(wh.WorkflowName, 40)
		if wh.BelowThresh {
			name = "⚠ " + name
		}
		rows = append(rows, []string{
			name,
			wh.Kind,
			strconv.Itoa(wh.TotalRuns),
			wh.DisplayRate,
			wh.Trend,
			wh.DisplayDur,
			wh.LatestConclusion,
		})
	}

	fmt.Fprint(out, console.RenderTable(console.TableConfig{
		Title:   fmt.Sprintf("Workflow health for %s (%s)", summary.Repository, summary.Period),
		Headers: []string{"Workflow", "Kind", "Runs", "Success Rate", "Trend", "Avg Duration", "Latest"},
		Rows:    rows,
	}))
	fmt.Fprintf(out, "\n%d workflow(s), %d healthy, %d below the %.0f%% threshold\n",
		summary.TotalWorkflows, summary.HealthyWorkflows, summary.BelowThreshold, summary.Threshold)
}

func renderJobTables(out io.Writer, workflows []WorkflowHealth) {
	for _, wh := range workflows {
		fmt.Fprintln(out)
		if len(wh.Jobs) == 0 {
			fmt.Fprintf(out, "No job data for %s.\n", wh.WorkflowName)
			continue
		}

		rows := make([][]string, 0, len(wh.Jobs))
		for _, job := range wh.Jobs {
			symbols := make([]string, 0, len(job.Results))
			for _, r := range job.Results {
				symbols = append(symbols, r.Result.Symbol())
			}
			rows = append(rows, []string{
				stringutil.Truncate(job.Name, 50),
				console.FormatPassRate(job.PassRate),
				strconv.Itoa(job.Runs),
				strconv.Itoa(job.Fails),
				strconv.Itoa(job.Skips),
				strings.Join(symbols, " "),
			})
		}

		fmt.Fprint(out, console.RenderTable(console.TableConfig{
			Title:   fmt.Sprintf("Jobs of %s", wh.WorkflowName),
			Headers: []string{"Job", "Pass Rate", "Runs", "Fails", "Skips", "Recent Runs (newest first)"},
			Rows:    rows,
		}))
	}
}
