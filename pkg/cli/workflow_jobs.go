package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
)

var workflowJobsLog = logger.New("cli:workflow_jobs")

// WorkflowJob is a single job of a workflow run.
type WorkflowJob struct {
	ID         int64  `json:"id"`
	RunID      int64  `json:"run_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	HTMLURL    string `json:"html_url"`
}

type workflowJobsResponse struct {
	TotalCount int           `json:"total_count"`
	Jobs       []WorkflowJob `json:"jobs"`
}

// FetchRunJobs returns every job of a workflow run, following pagination until
// total_count jobs have been listed.
func (c *WorkflowsClient) FetchRunJobs(ctx context.Context, owner, repo string, runID int64) ([]WorkflowJob, error) {
	var jobs []WorkflowJob
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/runs/%d/jobs?per_page=%d&page=%d",
			c.apiURL, url.PathEscape(owner), url.PathEscape(repo), runID, constants.JobsPerPage, page)
		workflowJobsLog.Printf("GET %s", endpoint)

		resp, err := c.fetchJobsPage(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch jobs of run %d: %w", runID, err)
		}
		jobs = append(jobs, resp.Jobs...)

		if len(resp.Jobs) == 0 || page*constants.JobsPerPage >= resp.TotalCount {
			break
		}
	}
	workflowJobsLog.Printf("Fetched %d jobs for run %d", len(jobs), runID)
	return jobs, nil
}

func (c *WorkflowsClient) fetchJobsPage(ctx context.Context, endpoint string) (workflowJobsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp workflowJobsResponse
	err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// JobResult is the outcome of a job in one run.
type JobResult string

const (
	JobPass    JobResult = "Pass"
	JobFail    JobResult = "Fail"
	JobSkip    JobResult = "Skip"
	JobPending JobResult = "Pending"
)

// Symbol returns the one-character marker used in the jobs table.
func (r JobResult) Symbol() string {
	switch r {
	case JobPass:
		return "✓"
	case JobFail:
		return "✗"
	case JobSkip:
		return "○"
	default:
		return "●"
	}
}

// jobResult classifies a job. Jobs without a conclusion are still running;
// anything other than success or skipped (cancelled, timed_out, ...) fails.
func jobResult(job WorkflowJob) JobResult {
	switch job.Conclusion {
	case "success":
		return JobPass
	case "skipped":
		return JobSkip
	case "":
		return JobPending
	default:
		return JobFail
	}
}

// JobRun is one execution of a job.
type JobRun struct {
	RunNumber int       `json:"run_number"`
	Result    JobResult `json:"result"`
	URL       string    `json:"url,omitempty"`
}

// JobStats aggregates the executions of one job name across runs.
type JobStats struct {
	Name     string   `json:"name"`
	Runs     int      `json:"runs"`
	Passes   int      `json:"passes"`
	Fails    int      `json:"fails"`
	Skips    int      `json:"skips"`
	PassRate float64  `json:"pass_rate"`
	Results  []JobRun `json:"results"`
}

// RunJobs pairs a run with its jobs.
type RunJobs struct {
	Run  WorkflowRun
	Jobs []WorkflowJob
}

// CalculateJobStats groups the jobs of runs (newest first) by job name. The
// result is ordered by ascending pass rate, so the least reliable jobs come
// first, then by name.
func CalculateJobStats(runs []RunJobs) []JobStats {
	index := make(map[string]int)
	var stats []JobStats

	for _, run := range runs {
		for _, job := range run.Jobs {
			i, ok := index[job.Name]
			if !ok {
				i = len(stats)
				index[job.Name] = i
				stats = append(stats, JobStats{Name: job.Name})
			}
			stat := &stats[i]

			result := jobResult(job)
			stat.Runs++
			switch result {
			case JobPass:
				stat.Passes++
			case JobFail:
				stat.Fails++
			case JobSkip:
				stat.Skips++
			}
			stat.Results = append(stat.Results, JobRun{
				RunNumber: run.Run.RunNumber,
				Result:    result,
				URL:       job.HTMLURL,
			})
		}
	}

	for i := range stats {
		stats[i].PassRate = float64(stats[i].Passes) / float64(stats[i].Runs) * 100
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].PassRate != stats[j].PassRate {
			return stats[i].PassRate < stats[j].PassRate
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}
