//go:build !integration

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthConfig(runs int, threshold float64, asJSON bool) HealthConfig {
	return HealthConfig{
		RepositoryConfig: RepositoryConfig{Owner: "urunc-dev", Repo: "urunc"},
		Runs:             runs,
		Threshold:        threshold,
		JSON:             asJSON,
	}
}

func healthFetcher() *fakeFetcher {
	return &fakeFetcher{
		workflows: []WorkflowRecord{
			workflowRecord("CI", ".github/workflows/ci.yml", "active", 1),
			workflowRecord("Release", ".github/workflows/release.yml", "active", 2),
			workflowRecord("Dependabot Updates", "dynamic/dependabot/dependabot-updates", "active", 3),
			{Name: strPtr("No ID"), Path: strPtr(".github/workflows/noid.yml")},
			workflowRecord("Lint", ".github/workflows/lint.yml", "active", 4),
		},
		runs: map[int64][]WorkflowRun{
			1: {
				{Status: "completed", Conclusion: "success", Duration: 2 * time.Minute},
				{Status: "completed", Conclusion: "success", Duration: 4 * time.Minute},
			},
			2: {
				{Status: "completed", Conclusion: "failure", Duration: time.Minute},
				{Status: "completed", Conclusion: "success", Duration: time.Minute},
			},
		},
		runErrs: map[int64]error{
			4: errors.New("rate limited"),
		},
	}
}

func TestRunHealthSkipsUnanalyzableWorkflows(t *testing.T) {
	fetcher := healthFetcher()
	var out bytes.Buffer

	err := RunHealth(context.Background(), fetcher, healthConfig(5, 80, true), &out, &bytes.Buffer{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{1, 2, 4}, fetcher.runCalls, "Dynamic workflows and workflows without an ID are not queried")
	for _, count := range fetcher.runCounts {
		assert.Equal(t, 5, count, "Configured run count should be passed through")
	}
}

func TestRunHealthJSON(t *testing.T) {
	var out bytes.Buffer

	err := RunHealth(context.Background(), healthFetcher(), healthConfig(10, 80, true), &out, &bytes.Buffer{})
	require.NoError(t, err)

	var summary HealthSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary), "Output should be valid JSON")

	assert.Equal(t, "urunc-dev/urunc", summary.Repository)
	assert.Equal(t, "last 10 runs", summary.Period)
	assert.Equal(t, 2, summary.TotalWorkflows, "Failed and run-less workflows are dropped")
	assert.Equal(t, 1, summary.HealthyWorkflows)
	assert.Equal(t, 1, summary.BelowThreshold)

	require.Len(t, summary.Workflows, 2)
	assert.Equal(t, "CI", summary.Workflows[0].WorkflowName, "Workflows should be sorted by name")
	assert.Equal(t, "Release", summary.Workflows[1].WorkflowName)
	assert.InDelta(t, 100.0, summary.Workflows[0].SuccessRate, 0.01)
	assert.InDelta(t, 50.0, summary.Workflows[1].SuccessRate, 0.01)
	assert.True(t, summary.Workflows[1].BelowThresh)
	assert.Nil(t, summary.Workflows[0].Jobs, "Jobs are only fetched on request")
	assert.NotContains(t, out.String(), "\"jobs\"")
}

func TestRunHealthTable(t *testing.T) {
	var out bytes.Buffer

	err := RunHealth(context.Background(), healthFetcher(), healthConfig(10, 80, false), &out, &bytes.Buffer{})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Workflow health for urunc-dev/urunc (last 10 runs)")
	assert.Contains(t, output, "Success Rate")
	assert.Contains(t, output, "100%  (2/2)")
	assert.Contains(t, output, "⚠ Release", "Workflows below the threshold should be marked")
	assert.NotContains(t, output, "⚠ CI")
	assert.Contains(t, output, "2 workflow(s), 1 healthy, 1 below the 80% threshold")
}

func TestRunHealthNoRuns(t *testing.T) {
	fetcher := &fakeFetcher{
		workflows: []WorkflowRecord{workflowRecord("CI", "ci.yml", "active", 1)},
	}
	var out bytes.Buffer

	err := RunHealth(context.Background(), fetcher, healthConfig(10, 80, false), &out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "No workflow runs found.\n", out.String())
}

func TestRunHealthFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: &FetchError{Owner: "o", Repo: "r", Err: errors.New("boom")}}
	var out bytes.Buffer

	err := RunHealth(context.Background(), fetcher, healthConfig(10, 80, false), &out, &bytes.Buffer{})
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, out.String(), "Nothing should be written on failure")
	assert.Empty(t, fetcher.runCalls)
}

func TestIsAnalyzableWorkflow(t *testing.T) {
	assert.True(t, isAnalyzableWorkflow(workflowRecord("CI", ".github/workflows/ci.yml", "active", 1)))
	assert.False(t, isAnalyzableWorkflow(workflowRecord("Pages", "dynamic/pages/pages-build-deployment", "active", 2)))
	assert.False(t, isAnalyzableWorkflow(WorkflowRecord{Name: strPtr("CI")}))
	assert.True(t, isAnalyzableWorkflow(WorkflowRecord{ID: int64Ptr(5)}), "A missing path is not dynamic")
}

func TestNewHealthCommand(t *testing.T) {
	cmd := NewHealthCommand()

	assert.Equal(t, "health", cmd.Use)
	for _, name := range []string{"owner", "repo", "api-url", "auth", "runs", "threshold", "json", "jobs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Flag %q should be registered", name)
	}
	assert.Equal(t, "j", cmd.Flags().Lookup("json").Shorthand)
	assert.Equal(t, "10", cmd.Flags().Lookup("runs").DefValue)
}

// jobsFetcher serves two workflows whose completed runs carry jobs. Run 12 of
// CI is still in progress and has no jobs.
func jobsFetcher() *fakeFetcher {
	return &fakeFetcher{
		workflows: []WorkflowRecord{
			workflowRecord("CI", ".github/workflows/ci.yml", "active", 1),
			workflowRecord("Nightly", ".github/workflows/nightly.yml", "active", 2),
		},
		runs: map[int64][]WorkflowRun{
			1: {
				{ID: 12, RunNumber: 3, Status: "in_progress"},
				{ID: 11, RunNumber: 2, Status: "completed", Conclusion: "failure"},
				{ID: 10, RunNumber: 1, Status: "completed", Conclusion: "success"},
			},
			2: {
				{ID: 20, RunNumber: 7, Status: "queued"},
			},
		},
		jobs: map[int64][]WorkflowJob{
			11: {
				{Name: "unit", Conclusion: "failure", HTMLURL: "https://github.com/urunc-dev/urunc/actions/runs/11/job/1"},
				{Name: "lint", Conclusion: "success"},
				{Name: "e2e", Conclusion: "skipped"},
			},
			10: {
				{Name: "unit", Conclusion: "success"},
				{Name: "lint", Conclusion: "success"},
				{Name: "e2e", Conclusion: "success"},
			},
		},
	}
}

func jobsConfig(asJSON bool) HealthConfig {
	config := healthConfig(10, 80, asJSON)
	config.Jobs = true
	return config
}

func TestRunHealthJobsJSON(t *testing.T) {
	fetcher := jobsFetcher()
	var out bytes.Buffer

	err := RunHealth(context.Background(), fetcher, jobsConfig(true), &out, &bytes.Buffer{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{11, 10}, fetcher.jobCalls, "Only completed runs have their jobs fetched")

	var summary HealthSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	require.Len(t, summary.Workflows, 2)

	ci := summary.Workflows[0]
	require.Equal(t, "CI", ci.WorkflowName)
	require.Len(t, ci.Jobs, 3)

	assert.Equal(t, "e2e", ci.Jobs[0].Name, "Lowest pass rate first")
	assert.Equal(t, 1, ci.Jobs[0].Skips)
	assert.InDelta(t, 50.0, ci.Jobs[0].PassRate, 0.01)
	assert.Equal(t, "unit", ci.Jobs[1].Name)
	assert.Equal(t, 1, ci.Jobs[1].Fails)
	assert.Equal(t, []JobRun{
		{RunNumber: 2, Result: JobFail, URL: "https://github.com/urunc-dev/urunc/actions/runs/11/job/1"},
		{RunNumber: 1, Result: JobPass},
	}, ci.Jobs[1].Results)
	assert.Equal(t, "lint", ci.Jobs[2].Name)
	assert.InDelta(t, 100.0, ci.Jobs[2].PassRate, 0.01)

	assert.Equal(t, "Nightly", summary.Workflows[1].WorkflowName)
	assert.Empty(t, summary.Workflows[1].Jobs, "Runs that have not completed contribute no jobs")
}

func TestRunHealthJobsTable(t *testing.T) {
	var out bytes.Buffer

	err := RunHealth(context.Background(), jobsFetcher(), jobsConfig(false), &out, &bytes.Buffer{})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Jobs of CI")
	assert.Contains(t, output, "Pass Rate")
	assert.Contains(t, output, "50.0%")
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "✗ ✓", "Recent results are listed newest first")
	assert.Contains(t, output, "○ ✓")
	assert.Contains(t, output, "No job data for Nightly.")
	assert.Less(t, strings.Index(output, "Workflow health for"), strings.Index(output, "Jobs of CI"), "Job tables follow the workflow table")
}

func TestRunHealthJobsErrorSkipsWorkflow(t *testing.T) {
	fetcher := jobsFetcher()
	fetcher.jobErrs = map[int64]error{10: errors.New("HTTP 403: rate limit exceeded")}
	var out, errOut bytes.Buffer

	err := RunHealth(context.Background(), fetcher, jobsConfig(true), &out, &errOut)
	require.NoError(t, err)

	var summary HealthSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	require.Len(t, summary.Workflows, 1)
	assert.Equal(t, "Nightly", summary.Workflows[0].WorkflowName)
	assert.Contains(t, errOut.String(), "⚠ Skipping CI: HTTP 403: rate limit exceeded")
}

func TestRunHealthWritesProgressToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer

	err := RunHealth(context.Background(), healthFetcher(), healthConfig(10, 80, true), &out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, errOut.String(), "ℹ Fetching workflows for urunc-dev/urunc...")
	assert.Contains(t, errOut.String(), "🔨 Fetching the last 10 runs of 3 workflow(s)...")
	assert.Contains(t, errOut.String(), "⚠ Skipping Lint: rate limited")
	assert.NotContains(t, out.String(), "Fetching")
	assert.NotContains(t, out.String(), "Skipping")
}
