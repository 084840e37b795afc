//go:build !integration

package cli

import (
	"context"
	"sync"
)

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

// workflowRecord builds a record with every field the summary needs.
func workflowRecord(name, path, state string, id int64) WorkflowRecord {
	return WorkflowRecord{
		ID:    int64Ptr(id),
		Name:  strPtr(name),
		Path:  strPtr(path),
		State: strPtr(state),
	}
}

// exampleWorkflows is the three-workflow example: two "CI" entries and one "Release".
func exampleWorkflows() []WorkflowRecord {
	return []WorkflowRecord{
		workflowRecord("CI", "ci.yml", "active", 1),
		workflowRecord("CI", "ci-old.yml", "disabled", 2),
		workflowRecord("Release", "release.yml", "active", 3),
	}
}

// fakeFetcher serves canned workflows and runs.
type fakeFetcher struct {
	workflows []WorkflowRecord
	err       error
	runs      map[int64][]WorkflowRun
	runErrs   map[int64]error
	jobs      map[int64][]WorkflowJob
	jobErrs   map[int64]error

	mu        sync.Mutex
	runCalls  []int64
	runCounts []int
	jobCalls  []int64
}

func (f *fakeFetcher) FetchWorkflows(_ context.Context, owner, repo string) ([]WorkflowRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workflows, nil
}

func (f *fakeFetcher) FetchWorkflowRuns(_ context.Context, owner, repo string, workflowID int64, count int) ([]WorkflowRun, error) {
	f.mu.Lock()
	f.runCalls = append(f.runCalls, workflowID)
	f.runCounts = append(f.runCounts, count)
	f.mu.Unlock()

	if err := f.runErrs[workflowID]; err != nil {
		return nil, err
	}
	return f.runs[workflowID], nil
}

func (f *fakeFetcher) FetchRunJobs(_ context.Context, owner, repo string, runID int64) ([]WorkflowJob, error) {
	f.mu.Lock()
	f.jobCalls = append(f.jobCalls, runID)
	f.mu.Unlock()

	if err := f.jobErrs[runID]; err != nil {
		return nil, err
	}
	return f.jobs[runID], nil
}
