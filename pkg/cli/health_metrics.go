package cli

import (
	"fmt"
	"time"

	"github.com/urunc-dev/urunc-workflows/pkg/logger"
	"github.com/urunc-dev/urunc-workflows/pkg/stringutil"
	"github.com/urunc-dev/urunc-workflows/pkg/timeutil"
)

var healthMetricsLog = logger.New("cli:health_metrics")

// WorkflowHealth represents health metrics for a single workflow
type WorkflowHealth struct {
	WorkflowName     string        `json:"workflow_name"`
	Path             string        `json:"path"`
	Kind             string        `json:"kind"`
	TotalRuns        int           `json:"total_runs"`
	SuccessCount     int           `json:"success_count"`
	FailureCount     int           `json:"failure_count"`
	SuccessRate      float64       `json:"success_rate"`
	DisplayRate      string        `json:"-"`
	Trend            string        `json:"trend"`
	AvgDuration      time.Duration `json:"avg_duration"`
	DisplayDur       string        `json:"-"`
	LatestConclusion string        `json:"latest_conclusion"`
	LatestRunURL     string        `json:"latest_run_url,omitempty"`
	BelowThresh      bool          `json:"below_threshold"`
	Jobs             []JobStats    `json:"jobs,omitempty"`
}

// HealthSummary represents aggregated health metrics across all workflows
type HealthSummary struct {
	Repository       string           `json:"repository"`
	Period           string           `json:"period"`
	Threshold        float64          `json:"threshold"`
	TotalWorkflows   int              `json:"total_workflows"`
	HealthyWorkflows int              `json:"healthy_workflows"`
	BelowThreshold   int              `json:"below_threshold"`
	Workflows        []WorkflowHealth `json:"workflows"`
}

// TrendDirection represents the trend of a workflow's health
type TrendDirection int

const (
	TrendImproving TrendDirection = iota
	TrendStable
	TrendDegrading
)

// String returns the visual indicator for the trend
func (t TrendDirection) String() string {
	switch t {
	case TrendImproving:
		return "↑"
	case TrendStable:
		return "→"
	case TrendDegrading:
		return "↓"
	default:
		return "?"
	}
}

// isFailureConclusion reports whether a run conclusion counts as a failure.
// Cancelled and skipped runs are neither successes nor failures.
func isFailureConclusion(conclusion string) bool {
	switch conclusion {
	case "failure", "timed_out", "startup_failure":
		return true
	default:
		return false
	}
}

// CalculateWorkflowHealth calculates health metrics for a workflow from its
// runs, newest first. Runs still in progress count toward the total only.
func CalculateWorkflowHealth(workflow WorkflowRecord, runs []WorkflowRun, threshold float64) WorkflowHealth {
	name := nameCategory(workflow)
	healthMetricsLog.Printf("Calculating health for workflow: %s, runs: %d", name, len(runs))

	health := WorkflowHealth{
		WorkflowName: name,
		Path:         stringutil.ValueOr(workflow.Path, ""),
		Kind:         kindCategory(workflow),
	}

	if len(runs) == 0 {
		health.DisplayRate = "N/A"
		health.Trend = TrendStable.String()
		health.DisplayDur = "N/A"
		health.LatestConclusion = missingValue
		return health
	}

	successCount := 0
	failureCount := 0
	completed := 0
	var totalDuration time.Duration

	for _, run := range runs {
		if run.Conclusion == "success" {
			successCount++
		} else if isFailureConclusion(run.Conclusion) {
			failureCount++
		}
		if run.Duration > 0 {
			totalDuration += run.Duration
			completed++
		}
	}

	totalRuns := len(runs)
	successRate := float64(successCount) / float64(totalRuns) * 100

	avgDuration := time.Duration(0)
	if completed > 0 {
		avgDuration = totalDuration / time.Duration(completed)
	}

	trend := calculateTrend(runs)

	latest := runs[0]
	latestConclusion := latest.Conclusion
	if latestConclusion == "" {
		latestConclusion = latest.Status
	}

	health.TotalRuns = totalRuns
	health.SuccessCount = successCount
	health.FailureCount = failureCount
	health.SuccessRate = successRate
	health.DisplayRate = fmt.Sprintf("%.0f%%  (%d/%d)", successRate, successCount, totalRuns)
	health.Trend = trend.String()
	health.AvgDuration = avgDuration
	health.DisplayDur = timeutil.FormatDuration(avgDuration)
	health.LatestConclusion = latestConclusion
	health.LatestRunURL = latest.HTMLURL
	health.BelowThresh = successRate < threshold

	healthMetricsLog.Printf("Health calculated: workflow=%s, successRate=%.2f%%, trend=%s", name, successRate, trend.String())

	return health
}

// calculateTrend compares the success rate of the newer half of runs against
// the older half.
func calculateTrend(runs []WorkflowRun) TrendDirection {
	if len(runs) < 4 {
		// Not enough data to determine trend
		return TrendStable
	}

	midpoint := len(runs) / 2
	recentSuccess := calculateSuccessRate(runs[:midpoint])
	olderSuccess := calculateSuccessRate(runs[midpoint:])

	diff := recentSuccess - olderSuccess

	const improvementThreshold = 5.0
	const degradationThreshold = -5.0

	if diff >= improvementThreshold {
		return TrendImproving
	} else if diff <= degradationThreshold {
		return TrendDegrading
	}
	return TrendStable
}

// calculateSuccessRate calculates the success rate for a set of runs
func calculateSuccessRate(runs []WorkflowRun) float64 {
	if len(runs) == 0 {
		return 0.0
	}

	successCount := 0
	for _, run := range runs {
		if run.Conclusion == "success" {
			successCount++
		}
	}

	return float64(successCount) / float64(len(runs)) * 100
}

// CalculateHealthSummary aggregates health metrics across all workflows
func CalculateHealthSummary(repository string, workflowHealths []WorkflowHealth, period string, threshold float64) HealthSummary {
	healthMetricsLog.Printf("Calculating health summary: workflows=%d, period=%s", len(workflowHealths), period)

	healthyCount := 0
	belowThresholdCount := 0

	for _, wh := range workflowHealths {
		if wh.TotalRuns > 0 && wh.SuccessRate >= threshold {
			healthyCount++
		}
		if wh.BelowThresh {
			belowThresholdCount++
		}
	}

	summary := HealthSummary{
		Repository:       repository,
		Period:           period,
		Threshold:        threshold,
		TotalWorkflows:   len(workflowHealths),
		HealthyWorkflows: healthyCount,
		BelowThreshold:   belowThresholdCount,
		Workflows:        workflowHealths,
	}

	healthMetricsLog.Printf("Health summary: total=%d, healthy=%d, below_threshold=%d", len(workflowHealths), healthyCount, belowThresholdCount)

	return summary
}
