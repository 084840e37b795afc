package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
	"github.com/urunc-dev/urunc-workflows/pkg/sliceutil"
)

var categorizeLog = logger.New("cli:workflows_categorize")

// GroupBy selects the category key of a workflow.
type GroupBy string

const (
	// GroupByName buckets workflows by their display name.
	GroupByName GroupBy = "name"
	// GroupByKind buckets workflows by a keyword heuristic on their name.
	GroupByKind GroupBy = "kind"
)

// Workflow kinds used by GroupByKind.
const (
	KindCITesting   = "CI / Testing"
	KindBuildDeploy = "Build / Deploy"
	KindCodeQuality = "Code Quality / Security"
	KindOther       = "Other"
)

// ParseGroupBy validates a --group-by value.
func ParseGroupBy(value string) (GroupBy, error) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(value))) {
	case "", GroupByName:
		return GroupByName, nil
	case GroupByKind:
		return GroupByKind, nil
	default:
		return "", fmt.Errorf("invalid group-by %q: must be %q or %q", value, GroupByName, GroupByKind)
	}
}

// CategoryMap holds workflows grouped by category. Categories keep the order
// in which they were first seen; workflows keep their input order.
type CategoryMap struct {
	names  []string
	groups map[string][]WorkflowRecord
}

// Names returns the category names in first-seen order.
func (c *CategoryMap) Names() []string {
	return append([]string(nil), c.names...)
}

// SortedNames returns the category names sorted alphabetically.
func (c *CategoryMap) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Workflows returns the workflows of category name.
func (c *CategoryMap) Workflows(name string) []WorkflowRecord {
	return c.groups[name]
}

// Len returns the number of categories.
func (c *CategoryMap) Len() int {
	return len(c.names)
}

// Total returns the number of workflows across all categories.
func (c *CategoryMap) Total() int {
	total := 0
	for _, group := range c.groups {
		total += len(group)
	}
	return total
}

// CategorizeWorkflows groups workflows by name. Workflows without a name go to
// the "Uncategorized" category.
func CategorizeWorkflows(workflows []WorkflowRecord) *CategoryMap {
	return CategorizeWorkflowsBy(workflows, GroupByName)
}

// CategorizeWorkflowsBy groups workflows by the key selected by groupBy.
func CategorizeWorkflowsBy(workflows []WorkflowRecord, groupBy GroupBy) *CategoryMap {
	key := nameCategory
	if groupBy == GroupByKind {
		key = kindCategory
	}

	names, groups := sliceutil.GroupBy(workflows, key)
	categorizeLog.Printf("Categorized %d workflows into %d categories (group-by=%s)", len(workflows), len(names), groupBy)
	return &CategoryMap{names: names, groups: groups}
}

func nameCategory(w WorkflowRecord) string {
	if w.Name == nil || *w.Name == "" {
		return constants.UncategorizedCategory
	}
	return *w.Name
}

func kindCategory(w WorkflowRecord) string {
	if w.Name == nil || *w.Name == "" {
		return constants.UncategorizedCategory
	}
	return ClassifyWorkflowKind(*w.Name)
}

// ClassifyWorkflowKind maps a workflow name to a coarse kind by keyword.
// Checks run in order, so "Nightly build" is a CI / Testing workflow.
func ClassifyWorkflowKind(name string) string {
	lower := strings.ToLower(name)
	switch {
	case sliceutil.ContainsAny(lower, "ci", "nightly", "test"):
		return KindCITesting
	case sliceutil.ContainsAny(lower, "build", "upload", "deploy", "release"):
		return KindBuildDeploy
	case sliceutil.ContainsAny(lower, "lint", "codeql", "scorecard", "dependency", "validate"):
		return KindCodeQuality
	default:
		return KindOther
	}
}
