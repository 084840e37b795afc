package cli

import (
	"fmt"

	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/stringutil"
)

// WorkflowRecord is a workflow as returned by the Actions API. Fields are
// pointers so that values missing from the response stay distinguishable
// and are exported as null.
type WorkflowRecord struct {
	ID        *int64  `json:"id"`
	Name      *string `json:"name"`
	Path      *string `json:"path"`
	State     *string `json:"state"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
	HTMLURL   *string `json:"html_url,omitempty"`
}

// workflowsResponse is the body of GET /repos/{owner}/{repo}/actions/workflows.
type workflowsResponse struct {
	TotalCount int              `json:"total_count"`
	Workflows  []WorkflowRecord `json:"workflows"`
}

// WorkflowDetail is a workflow entry in the export document.
type WorkflowDetail struct {
	Name      *string `json:"name" yaml:"name"`
	Path      *string `json:"path" yaml:"path"`
	State     *string `json:"state" yaml:"state"`
	ID        *int64  `json:"id" yaml:"id"`
	CreatedAt *string `json:"created_at" yaml:"created_at"`
	UpdatedAt *string `json:"updated_at" yaml:"updated_at"`
	URL       string  `json:"url" yaml:"url"`
}

// ExportDocument is the snapshot written by the export mode.
type ExportDocument struct {
	GeneratedAt    string                      `json:"generated_at"`
	Repository     string                      `json:"repository"`
	TotalWorkflows int                         `json:"total_workflows"`
	Categories     map[string][]WorkflowDetail `json:"categories"`
}

const missingValue = "-"

// displayID renders the workflow ID for the console, or "-" when absent.
func (w WorkflowRecord) displayID() string {
	if w.ID == nil {
		return missingValue
	}
	return fmt.Sprintf("%d", *w.ID)
}

// WorkflowURL builds the browser URL of a workflow from its path.
// A missing path yields the URL of the workflows page itself.
func WorkflowURL(owner, repo string, workflowPath *string) string {
	return fmt.Sprintf("%s/%s/%s/actions/workflows/%s",
		constants.DefaultWebURL, owner, repo, stringutil.ValueOr(workflowPath, ""))
}
