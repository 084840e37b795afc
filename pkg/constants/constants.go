// Package constants holds the fixed values shared by the urunc-workflows packages:
// the GitHub endpoints, request headers, defaults for the target repository and
// the sentinel used when a workflow has no name.
package constants

import "time"

// CLIName is the name of the binary as shown in help text.
const CLIName = "urunc-workflows"

// Default target repository when --owner/--repo are not given.
const (
	DefaultOwner = "urunc-dev"
	DefaultRepo  = "urunc"
)

// GitHub endpoints.
const (
	DefaultAPIURL = "https://api.github.com"
	DefaultWebURL = "https://github.com"
)

// GitHubAPIAcceptHeader is sent on every request to the Actions API.
const GitHubAPIAcceptHeader = "application/vnd.github.v3+json"

// FetchTimeout bounds a single request to the GitHub API.
const FetchTimeout = 10 * time.Second

// UncategorizedCategory is the category key for workflows without a name.
const UncategorizedCategory = "Uncategorized"

// DynamicWorkflowPrefix marks workflows GitHub creates on the fly (Dependabot,
// CodeQL default setup, ...). They have no workflow file in the repository.
const DynamicWorkflowPrefix = "dynamic/"

// Health reporting defaults.
const (
	DefaultHealthRuns        = 10
	DefaultHealthThreshold   = 80.0
	MaxConcurrentRunRequests = 4
	// JobsPerPage is the page size used when listing the jobs of a run.
	JobsPerPage = 50
)

// EnvPrefix is the prefix for environment variables that override flags,
// e.g. URUNC_WORKFLOWS_OWNER.
const EnvPrefix = "URUNC_WORKFLOWS"

// ConfigFileName is the optional config file looked up in the working directory
// (without extension; .yaml and .yml are both accepted).
const ConfigFileName = ".urunc-workflows"
