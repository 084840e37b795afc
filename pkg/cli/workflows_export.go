package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/urunc-dev/urunc-workflows/pkg/console"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
	"github.com/urunc-dev/urunc-workflows/pkg/timeutil"
)

var exportLog = logger.New("cli:workflows_export")

// ExportFormat is the serialization of the export document.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatYAML ExportFormat = "yaml"
)

// ParseExportFormat validates a --format value.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", ExportFormatJSON:
		return ExportFormatJSON, nil
	case ExportFormatYAML, "yml":
		return ExportFormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be %q or %q", value, ExportFormatJSON, ExportFormatYAML)
	}
}

// RunWorkflowExport fetches the workflows of the configured repository and
// writes the export document to config.Export, replacing any existing file.
// The confirmation goes to out and progress lines to errOut.
func RunWorkflowExport(ctx context.Context, fetcher WorkflowFetcher, config ReportConfig, out, errOut io.Writer) error {
	fmt.Fprintln(errOut, console.FormatInfoMessage(fmt.Sprintf("Fetching workflows for %s/%s...", config.Owner, config.Repo)))

	workflows, err := fetcher.FetchWorkflows(ctx, config.Owner, config.Repo)
	if err != nil {
		return err
	}

	categories := CategorizeWorkflowsBy(workflows, config.GroupBy)
	doc := BuildExportDocument(config.Owner, config.Repo, workflows, categories, time.Now())

	data, err := MarshalExportDocument(doc, config.Format)
	if err != nil {
		return err
	}

	if err := writeExportFile(config.Export, data); err != nil {
		return err
	}

	fmt.Fprintln(out, console.FormatSuccessMessage("Workflows exported to "+config.Export))
	return nil
}

// BuildExportDocument converts categorized workflows into an export document.
// Every workflow of every category is included.
func BuildExportDocument(owner, repo string, workflows []WorkflowRecord, categories *CategoryMap, generatedAt time.Time) ExportDocument {
	doc := ExportDocument{
		GeneratedAt:    timeutil.FormatExportTimestamp(generatedAt),
		Repository:     owner + "/" + repo,
		TotalWorkflows: len(workflows),
		Categories:     make(map[string][]WorkflowDetail, categories.Len()),
	}

	for _, name := range categories.SortedNames() {
		group := categories.Workflows(name)
		details := make([]WorkflowDetail, 0, len(group))
		for _, w := range group {
			details = append(details, WorkflowDetail{
				Name:      w.Name,
				Path:      w.Path,
				State:     w.State,
				ID:        w.ID,
				CreatedAt: w.CreatedAt,
				UpdatedAt: w.UpdatedAt,
				URL:       WorkflowURL(owner, repo, w.Path),
			})
		}
		doc.Categories[name] = details
	}

	exportLog.Printf("Built export document: repository=%s, workflows=%d, categories=%d", doc.Repository, doc.TotalWorkflows, len(doc.Categories))
	return doc
}

// MarshalExportDocument serializes doc with two-space indentation.
// Category keys are emitted in sorted order in both formats.
func MarshalExportDocument(doc ExportDocument, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatYAML:
		data, err := yaml.MarshalWithOptions(exportYAML(doc), yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	case ExportFormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// exportYAML mirrors ExportDocument with explicit key order.
func exportYAML(doc ExportDocument) yaml.MapSlice {
	var categories any = map[string][]WorkflowDetail{}
	if len(doc.Categories) > 0 {
		names := make([]string, 0, len(doc.Categories))
		for name := range doc.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		ordered := make(yaml.MapSlice, 0, len(names))
		for _, name := range names {
			ordered = append(ordered, yaml.MapItem{Key: name, Value: doc.Categories[name]})
		}
		categories = ordered
	}

	return yaml.MapSlice{
		{Key: "generated_at", Value: doc.GeneratedAt},
		{Key: "repository", Value: doc.Repository},
		{Key: "total_workflows", Value: doc.TotalWorkflows},
		{Key: "categories", Value: categories},
	}
}

func writeExportFile(path string, data []byte) error {
	exportLog.Printf("Writing %d bytes to %s", len(data), path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return nil
}
