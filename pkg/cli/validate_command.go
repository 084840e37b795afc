package cli

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"
	"github.com/urunc-dev/urunc-workflows/pkg/console"
	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
)

var validateLog = logger.New("cli:validate_command")

//go:embed schemas/workflows_export.schema.json
var exportSchemaJSON []byte

const exportSchemaURL = "https://urunc.dev/schemas/workflows-export.json"

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that an exported workflow snapshot is well formed",
		Long: `Validate a file written with --export against the export document schema.

Besides the schema, the command checks that total_workflows equals the
number of workflows listed across all categories. YAML exports are
converted to JSON before validation.

Examples:
  ` + constants.CLIName + ` --export workflows.json && ` + constants.CLIName + ` validate workflows.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: CompleteExportFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateExportFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage(args[0]+" is a valid workflow export"))
			return nil
		},
	}
}

// ValidateExportFile validates the export document stored at path.
func ValidateExportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		validateLog.Printf("Converting YAML export %s to JSON", path)
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return fmt.Errorf("failed to parse YAML in %s: %w", path, err)
		}
	}

	if err := ValidateExportDocument(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ValidateExportDocument validates a JSON export document.
func ValidateExportDocument(data []byte) error {
	schema, err := compileExportSchema()
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		validateLog.Printf("Schema validation failed: %v", err)
		return fmt.Errorf("export document does not match schema: %w", err)
	}

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid export document: %w", err)
	}
	listed := 0
	for _, details := range doc.Categories {
		listed += len(details)
	}
	if listed != doc.TotalWorkflows {
		return fmt.Errorf("total_workflows is %d but categories list %d workflows", doc.TotalWorkflows, listed)
	}

	validateLog.Printf("Export document valid: repository=%s, workflows=%d", doc.Repository, doc.TotalWorkflows)
	return nil
}

func compileExportSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(exportSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse export schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(exportSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add export schema: %w", err)
	}
	schema, err := compiler.Compile(exportSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile export schema: %w", err)
	}
	return schema, nil
}
