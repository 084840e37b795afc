package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
)

var configLog = logger.New("cli:config")

// RepositoryConfig identifies the target repository and how to reach the API.
type RepositoryConfig struct {
	Owner   string
	Repo    string
	APIURL  string
	Auth    bool
	Verbose bool
}

// Slug returns "owner/repo".
func (c RepositoryConfig) Slug() string {
	return c.Owner + "/" + c.Repo
}

func (c RepositoryConfig) clientOptions() ClientOptions {
	return ClientOptions{APIURL: c.APIURL, Auth: c.Auth}
}

// ReportConfig configures the summary and export reports.
type ReportConfig struct {
	RepositoryConfig
	// Export is the output file; empty selects the console summary.
	Export  string
	Format  ExportFormat
	GroupBy GroupBy
}

// AddRepositoryFlags registers the flags selecting the target repository.
func AddRepositoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", constants.DefaultOwner, "GitHub repository owner")
	cmd.Flags().String("repo", constants.DefaultRepo, "GitHub repository name")
	cmd.Flags().String("api-url", constants.DefaultAPIURL, "GitHub REST API base URL")
	cmd.Flags().Bool("auth", false, "Authenticate with the token from GH_TOKEN, GITHUB_TOKEN or 'gh auth login'")
}

// AddReportFlags registers the flags of the summary/export report.
func AddReportFlags(cmd *cobra.Command) {
	AddRepositoryFlags(cmd)
	cmd.Flags().String("export", "", "Export workflow data to `FILE` instead of printing a summary")
	cmd.Flags().String("format", string(ExportFormatJSON), "Export format: json or yaml")
	cmd.Flags().String("group-by", string(GroupByName), "Category key: name or kind")
	RegisterReportFlagCompletions(cmd)
}

// newConfigViper layers flags over environment variables over the optional
// config file. Unset values fall back to the flag defaults.
func newConfigViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(constants.ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		configLog.Print("No config file found")
	} else {
		configLog.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

func loadRepositoryConfig(v *viper.Viper) RepositoryConfig {
	config := RepositoryConfig{
		Owner:   strings.TrimSpace(v.GetString("owner")),
		Repo:    strings.TrimSpace(v.GetString("repo")),
		APIURL:  strings.TrimSpace(v.GetString("api-url")),
		Auth:    v.GetBool("auth"),
		Verbose: v.GetBool("verbose"),
	}
	if config.Owner == "" {
		config.Owner = constants.DefaultOwner
	}
	if config.Repo == "" {
		config.Repo = constants.DefaultRepo
	}
	if config.APIURL == "" {
		config.APIURL = constants.DefaultAPIURL
	}
	return config
}

// LoadReportConfig resolves the report configuration for cmd.
func LoadReportConfig(cmd *cobra.Command) (ReportConfig, error) {
	v, err := newConfigViper(cmd)
	if err != nil {
		return ReportConfig{}, err
	}

	format, err := ParseExportFormat(v.GetString("format"))
	if err != nil {
		return ReportConfig{}, err
	}
	groupBy, err := ParseGroupBy(v.GetString("group-by"))
	if err != nil {
		return ReportConfig{}, err
	}

	config := ReportConfig{
		RepositoryConfig: loadRepositoryConfig(v),
		Export:           strings.TrimSpace(v.GetString("export")),
		Format:           format,
		GroupBy:          groupBy,
	}
	configLog.Printf("Report config: repository=%s, export=%q, format=%s, group-by=%s", config.Slug(), config.Export, config.Format, config.GroupBy)
	return config, nil
}
