package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL      = "https://dev.azure.com"
	defaultSourceBranch = "main"
	workBranchPrefix    = "bulk-update-"
)

// Settings is the top-level configuration for a bulk update run,
// loaded once at startup from a YAML settings document.
type Settings struct {
	StringsToReplace []ReplacementRule `yaml:"strings_to_replace"`
	Scope            Scope             `yaml:"projects_and_repos"`
	OrganizationName string            `yaml:"organization_name"`
	BaseURL          string            `yaml:"ado_base_url"`
	SourceBranch     string            `yaml:"source_branch"`
	DryRun           bool              `yaml:"dry_run"`
	NewBranch        string            `yaml:"new_branch"`
	PAT              string            `yaml:"pat"`
	AzureAD          *AzureADConfig    `yaml:"azure_ad"`
}

// AzureADConfig holds client-credential settings for token-based
// authentication against Azure DevOps, as an alternative to a PAT.
type AzureADConfig struct {
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Scope is the ordered set of (project, repositories) pairs to search.
// An empty Scope yields a single unscoped iteration.
type Scope []ProjectScope

// UnmarshalYAML decodes the projects_and_repos mapping while preserving the
// order in which projects appear in the settings file.
func (s *Scope) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*s = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return errors.New("projects_and_repos must be a mapping of project to repository list")
	}

	out := make(Scope, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var pair ProjectScope
		if err := node.Content[i].Decode(&pair.Project); err != nil {
			return fmt.Errorf("failed to decode project name: %w", err)
		}
		value := node.Content[i+1]
		if value.Tag != "!!null" {
			if err := value.Decode(&pair.Repos); err != nil {
				return fmt.Errorf("failed to decode repositories for project %q: %w", pair.Project, err)
			}
		}
		out = append(out, pair)
	}

	*s = out
	return nil
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a settings file, expanding environment
// variables in secrets, resolving token file paths, and applying defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", unmarshalErr)
	}

	settings.PAT = resolveToken(settings.PAT)
	if settings.AzureAD != nil {
		settings.AzureAD.ClientSecret = resolveToken(settings.AzureAD.ClientSecret)
	}

	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// applyDefaults fills in the optional values the settings file may omit.
// The work branch default is date-stamped at load time so repeated runs on
// the same day reconcile against the same branch.
func (s *Settings) applyDefaults() {
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	s.BaseURL = strings.TrimSuffix(s.BaseURL, "/")
	if s.SourceBranch == "" {
		s.SourceBranch = defaultSourceBranch
	}
	if s.NewBranch == "" {
		s.NewBranch = workBranchPrefix + time.Now().Format("20060102")
	}
}

// validate checks for required configuration values.
func (s *Settings) validate() error {
	if s.OrganizationName == "" {
		return errors.New("organization_name is required")
	}
	if len(s.StringsToReplace) == 0 {
		return errors.New("strings_to_replace must have at least one entry")
	}
	for i, rule := range s.StringsToReplace {
		if rule.Old == "" {
			return fmt.Errorf("strings_to_replace[%d].old must not be empty", i)
		}
	}
	if s.PAT == "" && s.AzureAD == nil {
		return errors.New(
			"authentication is required (set pat inline, via ${ENV_VAR}, as file path, or configure azure_ad)",
		)
	}
	if s.AzureAD != nil && s.PAT == "" {
		if s.AzureAD.TenantID == "" || s.AzureAD.ClientID == "" || s.AzureAD.ClientSecret == "" {
			return errors.New("azure_ad requires tenant_id, client_id and client_secret")
		}
	}
	return nil
}

// OrganizationURL returns the base URL of the Azure DevOps organization.
func (s *Settings) OrganizationURL() string {
	return s.BaseURL + "/" + s.OrganizationName
}

// EffectiveScope returns the configured scope, or a single unscoped pair
// when projects_and_repos is absent or empty.
func (s *Settings) EffectiveScope() Scope {
	if len(s.Scope) == 0 {
		return Scope{{}}
	}
	return s.Scope
}

// FindSettingsFile searches for a settings file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindSettingsFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		"settings.yaml",
		"settings.yml",
		".adobulk.yaml",
		".adobulk.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("settings file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
