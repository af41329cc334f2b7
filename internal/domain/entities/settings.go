package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	SourceCodeCommit  = "codecommit"
	SourceGitHub      = "github"
	SourceGitLab      = "gitlab"
	SourceGit         = "git"
	SourceAzureDevOps = "azuredevops"

	// DefaultSource is used when neither the flags nor the settings file name one.
	DefaultSource = SourceCodeCommit
)

// Settings is the content of the optional settings file.
type Settings struct {
	Source SourceSettings `yaml:"source" toml:"source"`
}

// SourceSettings describes how to reach the hosting service.
type SourceSettings struct {
	Provider string `yaml:"provider" toml:"provider"` // "codecommit", "github", "gitlab", "git", "azuredevops"
	Region   string `yaml:"region"   toml:"region"`   // AWS region, CodeCommit only
	BaseURL  string `yaml:"base_url" toml:"base_url"` // API base for self-hosted GitHub/GitLab, Azure DevOps organization
	Token    string `yaml:"token"    toml:"token"`    // Inline, ${ENV_VAR}, or file path
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// tokenEnvVars lists the environment variables checked per provider, in priority order.
var tokenEnvVars = map[string][]string{ //nolint:gochecknoglobals // lookup table
	SourceGitHub:      {"GITHUB_TOKEN", "GH_TOKEN"},
	SourceGitLab:      {"GITLAB_TOKEN"},
	SourceGit:         {"GIT_TOKEN"},
	SourceAzureDevOps: {"AZURE_DEVOPS_EXT_PAT", "SYSTEM_ACCESSTOKEN"},
}

// DefaultSettings returns the settings used when no file is found.
func DefaultSettings() *Settings {
	return &Settings{Source: SourceSettings{Provider: DefaultSource}}
}

// NewSettings reads and parses a settings file. The format is chosen by
// extension: ".toml" is TOML, anything else is YAML.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, decodeErr := toml.Decode(string(data), settings); decodeErr != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", decodeErr)
		}
	} else if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", unmarshalErr)
	}

	if settings.Source.Provider == "" {
		settings.Source.Provider = DefaultSource
	}
	settings.Source.Token = resolveToken(settings.Source.Token)

	return settings, nil
}

// FindConfigFile searches for a settings file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
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
		".repomirror.yaml",
		".repomirror.yml",
		".repomirror.toml",
		"repomirror.yaml",
		"repomirror.yml",
		"repomirror.toml",
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

// TokenFromEnv returns the first non-empty token environment variable for the provider.
func TokenFromEnv(provider string) string {
	for _, name := range tokenEnvVars[provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if resolved == "" {
		return resolved
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
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
