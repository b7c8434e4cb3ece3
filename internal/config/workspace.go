package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-tailor/internal/types"
)

// Workspace file layout, relative to the base directory.
const (
	GeneralConfigFile       = "config.yaml"
	SecretsFile             = ".env"
	PersonalInfoFile        = "configs/personal-info.yaml"
	SkillMappingsFile       = "configs/skill-mappings.yaml"
	RoleTemplatesDir        = "configs/role-templates"
	CoverTemplatesDir       = "configs/cover-letter-templates"
	ResumeTemplateFile      = "base/resume-template.md"
	CoverTemplateFile       = "base/cover-letter-template.md"
	ResumeContentBlocksFile = "base/core-content-blocks.yaml"
	CoverContentBlocksFile  = "base/cover-letter-content-blocks.yaml"
	AnalysisDir             = "analysis"
	yamlExt                 = ".yaml"
)

// RequiredFiles must exist before documents can be generated.
var RequiredFiles = []string{PersonalInfoFile, SkillMappingsFile, ResumeTemplateFile}

var validate = validator.New()

// Workspace resolves and loads the user's files under a base directory.
type Workspace struct {
	BaseDir string
}

// NewWorkspace returns a workspace rooted at baseDir ("." when empty).
func NewWorkspace(baseDir string) *Workspace {
	if baseDir == "" {
		baseDir = "."
	}
	return &Workspace{BaseDir: baseDir}
}

// Path joins a workspace-relative path onto the base directory.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.BaseDir, filepath.FromSlash(rel))
}

// MissingRequired returns the required files that do not exist, in RequiredFiles order.
func (w *Workspace) MissingRequired() []string {
	var missing []string
	for _, rel := range RequiredFiles {
		if _, err := os.Stat(w.Path(rel)); err != nil {
			missing = append(missing, rel)
		}
	}
	return missing
}

// CheckRequired fails with a config error naming every missing required file.
func (w *Workspace) CheckRequired() error {
	if missing := w.MissingRequired(); len(missing) > 0 {
		return &Error{
			Path:    w.BaseDir,
			Message: fmt.Sprintf("missing configuration files: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// LoadPersonal loads and validates configs/personal-info.yaml.
func (w *Workspace) LoadPersonal() (*types.PersonalConfig, error) {
	var cfg types.PersonalConfig
	if err := w.readYAML(PersonalInfoFile, &cfg); err != nil {
		return nil, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, &Error{Path: w.Path(PersonalInfoFile), Message: "invalid personal info", Cause: err}
	}
	return &cfg, nil
}

// LoadSkillMappings loads configs/skill-mappings.yaml.
func (w *Workspace) LoadSkillMappings() (*types.SkillMappings, error) {
	var mappings types.SkillMappings
	if err := w.readYAML(SkillMappingsFile, &mappings); err != nil {
		return nil, err
	}
	if len(mappings.YourSkills) == 0 && len(mappings.KeywordMappings) == 0 {
		return nil, &Error{Path: w.Path(SkillMappingsFile), Message: "no your_skills or keyword_mappings defined"}
	}
	return &mappings, nil
}

// LoadRoleConfig loads a role config given as a path, a file name or a bare name.
// It returns the config together with the path it was read from.
func (w *Workspace) LoadRoleConfig(ref string) (*types.RoleConfig, string, error) {
	path, err := w.resolveConfig(ref, RoleTemplatesDir)
	if err != nil {
		return nil, "", err
	}
	var cfg types.RoleConfig
	if err := readYAMLFile(path, &cfg); err != nil {
		return nil, "", err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, "", &Error{Path: path, Message: "invalid role config", Cause: err}
	}
	cfg.EnsureDefaults()
	return &cfg, path, nil
}

// LoadCoverConfig loads a cover letter config given as a path, a file name or a bare name.
func (w *Workspace) LoadCoverConfig(ref string) (*types.CoverLetterConfig, string, error) {
	path, err := w.resolveConfig(ref, CoverTemplatesDir)
	if err != nil {
		return nil, "", err
	}
	var cfg types.CoverLetterConfig
	if err := readYAMLFile(path, &cfg); err != nil {
		return nil, "", err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, "", &Error{Path: path, Message: "invalid cover letter config", Cause: err}
	}
	cfg.EnsureDefaults()
	return &cfg, path, nil
}

// LoadContentBlocks loads an optional content blocks file. A missing file yields an empty map
// and found=false so the caller can warn about it.
func (w *Workspace) LoadContentBlocks(rel string) (blocks map[string]any, found bool, err error) {
	blocks = map[string]any{}
	if _, statErr := os.Stat(w.Path(rel)); statErr != nil {
		if isNotExist(statErr) {
			return blocks, false, nil
		}
		return nil, false, &Error{Path: w.Path(rel), Message: "failed to stat content blocks", Cause: statErr}
	}
	if err := w.readYAML(rel, &blocks); err != nil {
		return nil, true, err
	}
	if blocks == nil {
		blocks = map[string]any{}
	}
	return blocks, true, nil
}

// ValidateOutputName rejects output names that are empty or that would place a file outside
// its output directory.
func ValidateOutputName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return &Error{Message: "output name is empty"}
	case trimmed == "." || trimmed == "..":
		return &Error{Message: fmt.Sprintf("output name %q is not a file name", name)}
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, filepath.Separator):
		return &Error{Message: fmt.Sprintf("output name %q must not contain path separators", name)}
	}
	return nil
}

// SaveRoleConfig writes a tailored config to configs/role-templates/<name>.yaml.
func (w *Workspace) SaveRoleConfig(name string, cfg *types.RoleConfig) (string, error) {
	if err := ValidateOutputName(name); err != nil {
		return "", err
	}
	return w.writeYAML(filepath.Join(RoleTemplatesDir, name+yamlExt), cfg)
}

// SaveCoverConfig writes a cover letter config to configs/cover-letter-templates/<name>.yaml.
func (w *Workspace) SaveCoverConfig(name string, cfg *types.CoverLetterConfig) (string, error) {
	if err := ValidateOutputName(name); err != nil {
		return "", err
	}
	return w.writeYAML(filepath.Join(CoverTemplatesDir, name+yamlExt), cfg)
}

// RoleConfigSummary is one entry of ListRoleConfigs.
type RoleConfigSummary struct {
	File  string
	Role  string
	Focus string
	Err   error
}

// ListRoleConfigs lists the role configs in name order. Files that fail to load are reported
// with Err set rather than aborting the listing.
func (w *Workspace) ListRoleConfigs() ([]RoleConfigSummary, error) {
	entries, err := os.ReadDir(w.Path(RoleTemplatesDir))
	if err != nil {
		return nil, &Error{Path: w.Path(RoleTemplatesDir), Message: "failed to list role configs", Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != yamlExt {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	summaries := make([]RoleConfigSummary, 0, len(names))
	for _, name := range names {
		summary := RoleConfigSummary{File: name}
		var cfg types.RoleConfig
		if err := readYAMLFile(filepath.Join(w.Path(RoleTemplatesDir), name), &cfg); err != nil {
			summary.Err = err
		} else {
			summary.Role = cfg.Role
			summary.Focus = cfg.Focus
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// resolveConfig finds a config file. Lookup order: the reference as a path, then
// <dir>/<ref>, then configs/<ref>; a missing .yaml extension is added.
func (w *Workspace) resolveConfig(ref, dir string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", &Error{Message: "config name is empty"}
	}

	name := ref
	if filepath.Ext(name) != yamlExt && filepath.Ext(name) != ".yml" {
		name += yamlExt
	}

	candidates := []string{ref, name, w.Path(filepath.Join(dir, name)), w.Path(filepath.Join("configs", name))}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &Error{
		Path:    w.Path(filepath.Join(dir, name)),
		Message: "configuration file not found",
		Cause:   os.ErrNotExist,
	}
}

func (w *Workspace) readYAML(rel string, out any) error {
	return readYAMLFile(w.Path(rel), out)
}

func readYAMLFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return &Error{Path: path, Message: "configuration file not found", Cause: err}
		}
		return &Error{Path: path, Message: "failed to read file", Cause: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &Error{Path: path, Message: "failed to parse YAML", Cause: err}
	}
	return nil
}

func (w *Workspace) writeYAML(rel string, value any) (string, error) {
	path := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", rel, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", rel, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
