// Package types provides type definitions for structured data used throughout the job-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillCatalog maps a category name to the user's skills in that category.
type SkillCatalog map[string][]string

// KeywordToSkills maps a lowercase job keyword or phrase to the skills it implies.
type KeywordToSkills map[string][]string

// CompanyFocus describes which skills to emphasize for companies whose name contains a pattern.
type CompanyFocus struct {
	Emphasize []string `yaml:"emphasize" json:"emphasize"`
}

// SkillMappings is the content of configs/skill-mappings.yaml.
type SkillMappings struct {
	YourSkills      SkillCatalog            `yaml:"your_skills" json:"your_skills"`
	KeywordMappings KeywordToSkills         `yaml:"keyword_mappings" json:"keyword_mappings"`
	CompanyFocus    map[string]CompanyFocus `yaml:"company_focus,omitempty" json:"company_focus,omitempty"`
}
