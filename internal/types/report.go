// Package types provides type definitions for structured data used throughout the job-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// AnalysisReport is the JSON artifact written to analysis/<name>-analysis.json.
type AnalysisReport struct {
	ID                 string              `json:"id"`
	AnalysisDate       string              `json:"analysis_date"` // RFC3339
	JobPosting         JobPosting          `json:"job_posting"`
	KeywordAnalysis    *KeywordAnalysis    `json:"keyword_analysis"`
	SkillAnalysis      *SkillAnalysis      `json:"skill_analysis"`
	GeneratedConfig    *RoleConfig         `json:"generated_config"`
	Recommendations    []string            `json:"recommendations"`
	GenerationMetadata *GenerationMetadata `json:"generation_metadata,omitempty"`
}

// GenerationMetadata records what a smart run produced.
type GenerationMetadata struct {
	User        string `json:"user"`
	OutputName  string `json:"output_name"`
	DocType     string `json:"doc_type"`
	RoleConfig  string `json:"role_config,omitempty"`
	CoverConfig string `json:"cover_config,omitempty"`
	Enhanced    bool   `json:"enhanced"`
	Success     bool   `json:"success"`
}
