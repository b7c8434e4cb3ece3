// Package types provides type definitions for structured data used throughout the job-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RoleConfig is either a base role template loaded from configs/role-templates or a tailored
// config produced for a specific posting. Both share one shape so the renderer can consume either.
// Unknown YAML keys are kept in Extra and written back unchanged.
type RoleConfig struct {
	Template  string `yaml:"template,omitempty" json:"template,omitempty"`
	Role      string `yaml:"role" json:"role" validate:"required"`
	JobTitle  string `yaml:"job_title,omitempty" json:"job_title,omitempty"`
	Company   string `yaml:"company,omitempty" json:"company,omitempty"`
	Location  string `yaml:"location" json:"location"`
	SourceURL string `yaml:"source_url,omitempty" json:"source_url,omitempty"`

	Focus                string   `yaml:"focus" json:"focus"`
	Summary              string   `yaml:"summary" json:"summary"`
	SummaryFocus         []string `yaml:"summary_focus" json:"summary_focus"`
	CoreSkillsEmphasis   []string `yaml:"core_skills_emphasis" json:"core_skills_emphasis"`
	ExperienceHighlights []string `yaml:"experience_highlights" json:"experience_highlights"`
	TechnicalStrengths   []string `yaml:"technical_strengths" json:"technical_strengths"`
	SoftSkillsFocus      []string `yaml:"soft_skills_focus" json:"soft_skills_focus"`
	ProjectTypes         []string `yaml:"project_types" json:"project_types"`
	EducationFocus       string   `yaml:"education_focus" json:"education_focus"`

	// Posting-specific fields, empty on base templates.
	PrioritySkills      []WeightedSkill `yaml:"priority_skills" json:"priority_skills"`
	DynamicSummaryFocus []string        `yaml:"dynamic_summary_focus" json:"dynamic_summary_focus"`
	DynamicBullets      []string        `yaml:"dynamic_bullets" json:"dynamic_bullets"`
	ATSKeywords         []string        `yaml:"ats_keywords" json:"ats_keywords"`

	Extra map[string]any `yaml:",inline" json:"extra,omitempty"`
}

// Clone returns a deep copy so a base template can be reused across postings.
func (c *RoleConfig) Clone() *RoleConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.SummaryFocus = cloneStrings(c.SummaryFocus)
	out.CoreSkillsEmphasis = cloneStrings(c.CoreSkillsEmphasis)
	out.ExperienceHighlights = cloneStrings(c.ExperienceHighlights)
	out.TechnicalStrengths = cloneStrings(c.TechnicalStrengths)
	out.SoftSkillsFocus = cloneStrings(c.SoftSkillsFocus)
	out.ProjectTypes = cloneStrings(c.ProjectTypes)
	out.DynamicSummaryFocus = cloneStrings(c.DynamicSummaryFocus)
	out.DynamicBullets = cloneStrings(c.DynamicBullets)
	out.ATSKeywords = cloneStrings(c.ATSKeywords)
	if c.PrioritySkills != nil {
		out.PrioritySkills = append([]WeightedSkill(nil), c.PrioritySkills...)
	}
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// EnsureDefaults replaces nil slices and maps with empty ones so templates never see a missing value.
func (c *RoleConfig) EnsureDefaults() {
	c.SummaryFocus = orEmpty(c.SummaryFocus)
	c.CoreSkillsEmphasis = orEmpty(c.CoreSkillsEmphasis)
	c.ExperienceHighlights = orEmpty(c.ExperienceHighlights)
	c.TechnicalStrengths = orEmpty(c.TechnicalStrengths)
	c.SoftSkillsFocus = orEmpty(c.SoftSkillsFocus)
	c.ProjectTypes = orEmpty(c.ProjectTypes)
	c.DynamicSummaryFocus = orEmpty(c.DynamicSummaryFocus)
	c.DynamicBullets = orEmpty(c.DynamicBullets)
	c.ATSKeywords = orEmpty(c.ATSKeywords)
	if c.PrioritySkills == nil {
		c.PrioritySkills = []WeightedSkill{}
	}
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
}

// CoverLetterConfig drives the cover letter template.
type CoverLetterConfig struct {
	Role                  string   `yaml:"role" json:"role" validate:"required"`
	Company               string   `yaml:"company,omitempty" json:"company,omitempty"`
	Location              string   `yaml:"location" json:"location"`
	OpeningType           string   `yaml:"opening_type" json:"opening_type"`
	ExperienceFocus       string   `yaml:"experience_focus" json:"experience_focus"`
	TechnicalFocus        string   `yaml:"technical_focus" json:"technical_focus"`
	CompanyType           string   `yaml:"company_type" json:"company_type"`
	ClosingType           string   `yaml:"closing_type" json:"closing_type"`
	HighlightTechnologies []string `yaml:"highlight_technologies" json:"highlight_technologies"`

	Extra map[string]any `yaml:",inline" json:"extra,omitempty"`
}

// EnsureDefaults replaces nil collections with empty ones.
func (c *CoverLetterConfig) EnsureDefaults() {
	c.HighlightTechnologies = orEmpty(c.HighlightTechnologies)
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
