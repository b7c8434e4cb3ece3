// Package types provides type definitions for structured data used throughout the job-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// KeywordAnalysis is derived purely from a posting description.
type KeywordAnalysis struct {
	TechnicalTerms []string       `json:"technical_terms"`
	TopKeywords    []string       `json:"top_keywords"`
	WordFrequency  map[string]int `json:"word_frequency"`
	Requirements   []string       `json:"requirements,omitempty"`
}

// WeightedSkill is a skill paired with its emphasis weight.
type WeightedSkill struct {
	Skill  string `json:"skill" yaml:"skill"`
	Weight int    `json:"weight" yaml:"weight"`
}

// SkillAnalysis is the result of intersecting a KeywordAnalysis with the user's skill catalog.
// Every entry of PrioritySkills appears in SkillEmphasis with the same weight.
type SkillAnalysis struct {
	MatchedSkills    []string        `json:"matched_skills"`
	SkillEmphasis    map[string]int  `json:"skill_emphasis"`
	PrioritySkills   []WeightedSkill `json:"priority_skills"`
	UnmappedKeywords []string        `json:"unmapped_keywords"`
}

// PrioritySkillNames returns the names of the priority skills in ranking order.
func (a *SkillAnalysis) PrioritySkillNames() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.PrioritySkills))
	for _, ws := range a.PrioritySkills {
		names = append(names, ws.Skill)
	}
	return names
}
