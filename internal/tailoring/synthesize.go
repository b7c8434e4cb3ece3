package tailoring

import (
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const maxCoreSkills = 6

var (
	defaultCoreSkills  = []string{"Python", "JavaScript", "Cloud platforms"}
	defaultSoftSkills  = []string{"Problem-solving", "Team collaboration", "Communication", "Continuous learning"}
	defaultEducation   = "computer_science"
	defaultProjectType = []string{"Web applications", "API services", "Cloud deployments"}
)

var summaryFocusByRole = map[string]string{
	"frontend":   "frontend development and user experience",
	"backend":    "backend development and API design",
	"fullstack":  "full-stack development",
	"automation": "infrastructure automation and DevOps",
	"data":       "data engineering and analytics",
	"mobile":     "mobile application development",
}

var projectTypesByRole = map[string][]string{
	"frontend":   {"Web applications", "User interfaces", "Mobile apps"},
	"backend":    {"API services", "Database systems", "Microservices"},
	"fullstack":  {"Web applications", "API services", "Database systems"},
	"automation": {"CI/CD pipelines", "Infrastructure automation", "Monitoring systems"},
	"data":       {"Data pipelines", "Analytics platforms", "ML models"},
	"mobile":     {"Mobile applications", "Cross-platform apps", "API integrations"},
}

// Input bundles everything Synthesize needs.
type Input struct {
	Posting  types.JobPosting
	Keywords *types.KeywordAnalysis
	Skills   *types.SkillAnalysis
	// Base is the selected role template. It is not modified.
	Base *types.RoleConfig
	// TemplateName records which base template was used
	TemplateName string
	// PersonalLocation overrides the base template's location when set
	PersonalLocation string
}

// Synthesize merges a base template with posting metadata and the skill analysis.
// Every field of the result is populated (empty slices rather than nil) so templates that fail
// on missing values can always render it.
func Synthesize(in Input) *types.RoleConfig {
	posting := in.Posting.WithDefaults()
	kw := in.Keywords
	if kw == nil {
		kw = &types.KeywordAnalysis{}
	}
	sk := in.Skills
	if sk == nil {
		sk = &types.SkillAnalysis{}
	}
	cfg := in.Base.Clone()
	if cfg == nil {
		cfg = &types.RoleConfig{}
	}

	focusArea := RoleFocus(posting.Title)
	sig := newSignals(posting.Description, sk.MatchedSkills, kw.TechnicalTerms)
	prioritySkillNames := sk.PrioritySkillNames()

	cfg.Template = in.TemplateName
	cfg.Role = posting.Title
	cfg.JobTitle = posting.Title
	cfg.Company = posting.Company
	cfg.SourceURL = posting.SourceURL
	cfg.Location = firstNonEmpty(in.PersonalLocation, cfg.Location, posting.Location)
	cfg.Focus = firstNonEmpty(cfg.Focus, focusArea)

	// Summary focus: dynamic phrases replace the base list when at least one fires
	dynamicFocus := dynamicSummaryFocus(sig)
	cfg.DynamicSummaryFocus = dynamicFocus
	switch {
	case len(dynamicFocus) >= minFocusOverwrite:
		cfg.SummaryFocus = append([]string(nil), dynamicFocus...)
	case len(cfg.SummaryFocus) == 0:
		cfg.SummaryFocus = []string{summaryFocusFor(focusArea)}
	}

	// Bullets: rule bullets replace experience highlights only when there are enough of them.
	// The dynamic list itself always falls back to the generic bullets.
	bullets := ruleBullets(sig)
	switch {
	case len(bullets) >= minBulletsOverwrite:
		cfg.ExperienceHighlights = append([]string(nil), bullets...)
	case len(cfg.ExperienceHighlights) == 0:
		cfg.ExperienceHighlights = ExperienceHighlights(sk.MatchedSkills)
	}
	if len(bullets) == 0 {
		bullets = append([]string(nil), genericBullets...)
	}
	cfg.DynamicBullets = bullets

	switch {
	case len(prioritySkillNames) > 0:
		cfg.CoreSkillsEmphasis = head(prioritySkillNames, maxCoreSkills)
	case len(cfg.CoreSkillsEmphasis) == 0:
		cfg.CoreSkillsEmphasis = append([]string(nil), defaultCoreSkills...)
	}

	if len(cfg.TechnicalStrengths) == 0 {
		cfg.TechnicalStrengths = TechnicalStrengths(sk.MatchedSkills)
	}
	if len(cfg.SoftSkillsFocus) == 0 {
		cfg.SoftSkillsFocus = append([]string(nil), defaultSoftSkills...)
	}
	if len(cfg.ProjectTypes) == 0 {
		cfg.ProjectTypes = ProjectTypes(focusArea)
	}
	if cfg.EducationFocus == "" {
		cfg.EducationFocus = defaultEducation
	}

	cfg.PrioritySkills = append([]types.WeightedSkill(nil), sk.PrioritySkills...)
	cfg.ATSKeywords = ATSKeywords(kw.TechnicalTerms, prioritySkillNames)

	cfg.EnsureDefaults()
	return cfg
}

// ExperienceHighlights builds short highlight phrases from matched skills, at most five.
func ExperienceHighlights(matchedSkills []string) []string {
	highlights := []string{"scalable applications", "collaborative development", "best practices implementation"}

	if anySkill(matchedSkills, func(s string) bool { return strings.Contains(s, "cloud") }) {
		highlights = append(highlights, "cloud-native solutions")
	}
	if anySkill(matchedSkills, func(s string) bool { return s == "docker" || s == "kubernetes" || s == "ci/cd" }) {
		highlights = append(highlights, "automated deployment pipelines")
	}
	if anySkill(matchedSkills, func(s string) bool { return strings.Contains(s, "api") }) {
		highlights = append(highlights, "RESTful API development")
	}
	return head(highlights, 5)
}

// TechnicalStrengths builds a strengths list from matched skills, at most five.
func TechnicalStrengths(matchedSkills []string) []string {
	strengths := []string{"Software architecture", "Problem solving", "Code quality"}

	if anySkill(matchedSkills, func(s string) bool { return strings.Contains(s, "cloud") }) {
		strengths = append(strengths, "Cloud architecture")
	}
	if anySkill(matchedSkills, func(s string) bool { return s == "react" || s == "vue" || s == "angular" }) {
		strengths = append(strengths, "Modern web frameworks")
	}
	if anySkill(matchedSkills, func(s string) bool { return strings.Contains(s, "database") }) {
		strengths = append(strengths, "Database design")
	}
	return head(strengths, 5)
}

// ProjectTypes returns example project types for a focus area.
func ProjectTypes(focusArea string) []string {
	if list, ok := projectTypesByRole[focusArea]; ok {
		return append([]string(nil), list...)
	}
	return append([]string(nil), defaultProjectType...)
}

func summaryFocusFor(focusArea string) string {
	if focus, ok := summaryFocusByRole[focusArea]; ok {
		return focus
	}
	return "software development"
}

// anySkill applies pred to each lowercased skill.
func anySkill(skills []string, pred func(string) bool) bool {
	for _, s := range skills {
		if pred(strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func head(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	return append([]string(nil), list...)
}
