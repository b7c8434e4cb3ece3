package tailoring

import (
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const maxHighlightTechnologies = 3

var technicalFocusByRole = map[string]string{
	"frontend":   "frontend_focus",
	"backend":    "backend_focus",
	"fullstack":  "fullstack_development",
	"automation": "infrastructure_automation",
	"data":       "data_engineering",
	"mobile":     "mobile_development",
}

// CoverLetter builds the cover letter config for a posting.
func CoverLetter(posting types.JobPosting, skills *types.SkillAnalysis, personalLocation string) *types.CoverLetterConfig {
	posting = posting.WithDefaults()

	technicalFocus, ok := technicalFocusByRole[RoleFocus(posting.Title)]
	if !ok {
		technicalFocus = "fullstack_development"
	}

	cfg := &types.CoverLetterConfig{
		Role:            posting.Title,
		Company:         posting.Company,
		Location:        firstNonEmpty(personalLocation, posting.Location),
		OpeningType:     "technical_focused",
		ExperienceFocus: "software_development",
		TechnicalFocus:  technicalFocus,
		CompanyType:     CompanyType(posting.Company),
		ClosingType:     "enthusiastic",
	}
	if skills != nil {
		cfg.HighlightTechnologies = head(skills.MatchedSkills, maxHighlightTechnologies)
	}
	cfg.EnsureDefaults()
	return cfg
}

// CompanyType guesses the kind of company from its name.
func CompanyType(company string) string {
	lower := strings.ToLower(company)

	switch {
	case containsAny(lower, []string{"google", "microsoft", "amazon", "apple", "meta"}):
		return "tech_company"
	case containsAny(lower, []string{"consulting", "accenture", "deloitte"}):
		return "consulting"
	case strings.Contains(lower, "startup") || len(strings.Fields(company)) == 1:
		return "startup"
	default:
		return "enterprise"
	}
}
