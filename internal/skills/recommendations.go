package skills

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	maxEmphasizeListed = 5
	maxLearnListed     = 3
)

// Recommendations turns a skill analysis into human readable advice for the report.
// Company focus patterns are checked in name order and only the first match is used.
func Recommendations(posting types.JobPosting, analysis *types.SkillAnalysis, companyFocus map[string]types.CompanyFocus) []string {
	recommendations := []string{}

	if analysis != nil && len(analysis.MatchedSkills) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Emphasize these %d relevant skills: %s",
			len(analysis.MatchedSkills),
			strings.Join(head(analysis.MatchedSkills, maxEmphasizeListed), ", "),
		))
	}

	if analysis != nil && len(analysis.UnmappedKeywords) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider learning these trending technologies: %s",
			strings.Join(head(analysis.UnmappedKeywords, maxLearnListed), ", "),
		))
	}

	patterns := make([]string, 0, len(companyFocus))
	for pattern := range companyFocus {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	company := strings.ToLower(posting.Company)
	for _, pattern := range patterns {
		if pattern == "" || !strings.Contains(company, strings.ToLower(pattern)) {
			continue
		}
		if emphasize := companyFocus[pattern].Emphasize; len(emphasize) > 0 {
			recommendations = append(recommendations, fmt.Sprintf(
				"For %s, emphasize: %s", posting.Company, strings.Join(emphasize, ", "),
			))
		}
		break
	}

	return recommendations
}

func head(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
