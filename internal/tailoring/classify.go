// Package tailoring synthesizes posting-specific role and cover letter configs.
package tailoring

import (
	"strings"
)

// RoleKind selects which base role template a posting is tailored from.
type RoleKind string

const (
	RoleArchitect       RoleKind = "architect"
	RoleAzureSpecialist RoleKind = "azure-specialist"
	RoleSenior          RoleKind = "senior"
	RoleDefault         RoleKind = "default"
)

// minSeniorDescriptionWords is the shortest description that can qualify a posting as senior
const minSeniorDescriptionWords = 10

var leadershipKeywords = []string{
	"lead", "leadership", "mentor", "mentoring", "manage", "management", "team lead", "coach", "guide",
}

// templateNames maps role kinds to files under configs/role-templates.
var templateNames = map[RoleKind]string{
	RoleArchitect:       "cloud-architect",
	RoleAzureSpecialist: "azure-specialist",
	RoleSenior:          "senior-devops-engineer",
	RoleDefault:         "devops-engineer",
}

// TemplateName returns the base template file name (without extension) for the kind.
func (k RoleKind) TemplateName() string {
	if name, ok := templateNames[k]; ok {
		return name
	}
	return templateNames[RoleDefault]
}

// IsBaseTemplate reports whether name is the file name of one of the base role templates.
func IsBaseTemplate(name string) bool {
	for _, templateName := range templateNames {
		if templateName == name {
			return true
		}
	}
	return false
}

// ClassifyRole picks a role kind. Rules are evaluated in order and the first match wins:
// architect in the title, then azure in the title, then a senior or lead title backed by
// leadership language in a description of at least ten words.
func ClassifyRole(title, description string) RoleKind {
	lowerTitle := strings.ToLower(title)
	lowerDesc := strings.ToLower(description)

	switch {
	case strings.Contains(lowerTitle, "architect"):
		return RoleArchitect
	case strings.Contains(lowerTitle, "azure"):
		return RoleAzureSpecialist
	case (strings.Contains(lowerTitle, "senior") || strings.Contains(lowerTitle, "lead")) &&
		containsAny(lowerDesc, leadershipKeywords) &&
		len(strings.Fields(description)) >= minSeniorDescriptionWords:
		return RoleSenior
	default:
		return RoleDefault
	}
}

// RoleFocus buckets a job title into a broad focus area.
func RoleFocus(title string) string {
	lower := strings.ToLower(title)

	switch {
	case containsAny(lower, []string{"frontend", "front-end", "react", "vue", "angular"}):
		return "frontend"
	case containsAny(lower, []string{"backend", "back-end", "api", "server"}):
		return "backend"
	case containsAny(lower, []string{"devops", "infrastructure", "platform", "sre"}):
		return "automation"
	case containsAny(lower, []string{"data", "analytics", "ml", "ai"}):
		return "data"
	case containsAny(lower, []string{"mobile", "ios", "android"}):
		return "mobile"
	default:
		return "fullstack"
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
