package tailoring

import "strings"

// MaxATSKeywords caps the ATS keyword list
const MaxATSKeywords = 15

// Minimum number of dynamic items before they replace the base template's lists
const (
	minFocusOverwrite   = 1
	minBulletsOverwrite = 2
)

var (
	containerSkills = []string{"docker", "kubernetes", "aks", "eks", "helm", "containers", "openshift"}
	iacSkills       = []string{"terraform", "bicep", "arm", "ansible", "pulumi", "cloudformation"}
	cicdSkills      = []string{"ci/cd", "jenkins", "github actions", "azure devops", "gitlab"}
	cloudSkills     = []string{"azure", "aws", "gcp", "google cloud"}
)

const (
	focusContainers = "container orchestration and cloud-native platforms"
	focusIaC        = "Infrastructure-as-Code and automation"
	focusCICD       = "CI/CD pipeline design and delivery automation"
	focusCost       = "cloud cost optimization and FinOps practices"
	focusMonitoring = "monitoring and observability"
)

const (
	bulletContainers = "Designed and operated containerized workloads on Kubernetes with Docker-based build and release workflows"
	bulletIaC        = "Automated infrastructure provisioning with Infrastructure-as-Code, removing manual environment setup"
	bulletCICD       = "Built and maintained CI/CD pipelines that shortened release cycles and improved deployment reliability"
	bulletCost       = "Reduced cloud spend through rightsizing and FinOps reporting"
	bulletMonitoring = "Implemented monitoring and alerting that improved incident detection and service reliability"
	bulletCloud      = "Delivered secure and scalable solutions on public cloud platforms"
)

// genericBullets replace the dynamic bullets when no rule fires.
var genericBullets = []string{
	"Delivered reliable, scalable systems in collaboration with cross-functional teams",
	"Automated repetitive operational tasks to improve team efficiency",
	"Applied engineering best practices across the software delivery lifecycle",
}

// signals is the lowercased evidence the focus and bullet rules look at.
type signals struct {
	skills      []string
	description string
}

func newSignals(description string, skillLists ...[]string) signals {
	s := signals{description: strings.ToLower(description)}
	for _, list := range skillLists {
		for _, skill := range list {
			s.skills = append(s.skills, strings.ToLower(skill))
		}
	}
	return s
}

// hasSkill reports whether any skill equals a trigger or contains it as a whole word.
func (s signals) hasSkill(triggers []string) bool {
	for _, skill := range s.skills {
		padded := " " + skill + " "
		for _, trigger := range triggers {
			if skill == trigger || strings.Contains(padded, " "+trigger+" ") {
				return true
			}
		}
	}
	return false
}

func (s signals) mentions(needles ...string) bool {
	return containsAny(s.description, needles)
}

// dynamicSummaryFocus returns one phrase per trigger that fires. The list may be empty.
func dynamicSummaryFocus(s signals) []string {
	focus := []string{}
	if s.hasSkill(containerSkills) {
		focus = append(focus, focusContainers)
	}
	if s.hasSkill(iacSkills) {
		focus = append(focus, focusIaC)
	}
	if s.hasSkill(cicdSkills) {
		focus = append(focus, focusCICD)
	}
	if s.mentions("cost", "finops") {
		focus = append(focus, focusCost)
	}
	if s.mentions("monitor", "observability") {
		focus = append(focus, focusMonitoring)
	}
	return focus
}

// ruleBullets returns the bullets of the rules that fire, without the generic fallback.
func ruleBullets(s signals) []string {
	bullets := []string{}
	if s.hasSkill(containerSkills) {
		bullets = append(bullets, bulletContainers)
	}
	if s.hasSkill(iacSkills) {
		bullets = append(bullets, bulletIaC)
	}
	if s.hasSkill(cicdSkills) {
		bullets = append(bullets, bulletCICD)
	}
	if s.mentions("cost", "finops") {
		bullets = append(bullets, bulletCost)
	}
	if s.mentions("monitor", "observability") {
		bullets = append(bullets, bulletMonitoring)
	}
	if s.hasSkill(cloudSkills) {
		bullets = append(bullets, bulletCloud)
	}
	return bullets
}

// ATSKeywords merges technical terms and priority skill names, first seen wins, capped at MaxATSKeywords.
// Deduplication is case-sensitive.
func ATSKeywords(technicalTerms, prioritySkills []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, list := range [][]string{technicalTerms, prioritySkills} {
		for _, kw := range list {
			if kw == "" || seen[kw] {
				continue
			}
			if len(out) == MaxATSKeywords {
				return out
			}
			seen[kw] = true
			out = append(out, kw)
		}
	}
	return out
}
