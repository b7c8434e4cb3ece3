package tailoring

import (
	"testing"

	"github.com/jonathan/job-tailor/internal/keywords"
	"github.com/jonathan/job-tailor/internal/skills"
	"github.com/jonathan/job-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTemplate() *types.RoleConfig {
	return &types.RoleConfig{
		Role:                 "DevOps Engineer",
		Location:             "Stockholm, Sweden",
		Focus:                "automation",
		Summary:              "DevOps engineer with a passion for automation.",
		SummaryFocus:         []string{"cloud infrastructure"},
		ExperienceHighlights: []string{"base highlight"},
		TechnicalStrengths:   []string{"Linux"},
		Extra:                map[string]any{"show_certifications": true},
	}
}

func TestSynthesize_EndToEndScenario(t *testing.T) {
	posting := types.JobPosting{
		Title:       "DevOps Engineer",
		Company:     "Contoso",
		Location:    "Remote",
		Description: "5+ years experience with Kubernetes, Docker, and Terraform for CI/CD automation on Azure",
		SourceURL:   "https://example.com/job/1",
	}
	kw := keywords.Extract(posting.Description)
	catalog := types.SkillCatalog{"all": {"Kubernetes", "Docker", "Terraform", "Azure"}}
	sk := skills.Map(kw, catalog, nil)

	base := baseTemplate()
	cfg := Synthesize(Input{
		Posting:      posting,
		Keywords:     kw,
		Skills:       sk,
		Base:         base,
		TemplateName: "devops-engineer",
	})

	for _, skill := range []string{"Kubernetes", "Docker", "Terraform", "Azure"} {
		assert.Contains(t, sk.MatchedSkills, skill)
	}
	assert.Contains(t, cfg.DynamicSummaryFocus, "container orchestration and cloud-native platforms")
	assert.Contains(t, cfg.DynamicSummaryFocus, "Infrastructure-as-Code and automation")
	assert.Contains(t, cfg.DynamicSummaryFocus, "CI/CD pipeline design and delivery automation")

	// Substantial dynamic content replaces base lists
	assert.Equal(t, cfg.DynamicSummaryFocus, cfg.SummaryFocus)
	assert.Equal(t, cfg.DynamicBullets, cfg.ExperienceHighlights)
	assert.Contains(t, cfg.DynamicBullets, bulletContainers)
	assert.Contains(t, cfg.DynamicBullets, bulletCloud)

	assert.Equal(t, "devops-engineer", cfg.Template)
	assert.Equal(t, "DevOps Engineer", cfg.Role)
	assert.Equal(t, "Contoso", cfg.Company)
	assert.Equal(t, "Stockholm, Sweden", cfg.Location)
	assert.Equal(t, "https://example.com/job/1", cfg.SourceURL)
	assert.Equal(t, []string{"Linux"}, cfg.TechnicalStrengths)
	assert.Equal(t, true, cfg.Extra["show_certifications"])

	// Base template is untouched
	assert.Equal(t, []string{"cloud infrastructure"}, base.SummaryFocus)
	assert.Equal(t, []string{"base highlight"}, base.ExperienceHighlights)
}

func TestSynthesize_UnknownPostingIsFullyPopulated(t *testing.T) {
	posting := types.NewUnknownPosting("https://unreachable.invalid/job")
	kw := keywords.Extract(posting.Description)
	sk := skills.Map(kw, types.SkillCatalog{"x": {"Go"}}, nil)

	cfg := Synthesize(Input{Posting: posting, Keywords: kw, Skills: sk})
	require.NotNil(t, cfg)

	assert.Equal(t, types.UnknownTitle, cfg.Role)
	assert.Equal(t, types.UnknownCompany, cfg.Company)
	assert.Equal(t, types.UnknownLocation, cfg.Location)
	assert.Equal(t, "fullstack", cfg.Focus)
	assert.Equal(t, []string{"full-stack development"}, cfg.SummaryFocus)
	assert.Equal(t, genericBullets, cfg.DynamicBullets)
	assert.Equal(t, defaultCoreSkills, cfg.CoreSkillsEmphasis)
	assert.NotEmpty(t, cfg.ExperienceHighlights)
	assert.NotEmpty(t, cfg.TechnicalStrengths)
	assert.NotEmpty(t, cfg.SoftSkillsFocus)
	assert.NotEmpty(t, cfg.ProjectTypes)
	assert.Equal(t, "computer_science", cfg.EducationFocus)

	assert.NotNil(t, cfg.DynamicSummaryFocus)
	assert.NotNil(t, cfg.PrioritySkills)
	assert.NotNil(t, cfg.ATSKeywords)
	assert.NotNil(t, cfg.Extra)
}

func TestSynthesize_SingleBulletKeepsBaseHighlights(t *testing.T) {
	posting := types.JobPosting{Title: "Engineer", Description: "We care about cost."}

	cfg := Synthesize(Input{Posting: posting, Keywords: keywords.Extract(posting.Description), Base: baseTemplate()})

	assert.Equal(t, []string{bulletCost}, cfg.DynamicBullets)
	assert.Equal(t, []string{"base highlight"}, cfg.ExperienceHighlights)
	assert.Equal(t, []string{focusCost}, cfg.SummaryFocus)
}

func TestSynthesize_NoTriggersKeepsBaseSummaryFocus(t *testing.T) {
	posting := types.JobPosting{Title: "Engineer", Description: "Friendly office with snacks."}

	cfg := Synthesize(Input{Posting: posting, Base: baseTemplate()})

	assert.Empty(t, cfg.DynamicSummaryFocus)
	assert.Equal(t, []string{"cloud infrastructure"}, cfg.SummaryFocus)
	assert.Equal(t, genericBullets, cfg.DynamicBullets)
}

func TestSynthesize_PersonalLocationWins(t *testing.T) {
	cfg := Synthesize(Input{
		Posting:          types.JobPosting{Location: "Berlin"},
		Base:             baseTemplate(),
		PersonalLocation: "Oslo, Norway",
	})
	assert.Equal(t, "Oslo, Norway", cfg.Location)
}

func TestSynthesize_CoreSkillsFromPriority(t *testing.T) {
	sk := &types.SkillAnalysis{
		MatchedSkills: []string{"A", "B", "C", "D", "E", "F", "G"},
		PrioritySkills: []types.WeightedSkill{
			{Skill: "A", Weight: 7}, {Skill: "B", Weight: 6}, {Skill: "C", Weight: 5}, {Skill: "D", Weight: 4},
			{Skill: "E", Weight: 3}, {Skill: "F", Weight: 2}, {Skill: "G", Weight: 1},
		},
	}

	cfg := Synthesize(Input{Skills: sk})

	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, cfg.CoreSkillsEmphasis)
	assert.Len(t, cfg.PrioritySkills, 7)
}

func TestDynamicSummaryFocus_Triggers(t *testing.T) {
	tests := []struct {
		name   string
		desc   string
		skills []string
		want   []string
	}{
		{"none", "nothing here", nil, []string{}},
		{"containers via skill", "", []string{"Azure Kubernetes Service (AKS)"}, []string{focusContainers}},
		{"iac via skill", "", []string{"Terraform"}, []string{focusIaC}},
		{"cicd via skill", "", []string{"GitHub Actions"}, []string{focusCICD}},
		{"cost via finops", "strong FinOps culture", nil, []string{focusCost}},
		{"monitoring via text", "you will monitor systems", nil, []string{focusMonitoring}},
		{"all five", "cost and observability", []string{"docker", "ansible", "jenkins"},
			[]string{focusContainers, focusIaC, focusCICD, focusCost, focusMonitoring}},
		{"arm is a whole word only", "", []string{"Pharmacy Systems"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dynamicSummaryFocus(newSignals(tt.desc, tt.skills))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestATSKeywords(t *testing.T) {
	terms := []string{"azure", "docker", "kubernetes", "terraform", "ci/cd", "python", "go", "aws", "gcp", "helm"}
	priority := []string{"Azure", "docker", "Kubernetes", "Terraform", "Ansible", "Bicep", "Pulumi", "Jenkins"}

	got := ATSKeywords(terms, priority)

	require.Len(t, got, MaxATSKeywords)
	assert.Equal(t, "azure", got[0])
	assert.Equal(t, "Azure", got[10])
	seen := map[string]bool{}
	for _, kw := range got {
		assert.False(t, seen[kw], "duplicate %q", kw)
		seen[kw] = true
	}
	assert.NotContains(t, got, "Pulumi")
}

func TestATSKeywords_Short(t *testing.T) {
	assert.Equal(t, []string{"go", "Go"}, ATSKeywords([]string{"go", "go"}, []string{"Go", ""}))
	assert.Equal(t, []string{}, ATSKeywords(nil, nil))
}

func TestExperienceHighlightsAndStrengths(t *testing.T) {
	highlights := ExperienceHighlights([]string{"Google Cloud", "Docker", "REST API"})
	assert.Equal(t, []string{
		"scalable applications", "collaborative development", "best practices implementation",
		"cloud-native solutions", "automated deployment pipelines",
	}, highlights)

	strengths := TechnicalStrengths([]string{"Cloud Run", "React", "Database tuning"})
	assert.Len(t, strengths, 5)
	assert.Equal(t, "Cloud architecture", strengths[3])
	assert.Equal(t, "Modern web frameworks", strengths[4])
}
