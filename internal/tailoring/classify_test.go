package tailoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRole(t *testing.T) {
	leadershipDesc := "You will lead a team of engineers, mentor juniors and manage delivery of our cloud platform."
	plainDesc := "You will build pipelines and keep production healthy for our customers every day."

	tests := []struct {
		name        string
		title       string
		description string
		want        RoleKind
	}{
		{"architect wins over senior", "Senior Cloud Architect", plainDesc, RoleArchitect},
		{"architect wins even with leadership", "Lead Solutions Architect", leadershipDesc, RoleArchitect},
		{"azure title", "Azure Platform Engineer", leadershipDesc, RoleAzureSpecialist},
		{"architect precedes azure", "Azure Architect", plainDesc, RoleArchitect},
		{"senior with leadership", "Senior DevOps Engineer", leadershipDesc, RoleSenior},
		{"lead with leadership", "Lead SRE", leadershipDesc, RoleSenior},
		{"senior without leadership", "Senior DevOps Engineer", plainDesc, RoleDefault},
		{"senior with short description", "Senior DevOps Engineer", "Lead and mentor the team", RoleDefault},
		{"plain title", "DevOps Engineer", leadershipDesc, RoleDefault},
		{"unknown position", "Unknown Position", "", RoleDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(tt.title, tt.description))
		})
	}
}

func TestRoleKind_TemplateName(t *testing.T) {
	assert.Equal(t, "cloud-architect", RoleArchitect.TemplateName())
	assert.Equal(t, "azure-specialist", RoleAzureSpecialist.TemplateName())
	assert.Equal(t, "senior-devops-engineer", RoleSenior.TemplateName())
	assert.Equal(t, "devops-engineer", RoleDefault.TemplateName())
	assert.Equal(t, "devops-engineer", RoleKind("bogus").TemplateName())
}

func TestIsBaseTemplate(t *testing.T) {
	for _, kind := range []RoleKind{RoleArchitect, RoleAzureSpecialist, RoleSenior, RoleDefault} {
		assert.True(t, IsBaseTemplate(kind.TemplateName()), kind)
	}
	assert.False(t, IsBaseTemplate("contoso-devops"))
	assert.False(t, IsBaseTemplate("default"))
}

func TestRoleFocus(t *testing.T) {
	tests := map[string]string{
		"Frontend Developer":      "frontend",
		"Backend Engineer":        "backend",
		"Site Reliability (SRE)":  "automation",
		"Platform Engineer":       "automation",
		"Data Engineer":           "data",
		"iOS Developer":           "mobile",
		"Software Engineer":       "fullstack",
		"Senior DevOps Engineer":  "automation",
		"Unknown Position":        "fullstack",
		"React Native Specialist": "frontend",
	}

	for title, want := range tests {
		assert.Equal(t, want, RoleFocus(title), title)
	}
}
