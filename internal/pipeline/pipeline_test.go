package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/credentials"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/pipeline/steps"
	"github.com/jonathan/job-tailor/internal/rewriting"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/types"
)

var fixedNow = time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	posting types.JobPosting
	err     error
	urls    []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (types.JobPosting, error) {
	f.urls = append(f.urls, url)
	return f.posting, f.err
}

type echoClient struct {
	answer string
	calls  int
}

func (c *echoClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	c.calls++
	return c.answer, nil
}

func (c *echoClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (c *echoClient) Close() error                  { return nil }

var devopsPosting = types.JobPosting{
	Title:       "DevOps Engineer",
	Company:     "Contoso",
	Location:    "Remote",
	Description: "5+ years experience with Kubernetes, Docker, and Terraform for CI/CD automation on Azure",
	SourceURL:   "https://boards.greenhouse.io/contoso/jobs/1",
}

func writeFile(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newWorkspace lays out a complete workspace with a devops-engineer base template.
func newWorkspace(t *testing.T) *config.Workspace {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, config.PersonalInfoFile, `personal:
  name: Jane Doe
  email: jane@example.com
  location: Austin, TX
`)
	writeFile(t, dir, config.SkillMappingsFile, `your_skills:
  cloud: [Azure, AWS]
  containers: [Docker, Kubernetes]
  iac: [Terraform]
keyword_mappings:
  ci/cd: [GitHub Actions]
`)
	writeFile(t, dir, config.RoleTemplatesDir+"/devops-engineer.yaml", `role: DevOps Engineer
focus: automation
summary: Engineer who automates cloud platforms.
summary_focus: [cloud infrastructure]
experience_highlights: [base highlight]
`)
	writeFile(t, dir, config.ResumeTemplateFile, `# {{.Personal.Name}}
{{.Config.Role}} | {{.Config.Location}} | {{.CompanyName}}
{{.Config.Summary}}
Focus: {{join .Config.SummaryFocus "; "}}
{{.ContentBlocks.tagline}}
`)
	writeFile(t, dir, config.ResumeContentBlocksFile, "tagline: Ships reliable platforms.\n")
	writeFile(t, dir, config.CoverTemplateFile, `Dear {{.CompanyName}} team,
{{.ContentBlocks.paragraphs.opening}}
Regards, {{.Personal.Name}} ({{.Config.CompanyType}})
`)
	writeFile(t, dir, config.CoverContentBlocksFile, `paragraphs:
  opening: I would love to join your team.
`)
	return config.NewWorkspace(dir)
}

func newTestPipeline(t *testing.T, ws *config.Workspace, fetcher PostingFetcher, enhancer *rewriting.Enhancer) (*Pipeline, *observer.ObservedLogs, *[]ProgressEvent) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	var events []ProgressEvent
	p := New(Options{
		Workspace:  ws,
		Fetcher:    fetcher,
		Enhancer:   enhancer,
		Logger:     zap.New(core),
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
		Now:        func() time.Time { return fixedNow },
		NewID:      func() string { return "7d444840-9dc0-11d1-b245-5ffdce74fad2" },
	})
	return p, logs, &events
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestParseDocType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocType
		wantErr bool
	}{
		{in: "", want: DocBoth},
		{in: "both", want: DocBoth},
		{in: "Resume", want: DocResume},
		{in: " cover ", want: DocCover},
		{in: "letter", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDocType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzePosting_Scenario(t *testing.T) {
	p, _, _ := newTestPipeline(t, newWorkspace(t), &fakeFetcher{}, nil)

	a, err := p.AnalyzePosting(devopsPosting)
	require.NoError(t, err)

	for _, skill := range []string{"Kubernetes", "Docker", "Terraform", "Azure"} {
		assert.Contains(t, a.Skills.MatchedSkills, skill)
	}
	assert.Contains(t, a.Config.DynamicSummaryFocus, "container orchestration and cloud-native platforms")
	assert.Contains(t, a.Config.DynamicSummaryFocus, "Infrastructure-as-Code and automation")
	assert.Equal(t, "devops-engineer", a.TemplateName)
	assert.False(t, a.TemplateFallback)
	assert.Equal(t, "Austin, TX", a.Config.Location)
	assert.LessOrEqual(t, len(a.Config.ATSKeywords), 15)
}

func TestAnalyze_FetchErrorIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{
		posting: types.NewUnknownPosting("https://example.com/job"),
		err:     errors.New("connection refused"),
	}
	p, _, _ := newTestPipeline(t, newWorkspace(t), fetcher, nil)

	_, err := p.Analyze(context.Background(), "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAnalyze_EmitsFetchProgress(t *testing.T) {
	p, _, events := newTestPipeline(t, newWorkspace(t), &fakeFetcher{posting: devopsPosting}, nil)

	_, err := p.Analyze(context.Background(), devopsPosting.SourceURL)
	require.NoError(t, err)
	require.Len(t, *events, 1)
	assert.Equal(t, steps.FetchPosting, (*events)[0].Step)
	assert.Equal(t, "Found: DevOps Engineer at Contoso", (*events)[0].Message)
}

func TestAnalyzePosting_EmptyWorkspace(t *testing.T) {
	p, logs, _ := newTestPipeline(t, config.NewWorkspace(t.TempDir()), &fakeFetcher{}, nil)

	a, err := p.AnalyzePosting(devopsPosting)
	require.NoError(t, err)
	assert.Empty(t, a.Skills.MatchedSkills)
	assert.Empty(t, a.TemplateName)
	assert.Equal(t, "DevOps Engineer", a.Config.Role)
	assert.Equal(t, 1, logs.FilterMessage("no skill mappings found, using empty mappings").Len())
	assert.Equal(t, 1, logs.FilterMessage("no role templates found, building config from defaults").Len())
}

func TestAnalyzeHTML(t *testing.T) {
	p, _, _ := newTestPipeline(t, newWorkspace(t), &fakeFetcher{}, nil)

	html := `<html><head><title>Page</title></head><body>
<h1 class="app-title">Platform Engineer</h1>
<div class="company-name">Contoso</div>
<div id="content">We run Kubernetes and Terraform in production.</div>
</body></html>`
	a, err := p.AnalyzeHTML(html, "https://boards.greenhouse.io/contoso/jobs/2")
	require.NoError(t, err)
	assert.Contains(t, a.Keywords.TechnicalTerms, "kubernetes")
	assert.Contains(t, a.Skills.MatchedSkills, "Terraform")
}

func TestWriteReport_IsValid(t *testing.T) {
	p, _, _ := newTestPipeline(t, newWorkspace(t), &fakeFetcher{}, nil)
	a, err := p.AnalyzePosting(devopsPosting)
	require.NoError(t, err)

	path, err := p.WriteReport("contoso", p.Report(a, nil))
	require.NoError(t, err)
	assert.Equal(t, p.ReportPath("contoso"), path)

	data := []byte(readFile(t, path))
	require.NoError(t, schemas.ValidateAnalysisReport(data))

	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "7d444840-9dc0-11d1-b245-5ffdce74fad2", report.ID)
	assert.Equal(t, "2025-03-07T09:00:00Z", report.AnalysisDate)
	assert.Nil(t, report.GenerationMetadata)
}

func TestSmart_Both(t *testing.T) {
	ws := newWorkspace(t)
	fetcher := &fakeFetcher{posting: devopsPosting}
	p, _, events := newTestPipeline(t, ws, fetcher, nil)

	result, err := p.Smart(context.Background(), SmartRequest{
		URL:        devopsPosting.SourceURL,
		OutputName: "contoso-devops",
		DocType:    DocBoth,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{devopsPosting.SourceURL}, fetcher.urls)
	assert.Nil(t, result.FetchErr)
	assert.False(t, result.Enhanced)

	assert.Equal(t, ws.Path("configs/role-templates/contoso-devops.yaml"), result.RoleConfigPath)
	assert.Equal(t, ws.Path("configs/cover-letter-templates/contoso-devops.yaml"), result.CoverConfigPath)
	assert.Equal(t, ws.Path("versions/contoso-devops.md"), result.ResumePath)
	assert.Equal(t, ws.Path("versions/contoso-devops-cover-letter.md"), result.CoverPath)
	assert.Equal(t, ws.Path("analysis/contoso-devops-analysis.json"), result.ReportPath)

	resume := readFile(t, result.ResumePath)
	assert.Contains(t, resume, "# Jane Doe")
	assert.Contains(t, resume, "DevOps Engineer | Austin, TX | Contoso")
	assert.Contains(t, resume, "container orchestration and cloud-native platforms")
	assert.Contains(t, resume, "Ships reliable platforms.")

	cover := readFile(t, result.CoverPath)
	assert.Contains(t, cover, "Dear Contoso team,")
	assert.Contains(t, cover, "I would love to join your team.")

	saved, _, err := ws.LoadRoleConfig("contoso-devops")
	require.NoError(t, err)
	assert.Equal(t, result.Analysis.Config.DynamicSummaryFocus, saved.DynamicSummaryFocus)

	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(readFile(t, result.ReportPath)), &report))
	require.NotNil(t, report.GenerationMetadata)
	assert.Equal(t, "Jane Doe", report.GenerationMetadata.User)
	assert.Equal(t, "both", report.GenerationMetadata.DocType)
	assert.True(t, report.GenerationMetadata.Success)

	var names []string
	for _, r := range result.Steps {
		names = append(names, r.Step)
		assert.Equal(t, steps.StatusCompleted, r.Status, r.Step)
	}
	assert.Equal(t, steps.Plan(true, true, false), names)
	assert.Len(t, *events, len(names))
}

func TestSmart_ResumeOnly(t *testing.T) {
	p, _, _ := newTestPipeline(t, newWorkspace(t), &fakeFetcher{posting: devopsPosting}, nil)

	result, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "r", DocType: DocResume})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ResumePath)
	assert.Empty(t, result.CoverPath)
	assert.Empty(t, result.CoverConfigPath)
}

func TestSmart_UnreachableURLUsesDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL + "/jobs/1"
	server.Close()

	ws := newWorkspace(t)
	fetcher := fetch.NewPostingFetcher(&fetch.PostingFetcherConfig{
		Options: &fetch.Options{Timeout: 2 * time.Second, UserAgent: "test"},
	})
	p, logs, _ := newTestPipeline(t, ws, fetcher, nil)

	result, err := p.Smart(context.Background(), SmartRequest{URL: url, OutputName: "unknown"})
	require.NoError(t, err)
	require.Error(t, result.FetchErr)

	posting := result.Analysis.Posting
	assert.Equal(t, types.UnknownTitle, posting.Title)
	assert.Equal(t, types.UnknownCompany, posting.Company)
	assert.Equal(t, types.UnknownLocation, posting.Location)
	assert.Empty(t, posting.Description)

	assert.Equal(t, steps.StatusDegraded, result.Steps[1].Status)
	assert.Equal(t, 1, logs.FilterMessage("could not fetch job posting, continuing with defaults").Len())
	assert.FileExists(t, result.ResumePath)
	assert.FileExists(t, result.ReportPath)
}

func TestSmart_TemplateFallback(t *testing.T) {
	ws := newWorkspace(t)
	posting := devopsPosting
	posting.Title = "Senior Cloud Architect"
	p, logs, _ := newTestPipeline(t, ws, &fakeFetcher{posting: posting}, nil)

	result, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "arch", DocType: DocResume})
	require.NoError(t, err)
	assert.True(t, result.Analysis.TemplateFallback)
	assert.Equal(t, "devops-engineer", result.Analysis.TemplateName)
	assert.Equal(t, 1, logs.FilterMessage("role template not found, using default").Len())

	for _, r := range result.Steps {
		if r.Step == steps.SelectTemplate {
			assert.Equal(t, steps.StatusDegraded, r.Status)
		}
	}
}

func TestSmart_NoTemplatesFails(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.Remove(ws.Path(config.RoleTemplatesDir+"/devops-engineer.yaml")))
	p, _, _ := newTestPipeline(t, ws, &fakeFetcher{posting: devopsPosting}, nil)

	result, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "x"})
	require.Error(t, err)

	var cfgErr *config.Error
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{steps.SelectTemplate}, failedSteps(result.Steps))
	assert.NoFileExists(t, ws.Path("versions/x.md"))
}

func TestSmart_RejectsUnsafeOutputNames(t *testing.T) {
	ws := newWorkspace(t)
	fetcher := &fakeFetcher{posting: devopsPosting}
	p, _, _ := newTestPipeline(t, ws, fetcher, nil)
	basePath := ws.Path(config.RoleTemplatesDir + "/devops-engineer.yaml")
	before := readFile(t, basePath)

	for _, name := range []string{"devops-engineer", "cloud-architect", "../escape", ""} {
		_, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: name})
		require.Error(t, err, name)

		var cfgErr *config.Error
		assert.ErrorAs(t, err, &cfgErr, name)
	}

	assert.Empty(t, fetcher.urls)
	assert.Equal(t, before, readFile(t, basePath))
	assert.NoFileExists(t, ws.Path("configs/escape.yaml"))
}

func TestWriteReport_RejectsPathInName(t *testing.T) {
	p, _, _ := newTestPipeline(t, newWorkspace(t), &fakeFetcher{}, nil)
	a, err := p.AnalyzePosting(devopsPosting)
	require.NoError(t, err)

	_, err = p.WriteReport("../report", p.Report(a, nil))
	assert.Error(t, err)
}

func TestSmart_MissingRequiredFileFails(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.Remove(ws.Path(config.PersonalInfoFile)))
	fetcher := &fakeFetcher{posting: devopsPosting}
	p, _, _ := newTestPipeline(t, ws, fetcher, nil)

	_, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), steps.CheckConfig)
	assert.Empty(t, fetcher.urls)
}

func TestSmart_TemplateErrorFails(t *testing.T) {
	ws := newWorkspace(t)
	writeFile(t, ws.BaseDir, config.ResumeTemplateFile, "{{.Config.NoSuchField}}")
	p, _, _ := newTestPipeline(t, ws, &fakeFetcher{posting: devopsPosting}, nil)

	result, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "x", DocType: DocResume})
	require.Error(t, err)
	assert.Equal(t, []string{steps.RenderResume}, failedSteps(result.Steps))
	assert.Empty(t, result.ReportPath)
}

func TestSmart_EnhanceWithoutCredentialFailsOpen(t *testing.T) {
	ws := newWorkspace(t)
	enhancer := rewriting.NewEnhancer(context.Background(), rewriting.Config{
		Sources: []credentials.Source{credentials.Value("flag", ""), credentials.Value("config.yaml", credentials.Placeholder)},
	})
	p, logs, _ := newTestPipeline(t, ws, &fakeFetcher{posting: devopsPosting}, enhancer)

	result, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "plain", Enhance: true})
	require.NoError(t, err)
	assert.False(t, result.Enhanced)
	assert.Equal(t, "Engineer who automates cloud platforms.", result.Analysis.Config.Summary)
	assert.Equal(t, 1, logs.FilterMessage("enhancement requested but no model is available, continuing without it").Len())

	for _, r := range result.Steps {
		if r.Step == steps.EnhanceContent {
			assert.Equal(t, steps.StatusSkipped, r.Status)
		}
	}
}

func TestSmart_EnhanceRewritesContent(t *testing.T) {
	ws := newWorkspace(t)
	client := &echoClient{answer: "Platform engineer who automates cloud delivery."}
	enhancer := rewriting.NewEnhancer(context.Background(), rewriting.Config{
		Sources: []credentials.Source{credentials.Value("flag", "key")},
		NewClient: func(context.Context, *llm.Config, string) (llm.Client, error) {
			return client, nil
		},
	})
	p, _, _ := newTestPipeline(t, ws, &fakeFetcher{posting: devopsPosting}, enhancer)

	result, err := p.Smart(context.Background(), SmartRequest{URL: "u", OutputName: "enhanced", Enhance: true})
	require.NoError(t, err)
	assert.True(t, result.Enhanced)
	assert.Equal(t, "Platform engineer who automates cloud delivery.", result.Analysis.Config.Summary)
	assert.GreaterOrEqual(t, client.calls, 3)

	assert.Contains(t, readFile(t, result.ResumePath), "Platform engineer who automates cloud delivery.")
	cover := readFile(t, result.CoverPath)
	assert.Contains(t, cover, "Platform engineer who automates cloud delivery.")
	assert.NotContains(t, cover, "I would love to join your team.")
}

func TestGenerateResume(t *testing.T) {
	ws := newWorkspace(t)
	p, _, _ := newTestPipeline(t, ws, &fakeFetcher{}, nil)

	result, err := p.GenerateResume("devops-engineer", "plain", "Fabrikam")
	require.NoError(t, err)
	assert.Equal(t, ws.Path("versions/plain.md"), result.OutputPath)
	assert.Equal(t, "DevOps Engineer", result.Role)
	assert.Equal(t, "automation", result.Focus)
	assert.Positive(t, result.Size)
	assert.Contains(t, readFile(t, result.OutputPath), "DevOps Engineer |  | Fabrikam")
}

func TestGenerateResume_MissingContentBlocksWarns(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.Remove(ws.Path(config.ResumeContentBlocksFile)))
	writeFile(t, ws.BaseDir, config.ResumeTemplateFile, "# {{.Personal.Name}}\n")
	p, logs, _ := newTestPipeline(t, ws, &fakeFetcher{}, nil)

	_, err := p.GenerateResume("devops-engineer", "plain", "")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("content blocks file not found").Len())
}

func TestGenerateResume_UnknownConfig(t *testing.T) {
	p, _, _ := newTestPipeline(t, newWorkspace(t), &fakeFetcher{}, nil)

	_, err := p.GenerateResume("nope", "out", "")
	require.Error(t, err)
	assert.True(t, isNotFound(err))
}

func TestGenerateCover_UsesConfigCompany(t *testing.T) {
	ws := newWorkspace(t)
	writeFile(t, ws.BaseDir, config.CoverTemplatesDir+"/fabrikam.yaml", `role: Platform Engineer
company: Fabrikam
company_type: enterprise
technical_focus: infrastructure_automation
`)
	p, _, _ := newTestPipeline(t, ws, &fakeFetcher{}, nil)

	result, err := p.GenerateCover("fabrikam", "fabrikam", "")
	require.NoError(t, err)
	assert.Equal(t, "Fabrikam", result.Company)
	assert.True(t, strings.HasSuffix(result.OutputPath, "fabrikam-cover-letter.md"))
	assert.Contains(t, readFile(t, result.OutputPath), "Dear Fabrikam team,")
	assert.Contains(t, readFile(t, result.OutputPath), "(enterprise)")
}

func failedSteps(results []steps.StepResult) []string {
	var failed []string
	for _, r := range results {
		if r.Status == steps.StatusFailed {
			failed = append(failed, r.Step)
		}
	}
	return failed
}
