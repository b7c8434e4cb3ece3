package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/keywords"
	"github.com/jonathan/job-tailor/internal/pipeline/steps"
	"github.com/jonathan/job-tailor/internal/rendering"
	"github.com/jonathan/job-tailor/internal/skills"
	"github.com/jonathan/job-tailor/internal/tailoring"
	"github.com/jonathan/job-tailor/internal/types"
)

// DocType selects which documents a smart run renders.
type DocType string

const (
	DocResume DocType = "resume"
	DocCover  DocType = "cover"
	DocBoth   DocType = "both"
)

// ParseDocType parses a --type value; "" means both.
func ParseDocType(s string) (DocType, error) {
	switch DocType(strings.ToLower(strings.TrimSpace(s))) {
	case "", DocBoth:
		return DocBoth, nil
	case DocResume:
		return DocResume, nil
	case DocCover:
		return DocCover, nil
	default:
		return "", fmt.Errorf("invalid document type %q: must be resume, cover or both", s)
	}
}

func (d DocType) wantsResume() bool { return d == DocResume || d == DocBoth }
func (d DocType) wantsCover() bool  { return d == DocCover || d == DocBoth }

// SmartRequest holds the inputs of a smart run.
type SmartRequest struct {
	URL        string
	OutputName string
	DocType    DocType
	// Enhance asks for LLM rewriting; it is a no-op when the enhancer is disabled
	Enhance bool
}

// SmartResult describes everything a smart run produced.
type SmartResult struct {
	Analysis        *Analysis
	RoleConfigPath  string
	CoverConfigPath string
	ResumePath      string
	CoverPath       string
	ReportPath      string
	Enhanced        bool
	// FetchErr is the reason the posting fell back to defaults, nil when the fetch succeeded
	FetchErr error
	Steps    []steps.StepResult
}

// smartRun carries the state shared between the steps of one smart run.
type smartRun struct {
	req      SmartRequest
	log      *zap.Logger
	personal *types.PersonalConfig
	mappings *types.SkillMappings
	analysis *Analysis
	blocks   map[string]any
	result   *SmartResult
}

// Smart fetches a posting, synthesizes a tailored config and renders the requested documents.
// Fetch and rewriting problems degrade the run; missing configuration, template and write
// errors fail it.
func (p *Pipeline) Smart(ctx context.Context, req SmartRequest) (*SmartResult, error) {
	if err := config.ValidateOutputName(req.OutputName); err != nil {
		return nil, err
	}
	// tailored configs share configs/role-templates with the base templates
	if tailoring.IsBaseTemplate(req.OutputName) {
		return nil, &config.Error{
			Path:    p.ws.Path(filepath.Join(config.RoleTemplatesDir, req.OutputName+".yaml")),
			Message: fmt.Sprintf("output name %q would overwrite a base role template, choose another name", req.OutputName),
		}
	}
	if req.DocType == "" {
		req.DocType = DocBoth
	}

	run := &smartRun{
		req:      req,
		log:      p.postingLogger(req.URL),
		analysis: &Analysis{},
		result:   &SmartResult{},
	}
	run.result.Analysis = run.analysis
	tracker := steps.NewTracker()
	defer func() { run.result.Steps = tracker.Results() }()

	enhance := req.Enhance && p.enhancer.Enabled()
	if req.Enhance && !enhance {
		run.log.Warn("enhancement requested but no model is available, continuing without it")
	}

	plan := steps.Plan(req.DocType.wantsResume(), req.DocType.wantsCover(), req.Enhance)
	if err := steps.ValidatePlan(plan); err != nil {
		return nil, err
	}
	for _, name := range plan {
		fn := p.smartStep(ctx, run, name, enhance)
		if err := p.runStep(tracker, name, fn); err != nil {
			return run.result, wrapStep(name, err)
		}
	}
	return run.result, nil
}

// smartStep returns the work for one planned step.
func (p *Pipeline) smartStep(ctx context.Context, run *smartRun, name string, enhance bool) stepFunc {
	a := run.analysis
	switch name {
	case steps.CheckConfig:
		return func() (string, string, error) {
			if err := p.ws.CheckRequired(); err != nil {
				return "", "", err
			}
			personal, err := p.ws.LoadPersonal()
			if err != nil {
				return "", "", err
			}
			mappings, err := p.loadMappings(true)
			if err != nil {
				return "", "", err
			}
			run.personal, run.mappings = personal, mappings
			return steps.StatusCompleted, "configured for " + personal.Personal.Name, nil
		}

	case steps.FetchPosting:
		return func() (string, string, error) {
			posting, err := p.fetcher.Fetch(ctx, run.req.URL)
			a.Posting = posting.WithDefaults()
			if err != nil {
				run.result.FetchErr = err
				run.log.Warn("could not fetch job posting, continuing with defaults", zap.Error(err))
				return steps.StatusDegraded, "using default posting fields", nil
			}
			return steps.StatusCompleted, fmt.Sprintf("Found: %s at %s", a.Posting.Title, a.Posting.Company), nil
		}

	case steps.ExtractKeywords:
		return func() (string, string, error) {
			a.Keywords = keywords.Extract(a.Posting.Description)
			return steps.StatusCompleted, fmt.Sprintf("%d technical terms", len(a.Keywords.TechnicalTerms)), nil
		}

	case steps.MapSkills:
		return func() (string, string, error) {
			a.Skills = skills.Map(a.Keywords, run.mappings.YourSkills, run.mappings.KeywordMappings)
			a.Recommendations = skills.Recommendations(a.Posting, a.Skills, run.mappings.CompanyFocus)
			return steps.StatusCompleted, fmt.Sprintf("%d matched skills", len(a.Skills.MatchedSkills)), nil
		}

	case steps.SelectTemplate:
		return func() (string, string, error) {
			base, templateName, fallback, err := p.selectTemplate(a.Posting, true)
			if err != nil {
				return "", "", err
			}
			a.Config, a.TemplateName, a.TemplateFallback = base, templateName, fallback
			if fallback {
				return steps.StatusDegraded, "using default template " + templateName, nil
			}
			return steps.StatusCompleted, "template " + templateName, nil
		}

	case steps.SynthesizeConfig:
		return func() (string, string, error) {
			a.Config = tailoring.Synthesize(tailoring.Input{
				Posting:          a.Posting,
				Keywords:         a.Keywords,
				Skills:           a.Skills,
				Base:             a.Config,
				TemplateName:     a.TemplateName,
				PersonalLocation: run.personal.Personal.Location,
			})
			return steps.StatusCompleted, "focus " + a.Config.Focus, nil
		}

	case steps.EnhanceContent:
		return func() (string, string, error) {
			if !enhance {
				return steps.StatusSkipped, "no model available", nil
			}
			if err := p.enhance(ctx, run); err != nil {
				return "", "", err
			}
			run.result.Enhanced = true
			return steps.StatusCompleted, "content enhanced", nil
		}

	case steps.SaveRoleConfig:
		return func() (string, string, error) {
			path, err := p.ws.SaveRoleConfig(run.req.OutputName, a.Config)
			if err != nil {
				return "", "", err
			}
			run.result.RoleConfigPath = path
			return steps.StatusCompleted, path, nil
		}

	case steps.RenderResume:
		return func() (string, string, error) {
			path, err := p.renderDocument(rendering.KindResume, a.Config, run.personal.Personal,
				a.Posting.Company, run.req.OutputName, nil)
			if err != nil {
				return "", "", err
			}
			run.result.ResumePath = path
			return steps.StatusCompleted, path, nil
		}

	case steps.SaveCoverConfig:
		return func() (string, string, error) {
			cover := tailoring.CoverLetter(a.Posting, a.Skills, run.personal.Personal.Location)
			path, err := p.ws.SaveCoverConfig(run.req.OutputName, cover)
			if err != nil {
				return "", "", err
			}
			run.result.CoverConfigPath = path
			return steps.StatusCompleted, path, nil
		}

	case steps.RenderCover:
		return func() (string, string, error) {
			cover, _, err := p.ws.LoadCoverConfig(run.result.CoverConfigPath)
			if err != nil {
				return "", "", err
			}
			path, err := p.renderDocument(rendering.KindCoverLetter, cover, run.personal.Personal,
				a.Posting.Company, run.req.OutputName, run.blocks)
			if err != nil {
				return "", "", err
			}
			run.result.CoverPath = path
			return steps.StatusCompleted, path, nil
		}

	case steps.WriteReport:
		return func() (string, string, error) {
			meta := &types.GenerationMetadata{
				User:        run.personal.Personal.Name,
				OutputName:  run.req.OutputName,
				DocType:     string(run.req.DocType),
				RoleConfig:  run.result.RoleConfigPath,
				CoverConfig: run.result.CoverConfigPath,
				Enhanced:    run.result.Enhanced,
				Success:     true,
			}
			path, err := p.WriteReport(run.req.OutputName, p.Report(a, meta))
			if err != nil {
				return "", "", err
			}
			run.result.ReportPath = path
			return steps.StatusCompleted, path, nil
		}
	}

	return func() (string, string, error) {
		return "", "", fmt.Errorf("unknown step: %s", name)
	}
}

// enhance rewrites the summary, the experience highlights and, when a cover letter is wanted,
// the cover letter paragraphs. Every rewrite falls back to the original text on its own.
func (p *Pipeline) enhance(ctx context.Context, run *smartRun) error {
	a := run.analysis
	cfg := a.Config

	cfg.Summary = p.enhancer.EnhanceSummary(ctx, cfg.Summary, a.Posting, a.Skills.MatchedSkills)

	requirements := strings.Join(a.Keywords.Requirements, "; ")
	if requirements == "" {
		requirements = strings.Join(a.Keywords.TechnicalTerms, ", ")
	}
	cfg.ExperienceHighlights = p.enhancer.EnhanceBullets(ctx, cfg.ExperienceHighlights, requirements, cfg.Focus)

	if !run.req.DocType.wantsCover() {
		return nil
	}

	blocks, err := p.loadContentBlocks(config.CoverContentBlocksFile)
	if err != nil {
		return err
	}
	paragraphs, ok := blocks["paragraphs"].(map[string]any)
	if ok {
		personalContext := personalContext(cfg, a.Skills)
		keys := make([]string, 0, len(paragraphs))
		for k := range paragraphs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			text, isString := paragraphs[k].(string)
			if !isString {
				continue
			}
			paragraphs[k] = p.enhancer.EnhanceParagraph(ctx, text, a.Posting, personalContext)
		}
	}
	run.blocks = blocks
	return nil
}

func personalContext(cfg *types.RoleConfig, sk *types.SkillAnalysis) string {
	parts := []string{cfg.Summary}
	if names := sk.PrioritySkillNames(); len(names) > 0 {
		if len(names) > 5 {
			names = names[:5]
		}
		parts = append(parts, "Key skills: "+strings.Join(names, ", "))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
