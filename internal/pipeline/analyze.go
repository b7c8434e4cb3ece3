package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/keywords"
	"github.com/jonathan/job-tailor/internal/logger"
	"github.com/jonathan/job-tailor/internal/pipeline/steps"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/skills"
	"github.com/jonathan/job-tailor/internal/tailoring"
	"github.com/jonathan/job-tailor/internal/types"
)

// Analysis is the in-memory result of analyzing one posting.
type Analysis struct {
	Posting         types.JobPosting
	Keywords        *types.KeywordAnalysis
	Skills          *types.SkillAnalysis
	Config          *types.RoleConfig
	Recommendations []string
	// TemplateName is the base role template the config was built from, "" when none was found
	TemplateName string
	// TemplateFallback is set when the classified template was missing and the default was used
	TemplateFallback bool
}

// Analyze fetches a posting and analyzes it. A failed fetch is returned as an error because the
// posting is the only product of an analysis.
func (p *Pipeline) Analyze(ctx context.Context, url string) (*Analysis, error) {
	posting, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}
	p.emitProgress(steps.FetchPosting, steps.StatusCompleted, fmt.Sprintf("Found: %s at %s", posting.Title, posting.Company))
	return p.AnalyzePosting(posting)
}

// AnalyzeHTML analyzes a saved posting page instead of fetching it.
func (p *Pipeline) AnalyzeHTML(html, sourceURL string) (*Analysis, error) {
	posting, err := fetch.ParseHTML(html, sourceURL)
	if err != nil {
		p.logger.Warn("saved page could not be parsed, using defaults", zap.Error(err))
	}
	return p.AnalyzePosting(posting)
}

// AnalyzePosting runs keyword extraction, skill mapping and config synthesis on a posting.
// Missing workspace files degrade the result instead of failing it.
func (p *Pipeline) AnalyzePosting(posting types.JobPosting) (*Analysis, error) {
	posting = posting.WithDefaults()

	mappings, err := p.loadMappings(false)
	if err != nil {
		return nil, err
	}
	personalLocation := ""
	if personal, err := p.ws.LoadPersonal(); err == nil {
		personalLocation = personal.Personal.Location
	} else if !isNotFound(err) {
		p.logger.Warn("personal info could not be loaded", zap.Error(err))
	}

	base, templateName, fallback, err := p.selectTemplate(posting, false)
	if err != nil {
		return nil, err
	}

	return p.analyze(posting, mappings, base, templateName, fallback, personalLocation), nil
}

func (p *Pipeline) analyze(
	posting types.JobPosting,
	mappings *types.SkillMappings,
	base *types.RoleConfig,
	templateName string,
	fallback bool,
	personalLocation string,
) *Analysis {
	kw := keywords.Extract(posting.Description)
	sk := skills.Map(kw, mappings.YourSkills, mappings.KeywordMappings)
	cfg := tailoring.Synthesize(tailoring.Input{
		Posting:          posting,
		Keywords:         kw,
		Skills:           sk,
		Base:             base,
		TemplateName:     templateName,
		PersonalLocation: personalLocation,
	})

	return &Analysis{
		Posting:          posting,
		Keywords:         kw,
		Skills:           sk,
		Config:           cfg,
		Recommendations:  skills.Recommendations(posting, sk, mappings.CompanyFocus),
		TemplateName:     templateName,
		TemplateFallback: fallback,
	}
}

// loadMappings loads the skill mappings. When required is false a missing file yields empty
// mappings and a warning.
func (p *Pipeline) loadMappings(required bool) (*types.SkillMappings, error) {
	mappings, err := p.ws.LoadSkillMappings()
	if err == nil {
		return mappings, nil
	}
	if required || !isNotFound(err) {
		return nil, err
	}
	p.logger.Warn("no skill mappings found, using empty mappings",
		zap.String("path", p.ws.Path(config.SkillMappingsFile)))
	return &types.SkillMappings{}, nil
}

// selectTemplate classifies the posting and loads its base role template. A missing template
// falls back to the default one. When both are missing, strict mode fails and lenient mode
// continues without a base.
func (p *Pipeline) selectTemplate(posting types.JobPosting, strict bool) (base *types.RoleConfig, name string, fallback bool, err error) {
	kind := tailoring.ClassifyRole(posting.Title, posting.Description)
	name = kind.TemplateName()

	base, _, err = p.ws.LoadRoleConfig(name)
	if err == nil {
		return base, name, false, nil
	}
	if !isNotFound(err) {
		return nil, "", false, err
	}

	defaultName := tailoring.RoleDefault.TemplateName()
	if name != defaultName {
		p.logger.Warn("role template not found, using default",
			zap.String("template", name),
			zap.String("default", defaultName))
		base, _, err = p.ws.LoadRoleConfig(defaultName)
		if err == nil {
			return base, defaultName, true, nil
		}
		if !isNotFound(err) {
			return nil, "", false, err
		}
	}

	if strict {
		return nil, "", false, &config.Error{
			Path:    p.ws.Path(config.RoleTemplatesDir),
			Message: fmt.Sprintf("no role template found for %q and default %q is missing", name, defaultName),
			Cause:   os.ErrNotExist,
		}
	}
	p.logger.Warn("no role templates found, building config from defaults")
	return nil, "", true, nil
}

// Report builds the JSON report for an analysis. meta is nil for plain analyze runs.
func (p *Pipeline) Report(a *Analysis, meta *types.GenerationMetadata) *types.AnalysisReport {
	return &types.AnalysisReport{
		ID:                 p.newID(),
		AnalysisDate:       p.now().Format(time.RFC3339),
		JobPosting:         a.Posting,
		KeywordAnalysis:    a.Keywords,
		SkillAnalysis:      a.Skills,
		GeneratedConfig:    a.Config,
		Recommendations:    a.Recommendations,
		GenerationMetadata: meta,
	}
}

// ReportPath returns where the report for an output name is written.
func (p *Pipeline) ReportPath(name string) string {
	return p.ws.Path(filepath.Join(config.AnalysisDir, name+"-analysis.json"))
}

// WriteReport validates the report against its schema and writes it to
// analysis/<name>-analysis.json.
func (p *Pipeline) WriteReport(name string, report *types.AnalysisReport) (string, error) {
	if err := config.ValidateOutputName(name); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis report: %w", err)
	}
	if err := schemas.ValidateAnalysisReport(data); err != nil {
		return "", fmt.Errorf("analysis report is invalid: %w", err)
	}

	path := p.ReportPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	p.logger.Debug("analysis report written", zap.String("path", path), zap.String("id", report.ID))
	return path, nil
}

// postingLogger returns a logger tagged with the posting URL.
func (p *Pipeline) postingLogger(url string) *zap.Logger {
	return logger.WithFields(p.logger, zap.String(logger.FieldURL, url))
}
