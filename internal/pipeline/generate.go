package pipeline

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/rendering"
	"github.com/jonathan/job-tailor/internal/types"
)

// GenerateResult describes one rendered document.
type GenerateResult struct {
	ConfigPath string
	OutputPath string
	Size       int64
	Role       string
	Location   string
	Focus      string
	Company    string
}

// GenerateResume renders a resume from a role config reference (path, file name or bare name).
func (p *Pipeline) GenerateResume(configRef, outputName, company string) (*GenerateResult, error) {
	personal, err := p.ws.LoadPersonal()
	if err != nil {
		return nil, err
	}
	cfg, cfgPath, err := p.ws.LoadRoleConfig(configRef)
	if err != nil {
		return nil, err
	}

	path, err := p.renderDocument(rendering.KindResume, cfg, personal.Personal, company, outputName, nil)
	if err != nil {
		return nil, err
	}
	return p.generateResult(cfgPath, path, cfg.Role, cfg.Location, cfg.Focus, company), nil
}

// GenerateCover renders a cover letter from a cover letter config reference.
func (p *Pipeline) GenerateCover(configRef, outputName, company string) (*GenerateResult, error) {
	personal, err := p.ws.LoadPersonal()
	if err != nil {
		return nil, err
	}
	cfg, cfgPath, err := p.ws.LoadCoverConfig(configRef)
	if err != nil {
		return nil, err
	}
	if company == "" {
		company = cfg.Company
	}

	path, err := p.renderDocument(rendering.KindCoverLetter, cfg, personal.Personal, company, outputName, nil)
	if err != nil {
		return nil, err
	}
	return p.generateResult(cfgPath, path, cfg.Role, cfg.Location, cfg.TechnicalFocus, company), nil
}

func (p *Pipeline) generateResult(cfgPath, outPath, role, location, focus, company string) *GenerateResult {
	result := &GenerateResult{
		ConfigPath: cfgPath,
		OutputPath: outPath,
		Role:       role,
		Location:   location,
		Focus:      focus,
		Company:    company,
	}
	if info, err := os.Stat(outPath); err == nil {
		result.Size = info.Size()
	}
	return result
}

// renderDocument loads content blocks (unless already given), renders the document template
// for kind and writes it under versions/.
func (p *Pipeline) renderDocument(
	kind rendering.Kind,
	cfg any,
	personal types.PersonalInfo,
	company, outputName string,
	blocks map[string]any,
) (string, error) {
	if err := config.ValidateOutputName(outputName); err != nil {
		return "", err
	}
	templateFile, blocksFile := config.ResumeTemplateFile, config.ResumeContentBlocksFile
	if kind == rendering.KindCoverLetter {
		templateFile, blocksFile = config.CoverTemplateFile, config.CoverContentBlocksFile
	}

	if blocks == nil {
		var err error
		blocks, err = p.loadContentBlocks(blocksFile)
		if err != nil {
			return "", err
		}
	}

	data := rendering.NewTemplateData(kind, cfg, personal, blocks, company, p.now())
	content, err := rendering.Render(p.ws.Path(templateFile), data)
	if err != nil {
		return "", err
	}

	path, err := rendering.WriteDocument(p.ws.BaseDir, outputName, kind, content)
	if err != nil {
		return "", err
	}
	p.logger.Debug("document written", zap.String("kind", string(kind)), zap.String("path", path))
	return path, nil
}

// loadContentBlocks loads an optional content blocks file, warning when it is missing.
func (p *Pipeline) loadContentBlocks(rel string) (map[string]any, error) {
	blocks, found, err := p.ws.LoadContentBlocks(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to load content blocks: %w", err)
	}
	if !found {
		p.logger.Warn("content blocks file not found", zap.String("path", p.ws.Path(rel)))
	}
	return blocks, nil
}
