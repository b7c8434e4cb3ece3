// Package rewriting paraphrases generated resume and cover letter text with an LLM.
// Every operation fails open: when the model is unavailable or misbehaves the original text is returned.
package rewriting

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/credentials"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/logger"
	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// MaxBullets caps the number of bullets returned by EnhanceBullets.
	MaxBullets = 4
	// DefaultTimeout bounds a single rewrite call.
	DefaultTimeout = 30 * time.Second

	summaryDescriptionLimit   = 500
	paragraphDescriptionLimit = 300
	summarySkillLimit         = 8
	noDescription             = "No description available"
	unknownField              = "Unknown"
)

// ClientFactory builds the model client once a key has been resolved.
type ClientFactory func(ctx context.Context, config *llm.Config, apiKey string) (llm.Client, error)

// Config configures an Enhancer.
type Config struct {
	// Sources are tried in order; the first usable key wins.
	Sources []credentials.Source
	LLM     *llm.Config
	Tier    llm.ModelTier
	Timeout time.Duration
	Logger  *zap.Logger

	// NewClient defaults to llm.NewClient.
	NewClient ClientFactory
}

// Enhancer rewrites text through an LLM. A disabled Enhancer returns every input unchanged.
type Enhancer struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
	logger  *zap.Logger
	source  string
}

// NewEnhancer resolves the API key and builds the client. It never fails: a missing key or a
// client construction error yields a disabled Enhancer and a warning.
func NewEnhancer(ctx context.Context, cfg Config) *Enhancer {
	e := &Enhancer{
		tier:    cfg.Tier,
		timeout: cfg.Timeout,
		logger:  logger.OrNop(cfg.Logger),
	}
	if e.tier == "" {
		e.tier = llm.TierStandard
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}

	cred, err := credentials.Resolve(cfg.Sources...)
	if err != nil {
		e.logger.Warn("no API key found, skipping enhancement", zap.Error(err))
		return e
	}

	llmConfig := cfg.LLM
	if llmConfig == nil {
		llmConfig = llm.DefaultConfig()
	}
	newClient := cfg.NewClient
	if newClient == nil {
		newClient = llm.NewClient
	}

	client, err := newClient(ctx, llmConfig, cred.Key)
	if err != nil {
		e.logger.Warn("failed to create LLM client, skipping enhancement",
			zap.String("credential_source", cred.Source),
			zap.Error(err),
		)
		return e
	}

	e.client = client
	e.source = cred.Source
	e.logger = e.logger.With(zap.String(logger.FieldModel, client.GetModel(e.tier)))
	e.logger.Debug("enhancement enabled", zap.String("credential_source", cred.Source))
	return e
}

// NewDisabled returns an Enhancer that never calls a model.
func NewDisabled() *Enhancer {
	return &Enhancer{logger: zap.NewNop(), tier: llm.TierStandard, timeout: DefaultTimeout}
}

// Enabled reports whether a model client is available.
func (e *Enhancer) Enabled() bool {
	return e != nil && e.client != nil
}

// CredentialSource names the source the API key came from, or "" when disabled.
func (e *Enhancer) CredentialSource() string {
	if !e.Enabled() {
		return ""
	}
	return e.source
}

// Close releases the model client.
func (e *Enhancer) Close() error {
	if !e.Enabled() {
		return nil
	}
	return e.client.Close()
}

// EnhanceSummary rewrites a professional summary for the posting.
func (e *Enhancer) EnhanceSummary(ctx context.Context, summary string, posting types.JobPosting, matchedSkills []string) string {
	if !e.Enabled() || strings.TrimSpace(summary) == "" {
		return summary
	}

	skills := matchedSkills
	if len(skills) > summarySkillLimit {
		skills = skills[:summarySkillLimit]
	}

	answer, err := e.generate(ctx, "summary", "enhance-summary", map[string]string{
		"Summary":     summary,
		"Title":       orUnknown(posting.Title),
		"Company":     orUnknown(posting.Company),
		"Description": truncate(posting.Description, summaryDescriptionLimit),
		"Skills":      strings.Join(skills, ", "),
	})
	if err != nil {
		e.logger.Warn("summary enhancement failed, keeping original", zap.Error(err))
		return summary
	}
	if reason := rejectRewrite(summary, answer); reason != "" {
		e.logger.Warn("summary rewrite rejected, keeping original", zap.String("reason", reason))
		return summary
	}

	e.logger.Info("professional summary enhanced")
	return answer
}

// EnhanceBullets rewrites experience bullets toward the posting's requirements. The answer is
// parsed line by line and capped at MaxBullets.
func (e *Enhancer) EnhanceBullets(ctx context.Context, bullets []string, requirements string, roleFocus string) []string {
	if !e.Enabled() || len(bullets) == 0 {
		return bullets
	}

	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		lines = append(lines, "- "+b)
	}

	answer, err := e.generate(ctx, "bullets", "enhance-bullets", map[string]string{
		"Bullets":      strings.Join(lines, "\n"),
		"Requirements": requirements,
		"Focus":        roleFocus,
	})
	if err != nil {
		e.logger.Warn("bullet enhancement failed, keeping original", zap.Error(err))
		return bullets
	}

	enhanced := ParseBullets(answer)
	if len(enhanced) == 0 {
		e.logger.Warn("bullet enhancement returned no bullets, keeping original")
		return bullets
	}
	if reason := rejectRewrite(strings.Join(bullets, "\n"), strings.Join(enhanced, "\n")); reason != "" {
		e.logger.Warn("bullet rewrite rejected, keeping original", zap.String("reason", reason))
		return bullets
	}

	e.logger.Info("experience bullets enhanced", zap.Int("count", len(enhanced)))
	return enhanced
}

// EnhanceParagraph rewrites a cover letter paragraph for the posting.
func (e *Enhancer) EnhanceParagraph(ctx context.Context, paragraph string, posting types.JobPosting, personalContext string) string {
	if !e.Enabled() || strings.TrimSpace(paragraph) == "" {
		return paragraph
	}

	answer, err := e.generate(ctx, "paragraph", "enhance-paragraph", map[string]string{
		"Paragraph":   paragraph,
		"Title":       orUnknown(posting.Title),
		"Company":     orUnknown(posting.Company),
		"Description": truncate(posting.Description, paragraphDescriptionLimit),
		"Context":     personalContext,
	})
	if err != nil {
		e.logger.Warn("paragraph enhancement failed, keeping original", zap.Error(err))
		return paragraph
	}
	if reason := rejectRewrite(paragraph, answer); reason != "" {
		e.logger.Warn("paragraph rewrite rejected, keeping original", zap.String("reason", reason))
		return paragraph
	}

	e.logger.Info("cover letter paragraph enhanced")
	return answer
}

func (e *Enhancer) generate(ctx context.Context, op, promptKey string, data map[string]string) (string, error) {
	prompt, err := prompts.Render(prompts.RewritingFile, promptKey, data)
	if err != nil {
		return "", &APICallError{Op: op, Message: "failed to build prompt", Cause: err}
	}
	system, err := prompts.Get(prompts.RewritingFile, op+"-system")
	if err == nil {
		prompt = system + "\n\n" + prompt
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("calling model", zap.String("op", op), zap.String("prompt", logger.TruncateForLog(prompt, 200)))

	answer, err := e.client.GenerateContent(callCtx, prompt, e.tier)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &APICallError{Op: op, Message: "timed out", Cause: err}
		}
		return "", &APICallError{Op: op, Message: "failed to generate content", Cause: err}
	}

	answer = llm.CleanText(answer)
	if answer == "" {
		return "", &APICallError{Op: op, Message: "empty answer", Cause: llm.ErrEmptyResponse}
	}
	return answer, nil
}

// ParseBullets turns a model answer into bullet texts. "- " and "• " markers are stripped,
// headings and blank lines skipped, and at most MaxBullets are kept.
func ParseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			line = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "• "):
			line = strings.TrimSpace(strings.TrimPrefix(line, "• "))
		}
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == MaxBullets {
			break
		}
	}
	return bullets
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownField
	}
	return s
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return noDescription
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
