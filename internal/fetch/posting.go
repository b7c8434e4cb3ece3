// Package fetch - posting.go combines fetching, optional browser rendering and field extraction.
package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/logger"
	"github.com/jonathan/job-tailor/internal/types"
)

// PostingFetcherConfig configures a PostingFetcher.
type PostingFetcherConfig struct {
	Options *Options
	// UseBrowser enables headless rendering when the plain HTTP page yields too little text
	UseBrowser bool
	Logger     *zap.Logger
}

// DefaultPostingFetcherConfig returns sensible defaults.
func DefaultPostingFetcherConfig() *PostingFetcherConfig {
	return &PostingFetcherConfig{
		Options: DefaultOptions(),
	}
}

// PostingFetcher downloads a job posting and reduces it to a JobPosting.
type PostingFetcher struct {
	options    *Options
	useBrowser bool
	logger     *zap.Logger
	render     RenderFunc
}

// NewPostingFetcher creates a fetcher. A nil config uses the defaults.
func NewPostingFetcher(cfg *PostingFetcherConfig) *PostingFetcher {
	if cfg == nil {
		cfg = DefaultPostingFetcherConfig()
	}
	opts := cfg.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PostingFetcher{
		options:    opts,
		useBrowser: cfg.UseBrowser,
		logger:     logger.OrNop(cfg.Logger),
		render:     WithBrowser,
	}
}

// Fetch always returns a usable posting. When the page cannot be retrieved the posting carries
// the Unknown sentinels and the error explains why; callers decide whether that is fatal.
func (f *PostingFetcher) Fetch(ctx context.Context, url string) (types.JobPosting, error) {
	log := f.logger.With(zap.String(logger.FieldURL, url))
	platform := DetectPlatform(url)

	result, err := URL(ctx, url, f.options)
	if err != nil {
		log.Warn("job posting fetch failed, using defaults", zap.Error(err))
		posting := types.NewUnknownPosting(url)
		posting.Platform = string(platform)
		posting.Source = platform.DisplayName()
		return posting, err
	}

	posting, err := ParseHTML(result.HTML, url)
	if err != nil {
		log.Warn("job posting could not be parsed, using defaults", zap.Error(err))
		return posting, nil
	}

	if f.useBrowser && ShouldUseBrowser(posting.Description) {
		log.Info("description too short, rendering with headless browser",
			zap.Int("chars", len(posting.Description)))
		if rendered, renderErr := f.render(ctx, url, f.options.Timeout, log); renderErr != nil {
			log.Warn("browser rendering failed, keeping HTTP result", zap.Error(renderErr))
		} else if browserPosting, parseErr := ParseHTML(rendered, url); parseErr == nil &&
			len(browserPosting.Description) > len(posting.Description) {
			posting = browserPosting
		}
	}

	if isEmptyPosting(posting) {
		log.Warn("no posting fields recognized on page", zap.String("platform", string(platform)))
	} else {
		log.Debug("extracted job posting", zap.String("posting", describe(posting)),
			zap.String("source", posting.Source))
	}

	return posting, nil
}
