package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/credentials"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/logger"
	"github.com/jonathan/job-tailor/internal/pipeline"
	"github.com/jonathan/job-tailor/internal/pipeline/steps"
	"github.com/jonathan/job-tailor/internal/rewriting"
)

const appName = "job_tailor"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Tailor a Markdown resume and cover letter to a job posting",
	Long: `job_tailor scrapes a job posting, extracts its keywords, maps them onto your skill
catalog and renders a tailored resume and cover letter from your Markdown templates.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if app != nil && app.logger != nil {
			_ = app.logger.Sync()
		}
	},
}

var (
	cfgFile string
	apiKey  string
)

// app holds the settings, logger and workspace of the running invocation.
var app *cli

// cli holds the state shared by all commands of one invocation.
type cli struct {
	v        *viper.Viper
	apiKey   string
	settings *config.Settings
	logger   *zap.Logger
	ws       *config.Workspace
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("base-dir", ".", "Workspace directory holding configs/, base/ and versions/")
	flags.StringVar(&cfgFile, "config", "", "Settings file (default is config.yaml in the base directory)")
	flags.BoolP("debug", "d", false, "Verbose/debug output")
	flags.BoolP("json", "j", false, "JSON format for logging")
	flags.StringVar(&apiKey, "api-key", "", "Gemini API key for --enhance (overrides GEMINI_API_KEY, .env and config.yaml)")
	flags.Bool("browser", false, "Render postings in headless Chrome when the plain page has too little text")
	flags.Duration("timeout", 0, "Timeout for fetching a posting (default 30s)")
}

// setup builds a fresh viper for every invocation so settings never leak between runs.
func setup(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"base-dir":      "base-dir",
		"debug":         "debug",
		"json":          "json",
		"fetch.browser": "browser",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	// --timeout only overrides the settings file when given
	if f := flags.Lookup("timeout"); f.Changed {
		_ = v.BindPFlag("fetch.timeout", f)
	}

	c := &cli{v: v, apiKey: apiKey}
	if err := c.load(); err != nil {
		return err
	}
	app = c
	return nil
}

// load reads settings and builds the logger and workspace.
func (c *cli) load() error {
	if err := config.ReadConfigFile(c.v, cfgFile, c.v.GetString("base-dir")); err != nil {
		return err
	}
	settings, err := config.LoadSettings(c.v)
	if err != nil {
		return err
	}
	log, err := logger.New(settings.JSON, settings.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	c.settings = settings
	c.logger = log
	c.ws = config.NewWorkspace(settings.BaseDir)
	c.logger.Debug("settings loaded",
		zap.String("base_dir", settings.BaseDir),
		zap.String("config_file", c.v.ConfigFileUsed()),
	)
	return nil
}

// fetcher builds the posting fetcher from the fetch settings.
func (c *cli) fetcher() *fetch.PostingFetcher {
	opts := fetch.DefaultOptions()
	if c.settings.Fetch.Timeout > 0 {
		opts.Timeout = c.settings.Fetch.Timeout
	}
	if c.settings.Fetch.UserAgent != "" {
		opts.UserAgent = c.settings.Fetch.UserAgent
	}
	return fetch.NewPostingFetcher(&fetch.PostingFetcherConfig{
		Options:    opts,
		UseBrowser: c.settings.Fetch.Browser,
		Logger:     c.logger,
	})
}

// enhancer resolves the API key and returns an Enhancer. It is disabled when no key is found.
func (c *cli) enhancer(ctx context.Context) *rewriting.Enhancer {
	llmConfig := llm.DefaultConfig().WithModel(llm.TierStandard, c.settings.Gemini.Model)
	return rewriting.NewEnhancer(ctx, rewriting.Config{
		Sources: credentials.DefaultSources(c.apiKey, c.ws.Path(config.SecretsFile), c.settings.Gemini.APIKey),
		LLM:     llmConfig,
		Timeout: c.settings.Gemini.Timeout,
		Logger:  c.logger,
	})
}

// pipeline builds a pipeline that prints step progress to out.
func (c *cli) pipeline(out io.Writer, enhancer *rewriting.Enhancer) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Workspace:  c.ws,
		Fetcher:    c.fetcher(),
		Enhancer:   enhancer,
		Logger:     c.logger,
		OnProgress: progressPrinter(out),
	})
}

var statusSymbols = map[string]string{
	steps.StatusCompleted: "✓",
	steps.StatusDegraded:  "!",
	steps.StatusSkipped:   "-",
	steps.StatusFailed:    "✗",
}

// progressPrinter prints one line per finished step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func progressPrinter(out io.Writer) pipeline.ProgressCallback {
	return func(e pipeline.ProgressEvent) {
		symbol, ok := statusSymbols[e.Status]
		if !ok {
			symbol = "?"
		}
		if e.Message == "" {
			fmt.Fprintf(out, "[%s] %s\n", symbol, e.Step)
			return
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", symbol, e.Step, e.Message)
	}
}
