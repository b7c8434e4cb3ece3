// Package pipeline provides the high-level orchestration of the analyze, generate and smart workflows.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/logger"
	"github.com/jonathan/job-tailor/internal/pipeline/steps"
	"github.com/jonathan/job-tailor/internal/rewriting"
	"github.com/jonathan/job-tailor/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// PostingFetcher retrieves a job posting. It always returns a usable posting; the error
// reports a degraded fetch.
type PostingFetcher interface {
	Fetch(ctx context.Context, url string) (posting types.JobPosting, err error)
}

// Options holds the collaborators of a Pipeline. Only Workspace is required.
type Options struct {
	Workspace  *config.Workspace
	Fetcher    PostingFetcher
	Enhancer   *rewriting.Enhancer
	Logger     *zap.Logger
	OnProgress ProgressCallback

	// Now and NewID default to time.Now and random UUIDs
	Now   func() time.Time
	NewID func() string
}

// Pipeline runs the workflows against one workspace.
type Pipeline struct {
	ws         *config.Workspace
	fetcher    PostingFetcher
	enhancer   *rewriting.Enhancer
	logger     *zap.Logger
	onProgress ProgressCallback
	now        func() time.Time
	newID      func() string
}

// New creates a Pipeline, filling unset collaborators with defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		ws:         opts.Workspace,
		fetcher:    opts.Fetcher,
		enhancer:   opts.Enhancer,
		logger:     logger.OrNop(opts.Logger),
		onProgress: opts.OnProgress,
		now:        opts.Now,
		newID:      opts.NewID,
	}
	if p.ws == nil {
		p.ws = config.NewWorkspace("")
	}
	if p.fetcher == nil {
		p.fetcher = fetch.NewPostingFetcher(&fetch.PostingFetcherConfig{
			Options: fetch.DefaultOptions(),
			Logger:  p.logger,
		})
	}
	if p.enhancer == nil {
		p.enhancer = rewriting.NewDisabled()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = func() string { return uuid.New().String() }
	}
	return p
}

// Workspace returns the workspace the pipeline reads from and writes to.
func (p *Pipeline) Workspace() *config.Workspace {
	return p.ws
}

// emitProgress calls the progress callback if configured
func (p *Pipeline) emitProgress(step, status, message string) {
	if p.onProgress == nil {
		return
	}
	p.onProgress(ProgressEvent{
		Step:     step,
		Category: steps.StepRegistry[step].Category,
		Status:   status,
		Message:  message,
	})
}

// stepFunc performs one step and reports its status and a human-readable message.
type stepFunc func() (status string, message string, err error)

// runStep validates dependencies, runs fn and records the outcome.
func (p *Pipeline) runStep(tracker *steps.Tracker, name string, fn stepFunc) error {
	if err := steps.ValidateDependencies(tracker, name); err != nil {
		return err
	}

	start := time.Now()
	status, message, err := fn()
	if err != nil {
		status = steps.StatusFailed
		message = err.Error()
	}
	if status == "" {
		status = steps.StatusCompleted
	}

	tracker.Record(steps.StepResult{
		Step:     name,
		Status:   status,
		Message:  message,
		Duration: time.Since(start),
		Error:    err,
	})
	p.logger.Debug("step finished",
		zap.String("step", name),
		zap.String("status", status),
		zap.Duration("duration", time.Since(start)),
	)
	p.emitProgress(name, status, message)
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func wrapStep(step string, err error) error {
	return fmt.Errorf("%s: %w", step, err)
}
