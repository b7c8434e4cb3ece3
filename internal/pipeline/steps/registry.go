// Package steps provides step definitions, dependency validation and in-memory run tracking
// for the job-tailor workflows.
package steps

import (
	"fmt"
	"time"
)

// Step categories
const (
	CategoryAnalysis  = "analysis"
	CategoryTailoring = "tailoring"
	CategoryRewriting = "rewriting"
	CategoryRendering = "rendering"
	CategoryReporting = "reporting"
)

// Step statuses
const (
	StatusCompleted = "completed"
	// StatusDegraded means the step produced a fallback result, e.g. a posting with Unknown fields
	StatusDegraded = "degraded"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Step names
const (
	CheckConfig      = "check_config"
	FetchPosting     = "fetch_posting"
	ExtractKeywords  = "extract_keywords"
	MapSkills        = "map_skills"
	SelectTemplate   = "select_template"
	SynthesizeConfig = "synthesize_config"
	EnhanceContent   = "enhance_content"
	SaveRoleConfig   = "save_role_config"
	RenderResume     = "render_resume"
	SaveCoverConfig  = "save_cover_config"
	RenderCover      = "render_cover"
	WriteReport      = "write_report"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// Optional dependencies are ordered before the step but need not have run
	Optional []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	CheckConfig: {
		Name:     CheckConfig,
		Category: CategoryAnalysis,
	},
	FetchPosting: {
		Name:     FetchPosting,
		Category: CategoryAnalysis,
		Optional: []string{CheckConfig},
	},
	ExtractKeywords: {
		Name:         ExtractKeywords,
		Category:     CategoryAnalysis,
		Dependencies: []string{FetchPosting},
	},
	MapSkills: {
		Name:         MapSkills,
		Category:     CategoryAnalysis,
		Dependencies: []string{ExtractKeywords},
	},
	SelectTemplate: {
		Name:         SelectTemplate,
		Category:     CategoryTailoring,
		Dependencies: []string{FetchPosting},
	},
	SynthesizeConfig: {
		Name:         SynthesizeConfig,
		Category:     CategoryTailoring,
		Dependencies: []string{MapSkills, SelectTemplate},
	},
	EnhanceContent: {
		Name:         EnhanceContent,
		Category:     CategoryRewriting,
		Dependencies: []string{SynthesizeConfig},
	},
	SaveRoleConfig: {
		Name:         SaveRoleConfig,
		Category:     CategoryTailoring,
		Dependencies: []string{SynthesizeConfig},
		Optional:     []string{EnhanceContent},
	},
	RenderResume: {
		Name:         RenderResume,
		Category:     CategoryRendering,
		Dependencies: []string{SaveRoleConfig},
	},
	SaveCoverConfig: {
		Name:         SaveCoverConfig,
		Category:     CategoryTailoring,
		Dependencies: []string{MapSkills},
	},
	RenderCover: {
		Name:         RenderCover,
		Category:     CategoryRendering,
		Dependencies: []string{SaveCoverConfig},
		Optional:     []string{EnhanceContent},
	},
	WriteReport: {
		Name:         WriteReport,
		Category:     CategoryReporting,
		Dependencies: []string{SynthesizeConfig},
		Optional:     []string{RenderResume, RenderCover},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// StepResult records the outcome of one step
type StepResult struct {
	Step     string
	Category string
	Status   string
	Message  string
	Duration time.Duration
	Error    error
}

// Tracker records step results for a single run, in execution order.
type Tracker struct {
	results map[string]StepResult
	order   []string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{results: make(map[string]StepResult)}
}

// Record stores a step result, replacing an earlier result for the same step.
func (t *Tracker) Record(result StepResult) {
	if result.Category == "" {
		result.Category = StepRegistry[result.Step].Category
	}
	if _, exists := t.results[result.Step]; !exists {
		t.order = append(t.order, result.Step)
	}
	t.results[result.Step] = result
}

// Status returns the recorded status of a step.
func (t *Tracker) Status(step string) (string, bool) {
	result, ok := t.results[step]
	return result.Status, ok
}

// Results returns all recorded results in execution order.
func (t *Tracker) Results() []StepResult {
	out := make([]StepResult, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.results[name])
	}
	return out
}

// satisfied reports whether a dependency has run far enough for dependents to proceed.
func (t *Tracker) satisfied(step string) bool {
	status, ok := t.Status(step)
	return ok && (status == StatusCompleted || status == StatusDegraded)
}

// ValidateDependencies checks if all required dependencies for a step are satisfied
func ValidateDependencies(t *Tracker, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !t.satisfied(dep) {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}

// ValidatePlan checks that every step of plan is known, that its required dependencies are in
// the plan, and that every dependency in the plan, required or optional, runs before it.
func ValidatePlan(plan []string) error {
	position := make(map[string]int, len(plan))
	for i, name := range plan {
		if _, ok := StepRegistry[name]; !ok {
			return fmt.Errorf("unknown step: %s", name)
		}
		position[name] = i
	}

	for i, name := range plan {
		def := StepRegistry[name]
		var missing []string
		for _, dep := range def.Dependencies {
			if at, ok := position[dep]; !ok || at > i {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			return &DependencyError{Step: name, MissingDependencies: missing}
		}
		for _, dep := range def.Optional {
			if at, ok := position[dep]; ok && at > i {
				return fmt.Errorf("step %s must run after %s", name, dep)
			}
		}
	}
	return nil
}

// Plan returns the ordered steps of a smart run for the given document selection.
func Plan(resume, cover, enhance bool) []string {
	plan := []string{CheckConfig, FetchPosting, ExtractKeywords, MapSkills, SelectTemplate, SynthesizeConfig}
	if enhance {
		plan = append(plan, EnhanceContent)
	}
	plan = append(plan, SaveRoleConfig)
	if resume {
		plan = append(plan, RenderResume)
	}
	if cover {
		plan = append(plan, SaveCoverConfig, RenderCover)
	}
	return append(plan, WriteReport)
}
