// Package observability renders human-readable summaries of an analysis run for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxUnmappedToShow limits the "not in your profile" list
	maxUnmappedToShow = 10
)

// Printer handles formatted output for analysis summaries
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip truncates a line to the box's inner width, counting runes.
func clip(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// writeList writes up to limit items as bullets followed by an "... and N more" line.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintPosting outputs the extracted posting fields.
func (p *Printer) PrintPosting(posting types.JobPosting) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:    %s\n", posting.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", posting.Company))
	sb.WriteString(fmt.Sprintf("Location: %s\n", posting.Location))
	if posting.Source != "" {
		sb.WriteString(fmt.Sprintf("Parser:   %s\n", posting.Source))
	}
	sb.WriteString(fmt.Sprintf("Description: %d chars\n", len(posting.Description)))

	p.printBox("JOB POSTING", sb.String())
}

// PrintSkillAnalysis outputs the analysis summary: counts, relevant skills and unmapped terms.
func (p *Printer) PrintSkillAnalysis(keywords *types.KeywordAnalysis, analysis *types.SkillAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Mapped skills:     %d\n", len(analysis.MatchedSkills)))
	sb.WriteString(fmt.Sprintf("Priority skills:   %d\n", len(analysis.PrioritySkills)))
	sb.WriteString(fmt.Sprintf("Unmapped keywords: %d\n", len(analysis.UnmappedKeywords)))
	if keywords != nil {
		sb.WriteString(fmt.Sprintf("Technical terms:   %d\n", len(keywords.TechnicalTerms)))
	}

	if len(analysis.PrioritySkills) > 0 {
		sb.WriteString("\nYour relevant skills:\n")
		skills := make([]string, 0, len(analysis.PrioritySkills))
		for _, ws := range analysis.PrioritySkills {
			skills = append(skills, fmt.Sprintf("%s (%d)", ws.Skill, ws.Weight))
		}
		writeList(&sb, skills, len(skills))
	}

	if len(analysis.UnmappedKeywords) > 0 {
		sb.WriteString("\nMentioned but not in your profile:\n")
		writeList(&sb, analysis.UnmappedKeywords, maxUnmappedToShow)
	}

	p.printBox("ANALYSIS SUMMARY", sb.String())
}

// PrintTailoredConfig outputs the key fields of a synthesized role config.
func (p *Printer) PrintTailoredConfig(cfg *types.RoleConfig) {
	if cfg == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Role:     %s\n", cfg.Role))
	if cfg.Template != "" {
		sb.WriteString(fmt.Sprintf("Template: %s\n", cfg.Template))
	}
	if cfg.Focus != "" {
		sb.WriteString(fmt.Sprintf("Focus:    %s\n", cfg.Focus))
	}

	if len(cfg.DynamicSummaryFocus) > 0 {
		sb.WriteString("\nSummary focus:\n")
		writeList(&sb, cfg.DynamicSummaryFocus, maxItemsToShow)
	}

	if len(cfg.DynamicBullets) > 0 {
		sb.WriteString("\nHighlights:\n")
		writeList(&sb, cfg.DynamicBullets, maxItemsToShow)
	}

	if len(cfg.ATSKeywords) > 0 {
		sb.WriteString(fmt.Sprintf("\nATS keywords: %s\n", strings.Join(cfg.ATSKeywords, ", ")))
	}

	p.printBox("TAILORED CONFIG", sb.String())
}

// PrintRecommendations outputs the recommendation lines, if any.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRecommendations(recommendations []string) {
	if len(recommendations) == 0 {
		return
	}
	fmt.Fprintln(p.out, "Recommendations:")
	for _, r := range recommendations {
		fmt.Fprintf(p.out, "  • %s\n", r)
	}
}
