// Package keywords extracts word frequencies, technical terms and requirement phrases from job descriptions.
package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// MaxTopKeywords caps the frequency-ranked keyword list
	MaxTopKeywords = 20
	// MinTokenLength is the shortest token kept in the frequency table, counted in characters
	MinTokenLength = 3
)

var nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)

var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s+of\s+experience`),
	regexp.MustCompile(`experience\s+with\s+([^.,]+)`),
	regexp.MustCompile(`proficient\s+in\s+([^.,]+)`),
	regexp.MustCompile(`knowledge\s+of\s+([^.,]+)`),
	regexp.MustCompile(`skilled?\s+in\s+([^.,]+)`),
}

// Extract analyzes a job description. Empty input yields an empty analysis.
// The result depends only on the input text, so repeated calls are identical.
func Extract(description string) *types.KeywordAnalysis {
	analysis := &types.KeywordAnalysis{
		TechnicalTerms: []string{},
		TopKeywords:    []string{},
		WordFrequency:  map[string]int{},
		Requirements:   []string{},
	}

	lower := strings.ToLower(description)
	if strings.TrimSpace(lower) == "" {
		return analysis
	}

	// Frequency table with first-occurrence order for tie breaking
	var order []string
	for _, token := range Tokenize(lower) {
		if _, seen := analysis.WordFrequency[token]; !seen {
			order = append(order, token)
		}
		analysis.WordFrequency[token]++
	}

	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return analysis.WordFrequency[ranked[i]] > analysis.WordFrequency[ranked[j]]
	})
	if len(ranked) > MaxTopKeywords {
		ranked = ranked[:MaxTopKeywords]
	}
	analysis.TopKeywords = ranked

	analysis.TechnicalTerms = TechnicalTerms(lower)
	analysis.Requirements = Requirements(lower)

	return analysis
}

// Tokenize normalizes text and returns the tokens that survive stopword and length filtering.
func Tokenize(text string) []string {
	normalized := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(normalized)

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) < MinTokenLength {
			continue
		}
		if _, stop := stopwords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// TechnicalTerms scans lowercased text against the fixed vocabulary.
// Terms are returned in vocabulary order without duplicates.
func TechnicalTerms(lower string) []string {
	terms := []string{}
	seen := make(map[string]bool)
	for _, entry := range vocabulary {
		if seen[entry.term] {
			continue
		}
		if entry.pattern.MatchString(lower) {
			seen[entry.term] = true
			terms = append(terms, entry.term)
		}
	}
	return terms
}

// Requirements returns requirement phrases such as "5+ years of experience" or "proficient in go".
func Requirements(lower string) []string {
	requirements := []string{}
	seen := make(map[string]bool)
	for _, pattern := range requirementPatterns {
		for _, match := range pattern.FindAllString(lower, -1) {
			phrase := strings.Join(strings.Fields(match), " ")
			if phrase == "" || seen[phrase] {
				continue
			}
			seen[phrase] = true
			requirements = append(requirements, phrase)
		}
	}
	return requirements
}
