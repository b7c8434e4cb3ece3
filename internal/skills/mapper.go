// Package skills maps extracted job keywords onto the user's own skill catalog.
package skills

import (
	"sort"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// MaxPrioritySkills caps the ranked skill list
	MaxPrioritySkills = 10

	// Emphasis added per match type
	weightSubstringMatch = 1
	weightMappingMatch   = 2
)

// Map intersects a keyword analysis with the catalog and keyword mappings.
// Candidates are the technical terms followed by the top keywords. A candidate that is a substring
// of a catalog skill (or the reverse, case-insensitively) adds 1 to that skill; a candidate that is
// a key of keywordMap adds 2 to every mapped skill.
// Output ordering never depends on map iteration, so identical inputs give identical results.
func Map(analysis *types.KeywordAnalysis, catalog types.SkillCatalog, keywordMap types.KeywordToSkills) *types.SkillAnalysis {
	result := &types.SkillAnalysis{
		MatchedSkills:    []string{},
		SkillEmphasis:    map[string]int{},
		PrioritySkills:   []types.WeightedSkill{},
		UnmappedKeywords: []string{},
	}
	if analysis == nil {
		return result
	}

	catalogSkills := FlattenCatalog(catalog)
	mappings := normalizeMappings(keywordMap)

	// Map: skill name -> emphasis, with recorded order kept separately
	emphasis := make(map[string]int)
	var recorded []string
	record := func(skill string, weight int) {
		if _, exists := emphasis[skill]; !exists {
			recorded = append(recorded, skill)
		}
		emphasis[skill] += weight
	}

	catalogHits := make(map[string]bool)
	for _, candidate := range candidates(analysis) {
		for _, skill := range catalogSkills {
			if substringMatch(candidate, skill) {
				record(skill, weightSubstringMatch)
				catalogHits[candidate] = true
			}
		}
		for _, skill := range mappings[candidate] {
			record(skill, weightMappingMatch)
		}
	}

	for _, term := range analysis.TechnicalTerms {
		if catalogHits[term] || mappedByKey(term, keywordMap) {
			continue
		}
		result.UnmappedKeywords = appendUnique(result.UnmappedKeywords, term)
	}

	if len(recorded) == 0 {
		return result
	}

	ranked := make([]types.WeightedSkill, 0, len(recorded))
	for _, skill := range recorded {
		ranked = append(ranked, types.WeightedSkill{Skill: skill, Weight: emphasis[skill]})
	}

	// Stable sort keeps first-recorded order among equal weights
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	if len(ranked) > MaxPrioritySkills {
		ranked = ranked[:MaxPrioritySkills]
	}

	result.MatchedSkills = recorded
	result.SkillEmphasis = emphasis
	result.PrioritySkills = ranked
	return result
}

// FlattenCatalog returns every distinct catalog skill. Categories are visited in name order and
// skills in their listed order.
func FlattenCatalog(catalog types.SkillCatalog) []string {
	categories := make([]string, 0, len(catalog))
	for category := range catalog {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var skills []string
	seen := make(map[string]bool)
	for _, category := range categories {
		for _, skill := range catalog[category] {
			skill = strings.TrimSpace(skill)
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			skills = append(skills, skill)
		}
	}
	return skills
}

// candidates returns technical terms then top keywords, deduplicated in first-seen order.
func candidates(analysis *types.KeywordAnalysis) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range [][]string{analysis.TechnicalTerms, analysis.TopKeywords} {
		for _, kw := range list {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			out = append(out, kw)
		}
	}
	return out
}

func substringMatch(candidate, skill string) bool {
	lowerSkill := strings.ToLower(skill)
	return strings.Contains(lowerSkill, candidate) || strings.Contains(candidate, lowerSkill)
}

// normalizeMappings lowercases mapping keys. When two keys collide after lowercasing,
// the one that sorts first wins.
func normalizeMappings(keywordMap types.KeywordToSkills) map[string][]string {
	keys := make([]string, 0, len(keywordMap))
	for key := range keywordMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	normalized := make(map[string][]string, len(keywordMap))
	for _, key := range keys {
		lower := strings.ToLower(strings.TrimSpace(key))
		if _, exists := normalized[lower]; exists {
			continue
		}
		normalized[lower] = keywordMap[key]
	}
	return normalized
}

func mappedByKey(term string, keywordMap types.KeywordToSkills) bool {
	for key := range keywordMap {
		if strings.Contains(strings.ToLower(key), term) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
