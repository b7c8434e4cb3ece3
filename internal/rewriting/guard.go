package rewriting

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// maxGrowthFactor bounds how much longer a rewrite may be than its original
	maxGrowthFactor = 4
	// minLengthForGrowthCheck skips the growth check for very short originals
	minLengthForGrowthCheck = 40
)

// metricPattern matches numbers with optional unit suffixes: 40%, $2M, 10x, 1,000
var metricPattern = regexp.MustCompile(`\$?\d+(?:[.,]\d+)*(?:%|x|[kKmMbB]\b|\+)?`)

// rejectRewrite returns a reason when rewritten should not replace original, or "".
// A rewrite must keep every metric of the original and stay within a sane length.
func rejectRewrite(original, rewritten string) string {
	if strings.TrimSpace(rewritten) == "" {
		return "empty rewrite"
	}

	if missing := missingMetrics(original, rewritten); len(missing) > 0 {
		return fmt.Sprintf("dropped metrics: %s", strings.Join(missing, ", "))
	}

	if len(original) >= minLengthForGrowthCheck && len(rewritten) > maxGrowthFactor*len(original) {
		return fmt.Sprintf("rewrite is %d chars, original %d", len(rewritten), len(original))
	}
	return ""
}

// missingMetrics lists metrics present in original but absent from rewritten, in order.
func missingMetrics(original, rewritten string) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, metric := range metricPattern.FindAllString(original, -1) {
		if seen[metric] {
			continue
		}
		seen[metric] = true
		if !strings.Contains(rewritten, metric) {
			missing = append(missing, metric)
		}
	}
	return missing
}
