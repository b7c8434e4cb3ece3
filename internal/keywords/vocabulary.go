package keywords

import (
	"regexp"
	"strings"
)

type vocabularyEntry struct {
	term    string
	pattern *regexp.Regexp
}

// technicalVocabulary is grouped by concern. Order here is the order terms are reported in.
var technicalVocabulary = []string{
	// languages
	"python", "java", "javascript", "typescript", "c#", "c++", "go", "golang", "rust", "ruby", "php", "bash", "powershell",
	// web frameworks
	"react", "vue", "angular", "node.js", "express", "django", "flask", "spring",
	// cloud platforms
	"aws", "azure", "gcp", "google cloud", "cloud", "serverless",
	// containers
	"docker", "kubernetes", "aks", "eks", "helm", "openshift", "containers",
	// infrastructure as code
	"terraform", "bicep", "ansible", "pulumi", "cloudformation",
	// ci/cd
	"ci/cd", "jenkins", "github actions", "azure devops", "gitlab",
	// databases
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	// observability
	"prometheus", "grafana", "datadog", "observability", "monitoring",
	// methodologies
	"agile", "scrum", "kanban", "devops", "sre", "microservices", "finops",
}

var vocabulary = buildVocabulary(technicalVocabulary)

// buildVocabulary compiles each term with boundaries that tolerate symbols like "#", "+", "." and "/".
func buildVocabulary(terms []string) []vocabularyEntry {
	entries := make([]vocabularyEntry, 0, len(terms))
	for _, term := range terms {
		quoted := regexp.QuoteMeta(term)
		quoted = strings.ReplaceAll(quoted, " ", `\s+`)
		pattern := regexp.MustCompile(`(?:^|[^a-z0-9+#])` + quoted + `(?:$|[^a-z0-9+#])`)
		entries = append(entries, vocabularyEntry{term: term, pattern: pattern})
	}
	return entries
}

var stopwords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can", "her", "was", "one", "our",
	"out", "day", "get", "has", "him", "his", "how", "man", "new", "now", "old", "see", "two", "way",
	"who", "boy", "did", "its", "let", "put", "say", "she", "too", "use", "with", "this", "that",
	"from", "they", "will", "have", "your", "what", "when", "make", "like", "into", "time", "just",
	"know", "take", "than", "them", "well", "were", "been", "more", "also", "such", "some", "very",
	"each", "which", "their", "would", "there", "other", "about", "these", "those", "while", "where",
	"should", "could", "being", "over", "within", "across", "including", "able", "must", "work",
	"working", "role", "team", "teams", "join", "looking", "ideal", "candidate", "strong", "good",
	"great", "using", "used", "etc", "per", "via", "who", "whom", "both", "then", "only", "own",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
