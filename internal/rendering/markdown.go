package rendering

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/job-tailor/internal/types"
)

// Kind distinguishes the two document types.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "cover-letter"
)

// OutputDir is the directory, relative to the base dir, that rendered documents go to.
const OutputDir = "versions"

const (
	resumeDateLayout = "2006-01-02"
	coverDateLayout  = "January 02, 2006"
	timeLayout       = "2006-01-02 15:04:05"
)

// TemplateData is the value templates are executed against. Templates refer to it as
// {{.Config.Role}}, {{.Personal.Name}}, {{.ContentBlocks.summary}} and so on.
type TemplateData struct {
	Config         any
	Personal       types.PersonalInfo
	ContentBlocks  map[string]any
	CompanyName    string
	GenerationDate string
	GenerationTime string
}

// NewTemplateData builds template data for a document kind. Resume dates use ISO format,
// cover letter dates are spelled out.
func NewTemplateData(kind Kind, config any, personal types.PersonalInfo, blocks map[string]any, companyName string, now time.Time) *TemplateData {
	if blocks == nil {
		blocks = map[string]any{}
	}
	layout := resumeDateLayout
	if kind == KindCoverLetter {
		layout = coverDateLayout
	}
	return &TemplateData{
		Config:         config,
		Personal:       personal,
		ContentBlocks:  blocks,
		CompanyName:    companyName,
		GenerationDate: now.Format(layout),
		GenerationTime: now.Format(timeLayout),
	}
}

// Funcs returns the helper functions available to document templates.
func Funcs() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		"join":    join,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"title":   titleCaser.String,
		"default": defaultValue,
		"escape":  EscapeMarkdown,
		"take":    take,
	}
}

// Render reads a template file and executes it against data.
func Render(templatePath string, data *TemplateData) (string, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return "", &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	return RenderString(filepath.Base(templatePath), string(content), data)
}

// RenderString executes template text against data. A reference to a missing map key fails
// instead of rendering "<no value>".
func RenderString(name, text string, data *TemplateData) (string, error) {
	if data == nil {
		return "", &RenderError{Message: "no template data"}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Funcs(Funcs()).Parse(text)
	if err != nil {
		return "", &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// OutputPath returns where a document of the given kind is written.
func OutputPath(baseDir, outputName string, kind Kind) string {
	fileName := outputName + ".md"
	if kind == KindCoverLetter {
		fileName = outputName + "-cover-letter.md"
	}
	return filepath.Join(baseDir, OutputDir, fileName)
}

// WriteDocument writes rendered content, creating the output directory when needed.
func WriteDocument(baseDir, outputName string, kind Kind, content string) (string, error) {
	if strings.TrimSpace(outputName) == "" {
		return "", &RenderError{Message: "output name is empty"}
	}

	path := OutputPath(baseDir, outputName, kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &RenderError{
			Message: fmt.Sprintf("failed to create output directory %s", filepath.Dir(path)),
			Cause:   err,
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &RenderError{
			Message: fmt.Sprintf("failed to write %s", path),
			Cause:   err,
		}
	}
	return path, nil
}

// defaultValue returns value unless it is nil, an empty string or an empty list.
// Usage: {{default "General" .CompanyName}}
func defaultValue(fallback any, value any) any {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		if v == "" {
			return fallback
		}
	case []string:
		if len(v) == 0 {
			return fallback
		}
	case []any:
		if len(v) == 0 {
			return fallback
		}
	}
	return value
}

// join accepts both typed string lists and the []any lists decoded from YAML content blocks.
func join(items any, sep string) (string, error) {
	switch v := items.(type) {
	case nil:
		return "", nil
	case []string:
		return strings.Join(v, sep), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, sep), nil
	default:
		return "", fmt.Errorf("join: unsupported list type %T", items)
	}
}

// take returns at most n leading items.
func take(n int, items []string) []string {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
