// Package fetch - extract.go turns a job posting page into a JobPosting using per-field strategy lists.
package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/job-tailor/internal/types"
)

// Strategy extracts one posting field from a parsed page. It returns "" when it finds nothing.
type Strategy func(doc *goquery.Document) string

// FieldStrategies holds the ordered strategies for every posting field.
// The first strategy that yields non-empty text wins.
type FieldStrategies struct {
	Title       []Strategy
	Company     []Strategy
	Location    []Strategy
	Description []Strategy
}

// Selector returns the collapsed text of the first element matching any of the selectors, tried in order.
func Selector(selectors ...string) Strategy {
	return func(doc *goquery.Document) string {
		for _, sel := range selectors {
			if text := collapseWhitespace(doc.Find(sel).First().Text()); text != "" {
				return text
			}
		}
		return ""
	}
}

// Constant always yields value.
func Constant(value string) Strategy {
	return func(*goquery.Document) string {
		return value
	}
}

// DocumentTitle yields the page's <title> text.
func DocumentTitle() Strategy {
	return Selector("head title")
}

// pageNoise is removed from every page before any text is read.
const pageNoise = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// ExtractMainText returns the multi-line text of the first content selector under root that
// yields text, after removing page and platform noise. With no match it falls back to all of
// root. root itself is left untouched.
func ExtractMainText(root *goquery.Selection, contentSelectors, noiseSelectors []string) string {
	scope := root.Clone()
	scope.Find(pageNoise).Remove()
	if len(noiseSelectors) > 0 {
		scope.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	for _, sel := range contentSelectors {
		if text := cleanWhitespace(scope.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return cleanWhitespace(scope.Text())
}

// MainText yields the main text of the page body; see ExtractMainText.
func MainText(contentSelectors, noiseSelectors []string) Strategy {
	return func(doc *goquery.Document) string {
		return ExtractMainText(doc.Find("body"), contentSelectors, noiseSelectors)
	}
}

// Strategies returns the field strategies for a platform.
func Strategies(platform Platform) FieldStrategies {
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	switch platform {
	case PlatformLinkedIn:
		return FieldStrategies{
			Title:       []Strategy{Selector("h1.top-card-layout__title", "h1"), DocumentTitle()},
			Company:     []Strategy{Selector("a.topcard__org-name-link", "span.topcard__flavor")},
			Location:    []Strategy{Selector("span.topcard__flavor--bullet")},
			Description: []Strategy{MainText(content, noise)},
		}
	case PlatformBreezy:
		return FieldStrategies{
			Title:       []Strategy{Selector("h1"), DocumentTitle()},
			Company:     []Strategy{Selector("h2")},
			Location:    []Strategy{Selector("div.location", "li.location")},
			Description: []Strategy{MainText(content, noise)},
		}
	case PlatformGreenhouse:
		return FieldStrategies{
			Title:       []Strategy{Selector("h1.app-title", "h1.section-header", "h1"), DocumentTitle()},
			Company:     []Strategy{Selector("span.company-name", ".company-name")},
			Location:    []Strategy{Selector("div.location", ".job__location")},
			Description: []Strategy{MainText(content, noise)},
		}
	case PlatformLever:
		return FieldStrategies{
			Title:       []Strategy{Selector(".posting-headline h2", "h2"), DocumentTitle()},
			Company:     []Strategy{Selector("div.company-name", ".main-footer-text a")},
			Location:    []Strategy{Selector("div.location", ".posting-categories .location")},
			Description: []Strategy{MainText(content, noise)},
		}
	case PlatformWorkday:
		return FieldStrategies{
			Title:       []Strategy{Selector("h1[data-automation-id='jobPostingHeader']", "h2[data-automation-id='jobPostingHeader']", "h1"), DocumentTitle()},
			Company:     []Strategy{Constant("Company")},
			Location:    []Strategy{Selector("dd[data-automation-id='locations']", "[data-automation-id='locations'] dd")},
			Description: []Strategy{MainText(content, noise)},
		}
	default:
		return GenericStrategies()
	}
}

// GenericStrategies is the heuristic used for unrecognized hosts.
func GenericStrategies() FieldStrategies {
	return FieldStrategies{
		Title:       []Strategy{Selector("h1", "h2", "[class*='title']", "[class*='job']"), DocumentTitle()},
		Company:     []Strategy{Selector("[class*='company']", "[class*='employer']", "h2")},
		Location:    []Strategy{Selector("[class*='location']", "[class*='address']")},
		Description: []Strategy{MainText(JobPostingSelectors(), PlatformNoiseSelectors(PlatformUnknown))},
	}
}

// firstMatch runs strategies in order and returns the first non-empty result.
func firstMatch(doc *goquery.Document, strategies []Strategy) string {
	for _, strategy := range strategies {
		if value := strings.TrimSpace(strategy(doc)); value != "" {
			return value
		}
	}
	return ""
}

// ParseHTML extracts a posting from page HTML. The platform is detected from sourceURL.
// Fields that cannot be found get the Unknown sentinels; the error is only set when the HTML
// cannot be parsed at all, in which case the returned posting carries just the sentinels.
func ParseHTML(html, sourceURL string) (types.JobPosting, error) {
	platform := DetectPlatform(sourceURL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		posting := types.NewUnknownPosting(sourceURL)
		posting.Platform = string(platform)
		posting.Source = platform.DisplayName()
		return posting, &Error{URL: sourceURL, Message: "failed to parse HTML", Cause: err}
	}

	return extractPosting(doc, platform, sourceURL), nil
}

func extractPosting(doc *goquery.Document, platform Platform, sourceURL string) types.JobPosting {
	strategies := Strategies(platform)

	posting := types.JobPosting{
		Title:       firstMatch(doc, strategies.Title),
		Company:     firstMatch(doc, strategies.Company),
		Location:    firstMatch(doc, strategies.Location),
		Description: firstMatch(doc, strategies.Description),
		SourceURL:   sourceURL,
		Source:      platform.DisplayName(),
		Platform:    string(platform),
	}

	return posting.WithDefaults()
}

// isEmptyPosting reports whether nothing beyond the sentinels was extracted.
func isEmptyPosting(p types.JobPosting) bool {
	return p.Title == types.UnknownTitle &&
		p.Company == types.UnknownCompany &&
		p.Location == types.UnknownLocation &&
		p.Description == ""
}

func describe(p types.JobPosting) string {
	return fmt.Sprintf("%s at %s", p.Title, p.Company)
}
