// Package types provides type definitions for structured data used throughout the job-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Sentinel values used when a posting field could not be extracted.
const (
	UnknownTitle    = "Unknown Position"
	UnknownCompany  = "Unknown Company"
	UnknownLocation = "Unknown Location"
)

// JobPosting is a scraped job advertisement reduced to its core fields.
// Fields are never empty except Description; failed extractions fall back to the Unknown sentinels.
type JobPosting struct {
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
	SourceURL   string `json:"source_url" yaml:"source_url"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"` // human readable parser name, e.g. "Greenhouse"
	Platform    string `json:"platform,omitempty" yaml:"platform,omitempty"`
}

// NewUnknownPosting returns a posting carrying only the sentinel defaults.
func NewUnknownPosting(sourceURL string) JobPosting {
	return JobPosting{
		Title:     UnknownTitle,
		Company:   UnknownCompany,
		Location:  UnknownLocation,
		SourceURL: sourceURL,
	}
}

// WithDefaults returns a copy of p where every empty field except Description is replaced by its sentinel.
func (p JobPosting) WithDefaults() JobPosting {
	if p.Title == "" {
		p.Title = UnknownTitle
	}
	if p.Company == "" {
		p.Company = UnknownCompany
	}
	if p.Location == "" {
		p.Location = UnknownLocation
	}
	return p
}
