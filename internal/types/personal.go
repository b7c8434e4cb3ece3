// Package types provides type definitions for structured data used throughout the job-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PersonalInfo holds the candidate's contact details.
type PersonalInfo struct {
	Name     string `yaml:"name" json:"name" validate:"required,min=1"`
	Email    string `yaml:"email" json:"email" validate:"omitempty,email"`
	Phone    string `yaml:"phone" json:"phone"`
	Location string `yaml:"location" json:"location"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	GitHub   string `yaml:"github" json:"github"`
	Website  string `yaml:"website" json:"website"`
}

// PersonalConfig is the content of configs/personal-info.yaml.
type PersonalConfig struct {
	Personal PersonalInfo   `yaml:"personal" json:"personal" validate:"required"`
	Extra    map[string]any `yaml:",inline" json:"extra,omitempty"`
}
