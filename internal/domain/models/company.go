package models

import "slices"

// Cohort tags assigned by analysts are in [MinTag, MaxTag].
const (
	MinTag = 1
	MaxTag = 11
)

// NoCode is reported as the code of a company without a market-code mapping.
const NoCode = "N/A"

// CompanyInfo holds the free-text descriptive fields of the metadata workbook.
type CompanyInfo struct {
	Summary         string `json:"summary"`
	BioIndustryCode string `json:"bio_industry_code"`
	MainProducts    string `json:"main_products"`
	BiotechCode     string `json:"biotech_code"`
	AdditionalDesc  string `json:"additional_desc"`
}

// Company is one metadata record keyed by name.
type Company struct {
	Name string
	Tags []int
	Info CompanyInfo
}

// HasTag reports whether the company belongs to the cohort.
func (c *Company) HasTag(tag int) bool {
	return slices.Contains(c.Tags, tag)
}

// CodeEntry maps a company name to its normalized market code.
type CodeEntry struct {
	Name string
	Code string
}

// Tags returns every cohort tag in ascending order.
func Tags() []int {
	out := make([]int, 0, MaxTag-MinTag+1)
	for t := MinTag; t <= MaxTag; t++ {
		out = append(out, t)
	}
	return out
}
