// Package catalog holds the static reference data shared by the normalizers
// and analytics: the brand dictionary, service durability per category,
// rework keywords and the monthly market notes.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Brand aliases match anywhere in the text; tokens are short forms such
// as "lv" that only match as a whole word.
type Brand struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases"`
	Tokens  []string `yaml:"tokens" json:"tokens,omitempty"`
}

type DurabilityRule struct {
	Name    string   `yaml:"name"`
	Months  int      `yaml:"months"`
	Aliases []string `yaml:"aliases"`
}

// Durability maps a service category to the number of months until the
// item typically needs attention again.
type Durability struct {
	DefaultMonths int              `yaml:"default_months"`
	Categories    []DurabilityRule `yaml:"categories"`
}

type Rework struct {
	Keywords []string `yaml:"keywords"`
	Tokens   []string `yaml:"tokens"`
}

type Insight struct {
	Month  int      `yaml:"month" json:"month"`
	Title  string   `yaml:"title" json:"title"`
	Events []string `yaml:"events" json:"events"`
	Tips   string   `yaml:"tips" json:"tips"`
}

type Catalog struct {
	Brands        []Brand    `yaml:"brands"`
	Durability    Durability `yaml:"durability"`
	Rework        Rework     `yaml:"rework"`
	Insights      []Insight  `yaml:"insights"`
	AnnualInsight Insight    `yaml:"annual_insight"`
}

// Default returns a fresh copy of the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from disk, e.g. a shop-specific brand list.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Brands) == 0 {
		return nil, fmt.Errorf("catalog has no brands")
	}
	for _, b := range c.Brands {
		if b.Name == "" || len(b.Aliases)+len(b.Tokens) == 0 {
			return nil, fmt.Errorf("brand entry %q needs a name and at least one alias or token", b.Name)
		}
	}
	if c.Durability.DefaultMonths <= 0 {
		c.Durability.DefaultMonths = 12
	}
	return &c, nil
}

// InsightFor returns the market note for a calendar month, or the annual
// note when month is outside 1..12.
func (c *Catalog) InsightFor(month int) Insight {
	for _, in := range c.Insights {
		if in.Month == month {
			return in
		}
	}
	return c.AnnualInsight
}

// MonthsFor returns the durability of the first rule whose alias occurs in
// category, falling back to DefaultMonths.
func (d Durability) MonthsFor(category string) int {
	lower := strings.ToLower(category)
	for _, rule := range d.Categories {
		for _, a := range rule.Aliases {
			if a != "" && strings.Contains(lower, strings.ToLower(a)) {
				return rule.Months
			}
		}
	}
	return d.DefaultMonths
}

// Matches reports whether text mentions a rework. Keywords match as
// substrings; tokens must appear as whole words ("as" but not "glass").
func (r Rework) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range r.Keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	if len(r.Tokens) == 0 {
		return false
	}
	for _, w := range Words(lower) {
		for _, t := range r.Tokens {
			if w == strings.ToLower(t) {
				return true
			}
		}
	}
	return false
}

// Words splits text on anything that is not a letter or digit.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
}
