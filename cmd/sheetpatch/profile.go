package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// profile is the optional YAML generation profile. Anything left zero
// falls back to the built-in defaults or to the extents of the template
// workbook's own sheets.
type profile struct {
	Seed  int64  `yaml:"seed"`
	Start string `yaml:"start"` // first week-ending label, e.g. "Week Ending 01-05-25"

	Sheets struct {
		Week     string `yaml:"week"`
		Brand    string `yaml:"brand"`
		Category string `yaml:"category"`
		Source   string `yaml:"source"`
	} `yaml:"sheets"`

	Rows struct {
		Source int `yaml:"source"` // data rows for the source sheet; 0 = match template
	} `yaml:"rows"`
}

func defaultProfile() profile {
	var p profile
	p.Seed = 42
	p.Sheets.Week = "Week Dictionary"
	p.Sheets.Brand = "Brand Dictionary"
	p.Sheets.Category = "Category Dictionary"
	p.Sheets.Source = "Source of Truth"
	return p
}

// loadProfile reads the YAML profile at path over the defaults. An empty
// path returns the defaults unchanged.
func loadProfile(path string) (profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile{}, fmt.Errorf("profile: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return profile{}, fmt.Errorf("profile %q: %w", path, err)
	}
	return p, nil
}
