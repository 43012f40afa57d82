package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WritePage writes a page descriptor to a YAML file
func WritePage(page *Page, path string) error {
	data, err := yaml.Marshal(page)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPage reads and validates a page descriptor from a YAML file
func ReadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := page.Validate(); err != nil {
		return nil, err
	}

	return &page, nil
}

// Load resolves a page from a descriptor path or, if the path is empty, a preset name
func Load(path, preset string) (*Page, error) {
	if path != "" {
		return ReadPage(path)
	}
	if preset == "" {
		preset = "scroll-lobby"
	}
	page, err := Preset(preset)
	if err != nil {
		return nil, err
	}
	return page, page.Validate()
}
