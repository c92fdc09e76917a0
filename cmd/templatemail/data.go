package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/templatemail/pkg/mailer"
)

// loadData reads template values from a YAML file. An empty path yields empty data.
func loadData(path string) (mailer.Data, error) {
	data := mailer.Data{}
	if path == "" {
		return data, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return data, nil
}
