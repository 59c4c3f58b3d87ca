package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the top-level structure of a WBS import file. Tasks nest
// through Children exactly as they appear in the task tree.
type Document struct {
	ProjectID string       `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Tasks     []TaskImport `json:"tasks" yaml:"tasks"`
}

// TaskImport is one task of the import file.
type TaskImport struct {
	Name        string       `json:"name" yaml:"name"`
	StartDate   string       `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     string       `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Assignee    string       `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	AssigneeID  string       `json:"assignee_id,omitempty" yaml:"assignee_id,omitempty"`
	Status      string       `json:"status,omitempty" yaml:"status,omitempty"`
	Progress    *int         `json:"progress,omitempty" yaml:"progress,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Children    []TaskImport `json:"children,omitempty" yaml:"children,omitempty"`
}

// Format selects the decoder for ParseDocument.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension; anything that
// is not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// LoadDocument reads and parses an import file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data, FormatFromPath(path))
}

func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml import: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing json import: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	return &doc, nil
}
