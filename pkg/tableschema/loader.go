package tableschema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

// Load reads and validates a schema document. The format is chosen by file
// extension: .json for JSON, .yaml/.yml for YAML.
func Load(path string) (*TableSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// Parse decodes and validates a JSON schema document.
func Parse(data []byte) (*TableSchema, error) {
	var s TableSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, dao.SchemaErrorf("parse table schema: %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseYAML decodes and validates a YAML schema document.
func ParseYAML(data []byte) (*TableSchema, error) {
	var s TableSchema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, dao.SchemaErrorf("parse table schema: %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
