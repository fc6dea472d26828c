package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

// TableColumnType is a per-column type override in an input mapping, used by
// workspace staging.
type TableColumnType struct {
	Source                   string `json:"source"`
	Type                     string `json:"type"`
	Destination              string `json:"destination,omitempty"`
	Length                   string `json:"length,omitempty"`
	Nullable                 bool   `json:"nullable,omitempty"`
	ConvertEmptyValuesToNull bool   `json:"convert_empty_values_to_null,omitempty"`
}

// TableInputMapping declares one table flowing into the component.
type TableInputMapping struct {
	Source        string            `json:"source"`
	Destination   string            `json:"destination,omitempty"`
	Limit         int               `json:"limit,omitempty"`
	Columns       []string          `json:"columns,omitempty"`
	WhereColumn   string            `json:"where_column,omitempty"`
	WhereValues   []string          `json:"where_values,omitempty"`
	WhereOperator string            `json:"where_operator,omitempty"`
	Days          int               `json:"days,omitempty"`
	ColumnTypes   []TableColumnType `json:"column_types,omitempty"`
}

// EffectiveDestination returns the on-disk file name the mapping produces:
// the declared destination, or the source's base name when absent.
func (m TableInputMapping) EffectiveDestination() string {
	if m.Destination != "" {
		return m.Destination
	}
	return m.Source
}

// TableOutputMapping declares one table flowing out of the component.
type TableOutputMapping struct {
	Source              string   `json:"source"`
	Destination         string   `json:"destination"`
	Incremental         bool     `json:"incremental,omitempty"`
	Columns             []string `json:"columns,omitempty"`
	PrimaryKey          []string `json:"primary_key,omitempty"`
	DeleteWhereColumn   string   `json:"delete_where_column,omitempty"`
	DeleteWhereOperator string   `json:"delete_where_operator,omitempty"`
	DeleteWhereValues   []string `json:"delete_where_values,omitempty"`
	Delimiter           string   `json:"delimiter,omitempty"`
	Enclosure           string   `json:"enclosure,omitempty"`
}

// FileInputMapping declares files flowing into the component, selected by
// tags or a query.
type FileInputMapping struct {
	Tags          []string `json:"tags,omitempty"`
	Query         string   `json:"query,omitempty"`
	ProcessedTags []string `json:"processed_tags,omitempty"`
	FilterByRunID bool     `json:"filter_by_run_id,omitempty"`
}

// FileOutputMapping declares files flowing out of the component.
type FileOutputMapping struct {
	Source      string   `json:"source"`
	IsPublic    bool     `json:"is_public,omitempty"`
	IsPermanent bool     `json:"is_permanent,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// StorageInput is the input half of the storage section.
type StorageInput struct {
	Tables []TableInputMapping `json:"tables,omitempty"`
	Files  []FileInputMapping  `json:"files,omitempty"`
}

// StorageOutput is the output half of the storage section.
type StorageOutput struct {
	Tables []TableOutputMapping `json:"tables,omitempty"`
	Files  []FileOutputMapping  `json:"files,omitempty"`
}

// Storage is the configuration section declaring the input/output mappings.
type Storage struct {
	Input  StorageInput  `json:"input,omitempty"`
	Output StorageOutput `json:"output,omitempty"`
}

// OAuthCredentials carries authorization injected by the host.
type OAuthCredentials struct {
	ID           string          `json:"id,omitempty"`
	Created      string          `json:"created,omitempty"`
	Data         json.RawMessage `json:"#data,omitempty"`
	OAuthVersion string          `json:"oauthVersion,omitempty"`
	AppKey       string          `json:"appKey,omitempty"`
	AppSecret    string          `json:"#appSecret,omitempty"`
}

// Authorization is the authorization section of the configuration file.
type Authorization struct {
	OAuthAPI struct {
		ID          string           `json:"id,omitempty"`
		Credentials OAuthCredentials `json:"credentials,omitempty"`
	} `json:"oauth_api,omitempty"`
}

// Configuration is the parsed config.json the host places into the data
// directory.
type Configuration struct {
	Parameters      map[string]any `json:"parameters,omitempty"`
	ImageParameters map[string]any `json:"image_parameters,omitempty"`
	Action          string         `json:"action,omitempty"`
	Storage         Storage        `json:"storage,omitempty"`
	Authorization   *Authorization `json:"authorization,omitempty"`
}

// LoadConfiguration reads config.json from the data directory.
func LoadConfiguration(dataDir string) (*Configuration, error) {
	path := filepath.Join(dataDir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &dao.ConfigurationError{
				Msg: fmt.Sprintf("configuration file %s not found", path),
			}
		}
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &dao.ConfigurationError{
			Msg: fmt.Sprintf("configuration file %s is not valid JSON: %v", path, err),
		}
	}
	return &cfg, nil
}

// ValidateParameters checks that every required key is present and non-empty
// in the parameters section.
func (c *Configuration) ValidateParameters(required ...string) error {
	return validateKeys("parameters", c.Parameters, required)
}

// ValidateImageParameters checks required keys in the image parameters.
func (c *Configuration) ValidateImageParameters(required ...string) error {
	return validateKeys("image parameters", c.ImageParameters, required)
}

func validateKeys(section string, values map[string]any, required []string) error {
	var missing []string
	for _, key := range required {
		v, ok := values[key]
		if !ok || v == nil || v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &dao.ConfigurationError{
			Msg: fmt.Sprintf("missing required %s: %v", section, missing),
		}
	}
	return nil
}
