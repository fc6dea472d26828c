package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
	"github.com/alexanderjulianmartinez/compkit/pkg/tableschema"
)

const defaultDataDir = "/data"

// CommonInterface handles the standard tasks of a component run: resolving
// the data directory, loading the configuration, building table and file
// definitions and passing the state document through.
type CommonInterface struct {
	DataDir   string
	SchemaDir string
	Env       EnvironmentVariables
	Config    *Configuration
}

// Option configures the CommonInterface constructor.
type Option func(*options)

type options struct {
	dataDir   string
	schemaDir string
}

// WithDataDir overrides the data directory. Takes precedence over the
// KBC_DATADIR environment variable.
func WithDataDir(path string) Option {
	return func(o *options) { o.dataDir = path }
}

// WithSchemaDir overrides the directory searched by SchemaByName.
func WithSchemaDir(path string) Option {
	return func(o *options) { o.schemaDir = path }
}

// New initializes the interface: resolves the data directory
// (override > KBC_DATADIR > /data) and loads config.json.
func New(opts ...Option) (*CommonInterface, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	env := LoadEnvironment()

	dataDir := o.dataDir
	if dataDir == "" {
		dataDir = env.DataDir
	}
	if dataDir == "" {
		dataDir = defaultDataDir
	}

	cfg, err := LoadConfiguration(dataDir)
	if err != nil {
		return nil, err
	}

	schemaDir := o.schemaDir
	if schemaDir == "" {
		schemaDir = defaultSchemaDir()
	}

	return &CommonInterface{
		DataDir:   dataDir,
		SchemaDir: schemaDir,
		Env:       env,
		Config:    cfg,
	}, nil
}

func defaultSchemaDir() string {
	for _, dir := range []string{"src/schemas", "schemas"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// InTablesPath returns the directory holding input tables.
func (c *CommonInterface) InTablesPath() string {
	return filepath.Join(c.DataDir, "in", "tables")
}

// OutTablesPath returns the directory output tables are written to.
func (c *CommonInterface) OutTablesPath() string {
	return filepath.Join(c.DataDir, "out", "tables")
}

// InFilesPath returns the directory holding input files.
func (c *CommonInterface) InFilesPath() string {
	return filepath.Join(c.DataDir, "in", "files")
}

// OutFilesPath returns the directory output files are written to.
func (c *CommonInterface) OutFilesPath() string {
	return filepath.Join(c.DataDir, "out", "files")
}

// LoadState returns the previous run's state document, or an empty object
// when none exists. The content is opaque to this package.
func (c *CommonInterface) LoadState() (json.RawMessage, error) {
	path := filepath.Join(c.DataDir, "in", "state.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return json.RawMessage("{}"), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("state file %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

// WriteState persists the state document for the next run. Accepts any
// JSON-serializable value, including a raw message read by LoadState.
func (c *CommonInterface) WriteState(state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	outDir := filepath.Join(c.DataDir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "state.json"), data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// CreateOutTableDefinition builds an output table definition rooted in the
// out/tables directory.
func (c *CommonInterface) CreateOutTableDefinition(name string, opts ...dao.TableOption) (*dao.TableDefinition, error) {
	opts = append(opts,
		dao.WithStage(dao.StageOut),
		dao.WithFullPath(filepath.Join(c.OutTablesPath(), name)),
	)
	return dao.NewTableDefinition(name, opts...)
}

// CreateInTableDefinition builds an input table definition rooted in the
// in/tables directory.
func (c *CommonInterface) CreateInTableDefinition(name string, opts ...dao.TableOption) (*dao.TableDefinition, error) {
	opts = append(opts,
		dao.WithStage(dao.StageIn),
		dao.WithFullPath(filepath.Join(c.InTablesPath(), name)),
	)
	return dao.NewTableDefinition(name, opts...)
}

// CreateOutFileDefinition builds an output file definition rooted in the
// out/files directory.
func (c *CommonInterface) CreateOutFileDefinition(name string, tags ...string) *dao.FileDefinition {
	return dao.NewFileDefinition(filepath.Join(c.OutFilesPath(), name), tags...)
}

// OutTableDefinitionFromSchema projects a declarative table schema into an
// output table definition: one column per field carrying the field's base
// type, length, default, nullability and description, with primary-key flags
// taken from the schema's primary_keys list.
func (c *CommonInterface) OutTableDefinitionFromSchema(schema *tableschema.TableSchema, opts ...dao.TableOption) (*dao.TableDefinition, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cols := make([]dao.ColumnDefinition, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		col, err := dao.NewColumnWithTypes(f.Name, dao.BaseType(dao.DataType{
			Dtype:   f.NormalizedBaseType(),
			Length:  f.Length,
			Default: f.Default,
		}))
		if err != nil {
			return nil, err
		}
		col.Nullable = f.Nullable
		col.Description = f.Description
		cols = append(cols, col)
	}
	opts = append(opts,
		dao.WithColumns(cols...),
		dao.WithPrimaryKey(schema.PrimaryKeys...),
	)
	if schema.Description != "" {
		opts = append(opts, dao.WithDescription(schema.Description))
	}
	return c.CreateOutTableDefinition(schema.CSVName(), opts...)
}

// SchemaByName loads "<name>.json" (or .yaml/.yml) from the schema
// directory.
func (c *CommonInterface) SchemaByName(name string) (*tableschema.TableSchema, error) {
	if c.SchemaDir == "" {
		return nil, &dao.ConfigurationError{
			Msg: "no schema directory configured, expected schemas/ or src/schemas",
		}
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(c.SchemaDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return tableschema.Load(path)
		}
	}
	return nil, &dao.ConfigurationError{
		Msg: fmt.Sprintf("table schema %q not found in %s", name, c.SchemaDir),
	}
}

// WriteManifests writes the manifest of every given definition.
func (c *CommonInterface) WriteManifests(defs ...*dao.TableDefinition) error {
	for _, def := range defs {
		if err := def.WriteManifest(); err != nil {
			return err
		}
	}
	return nil
}
