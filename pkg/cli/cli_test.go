package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestManifestValidate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.csv"), []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.csv.manifest"),
		[]byte(`{"columns": ["a"]}`), 0o644))

	out, err := runCLI(t, "manifest", "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "OK   good.csv.manifest")
	assert.Contains(t, out, "1 manifests valid")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv.manifest"),
		[]byte(`{broken`), 0o644))
	out, err = runCLI(t, "manifest", "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL bad.csv.manifest")
}

func TestManifestShow(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(dataPath+".manifest",
		[]byte(`{"destination": "in.c-main.orders", "columns": ["id"], "primary_key": ["id"]}`), 0o644))

	out, err := runCLI(t, "manifest", "show", dataPath+".manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "in.c-main.orders")
	assert.Contains(t, out, "id")
}

func TestSchemaCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "orders",
		"primary_keys": ["id"],
		"fields": [{"name": "id", "base_type": "INTEGER"}, {"name": "note"}]
	}`), 0o644))

	out, err := runCLI(t, "schema", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, `schema "orders"`)
	assert.Contains(t, out, "2 fields")

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "orders", "fields": []}`), 0o644))
	_, err = runCLI(t, "schema", "check", path)
	assert.Error(t, err)
}

func TestSchemaDiff(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"name": "orders",
		"primary_keys": ["id"],
		"fields": [{"name": "id", "base_type": "INTEGER"}, {"name": "note"}]
	}`), 0o644))

	dataPath := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("1,x\n"), 0o644))

	t.Run("matching", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dataPath+".manifest", []byte(`{
			"columns": ["id", "note"],
			"primary_key": ["id"],
			"column_metadata": {
				"id": [{"key": "KBC.datatype.basetype", "value": "INTEGER"}]
			}
		}`), 0o644))

		out, err := runCLI(t, "schema", "diff", schemaPath, dataPath+".manifest")
		require.NoError(t, err)
		assert.Contains(t, out, "matches the manifest")
	})

	t.Run("blocking_drift", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dataPath+".manifest",
			[]byte(`{"columns": ["id"], "primary_key": ["id"]}`), 0o644))

		out, err := runCLI(t, "schema", "diff", schemaPath, dataPath+".manifest")
		require.Error(t, err)
		assert.Contains(t, out, "BLOCK")
	})
}
