package component

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

// InputTableDefinitions reconciles the configured input-table mappings with
// the files physically present in in/tables and returns definitions in
// processing order.
//
// When mappings are declared, the result follows mapping order and every
// mapping's destination must match exactly one on-disk entry; a missing
// entry fails before any manifest is read. Without mappings, all discovered
// entries are returned in discovery order.
func (c *CommonInterface) InputTableDefinitions() ([]*dao.TableDefinition, error) {
	entries, err := discoverEntries(c.InTablesPath())
	if err != nil {
		return nil, err
	}

	mappings := c.Config.Storage.Input.Tables
	if len(mappings) == 0 {
		defs := make([]*dao.TableDefinition, 0, len(entries))
		for _, name := range entries {
			def, err := dao.TableDefinitionFromManifest(filepath.Join(c.InTablesPath(), name+dao.ManifestSuffix))
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		}
		return defs, nil
	}

	present := make(map[string]bool, len(entries))
	for _, name := range entries {
		present[name] = true
	}
	// Validate the whole mapping before the first read: the host guarantees
	// at most one match, but a zero-match mapping is a configuration error.
	for _, m := range mappings {
		if !present[m.EffectiveDestination()] {
			return nil, &dao.ConfigurationError{
				Msg: fmt.Sprintf("expected input table %q not found in %s", m.EffectiveDestination(), c.InTablesPath()),
			}
		}
	}

	defs := make([]*dao.TableDefinition, 0, len(mappings))
	for _, m := range mappings {
		def, err := dao.TableDefinitionFromManifest(
			filepath.Join(c.InTablesPath(), m.EffectiveDestination()+dao.ManifestSuffix))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// discoverEntries lists the data entries of a directory in discovery order,
// folding orphaned manifests onto their data name and skipping hidden files.
func discoverEntries(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	seen := make(map[string]bool, len(dirEntries))
	var names []string
	for _, e := range dirEntries {
		name := strings.TrimSuffix(e.Name(), dao.ManifestSuffix)
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// FileFilter narrows the set of input files returned by
// InputFileDefinitions.
type FileFilter struct {
	// Tags keeps only files carrying every listed tag.
	Tags []string
	// OnlyLatestFiles reduces each name group to its highest-id file.
	OnlyLatestFiles bool
}

// InputFileDefinitions returns the input files matching the filter, in
// discovery order.
func (c *CommonInterface) InputFileDefinitions(filter FileFilter) ([]*dao.FileDefinition, error) {
	entries, err := discoverEntries(c.InFilesPath())
	if err != nil {
		return nil, err
	}
	var files []*dao.FileDefinition
	for _, name := range entries {
		def, err := dao.FileDefinitionFromManifest(filepath.Join(c.InFilesPath(), name+dao.ManifestSuffix))
		if err != nil {
			return nil, err
		}
		if len(filter.Tags) > 0 && !def.HasTags(filter.Tags) {
			continue
		}
		files = append(files, def)
	}
	if filter.OnlyLatestFiles {
		files = latestPerName(files)
	}
	return files, nil
}

// latestPerName keeps the highest-id file of each name group, preserving the
// discovery order of the survivors.
func latestPerName(files []*dao.FileDefinition) []*dao.FileDefinition {
	latest := make(map[string]*dao.FileDefinition, len(files))
	for _, f := range files {
		name := f.Name()
		if cur, ok := latest[name]; !ok || f.IDNum() > cur.IDNum() {
			latest[name] = f
		}
	}
	var out []*dao.FileDefinition
	for _, f := range files {
		if latest[f.Name()] == f {
			out = append(out, f)
		}
	}
	return out
}

// FilesByTag partitions files into a map from tag to the files carrying it,
// preserving discovery order within each group.
func FilesByTag(files []*dao.FileDefinition) map[string][]*dao.FileDefinition {
	groups := make(map[string][]*dao.FileDefinition)
	for _, f := range files {
		for _, tag := range f.Tags {
			groups[tag] = append(groups[tag], f)
		}
	}
	return groups
}

// FilesByName partitions files into a map from logical name to its files,
// preserving discovery order within each group.
func FilesByName(files []*dao.FileDefinition) map[string][]*dao.FileDefinition {
	groups := make(map[string][]*dao.FileDefinition)
	for _, f := range files {
		groups[f.Name()] = append(groups[f.Name()], f)
	}
	return groups
}
