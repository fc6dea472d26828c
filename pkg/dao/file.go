package dao

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Tag prefixes reserved by the host; tags carrying them are not user tags.
var systemTagPrefixes = []string{
	"componentId:",
	"configurationId:",
	"configurationRowId:",
	"runId:",
	"branchId:",
}

// IsSystemTag reports whether the tag was attached by the host rather than a
// user.
func IsSystemTag(tag string) bool {
	for _, prefix := range systemTagPrefixes {
		if strings.HasPrefix(tag, prefix) {
			return true
		}
	}
	return false
}

// S3Staging describes input-file data staged in S3 instead of on local disk.
type S3Staging struct {
	IsSliced    bool          `json:"isSliced"`
	Region      string        `json:"region"`
	Bucket      string        `json:"bucket"`
	Key         string        `json:"key"`
	Credentials S3Credentials `json:"credentials"`
}

type S3Credentials struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
}

// ABSStaging describes input-file data staged in Azure Blob Storage.
type ABSStaging struct {
	IsSliced    bool           `json:"is_sliced"`
	Region      string         `json:"region"`
	Container   string         `json:"container"`
	Name        string         `json:"name"`
	Credentials ABSCredentials `json:"credentials"`
}

type ABSCredentials struct {
	SASConnectionString string `json:"sas_connection_string"`
	Expiration          string `json:"expiration"`
}

// FileDefinition is the non-tabular counterpart of TableDefinition: a file in
// the in/files or out/files area, grouped by tags instead of described by a
// schema.
type FileDefinition struct {
	FullPath    string
	Stage       string
	Tags        []string
	IsPublic    bool
	IsPermanent bool
	IsEncrypted bool
	Notify      bool

	// Input-side attributes, set by the host.
	ID         string
	Created    string
	SizeBytes  int64
	MaxAgeDays int
	S3         *S3Staging
	ABS        *ABSStaging
}

// NewFileDefinition builds an output file definition.
func NewFileDefinition(fullPath string, tags ...string) *FileDefinition {
	return &FileDefinition{FullPath: fullPath, Stage: StageOut, Tags: tags}
}

// Name returns the file name with the host-generated numeric id prefix
// stripped, when present.
func (f *FileDefinition) Name() string {
	name := filepath.Base(f.FullPath)
	if f.ID != "" {
		if prefix, rest, ok := strings.Cut(name, "_"); ok && prefix == f.ID {
			return rest
		}
	}
	return name
}

// FullName returns the on-disk file name including any id prefix.
func (f *FileDefinition) FullName() string {
	return filepath.Base(f.FullPath)
}

// UserTags returns the tags minus host-assigned system tags.
func (f *FileDefinition) UserTags() []string {
	var tags []string
	for _, tag := range f.Tags {
		if !IsSystemTag(tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasTags reports whether the file carries every one of the given tags.
func (f *FileDefinition) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range f.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CreatedAt parses the host creation timestamp.
func (f *FileDefinition) CreatedAt() (time.Time, bool) {
	if f.Created == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timeFormat, f.Created)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IDNum returns the numeric file id, or -1 when the id is absent or not
// numeric.
func (f *FileDefinition) IDNum() int64 {
	if f.ID == "" {
		return -1
	}
	n, err := strconv.ParseInt(f.ID, 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// FileManifest is the host-defined JSON shape for file manifests.
type FileManifest struct {
	ID          string      `json:"id,omitempty"`
	Created     string      `json:"created,omitempty"`
	Name        string      `json:"name,omitempty"`
	SizeBytes   int64       `json:"size_bytes,omitempty"`
	MaxAgeDays  int         `json:"max_age_days,omitempty"`
	IsPublic    bool        `json:"is_public,omitempty"`
	IsPermanent bool        `json:"is_permanent,omitempty"`
	IsEncrypted bool        `json:"is_encrypted,omitempty"`
	Notify      bool        `json:"notify,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	S3          *S3Staging  `json:"s3,omitempty"`
	ABS         *ABSStaging `json:"abs,omitempty"`
}

// ManifestDictionary projects the definition into the manifest shape for its
// stage. Output manifests carry only the attributes the component controls.
func (f *FileDefinition) ManifestDictionary() *FileManifest {
	m := &FileManifest{
		IsPublic:    f.IsPublic,
		IsPermanent: f.IsPermanent,
		IsEncrypted: f.IsEncrypted,
		Notify:      f.Notify,
		Tags:        f.Tags,
	}
	if f.Stage == StageIn {
		m.ID = f.ID
		m.Created = f.Created
		m.Name = f.Name()
		m.SizeBytes = f.SizeBytes
		m.MaxAgeDays = f.MaxAgeDays
	}
	return m
}

// WriteManifest serializes the manifest next to the file.
func (f *FileDefinition) WriteManifest() error {
	if f.FullPath == "" {
		return configErrorf("file definition has no full path, cannot place manifest")
	}
	return writeManifestFile(f.FullPath+ManifestSuffix, f.ManifestDictionary())
}

// FileDefinitionFromManifest reconstructs a file definition from a manifest
// path. Unlike tables, the data file itself must exist.
func FileDefinitionFromManifest(manifestPath string) (*FileDefinition, error) {
	var m FileManifest
	data, err := os.ReadFile(manifestPath)
	switch {
	case err == nil:
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, &ManifestParseError{Path: manifestPath, Reason: ManifestEmpty}
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, &ManifestParseError{Path: manifestPath, Reason: ManifestMalformed, Err: err}
		}
	case errors.Is(err, os.ErrNotExist):
		// manifest-less file, all attributes default
	default:
		return nil, &ManifestParseError{Path: manifestPath, Reason: ManifestInvalid, Err: err}
	}

	dataPath := strings.TrimSuffix(manifestPath, ManifestSuffix)
	if _, err := os.Stat(dataPath); err != nil {
		return nil, &ManifestParseError{Path: manifestPath, Reason: ManifestMissing,
			Err: fmt.Errorf("the corresponding file %s does not exist", dataPath)}
	}

	stage := StageOut
	if m.ID != "" {
		stage = StageIn
	}
	return &FileDefinition{
		FullPath:    dataPath,
		Stage:       stage,
		Tags:        m.Tags,
		IsPublic:    m.IsPublic,
		IsPermanent: m.IsPermanent,
		IsEncrypted: m.IsEncrypted,
		Notify:      m.Notify,
		ID:          m.ID,
		Created:     m.Created,
		SizeBytes:   m.SizeBytes,
		MaxAgeDays:  m.MaxAgeDays,
		S3:          m.S3,
		ABS:         m.ABS,
	}, nil
}
