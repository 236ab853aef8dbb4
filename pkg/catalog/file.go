package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suren2787/contextmap/pkg/logging"
	"github.com/suren2787/contextmap/pkg/model"
)

// Annotation keys recognized on catalog entities
const (
	annotationProjectSlug    = "github.com/project-slug"
	annotationSourceLocation = "backstage.io/source-location"
)

// entityDoc is one YAML document in a catalog entity file
type entityDoc struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name        string            `yaml:"name"`
		Title       string            `yaml:"title"`
		Annotations map[string]string `yaml:"annotations"`
	} `yaml:"metadata"`
	Spec struct {
		Type         string   `yaml:"type"`
		System       string   `yaml:"system"`
		Domain       string   `yaml:"domain"`
		Owner        string   `yaml:"owner"`
		ProvidesApis []string `yaml:"providesApis"`
		ConsumesApis []string `yaml:"consumesApis"`
	} `yaml:"spec"`
}

// FileSource reads catalog entities from YAML files under a directory.
// Every call re-reads the directory so callers always see a fresh snapshot.
type FileSource struct {
	dir string
}

// NewFileSource creates a catalog source over a directory of entity files
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Name() string {
	return "File"
}

func (s *FileSource) Components(ctx context.Context) ([]model.ComponentRecord, error) {
	docs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	components := make([]model.ComponentRecord, 0)
	for _, doc := range docs {
		if !strings.EqualFold(doc.Kind, "Component") {
			continue
		}
		components = append(components, componentFromDoc(doc))
	}

	if err := ValidateComponents(components); err != nil {
		return nil, err
	}
	return components, nil
}

func (s *FileSource) Apis(ctx context.Context) ([]model.ApiRecord, error) {
	docs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	apis := make([]model.ApiRecord, 0)
	for _, doc := range docs {
		if !strings.EqualFold(doc.Kind, "API") {
			continue
		}
		apis = append(apis, model.ApiRecord{
			ID:     doc.Metadata.Name,
			Type:   doc.Spec.Type,
			System: doc.Spec.System,
			Owner:  doc.Spec.Owner,
		})
	}

	if err := ValidateApis(apis); err != nil {
		return nil, err
	}
	return apis, nil
}

// load walks the catalog directory and parses every YAML entity file.
// Files that fail to parse are skipped with a warning; a missing directory
// is an error.
func (s *FileSource) load(ctx context.Context) ([]entityDoc, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}

	var docs []entityDoc
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip entries we can't access
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || !isEntityFile(info.Name()) {
			return nil
		}

		fileDocs, err := parseEntityFile(path)
		if err != nil {
			logging.Warn("skipping malformed catalog file", "path", path, "error", err)
			return nil
		}
		docs = append(docs, fileDocs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking catalog directory: %w", err)
	}

	return docs, nil
}

func isEntityFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// parseEntityFile decodes all YAML documents in one file
func parseEntityFile(path string) ([]entityDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []entityDoc
	decoder := yaml.NewDecoder(f)
	for {
		var doc entityDoc
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
		}
		if doc.Kind == "" || doc.Metadata.Name == "" {
			continue // Not an entity document
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func componentFromDoc(doc entityDoc) model.ComponentRecord {
	name := doc.Metadata.Title
	if name == "" {
		name = doc.Metadata.Name
	}
	return model.ComponentRecord{
		ID:             doc.Metadata.Name,
		Name:           name,
		Type:           doc.Spec.Type,
		System:         doc.Spec.System,
		Domain:         doc.Spec.Domain,
		Owner:          doc.Spec.Owner,
		ProvidesAPIs:   doc.Spec.ProvidesApis,
		ConsumesAPIs:   doc.Spec.ConsumesApis,
		ProjectSlug:    doc.Metadata.Annotations[annotationProjectSlug],
		SourceLocation: doc.Metadata.Annotations[annotationSourceLocation],
	}
}
