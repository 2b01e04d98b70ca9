package io

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/project"
)

// BundleVersion is written to every exported bundle.
const BundleVersion = 1

// Bundle is the portable export of a catalog and its projects.
type Bundle struct {
	Version    int                          `json:"version"`
	Modules    map[string]catalog.Module    `json:"modules"`
	Processors map[string]catalog.Processor `json:"processors"`
	Projects   []*project.Project           `json:"projects,omitempty"`
}

// legacyProject is the single-project block of version-less bundles.
type legacyProject struct {
	Name            string `json:"name"`
	GroupIndexStart int    `json:"groupIndexStart"`
	WiringPattern   string `json:"wiringPattern"`
	ColorScheme     string `json:"colorScheme"`
}

// NewBundle captures a catalog and a set of projects.
func NewBundle(c catalog.Catalog, projects []*project.Project) *Bundle {
	c = c.Clone()
	return &Bundle{
		Version:    BundleVersion,
		Modules:    c.Modules,
		Processors: c.Processors,
		Projects:   projects,
	}
}

// Catalog returns the bundle's entries as a catalog, not merged with the
// defaults.
func (b *Bundle) Catalog() catalog.Catalog {
	return catalog.Catalog{Modules: b.Modules, Processors: b.Processors}.Clone()
}

// WriteBundle encodes b as indented JSON.
func WriteBundle(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode bundle")
	}
	return nil
}

// ReadBundle decodes a bundle. Catalog entries are validated and take their
// IDs from the map keys. Projects are validated; a bundle carrying the older
// single "project" block gets one project built from it.
func ReadBundle(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read bundle")
	}

	c, err := catalog.Decode(bytes.NewReader(data), catalog.FormatJSON)
	if err != nil {
		return nil, err
	}

	var rest struct {
		Version  int                `json:"version"`
		Projects []*project.Project `json:"projects"`
		Project  *legacyProject     `json:"project"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode bundle")
	}
	if rest.Version > BundleVersion {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "bundle version %d is newer than supported version %d", rest.Version, BundleVersion)
	}

	projects := rest.Projects
	if rest.Project != nil {
		p, err := fromLegacy(*rest.Project)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	return &Bundle{
		Version:    BundleVersion,
		Modules:    c.Modules,
		Processors: c.Processors,
		Projects:   projects,
	}, nil
}

func fromLegacy(lp legacyProject) (*project.Project, error) {
	name := lp.Name
	if name == "" {
		name = project.DefaultName
	}
	p, err := project.New(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "legacy project")
	}
	if lp.GroupIndexStart > 0 {
		p.Config.GroupIndexStart = lp.GroupIndexStart
	}
	if lp.WiringPattern != "" {
		p.Config.Pattern = lp.WiringPattern
	}
	if lp.ColorScheme != "" {
		p.Config.ColorScheme = lp.ColorScheme
	}
	return p, nil
}

// ExportFile writes a bundle to path.
func ExportFile(path string, b *Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", path)
	}
	if err := WriteBundle(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportFile reads a bundle from path.
func ImportFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	defer f.Close()
	return ReadBundle(f)
}

// Apply merges the bundle's catalog over base and saves its projects to s.
// Projects keep their IDs, so importing the same bundle twice updates
// rather than duplicates them. It returns the merged catalog.
func Apply(ctx context.Context, b *Bundle, base catalog.Catalog, s project.Store) (catalog.Catalog, error) {
	entries := catalog.New().Merge(b.Catalog())
	for _, m := range entries.ModuleList() {
		if err := catalog.ValidateModule(m); err != nil {
			return base, err
		}
	}
	for _, p := range entries.ProcessorList() {
		if err := catalog.ValidateProcessor(p); err != nil {
			return base, err
		}
	}
	merged := base.Merge(entries)
	if s != nil {
		for _, p := range b.Projects {
			if err := s.Save(ctx, p); err != nil {
				return base, err
			}
		}
	}
	return merged, nil
}
