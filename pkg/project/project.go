// Package project manages named, persisted wall configurations.
//
// A [Project] pairs a display name with a [Config] holding everything needed
// to recompute its layout. Projects are persisted through a [Store]:
//   - [FileStore]: one JSON file per project under the XDG data dir (CLI)
//   - [MongoStore]: a MongoDB collection (shared server deployments)
//
// A store always keeps at least one project; deleting the last one fails
// with LAST_ENTRY.
package project

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/render/pixelmap"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// DefaultName names the project created when a store is empty.
const DefaultName = "Untitled project"

// Config is the persisted input of one wall. Both the module counts and the
// centimetre sizes are kept so switching Mode does not lose either.
type Config struct {
	Module          string  `json:"module" bson:"module"`
	Processor       string  `json:"processor" bson:"processor"`
	Mode            string  `json:"mode" bson:"mode"`
	WidthModules    int     `json:"widthModules" bson:"width_modules"`
	HeightModules   int     `json:"heightModules" bson:"height_modules"`
	WidthCm         float64 `json:"widthCm" bson:"width_cm"`
	HeightCm        float64 `json:"heightCm" bson:"height_cm"`
	Pattern         string  `json:"pattern" bson:"pattern"`
	ColorScheme     string  `json:"colorScheme" bson:"color_scheme"`
	GroupIndexStart int     `json:"groupIndexStart" bson:"group_index_start"`
}

// DefaultConfig returns the configuration of a new project.
func DefaultConfig() Config {
	return Config{
		Module:          pipeline.DefaultModule,
		Processor:       pipeline.DefaultProcessor,
		Mode:            string(wall.ModeByCount),
		WidthModules:    pipeline.DefaultWidthModules,
		HeightModules:   pipeline.DefaultHeightModules,
		WidthCm:         pipeline.DefaultWidthCm,
		HeightCm:        pipeline.DefaultHeightCm,
		Pattern:         string(wall.HorizontalRight),
		ColorScheme:     pixelmap.DefaultScheme,
		GroupIndexStart: 1,
	}
}

// Validate checks the fields a store must never persist in a broken state.
// Catalog IDs are not resolved here; a project may outlive a catalog entry.
func (c Config) Validate() error {
	if c.Module == "" || c.Processor == "" {
		return errors.New(errors.ErrCodeInvalidProject, "module and processor are required")
	}
	if _, err := wall.ParseInputMode(c.Mode); err != nil {
		return err
	}
	if _, err := wall.ParsePattern(c.Pattern); err != nil {
		return err
	}
	if c.WidthModules < 1 || c.HeightModules < 1 {
		return errors.New(errors.ErrCodeInvalidProject, "module counts must be at least 1 (got %dx%d)", c.WidthModules, c.HeightModules)
	}
	if c.WidthCm <= 0 || c.HeightCm <= 0 {
		return errors.New(errors.ErrCodeInvalidProject, "sizes must be positive (got %gx%g cm)", c.WidthCm, c.HeightCm)
	}
	if c.ColorScheme != "" {
		if _, err := pixelmap.Scheme(c.ColorScheme); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the configuration into pipeline options. Width and
// Height come from the counts or the sizes depending on Mode.
func (c Config) Options() pipeline.Options {
	opts := pipeline.Options{
		ModuleID:        c.Module,
		ProcessorID:     c.Processor,
		Mode:            c.Mode,
		Width:           float64(c.WidthModules),
		Height:          float64(c.HeightModules),
		Pattern:         c.Pattern,
		GroupIndexStart: c.GroupIndexStart,
		ColorScheme:     c.ColorScheme,
	}
	if mode, err := wall.ParseInputMode(c.Mode); err == nil && mode == wall.ModeBySize {
		opts.Width, opts.Height = c.WidthCm, c.HeightCm
	}
	return opts
}

// WithOptions returns c updated from pipeline options. Empty option fields
// keep the current value; Width and Height update the counts or the sizes
// depending on the resulting Mode.
func (c Config) WithOptions(opts pipeline.Options) Config {
	if opts.ModuleID != "" {
		c.Module = opts.ModuleID
	}
	if opts.ProcessorID != "" {
		c.Processor = opts.ProcessorID
	}
	if opts.Mode != "" {
		if mode, err := wall.ParseInputMode(opts.Mode); err == nil {
			c.Mode = string(mode)
		}
	}
	if opts.Pattern != "" {
		c.Pattern = opts.Pattern
	}
	if opts.ColorScheme != "" {
		c.ColorScheme = opts.ColorScheme
	}
	if opts.GroupIndexStart > 0 {
		c.GroupIndexStart = opts.GroupIndexStart
	}
	if c.Mode == string(wall.ModeBySize) {
		if opts.Width > 0 {
			c.WidthCm = opts.Width
		}
		if opts.Height > 0 {
			c.HeightCm = opts.Height
		}
		return c
	}
	if opts.Width > 0 {
		c.WidthModules = max(1, int(opts.Width))
	}
	if opts.Height > 0 {
		c.HeightModules = max(1, int(opts.Height))
	}
	return c
}

// Project is a named wall configuration.
type Project struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
	Config    Config    `json:"config" bson:"config"`
}

// New creates a project with a fresh ID and the default configuration.
func New(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Config:    DefaultConfig(),
	}, nil
}

// Duplicate returns a copy with a new ID and " (copy)" appended to the name.
func (p *Project) Duplicate() *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        uuid.NewString(),
		Name:      p.Name + " (copy)",
		CreatedAt: now,
		UpdatedAt: now,
		Config:    p.Config,
	}
}

// Options returns the pipeline options of the project, named after it.
func (p *Project) Options() pipeline.Options {
	opts := p.Config.Options()
	opts.ProjectName = p.Name
	return opts
}

// Validate checks the name and configuration.
func (p *Project) Validate() error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return errors.New(errors.ErrCodeInvalidProject, "invalid project id %q", p.ID)
	}
	if err := errors.ValidateName(p.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProject, err, "project name")
	}
	if err := p.Config.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProject, err, "project %q", p.Name)
	}
	return nil
}

// =============================================================================
// Store
// =============================================================================

// Store persists projects.
type Store interface {
	// Get returns the project with the given ID or PROJECT_NOT_FOUND.
	Get(ctx context.Context, id string) (*Project, error)
	// List returns all projects ordered by name.
	List(ctx context.Context) ([]*Project, error)
	// Save validates and upserts a project, stamping UpdatedAt.
	Save(ctx context.Context, p *Project) error
	// Delete removes a project. Removing the last project fails with LAST_ENTRY.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Find resolves ref as a project ID, a unique ID prefix, or a
// case-insensitive name.
func Find(ctx context.Context, s Store, ref string) (*Project, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, ref)
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*Project
	for _, p := range all {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
		if ref != "" && strings.HasPrefix(p.ID, strings.ToLower(ref)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project not found: %s", ref)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "ambiguous project reference %q matches %d projects", ref, len(matches))
	}
}

// EnsureDefault creates a default project when the store is empty and
// returns the project list.
func EnsureDefault(ctx context.Context, s Store) ([]*Project, error) {
	all, err := s.List(ctx)
	if err != nil || len(all) > 0 {
		return all, err
	}
	p, err := New(DefaultName)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return []*Project{p}, nil
}

func sortByName(ps []*Project) {
	slices.SortFunc(ps, func(a, b *Project) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
