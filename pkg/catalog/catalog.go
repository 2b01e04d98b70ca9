package catalog

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/ledwall/pkg/errors"
)

// DefaultHangingPoints is used when a module does not declare its hanging points.
const DefaultHangingPoints = 2

// =============================================================================
// Module
// =============================================================================

// Module is one LED panel type.
type Module struct {
	ID            string  `json:"id" toml:"-" bson:"id"`
	Name          string  `json:"name" toml:"name" bson:"name"`
	Description   string  `json:"description,omitempty" toml:"description,omitempty" bson:"description,omitempty"`
	PixelsW       int     `json:"pixelsW" toml:"pixels_w" bson:"pixels_w"`
	PixelsH       int     `json:"pixelsH" toml:"pixels_h" bson:"pixels_h"`
	WidthCm       float64 `json:"width" toml:"width_cm" bson:"width_cm"`
	HeightCm      float64 `json:"height" toml:"height_cm" bson:"height_cm"`
	WeightKg      float64 `json:"weight" toml:"weight_kg" bson:"weight_kg"`
	PowerWm2      float64 `json:"power" toml:"power_w_m2" bson:"power_w_m2"`
	HangingPoints int     `json:"hangingPoints,omitempty" toml:"hanging_points,omitempty" bson:"hanging_points,omitempty"`
}

// PixelsPerModule returns the pixel footprint of one module.
func (m Module) PixelsPerModule() int { return m.PixelsW * m.PixelsH }

// Hanging returns the hanging point count, defaulting to [DefaultHangingPoints].
func (m Module) Hanging() int {
	if m.HangingPoints < 1 {
		return DefaultHangingPoints
	}
	return m.HangingPoints
}

// =============================================================================
// Processor
// =============================================================================

// Processor is one video controller type.
//
// MaxWidth and MaxHeight of 0 mean unconstrained. MaxModulesPerOutput of 0
// means the per-output capacity is derived from the pixel budget alone.
type Processor struct {
	ID                  string `json:"id" toml:"-" bson:"id"`
	Brand               string `json:"brand" toml:"brand" bson:"brand"`
	Model               string `json:"model" toml:"model" bson:"model"`
	Description         string `json:"description,omitempty" toml:"description,omitempty" bson:"description,omitempty"`
	Outputs             int    `json:"outputs" toml:"outputs" bson:"outputs"`
	TotalPixels         int    `json:"totalPixels" toml:"total_pixels" bson:"total_pixels"`
	MaxWidth            int    `json:"maxWidth,omitempty" toml:"max_width,omitempty" bson:"max_width,omitempty"`
	MaxHeight           int    `json:"maxHeight,omitempty" toml:"max_height,omitempty" bson:"max_height,omitempty"`
	MaxModulesPerOutput int    `json:"maxModulesPerOutput,omitempty" toml:"max_modules_per_output,omitempty" bson:"max_modules_per_output,omitempty"`
}

// DisplayName returns "Brand Model".
func (p Processor) DisplayName() string {
	return strings.TrimSpace(p.Brand + " " + p.Model)
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog is a snapshot of module and processor types keyed by ID.
type Catalog struct {
	Modules    map[string]Module    `json:"modules" toml:"modules"`
	Processors map[string]Processor `json:"processors" toml:"processors"`
}

// New returns an empty catalog.
func New() Catalog {
	return Catalog{
		Modules:    map[string]Module{},
		Processors: map[string]Processor{},
	}
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Modules:    make(map[string]Module, len(c.Modules)),
		Processors: make(map[string]Processor, len(c.Processors)),
	}
	maps.Copy(out.Modules, c.Modules)
	maps.Copy(out.Processors, c.Processors)
	return out
}

// Module looks up a module by ID.
func (c Catalog) Module(id string) (Module, error) {
	m, ok := c.Modules[id]
	if !ok {
		return Module{}, errors.New(errors.ErrCodeModuleNotFound, "module not found: %s", id)
	}
	return m, nil
}

// Processor looks up a processor by ID.
func (c Catalog) Processor(id string) (Processor, error) {
	p, ok := c.Processors[id]
	if !ok {
		return Processor{}, errors.New(errors.ErrCodeProcessorNotFound, "processor not found: %s", id)
	}
	return p, nil
}

// ModuleList returns all modules sorted by ID.
func (c Catalog) ModuleList() []Module {
	out := make([]Module, 0, len(c.Modules))
	for _, id := range slices.Sorted(maps.Keys(c.Modules)) {
		out = append(out, c.Modules[id])
	}
	return out
}

// ProcessorList returns all processors sorted by ID.
func (c Catalog) ProcessorList() []Processor {
	out := make([]Processor, 0, len(c.Processors))
	for _, id := range slices.Sorted(maps.Keys(c.Processors)) {
		out = append(out, c.Processors[id])
	}
	return out
}

// Merge returns a catalog where entries from overrides replace or extend the
// entries of c. IDs are taken from the map keys.
func (c Catalog) Merge(overrides Catalog) Catalog {
	out := c.Clone()
	for id, m := range overrides.Modules {
		m.ID = id
		out.Modules[id] = m
	}
	for id, p := range overrides.Processors {
		p.ID = id
		out.Processors[id] = p
	}
	return out
}

// Validate checks every entry in the catalog.
func (c Catalog) Validate() error {
	if len(c.Modules) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "catalog has no modules")
	}
	if len(c.Processors) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "catalog has no processors")
	}
	for _, m := range c.ModuleList() {
		if err := ValidateModule(m); err != nil {
			return err
		}
	}
	for _, p := range c.ProcessorList() {
		if err := ValidateProcessor(p); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Editing
// =============================================================================

// AddModule validates m, assigns it a slug ID derived from its name and
// returns the new catalog together with the assigned ID.
func (c Catalog) AddModule(m Module) (Catalog, string, error) {
	id := Slug(m.Name)
	m.ID = id
	if err := ValidateModule(m); err != nil {
		return c, "", err
	}
	if _, exists := c.Modules[id]; exists {
		return c, "", errors.New(errors.ErrCodeDuplicate, "a module with that name already exists: %s", id)
	}
	out := c.Clone()
	out.Modules[id] = m
	return out, id, nil
}

// UpdateModule replaces the module with the given ID.
func (c Catalog) UpdateModule(id string, m Module) (Catalog, error) {
	if _, err := c.Module(id); err != nil {
		return c, err
	}
	m.ID = id
	if err := ValidateModule(m); err != nil {
		return c, err
	}
	out := c.Clone()
	out.Modules[id] = m
	return out, nil
}

// RemoveModule deletes a module. The last remaining module cannot be removed.
func (c Catalog) RemoveModule(id string) (Catalog, error) {
	if _, err := c.Module(id); err != nil {
		return c, err
	}
	if len(c.Modules) <= 1 {
		return c, errors.New(errors.ErrCodeLastEntry, "cannot remove the last module")
	}
	out := c.Clone()
	delete(out.Modules, id)
	return out, nil
}

// AddProcessor validates p, assigns it a slug ID derived from "brand-model"
// and returns the new catalog together with the assigned ID.
func (c Catalog) AddProcessor(p Processor) (Catalog, string, error) {
	id := Slug(p.Brand + "-" + p.Model)
	p.ID = id
	if err := ValidateProcessor(p); err != nil {
		return c, "", err
	}
	if _, exists := c.Processors[id]; exists {
		return c, "", errors.New(errors.ErrCodeDuplicate, "a processor with that name already exists: %s", id)
	}
	out := c.Clone()
	out.Processors[id] = p
	return out, id, nil
}

// UpdateProcessor replaces the processor with the given ID.
func (c Catalog) UpdateProcessor(id string, p Processor) (Catalog, error) {
	if _, err := c.Processor(id); err != nil {
		return c, err
	}
	p.ID = id
	if err := ValidateProcessor(p); err != nil {
		return c, err
	}
	out := c.Clone()
	out.Processors[id] = p
	return out, nil
}

// RemoveProcessor deletes a processor. The last remaining processor cannot be removed.
func (c Catalog) RemoveProcessor(id string) (Catalog, error) {
	if _, err := c.Processor(id); err != nil {
		return c, err
	}
	if len(c.Processors) <= 1 {
		return c, errors.New(errors.ErrCodeLastEntry, "cannot remove the last processor")
	}
	out := c.Clone()
	delete(out.Processors, id)
	return out, nil
}

var (
	slugSpaceRe   = regexp.MustCompile(`\s+`)
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slug converts a display name into a catalog ID: lowercase, whitespace runs
// become dashes and everything outside [a-z0-9-] is dropped.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSpaceRe.ReplaceAllString(s, "-")
	return slugInvalidRe.ReplaceAllString(s, "")
}
