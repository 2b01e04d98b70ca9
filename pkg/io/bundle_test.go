package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/project"
)

func TestBundleRoundTrip(t *testing.T) {
	p, _ := project.New("Main Stage")
	p.Config.WidthModules = 10
	b := NewBundle(catalog.Defaults(), []*project.Project{p})

	var buf bytes.Buffer
	if err := WriteBundle(&buf, b); err != nil {
		t.Fatal(err)
	}
	got, err := ReadBundle(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Modules) != 2 || len(got.Processors) != 5 {
		t.Errorf("catalog sizes = %d/%d", len(got.Modules), len(got.Processors))
	}
	if got.Modules["arakur-p29"].ID != "arakur-p29" {
		t.Error("module IDs should come from keys")
	}
	if len(got.Projects) != 1 || got.Projects[0].ID != p.ID || got.Projects[0].Config.WidthModules != 10 {
		t.Errorf("projects = %+v", got.Projects)
	}
}

func TestReadBundleLegacyProject(t *testing.T) {
	in := `{
	  "modules": {"m": {"name": "M", "pixelsW": 100, "pixelsH": 100, "width": 50, "height": 50, "weight": 5, "power": 100}},
	  "processors": {},
	  "project": {"name": "Concierto", "groupIndexStart": 3, "wiringPattern": "vertical-up", "colorScheme": "red-cyan"}
	}`
	b, err := ReadBundle(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Projects) != 1 {
		t.Fatalf("projects = %d", len(b.Projects))
	}
	c := b.Projects[0].Config
	if b.Projects[0].Name != "Concierto" || c.GroupIndexStart != 3 || c.Pattern != "vertical-up" || c.ColorScheme != "red-cyan" {
		t.Errorf("legacy project = %+v", b.Projects[0])
	}
}

func TestReadBundleInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{`, errors.ErrCodeInvalidConfig},
		{"bad module", `{"modules": {"m": {"name": "M", "pixelsW": 0}}}`, errors.ErrCodeInvalidModule},
		{"future version", `{"version": 99}`, errors.ErrCodeInvalidConfig},
		{"bad project", `{"projects": [{"id": "not-a-uuid", "name": "x"}]}`, errors.ErrCodeInvalidProject},
		{"bad legacy pattern", `{"project": {"name": "x", "wiringPattern": "zigzag"}}`, errors.ErrCodeInvalidProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBundle(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store, err := project.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	custom := catalog.New()
	custom.Processors["vx600"] = catalog.Processor{Brand: "NovaStar", Model: "VX600 Pro", Outputs: 8, TotalPixels: 5_000_000}
	custom.Processors["h2"] = catalog.Processor{Brand: "NovaStar", Model: "H2", Outputs: 20, TotalPixels: 13_000_000}
	p, _ := project.New("Imported")
	b := NewBundle(custom, []*project.Project{p})

	merged, err := Apply(ctx, b, catalog.Defaults(), store)
	if err != nil {
		t.Fatal(err)
	}
	if len(merged.Processors) != 6 {
		t.Errorf("merged processors = %d, want 6", len(merged.Processors))
	}
	if merged.Processors["vx600"].Outputs != 8 {
		t.Error("bundle entry should replace the default")
	}
	if _, err := store.Get(ctx, p.ID); err != nil {
		t.Errorf("project not saved: %v", err)
	}

	// Re-importing updates in place.
	if _, err := Apply(ctx, b, merged, store); err != nil {
		t.Fatal(err)
	}
	list, _ := store.List(ctx)
	if len(list) != 1 {
		t.Errorf("projects after re-import = %d", len(list))
	}
}

func TestApplyRejectsInvalidEntry(t *testing.T) {
	bad := catalog.New()
	bad.Processors["broken"] = catalog.Processor{Brand: "X", Model: "Y", Outputs: 0, TotalPixels: 1000}
	base := catalog.Defaults()

	got, err := Apply(context.Background(), NewBundle(bad, nil), base, nil)
	if !errors.Is(err, errors.ErrCodeInvalidProcessor) {
		t.Fatalf("err = %v, want INVALID_PROCESSOR", err)
	}
	if len(got.Processors) != len(base.Processors) {
		t.Error("base catalog should be returned unchanged")
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledwall.json")
	if err := ExportFile(path, NewBundle(catalog.Defaults(), nil)); err != nil {
		t.Fatal(err)
	}
	b, err := ImportFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Processors) != 5 {
		t.Errorf("processors = %d", len(b.Processors))
	}
	if _, err := ImportFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: got %v", err)
	}
}
