// Package catalog holds the editable catalog of LED display modules and video
// processors that layouts are computed from.
//
// # Overview
//
// A [Module] describes one physical LED panel: its pixel resolution, physical
// size, weight, power density and hanging points. A [Processor] describes a
// video controller: how many cable outputs it has, its total pixel budget and
// optional limits on resolution and modules per output.
//
// The layout engine in [github.com/matzehuels/ledwall/pkg/wall] treats catalog
// entries as immutable inputs. All validation happens here, at the editing
// boundary, so the engine can assume well-formed entries.
//
// # Editing
//
// [Catalog] is a value type. Every edit returns a new Catalog and leaves the
// receiver untouched, so a computation can hold a snapshot while the user
// keeps editing:
//
//	cat := catalog.Defaults()
//	cat, id, err := cat.AddModule(catalog.Module{Name: "Outdoor P4.8", ...})
//	cat, err = cat.RemoveProcessor("msd300")
//
// Removing the last remaining module or processor is rejected with
// [errors.ErrCodeLastEntry].
//
// # Files
//
// Catalogs are stored as TOML or JSON, chosen by file extension:
//
//	[modules.arakur-p29]
//	name = "Arakur P2.9"
//	pixels_w = 208
//	pixels_h = 208
//	width_cm = 64.0
//	height_cm = 64.0
//
// [errors.ErrCodeLastEntry]: github.com/matzehuels/ledwall/pkg/errors.ErrCodeLastEntry
package catalog
