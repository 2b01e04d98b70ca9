package pixelmap

import (
	"github.com/matzehuels/ledwall/pkg/errors"
)

// ProcessorColor is the fill pair used for modules driven by one processor.
// Modules alternate between Primary and Secondary in a checkerboard so
// neighbouring cabinets stay distinguishable.
type ProcessorColor struct {
	Name      string
	Primary   string
	Secondary string
}

// ProcessorColors is indexed by processor position, wrapping around.
var ProcessorColors = []ProcessorColor{
	{Name: "Cyan", Primary: "#00FFFF", Secondary: "#00CCCC"},
	{Name: "Magenta", Primary: "#FF00FF", Secondary: "#CC00CC"},
	{Name: "Orange", Primary: "#FF8C00", Secondary: "#CC7000"},
	{Name: "Green", Primary: "#32CD32", Secondary: "#28A428"},
	{Name: "Purple", Primary: "#9932CC", Secondary: "#7A28A3"},
	{Name: "Yellow", Primary: "#FFD700", Secondary: "#CCB000"},
}

// ColorFor returns the colors of processor index i.
func ColorFor(i int) ProcessorColor {
	if i < 0 {
		i = -i
	}
	return ProcessorColors[i%len(ProcessorColors)]
}

// ColorScheme is a two-color checkerboard for single-processor walls.
type ColorScheme struct {
	ID     string
	Name   string
	Colors [2]string
}

// DefaultScheme is used when no scheme is requested.
const DefaultScheme = "cyan-magenta"

// Schemes lists the available color schemes.
var Schemes = []ColorScheme{
	{ID: "cyan-magenta", Name: "Cyan / Magenta", Colors: [2]string{"#00FFFF", "#FF00FF"}},
	{ID: "blue-green", Name: "Blue / Green", Colors: [2]string{"#4169E1", "#32CD32"}},
	{ID: "orange-purple", Name: "Orange / Purple", Colors: [2]string{"#FF8C00", "#9932CC"}},
	{ID: "red-cyan", Name: "Red / Cyan", Colors: [2]string{"#FF4444", "#00CED1"}},
}

// Scheme looks up a color scheme by ID. An empty ID returns [DefaultScheme].
func Scheme(id string) (ColorScheme, error) {
	if id == "" {
		id = DefaultScheme
	}
	for _, s := range Schemes {
		if s.ID == id {
			return s, nil
		}
	}
	return ColorScheme{}, errors.New(errors.ErrCodeInvalidInput, "unknown color scheme %q", id)
}
