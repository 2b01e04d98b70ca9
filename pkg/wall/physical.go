package wall

import "github.com/matzehuels/ledwall/pkg/catalog"

// Mains voltages used for current draw estimates.
const (
	Volts220 = 220.0
	Volts110 = 110.0
)

// SafetyFactor is applied to the per-point load to get the safe working load.
const SafetyFactor = 2.0

// Physical holds the electrical, rigging and optical figures of a wall.
type Physical struct {
	TotalWeightKg         float64 `json:"totalWeight"`
	TotalPowerW           float64 `json:"totalPower"`
	TotalAmps220          float64 `json:"totalAmps220"`
	TotalAmps110          float64 `json:"totalAmps110"`
	HangingPointsTotal    int     `json:"hangingPointsTotal"`
	WeightPerHangingPoint float64 `json:"weightPerHangingPoint"`
	SafeWorkingLoadKg     float64 `json:"safeWorkingLoad"`
	PitchMm               float64 `json:"pitchMm"`
	MinViewingDistanceM   float64 `json:"minViewingDistance"`
	MaxViewingDistanceM   float64 `json:"maxViewingDistance"`
}

// ComputePhysical derives weight, power, rigging and pitch figures.
//
// The wall hangs from its top row, so hanging points scale with the width
// in modules. Viewing distance uses the 1.5x to 3x pitch rule, read as
// meters per millimeter of pitch.
func ComputePhysical(m catalog.Module, g Grid) Physical {
	var p Physical
	p.TotalWeightKg = float64(g.TotalModules) * m.WeightKg
	p.TotalPowerW = g.AreaM2 * m.PowerWm2
	p.TotalAmps220 = p.TotalPowerW / Volts220
	p.TotalAmps110 = p.TotalPowerW / Volts110

	p.HangingPointsTotal = g.WidthModules * m.Hanging()
	if p.HangingPointsTotal > 0 {
		p.WeightPerHangingPoint = p.TotalWeightKg / float64(p.HangingPointsTotal)
	}
	p.SafeWorkingLoadKg = p.WeightPerHangingPoint * SafetyFactor

	if m.PixelsW > 0 {
		p.PitchMm = m.WidthCm * 10 / float64(m.PixelsW)
	}
	p.MinViewingDistanceM = p.PitchMm * 1.5
	p.MaxViewingDistanceM = p.PitchMm * 3
	return p
}
