package wall

import "github.com/matzehuels/ledwall/pkg/catalog"

// Capacity is how many modules a single processor output can drive.
type Capacity struct {
	PixelsPerOutput           int `json:"pixelsPerOutput"`
	RawModulesPerOutput       int `json:"rawModulesPerOutput"`
	EffectiveModulesPerOutput int `json:"effectiveModulesPerOutput"`
	// ModuleExceedsOutput is set when one module alone needs more pixels
	// than an output provides and the raw capacity was clamped to 1.
	ModuleExceedsOutput bool `json:"moduleExceedsOutput"`
}

// ComputeCapacity derives the per-output module capacity of p for modules
// of pixelsPerModule pixels. The effective capacity is always at least 1.
func ComputeCapacity(p catalog.Processor, pixelsPerModule int) Capacity {
	var c Capacity
	if p.Outputs > 0 {
		c.PixelsPerOutput = p.TotalPixels / p.Outputs
	}
	if pixelsPerModule > 0 {
		c.RawModulesPerOutput = c.PixelsPerOutput / pixelsPerModule
	}
	if c.RawModulesPerOutput == 0 {
		c.RawModulesPerOutput = 1
		c.ModuleExceedsOutput = true
	}
	c.EffectiveModulesPerOutput = c.RawModulesPerOutput
	if p.MaxModulesPerOutput > 0 && p.MaxModulesPerOutput < c.EffectiveModulesPerOutput {
		c.EffectiveModulesPerOutput = p.MaxModulesPerOutput
	}
	return c
}
