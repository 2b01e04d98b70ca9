package catalog

// Defaults returns the built-in catalog: two common cabinet types and the
// NovaStar processors most rental stock is built around.
func Defaults() Catalog {
	c := New()
	for _, m := range []Module{
		{
			ID:            "arakur-p29",
			Name:          "Arakur P2.9",
			Description:   "Indoor rental cabinet, 2.9 mm pitch",
			PixelsW:       208,
			PixelsH:       208,
			WidthCm:       64,
			HeightCm:      64,
			WeightKg:      18,
			PowerWm2:      180,
			HangingPoints: 2,
		},
		{
			ID:            "generic-p39",
			Name:          "Generic P3.9",
			Description:   "Half-meter cabinet, 3.9 mm pitch",
			PixelsW:       128,
			PixelsH:       256,
			WidthCm:       50,
			HeightCm:      100,
			WeightKg:      15,
			PowerWm2:      150,
			HangingPoints: 2,
		},
	} {
		c.Modules[m.ID] = m
	}
	for _, p := range []Processor{
		{ID: "vx300", Brand: "NovaStar", Model: "VX300", Outputs: 3, TotalPixels: 3_900_000, MaxWidth: 3840, MaxHeight: 1200},
		{ID: "vx600", Brand: "NovaStar", Model: "VX600", Outputs: 6, TotalPixels: 3_900_000, MaxWidth: 10240, MaxHeight: 8192},
		{ID: "vx1000", Brand: "NovaStar", Model: "VX1000", Outputs: 10, TotalPixels: 6_500_000, MaxWidth: 10240, MaxHeight: 8192},
		{ID: "msd300", Brand: "NovaStar", Model: "MSD300", Outputs: 2, TotalPixels: 1_300_000, MaxWidth: 1920, MaxHeight: 1200},
		{ID: "msd600", Brand: "NovaStar", Model: "MSD600", Outputs: 4, TotalPixels: 2_300_000, MaxWidth: 2048, MaxHeight: 1152},
	} {
		c.Processors[p.ID] = p
	}
	return c
}
