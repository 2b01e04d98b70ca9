package wall

import "math"

// StandardRatio is one entry of the reference aspect-ratio table.
type StandardRatio struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
	W     int     `json:"w"`
	H     int     `json:"h"`
}

// StandardRatios is the reference table, in tie-break order.
var StandardRatios = []StandardRatio{
	{Name: "16:9", Ratio: 16.0 / 9, W: 1920, H: 1080},
	{Name: "16:9 (720p)", Ratio: 16.0 / 9, W: 1280, H: 720},
	{Name: "16:9 (4K)", Ratio: 16.0 / 9, W: 3840, H: 2160},
	{Name: "4:3", Ratio: 4.0 / 3, W: 1024, H: 768},
	{Name: "1:1", Ratio: 1, W: 1080, H: 1080},
	{Name: "21:9", Ratio: 21.0 / 9, W: 2560, H: 1080},
}

// Aspect describes how standard content fits the wall.
// At most one of Letterbox and Pillarbox is non-zero.
type Aspect struct {
	Standard  StandardRatio `json:"closestStandardRatio"`
	ContentW  int           `json:"contentW"`
	ContentH  int           `json:"contentH"`
	Letterbox int           `json:"letterbox"`
	Pillarbox int           `json:"pillarbox"`
}

// AnalyzeAspect picks the closest entry of [StandardRatios] and computes the
// letterbox or pillarbox bars needed to show content of that ratio.
func AnalyzeAspect(resolutionW, resolutionH int) Aspect {
	ratio := 0.0
	if resolutionH > 0 {
		ratio = float64(resolutionW) / float64(resolutionH)
	}

	best := StandardRatios[0]
	for _, r := range StandardRatios[1:] {
		if math.Abs(r.Ratio-ratio) < math.Abs(best.Ratio-ratio) {
			best = r
		}
	}

	a := Aspect{Standard: best}
	if ratio > best.Ratio {
		a.ContentH = resolutionH
		a.ContentW = int(math.Floor(float64(resolutionH) * best.Ratio))
		a.Pillarbox = resolutionW - a.ContentW
	} else {
		a.ContentW = resolutionW
		a.ContentH = int(math.Floor(float64(resolutionW) / best.Ratio))
		a.Letterbox = resolutionH - a.ContentH
	}
	return a
}
