package cache

import "strings"

// keyVersion is bumped whenever the layout or artifact encoding changes.
const keyVersion = "v1"

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies a computed layout.
	LayoutKey(opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of the layout with the
	// given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists everything a layout depends on. InputsHash covers the
// resolved module, processor and recommendation catalog, so editing any of
// them invalidates the entry even when IDs stay the same.
type LayoutKeyOpts struct {
	InputsHash      string  `json:"inputs"`
	Mode            string  `json:"mode"`
	Width           float64 `json:"w"`
	Height          float64 `json:"h"`
	Pattern         string  `json:"pattern"`
	GroupIndexStart int     `json:"start"`
}

// ArtifactKeyOpts lists the render settings an artifact depends on.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	ColorScheme string `json:"scheme,omitempty"`
	ProjectName string `json:"name,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces "layout:<hash>" and "artifact:<format>:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), keyVersion, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
