// Package report formats layout results as plain-text reports.
//
// Two reports exist: [KindCommercial] is a client-facing summary of size,
// resolution, equipment and power; [KindTechnical] adds processor
// distribution, cabling counts, rigging loads and capacity warnings for the
// crew. Both are pure views over a [wall.Result] and never recompute it.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// Kind selects a report template.
type Kind string

const (
	KindCommercial Kind = "commercial"
	KindTechnical  Kind = "technical"
)

// Footer closes every report.
const Footer = "---\nGenerated by ledwall"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"f0":      func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"f1":      func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":      func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"g":       func(v float64) string { return fmt.Sprintf("%g", v) },
	"inc":     func(i int) int { return i + 1 },
	"add":     func(a, b int) int { return a + b },
	"warning": WarningText,
}).ParseFS(templateFS, "templates/*.tmpl"))

type data struct {
	Name     string
	R        *wall.Result
	LineNoun string
}

// Write renders the report of the given kind to w.
func Write(w io.Writer, kind Kind, projectName string, res *wall.Result) error {
	var name string
	switch kind {
	case KindCommercial:
		name = "commercial.tmpl"
	case KindTechnical:
		name = "technical.tmpl"
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown report %q (want commercial or technical)", kind)
	}
	d := data{Name: projectName, R: res, LineNoun: "rows"}
	if !res.IsHorizontal {
		d.LineNoun = "columns"
	}
	if err := templates.ExecuteTemplate(w, name, d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s report", kind)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", Footer)
	return err
}

// Commercial returns the client-facing report.
func Commercial(projectName string, res *wall.Result) ([]byte, error) {
	var buf bytes.Buffer
	err := Write(&buf, KindCommercial, projectName, res)
	return buf.Bytes(), err
}

// Technical returns the crew-facing report.
func Technical(projectName string, res *wall.Result) ([]byte, error) {
	var buf bytes.Buffer
	err := Write(&buf, KindTechnical, projectName, res)
	return buf.Bytes(), err
}

// WarningText explains a layout warning in one sentence.
func WarningText(w wall.Warning) string {
	switch w {
	case wall.WarnModuleExceedsOutput:
		return "a single module exceeds one output's pixel budget; capacity clamped to 1 module per output"
	case wall.WarnLineExceedsProcessor:
		return "a single line exceeds one processor's capacity; the plan is not drivable as wired"
	case wall.WarnPixelsInsufficient:
		return "total pixels exceed the combined processor budget"
	case wall.WarnWidthExceeded:
		return "resolution width exceeds the processor maximum"
	case wall.WarnHeightExceeded:
		return "resolution height exceeds the processor maximum"
	case wall.WarnDimensionsClamped:
		return fmt.Sprintf("requested size exceeds %d modules per side; the wall was clamped", wall.MaxSideModules)
	default:
		return string(w)
	}
}
