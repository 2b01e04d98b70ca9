// Package cabling renders the signal topology of a wall as a Graphviz
// diagram: processors, their outputs and the module chains each output
// feeds. It complements the pixel map with a view the rigging crew can
// follow cable by cable.
package cabling

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ledwall/pkg/render/pixelmap"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// Options configures cabling diagram generation.
type Options struct {
	// Detailed draws every module of every chain as its own node. When false
	// each output is a single node summarizing its chain.
	Detailed bool
}

// ToDOT converts a layout result to Graphviz DOT. Each processor becomes a
// cluster holding its outputs; outputs link to the first module of their
// chain and, in detailed mode, modules link along the cable.
func ToDOT(res *wall.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cabling {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#333333\"];\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	groupsByProc := make(map[int][]wall.OutputGroup, len(res.Bands))
	for _, g := range res.OutputGroups {
		groupsByProc[g.ProcessorIndex] = append(groupsByProc[g.ProcessorIndex], g)
	}

	for _, b := range res.Bands {
		pc := pixelmap.ColorFor(b.Index)
		procID := fmt.Sprintf("proc%d", b.Index+1)

		fmt.Fprintf(&buf, "  subgraph cluster_%s {\n", procID)
		fmt.Fprintf(&buf, "    label=%q;\n", bandLabel(res, b))
		fmt.Fprintf(&buf, "    style=\"rounded,filled\";\n    fillcolor=%q;\n    color=%q;\n", pc.Secondary+"33", pc.Secondary)
		fmt.Fprintf(&buf, "    %q [label=%q, shape=box3d, fillcolor=%q];\n",
			procID, fmt.Sprintf("Processor %d\n%s", b.Index+1, res.Processor.DisplayName()), pc.Primary)

		for _, g := range groupsByProc[b.Index] {
			outID := fmt.Sprintf("out%d", g.OutputIndex)
			fmt.Fprintf(&buf, "    %q [label=%q, shape=circle, fixedsize=true, width=0.6];\n", outID, strconv.Itoa(g.Label))
			fmt.Fprintf(&buf, "    %q -> %q [label=%q];\n", procID, outID, fmt.Sprintf("port %d", g.LocalIndex))
			writeChain(&buf, g, outID, pc, opts.Detailed)
		}
		buf.WriteString("  }\n\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeChain(buf *bytes.Buffer, g wall.OutputGroup, outID string, pc pixelmap.ProcessorColor, detailed bool) {
	if len(g.Modules) == 0 {
		return
	}
	if !detailed {
		first, last := g.Modules[0], g.Modules[len(g.Modules)-1]
		chainID := fmt.Sprintf("chain%d", g.OutputIndex)
		label := fmt.Sprintf("%d modules\n%s → %s", len(g.Modules), CellName(first), CellName(last))
		fmt.Fprintf(buf, "    %q [label=%q, fillcolor=%q];\n", chainID, label, pc.Primary)
		fmt.Fprintf(buf, "    %q -> %q;\n", outID, chainID)
		return
	}
	prev := outID
	for _, c := range g.Modules {
		id := "m_" + CellName(c)
		fmt.Fprintf(buf, "    %q [label=%q, fillcolor=%q];\n", id, CellName(c), pc.Primary)
		fmt.Fprintf(buf, "    %q -> %q;\n", prev, id)
		prev = id
	}
}

func bandLabel(res *wall.Result, b wall.Band) string {
	axis := "rows"
	if !res.IsHorizontal {
		axis = "columns"
	}
	return fmt.Sprintf("%s %d-%d (%d modules, %d outputs)", axis, b.StartLine+1, b.EndLine, b.Modules, b.OutputsUsed)
}

// CellName returns the 1-based "R<row>C<col>" name of a module position.
func CellName(c wall.Cell) string {
	return fmt.Sprintf("R%dC%d", c.Row+1, c.Col+1)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// render.ToPDF or render.ToPNG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so browsers and rsvg scale the diagram the same way.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
