// Package report renders the build sheet for a generation run: the
// dimensions, cutout schedule, and assembly steps an operator needs at
// the printer, as markdown with an optional HTML rendering.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"shellsmith/internal/errors"
	"shellsmith/internal/params"
	"shellsmith/internal/shell"
)

// Input contains parameters for building a report.
type Input struct {
	Params *params.Params
	Result *shell.Result // optional: volumes and warnings are omitted when nil
	At     time.Time
}

// Markdown renders the build sheet as markdown.
func Markdown(in Input) string {
	p := in.Params
	var b strings.Builder

	fmt.Fprintf(&b, "# Shell Build Sheet\n\n")
	fmt.Fprintf(&b, "Generated %s", in.At.UTC().Format("2006-01-02 15:04 UTC"))
	if in.Result != nil {
		fmt.Fprintf(&b, " · parameter set `%s`", shortHash(in.Result.ParamsHash))
	}
	b.WriteString("\n\n")

	b.WriteString("## Dimensions\n\n")
	b.WriteString("| | Width | Height | Thickness |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| Tablet | %.1f | %.1f | %.1f |\n", p.TabletWidth, p.TabletHeight, p.TabletThickness)
	fmt.Fprintf(&b, "| Cavity | %.1f | %.1f | %.1f |\n", p.CavityWidth(), p.CavityHeight(), p.CavityDepth())
	fmt.Fprintf(&b, "| Outer envelope | %.1f | %.1f | %.1f |\n\n", p.OuterWidth(), p.OuterHeight(), p.TotalHeight())
	fmt.Fprintf(&b, "Wall %.1f mm, clearance %.1f mm per side. Seam plane at x = %.1f mm.\n\n",
		p.WallThickness, p.Clearance, p.SeamX())

	b.WriteString("Cross-section through a side wall:\n\n")
	b.WriteString("```\n")
	fmt.Fprintf(&b, "  |  |_   <- lip, %.1f mm tall, overhangs %.1f mm (%.1f at the bottom edge)\n",
		p.LipVertical, p.LipOverhang, p.LipOverhangBottom)
	fmt.Fprintf(&b, "  |    |  <- cavity band, %.1f mm\n", p.LipStartZ()-p.FloorZ())
	fmt.Fprintf(&b, "  |____|  <- floor, %.1f mm\n", p.FloorZ())
	b.WriteString("```\n\n")

	writeCutouts(&b, p)
	writeVents(&b, p)

	if in.Result != nil {
		writeResult(&b, in.Result)
	}

	writeAssembly(&b, p)
	return b.String()
}

// HTML renders the build sheet as a standalone HTML fragment.
func HTML(in Input) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(in)), &buf); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to render report: %w", err))
	}
	return buf.String(), nil
}

func writeCutouts(b *strings.Builder, p *params.Params) {
	if len(p.PortCutouts)+len(p.KickstandCutouts) == 0 && p.Camera == nil {
		return
	}

	b.WriteString("## Cutouts\n\n")
	b.WriteString("| Name | Half | Edge | Offset | Width | Depth |\n|---|---|---|---|---|---|\n")
	for _, c := range p.PortCutouts {
		writeCutoutRow(b, c)
	}
	for _, c := range p.KickstandCutouts {
		writeCutoutRow(b, c)
	}
	b.WriteString("\n")

	if cam := p.Camera; cam != nil {
		fmt.Fprintf(b, "Camera hole: ø%.1f mm through the floor, %s half, %.1f mm from the top wall and %.1f mm from the side wall.\n\n",
			cam.Diameter, cam.Side, cam.FromTop, cam.FromSide)
	}
}

func writeCutoutRow(b *strings.Builder, c params.CutoutSpec) {
	fmt.Fprintf(b, "| %s | %s | %s | %.1f | %.1f | %.1f |\n",
		c.Name, c.Side, c.Edge, c.Offset, c.Width, c.Depth)
}

func writeVents(b *strings.Builder, p *params.Params) {
	if p.VentHoleCount <= 0 {
		return
	}
	b.WriteString("## Ventilation\n\n")
	fmt.Fprintf(b, "%d holes of ø%.1f mm along the top edge, %.1f mm in from each end",
		p.VentHoleCount, p.VentHoleDiameter, p.VentEdgeMargin)
	if pitch := p.VentPitch(); pitch > 0 {
		fmt.Fprintf(b, ", %.2f mm pitch", pitch)
	}
	b.WriteString(".\n\n")
}

func writeResult(b *strings.Builder, r *shell.Result) {
	b.WriteString("## Bodies\n\n")
	b.WriteString("| Body | Material |\n|---|---|\n")
	fmt.Fprintf(b, "| %s | %.1f cm³ |\n", r.Left.Name, r.Left.VolumeMM3/1000)
	fmt.Fprintf(b, "| %s | %.1f cm³ |\n\n", r.Right.Name, r.Right.VolumeMM3/1000)

	if len(r.Warnings) > 0 {
		b.WriteString("### Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(b, "- %s\n", w.Message)
		}
		b.WriteString("\n")
	}
}

func writeAssembly(b *strings.Builder, p *params.Params) {
	b.WriteString("## Assembly\n\n")
	b.WriteString("1. Print both halves open face up; no supports needed for the cavity.\n")
	b.WriteString("2. Deburr the seam faces and the lip edges.\n")
	fmt.Fprintf(b, "3. Slide the tablet in bottom edge first, under the %.1f mm bottom lip.\n", p.LipOverhangBottom)
	b.WriteString("4. Press the top edge home until the side lips engage.\n")
	if p.WeldGroove.Enable {
		fmt.Fprintf(b, "5. Join the halves and weld along the %.1f mm V-groove with a 3D pen; fill flush and sand.\n",
			p.WeldGroove.Width*2)
	} else {
		b.WriteString("5. Join the halves at the seam; tape or glue the seam faces if the fit is loose.\n")
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
