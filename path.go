package backdrop

import (
	"math"

	"github.com/fogleman/gg"
)

// SegmentKind identifies a path command.
type SegmentKind int

// Path commands emitted by RoundedRect.
const (
	MoveTo SegmentKind = iota
	LineTo
	QuadTo
	Close
)

// Segment is a single path command. QuadTo uses (CX, CY) as control point;
// every command except Close ends at (X, Y).
type Segment struct {
	Kind   SegmentKind
	CX, CY float64
	X, Y   float64
}

// Path is a reusable closed outline that can be replayed onto a gg context
// either as a clip region or as a fill region.
type Path []Segment

// RoundedRect builds the outline of a rectangle with quadratic corners,
// traversed clockwise from the inset top-left point (x+r, y).
//
// The radius is clamped to [0, min(w, h)/2]: larger values would make the
// corner curves overlap and the outline self-intersect.
func RoundedRect(x, y, w, h, r float64) Path {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))

	return Path{
		{Kind: MoveTo, X: x + r, Y: y},
		{Kind: LineTo, X: x + w - r, Y: y},
		{Kind: QuadTo, CX: x + w, CY: y, X: x + w, Y: y + r},
		{Kind: LineTo, X: x + w, Y: y + h - r},
		{Kind: QuadTo, CX: x + w, CY: y + h, X: x + w - r, Y: y + h},
		{Kind: LineTo, X: x + r, Y: y + h},
		{Kind: QuadTo, CX: x, CY: y + h, X: x, Y: y + h - r},
		{Kind: LineTo, X: x, Y: y + r},
		{Kind: QuadTo, CX: x, CY: y, X: x + r, Y: y},
		{Kind: Close},
	}
}

// Trace replays the path onto dc, starting a new sub-path.
func (p Path) Trace(dc *gg.Context) {
	dc.NewSubPath()
	for _, s := range p {
		switch s.Kind {
		case MoveTo:
			dc.MoveTo(s.X, s.Y)
		case LineTo:
			dc.LineTo(s.X, s.Y)
		case QuadTo:
			dc.QuadraticTo(s.CX, s.CY, s.X, s.Y)
		case Close:
			dc.ClosePath()
		}
	}
}

// Clip intersects the current clip region of dc with the path.
func (p Path) Clip(dc *gg.Context) {
	dc.ClearPath()
	p.Trace(dc)
	dc.Clip()
}

// Fill paints the interior of the path with the current fill style of dc.
func (p Path) Fill(dc *gg.Context) {
	dc.ClearPath()
	p.Trace(dc)
	dc.Fill()
}
