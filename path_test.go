package backdrop

import (
	"image"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_RoundedRectOutline(t *testing.T) {
	assert := assert.New(t)

	p := RoundedRect(10, 20, 100, 50, 8)
	require.Len(t, p, 10)

	assert.Equal(Segment{Kind: MoveTo, X: 18, Y: 20}, p[0])
	assert.Equal(Segment{Kind: LineTo, X: 102, Y: 20}, p[1])
	assert.Equal(Segment{Kind: QuadTo, CX: 110, CY: 20, X: 110, Y: 28}, p[2])
	assert.Equal(Segment{Kind: QuadTo, CX: 110, CY: 70, X: 102, Y: 70}, p[4])
	assert.Equal(Segment{Kind: QuadTo, CX: 10, CY: 70, X: 10, Y: 62}, p[6])
	assert.Equal(Segment{Kind: QuadTo, CX: 10, CY: 20, X: 18, Y: 20}, p[8])
	assert.Equal(Close, p[9].Kind)
}

func TestPath_ZeroRadiusIsPlainRectangle(t *testing.T) {
	p := RoundedRect(0, 0, 40, 30, 0)

	corners := map[[2]float64]bool{{0, 0}: true, {40, 0}: true, {40, 30}: true, {0, 30}: true}
	for _, s := range p {
		if s.Kind != QuadTo {
			continue
		}
		// Each corner curve collapses onto the corner point itself.
		assert.True(t, corners[[2]float64{s.CX, s.CY}])
		assert.Equal(t, s.CX, s.X)
		assert.Equal(t, s.CY, s.Y)
	}

	dc := gg.NewContext(40, 30)
	p.Clip(dc)
	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(0, 0, 40, 30)
	dc.Fill()

	img := dc.Image().(*image.RGBA)
	for _, pt := range []image.Point{{0, 0}, {39, 0}, {0, 29}, {39, 29}, {20, 15}} {
		assert.Equal(t, red, rgbaAt(img, pt.X, pt.Y), "pixel %v", pt)
	}
}

// Radii above half the shorter side are clamped, so the corner curves never
// overlap. Unclamped input would produce a self-intersecting outline.
func TestPath_ClampsOversizedRadius(t *testing.T) {
	assert := assert.New(t)

	p := RoundedRect(0, 0, 100, 50, 40)
	assert.Equal(Segment{Kind: MoveTo, X: 25, Y: 0}, p[0])
	assert.Equal(Segment{Kind: LineTo, X: 75, Y: 0}, p[1])
	assert.Equal(Segment{Kind: LineTo, X: 100, Y: 25}, p[3])
	assert.Equal(p, RoundedRect(0, 0, 100, 50, 1000))

	assert.Equal(RoundedRect(0, 0, 10, 10, 0), RoundedRect(0, 0, 10, 10, -3))
}

func TestPath_FillCutsCorners(t *testing.T) {
	dc := gg.NewContext(60, 60)
	dc.SetRGB(1, 0, 0)
	RoundedRect(0, 0, 60, 60, 20).Fill(dc)

	img := dc.Image().(*image.RGBA)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), img.RGBAAt(59, 59).A)
	assert.Equal(t, uint8(0xff), img.RGBAAt(30, 0).A)
	assert.Equal(t, uint8(0xff), img.RGBAAt(30, 30).A)
}
