package backdrop

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/esimov/backdrop/imop"
)

// ShadowMode selects how the silhouette casting the drop shadow is obtained.
type ShadowMode int

const (
	// ShadowModeAuto inspects the source alpha channel: images with transparent
	// pixels cast the shadow from their own pixels, fully opaque images from
	// their rounded rectangle.
	ShadowModeAuto ShadowMode = iota
	// ShadowModeAlwaysShape always casts the shadow from the image pixels.
	ShadowModeAlwaysShape
)

type shadowBranch int

const (
	shadowNone shadowBranch = iota
	shadowTransparent
	shadowOpaque
)

func (b shadowBranch) String() string {
	switch b {
	case shadowTransparent:
		return "transparent"
	case shadowOpaque:
		return "opaque"
	}
	return "none"
}

// opaqueFillAlpha is the alpha of the rounded rectangle standing in for an opaque image.
const opaqueFillAlpha = 0.8

func selectShadowBranch(img *image.NRGBA, s Shadow, mode ShadowMode) shadowBranch {
	if !s.active() {
		return shadowNone
	}
	if mode == ShadowModeAlwaysShape || hasTransparency(img) {
		return shadowTransparent
	}
	return shadowOpaque
}

// drawShadow paints the drop shadow of the image placed at rect, followed by
// the layer casting it, the way a 2D canvas does when shadow attributes are set.
// The shadow attributes live only inside this call.
//
// The shadow is not clipped to the rounded image outline, so it also shows
// around the silhouette and not only through its transparent holes.
func (p *Processor) drawShadow(dst *image.RGBA, img *image.NRGBA, rect image.Rectangle, radius float64, s Shadow, branch shadowBranch) error {
	if branch == shadowNone {
		return nil
	}
	sigma := s.Blur / 2
	// Keep the whole blur kernel inside the layer so the shadow does not fade
	// out early next to the layer border.
	margin := int(math.Ceil(sigma*3)) + 1

	// The layer covers the blurred silhouette, cut to what can still reach the
	// canvas once moved by the vertical offset.
	visible := dst.Bounds().Add(image.Pt(0, -s.OffsetY)).Inset(-margin)
	area := rect.Inset(-margin).Intersect(visible).Union(rect)
	if err := p.checkSurface(area.Dx(), area.Dy()); err != nil {
		return err
	}

	layer := gg.NewContext(area.Dx(), area.Dy())
	at := rect.Min.Sub(area.Min)
	outline := RoundedRect(float64(at.X), float64(at.Y), float64(rect.Dx()), float64(rect.Dy()), radius)

	switch branch {
	case shadowTransparent:
		outline.Clip(layer)
		layer.DrawImage(img, at.X, at.Y)
		layer.ResetClip()
	case shadowOpaque:
		layer.SetRGBA(0, 0, 0, opaqueFillAlpha)
		outline.Fill(layer)
	}
	caster := layer.Image().(*image.RGBA)

	// Only the image rectangle carries non transparent pixels.
	castRect := image.Rectangle{Min: at, Max: at.Add(rect.Size())}
	silhouette := image.NewNRGBA(caster.Bounds())
	op := imop.InitOp()
	if err := op.Set(imop.SrcIn); err != nil {
		return err
	}
	op.Draw(silhouette, image.NewUniform(color.NRGBA{A: uint8(math.Round(s.alpha() * 255))}), caster.SubImage(castRect))

	blurred := imaging.Blur(silhouette, sigma)

	Logger().Debug("shadow",
		"branch", branch.String(),
		"layer", fmt.Sprintf("%dx%d", area.Dx(), area.Dy()),
		"sigma", sigma,
		"offsetY", s.OffsetY,
		"opacity", s.Opacity,
	)

	// Both layers are moved into canvas coordinates and composed in place.
	shadow := &image.NRGBA{Pix: blurred.Pix, Stride: blurred.Stride,
		Rect: blurred.Rect.Add(area.Min.Add(image.Pt(0, s.OffsetY)))}
	cast := &image.RGBA{Pix: caster.Pix, Stride: caster.Stride, Rect: caster.Rect.Add(area.Min)}

	if err := op.Set(imop.SrcOver); err != nil {
		return err
	}
	op.Draw(dst, shadow, dst)
	op.Draw(dst, cast, dst)
	return nil
}
