package backdrop

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/esimov/backdrop/utils"
)

// Surface limits matching the canvas size caps of common browsers.
const (
	DefaultMaxSurfaceDim  = 32767
	DefaultMaxSurfaceArea = 268435456
)

// Renderer is implemented by anything able to decorate a source image.
// The Scheduler drives a Renderer.
type Renderer interface {
	Render(ctx context.Context, src []byte, style Style) (*image.RGBA, error)
}

var _ Renderer = (*Processor)(nil)

// Processor options. The zero value renders with the default surface limits
// and the automatic shadow mode.
type Processor struct {
	MaxSurfaceDim  int
	MaxSurfaceArea int
	ShadowMode     ShadowMode
}

// Render decorates src with the provided style. It is a shorthand for
// rendering with a zero value Processor.
func Render(ctx context.Context, src []byte, style Style) (*image.RGBA, error) {
	return (&Processor{}).Render(ctx, src, style)
}

// Render is the main entry point of the renderer. It decodes src and returns
// a new (W+2p)x(H+2p) buffer holding the background, the optional drop shadow
// and the image clipped to a rounded rectangle at (padding, padding).
//
// The call is self contained: neither src nor style are retained or mutated,
// so concurrent renders are safe.
func (p *Processor) Render(ctx context.Context, src []byte, style Style) (*image.RGBA, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	img, err := decodeImg(src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.compose(ctx, img, style)
}

// Process reads the source image from r, renders it and encodes the result
// as PNG into w. Any io.Reader and io.Writer can be used, files and pipes alike.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer, style Style) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "could not read the source image")
	}
	img, err := p.Render(ctx, src, style)
	if err != nil {
		return err
	}
	return encodeImg(w, img)
}

func (p *Processor) compose(ctx context.Context, img *image.NRGBA, style Style) (out *image.RGBA, err error) {
	step := "surface"
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			out, err = nil, &CompositionError{Step: step, Err: cause}
		}
	}()
	start := time.Now()

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cw, ch := w+2*style.Padding, h+2*style.Padding

	dc, err := p.surface(cw, ch)
	if err != nil {
		return nil, err
	}
	dst, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, &CompositionError{Step: step, Err: errors.New("unexpected surface pixel format")}
	}

	step = "background"
	dc.SetFillStyle(ResolveBackground(style.Background, cw, ch).Pattern())
	dc.DrawRectangle(0, 0, float64(cw), float64(ch))
	dc.Fill()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rect := image.Rect(style.Padding, style.Padding, style.Padding+w, style.Padding+h)
	radius := float64(style.Radius)

	step = "shadow"
	if branch := selectShadowBranch(img, style.Shadow, p.ShadowMode); branch != shadowNone {
		if err := p.drawShadow(dst, img, rect, radius, style.Shadow, branch); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	step = "image"
	dc.Push()
	RoundedRect(float64(rect.Min.X), float64(rect.Min.Y), float64(w), float64(h), radius).Clip(dc)
	dc.DrawImage(img, rect.Min.X, rect.Min.Y)
	dc.Pop()

	Logger().Debug("rendered",
		"source", fmt.Sprintf("%dx%d", w, h),
		"output", fmt.Sprintf("%dx%d", cw, ch),
		"padding", style.Padding,
		"radius", style.Radius,
		"elapsed", utils.FormatTime(time.Since(start)),
	)
	return dst, nil
}

// surface acquires a transparent RGBA render target of the given size.
func (p *Processor) surface(width, height int) (*gg.Context, error) {
	if err := p.checkSurface(width, height); err != nil {
		return nil, err
	}
	return gg.NewContext(width, height), nil
}

// checkSurface applies the surface limits to every buffer allocated while
// rendering, the output canvas and the shadow layer alike.
func (p *Processor) checkSurface(width, height int) error {
	maxDim, maxArea := p.MaxSurfaceDim, p.MaxSurfaceArea
	if maxDim <= 0 {
		maxDim = DefaultMaxSurfaceDim
	}
	if maxArea <= 0 {
		maxArea = DefaultMaxSurfaceArea
	}

	switch {
	case width <= 0 || height <= 0:
		return &SurfaceUnavailableError{Width: width, Height: height, Err: errors.New("empty surface")}
	case width > maxDim || height > maxDim:
		return &SurfaceUnavailableError{Width: width, Height: height,
			Err: errors.Errorf("a side exceeds the %d px limit", maxDim)}
	case int64(width)*int64(height) > int64(maxArea):
		return &SurfaceUnavailableError{Width: width, Height: height,
			Err: errors.Errorf("area exceeds the %d px limit", maxArea)}
	}
	return nil
}
