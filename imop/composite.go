// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// The image/draw core package implements only the source-over-destination and source operators;
// the shadow compositor additionally needs source-in to tint a silhouette with the shadow color.
package imop

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
)

// Supported composite operations.
const (
	SrcOver = "src_over"
	SrcIn   = "src_in"
)

var ops = []string{SrcOver, SrcIn}

// ErrUnsupportedOp is returned when an unknown composite operation is requested.
var ErrUnsupportedOp = errors.New("unsupported composite operation")

// Composite holds the currently active composite operation.
type Composite struct {
	current string
}

// InitOp initializes a new composite operation, defaulting to source-over.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composite operations.
func (op *Composite) Set(cop string) error {
	for _, o := range ops {
		if o == cop {
			op.current = cop
			return nil
		}
	}
	return errors.Wrap(ErrUnsupportedOp, cop)
}

// Draw composites src over the backdrop and writes the result into dst.
// The three images are addressed with the same coordinates; only the
// intersection of their bounds is written. dst may be the backdrop itself.
func (op *Composite) Draw(dst draw.Image, src, backdrop image.Image) {
	r := dst.Bounds().Intersect(src.Bounds()).Intersect(backdrop.Bounds())
	if r.Empty() {
		return
	}
	readSrc, readBackdrop, write := reader(src), reader(backdrop), writer(dst)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			rs, gs, bs, as := readSrc(x, y)
			rb, gb, bb, ab := readBackdrop(x, y)

			var fs, fb uint32 // Porter-Duff fractions, scaled to 0xffff.
			switch op.current {
			case SrcOver:
				fs, fb = 0xffff, 0xffff-as
			case SrcIn:
				fs, fb = ab, 0
			}

			write(x, y,
				(rs*fs+rb*fb)/0xffff,
				(gs*fs+gb*fb)/0xffff,
				(bs*fs+bb*fb)/0xffff,
				(as*fs+ab*fb)/0xffff,
			)
		}
	}
}

// pixelReader returns the premultiplied 16 bit components of the pixel at (x, y).
type pixelReader func(x, y int) (r, g, b, a uint32)

// pixelWriter stores premultiplied 16 bit components at (x, y).
type pixelWriter func(x, y int, r, g, b, a uint32)

// reader walks the pixel buffer of the common image types directly and
// falls back to At for the others.
func reader(img image.Image) pixelReader {
	switch m := img.(type) {
	case *image.Uniform:
		r, g, b, a := m.C.RGBA()
		return func(int, int) (uint32, uint32, uint32, uint32) {
			return r, g, b, a
		}
	case *image.RGBA:
		return func(x, y int) (uint32, uint32, uint32, uint32) {
			i := m.PixOffset(x, y)
			s := m.Pix[i : i+4 : i+4]
			return uint32(s[0]) * 0x101, uint32(s[1]) * 0x101, uint32(s[2]) * 0x101, uint32(s[3]) * 0x101
		}
	case *image.NRGBA:
		return func(x, y int) (uint32, uint32, uint32, uint32) {
			i := m.PixOffset(x, y)
			s := m.Pix[i : i+4 : i+4]
			a := uint32(s[3])
			return uint32(s[0]) * 0x101 * a / 0xff,
				uint32(s[1]) * 0x101 * a / 0xff,
				uint32(s[2]) * 0x101 * a / 0xff,
				a * 0x101
		}
	}
	return func(x, y int) (uint32, uint32, uint32, uint32) {
		return img.At(x, y).RGBA()
	}
}

// writer mirrors the color model conversion of the destination image.
func writer(img draw.Image) pixelWriter {
	switch m := img.(type) {
	case *image.RGBA:
		return func(x, y int, r, g, b, a uint32) {
			i := m.PixOffset(x, y)
			s := m.Pix[i : i+4 : i+4]
			s[0], s[1], s[2], s[3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
		}
	case *image.NRGBA:
		return func(x, y int, r, g, b, a uint32) {
			i := m.PixOffset(x, y)
			s := m.Pix[i : i+4 : i+4]
			switch a {
			case 0:
				s[0], s[1], s[2], s[3] = 0, 0, 0, 0
			case 0xffff:
				s[0], s[1], s[2], s[3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), 0xff
			default:
				s[0] = uint8((r * 0xffff / a) >> 8)
				s[1] = uint8((g * 0xffff / a) >> 8)
				s[2] = uint8((b * 0xffff / a) >> 8)
				s[3] = uint8(a >> 8)
			}
		}
	}
	return func(x, y int, r, g, b, a uint32) {
		img.Set(x, y, color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)})
	}
}
