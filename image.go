package backdrop

import (
	"bytes"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// Extra decoders on top of the jpeg, png and gif ones registered by imaging.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/esimov/backdrop/utils"
)

// decodeImg decodes the source bytes, honoring the EXIF orientation the way
// browsers do when they load an image.
func decodeImg(src []byte) (*image.NRGBA, error) {
	if len(src) == 0 {
		return nil, &DecodeError{Err: errors.New("empty image data")}
	}
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{ContentType: utils.DetectContentType(src), Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &DecodeError{Err: errors.New("image has no pixels")}
	}
	return imaging.Clone(img), nil
}

// encodeImg writes img to w as a lossless PNG.
func encodeImg(w io.Writer, img image.Image) error {
	return errors.Wrap(imaging.Encode(w, img, imaging.PNG), "could not encode the PNG image")
}

// hasTransparency reports whether any pixel of img is not fully opaque.
func hasTransparency(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X-1, y)+4]
		for i := 3; i < len(row); i += 4 {
			if row[i] < 0xff {
				return true
			}
		}
	}
	return false
}
