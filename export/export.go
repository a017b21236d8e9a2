// Package export delivers rendered screenshots: PNG files saved under the
// download naming convention and PNG images copied to the system clipboard.
package export

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Filename returns the download name of a screenshot exported at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("screenshot-%d.png", t.UnixMilli())
}

// Scale resizes img by factor with a Lanczos filter. A factor of 1, or one
// that is not positive, returns img untouched.
func Scale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := int(math.Max(1, math.Round(float64(b.Dx())*factor)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*factor)))

	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Encode writes img, scaled by factor, to w as a lossless PNG.
func Encode(w io.Writer, img image.Image, factor float64) error {
	return errors.Wrap(imaging.Encode(w, Scale(img, factor), imaging.PNG), "could not encode the PNG image")
}

// Downloader saves exports into a directory.
type Downloader struct {
	Dir   string
	Scale float64
	// Now defaults to time.Now.
	Now func() time.Time
}

// Download writes img into the download directory and returns the file path.
func (d *Downloader) Download(img image.Image) (string, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "could not create the download directory %s", dir)
	}

	path := filepath.Join(dir, Filename(now()))
	if err := imaging.Save(Scale(img, d.Scale), path); err != nil {
		return "", errors.Wrapf(err, "could not save %s", path)
	}
	return path, nil
}
